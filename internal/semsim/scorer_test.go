package semsim

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpnet/hpsim/internal/obo"
	"github.com/hpnet/hpsim/internal/ontology"
)

func fixtureProvider(t *testing.T, oboText string) *ontology.Provider {
	t.Helper()
	return ontology.NewProvider(func(ctx context.Context) (*ontology.Graph, error) {
		terms, err := obo.Parse(strings.NewReader(oboText))
		if err != nil {
			return nil, err
		}
		return ontology.Build(terms)
	})
}

func TestComputeSimilarityFixture(t *testing.T) {
	s := NewScorer(fixtureProvider(t, tinyOBO))

	host := GeneTerms{"H": {"GO:0000002"}}
	pathogen := GeneTerms{"P": {"GO:0000003"}}

	pairs, err := s.ComputeSimilarity(context.Background(), host, pathogen, "resnik", "max", 0)
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	p := pairs[0]
	assert.Equal(t, "H", p.HostGene)
	assert.Equal(t, "P", p.PathogenGene)
	assert.Equal(t, []string{"GO:0000002"}, p.HostTerms)
	assert.Equal(t, []string{"GO:0000003"}, p.PathogenTerms)
	assert.Equal(t, 0.0, p.Score)
}

func TestComputeSimilarityValidatesNames(t *testing.T) {
	s := NewScorer(fixtureProvider(t, tinyOBO))
	host := GeneTerms{"H": {"GO:0000002"}}
	pathogen := GeneTerms{"P": {"GO:0000003"}}

	_, err := s.ComputeSimilarity(context.Background(), host, pathogen, "jaccard", "max", 0)
	require.ErrorIs(t, err, ErrUnknownMethod)

	_, err = s.ComputeSimilarity(context.Background(), host, pathogen, "resnik", "median", 0)
	require.ErrorIs(t, err, ErrUnknownAggregation)

	_, err = s.ComputeSimilarity(context.Background(), nil, pathogen, "resnik", "max", 0)
	require.ErrorIs(t, err, ErrMissingGeneTerms)
}

func TestComputeSimilarityCaseInsensitiveNames(t *testing.T) {
	s := NewScorer(fixtureProvider(t, fixtureOBO))

	host := GeneTerms{"H": {"GO:0000004"}}
	pathogen := GeneTerms{"P": {"GO:0000005"}}

	lower, err := s.ComputeSimilarity(context.Background(), host, pathogen, "wang", "bma", 0)
	require.NoError(t, err)
	upper, err := s.ComputeSimilarity(context.Background(), host, pathogen, "WANG", "BMA", 0)
	require.NoError(t, err)

	assert.Equal(t, lower, upper)
}

func TestComputeSimilaritySkipsEmptyTermSets(t *testing.T) {
	s := NewScorer(fixtureProvider(t, tinyOBO))

	host := GeneTerms{
		"H1": {"GO:0000002"},
		"H2": {},  // explicit empty
		"H3": nil, // no terms at all
	}
	pathogen := GeneTerms{"P": {"GO:0000003"}}

	pairs, err := s.ComputeSimilarity(context.Background(), host, pathogen, "resnik", "max", 0)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "H1", pairs[0].HostGene)
}

func TestComputeSimilarityThreshold(t *testing.T) {
	s := NewScorer(fixtureProvider(t, fixtureOBO))

	host := GeneTerms{"H": {"GO:0000004"}}
	pathogen := GeneTerms{"P": {"GO:0000005"}}

	// Wang(GO:0000004, GO:0000005) == 0.489.
	pairs, err := s.ComputeSimilarity(context.Background(), host, pathogen, "wang", "max", 0.4)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, 0.489, pairs[0].Score)

	pairs, err = s.ComputeSimilarity(context.Background(), host, pathogen, "wang", "max", 0.5)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestComputeSimilarityUndefinedPairsOmitted(t *testing.T) {
	s := NewScorer(fixtureProvider(t, fixtureOBO))

	// The island term shares no ancestry, so Resnik is undefined for the
	// whole cross-product; the pair is silently dropped even at threshold 0.
	host := GeneTerms{"H": {"GO:0000006"}}
	pathogen := GeneTerms{"P": {"GO:0000002"}}

	pairs, err := s.ComputeSimilarity(context.Background(), host, pathogen, "resnik", "max", 0)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestComputeSimilarityDeterministicOrder(t *testing.T) {
	s := NewScorer(fixtureProvider(t, fixtureOBO))

	host := GeneTerms{
		"H2": {"GO:0000004"},
		"H1": {"GO:0000002"},
	}
	pathogen := GeneTerms{
		"P2": {"GO:0000005"},
		"P1": {"GO:0000003"},
	}

	pairs, err := s.ComputeSimilarity(context.Background(), host, pathogen, "wang", "bma", 0)
	require.NoError(t, err)
	require.Len(t, pairs, 4)

	var order []string
	for _, p := range pairs {
		order = append(order, p.HostGene+"/"+p.PathogenGene)
	}
	assert.Equal(t, []string{"H1/P1", "H1/P2", "H2/P1", "H2/P2"}, order)
}

func TestComputeSimilarityLoadFailure(t *testing.T) {
	loadErr := errors.New("ontology unavailable")
	p := ontology.NewProvider(func(ctx context.Context) (*ontology.Graph, error) {
		return nil, loadErr
	})
	s := NewScorer(p)

	host := GeneTerms{"H": {"GO:0000002"}}
	pathogen := GeneTerms{"P": {"GO:0000003"}}

	_, err := s.ComputeSimilarity(context.Background(), host, pathogen, "resnik", "max", 0)
	require.ErrorIs(t, err, loadErr)
}

func TestMetricByName(t *testing.T) {
	for _, name := range []string{"resnik", "Lin", "WANG", "pekar"} {
		m, err := MetricByName(name)
		require.NoError(t, err, name)
		assert.NotNil(t, m)
	}
	_, err := MetricByName("cosine")
	require.ErrorIs(t, err, ErrUnknownMethod)
}

func TestAggregatorByName(t *testing.T) {
	for _, name := range []string{"max", "AVG", "Bma"} {
		a, err := AggregatorByName(name)
		require.NoError(t, err, name)
		assert.NotNil(t, a)
	}
	_, err := AggregatorByName("sum")
	require.ErrorIs(t, err, ErrUnknownAggregation)
}
