package semsim

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hpnet/hpsim/internal/ontology"
)

// GeneTerms maps a gene identifier to its annotated GO term ids.
type GeneTerms map[string][]string

// ScoredPair is one host gene / pathogen gene combination whose aggregate
// similarity met the threshold. Pairs are handed to the caller for
// persistence; the engine does not retain them.
type ScoredPair struct {
	HostGene      string
	PathogenGene  string
	HostTerms     []string
	PathogenTerms []string
	Score         float64
}

// Input validation errors; surfaced before any computation, never retried.
var (
	ErrUnknownMethod      = errors.New("unknown similarity method")
	ErrUnknownAggregation = errors.New("unknown aggregation")
	ErrMissingGeneTerms   = errors.New("host and pathogen gene term maps are required")
)

var metrics = map[string]Metric{
	"resnik": Resnik,
	"lin":    Lin,
	"wang":   Wang,
	"pekar":  Pekar,
}

var aggregators = map[string]Aggregator{
	"max": MaxAggregate,
	"avg": AvgAggregate,
	"bma": BMAAggregate,
}

// MetricByName returns the metric for a case-insensitive name.
func MetricByName(name string) (Metric, error) {
	m, ok := metrics[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
	return m, nil
}

// AggregatorByName returns the aggregator for a case-insensitive name.
func AggregatorByName(name string) (Aggregator, error) {
	a, ok := aggregators[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAggregation, name)
	}
	return a, nil
}

// Scorer is the public entry point for gene-pair similarity scoring.
type Scorer struct {
	provider *ontology.Provider
	logger   *zap.Logger
}

// NewScorer creates a scorer that obtains the shared ontology graph from
// the given provider.
func NewScorer(p *ontology.Provider) *Scorer {
	return &Scorer{
		provider: p,
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for progress and diagnostic messages.
func (s *Scorer) SetLogger(l *zap.Logger) {
	s.logger = l
}

// ComputeSimilarity scores every host gene × pathogen gene pair with the
// chosen metric and aggregation, keeping pairs whose aggregate score is
// defined and at or above threshold. Genes with empty term sets are skipped
// without scoring. Host genes, then pathogen genes, are visited in sorted
// order so results are deterministic.
//
// Scoring is synchronous and CPU-bound; a call either returns the full
// result list or an error, never partial results.
func (s *Scorer) ComputeSimilarity(ctx context.Context, host, pathogen GeneTerms, method, aggregation string, threshold float64) ([]ScoredPair, error) {
	if host == nil || pathogen == nil {
		return nil, ErrMissingGeneTerms
	}

	metric, err := MetricByName(method)
	if err != nil {
		return nil, err
	}
	agg, err := AggregatorByName(aggregation)
	if err != nil {
		return nil, err
	}

	g, err := s.provider.Graph(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ontology graph: %w", err)
	}

	hostGenes := sortedGenes(host)
	pathogenGenes := sortedGenes(pathogen)

	s.logger.Info("scoring gene pairs",
		zap.Int("host_genes", len(hostGenes)),
		zap.Int("pathogen_genes", len(pathogenGenes)),
		zap.String("method", strings.ToLower(method)),
		zap.String("aggregation", strings.ToLower(aggregation)),
		zap.Float64("threshold", threshold))

	var pairs []ScoredPair
	for _, hg := range hostGenes {
		hTerms := host[hg]
		if len(hTerms) == 0 {
			continue
		}
		for _, pg := range pathogenGenes {
			pTerms := pathogen[pg]
			if len(pTerms) == 0 {
				continue
			}

			score, ok := agg(g, hTerms, pTerms, metric)
			if !ok || score < threshold {
				continue
			}

			pairs = append(pairs, ScoredPair{
				HostGene:      hg,
				PathogenGene:  pg,
				HostTerms:     hTerms,
				PathogenTerms: pTerms,
				Score:         score,
			})
		}
	}

	s.logger.Info("scoring complete", zap.Int("pairs_kept", len(pairs)))

	return pairs, nil
}

func sortedGenes(m GeneTerms) []string {
	genes := make([]string, 0, len(m))
	for g := range m {
		genes = append(genes, g)
	}
	sort.Strings(genes)
	return genes
}
