package semsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxAggregate(t *testing.T) {
	g := buildGraph(t, fixtureOBO)

	// Over a single pair, max equals the raw metric value.
	raw, ok := Resnik(g, "GO:0000004", "GO:0000005")
	require.True(t, ok)
	v, ok := MaxAggregate(g, []string{"GO:0000004"}, []string{"GO:0000005"}, Resnik)
	require.True(t, ok)
	assert.Equal(t, raw, v)

	// The best pair across the cross-product wins.
	v, ok = MaxAggregate(g, []string{"GO:0000002", "GO:0000004"}, []string{"GO:0000005"}, Resnik)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	// Undefined pairs only: no aggregate.
	_, ok = MaxAggregate(g, []string{"GO:0000006"}, []string{"GO:0000002"}, Resnik)
	assert.False(t, ok)
}

func TestAvgAggregate(t *testing.T) {
	g := buildGraph(t, fixtureOBO)

	// Resnik(2,5) = IC(1) = 0, Resnik(4,5) = IC(3) = 1; mean over the two
	// defined pairs.
	v, ok := AvgAggregate(g, []string{"GO:0000002", "GO:0000004"}, []string{"GO:0000005"}, Resnik)
	require.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-9)

	// Undefined pairs are excluded from the mean, not counted as zero.
	v, ok = AvgAggregate(g, []string{"GO:0000004", "GO:0000006"}, []string{"GO:0000005"}, Resnik)
	require.True(t, ok)
	assert.InDelta(t, 1.0, v, 1e-9)

	_, ok = AvgAggregate(g, []string{"GO:0000006"}, []string{"GO:0000002"}, Resnik)
	assert.False(t, ok)
}

func TestBMAAggregate(t *testing.T) {
	g := buildGraph(t, fixtureOBO)

	// Forward: 4 → best(Resnik(4,5)) = 1, 6 → skipped (nothing defined).
	// Reverse: 5 → best(Resnik(5,4), Resnik(5,6)) = 1.
	v, ok := BMAAggregate(g, []string{"GO:0000004", "GO:0000006"}, []string{"GO:0000005"}, Resnik)
	require.True(t, ok)
	assert.InDelta(t, 1.0, v, 1e-9)

	_, ok = BMAAggregate(g, []string{"GO:0000006"}, []string{"GO:0000002"}, Resnik)
	assert.False(t, ok)
}

func TestBMAAggregateSymmetric(t *testing.T) {
	g := buildGraph(t, fixtureOBO)

	a := []string{"GO:0000002", "GO:0000004"}
	b := []string{"GO:0000003", "GO:0000005", "GO:0000006"}

	for name, m := range map[string]Metric{"resnik": Resnik, "lin": Lin, "wang": Wang, "pekar": Pekar} {
		v1, ok1 := BMAAggregate(g, a, b, m)
		v2, ok2 := BMAAggregate(g, b, a, m)
		require.Equal(t, ok1, ok2, name)
		if ok1 {
			assert.InDelta(t, v1, v2, 1e-9, name)
		}
	}
}
