package semsim

import "github.com/hpnet/hpsim/internal/ontology"

// Aggregator combines pairwise term similarities across two gene-level term
// sets into one score. The boolean result is false when no pair in the
// cross-product has a defined similarity.
type Aggregator func(g *ontology.Graph, a, b []string, m Metric) (float64, bool)

// MaxAggregate returns the maximum defined pairwise similarity over the
// full cross-product.
func MaxAggregate(g *ontology.Graph, a, b []string, m Metric) (float64, bool) {
	best := 0.0
	found := false
	for _, ta := range a {
		for _, tb := range b {
			v, ok := m(g, ta, tb)
			if !ok {
				continue
			}
			if !found || v > best {
				best = v
				found = true
			}
		}
	}
	return best, found
}

// AvgAggregate returns the arithmetic mean of all defined pairwise
// similarities.
func AvgAggregate(g *ontology.Graph, a, b []string, m Metric) (float64, bool) {
	sum := 0.0
	n := 0
	for _, ta := range a {
		for _, tb := range b {
			v, ok := m(g, ta, tb)
			if !ok {
				continue
			}
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// BMAAggregate is the best-match average: each term contributes its best
// defined similarity against the opposite set, in both directions, and the
// result is the mean of all contributions. Terms with no defined similarity
// against the whole opposite set are skipped.
func BMAAggregate(g *ontology.Graph, a, b []string, m Metric) (float64, bool) {
	sum := 0.0
	n := 0

	bestAgainst := func(t string, others []string, sim func(x, y string) (float64, bool)) (float64, bool) {
		best := 0.0
		found := false
		for _, o := range others {
			v, ok := sim(t, o)
			if !ok {
				continue
			}
			if !found || v > best {
				best = v
				found = true
			}
		}
		return best, found
	}

	for _, ta := range a {
		if v, ok := bestAgainst(ta, b, func(x, y string) (float64, bool) { return m(g, x, y) }); ok {
			sum += v
			n++
		}
	}
	for _, tb := range b {
		if v, ok := bestAgainst(tb, a, func(x, y string) (float64, bool) { return m(g, y, x) }); ok {
			sum += v
			n++
		}
	}

	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
