// Package semsim implements graph-based semantic-similarity metrics over
// the Gene Ontology DAG and the gene-level scoring built on them.
package semsim

import (
	"math"
	"sort"

	"github.com/hpnet/hpsim/internal/ontology"
)

// Metric is a pairwise term-similarity function. The boolean result is
// false when the similarity is undefined for the pair (no common ancestor,
// missing information content, zero denominator); undefined values are
// silently skipped by the aggregators, never surfaced as errors.
type Metric func(g *ontology.Graph, t1, t2 string) (float64, bool)

// LowestCommonAncestor returns the most specific common ancestor of two
// terms: the candidate with the smallest lower bound, ties broken by
// lexicographically smallest id so results do not depend on map iteration
// order. Candidates are the ancestor intersection plus either term when it
// is an ancestor of (or equal to) the other.
func LowestCommonAncestor(g *ontology.Graph, t1, t2 string) (string, bool) {
	a, ok := g.Resolve(t1)
	if !ok {
		return "", false
	}
	b, ok := g.Resolve(t2)
	if !ok {
		return "", false
	}

	ancA := g.Ancestors(a)
	ancB := g.Ancestors(b)

	candidates := make(map[string]struct{})
	if _, ok := ancA[b]; ok {
		candidates[b] = struct{}{}
	}
	if _, ok := ancB[a]; ok {
		candidates[a] = struct{}{}
	}
	if a == b {
		candidates[a] = struct{}{}
	}
	for id := range ancA {
		if _, ok := ancB[id]; ok {
			candidates[id] = struct{}{}
		}
	}

	if len(candidates) == 0 {
		return "", false
	}

	ordered := make([]string, 0, len(candidates))
	for id := range candidates {
		ordered = append(ordered, id)
	}
	sort.Strings(ordered)

	best := ""
	bestLB := 0
	for _, id := range ordered {
		lb, ok := g.LowerBound(id)
		if !ok {
			continue // referenced but never defined as a term
		}
		if best == "" || lb < bestLB {
			best, bestLB = id, lb
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// Resnik is the information content of the lowest common ancestor.
func Resnik(g *ontology.Graph, t1, t2 string) (float64, bool) {
	lca, ok := LowestCommonAncestor(g, t1, t2)
	if !ok {
		return 0, false
	}
	return g.InformationContent(lca)
}

// Lin normalizes Resnik by the information content of the two terms:
// 2*Resnik / (IC(t1) + IC(t2)).
func Lin(g *ontology.Graph, t1, t2 string) (float64, bool) {
	r, ok := Resnik(g, t1, t2)
	if !ok {
		return 0, false
	}
	ic1, ok := g.InformationContent(t1)
	if !ok {
		return 0, false
	}
	ic2, ok := g.InformationContent(t2)
	if !ok {
		return 0, false
	}
	denom := ic1 + ic2
	if denom == 0 {
		return 0, false
	}
	return round3(2 * r / denom), true
}

// Pekar relates the depth of the common ancestor below the root to the
// combined path lengths: rootc / (ac + bc + rootc), where ac and bc are the
// child-edge distances from the common ancestor to each term and rootc the
// distance from the (approximated) ontology root down to the ancestor.
func Pekar(g *ontology.Graph, t1, t2 string) (float64, bool) {
	m, ok := LowestCommonAncestor(g, t1, t2)
	if !ok {
		return 0, false
	}

	ac, ok := g.ShortestPath(m, t1)
	if !ok {
		return 0, false
	}
	bc, ok := g.ShortestPath(m, t2)
	if !ok {
		return 0, false
	}

	root, ok := approximateRoot(g, m)
	if !ok {
		return 0, false
	}
	rootc, ok := g.ShortestPath(root, m)
	if !ok {
		return 0, false
	}

	denom := float64(ac + bc + rootc)
	if denom == 0 {
		return 0, false
	}
	return round3(float64(rootc) / denom), true
}

// approximateRoot picks the member of ancestors(m) ∪ {m} with the largest
// lower bound, i.e. the most general reachable term. Ties broken by
// smallest id.
func approximateRoot(g *ontology.Graph, m string) (string, bool) {
	canon, ok := g.Resolve(m)
	if !ok {
		return "", false
	}

	ordered := []string{canon}
	for id := range g.Ancestors(canon) {
		ordered = append(ordered, id)
	}
	sort.Strings(ordered)

	best := ""
	bestLB := 0
	for _, id := range ordered {
		lb, ok := g.LowerBound(id)
		if !ok {
			continue
		}
		if best == "" || lb > bestLB {
			best, bestLB = id, lb
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// Wang compares the weighted semantic-contribution maps of the two terms:
// the summed S-values of their shared ancestors over the total semantic
// value of both terms.
func Wang(g *ontology.Graph, t1, t2 string) (float64, bool) {
	s1 := g.SValues(t1)
	s2 := g.SValues(t2)
	if s1 == nil || s2 == nil {
		return 0, false
	}

	var sv1, sv2 float64
	for _, v := range s1 {
		sv1 += v
	}
	for _, v := range s2 {
		sv2 += v
	}
	denom := sv1 + sv2
	if denom == 0 {
		return 0, false
	}

	var shared float64
	for id, v1 := range s1 {
		if v2, ok := s2[id]; ok {
			shared += v1 + v2
		}
	}
	return round3(shared / denom), true
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
