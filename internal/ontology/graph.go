// Package ontology provides an in-memory DAG over Gene Ontology terms with
// memoized traversal primitives used by the similarity metrics.
package ontology

import (
	"errors"
	"math"
	"sync"

	"github.com/hpnet/hpsim/internal/obo"
)

// Edge is a directed edge toward a more general term.
type Edge struct {
	ID   string
	Type string // relation type, e.g. "is_a", "part_of"
}

// Wang semantic-contribution weights per relation type. Other relation
// types do not propagate.
const (
	WeightIsA    = 0.8
	WeightPartOf = 0.6
)

// ErrGraphTooSmall is returned when the parsed ontology yields fewer than
// two usable nodes, which means the source is unusable.
var ErrGraphTooSmall = errors.New("ontology graph has fewer than 2 nodes")

// Graph is the term DAG. It is built once and read-only afterwards; the
// memoization caches are guarded by a mutex so concurrent scoring calls can
// share one graph.
//
// The graph trusts its source to be acyclic. Traversals are visited-guarded,
// so a malformed cyclic input terminates instead of hanging, but no cycle
// detection or rejection is performed.
type Graph struct {
	nodes    map[string]struct{}
	parents  map[string][]Edge
	children map[string][]string
	altIDs   map[string]string
	total    int

	mu          sync.Mutex
	ancestors   map[string]map[string]struct{}
	descendants map[string]map[string]struct{}
	lowerBounds map[string]int
	svalues     map[string]map[string]float64
	paths       map[pathKey]int // -1 records an unreachable pair
}

type pathKey struct {
	from, to string
}

// Build constructs the graph from parsed OBO terms. Obsolete terms and
// terms missing id, name or namespace are discarded. Every id referenced as
// a relationship target gets adjacency entries even if it never appears as
// a stanza, so lookups never miss.
func Build(terms []obo.Term) (*Graph, error) {
	g := &Graph{
		nodes:       make(map[string]struct{}),
		parents:     make(map[string][]Edge),
		children:    make(map[string][]string),
		altIDs:      make(map[string]string),
		ancestors:   make(map[string]map[string]struct{}),
		descendants: make(map[string]map[string]struct{}),
		lowerBounds: make(map[string]int),
		svalues:     make(map[string]map[string]float64),
		paths:       make(map[pathKey]int),
	}

	for i := range terms {
		t := &terms[i]
		if !t.Usable() {
			continue
		}
		g.addTerm(t)
	}

	if len(g.nodes) < 2 {
		return nil, ErrGraphTooSmall
	}
	g.total = len(g.nodes)

	return g, nil
}

func (g *Graph) addTerm(t *obo.Term) {
	g.nodes[t.ID] = struct{}{}
	g.touch(t.ID)

	for _, alt := range t.AltIDs {
		g.altIDs[alt] = t.ID
	}

	for _, rel := range t.Relationships {
		g.touch(rel.TargetID)
		g.addParent(t.ID, Edge{ID: rel.TargetID, Type: rel.Type})
		g.addChild(rel.TargetID, t.ID)
	}
}

// touch guarantees adjacency entries exist for id.
func (g *Graph) touch(id string) {
	if _, ok := g.parents[id]; !ok {
		g.parents[id] = nil
	}
	if _, ok := g.children[id]; !ok {
		g.children[id] = nil
	}
}

// addParent appends an edge, deduplicated by (target id, relation type).
func (g *Graph) addParent(id string, e Edge) {
	for _, have := range g.parents[id] {
		if have.ID == e.ID && have.Type == e.Type {
			return
		}
	}
	g.parents[id] = append(g.parents[id], e)
}

// addChild appends a child id, deduplicated by id alone.
func (g *Graph) addChild(id, child string) {
	for _, have := range g.children[id] {
		if have == child {
			return
		}
	}
	g.children[id] = append(g.children[id], child)
}

// TotalNodes returns the number of terms in the graph.
func (g *Graph) TotalNodes() int {
	return g.total
}

// Has reports whether id resolves to a term in the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.Resolve(id)
	return ok
}

// Resolve maps an identifier to its canonical term id: alt-id aliases are
// tried first, then the identifier itself. An unresolvable identifier makes
// every downstream operation yield its undefined result, never an error.
func (g *Graph) Resolve(id string) (string, bool) {
	if canon, ok := g.altIDs[id]; ok {
		return canon, true
	}
	if _, ok := g.nodes[id]; ok {
		return id, true
	}
	return "", false
}

// Parents returns the outgoing edges of a term toward more general terms.
func (g *Graph) Parents(id string) []Edge {
	canon, ok := g.Resolve(id)
	if !ok {
		return nil
	}
	return g.parents[canon]
}

// Children returns the ids of the direct children of a term.
func (g *Graph) Children(id string) []string {
	canon, ok := g.Resolve(id)
	if !ok {
		return nil
	}
	return g.children[canon]
}

// Ancestors returns the set of all term ids transitively reachable along
// parent edges, excluding the term itself. The result is memoized for the
// graph's lifetime; callers must not mutate it.
func (g *Graph) Ancestors(id string) map[string]struct{} {
	canon, ok := g.Resolve(id)
	if !ok {
		return nil
	}

	g.mu.Lock()
	if s, ok := g.ancestors[canon]; ok {
		g.mu.Unlock()
		return s
	}
	g.mu.Unlock()

	s := g.reachable(canon, func(n string) []string {
		edges := g.parents[n]
		out := make([]string, len(edges))
		for i, e := range edges {
			out[i] = e.ID
		}
		return out
	})

	g.mu.Lock()
	g.ancestors[canon] = s
	g.mu.Unlock()
	return s
}

// Descendants is the mirror of Ancestors over child edges.
func (g *Graph) Descendants(id string) map[string]struct{} {
	canon, ok := g.Resolve(id)
	if !ok {
		return nil
	}

	g.mu.Lock()
	if s, ok := g.descendants[canon]; ok {
		g.mu.Unlock()
		return s
	}
	g.mu.Unlock()

	s := g.reachable(canon, func(n string) []string { return g.children[n] })

	g.mu.Lock()
	g.descendants[canon] = s
	g.mu.Unlock()
	return s
}

// reachable collects all nodes transitively reachable from start, excluding
// start itself. Visited tracking keeps it terminating on cyclic input.
func (g *Graph) reachable(start string, next func(string) []string) map[string]struct{} {
	seen := map[string]struct{}{start: {}}
	queue := []string{start}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, m := range next(n) {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			queue = append(queue, m)
		}
	}

	delete(seen, start)
	return seen
}

// LowerBound estimates how many genes a term could annotate:
// |descendants| + 1. Used as the frequency proxy for information content.
func (g *Graph) LowerBound(id string) (int, bool) {
	canon, ok := g.Resolve(id)
	if !ok {
		return 0, false
	}

	g.mu.Lock()
	if lb, ok := g.lowerBounds[canon]; ok {
		g.mu.Unlock()
		return lb, true
	}
	g.mu.Unlock()

	lb := len(g.Descendants(canon)) + 1

	g.mu.Lock()
	g.lowerBounds[canon] = lb
	g.mu.Unlock()
	return lb, true
}

// InformationContent returns -log2(lowerBound/totalNodes) rounded to three
// decimals. Undefined when the term does not resolve or either quantity is
// unusable.
func (g *Graph) InformationContent(id string) (float64, bool) {
	lb, ok := g.LowerBound(id)
	if !ok || lb <= 0 || g.total <= 0 {
		return 0, false
	}
	return round3(-math.Log2(float64(lb) / float64(g.total))), true
}

// ShortestPath returns the unweighted breadth-first distance from a to b
// following child edges, so it is only defined when b is a descendant of a.
// Returns 0 when the two terms resolve to the same node and false when b is
// unreachable. Memoized per ordered pair, including unreachable results.
func (g *Graph) ShortestPath(a, b string) (int, bool) {
	ca, ok := g.Resolve(a)
	if !ok {
		return 0, false
	}
	cb, ok := g.Resolve(b)
	if !ok {
		return 0, false
	}
	if ca == cb {
		return 0, true
	}

	key := pathKey{from: ca, to: cb}
	g.mu.Lock()
	if d, ok := g.paths[key]; ok {
		g.mu.Unlock()
		if d < 0 {
			return 0, false
		}
		return d, true
	}
	g.mu.Unlock()

	dist := g.bfs(ca, cb)

	g.mu.Lock()
	g.paths[key] = dist
	g.mu.Unlock()

	if dist < 0 {
		return 0, false
	}
	return dist, true
}

// bfs returns the child-edge distance from start to target, or -1 when
// target is not reachable.
func (g *Graph) bfs(start, target string) int {
	type hop struct {
		id   string
		dist int
	}
	seen := map[string]struct{}{start: {}}
	queue := []hop{{id: start, dist: 0}}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, child := range g.children[n.id] {
			if child == target {
				return n.dist + 1
			}
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			queue = append(queue, hop{id: child, dist: n.dist + 1})
		}
	}
	return -1
}

// SValues returns the Wang semantic-contribution map for a term: every
// member of ancestors(t) ∪ {t} mapped to its S-value. The term itself has
// S-value 1; a parent receives child_S × edge_weight and keeps the maximum
// contribution over all child paths. Memoized per term; callers must not
// mutate the result.
func (g *Graph) SValues(id string) map[string]float64 {
	canon, ok := g.Resolve(id)
	if !ok {
		return nil
	}

	g.mu.Lock()
	if s, ok := g.svalues[canon]; ok {
		g.mu.Unlock()
		return s
	}
	g.mu.Unlock()

	s := map[string]float64{canon: 1}
	queue := []string{canon}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, e := range g.parents[n] {
			w := edgeWeight(e.Type)
			if w == 0 {
				continue
			}
			contrib := s[n] * w
			if contrib > s[e.ID] {
				// Re-queue on improvement so downstream ancestors see
				// the stronger path. Terminates on a DAG since weights
				// are below 1.
				s[e.ID] = contrib
				queue = append(queue, e.ID)
			}
		}
	}

	g.mu.Lock()
	g.svalues[canon] = s
	g.mu.Unlock()
	return s
}

func edgeWeight(relType string) float64 {
	switch relType {
	case "is_a":
		return WeightIsA
	case "part_of":
		return WeightPartOf
	default:
		return 0
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
