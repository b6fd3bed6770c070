// Package obo provides Gene Ontology OBO flat-file loading functionality.
package obo

// Relationship is a directed edge from a term toward a more general term.
type Relationship struct {
	Type     string // e.g. "is_a", "part_of"
	TargetID string
}

// Term is a single [Term] stanza from an OBO file.
// Terms are produced by the parser and immutable afterwards.
type Term struct {
	ID            string
	Name          string
	Namespace     string
	Obsolete      bool
	AltIDs        []string
	Relationships []Relationship
}

// Usable reports whether the term carries enough data to enter the graph.
// Obsolete terms and terms missing id, name or namespace are dropped.
func (t *Term) Usable() bool {
	return t.ID != "" && t.Name != "" && t.Namespace != "" && !t.Obsolete
}
