package obo

import (
	"bufio"
	"io"
	"strings"
)

const scannerBufferSize = 1 << 20 // GO has some very long def lines

// Parse reads an OBO-format document and returns all [Term] stanzas.
// Stanzas of other kinds ([Typedef], [Instance]) are skipped. No filtering
// is applied here; obsolete or incomplete terms are dropped at graph build.
func Parse(r io.Reader) ([]Term, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, scannerBufferSize), scannerBufferSize)

	var terms []Term
	var cur *Term
	inTerm := false

	flush := func() {
		if cur != nil {
			terms = append(terms, *cur)
		}
		cur = nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Stanza boundary: track which stanza type is currently open.
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			flush()
			inTerm = line == "[Term]"
			if inTerm {
				cur = &Term{}
			}
			continue
		}

		if !inTerm || cur == nil || line == "" {
			continue
		}

		key, val, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}

		switch key {
		case "id":
			cur.ID = val
		case "name":
			cur.Name = val
		case "namespace":
			cur.Namespace = val
		case "is_obsolete":
			cur.Obsolete = val == "true"
		case "alt_id":
			cur.AltIDs = append(cur.AltIDs, val)
		case "is_a":
			cur.Relationships = append(cur.Relationships, Relationship{
				Type:     "is_a",
				TargetID: stripComment(val),
			})
		case "relationship":
			if rel, ok := parseRelationship(val); ok {
				cur.Relationships = append(cur.Relationships, rel)
			}
		}
	}
	flush()

	return terms, scanner.Err()
}

// stripComment removes a trailing " ! human readable name" comment.
func stripComment(val string) string {
	id, _, _ := strings.Cut(val, " ! ")
	return strings.TrimSpace(id)
}

// parseRelationship parses "part_of GO:0000785 ! chromatin".
// The first whitespace token is the relation type, the second the target id.
func parseRelationship(val string) (Relationship, bool) {
	fields := strings.Fields(stripComment(val))
	if len(fields) < 2 {
		return Relationship{}, false
	}
	return Relationship{Type: fields[0], TargetID: fields[1]}, true
}
