// Package output provides result output formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hpnet/hpsim/internal/semsim"
)

// TabWriter writes scored gene pairs in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Host_gene",
			"Pathogen_gene",
			"Host_terms",
			"Pathogen_terms",
			"Score",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single scored pair.
func (tw *TabWriter) Write(p semsim.ScoredPair) error {
	_, err := fmt.Fprintf(tw.w, "%s\t%s\t%s\t%s\t%.3f\n",
		p.HostGene,
		p.PathogenGene,
		strings.Join(p.HostTerms, "|"),
		strings.Join(p.PathogenTerms, "|"),
		p.Score)
	return err
}

// Flush flushes buffered output.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
