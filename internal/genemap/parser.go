// Package genemap parses gene-to-GO-term mapping files.
//
// The expected format is one gene per line: the gene identifier, a tab, and
// a pipe-delimited list of GO term ids, e.g.
//
//	TP53	GO:0006915|GO:0008285
//
// Lines starting with '#' are comments. Files may be gzip compressed.
package genemap

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Parser reads gene→term mappings from a file.
type Parser struct {
	file       *os.File
	gzipReader *gzip.Reader
	reader     *bufio.Scanner
}

// NewParser opens a mapping file. Gzipped files are detected by the .gz
// suffix. Use "-" for stdin.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return newParserFromReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gene map file: %w", err)
	}

	p := &Parser{file: file}

	var r io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		p.gzipReader = gz
		r = gz
	}

	p.reader = bufio.NewScanner(r)
	return p, nil
}

func newParserFromReader(r io.Reader) *Parser {
	return &Parser{reader: bufio.NewScanner(r)}
}

// ReadAll parses the whole file into a gene→terms map. A gene listed with
// no terms is kept with a nil slice; the scorer excludes it from scoring.
func (p *Parser) ReadAll() (map[string][]string, error) {
	genes := make(map[string][]string)

	for p.reader.Scan() {
		line := strings.TrimSpace(p.reader.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		gene, raw, _ := strings.Cut(line, "\t")
		gene = strings.TrimSpace(gene)
		if gene == "" {
			continue
		}
		genes[gene] = SplitTerms(raw)
	}

	if err := p.reader.Err(); err != nil {
		return nil, fmt.Errorf("read gene map: %w", err)
	}
	return genes, nil
}

// Close releases the underlying file handles.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// SplitTerms splits a raw pipe-delimited term string into trimmed term ids,
// dropping empty entries. Returns nil for a blank string.
func SplitTerms(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var terms []string
	for _, t := range strings.Split(raw, "|") {
		t = strings.TrimSpace(t)
		if t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// ReadFile is a convenience wrapper: open, ReadAll, close.
func ReadFile(path string) (map[string][]string, error) {
	p, err := NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.ReadAll()
}
