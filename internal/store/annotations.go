package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/hpnet/hpsim/internal/genemap"
)

// SaveAnnotations replaces the stored gene→term annotations for one
// (species, role) combination. Terms are stored as a pipe-joined string,
// matching the raw lookup shape consumed by the scorer.
func (s *Store) SaveAnnotations(species, role string, genes map[string][]string) error {
	if _, err := s.db.Exec(
		`DELETE FROM gene_annotations WHERE species = ? AND role = ?`,
		species, role,
	); err != nil {
		return fmt.Errorf("clear annotations: %w", err)
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "gene_annotations")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for gene, terms := range genes {
		if err := appender.AppendRow(species, role, gene, strings.Join(terms, "|")); err != nil {
			return fmt.Errorf("append annotation: %w", err)
		}
	}

	return appender.Flush()
}

// TermsFor returns the term sets annotated to the given genes for one
// (species, role) combination. A nil or empty gene list returns every gene
// stored for that combination. Genes with an empty stored term string come
// back with no terms, which excludes them from scoring.
func (s *Store) TermsFor(species, role string, genes []string) (map[string][]string, error) {
	query := `SELECT gene, terms FROM gene_annotations WHERE species = ? AND role = ?`
	args := []any{species, role}

	if len(genes) > 0 {
		placeholders := strings.Repeat("?,", len(genes))
		query += ` AND gene IN (` + placeholders[:len(placeholders)-1] + `)`
		for _, g := range genes {
			args = append(args, g)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query annotations: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var gene, raw string
		if err := rows.Scan(&gene, &raw); err != nil {
			return nil, fmt.Errorf("scan annotation: %w", err)
		}
		out[gene] = genemap.SplitTerms(raw)
	}
	return out, rows.Err()
}
