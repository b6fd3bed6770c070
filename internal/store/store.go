// Package store provides DuckDB-backed persistence for gene annotations and
// computed similarity results. Annotations are keyed by (species, role,
// gene); results are append-only under an opaque result-set id.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS gene_annotations (
			species VARCHAR,
			role VARCHAR,
			gene VARCHAR,
			terms VARCHAR,
			PRIMARY KEY (species, role, gene)
		)`,
		`CREATE TABLE IF NOT EXISTS result_sets (
			id VARCHAR PRIMARY KEY,
			method VARCHAR,
			aggregation VARCHAR,
			threshold DOUBLE,
			created_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS similarity_results (
			result_set VARCHAR,
			host_gene VARCHAR,
			pathogen_gene VARCHAR,
			host_terms VARCHAR,
			pathogen_terms VARCHAR,
			score DOUBLE,
			no_hits BOOLEAN
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
