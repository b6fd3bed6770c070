package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/hpnet/hpsim/internal/genemap"
	"github.com/hpnet/hpsim/internal/semsim"
)

// ResultMeta describes how a result set was computed.
type ResultMeta struct {
	Method      string
	Aggregation string
	Threshold   float64
}

// SaveResults appends a scored pair list under a freshly generated
// result-set id and returns that id as the retrieval handle. An empty list
// is recorded as a single sentinel row so the computation itself is still
// retrievable.
func (s *Store) SaveResults(meta ResultMeta, pairs []semsim.ScoredPair) (string, error) {
	id := uuid.NewString()

	if _, err := s.db.Exec(
		`INSERT INTO result_sets (id, method, aggregation, threshold, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, meta.Method, meta.Aggregation, meta.Threshold, time.Now(),
	); err != nil {
		return "", fmt.Errorf("insert result set: %w", err)
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return "", fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "similarity_results")
		return err
	}); err != nil {
		return "", fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	if len(pairs) == 0 {
		if err := appender.AppendRow(id, "", "", "", "", 0.0, true); err != nil {
			return "", fmt.Errorf("append sentinel row: %w", err)
		}
		return id, appender.Flush()
	}

	for _, p := range pairs {
		if err := appender.AppendRow(
			id,
			p.HostGene,
			p.PathogenGene,
			strings.Join(p.HostTerms, "|"),
			strings.Join(p.PathogenTerms, "|"),
			p.Score,
			false,
		); err != nil {
			return "", fmt.Errorf("append result row: %w", err)
		}
	}

	return id, appender.Flush()
}

// Results reads a result set back by its handle. The no-hits sentinel row
// is skipped, so an empty computation returns an empty list, not an error.
func (s *Store) Results(id string) ([]semsim.ScoredPair, error) {
	rows, err := s.db.Query(
		`SELECT host_gene, pathogen_gene, host_terms, pathogen_terms, score, no_hits
		 FROM similarity_results WHERE result_set = ?`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var pairs []semsim.ScoredPair
	for rows.Next() {
		var p semsim.ScoredPair
		var hostTerms, pathogenTerms string
		var noHits bool
		if err := rows.Scan(&p.HostGene, &p.PathogenGene, &hostTerms, &pathogenTerms, &p.Score, &noHits); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if noHits {
			continue
		}
		p.HostTerms = genemap.SplitTerms(hostTerms)
		p.PathogenTerms = genemap.SplitTerms(pathogenTerms)
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}
