package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const selectRun = `
	SELECT id, seq, sources, entry, expr, max_steps, depth,
	       outcome, result, result_digest, error_message,
	       applications, expansions, allocations,
	       engine_version, ir_version
	FROM runs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		r       Run
		sources string
	)
	err := row.Scan(
		&r.ID, &r.Seq, &sources, &r.Entry, &r.Expr, &r.MaxSteps, &r.Depth,
		&r.Outcome, &r.Result, &r.ResultDigest, &r.ErrorMessage,
		&r.Applications, &r.Expansions, &r.Allocations,
		&r.EngineVersion, &r.IRVersion,
	)
	if err != nil {
		return Run{}, err
	}
	r.Sources, err = unmarshalSources(sources)
	return r, err
}

// GetRun returns the run with the given ID, or ErrNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx, selectRun+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return r, nil
}

// ListRuns returns the most recent runs in ascending seq order.
// limit <= 0 returns every run.
// Returns empty slice (not nil) if there are no runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := selectRun + ` ORDER BY seq DESC, id COLLATE BINARY DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	return runs, nil
}

// LatestSeq returns the highest assigned seq, or 0 for an empty log.
func (s *Store) LatestSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("latest seq: %w", err)
	}
	return seq, nil
}
