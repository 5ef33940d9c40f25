package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AppendRun writes a run to the log and assigns its seq.
// The seq is one past the current maximum, assigned in the same transaction
// as the insert. Appending an ID that already exists is a no-op and returns
// the stored row unchanged.
func (s *Store) AppendRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		return Run{}, fmt.Errorf("append run: empty id")
	}
	if run.Outcome == "" {
		return Run{}, fmt.Errorf("append run %s: empty outcome", run.ID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("append run: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	existing, err := scanRun(tx.QueryRowContext(ctx, selectRun+` WHERE id = ?`, run.ID))
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, sql.ErrNoRows):
		return Run{}, fmt.Errorf("append run %s: %w", run.ID, err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return Run{}, fmt.Errorf("append run %s: next seq: %w", run.ID, err)
	}
	run.Seq = seq

	sources, err := marshalSources(run.Sources)
	if err != nil {
		return Run{}, fmt.Errorf("append run %s: %w", run.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			id, seq, sources, entry, expr, max_steps, depth,
			outcome, result, result_digest, error_message,
			applications, expansions, allocations,
			engine_version, ir_version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, run.Seq, sources, run.Entry, run.Expr, run.MaxSteps, run.Depth,
		run.Outcome, run.Result, run.ResultDigest, run.ErrorMessage,
		run.Applications, run.Expansions, run.Allocations,
		run.EngineVersion, run.IRVersion,
	)
	if err != nil {
		return Run{}, fmt.Errorf("append run %s: %w", run.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("append run %s: commit: %w", run.ID, err)
	}
	return run, nil
}
