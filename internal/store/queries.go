package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Run operations

// InsertRun records a run and its per-item outcomes in a single
// transaction and returns the new run ID.
func (s *Store) InsertRun(run *Run, outcomes []Outcome) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `
		INSERT INTO runs
		(started_at, mode, duration_ms, categories, removed, skipped, failed, refused, freed_bytes, interrupted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.Exec(query,
		run.StartedAt.Format(time.RFC3339),
		run.Mode,
		run.Duration.Milliseconds(),
		run.Categories,
		run.Removed,
		run.Skipped,
		run.Failed,
		run.Refused,
		run.FreedBytes,
		run.Interrupted,
	)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO run_outcomes (run_id, path, category, size_bytes, result, reason)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return 0, fmt.Errorf("failed to prepare outcome insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range outcomes {
		if _, err := stmt.Exec(id, o.Path, o.Category, o.SizeBytes, o.Result, o.Reason); err != nil {
			tx.Rollback() //nolint:errcheck
			return 0, fmt.Errorf("failed to insert outcome for %s: %w", o.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	run.ID = id
	return id, nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(id int64) (*Run, error) {
	query := `
		SELECT id, started_at, mode, duration_ms, categories, removed, skipped, failed, refused, freed_bytes, interrupted
		FROM runs
		WHERE id = ?
	`

	var run Run
	var startedAt string
	var durationMS int64

	err := s.db.QueryRow(query, id).Scan(
		&run.ID,
		&startedAt,
		&run.Mode,
		&durationMS,
		&run.Categories,
		&run.Removed,
		&run.Skipped,
		&run.Failed,
		&run.Refused,
		&run.FreedBytes,
		&run.Interrupted,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %d: %w", id, err)
	}

	run.StartedAt, err = time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at for run %d: %w", id, err)
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond

	return &run, nil
}

// ListRuns returns recorded runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	query := `
		SELECT id, started_at, mode, duration_ms, categories, removed, skipped, failed, refused, freed_bytes, interrupted
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`

	// SQLite treats a negative LIMIT as unlimited.
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		var startedAt string
		var durationMS int64

		err := rows.Scan(
			&run.ID,
			&startedAt,
			&run.Mode,
			&durationMS,
			&run.Categories,
			&run.Removed,
			&run.Skipped,
			&run.Failed,
			&run.Refused,
			&run.FreedBytes,
			&run.Interrupted,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}

		run.StartedAt, err = time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse started_at for run %d: %w", run.ID, err)
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond

		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// Outcome operations

// GetOutcomes returns the per-item outcomes of a run in insertion order.
func (s *Store) GetOutcomes(runID int64) ([]*Outcome, error) {
	query := `
		SELECT run_id, path, category, size_bytes, result, reason
		FROM run_outcomes
		WHERE run_id = ?
		ORDER BY id
	`

	rows, err := s.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get outcomes for run %d: %w", runID, err)
	}
	defer rows.Close()

	var outcomes []*Outcome
	for rows.Next() {
		var o Outcome

		err := rows.Scan(
			&o.RunID,
			&o.Path,
			&o.Category,
			&o.SizeBytes,
			&o.Result,
			&o.Reason,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outcome row: %w", err)
		}

		outcomes = append(outcomes, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outcomes: %w", err)
	}

	return outcomes, nil
}

// Aggregates

// RunCount returns the total number of runs recorded.
func (s *Store) RunCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}

// TotalFreed returns the number of bytes freed across all apply runs.
func (s *Store) TotalFreed() (int64, error) {
	var total int64
	err := s.db.QueryRow("SELECT COALESCE(SUM(freed_bytes), 0) FROM runs WHERE mode = 'apply'").Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum freed bytes: %w", err)
	}
	return total, nil
}
