package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uwfpm/readysync/internal/core/domain"
	"github.com/uwfpm/readysync/internal/core/ports/driven"
)

// runHistoryStore implements driven.RunHistoryStore.
type runHistoryStore struct {
	store *Store
}

var _ driven.RunHistoryStore = (*runHistoryStore)(nil)

// Record appends one run outcome.
func (s *runHistoryStore) Record(ctx context.Context, rec *domain.RunRecord) error {
	if rec.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO run_results
			(id, run_date, started_at, ended_at, open_count, closed_count,
			 failure_count, verified, baseline_advanced, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Date, rec.StartedAt.UTC(), rec.EndedAt.UTC(),
		rec.OpenCount, rec.ClosedCount, rec.FailureCount,
		boolToInt(rec.Verified), boolToInt(rec.BaselineAdvanced),
		nullString(rec.Error))

	if err != nil {
		return fmt.Errorf("saving run record: %w", err)
	}
	return nil
}

// List returns the most recent run records, newest first.
func (s *runHistoryStore) List(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, run_date, started_at, ended_at, open_count, closed_count,
		       failure_count, verified, baseline_advanced, error
		FROM run_results
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying run records: %w", err)
	}
	defer rows.Close()

	var records []domain.RunRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanRunRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run records: %w", err)
	}

	return records, nil
}

// Prune removes old records, keeping the most recent keep entries.
func (s *runHistoryStore) Prune(ctx context.Context, keep int) error {
	if keep < 0 {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM run_results WHERE id NOT IN (
			SELECT id FROM run_results
			ORDER BY started_at DESC, id DESC
			LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning run records: %w", err)
	}
	return nil
}

// scanRunRecord scans a run record from *sql.Rows.
func scanRunRecord(rows *sql.Rows) (*domain.RunRecord, error) {
	var rec domain.RunRecord
	var verified, baselineAdvanced int
	var errMsg sql.NullString

	if err := rows.Scan(&rec.ID, &rec.Date, &rec.StartedAt, &rec.EndedAt,
		&rec.OpenCount, &rec.ClosedCount, &rec.FailureCount,
		&verified, &baselineAdvanced, &errMsg); err != nil {
		return nil, fmt.Errorf("scanning run record: %w", err)
	}

	rec.Verified = verified != 0
	rec.BaselineAdvanced = baselineAdvanced != 0
	rec.Error = errMsg.String

	return &rec, nil
}

// boolToInt converts a bool to its SQLite integer form.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullString returns a NULL-able string, NULL when empty.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
