package driven

import (
	"context"
	"time"

	"github.com/uwfpm/readysync/internal/core/domain"
)

// RecordStore persists one dated daily record set per run: the union of
// currently-open records and records that closed since the previous
// baseline. Rows are durable and addressable by request identifier.
type RecordStore interface {
	// WriteDaily persists the record set for one calendar date,
	// replacing any earlier set written for that date.
	WriteDaily(ctx context.Context, day time.Time, records []domain.Request) error

	// ReadDailyIDs reads back the request identifiers persisted for one
	// calendar date, in row order including duplicates. The reconciler
	// uses it to verify write integrity. Returns domain.ErrNotFound
	// when no set was written for that date.
	ReadDailyIDs(ctx context.Context, day time.Time) ([]string, error)
}

// BaselineStore persists the open-identifier baseline: all requests open
// as of the end of the last successful run. The baseline is fully
// replaced by each successful run, never appended to, since merging two
// snapshots would grow false-open membership monotonically.
type BaselineStore interface {
	// Read returns the current baseline identifiers. A missing baseline
	// (first run) is not an error: it returns an empty slice.
	Read(ctx context.Context) ([]string, error)

	// Write overwrites the baseline with today's open identifiers.
	Write(ctx context.Context, ids []string) error
}

// RunHistoryStore keeps a durable log of reconciliation run outcomes.
type RunHistoryStore interface {
	// Record appends one run outcome.
	Record(ctx context.Context, rec *domain.RunRecord) error

	// List returns the most recent run records, newest first.
	List(ctx context.Context, limit int) ([]domain.RunRecord, error)

	// Prune removes old records, keeping the most recent keep entries.
	Prune(ctx context.Context, keep int) error
}
