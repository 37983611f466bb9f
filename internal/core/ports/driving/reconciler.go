package driving

import (
	"context"
	"time"

	"github.com/uwfpm/readysync/internal/core/domain"
)

// Reconciler runs the daily incremental reconciliation: fetch today's
// open requests, diff against the baseline, refetch the newly-closed
// records, persist and verify the daily set, then advance the baseline.
type Reconciler interface {
	// Run reconciles one calendar date. A report is returned for every
	// completed run, including runs whose verification failed (the
	// report then has Verified false and the baseline is untouched).
	// The error is non-nil only for run-fatal conditions such as a
	// failed persist.
	Run(ctx context.Context, day time.Time) (*domain.RunReport, error)
}

// BackfillDay is the outcome of one day of a historical backfill.
type BackfillDay struct {
	Date     time.Time
	Fetched  int
	Failures []domain.CategoryFailure
}

// Backfiller fetches historical requests over a wide date range,
// decomposed into one query-and-persist pass per day.
type Backfiller interface {
	// Backfill fetches every day in the range and persists one dated
	// record set per day. With onlyOpen set, records already closed are
	// discarded after fetch.
	Backfill(ctx context.Context, r domain.DateRange, onlyOpen bool) ([]BackfillDay, error)
}
