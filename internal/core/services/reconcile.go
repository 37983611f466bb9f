package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/uwfpm/readysync/internal/core/domain"
	"github.com/uwfpm/readysync/internal/core/ports/driven"
	"github.com/uwfpm/readysync/internal/core/ports/driving"
	"github.com/uwfpm/readysync/internal/logger"
)

// Ensure Reconciler implements the interface.
var _ driving.Reconciler = (*Reconciler)(nil)

// Reconciler runs the incremental reconciliation: it mirrors the
// lifecycle state of requests into the record store without re-fetching
// the entire request history each run. The baseline only advances past
// data that verifiably landed on disk.
type Reconciler struct {
	openSet  *OpenSetBuilder
	api      driven.RequestAPI
	records  driven.RecordStore
	baseline driven.BaselineStore
	history  driven.RunHistoryStore

	now   func() time.Time
	newID func() string
}

// NewReconciler creates a reconciler. history may be nil, in which case
// run outcomes are not recorded.
func NewReconciler(
	openSet *OpenSetBuilder,
	api driven.RequestAPI,
	records driven.RecordStore,
	baseline driven.BaselineStore,
	history driven.RunHistoryStore,
) *Reconciler {
	return &Reconciler{
		openSet:  openSet,
		api:      api,
		records:  records,
		baseline: baseline,
		history:  history,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Run reconciles one calendar date.
//
// A verification mismatch is not run-fatal: the report carries
// Verified=false, the baseline stays at its previous value, and the
// next run recomputes transitions against it. At worst some records
// are re-processed; a closed-state transition is never lost.
func (r *Reconciler) Run(ctx context.Context, day time.Time) (report *domain.RunReport, err error) {
	report = &domain.RunReport{Date: day}
	started := r.now()
	defer func() {
		r.recordOutcome(ctx, started, report, err)
	}()

	// 1. Yesterday's baseline. Absent baseline means first run: the
	// transition set will be empty.
	baselineIDs, err := r.baseline.Read(ctx)
	if err != nil {
		return report, fmt.Errorf("read baseline: %w", err)
	}
	logger.Debug("baseline holds %d open identifiers", len(baselineIDs))

	// 2. Today's open set, one query per template.
	open, err := r.openSet.OpenRequests(ctx, day)
	if err != nil {
		return report, fmt.Errorf("fetch open requests: %w", err)
	}
	report.OpenCount = len(open.Records)
	report.CategoryFailures = open.Failures

	openIDs := domain.IdentifierSet(open.Records)

	// 3. Requests open yesterday but not today closed since the last run.
	closedIDs := ClosedSince(baselineIDs, openIDs)
	logger.Info("open today: %d, closed since last run: %d", len(openIDs), len(closedIDs))

	// 4. Refetch the transitioned records one identifier at a time.
	closedRecords := r.refetchClosed(ctx, closedIDs, report)
	report.ClosedCount = len(closedRecords)

	// 5. Union with the closed copy winning on identifier collisions.
	merged := domain.MergeRecords(open.Records, closedRecords)

	// 6. Persist and verify before the baseline may advance.
	if err := r.records.WriteDaily(ctx, day, merged); err != nil {
		return report, fmt.Errorf("write daily record set: %w", err)
	}
	diskIDs, err := r.records.ReadDailyIDs(ctx, day)
	if err != nil {
		return report, fmt.Errorf("read back daily record set: %w", err)
	}

	memoryIDs := make([]string, len(merged))
	for i, rec := range merged {
		memoryIDs[i] = rec.RequestID
	}

	if !verifySnapshot(diskIDs, memoryIDs) {
		logger.Warn("verification failed for %s: baseline not advanced (%v)",
			domain.FormatDate(day), domain.ErrSnapshotMismatch)
		return report, nil
	}
	report.Verified = true

	// 7. Commit today's open identifiers as tomorrow's comparison point.
	if err := r.baseline.Write(ctx, openIDs); err != nil {
		return report, fmt.Errorf("advance baseline: %w", err)
	}
	report.BaselineAdvanced = true

	return report, nil
}

// refetchClosed fetches the full record for every transitioned
// identifier. Each fetch is independent: a failure is recorded and
// excluded from the result, never aborting the remaining identifiers.
// Sized for O(dozens) of closures per day, not bulk backfill.
func (r *Reconciler) refetchClosed(
	ctx context.Context,
	ids []string,
	report *domain.RunReport,
) []domain.Request {
	var closed []domain.Request
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		rec, err := r.api.RequestByID(ctx, id)
		if err != nil {
			logger.Warn("refetch of closed request %s failed: %v", id, err)
			report.RefetchFailures = append(report.RefetchFailures, domain.RefetchFailure{
				RequestID: id,
				Err:       err,
			})
			continue
		}
		closed = append(closed, *rec)
	}
	return closed
}

// verifySnapshot is the three-way write-integrity check: the persisted
// identifier set equals the in-memory identifier set, and neither side
// contains duplicates.
func verifySnapshot(disk, memory []string) bool {
	return equalIDSets(disk, memory) &&
		!hasDuplicates(disk) &&
		!hasDuplicates(memory)
}

// recordOutcome appends the run to history. Best effort: history
// failures are logged, never surfaced.
func (r *Reconciler) recordOutcome(
	ctx context.Context,
	started time.Time,
	report *domain.RunReport,
	runErr error,
) {
	if r.history == nil {
		return
	}

	rec := &domain.RunRecord{
		ID:               r.newID(),
		Date:             domain.FormatDate(report.Date),
		StartedAt:        started,
		EndedAt:          r.now(),
		OpenCount:        report.OpenCount,
		ClosedCount:      report.ClosedCount,
		FailureCount:     report.FailureCount(),
		Verified:         report.Verified,
		BaselineAdvanced: report.BaselineAdvanced,
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}

	if err := r.history.Record(ctx, rec); err != nil {
		logger.Warn("record run history: %v", err)
	}
}
