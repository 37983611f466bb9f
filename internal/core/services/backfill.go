package services

import (
	"context"
	"fmt"

	"github.com/uwfpm/readysync/internal/core/domain"
	"github.com/uwfpm/readysync/internal/core/ports/driven"
	"github.com/uwfpm/readysync/internal/core/ports/driving"
	"github.com/uwfpm/readysync/internal/logger"
)

// Ensure Backfiller implements the interface.
var _ driving.Backfiller = (*Backfiller)(nil)

// Backfiller fetches historical requests over a wide date range. The
// range is decomposed into one query pass per day to bound individual
// response size and timeout risk, and one dated record set is persisted
// per day.
type Backfiller struct {
	openSet *OpenSetBuilder
	records driven.RecordStore
}

// NewBackfiller creates a backfiller.
func NewBackfiller(openSet *OpenSetBuilder, records driven.RecordStore) *Backfiller {
	return &Backfiller{
		openSet: openSet,
		records: records,
	}
}

// Backfill walks the range day by day. Template failures are isolated
// per day as in a normal run; a persist failure is fatal and returns
// the days completed so far.
func (b *Backfiller) Backfill(
	ctx context.Context,
	r domain.DateRange,
	onlyOpen bool,
) ([]driving.BackfillDay, error) {
	days := make([]driving.BackfillDay, 0, r.Len())

	for day := range r.Days() {
		result, err := b.openSet.RequestsInRange(ctx, day, day, onlyOpen)
		if err != nil {
			return days, err
		}

		if err := b.records.WriteDaily(ctx, day, result.Records); err != nil {
			return days, fmt.Errorf("write record set for %s: %w", domain.FormatDate(day), err)
		}

		logger.Info("backfilled %s: %d records, %d template failures",
			domain.FormatDate(day), len(result.Records), len(result.Failures))
		days = append(days, driving.BackfillDay{
			Date:     day,
			Fetched:  len(result.Records),
			Failures: result.Failures,
		})
	}

	return days, nil
}
