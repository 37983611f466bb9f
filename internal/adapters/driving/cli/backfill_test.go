package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uwfpm/readysync/internal/core/domain"
	"github.com/uwfpm/readysync/internal/core/ports/driving"
)

func TestBackfillCmd_Use(t *testing.T) {
	assert.Equal(t, "backfill <start> <end>", backfillCmd.Use)
}

func TestBackfillCmd_FetchesRange(t *testing.T) {
	bf := &mockBackfiller{
		days: []driving.BackfillDay{
			{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Fetched: 5},
			{Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Fetched: 7},
		},
	}
	cleanup := setupServices(&mockReconciler{report: okReport()}, bf)
	defer cleanup()

	out, err := execute(t, "backfill", "2024-03-01", "2024-03-02")

	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", domain.FormatDate(bf.gotRange.Start))
	assert.Equal(t, "2024-03-02", domain.FormatDate(bf.gotRange.End))
	assert.True(t, bf.gotOpen, "default should fetch open requests only")
	assert.Contains(t, out, "Backfilling 2024-03-01 through 2024-03-02 (2 days)")
	assert.Contains(t, out, "Backfilled 12 request(s) across 2 day(s)")
}

func TestBackfillCmd_IncludeClosed(t *testing.T) {
	bf := &mockBackfiller{}
	cleanup := setupServices(&mockReconciler{report: okReport()}, bf)
	defer cleanup()
	defer func() { backfillIncludeClosed = false }()

	_, err := execute(t, "backfill", "2024-03-01", "2024-03-01", "--include-closed")

	require.NoError(t, err)
	assert.False(t, bf.gotOpen)
}

func TestBackfillCmd_InvalidRange(t *testing.T) {
	cleanup := setupServices(&mockReconciler{report: okReport()}, &mockBackfiller{})
	defer cleanup()

	_, err := execute(t, "backfill", "2024-03-02", "2024-03-01")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date range")
}

func TestBackfillCmd_ReportsCategoryFailures(t *testing.T) {
	bf := &mockBackfiller{
		days: []driving.BackfillDay{
			{
				Date:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				Fetched: 3,
				Failures: []domain.CategoryFailure{
					{Template: "Keys", Err: errors.New("boom")},
				},
			},
		},
	}
	cleanup := setupServices(&mockReconciler{report: okReport()}, bf)
	defer cleanup()

	out, err := execute(t, "backfill", "2024-03-01", "2024-03-01")

	require.NoError(t, err)
	assert.Contains(t, out, `2024-03-01: category "Keys" failed: boom`)
	assert.Contains(t, out, "1 category failure(s)")
}

func TestBackfillCmd_PersistFailureStops(t *testing.T) {
	bf := &mockBackfiller{
		days: []driving.BackfillDay{
			{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Fetched: 3},
		},
		err: errors.New("persist day 2024-03-02: disk full"),
	}
	cleanup := setupServices(&mockReconciler{report: okReport()}, bf)
	defer cleanup()

	out, err := execute(t, "backfill", "2024-03-01", "2024-03-03")

	require.Error(t, err)
	assert.Contains(t, out, "Backfill stopped after 1 day(s)")
}

func TestBackfillCmd_RequiresTwoArgs(t *testing.T) {
	cleanup := setupServices(&mockReconciler{report: okReport()}, &mockBackfiller{})
	defer cleanup()

	_, err := execute(t, "backfill", "2024-03-01")

	assert.Error(t, err)
}
