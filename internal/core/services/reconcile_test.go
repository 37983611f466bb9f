package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uwfpm/readysync/internal/adapters/driven/storage/memory"
	"github.com/uwfpm/readysync/internal/core/domain"
)

// truncatingRecordStore simulates a truncated write: the read-back
// misses the last persisted row.
type truncatingRecordStore struct {
	*memory.RecordStore
}

func (s *truncatingRecordStore) ReadDailyIDs(ctx context.Context, day time.Time) ([]string, error) {
	ids, err := s.RecordStore.ReadDailyIDs(ctx, day)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		ids = ids[:len(ids)-1]
	}
	return ids, nil
}

// failingBaselineStore injects a read failure.
type failingBaselineStore struct {
	*memory.BaselineStore
	readErr error
}

func (s *failingBaselineStore) Read(ctx context.Context) ([]string, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.BaselineStore.Read(ctx)
}

func newTestReconciler(
	api *mockRequestAPI,
	templates []string,
) (*Reconciler, *memory.RecordStore, *memory.BaselineStore, *memory.RunHistoryStore) {
	records := memory.NewRecordStore()
	baseline := memory.NewBaselineStore()
	history := memory.NewRunHistoryStore()
	builder := NewOpenSetBuilder(api, templates)
	return NewReconciler(builder, api, records, baseline, history), records, baseline, history
}

func TestReconciler_FirstRun_EmptyBaseline(t *testing.T) {
	api := newMockRequestAPI()
	api.byTemplate["Keys"] = []domain.Request{
		{RequestID: "1", Template: "Keys"},
		{RequestID: "2", Template: "Keys"},
	}

	rec, records, baseline, _ := newTestReconciler(api, []string{"Keys"})
	ctx := context.Background()

	report, err := rec.Run(ctx, testDay)

	require.NoError(t, err)
	assert.Equal(t, 2, report.OpenCount)
	// No prior baseline: nothing is treated as closed.
	assert.Equal(t, 0, report.ClosedCount)
	assert.Empty(t, api.idCalls)
	assert.True(t, report.Verified)
	assert.True(t, report.BaselineAdvanced)

	ids, err := baseline.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids)

	diskIDs, err := records.ReadDailyIDs(ctx, testDay)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, diskIDs)
}

func TestReconciler_ClosedTransitionRefetched(t *testing.T) {
	api := newMockRequestAPI()
	api.byTemplate["Keys"] = []domain.Request{
		{RequestID: "2", Template: "Keys"},
		{RequestID: "3", Template: "Keys"},
		{RequestID: "4", Template: "Keys"},
	}
	api.byID["1"] = domain.Request{RequestID: "1", Template: "Keys", Closed: true}

	rec, records, baseline, _ := newTestReconciler(api, []string{"Keys"})
	ctx := context.Background()
	require.NoError(t, baseline.Write(ctx, []string{"1", "2", "3"}))

	report, err := rec.Run(ctx, testDay)

	require.NoError(t, err)
	assert.Equal(t, 3, report.OpenCount)
	assert.Equal(t, 1, report.ClosedCount)
	assert.Equal(t, []string{"1"}, api.idCalls)
	assert.True(t, report.BaselineAdvanced)

	// The daily set holds the open records plus the refetched closure.
	diskIDs, err := records.ReadDailyIDs(ctx, testDay)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "2", "3", "4"}, diskIDs)

	// The new baseline is today's open set, not the union.
	ids, err := baseline.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3", "4"}, ids)
}

func TestReconciler_RefetchFailureIsolated(t *testing.T) {
	api := newMockRequestAPI()
	api.byTemplate["Keys"] = nil
	api.failIDs["1"] = errors.New("timeout")
	api.byID["2"] = domain.Request{RequestID: "2", Closed: true}

	rec, _, baseline, _ := newTestReconciler(api, []string{"Keys"})
	ctx := context.Background()
	require.NoError(t, baseline.Write(ctx, []string{"1", "2"}))

	report, err := rec.Run(ctx, testDay)

	require.NoError(t, err)
	// One refetch failed, the other still landed.
	assert.Equal(t, 1, report.ClosedCount)
	require.Len(t, report.RefetchFailures, 1)
	assert.Equal(t, "1", report.RefetchFailures[0].RequestID)
	assert.True(t, report.BaselineAdvanced)
}

func TestReconciler_CategoryFailureDoesNotAbortRun(t *testing.T) {
	api := newMockRequestAPI()
	api.byTemplate["Keys"] = []domain.Request{{RequestID: "1", Template: "Keys"}}
	api.failTemplates["Move Request"] = errors.New("504")

	rec, _, _, _ := newTestReconciler(api, []string{"Keys", "Move Request"})

	report, err := rec.Run(context.Background(), testDay)

	require.NoError(t, err)
	assert.Equal(t, 1, report.OpenCount)
	assert.Len(t, report.CategoryFailures, 1)
	assert.True(t, report.BaselineAdvanced)
}

func TestReconciler_VerificationFailure_BaselineUnchanged(t *testing.T) {
	api := newMockRequestAPI()
	api.byTemplate["Keys"] = []domain.Request{
		{RequestID: "5", Template: "Keys"},
		{RequestID: "6", Template: "Keys"},
	}

	records := &truncatingRecordStore{RecordStore: memory.NewRecordStore()}
	baseline := memory.NewBaselineStore()
	history := memory.NewRunHistoryStore()
	builder := NewOpenSetBuilder(api, []string{"Keys"})
	rec := NewReconciler(builder, api, records, baseline, history)

	ctx := context.Background()
	require.NoError(t, baseline.Write(ctx, []string{"5"}))

	report, err := rec.Run(ctx, testDay)

	// The run ends cleanly: no error, but the baseline did not advance.
	require.NoError(t, err)
	assert.False(t, report.Verified)
	assert.False(t, report.BaselineAdvanced)

	ids, err := baseline.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"5"}, ids, "baseline must stay at its pre-run value")

	// The failed verification is still visible in run history.
	runs, err := history.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.False(t, runs[0].Verified)
	assert.False(t, runs[0].BaselineAdvanced)
}

func TestReconciler_BaselineReadFailure_Fatal(t *testing.T) {
	api := newMockRequestAPI()

	baseline := &failingBaselineStore{
		BaselineStore: memory.NewBaselineStore(),
		readErr:       errors.New("disk gone"),
	}
	history := memory.NewRunHistoryStore()
	builder := NewOpenSetBuilder(api, []string{"Keys"})
	rec := NewReconciler(builder, api, memory.NewRecordStore(), baseline, history)

	ctx := context.Background()
	_, err := rec.Run(ctx, testDay)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read baseline")
	assert.Equal(t, 0, api.templateCalls, "no fetching before the baseline is readable")

	// The fatal outcome is recorded.
	runs, err := history.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Contains(t, runs[0].Error, "disk gone")
}

func TestReconciler_HistoryRecordedOnSuccess(t *testing.T) {
	api := newMockRequestAPI()
	api.byTemplate["Keys"] = []domain.Request{{RequestID: "1", Template: "Keys"}}

	rec, _, _, history := newTestReconciler(api, []string{"Keys"})
	rec.newID = func() string { return "run-1" }

	_, err := rec.Run(context.Background(), testDay)
	require.NoError(t, err)

	runs, err := history.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, "2024-03-01", runs[0].Date)
	assert.Equal(t, 1, runs[0].OpenCount)
	assert.True(t, runs[0].Verified)
	assert.True(t, runs[0].BaselineAdvanced)
	assert.Empty(t, runs[0].Error)
}

func TestReconciler_NilHistoryTolerated(t *testing.T) {
	api := newMockRequestAPI()
	api.byTemplate["Keys"] = []domain.Request{{RequestID: "1"}}

	builder := NewOpenSetBuilder(api, []string{"Keys"})
	rec := NewReconciler(builder, api, memory.NewRecordStore(), memory.NewBaselineStore(), nil)

	report, err := rec.Run(context.Background(), testDay)

	require.NoError(t, err)
	assert.True(t, report.BaselineAdvanced)
}

func TestReconciler_RerunIsIdempotent(t *testing.T) {
	api := newMockRequestAPI()
	api.byTemplate["Keys"] = []domain.Request{
		{RequestID: "2", Template: "Keys"},
	}
	api.byID["1"] = domain.Request{RequestID: "1", Closed: true}

	rec, _, baseline, _ := newTestReconciler(api, []string{"Keys"})
	ctx := context.Background()
	require.NoError(t, baseline.Write(ctx, []string{"1", "2"}))

	first, err := rec.Run(ctx, testDay)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ClosedCount)

	// Second run against unchanged remote state: the baseline is now
	// {2}, so nothing transitions and the baseline is stable.
	second, err := rec.Run(ctx, testDay)
	require.NoError(t, err)
	assert.Equal(t, 0, second.ClosedCount)

	ids, err := baseline.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids)
}
