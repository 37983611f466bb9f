package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uwfpm/readysync/internal/core/domain"
)

var day = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func TestRecordStore_WriteReadRoundTrip(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	records := []domain.Request{
		{RequestID: "1", Template: "Keys"},
		{RequestID: "2", Template: "Move Request"},
	}
	require.NoError(t, store.WriteDaily(ctx, day, records))

	ids, err := store.ReadDailyIDs(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids)
}

func TestRecordStore_ReadMissingDay(t *testing.T) {
	store := NewRecordStore()

	_, err := store.ReadDailyIDs(context.Background(), day)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordStore_WriteReplacesExistingDay(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	require.NoError(t, store.WriteDaily(ctx, day, []domain.Request{{RequestID: "1"}}))
	require.NoError(t, store.WriteDaily(ctx, day, []domain.Request{{RequestID: "9"}}))

	ids, err := store.ReadDailyIDs(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, []string{"9"}, ids)
}

func TestBaselineStore_EmptyWhenUnset(t *testing.T) {
	store := NewBaselineStore()

	ids, err := store.Read(context.Background())

	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestBaselineStore_WriteOverwrites(t *testing.T) {
	store := NewBaselineStore()
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, []string{"1", "2"}))
	require.NoError(t, store.Write(ctx, []string{"3"}))

	ids, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids)
}

func TestRunHistoryStore_ListNewestFirst(t *testing.T) {
	store := NewRunHistoryStore()
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, &domain.RunRecord{ID: "a"}))
	require.NoError(t, store.Record(ctx, &domain.RunRecord{ID: "b"}))
	require.NoError(t, store.Record(ctx, &domain.RunRecord{ID: "c"}))

	runs, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
}

func TestRunHistoryStore_Prune(t *testing.T) {
	store := NewRunHistoryStore()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, store.Record(ctx, &domain.RunRecord{ID: id}))
	}
	require.NoError(t, store.Prune(ctx, 2))

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "d", runs[0].ID)
}

func TestRunHistoryStore_RecordNil(t *testing.T) {
	store := NewRunHistoryStore()

	err := store.Record(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
