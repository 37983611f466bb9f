package memory

import (
	"context"
	"sync"

	"github.com/uwfpm/readysync/internal/core/domain"
	"github.com/uwfpm/readysync/internal/core/ports/driven"
)

// Ensure RunHistoryStore implements the interface.
var _ driven.RunHistoryStore = (*RunHistoryStore)(nil)

// RunHistoryStore is an in-memory implementation of driven.RunHistoryStore.
type RunHistoryStore struct {
	mu   sync.RWMutex
	runs []domain.RunRecord
}

// NewRunHistoryStore creates a new in-memory run history store.
func NewRunHistoryStore() *RunHistoryStore {
	return &RunHistoryStore{}
}

// Record appends a run outcome.
func (s *RunHistoryStore) Record(_ context.Context, rec *domain.RunRecord) error {
	if rec == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, *rec)
	return nil
}

// List returns the most recent runs, newest first.
func (s *RunHistoryStore) List(_ context.Context, limit int) ([]domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.runs)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.RunRecord, 0, n)
	for i := len(s.runs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.runs[i])
	}
	return out, nil
}

// Prune keeps the most recent keep records.
func (s *RunHistoryStore) Prune(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if keep < 0 {
		return domain.ErrInvalidInput
	}
	if len(s.runs) > keep {
		s.runs = append([]domain.RunRecord(nil), s.runs[len(s.runs)-keep:]...)
	}
	return nil
}
