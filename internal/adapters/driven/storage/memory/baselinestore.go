package memory

import (
	"context"
	"sync"

	"github.com/uwfpm/readysync/internal/core/ports/driven"
)

// Ensure BaselineStore implements the interface.
var _ driven.BaselineStore = (*BaselineStore)(nil)

// BaselineStore is an in-memory implementation of driven.BaselineStore.
type BaselineStore struct {
	mu  sync.RWMutex
	ids []string
}

// NewBaselineStore creates a new in-memory baseline store.
func NewBaselineStore() *BaselineStore {
	return &BaselineStore{}
}

// Read returns the current baseline. An unset baseline is an empty
// slice, not an error.
func (s *BaselineStore) Read(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]string, len(s.ids))
	copy(cp, s.ids)
	return cp, nil
}

// Write overwrites the baseline.
func (s *BaselineStore) Write(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]string, len(ids))
	copy(cp, ids)
	s.ids = cp
	return nil
}
