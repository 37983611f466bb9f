// Package memory provides in-memory implementations of the driven
// storage ports. They back unit tests and degraded wiring where no
// durable store is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/uwfpm/readysync/internal/core/domain"
	"github.com/uwfpm/readysync/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore,
// keyed by calendar date.
type RecordStore struct {
	mu   sync.RWMutex
	days map[string][]domain.Request
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		days: make(map[string][]domain.Request),
	}
}

// WriteDaily replaces the record set stored for one date.
func (s *RecordStore) WriteDaily(_ context.Context, day time.Time, records []domain.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]domain.Request, len(records))
	copy(cp, records)
	s.days[domain.FormatDate(day)] = cp
	return nil
}

// ReadDailyIDs returns the identifiers stored for one date in row order.
func (s *RecordStore) ReadDailyIDs(_ context.Context, day time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records, ok := s.days[domain.FormatDate(day)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.RequestID
	}
	return ids, nil
}

// Records returns the stored record set for a date. Test helper.
func (s *RecordStore) Records(day time.Time) []domain.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.days[domain.FormatDate(day)]
}
