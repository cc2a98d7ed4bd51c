package store

import (
	"context"
	"sync"
)

// MemoryStore is the default in-process backend: a mutex-guarded map of
// record values. Records pass in and out by value, so a caller mutating a
// returned record cannot touch the stored copy.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]WalletRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]WalletRecord),
	}
}

// Put creates or fully replaces the record for record.UserID.
func (s *MemoryStore) Put(_ context.Context, record WalletRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.UserID] = record
	return nil
}

// Get returns a copy of the record for userID, or nil when none exists.
func (s *MemoryStore) Get(_ context.Context, userID string) (*WalletRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[userID]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Stats counts all records, including retired ones.
func (s *MemoryStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Total: len(s.records)}
	for _, record := range s.records {
		if record.IsActive {
			stats.Active++
		}
	}
	return stats, nil
}
