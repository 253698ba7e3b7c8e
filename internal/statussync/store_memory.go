package statussync

import (
	"context"
	"sync"
)

// MemoryObservationStore is an in-process ObservationStore for tests.
type MemoryObservationStore struct {
	mu   sync.RWMutex
	data map[string]observation
}

func NewMemoryObservationStore() *MemoryObservationStore {
	return &MemoryObservationStore{data: make(map[string]observation)}
}

func (s *MemoryObservationStore) LastObserved(ctx context.Context, landlordID string) (string, string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obs, ok := s.data[landlordID]
	if !ok {
		return "", "", false, nil
	}
	return obs.Status, obs.Note, true, nil
}

func (s *MemoryObservationStore) Record(ctx context.Context, landlordID, status, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[landlordID] = observation{Status: status, Note: note}
	return nil
}
