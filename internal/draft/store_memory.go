package draft

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests and local runs without Redis.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string][]byte)}
}

func (s *MemoryStore) Save(ctx context.Context, d *Draft) error {
	d.SavedAt = time.Now()
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[d.LandlordID] = data
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, landlordID string) (*Draft, error) {
	s.mu.RLock()
	data, ok := s.drafts[landlordID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *MemoryStore) Clear(ctx context.Context, landlordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, landlordID)
	return nil
}
