package runlog

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemoryStore keeps entries in process. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Record(_ context.Context, e Entry) error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("runlog: id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == e.ID {
			s.entries[i] = e
			return nil
		}
	}
	s.entries = append(s.entries, e)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, s.entries[i])
	}
	return out, nil
}
