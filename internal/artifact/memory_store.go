package artifact

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps artifacts in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, namespace, path string, content []byte) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	namespace, path, err := checkArgs(namespace, path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[objectKey(namespace, path)] = append([]byte(nil), content...)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, namespace, path string) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	namespace, path, err := checkArgs(namespace, path)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[objectKey(namespace, path)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (s *MemoryStore) List(_ context.Context, namespace string) ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		return nil, fmt.Errorf("namespace is required")
	}
	prefix := strings.TrimSuffix(namespace, "/") + "/"
	s.mu.RLock()
	defer s.mu.RUnlock()
	var paths []string
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			paths = append(paths, strings.TrimPrefix(k, prefix))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
