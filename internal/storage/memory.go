package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps records in memory only. It backs worlds built in code
// and characters when no persistent store is configured.
type MemoryStore[T ValidatingSpec] struct {
	records map[string]T

	mu sync.RWMutex
}

func NewMemoryStore[T ValidatingSpec](records map[string]T) *MemoryStore[T] {
	s := &MemoryStore[T]{records: make(map[string]T, len(records))}
	for id, v := range records {
		s.records[id] = v
	}
	return s
}

func (s *MemoryStore[T]) Save(id string, v T) error {
	if !ValidId(id) {
		return fmt.Errorf("invalid id %q", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[id] = v
	return nil
}

func (s *MemoryStore[T]) Get(id string) T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.records[id]
}

func (s *MemoryStore[T]) GetAll() map[string]T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vals := make(map[string]T, len(s.records))
	for id, v := range s.records {
		vals[id] = v
	}
	return vals
}

// Load satisfies Repository.
func (s *MemoryStore[T]) Load(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.records[id]
	if !ok {
		return v, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return v, nil
}

// Store satisfies Repository.
func (s *MemoryStore[T]) Store(_ context.Context, id string, v T) error {
	return s.Save(id, v)
}
