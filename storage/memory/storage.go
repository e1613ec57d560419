// Package memory provides Storage that lives only as long as the process.
package memory

import (
	"context"
	"sync"
)

// Storage is a mutex-guarded map. The zero value is not usable; use
// NewStorage.
type Storage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewStorage returns an empty Storage.
func NewStorage() *Storage {
	return &Storage{
		values: map[string]string{},
	}
}

func (s *Storage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *Storage) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *Storage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Keys returns the number of keys currently stored.
func (s *Storage) Keys() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
