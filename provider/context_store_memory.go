package provider

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps values in process memory. It backs pending choices
// when Redis is disabled, and tests. Expired entries are dropped when
// they are next touched.
type MemoryStore[C any] struct {
	mu    sync.Mutex
	items map[string]stored[C]
	now   func() time.Time
}

type stored[C any] struct {
	val      *C
	deadline time.Time // zero: never expires
}

func NewMemoryStore[C any]() *MemoryStore[C] {
	return &MemoryStore[C]{items: map[string]stored[C]{}, now: time.Now}
}

func (s *MemoryStore[C]) Save(_ context.Context, key string, val *C, ttl time.Duration) error {
	item := stored[C]{val: val}
	if ttl > 0 {
		item.deadline = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.items[key] = item
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore[C]) Load(_ context.Context, key string) (*C, error) {
	return s.fetch(key, false), nil
}

func (s *MemoryStore[C]) Take(_ context.Context, key string) (*C, error) {
	return s.fetch(key, true), nil
}

func (s *MemoryStore[C]) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

// Len includes expired entries nobody has touched yet.
func (s *MemoryStore[C]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *MemoryStore[C]) fetch(key string, remove bool) *C {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[key]
	if !ok {
		return nil
	}
	gone := !item.deadline.IsZero() && s.now().After(item.deadline)
	if gone || remove {
		delete(s.items, key)
	}
	if gone {
		return nil
	}
	return item.val
}

var _ ContextStore[any] = (*MemoryStore[any])(nil)
