package store

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     string
	fields    map[string]string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is an in-process Store, used by tests. The clock can be
// swapped out to exercise expiry.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: map[string]entry{},
		now:     time.Now,
	}
}

// SetClock replaces the clock used for expiry checks.
func (s *Memory) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Memory) get(key string) (entry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return entry{}, false
	}
	if e.expired(s.now()) {
		delete(s.entries, key)
		return entry{}, false
	}
	return e, true
}

func (s *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.get(key)
	if !ok || e.fields != nil {
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *Memory) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{value: value}
	return nil
}

func (s *Memory) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

func (s *Memory) DeletePair(ctx context.Context, a, b string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, a)
	delete(s.entries, b)
	return nil
}

func (s *Memory) HashGet(ctx context.Context, key string) (map[string]string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.get(key)
	if !ok || e.fields == nil {
		return nil, false, nil
	}

	fields := make(map[string]string, len(e.fields))
	for k, v := range e.fields {
		fields[k] = v
	}
	return fields, true, nil
}

func (s *Memory) HashSetFields(ctx context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.get(key)
	if !ok || e.fields == nil {
		e = entry{fields: map[string]string{}}
	}
	for k, v := range fields {
		e.fields[k] = v
	}
	s.entries[key] = e
	return nil
}

func (s *Memory) HashDeleteField(ctx context.Context, key, field string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.get(key); ok && e.fields != nil {
		delete(e.fields, field)
	}
	return nil
}

func (s *Memory) Expire(ctx context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.get(key); ok {
		e.expiresAt = s.now().Add(ttl)
		s.entries[key] = e
	}
	return nil
}
