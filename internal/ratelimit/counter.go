package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Counter counts hits per key inside a fixed window.
type Counter interface {
	// Increment records one hit for key and returns the number of hits in
	// the current window, including this one.
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

// MemoryCounter keeps windows in process. Expired buckets are swept at most
// once per window so the map only holds recently seen keys.
type MemoryCounter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	count int64
	start time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (m *MemoryCounter) Increment(_ context.Context, key string, window time.Duration) (int64, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastSweep) > window {
		m.sweep(now, window)
	}

	b, ok := m.buckets[key]
	if !ok || now.Sub(b.start) > window {
		b = &bucket{start: now}
		m.buckets[key] = b
	}
	b.count++
	return b.count, nil
}

func (m *MemoryCounter) sweep(now time.Time, window time.Duration) {
	for key, b := range m.buckets {
		if now.Sub(b.start) > window {
			delete(m.buckets, key)
		}
	}
	m.lastSweep = now
}
