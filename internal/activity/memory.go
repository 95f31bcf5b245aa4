package activity

import (
	"context"
	"sync"
)

const DefaultCapacity = 100

// MemoryFeed keeps the most recent entries in process memory.
type MemoryFeed struct {
	mu      sync.Mutex
	entries []Entry // oldest first
	size    int
}

func NewMemoryFeed(size int) *MemoryFeed {
	if size <= 0 {
		size = DefaultCapacity
	}
	return &MemoryFeed{size: size}
}

func (f *MemoryFeed) Record(_ context.Context, e Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries = append(f.entries, e)
	if over := len(f.entries) - f.size; over > 0 {
		f.entries = append(f.entries[:0:0], f.entries[over:]...)
	}
	return nil
}

func (f *MemoryFeed) Recent(_ context.Context, limit int) ([]Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, 0, n)
	for i := len(f.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, f.entries[i])
	}
	return out, nil
}
