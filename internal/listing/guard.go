package listing

import (
	"context"
	"sync"
)

// Guard discards superseded list fetches. Generations only grow, and each
// Begin for a key cancels the fetch it replaces.
type Guard struct {
	mu      sync.Mutex
	next    uint64
	entries map[string]*guardEntry
}

type guardEntry struct {
	gen    uint64
	cancel context.CancelFunc
}

func NewGuard() *Guard {
	return &Guard{entries: make(map[string]*guardEntry)}
}

// Begin starts a fetch for key. The returned context is cancelled when a newer
// fetch for the same key begins or when done is called.
func (g *Guard) Begin(ctx context.Context, key string) (context.Context, uint64, func()) {
	ctx, cancel := context.WithCancel(ctx)

	g.mu.Lock()
	g.next++
	gen := g.next
	if prev, ok := g.entries[key]; ok {
		prev.cancel()
	}
	g.entries[key] = &guardEntry{gen: gen, cancel: cancel}
	g.mu.Unlock()

	done := func() {
		cancel()
		g.mu.Lock()
		if e, ok := g.entries[key]; ok && e.gen == gen {
			delete(g.entries, key)
		}
		g.mu.Unlock()
	}
	return ctx, gen, done
}

// Current reports whether gen is still the latest fetch for key.
func (g *Guard) Current(key string, gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.entries[key]
	return ok && e.gen == gen
}

// Len is the number of fetches in flight.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}
