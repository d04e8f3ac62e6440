package cache

import (
	"context"
	"sync"
	"time"

	"github.com/freightbooks/backend/internal/domain/shared"
)

// entry represents a held submit key with expiration
type entry struct {
	expiresAt time.Time
}

// InMemorySubmitGuard implements SubmitGuard using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemorySubmitGuard struct {
	mu        sync.RWMutex
	entries   map[string]entry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySubmitGuard creates a new in-memory submit guard. It
// starts a background goroutine to clean up expired keys.
func NewInMemorySubmitGuard() *InMemorySubmitGuard {
	guard := &InMemorySubmitGuard{
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	guard.wg.Add(1)
	go guard.cleanupLoop()

	return guard
}

// Acquire marks a submit key as in flight with a TTL. Returns true if
// the key was newly acquired, false if an unexpired submit already
// holds it.
func (g *InMemorySubmitGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e, exists := g.entries[key]; exists {
		if time.Now().Before(e.expiresAt) {
			return false, nil // Submit already outstanding
		}
		// Key exists but expired, will be overwritten
	}

	g.entries[key] = entry{
		expiresAt: time.Now().Add(ttl),
	}

	return true, nil
}

// Release frees the key so a failed submit can be retried
func (g *InMemorySubmitGuard) Release(ctx context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.entries, key)
	return nil
}

// Close stops the cleanup goroutine and releases resources.
// Safe to call multiple times.
func (g *InMemorySubmitGuard) Close() error {
	g.closeOnce.Do(func() {
		close(g.stopChan)
		g.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired keys
func (g *InMemorySubmitGuard) cleanupLoop() {
	defer g.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			return
		case <-ticker.C:
			g.cleanup()
		}
	}
}

// cleanup removes expired keys from the guard
func (g *InMemorySubmitGuard) cleanup() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	for key, e := range g.entries {
		if now.After(e.expiresAt) {
			delete(g.entries, key)
		}
	}
}

// Size returns the number of held keys (for testing/monitoring)
func (g *InMemorySubmitGuard) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}

// Ensure InMemorySubmitGuard implements SubmitGuard
var _ shared.SubmitGuard = (*InMemorySubmitGuard)(nil)
