package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/kruthikhak/Care-Connect/internal/domain/providers"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryAdapter is an in-process CacheProvider used when Redis is disabled.
// Expired entries are dropped lazily on access.
type MemoryAdapter struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryAdapter creates an empty in-process cache
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (a *MemoryAdapter) WithClock(now func() time.Time) *MemoryAdapter {
	a.now = now
	return a
}

func (a *MemoryAdapter) lookup(key string) (memoryEntry, bool) {
	entry, ok := a.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if entry.expired(a.now()) {
		delete(a.entries, key)
		return memoryEntry{}, false
	}
	return entry, true
}

func (a *MemoryAdapter) expiry(expirationSeconds int) time.Time {
	if expirationSeconds <= 0 {
		return time.Time{}
	}
	return a.now().Add(time.Duration(expirationSeconds) * time.Second)
}

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(_ context.Context, key string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.lookup(key)
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

// Set stores a value in cache with expiration
func (a *MemoryAdapter) Set(_ context.Context, key string, value []byte, expirationSeconds int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	a.entries[key] = memoryEntry{value: stored, expiresAt: a.expiry(expirationSeconds)}
	return nil
}

// Delete removes values from cache
func (a *MemoryAdapter) Delete(_ context.Context, keys ...string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, key := range keys {
		delete(a.entries, key)
	}
	return nil
}

// Exists checks if a key exists in cache
func (a *MemoryAdapter) Exists(_ context.Context, key string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, ok := a.lookup(key)
	return ok, nil
}

// Increment bumps a counter stored as a decimal string
func (a *MemoryAdapter) Increment(_ context.Context, key string, expirationSeconds int) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.lookup(key)
	if !ok {
		a.entries[key] = memoryEntry{value: []byte("1"), expiresAt: a.expiry(expirationSeconds)}
		return 1, nil
	}

	count, err := strconv.ParseInt(string(entry.value), 10, 64)
	if err != nil {
		count = 0
	}
	count++
	entry.value = []byte(strconv.FormatInt(count, 10))
	a.entries[key] = entry
	return count, nil
}
