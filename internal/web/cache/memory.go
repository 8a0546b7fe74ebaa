package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache implements an in-memory cache with TTL support.
// Expired items are dropped lazily on access and swept whenever the
// cache is cleared, which is frequent in this service: every admission
// clears the summary cache.
type MemoryCache struct {
	mu     sync.RWMutex
	data   map[string]memoryItem
	config Config
}

type memoryItem struct {
	value      []byte
	expiration time.Time
}

func (it memoryItem) expired(now time.Time) bool {
	return !it.expiration.IsZero() && now.After(it.expiration)
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithConfig(DefaultConfig())
}

// NewMemoryCacheWithConfig creates a new in-memory cache with custom configuration
func NewMemoryCacheWithConfig(config Config) *MemoryCache {
	return &MemoryCache{
		data:   make(map[string]memoryItem),
		config: config,
	}
}

// Get retrieves a value from the cache
func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullKey := m.config.Prefix + key

	m.mu.RLock()
	item, ok := m.data[fullKey]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss{Key: key}
	}

	if item.expired(time.Now()) {
		m.mu.Lock()
		delete(m.data, fullKey)
		m.mu.Unlock()
		return nil, ErrCacheMiss{Key: key}
	}

	return item.value, nil
}

// Set stores a value in the cache with a TTL
func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if ttl == 0 {
		ttl = m.config.DefaultTTL
	}

	item := memoryItem{value: value}
	if ttl > 0 {
		item.expiration = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.data[m.config.Prefix+key] = item
	m.mu.Unlock()
	return nil
}

// Delete removes a value from the cache
func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.data, m.config.Prefix+key)
	m.mu.Unlock()
	return nil
}

// Clear removes all values from the cache
func (m *MemoryCache) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	m.data = make(map[string]memoryItem)
	m.mu.Unlock()
	return nil
}
