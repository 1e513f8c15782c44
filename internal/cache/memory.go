package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process cache with per-entry expiry.
type Memory struct {
	c *gocache.Cache
}

// NewMemory creates a memory cache.  A non-positive ttl keeps entries
// until the process exits.
func NewMemory(ttl, cleanup time.Duration) *Memory {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}
	return &Memory{c: gocache.New(ttl, cleanup)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v.([]byte), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.c.Set(key, append([]byte(nil), value...), gocache.DefaultExpiration)
	return nil
}

// Len returns the number of stored entries, expired ones included until
// the next cleanup.
func (m *Memory) Len() int {
	return m.c.ItemCount()
}

func (m *Memory) Close() error {
	m.c.Flush()
	return nil
}
