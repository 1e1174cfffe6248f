// Package cache memoizes content hashes of immutable commits.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cbout22/nix-prefetch-github/internal/config"
)

// ErrNotFound is returned by Store.Get for unknown keys.
var ErrNotFound = errors.New("cache entry not found")

// Store is a string key/value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Close() error
}

// Key identifies the hash of repo at commit rev with opts applied.
func Key(repo config.Repository, rev string, opts config.PrefetchOptions) string {
	return fmt.Sprintf("%s@%s?%s", repo.Raw(), rev, opts.Effective())
}

// Memory keeps entries in process memory.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *Memory) Close() error { return nil }

// Open returns the store configured in settings, or nil for the "none" backend.
func Open(s config.CacheSettings) (Store, error) {
	switch s.Backend {
	case config.CacheNone, "":
		return nil, nil
	case config.CacheMemory:
		return NewMemory(), nil
	case config.CacheBolt:
		b, err := NewBolt(s.Path)
		if err != nil {
			return nil, fmt.Errorf("opening bolt cache: %w", err)
		}
		return b, nil
	case config.CacheRedis:
		r, err := NewRedis(RedisConfig{Addr: s.RedisAddr, Password: s.RedisPassword, Database: s.RedisDB})
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", s.Backend)
	}
}
