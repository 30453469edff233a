package cache

import (
	"log/slog"
)

// Caches bundles the backend and the typed stores built on it
type Caches struct {
	Backend     Backend
	BackendType string // "redis" or "memory"
	Config      CacheConfig

	Profiles *ProfileStore
	Streams  *StreamStore
	Accounts *AccountStore
}

// New builds the caches on Redis when redisURL is set, falling back to memory
func New(redisURL string, config CacheConfig) *Caches {
	c := &Caches{Config: config}

	if redisURL != "" {
		slog.Info("initializing Redis cache")
		rc, err := NewRedisCache(redisURL, "widgets:")
		if err != nil {
			slog.Warn("Redis connection failed, using memory cache", "error", err)
		} else {
			c.Backend = rc
			c.BackendType = "redis"
		}
	}

	if c.Backend == nil {
		slog.Info("initializing in-memory cache")
		c.Backend = NewMemoryCache(config.MaxMemoryEntries, config.CleanupInterval)
		c.BackendType = "memory"
	}

	c.Profiles = NewProfileStore(c.Backend, config)
	c.Streams = NewStreamStore(c.Backend, config)
	c.Accounts = NewAccountStore(c.Backend, config)
	return c
}

// Close releases the backend
func (c *Caches) Close() error {
	return c.Backend.Close()
}
