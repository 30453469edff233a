package cache

import "time"

// CacheConfig holds cache TTL configuration
type CacheConfig struct {
	ProfileTTL         time.Duration
	ProfileNotFoundTTL time.Duration
	StreamTTL          time.Duration
	StreamEndedTTL     time.Duration
	StreamNotFoundTTL  time.Duration
	AccountTTL         time.Duration
	MaxMemoryEntries   int
	CleanupInterval    time.Duration
}

// DefaultCacheConfig returns sensible defaults
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		ProfileTTL:         1 * time.Hour,    // Profiles rarely change hourly
		ProfileNotFoundTTL: 30 * time.Second, // Short so a slow relay gets another chance
		StreamTTL:          30 * time.Second, // Live participant counts move quickly
		StreamEndedTTL:     1 * time.Hour,
		StreamNotFoundTTL:  15 * time.Second,
		AccountTTL:         30 * 24 * time.Hour,
		MaxMemoryEntries:   10000,
		CleanupInterval:    2 * time.Minute,
	}
}
