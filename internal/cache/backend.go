package cache

import (
	"context"
	"time"
)

// Backend is the byte-level store under the typed profile, stream and
// account stores. A miss is (nil, false, nil); errors are transport failures.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// GetMany omits missing keys from the result.
	GetMany(ctx context.Context, keys []string) (map[string][]byte, error)
	SetMany(ctx context.Context, items map[string][]byte, ttl time.Duration) error

	Close() error
}

var (
	_ Backend = (*MemoryCache)(nil)
	_ Backend = (*RedisCache)(nil)
)
