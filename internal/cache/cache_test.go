package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nostr-widgets/internal/types"
)

func newTestBackend(t *testing.T) *MemoryCache {
	t.Helper()
	mc := NewMemoryCache(100, 0)
	t.Cleanup(func() { mc.Close() })
	return mc
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := newTestBackend(t)
	now := time.Unix(1_700_000_000, 0)
	mc.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", []byte("v"), time.Minute))
	v, ok, err := mc.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)

	now = now.Add(2 * time.Minute)
	_, ok, _ = mc.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCacheEvictsAboveMaxSize(t *testing.T) {
	mc := NewMemoryCache(2, 0)
	defer mc.Close()
	ctx := context.Background()

	mc.Set(ctx, "a", []byte("1"), time.Minute)
	mc.Set(ctx, "b", []byte("2"), 2*time.Minute)
	mc.Set(ctx, "c", []byte("3"), 3*time.Minute)
	mc.cleanup()

	_, ok, _ := mc.Get(ctx, "a")
	assert.False(t, ok, "soonest-expiring entry should be evicted")
	_, ok, _ = mc.Get(ctx, "c")
	assert.True(t, ok)
}

func TestMemoryCacheCloseTwice(t *testing.T) {
	mc := NewMemoryCache(10, time.Hour)
	assert.NoError(t, mc.Close())
	assert.NoError(t, mc.Close())
}

func TestProfileStoreMissingSkipsNotFound(t *testing.T) {
	store := NewProfileStore(newTestBackend(t), DefaultCacheConfig())
	ctx := context.Background()

	store.SetMultiple(ctx, map[string]*types.Profile{
		"pk1": {Pubkey: "pk1", Name: "alice"},
		"pk2": nil,
	})

	found, missing := store.GetMultiple(ctx, []string{"pk1", "pk2", "pk3"})
	require.Contains(t, found, "pk1")
	assert.Equal(t, "alice", found["pk1"].Name)
	assert.NotContains(t, found, "pk2")
	assert.Equal(t, []string{"pk3"}, missing)
}

func TestStreamStoreRoundTrip(t *testing.T) {
	store := NewStreamStore(newTestBackend(t), DefaultCacheConfig())
	ctx := context.Background()

	_, _, inCache := store.Get(ctx, "pk", "show")
	assert.False(t, inCache)

	store.Set(ctx, "pk", "show", &types.StreamingData{ID: "show", Pubkey: "pk", Status: types.StreamStatusLive})
	got, notFound, inCache := store.Get(ctx, "pk", "show")
	require.True(t, inCache)
	assert.False(t, notFound)
	assert.Equal(t, "show", got.ID)

	store.Set(ctx, "pk", "gone", nil)
	_, notFound, inCache = store.Get(ctx, "pk", "gone")
	assert.True(t, inCache)
	assert.True(t, notFound)
}

func TestAccountStore(t *testing.T) {
	store := NewAccountStore(newTestBackend(t), DefaultCacheConfig())
	ctx := context.Background()

	acct, err := store.Get(ctx, "sess")
	require.NoError(t, err)
	assert.Nil(t, acct)

	require.NoError(t, store.Set(ctx, &types.CachedAccount{
		SessionID:    "sess",
		EmojiHistory: []types.EmojiOption{{Name: "🔥"}},
	}))
	acct, err = store.Get(ctx, "sess")
	require.NoError(t, err)
	require.NotNil(t, acct)
	assert.Equal(t, "🔥", acct.EmojiHistory[0].Name)
	assert.NotZero(t, acct.UpdatedAt)
}

func TestStreamKeyStable(t *testing.T) {
	assert.Equal(t, StreamKey("pk", "a b"), StreamKey("pk", "a b"))
	assert.NotEqual(t, StreamKey("pk", "a"), StreamKey("pk", "b"))
	assert.Equal(t, AccountKey(" s "), AccountKey("s"))
}
