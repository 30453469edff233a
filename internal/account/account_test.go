package account

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nostr-widgets/internal/cache"
	"nostr-widgets/internal/types"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	backend := cache.NewMemoryCache(100, 0)
	t.Cleanup(func() { backend.Close() })
	return NewService(cache.NewAccountStore(backend, cache.DefaultCacheConfig()))
}

func TestPushHistory(t *testing.T) {
	h := []types.EmojiOption{{Name: "🔥"}, {Name: "👍"}, {Name: "🚀"}}
	out := PushHistory(h, types.EmojiOption{Name: "👍"}, 10)
	assert.Equal(t, []string{"👍", "🔥", "🚀"}, names(out))

	out = PushHistory(h, types.EmojiOption{Name: "🤙"}, 3)
	assert.Equal(t, []string{"🤙", "🔥", "👍"}, names(out))
	assert.Len(t, h, 3)
}

func TestSaveEmojiAndHistory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assert.Empty(t, svc.EmojiHistory(ctx, "s1"))
	require.NoError(t, svc.SaveEmoji(ctx, "s1", types.EmojiOption{Name: "🔥"}))
	require.NoError(t, svc.SaveEmoji(ctx, "s1", types.EmojiOption{Name: "👀"}))
	require.NoError(t, svc.SaveEmoji(ctx, "s1", types.EmojiOption{Name: "🔥"}))

	assert.Equal(t, []string{"🔥", "👀"}, names(svc.EmojiHistory(ctx, "s1")))
	assert.Empty(t, svc.EmojiHistory(ctx, "s2"))
}

func TestPubkeyBinding(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assert.Empty(t, svc.Pubkey(ctx, "s1"))
	require.NoError(t, svc.SaveEmoji(ctx, "s1", types.EmojiOption{Name: "🔥"}))
	require.NoError(t, svc.SetPubkey(ctx, "s1", "abcd"))
	assert.Equal(t, "abcd", svc.Pubkey(ctx, "s1"))
	assert.Len(t, svc.EmojiHistory(ctx, "s1"), 1)
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (*types.CachedAccount, error) {
	return nil, errors.New("down")
}

func (failingStore) Set(context.Context, *types.CachedAccount) error { return errors.New("down") }

func TestStoreFailuresDegrade(t *testing.T) {
	svc := NewService(failingStore{})
	ctx := context.Background()
	assert.Nil(t, svc.EmojiHistory(ctx, "s1"))
	assert.Empty(t, svc.Pubkey(ctx, "s1"))
	assert.Error(t, svc.SaveEmoji(ctx, "s1", types.EmojiOption{Name: "🔥"}))
}

func names(opts []types.EmojiOption) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Name
	}
	return out
}
