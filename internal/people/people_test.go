package people

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nostr-widgets/internal/cache"
	"nostr-widgets/internal/nostr"
	"nostr-widgets/internal/relay"
	"nostr-widgets/internal/types"
)

const testKey = "0000000000000000000000000000000000000000000000000000000000000003"

// fakeSource serves canned kind 0 events and records each query
type fakeSource struct {
	mu      sync.Mutex
	events  map[string]types.Event
	queries [][]string
	subIDs  []string
	calls   atomic.Int32
	delay   time.Duration

	// gate, when set, holds each query open until closed
	gate    chan struct{}
	started chan struct{}
}

func (f *fakeSource) Relays() []string { return []string{"wss://relay.test"} }

func (f *fakeSource) FetchEvents(ctx context.Context, relays []string, subID string, filter types.Filter) ([]types.Event, bool) {
	f.calls.Add(1)
	if f.gate != nil {
		f.started <- struct{}{}
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, false
		}
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, false
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, append([]string(nil), filter.Authors...))
	f.subIDs = append(f.subIDs, subID)
	var out []types.Event
	for _, pk := range filter.Authors {
		if evt, ok := f.events[pk]; ok {
			out = append(out, evt)
		}
	}
	return out, true
}

func metadataEvent(pubkey string, createdAt int64, fields map[string]string) types.Event {
	content, _ := json.Marshal(fields)
	return types.Event{PubKey: pubkey, Kind: types.KindMetadata, CreatedAt: createdAt, Content: string(content)}
}

func newTestService(t *testing.T, src *fakeSource) *Service {
	t.Helper()
	backend := cache.NewMemoryCache(100, 0)
	t.Cleanup(func() { backend.Close() })
	opts := DefaultOptions()
	opts.BatchWindow = 25 * time.Millisecond
	return NewService(src, cache.NewProfileStore(backend, cache.DefaultCacheConfig()), opts)
}

func TestFetchPeopleOnlyQueriesMissing(t *testing.T) {
	src := &fakeSource{events: map[string]types.Event{
		"pk1": metadataEvent("pk1", 1, map[string]string{"name": "one"}),
		"pk2": metadataEvent("pk2", 1, map[string]string{"name": "two"}),
	}}
	svc := newTestService(t, src)
	ctx := context.Background()

	got, err := svc.FetchPeople(ctx, []string{"pk1"}, "sub-a")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "one", got[0].Name)

	got, err = svc.FetchPeople(ctx, []string{"pk1", "pk2", "pk1"}, "sub-b")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "pk1", got[0].Pubkey)
	assert.Equal(t, "pk2", got[1].Pubkey)

	require.Len(t, src.queries, 2)
	assert.Equal(t, []string{"pk2"}, src.queries[1])
	assert.Equal(t, []string{"sub-a", "sub-b"}, src.subIDs)
}

func TestFetchPeopleCachesMisses(t *testing.T) {
	src := &fakeSource{events: map[string]types.Event{}}
	svc := newTestService(t, src)

	got, err := svc.FetchPeople(context.Background(), []string{"ghost"}, "s")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = svc.FetchPeople(context.Background(), []string{"ghost"}, "s")
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestFetchPeopleCancelled(t *testing.T) {
	src := &fakeSource{events: map[string]types.Event{}, delay: time.Second}
	svc := newTestService(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.FetchPeople(ctx, []string{"pk"}, "s")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchPeopleSharedFetchSurvivesLeaderCancel(t *testing.T) {
	src := &fakeSource{
		events: map[string]types.Event{
			"host": metadataEvent("host", 1, map[string]string{"name": "The Host"}),
		},
		gate:    make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	svc := newTestService(t, src)

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := svc.FetchPeople(leaderCtx, []string{"host"}, "leader")
		leaderErr <- err
	}()
	<-src.started

	type result struct {
		profiles []*types.Profile
		err      error
	}
	follower := make(chan result, 1)
	go func() {
		got, err := svc.FetchPeople(context.Background(), []string{"host"}, "follower")
		follower <- result{got, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	close(src.gate)
	res := <-follower
	require.NoError(t, res.err)
	require.Len(t, res.profiles, 1)
	assert.Equal(t, "The Host", res.profiles[0].Name)
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestGetBatchesConcurrentLookups(t *testing.T) {
	src := &fakeSource{events: map[string]types.Event{
		"a": metadataEvent("a", 1, map[string]string{"name": "A"}),
		"b": metadataEvent("b", 1, map[string]string{"name": "B"}),
	}}
	svc := newTestService(t, src)

	var wg sync.WaitGroup
	results := make([]*types.Profile, 2)
	for i, pk := range []string{"a", "b"} {
		wg.Add(1)
		go func(i int, pk string) {
			defer wg.Done()
			p, err := svc.Get(context.Background(), pk)
			assert.NoError(t, err)
			results[i] = p
		}(i, pk)
	}
	wg.Wait()

	require.NotNil(t, results[0])
	require.NotNil(t, results[1])
	assert.Equal(t, "A", results[0].Name)
	assert.Equal(t, "B", results[1].Name)
	assert.Equal(t, int32(1), src.calls.Load(), "both lookups should share one REQ")
}

func TestParseProfileKeepsNewest(t *testing.T) {
	events := []types.Event{
		metadataEvent("pk", 1, map[string]string{"name": "old"}),
		metadataEvent("pk", 5, map[string]string{"name": "new", "displayName": "New"}),
		{PubKey: "pk", Kind: types.KindMetadata, CreatedAt: 9, Content: "not json"},
	}
	got := newestProfiles(events)
	require.Contains(t, got, "pk")
	assert.Equal(t, "new", got["pk"].Name)
	assert.Equal(t, "New", got["pk"].DisplayName)
}

func TestMetadataContentPreservesUnknownFields(t *testing.T) {
	p := &types.Profile{Name: "x", Nip05: "x@y.z", Raw: map[string]interface{}{"custom": "keep", "lud16": "old@ln"}}
	content, err := MetadataContent(p)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(content), &m))
	assert.Equal(t, "keep", m["custom"])
	assert.Equal(t, "x@y.z", m["nip05"])
	assert.NotContains(t, m, "lud16")
}

type fakePublisher struct {
	accept bool
	got    *types.Event
}

func (f *fakePublisher) Publish(ctx context.Context, relays []string, evt *types.Event) []relay.PublishResult {
	f.got = evt
	return []relay.PublishResult{{Relay: "wss://relay.test", EventID: evt.ID, Success: f.accept}}
}

func TestMetadataUpdaterSetField(t *testing.T) {
	signer, err := nostr.NewSigner(testKey)
	require.NoError(t, err)
	pk := signer.Pubkey()

	src := &fakeSource{events: map[string]types.Event{
		pk: metadataEvent(pk, 1, map[string]string{"name": "me", "lud16": "old@ln.example"}),
	}}
	svc := newTestService(t, src)
	pub := &fakePublisher{accept: true}
	u := NewMetadataUpdater(svc, signer, pub)

	p, err := u.SetField(context.Background(), pk, "nip05", "me@premium.example")
	require.NoError(t, err)
	assert.Equal(t, "me@premium.example", p.Nip05)
	assert.Equal(t, "old@ln.example", p.Lud16)

	require.NotNil(t, pub.got)
	assert.True(t, nostr.ValidateEventSignature(pub.got))
	assert.Contains(t, pub.got.Content, `"nip05":"me@premium.example"`)

	cached, err := svc.Get(context.Background(), pk)
	require.NoError(t, err)
	assert.Equal(t, "me@premium.example", cached.Nip05)
}

func TestMetadataUpdaterErrors(t *testing.T) {
	signer, err := nostr.NewSigner(testKey)
	require.NoError(t, err)
	svc := newTestService(t, &fakeSource{events: map[string]types.Event{}})

	_, err = NewMetadataUpdater(svc, signer, &fakePublisher{accept: true}).SetField(context.Background(), "someone-else", "nip05", "x")
	assert.ErrorIs(t, err, ErrSignerMismatch)

	_, err = NewMetadataUpdater(svc, signer, &fakePublisher{accept: true}).SetField(context.Background(), signer.Pubkey(), "website", "x")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = NewMetadataUpdater(svc, signer, &fakePublisher{accept: false}).SetField(context.Background(), signer.Pubkey(), "lud16", "a@b.c")
	assert.ErrorIs(t, err, ErrNotAccepted)

	_, err = NewMetadataUpdater(svc, nil, &fakePublisher{}).SetField(context.Background(), signer.Pubkey(), "lud16", "a@b.c")
	assert.ErrorIs(t, err, nostr.ErrNoSigner)
}
