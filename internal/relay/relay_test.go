package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nostr-widgets/internal/nostr"
	"nostr-widgets/internal/types"
)

const testKey = "0000000000000000000000000000000000000000000000000000000000000003"

// fakeRelay answers every REQ with its stored events followed by EOSE,
// and every EVENT with an OK.
type fakeRelay struct {
	mu       sync.Mutex
	events   []types.Event
	received []types.Event
	reject   bool
}

func (f *fakeRelay) handler(t *testing.T) http.HandlerFunc {
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			var msg []interface{}
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			switch msg[0] {
			case "REQ":
				subID := msg[1].(string)
				f.mu.Lock()
				events := append([]types.Event(nil), f.events...)
				f.mu.Unlock()
				for _, evt := range events {
					conn.WriteJSON([]interface{}{"EVENT", subID, evt})
				}
				conn.WriteJSON([]interface{}{"EOSE", subID})
			case "EVENT":
				evt, ok := nostr.ParseEventFromInterface(msg[1])
				f.mu.Lock()
				f.received = append(f.received, evt)
				reject := f.reject
				f.mu.Unlock()
				conn.WriteJSON([]interface{}{"OK", evt.ID, ok && !reject, ""})
			}
		}
	}
}

func startRelay(t *testing.T, f *fakeRelay) string {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func signedEvent(t *testing.T, kind int, createdAt int64, content string) types.Event {
	t.Helper()
	signer, err := nostr.NewSigner(testKey)
	require.NoError(t, err)
	evt := types.Event{Kind: kind, CreatedAt: createdAt, Content: content, Tags: [][]string{}}
	require.NoError(t, signer.Sign(&evt))
	return evt
}

func TestFetchEventsDedupesAcrossRelays(t *testing.T) {
	older := signedEvent(t, 1, 1000, "older")
	newer := signedEvent(t, 1, 2000, "newer")

	r1 := startRelay(t, &fakeRelay{events: []types.Event{older, newer}})
	r2 := startRelay(t, &fakeRelay{events: []types.Event{newer}})

	pool := NewPool()
	defer pool.Close()
	client := NewClient(pool, []string{r1, r2}, 2*time.Second)

	events, allEOSE := client.FetchEvents(context.Background(), nil, "", types.Filter{Kinds: []int{1}})
	require.Len(t, events, 2)
	assert.True(t, allEOSE)
	assert.Equal(t, "newer", events[0].Content)
	assert.Len(t, events[0].RelaysSeen, 2)
}

func TestFetchEventsAppliesLimit(t *testing.T) {
	r := startRelay(t, &fakeRelay{events: []types.Event{
		signedEvent(t, 1, 1, "a"), signedEvent(t, 1, 2, "b"), signedEvent(t, 1, 3, "c"),
	}})

	pool := NewPool()
	defer pool.Close()
	client := NewClient(pool, []string{r}, 2*time.Second)

	events, _ := client.FetchEvents(context.Background(), nil, NewSubID("t"), types.Filter{Limit: 2})
	require.Len(t, events, 2)
	assert.Equal(t, "c", events[0].Content)
}

func TestPublishCollectsOK(t *testing.T) {
	good := &fakeRelay{}
	bad := &fakeRelay{reject: true}
	rGood, rBad := startRelay(t, good), startRelay(t, bad)

	pool := NewPool()
	defer pool.Close()
	client := NewClient(pool, []string{rGood, rBad}, 2*time.Second)

	evt := signedEvent(t, types.KindMetadata, 5, `{"name":"x"}`)
	results := client.Publish(context.Background(), nil, &evt)
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.True(t, AnyAccepted(results))

	good.mu.Lock()
	defer good.mu.Unlock()
	require.Len(t, good.received, 1)
	assert.Equal(t, evt.ID, good.received[0].ID)
}

func TestIsURLSafe(t *testing.T) {
	assert.True(t, IsURLSafe("ws://localhost:7777"))
	assert.True(t, IsURLSafe("ws://127.0.0.1:7777"))
	assert.False(t, IsURLSafe("http://relay.example.com"))
	assert.False(t, IsURLSafe("ws://10.0.0.4"))
	assert.False(t, IsURLSafe("ws://169.254.169.254"))
	assert.False(t, IsURLSafe("wss://"))
}

func TestNormalizeURLs(t *testing.T) {
	got := NormalizeURLs([]string{" WSS://Relay.Example.com/ ", "wss://relay.example.com", "ws://192.168.1.1", ""})
	assert.Equal(t, []string{"wss://relay.example.com"}, got)
}

func TestNewSubID(t *testing.T) {
	id := NewSubID("people")
	assert.True(t, strings.HasPrefix(id, "people-"))
	assert.NotEqual(t, id, NewSubID("people"))
}
