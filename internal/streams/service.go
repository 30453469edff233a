// Package streams fetches NIP-53 live events by address.
package streams

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"nostr-widgets/internal/cache"
	"nostr-widgets/internal/nostr"
	"nostr-widgets/internal/relay"
	"nostr-widgets/internal/types"
)

var (
	// ErrNotFound means no relay returned the addressed live event
	ErrNotFound = errors.New("stream not found")
	ErrNoRelays = errors.New("no relays configured")
)

// DefaultFetchTimeout bounds one shared relay query for a stream address
const DefaultFetchTimeout = 4 * time.Second

// EventSource runs a one-shot REQ across relays
type EventSource interface {
	FetchEvents(ctx context.Context, relays []string, subID string, filter types.Filter) ([]types.Event, bool)
	Relays() []string
}

// Service resolves live events with caching and request coalescing
type Service struct {
	source EventSource
	cache  *cache.StreamStore
	group  singleflight.Group

	FetchTimeout time.Duration
}

func NewService(source EventSource, store *cache.StreamStore) *Service {
	return &Service{source: source, cache: store, FetchTimeout: DefaultFetchTimeout}
}

// FetchStream returns the newest kind 30311 event for (pubkey, identifier).
// relayHints from an naddr are queried alongside the default relays.
func (s *Service) FetchStream(ctx context.Context, identifier, pubkey string, relayHints ...string) (*types.StreamingData, error) {
	if stream, notFound, ok := s.cache.Get(ctx, pubkey, identifier); ok {
		if notFound {
			return nil, ErrNotFound
		}
		return stream, nil
	}

	// Detached from ctx: a caller that gives up must not fail the others waiting on this key.
	ch := s.group.DoChan(pubkey+":"+identifier, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.FetchTimeout)
		defer cancel()
		return s.fetchDirect(fctx, identifier, pubkey, relayHints)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*types.StreamingData), nil
	}
}

func (s *Service) fetchDirect(ctx context.Context, identifier, pubkey string, relayHints []string) (*types.StreamingData, error) {
	relays := relay.NormalizeURLs(append(append([]string{}, relayHints...), s.source.Relays()...))
	if len(relays) == 0 {
		return nil, ErrNoRelays
	}

	filter := types.Filter{
		Authors: []string{pubkey},
		Kinds:   []int{types.KindLiveEvent},
		DTags:   []string{identifier},
		Limit:   1,
	}
	events, _ := s.source.FetchEvents(ctx, relays, relay.NewSubID("stream"), filter)

	// Addressable: newest wins. FetchEvents already sorts newest first.
	for _, evt := range events {
		stream, err := Parse(evt)
		if err != nil || stream.ID != identifier || evt.PubKey != pubkey {
			continue
		}
		s.cache.Set(ctx, pubkey, identifier, stream)
		return stream, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch stream: %w", err)
	}
	s.cache.Set(ctx, pubkey, identifier, nil)
	slog.Debug("stream not found", "pubkey", nostr.ShortID(pubkey), "d", identifier)
	return nil, ErrNotFound
}
