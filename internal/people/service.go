// Package people fetches and caches kind 0 profiles.
package people

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"nostr-widgets/internal/cache"
	"nostr-widgets/internal/nostr"
	"nostr-widgets/internal/relay"
	"nostr-widgets/internal/types"
	"nostr-widgets/internal/util"
)

// ErrNoRelays is returned when a fetch has nowhere to go
var ErrNoRelays = errors.New("no relays configured")

// EventSource runs a one-shot REQ across relays
type EventSource interface {
	FetchEvents(ctx context.Context, relays []string, subID string, filter types.Filter) ([]types.Event, bool)
	Relays() []string
}

// Stats receives cache hit/miss observations
type Stats interface {
	CacheHit(name string)
	CacheMiss(name string)
}

type noopStats struct{}

func (noopStats) CacheHit(string)  {}
func (noopStats) CacheMiss(string) {}

// Service resolves profiles: cache first, then relays
type Service struct {
	source   EventSource
	profiles *cache.ProfileStore
	batcher  *Batcher[*types.Profile]
	group    singleflight.Group
	stats    Stats

	fetchTimeout time.Duration
}

// Options tunes batching
type Options struct {
	BatchWindow  time.Duration
	MaxBatch     int
	FetchTimeout time.Duration
	Stats        Stats
}

// DefaultOptions returns sensible defaults for batching
func DefaultOptions() Options {
	return Options{
		BatchWindow:  50 * time.Millisecond,
		MaxBatch:     100,
		FetchTimeout: 2500 * time.Millisecond,
	}
}

// NewService wires the relay source to the profile cache
func NewService(source EventSource, profiles *cache.ProfileStore, opts Options) *Service {
	if opts.Stats == nil {
		opts.Stats = noopStats{}
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultOptions().FetchTimeout
	}
	s := &Service{source: source, profiles: profiles, stats: opts.Stats, fetchTimeout: opts.FetchTimeout}
	s.batcher = NewBatcher("profiles", func(ctx context.Context, keys []string) map[string]*types.Profile {
		found, err := s.fetchDirect(ctx, keys, relay.NewSubID("profiles"))
		if err != nil {
			slog.Warn("batched profile fetch failed", "keys", len(keys), "error", err)
		}
		return found
	}, opts.BatchWindow, opts.MaxBatch, opts.FetchTimeout)
	return s
}

// buildBatchKey creates a stable singleflight key from an unordered pubkey set
func buildBatchKey(prefix string, ids []string) string {
	return prefix + ":" + strings.Join(util.SortedCopy(ids), ",")
}

// FetchPeople returns profiles for the given pubkeys, querying relays only for
// those not already cached. subID names the REQ sent for the missing set.
func (s *Service) FetchPeople(ctx context.Context, pubkeys []string, subID string) ([]*types.Profile, error) {
	pubkeys = util.DedupeStrings(pubkeys)
	if len(pubkeys) == 0 {
		return nil, nil
	}

	found, missing := s.profiles.GetMultiple(ctx, pubkeys)
	if len(missing) == 0 {
		s.stats.CacheHit("profiles")
		return ordered(pubkeys, found), nil
	}
	s.stats.CacheMiss("profiles")

	// Joined callers share the fetch, so it outlives the caller that started it.
	ch := s.group.DoChan(buildBatchKey("people", missing), func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		return s.fetchDirect(fctx, missing, subID)
	})

	select {
	case <-ctx.Done():
		return ordered(pubkeys, found), ctx.Err()
	case res := <-ch:
		if res.Shared {
			slog.Debug("singleflight: shared people fetch", "count", len(missing))
		}
		if fresh, ok := res.Val.(map[string]*types.Profile); ok {
			for pk, p := range fresh {
				found[pk] = p
			}
		}
		return ordered(pubkeys, found), res.Err
	}
}

// Get resolves one profile through the batcher so concurrent single lookups share a REQ.
// Returns nil without error when the pubkey has no metadata.
func (s *Service) Get(ctx context.Context, pubkey string) (*types.Profile, error) {
	found, missing := s.profiles.GetMultiple(ctx, []string{pubkey})
	if p, ok := found[pubkey]; ok {
		s.stats.CacheHit("profiles")
		return p, nil
	}
	if len(missing) == 0 {
		// Cached as not found
		return nil, nil
	}
	s.stats.CacheMiss("profiles")

	res, err := s.batcher.GetMultiple(ctx, []string{pubkey})
	if err != nil {
		return nil, err
	}
	return res[pubkey], nil
}

// Refresh bypasses the cache, used before rewriting metadata
func (s *Service) Refresh(ctx context.Context, pubkey string) (*types.Profile, error) {
	s.profiles.Delete(ctx, pubkey)
	found, err := s.fetchDirect(ctx, []string{pubkey}, relay.NewSubID("refresh"))
	if err != nil {
		return nil, err
	}
	return found[pubkey], nil
}

// Store caches a profile known to be current, such as one just published
func (s *Service) Store(ctx context.Context, p *types.Profile) {
	s.profiles.SetMultiple(ctx, map[string]*types.Profile{p.Pubkey: p})
}

func (s *Service) fetchDirect(ctx context.Context, pubkeys []string, subID string) (map[string]*types.Profile, error) {
	relays := s.source.Relays()
	if len(relays) == 0 {
		return nil, ErrNoRelays
	}

	filter := types.Filter{
		Authors: pubkeys,
		Kinds:   []int{types.KindMetadata},
		Limit:   len(pubkeys),
	}
	events, _ := s.source.FetchEvents(ctx, relays, subID, filter)
	if err := ctx.Err(); err != nil && len(events) == 0 {
		return nil, fmt.Errorf("fetch profiles: %w", err)
	}

	fresh := newestProfiles(events)

	// Remember misses so the next render doesn't hit relays again
	toCache := make(map[string]*types.Profile, len(pubkeys))
	for _, pk := range pubkeys {
		toCache[pk] = fresh[pk]
	}
	s.profiles.SetMultiple(ctx, toCache)

	slog.Debug("fetched profiles", "requested", len(pubkeys), "found", len(fresh), "sub", subID, "first", nostr.ShortID(pubkeys[0]))
	return fresh, nil
}

// ordered returns profiles in request order, skipping unknown pubkeys
func ordered(pubkeys []string, found map[string]*types.Profile) []*types.Profile {
	out := make([]*types.Profile, 0, len(found))
	for _, pk := range pubkeys {
		if p, ok := found[pk]; ok && p != nil {
			out = append(out, p)
		}
	}
	return out
}
