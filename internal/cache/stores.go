package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"nostr-widgets/internal/types"
)

// ProfileStore provides typed access to cached profiles
type ProfileStore struct {
	backend Backend
	config  CacheConfig
}

func NewProfileStore(backend Backend, config CacheConfig) *ProfileStore {
	return &ProfileStore{backend: backend, config: config}
}

// GetMultiple returns cached profiles and the pubkeys that need fetching.
// Pubkeys cached as "not found" are in neither result.
func (s *ProfileStore) GetMultiple(ctx context.Context, pubkeys []string) (found map[string]*types.Profile, missing []string) {
	found = make(map[string]*types.Profile)
	if len(pubkeys) == 0 {
		return found, nil
	}

	keys := make([]string, len(pubkeys))
	for i, pk := range pubkeys {
		keys[i] = ProfileKey(pk)
	}

	results, err := s.backend.GetMany(ctx, keys)
	if err != nil {
		slog.Debug("profile cache lookup failed", "error", err)
		return found, pubkeys
	}

	for i, pubkey := range pubkeys {
		data, ok := results[keys[i]]
		if !ok {
			missing = append(missing, pubkey)
			continue
		}

		var cached types.CachedProfile
		if err := json.Unmarshal(data, &cached); err != nil {
			missing = append(missing, pubkey)
			continue
		}
		if !cached.NotFound && cached.Profile != nil {
			found[pubkey] = cached.Profile
		}
	}
	return found, missing
}

// SetMultiple stores profiles; nil profiles are stored as "not found" with a short TTL
func (s *ProfileStore) SetMultiple(ctx context.Context, profiles map[string]*types.Profile) {
	now := time.Now().Unix()
	hits := make(map[string][]byte)
	misses := make(map[string][]byte)

	for pubkey, profile := range profiles {
		data, err := json.Marshal(types.CachedProfile{
			Profile:   profile,
			FetchedAt: now,
			NotFound:  profile == nil,
		})
		if err != nil {
			continue
		}
		if profile == nil {
			misses[ProfileKey(pubkey)] = data
		} else {
			hits[ProfileKey(pubkey)] = data
		}
	}

	if err := s.backend.SetMany(ctx, hits, s.config.ProfileTTL); err != nil {
		slog.Debug("profile cache write failed", "error", err)
	}
	if err := s.backend.SetMany(ctx, misses, s.config.ProfileNotFoundTTL); err != nil {
		slog.Debug("profile cache write failed", "error", err)
	}
}

// Delete evicts a profile, used after publishing new metadata
func (s *ProfileStore) Delete(ctx context.Context, pubkey string) {
	s.backend.Delete(ctx, ProfileKey(pubkey))
}

// StreamStore caches parsed live events by address
type StreamStore struct {
	backend Backend
	config  CacheConfig
}

func NewStreamStore(backend Backend, config CacheConfig) *StreamStore {
	return &StreamStore{backend: backend, config: config}
}

// Get returns (stream, notFound, inCache)
func (s *StreamStore) Get(ctx context.Context, pubkey, identifier string) (*types.StreamingData, bool, bool) {
	data, found, err := s.backend.Get(ctx, StreamKey(pubkey, identifier))
	if err != nil || !found {
		return nil, false, false
	}

	var cached types.CachedStream
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false, false
	}
	return cached.Stream, cached.NotFound, true
}

// Set stores a stream; nil records a miss. Ended streams keep longer.
func (s *StreamStore) Set(ctx context.Context, pubkey, identifier string, stream *types.StreamingData) {
	data, err := json.Marshal(types.CachedStream{
		Stream:    stream,
		FetchedAt: time.Now().Unix(),
		NotFound:  stream == nil,
	})
	if err != nil {
		return
	}

	ttl := s.config.StreamTTL
	switch {
	case stream == nil:
		ttl = s.config.StreamNotFoundTTL
	case stream.Status == types.StreamStatusEnded:
		ttl = s.config.StreamEndedTTL
	}
	s.backend.Set(ctx, StreamKey(pubkey, identifier), data, ttl)
}

// AccountStore persists per-session account state
type AccountStore struct {
	backend Backend
	config  CacheConfig
}

func NewAccountStore(backend Backend, config CacheConfig) *AccountStore {
	return &AccountStore{backend: backend, config: config}
}

// Get returns the account for a session, or nil when none is stored
func (s *AccountStore) Get(ctx context.Context, sessionID string) (*types.CachedAccount, error) {
	data, found, err := s.backend.Get(ctx, AccountKey(sessionID))
	if err != nil || !found {
		return nil, err
	}

	var acct types.CachedAccount
	if err := json.Unmarshal(data, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

// Set stores the account, refreshing its TTL
func (s *AccountStore) Set(ctx context.Context, acct *types.CachedAccount) error {
	acct.UpdatedAt = time.Now().Unix()
	data, err := json.Marshal(acct)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, AccountKey(acct.SessionID), data, s.config.AccountTTL)
}
