// Package preview loads the data behind a live stream link card: the stream record
// first, then the profiles of its host and participants.
package preview

import (
	"context"
	"log/slog"

	"nostr-widgets/internal/nips"
	"nostr-widgets/internal/nostr"
	"nostr-widgets/internal/types"
	"nostr-widgets/internal/util"
)

// Readiness tracks how much of the card can be rendered
type Readiness int

const (
	// StateEmpty: no stream yet; every field renders empty
	StateEmpty Readiness = iota
	// StateStream: stream fields known, host unresolved
	StateStream
	// StateResolved: stream and host resolved
	StateResolved
)

func (r Readiness) String() string {
	switch r {
	case StateStream:
		return "stream"
	case StateResolved:
		return "resolved"
	}
	return "empty"
}

// State is a snapshot published as the load progresses
type State struct {
	Readiness Readiness
	Stream    *types.StreamingData
	Host      *types.Profile
	People    []*types.Profile
}

// StreamFetcher loads one live event by address
type StreamFetcher interface {
	FetchStream(ctx context.Context, identifier, pubkey string, relayHints ...string) (*types.StreamingData, error)
}

// PeopleFetcher loads profiles for a pubkey set under a subscription id
type PeopleFetcher interface {
	FetchPeople(ctx context.Context, pubkeys []string, subID string) ([]*types.Profile, error)
}

// Loader runs the stream → people sequence
type Loader struct {
	Streams StreamFetcher
	People  PeopleFetcher
	// AppID suffixes people subscription ids
	AppID string
	// Decode defaults to nips.Decode
	Decode Decoder
}

// Run loads the stream referenced by rawURL and publishes each state as it becomes
// available. A non-nil user is the host regardless of the stream's own data.
// Errors are logged and returned; publish is never called once ctx is done.
func (l *Loader) Run(ctx context.Context, rawURL string, user *types.Profile, publish func(State)) error {
	state := State{Readiness: StateEmpty, Host: user}
	emit := func() bool {
		if ctx.Err() != nil {
			return false
		}
		publish(state)
		return true
	}
	if !emit() {
		return ctx.Err()
	}

	decode := l.Decode
	if decode == nil {
		decode = nips.Decode
	}
	ptr, err := parseNaddr(rawURL, decode)
	if err != nil {
		slog.Debug("stream preview: no address pointer", "url", rawURL, "error", err)
		return err
	}

	stream, err := l.Streams.FetchStream(ctx, ptr.Identifier, ptr.Pubkey, ptr.Relays...)
	if err != nil {
		slog.Warn("stream preview: fetch stream failed", "d", ptr.Identifier, "pubkey", nostr.ShortID(ptr.Pubkey), "error", err)
		return err
	}

	state.Stream = stream
	state.Readiness = StateStream
	if !emit() {
		return ctx.Err()
	}

	pubkeys := util.DedupeStrings(append(append([]string{}, stream.Participants...), stream.Pubkey))
	missing := pubkeys
	if user != nil {
		state.People = []*types.Profile{user}
		missing = util.FilterOut(pubkeys, user.Pubkey)
	}

	if len(missing) > 0 {
		people, err := l.People.FetchPeople(ctx, missing, l.subID(stream))
		if err != nil {
			slog.Warn("stream preview: fetch people failed", "d", stream.ID, "count", len(missing), "error", err)
			return err
		}
		state.People = append(state.People, people...)
	}

	if user == nil {
		state.Host = FirstHost(stream, state.People)
	}
	state.Readiness = StateResolved
	if !emit() {
		return ctx.Err()
	}
	return nil
}

func (l *Loader) subID(stream *types.StreamingData) string {
	id := "fetch_missing_people_" + stream.ID
	if l.AppID != "" {
		id += "_" + l.AppID
	}
	return id
}

// FirstHost picks the profile for hosts[0], else the stream author, else nil
func FirstHost(stream *types.StreamingData, people []*types.Profile) *types.Profile {
	if stream == nil {
		return nil
	}
	find := func(pk string) *types.Profile {
		for _, p := range people {
			if p != nil && p.Pubkey == pk {
				return p
			}
		}
		return nil
	}
	if len(stream.Hosts) > 0 {
		if p := find(stream.Hosts[0]); p != nil {
			return p
		}
	}
	return find(stream.Pubkey)
}
