package people

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"nostr-widgets/internal/nostr"
	"nostr-widgets/internal/relay"
	"nostr-widgets/internal/types"
)

var (
	ErrSignerMismatch = errors.New("signer key does not match the active user")
	ErrNotAccepted    = errors.New("no relay accepted the metadata event")
	ErrUnknownField   = errors.New("unknown metadata field")
)

// Publisher sends a signed event to relays
type Publisher interface {
	Publish(ctx context.Context, relays []string, evt *types.Event) []relay.PublishResult
}

// MetadataUpdater rewrites single kind 0 fields for the signer's own profile
type MetadataUpdater struct {
	people    *Service
	signer    *nostr.Signer
	publisher Publisher
}

func NewMetadataUpdater(people *Service, signer *nostr.Signer, publisher Publisher) *MetadataUpdater {
	return &MetadataUpdater{people: people, signer: signer, publisher: publisher}
}

// SetField refreshes the current kind 0 for pubkey, sets field ("nip05" or "lud16")
// to value, signs and publishes the result. Returns the profile as published.
func (u *MetadataUpdater) SetField(ctx context.Context, pubkey, field, value string) (*types.Profile, error) {
	if u.signer == nil {
		return nil, nostr.ErrNoSigner
	}
	if u.signer.Pubkey() != pubkey {
		return nil, ErrSignerMismatch
	}

	current, err := u.people.Refresh(ctx, pubkey)
	if err != nil {
		return nil, fmt.Errorf("load current metadata: %w", err)
	}
	if current == nil {
		// First metadata for this key
		current = &types.Profile{Pubkey: pubkey}
	}

	next := *current
	switch field {
	case "nip05":
		next.Nip05 = value
	case "lud16":
		next.Lud16 = value
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	content, err := MetadataContent(&next)
	if err != nil {
		return nil, err
	}

	evt := &types.Event{Kind: types.KindMetadata, Content: content, Tags: [][]string{}}
	if err := u.signer.Sign(evt); err != nil {
		return nil, err
	}

	results := u.publisher.Publish(ctx, nil, evt)
	if !relay.AnyAccepted(results) {
		return nil, ErrNotAccepted
	}

	next.CreatedAt = evt.CreatedAt
	u.people.Store(ctx, &next)
	slog.Info("metadata updated", "pubkey", nostr.ShortID(pubkey), "field", field, "event_id", nostr.ShortID(evt.ID))
	return &next, nil
}
