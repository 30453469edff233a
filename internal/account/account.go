// Package account keeps per-session account state: the bound pubkey and emoji history.
package account

import (
	"context"
	"fmt"
	"log/slog"

	"nostr-widgets/internal/types"
)

// MaxEmojiHistory caps the stored history
const MaxEmojiHistory = 32

// Store is the persistence the service needs
type Store interface {
	Get(ctx context.Context, sessionID string) (*types.CachedAccount, error)
	Set(ctx context.Context, acct *types.CachedAccount) error
}

// Service reads and updates session accounts
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Load returns the session's account; a missing account is an empty one
func (s *Service) Load(ctx context.Context, sessionID string) (*types.CachedAccount, error) {
	acct, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if acct == nil {
		acct = &types.CachedAccount{SessionID: sessionID}
	}
	return acct, nil
}

// EmojiHistory returns the most recent selections first. Read errors yield an empty history.
func (s *Service) EmojiHistory(ctx context.Context, sessionID string) []types.EmojiOption {
	acct, err := s.Load(ctx, sessionID)
	if err != nil {
		slog.Warn("emoji history unavailable", "session", shortID(sessionID), "error", err)
		return nil
	}
	return acct.EmojiHistory
}

// SaveEmoji moves opt to the front of the history
func (s *Service) SaveEmoji(ctx context.Context, sessionID string, opt types.EmojiOption) error {
	acct, err := s.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	acct.EmojiHistory = PushHistory(acct.EmojiHistory, opt, MaxEmojiHistory)
	if err := s.store.Set(ctx, acct); err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

// SetPubkey binds a read-only pubkey to the session
func (s *Service) SetPubkey(ctx context.Context, sessionID, pubkey string) error {
	acct, err := s.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	acct.Pubkey = pubkey
	if err := s.store.Set(ctx, acct); err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

// Pubkey returns the session's bound pubkey, empty when none
func (s *Service) Pubkey(ctx context.Context, sessionID string) string {
	acct, err := s.Load(ctx, sessionID)
	if err != nil {
		slog.Warn("account unavailable", "session", shortID(sessionID), "error", err)
		return ""
	}
	return acct.Pubkey
}

// PushHistory prepends opt, drops earlier entries with the same name and caps the length
func PushHistory(history []types.EmojiOption, opt types.EmojiOption, max int) []types.EmojiOption {
	out := make([]types.EmojiOption, 0, len(history)+1)
	out = append(out, opt)
	for _, h := range history {
		if h.Name != opt.Name {
			out = append(out, h)
		}
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
