package main

import (
	"context"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"nostr-widgets/internal/nips"
	"nostr-widgets/internal/types"
)

// =============================================================================
// Request Parsing Helpers
// =============================================================================

// isHexID reports whether s is a 32-byte hex id (event id or pubkey)
func isHexID(s string) bool {
	if len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// parseNoteID accepts a hex event id or a note1/nevent1 identifier
func parseNoteID(s string) (string, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "nostr:")
	if isHexID(s) {
		return strings.ToLower(s), true
	}
	entity, err := nips.Decode(s)
	if err != nil {
		return "", false
	}
	switch v := entity.Data.(type) {
	case string:
		if entity.Type == nips.TypeNote {
			return v, true
		}
	case *nips.EventPointer:
		return v.ID, true
	}
	return "", false
}

// parseCount reads a non-negative counter, 0 for anything unparsable
func parseCount(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseList splits a comma separated parameter, dropping blanks
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// isPhone reports a phone-sized client from the user agent's mobile token
func isPhone(r *http.Request) bool {
	return strings.Contains(r.UserAgent(), "Mobi")
}

// maxReactionRunes bounds a free-form reaction glyph (ZWJ sequences run long)
const maxReactionRunes = 10

// reactionOption resolves a reaction glyph through the catalog, accepting short
// glyphs the catalog does not know
func (a *App) reactionOption(glyph string) *types.EmojiOption {
	glyph = strings.TrimSpace(glyph)
	if glyph == "" {
		return nil
	}
	if opt, ok := a.catalog.Lookup(glyph); ok {
		return &opt
	}
	if utf8.RuneCountInString(glyph) > maxReactionRunes {
		return nil
	}
	return &types.EmojiOption{Name: glyph, Keywords: []string{}}
}

// resolveUser loads the profile for a pubkey/npub parameter. An unresolvable
// profile still yields the pubkey so it keeps its place as the known user.
func (a *App) resolveUser(ctx context.Context, raw string) *types.Profile {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	pk, err := nips.DecodePubkey(raw)
	if err != nil {
		LoggerFromContext(ctx).Debug("ignoring invalid user parameter", "error", err)
		return nil
	}
	return a.profileFor(ctx, pk)
}
