package cache

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Key namespaces
const (
	profilePrefix = "profile:"
	streamPrefix  = "stream:"
	accountPrefix = "account:"
)

// ProfileKey is the cache key for a kind 0 profile
func ProfileKey(pubkey string) string {
	return profilePrefix + pubkey
}

// StreamKey is the cache key for a live event address (pubkey + d-tag).
// d-tags are arbitrary user text, so the address is hashed to keep keys bounded.
func StreamKey(pubkey, identifier string) string {
	h := xxhash.New()
	h.WriteString(pubkey)
	h.WriteString(":")
	h.WriteString(identifier)
	return streamPrefix + strconv.FormatUint(h.Sum64(), 16)
}

// AccountKey is the cache key for a browser session's account state
func AccountKey(sessionID string) string {
	return accountPrefix + strconv.FormatUint(xxhash.Sum64String(strings.TrimSpace(sessionID)), 16)
}
