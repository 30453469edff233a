package preview

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"nostr-widgets/internal/nips"
)

var (
	// ErrNotNaddr means the URL's last path segment is not an naddr
	ErrNotNaddr = errors.New("last path segment is not an naddr")
	// ErrUnsupportedPointer means the identifier decoded to something other than an address pointer
	ErrUnsupportedPointer = errors.New("identifier is not an address pointer")
)

// Decoder decodes a NIP-19 identifier
type Decoder func(string) (nips.Entity, error)

// lastSegment returns the final path segment, ignoring query, fragment and trailing slash
func lastSegment(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if u, err := url.Parse(s); err == nil && u.Path != "" {
		s = u.Path
	} else if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimPrefix(s, "nostr:")
}

// ParseNaddr extracts the address pointer a stream URL ends with
func ParseNaddr(rawURL string) (*nips.AddressPointer, error) {
	return parseNaddr(rawURL, nips.Decode)
}

func parseNaddr(rawURL string, decode Decoder) (*nips.AddressPointer, error) {
	seg := lastSegment(rawURL)
	if !strings.HasPrefix(seg, "naddr1") {
		return nil, ErrNotNaddr
	}

	entity, err := decode(seg)
	if err != nil {
		return nil, fmt.Errorf("decode naddr: %w", err)
	}
	if entity.Type != nips.TypeNAddr {
		return nil, fmt.Errorf("%w: got %s", ErrUnsupportedPointer, entity.Type)
	}

	ptr, ok := entity.Data.(*nips.AddressPointer)
	if !ok || ptr == nil || ptr.Identifier == "" || ptr.Pubkey == "" {
		return nil, ErrUnsupportedPointer
	}
	return ptr, nil
}
