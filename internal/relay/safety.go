package relay

import (
	"net"
	"net/url"
	"strings"
)

// IsURLSafe validates that a relay URL is safe to connect to.
// Allows localhost for development but blocks other private IP ranges.
func IsURLSafe(relayURL string) bool {
	parsed, err := url.Parse(relayURL)
	if err != nil {
		return false
	}

	if parsed.Scheme != "ws" && parsed.Scheme != "wss" {
		return false
	}

	host := parsed.Hostname()
	if host == "" {
		return false
	}

	if host == "localhost" || host == "127.0.0.1" || host == "::1" {
		return true
	}

	if ip := net.ParseIP(host); ip != nil {
		return isIPSafe(ip)
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		// Unresolvable names may still be valid externally; block obvious internal ones
		return !strings.HasSuffix(host, ".") &&
			!strings.Contains(host, ".local") && !strings.Contains(host, ".internal")
	}

	for _, ip := range ips {
		if !isIPSafe(ip) {
			return false
		}
	}
	return true
}

var metadataIP = net.ParseIP("169.254.169.254")

// isIPSafe allows loopback but blocks other private ranges
func isIPSafe(ip net.IP) bool {
	switch {
	case ip == nil:
		return false
	case ip.IsLoopback():
		return true
	case ip.IsPrivate(),
		ip.IsLinkLocalUnicast(), ip.IsLinkLocalMulticast(),
		ip.IsUnspecified(),
		ip.IsMulticast(),
		ip.Equal(metadataIP):
		return false
	}
	return true
}

// NormalizeURLs trims, lowercases the scheme/host and drops unsafe or duplicate relays
func NormalizeURLs(relays []string) []string {
	seen := make(map[string]bool, len(relays))
	out := make([]string, 0, len(relays))
	for _, r := range relays {
		r = strings.TrimRight(strings.TrimSpace(r), "/")
		if r == "" {
			continue
		}
		if u, err := url.Parse(r); err == nil {
			u.Scheme = strings.ToLower(u.Scheme)
			u.Host = strings.ToLower(u.Host)
			r = u.String()
		}
		if seen[r] || !IsURLSafe(r) {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
