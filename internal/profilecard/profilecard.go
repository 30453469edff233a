// Package profilecard derives display fields for a user profile.
package profilecard

import (
	"html/template"
	"strings"

	"nostr-widgets/internal/markup"
	"nostr-widgets/internal/nips"
	"nostr-widgets/internal/types"
)

// ProfilePath is the route prefix for profile cards
const ProfilePath = "/html/profile/"

// Link returns the profile card URL for a hex pubkey, or "" when it cannot be encoded
func Link(pubkey string) string {
	npub, err := nips.EncodePubkey(pubkey)
	if err != nil {
		return ""
	}
	return ProfilePath + npub
}

// npubOf prefers the cached npub and falls back to encoding
func npubOf(p *types.Profile) string {
	if p.Npub != "" {
		return p.Npub
	}
	npub, _ := nips.EncodePubkey(p.Pubkey)
	return npub
}

// DisplayName falls back display_name → name → short npub; empty for nil
func DisplayName(p *types.Profile) string {
	if p == nil {
		return ""
	}
	if name := strings.TrimSpace(p.DisplayName); name != "" {
		return name
	}
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return nips.FormatNpubShort(npubOf(p))
}

// Nip05Label renders a nip05 for display; the root identifier "_@domain" shows as "domain"
func Nip05Label(p *types.Profile) string {
	if p == nil {
		return ""
	}
	return strings.TrimPrefix(strings.TrimSpace(p.Nip05), "_@")
}

// Card is the render model for a profile card
type Card struct {
	Pubkey   string
	Npub     string
	Link     string
	Name     string
	Picture  string
	Banner   string
	Nip05    string
	HasNip05 bool
	Lud16    string
	Website  string
	About    template.HTML
	Initial  string
}

// New builds a card; nil profiles produce an empty card
func New(p *types.Profile) Card {
	if p == nil {
		return Card{}
	}
	name := DisplayName(p)
	c := Card{
		Pubkey:  p.Pubkey,
		Npub:    npubOf(p),
		Link:    Link(p.Pubkey),
		Name:    name,
		Picture: p.Picture,
		Banner:  p.Banner,
		Nip05:   Nip05Label(p),
		Lud16:   p.Lud16,
		Website: p.Website,
		About:   markup.Render(p.About),
	}
	c.HasNip05 = c.Nip05 != ""
	if r := []rune(name); len(r) > 0 {
		c.Initial = strings.ToUpper(string(r[0]))
	}
	return c
}
