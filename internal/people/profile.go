package people

import (
	"encoding/json"
	"fmt"

	"nostr-widgets/internal/nips"
	"nostr-widgets/internal/types"
)

// ParseProfile reads a kind 0 event into a Profile, keeping the raw content map
func ParseProfile(evt types.Event) (*types.Profile, error) {
	if evt.Kind != types.KindMetadata {
		return nil, fmt.Errorf("kind %d is not metadata", evt.Kind)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(evt.Content), &raw); err != nil {
		return nil, fmt.Errorf("metadata content: %w", err)
	}

	str := func(key string) string {
		s, _ := raw[key].(string)
		return s
	}

	p := &types.Profile{
		Pubkey:      evt.PubKey,
		Name:        str("name"),
		DisplayName: str("display_name"),
		Picture:     str("picture"),
		Banner:      str("banner"),
		Nip05:       str("nip05"),
		About:       str("about"),
		Lud16:       str("lud16"),
		Lud06:       str("lud06"),
		Website:     str("website"),
		Raw:         raw,
		CreatedAt:   evt.CreatedAt,
	}
	if p.DisplayName == "" {
		// Older clients write displayName
		p.DisplayName = str("displayName")
	}
	if npub, err := nips.EncodePubkey(evt.PubKey); err == nil {
		p.Npub = npub
	}
	return p, nil
}

// newestProfiles keeps the newest valid kind 0 per pubkey
func newestProfiles(events []types.Event) map[string]*types.Profile {
	out := make(map[string]*types.Profile)
	for _, evt := range events {
		p, err := ParseProfile(evt)
		if err != nil {
			continue
		}
		if cur, ok := out[evt.PubKey]; ok && cur.CreatedAt >= p.CreatedAt {
			continue
		}
		out[evt.PubKey] = p
	}
	return out
}

// MetadataContent renders a profile back to kind 0 content, preserving unknown fields
func MetadataContent(p *types.Profile) (string, error) {
	m := make(map[string]interface{}, len(p.Raw)+8)
	for k, v := range p.Raw {
		m[k] = v
	}
	set := func(key, val string) {
		if val == "" {
			delete(m, key)
			return
		}
		m[key] = val
	}
	set("name", p.Name)
	set("display_name", p.DisplayName)
	set("picture", p.Picture)
	set("banner", p.Banner)
	set("nip05", p.Nip05)
	set("about", p.About)
	set("lud16", p.Lud16)
	set("lud06", p.Lud06)
	set("website", p.Website)

	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
