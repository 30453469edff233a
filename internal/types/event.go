// Package types provides shared type definitions used across internal packages.
package types

// Event represents a Nostr event (NIP-01)
type Event struct {
	ID         string     `json:"id"`
	PubKey     string     `json:"pubkey"`
	CreatedAt  int64      `json:"created_at"`
	Kind       int        `json:"kind"`
	Tags       [][]string `json:"tags"`
	Content    string     `json:"content"`
	Sig        string     `json:"sig"`
	RelaysSeen []string   `json:"-"`
}

// Filter represents a Nostr subscription filter (NIP-01)
type Filter struct {
	IDs     []string
	Authors []string
	Kinds   []int
	Limit   int
	Since   *int64
	Until   *int64
	DTags   []string // #d tag filter (d-tag for addressable events)
	PTags   []string // #p tag filter
}

// ToREQ builds the JSON filter object sent in a REQ message
func (f Filter) ToREQ() map[string]interface{} {
	req := map[string]interface{}{}
	if f.Limit > 0 {
		req["limit"] = f.Limit
	}
	if len(f.IDs) > 0 {
		req["ids"] = f.IDs
	}
	if len(f.Authors) > 0 {
		req["authors"] = f.Authors
	}
	if len(f.Kinds) > 0 {
		req["kinds"] = f.Kinds
	}
	if f.Since != nil {
		req["since"] = *f.Since
	}
	if f.Until != nil {
		req["until"] = *f.Until
	}
	if len(f.DTags) > 0 {
		req["#d"] = f.DTags
	}
	if len(f.PTags) > 0 {
		req["#p"] = f.PTags
	}
	return req
}

// NostrMessage represents a raw Nostr protocol message
type NostrMessage []interface{}

// Event kinds used by the widgets
const (
	KindMetadata  = 0
	KindLiveEvent = 30311
)
