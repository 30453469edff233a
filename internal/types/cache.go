package types

// CachedProfile wraps profile data for serialization
type CachedProfile struct {
	Profile   *Profile `json:"profile,omitempty"`
	FetchedAt int64    `json:"fetched_at"`
	NotFound  bool     `json:"not_found"`
}

// CachedStream wraps a parsed live event for serialization
type CachedStream struct {
	Stream    *StreamingData `json:"stream,omitempty"`
	FetchedAt int64          `json:"fetched_at"`
	NotFound  bool           `json:"not_found"`
}

// CachedAccount is the per-session account state
type CachedAccount struct {
	SessionID    string        `json:"session_id"`
	Pubkey       string        `json:"pubkey,omitempty"`
	EmojiHistory []EmojiOption `json:"emoji_history,omitempty"`
	UpdatedAt    int64         `json:"updated_at"`
}
