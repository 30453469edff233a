package types

// Live event statuses (NIP-53)
const (
	StreamStatusLive    = "live"
	StreamStatusEnded   = "ended"
	StreamStatusPlanned = "planned"
)

// StreamingData is the parsed form of a kind 30311 live event
type StreamingData struct {
	ID                  string   `json:"id"` // d-tag
	EventID             string   `json:"event_id,omitempty"`
	Pubkey              string   `json:"pubkey"`
	Title               string   `json:"title,omitempty"`
	Summary             string   `json:"summary,omitempty"`
	Image               string   `json:"image,omitempty"`
	Status              string   `json:"status"`
	Starts              int64    `json:"starts,omitempty"`
	Ends                int64    `json:"ends,omitempty"`
	Participants        []string `json:"participants,omitempty"`
	Hosts               []string `json:"hosts,omitempty"`
	CurrentParticipants int      `json:"current_participants,omitempty"`
	StreamingURL        string   `json:"streaming_url,omitempty"`
	RecordingURL        string   `json:"recording_url,omitempty"`
	Hashtags            []string `json:"hashtags,omitempty"`
}

// IsLive reports whether the stream is currently broadcasting
func (s *StreamingData) IsLive() bool {
	return s != nil && s.Status == StreamStatusLive
}
