package preview

import (
	"fmt"
	"html/template"
	"time"

	"nostr-widgets/internal/markup"
	"nostr-widgets/internal/profilecard"
	"nostr-widgets/internal/types"
	"nostr-widgets/internal/util"
)

// StatusText is "Started X ago" for live streams and "Stream ended X ago" otherwise,
// where X is the time since the stream's start
func StatusText(stream *types.StreamingData, now time.Time) string {
	var starts int64
	if stream != nil {
		starts = stream.Starts
	}
	label := util.RelativeTime(starts, now)
	if stream.IsLive() {
		return fmt.Sprintf("Started %s ago", label)
	}
	return fmt.Sprintf("Stream ended %s ago", label)
}

// LiveHref links to the stream under its author's profile; empty without a stream
func LiveHref(stream *types.StreamingData) string {
	if stream == nil {
		return ""
	}
	base := profilecard.Link(stream.Pubkey)
	if base == "" {
		return ""
	}
	return base + "/live/" + stream.ID
}

// Card is the render model of the link card. Absent data is empty, never a spinner.
type Card struct {
	State        string
	Href         string
	Title        string
	Summary      template.HTML
	Image        string
	Status       string
	StatusText   string
	StartedAt    string
	IsLive       bool
	HasStream    bool
	Participants int

	HostName     string
	HostNip05    string
	HostVerified bool
	HostPicture  string
	HostInitial  string

	Avatars []profilecard.Card
}

const maxAvatars = 5

// NewCard derives the card from a loader state
func NewCard(s State, now time.Time) Card {
	host := profilecard.New(s.Host)
	c := Card{
		State:        s.Readiness.String(),
		HostName:     host.Name,
		HostNip05:    host.Nip05,
		HostVerified: host.HasNip05,
		HostPicture:  host.Picture,
		HostInitial:  host.Initial,
	}

	if s.Stream == nil {
		return c
	}
	c.HasStream = true
	c.Href = LiveHref(s.Stream)
	c.Title = markup.Plain(s.Stream.Title)
	c.Summary = markup.Render(s.Stream.Summary)
	c.Image = s.Stream.Image
	c.Status = s.Stream.Status
	c.StatusText = StatusText(s.Stream, now)
	c.StartedAt = util.ISOTime(s.Stream.Starts)
	c.IsLive = s.Stream.IsLive()
	c.Participants = s.Stream.CurrentParticipants

	for _, p := range util.LimitSlice(s.People, maxAvatars) {
		c.Avatars = append(c.Avatars, profilecard.New(p))
	}
	return c
}
