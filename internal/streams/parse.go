package streams

import (
	"errors"
	"strconv"
	"strings"

	"nostr-widgets/internal/types"
	"nostr-widgets/internal/util"
)

// ErrNotLiveEvent is returned when parsing any event other than kind 30311
var ErrNotLiveEvent = errors.New("not a live event")

// Parse reads a kind 30311 live event into StreamingData.
// Participants are every p-tag in order; hosts are those whose role is "host".
func Parse(evt types.Event) (*types.StreamingData, error) {
	if evt.Kind != types.KindLiveEvent {
		return nil, ErrNotLiveEvent
	}

	s := &types.StreamingData{
		ID:           util.GetTagValue(evt.Tags, "d"),
		EventID:      evt.ID,
		Pubkey:       evt.PubKey,
		Title:        util.GetTagValue(evt.Tags, "title"),
		Summary:      util.GetTagValue(evt.Tags, "summary"),
		Image:        util.GetTagValue(evt.Tags, "image"),
		Status:       strings.ToLower(util.GetTagValue(evt.Tags, "status")),
		Starts:       util.GetTagInt(evt.Tags, "starts"),
		Ends:         util.GetTagInt(evt.Tags, "ends"),
		StreamingURL: util.GetTagValue(evt.Tags, "streaming"),
		RecordingURL: util.GetTagValue(evt.Tags, "recording"),
		Hashtags:     util.DedupeStrings(util.GetTagValues(evt.Tags, "t")),
	}

	if n, err := strconv.Atoi(util.GetTagValue(evt.Tags, "current_participants")); err == nil && n > 0 {
		s.CurrentParticipants = n
	}

	seen := make(map[string]bool)
	for _, tag := range evt.Tags {
		if len(tag) < 2 || tag[0] != "p" || tag[1] == "" || seen[tag[1]] {
			continue
		}
		seen[tag[1]] = true
		s.Participants = append(s.Participants, tag[1])
		if len(tag) >= 4 && strings.EqualFold(tag[3], "host") {
			s.Hosts = append(s.Hosts, tag[1])
		}
	}

	switch s.Status {
	case types.StreamStatusLive, types.StreamStatusEnded, types.StreamStatusPlanned:
	default:
		// NIP-53: a missing or unknown status with an ends time is over
		if s.Ends > 0 {
			s.Status = types.StreamStatusEnded
		} else {
			s.Status = types.StreamStatusPlanned
		}
	}
	if s.Starts == 0 {
		s.Starts = evt.CreatedAt
	}

	return s, nil
}
