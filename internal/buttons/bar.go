package buttons

import (
	"nostr-widgets/internal/types"
)

// Stats are the per-note counters shown on the footer
type Stats struct {
	Replies int64
	Zaps    int64 // sats
	Likes   int64
	Reposts int64
}

// Bar is the full footer for one note
type Bar struct {
	NoteID string
	Stats  Stats
	// Highlighted lists types the viewer has already acted on
	Highlighted map[string]bool
	// Reaction is the viewer's custom reaction, shown on the emoji button
	Reaction *types.EmojiOption
	Primary  bool
	Large    bool
}

// Buttons builds the footer in display order
func (b Bar) Buttons() []Button {
	labels := map[string]int64{
		TypeReply:  b.Stats.Replies,
		TypeZap:    b.Stats.Zaps,
		TypeLike:   b.Stats.Likes,
		TypeRepost: b.Stats.Reposts,
	}
	titles := map[string]string{
		TypeReply:  "Reply",
		TypeZap:    "Zap",
		TypeLike:   "Like",
		TypeEmoji:  "React",
		TypeRepost: "Repost",
	}

	out := make([]Button, 0, len(Order))
	for _, t := range Order {
		btn := Button{
			Type:        t,
			NoteID:      b.NoteID,
			Title:       titles[t],
			Highlighted: b.Highlighted[t],
			Large:       b.Large,
			Primary:     b.Primary,
		}
		if n, ok := labels[t]; ok {
			btn.Label = HumanizeCount(n)
		}
		if t == TypeEmoji {
			btn.Emoji = b.Reaction
			// Without a custom reaction the emoji slot keeps its space but shows nothing
			btn.Hidden = b.Reaction == nil && !b.Highlighted[t]
		}
		out = append(out, btn)
	}
	return out
}

// Render renders every button of the bar
func (b Bar) Render(phone bool) ([]View, error) {
	buttons := b.Buttons()
	views := make([]View, 0, len(buttons))
	for _, btn := range buttons {
		v, err := btn.Render(phone)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}
