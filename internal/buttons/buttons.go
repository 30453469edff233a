// Package buttons renders the note footer action buttons.
package buttons

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"nostr-widgets/internal/types"
)

// Type tags
const (
	TypeZap    = "zap"
	TypeLike   = "like"
	TypeEmoji  = "emoji"
	TypeReply  = "reply"
	TypeRepost = "repost"
)

// ErrUnknownButtonType is returned for tags outside the five button types
var ErrUnknownButtonType = errors.New("unknown button type")

var typeClasses = map[string]string{
	TypeZap:    "zap-type",
	TypeLike:   "like-type",
	TypeEmoji:  "emoji-type",
	TypeReply:  "reply-type",
	TypeRepost: "repost-type",
}

// Order is the footer layout
var Order = []string{TypeReply, TypeZap, TypeLike, TypeEmoji, TypeRepost}

// ClassFor maps a button type to its style class
func ClassFor(buttonType string) (string, error) {
	class, ok := typeClasses[buttonType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownButtonType, buttonType)
	}
	return class, nil
}

// Button is one footer action
type Button struct {
	Type        string
	NoteID      string
	Label       string
	Title       string
	Highlighted bool
	Disabled    bool
	Hidden      bool
	Large       bool
	// Primary notes drop the count on phones
	Primary bool
	Emoji   *types.EmojiOption
}

// View is the render model for a Button
type View struct {
	ID          string
	NoteID      string
	Type        string
	TypeClass   string
	Highlighted bool
	Disabled    bool
	Large       bool
	Visibility  string
	Title       string
	Glyph       string
	ShowLabel   bool
	Label       string
}

// Render validates b and derives its view. phone reports a phone-sized client.
func (b Button) Render(phone bool) (View, error) {
	class, err := ClassFor(b.Type)
	if err != nil {
		return View{}, err
	}

	v := View{
		ID:          "btn_" + b.Type + "_" + b.NoteID,
		NoteID:      b.NoteID,
		Type:        b.Type,
		TypeClass:   class,
		Highlighted: b.Highlighted,
		Disabled:    b.Disabled,
		Large:       b.Large,
		Visibility:  "visible",
		Title:       b.Title,
		ShowLabel:   !(phone && b.Primary),
		Label:       labelText(b.Label),
	}
	if b.Hidden {
		v.Visibility = "hidden"
	}
	if b.Type == TypeEmoji && b.Emoji != nil {
		v.Glyph = b.Emoji.Name
	}
	return v, nil
}

// labelText drops zero counts so an empty stat shows nothing
func labelText(label string) string {
	label = strings.TrimSpace(label)
	if label == "0" {
		return ""
	}
	return label
}

// HumanizeCount formats counts compactly: 999, 1.2k, 12k, 3.4M
func HumanizeCount(n int64) string {
	switch {
	case n < 0:
		return "0"
	case n < 1000:
		return strconv.FormatInt(n, 10)
	case n < 1_000_000:
		return trimFloat(float64(n)/1000) + "k"
	case n < 1_000_000_000:
		return trimFloat(float64(n)/1_000_000) + "M"
	}
	return trimFloat(float64(n)/1_000_000_000) + "B"
}

// trimFloat keeps one decimal below 10 and none above, truncating rather than rounding up
func trimFloat(f float64) string {
	if f >= 10 {
		return strconv.FormatInt(int64(f), 10)
	}
	s := strconv.FormatFloat(float64(int64(f*10))/10, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}
