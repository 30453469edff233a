package picker

import (
	"nostr-widgets/internal/emoji"
	"nostr-widgets/internal/types"
)

// View is a render snapshot of the popover
type View struct {
	ID             string
	Term           string
	ShowPreset     bool
	Compact        bool
	FocusRequested bool
	Orientation    string
	Short          bool

	// Preset is shown in preset mode and always in compact mode
	Preset []types.EmojiOption
	// Results is empty in compact mode, which shows presets only
	Results []types.EmojiOption
	Groups  []emoji.Group
}

// View captures the current state for rendering
func (c *Controller) View() View {
	c.mu.Lock()
	v := View{
		ID:             c.opts.ID,
		Term:           c.term,
		ShowPreset:     c.showPreset,
		Compact:        c.compact,
		FocusRequested: c.focusRequested,
		Orientation:    c.opts.Orientation,
		Short:          c.opts.Orientation == OrientationUp,
	}
	c.mu.Unlock()

	if v.ShowPreset || v.Compact {
		v.Preset = c.preset(v.Compact)
	}
	if !v.Compact {
		v.Results = c.opts.Catalog.Search(v.Term, c.resultLimit())
		v.Groups = c.opts.Catalog.Groups()
	}
	return v
}
