// Package picker implements the emoji picker popover: its search/preset state and its
// window-level dismissal listeners.
package picker

import (
	"sync"
	"time"

	"nostr-widgets/internal/dom"
	"nostr-widgets/internal/emoji"
	"nostr-widgets/internal/types"
	"nostr-widgets/internal/util"
)

const (
	// DefaultTerm is shown whenever the search term would otherwise be empty
	DefaultTerm = "face"

	// DefaultAttachDelay defers window listeners past the click that opened the popover
	DefaultAttachDelay = 10 * time.Millisecond

	// MaxCompactPreset caps the compact preset row
	MaxCompactPreset = 8

	resultLimit      = 60
	shortResultLimit = 24
)

// Orientations
const (
	OrientationDown = "down"
	OrientationUp   = "up"
)

// CloseEvent describes what dismissed the popover
type CloseEvent struct {
	Key    string    // "Escape" for key dismissal
	Target *dom.Node // click target for outside clicks
}

// Options configures a Controller
type Options struct {
	ID           string
	Compact      bool
	Orientation  string
	History      func() []types.EmojiOption
	Catalog      *emoji.Catalog
	OnSelect     func(types.EmojiOption)
	OnClose      func(CloseEvent)
	OnMouseLeave func()
	Scheduler    dom.Scheduler
	AttachDelay  time.Duration
}

// Controller owns the popover's transient state. Safe for concurrent use.
type Controller struct {
	opts Options

	mu             sync.Mutex
	term           string
	focusRequested bool
	showPreset     bool
	compact        bool
	scope          *dom.Scope
}

// New creates a controller in preset mode with the default term
func New(opts Options) *Controller {
	if opts.Catalog == nil {
		opts.Catalog = emoji.Default()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = dom.RealScheduler{}
	}
	if opts.AttachDelay <= 0 {
		opts.AttachDelay = DefaultAttachDelay
	}
	if opts.Orientation != OrientationUp {
		opts.Orientation = OrientationDown
	}
	return &Controller{
		opts:       opts,
		term:       DefaultTerm,
		showPreset: true,
		compact:    opts.Compact,
	}
}

// normalize restores the default term; callers hold c.mu
func (c *Controller) normalize() {
	if len(c.term) == 0 {
		c.term = DefaultTerm
	}
}

// SetFilter switches tabs: the "default" tab shows presets, any other searches its term
func (c *Controller) SetFilter(filter string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if filter == emoji.DefaultFilter {
		c.showPreset = true
		c.term = DefaultTerm
	} else {
		c.showPreset = false
		c.term = filter
	}
	c.normalize()
}

// SetSearch applies typed input; empty input returns to presets
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.term = term
	c.showPreset = len(term) < 1
	c.normalize()
}

// ExpandCompact leaves compact mode
func (c *Controller) ExpandCompact() {
	c.mu.Lock()
	c.compact = false
	c.mu.Unlock()
}

// Term returns the current search term
func (c *Controller) Term() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.term
}

// ShowPreset reports whether presets are displayed
func (c *Controller) ShowPreset() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showPreset
}

// Compact reports whether the popover is in compact mode
func (c *Controller) Compact() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compact
}

// FocusRequested reports the focus pulse
func (c *Controller) FocusRequested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focusRequested
}

// Preset returns the preset list. Compact mode fills history with the catalog defaults,
// history first, unique by name, capped at MaxCompactPreset.
func (c *Controller) Preset() []types.EmojiOption {
	c.mu.Lock()
	compact := c.compact
	c.mu.Unlock()
	return c.preset(compact)
}

func (c *Controller) preset(compact bool) []types.EmojiOption {
	var history []types.EmojiOption
	if c.opts.History != nil {
		history = c.opts.History()
	}
	if !compact {
		return history
	}
	merged := mergeByName(history, c.opts.Catalog.Defaults())
	return util.LimitSlice(merged, MaxCompactPreset)
}

// mergeByName appends b to a, skipping names already present, preserving order
func mergeByName(a, b []types.EmojiOption) []types.EmojiOption {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]types.EmojiOption, 0, len(a)+len(b))
	for _, list := range [][]types.EmojiOption{a, b} {
		for _, e := range list {
			if seen[e.Name] {
				continue
			}
			seen[e.Name] = true
			out = append(out, e)
		}
	}
	return out
}

// Results searches the catalog for the current term
func (c *Controller) Results() []types.EmojiOption {
	c.mu.Lock()
	term := c.term
	c.mu.Unlock()
	return c.opts.Catalog.Search(term, c.resultLimit())
}

func (c *Controller) resultLimit() int {
	if c.opts.Orientation == OrientationUp {
		return shortResultLimit
	}
	return resultLimit
}

// Select reports the choice, then pulses the focus request so the input refocuses
// without changing what is displayed
func (c *Controller) Select(o types.EmojiOption) {
	if c.opts.OnSelect != nil {
		c.opts.OnSelect(o)
	}
	c.pulseFocus()
}

func (c *Controller) pulseFocus() {
	c.mu.Lock()
	c.focusRequested = true
	c.mu.Unlock()

	c.opts.Scheduler.AfterFunc(0, func() {
		c.mu.Lock()
		c.focusRequested = false
		c.mu.Unlock()
	})
}

// MouseLeave forwards pointer exit to the owner
func (c *Controller) MouseLeave() {
	if c.opts.OnMouseLeave != nil {
		c.opts.OnMouseLeave()
	}
}
