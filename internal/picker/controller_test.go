package picker

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nostr-widgets/internal/dom"
	"nostr-widgets/internal/emoji"
	"nostr-widgets/internal/types"
)

type harness struct {
	ctrl     *Controller
	sched    *dom.ManualScheduler
	win      *dom.Window
	body     *dom.Node
	root     *dom.Node
	inside   *dom.Node
	outside  *dom.Node
	selected []types.EmojiOption
	closes   []CloseEvent
}

func newHarness(t *testing.T, compact bool, history []types.EmojiOption) *harness {
	t.Helper()
	h := &harness{
		sched: dom.NewManualScheduler(),
		win:   dom.NewWindow(),
		body:  dom.NewNode("body"),
	}
	h.root = h.body.Append(dom.NewNode("popover"))
	h.inside = h.root.Append(dom.NewNode("emoji-🔥"))
	h.outside = h.body.Append(dom.NewNode("feed"))
	h.ctrl = New(Options{
		Compact:   compact,
		History:   func() []types.EmojiOption { return history },
		OnSelect:  func(o types.EmojiOption) { h.selected = append(h.selected, o) },
		OnClose:   func(e CloseEvent) { h.closes = append(h.closes, e) },
		Scheduler: h.sched,
	})
	return h
}

func TestInitialState(t *testing.T) {
	h := newHarness(t, false, nil)
	assert.Equal(t, DefaultTerm, h.ctrl.Term())
	assert.True(t, h.ctrl.ShowPreset())
	assert.False(t, h.ctrl.Compact())
	assert.False(t, h.ctrl.FocusRequested())
}

func TestEmptySearchReturnsToPreset(t *testing.T) {
	h := newHarness(t, false, nil)
	for _, term := range []string{"cat", "x", "🔥", "rocket"} {
		h.ctrl.SetSearch(term)
		assert.Equal(t, term, h.ctrl.Term())
		assert.False(t, h.ctrl.ShowPreset())

		h.ctrl.SetSearch("")
		assert.Equal(t, DefaultTerm, h.ctrl.Term())
		assert.True(t, h.ctrl.ShowPreset())
	}
}

func TestDefaultFilterResets(t *testing.T) {
	h := newHarness(t, false, nil)
	for _, prior := range []func(){
		func() { h.ctrl.SetSearch("dog") },
		func() { h.ctrl.SetFilter("animal") },
		func() { h.ctrl.SetSearch("") },
	} {
		prior()
		h.ctrl.SetFilter(emoji.DefaultFilter)
		assert.Equal(t, DefaultTerm, h.ctrl.Term())
		assert.True(t, h.ctrl.ShowPreset())
	}

	h.ctrl.SetFilter("food")
	assert.Equal(t, "food", h.ctrl.Term())
	assert.False(t, h.ctrl.ShowPreset())

	h.ctrl.SetFilter("")
	assert.Equal(t, DefaultTerm, h.ctrl.Term(), "term is never empty")
}

func TestCompactPresetMergesHistoryFirst(t *testing.T) {
	history := []types.EmojiOption{{Name: "🦤"}, {Name: "👍"}, {Name: "🍕"}}
	h := newHarness(t, true, history)

	preset := h.ctrl.Preset()
	require.Len(t, preset, MaxCompactPreset)
	assert.Equal(t, "🦤", preset[0].Name)
	assert.Equal(t, "👍", preset[1].Name)
	assert.Equal(t, "🍕", preset[2].Name)

	seen := map[string]bool{}
	for _, p := range preset {
		assert.False(t, seen[p.Name], "duplicate %s", p.Name)
		seen[p.Name] = true
	}
}

func TestCompactPresetCapsLongHistory(t *testing.T) {
	var history []types.EmojiOption
	for i := 0; i < 20; i++ {
		history = append(history, types.EmojiOption{Name: fmt.Sprintf("e%d", i)})
	}
	h := newHarness(t, true, history)
	preset := h.ctrl.Preset()
	assert.Len(t, preset, MaxCompactPreset)
	assert.Equal(t, "e0", preset[0].Name)
}

func TestNonCompactPresetIsHistory(t *testing.T) {
	history := []types.EmojiOption{{Name: "🦤"}, {Name: "🦤"}}
	h := newHarness(t, false, history)
	assert.Equal(t, history, h.ctrl.Preset())

	h = newHarness(t, false, nil)
	assert.Empty(t, h.ctrl.Preset())
}

func TestExpandCompact(t *testing.T) {
	h := newHarness(t, true, nil)
	v := h.ctrl.View()
	assert.True(t, v.Compact)
	assert.Empty(t, v.Results)
	assert.NotEmpty(t, v.Preset)

	h.ctrl.ExpandCompact()
	v = h.ctrl.View()
	assert.False(t, v.Compact)
	assert.NotEmpty(t, v.Results)
	assert.NotEmpty(t, v.Groups)
}

func TestSelectPulsesFocus(t *testing.T) {
	h := newHarness(t, false, nil)
	h.ctrl.SetSearch("fire")
	before := h.ctrl.Results()

	h.ctrl.Select(types.EmojiOption{Name: "🔥"})
	require.Len(t, h.selected, 1)
	assert.Equal(t, "🔥", h.selected[0].Name)
	assert.True(t, h.ctrl.FocusRequested())

	h.sched.Tick()
	assert.False(t, h.ctrl.FocusRequested())
	assert.Equal(t, before, h.ctrl.Results(), "selection does not change results")
	assert.Equal(t, "fire", h.ctrl.Term())
}

func TestEscapeClosesOnce(t *testing.T) {
	h := newHarness(t, false, nil)
	scope := h.ctrl.Mount(h.win, h.root)
	defer scope.Close()

	h.win.DispatchKeyUp("Escape")
	assert.Empty(t, h.closes, "listeners attach after the delay")

	h.sched.Advance(DefaultAttachDelay)
	require.True(t, h.ctrl.Mounted())

	h.win.DispatchKeyUp("Escape")
	require.Len(t, h.closes, 1)
	assert.Equal(t, "Escape", h.closes[0].Key)

	h.win.DispatchKeyUp("KeyA")
	assert.Len(t, h.closes, 1)
}

func TestClickInsideNeverCloses(t *testing.T) {
	h := newHarness(t, false, nil)
	scope := h.ctrl.Mount(h.win, h.root)
	defer scope.Close()
	h.sched.Advance(DefaultAttachDelay)

	h.win.DispatchClick(h.inside)
	h.win.DispatchClick(h.root)
	assert.Empty(t, h.closes)

	h.win.DispatchClick(h.outside)
	require.Len(t, h.closes, 1)
	assert.Same(t, h.outside, h.closes[0].Target)
}

func TestAttachResetsTermAndPulsesFocus(t *testing.T) {
	h := newHarness(t, false, nil)
	h.ctrl.Mount(h.win, h.root)
	h.ctrl.SetSearch("dog")

	h.sched.Advance(DefaultAttachDelay)
	assert.Equal(t, DefaultTerm, h.ctrl.Term())
	// the focus reset is queued at the same instant and runs within Advance
	assert.False(t, h.ctrl.FocusRequested())
}

func TestUnmountBeforeAttach(t *testing.T) {
	h := newHarness(t, false, nil)
	h.ctrl.Mount(h.win, h.root)
	h.ctrl.Unmount()
	h.ctrl.Unmount()

	h.sched.Advance(time.Second)
	keys, clicks := h.win.ListenerCount()
	assert.Zero(t, keys)
	assert.Zero(t, clicks)

	h.win.DispatchKeyUp("Escape")
	assert.Empty(t, h.closes)
}

func TestUnmountAfterAttachRemovesListeners(t *testing.T) {
	h := newHarness(t, false, nil)
	first := h.ctrl.Mount(h.win, h.root)
	second := h.ctrl.Mount(h.win, h.root)
	assert.Same(t, first, second, "double mount reuses the scope")

	h.sched.Advance(DefaultAttachDelay)
	keys, clicks := h.win.ListenerCount()
	assert.Equal(t, 1, keys)
	assert.Equal(t, 1, clicks)

	h.ctrl.Unmount()
	keys, clicks = h.win.ListenerCount()
	assert.Zero(t, keys)
	assert.Zero(t, clicks)
	assert.False(t, h.ctrl.Mounted())
}

func TestOrientationUpShortensResults(t *testing.T) {
	c := New(Options{Orientation: OrientationUp, Scheduler: dom.NewManualScheduler()})
	c.SetSearch("a")
	v := c.View()
	assert.True(t, v.Short)
	assert.LessOrEqual(t, len(v.Results), shortResultLimit)

	c = New(Options{Orientation: "sideways", Scheduler: dom.NewManualScheduler()})
	assert.Equal(t, OrientationDown, c.View().Orientation)
}

func TestMouseLeaveForwards(t *testing.T) {
	left := 0
	c := New(Options{OnMouseLeave: func() { left++ }, Scheduler: dom.NewManualScheduler()})
	c.MouseLeave()
	assert.Equal(t, 1, left)

	New(Options{Scheduler: dom.NewManualScheduler()}).MouseLeave()
}
