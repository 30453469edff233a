package dom

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeContains(t *testing.T) {
	root := NewNode("root")
	child := root.Append(NewNode("child"))
	leaf := child.Append(NewNode("leaf"))
	other := NewNode("other")

	assert.True(t, root.Contains(leaf))
	assert.True(t, root.Contains(root))
	assert.False(t, child.Contains(root))
	assert.False(t, root.Contains(other))
	assert.Same(t, leaf, root.Find("leaf"))
	assert.Nil(t, root.Find("missing"))
}

func TestClickStopsAtBoundary(t *testing.T) {
	w := NewWindow()
	body := NewNode("body")
	popover := body.Append(NewNode("popover"))
	popover.StopPropagation = true
	button := popover.Append(NewNode("button"))
	outside := body.Append(NewNode("outside"))

	var clicks []*Node
	w.OnClick(func(e ClickEvent) { clicks = append(clicks, e.Target) })

	w.DispatchClick(button)
	assert.Empty(t, clicks)

	w.DispatchClick(outside)
	w.DispatchClick(nil)
	assert.Equal(t, []*Node{outside, nil}, clicks)
}

func TestKeyUpStopPropagation(t *testing.T) {
	w := NewWindow()
	var order []string
	w.OnKeyUp(func(e *KeyEvent) { order = append(order, "first"); e.StopPropagation() })
	w.OnKeyUp(func(e *KeyEvent) { order = append(order, "second") })

	w.DispatchKeyUp("Escape")
	assert.Equal(t, []string{"first"}, order)
}

func TestRemoverIsIdempotent(t *testing.T) {
	w := NewWindow()
	rm := w.OnKeyUp(func(*KeyEvent) {})
	rm()
	rm()
	keys, clicks := w.ListenerCount()
	assert.Zero(t, keys)
	assert.Zero(t, clicks)
}

func TestManualSchedulerOrder(t *testing.T) {
	s := NewManualScheduler()
	var got []string
	s.AfterFunc(20*time.Millisecond, func() { got = append(got, "b") })
	s.AfterFunc(10*time.Millisecond, func() {
		got = append(got, "a")
		s.AfterFunc(0, func() { got = append(got, "a2") })
	})
	stopped := s.AfterFunc(15*time.Millisecond, func() { got = append(got, "never") })
	require.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())

	s.Advance(5 * time.Millisecond)
	assert.Empty(t, got)

	s.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"a", "a2"}, got)

	s.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"a", "a2", "b"}, got)
	assert.Zero(t, s.Pending())
}

func TestScopeCloseBeforeAttach(t *testing.T) {
	s := NewManualScheduler()
	w := NewWindow()

	scope := AttachAfter(s, 10*time.Millisecond, func() []func() {
		return []func(){w.OnKeyUp(func(*KeyEvent) {})}
	})
	scope.Close()
	s.Advance(time.Second)

	keys, _ := w.ListenerCount()
	assert.Zero(t, keys)
	assert.False(t, scope.Attached())
	assert.True(t, scope.Closed())
}

func TestScopeCloseAfterAttach(t *testing.T) {
	s := NewManualScheduler()
	w := NewWindow()

	attaches := 0
	scope := AttachAfter(s, 10*time.Millisecond, func() []func() {
		attaches++
		return []func(){w.OnKeyUp(func(*KeyEvent) {}), w.OnClick(func(ClickEvent) {})}
	})
	s.Advance(10 * time.Millisecond)
	s.Advance(10 * time.Millisecond)
	require.True(t, scope.Attached())
	assert.Equal(t, 1, attaches)

	keys, clicks := w.ListenerCount()
	assert.Equal(t, 1, keys)
	assert.Equal(t, 1, clicks)

	scope.Close()
	scope.Close()
	keys, clicks = w.ListenerCount()
	assert.Zero(t, keys)
	assert.Zero(t, clicks)
}

func TestRealSchedulerFires(t *testing.T) {
	done := make(chan struct{})
	RealScheduler{}.AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}
