package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nostr-widgets/internal/dom"
	"nostr-widgets/internal/picker"
)

func newTestRegistry(t *testing.T) (*PopoverRegistry, *dom.ManualScheduler, *time.Time, *[]string) {
	t.Helper()
	r := NewPopoverRegistry(0)
	t.Cleanup(r.Stop)
	now := time.Unix(1_700_000_000, 0)
	r.now = func() time.Time { return now }
	var events []string
	r.onEvent = func(e string) { events = append(events, e) }
	return r, dom.NewManualScheduler(), &now, &events
}

func TestPopoverRegistryCloseRunsCallbackOnce(t *testing.T) {
	r, sched, _, events := newTestRegistry(t)
	closes := 0
	p := r.Open("s1", "", picker.Options{ID: "emoji-picker", Scheduler: sched, OnClose: func(picker.CloseEvent) { closes++ }})
	sched.Advance(picker.DefaultAttachDelay)
	require.True(t, p.ctrl.Mounted())

	assert.True(t, r.DispatchKey(p, "Escape"))
	r.DispatchKey(p, "Escape")
	assert.Equal(t, 1, closes)
	assert.Equal(t, 0, r.Count())
	assert.False(t, p.ctrl.Mounted())
	assert.Equal(t, []string{"open", "close"}, *events)
}

func TestPopoverRegistryUnknownTargetIsOutside(t *testing.T) {
	r, sched, _, _ := newTestRegistry(t)
	p := r.Open("s1", "", picker.Options{ID: "emoji-picker", Scheduler: sched})
	sched.Advance(picker.DefaultAttachDelay)

	assert.False(t, r.DispatchClick(p, "emoji-picker-preset"))
	assert.True(t, r.DispatchClick(p, "some-other-element"))
}

func TestPopoverRegistryExpiresIdle(t *testing.T) {
	r, sched, now, events := newTestRegistry(t)
	r.ttl = time.Minute
	idle := r.Open("idle", "", picker.Options{ID: "a", Scheduler: sched})
	*now = now.Add(45 * time.Second)
	r.Open("busy", "", picker.Options{ID: "b", Scheduler: sched})

	*now = now.Add(30 * time.Second)
	assert.Equal(t, 1, r.expire())
	assert.Equal(t, 1, r.Count())
	_, ok := r.Get("idle")
	assert.False(t, ok)
	_, ok = r.Get("busy")
	assert.True(t, ok)

	// A closed popover's pending attach never fires
	sched.Advance(picker.DefaultAttachDelay)
	keys, clicks := idle.win.ListenerCount()
	assert.Zero(t, keys+clicks)
	assert.Contains(t, *events, "expire")
}

func TestPopoverRegistryStopReleasesAll(t *testing.T) {
	r, sched, _, _ := newTestRegistry(t)
	r.Open("s1", "", picker.Options{ID: "a", Scheduler: sched})
	r.Open("s2", "", picker.Options{ID: "b", Scheduler: sched})
	r.Stop()
	assert.Equal(t, 0, r.Count())
	r.Stop()
}
