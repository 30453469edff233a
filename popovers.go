package main

import (
	"log/slog"
	"sync"
	"time"

	"nostr-widgets/internal/dom"
	"nostr-widgets/internal/picker"
)

// popoverParts are the interactive regions of a picker; clicks on them stay inside
var popoverParts = []string{"search", "term", "tabs", "preset", "results", "expand"}

// popover is one emoji picker held open for a browser session. The window and
// document nodes stand in for the session's browser window.
type popover struct {
	ctrl   *picker.Controller
	win    *dom.Window
	doc    *dom.Node
	root   *dom.Node
	target string

	lastUsed time.Time
	closed   bool
}

// PopoverRegistry keeps at most one open picker per session and expires idle ones
type PopoverRegistry struct {
	mu      sync.Mutex
	entries map[string]*popover
	ttl     time.Duration
	now     func() time.Time
	onEvent func(event string)

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewPopoverRegistry starts the expiry loop when ttl > 0
func NewPopoverRegistry(ttl time.Duration) *PopoverRegistry {
	r := &PopoverRegistry{
		entries: make(map[string]*popover),
		ttl:     ttl,
		now:     time.Now,
		onEvent: func(string) {},
		stopCh:  make(chan struct{}),
	}
	if ttl > 0 {
		go r.cleanupLoop()
	}
	return r
}

// Open replaces the session's popover with a freshly mounted one
func (r *PopoverRegistry) Open(session, target string, opts picker.Options) *popover {
	p := &popover{
		win:    dom.NewWindow(),
		doc:    dom.NewNode("document"),
		target: target,
	}
	p.root = p.doc.Append(dom.NewNode(opts.ID))
	for _, part := range popoverParts {
		p.root.Append(dom.NewNode(opts.ID + "-" + part))
	}

	onClose := opts.OnClose
	opts.OnClose = func(e picker.CloseEvent) {
		r.release(session, p, "close")
		if onClose != nil {
			onClose(e)
		}
	}
	p.ctrl = picker.New(opts)

	r.mu.Lock()
	old := r.entries[session]
	p.lastUsed = r.now()
	r.entries[session] = p
	r.mu.Unlock()

	if old != nil {
		r.release(session, old, "replace")
	}
	p.ctrl.Mount(p.win, p.root)
	r.onEvent("open")
	return p
}

// Get returns the session's open popover and marks it used
func (r *PopoverRegistry) Get(session string) (*popover, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.entries[session]
	if !ok || p.closed {
		return nil, false
	}
	p.lastUsed = r.now()
	return p, true
}

// DispatchKey delivers a window key-up and reports whether it closed the popover
func (r *PopoverRegistry) DispatchKey(p *popover, code string) bool {
	p.win.DispatchKeyUp(code)
	return r.isClosed(p)
}

// DispatchClick delivers a window click on the node with targetID. Unknown ids are
// treated as clicks on the document outside the popover.
func (r *PopoverRegistry) DispatchClick(p *popover, targetID string) bool {
	node := p.root.Find(targetID)
	if node == nil {
		node = p.doc
	}
	p.win.DispatchClick(node)
	return r.isClosed(p)
}

// Close drops the session's popover, if any
func (r *PopoverRegistry) Close(session string) {
	r.mu.Lock()
	p := r.entries[session]
	r.mu.Unlock()
	if p != nil {
		r.release(session, p, "close")
	}
}

// Count reports open popovers
func (r *PopoverRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *PopoverRegistry) isClosed(p *popover) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return p.closed
}

// release unmounts p once and forgets it if it is still the session's popover
func (r *PopoverRegistry) release(session string, p *popover, reason string) {
	r.mu.Lock()
	if p.closed {
		r.mu.Unlock()
		return
	}
	p.closed = true
	if r.entries[session] == p {
		delete(r.entries, session)
	}
	r.mu.Unlock()

	p.ctrl.Unmount()
	r.onEvent(reason)
}

func (r *PopoverRegistry) cleanupLoop() {
	ticker := time.NewTicker(r.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := r.expire(); n > 0 {
				slog.Debug("expired idle popovers", "count", n)
			}
		case <-r.stopCh:
			return
		}
	}
}

// expire releases popovers idle longer than the ttl
func (r *PopoverRegistry) expire() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var stale []string
	for session, p := range r.entries {
		if p.lastUsed.Before(cutoff) {
			stale = append(stale, session)
		}
	}
	r.mu.Unlock()

	for _, session := range stale {
		r.mu.Lock()
		p := r.entries[session]
		r.mu.Unlock()
		if p != nil {
			r.release(session, p, "expire")
		}
	}
	return len(stale)
}

// Stop ends the expiry loop and unmounts every popover
func (r *PopoverRegistry) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })

	r.mu.Lock()
	sessions := make(map[string]*popover, len(r.entries))
	for s, p := range r.entries {
		sessions[s] = p
	}
	r.mu.Unlock()

	for s, p := range sessions {
		r.release(s, p, "expire")
	}
}
