package dom

import (
	"sort"
	"sync"
)

// KeyEvent is a key-up with the physical key code ("Escape", "KeyA")
type KeyEvent struct {
	Code    string
	stopped bool
}

// StopPropagation marks the event as handled so later listeners skip it
func (e *KeyEvent) StopPropagation() { e.stopped = true }

// ClickEvent is a mouse click on Target (nil means the document body)
type ClickEvent struct {
	Target *Node
}

// Window holds window-level listeners
type Window struct {
	mu     sync.Mutex
	nextID int
	keyUp  map[int]func(*KeyEvent)
	click  map[int]func(ClickEvent)
}

func NewWindow() *Window {
	return &Window{
		keyUp: make(map[int]func(*KeyEvent)),
		click: make(map[int]func(ClickEvent)),
	}
}

// OnKeyUp registers fn and returns its remover. Removers are idempotent.
func (w *Window) OnKeyUp(fn func(*KeyEvent)) (remove func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	w.keyUp[id] = fn
	return func() {
		w.mu.Lock()
		delete(w.keyUp, id)
		w.mu.Unlock()
	}
}

// OnClick registers fn and returns its remover. Removers are idempotent.
func (w *Window) OnClick(fn func(ClickEvent)) (remove func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	w.click[id] = fn
	return func() {
		w.mu.Lock()
		delete(w.click, id)
		w.mu.Unlock()
	}
}

// DispatchKeyUp delivers a key-up to listeners in registration order
func (w *Window) DispatchKeyUp(code string) {
	evt := &KeyEvent{Code: code}
	for _, fn := range w.snapshotKeys() {
		if evt.stopped {
			return
		}
		fn(evt)
	}
}

// DispatchClick delivers a click unless a boundary ancestor of the target stops it
func (w *Window) DispatchClick(target *Node) {
	if target != nil && target.stopsPropagation() {
		return
	}
	evt := ClickEvent{Target: target}
	for _, fn := range w.snapshotClicks() {
		fn(evt)
	}
}

// ListenerCount reports registered key and click listeners
func (w *Window) ListenerCount() (keys, clicks int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.keyUp), len(w.click)
}

// Listeners run outside the lock so they may remove themselves
func (w *Window) snapshotKeys() []func(*KeyEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ordered(w.keyUp)
}

func (w *Window) snapshotClicks() []func(ClickEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ordered(w.click)
}

func ordered[F any](m map[int]F) []F {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]F, len(ids))
	for i, id := range ids {
		out[i] = m[id]
	}
	return out
}
