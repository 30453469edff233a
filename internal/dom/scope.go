package dom

import (
	"sync"
	"time"
)

// Scope owns a set of listener removers. Close removes them all, exactly once.
type Scope struct {
	mu       sync.Mutex
	removers []func()
	pending  Timer
	closed   bool
	attached bool
}

// AttachAfter schedules attach to run after delay. attach returns the removers for what
// it registered. Closing the scope before the delay cancels the attach; an attach that
// races a close has its listeners removed immediately.
func AttachAfter(s Scheduler, delay time.Duration, attach func() []func()) *Scope {
	sc := &Scope{}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.pending = s.AfterFunc(delay, sc.runAttach(attach))
	return sc
}

func (sc *Scope) runAttach(attach func() []func()) func() {
	return func() {
		sc.mu.Lock()
		if sc.closed || sc.attached {
			sc.mu.Unlock()
			return
		}
		sc.attached = true
		sc.mu.Unlock()

		removers := attach()

		sc.mu.Lock()
		closed := sc.closed
		if !closed {
			sc.removers = append(sc.removers, removers...)
		}
		sc.mu.Unlock()

		if closed {
			for _, rm := range removers {
				rm()
			}
		}
	}
}

// Attached reports whether the deferred attach has run
func (sc *Scope) Attached() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.attached
}

// Closed reports whether Close was called
func (sc *Scope) Closed() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.closed
}

// Close cancels a pending attach and removes every attached listener
func (sc *Scope) Close() {
	sc.mu.Lock()
	if sc.closed {
		sc.mu.Unlock()
		return
	}
	sc.closed = true
	if sc.pending != nil {
		sc.pending.Stop()
	}
	removers := sc.removers
	sc.removers = nil
	sc.mu.Unlock()

	for _, rm := range removers {
		rm()
	}
}
