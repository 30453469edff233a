package dom

import (
	"sort"
	"sync"
	"time"
)

// Timer is a cancellable scheduled task
type Timer interface {
	// Stop cancels the task; returns false if it already ran or was stopped
	Stop() bool
}

// Scheduler runs one-shot delayed tasks
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// RealScheduler schedules on wall-clock time
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// ManualScheduler runs tasks only when Advance moves its clock past their deadline
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	s       *ManualScheduler
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{s: s, at: s.now + d, seq: s.seq, fn: fn}
	s.seq++
	s.tasks = append(s.tasks, t)
	return t
}

func (t *manualTask) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward and runs due tasks in deadline order.
// Tasks scheduled by a running task with a zero delay run in the same call.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	s.mu.Unlock()

	for {
		t := s.nextDue()
		if t == nil {
			return
		}
		t.fn()
	}
}

// Tick runs tasks that are already due without moving the clock
func (s *ManualScheduler) Tick() {
	s.Advance(0)
}

// Pending reports tasks that are neither fired nor stopped
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (s *ManualScheduler) nextDue() *manualTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	sort.SliceStable(s.tasks, func(i, j int) bool {
		if s.tasks[i].at != s.tasks[j].at {
			return s.tasks[i].at < s.tasks[j].at
		}
		return s.tasks[i].seq < s.tasks[j].seq
	})

	live := s.tasks[:0]
	var due *manualTask
	for _, t := range s.tasks {
		if t.stopped || t.fired {
			continue
		}
		if due == nil && t.at <= s.now {
			due = t
			t.fired = true
			continue
		}
		live = append(live, t)
	}
	s.tasks = live
	return due
}
