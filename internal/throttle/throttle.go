// Package throttle rate-limits a callback to at most one call per wait
// window. The first call in a quiet period runs immediately; calls inside
// the window collapse into one trailing call at the end of it.
package throttle

import (
	"sync"
	"time"
)

// Timer is a pending AfterFunc call.
type Timer interface {
	Stop() bool
}

// Clock supplies time and delayed execution.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns a Clock backed by the time package.
func SystemClock() Clock {
	return systemClock{}
}

// Throttler wraps fn with leading and trailing rate limiting.
type Throttler struct {
	mu       sync.Mutex
	clock    Clock
	wait     time.Duration
	fn       func()
	previous time.Time
	timer    Timer
	calls    int
}

// New creates a throttler that calls fn at most once per wait.
func New(clock Clock, wait time.Duration, fn func()) *Throttler {
	if clock == nil {
		clock = SystemClock()
	}
	return &Throttler{clock: clock, wait: wait, fn: fn}
}

// Call requests fn. It runs fn now if a full window has passed since the
// last run (or the clock went backwards); otherwise it arms a single
// trailing timer for the rest of the window.
func (t *Throttler) Call() {
	t.mu.Lock()
	now := t.clock.Now()
	remaining := t.wait - now.Sub(t.previous)

	if remaining <= 0 || remaining > t.wait {
		if t.timer != nil {
			t.timer.Stop()
			t.timer = nil
		}
		t.previous = now
		t.mu.Unlock()
		t.run()
		return
	}

	if t.timer == nil {
		t.timer = t.clock.AfterFunc(remaining, t.trailing)
	}
	t.mu.Unlock()
}

func (t *Throttler) trailing() {
	t.mu.Lock()
	if t.timer == nil {
		// Stopped or superseded by a leading call.
		t.mu.Unlock()
		return
	}
	t.previous = t.clock.Now()
	t.timer = nil
	t.mu.Unlock()
	t.run()
}

func (t *Throttler) run() {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	t.fn()
}

// Pending reports whether a trailing call is armed.
func (t *Throttler) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

// Calls returns how many times fn has run.
func (t *Throttler) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Stop cancels a pending trailing call.
func (t *Throttler) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
