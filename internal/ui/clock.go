package ui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-parallax/internal/throttle"
)

// timerFiredMsg carries a due LoopClock timer into the program loop.
type timerFiredMsg struct {
	id uint64
}

// LoopClock is a throttle.Clock whose timers run inside Bubble Tea's Update
// instead of on a timer goroutine. The wall-clock timer only posts a
// message; Deliver runs the callback when the model receives it.
type LoopClock struct {
	mu      sync.Mutex
	now     func() time.Time
	fired   chan timerFiredMsg
	pending map[uint64]*loopTimer
	nextID  uint64
}

type loopTimer struct {
	clock *LoopClock
	id    uint64
	f     func()
	timer *time.Timer
}

// NewLoopClock creates a clock reading wall time.
func NewLoopClock() *LoopClock {
	return &LoopClock{
		now:     time.Now,
		fired:   make(chan timerFiredMsg, 16),
		pending: make(map[uint64]*loopTimer),
	}
}

var _ throttle.Clock = (*LoopClock)(nil)

// Now returns the current time.
func (c *LoopClock) Now() time.Time {
	return c.now()
}

// AfterFunc schedules f to run in the program loop after d.
func (c *LoopClock) AfterFunc(d time.Duration, f func()) throttle.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	t := &loopTimer{clock: c, id: c.nextID, f: f}
	c.pending[t.id] = t
	t.timer = time.AfterFunc(d, func() {
		c.fired <- timerFiredMsg{id: t.id}
	})
	return t
}

func (t *loopTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if _, ok := t.clock.pending[t.id]; !ok {
		return false
	}
	delete(t.clock.pending, t.id)
	t.timer.Stop()
	return true
}

// Wait returns a command that blocks until the next timer fires.
func (c *LoopClock) Wait() tea.Cmd {
	return func() tea.Msg {
		return <-c.fired
	}
}

// Deliver runs the callback for a fired timer unless it was stopped.
func (c *LoopClock) Deliver(msg timerFiredMsg) bool {
	c.mu.Lock()
	t, ok := c.pending[msg.id]
	delete(c.pending, msg.id)
	c.mu.Unlock()

	if !ok {
		return false
	}
	t.f()
	return true
}

// Pending returns the number of armed timers.
func (c *LoopClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
