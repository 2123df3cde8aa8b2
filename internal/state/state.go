// Package state provides thread-safe bookkeeping of starfield activity for
// status displays and headless summaries.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-parallax/internal/density"
	"github.com/litescript/ls-parallax/internal/viewport"
)

// EventType represents the kind of controller activity.
type EventType string

const (
	EventFill    EventType = "FILL"
	EventSkipped EventType = "SKIPPED"
	EventRegion  EventType = "REGION"
)

// Event is one entry in the activity log. Expirations are counted but not
// logged individually.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Created   int       `json:"created,omitempty"`
	Count     int       `json:"count"`
	Min       int       `json:"min,omitempty"`
	Max       int       `json:"max,omitempty"`
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents int
	// Now is the time source for event timestamps.
	Now func() time.Time
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents: 50,
		Now:       time.Now,
	}
}

// Manager records controller activity. It implements density.Reporter.
type Manager struct {
	mu sync.RWMutex

	now func() time.Time

	count   int
	minBand int
	maxBand int
	region  viewport.Region

	passes  int
	skipped int
	created int
	expired int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		now:       now,
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
	}
}

var _ density.Reporter = (*Manager)(nil)

// FillCompleted records a fill pass.
func (m *Manager) FillCompleted(p density.Pass) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.count = p.Count
	if p.Skipped {
		m.skipped++
		m.addEvent(Event{Type: EventSkipped, Timestamp: m.now(), Count: p.Count})
		return
	}

	m.passes++
	m.created += p.Created
	m.minBand, m.maxBand = p.Min, p.Max
	m.addEvent(Event{
		Type:      EventFill,
		Timestamp: m.now(),
		Created:   p.Created,
		Count:     p.Count,
		Min:       p.Min,
		Max:       p.Max,
	})
}

// StarExpired records one lifecycle end.
func (m *Manager) StarExpired(_ uint64, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expired++
	m.count = count
}

// RegionChanged records a recomputed spawn region.
func (m *Manager) RegionChanged(r viewport.Region) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.region = r
	m.addEvent(Event{Type: EventRegion, Timestamp: m.now(), Count: m.count})
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Count   int             `json:"count"`
	MinBand int             `json:"min_band"`
	MaxBand int             `json:"max_band"`
	Region  viewport.Region `json:"region"`
	Passes  int             `json:"passes"`
	Skipped int             `json:"skipped"`
	Created int             `json:"created"`
	Expired int             `json:"expired"`
	Events  []Event         `json:"events"`
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Count:   m.count,
		MinBand: m.minBand,
		MaxBand: m.maxBand,
		Region:  m.region,
		Passes:  m.passes,
		Skipped: m.skipped,
		Created: m.created,
		Expired: m.expired,
		Events:  m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}
