package starfield

import (
	"math"
	"sort"
	"time"

	"github.com/litescript/ls-parallax/internal/star"
	"github.com/litescript/ls-parallax/internal/viewport"
)

// Live is a star held by a surface together with its insertion time.
type Live struct {
	Star star.Star
	Born time.Time
}

// Deadline is when the star's lifecycle ends.
func (l Live) Deadline() time.Time {
	return l.Born.Add(l.Star.Duration)
}

// Progress returns how far through its lifecycle the star is, in [0, 1].
func (l Live) Progress(now time.Time) float64 {
	if l.Star.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(l.Born)) / float64(l.Star.Duration)
	return math.Max(0, math.Min(1, p))
}

// Intensity is the twinkle brightness at now: a fade in and out over the
// lifecycle, peaking halfway.
func (l Live) Intensity(now time.Time) float64 {
	return math.Sin(math.Pi * l.Progress(now))
}

// Project maps the star into viewport pixels. Stars sit behind the viewport
// plane and are scaled by 1/depth about its center, so deeper stars drift
// less as the viewport scrolls.
func (l Live) Project(m viewport.Metrics) (x, y, scale float64) {
	cx, cy := m.ViewportWidth/2, m.ViewportHeight/2
	scale = l.Star.Scale()
	x = cx + (l.Star.X-m.ScrollX-cx)*scale
	y = cy + (l.Star.Y-m.ScrollY-cy)*scale
	return x, y, scale
}

// MemorySurface is a rendering surface that keeps stars in memory and
// reports which lifecycles have ended.
type MemorySurface struct {
	now     func() time.Time
	stars   map[uint64]Live
	batches int
}

// NewMemorySurface creates an empty surface stamping insertions with now.
func NewMemorySurface(now func() time.Time) *MemorySurface {
	if now == nil {
		now = time.Now
	}
	return &MemorySurface{
		now:   now,
		stars: make(map[uint64]Live),
	}
}

// Insert adds a batch of stars.
func (s *MemorySurface) Insert(batch []star.Star) {
	if len(batch) == 0 {
		return
	}
	born := s.now()
	for _, st := range batch {
		s.stars[st.ID] = Live{Star: st, Born: born}
	}
	s.batches++
}

// Remove drops a star, reporting whether it was present.
func (s *MemorySurface) Remove(id uint64) bool {
	if _, ok := s.stars[id]; !ok {
		return false
	}
	delete(s.stars, id)
	return true
}

// Len returns the number of live stars.
func (s *MemorySurface) Len() int {
	return len(s.stars)
}

// Batches returns how many non-empty batches were inserted.
func (s *MemorySurface) Batches() int {
	return s.batches
}

// Due returns the ids of stars whose lifecycle has ended by now, earliest
// deadline first.
func (s *MemorySurface) Due(now time.Time) []uint64 {
	var due []Live
	for _, l := range s.stars {
		if !l.Deadline().After(now) {
			due = append(due, l)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		di, dj := due[i].Deadline(), due[j].Deadline()
		if di.Equal(dj) {
			return due[i].Star.ID < due[j].Star.ID
		}
		return di.Before(dj)
	})

	ids := make([]uint64, len(due))
	for i, l := range due {
		ids[i] = l.Star.ID
	}
	return ids
}

// Stars returns the live stars in insertion order.
func (s *MemorySurface) Stars() []Live {
	out := make([]Live, 0, len(s.stars))
	for _, l := range s.stars {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Star.ID < out[j].Star.ID })
	return out
}
