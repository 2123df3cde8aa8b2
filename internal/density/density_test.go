package density

import (
	"testing"

	"github.com/litescript/ls-parallax/internal/sampling"
	"github.com/litescript/ls-parallax/internal/star"
	"github.com/litescript/ls-parallax/internal/viewport"
)

// fakeSurface records inserted batches and tracks live ids.
type fakeSurface struct {
	live    map[uint64]bool
	batches [][]star.Star

	// onInsert runs after a batch is stored, simulating notifications that
	// arrive while the batch is being inserted.
	onInsert func()
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{live: make(map[uint64]bool)}
}

func (f *fakeSurface) Insert(stars []star.Star) {
	f.batches = append(f.batches, stars)
	for _, s := range stars {
		f.live[s.ID] = true
	}
	if f.onInsert != nil {
		f.onInsert()
	}
}

func (f *fakeSurface) Remove(id uint64) bool {
	if !f.live[id] {
		return false
	}
	delete(f.live, id)
	return true
}

func (f *fakeSurface) anyID() uint64 {
	for id := range f.live {
		return id
	}
	return 0
}

// countingFactory hands out sequential ids.
type countingFactory struct {
	calls  int
	bounds []viewport.Bounds
}

func (f *countingFactory) Generate(b viewport.Bounds) star.Star {
	f.calls++
	f.bounds = append(f.bounds, b)
	return star.Star{ID: uint64(f.calls)}
}

// limits10to20 gives a 10x10 region with min limit 10 and max limit 20.
func limits10to20() (viewport.Metrics, viewport.Config) {
	m := viewport.Metrics{
		ViewportWidth:   10,
		ViewportHeight:  10,
		ContainerWidth:  10,
		ContainerHeight: 10,
	}
	cfg := viewport.Config{
		MinDensity:      10,
		MaxDensity:      20,
		AverageStarArea: 1,
	}
	return m, cfg
}

func newTestController(seed uint64) (*Controller, *fakeSurface, *countingFactory) {
	m, cfg := limits10to20()
	surface := newFakeSurface()
	factory := &countingFactory{}
	c := New(surface, factory, sampling.NewSeeded(seed), cfg)
	c.Recompute(m)
	return c, surface, factory
}

func TestRecompute_Limits(t *testing.T) {
	c, _, factory := newTestController(1)

	r := c.Region()
	if r.Limits.Min != 10 || r.Limits.Max != 20 {
		t.Fatalf("limits = %+v, want 10..20", r.Limits)
	}
	if factory.calls != 0 {
		t.Error("Recompute must not create stars")
	}
	if c.Count() != 0 {
		t.Errorf("Count = %d, want 0", c.Count())
	}
}

func TestFill_ReachesPassMaximum(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		c, surface, factory := newTestController(seed)
		c.count = 5

		p := c.Fill()

		if p.Skipped {
			t.Fatal("first fill should not be skipped")
		}
		if c.Count() != p.Max {
			t.Errorf("seed %d: count = %d, want pass max %d", seed, c.Count(), p.Max)
		}
		if p.Max > 20 || p.Max < 17 {
			// Jitter is at most round(10/3) = 3.
			t.Errorf("seed %d: max = %d, want in [17, 20]", seed, p.Max)
		}
		if p.Min < 10 || p.Min > 14 {
			t.Errorf("seed %d: min = %d, want in [10, 14]", seed, p.Min)
		}
		if p.Min > p.Max {
			t.Errorf("seed %d: min %d > max %d", seed, p.Min, p.Max)
		}
		if p.Created != p.Max-5 || factory.calls != p.Created {
			t.Errorf("seed %d: created %d (factory %d), want %d", seed, p.Created, factory.calls, p.Max-5)
		}
		if len(surface.batches) != 1 || len(surface.batches[0]) != p.Created {
			t.Errorf("seed %d: expected one batch of %d, got %d batches", seed, p.Created, len(surface.batches))
		}
		if c.Filling() {
			t.Error("guard should be clear after the pass")
		}
	}
}

func TestFill_UsesRegionBounds(t *testing.T) {
	c, _, factory := newTestController(2)
	c.Fill()

	want := c.Region().Bounds
	for _, b := range factory.bounds {
		if b != want {
			t.Fatalf("factory got bounds %+v, want %+v", b, want)
		}
	}
}

func TestFill_NoDeficit(t *testing.T) {
	c, surface, factory := newTestController(3)
	c.count = 50

	p := c.Fill()

	if p.Created != 0 || factory.calls != 0 {
		t.Errorf("created %d stars with no deficit", p.Created)
	}
	if len(surface.batches) != 0 {
		t.Errorf("inserted %d batches, want none", len(surface.batches))
	}
	if c.Count() != 50 {
		t.Errorf("Count = %d, want unchanged 50", c.Count())
	}
	if c.Passes() != 1 {
		t.Errorf("Passes = %d, want 1 (guard cycle still runs)", c.Passes())
	}
	if c.Filling() {
		t.Error("guard should be clear")
	}
}

func TestFill_DegenerateRegion(t *testing.T) {
	surface := newFakeSurface()
	factory := &countingFactory{}
	c := New(surface, factory, sampling.NewSeeded(4), viewport.DefaultConfig(0))
	c.Recompute(viewport.Metrics{})

	p := c.Fill()

	if p.Created != 0 || p.Min != 0 || p.Max != 0 {
		t.Errorf("degenerate pass = %+v, want nothing created", p)
	}
}

func TestFill_GuardPreventsNestedBatch(t *testing.T) {
	c, surface, factory := newTestController(5)

	var nested Pass
	surface.onInsert = func() {
		// A second trigger arrives before the first insert completes.
		nested = c.Fill()
	}

	p := c.Fill()

	if !nested.Skipped {
		t.Error("nested fill should be skipped while guard is set")
	}
	if len(surface.batches) != 1 {
		t.Errorf("batches = %d, want 1", len(surface.batches))
	}
	if factory.calls != p.Created {
		t.Errorf("factory calls = %d, want %d", factory.calls, p.Created)
	}
}

func TestExpire_DuringInsertDoesNotRefill(t *testing.T) {
	c, surface, _ := newTestController(6)

	expired := 0
	surface.onInsert = func() {
		// Drain most of the batch while the guard is held.
		surface.onInsert = nil
		for i := 0; i < 15; i++ {
			id := surface.anyID()
			if id == 0 {
				break
			}
			c.Expire(id)
			expired++
		}
	}

	p := c.Fill()

	if len(surface.batches) != 1 {
		t.Errorf("batches = %d, want 1 (no refill while filling)", len(surface.batches))
	}
	if c.Count() != p.Created-expired {
		t.Errorf("Count = %d, want %d", c.Count(), p.Created-expired)
	}
	if c.Count() != len(surface.live) {
		t.Errorf("Count = %d, surface holds %d", c.Count(), len(surface.live))
	}
}

func TestExpire_RefillsBelowBand(t *testing.T) {
	c, surface, _ := newTestController(7)
	first := c.Fill()

	// Expire stars until the count falls below the band.
	for i := 0; i < 100; i++ {
		before := len(surface.batches)
		prev := c.Count()
		c.Expire(surface.anyID())
		if len(surface.batches) != before {
			if prev-1 >= first.Min {
				t.Fatalf("refill fired at count %d, band min %d", prev-1, first.Min)
			}
			break
		}
	}

	// The crossing expiration triggered exactly one refill.
	if len(surface.batches) != 2 {
		t.Fatalf("batches = %d, want 2 after dropping below min", len(surface.batches))
	}
	lo, hi := c.Band()
	if c.Count() != hi {
		t.Errorf("Count = %d, want new pass max %d", c.Count(), hi)
	}
	if lo > hi {
		t.Errorf("band %d..%d inverted", lo, hi)
	}
	if c.Count() != len(surface.live) {
		t.Errorf("Count = %d, surface holds %d", c.Count(), len(surface.live))
	}
}

func TestExpire_UnknownID(t *testing.T) {
	c, _, _ := newTestController(8)
	c.Fill()
	before := c.Count()

	c.Expire(999999)

	if c.Count() != before {
		t.Errorf("Count = %d, want %d after unknown id", c.Count(), before)
	}
}

func TestExpire_NeverNegative(t *testing.T) {
	surface := newFakeSurface()
	surface.live[1] = true
	c := New(surface, &countingFactory{}, sampling.NewSeeded(9), viewport.DefaultConfig(0))
	c.Recompute(viewport.Metrics{})

	c.Expire(1)

	if c.Count() != 0 {
		t.Errorf("Count = %d, want 0", c.Count())
	}
}

type recordingReporter struct {
	fills   []Pass
	expired int
	regions int
}

func (r *recordingReporter) FillCompleted(p Pass) {
	r.fills = append(r.fills, p)
}

func (r *recordingReporter) StarExpired(uint64, int) {
	r.expired++
}

func (r *recordingReporter) RegionChanged(viewport.Region) {
	r.regions++
}

func TestReporter(t *testing.T) {
	m, cfg := limits10to20()
	surface := newFakeSurface()
	rep := &recordingReporter{}
	c := New(surface, &countingFactory{}, sampling.NewSeeded(10), cfg, WithReporter(rep))

	c.Recompute(m)
	c.Fill()
	c.Expire(surface.anyID())

	if rep.regions != 1 || len(rep.fills) != 1 || rep.expired != 1 {
		t.Errorf("reporter saw regions=%d fills=%d expired=%d, want 1 each",
			rep.regions, len(rep.fills), rep.expired)
	}
}
