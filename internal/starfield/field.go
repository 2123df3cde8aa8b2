package starfield

import (
	"math"
	"time"

	"github.com/litescript/ls-parallax/internal/density"
	"github.com/litescript/ls-parallax/internal/geometry"
	"github.com/litescript/ls-parallax/internal/logging"
	"github.com/litescript/ls-parallax/internal/sampling"
	"github.com/litescript/ls-parallax/internal/star"
	"github.com/litescript/ls-parallax/internal/state"
	"github.com/litescript/ls-parallax/internal/throttle"
	"github.com/litescript/ls-parallax/internal/viewport"
)

// Field is a running starfield. It is driven from a single goroutine: the
// host calls Resize, Scroll and Advance, and throttled recomputes run on the
// clock it was created with.
type Field struct {
	cfg    Config
	clock  throttle.Clock
	logger *logging.Logger

	cache   *geometry.Cache
	stars   *star.Generator
	surface *MemorySurface
	ctrl    *density.Controller
	state   *state.Manager

	onScroll *throttle.Throttler
	onResize *throttle.Throttler

	metrics viewport.Metrics
	started bool
}

// New validates cfg and wires a field. The clock must deliver timer
// callbacks on the goroutine that drives the field; a nil logger discards
// output.
func New(cfg Config, clock throttle.Clock, logger *logging.Logger) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		return nil, ErrNoClock
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if cfg.Viewport.AverageStarArea <= 0 {
		cfg.Viewport.AverageStarArea = viewport.AverageStarArea(cfg.Star.MinSize, cfg.Star.MaxSize, cfg.ScreenHeight)
	}

	var sampler *sampling.Sampler
	if cfg.Seed != 0 {
		sampler = sampling.NewSeeded(cfg.Seed)
	} else {
		sampler = sampling.New(nil)
	}

	cache := geometry.NewCache(cfg.Star.Rays.Sharpness, cfg.Star.Rays.Precision)
	f := &Field{
		cfg:     cfg,
		clock:   clock,
		logger:  logger,
		cache:   cache,
		stars:   star.NewGenerator(cfg.Star, sampler, cache, cfg.ScreenHeight),
		surface: NewMemorySurface(clock.Now),
		state:   state.NewManager(state.Config{MaxEvents: cfg.MaxEvents, Now: clock.Now}),
	}
	f.ctrl = density.New(f.surface, f.stars, sampler, cfg.Viewport,
		density.WithLogger(logger.With("density")),
		density.WithReporter(f.state),
	)
	f.onScroll = throttle.New(clock, cfg.ThrottleWait, f.recompute)
	f.onResize = throttle.New(clock, cfg.ThrottleWait, f.recompute)
	return f, nil
}

// Start runs the initial sequence: read metrics, compute the region and
// fill it. Later calls are no-ops.
func (f *Field) Start() density.Pass {
	if f.started {
		return density.Pass{Skipped: true, Count: f.ctrl.Count()}
	}
	f.started = true
	f.recompute()
	p := f.ctrl.Fill()
	f.logger.Info("starfield started: %d stars, band %d..%d", p.Count, p.Min, p.Max)
	return p
}

// Started reports whether Start has run.
func (f *Field) Started() bool {
	return f.started
}

func (f *Field) recompute() {
	f.ctrl.Recompute(f.metrics)
}

// Resize sets the viewport size in pixels. The container keeps the
// viewport width and is ContainerPages viewports tall. The region update is
// throttled.
func (f *Field) Resize(width, height float64) {
	f.metrics.ViewportWidth = math.Max(0, width)
	f.metrics.ViewportHeight = math.Max(0, height)
	f.metrics.ContainerWidth = f.metrics.ViewportWidth
	f.metrics.ContainerHeight = f.metrics.ViewportHeight * f.cfg.ContainerPages
	f.clampScroll()
	if f.started {
		f.onResize.Call()
	}
}

// ScrollTo moves the viewport to an absolute position, clamped to the
// container. The region update is throttled.
func (f *Field) ScrollTo(x, y float64) {
	f.metrics.ScrollX, f.metrics.ScrollY = x, y
	f.clampScroll()
	if f.started {
		f.onScroll.Call()
	}
}

// ScrollBy moves the viewport relative to its current position.
func (f *Field) ScrollBy(dx, dy float64) {
	f.ScrollTo(f.metrics.ScrollX+dx, f.metrics.ScrollY+dy)
}

func (f *Field) clampScroll() {
	m := &f.metrics
	m.ScrollX = sampling.Clamp(0, m.ScrollX, math.Max(0, m.ContainerWidth-m.ViewportWidth))
	m.ScrollY = sampling.Clamp(0, m.ScrollY, math.Max(0, m.ContainerHeight-m.ViewportHeight))
}

// Advance ends the lifecycle of every star due at now and returns how many
// expired. Expirations may trigger refills.
func (f *Field) Advance(now time.Time) int {
	due := f.surface.Due(now)
	for _, id := range due {
		f.ctrl.Expire(id)
	}
	if len(due) > 0 {
		f.logger.Debug("advance: %d expired, %d live", len(due), f.surface.Len())
	}
	return len(due)
}

// Stop cancels pending throttled recomputes.
func (f *Field) Stop() {
	f.onScroll.Stop()
	f.onResize.Stop()
}

// Stars returns the live stars ordered by id.
func (f *Field) Stars() []Live {
	return f.surface.Stars()
}

// Metrics returns the current scroll and size reading.
func (f *Field) Metrics() viewport.Metrics {
	return f.metrics
}

// Region returns the spawn region from the last recompute.
func (f *Field) Region() viewport.Region {
	return f.ctrl.Region()
}

// Count returns the controller's star count.
func (f *Field) Count() int {
	return f.ctrl.Count()
}

// Band returns the thresholds of the latest fill pass.
func (f *Field) Band() (lo, hi int) {
	return f.ctrl.Band()
}

// Snapshot returns the activity counters and event log.
func (f *Field) Snapshot() state.Snapshot {
	return f.state.Snapshot()
}

// CacheStats returns geometry cache hit/miss counts.
func (f *Field) CacheStats() geometry.CacheStats {
	return f.cache.Stats()
}

// Config returns the field's settings.
func (f *Field) Config() Config {
	return f.cfg
}

// Now returns the current time on the field's clock.
func (f *Field) Now() time.Time {
	return f.clock.Now()
}
