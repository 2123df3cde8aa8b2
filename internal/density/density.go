// Package density keeps the number of live stars inside a randomized band
// derived from the current spawn region. Stars are created in batches when
// the count drops below the band and are removed when their lifecycle ends.
package density

import (
	"math"

	"github.com/litescript/ls-parallax/internal/logging"
	"github.com/litescript/ls-parallax/internal/sampling"
	"github.com/litescript/ls-parallax/internal/star"
	"github.com/litescript/ls-parallax/internal/viewport"
)

// Surface is the rendering surface the controller feeds.
type Surface interface {
	// Insert adds a batch of stars in one operation.
	Insert(stars []star.Star)
	// Remove drops a star, reporting whether it was present.
	Remove(id uint64) bool
}

// Factory produces stars for a spawn region.
type Factory interface {
	Generate(b viewport.Bounds) star.Star
}

// Reporter receives controller activity. *state.Manager implements it.
type Reporter interface {
	FillCompleted(p Pass)
	StarExpired(id uint64, count int)
	RegionChanged(r viewport.Region)
}

// Pass describes one fill attempt.
type Pass struct {
	// Skipped is set when a fill was requested while another was running.
	Skipped bool
	// Min and Max are the thresholds drawn for this pass.
	Min int
	Max int
	// Created is the number of stars inserted.
	Created int
	// Count is the star count after the pass.
	Count int
}

// Controller is the density state machine: Idle until Fill runs, Filling
// while a batch is built and inserted.
type Controller struct {
	surface  Surface
	factory  Factory
	sampler  *sampling.Sampler
	cfg      viewport.Config
	logger   *logging.Logger
	reporter Reporter

	region   viewport.Region
	count    int
	minCount int
	maxCount int
	filling  bool
	passes   int
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithReporter sets a receiver for controller activity.
func WithReporter(r Reporter) Option {
	return func(c *Controller) {
		c.reporter = r
	}
}

// New creates a controller. Call Recompute before the first Fill so the
// region is known.
func New(surface Surface, factory Factory, sampler *sampling.Sampler, cfg viewport.Config, opts ...Option) *Controller {
	c := &Controller{
		surface: surface,
		factory: factory,
		sampler: sampler,
		cfg:     cfg,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Recompute refreshes the spawn region from new scroll or size metrics.
// It never creates stars; the next expiration or an explicit Fill
// reconciles the count.
func (c *Controller) Recompute(m viewport.Metrics) viewport.Region {
	c.region = viewport.Compute(m, c.cfg)
	c.logger.Debug("region %.0f..%.0f x %.0f..%.0f, limits %.1f..%.1f",
		c.region.Bounds.Left, c.region.Bounds.Right,
		c.region.Bounds.Top, c.region.Bounds.Bottom,
		c.region.Limits.Min, c.region.Limits.Max)
	if c.reporter != nil {
		c.reporter.RegionChanged(c.region)
	}
	return c.region
}

// SetConfig replaces the buffer and density settings. The region is not
// recomputed until the next Recompute.
func (c *Controller) SetConfig(cfg viewport.Config) {
	c.cfg = cfg
}

// thresholds draws the operating band for a pass. Jitter is a whole number
// of stars up to a third of the limit range, applied inward from each limit.
func (c *Controller) thresholds() (lo, hi int) {
	l := c.region.Limits
	jitterMax := l.Range / 3
	loF := l.Min + c.sampler.Uniform(0, jitterMax, 0)
	hiF := l.Max - c.sampler.Uniform(0, jitterMax, 0)

	lo = int(math.Max(0, math.Ceil(loF)))
	hi = int(math.Max(0, math.Floor(hiF)))
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

// Fill runs one bulk creation pass: draw thresholds, create max - count
// stars, insert them as one batch. A Fill requested while another is in
// progress is skipped.
func (c *Controller) Fill() Pass {
	if c.filling {
		c.logger.Debug("fill skipped: pass already in progress")
		return Pass{Skipped: true, Min: c.minCount, Max: c.maxCount, Count: c.count}
	}

	c.filling = true
	defer func() { c.filling = false }()

	c.minCount, c.maxCount = c.thresholds()
	deficit := c.maxCount - c.count

	var batch []star.Star
	if deficit > 0 {
		batch = make([]star.Star, 0, deficit)
		for i := 0; i < deficit; i++ {
			batch = append(batch, c.factory.Generate(c.region.Bounds))
		}
		c.count += len(batch)
		c.surface.Insert(batch)
	}
	c.passes++

	p := Pass{Min: c.minCount, Max: c.maxCount, Created: len(batch), Count: c.count}
	c.logger.Debug("fill pass %d: band %d..%d, created %d, count %d",
		c.passes, p.Min, p.Max, p.Created, p.Count)
	if c.reporter != nil {
		c.reporter.FillCompleted(p)
	}
	return p
}

// Expire handles the end of a star's lifecycle: remove it from the surface
// and refill when the count drops below the band. Unknown ids are ignored.
func (c *Controller) Expire(id uint64) {
	if !c.surface.Remove(id) {
		c.logger.Warn("expire: star %d not on surface", id)
		return
	}
	if c.count > 0 {
		c.count--
	}
	if c.reporter != nil {
		c.reporter.StarExpired(id, c.count)
	}

	if c.count < c.minCount && !c.filling {
		c.Fill()
	}
}

// Count returns the current star count.
func (c *Controller) Count() int {
	return c.count
}

// Band returns the thresholds drawn by the most recent pass.
func (c *Controller) Band() (lo, hi int) {
	return c.minCount, c.maxCount
}

// Region returns the current spawn region.
func (c *Controller) Region() viewport.Region {
	return c.region
}

// Filling reports whether a creation pass is in progress.
func (c *Controller) Filling() bool {
	return c.filling
}

// Passes returns the number of completed fill passes.
func (c *Controller) Passes() int {
	return c.passes
}
