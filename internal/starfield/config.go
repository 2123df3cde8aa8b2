// Package starfield wires the sampler, geometry cache, star generator and
// density controller into one starfield with an in-memory surface.
package starfield

import (
	"errors"
	"fmt"
	"time"

	"github.com/litescript/ls-parallax/internal/star"
	"github.com/litescript/ls-parallax/internal/viewport"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid starfield config")

// ErrNoClock is returned by New when no clock is supplied.
var ErrNoClock = errors.New("starfield requires a clock")

const (
	// DefaultThrottleWait is the rate limit for scroll and resize handling.
	DefaultThrottleWait = 100 * time.Millisecond

	// DefaultContainerPages is the scrollable height in viewport heights.
	DefaultContainerPages = 4.0
)

// Config holds every starfield setting.
type Config struct {
	Star     star.Config
	Viewport viewport.Config

	// ScreenHeight is the pixel height that star and ray sizes are relative
	// to. It is fixed for the lifetime of a field.
	ScreenHeight float64

	// ContainerPages sets the scrollable content height as a multiple of
	// the viewport height.
	ContainerPages float64

	ThrottleWait time.Duration

	// Seed makes runs reproducible. Zero seeds from the global generator.
	Seed uint64

	MaxEvents int
}

// DefaultConfig returns the stock settings for a screen of screenHeight
// pixels.
func DefaultConfig(screenHeight float64) Config {
	starCfg := star.DefaultConfig()
	vpCfg := viewport.DefaultConfig(screenHeight)
	vpCfg.AverageStarArea = viewport.AverageStarArea(starCfg.MinSize, starCfg.MaxSize, screenHeight)

	return Config{
		Star:           starCfg,
		Viewport:       vpCfg,
		ScreenHeight:   screenHeight,
		ContainerPages: DefaultContainerPages,
		ThrottleWait:   DefaultThrottleWait,
		MaxEvents:      50,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.ScreenHeight <= 0 {
		return fmt.Errorf("%w: screen height %v must be positive", ErrInvalidConfig, c.ScreenHeight)
	}
	if c.ContainerPages < 1 {
		return fmt.Errorf("%w: container pages %v must be at least 1", ErrInvalidConfig, c.ContainerPages)
	}
	if c.ThrottleWait < 0 {
		return fmt.Errorf("%w: throttle wait %v must not be negative", ErrInvalidConfig, c.ThrottleWait)
	}
	v := c.Viewport
	if v.HorizontalBuffer < 0 || v.VerticalBuffer < 0 {
		return fmt.Errorf("%w: buffers must not be negative", ErrInvalidConfig)
	}
	if v.MinDensity < 0 || v.MinDensity > v.MaxDensity {
		return fmt.Errorf("%w: density [%v, %v] must be non-negative and ordered", ErrInvalidConfig, v.MinDensity, v.MaxDensity)
	}
	if err := c.Star.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
