// Package viewport derives the buffered spawn region and star-count limits
// from the scroll position, the viewport size and the container size.
package viewport

import (
	"math"

	"github.com/litescript/ls-parallax/internal/sampling"
)

// Metrics is a reading from the scroll source.
type Metrics struct {
	ScrollX         float64 `json:"scroll_x"`
	ScrollY         float64 `json:"scroll_y"`
	ViewportWidth   float64 `json:"viewport_width"`
	ViewportHeight  float64 `json:"viewport_height"`
	ContainerWidth  float64 `json:"container_width"`
	ContainerHeight float64 `json:"container_height"`
}

// Config holds buffers and density targets.
type Config struct {
	// HorizontalBuffer extends the region right of the viewport, as a
	// fraction of viewport width.
	HorizontalBuffer float64
	// VerticalBuffer extends the region above and below the viewport, as a
	// fraction of viewport height. The left edge also uses it.
	VerticalBuffer float64

	// MinDensity and MaxDensity are percentages of the region area covered
	// by stars.
	MinDensity float64
	MaxDensity float64

	// AverageStarArea in px².
	AverageStarArea float64
}

// AverageStarArea returns (min² + max²) × screenHeight / 2 for star sizes
// expressed in percent of screen height.
func AverageStarArea(minSize, maxSize, screenHeight float64) float64 {
	return (minSize*minSize + maxSize*maxSize) * screenHeight / 2
}

// DefaultConfig returns the stock buffers and densities for a screen of the
// given pixel height.
func DefaultConfig(screenHeight float64) Config {
	return Config{
		HorizontalBuffer: 0,
		VerticalBuffer:   0.25,
		MinDensity:       10,
		MaxDensity:       15,
		AverageStarArea:  AverageStarArea(1.5, 2, screenHeight),
	}
}

// Bounds are the edges of the buffered region in container pixels.
type Bounds struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Width returns Right - Left, floored at zero.
func (b Bounds) Width() float64 {
	return math.Max(0, b.Right-b.Left)
}

// Height returns Bottom - Top, floored at zero.
func (b Bounds) Height() float64 {
	return math.Max(0, b.Bottom-b.Top)
}

// Area returns the region area; collapsed regions have zero area.
func (b Bounds) Area() float64 {
	return b.Width() * b.Height()
}

// Limits are the star-count bounds for a region. 0 <= Min <= Max.
type Limits struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Range float64 `json:"range"`
}

// Region is a computed spawn region with its limits.
type Region struct {
	Bounds Bounds `json:"bounds"`
	Limits Limits `json:"limits"`
}

// ComputeBounds applies the buffer formulas to m.
func ComputeBounds(m Metrics, cfg Config) Bounds {
	return Bounds{
		Left: math.Min(0, m.ScrollX-m.ViewportWidth*cfg.VerticalBuffer),
		Right: sampling.Clamp(
			m.ScrollX+m.ViewportWidth,
			m.ScrollX+m.ViewportWidth*(1+cfg.HorizontalBuffer),
			m.ContainerWidth,
		),
		Top: math.Max(0, m.ScrollY-m.ViewportHeight*cfg.VerticalBuffer),
		Bottom: sampling.Clamp(
			m.ScrollY+m.ViewportHeight,
			m.ScrollY+m.ViewportHeight*(1+cfg.VerticalBuffer),
			m.ContainerHeight,
		),
	}
}

// ComputeLimits converts an area into star-count limits.
func ComputeLimits(area float64, cfg Config) Limits {
	if area <= 0 || cfg.AverageStarArea <= 0 {
		return Limits{}
	}
	lo := math.Max(0, area*cfg.MinDensity/(cfg.AverageStarArea*100))
	hi := math.Max(lo, area*cfg.MaxDensity/(cfg.AverageStarArea*100))
	return Limits{Min: lo, Max: hi, Range: hi - lo}
}

// Compute derives the buffered region and its limits.
func Compute(m Metrics, cfg Config) Region {
	b := ComputeBounds(m, cfg)
	return Region{
		Bounds: b,
		Limits: ComputeLimits(b.Area(), cfg),
	}
}
