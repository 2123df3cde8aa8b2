// Package star assembles star descriptors: depth, position, size, rotation,
// color, twinkle duration and eight rays.
package star

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/litescript/ls-parallax/internal/geometry"
	"github.com/litescript/ls-parallax/internal/sampling"
	"github.com/litescript/ls-parallax/internal/viewport"
)

// Star style property names.
const (
	PropDistance = "--star-distance"
	PropTop      = "--star-top"
	PropLeft     = "--star-left"
	PropSize     = "--star-size"
	PropRotation = "--star-rotation"
	PropColor    = "--star-color"
	PropDuration = "--star-duration"
)

// DefaultPalette is the stock star color mix.
var DefaultPalette = []sampling.Weighted{
	{Value: "#ADD8E6", Weight: 0.7}, // blue
	{Value: "#FFE4B5", Weight: 0.2}, // yellow
	{Value: "#FFA07A", Weight: 0.1}, // orange
}

// Config holds the per-star sampling ranges.
type Config struct {
	MinSize       float64 // percent of screen height
	MaxSize       float64
	SizePrecision int

	PositionPrecision int

	MinDuration time.Duration
	MaxDuration time.Duration

	RotationRange float64 // degrees either side of upright

	MinDepth       float64
	MaxDepth       float64
	DepthPrecision int

	Palette []sampling.Weighted
	Rays    geometry.RayConfig
}

// DefaultConfig returns the stock star settings.
func DefaultConfig() Config {
	return Config{
		MinSize:           1.5,
		MaxSize:           2,
		SizePrecision:     3,
		PositionPrecision: 0,
		MinDuration:       2 * time.Second,
		MaxDuration:       8 * time.Second,
		RotationRange:     30,
		MinDepth:          2,
		MaxDepth:          4,
		DepthPrecision:    3,
		Palette:           DefaultPalette,
		Rays:              geometry.DefaultRayConfig(),
	}
}

// Perspective is the parallax wrapper perspective in pixels,
// 10^DepthPrecision.
func (c Config) Perspective() float64 {
	return math.Pow(10, float64(c.DepthPrecision))
}

// Validate checks ranges for ordering and sign.
func (c Config) Validate() error {
	switch {
	case c.MinSize <= 0 || c.MinSize > c.MaxSize:
		return fmt.Errorf("star size [%v, %v] must be positive and ordered", c.MinSize, c.MaxSize)
	case c.MinDuration <= 0 || c.MinDuration > c.MaxDuration:
		return fmt.Errorf("star duration [%v, %v] must be positive and ordered", c.MinDuration, c.MaxDuration)
	case c.MinDepth < 1 || c.MinDepth > c.MaxDepth:
		return fmt.Errorf("star depth [%v, %v] must be at least 1 and ordered", c.MinDepth, c.MaxDepth)
	case c.RotationRange < 0:
		return fmt.Errorf("rotation range %v must not be negative", c.RotationRange)
	case c.SizePrecision < 0:
		return fmt.Errorf("size precision %d must not be negative", c.SizePrecision)
	case c.PositionPrecision < 0:
		return fmt.Errorf("position precision %d must not be negative", c.PositionPrecision)
	case c.DepthPrecision < 0:
		return fmt.Errorf("depth precision %d must not be negative", c.DepthPrecision)
	case len(c.Palette) == 0:
		return fmt.Errorf("palette must have at least one color")
	}
	if err := c.Rays.Validate(); err != nil {
		return fmt.Errorf("rays: %w", err)
	}
	return nil
}

// Star is a visual element descriptor. Once inserted into a surface the
// surface owns it.
type Star struct {
	ID       uint64         `json:"id"`
	Depth    float64        `json:"depth"`
	Distance int            `json:"distance_px"`
	X        float64        `json:"left_px"`
	Y        float64        `json:"top_px"`
	Size     float64        `json:"size"`
	Rotation float64        `json:"rotation"`
	Color    string         `json:"color"`
	Duration time.Duration  `json:"duration"`
	Rays     []geometry.Ray `json:"rays"`
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Properties returns the star's style properties in a fixed order.
func (s Star) Properties() []geometry.Property {
	return []geometry.Property{
		{Name: PropDistance, Value: "-" + strconv.Itoa(s.Distance) + "px"},
		{Name: PropTop, Value: formatFloat(s.Y) + "px"},
		{Name: PropLeft, Value: formatFloat(s.X) + "px"},
		{Name: PropSize, Value: formatFloat(s.Size)},
		{Name: PropRotation, Value: formatFloat(s.Rotation) + "deg"},
		{Name: PropColor, Value: s.Color},
		{Name: PropDuration, Value: strconv.FormatInt(s.Duration.Milliseconds(), 10) + "ms"},
	}
}

// Scale is the apparent size factor after perspective projection.
func (s Star) Scale() float64 {
	if s.Depth <= 0 {
		return 1
	}
	return 1 / s.Depth
}

// Generator produces stars.
type Generator struct {
	cfg     Config
	sampler *sampling.Sampler
	palette sampling.Palette
	rays    *geometry.Generator
	nextID  uint64
}

// NewGenerator creates a star generator. The geometry cache may be shared
// between generators.
func NewGenerator(cfg Config, sampler *sampling.Sampler, cache *geometry.Cache, screenHeight float64) *Generator {
	return &Generator{
		cfg:     cfg,
		sampler: sampler,
		palette: sampling.NewPalette(cfg.Palette),
		rays:    geometry.NewGenerator(cfg.Rays, cache, sampler, screenHeight),
	}
}

// SetScreenHeight updates the pixel height used for ray sizes.
func (g *Generator) SetScreenHeight(h float64) {
	g.rays.SetScreenHeight(h)
}

// Config returns the generator's settings.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate samples one star inside the depth-adjusted region b.
func (g *Generator) Generate(b viewport.Bounds) Star {
	g.nextID++
	cfg := g.cfg

	depth := g.sampler.Uniform(cfg.MinDepth, cfg.MaxDepth, cfg.DepthPrecision)
	distance := int(sampling.Round(cfg.Perspective()*(depth-1), 0))

	h := sampling.AdjustForDepth(b.Left, b.Right, depth)
	v := sampling.AdjustForDepth(b.Top, b.Bottom, depth)
	x := g.sampler.Uniform(h.Start, h.End, cfg.PositionPrecision)
	y := g.sampler.Skewed(v.Start, v.End, cfg.PositionPrecision)

	size := g.sampler.Uniform(cfg.MinSize, cfg.MaxSize, cfg.SizePrecision)
	rotation := g.sampler.Uniform(-cfg.RotationRange, cfg.RotationRange, 0)
	color := g.sampler.Pick(g.palette)
	ms := g.sampler.Uniform(float64(cfg.MinDuration.Milliseconds()), float64(cfg.MaxDuration.Milliseconds()), 0)

	return Star{
		ID:       g.nextID,
		Depth:    depth,
		Distance: distance,
		X:        x,
		Y:        y,
		Size:     size,
		Rotation: rotation,
		Color:    color,
		Duration: time.Duration(ms) * time.Millisecond,
		Rays:     g.rays.Rays(size),
	}
}
