package geometry

import (
	"fmt"
	"strconv"

	"github.com/litescript/ls-parallax/internal/sampling"
)

// Role selects which ratio range governs a ray.
type Role int

const (
	RoleVertical Role = iota
	RoleHorizontal
	RoleFiller
)

func (r Role) String() string {
	switch r {
	case RoleVertical:
		return "vertical"
	case RoleHorizontal:
		return "horizontal"
	case RoleFiller:
		return "filler"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Ray angles per role, in degrees.
var (
	VerticalAngles   = []float64{0, 180}
	HorizontalAngles = []float64{90, 270}
	FillerAngles     = []float64{45, 135, 225, 315}
)

// RaysPerStar is the number of rays attached to every star.
const RaysPerStar = 8

// Range is a closed ratio range.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// RoleRatios bounds a role's width ratio (star size / ray width) and
// height ratio (ray height / star size).
type RoleRatios struct {
	Width  Range
	Height Range
}

// RayConfig holds ray generation settings.
type RayConfig struct {
	Vertical   RoleRatios
	Horizontal RoleRatios
	Filler     RoleRatios

	Sharpness float64
	Precision int
}

// DefaultRayConfig returns the stock ray proportions.
func DefaultRayConfig() RayConfig {
	return RayConfig{
		Vertical: RoleRatios{
			Width:  Range{2, 2.2},
			Height: Range{2.7, 3},
		},
		Horizontal: RoleRatios{
			Width:  Range{2, 2.2},
			Height: Range{2, 2.4},
		},
		Filler: RoleRatios{
			Width:  Range{1.1, 1.3},
			Height: Range{1.1, 1.3},
		},
		Sharpness: DefaultSharpness,
		Precision: DefaultPrecision,
	}
}

// Ratios returns the ranges for role.
func (c RayConfig) Ratios(role Role) RoleRatios {
	switch role {
	case RoleHorizontal:
		return c.Horizontal
	case RoleFiller:
		return c.Filler
	default:
		return c.Vertical
	}
}

// Validate checks that every range is positive and ordered.
func (c RayConfig) Validate() error {
	for _, role := range []Role{RoleVertical, RoleHorizontal, RoleFiller} {
		r := c.Ratios(role)
		if r.Width.Min <= 0 || r.Width.Min > r.Width.Max {
			return fmt.Errorf("%s ray width ratio [%v, %v] must be positive and ordered", role, r.Width.Min, r.Width.Max)
		}
		if r.Height.Min <= 0 || r.Height.Min > r.Height.Max {
			return fmt.Errorf("%s ray height ratio [%v, %v] must be positive and ordered", role, r.Height.Min, r.Height.Max)
		}
	}
	if c.Precision < 0 {
		return fmt.Errorf("ray precision %d must not be negative", c.Precision)
	}
	return nil
}

// Ray is one light ray of a star.
type Ray struct {
	Role        Role         `json:"role"`
	Angle       float64      `json:"angle"`
	WidthRatio  float64      `json:"width_ratio"`
	HeightRatio float64      `json:"height_ratio"`
	Width       int          `json:"width_px"`
	Height      int          `json:"height_px"`
	Translate   *Translation `json:"translate"`
	Path        *Path        `json:"-"`
}

// Ray style property names.
const (
	PropAngle      = "--ray-angle"
	PropWidth      = "--ray-width"
	PropHeight     = "--ray-height"
	PropTranslateX = "--ray-translate-x"
	PropTranslateY = "--ray-translate-y"
	PropPath       = "--ray-path"
)

// Property is one named style value.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Properties returns the ray's style properties in a fixed order.
func (r Ray) Properties() []Property {
	props := []Property{
		{PropAngle, formatFloat(r.Angle) + "deg"},
		{PropWidth, strconv.Itoa(r.Width) + "px"},
		{PropHeight, strconv.Itoa(r.Height) + "px"},
	}
	if r.Translate != nil {
		props = append(props,
			Property{PropTranslateX, formatFloat(r.Translate.X) + "%"},
			Property{PropTranslateY, formatFloat(r.Translate.Y) + "%"},
		)
	}
	if r.Path != nil {
		props = append(props, Property{PropPath, "'" + r.Path.String() + "'"})
	}
	return props
}

// Center returns the middle of the ray box relative to the star center, in
// pixels, after the translation is applied. The box is rotated by Angle
// about this point.
func (r Ray) Center() (x, y float64) {
	w, h := float64(r.Width), float64(r.Height)
	x, y = w/2, h/2
	if r.Translate != nil {
		x += r.Translate.X / 100 * w
		y += r.Translate.Y / 100 * h
	}
	return x, y
}

// Px converts a size in percent of screen height to whole pixels.
func Px(percentScreenHeight, screenHeight float64) int {
	return roundPx(percentScreenHeight * screenHeight / 100)
}

// Generator builds rays from a star size.
type Generator struct {
	cfg          RayConfig
	cache        *Cache
	sampler      *sampling.Sampler
	screenHeight float64
}

// NewGenerator creates a ray generator. screenHeight is the pixel height
// that percent sizes are relative to.
func NewGenerator(cfg RayConfig, cache *Cache, sampler *sampling.Sampler, screenHeight float64) *Generator {
	return &Generator{
		cfg:          cfg,
		cache:        cache,
		sampler:      sampler,
		screenHeight: screenHeight,
	}
}

// SetScreenHeight updates the pixel reference for percent sizes.
func (g *Generator) SetScreenHeight(h float64) {
	g.screenHeight = h
}

// Generate builds a single ray for a star of starSize (percent of screen
// height).
func (g *Generator) Generate(starSize float64, role Role, angleDeg float64) Ray {
	ratios := g.cfg.Ratios(role)
	wr := g.sampler.Uniform(ratios.Width.Min, ratios.Width.Max, g.cfg.Precision)
	hr := g.sampler.Uniform(ratios.Height.Min, ratios.Height.Max, g.cfg.Precision)

	widthPx := Px(starSize/wr, g.screenHeight)
	heightPx := Px(starSize*hr, g.screenHeight)

	return Ray{
		Role:        role,
		Angle:       angleDeg,
		WidthRatio:  wr,
		HeightRatio: hr,
		Width:       widthPx,
		Height:      heightPx,
		Translate:   g.cache.Translate(angleDeg, wr, hr),
		Path:        g.cache.RayPath(widthPx, heightPx),
	}
}

// Rays builds the full set of eight rays: vertical, then horizontal, then
// filler.
func (g *Generator) Rays(starSize float64) []Ray {
	rays := make([]Ray, 0, RaysPerStar)
	for _, a := range VerticalAngles {
		rays = append(rays, g.Generate(starSize, RoleVertical, a))
	}
	for _, a := range HorizontalAngles {
		rays = append(rays, g.Generate(starSize, RoleHorizontal, a))
	}
	for _, a := range FillerAngles {
		rays = append(rays, g.Generate(starSize, RoleFiller, a))
	}
	return rays
}
