// Package geometry computes ray shapes: size ratios per role, the
// translation that anchors a ray on its star, and the cubic outline path.
// Translations and paths are memoized in a Cache shared by all stars.
package geometry

import (
	"math"
	"sync"

	"github.com/litescript/ls-parallax/internal/sampling"
)

const (
	// DefaultSharpness controls how pinched the ray outline is.
	DefaultSharpness = 4.0

	// DefaultPrecision is the number of decimals kept for ray ratios.
	DefaultPrecision = 3
)

// Translation is a ray's offset from its star center, in percent of the
// ray's own box.
type Translation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type translateKey struct {
	angle  int64
	width  int64
	height int64
}

type pathKey struct {
	width  int
	height int
}

// CacheStats reports memoization effectiveness.
type CacheStats struct {
	TranslateHits   int `json:"translate_hits"`
	TranslateMisses int `json:"translate_misses"`
	PathHits        int `json:"path_hits"`
	PathMisses      int `json:"path_misses"`
}

// Cache memoizes translations and ray paths. Entries are never evicted;
// cardinality is bounded by the ratio precision and pixel sizes in use.
type Cache struct {
	mu sync.Mutex

	precision int
	xRatio    float64
	yRatio    float64

	translations map[translateKey]*Translation
	paths        map[pathKey]*Path
	stats        CacheStats
}

// NewCache creates a cache for the given ray sharpness and ratio precision.
func NewCache(sharpness float64, precision int) *Cache {
	x, y := ControlRatios(sharpness)
	return &Cache{
		precision:    precision,
		xRatio:       x,
		yRatio:       y,
		translations: make(map[translateKey]*Translation),
		paths:        make(map[pathKey]*Path),
	}
}

// NewDefaultCache creates a cache with DefaultSharpness and DefaultPrecision.
func NewDefaultCache() *Cache {
	return NewCache(DefaultSharpness, DefaultPrecision)
}

// ControlRatios derives the cubic control point ratios from a sharpness
// constant: y = 2/(1+2^(-2^s/10)) - 1, x = y/2.
func ControlRatios(sharpness float64) (x, y float64) {
	y = 2/(1+math.Pow(2, -math.Pow(2, sharpness)/10)) - 1
	return y / 2, y
}

func (c *Cache) scale(v float64) int64 {
	return int64(sampling.Round(v*math.Pow(10, float64(c.precision)), 0))
}

// Translate returns the translation for a ray at angleDeg with the given
// ratios. Identical rounded inputs return the same pointer.
func (c *Cache) Translate(angleDeg, widthRatio, heightRatio float64) *Translation {
	key := translateKey{
		angle:  c.scale(angleDeg),
		width:  c.scale(widthRatio),
		height: c.scale(heightRatio),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.translations[key]; ok {
		c.stats.TranslateHits++
		return t
	}
	c.stats.TranslateMisses++

	rad := angleDeg * math.Pi / 180
	t := &Translation{
		X: (math.Sin(rad)*widthRatio*heightRatio/2 - 0.5) * 100,
		Y: (-math.Cos(rad)/2 - 0.5) * 100,
	}
	c.translations[key] = t
	return t
}

// RayPath returns the outline for a ray box of widthPx by heightPx.
// Identical sizes return the same pointer.
func (c *Cache) RayPath(widthPx, heightPx int) *Path {
	key := pathKey{width: widthPx, height: heightPx}

	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.paths[key]; ok {
		c.stats.PathHits++
		return p
	}
	c.stats.PathMisses++

	p := newPath(widthPx, heightPx, c.xRatio, c.yRatio)
	c.paths[key] = p
	return p
}

// Stats returns a copy of the hit/miss counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Len returns the number of cached translations and paths.
func (c *Cache) Len() (translations, paths int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.translations), len(c.paths)
}
