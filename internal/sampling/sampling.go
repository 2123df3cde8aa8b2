// Package sampling provides the random draws and small numeric helpers used
// to generate stars: clamping, rounding, uniform and skewed ranges, weighted
// palettes and depth-adjusted spawn intervals.
package sampling

import (
	"math"
	"math/rand/v2"
)

// Source yields uniform values in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// Sampler draws values from an injected Source.
type Sampler struct {
	src Source
}

// New creates a sampler backed by src. A nil src uses the global generator.
func New(src Source) *Sampler {
	if src == nil {
		src = globalSource{}
	}
	return &Sampler{src: src}
}

// NewSeeded creates a deterministic sampler.
func NewSeeded(seed uint64) *Sampler {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Float64 returns a raw draw in [0, 1).
func (s *Sampler) Float64() float64 {
	u := s.src.Float64()
	// Guard against sources that hand back exactly 1.
	if u >= 1 {
		return math.Nextafter(1, 0)
	}
	if u < 0 {
		return 0
	}
	return u
}

// Uniform samples uniformly in [min, max] rounded to decimals places.
func (s *Sampler) Uniform(min, max float64, decimals int) float64 {
	v := min + s.Float64()*(max-min)
	return Clamp(min, Round(v, decimals), max)
}

// Skewed samples in [min, max] biased toward min using 1 - sqrt(1 - u),
// rounded to decimals places.
func (s *Sampler) Skewed(min, max float64, decimals int) float64 {
	u := s.Float64()
	t := 1 - math.Sqrt(1-u)
	v := min + (max-min)*t
	return Clamp(min, Round(v, decimals), max)
}

// Clamp restricts value to [min, max]. When min > max, min wins.
func Clamp(min, value, max float64) float64 {
	return math.Max(min, math.Min(value, max))
}

// Round rounds half up to the given number of decimal places.
// Negative halves round toward +Inf (-2.5 -> -2).
func Round(v float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Floor(v + 0.5)
	}
	factor := math.Pow(10, float64(decimals))
	return math.Floor(v*factor+0.5) / factor
}

// Interval is a closed numeric range.
type Interval struct {
	Start float64
	End   float64
}

// Length returns End - Start.
func (i Interval) Length() float64 {
	return i.End - i.Start
}

// AdjustForDepth widens [start, end] by (factor-1)/2 of its length on each
// side, so that after scaling by 1/factor the interval still covers the
// original span.
func AdjustForDepth(start, end, factor float64) Interval {
	change := (end - start) * (factor - 1) / 2
	return Interval{Start: start - change, End: end + change}
}
