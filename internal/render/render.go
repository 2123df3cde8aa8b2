// Package render rasterizes a starfield frame to PNG. Rays are drawn from
// their cubic outlines, so the image matches the vector geometry the star
// generator produced.
package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/gogpu/gg"

	"github.com/litescript/ls-parallax/internal/starfield"
	"github.com/litescript/ls-parallax/internal/viewport"
)

// Options controls the rasterizer.
type Options struct {
	// Background is the hex fill behind the stars.
	Background string
	// ScreenHeight converts star sizes (percent of screen height) to pixels.
	ScreenHeight float64
	// CoreRatio is the radius of the star's core dot relative to its size.
	CoreRatio float64
	// MinAlpha keeps stars at the very start or end of their lifecycle
	// faintly visible.
	MinAlpha float64
}

// DefaultOptions returns the stock rasterizer settings.
func DefaultOptions(screenHeight float64) Options {
	return Options{
		Background:   "#05060f",
		ScreenHeight: screenHeight,
		CoreRatio:    0.35,
		MinAlpha:     0.08,
	}
}

// Frame is what gets drawn: the live stars, the viewport they are seen
// through and the instant that sets their twinkle.
type Frame struct {
	Metrics viewport.Metrics
	Stars   []starfield.Live
	Now     time.Time
}

// FrameOf captures the current frame of f.
func FrameOf(f *starfield.Field) Frame {
	return Frame{
		Metrics: f.Metrics(),
		Stars:   f.Stars(),
		Now:     f.Now(),
	}
}

// Draw rasterizes frame into a new context sized to the viewport. The caller
// owns the context and must Close it.
func Draw(frame Frame, opts Options) (*gg.Context, error) {
	w := int(math.Round(frame.Metrics.ViewportWidth))
	h := int(math.Round(frame.Metrics.ViewportHeight))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("viewport %dx%d has no area", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.ClearWithColor(gg.Hex(opts.Background))

	for _, l := range frame.Stars {
		if err := drawStar(dc, l, frame, opts); err != nil {
			dc.Close()
			return nil, fmt.Errorf("draw star %d: %w", l.Star.ID, err)
		}
	}
	return dc, nil
}

func drawStar(dc *gg.Context, l starfield.Live, frame Frame, opts Options) error {
	x, y, scale := l.Project(frame.Metrics)
	sizePx := l.Star.Size * opts.ScreenHeight / 100

	// Skip stars whose rays cannot reach the image.
	reach := sizePx * 3 * scale
	if x+reach < 0 || y+reach < 0 ||
		x-reach > frame.Metrics.ViewportWidth || y-reach > frame.Metrics.ViewportHeight {
		return nil
	}

	alpha := math.Max(opts.MinAlpha, l.Intensity(frame.Now))
	c := gg.Hex(l.Star.Color)

	dc.Push()
	defer dc.Pop()

	dc.Translate(x, y)
	dc.Scale(scale, scale)
	dc.Rotate(radians(l.Star.Rotation))

	dc.SetRGBA(c.R, c.G, c.B, alpha)
	for _, r := range l.Star.Rays {
		if r.Path == nil || r.Width <= 0 || r.Height <= 0 {
			continue
		}
		cx, cy := r.Center()

		dc.Push()
		dc.Translate(cx, cy)
		dc.Rotate(radians(r.Angle))
		dc.Translate(-float64(r.Width)/2, -float64(r.Height)/2)

		p := r.Path
		dc.MoveTo(float64(p.Start.X), float64(p.Start.Y))
		for _, seg := range p.Segments {
			dc.CubicTo(
				float64(seg.C1.X), float64(seg.C1.Y),
				float64(seg.C2.X), float64(seg.C2.Y),
				float64(seg.To.X), float64(seg.To.Y),
			)
		}
		dc.ClosePath()
		err := dc.Fill()
		dc.Pop()
		if err != nil {
			return err
		}
	}

	dc.SetRGBA(1, 1, 1, alpha)
	dc.DrawCircle(0, 0, math.Max(0.5, sizePx*opts.CoreRatio))
	return dc.Fill()
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// WritePNG draws frame and encodes it as PNG to w.
func WritePNG(w io.Writer, frame Frame, opts Options) error {
	dc, err := Draw(frame, opts)
	if err != nil {
		return err
	}
	defer dc.Close()

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG draws frame to a PNG file at path.
func SavePNG(path string, frame Frame, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	if err := WritePNG(f, frame, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
