package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-parallax/internal/geometry"
	"github.com/litescript/ls-parallax/internal/starfield"
	"github.com/litescript/ls-parallax/internal/viewport"
)

const (
	// Terminal cell size in pixels. Field metrics are kept in pixels so star
	// sizes and ray lengths keep their proportions.
	defaultCellWidth  = 8.0
	defaultCellHeight = 16.0

	// Star glyphs by twinkle intensity
	glyphStarBright = '✶'
	glyphStarMedium = '✦'
	glyphStarDim    = '+'
	glyphStarFaint  = '·'

	// Sky background, and the color stars fade into
	colorSky = "#05060f"

	// Rays are drawn only for stars at least this bright
	rayIntensity = 0.6
	// and filler rays only past this one.
	fillerIntensity = 0.85
)

// SkyViewModel renders the live starfield onto a character canvas.
type SkyViewModel struct {
	width  int
	height int

	cellWidth  float64
	cellHeight float64

	metrics viewport.Metrics
	stars   []starfield.Live
	now     time.Time
}

// NewSkyViewModel creates a sky view with the default cell size.
func NewSkyViewModel() SkyViewModel {
	return SkyViewModel{
		cellWidth:  defaultCellWidth,
		cellHeight: defaultCellHeight,
	}
}

// SetSize updates the canvas size in cells.
func (m SkyViewModel) SetSize(width, height int) SkyViewModel {
	m.width = width
	m.height = height
	return m
}

// PixelSize returns the canvas size in field pixels.
func (m SkyViewModel) PixelSize() (w, h float64) {
	return float64(m.width) * m.cellWidth, float64(m.height) * m.cellHeight
}

// UpdateData captures the stars to draw at now.
func (m SkyViewModel) UpdateData(f *starfield.Field, now time.Time) SkyViewModel {
	m.metrics = f.Metrics()
	m.stars = f.Stars()
	m.now = now
	return m
}

// cell maps a viewport pixel to a canvas cell.
func (m SkyViewModel) cell(x, y float64) (int, int) {
	return int(math.Floor(x / m.cellWidth)), int(math.Floor(y / m.cellHeight))
}

// View renders the sky canvas.
func (m SkyViewModel) View() string {
	if m.width < 10 || m.height < 4 {
		return "Sky view requires larger terminal"
	}
	return m.renderSkyCanvas(m.width, m.height)
}

func (m SkyViewModel) renderSkyCanvas(width, height int) string {
	canvas := make([][]rune, height)
	colors := make([][]lipgloss.Color, height)
	for y := 0; y < height; y++ {
		canvas[y] = make([]rune, width)
		colors[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			canvas[y][x] = ' '
		}
	}

	// Far stars first so nearer ones draw over them.
	stars := make([]starfield.Live, len(m.stars))
	copy(stars, m.stars)
	sort.SliceStable(stars, func(i, j int) bool {
		return stars[i].Star.Depth > stars[j].Star.Depth
	})

	for _, l := range stars {
		x, y, scale := l.Project(m.metrics)
		cx, cy := m.cell(x, y)
		intensity := l.Intensity(m.now)
		color := lipgloss.Color(starColor(l.Star.Color, intensity, l.Star.Depth))

		if intensity >= rayIntensity {
			m.drawRays(canvas, colors, l, cx, cy, scale, intensity)
		}
		if cx < 0 || cx >= width || cy < 0 || cy >= height {
			continue
		}
		canvas[cy][cx] = starGlyph(intensity)
		colors[cy][cx] = color
	}

	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if canvas[y][x] == ' ' {
				b.WriteRune(' ')
				continue
			}
			style := lipgloss.NewStyle().Foreground(colors[y][x])
			b.WriteString(style.Render(string(canvas[y][x])))
		}
		if y < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// drawRays traces the star's rays outward from its center cell. Each ray
// points along the star rotation plus the ray angle and is as long as its
// projected height.
func (m SkyViewModel) drawRays(canvas [][]rune, colors [][]lipgloss.Color, l starfield.Live, cx, cy int, scale, intensity float64) {
	rayColor := lipgloss.Color(starColor(l.Star.Color, intensity*0.6, l.Star.Depth))

	for _, r := range l.Star.Rays {
		if r.Role == geometry.RoleFiller && intensity < fillerIntensity {
			continue
		}
		theta := (l.Star.Rotation + r.Angle) * math.Pi / 180
		dx, dy := math.Sin(theta), -math.Cos(theta)
		length := float64(r.Height) * scale
		glyph := rayGlyph(dx, dy)

		// Step in pixels, one cell at a time along the dominant axis.
		step := math.Min(m.cellWidth/math.Max(math.Abs(dx), 1e-9), m.cellHeight/math.Max(math.Abs(dy), 1e-9))
		px, py := float64(cx)*m.cellWidth+m.cellWidth/2, float64(cy)*m.cellHeight+m.cellHeight/2
		for d := step; d <= length; d += step {
			x, y := m.cell(px+dx*d, py+dy*d)
			if x == cx && y == cy {
				continue
			}
			if y < 0 || y >= len(canvas) || x < 0 || x >= len(canvas[y]) {
				break
			}
			if canvas[y][x] != ' ' {
				continue
			}
			canvas[y][x] = glyph
			colors[y][x] = rayColor
		}
	}
}

// starGlyph returns the glyph for a star at the given twinkle intensity.
func starGlyph(intensity float64) rune {
	switch {
	case intensity >= 0.8:
		return glyphStarBright
	case intensity >= 0.5:
		return glyphStarMedium
	case intensity >= 0.25:
		return glyphStarDim
	default:
		return glyphStarFaint
	}
}

// rayGlyph picks a line character for the direction (dx, dy), y down.
func rayGlyph(dx, dy float64) rune {
	deg := math.Mod(math.Atan2(dy, dx)*180/math.Pi+180, 180)
	switch {
	case deg < 22.5 || deg >= 157.5:
		return '─'
	case deg < 67.5:
		return '╲'
	case deg < 112.5:
		return '│'
	default:
		return '╱'
	}
}

// starColor fades a star's palette color into the sky by intensity and
// depth: deeper stars are dimmer.
func starColor(hex string, intensity, depth float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		c = colorful.Color{R: 1, G: 1, B: 1}
	}
	sky, _ := colorful.Hex(colorSky)

	depthFade := 1.0
	if depth > 1 {
		depthFade = 1 / math.Sqrt(depth)
	}
	t := clamp01(1 - intensity*depthFade)
	return c.BlendLab(sky, t).Clamped().Hex()
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// scrollLabel describes the viewport position within the container.
func scrollLabel(m viewport.Metrics) string {
	travel := m.ContainerHeight - m.ViewportHeight
	if travel <= 0 {
		return "top"
	}
	return fmt.Sprintf("%3.0f%%", m.ScrollY/travel*100)
}
