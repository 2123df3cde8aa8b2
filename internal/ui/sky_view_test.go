package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-parallax/internal/geometry"
	"github.com/litescript/ls-parallax/internal/star"
	"github.com/litescript/ls-parallax/internal/starfield"
	"github.com/litescript/ls-parallax/internal/viewport"
)

func TestStarGlyph(t *testing.T) {
	tests := []struct {
		intensity float64
		expected  rune
	}{
		{1, glyphStarBright},
		{0.8, glyphStarBright},
		{0.6, glyphStarMedium},
		{0.3, glyphStarDim},
		{0.1, glyphStarFaint},
		{0, glyphStarFaint},
	}

	for _, tt := range tests {
		if got := starGlyph(tt.intensity); got != tt.expected {
			t.Errorf("starGlyph(%v) = %q, want %q", tt.intensity, got, tt.expected)
		}
	}
}

func TestRayGlyph(t *testing.T) {
	tests := []struct {
		dx, dy   float64
		expected rune
		desc     string
	}{
		{0, -1, '│', "up"},
		{0, 1, '│', "down"},
		{1, 0, '─', "right"},
		{-1, 0, '─', "left"},
		{0.7, 0.7, '╲', "down-right"},
		{-0.7, -0.7, '╲', "up-left"},
		{0.7, -0.7, '╱', "up-right"},
		{-0.7, 0.7, '╱', "down-left"},
	}

	for _, tt := range tests {
		if got := rayGlyph(tt.dx, tt.dy); got != tt.expected {
			t.Errorf("rayGlyph(%s) = %q, want %q", tt.desc, got, tt.expected)
		}
	}
}

func TestStarColor(t *testing.T) {
	if got := starColor("#ADD8E6", 1, 1); !strings.EqualFold(got, "#ADD8E6") {
		t.Errorf("full intensity at depth 1 = %s, want the palette color", got)
	}
	if got := starColor("#ADD8E6", 0, 1); !strings.EqualFold(got, colorSky) {
		t.Errorf("zero intensity = %s, want sky %s", got, colorSky)
	}
	if got := starColor("not-a-color", 1, 1); !strings.EqualFold(got, "#FFFFFF") {
		t.Errorf("bad hex = %s, want white", got)
	}

	near := starColor("#FFE4B5", 1, 2)
	far := starColor("#FFE4B5", 1, 4)
	if near == far {
		t.Error("deeper stars should be dimmer")
	}
}

func TestScrollLabel(t *testing.T) {
	m := viewport.Metrics{ViewportHeight: 100, ContainerHeight: 300, ScrollY: 100}
	if got := scrollLabel(m); got != " 50%" {
		t.Errorf("scrollLabel = %q, want \" 50%%\"", got)
	}
	if got := scrollLabel(viewport.Metrics{ViewportHeight: 100, ContainerHeight: 100}); got != "top" {
		t.Errorf("scrollLabel without travel = %q, want top", got)
	}
}

func testSky(stars ...starfield.Live) SkyViewModel {
	m := NewSkyViewModel().SetSize(20, 5)
	m.metrics = viewport.Metrics{ViewportWidth: 160, ViewportHeight: 80, ContainerWidth: 160, ContainerHeight: 320}
	m.stars = stars
	m.now = epoch.Add(time.Second)
	return m
}

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestRenderSkyCanvas_PlacesStar(t *testing.T) {
	l := starfield.Live{
		Star: star.Star{ID: 1, Depth: 1, X: 80, Y: 40, Color: "#ADD8E6", Duration: 2 * time.Second},
		Born: epoch,
	}

	out := testSky(l).View()
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("canvas has %d lines, want 5", len(lines))
	}
	if !strings.ContainsRune(lines[2], glyphStarBright) {
		t.Errorf("row 2 should hold the star: %q", lines[2])
	}
	for i, line := range lines {
		if i != 2 && strings.ContainsRune(line, glyphStarBright) {
			t.Errorf("unexpected star on row %d", i)
		}
	}
}

func TestRenderSkyCanvas_DrawsRays(t *testing.T) {
	l := starfield.Live{
		Star: star.Star{
			ID: 1, Depth: 1, X: 80, Y: 40, Color: "#ADD8E6", Duration: 2 * time.Second,
			Rays: []geometry.Ray{{Role: geometry.RoleVertical, Angle: 0, Width: 8, Height: 64}},
		},
		Born: epoch,
	}

	lines := strings.Split(testSky(l).View(), "\n")
	for _, row := range []int{0, 1} {
		if !strings.ContainsRune(lines[row], '│') {
			t.Errorf("row %d should hold the upward ray: %q", row, lines[row])
		}
	}
	if strings.ContainsRune(lines[3], '│') {
		t.Error("a single upward ray should not reach below the star")
	}
}

func TestRenderSkyCanvas_OffscreenStar(t *testing.T) {
	l := starfield.Live{
		Star: star.Star{ID: 1, Depth: 1, X: 80, Y: 4000, Color: "#ADD8E6", Duration: 2 * time.Second},
		Born: epoch,
	}
	if out := testSky(l).View(); strings.ContainsRune(out, glyphStarBright) {
		t.Error("offscreen star should not be drawn")
	}
}

func TestSkyView_TooSmall(t *testing.T) {
	m := NewSkyViewModel().SetSize(5, 2)
	if got := m.View(); !strings.Contains(got, "larger terminal") {
		t.Errorf("View = %q", got)
	}
}
