package geometry

import (
	"math"
	"strings"
	"testing"

	"github.com/litescript/ls-parallax/internal/sampling"
)

func TestControlRatios(t *testing.T) {
	x, y := ControlRatios(4)

	if math.Abs(y-0.503898) > 1e-5 {
		t.Errorf("y ratio = %v, want ~0.503898", y)
	}
	if math.Abs(x-y/2) > 1e-12 {
		t.Errorf("x ratio = %v, want y/2 = %v", x, y/2)
	}
}

func TestTranslate_Formula(t *testing.T) {
	c := NewDefaultCache()

	tests := []struct {
		angle, wr, hr float64
		x, y          float64
	}{
		{0, 2, 3, -50, -100},
		{90, 2, 3, 250, -50},
		{180, 2, 3, -50, 0},
		{270, 2, 3, -350, -50},
	}

	for _, tt := range tests {
		got := c.Translate(tt.angle, tt.wr, tt.hr)
		if math.Abs(got.X-tt.x) > 1e-9 || math.Abs(got.Y-tt.y) > 1e-9 {
			t.Errorf("Translate(%v, %v, %v) = (%v, %v), want (%v, %v)",
				tt.angle, tt.wr, tt.hr, got.X, got.Y, tt.x, tt.y)
		}
	}
}

func TestTranslate_Memoized(t *testing.T) {
	c := NewDefaultCache()

	a := c.Translate(45, 1.2, 1.25)
	b := c.Translate(45, 1.2, 1.25)
	if a != b {
		t.Error("identical inputs should return the same pointer")
	}

	// Differences below the ratio precision share an entry.
	d := c.Translate(45, 1.20004, 1.25)
	if d != a {
		t.Error("inputs equal after rounding should hit the cache")
	}

	e := c.Translate(45, 1.201, 1.25)
	if e == a {
		t.Error("different rounded inputs should not share an entry")
	}

	stats := c.Stats()
	if stats.TranslateMisses != 2 {
		t.Errorf("TranslateMisses = %d, want 2", stats.TranslateMisses)
	}
	if stats.TranslateHits != 2 {
		t.Errorf("TranslateHits = %d, want 2", stats.TranslateHits)
	}
}

func TestRayPath_Format(t *testing.T) {
	c := NewDefaultCache()

	p := c.RayPath(10, 100)
	want := "M0,100 C3,100 5,50 5,0 C5,50 7,100 10,100 Z"
	if p.String() != want {
		t.Errorf("RayPath(10, 100) = %q, want %q", p.String(), want)
	}

	if p.Segments[0].To != (Point{5, 0}) {
		t.Errorf("tip = %+v, want {5 0}", p.Segments[0].To)
	}
	if p.Segments[1].To != (Point{10, 100}) {
		t.Errorf("end = %+v, want {10 100}", p.Segments[1].To)
	}
}

func TestRayPath_Memoized(t *testing.T) {
	c := NewDefaultCache()

	a := c.RayPath(12, 80)
	b := c.RayPath(12, 80)
	if a != b {
		t.Error("identical sizes should return the same pointer")
	}
	if c.RayPath(12, 81) == a {
		t.Error("different sizes should not share an entry")
	}

	stats := c.Stats()
	if stats.PathHits != 1 || stats.PathMisses != 2 {
		t.Errorf("path stats = %+v, want 1 hit, 2 misses", stats)
	}

	_, paths := c.Len()
	if paths != 2 {
		t.Errorf("cached paths = %d, want 2", paths)
	}
}

func TestPx(t *testing.T) {
	tests := []struct {
		percent, screen float64
		expected        int
	}{
		{1.5, 1000, 15},
		{2, 1080, 22}, // 21.6
		{0.75, 1080, 8},
		{0, 1080, 0},
	}

	for _, tt := range tests {
		if got := Px(tt.percent, tt.screen); got != tt.expected {
			t.Errorf("Px(%v, %v) = %d, want %d", tt.percent, tt.screen, got, tt.expected)
		}
	}
}

func TestRays_Layout(t *testing.T) {
	cfg := DefaultRayConfig()
	g := NewGenerator(cfg, NewDefaultCache(), sampling.NewSeeded(3), 1000)

	for trial := 0; trial < 50; trial++ {
		size := 1.5 + float64(trial%5)*0.1
		rays := g.Rays(size)

		if len(rays) != RaysPerStar {
			t.Fatalf("got %d rays, want %d", len(rays), RaysPerStar)
		}

		byRole := map[Role][]float64{}
		for _, r := range rays {
			byRole[r.Role] = append(byRole[r.Role], r.Angle)

			ratios := cfg.Ratios(r.Role)
			if !ratios.Width.Contains(r.WidthRatio) {
				t.Errorf("%s width ratio %v outside %+v", r.Role, r.WidthRatio, ratios.Width)
			}
			if !ratios.Height.Contains(r.HeightRatio) {
				t.Errorf("%s height ratio %v outside %+v", r.Role, r.HeightRatio, ratios.Height)
			}
			if r.Width != Px(size/r.WidthRatio, 1000) {
				t.Errorf("width px = %d, want %d", r.Width, Px(size/r.WidthRatio, 1000))
			}
			if r.Height != Px(size*r.HeightRatio, 1000) {
				t.Errorf("height px = %d, want %d", r.Height, Px(size*r.HeightRatio, 1000))
			}
			if r.Translate == nil || r.Path == nil {
				t.Fatal("ray missing translate or path")
			}
			if r.Path.Width != r.Width || r.Path.Height != r.Height {
				t.Errorf("path box %dx%d does not match ray %dx%d", r.Path.Width, r.Path.Height, r.Width, r.Height)
			}
		}

		checkAngles(t, "vertical", byRole[RoleVertical], VerticalAngles)
		checkAngles(t, "horizontal", byRole[RoleHorizontal], HorizontalAngles)
		checkAngles(t, "filler", byRole[RoleFiller], FillerAngles)
	}
}

func checkAngles(t *testing.T, role string, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s rays = %v, want %v", role, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s ray %d angle = %v, want %v", role, i, got[i], want[i])
		}
	}
}

func TestRays_ShareCache(t *testing.T) {
	cache := NewDefaultCache()
	g := NewGenerator(DefaultRayConfig(), cache, sampling.NewSeeded(9), 1000)

	for i := 0; i < 200; i++ {
		g.Rays(1.75)
	}

	stats := cache.Stats()
	if stats.PathHits == 0 {
		t.Error("expected repeated pixel sizes to hit the path cache")
	}
	if stats.PathHits+stats.PathMisses != 200*RaysPerStar {
		t.Errorf("path lookups = %d, want %d", stats.PathHits+stats.PathMisses, 200*RaysPerStar)
	}
}

func TestRay_Properties(t *testing.T) {
	c := NewDefaultCache()
	r := Ray{
		Role:      RoleFiller,
		Angle:     45,
		Width:     12,
		Height:    19,
		Translate: &Translation{X: 12.5, Y: -85.35},
		Path:      c.RayPath(12, 19),
	}

	props := r.Properties()
	names := []string{PropAngle, PropWidth, PropHeight, PropTranslateX, PropTranslateY, PropPath}
	if len(props) != len(names) {
		t.Fatalf("got %d properties, want %d", len(props), len(names))
	}
	for i, n := range names {
		if props[i].Name != n {
			t.Errorf("property %d = %s, want %s", i, props[i].Name, n)
		}
	}

	if props[0].Value != "45deg" {
		t.Errorf("angle = %q, want 45deg", props[0].Value)
	}
	if props[1].Value != "12px" {
		t.Errorf("width = %q, want 12px", props[1].Value)
	}
	if props[3].Value != "12.5%" {
		t.Errorf("translate-x = %q, want 12.5%%", props[3].Value)
	}
	if !strings.HasPrefix(props[5].Value, "'M0,19 ") || !strings.HasSuffix(props[5].Value, " Z'") {
		t.Errorf("path = %q, want quoted closed path", props[5].Value)
	}
}

func TestRayConfig_Validate(t *testing.T) {
	if err := DefaultRayConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg := DefaultRayConfig()
	cfg.Filler.Width = Range{1.3, 1.1}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for inverted filler width range")
	}

	cfg = DefaultRayConfig()
	cfg.Vertical.Height.Min = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero height ratio")
	}
}

func TestRay_Center(t *testing.T) {
	cache := NewDefaultCache()
	tests := []struct {
		angle  float64
		wantX  float64
		wantY  float64
		width  int
		height int
	}{
		// Upright: box centered horizontally, sitting above the star center.
		{0, 0, -50, 10, 100},
		// Pointing down: box below the star center.
		{180, 0, 50, 10, 100},
	}
	for _, tt := range tests {
		r := Ray{
			Angle:     tt.angle,
			Width:     tt.width,
			Height:    tt.height,
			Translate: cache.Translate(tt.angle, 2, 3),
		}
		x, y := r.Center()
		if math.Abs(x-tt.wantX) > 1e-6 || math.Abs(y-tt.wantY) > 1e-6 {
			t.Errorf("Center(angle %v) = %v,%v, want %v,%v", tt.angle, x, y, tt.wantX, tt.wantY)
		}
	}

	if x, y := (Ray{Width: 4, Height: 8}).Center(); x != 2 || y != 4 {
		t.Errorf("untranslated center = %v,%v, want 2,4", x, y)
	}
}
