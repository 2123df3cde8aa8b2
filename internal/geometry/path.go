package geometry

import (
	"fmt"
	"math"
)

// Point is an integer pixel coordinate inside a ray box.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cubic is one cubic Bezier segment.
type Cubic struct {
	C1 Point `json:"c1"`
	C2 Point `json:"c2"`
	To Point `json:"to"`
}

// Path is a closed lens-shaped outline: it starts at the bottom-left corner
// of the ray box, curves up to the tip at the top center, and curves back down
// to the bottom-right corner.
type Path struct {
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Start    Point    `json:"start"`
	Segments [2]Cubic `json:"segments"`

	d string
}

func roundPx(v float64) int {
	return int(math.Floor(v + 0.5))
}

func newPath(w, h int, xRatio, yRatio float64) *Path {
	fw, fh := float64(w), float64(h)
	mid := roundPx(fw * 0.5)
	ctrlY := roundPx(fh * yRatio)

	p := &Path{
		Width:  w,
		Height: h,
		Start:  Point{0, h},
		Segments: [2]Cubic{
			{
				C1: Point{roundPx(fw * xRatio), h},
				C2: Point{mid, ctrlY},
				To: Point{mid, 0},
			},
			{
				C1: Point{mid, ctrlY},
				C2: Point{roundPx(fw * (1 - xRatio)), h},
				To: Point{w, h},
			},
		},
	}
	p.d = p.format()
	return p
}

func (p *Path) format() string {
	a, b := p.Segments[0], p.Segments[1]
	return fmt.Sprintf("M%d,%d C%d,%d %d,%d %d,%d C%d,%d %d,%d %d,%d Z",
		p.Start.X, p.Start.Y,
		a.C1.X, a.C1.Y, a.C2.X, a.C2.Y, a.To.X, a.To.Y,
		b.C1.X, b.C1.Y, b.C2.X, b.C2.Y, b.To.X, b.To.Y,
	)
}

// String returns the SVG path data.
func (p *Path) String() string {
	return p.d
}
