package grain

import (
	"errors"
	"fmt"
	"image"
	"math"
	"math/rand/v2"
)

// ErrDegenerateImage is returned when no acceptable measurement line exists
// or none was found within the retry budget.
var ErrDegenerateImage = errors.New("degenerate image: no valid measurement line")

// LineMode selects how measurement lines are placed.
type LineMode int

const (
	// Systematic places evenly spaced horizontal lines.
	Systematic LineMode = iota
	// Random draws lines with random slope and through-point.
	Random
)

func (m LineMode) String() string {
	switch m {
	case Systematic:
		return "systematic"
	case Random:
		return "random"
	default:
		return fmt.Sprintf("LineMode(%d)", int(m))
	}
}

// ParseLineMode maps the configuration spelling to a LineMode.
func ParseLineMode(s string) (LineMode, error) {
	switch s {
	case "", "systematic":
		return Systematic, nil
	case "random":
		return Random, nil
	default:
		return 0, fmt.Errorf("unknown line mode %q", s)
	}
}

// Line is a measurement line. Start and End are in pixel coordinates and may
// sit on the far image edge (x == width or y == height).
type Line struct {
	Start, End image.Point
	Length     float64
}

// SystematicLines places n horizontal lines across a w x h image, keeping
// margin pixels clear at top and bottom. With interval = (h-2*margin)/(n+1)
// line l sits at y = margin + interval*(l+1) and runs from (0, y) to (w, y).
func SystematicLines(w, h, margin, n int) ([]Line, error) {
	if n <= 0 {
		return nil, fmt.Errorf("line count must be positive, got %d", n)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("image %dx%d: %w", w, h, ErrDegenerateImage)
	}
	interval := (h - 2*margin) / (n + 1)
	if interval <= 0 {
		return nil, fmt.Errorf("height %d too small for %d lines with margin %d: %w", h, n, margin, ErrDegenerateImage)
	}

	lines := make([]Line, n)
	for l := range lines {
		y := margin + interval*(l+1)
		lines[l] = Line{Start: image.Pt(0, y), End: image.Pt(w, y), Length: float64(w)}
	}
	return lines, nil
}

// RandomLine samples a line with slope tan(U(-pi/2, pi/2)) through a uniform
// point of the w x h image, clipped to the image rectangle. Lines are
// redrawn until the squared length exceeds both w² and h²; after
// maxAttempts rejections ErrDegenerateImage is returned.
func RandomLine(rng *rand.Rand, w, h, maxAttempts int) (Line, error) {
	if w <= 0 || h <= 0 {
		return Line{}, fmt.Errorf("image %dx%d: %w", w, h, ErrDegenerateImage)
	}
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	W, H := float64(w), float64(h)
	for range maxAttempts {
		grad := math.Tan(math.Pi * (rng.Float64() - 0.5))
		px, py := rng.Float64()*W, rng.Float64()*H

		x0, y0, x1, y1, ok := clipLine(grad, py-grad*px, W, H)
		if !ok {
			continue
		}
		dx, dy := x1-x0, y1-y0
		sq := dx*dx + dy*dy
		if sq > W*W && sq > H*H {
			return Line{
				Start:  image.Pt(int(math.Round(x0)), int(math.Round(y0))),
				End:    image.Pt(int(math.Round(x1)), int(math.Round(y1))),
				Length: math.Sqrt(sq),
			}, nil
		}
	}
	return Line{}, fmt.Errorf("%d attempts on %dx%d image: %w", maxAttempts, w, h, ErrDegenerateImage)
}

// clipLine intersects y = grad*x + b with the four edges of [0,w]x[0,h] and
// returns the two intersection points furthest apart.
func clipLine(grad, b, w, h float64) (x0, y0, x1, y1 float64, ok bool) {
	type pt struct{ x, y float64 }
	var pts []pt
	add := func(x, y float64) {
		if x < 0 || x > w || y < 0 || y > h || math.IsNaN(x) || math.IsNaN(y) {
			return
		}
		pts = append(pts, pt{x, y})
	}

	add(0, b)
	add(w, grad*w+b)
	if grad != 0 {
		add(-b/grad, 0)
		add((h-b)/grad, h)
	}
	if len(pts) < 2 {
		return 0, 0, 0, 0, false
	}

	best := -1.0
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			dx, dy := pts[j].x-pts[i].x, pts[j].y-pts[i].y
			if d := dx*dx + dy*dy; d > best {
				best = d
				x0, y0, x1, y1 = pts[i].x, pts[i].y, pts[j].x, pts[j].y
			}
		}
	}
	return x0, y0, x1, y1, true
}

// Rasterize returns the pixels of l inside bounds using Bresenham's
// algorithm, from Start to End. Endpoints on the far edge are clipped.
func Rasterize(l Line, bounds image.Rectangle) []image.Point {
	x0, y0 := l.Start.X, l.Start.Y
	x1, y1 := l.End.X, l.End.Y

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	var pts []image.Point
	e := dx + dy
	for {
		if p := image.Pt(x0, y0); p.In(bounds) {
			pts = append(pts, p)
		}
		if x0 == x1 && y0 == y1 {
			return pts
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
