package tile

import "fmt"

// Box is an axis-aligned rectangle [XMin, XMax) x [YMin, YMax).
type Box struct {
	XMin, YMin, XMax, YMax int
}

// BoxAt builds the box of size dy x dx whose top-left corner is o.
func BoxAt(o Origin, dy, dx int) Box {
	return Box{XMin: o.X, YMin: o.Y, XMax: o.X + dx, YMax: o.Y + dy}
}

// IntersectionArea returns the overlap area of two boxes, clamped at zero on
// each axis before multiplying.
func (b Box) IntersectionArea(o Box) int {
	xOverlap := min(b.XMax, o.XMax) - max(b.XMin, o.XMin)
	yOverlap := min(b.YMax, o.YMax) - max(b.YMin, o.YMin)
	return max(0, xOverlap) * max(0, yOverlap)
}

// Intersects reports whether the boxes share a strictly positive area.
// Boxes that only touch along an edge do not intersect.
func (b Box) Intersects(o Box) bool {
	return b.IntersectionArea(o) > 0
}

// ContainsPoint reports whether (x, y) lies inside the closed box, edges
// included.
func (b Box) ContainsPoint(x, y int) bool {
	return b.XMin <= x && x <= b.XMax && b.YMin <= y && y <= b.YMax
}

// OverlapTest selects how a candidate crop is compared with a reserved zone.
type OverlapTest int

const (
	// RectIntersection excludes a candidate that shares any area with a
	// reserved box.
	RectIntersection OverlapTest = iota
	// PointInBox excludes a candidate only when a reserved zone's origin falls
	// inside the closed candidate box. It misses zones that start above or to
	// the left of the candidate.
	PointInBox
)

func (t OverlapTest) String() string {
	switch t {
	case RectIntersection:
		return "rect_intersection"
	case PointInBox:
		return "point_in_box"
	default:
		return fmt.Sprintf("OverlapTest(%d)", int(t))
	}
}

// ParseOverlapTest maps the configuration spelling to an OverlapTest.
func ParseOverlapTest(s string) (OverlapTest, error) {
	switch s {
	case "", "rect_intersection":
		return RectIntersection, nil
	case "point_in_box":
		return PointInBox, nil
	default:
		return 0, fmt.Errorf("unknown overlap test %q", s)
	}
}

// Collides applies the test to a candidate and one reserved box.
func (t OverlapTest) Collides(candidate, reserved Box) bool {
	if t == PointInBox {
		return candidate.ContainsPoint(reserved.XMin, reserved.YMin)
	}
	return candidate.Intersects(reserved)
}
