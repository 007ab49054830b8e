package geometry

import "fmt"

// Point is a location in container-local coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Axis returns the coordinate along axis 0 (x), 1 (y) or 2 (z).
func (p Point) Axis(i int) float64 {
	switch i {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// Advance returns the point moved by delta along a single axis.
func (p Point) Advance(axis int, delta float64) Point {
	switch axis {
	case 0:
		p.X += delta
	case 1:
		p.Y += delta
	default:
		p.Z += delta
	}
	return p
}

// Near reports whether two points coincide within eps on every axis.
func (p Point) Near(q Point, eps float64) bool {
	for i := 0; i < 3; i++ {
		if d := p.Axis(i) - q.Axis(i); d > eps || d < -eps {
			return false
		}
	}
	return true
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

// Box is an axis-aligned box anchored at its minimum corner.
type Box struct {
	Min  Point
	Size Dimensions
}

// Max returns the corner opposite Min.
func (b Box) Max() Point {
	return Point{X: b.Min.X + b.Size.Length, Y: b.Min.Y + b.Size.Width, Z: b.Min.Z + b.Size.Height}
}

// Overlaps reports whether the open interiors of b and o intersect. Boxes that
// only share a face, edge or corner do not overlap.
func (b Box) Overlaps(o Box, eps float64) bool {
	bMax, oMax := b.Max(), o.Max()
	for i := 0; i < 3; i++ {
		if b.Min.Axis(i) >= oMax.Axis(i)-eps || o.Min.Axis(i) >= bMax.Axis(i)-eps {
			return false
		}
	}
	return true
}

// Within reports whether b lies inside [0, bounds] on every axis.
func (b Box) Within(bounds Dimensions, eps float64) bool {
	max := b.Max()
	for i := 0; i < 3; i++ {
		if b.Min.Axis(i) < -eps || max.Axis(i) > bounds.Axis(i)+eps {
			return false
		}
	}
	return true
}

// Covers reports whether p lies in the half-open region [Min, Max) of b. Any
// positive box anchored at a covered point overlaps b.
func (b Box) Covers(p Point, eps float64) bool {
	max := b.Max()
	for i := 0; i < 3; i++ {
		v := p.Axis(i)
		if v < b.Min.Axis(i)-eps || v >= max.Axis(i)-eps {
			return false
		}
	}
	return true
}
