package quadtree // Declares that this file belongs to the "quadtree" package

import (
	"fmt"
	"math"
)

// Point represents a single point in 2D space. Points are value-typed:
// copies are cheap and independent, and equality is component-wise.
type Point struct {
	X float64
	Y float64
}

// DistanceTo returns the Euclidean distance between p and other.
func (p Point) DistanceTo(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Frame is an axis-aligned rectangle defined by its top-left and
// bottom-right corners. TopLeft.Y is the larger Y value (north edge);
// BottomRight.Y is the smaller one (south edge).
type Frame struct {
	TopLeft     Point
	BottomRight Point
}

// NewFrame builds a Frame from its top-left and bottom-right corners.
func NewFrame(topLeft, bottomRight Point) Frame {
	return Frame{TopLeft: topLeft, BottomRight: bottomRight}
}

// UnitSquareDomain is the default domain: [0,1] x [0,1].
func UnitSquareDomain() Frame {
	return NewFrame(Point{X: 0, Y: 1}, Point{X: 1, Y: 0})
}

func (f Frame) String() string {
	return fmt.Sprintf("TL: %s, BR: %s", f.TopLeft, f.BottomRight)
}

// Width returns the frame's extent along X.
func (f Frame) Width() float64 {
	return f.BottomRight.X - f.TopLeft.X
}

// Height returns the frame's extent along Y.
func (f Frame) Height() float64 {
	return f.TopLeft.Y - f.BottomRight.Y
}

// Contains reports whether p lies within f, using half-open intervals:
// the west/south edges are inclusive, the east/north edges are exclusive.
// This guarantees a point lies in exactly one leaf frame of any
// subdivision.
func (f Frame) Contains(p Point) bool {
	return f.TopLeft.X <= p.X && p.X < f.BottomRight.X &&
		f.BottomRight.Y <= p.Y && p.Y < f.TopLeft.Y
}

// Intersects reports whether f and other overlap, honoring the same
// half-open edge convention as Contains.
func (f Frame) Intersects(other Frame) bool {
	if f.TopLeft.X >= other.BottomRight.X {
		return false
	}
	if f.BottomRight.X <= other.TopLeft.X {
		return false
	}
	if f.BottomRight.Y >= other.TopLeft.Y {
		return false
	}
	if f.TopLeft.Y <= other.BottomRight.Y {
		return false
	}
	return true
}

// FindLocationInFrame returns the quadrant of f's midpoint partition that
// contains p. p is assumed to lie within f.
func (f Frame) FindLocationInFrame(p Point) Quadrant {
	midX := (f.TopLeft.X + f.BottomRight.X) / 2
	midY := (f.BottomRight.Y + f.TopLeft.Y) / 2

	isSouth := f.BottomRight.Y <= p.Y && p.Y < midY
	isWest := f.TopLeft.X <= p.X && p.X < midX

	if isSouth {
		if isWest {
			return SW
		}
		return SE
	}
	if isWest {
		return NW
	}
	return NE
}

// FindFrameRelativeDirection classifies an external point p relative to f,
// returning the subset of {N,S,W,E} cardinal half-planes f sits in
// relative to p. It returns the empty slice when p lies inside f.
func (f Frame) FindFrameRelativeDirection(p Point) []Side {
	var dirs []Side
	if f.BottomRight.Y > p.Y { // f's south edge is still above p: f is north of p
		dirs = append(dirs, N)
	}
	if f.TopLeft.Y < p.Y { // f's north edge is below p: f is south of p
		dirs = append(dirs, S)
	}
	if f.TopLeft.X > p.X { // f's west edge is right of p: f is east of p
		dirs = append(dirs, E)
	}
	if f.BottomRight.X < p.X { // f's east edge is left of p: f is west of p
		dirs = append(dirs, W)
	}
	return dirs
}

// GenerateSubframe returns the child frame for quadrant q: one of the four
// equal sub-rectangles of f.
func (f Frame) GenerateSubframe(q Quadrant) Frame {
	topLeft := f.TopLeft
	bottomRight := f.BottomRight

	xStep := (f.BottomRight.X - f.TopLeft.X) / 2
	yStep := (f.TopLeft.Y - f.BottomRight.Y) / 2

	switch q {
	case NW:
		bottomRight.X -= xStep
		bottomRight.Y += yStep
	case NE:
		topLeft.X += xStep
		bottomRight.Y += yStep
	case SE:
		topLeft.X += xStep
		topLeft.Y -= yStep
	case SW:
		topLeft.Y -= yStep
		bottomRight.X -= xStep
	}

	return Frame{TopLeft: topLeft, BottomRight: bottomRight}
}

// Corner returns the corner point of f associated with quadrant q (e.g. the
// NW corner is f's top-left point).
func (f Frame) Corner(q Quadrant) Point {
	switch q {
	case NW:
		return f.TopLeft
	case NE:
		return Point{X: f.BottomRight.X, Y: f.TopLeft.Y}
	case SE:
		return f.BottomRight
	case SW:
		return Point{X: f.TopLeft.X, Y: f.BottomRight.Y}
	}
	panic(ErrInvalidDirection)
}
