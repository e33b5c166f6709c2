// Package geom provides the 2D rectangle and transform math shared by the
// world chunking engine and the asset builders. Coordinates follow the
// render convention: origin bottom-left, Y increasing upward.
package geom

import (
	stdmath "math"

	"github.com/yohamta/donburi/features/math"
)

// Rect is an axis-aligned rectangle stored as min/max corners.
type Rect struct {
	Min math.Vec2
	Max math.Vec2
}

// NewRect builds a rectangle from two corner coordinates in any order.
func NewRect(x0, y0, x1, y1 float64) Rect {
	return Rect{
		Min: math.Vec2{X: stdmath.Min(x0, x1), Y: stdmath.Min(y0, y1)},
		Max: math.Vec2{X: stdmath.Max(x0, x1), Y: stdmath.Max(y0, y1)},
	}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() math.Vec2 {
	return math.Vec2{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Translate returns the rectangle shifted by v.
func (r Rect) Translate(v math.Vec2) Rect {
	return Rect{
		Min: math.Vec2{X: r.Min.X + v.X, Y: r.Min.Y + v.Y},
		Max: math.Vec2{X: r.Max.X + v.X, Y: r.Max.Y + v.Y},
	}
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: math.Vec2{X: stdmath.Min(r.Min.X, o.Min.X), Y: stdmath.Min(r.Min.Y, o.Min.Y)},
		Max: math.Vec2{X: stdmath.Max(r.Max.X, o.Max.X), Y: stdmath.Max(r.Max.Y, o.Max.Y)},
	}
}

// Intersects reports whether the two rectangles overlap. Rectangles that
// merely touch on an edge are considered intersecting.
func (r Rect) Intersects(o Rect) bool {
	return r.Min.X <= o.Max.X && r.Max.X >= o.Min.X &&
		r.Min.Y <= o.Max.Y && r.Max.Y >= o.Min.Y
}

// Corners returns the four corner points in counter-clockwise order
// starting from Min.
func (r Rect) Corners() [4]math.Vec2 {
	return [4]math.Vec2{
		{X: r.Min.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Max.Y},
		{X: r.Min.X, Y: r.Max.Y},
	}
}

// AabbAround returns the square box centered on p with the given half extent.
func AabbAround(p math.Vec2, halfExtent float64) Rect {
	return Rect{
		Min: math.Vec2{X: p.X - halfExtent, Y: p.Y - halfExtent},
		Max: math.Vec2{X: p.X + halfExtent, Y: p.Y + halfExtent},
	}
}

// FromPoints returns the axis-aligned bounding box of a point cloud.
// The zero Rect is returned for an empty input.
func FromPoints(pts ...math.Vec2) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = stdmath.Min(r.Min.X, p.X)
		r.Min.Y = stdmath.Min(r.Min.Y, p.Y)
		r.Max.X = stdmath.Max(r.Max.X, p.X)
		r.Max.Y = stdmath.Max(r.Max.Y, p.Y)
	}
	return r
}

// Isometry is a rotation followed by a translation, the 2D transform a
// spawned world instance applies to its children.
type Isometry struct {
	Translation math.Vec2
	Rotation    float64 // radians, counter-clockwise
}

// Apply transforms the point p by the isometry.
func (iso Isometry) Apply(p math.Vec2) math.Vec2 {
	sin, cos := stdmath.Sincos(iso.Rotation)
	return math.Vec2{
		X: p.X*cos - p.Y*sin + iso.Translation.X,
		Y: p.X*sin + p.Y*cos + iso.Translation.Y,
	}
}

// TransformRect transforms the rectangle's corners and returns their
// axis-aligned bounding box.
func (iso Isometry) TransformRect(r Rect) Rect {
	c := r.Corners()
	return FromPoints(iso.Apply(c[0]), iso.Apply(c[1]), iso.Apply(c[2]), iso.Apply(c[3]))
}
