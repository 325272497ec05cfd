// Package geom provides the small amount of 2D vector and rectangle math
// shared by the camera, scene, and rendering packages.
//
// All values are in float64 world units unless a function says otherwise.
// The package has no dependencies and every function is pure.
package geom

import "math"

// Vec is a 2D point or displacement.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v multiplied by s.
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the Euclidean distance between v and o.
func (v Vec) Dist(o Vec) float64 { return v.Sub(o).Len() }

// Rect is an axis-aligned rectangle defined by its min and max corners.
// A Rect with Max < Min on either axis is empty.
type Rect struct {
	Min Vec
	Max Vec
}

// Width returns the horizontal extent of r, or 0 if r is empty.
func (r Rect) Width() float64 { return math.Max(0, r.Max.X-r.Min.X) }

// Height returns the vertical extent of r, or 0 if r is empty.
func (r Rect) Height() float64 { return math.Max(0, r.Max.Y-r.Min.Y) }

// Center returns the midpoint of r.
func (r Rect) Center() Vec {
	return Vec{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

// Contains reports whether p lies inside r (inclusive of edges).
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Expand returns r grown by margin on every side.
// A negative margin shrinks the rectangle.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		Min: Vec{r.Min.X - margin, r.Min.Y - margin},
		Max: Vec{r.Max.X + margin, r.Max.Y + margin},
	}
}

// Union returns the smallest rectangle containing both r and o.
// If either rectangle is empty the other is returned.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Rect{
		Min: Vec{math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)},
		Max: Vec{math.Max(r.Max.X, o.Max.X), math.Max(r.Max.Y, o.Max.Y)},
	}
}

// Empty reports whether r has zero or negative area.
func (r Rect) Empty() bool {
	return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y
}

// CircleBounds returns the bounding rectangle of a circle at center with the
// given radius.
func CircleBounds(center Vec, radius float64) Rect {
	return Rect{
		Min: Vec{center.X - radius, center.Y - radius},
		Max: Vec{center.X + radius, center.Y + radius},
	}
}

// Clamp limits v to the range [lo, hi]. If lo > hi the result is lo.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
