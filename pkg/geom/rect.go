// Package geom provides the small set of axis-aligned geometry types shared
// by the board layout engine and the renderers.
//
// Coordinates follow SVG conventions: x grows to the right and y grows
// downward. All values are in user units (pixels in rendered output).
package geom

import "math"

// Point is a location in diagram space.
type Point struct {
	X, Y float64
}

// Size is the extent of a diagram or cell.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// R is shorthand for constructing a Rect.
func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, Width: w, Height: h} }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point { return Point{X: r.CenterX(), Y: r.CenterY()} }

// Size returns the width and height of the rectangle.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Offset returns a copy of r translated by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Union returns the smallest rectangle containing both r and o.
// Degenerate (zero width or height) rectangles still contribute their
// position, which the layout relies on for empty split branches.
func (r Rect) Union(o Rect) Rect {
	left := math.Min(r.X, o.X)
	top := math.Min(r.Y, o.Y)
	right := math.Max(r.Right(), o.Right())
	bottom := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Contains reports whether p lies inside r. The left and top edges are
// inclusive, the right and bottom edges exclusive, so adjacent cells never
// both claim a point.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Extent accumulates the union of a sequence of rectangles. The zero value
// is an empty extent; the first rectangle added defines it.
type Extent struct {
	rect Rect
	set  bool
}

// Add returns the extent grown to include r.
func (e Extent) Add(r Rect) Extent {
	if !e.set {
		return Extent{rect: r, set: true}
	}
	return Extent{rect: e.rect.Union(r), set: true}
}

// Empty reports whether no rectangle has been added.
func (e Extent) Empty() bool { return !e.set }

// Rect returns the accumulated rectangle, or the zero Rect when empty.
func (e Extent) Rect() Rect { return e.rect }
