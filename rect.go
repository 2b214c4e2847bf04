package clipstack

import (
	"fmt"
	"image"
	"math"
)

// Point represents a 2D point in device space.
type Point struct {
	X, Y float64
}

// Pt creates a Point from x, y coordinates.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Rect is an axis-aligned rectangle in device space.
// A rectangle is empty when Left >= Right or Top >= Bottom.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// NewRect creates a Rect from position and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// LTRB creates a Rect from its four edges.
func LTRB(l, t, r, b float64) Rect {
	return Rect{Left: l, Top: t, Right: r, Bottom: b}
}

// RectFromImage converts an integer rectangle to a Rect.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{
		Left:   float64(r.Min.X),
		Top:    float64(r.Min.Y),
		Right:  float64(r.Max.X),
		Bottom: float64(r.Max.Y),
	}
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// IsEmpty returns true if the rectangle has no area.
// NaN edges also make the rectangle empty.
func (r Rect) IsEmpty() bool {
	return !(r.Left < r.Right && r.Top < r.Bottom)
}

// Contains returns true if other lies entirely inside r.
// An empty rectangle neither contains nor is contained.
func (r Rect) Contains(other Rect) bool {
	return !r.IsEmpty() && !other.IsEmpty() &&
		r.Left <= other.Left && r.Top <= other.Top &&
		r.Right >= other.Right && r.Bottom >= other.Bottom
}

// Intersects returns true if the two rectangles overlap with positive area.
func (r Rect) Intersects(other Rect) bool {
	return math.Max(r.Left, other.Left) < math.Min(r.Right, other.Right) &&
		math.Max(r.Top, other.Top) < math.Min(r.Bottom, other.Bottom)
}

// Intersect returns the overlap of r and other.
// If they do not overlap, r is returned unchanged together with false.
func (r Rect) Intersect(other Rect) (Rect, bool) {
	res := Rect{
		Left:   math.Max(r.Left, other.Left),
		Top:    math.Max(r.Top, other.Top),
		Right:  math.Min(r.Right, other.Right),
		Bottom: math.Min(r.Bottom, other.Bottom),
	}
	if res.IsEmpty() {
		return r, false
	}
	return res, true
}

// Join returns the smallest rectangle enclosing both r and other.
// Empty operands are ignored.
func (r Rect) Join(other Rect) Rect {
	if other.IsEmpty() {
		return r
	}
	if r.IsEmpty() {
		return other
	}
	return Rect{
		Left:   math.Min(r.Left, other.Left),
		Top:    math.Min(r.Top, other.Top),
		Right:  math.Max(r.Right, other.Right),
		Bottom: math.Max(r.Bottom, other.Bottom),
	}
}

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Equal reports whether both rectangles have identical edges.
// All empty rectangles compare equal.
func (r Rect) Equal(other Rect) bool {
	if r.IsEmpty() && other.IsEmpty() {
		return true
	}
	return r == other
}

// RoundOut returns the smallest integer rectangle containing r.
func (r Rect) RoundOut() image.Rectangle {
	if r.IsEmpty() {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math.Floor(r.Left)),
		int(math.Floor(r.Top)),
		int(math.Ceil(r.Right)),
		int(math.Ceil(r.Bottom)),
	)
}

// String returns the rectangle as "(l, t, r, b)".
func (r Rect) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", r.Left, r.Top, r.Right, r.Bottom)
}

// snapToPixels mimics a non-anti-aliased scanline rasterizer: fractional
// coverage that would never be rendered is dropped. The left edge is rounded
// slightly more generously so pixels whose left edge sits near .5 are kept.
func (r Rect) snapToPixels() Rect {
	return Rect{
		Left:   math.Floor(r.Left + 0.45),
		Top:    math.Floor(r.Top + 0.5),
		Right:  math.Floor(r.Right + 0.5),
		Bottom: math.Floor(r.Bottom + 0.5),
	}
}
