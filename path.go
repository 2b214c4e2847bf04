package clipstack

import (
	"math"

	ipath "github.com/gogpu/clipstack/internal/path"
)

// PathElement represents a single element in a path.
type PathElement interface {
	isPathElement()
}

// MoveTo moves to a point without drawing.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathElement() {}

// LineTo draws a line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isPathElement() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isPathElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isPathElement() {}

// Close closes the current subpath.
type Close struct{}

func (Close) isPathElement() {}

// FillRule selects how overlapping contours decide what is inside.
type FillRule uint8

const (
	// FillNonZero fills points with a non-zero winding number.
	FillNonZero FillRule = iota

	// FillEvenOdd fills points crossed an odd number of times.
	FillEvenOdd
)

// String returns the fill rule name.
func (f FillRule) String() string {
	switch f {
	case FillNonZero:
		return "NonZero"
	case FillEvenOdd:
		return "EvenOdd"
	default:
		return "Unknown"
	}
}

// Path is a vector path used as a clip shape.
//
// Besides the geometry a path carries a fill rule and an inverse flag. An
// inverse-filled path covers everything outside its contours, so as a clip it
// only removes a finite region and leaves the rest of the plane open.
type Path struct {
	elements []PathElement
	start    Point
	current  Point
	fill     FillRule
	inverse  bool

	bounds      Rect
	boundsValid bool
}

// NewPath creates a new empty path with the non-zero fill rule.
func NewPath() *Path {
	return &Path{
		elements: make([]PathElement, 0, 16),
	}
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, MoveTo{Point: pt})
	p.start = pt
	p.current = pt
	p.boundsValid = false
}

// LineTo draws a line to (x, y).
func (p *Path) LineTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, LineTo{Point: pt})
	p.current = pt
	p.boundsValid = false
}

// QuadraticTo draws a quadratic Bezier curve.
func (p *Path) QuadraticTo(cx, cy, x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, QuadTo{Control: Pt(cx, cy), Point: pt})
	p.current = pt
	p.boundsValid = false
}

// CubicTo draws a cubic Bezier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, CubicTo{
		Control1: Pt(c1x, c1y),
		Control2: Pt(c2x, c2y),
		Point:    pt,
	})
	p.current = pt
	p.boundsValid = false
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.elements = append(p.elements, Close{})
	p.current = p.start
}

// Rectangle adds a closed axis-aligned rectangle subpath.
func (p *Path) Rectangle(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// Circle adds a closed circle subpath made of four cubic arcs.
func (p *Path) Circle(cx, cy, r float64) {
	p.Ellipse(cx, cy, r, r)
}

// kappa is the cubic Bezier control point distance for a quarter circle.
const kappa = 0.5522847498307936

// Ellipse adds a closed axis-aligned ellipse subpath.
func (p *Path) Ellipse(cx, cy, rx, ry float64) {
	kx, ky := rx*kappa, ry*kappa
	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	p.CubicTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	p.CubicTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	p.CubicTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	p.Close()
}

// Reset removes all elements and restores the default fill state.
func (p *Path) Reset() {
	p.elements = p.elements[:0]
	p.start = Point{}
	p.current = Point{}
	p.fill = FillNonZero
	p.inverse = false
	p.bounds = Rect{}
	p.boundsValid = false
}

// Elements returns the path elements. The slice must not be modified.
func (p *Path) Elements() []PathElement {
	return p.elements
}

// IsEmpty returns true if the path has no elements.
func (p *Path) IsEmpty() bool {
	return len(p.elements) == 0
}

// FillRule returns the fill rule of the path.
func (p *Path) FillRule() FillRule {
	return p.fill
}

// SetFillRule sets the fill rule of the path.
func (p *Path) SetFillRule(f FillRule) {
	p.fill = f
}

// IsInverseFillType returns true if the path covers the area outside its contours.
func (p *Path) IsInverseFillType() bool {
	return p.inverse
}

// SetInverseFillType sets the inverse flag.
func (p *Path) SetInverseFillType(inverse bool) {
	p.inverse = inverse
}

// ToggleInverseFillType flips the inverse flag.
func (p *Path) ToggleInverseFillType() {
	p.inverse = !p.inverse
}

// Bounds returns the bounding box of all points and control points.
// The inverse flag is not considered. An empty path has empty bounds.
func (p *Path) Bounds() Rect {
	if p.boundsValid {
		return p.bounds
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	add := func(pt Point) {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			add(e.Point)
		case LineTo:
			add(e.Point)
		case QuadTo:
			add(e.Control)
			add(e.Point)
		case CubicTo:
			add(e.Control1)
			add(e.Control2)
			add(e.Point)
		}
	}

	if minX > maxX {
		p.bounds = Rect{}
	} else {
		p.bounds = LTRB(minX, minY, maxX, maxY)
	}
	p.boundsValid = true
	return p.bounds
}

// ConservativelyContainsRect returns true if r is certainly inside the path.
// A false result does not mean r is outside. Only single convex contours are
// analysed. Curves are flattened to chords that may sit up to the flattening
// tolerance outside the real curve, so when the path has curves r must clear
// every chord by that tolerance. The inverse flag is not considered.
func (p *Path) ConservativelyContainsRect(r Rect) bool {
	if r.IsEmpty() || !p.Bounds().Contains(r) {
		return false
	}
	contours := ipath.Contours(p.internalElements())
	if len(contours) != 1 {
		return false
	}
	poly := contours[0]
	if !ipath.IsConvex(poly) {
		return false
	}
	margin := 0.0
	if p.hasCurves() {
		margin = ipath.Tolerance
	}
	return ipath.ConvexContainsRect(poly, r.Left, r.Top, r.Right, r.Bottom, margin)
}

func (p *Path) hasCurves() bool {
	for _, elem := range p.elements {
		switch elem.(type) {
		case QuadTo, CubicTo:
			return true
		}
	}
	return false
}

// IsRect reports whether the path is a single closed axis-aligned rectangle
// and returns it.
func (p *Path) IsRect() (Rect, bool) {
	elems := p.elements
	if len(elems) == 6 {
		// A trailing LineTo back to the start is a common spelling of Close.
		if l, ok := elems[4].(LineTo); ok {
			m, ok := elems[0].(MoveTo)
			if !ok || l.Point != m.Point {
				return Rect{}, false
			}
			elems = append(elems[:4:4], elems[5])
		}
	}
	if len(elems) != 5 {
		return Rect{}, false
	}
	move, ok := elems[0].(MoveTo)
	if !ok {
		return Rect{}, false
	}
	if _, ok := elems[4].(Close); !ok {
		return Rect{}, false
	}

	corners := [4]Point{move.Point}
	for i := 1; i <= 3; i++ {
		l, ok := elems[i].(LineTo)
		if !ok {
			return Rect{}, false
		}
		corners[i] = l.Point
	}

	// Every edge, including the closing one, must be horizontal or vertical
	// and the edges must alternate.
	for i := 0; i < 4; i++ {
		a, b, c := corners[i], corners[(i+1)%4], corners[(i+2)%4]
		horizontal := a.Y == b.Y && a.X != b.X
		vertical := a.X == b.X && a.Y != b.Y
		if !horizontal && !vertical {
			return Rect{}, false
		}
		nextHorizontal := b.Y == c.Y
		if horizontal == nextHorizontal {
			return Rect{}, false
		}
	}

	r := LTRB(
		math.Min(corners[0].X, corners[2].X),
		math.Min(corners[0].Y, corners[2].Y),
		math.Max(corners[0].X, corners[2].X),
		math.Max(corners[0].Y, corners[2].Y),
	)
	return r, !r.IsEmpty()
}

// Translate returns a copy of the path offset by (dx, dy).
func (p *Path) Translate(dx, dy float64) *Path {
	off := func(pt Point) Point { return Pt(pt.X+dx, pt.Y+dy) }
	result := p.Clone()
	for i, elem := range result.elements {
		switch e := elem.(type) {
		case MoveTo:
			result.elements[i] = MoveTo{Point: off(e.Point)}
		case LineTo:
			result.elements[i] = LineTo{Point: off(e.Point)}
		case QuadTo:
			result.elements[i] = QuadTo{Control: off(e.Control), Point: off(e.Point)}
		case CubicTo:
			result.elements[i] = CubicTo{Control1: off(e.Control1), Control2: off(e.Control2), Point: off(e.Point)}
		}
	}
	result.start = off(p.start)
	result.current = off(p.current)
	result.boundsValid = false
	return result
}

// Equal reports whether both paths have the same elements, fill rule and
// inverse flag.
func (p *Path) Equal(other *Path) bool {
	if p == other {
		return true
	}
	if p == nil || other == nil {
		return false
	}
	if p.fill != other.fill || p.inverse != other.inverse || len(p.elements) != len(other.elements) {
		return false
	}
	for i := range p.elements {
		if p.elements[i] != other.elements[i] {
			return false
		}
	}
	return true
}

// Clone creates a deep copy of the path.
func (p *Path) Clone() *Path {
	result := &Path{
		elements:    make([]PathElement, len(p.elements)),
		start:       p.start,
		current:     p.current,
		fill:        p.fill,
		inverse:     p.inverse,
		bounds:      p.bounds,
		boundsValid: p.boundsValid,
	}
	copy(result.elements, p.elements)
	return result
}

// internalElements converts the path to the internal/path element model.
func (p *Path) internalElements() []ipath.PathElement {
	pt := func(q Point) ipath.Point { return ipath.Point{X: q.X, Y: q.Y} }
	result := make([]ipath.PathElement, len(p.elements))
	for i, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			result[i] = ipath.MoveTo{Point: pt(e.Point)}
		case LineTo:
			result[i] = ipath.LineTo{Point: pt(e.Point)}
		case QuadTo:
			result[i] = ipath.QuadTo{Control: pt(e.Control), Point: pt(e.Point)}
		case CubicTo:
			result[i] = ipath.CubicTo{Control1: pt(e.Control1), Control2: pt(e.Control2), Point: pt(e.Point)}
		case Close:
			result[i] = ipath.Close{}
		}
	}
	return result
}

// Contours returns the path flattened into closed polylines, one per subpath.
func (p *Path) Contours() [][]Point {
	flat := ipath.Contours(p.internalElements())
	result := make([][]Point, len(flat))
	for i, c := range flat {
		poly := make([]Point, len(c))
		for j, q := range c {
			poly[j] = Pt(q.X, q.Y)
		}
		result[i] = poly
	}
	return result
}
