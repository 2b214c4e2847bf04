// Package path provides internal path processing utilities: curve flattening,
// contour extraction and convexity tests used by clip shapes.
package path

import "math"

// Point represents a 2D point (internal copy to avoid import cycle).
type Point struct {
	X, Y float64
}

// Tolerance is the maximum distance from the curve for flattening.
const Tolerance = 0.1

// maxDepth bounds curve subdivision for degenerate or huge curves.
const maxDepth = 16

// PathElement represents an element in a path.
type PathElement interface {
	isPathElement()
}

// MoveTo moves to a point.
type MoveTo struct{ Point Point }

func (MoveTo) isPathElement() {}

// LineTo draws a line.
type LineTo struct{ Point Point }

func (LineTo) isPathElement() {}

// QuadTo draws a quadratic curve.
type QuadTo struct{ Control, Point Point }

func (QuadTo) isPathElement() {}

// CubicTo draws a cubic curve.
type CubicTo struct{ Control1, Control2, Point Point }

func (CubicTo) isPathElement() {}

// Close closes the path.
type Close struct{}

func (Close) isPathElement() {}

// Contours flattens the elements into one polyline per subpath. Each polyline
// is implicitly closed: the edge from the last point back to the first is part
// of the contour even if the subpath was never closed explicitly. Subpaths with
// fewer than two distinct points are dropped.
func Contours(elements []PathElement) [][]Point {
	var (
		contours [][]Point
		cur      []Point
		current  Point
	)
	flush := func() {
		if len(cur) > 1 && cur[len(cur)-1] == cur[0] {
			cur = cur[:len(cur)-1]
		}
		if len(cur) >= 2 {
			contours = append(contours, cur)
		}
		cur = nil
	}

	for _, elem := range elements {
		switch e := elem.(type) {
		case MoveTo:
			flush()
			current = e.Point
			cur = append(cur, current)

		case LineTo:
			if cur == nil {
				cur = append(cur, current)
			}
			current = e.Point
			cur = appendDistinct(cur, current)

		case QuadTo:
			if cur == nil {
				cur = append(cur, current)
			}
			flattenQuadRec(current, e.Control, e.Point, Tolerance, 0, func(p Point) {
				cur = appendDistinct(cur, p)
			})
			current = e.Point

		case CubicTo:
			if cur == nil {
				cur = append(cur, current)
			}
			flattenCubicRec(current, e.Control1, e.Control2, e.Point, Tolerance, 0, func(p Point) {
				cur = appendDistinct(cur, p)
			})
			current = e.Point

		case Close:
			if len(cur) > 0 {
				current = cur[0]
			}
			flush()
		}
	}
	flush()

	return contours
}

func appendDistinct(points []Point, p Point) []Point {
	if n := len(points); n > 0 && points[n-1] == p {
		return points
	}
	return append(points, p)
}

func lerp(p, q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// flattenQuadRec recursively subdivides a quadratic Bezier curve, emitting the
// end point of every flat-enough piece.
func flattenQuadRec(p0, p1, p2 Point, tolerance float64, depth int, emit func(Point)) {
	if depth >= maxDepth || distanceToLine(p1, p0, p2) < tolerance {
		emit(p2)
		return
	}

	q0 := lerp(p0, p1, 0.5)
	q1 := lerp(p1, p2, 0.5)
	q2 := lerp(q0, q1, 0.5)

	flattenQuadRec(p0, q0, q2, tolerance, depth+1, emit)
	flattenQuadRec(q2, q1, p2, tolerance, depth+1, emit)
}

// flattenCubicRec recursively subdivides a cubic Bezier curve using de
// Casteljau's algorithm.
func flattenCubicRec(p0, p1, p2, p3 Point, tolerance float64, depth int, emit func(Point)) {
	dist := math.Max(distanceToLine(p1, p0, p3), distanceToLine(p2, p0, p3))
	if depth >= maxDepth || dist < tolerance {
		emit(p3)
		return
	}

	q0 := lerp(p0, p1, 0.5)
	q1 := lerp(p1, p2, 0.5)
	q2 := lerp(p2, p3, 0.5)
	r0 := lerp(q0, q1, 0.5)
	r1 := lerp(q1, q2, 0.5)
	s := lerp(r0, r1, 0.5)

	flattenCubicRec(p0, q0, r0, s, tolerance, depth+1, emit)
	flattenCubicRec(s, r1, q2, p3, tolerance, depth+1, emit)
}

// distanceToLine calculates the distance from point p to line segment (a, b).
func distanceToLine(p, a, b Point) float64 {
	abx, aby := b.X-a.X, b.Y-a.Y
	lenSq := abx*abx + aby*aby
	if lenSq < 1e-20 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}

	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / lenSq
	t = math.Max(0, math.Min(1, t))
	cx, cy := a.X+abx*t, a.Y+aby*t
	return math.Hypot(p.X-cx, p.Y-cy)
}
