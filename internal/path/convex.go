package path

import "math"

// cross returns the z component of (b-a) x (c-a).
func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// SignedArea returns twice the signed area of the closed polygon.
// Positive means clockwise in a y-down coordinate system.
func SignedArea(poly []Point) float64 {
	var area float64
	n := len(poly)
	for i := 0; i < n; i++ {
		p, q := poly[i], poly[(i+1)%n]
		area += p.X*q.Y - q.X*p.Y
	}
	return area
}

// IsConvex reports whether the closed polygon is convex with non-zero area.
// Collinear vertices are allowed. A polygon that winds around more than once
// (a pentagram, for example) is rejected.
func IsConvex(poly []Point) bool {
	n := len(poly)
	if n < 3 || SignedArea(poly) == 0 {
		return false
	}

	var sign float64
	xFlips := 0
	prevDx := 0.0
	for i := 0; i < n; i++ {
		a, b, c := poly[i], poly[(i+1)%n], poly[(i+2)%n]
		if z := cross(a, b, c); z != 0 {
			if sign == 0 {
				sign = z
			} else if (z > 0) != (sign > 0) {
				return false
			}
		}

		dx := b.X - a.X
		if dx != 0 {
			if prevDx != 0 && (dx > 0) != (prevDx > 0) {
				xFlips++
			}
			prevDx = dx
		}
	}
	// Close the direction cycle: compare the last non-zero dx with the first.
	for i := 0; i < n; i++ {
		if dx := poly[(i+1)%n].X - poly[i].X; dx != 0 {
			if prevDx != 0 && (dx > 0) != (prevDx > 0) {
				xFlips++
			}
			break
		}
	}
	return xFlips <= 2
}

// ConvexContainsRect reports whether the rectangle (l, t, r, b) lies inside
// the convex polygon with every corner at least margin away from each edge.
// With a zero margin, points on the boundary count as inside. The caller must
// ensure the polygon is convex.
func ConvexContainsRect(poly []Point, l, t, r, b, margin float64) bool {
	orient := SignedArea(poly)
	if orient == 0 {
		return false
	}
	corners := [4]Point{{X: l, Y: t}, {X: r, Y: t}, {X: r, Y: b}, {X: l, Y: b}}
	n := len(poly)
	for i := 0; i < n; i++ {
		a, e := poly[i], poly[(i+1)%n]
		// cross/length is the signed distance of a corner from the edge.
		minCross := margin * math.Hypot(e.X-a.X, e.Y-a.Y)
		for _, c := range corners {
			z := cross(a, e, c)
			if orient < 0 {
				z = -z
			}
			if z < minCross {
				return false
			}
		}
	}
	return true
}
