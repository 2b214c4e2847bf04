package mask

import (
	"math"
	"slices"

	"github.com/gogpu/clipstack"
)

// edge is a non-horizontal polygon edge with y0 < y1.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dir    int // +1 if the original edge pointed down, -1 if up
}

// crossing is where an edge meets a scanline.
type crossing struct {
	x   float64
	dir int
}

// buildEdges converts closed contours into edges, translating by (dx, dy)
// and then scaling by scale.
func buildEdges(contours [][]clipstack.Point, dx, dy, scale float64) []edge {
	var edges []edge
	for _, poly := range contours {
		n := len(poly)
		for i := 0; i < n; i++ {
			p, q := poly[i], poly[(i+1)%n]
			x0, y0 := (p.X+dx)*scale, (p.Y+dy)*scale
			x1, y1 := (q.X+dx)*scale, (q.Y+dy)*scale
			if y0 == y1 {
				continue
			}
			if y0 < y1 {
				edges = append(edges, edge{x0: x0, y0: y0, x1: x1, y1: y1, dir: 1})
			} else {
				edges = append(edges, edge{x0: x1, y0: y1, x1: x0, y1: y0, dir: -1})
			}
		}
	}
	return edges
}

// fillScanlines samples every row of a w x h grid at its pixel centers and
// reports the covered runs as span(y, x0, x1) with x1 exclusive.
//
// A row samples at y+0.5; an edge is active when y0 < y+0.5 <= y1. An
// inside interval [xa, xb) covers pixels floor(xa+0.5) through
// floor(xb+0.5)-1, so a pixel is covered when its center is inside.
func fillScanlines(edges []edge, w, h int, rule clipstack.FillRule, span func(y, x0, x1 int)) {
	if len(edges) == 0 {
		return
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, e := range edges {
		minY = math.Min(minY, e.y0)
		maxY = math.Max(maxY, e.y1)
	}
	yStart := max(0, int(math.Floor(minY-0.5)))
	yEnd := min(h, int(math.Ceil(maxY+0.5)))

	var xs []crossing
	for y := yStart; y < yEnd; y++ {
		scanY := float64(y) + 0.5
		xs = xs[:0]
		for _, e := range edges {
			if e.y0 < scanY && scanY <= e.y1 {
				t := (scanY - e.y0) / (e.y1 - e.y0)
				xs = append(xs, crossing{x: e.x0 + t*(e.x1-e.x0), dir: e.dir})
			}
		}
		if len(xs) < 2 {
			continue
		}
		slices.SortFunc(xs, func(a, b crossing) int {
			switch {
			case a.x < b.x:
				return -1
			case a.x > b.x:
				return 1
			}
			return 0
		})

		winding := 0
		for i := 0; i+1 < len(xs); i++ {
			if rule == clipstack.FillEvenOdd {
				winding ^= 1
			} else {
				winding += xs[i].dir
			}
			if winding == 0 {
				continue
			}
			x0 := max(0, int(math.Floor(xs[i].x+0.5)))
			x1 := min(w, int(math.Floor(xs[i+1].x+0.5)))
			if x0 < x1 {
				span(y, x0, x1)
			}
		}
	}
}
