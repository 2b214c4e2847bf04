package mask

import (
	"errors"
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/gogpu/clipstack"
)

// MaxPixels is the largest mask Render will allocate.
const MaxPixels = 1 << 26

// ErrInvalidSize is returned for empty or oversized mask bounds.
var ErrInvalidSize = errors.New("mask: invalid size")

// supersample is the per-axis sample count for anti-aliased even-odd paths.
const supersample = 4

// Render rasterizes the clip described by s into an alpha mask covering
// bounds in device space. A value of 255 means the pixel is fully writable.
//
// Elements below the topmost Replace element do not affect the result, so
// rendering starts there. Non-AA shapes cover a pixel when its center is
// inside the shape; AA shapes produce fractional coverage.
func Render(s *clipstack.Stack, bounds image.Rectangle) (*image.Alpha, error) {
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || w*h > MaxPixels {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, bounds)
	}

	r := newRenderer(bounds)
	r.fill(1)

	it := clipstack.NewIter(s, clipstack.IterTop)
	for e := it.SkipToTopmost(clipstack.OpReplace); e != nil; e = it.Next() {
		r.apply(e)
	}
	return r.output(), nil
}

// renderer accumulates coverage in floating point so combined AA edges do
// not drift through repeated 8-bit rounding.
type renderer struct {
	bounds image.Rectangle
	w, h   int
	acc    []float32 // accumulated clip coverage
	cov    []float32 // coverage of the element being applied
}

func newRenderer(bounds image.Rectangle) *renderer {
	w, h := bounds.Dx(), bounds.Dy()
	return &renderer{
		bounds: bounds,
		w:      w,
		h:      h,
		acc:    make([]float32, w*h),
		cov:    make([]float32, w*h),
	}
}

func (r *renderer) fill(v float32) {
	for i := range r.acc {
		r.acc[i] = v
	}
}

func (r *renderer) apply(e *clipstack.Element) {
	if e.Type() == clipstack.ElementEmpty {
		r.fill(0)
		return
	}

	clear(r.cov)
	switch e.Type() {
	case clipstack.ElementRect:
		if e.IsAA() {
			r.rectAA(e.Rect())
		} else {
			r.rectAliased(e.Rect())
		}
	case clipstack.ElementPath:
		r.path(e.Path(), e.IsAA())
		if e.Path().IsInverseFillType() {
			for i, b := range r.cov {
				r.cov[i] = 1 - b
			}
		}
	}
	combine(e.Op(), r.acc, r.cov)
}

// combine folds element coverage b into accumulated coverage a.
func combine(op clipstack.Op, acc, cov []float32) {
	for i, b := range cov {
		a := acc[i]
		switch op {
		case clipstack.OpReplace:
			a = b
		case clipstack.OpIntersect:
			a *= b
		case clipstack.OpUnion:
			a = a + b - a*b
		case clipstack.OpDifference:
			a *= 1 - b
		case clipstack.OpReverseDifference:
			a = b * (1 - a)
		case clipstack.OpXOR:
			a = a + b - 2*a*b
		default:
			panic("mask: unknown op " + op.String())
		}
		acc[i] = a
	}
}

// rectAliased covers pixels whose centers lie inside rect.
func (r *renderer) rectAliased(rect clipstack.Rect) {
	dx, dy := float64(r.bounds.Min.X), float64(r.bounds.Min.Y)
	x0 := max(0, int(math.Floor(rect.Left-dx+0.5)))
	x1 := min(r.w, int(math.Floor(rect.Right-dx+0.5)))
	y0 := max(0, int(math.Floor(rect.Top-dy+0.5)))
	y1 := min(r.h, int(math.Floor(rect.Bottom-dy+0.5)))
	for y := y0; y < y1; y++ {
		row := r.cov[y*r.w : (y+1)*r.w]
		for x := x0; x < x1; x++ {
			row[x] = 1
		}
	}
}

// rectAA computes the exact area of each pixel covered by rect.
func (r *renderer) rectAA(rect clipstack.Rect) {
	rect = rect.Offset(-float64(r.bounds.Min.X), -float64(r.bounds.Min.Y))
	x0 := max(0, int(math.Floor(rect.Left)))
	x1 := min(r.w, int(math.Ceil(rect.Right)))
	y0 := max(0, int(math.Floor(rect.Top)))
	y1 := min(r.h, int(math.Ceil(rect.Bottom)))
	for y := y0; y < y1; y++ {
		cy := overlap(float64(y), rect.Top, rect.Bottom)
		row := r.cov[y*r.w : (y+1)*r.w]
		for x := x0; x < x1; x++ {
			row[x] = float32(cy * overlap(float64(x), rect.Left, rect.Right))
		}
	}
}

// overlap returns the length of [p, p+1] inside [lo, hi].
func overlap(p, lo, hi float64) float64 {
	return max(0, min(p+1, hi)-max(p, lo))
}

func (r *renderer) path(p *clipstack.Path, aa bool) {
	dx, dy := -float64(r.bounds.Min.X), -float64(r.bounds.Min.Y)
	switch {
	case !aa:
		edges := buildEdges(p.Contours(), dx, dy, 1)
		fillScanlines(edges, r.w, r.h, p.FillRule(), func(y, x0, x1 int) {
			row := r.cov[y*r.w : (y+1)*r.w]
			for x := x0; x < x1; x++ {
				row[x] = 1
			}
		})
	case p.FillRule() == clipstack.FillNonZero:
		r.pathVector(p, dx, dy)
	default:
		r.pathSupersampled(p, dx, dy)
	}
}

// pathVector rasterizes a nonzero path with analytic anti-aliasing.
func (r *renderer) pathVector(p *clipstack.Path, dx, dy float64) {
	z := vector.NewRasterizer(r.w, r.h)
	z.DrawOp = xdraw.Src

	pt := func(q clipstack.Point) (float32, float32) {
		return float32(q.X + dx), float32(q.Y + dy)
	}
	open := false
	for _, elem := range p.Elements() {
		switch e := elem.(type) {
		case clipstack.MoveTo:
			if open {
				z.ClosePath()
			}
			z.MoveTo(pt(e.Point))
			open = true
		case clipstack.LineTo:
			z.LineTo(pt(e.Point))
		case clipstack.QuadTo:
			cx, cy := pt(e.Control)
			x, y := pt(e.Point)
			z.QuadTo(cx, cy, x, y)
		case clipstack.CubicTo:
			c1x, c1y := pt(e.Control1)
			c2x, c2y := pt(e.Control2)
			x, y := pt(e.Point)
			z.CubeTo(c1x, c1y, c2x, c2y, x, y)
		case clipstack.Close:
			if open {
				z.ClosePath()
				open = false
			}
		}
	}
	if open {
		z.ClosePath()
	}

	dst := image.NewAlpha(image.Rect(0, 0, r.w, r.h))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	for i, a := range dst.Pix {
		r.cov[i] = float32(a) / 255
	}
}

// pathSupersampled rasterizes an even-odd path on a finer grid and averages
// the samples back down.
func (r *renderer) pathSupersampled(p *clipstack.Path, dx, dy float64) {
	const n = supersample
	const weight = 1.0 / (n * n)
	edges := buildEdges(p.Contours(), dx, dy, n)
	fillScanlines(edges, r.w*n, r.h*n, p.FillRule(), func(y, x0, x1 int) {
		row := r.cov[(y/n)*r.w : (y/n+1)*r.w]
		for x := x0; x < x1; x++ {
			row[x/n] += weight
		}
	})
}

// output quantizes the accumulated coverage into an alpha image.
func (r *renderer) output() *image.Alpha {
	m := image.NewAlpha(r.bounds)
	for i, a := range r.acc {
		m.Pix[i] = quantize(a)
	}
	return m
}

func quantize(a float32) uint8 {
	switch {
	case a <= 0:
		return 0
	case a >= 1:
		return 255
	}
	return uint8(a*255 + 0.5)
}
