package mask

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Apply composites src over dst through m. Only the part of dst inside
// m's bounds is touched; src is aligned so that its point sp lands on
// m.Bounds().Min.
func Apply(dst xdraw.Image, src image.Image, sp image.Point, m *image.Alpha) {
	r := m.Bounds().Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	sp = sp.Add(r.Min.Sub(m.Bounds().Min))
	xdraw.DrawMask(dst, r, src, sp, m, r.Min, xdraw.Over)
}

// Clip returns a copy of src restricted to m: each pixel is scaled by the
// mask coverage at the same device position. Pixels of m not covered by
// src stay transparent.
func Clip(src image.Image, m *image.Alpha) *image.NRGBA {
	b := m.Bounds()
	dst := image.NewNRGBA(b)
	r := b.Intersect(src.Bounds())
	if r.Empty() {
		return dst
	}
	xdraw.DrawMask(dst, r, src, r.Min, m, r.Min, xdraw.Src)
	return dst
}
