package glyph

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/clipstack"
)

// OutlineCacheSize is the number of glyph outlines kept per Face.
const OutlineCacheSize = 256

var (
	// ErrNoOutline is returned when shaped text produces no visible contour,
	// for example an empty or whitespace-only string.
	ErrNoOutline = errors.New("glyph: text has no outline")

	// ErrInvalidSize is returned for a non-positive font size.
	ErrInvalidSize = errors.New("glyph: invalid font size")
)

// Face turns text into clip paths at a fixed pixel size.
//
// Face is safe for concurrent use.
type Face struct {
	size float64

	// shaping side: go-text font.Font is read-only and shareable; the
	// HarfbuzzShaper keeps a buffer so it is pooled.
	shapeFont *font.Font
	shapers   sync.Pool

	// outline side: sfnt.Buffer is not safe for concurrent use.
	mu      sync.Mutex
	outline *sfnt.Font
	buf     sfnt.Buffer

	outlines *lru.Cache // sfnt.GlyphIndex -> []sfnt.Segment
}

// NewFace parses a TrueType or OpenType font and returns a face of the
// given size in pixels per em.
func NewFace(ttf []byte, size float64) (*Face, error) {
	if !(size > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}
	outline, err := sfnt.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("glyph: parse outlines: %w", err)
	}
	shapeFace, err := font.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("glyph: parse for shaping: %w", err)
	}
	cache, err := lru.New(OutlineCacheSize)
	if err != nil {
		return nil, fmt.Errorf("glyph: outline cache: %w", err)
	}

	return &Face{
		size:      size,
		shapeFont: shapeFace.Font,
		shapers: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
		outline:  outline,
		outlines: cache,
	}, nil
}

// DefaultFace returns the Go Regular font at the given size.
func DefaultFace(size float64) (*Face, error) {
	return NewFace(goregular.TTF, size)
}

// Size returns the face size in pixels per em.
func (f *Face) Size() float64 {
	return f.size
}

// TextPath returns the outline of text laid out left to right with its
// baseline origin at (x, y). The path uses the non-zero fill rule and can
// be passed straight to Stack.ClipDevPath.
//
// Text is normalized to NFC before shaping, so precomposed and decomposed
// spellings produce the same path. Text without any visible contour returns
// a nil path and ErrNoOutline.
func (f *Face) TextPath(text string, x, y float64) (*clipstack.Path, error) {
	if text == "" {
		return nil, ErrNoOutline
	}

	p := clipstack.NewPath()
	pen := x
	for _, g := range f.shape(norm.NFC.String(text)) {
		segs, err := f.glyphOutline(sfnt.GlyphIndex(g.GlyphID))
		if err != nil {
			return nil, err
		}
		gx := pen + fixedToFloat(g.XOffset)
		gy := y - fixedToFloat(g.YOffset)
		appendSegments(p, segs, gx, gy)
		pen += fixedToFloat(g.Advance)
	}

	if p.IsEmpty() {
		return nil, ErrNoOutline
	}
	return p, nil
}

// Advance returns the horizontal advance of text after shaping.
func (f *Face) Advance(text string) float64 {
	var adv float64
	for _, g := range f.shape(norm.NFC.String(text)) {
		adv += fixedToFloat(g.Advance)
	}
	return adv
}

func (f *Face) shape(text string) []shaping.Glyph {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(f.shapeFont),
		Size:      floatToFixed(f.size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := f.shapers.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	f.shapers.Put(hb)
	return out.Glyphs
}

// glyphOutline returns the segments of one glyph in pixels, y down,
// relative to its origin.
func (f *Face) glyphOutline(gid sfnt.GlyphIndex) ([]sfnt.Segment, error) {
	if v, ok := f.outlines.Get(gid); ok {
		return v.([]sfnt.Segment), nil
	}

	f.mu.Lock()
	segs, err := f.outline.LoadGlyph(&f.buf, gid, floatToFixed(f.size), nil)
	// LoadGlyph returns a slice backed by buf.
	owned := append([]sfnt.Segment(nil), segs...)
	f.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("glyph: load glyph %d: %w", gid, err)
	}

	f.outlines.Add(gid, owned)
	clipstack.Logger().Debug("glyph: outline loaded",
		slog.Int("gid", int(gid)),
		slog.Int("segments", len(owned)))
	return owned, nil
}

// appendSegments adds a glyph outline to p, closing every contour.
func appendSegments(p *clipstack.Path, segs []sfnt.Segment, dx, dy float64) {
	pt := func(q fixed.Point26_6) (float64, float64) {
		return dx + fixedToFloat(q.X), dy + fixedToFloat(q.Y)
	}
	open := false
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				p.Close()
			}
			p.MoveTo(pt(s.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			p.LineTo(pt(s.Args[0]))
		case sfnt.SegmentOpQuadTo:
			cx, cy := pt(s.Args[0])
			x, y := pt(s.Args[1])
			p.QuadraticTo(cx, cy, x, y)
		case sfnt.SegmentOpCubeTo:
			c1x, c1y := pt(s.Args[0])
			c2x, c2y := pt(s.Args[1])
			x, y := pt(s.Args[2])
			p.CubicTo(c1x, c1y, c2x, c2y, x, y)
		}
	}
	if open {
		p.Close()
	}
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
