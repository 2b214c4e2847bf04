// Package glyph builds clip paths from text.
//
// Text is shaped with go-text/typesetting, so kerning and ligatures are
// applied, and each glyph outline is loaded from the font with
// golang.org/x/image/font/sfnt:
//
//	face, _ := glyph.DefaultFace(48)
//	p, err := face.TextPath("Clip", 10, 60)
//	if err == nil {
//		stack.ClipDevPath(p, clipstack.OpIntersect, true)
//	}
package glyph
