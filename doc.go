// Package clipstack tracks the clip region of a 2D drawing surface.
//
// # Overview
//
// A Stack records clip operations (rectangles, paths and the empty clip)
// combined with set operations, grouped into nested save/restore scopes.
// It never computes the exact clip. Instead every element caches a
// conservative bound of the cumulative clip through it, so the common
// questions a renderer asks are answered in O(1):
//
//   - Bounds, ConservativeBounds: where can pixels be written at all?
//   - QuickContains: is a rect certainly inside the clip?
//   - IntersectRectWithClip: clip a draw rect before rasterizing.
//   - IsWideOpen: is clipping a no-op?
//
// # Quick Start
//
//	s := clipstack.New()
//	s.ClipDevRect(clipstack.NewRect(0, 0, 100, 100), clipstack.OpIntersect, false)
//
//	s.Save()
//	circle := clipstack.NewPath()
//	circle.Circle(50, 50, 30)
//	s.ClipDevPath(circle, clipstack.OpDifference, true)
//	bound, boundType, _ := s.Bounds()
//	s.Restore()
//
// # Bounds
//
// A bound comes in two flavours. A Normal bound encloses every pixel that may
// be written. An InsideOut bound encloses every pixel that may not be written;
// the writable region then extends to infinity. The inside-out form appears
// with inverse-filled paths and lets two of them cancel when combined.
//
// # Generation IDs
//
// Every cumulative clip state gets a GenID. Consumers key caches of derived
// data (coverage masks, GPU stencil state) by TopmostGenID and register a
// PurgeListener to hear when a state can no longer be reached. The reserved
// IDs EmptyGenID and WideOpenGenID name the two trivial clips.
//
// # Sub-packages
//
//   - mask: rasterizes a stack into an alpha mask and caches masks by GenID.
//   - glyph: builds clip paths from text outlines.
//   - cmd/cliptrace: replays clip scripts and prints the tracked bounds.
//
// # Coordinate System
//
// All geometry is in device space:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Pixel (x, y) covers [x, x+1) x [y, y+1)
package clipstack
