package clipstack

import "fmt"

// ElementType identifies which shape an Element carries.
type ElementType uint8

const (
	// ElementEmpty makes the clip empty regardless of previous elements.
	ElementEmpty ElementType = iota

	// ElementRect combines a rectangle with the current clip.
	ElementRect

	// ElementPath combines a path with the current clip.
	ElementPath
)

// String returns the element type name.
func (t ElementType) String() string {
	switch t {
	case ElementEmpty:
		return "Empty"
	case ElementRect:
		return "Rect"
	case ElementPath:
		return "Path"
	default:
		return fmt.Sprintf("ElementType(%d)", uint8(t))
	}
}

// BoundsType tells how a finite bound is to be read.
type BoundsType uint8

const (
	// BoundsNormal means the bound contains every pixel that can be written.
	BoundsNormal BoundsType = iota

	// BoundsInsideOut means the bound contains every pixel that cannot be
	// written. The writable region extends to infinity outside the bound;
	// some pixels inside it may be writable too.
	BoundsInsideOut
)

// String returns the bounds type name.
func (t BoundsType) String() string {
	switch t {
	case BoundsNormal:
		return "Normal"
	case BoundsInsideOut:
		return "InsideOut"
	default:
		return fmt.Sprintf("BoundsType(%d)", uint8(t))
	}
}

// Element is one clip operation on a Stack: a shape, the set operation that
// combines it with everything beneath it, and an anti-aliasing hint.
//
// When the stack pushes an element it also records a conservative bound of
// the cumulative clip through that element (FiniteBound) and the generation ID
// of that cumulative state. Both are computed once and never recomputed.
type Element struct {
	typ       ElementType
	rect      Rect
	path      *Path
	op        Op
	aa        bool
	saveCount int

	// finiteBound and finiteBoundType describe the cumulative clip. With
	// BoundsNormal the bound encloses all writable pixels; with
	// BoundsInsideOut it encloses all unwritable pixels and the true bound is
	// the infinite plane. The inside-out form lets two inverse-filled clips
	// cancel their extensions to infinity when combined.
	finiteBound     Rect
	finiteBoundType BoundsType

	// isIntersectionOfRects is set when the cumulative clip is exactly the
	// intersection of axis-aligned rectangles.
	isIntersectionOfRects bool

	genID GenID
}

// NewEmptyElement creates a detached element that empties the clip.
func NewEmptyElement() *Element {
	e := &Element{}
	e.initCommon(0, OpReplace, false)
	e.setEmpty()
	return e
}

// NewRectElement creates a detached rect element.
func NewRectElement(r Rect, op Op, aa bool) *Element {
	e := &Element{}
	e.initRect(0, r, op, aa)
	return e
}

// NewPathElement creates a detached path element holding a copy of p.
func NewPathElement(p *Path, op Op, aa bool) *Element {
	if p == nil {
		panic("clipstack: NewPathElement with nil path")
	}
	e := &Element{}
	e.initPath(0, p.Clone(), op, aa)
	return e
}

func (e *Element) initCommon(saveCount int, op Op, aa bool) {
	e.saveCount = saveCount
	e.op = op
	e.aa = aa
	// Inside-out with an empty bound means nothing is known to be outside
	// the clip.
	e.finiteBoundType = BoundsInsideOut
	e.finiteBound = Rect{}
	e.isIntersectionOfRects = false
	e.genID = InvalidGenID
}

func (e *Element) initRect(saveCount int, r Rect, op Op, aa bool) {
	e.rect = r
	e.path = nil
	e.typ = ElementRect
	e.initCommon(saveCount, op, aa)
}

// initPath takes ownership of p.
func (e *Element) initPath(saveCount int, p *Path, op Op, aa bool) {
	e.rect = Rect{}
	e.path = p
	e.typ = ElementPath
	// Warm the bounds cache so later reads never write.
	p.Bounds()
	e.initCommon(saveCount, op, aa)
}

// setEmpty turns the element into an Empty element in place, keeping its op
// and save count.
func (e *Element) setEmpty() {
	e.typ = ElementEmpty
	e.finiteBound = Rect{}
	e.finiteBoundType = BoundsNormal
	e.isIntersectionOfRects = false
	e.rect = Rect{}
	e.path = nil
	e.genID = EmptyGenID
}

// Type returns the element type.
func (e *Element) Type() ElementType {
	return e.typ
}

// Rect returns the rectangle of a Rect element. It panics for other types.
func (e *Element) Rect() Rect {
	if e.typ != ElementRect {
		panic("clipstack: Rect called on " + e.typ.String() + " element")
	}
	return e.rect
}

// Path returns the path of a Path element. It panics for other types.
// The path is owned by the element and must not be modified.
func (e *Element) Path() *Path {
	if e.typ != ElementPath {
		panic("clipstack: Path called on " + e.typ.String() + " element")
	}
	return e.path
}

// Op returns the set operation that combines the element with the clip
// beneath it.
func (e *Element) Op() Op {
	return e.op
}

// SetOp sets the set operation. It only affects elements that are not owned
// by a stack; an element's cumulative bound is not recomputed.
func (e *Element) SetOp(op Op) {
	e.op = op
}

// IsAA reports whether the shape should be anti-aliased when rasterized.
func (e *Element) IsAA() bool {
	return e.aa
}

// SaveCount returns the save scope in force when the element was pushed.
func (e *Element) SaveCount() int {
	return e.saveCount
}

// GenID returns the generation ID of the cumulative clip through this
// element. It is InvalidGenID once that state has been purged.
func (e *Element) GenID() GenID {
	return e.genID
}

// FiniteBound returns the conservative bound of the cumulative clip through
// this element and how to read it.
func (e *Element) FiniteBound() (Rect, BoundsType) {
	return e.finiteBound, e.finiteBoundType
}

// IsIntersectionOfRects reports whether the cumulative clip through this
// element is exactly an intersection of rectangles.
func (e *Element) IsIntersectionOfRects() bool {
	return e.isIntersectionOfRects
}

// Bounds returns the bounds of the element's own shape, ignoring the
// inverse flag. Empty elements have empty bounds.
func (e *Element) Bounds() Rect {
	switch e.typ {
	case ElementRect:
		return e.rect
	case ElementPath:
		return e.path.Bounds()
	default:
		return Rect{}
	}
}

// Contains conservatively checks whether the shape contains r, ignoring the
// inverse flag. Path shapes may report false for rects they do contain.
func (e *Element) Contains(r Rect) bool {
	switch e.typ {
	case ElementRect:
		return e.rect.Contains(r)
	case ElementPath:
		return e.path.ConservativelyContainsRect(r)
	default:
		return false
	}
}

// IsInverseFilled reports whether the element is an inverse-filled path.
func (e *Element) IsInverseFilled() bool {
	return e.typ == ElementPath && e.path.IsInverseFillType()
}

// InvertShapeFillType flips the fill of a Path element. Empty elements stay
// empty. Rect elements cannot be inverted and cause a panic.
func (e *Element) InvertShapeFillType() {
	switch e.typ {
	case ElementPath:
		e.path.ToggleInverseFillType()
	case ElementEmpty:
	default:
		panic("clipstack: InvertShapeFillType called on " + e.typ.String() + " element")
	}
}

// Equal reports whether both elements have the same op, type, AA flag, save
// count and shape. Empty shapes are always equal to each other.
func (e *Element) Equal(other *Element) bool {
	if e == other {
		return true
	}
	if e == nil || other == nil {
		return false
	}
	if e.op != other.op || e.typ != other.typ || e.aa != other.aa || e.saveCount != other.saveCount {
		return false
	}
	switch e.typ {
	case ElementRect:
		return e.rect == other.rect
	case ElementPath:
		return e.path.Equal(other.path)
	default:
		return true
	}
}

// clone returns a deep copy of the element.
func (e *Element) clone() *Element {
	c := *e
	if e.path != nil {
		c.path = e.path.Clone()
	}
	return &c
}

// canBeIntersectedInPlace reports whether a new clip with op in save scope
// saveCount can be folded into e instead of being pushed.
func (e *Element) canBeIntersectedInPlace(saveCount int, op Op) bool {
	// Intersecting with or subtracting from an empty clip leaves it empty, no
	// matter which scope the new clip belongs to.
	if e.typ == ElementEmpty && (op == OpDifference || op == OpIntersect) {
		return true
	}
	// Only clips within the same save scope can be merged.
	return e.saveCount == saveCount &&
		op == OpIntersect &&
		(e.op == OpIntersect || e.op == OpReplace)
}

// rectRectIntersectAllowed reports whether the rect element e can be merged
// with newR. All edges of the merged rect share one AA setting, so rects with
// different settings may only merge when the result keeps e's edges or is
// empty.
func (e *Element) rectRectIntersectAllowed(newR Rect, newAA bool) bool {
	if e.typ != ElementRect {
		return false
	}
	if e.aa == newAA {
		return true
	}
	if !e.rect.Intersects(newR) {
		// The caller turns the clip empty.
		return true
	}
	if e.rect.Contains(newR) {
		// newR carves a portion out of the old rect; all edges come from newR.
		return true
	}
	// Either the rects overlap partially, so the edges need different AA, or
	// newR contains the old rect and the new AA setting would be wrong for
	// the old edges.
	return false
}

// String describes the element for debugging.
func (e *Element) String() string {
	var shape string
	switch e.typ {
	case ElementRect:
		shape = e.rect.String()
	case ElementPath:
		shape = e.path.Bounds().String()
		if e.path.IsInverseFillType() {
			shape += " inverse"
		}
	default:
		shape = "-"
	}
	return fmt.Sprintf("%s %s %s aa=%t save=%d gen=%d bound=%s/%s",
		e.typ, e.op, shape, e.aa, e.saveCount, e.genID, e.finiteBound, e.finiteBoundType)
}
