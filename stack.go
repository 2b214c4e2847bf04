package clipstack

import (
	"image"
	"log/slog"
)

// Stack tracks the clip region of a drawing surface as a stack of clip
// elements inside nested save/restore scopes.
//
// A single save scope can hold several elements, so the scope depth and the
// elements are stored separately. Each element remembers the save count in
// force when it was pushed; Restore removes the elements whose save count is
// larger than the freshly decremented count.
//
// Queries read the cached bound of the top element and cost O(1) regardless
// of depth. The bounds are conservative: they never exclude a pixel the exact
// clip would allow.
//
// A Stack is not safe for concurrent mutation. Read-only queries may run
// concurrently with each other.
type Stack struct {
	elements  []*Element
	saveCount int

	genIDs GenIDSource
	log    *slog.Logger

	// purge is a side table: Clone gives the copy its own empty registry.
	purge *purgeRegistry
}

// New creates an empty, wide-open clip stack.
func New(opts ...Option) *Stack {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Stack{
		elements: make([]*Element, 0, 8), // Pre-allocate for common case
		genIDs:   o.genIDs,
		log:      o.logger,
		purge:    &purgeRegistry{},
	}
}

// NewWithRect creates a stack clipped to r. An empty r leaves the stack
// wide open.
func NewWithRect(r Rect, opts ...Option) *Stack {
	s := New(opts...)
	if !r.IsEmpty() {
		s.ClipDevRect(r, OpReplace, false)
	}
	return s
}

// NewWithIRect creates a stack clipped to the integer rectangle r.
func NewWithIRect(r image.Rectangle, opts ...Option) *Stack {
	return NewWithRect(RectFromImage(r), opts...)
}

func (s *Stack) logger() *slog.Logger {
	if s.log != nil {
		return s.log
	}
	return Logger()
}

// Clone returns a deep copy of the stack. The copy shares the generation ID
// source but not the purge listeners.
func (s *Stack) Clone() *Stack {
	c := &Stack{
		elements:  make([]*Element, len(s.elements), max(cap(s.elements), 8)),
		saveCount: s.saveCount,
		genIDs:    s.genIDs,
		log:       s.log,
		purge:     &purgeRegistry{},
	}
	for i, e := range s.elements {
		c.elements[i] = e.clone()
	}
	return c
}

// Equal reports whether both stacks have the same save count and pairwise
// equal elements. Generation IDs and listeners are not compared.
func (s *Stack) Equal(other *Stack) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	if s.saveCount != other.saveCount || len(s.elements) != len(other.elements) {
		return false
	}
	for i := range s.elements {
		if !s.elements[i].Equal(other.elements[i]) {
			return false
		}
	}
	return true
}

// Reset removes every element, purging each, and sets the save count to 0.
func (s *Stack) Reset() {
	for len(s.elements) > 0 {
		s.popBack()
	}
	s.saveCount = 0
}

// SaveCount returns the current save scope depth.
func (s *Stack) SaveCount() int {
	return s.saveCount
}

// Len returns the number of elements on the stack.
func (s *Stack) Len() int {
	return len(s.elements)
}

// Save opens a new scope. No element is created; the next clip call is tagged
// with the new save count.
func (s *Stack) Save() {
	s.saveCount++
}

// Restore closes the current scope, popping and purging every element pushed
// since the matching Save. It panics if there is no open scope.
func (s *Stack) Restore() {
	if s.saveCount == 0 {
		panic("clipstack: Restore called without matching Save")
	}
	s.saveCount--
	s.restoreTo(s.saveCount)
}

// restoreTo pops every element whose save count exceeds saveCount.
func (s *Stack) restoreTo(saveCount int) {
	popped := 0
	for len(s.elements) > 0 {
		if s.top().saveCount <= saveCount {
			break
		}
		s.popBack()
		popped++
	}
	if popped > 0 {
		s.logger().Debug("clipstack: restore",
			"saveCount", saveCount,
			"popped", popped,
			"remaining", len(s.elements))
	}
}

// Top returns the most recent element, or nil when the stack is empty. The
// element belongs to the stack and must not be modified.
func (s *Stack) Top() *Element {
	return s.top()
}

func (s *Stack) top() *Element {
	if len(s.elements) == 0 {
		return nil
	}
	return s.elements[len(s.elements)-1]
}

// below returns the element beneath the top, or nil.
func (s *Stack) below() *Element {
	if len(s.elements) < 2 {
		return nil
	}
	return s.elements[len(s.elements)-2]
}

// popBack purges and removes the top element.
func (s *Stack) popBack() {
	last := len(s.elements) - 1
	e := s.elements[last]
	s.purgeClip(e)
	s.elements[last] = nil
	s.elements = s.elements[:last]
}

// push appends e, computes its bound against the previous top and purges the
// previous top if e buries it inside the same scope.
func (s *Stack) push(e *Element) {
	prior := s.top()
	s.elements = append(s.elements, e)
	if e.typ == ElementEmpty {
		e.genID = EmptyGenID
	} else {
		e.updateBoundAndGenID(prior, s.genIDs)
	}
	if prior != nil && prior.saveCount == s.saveCount {
		s.purgeClip(prior)
	}
}

// ClipDevIRect combines the integer rectangle r with the clip using op,
// without anti-aliasing.
func (s *Stack) ClipDevIRect(r image.Rectangle, op Op) {
	s.ClipDevRect(RectFromImage(r), op, false)
}

// ClipDevRect combines r, in device space, with the clip using op.
//
// Successive intersections inside one save scope are merged into the top
// rect element when their AA settings allow it, so the stack does not grow.
func (s *Stack) ClipDevRect(r Rect, op Op, aa bool) {
	if e := s.top(); e != nil {
		if e.canBeIntersectedInPlace(s.saveCount, op) {
			switch e.typ {
			case ElementEmpty:
				return
			case ElementRect:
				if e.rectRectIntersectAllowed(r, aa) {
					s.purgeClip(e)
					merged, ok := e.rect.Intersect(r)
					if !ok {
						e.setEmpty()
						return
					}
					e.rect = merged
					e.aa = aa
					e.updateBoundAndGenID(s.below(), s.genIDs)
					return
				}
			case ElementPath:
				if !e.IsInverseFilled() && !e.path.Bounds().Intersects(r) {
					s.purgeClip(e)
					e.setEmpty()
					return
				}
			}
		} else if op == OpReplace {
			s.restoreTo(s.saveCount - 1)
		}
	}

	ne := &Element{}
	ne.initRect(s.saveCount, r, op, aa)
	s.push(ne)
}

// ClipDevPath combines p, in device space, with the clip using op. The stack
// keeps its own copy of p. A non-inverse path that is just a rectangle is
// handled as ClipDevRect.
func (s *Stack) ClipDevPath(p *Path, op Op, aa bool) {
	if p == nil {
		panic("clipstack: ClipDevPath with nil path")
	}
	if !p.IsInverseFillType() {
		if r, ok := p.IsRect(); ok {
			s.ClipDevRect(r, op, aa)
			return
		}
	}

	if e := s.top(); e != nil {
		if e.canBeIntersectedInPlace(s.saveCount, op) {
			pathBounds := p.Bounds()
			disjoint := !p.IsInverseFillType() && !e.IsInverseFilled() &&
				!e.Bounds().Intersects(pathBounds)
			switch e.typ {
			case ElementEmpty:
				return
			case ElementRect, ElementPath:
				if disjoint {
					s.purgeClip(e)
					e.setEmpty()
					return
				}
			}
		} else if op == OpReplace {
			s.restoreTo(s.saveCount - 1)
		}
	}

	ne := &Element{}
	ne.initPath(s.saveCount, p.Clone(), op, aa)
	s.push(ne)
}

// ClipEmpty makes the clip empty. It is an optimized form of intersecting
// with an empty rectangle.
func (s *Stack) ClipEmpty() {
	if e := s.top(); e != nil && e.canBeIntersectedInPlace(s.saveCount, OpIntersect) {
		switch e.typ {
		case ElementEmpty:
			return
		case ElementRect, ElementPath:
			s.purgeClip(e)
			e.setEmpty()
			return
		}
	}

	ne := &Element{}
	ne.initCommon(s.saveCount, OpReplace, false)
	ne.setEmpty()
	s.push(ne)
}

// Bounds returns the cached conservative bound of the clip and how to read
// it. isIntersectionOfRects is true when the bound is the exact clip. An
// empty stack is wide open: an empty inside-out bound.
func (s *Stack) Bounds() (bound Rect, boundType BoundsType, isIntersectionOfRects bool) {
	e := s.top()
	if e == nil {
		// The infinite plane with no pixels unwritable.
		return Rect{}, BoundsInsideOut, false
	}
	return e.finiteBound, e.finiteBoundType, e.isIntersectionOfRects
}

// ConservativeBounds returns a conservative device-space bound of the clip
// limited to the drawing area [0,maxWidth) x [0,maxHeight). The finite bound
// is translated by (offsetX, offsetY) before clamping, which accounts for
// translated drawing areas such as layers.
//
// For an inside-out bound the result is the whole drawing area, unless the
// translated and clamped inside-out bound itself covers the whole area, in
// which case the result is empty. isIntersectionOfRects is true when the
// result is the exact clip.
func (s *Stack) ConservativeBounds(offsetX, offsetY, maxWidth, maxHeight int) (devBounds Rect, isIntersectionOfRects bool) {
	full := NewRect(0, 0, float64(maxWidth), float64(maxHeight))
	bound, boundType, isRects := s.Bounds()

	bound = bound.Offset(float64(offsetX), float64(offsetY))
	clamped, ok := full.Intersect(bound)
	if !ok {
		clamped = Rect{}
	}

	if boundType == BoundsInsideOut {
		if ok && clamped == full {
			return Rect{}, isRects
		}
		return full, isRects
	}
	return clamped, isRects
}

// IntersectRectWithClip conservatively clips devRect to the clip. If it
// returns false, devRect does not intersect the clip and is unmodified.
// A true result may leave devRect larger than the true clipped rect.
func (s *Stack) IntersectRectWithClip(devRect *Rect) bool {
	bound, boundType, _ := s.Bounds()
	if boundType == BoundsInsideOut {
		// The clip reaches infinity; only a rect buried inside the
		// unwritable bound is treated as clipped out.
		return !bound.Contains(*devRect)
	}
	r, ok := devRect.Intersect(bound)
	if !ok {
		return false
	}
	*devRect = r
	return true
}

// QuickContains reports whether devRect is certainly inside the clip. It only
// answers true when the clip is known to be an intersection of rectangles;
// false does not mean devRect is clipped.
func (s *Stack) QuickContains(devRect Rect) bool {
	bound, boundType, isRects := s.Bounds()
	return boundType == BoundsNormal && isRects && bound.Contains(devRect)
}

// IsWideOpen reports whether every pixel of the infinite plane is writable.
func (s *Stack) IsWideOpen() bool {
	return s.TopmostGenID() == WideOpenGenID
}

// TopmostGenID returns the generation ID of the current clip, or
// WideOpenGenID when nothing is clipped.
func (s *Stack) TopmostGenID() GenID {
	e := s.top()
	if e == nil {
		return WideOpenGenID
	}
	if e.finiteBoundType == BoundsInsideOut && e.finiteBound.IsEmpty() {
		return WideOpenGenID
	}
	return e.genID
}
