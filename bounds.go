package clipstack

// fillCombo classifies how the previous cumulative bound and the new
// element's own bound are to be read.
type fillCombo uint8

const (
	comboPrevCur       fillCombo = iota // normal prior, normal element
	comboPrevInvCur                     // normal prior, inverse element
	comboInvPrevCur                     // inverse prior, normal element
	comboInvPrevInvCur                  // inverse prior, inverse element
)

func makeFillCombo(prev, cur BoundsType) fillCombo {
	c := comboPrevCur
	if cur == BoundsInsideOut {
		c |= 0x1
	}
	if prev == BoundsInsideOut {
		c |= 0x2
	}
	return c
}

// combineResult is the outcome of folding one element's bound into the
// previous cumulative bound.
type combineResult struct {
	bound     Rect
	boundType BoundsType
	// genID is EmptyGenID or WideOpenGenID when the combination proves the
	// clip empty or wide open, and InvalidGenID otherwise.
	genID GenID
}

// combineBounds composes two conservative bounds under op. cur and curType
// describe the element's own shape; prev and prevType the clip beneath it.
//
// A normal bound over-approximates the pixels that may be written, an
// inside-out bound over-approximates the pixels that may not. Every rule below
// keeps the result an over-approximation of the writable region.
func combineBounds(op Op, cur Rect, curType BoundsType, prev Rect, prevType BoundsType) combineResult {
	res := combineResult{bound: cur, boundType: curType}
	combo := makeFillCombo(prevType, curType)

	intersectOr := func(sentinel GenID) {
		if b, ok := res.bound.Intersect(prev); ok {
			res.bound = b
		} else {
			res.bound = Rect{}
			res.genID = sentinel
		}
	}

	switch op {
	case OpIntersect:
		switch combo {
		case comboInvPrevInvCur:
			// The unwritable pixels lie in the union of both finite bounds.
			res.bound = cur.Join(prev)
			res.boundType = BoundsInsideOut
		case comboInvPrevCur:
			// Only pixels inside the current shape remain writable.
		case comboPrevInvCur:
			// Only pixels inside the previous clip remain writable.
			res.bound = prev
			res.boundType = BoundsNormal
		case comboPrevCur:
			intersectOr(EmptyGenID)
		}

	case OpUnion:
		switch combo {
		case comboInvPrevInvCur:
			// Unwritable pixels must be outside both shapes.
			intersectOr(WideOpenGenID)
			res.boundType = BoundsInsideOut
		case comboInvPrevCur:
			// Only pixels inside the previous finite bound may be unwritable.
			res.bound = prev
			res.boundType = BoundsInsideOut
		case comboPrevInvCur:
			// Only pixels inside the current finite bound may be unwritable.
		case comboPrevCur:
			res.bound = cur.Join(prev)
		}

	case OpDifference:
		switch combo {
		case comboInvPrevInvCur:
			// The extensions to infinity cancel; what remains lies inside the
			// current shape's bound.
			res.boundType = BoundsNormal
		case comboInvPrevCur:
			// Unwritable: whatever the previous clip blocked plus the shape.
			res.bound = cur.Join(prev)
			res.boundType = BoundsInsideOut
		case comboPrevInvCur:
			// Everything outside the shape is erased, so survivors lie in
			// both finite bounds.
			intersectOr(EmptyGenID)
			res.boundType = BoundsNormal
		case comboPrevCur:
			// The prior bound is the tightest cheap answer. A shape equal to
			// the prior clip would really yield the empty set; that is
			// ignored.
			res.bound = prev
		}

	case OpReverseDifference:
		switch combo {
		case comboInvPrevInvCur:
			// The extensions to infinity cancel inside the previous bound.
			res.bound = prev
			res.boundType = BoundsNormal
		case comboInvPrevCur:
			intersectOr(EmptyGenID)
			res.boundType = BoundsNormal
		case comboPrevInvCur:
			res.bound = cur.Join(prev)
			res.boundType = BoundsInsideOut
		case comboPrevCur:
			// The current shape's bound; the prior clip could shrink it but
			// that is ignored.
		}

	case OpXOR:
		switch combo {
		case comboInvPrevCur, comboPrevInvCur:
			// With one side inverted the result reaches infinity; pixels that
			// may be unwritable lie within the union of both bounds.
			res.bound = cur.Join(prev)
			res.boundType = BoundsInsideOut
		case comboInvPrevInvCur, comboPrevCur:
			// Survivors lie within the union of both bounds.
			res.bound = cur.Join(prev)
			res.boundType = BoundsNormal
		}

	case OpReplace:
		// Everything beneath is discarded; the shape's own bound stands.

	default:
		panic("clipstack: unknown op " + op.String())
	}

	return res
}

// updateBoundAndGenID computes the element's cumulative bound from prior, the
// element beneath it (nil when there is none), and assigns a fresh generation
// ID.
func (e *Element) updateBoundAndGenID(prior *Element, ids GenIDSource) {
	// Assigned first; a proof of empty or wide-open overrides it below.
	e.genID = ids.NextGenID()

	e.isIntersectionOfRects = false
	var (
		cur     Rect
		curType BoundsType
	)
	switch e.typ {
	case ElementRect:
		cur = e.rect
		curType = BoundsNormal
		if e.op == OpReplace ||
			(e.op == OpIntersect && prior == nil) ||
			(e.op == OpIntersect && prior.isIntersectionOfRects &&
				prior.rectRectIntersectAllowed(e.rect, e.aa)) {
			e.isIntersectionOfRects = true
		}
	case ElementPath:
		cur = e.path.Bounds()
		curType = BoundsNormal
		if e.path.IsInverseFillType() {
			curType = BoundsInsideOut
		}
	default:
		panic("clipstack: updateBoundAndGenID on " + e.typ.String() + " element")
	}

	if !e.aa {
		cur = cur.snapToPixels()
	}

	// No prior means the whole plane is writable: nothing is known to be
	// unwritable.
	prev, prevType := Rect{}, BoundsInsideOut
	if prior != nil {
		prev, prevType = prior.finiteBound, prior.finiteBoundType
	}

	res := combineBounds(e.op, cur, curType, prev, prevType)
	e.finiteBound = res.bound
	e.finiteBoundType = res.boundType
	if res.genID != InvalidGenID {
		e.genID = res.genID
	}
}
