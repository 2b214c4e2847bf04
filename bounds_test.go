package clipstack

import (
	"fmt"
	"testing"
)

func TestCombineBounds_AllCombinations(t *testing.T) {
	prev := LTRB(0, 0, 10, 10)
	cur := LTRB(5, 5, 20, 20)
	meet := LTRB(5, 5, 10, 10)
	join := LTRB(0, 0, 20, 20)

	const (
		N = BoundsNormal
		I = BoundsInsideOut
	)
	type want struct {
		bound Rect
		typ   BoundsType
	}
	// Indexed by op, then by [prevType][curType].
	table := map[Op][2][2]want{
		OpIntersect: {
			{{meet, N}, {prev, N}},
			{{cur, N}, {join, I}},
		},
		OpUnion: {
			{{join, N}, {cur, I}},
			{{prev, I}, {meet, I}},
		},
		OpDifference: {
			{{prev, N}, {meet, N}},
			{{join, I}, {cur, N}},
		},
		OpReverseDifference: {
			{{cur, N}, {join, I}},
			{{meet, N}, {prev, N}},
		},
		OpXOR: {
			{{join, N}, {join, I}},
			{{join, I}, {join, N}},
		},
		OpReplace: {
			{{cur, N}, {cur, I}},
			{{cur, N}, {cur, I}},
		},
	}

	if len(table) != OpCount {
		t.Fatalf("table covers %d ops, want %d", len(table), OpCount)
	}

	for op, rows := range table {
		for pt := BoundsNormal; pt <= BoundsInsideOut; pt++ {
			for ct := BoundsNormal; ct <= BoundsInsideOut; ct++ {
				w := rows[pt][ct]
				t.Run(fmt.Sprintf("%v/prev=%v/cur=%v", op, pt, ct), func(t *testing.T) {
					got := combineBounds(op, cur, ct, prev, pt)
					if got.bound != w.bound || got.boundType != w.typ {
						t.Errorf("combineBounds() = %v/%v, want %v/%v", got.bound, got.boundType, w.bound, w.typ)
					}
					if got.genID != InvalidGenID {
						t.Errorf("overlapping shapes produced sentinel %d", got.genID)
					}
				})
			}
		}
	}
}

func TestCombineBounds_DisjointSentinels(t *testing.T) {
	prev := LTRB(0, 0, 10, 10)
	cur := LTRB(50, 50, 60, 60)

	tests := []struct {
		op       Op
		prevType BoundsType
		curType  BoundsType
		wantID   GenID
		wantType BoundsType
	}{
		{OpIntersect, BoundsNormal, BoundsNormal, EmptyGenID, BoundsNormal},
		{OpUnion, BoundsInsideOut, BoundsInsideOut, WideOpenGenID, BoundsInsideOut},
		{OpDifference, BoundsNormal, BoundsInsideOut, EmptyGenID, BoundsNormal},
		{OpReverseDifference, BoundsInsideOut, BoundsNormal, EmptyGenID, BoundsNormal},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			got := combineBounds(tt.op, cur, tt.curType, prev, tt.prevType)
			if got.genID != tt.wantID {
				t.Errorf("genID = %d, want %d", got.genID, tt.wantID)
			}
			if !got.bound.IsEmpty() {
				t.Errorf("bound = %v, want empty", got.bound)
			}
			if got.boundType != tt.wantType {
				t.Errorf("boundType = %v, want %v", got.boundType, tt.wantType)
			}
		})
	}
}

func TestCombineBounds_UnknownOpPanics(t *testing.T) {
	mustPanic(t, "combineBounds(Op(99))", func() {
		combineBounds(Op(99), Rect{}, BoundsNormal, Rect{}, BoundsNormal)
	})
}

func TestUpdateBoundAndGenID(t *testing.T) {
	ids := &fixedIDs{next: 10}

	t.Run("first element intersects with the open plane", func(t *testing.T) {
		e := &Element{}
		e.initRect(0, LTRB(0, 0, 10, 10), OpIntersect, false)
		e.updateBoundAndGenID(nil, ids)
		if b, typ := e.FiniteBound(); b != LTRB(0, 0, 10, 10) || typ != BoundsNormal {
			t.Errorf("FiniteBound() = %v/%v", b, typ)
		}
		if !e.IsIntersectionOfRects() {
			t.Error("first intersect rect should be an intersection of rects")
		}
		if e.GenID().IsReserved() {
			t.Errorf("GenID() = %d, want a fresh ID", e.GenID())
		}
	})

	t.Run("non-aa bound is snapped", func(t *testing.T) {
		e := &Element{}
		e.initRect(0, LTRB(0.2, 0.2, 9.7, 9.7), OpReplace, false)
		e.updateBoundAndGenID(nil, ids)
		if b, _ := e.FiniteBound(); b != LTRB(0, 0, 10, 10) {
			t.Errorf("FiniteBound() = %v, want snapped (0, 0, 10, 10)", b)
		}
		// The element keeps its exact geometry.
		if e.Rect() != LTRB(0.2, 0.2, 9.7, 9.7) {
			t.Errorf("Rect() = %v, snapping must not alter the shape", e.Rect())
		}
	})

	t.Run("aa bound is exact", func(t *testing.T) {
		e := &Element{}
		e.initRect(0, LTRB(0.2, 0.2, 9.7, 9.7), OpReplace, true)
		e.updateBoundAndGenID(nil, ids)
		if b, _ := e.FiniteBound(); b != LTRB(0.2, 0.2, 9.7, 9.7) {
			t.Errorf("FiniteBound() = %v, want exact", b)
		}
	})

	t.Run("inverse path", func(t *testing.T) {
		p := circlePath(50, 50, 10)
		p.SetInverseFillType(true)
		e := &Element{}
		e.initPath(0, p, OpIntersect, true)
		e.updateBoundAndGenID(nil, ids)
		b, typ := e.FiniteBound()
		if typ != BoundsInsideOut || b != LTRB(40, 40, 60, 60) {
			t.Errorf("FiniteBound() = %v/%v, want (40, 40, 60, 60)/InsideOut", b, typ)
		}
		if e.IsIntersectionOfRects() {
			t.Error("path element cannot be an intersection of rects")
		}
	})

	t.Run("intersection of rects chain", func(t *testing.T) {
		prior := &Element{}
		prior.initRect(0, LTRB(0, 0, 100, 100), OpIntersect, false)
		prior.updateBoundAndGenID(nil, ids)

		e := &Element{}
		e.initRect(1, LTRB(10, 10, 50, 50), OpIntersect, false)
		e.updateBoundAndGenID(prior, ids)
		if !e.IsIntersectionOfRects() {
			t.Error("rect intersected with rect should stay an intersection of rects")
		}

		u := &Element{}
		u.initRect(1, LTRB(60, 60, 70, 70), OpUnion, false)
		u.updateBoundAndGenID(prior, ids)
		if u.IsIntersectionOfRects() {
			t.Error("union is never an intersection of rects")
		}

		// A different AA setting that needs both kinds of edges.
		mixed := &Element{}
		mixed.initRect(1, LTRB(50, 50, 150, 150), OpIntersect, true)
		mixed.updateBoundAndGenID(prior, ids)
		if mixed.IsIntersectionOfRects() {
			t.Error("partially overlapping rects with mixed AA are not an exact intersection")
		}
	})

	t.Run("disjoint intersect gets EmptyGenID", func(t *testing.T) {
		prior := &Element{}
		prior.initRect(0, LTRB(0, 0, 10, 10), OpIntersect, false)
		prior.updateBoundAndGenID(nil, ids)

		e := &Element{}
		e.initRect(1, LTRB(20, 20, 30, 30), OpIntersect, false)
		e.updateBoundAndGenID(prior, ids)
		if e.GenID() != EmptyGenID {
			t.Errorf("GenID() = %d, want EmptyGenID", e.GenID())
		}
	})

	t.Run("empty element panics", func(t *testing.T) {
		mustPanic(t, "updateBoundAndGenID on Empty", func() {
			NewEmptyElement().updateBoundAndGenID(nil, ids)
		})
	})
}

func TestMakeFillCombo(t *testing.T) {
	tests := []struct {
		prev, cur BoundsType
		want      fillCombo
	}{
		{BoundsNormal, BoundsNormal, comboPrevCur},
		{BoundsNormal, BoundsInsideOut, comboPrevInvCur},
		{BoundsInsideOut, BoundsNormal, comboInvPrevCur},
		{BoundsInsideOut, BoundsInsideOut, comboInvPrevInvCur},
	}
	for _, tt := range tests {
		if got := makeFillCombo(tt.prev, tt.cur); got != tt.want {
			t.Errorf("makeFillCombo(%v, %v) = %d, want %d", tt.prev, tt.cur, got, tt.want)
		}
	}
}
