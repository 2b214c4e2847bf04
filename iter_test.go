package clipstack

import "testing"

// threeRects builds a stack with three rect elements in separate scopes.
func threeRects() (*Stack, []Rect) {
	rects := []Rect{
		LTRB(0, 0, 100, 100),
		LTRB(10, 10, 90, 90),
		LTRB(20, 20, 80, 80),
	}
	s := New()
	for i, r := range rects {
		if i > 0 {
			s.Save()
		}
		op := OpIntersect
		if i == 1 {
			op = OpReplace
		}
		s.ClipDevRect(r, op, false)
	}
	return s, rects
}

func TestIter_Forward(t *testing.T) {
	s, rects := threeRects()
	it := NewIter(s, IterBottom)
	for i, want := range rects {
		e := it.Next()
		if e == nil {
			t.Fatalf("Next() #%d = nil", i)
		}
		if e.Rect() != want {
			t.Errorf("Next() #%d = %v, want %v", i, e.Rect(), want)
		}
	}
	if e := it.Next(); e != nil {
		t.Errorf("Next() past the top = %v, want nil", e)
	}
	// Exhaustion sticks in both directions.
	if e := it.Prev(); e != nil {
		t.Errorf("Prev() after exhaustion = %v, want nil", e)
	}
}

func TestIter_Backward(t *testing.T) {
	s, rects := threeRects()
	it := NewIter(s, IterTop)
	for i := len(rects) - 1; i >= 0; i-- {
		e := it.Prev()
		if e == nil || e.Rect() != rects[i] {
			t.Fatalf("Prev() = %v, want %v", e, rects[i])
		}
	}
	if e := it.Prev(); e != nil {
		t.Errorf("Prev() past the bottom = %v, want nil", e)
	}
	if e := it.Next(); e != nil {
		t.Errorf("Next() after exhaustion = %v, want nil", e)
	}

	it.Reset(s, IterBottom)
	if e := it.Next(); e == nil || e.Rect() != rects[0] {
		t.Errorf("Next() after Reset = %v, want %v", e, rects[0])
	}
}

func TestIter_Mixed(t *testing.T) {
	s, rects := threeRects()
	it := NewIter(s, IterBottom)
	it.Next()
	if e := it.Next(); e.Rect() != rects[1] {
		t.Fatalf("second Next() = %v", e)
	}
	// The cursor now sits on the top element.
	if e := it.Prev(); e.Rect() != rects[2] {
		t.Errorf("Prev() = %v, want %v", e.Rect(), rects[2])
	}
	if e := it.Prev(); e.Rect() != rects[1] {
		t.Errorf("Prev() = %v, want %v", e.Rect(), rects[1])
	}
}

func TestIter_SkipToTopmost(t *testing.T) {
	s, rects := threeRects()

	tests := []struct {
		name     string
		op       Op
		want     Rect
		wantNext *Rect
	}{
		{"replace", OpReplace, rects[1], &rects[2]},
		{"intersect", OpIntersect, rects[2], nil},
		{"no match returns bottom", OpXOR, rects[0], &rects[1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := NewIter(s, IterTop)
			e := it.SkipToTopmost(tt.op)
			if e == nil || e.Rect() != tt.want {
				t.Fatalf("SkipToTopmost(%v) = %v, want %v", tt.op, e, tt.want)
			}
			next := it.Next()
			switch {
			case tt.wantNext == nil && next != nil:
				t.Errorf("Next() after skip = %v, want nil", next)
			case tt.wantNext != nil && (next == nil || next.Rect() != *tt.wantNext):
				t.Errorf("Next() after skip = %v, want %v", next, *tt.wantNext)
			}
		})
	}

	if e := NewIter(New(), IterTop).SkipToTopmost(OpReplace); e != nil {
		t.Errorf("SkipToTopmost() on empty stack = %v, want nil", e)
	}
}

func TestIter_EmptyStack(t *testing.T) {
	it := NewIter(New(), IterBottom)
	if it.Next() != nil || it.Prev() != nil {
		t.Error("iterator over empty stack returned an element")
	}
}

func TestB2TIter(t *testing.T) {
	s, rects := threeRects()
	it := NewB2TIter(s)
	var got []Rect
	for e := it.Next(); e != nil; e = it.Next() {
		got = append(got, e.Rect())
	}
	if len(got) != len(rects) {
		t.Fatalf("B2TIter visited %d elements, want %d", len(got), len(rects))
	}
	for i := range rects {
		if got[i] != rects[i] {
			t.Errorf("element %d = %v, want %v", i, got[i], rects[i])
		}
	}

	it.Reset(s)
	if e := it.Next(); e == nil || e.Rect() != rects[0] {
		t.Errorf("Next() after Reset = %v, want %v", e, rects[0])
	}
}
