package clipstack

import (
	"image"
	"math"
	"testing"
)

func TestRect_IsEmpty(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"zero", Rect{}, true},
		{"positive", NewRect(0, 0, 1, 1), false},
		{"zero width", LTRB(5, 0, 5, 10), true},
		{"zero height", LTRB(0, 5, 10, 5), true},
		{"inverted", LTRB(10, 10, 0, 0), true},
		{"nan", LTRB(math.NaN(), 0, 10, 10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRect_Contains(t *testing.T) {
	outer := LTRB(0, 0, 100, 100)
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"inside", LTRB(10, 10, 20, 20), true},
		{"same", outer, true},
		{"touching edges", LTRB(0, 0, 100, 50), true},
		{"overlapping", LTRB(50, 50, 150, 150), false},
		{"disjoint", LTRB(200, 200, 300, 300), false},
		{"empty", Rect{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.Contains(tt.other); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.other, got, tt.want)
			}
		})
	}

	if (Rect{}).Contains(Rect{}) {
		t.Error("empty rect should not contain anything")
	}
}

func TestRect_Intersect(t *testing.T) {
	a := LTRB(0, 0, 10, 10)
	tests := []struct {
		name   string
		other  Rect
		want   Rect
		wantOK bool
	}{
		{"overlap", LTRB(5, 5, 15, 15), LTRB(5, 5, 10, 10), true},
		{"contained", LTRB(2, 3, 4, 5), LTRB(2, 3, 4, 5), true},
		{"touching", LTRB(10, 0, 20, 10), a, false},
		{"disjoint", LTRB(20, 20, 30, 30), a, false},
		{"empty", Rect{}, a, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := a.Intersect(tt.other)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Intersect(%v) = %v, %v; want %v, %v", tt.other, got, ok, tt.want, tt.wantOK)
			}
			if a.Intersects(tt.other) != tt.wantOK {
				t.Errorf("Intersects(%v) = %v, want %v", tt.other, !tt.wantOK, tt.wantOK)
			}
		})
	}
}

func TestRect_Join(t *testing.T) {
	a := LTRB(0, 0, 10, 10)
	b := LTRB(20, 5, 30, 40)

	if got, want := a.Join(b), LTRB(0, 0, 30, 40); got != want {
		t.Errorf("Join() = %v, want %v", got, want)
	}
	if got := a.Join(Rect{}); got != a {
		t.Errorf("Join(empty) = %v, want %v", got, a)
	}
	if got := (Rect{}).Join(b); got != b {
		t.Errorf("empty.Join() = %v, want %v", got, b)
	}
}

func TestRect_Conversions(t *testing.T) {
	r := RectFromImage(image.Rect(1, 2, 3, 4))
	if r != LTRB(1, 2, 3, 4) {
		t.Errorf("RectFromImage() = %v", r)
	}
	if got, want := LTRB(0.5, 1.2, 9.1, 9.9).RoundOut(), image.Rect(0, 1, 10, 10); got != want {
		t.Errorf("RoundOut() = %v, want %v", got, want)
	}
	if got := (Rect{}).RoundOut(); got != (image.Rectangle{}) {
		t.Errorf("empty RoundOut() = %v, want zero", got)
	}
	if got, want := LTRB(1, 2, 3, 4).Offset(10, 20), LTRB(11, 22, 13, 24); got != want {
		t.Errorf("Offset() = %v, want %v", got, want)
	}
	if got := LTRB(1, 2, 3, 4).String(); got != "(1, 2, 3, 4)" {
		t.Errorf("String() = %q", got)
	}
	if !LTRB(5, 5, 5, 9).Equal(LTRB(1, 1, 0, 0)) {
		t.Error("all empty rects should be Equal")
	}
}

func TestRect_SnapToPixels(t *testing.T) {
	tests := []struct {
		in   Rect
		want Rect
	}{
		{LTRB(0, 0, 10, 10), LTRB(0, 0, 10, 10)},
		{LTRB(0.4, 0.4, 9.4, 9.4), LTRB(0, 0, 9, 9)},
		{LTRB(0.6, 0.5, 9.5, 9.5), LTRB(1, 1, 10, 10)},
		// The left edge needs a larger fraction than the others to round up.
		{LTRB(0.56, 0.56, 10, 10), LTRB(1, 1, 10, 10)},
		{LTRB(0.54, 0.54, 10, 10), LTRB(0, 1, 10, 10)},
	}

	for _, tt := range tests {
		if got := tt.in.snapToPixels(); got != tt.want {
			t.Errorf("%v.snapToPixels() = %v, want %v", tt.in, got, tt.want)
		}
	}
}
