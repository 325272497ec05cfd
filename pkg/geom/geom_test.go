package geom

import (
	"math"
	"testing"
)

func TestVecMath(t *testing.T) {
	a := Vec{3, 4}
	b := Vec{1, 2}

	if got := a.Add(b); got != (Vec{4, 6}) {
		t.Errorf("Add = %v, want {4 6}", got)
	}
	if got := a.Sub(b); got != (Vec{2, 2}) {
		t.Errorf("Sub = %v, want {2 2}", got)
	}
	if got := a.Scale(2); got != (Vec{6, 8}) {
		t.Errorf("Scale = %v, want {6 8}", got)
	}
	if got := a.Len(); got != 5 {
		t.Errorf("Len = %v, want 5", got)
	}
	if got := (Vec{0, 0}).Dist(a); got != 5 {
		t.Errorf("Dist = %v, want 5", got)
	}
}

func TestRectUnion(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{
			name: "Disjoint",
			a:    Rect{Vec{0, 0}, Vec{1, 1}},
			b:    Rect{Vec{2, 2}, Vec{3, 3}},
			want: Rect{Vec{0, 0}, Vec{3, 3}},
		},
		{
			name: "EmptyLeft",
			a:    Rect{},
			b:    Rect{Vec{2, 2}, Vec{3, 3}},
			want: Rect{Vec{2, 2}, Vec{3, 3}},
		},
		{
			name: "EmptyRight",
			a:    Rect{Vec{-1, -1}, Vec{1, 1}},
			b:    Rect{},
			want: Rect{Vec{-1, -1}, Vec{1, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Union(tt.b); got != tt.want {
				t.Errorf("Union = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectExpandAndContains(t *testing.T) {
	r := Rect{Vec{0, 0}, Vec{10, 10}}.Expand(5)
	if r.Min != (Vec{-5, -5}) || r.Max != (Vec{15, 15}) {
		t.Fatalf("Expand = %v", r)
	}
	if !r.Contains(Vec{-5, 15}) {
		t.Error("Contains should be inclusive of edges")
	}
	if r.Contains(Vec{-5.1, 0}) {
		t.Error("Contains accepted a point outside the rect")
	}
}

func TestCircleBounds(t *testing.T) {
	r := CircleBounds(Vec{100, 50}, 20)
	if r.Min != (Vec{80, 30}) || r.Max != (Vec{120, 70}) {
		t.Errorf("CircleBounds = %v", r)
	}
	if r.Width() != 40 || r.Height() != 40 {
		t.Errorf("size = %v x %v, want 40 x 40", r.Width(), r.Height())
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 10); got != 5 {
		t.Errorf("Clamp(5,0,10) = %v", got)
	}
	if got := Clamp(-1, 0, 10); got != 0 {
		t.Errorf("Clamp(-1,0,10) = %v", got)
	}
	if got := Clamp(11, 0, 10); got != 10 {
		t.Errorf("Clamp(11,0,10) = %v", got)
	}
	if got := Clamp(math.Inf(1), 0, 10); got != 10 {
		t.Errorf("Clamp(+Inf,0,10) = %v", got)
	}
}
