package geom

import (
	"testing"

	"github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func TestRound(t *testing.T) {
	tests := []struct {
		x, m     Int
		round    Int
		down, up Int
	}{
		{x: 0, m: 5, round: 0, down: 0, up: 0},
		{x: 7, m: 5, round: 5, down: 5, up: 10},
		{x: 8, m: 5, round: 10, down: 5, up: 10},
		{x: 5, m: 10, round: 10, down: 0, up: 10},
		{x: -7, m: 5, round: -5, down: -10, up: -5},
		{x: -8, m: 5, round: -10, down: -10, up: -5},
		{x: 130, m: 5, round: 130, down: 130, up: 130},
	}
	for _, tt := range tests {
		if got := Round(tt.x, tt.m); got != tt.round {
			t.Errorf("Round(%d, %d) = %d, want %d", tt.x, tt.m, got, tt.round)
		}
		if got := RoundDown(tt.x, tt.m); got != tt.down {
			t.Errorf("RoundDown(%d, %d) = %d, want %d", tt.x, tt.m, got, tt.down)
		}
		if got := RoundUp(tt.x, tt.m); got != tt.up {
			t.Errorf("RoundUp(%d, %d) = %d, want %d", tt.x, tt.m, got, tt.up)
		}
	}
}

func TestRoundPanicsOnBadMultiple(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for zero multiple")
		}
	}()
	Round(3, 0)
}

func TestSpanNormalized(t *testing.T) {
	s := NewSpan(40, 10)
	if s.Start != 10 || s.Stop != 40 {
		t.Fatalf("NewSpan(40, 10) = %v", s)
	}
	if s.Length() != 30 || s.Center() != 25 {
		t.Fatalf("length/center = %d/%d", s.Length(), s.Center())
	}
	if !s.Contains(10) || !s.Contains(39) || s.Contains(40) || s.Contains(9) {
		t.Fatal("Contains must be half-open")
	}
	if !s.Covers(10) || !s.Covers(40) || s.Covers(41) {
		t.Fatal("Covers must include both edges")
	}
	if NewSpan(0, 10).Intersects(NewSpan(10, 20)) {
		t.Fatal("abutting spans must not intersect")
	}
	if got := NewSpan(0, 10).Union(NewSpan(30, 20)); got != (Span{0, 30}) {
		t.Fatalf("Union = %v", got)
	}
}

func TestFromCenterSpanGridded(t *testing.T) {
	s, err := FromCenterSpanGridded(102, 170, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Length() != 170 || s.Start%5 != 0 {
		t.Fatalf("span %v not gridded", s)
	}
	if _, err := FromCenterSpanGridded(0, 171, 5); err == nil {
		t.Fatal("expected error for off-grid length")
	}
}

func TestRectIntersectionDegenerate(t *testing.T) {
	a := R(0, 0, 10, 10)
	b := R(20, 20, 30, 30)
	if !a.Intersection(b).IsEmpty() {
		t.Fatal("disjoint rects must produce an empty intersection")
	}
	if a.Intersects(b) {
		t.Fatal("Intersects on disjoint rects")
	}
	got := a.Intersection(R(5, -5, 15, 5))
	if got != R(5, 0, 10, 5) {
		t.Fatalf("Intersection = %v", got)
	}
}

func TestRectGrowShrink(t *testing.T) {
	r := R(0, 0, 100, 50)
	tests := []struct {
		name string
		got  Rect
		want Rect
	}{
		{"grow up", r.Grow(Up, 10), R(0, 0, 100, 60)},
		{"grow down", r.Grow(Down, 10), R(0, -10, 100, 50)},
		{"grow left", r.Grow(Left, 10), R(-10, 0, 100, 50)},
		{"grow right", r.Grow(Right, 10), R(0, 0, 110, 50)},
		{"shrink right", r.Shrink(Right, 10), R(0, 0, 90, 50)},
		{"border", r.GrowBorder(5), R(-5, -5, 105, 55)},
		{"negative border", r.GrowBorder(-5), R(5, 5, 95, 45)},
		{"translate left", r.Translate(Left, 20), R(-20, 0, 80, 50)},
		{"translate down", r.Translate(Down, 20), R(0, -20, 100, 30)},
		{"grow dir", r.GrowDir(Vert, 5), R(0, -5, 100, 55)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := R(10, 20, 110, 40)
	if r.LongerDir() != Horiz {
		t.Fatal("wide rect should be horizontal")
	}
	if r.EdgeFartherFrom(0, Horiz) != 110 || r.EdgeFartherFrom(200, Horiz) != 10 {
		t.Fatal("EdgeFartherFrom mismatch")
	}
	if r.EdgeCloserTo(0, Vert) != 20 {
		t.Fatal("EdgeCloserTo mismatch")
	}
	if got := r.WithSpan(Vert, NewSpan(0, 5)); got != R(10, 0, 110, 5) {
		t.Fatalf("WithSpan = %v", got)
	}
	if r.Center() != Pt(60, 30) {
		t.Fatalf("Center = %v", r.Center())
	}
}

func TestOffsets(t *testing.T) {
	ref := R(0, 0, 100, 100)
	r := R(500, 500, 520, 540)
	tests := []struct {
		name string
		off  Point
		want Rect
	}{
		{"right of", OffsetRightOf(r, ref, 10), R(110, 500, 130, 540)},
		{"left of", OffsetLeftOf(r, ref, 10), R(-30, 500, -10, 540)},
		{"above", OffsetAbove(r, ref, 0), R(500, 100, 520, 140)},
		{"beneath", OffsetBeneath(r, ref, 0), R(500, -40, 520, 0)},
		{"align left", OffsetAlignLeft(r, ref), R(0, 500, 20, 540)},
		{"align top", OffsetAlignTop(r, ref), R(500, 60, 520, 100)},
		{"centers", OffsetCentersGridded(r, ref, 5), R(40, 30, 60, 70)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Offset(tt.off); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDir(t *testing.T) {
	for _, s := range []string{"h", "horiz", "horizontal"} {
		if d, err := ParseDir(s); err != nil || d != Horiz {
			t.Fatalf("ParseDir(%q) = %v, %v", s, d, err)
		}
	}
	_, err := ParseDir("diag")
	if _, ok := err.(stackTracer); !ok {
		t.Fatalf("ParseDir(diag) error %v carries no stack", err)
	}
	_, err = FromCenterSpanGridded(0, 7, 5)
	if _, ok := err.(stackTracer); !ok {
		t.Fatalf("off-grid span error %v carries no stack", err)
	}
}
