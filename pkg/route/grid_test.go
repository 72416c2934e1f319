package route

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/geom"
)

func TestTrackIndexRoundTrip(t *testing.T) {
	grids := []struct {
		line, space geom.Int
		center      geom.Point
	}{
		{170, 170, geom.Pt(0, 0)},
		{140, 140, geom.Pt(1000, -2000)},
		{300, 300, geom.Pt(150, 150)},
		{150, 210, geom.Pt(75, 5075)},
	}
	for _, gc := range grids {
		g, err := NewGrid(gc.line, gc.space, gc.center, 5)
		if err != nil {
			t.Fatalf("NewGrid(%d, %d, %v): %v", gc.line, gc.space, gc.center, err)
		}
		for _, dir := range []geom.Dir{geom.Horiz, geom.Vert} {
			for i := -25; i <= 25; i++ {
				tr := g.Track(dir, i)
				if tr.Start%5 != 0 {
					t.Fatalf("track %d starts off grid at %d", i, tr.Start)
				}
				if got := g.GetTrackIndex(dir, tr.Start, StartsBeyond); got != i {
					t.Errorf("%v %s: StartsBeyond(start of %d) = %d", gc, dir, i, got)
				}
				if got := g.GetTrackIndex(dir, tr.Stop, EndsBefore); got != i {
					t.Errorf("%v %s: EndsBefore(stop of %d) = %d", gc, dir, i, got)
				}
				if got := g.GetTrackIndex(dir, tr.Center(), Nearest); got != i {
					t.Errorf("%v %s: Nearest(center of %d) = %d", gc, dir, i, got)
				}
			}
		}
	}
}

func TestTrackFormula(t *testing.T) {
	g, err := NewGrid(170, 170, geom.Pt(85, 1085), 5)
	if err != nil {
		t.Fatal(err)
	}
	if got := g.HTrack(0); got != (geom.Span{Start: 1000, Stop: 1170}) {
		t.Fatalf("HTrack(0) = %v", got)
	}
	if got := g.VTrack(2); got != (geom.Span{Start: 680, Stop: 850}) {
		t.Fatalf("VTrack(2) = %v", got)
	}
	if got := g.VTrack(-1); got != (geom.Span{Start: -340, Stop: -170}) {
		t.Fatalf("VTrack(-1) = %v", got)
	}
}

func TestTrackLocators(t *testing.T) {
	g, err := NewGrid(100, 100, geom.Pt(50, 50), 5)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		pos  geom.Int
		loc  TrackLocator
		want int
	}{
		{10, StartsBeyond, 1},
		{0, StartsBeyond, 0},
		{-10, StartsBeyond, 0},
		{250, EndsBefore, 0},
		{300, EndsBefore, 1},
		{190, Nearest, 1},
		{90, Nearest, 0},
		{-160, Nearest, -1},
	}
	for _, tt := range tests {
		if got := g.GetTrackIndex(geom.Vert, tt.pos, tt.loc); got != tt.want {
			t.Errorf("GetTrackIndex(%d, %s) = %d, want %d", tt.pos, tt.loc, got, tt.want)
		}
	}
}

func TestNewGridRejects(t *testing.T) {
	tests := []struct {
		name        string
		line, space geom.Int
		center      geom.Point
	}{
		{"zero line", 0, 100, geom.Pt(0, 0)},
		{"negative space", 100, -5, geom.Pt(50, 50)},
		{"line off grid", 102, 98, geom.Pt(51, 51)},
		{"pitch off grid", 100, 103, geom.Pt(50, 50)},
		{"start off grid", 100, 100, geom.Pt(52, 50)},
	}
	for _, tt := range tests {
		if _, err := NewGrid(tt.line, tt.space, tt.center, 5); !errors.Is(err, ErrInvalidGrid) {
			t.Errorf("%s: err = %v", tt.name, err)
		}
	}
}
