package geom

import "fmt"

// Rect is an axis-aligned rectangle with P0 the lower-left and P1 the
// upper-right corner.
type Rect struct {
	P0 Point `json:"p0"`
	P1 Point `json:"p1"`
}

// FromCorners returns the rectangle spanned by two opposite corners given
// in any order.
func FromCorners(a, b Point) Rect {
	return Rect{
		P0: Point{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
		P1: Point{X: max(a.X, b.X), Y: max(a.Y, b.Y)},
	}
}

// R is shorthand for FromCorners(Pt(x0, y0), Pt(x1, y1)).
func R(x0, y0, x1, y1 Int) Rect {
	return FromCorners(Pt(x0, y0), Pt(x1, y1))
}

// FromSpans builds a rectangle from its X and Y spans.
func FromSpans(x, y Span) Rect {
	return Rect{P0: Point{X: x.Start, Y: y.Start}, P1: Point{X: x.Stop, Y: y.Stop}}
}

// FromDirSpans builds a rectangle with span s along dir and o along the
// other direction.
func FromDirSpans(dir Dir, s, o Span) Rect {
	if dir == Horiz {
		return FromSpans(s, o)
	}
	return FromSpans(o, s)
}

// LLWH builds a rectangle from its lower-left corner, width, and height.
func LLWH(x, y, w, h Int) Rect {
	return Rect{P0: Point{X: x, Y: y}, P1: Point{X: x + w, Y: y + h}}
}

func (r Rect) Width() Int  { return r.P1.X - r.P0.X }
func (r Rect) Height() Int { return r.P1.Y - r.P0.Y }
func (r Rect) Left() Int   { return r.P0.X }
func (r Rect) Right() Int  { return r.P1.X }
func (r Rect) Bottom() Int { return r.P0.Y }
func (r Rect) Top() Int    { return r.P1.Y }

// Area returns width times height; negative for inverted rectangles.
func (r Rect) Area() Int { return r.Width() * r.Height() }

// IsEmpty reports whether the rectangle has zero or negative extent on
// either axis.
func (r Rect) IsEmpty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Center returns the center point, rounded toward the lower-left.
func (r Rect) Center() Point {
	return Point{X: r.HSpan().Center(), Y: r.VSpan().Center()}
}

// HSpan returns the span along X.
func (r Rect) HSpan() Span { return Span{Start: r.P0.X, Stop: r.P1.X} }

// VSpan returns the span along Y.
func (r Rect) VSpan() Span { return Span{Start: r.P0.Y, Stop: r.P1.Y} }

// Span returns the span of r along dir.
func (r Rect) Span(dir Dir) Span {
	if dir == Horiz {
		return r.HSpan()
	}
	return r.VSpan()
}

// WithSpan returns r with its span along dir replaced by s.
func (r Rect) WithSpan(dir Dir, s Span) Rect {
	return FromDirSpans(dir, s, r.Span(dir.Other()))
}

// LowerEdge returns the lower coordinate of r along dir.
func (r Rect) LowerEdge(dir Dir) Int { return r.Span(dir).Start }

// UpperEdge returns the upper coordinate of r along dir.
func (r Rect) UpperEdge(dir Dir) Int { return r.Span(dir).Stop }

// EdgeFartherFrom returns whichever edge of r along dir is farther from x.
func (r Rect) EdgeFartherFrom(x Int, dir Dir) Int {
	s := r.Span(dir)
	if x-s.Start > s.Stop-x {
		return s.Start
	}
	return s.Stop
}

// EdgeCloserTo returns whichever edge of r along dir is closer to x.
func (r Rect) EdgeCloserTo(x Int, dir Dir) Int {
	s := r.Span(dir)
	if x-s.Start > s.Stop-x {
		return s.Stop
	}
	return s.Start
}

// LongerDir returns the axis along which r is longer; ties are Vert.
func (r Rect) LongerDir() Dir {
	if r.Width() > r.Height() {
		return Horiz
	}
	return Vert
}

// Union returns the bounding box of r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		P0: Point{X: min(r.P0.X, o.P0.X), Y: min(r.P0.Y, o.P0.Y)},
		P1: Point{X: max(r.P1.X, o.P1.X), Y: max(r.P1.Y, o.P1.Y)},
	}
}

// Intersection returns the overlap of r and o. Disjoint inputs produce a
// degenerate rectangle with zero or negative extent; check IsEmpty before
// using the result.
func (r Rect) Intersection(o Rect) Rect {
	return Rect{
		P0: Point{X: max(r.P0.X, o.P0.X), Y: max(r.P0.Y, o.P0.Y)},
		P1: Point{X: min(r.P1.X, o.P1.X), Y: min(r.P1.Y, o.P1.Y)},
	}
}

// Intersects reports whether r and o overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return !r.Intersection(o).IsEmpty()
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.P0.X >= r.P0.X && o.P0.Y >= r.P0.Y && o.P1.X <= r.P1.X && o.P1.Y <= r.P1.Y
}

// Translate moves r by d along side.
func (r Rect) Translate(side Side, d Int) Rect {
	switch side {
	case Up:
		return r.Offset(Pt(0, d))
	case Down:
		return r.Offset(Pt(0, -d))
	case Left:
		return r.Offset(Pt(-d, 0))
	default:
		return r.Offset(Pt(d, 0))
	}
}

// Offset moves r by the vector p.
func (r Rect) Offset(p Point) Rect {
	return Rect{P0: r.P0.Add(p), P1: r.P1.Add(p)}
}

// Grow moves the edge on side outward by d. A negative d moves it inward.
func (r Rect) Grow(side Side, d Int) Rect {
	switch side {
	case Up:
		r.P1.Y += d
	case Down:
		r.P0.Y -= d
	case Left:
		r.P0.X -= d
	default:
		r.P1.X += d
	}
	return r
}

// Shrink moves the edge on side inward by d.
func (r Rect) Shrink(side Side, d Int) Rect {
	return r.Grow(side, -d)
}

// GrowBorder expands every edge by margin. A negative margin shrinks.
func (r Rect) GrowBorder(margin Int) Rect {
	return Rect{
		P0: Point{X: r.P0.X - margin, Y: r.P0.Y - margin},
		P1: Point{X: r.P1.X + margin, Y: r.P1.Y + margin},
	}
}

// GrowDir expands both edges along dir by d.
func (r Rect) GrowDir(dir Dir, d Int) Rect {
	s := r.Span(dir)
	return r.WithSpan(dir, Span{Start: s.Start - d, Stop: s.Stop + d})
}

// IsOnGrid reports whether both corners lie on the grid.
func (r Rect) IsOnGrid(grid Int) bool {
	return r.P0.IsOnGrid(grid) && r.P1.IsOnGrid(grid)
}

func (r Rect) String() string {
	return fmt.Sprintf("[%v %v]", r.P0, r.P1)
}
