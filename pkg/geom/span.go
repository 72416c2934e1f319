package geom

import (
	"fmt"

	"github.com/pkg/errors"
)

// Span is the half-open interval [Start, Stop) along one axis. Start <= Stop
// always holds for spans built with NewSpan. Abutting spans do not overlap.
type Span struct {
	Start Int `json:"start"`
	Stop  Int `json:"stop"`
}

// NewSpan returns the span between a and b in either order.
func NewSpan(a, b Int) Span {
	if a > b {
		a, b = b, a
	}
	return Span{Start: a, Stop: b}
}

// FromCenterSpan returns the span of length l centered at c.
func FromCenterSpan(c, l Int) Span {
	return Span{Start: c - l/2, Stop: c - l/2 + l}
}

// FromCenterSpanGridded returns a span of length l whose start is snapped
// to grid and whose center is as close to c as the grid allows. l must be a
// positive multiple of grid.
func FromCenterSpanGridded(c, l, grid Int) (Span, error) {
	if l <= 0 || grid <= 0 || l%grid != 0 {
		return Span{}, errors.Errorf("span length %d is not a positive multiple of grid %d", l, grid)
	}
	start := Round(c-l/2, grid)
	return Span{Start: start, Stop: start + l}, nil
}

// Length returns Stop - Start.
func (s Span) Length() Int { return s.Stop - s.Start }

// Center returns the midpoint, rounded toward Start.
func (s Span) Center() Int { return s.Start + (s.Stop-s.Start)/2 }

// Contains reports whether x lies in [Start, Stop).
func (s Span) Contains(x Int) bool { return x >= s.Start && x < s.Stop }

// Covers reports whether x lies in [Start, Stop], counting the upper edge.
func (s Span) Covers(x Int) bool { return x >= s.Start && x <= s.Stop }

// Intersects reports whether the spans share more than a single point.
func (s Span) Intersects(o Span) bool {
	return s.Start < o.Stop && o.Start < s.Stop
}

// Union returns the smallest span covering both.
func (s Span) Union(o Span) Span {
	return Span{Start: min(s.Start, o.Start), Stop: max(s.Stop, o.Stop)}
}

// Add extends the span to include x.
func (s Span) Add(x Int) Span {
	return Span{Start: min(s.Start, x), Stop: max(s.Stop, x)}
}

// Edge returns Stop when upper is true, else Start.
func (s Span) Edge(upper bool) Int {
	if upper {
		return s.Stop
	}
	return s.Start
}

// Translate shifts the span by d.
func (s Span) Translate(d Int) Span {
	return Span{Start: s.Start + d, Stop: s.Stop + d}
}

func (s Span) String() string {
	return fmt.Sprintf("[%d, %d]", s.Start, s.Stop)
}
