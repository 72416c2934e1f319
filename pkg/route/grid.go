package route

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/geom"
)

// TrackLocator selects which track GetTrackIndex returns.
type TrackLocator int

const (
	// Nearest is the track whose center is nearest the position.
	Nearest TrackLocator = iota
	// StartsBeyond is the first track starting at or after the position.
	StartsBeyond
	// EndsBefore is the last track ending at or before the position.
	EndsBefore
)

func (l TrackLocator) String() string {
	switch l {
	case Nearest:
		return "nearest"
	case StartsBeyond:
		return "starts-beyond"
	case EndsBefore:
		return "ends-before"
	default:
		return fmt.Sprintf("TrackLocator(%d)", int(l))
	}
}

// Grid is a periodic set of routing tracks of width line separated by
// space. Track 0 is centered on center. Tracks are derived on demand.
type Grid struct {
	line   geom.Int
	space  geom.Int
	center geom.Point
	grid   geom.Int
}

// NewGrid returns a track grid. Every track it can produce starts on the
// process grid; geometries that would violate this are rejected here.
func NewGrid(line, space geom.Int, center geom.Point, grid geom.Int) (*Grid, error) {
	if line <= 0 || space < 0 || grid <= 0 {
		return nil, errors.Wrapf(ErrInvalidGrid, "line %d, space %d, grid %d", line, space, grid)
	}
	if line%grid != 0 || (line+space)%grid != 0 {
		return nil, errors.Wrapf(ErrInvalidGrid, "line %d and pitch %d must be multiples of grid %d", line, line+space, grid)
	}
	for _, dir := range []geom.Dir{geom.Horiz, geom.Vert} {
		if start := center.Coord(dir.Other()) - line/2; start%grid != 0 {
			return nil, errors.Wrapf(ErrInvalidGrid, "%s tracks start at %d, off grid %d", dir, start, grid)
		}
	}
	return &Grid{line: line, space: space, center: center, grid: grid}, nil
}

// Pitch returns line + space.
func (g *Grid) Pitch() geom.Int { return g.line + g.space }

// Line returns the track width.
func (g *Grid) Line() geom.Int { return g.line }

// Track returns the cross-axis span of the i-th track running in dir.
func (g *Grid) Track(dir geom.Dir, i int) geom.Span {
	start := g.center.Coord(dir.Other()) - g.line/2 + geom.Int(i)*g.Pitch()
	return geom.Span{Start: start, Stop: start + g.line}
}

// HTrack returns the i-th horizontal track.
func (g *Grid) HTrack(i int) geom.Span { return g.Track(geom.Horiz, i) }

// VTrack returns the i-th vertical track.
func (g *Grid) VTrack(i int) geom.Span { return g.Track(geom.Vert, i) }

// GetTrackIndex returns the index of the track in dir selected by loc for
// the cross-axis position pos. It starts from the nearest pitch multiple
// and walks one track at a time.
func (g *Grid) GetTrackIndex(dir geom.Dir, pos geom.Int, loc TrackLocator) int {
	m := g.Pitch()
	idx := int(geom.Round(pos-g.center.Coord(dir.Other()), m) / m)

	switch loc {
	case StartsBeyond:
		for g.Track(dir, idx).Start < pos {
			idx++
		}
		for g.Track(dir, idx-1).Start >= pos {
			idx--
		}
	case EndsBefore:
		for g.Track(dir, idx).Stop > pos {
			idx--
		}
		for g.Track(dir, idx+1).Stop <= pos {
			idx++
		}
	default:
		dist := func(i int) geom.Int {
			d := g.Track(dir, i).Center() - pos
			if d < 0 {
				return -d
			}
			return d
		}
		for dist(idx+1) < dist(idx) {
			idx++
		}
		for dist(idx-1) < dist(idx) {
			idx--
		}
	}
	return idx
}

// GetTrack returns the track selected by GetTrackIndex.
func (g *Grid) GetTrack(dir geom.Dir, pos geom.Int, loc TrackLocator) geom.Span {
	return g.Track(dir, g.GetTrackIndex(dir, pos, loc))
}
