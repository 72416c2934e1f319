package array

import (
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/layout"
)

// FlipMode selects which positions of an array are mirrored.
type FlipMode int

const (
	NoFlip FlipMode = iota
	AlternateFlipHorizontal
	AlternateFlipVertical
)

func (m FlipMode) String() string {
	switch m {
	case NoFlip:
		return "none"
	case AlternateFlipHorizontal:
		return "alternate-horizontal"
	case AlternateFlipVertical:
		return "alternate-vertical"
	default:
		return fmt.Sprintf("FlipMode(%d)", int(m))
	}
}

// ParseFlipMode accepts the names printed by String, plus "", "horizontal"
// and "vertical".
func ParseFlipMode(s string) (FlipMode, error) {
	switch s {
	case "", "none":
		return NoFlip, nil
	case "alternate-horizontal", "horizontal":
		return AlternateFlipHorizontal, nil
	case "alternate-vertical", "vertical":
		return AlternateFlipVertical, nil
	}
	return NoFlip, errors.Errorf("unknown flip mode %q", s)
}

// Entry is one array position: a cell and its mirror flags.
type Entry struct {
	Cell  *layout.Cell
	FlipX bool // mirror about the vertical axis
	FlipY bool // mirror about the horizontal axis
}

// Params describes a one-dimensional array.
type Params struct {
	Name      string
	Entries   []Entry
	Direction geom.Dir
	// Pitch overrides the step between entries. Zero steps each entry by
	// its own extent along Direction.
	Pitch geom.Int
	Flip  FlipMode
	// FlipToggle moves the alternate flips from even to odd positions.
	FlipToggle bool
}

// Repeat returns n unflipped entries of c.
func Repeat(c *layout.Cell, n int) []Entry {
	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = Entry{Cell: c}
	}
	return entries
}

func logger() *slog.Logger {
	return slog.Default().With(slog.String("component", "array"))
}

// DrawCellArray places the entries end to end along the direction, the
// i-th as instance cell_<i> at the sum of the preceding pitches.
func DrawCellArray(p Params) (*layout.Cell, error) {
	if len(p.Entries) == 0 {
		return nil, errors.Wrapf(ErrEmptyArray, "array %s", p.Name)
	}
	if p.Pitch < 0 {
		return nil, errors.Wrapf(ErrBadPitch, "array %s: pitch %d", p.Name, p.Pitch)
	}
	out := layout.NewCell(p.Name)
	var offset geom.Int
	for i, e := range p.Entries {
		if e.Cell == nil {
			return nil, errors.Wrapf(ErrEmptyArray, "array %s: entry %d has no cell", p.Name, i)
		}
		inst := layout.NewInstance(fmt.Sprintf("cell_%d", i), e.Cell)
		if e.FlipX {
			inst.Sideways()
		}
		if e.FlipY {
			inst.UpsideDown()
		}
		if (i%2 == 0) != p.FlipToggle {
			switch p.Flip {
			case AlternateFlipHorizontal:
				inst.Sideways()
			case AlternateFlipVertical:
				inst.UpsideDown()
			}
		}
		if p.Direction == geom.Horiz {
			inst.MoveTo(geom.Pt(offset, 0))
		} else {
			inst.MoveTo(geom.Pt(0, offset))
		}
		out.AddInst(inst)

		step := p.Pitch
		if step == 0 {
			step = e.Cell.BBox().Span(p.Direction).Length()
		}
		offset += step
	}
	logger().Debug("drew array", slog.String("cell", p.Name), slog.Int("entries", len(p.Entries)),
		slog.String("dir", p.Direction.String()))
	return out, nil
}
