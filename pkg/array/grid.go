package array

import (
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/layout"
)

// GridLayout is a validated table of optional entries. A nil entry leaves
// its slot empty.
type GridLayout struct {
	rows    [][]*Entry
	heights []geom.Int
	widths  []geom.Int
}

// NewGridLayout checks the table and infers the row heights and column
// widths. Short rows are padded with empty slots. A row or column with no
// entries has no size and is rejected.
func NewGridLayout(rows [][]*Entry) (*GridLayout, error) {
	if len(rows) == 0 {
		return nil, errors.Wrap(ErrEmptyTrack, "grid has no rows")
	}
	ncols := 0
	for _, r := range rows {
		ncols = max(ncols, len(r))
	}
	g := &GridLayout{
		rows:    make([][]*Entry, len(rows)),
		heights: make([]geom.Int, len(rows)),
		widths:  make([]geom.Int, ncols),
	}
	for i, r := range rows {
		g.rows[i] = make([]*Entry, ncols)
		copy(g.rows[i], r)
	}

	for i, r := range g.rows {
		for j, e := range r {
			if e == nil || e.Cell == nil {
				r[j] = nil
				continue
			}
			bb := e.Cell.BBox()
			if err := settle(&g.heights[i], bb.Height(), "row", i, j, e.Cell.Name); err != nil {
				return nil, err
			}
			if err := settle(&g.widths[j], bb.Width(), "column", i, j, e.Cell.Name); err != nil {
				return nil, err
			}
		}
	}
	for i, h := range g.heights {
		if h == 0 {
			return nil, errors.Wrapf(ErrEmptyTrack, "row %d", i)
		}
	}
	for j, w := range g.widths {
		if w == 0 {
			return nil, errors.Wrapf(ErrEmptyTrack, "column %d", j)
		}
	}
	return g, nil
}

func settle(slot *geom.Int, v geom.Int, track string, i, j int, cell string) error {
	if v <= 0 {
		return errors.Wrapf(ErrSizeMismatch, "entry (%d, %d) %s has an empty bounding box", i, j, cell)
	}
	if *slot == 0 {
		*slot = v
		return nil
	}
	if *slot != v {
		return errors.Wrapf(ErrSizeMismatch, "entry (%d, %d) %s is %d across, %s expects %d", i, j, cell, v, track, *slot)
	}
	return nil
}

// RowHeights returns the height of each row, top row first.
func (g *GridLayout) RowHeights() []geom.Int { return append([]geom.Int(nil), g.heights...) }

// ColWidths returns the width of each column, left column first.
func (g *GridLayout) ColWidths() []geom.Int { return append([]geom.Int(nil), g.widths...) }

// Size returns the number of rows and columns.
func (g *GridLayout) Size() (rows, cols int) { return len(g.heights), len(g.widths) }

// Draw places entry (i, j) with its lower-left corner at
// (anchor.X + sum of widths left of j, anchor.Y - sum of heights above i).
// Rows grow downward from the anchor row.
func (g *GridLayout) Draw(name string, anchor geom.Point) *layout.Cell {
	out := layout.NewCell(name)
	y := anchor.Y
	for i, r := range g.rows {
		if i > 0 {
			y -= g.heights[i-1]
		}
		x := anchor.X
		for j, e := range r {
			if j > 0 {
				x += g.widths[j-1]
			}
			if e == nil {
				continue
			}
			inst := layout.NewInstance(fmt.Sprintf("cell_%d_%d", i, j), e.Cell)
			if e.FlipX {
				inst.Sideways()
			}
			if e.FlipY {
				inst.UpsideDown()
			}
			out.AddInst(inst.MoveTo(geom.Pt(x, y)))
		}
	}
	logger().Debug("drew grid", slog.String("cell", name),
		slog.Int("rows", len(g.heights)), slog.Int("cols", len(g.widths)))
	return out
}
