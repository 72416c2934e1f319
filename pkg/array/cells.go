package array

import "github.com/chazu/sramlay/pkg/layout"

// GridCells holds rows of already built instances that are packed by
// alignment rather than by a size table. Rows may differ in length and
// entries may differ in size.
type GridCells struct {
	rows [][]*layout.Instance
}

// AddRow appends a row.
func (g *GridCells) AddRow(row ...*layout.Instance) {
	g.rows = append(g.rows, row)
}

// Place moves every instance: each sits to the right of its predecessor,
// bottoms aligned, and each row's first instance sits beneath the previous
// row's first instance, left edges aligned. The first instance keeps its
// location.
func (g *GridCells) Place() {
	var rowHead *layout.Instance
	for _, row := range g.rows {
		var prev *layout.Instance
		for _, inst := range row {
			switch {
			case prev != nil:
				inst.AlignRightOf(prev.BBox(), 0).AlignBottom(prev.BBox())
			case rowHead != nil:
				inst.AlignBeneath(rowHead.BBox(), 0).AlignLeft(rowHead.BBox())
			}
			if prev == nil {
				rowHead = inst
			}
			prev = inst
		}
	}
}

// Instances returns every instance in row order.
func (g *GridCells) Instances() []*layout.Instance {
	var out []*layout.Instance
	for _, row := range g.rows {
		out = append(out, row...)
	}
	return out
}

// Cell places the instances and collects them into a new cell.
func (g *GridCells) Cell(name string) *layout.Cell {
	g.Place()
	c := layout.NewCell(name)
	for _, inst := range g.Instances() {
		c.AddInst(inst)
	}
	return c
}
