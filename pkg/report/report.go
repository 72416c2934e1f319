// Package report prints tabular summaries of generated layout: the cells
// of a library, the contact cache, and per-layer geometry of a flattened
// cell.
package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/markkurossi/tabulate"
	"github.com/samber/lo"

	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/layout"
	"github.com/chazu/sramlay/pkg/pdk"
	"github.com/chazu/sramlay/pkg/tech"
)

// Cells prints one row per library cell, children before parents.
func Cells(w io.Writer, lib *layout.Library) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Cell").SetAlign(tabulate.ML)
	tab.Header("Width").SetAlign(tabulate.MR)
	tab.Header("Height").SetAlign(tabulate.MR)
	tab.Header("Elems").SetAlign(tabulate.MR)
	tab.Header("Insts").SetAlign(tabulate.MR)
	tab.Header("Ports").SetAlign(tabulate.ML)

	_ = lib.Walk(func(c *layout.Cell) error {
		bb := c.BBox()
		row := tab.Row()
		row.Column(c.Name)
		row.Column(fmt.Sprintf("%d", bb.Width()))
		row.Column(fmt.Sprintf("%d", bb.Height()))
		row.Column(fmt.Sprintf("%d", len(c.Elems)))
		row.Column(fmt.Sprintf("%d", len(c.Insts)))
		row.Column(portList(c))
		return nil
	})
	row := tab.Row()
	row.Column("Total").SetFormat(tabulate.FmtBold)
	row.Column("")
	row.Column("")
	row.Column(fmt.Sprintf("%d", lo.SumBy(lib.Cells(), func(c *layout.Cell) int { return len(c.Elems) }))).
		SetFormat(tabulate.FmtBold)
	row.Column(fmt.Sprintf("%d", lo.SumBy(lib.Cells(), func(c *layout.Cell) int { return len(c.Insts) }))).
		SetFormat(tabulate.FmtBold)
	row.Column(fmt.Sprintf("%d cells", lib.Len())).SetFormat(tabulate.FmtBold)

	tab.Print(w)
}

func portList(c *layout.Cell) string {
	names := lo.Map(c.Ports, func(p layout.Port, _ int) string { return p.Name })
	slices.Sort(names)
	if len(names) > 6 {
		return fmt.Sprintf("%s ... (%d)", strings.Join(names[:6], " "), len(names))
	}
	return strings.Join(names, " ")
}


// Contacts prints the contact cache of p.
func Contacts(w io.Writer, p *pdk.Pdk) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Contact").SetAlign(tabulate.ML)
	tab.Header("Stack").SetAlign(tabulate.ML)
	tab.Header("Rows").SetAlign(tabulate.MR)
	tab.Header("Cols").SetAlign(tabulate.MR)
	tab.Header("Relaxed").SetAlign(tabulate.ML)
	tab.Header("Size").SetAlign(tabulate.MR)

	for _, ct := range p.Contacts() {
		bb := ct.Outline()
		row := tab.Row()
		row.Column(ct.Cell.Name)
		row.Column(fmt.Sprintf("%s/%s/%s", ct.Stack.Bottom(), ct.Stack.Cut(), ct.Stack.Top()))
		row.Column(fmt.Sprintf("%d", ct.Params.Rows))
		row.Column(fmt.Sprintf("%d", ct.Params.Cols))
		row.Column(ct.Params.Dir.String())
		row.Column(fmt.Sprintf("%dx%d", bb.Width(), bb.Height()))
	}
	tab.Print(w)
}

// LayerStat is the flattened geometry of one layer.
type LayerStat struct {
	Layer  string
	Shapes int
	Area   geom.Int // sum of shape areas; overlaps count twice
	BBox   geom.Rect
}

// Layers computes per-layer statistics of c, in registry order.
func Layers(c *layout.Cell, reg *tech.Layers) []LayerStat {
	byLayer := lo.GroupBy(c.Flatten(), func(fe layout.FlatElement) tech.LayerKey { return fe.Layer })
	var out []LayerStat
	for _, key := range reg.Keys() {
		elems, ok := byLayer[key]
		if !ok {
			continue
		}
		st := LayerStat{Layer: reg.Name(key), Shapes: len(elems), BBox: elems[0].Rect}
		for _, fe := range elems {
			st.Area += fe.Rect.Area()
			st.BBox = st.BBox.Union(fe.Rect)
		}
		out = append(out, st)
	}
	return out
}

// PrintLayers prints the statistics returned by Layers.
func PrintLayers(w io.Writer, c *layout.Cell, reg *tech.Layers) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Layer").SetAlign(tabulate.ML)
	tab.Header("Shapes").SetAlign(tabulate.MR)
	tab.Header("Area").SetAlign(tabulate.MR)
	tab.Header("Extent").SetAlign(tabulate.ML)

	for _, st := range Layers(c, reg) {
		row := tab.Row()
		row.Column(st.Layer)
		row.Column(fmt.Sprintf("%d", st.Shapes))
		row.Column(fmt.Sprintf("%d", st.Area))
		row.Column(st.BBox.String())
	}
	tab.Print(w)
}

// Validation prints the findings of layout.Validate, errors first.
func Validation(w io.Writer, res layout.ValidationResult) {
	if len(res.Errors) == 0 && len(res.Warnings) == 0 {
		fmt.Fprintln(w, "no validation findings")
		return
	}
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Severity").SetAlign(tabulate.ML)
	tab.Header("Cell").SetAlign(tabulate.ML)
	tab.Header("Finding").SetAlign(tabulate.ML)
	for _, f := range append(append([]layout.ValidationError(nil), res.Errors...), res.Warnings...) {
		row := tab.Row()
		row.Column(f.Severity.String())
		row.Column(f.Cell)
		row.Column(f.Message)
	}
	tab.Print(w)
}
