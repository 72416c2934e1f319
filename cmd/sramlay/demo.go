package main

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/array"
	"github.com/chazu/sramlay/pkg/gate"
	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/layout"
	"github.com/chazu/sramlay/pkg/pdk"
	"github.com/chazu/sramlay/pkg/route"
)

const (
	demoRows      = 4
	demoTapsSpace = 2000
)

// buildDemo draws a column of and2 decoder gates, a 2x2 grid of tap and
// diffusion contacts to its right, and routes the first gate's output on
// the nearest m1 track over to the contact grid.
func buildDemo(p *pdk.Pdk) (*layout.Cell, error) {
	dec, err := gate.DrawArray(p, "decoder", gate.And2{Size: gate.DecoderSize}, demoRows, 0)
	if err != nil {
		return nil, err
	}

	var cells []*layout.Cell
	for _, stack := range []string{"ntapc", "ndiffc", "ptapc", "pdiffc"} {
		ct, err := p.GetContact(pdk.ContactParams{Stack: stack, Rows: 2, Cols: 2, Dir: geom.Horiz})
		if err != nil {
			return nil, err
		}
		cells = append(cells, ct.Cell)
	}
	grid, err := array.NewGridLayout([][]*array.Entry{
		{{Cell: cells[0]}, {Cell: cells[1]}},
		{{Cell: cells[2]}, {Cell: cells[3], FlipX: true}},
	})
	if err != nil {
		return nil, err
	}
	taps := grid.Draw("taps", geom.Pt(0, 0))

	decInst := layout.NewInstance("decoder", dec)
	tapInst := layout.NewInstance("taps", taps).
		AlignRightOf(decInst.BBox(), demoTapsSpace).
		AlignCentersVerticallyGridded(decInst.BBox(), p.Grid())

	// The output of the first gate, in top-level coordinates.
	first := dec.Inst("cell_0")
	if first == nil {
		return nil, errors.New("decoder has no cell_0")
	}
	y, err := first.Port("Y")
	if err != nil {
		return nil, err
	}
	li := p.MustKey("li")
	out, ok := y.Transformed(decInst.Transform()).Largest(li)
	if !ok {
		return nil, errors.New("decoder output has no li shape")
	}

	m1 := p.Config().MustLayer("m1")
	tracks, err := route.NewGrid(m1.Width, m1.Space, geom.Pt(0, 0), p.Grid())
	if err != nil {
		return nil, err
	}
	track := tracks.GetTrack(geom.Horiz, out.Center().Y, route.Nearest)

	router, err := route.NewRouter("demo_routing", p)
	if err != nil {
		return nil, err
	}
	router.Trace(out, "li").Up().Vert(track.Center()).Horiz(tapInst.BBox().Left())
	routed, err := router.Finish()
	if err != nil {
		return nil, err
	}

	top := layout.NewCell("demo").AddInst(decInst).AddInst(tapInst).AddInst(routed)
	for i := 0; i < demoRows; i++ {
		inst := dec.Inst("cell_" + strconv.Itoa(i))
		for _, port := range []string{"A", "B", "Y"} {
			pp, err := inst.Port(port)
			if err != nil {
				return nil, err
			}
			top.AddPort(pp.Transformed(decInst.Transform()).Named(port + strconv.Itoa(i)))
		}
	}
	return top, nil
}
