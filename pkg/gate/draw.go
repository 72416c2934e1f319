package gate

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/layout"
	"github.com/chazu/sramlay/pkg/pdk"
	"github.com/chazu/sramlay/pkg/route"
)

func drawInv(p *pdk.Pdk, name string, s Size) (*layout.Cell, error) {
	m, err := drawStack(p, name, s, 1, nil)
	if err != nil {
		return nil, err
	}
	n, err := m.sd(0, 1)
	if err != nil {
		return nil, err
	}
	pd, err := m.sd(1, 1)
	if err != nil {
		return nil, err
	}
	return m.finish(p, name, []geom.Rect{n.Union(pd)}, map[string]string{
		"g0": "A", "sd_0_0": "VSS", "sd_1_0": "VDD",
	})
}

func drawNand2(p *pdk.Pdk, name string, s Size) (*layout.Cell, error) {
	m, err := drawStack(p, name, s, 2, []int{1})
	if err != nil {
		return nil, err
	}
	ndrain, err := m.sd(0, 2)
	if err != nil {
		return nil, err
	}
	pdrain0, err := m.sd(1, 0)
	if err != nil {
		return nil, err
	}
	pdrain1, err := m.sd(1, 2)
	if err != nil {
		return nil, err
	}

	li := p.Config().MustLayer("li")
	xlim := pdrain0.Left() - li.Space
	x, err := geom.FromCenterSpanGridded((ndrain.Right()+pdrain1.Left())/2, li.Width, p.Grid())
	if err != nil {
		return nil, err
	}
	if x.Stop > xlim {
		x = x.Translate(xlim - x.Stop)
	}
	if x.Start < ndrain.Right()+li.Space {
		return nil, errors.Wrapf(ErrNoRoom, "strap %v between %v and %v", x, ndrain, pdrain0)
	}

	out := []geom.Rect{
		ndrain.Union(pdrain1),
		geom.FromSpans(x, geom.NewSpan(pdrain0.Bottom(), pdrain1.Top())),
		geom.FromSpans(geom.NewSpan(x.Start, pdrain0.Right()), pdrain0.VSpan()),
	}
	return m.finish(p, name, out, map[string]string{
		"g0": "A", "g1": "B", "sd_0_0": "VSS", "sd_1_1": "VDD",
	})
}

func drawNand3(p *pdk.Pdk, name string, s Size) (*layout.Cell, error) {
	m, err := drawStack(p, name, s, 3, []int{1, 2})
	if err != nil {
		return nil, err
	}
	ny, err := m.sd(0, 3)
	if err != nil {
		return nil, err
	}
	py1, err := m.sd(1, 0)
	if err != nil {
		return nil, err
	}
	py2, err := m.sd(1, 2)
	if err != nil {
		return nil, err
	}

	li := p.Config().MustLayer("li")
	low, high := ny.Right()+li.Space, py1.Left()-li.Space
	if high-low < li.Width {
		return nil, errors.Wrapf(ErrNoRoom, "%d available, %d needed", high-low, li.Width)
	}
	x, err := geom.FromCenterSpanGridded((low+high)/2, li.Width, p.Grid())
	if err != nil {
		return nil, err
	}
	if x.Start < low || x.Stop > high {
		return nil, errors.Wrapf(ErrNoRoom, "strap %v outside [%d, %d]", x, low, high)
	}

	out := []geom.Rect{
		geom.FromSpans(geom.NewSpan(ny.Left(), x.Stop), ny.VSpan()),
		geom.FromSpans(x, geom.NewSpan(py1.Bottom(), ny.Top())),
		geom.FromSpans(geom.NewSpan(x.Start, py1.Right()), py1.VSpan()),
		geom.FromSpans(geom.NewSpan(x.Start, py2.Right()), py2.VSpan()),
	}
	return m.finish(p, name, out, map[string]string{
		"g0": "C", "g1": "B", "g2": "A", "sd_0_0": "VSS", "sd_1_1": "VDD", "sd_1_3": "VDD",
	})
}

// andSpace separates the nand from its output inverter.
const andSpace geom.Int = 1000

func drawAnd(p *pdk.Pdk, name string, nand Gate, inv Size) (*layout.Cell, error) {
	nc, err := Draw(p, name+"_nand", nand)
	if err != nil {
		return nil, err
	}
	ic, err := drawInv(p, name+"_inv", inv)
	if err != nil {
		return nil, err
	}

	nandInst := layout.NewInstance("nand", nc).MoveTo(nc.BBox().P0)
	invInst := layout.NewInstance("inv", ic)
	invInst.AlignCentersVerticallyGridded(nandInst.BBox(), p.Grid())
	invInst.AlignRightOf(nandInst.BBox(), andSpace)

	li := p.MustKey("li")
	y, err := nandInst.Port("Y")
	if err != nil {
		return nil, err
	}
	a, err := invInst.Port("A")
	if err != nil {
		return nil, err
	}
	src, _ := y.Largest(li)
	dst, ok := a.Largest(li)
	if !ok {
		return nil, errors.Wrapf(layout.ErrNoSuchPort, "inverter input has no li")
	}

	router, err := route.NewRouter(name+"_routing", p)
	if err != nil {
		return nil, err
	}
	router.Trace(src, "li").SBend(dst, geom.Horiz)
	routed, err := router.Finish()
	if err != nil {
		return nil, err
	}

	c := layout.NewCell(name).AddInst(nandInst).AddInst(invInst).AddInst(routed)
	for _, port := range nandInst.Ports() {
		if lo.Contains([]string{"A", "B", "C", "VDD", "VSS"}, port.Name) {
			c.AddPort(port)
		}
	}
	for _, port := range invInst.Ports() {
		if lo.Contains([]string{"Y", "VDD", "VSS"}, port.Name) {
			c.AddPort(port)
		}
	}
	return c, nil
}

func sortedKeys(m map[string]string) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}
