// Package svg renders a flattened layout as an SVG drawing with one group
// per layer, colored from the rule deck.
package svg

import (
	"fmt"
	"io"
	"slices"

	svgo "github.com/ajstarks/svgo"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/layout"
	"github.com/chazu/sramlay/pkg/pdk"
	"github.com/chazu/sramlay/pkg/tech"
)

// Exporter writes SVG drawings. Layout units map one to one onto user
// units; Width sets the rendered size in pixels.
type Exporter struct {
	pdk *pdk.Pdk

	Width   int
	Margin  geom.Int
	Opacity float64
	Ports   bool
}

// New returns an exporter with port labels enabled.
func New(p *pdk.Pdk) *Exporter {
	return &Exporter{pdk: p, Width: 800, Margin: 200, Opacity: 0.6, Ports: true}
}

// Export draws c. Layers off the process stack (implants, outlines) are
// drawn first, then the stack bottom up.
func (e *Exporter) Export(c *layout.Cell, w io.Writer) error {
	if c == nil || c.IsEmpty() {
		return errors.New("svg: nothing to draw")
	}
	bbox := c.BBox()
	minX, minY := bbox.P0.X-e.Margin, -bbox.P1.Y-e.Margin
	vw, vh := bbox.Width()+2*e.Margin, bbox.Height()+2*e.Margin
	height := int(int64(e.Width) * vh / vw)

	byLayer := lo.GroupBy(
		lo.Filter(c.Flatten(), func(fe layout.FlatElement, _ int) bool { return fe.Purpose == tech.Drawing }),
		func(fe layout.FlatElement) tech.LayerKey { return fe.Layer },
	)

	s := svgo.New(w)
	s.Startview(e.Width, height, int(minX), int(minY), int(vw), int(vh))
	s.Title(c.Name)
	s.Gtransform("scale(1,-1)")
	for _, name := range e.order() {
		key, err := e.pdk.Key(name)
		if err != nil {
			return err
		}
		elems, ok := byLayer[key]
		if !ok {
			continue
		}
		color := e.pdk.Config().Layers[name].Color
		if color == "" {
			color = "#808080"
		}
		s.Gid(name)
		for _, fe := range elems {
			r := fe.Rect
			s.Rect(int(r.P0.X), int(r.P0.Y), int(r.Width()), int(r.Height()),
				fmt.Sprintf("fill:%s;fill-opacity:%.2f;stroke:%s;stroke-width:5", color, e.Opacity, color))
		}
		s.Gend()
	}
	s.Gend()

	if e.Ports {
		size := max(bbox.Height()/40, 50)
		s.Gid("ports")
		for _, p := range c.Ports {
			if len(p.Shapes) == 0 {
				continue
			}
			ctr := p.BBox().Center()
			s.Text(int(ctr.X), int(-ctr.Y), p.Name,
				fmt.Sprintf("font-family:monospace;font-size:%d;text-anchor:middle;fill:#000000", size))
		}
		s.Gend()
	}
	s.End()
	return nil
}

// order lists layer names with off-stack layers first, by name, then the
// stack bottom up.
func (e *Exporter) order() []string {
	cfg := e.pdk.Config()
	stack := cfg.StackLayers()
	rest := lo.Filter(lo.Keys(cfg.Layers), func(n string, _ int) bool { return cfg.Layers[n].Stack == nil })
	slices.Sort(rest)
	return append(rest, stack...)
}
