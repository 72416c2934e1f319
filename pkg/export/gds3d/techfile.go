// Package gds3d writes GDS3D technology files from a rule deck, so that a
// layout streamed elsewhere can be viewed with the deck's layer stack.
package gds3d

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/chazu/sramlay/pkg/layout"
	"github.com/chazu/sramlay/pkg/pdk"
	"github.com/chazu/sramlay/pkg/tech"
)

// Techfile is an export.Exporter that writes the stack of the layers a
// cell draws. A nil cell writes every stack layer.
type Techfile struct {
	pdk *pdk.Pdk

	// Substrate adds a substrate slab below the stack when set.
	Substrate bool
}

// New returns a techfile writer for p.
func New(p *pdk.Pdk) *Techfile {
	return &Techfile{pdk: p, Substrate: true}
}

const substrateThickness = 10000

// Export writes the techfile.
func (t *Techfile) Export(c *layout.Cell, w io.Writer) error {
	cfg := t.pdk.Config()
	names := cfg.StackLayers()
	if c != nil {
		used := lo.SliceToMap(c.Flatten(), func(fe layout.FlatElement) (string, bool) {
			return t.pdk.Layers().Name(fe.Layer), true
		})
		names = lo.Filter(names, func(n string, _ int) bool { return used[n] })
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# GDS3D techfile\n# Process : %s\n\n", cfg.Tech)

	if t.Substrate && len(names) > 0 {
		bottom := cfg.Layers[names[0]].Stack.Height
		writeLayer(bw, layerEntry{
			name: "Substrate", num: 255, height: bottom - substrateThickness,
			thickness: substrateThickness, r: 0.15, g: 0.15, b: 0.15,
		})
	}
	for _, name := range names {
		e, err := entry(cfg, name)
		if err != nil {
			return err
		}
		writeLayer(bw, e)
	}
	return bw.Flush()
}

type layerEntry struct {
	name              string
	num, datatype     int16
	height, thickness int64
	r, g, b           float64
	metal             bool
}

func entry(cfg *tech.Config, name string) (layerEntry, error) {
	lc := cfg.Layers[name]
	e := layerEntry{
		name:      name,
		num:       lc.LayerNum,
		height:    int64(lc.Stack.Height),
		thickness: int64(lc.Stack.Thickness),
		metal:     lc.Stack.Metal,
		r:         0.5,
		g:         0.5,
		b:         0.5,
	}
	for _, pn := range lc.Purposes {
		if pn.Purpose == tech.Drawing {
			e.datatype = pn.Num
			break
		}
	}
	if lc.Color != "" {
		r, g, b, err := tech.ParseColor(lc.Color)
		if err != nil {
			return layerEntry{}, errors.Wrapf(err, "gds3d: layer %s", name)
		}
		e.r, e.g, e.b = r, g, b
	}
	return e, nil
}

func writeLayer(w io.Writer, e layerEntry) {
	fmt.Fprintf(w, "LayerStart: %s\n", e.name)
	fmt.Fprintf(w, "Layer: %d\n", e.num)
	fmt.Fprintf(w, "Datatype: %d\n", e.datatype)
	fmt.Fprintf(w, "Height: %d\n", e.height)
	fmt.Fprintf(w, "Thickness: %d\n", e.thickness)
	fmt.Fprintf(w, "Red: %.2f\nGreen: %.2f\nBlue: %.2f\n", e.r, e.g, e.b)
	fmt.Fprintf(w, "Filter: 0.0\n")
	fmt.Fprintf(w, "Metal: %d\n", lo.Ternary(e.metal, 1, 0))
	fmt.Fprintf(w, "Show: 1\n")
	fmt.Fprintf(w, "LayerEnd\n\n")
}
