// Package tessellate extrudes a flattened layout into triangle meshes
// using a geometry kernel. One mesh is produced per process layer that
// has drawn geometry and a place in the layer stack.
package tessellate

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/kernel"
	"github.com/chazu/sramlay/pkg/layout"
	"github.com/chazu/sramlay/pkg/pdk"
	"github.com/chazu/sramlay/pkg/tech"
)

// NmPerUnit converts layout coordinates to mesh units (µm).
const NmPerUnit = 1000.0

// Tessellate walks c and produces one mesh per stack layer, lowest layer
// first. Only drawing shapes are extruded; layers without a stack entry
// are skipped. The walk is read-only.
func Tessellate(c *layout.Cell, p *pdk.Pdk, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if c == nil {
		return nil, nil
	}
	cfg := p.Config()

	byLayer := lo.GroupBy(
		lo.Filter(c.Flatten(), func(fe layout.FlatElement, _ int) bool {
			return fe.Purpose == tech.Drawing && !fe.Rect.IsEmpty()
		}),
		func(fe layout.FlatElement) tech.LayerKey { return fe.Layer },
	)

	var meshes []*kernel.Mesh
	for _, name := range cfg.StackLayers() {
		key, err := p.Key(name)
		if err != nil {
			return nil, err
		}
		elems, ok := byLayer[key]
		if !ok {
			continue
		}
		delete(byLayer, key)

		rects := lo.Uniq(lo.Map(elems, func(fe layout.FlatElement, _ int) geom.Rect { return fe.Rect }))
		mesh, err := extrude(k, rects, cfg.Layers[name].Stack)
		if err != nil {
			return nil, errors.Wrapf(err, "tessellate: layer %s", name)
		}
		mesh.Layer = name
		meshes = append(meshes, mesh)
	}

	for key, elems := range byLayer {
		logger().Debug("layer has no stack entry", slog.String("layer", p.Layers().Name(key)), slog.Int("shapes", len(elems)))
	}
	return meshes, nil
}

func extrude(k kernel.Kernel, rects []geom.Rect, st *tech.LayerStack) (*kernel.Mesh, error) {
	z0 := float64(st.Height) / NmPerUnit
	dz := float64(st.Thickness) / NmPerUnit

	solids := make([]kernel.Solid, 0, len(rects))
	for _, r := range rects {
		box, err := k.Box(float64(r.Width())/NmPerUnit, float64(r.Height())/NmPerUnit, dz)
		if err != nil {
			return nil, errors.Wrapf(err, "box %v", r)
		}
		solids = append(solids, k.Translate(box, float64(r.P0.X)/NmPerUnit, float64(r.P0.Y)/NmPerUnit, z0))
	}
	return k.ToMesh(kernel.UnionAll(k, solids))
}

func logger() *slog.Logger {
	return slog.Default().With(slog.String("component", "tessellate"))
}
