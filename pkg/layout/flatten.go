package layout

import (
	"strings"

	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/tech"
)

// FlatElement is an element mapped into the coordinates of the cell being
// flattened. Path names the chain of instances it was reached through.
type FlatElement struct {
	Element
	Path string
}

// transformStack accumulates instance transforms during a hierarchy walk.
type transformStack struct {
	transforms []Transform
	names      []string
}

func (ts *transformStack) push(inst *Instance) {
	t := inst.Transform()
	if n := len(ts.transforms); n > 0 {
		t = ts.transforms[n-1].Then(t)
	}
	ts.transforms = append(ts.transforms, t)
	ts.names = append(ts.names, inst.Name)
}

func (ts *transformStack) pop() {
	if len(ts.transforms) > 0 {
		ts.transforms = ts.transforms[:len(ts.transforms)-1]
		ts.names = ts.names[:len(ts.names)-1]
	}
}

func (ts *transformStack) current() Transform {
	if len(ts.transforms) == 0 {
		return IdentityTransform
	}
	return ts.transforms[len(ts.transforms)-1]
}

func (ts *transformStack) path() string {
	return strings.Join(ts.names, "/")
}

// Flatten walks the cell hierarchy and returns every drawn element in the
// coordinates of c. Shared cells are visited once per placement. The walk
// is read-only.
func (c *Cell) Flatten() []FlatElement {
	var out []FlatElement
	ts := &transformStack{}
	c.walk(ts, func(e Element, t Transform, path string) {
		e.Rect = t.ApplyRect(e.Rect)
		out = append(out, FlatElement{Element: e, Path: path})
	})
	return out
}

// FlatBBoxes returns the union of the flattened geometry per layer.
func (c *Cell) FlatBBoxes() map[tech.LayerKey]geom.Rect {
	out := make(map[tech.LayerKey]geom.Rect)
	for _, fe := range c.Flatten() {
		if bb, ok := out[fe.Layer]; ok {
			out[fe.Layer] = bb.Union(fe.Rect)
		} else {
			out[fe.Layer] = fe.Rect
		}
	}
	return out
}

func (c *Cell) walk(ts *transformStack, visit func(Element, Transform, string)) {
	t := ts.current()
	path := ts.path()
	for _, e := range c.Elems {
		visit(e, t, path)
	}
	for _, inst := range c.Insts {
		if inst.Cell == nil {
			continue
		}
		ts.push(inst)
		inst.Cell.walk(ts, visit)
		ts.pop()
	}
}
