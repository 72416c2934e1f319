package layout

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/tech"
)

// Element is one drawn rectangle.
type Element struct {
	Layer   tech.LayerKey
	Purpose tech.Purpose
	Rect    geom.Rect
	Net     string // optional
}

// Shape is a rectangle on a layer, as held by a Port.
type Shape struct {
	Layer tech.LayerKey
	Rect  geom.Rect
}

// Port is a named set of shapes that other cells connect to.
type Port struct {
	Name   string
	Shapes []Shape
}

// Largest returns the largest-area shape of p on layer.
func (p Port) Largest(layer tech.LayerKey) (geom.Rect, bool) {
	on := lo.Filter(p.Shapes, func(s Shape, _ int) bool { return s.Layer == layer })
	if len(on) == 0 {
		return geom.Rect{}, false
	}
	best := lo.MaxBy(on, func(a, b Shape) bool { return a.Rect.Area() > b.Rect.Area() })
	return best.Rect, true
}

// BBox returns the bounding box of every shape of p. The zero Rect is
// returned for a port with no shapes.
func (p Port) BBox() geom.Rect {
	if len(p.Shapes) == 0 {
		return geom.Rect{}
	}
	bb := p.Shapes[0].Rect
	for _, s := range p.Shapes[1:] {
		bb = bb.Union(s.Rect)
	}
	return bb
}

// Named returns a copy of p under a new name.
func (p Port) Named(name string) Port {
	p.Name = name
	p.Shapes = append([]Shape(nil), p.Shapes...)
	return p
}

// Transformed returns a copy of p with every shape mapped through t.
func (p Port) Transformed(t Transform) Port {
	out := Port{Name: p.Name, Shapes: make([]Shape, len(p.Shapes))}
	for i, s := range p.Shapes {
		out.Shapes[i] = Shape{Layer: s.Layer, Rect: t.ApplyRect(s.Rect)}
	}
	return out
}

// Cell is a named layout cell. Build it with NewCell and the Add methods,
// then share the pointer; do not modify it once other cells refer to it.
type Cell struct {
	Name  string
	Elems []Element
	Insts []*Instance
	Ports []Port

	// Abstract, when set, is the outline of a cell whose contents are
	// provided elsewhere. It contributes to BBox.
	Abstract *geom.Rect
}

// NewCell returns an empty cell.
func NewCell(name string) *Cell {
	return &Cell{Name: name}
}

// AddElem appends a drawn element.
func (c *Cell) AddElem(e Element) *Cell {
	c.Elems = append(c.Elems, e)
	return c
}

// AddRect draws r on layer with the drawing purpose.
func (c *Cell) AddRect(layer tech.LayerKey, r geom.Rect) *Cell {
	return c.AddElem(Element{Layer: layer, Purpose: tech.Drawing, Rect: r})
}

// AddInst places an instance in the cell.
func (c *Cell) AddInst(inst *Instance) *Cell {
	c.Insts = append(c.Insts, inst)
	return c
}

// AddPort adds p. Shapes of a port whose name already exists are merged
// into the existing port.
func (c *Cell) AddPort(p Port) *Cell {
	for i := range c.Ports {
		if c.Ports[i].Name == p.Name {
			c.Ports[i].Shapes = append(c.Ports[i].Shapes, p.Shapes...)
			return c
		}
	}
	c.Ports = append(c.Ports, p.Named(p.Name))
	return c
}

// AddPortRect adds a single-shape port.
func (c *Cell) AddPortRect(name string, layer tech.LayerKey, r geom.Rect) *Cell {
	return c.AddPort(Port{Name: name, Shapes: []Shape{{Layer: layer, Rect: r}}})
}

// Port returns the port with the given name.
func (c *Cell) Port(name string) (Port, bool) {
	return lo.Find(c.Ports, func(p Port) bool { return p.Name == name })
}

// Inst returns the instance with the given name, or nil.
func (c *Cell) Inst(name string) *Instance {
	inst, _ := lo.Find(c.Insts, func(i *Instance) bool { return i.Name == name })
	return inst
}

// BBox returns the bounding box of everything drawn in the cell, including
// its instances and abstract outline. An empty cell has a zero BBox.
func (c *Cell) BBox() geom.Rect {
	var (
		bb    geom.Rect
		found bool
	)
	add := func(r geom.Rect) {
		if !found {
			bb, found = r, true
			return
		}
		bb = bb.Union(r)
	}
	for _, e := range c.Elems {
		add(e.Rect)
	}
	for _, inst := range c.Insts {
		if inst.Cell.IsEmpty() {
			continue
		}
		add(inst.BBox())
	}
	if c.Abstract != nil {
		add(*c.Abstract)
	}
	return bb
}

// LayerBBox returns the bounding box of the cell's own elements on layer.
// Instances are not searched.
func (c *Cell) LayerBBox(layer tech.LayerKey) (geom.Rect, bool) {
	var (
		bb    geom.Rect
		found bool
	)
	for _, e := range c.Elems {
		if e.Layer != layer {
			continue
		}
		if !found {
			bb, found = e.Rect, true
		} else {
			bb = bb.Union(e.Rect)
		}
	}
	return bb, found
}

// IsEmpty reports whether the cell has no geometry at all.
func (c *Cell) IsEmpty() bool {
	if c == nil {
		return true
	}
	if len(c.Elems) > 0 || c.Abstract != nil {
		return false
	}
	return lo.EveryBy(c.Insts, func(i *Instance) bool { return i.Cell.IsEmpty() })
}

func (c *Cell) String() string {
	return fmt.Sprintf("cell %s (%d elems, %d insts, %d ports)", c.Name, len(c.Elems), len(c.Insts), len(c.Ports))
}
