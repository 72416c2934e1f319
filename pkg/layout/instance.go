package layout

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/geom"
)

// Instance places a shared Cell. Loc is where the lower-left corner of the
// cell's bounding box lands after the orientation is applied.
type Instance struct {
	Name   string
	Cell   *Cell
	Loc    geom.Point
	Orient Orientation
}

// NewInstance places cell at the origin with the identity orientation.
func NewInstance(name string, cell *Cell) *Instance {
	return &Instance{Name: name, Cell: cell}
}

// Sideways toggles the mirror about the vertical axis. Calling it twice
// restores the original placement.
func (i *Instance) Sideways() *Instance {
	i.Orient.ReflectX = !i.Orient.ReflectX
	return i
}

// UpsideDown toggles the mirror about the horizontal axis.
func (i *Instance) UpsideDown() *Instance {
	i.Orient.ReflectY = !i.Orient.ReflectY
	return i
}

// Rotate adds r to the instance's rotation.
func (i *Instance) Rotate(r Rotation) *Instance {
	i.Orient.Rot = i.Orient.Rot.Add(r)
	return i
}

// MoveTo sets Loc.
func (i *Instance) MoveTo(p geom.Point) *Instance {
	i.Loc = p
	return i
}

// Translate moves the instance by p.
func (i *Instance) Translate(p geom.Point) *Instance {
	i.Loc = i.Loc.Add(p)
	return i
}

// Transform returns the map from cell coordinates to parent coordinates.
func (i *Instance) Transform() Transform {
	m := i.Orient.Matrix()
	placed := m.ApplyRect(i.Cell.BBox())
	return Translation(i.Loc.Sub(placed.P0)).Then(m)
}

// BBox returns the instance's bounding box in parent coordinates.
func (i *Instance) BBox() geom.Rect {
	return i.Transform().ApplyRect(i.Cell.BBox())
}

// Port returns the named port of the cell in parent coordinates.
func (i *Instance) Port(name string) (Port, error) {
	p, ok := i.Cell.Port(name)
	if !ok {
		return Port{}, errors.Wrapf(ErrNoSuchPort, "%s (cell %s) has no port %q", i.Name, i.Cell.Name, name)
	}
	return p.Transformed(i.Transform()), nil
}

// MustPort is like Port but panics when the port does not exist. It is for
// generators that place cells whose ports they define themselves.
func (i *Instance) MustPort(name string) Port {
	p, err := i.Port(name)
	if err != nil {
		panic(err)
	}
	return p
}

// PortBBox returns the bounding box of the named port in parent
// coordinates.
func (i *Instance) PortBBox(name string) (geom.Rect, error) {
	p, err := i.Port(name)
	if err != nil {
		return geom.Rect{}, err
	}
	return p.BBox(), nil
}

// Ports returns every port of the cell in parent coordinates.
func (i *Instance) Ports() []Port {
	t := i.Transform()
	out := make([]Port, len(i.Cell.Ports))
	for j, p := range i.Cell.Ports {
		out[j] = p.Transformed(t)
	}
	return out
}

// ----------------------------------------------------------------------------
// Alignment
// ----------------------------------------------------------------------------

func (i *Instance) AlignRightOf(ref geom.Rect, space geom.Int) *Instance {
	return i.Translate(geom.OffsetRightOf(i.BBox(), ref, space))
}

func (i *Instance) AlignLeftOf(ref geom.Rect, space geom.Int) *Instance {
	return i.Translate(geom.OffsetLeftOf(i.BBox(), ref, space))
}

func (i *Instance) AlignAbove(ref geom.Rect, space geom.Int) *Instance {
	return i.Translate(geom.OffsetAbove(i.BBox(), ref, space))
}

func (i *Instance) AlignBeneath(ref geom.Rect, space geom.Int) *Instance {
	return i.Translate(geom.OffsetBeneath(i.BBox(), ref, space))
}

func (i *Instance) AlignLeft(ref geom.Rect) *Instance {
	return i.Translate(geom.OffsetAlignLeft(i.BBox(), ref))
}

func (i *Instance) AlignRight(ref geom.Rect) *Instance {
	return i.Translate(geom.OffsetAlignRight(i.BBox(), ref))
}

func (i *Instance) AlignTop(ref geom.Rect) *Instance {
	return i.Translate(geom.OffsetAlignTop(i.BBox(), ref))
}

func (i *Instance) AlignBottom(ref geom.Rect) *Instance {
	return i.Translate(geom.OffsetAlignBottom(i.BBox(), ref))
}

// AlignCentersGridded centers the instance on ref, snapping the move to
// grid.
func (i *Instance) AlignCentersGridded(ref geom.Rect, grid geom.Int) *Instance {
	return i.Translate(geom.OffsetCentersGridded(i.BBox(), ref, grid))
}

func (i *Instance) AlignCentersHorizontallyGridded(ref geom.Rect, grid geom.Int) *Instance {
	return i.Translate(geom.OffsetCentersHorizontallyGridded(i.BBox(), ref, grid))
}

func (i *Instance) AlignCentersVerticallyGridded(ref geom.Rect, grid geom.Int) *Instance {
	return i.Translate(geom.OffsetCentersVerticallyGridded(i.BBox(), ref, grid))
}

func (i *Instance) String() string {
	return fmt.Sprintf("%s: %s at %v %v", i.Name, i.Cell.Name, i.Loc, i.Orient)
}
