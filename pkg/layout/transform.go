package layout

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/geom"
)

// Rotation is a counter-clockwise rotation by a multiple of 90 degrees.
type Rotation int

const (
	R0   Rotation = 0
	R90  Rotation = 90
	R180 Rotation = 180
	R270 Rotation = 270
)

// ParseRotation accepts any multiple of 90 degrees, including negative
// ones, and normalizes it.
func ParseRotation(deg int) (Rotation, error) {
	if deg%90 != 0 {
		return 0, errors.Errorf("rotation %d is not a multiple of 90 degrees", deg)
	}
	return Rotation(((deg % 360) + 360) % 360), nil
}

// Add composes two rotations.
func (r Rotation) Add(o Rotation) Rotation {
	return Rotation((int(r) + int(o)) % 360)
}

// Orientation is a reflection followed by a rotation. ReflectX negates X
// coordinates (a mirror about the vertical axis); ReflectY negates Y.
type Orientation struct {
	ReflectX bool
	ReflectY bool
	Rot      Rotation
}

// Identity is the default orientation.
var Identity = Orientation{}

// Matrix returns the orientation as a transform with zero offset.
func (o Orientation) Matrix() Transform {
	t := Transform{A: 1, D: 1}
	if o.ReflectX {
		t.A = -1
	}
	if o.ReflectY {
		t.D = -1
	}
	return rotation(o.Rot).Then(t)
}

func (o Orientation) String() string {
	s := fmt.Sprintf("R%d", o.Rot)
	if o.ReflectX {
		s += " MX"
	}
	if o.ReflectY {
		s += " MY"
	}
	return s
}

// Transform is an orthogonal integer map: p' = M p + Offset, with
// M = [[A B] [C D]]. Only reflections, quarter turns and translations are
// representable, so rectangle extents are preserved up to a swap.
type Transform struct {
	A, B, C, D geom.Int
	Offset     geom.Point
}

// IdentityTransform maps every point to itself.
var IdentityTransform = Transform{A: 1, D: 1}

// Translation returns the pure translation by p.
func Translation(p geom.Point) Transform {
	return Transform{A: 1, D: 1, Offset: p}
}

func rotation(r Rotation) Transform {
	switch r {
	case R90:
		return Transform{B: -1, C: 1}
	case R180:
		return Transform{A: -1, D: -1}
	case R270:
		return Transform{B: 1, C: -1}
	default:
		return IdentityTransform
	}
}

// Apply maps p.
func (t Transform) Apply(p geom.Point) geom.Point {
	return geom.Point{
		X: t.A*p.X + t.B*p.Y + t.Offset.X,
		Y: t.C*p.X + t.D*p.Y + t.Offset.Y,
	}
}

// ApplyRect maps r and renormalizes its corners.
func (t Transform) ApplyRect(r geom.Rect) geom.Rect {
	return geom.FromCorners(t.Apply(r.P0), t.Apply(r.P1))
}

// Then returns the transform that applies inner first and then t.
func (t Transform) Then(inner Transform) Transform {
	return Transform{
		A:      t.A*inner.A + t.B*inner.C,
		B:      t.A*inner.B + t.B*inner.D,
		C:      t.C*inner.A + t.D*inner.C,
		D:      t.C*inner.B + t.D*inner.D,
		Offset: t.Apply(inner.Offset),
	}
}

// SwapsAxes reports whether t exchanges the X and Y extents.
func (t Transform) SwapsAxes() bool {
	return t.A == 0
}
