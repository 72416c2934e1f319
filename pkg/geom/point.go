package geom

import (
	"fmt"

	"github.com/pkg/errors"
)

// Int is a coordinate or distance in database units.
type Int = int64

// FromNm returns a distance of nm nanometers.
func FromNm(nm int64) Int { return nm }

// FromUm returns a distance of um micrometers.
func FromUm(um int64) Int { return 1_000 * um }

// Point is a location in the layout plane.
type Point struct {
	X Int `json:"x" yaml:"x"`
	Y Int `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y Int) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Coord returns the coordinate of p along dir: X for Horiz, Y for Vert.
func (p Point) Coord(dir Dir) Int {
	if dir == Horiz {
		return p.X
	}
	return p.Y
}

// IsOnGrid reports whether both coordinates are multiples of grid.
func (p Point) IsOnGrid(grid Int) bool {
	return p.X%grid == 0 && p.Y%grid == 0
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Dir is a coarse direction: horizontal or vertical.
type Dir int

const (
	Horiz Dir = iota // along X
	Vert             // along Y
)

// Other returns the perpendicular direction.
func (d Dir) Other() Dir {
	if d == Horiz {
		return Vert
	}
	return Horiz
}

// Short returns the one-letter code used in generated cell names.
func (d Dir) Short() string {
	if d == Horiz {
		return "h"
	}
	return "v"
}

func (d Dir) String() string {
	switch d {
	case Horiz:
		return "horizontal"
	case Vert:
		return "vertical"
	default:
		return fmt.Sprintf("Dir(%d)", int(d))
	}
}

// ParseDir accepts "h", "horiz", "horizontal", "v", "vert" and "vertical".
func ParseDir(s string) (Dir, error) {
	switch s {
	case "h", "horiz", "horizontal":
		return Horiz, nil
	case "v", "vert", "vertical":
		return Vert, nil
	}
	return 0, errors.Errorf("invalid direction %q, expected horizontal or vertical", s)
}

// Side is one of the four cardinal directions.
type Side int

const (
	Up Side = iota
	Down
	Left
	Right
)

func (s Side) String() string {
	switch s {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Dir returns the axis the side moves along.
func (s Side) Dir() Dir {
	if s == Left || s == Right {
		return Horiz
	}
	return Vert
}

// Sign is +1 for Up and Right, -1 for Down and Left.
func (s Side) Sign() Int {
	if s == Up || s == Right {
		return 1
	}
	return -1
}
