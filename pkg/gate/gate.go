package gate

import (
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/array"
	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/layout"
	"github.com/chazu/sramlay/pkg/pdk"
)

var (
	ErrUnknownGate = errors.New("unknown gate kind")
	ErrNoRoom      = errors.New("not enough room to route gate output")
)

// Size sets the transistor dimensions of a gate.
type Size struct {
	NmosWidth geom.Int `yaml:"nmos_width" toml:"nmos_width"`
	PmosWidth geom.Int `yaml:"pmos_width" toml:"pmos_width"`
	Length    geom.Int `yaml:"length" toml:"length"`
}

// Gate is one of Inv, Nand2, Nand3, And2 or And3.
type Gate interface {
	Kind() string
	gate()
}

type (
	Inv   struct{ Size Size }
	Nand2 struct{ Size Size }
	Nand3 struct{ Size Size }
	// And2 is a Nand2 driving an inverter. A zero InvSize reuses Size.
	And2 struct{ Size, InvSize Size }
	And3 struct{ Size, InvSize Size }
)

func (Inv) Kind() string   { return "inv" }
func (Nand2) Kind() string { return "nand2" }
func (Nand3) Kind() string { return "nand3" }
func (And2) Kind() string  { return "and2" }
func (And3) Kind() string  { return "and3" }

func (Inv) gate()   {}
func (Nand2) gate() {}
func (Nand3) gate() {}
func (And2) gate()  {}
func (And3) gate()  {}

// New returns the gate of the named kind.
func New(kind string, size Size) (Gate, error) {
	switch kind {
	case "inv":
		return Inv{size}, nil
	case "nand2":
		return Nand2{size}, nil
	case "nand3":
		return Nand3{size}, nil
	case "and2":
		return And2{Size: size}, nil
	case "and3":
		return And3{Size: size}, nil
	}
	return nil, errors.Wrapf(ErrUnknownGate, "%q", kind)
}

// DecoderSize is the size used for row decoder gates.
var DecoderSize = Size{NmosWidth: 1600, PmosWidth: 2400, Length: 150}

func logger() *slog.Logger {
	return slog.Default().With(slog.String("component", "gate"))
}

// Draw generates the layout of g in a cell named name.
func Draw(p *pdk.Pdk, name string, g Gate) (*layout.Cell, error) {
	var (
		c   *layout.Cell
		err error
	)
	switch g := g.(type) {
	case Inv:
		c, err = drawInv(p, name, g.Size)
	case Nand2:
		c, err = drawNand2(p, name, g.Size)
	case Nand3:
		c, err = drawNand3(p, name, g.Size)
	case And2:
		c, err = drawAnd(p, name, Nand2{g.Size}, invSize(g.Size, g.InvSize))
	case And3:
		c, err = drawAnd(p, name, Nand3{g.Size}, invSize(g.Size, g.InvSize))
	default:
		return nil, errors.Wrapf(ErrUnknownGate, "%T", g)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", g.Kind(), name)
	}
	logger().Debug("drew gate", slog.String("cell", name), slog.String("kind", g.Kind()))
	return c, nil
}

// DrawArray stacks n copies of g vertically at pitch, or at the gate's own
// height when pitch is zero. Neighbors are mirrored so that they share
// supply rails.
func DrawArray(p *pdk.Pdk, name string, g Gate, n int, pitch geom.Int) (*layout.Cell, error) {
	c, err := Draw(p, name+"_gate", g)
	if err != nil {
		return nil, err
	}
	return array.DrawCellArray(array.Params{
		Name:       name,
		Entries:    array.Repeat(c, n),
		Direction:  geom.Vert,
		Pitch:      pitch,
		Flip:       array.AlternateFlipVertical,
		FlipToggle: true,
	})
}

func invSize(nand, inv Size) Size {
	if inv == (Size{}) {
		return nand
	}
	return inv
}

// mosStack is the shared-gate nmos/pmos pair a gate is built on.
type mosStack struct {
	cell *layout.Cell
	inst *layout.Instance
}

func drawStack(p *pdk.Pdk, name string, s Size, fingers int, nskip []int) (*mosStack, error) {
	cell, err := p.DrawMos(name+"_mos", pdk.MosParams{
		Dir: geom.Horiz,
		Devices: []pdk.MosDevice{
			{Type: pdk.Nmos, Intent: pdk.Svt, Width: s.NmosWidth, Length: s.Length, Fingers: fingers, SkipSdMetal: nskip},
			{Type: pdk.Pmos, Intent: pdk.Svt, Width: s.PmosWidth, Length: s.Length, Fingers: fingers},
		},
		GateContacts: true,
	})
	if err != nil {
		return nil, err
	}
	// Placed at its own bounding box so that cell and parent coordinates
	// coincide.
	inst := layout.NewInstance("mos", cell).MoveTo(cell.BBox().P0)
	return &mosStack{cell: cell, inst: inst}, nil
}

// sd returns the li rect of a source/drain contact.
func (m *mosStack) sd(dev, region int) (geom.Rect, error) {
	port, err := m.inst.Port(fmt.Sprintf("sd_%d_%d", dev, region))
	if err != nil {
		return geom.Rect{}, err
	}
	return port.BBox(), nil
}

func (m *mosStack) port(name, as string) (layout.Port, error) {
	port, err := m.inst.Port(name)
	if err != nil {
		return layout.Port{}, err
	}
	return port.Named(as), nil
}

// finish assembles a gate cell from the stack, the output rects and the
// named ports of the stack.
func (m *mosStack) finish(p *pdk.Pdk, name string, out []geom.Rect, ports map[string]string) (*layout.Cell, error) {
	li := p.MustKey("li")
	c := layout.NewCell(name).AddInst(m.inst)
	for _, r := range out {
		c.AddRect(li, r)
		c.AddPortRect("Y", li, r)
	}
	for _, from := range sortedKeys(ports) {
		port, err := m.port(from, ports[from])
		if err != nil {
			return nil, err
		}
		c.AddPort(port)
	}
	return c, nil
}
