package pdk

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/layout"
	"github.com/chazu/sramlay/pkg/tech"
)

// MosType is the channel type of a transistor.
type MosType int

const (
	Nmos MosType = iota
	Pmos
)

func (t MosType) String() string {
	switch t {
	case Nmos:
		return "nmos"
	case Pmos:
		return "pmos"
	default:
		return fmt.Sprintf("MosType(%d)", int(t))
	}
}

// Intent is the threshold-voltage flavor of a device.
type Intent string

const (
	Ulvt Intent = "ulvt"
	Lvt  Intent = "lvt"
	Svt  Intent = "svt"
	Hvt  Intent = "hvt"
	Uhvt Intent = "uhvt"
)

// MosDevice is one transistor of a shared-gate stack.
type MosDevice struct {
	Type    MosType
	Intent  Intent
	Length  geom.Int // channel length
	Width   geom.Int // width of one finger
	Fingers int
	// SkipSdMetal lists regions of this device only that get no contact.
	SkipSdMetal []int
}

// MosParams describes a row of devices that share their poly gates.
type MosParams struct {
	Devices []MosDevice
	// Dir is the direction the gates run in.
	Dir geom.Dir
	// SkipSdMetal lists source/drain regions, counted from the first gate
	// edge, that get no contact on any device. Valid indices are 0 through
	// Fingers.
	SkipSdMetal []int
	// GateContacts adds a poly contact to every finger, alternating
	// between the left (even fingers) and right (odd fingers) ends, and
	// adds its local interconnect to the finger's port.
	GateContacts bool
}

// Validate reports the first problem with p.
func (p MosParams) Validate() error {
	if len(p.Devices) == 0 {
		return ErrNoDevices
	}
	first := p.Devices[0]
	if first.Fingers <= 0 {
		return errors.Wrapf(ErrInvalidNumFingers, "%d", first.Fingers)
	}
	for i, d := range p.Devices {
		if d.Length != first.Length {
			return errors.Wrapf(ErrMismatchedLengths, "device %d", i)
		}
		if d.Fingers != first.Fingers {
			return errors.Wrapf(ErrMismatchedFingers, "device %d", i)
		}
		if d.Width <= 0 || d.Length <= 0 {
			return errors.Wrapf(ErrBadParams, "device %d is %dx%d", i, d.Width, d.Length)
		}
	}
	skips := append([]int(nil), p.SkipSdMetal...)
	for _, d := range p.Devices {
		skips = append(skips, d.SkipSdMetal...)
	}
	for _, idx := range skips {
		if idx < 0 || idx > first.Fingers {
			return errors.Wrapf(ErrBadParams, "source/drain index %d out of range 0..%d", idx, first.Fingers)
		}
	}
	return nil
}

func (p MosParams) length() geom.Int { return p.Devices[0].Length }
func (p MosParams) fingers() int     { return p.Devices[0].Fingers }

// FingerSpace is the gate-to-gate pitch minus the gate length: room for a
// source/drain contact between two fingers.
func FingerSpace(tc *tech.Config) geom.Int {
	return max(2*tc.Space("gate", "licon")+tc.MustLayer("li").Width, tc.MustLayer("poly").Space)
}

// DiffEdgeToGate is the distance from the end of the diffusion to the
// first gate.
func DiffEdgeToGate(tc *tech.Config) geom.Int {
	licon := tc.MustLayer("licon")
	return max(tc.MustLayer("diff").Extension("poly"),
		tc.Space("gate", "licon")+licon.Width+licon.Enclosure("diff"))
}

// DiffToOppositeDiff is the spacing between NMOS and PMOS diffusion.
func DiffToOppositeDiff(tc *tech.Config) geom.Int {
	return tc.Space("diff", "nwell") + tc.MustLayer("diff").Enclosure("nwell")
}

// DrawMos draws the devices of params side by side with shared gates
// running horizontally across all of them. Gate fingers are exposed as
// ports g0, g1, ...; source/drain contacts as sd_<device>_<region> on the
// local interconnect layer. When params.Dir is Vert the drawing is rotated
// a quarter turn.
func (p *Pdk) DrawMos(name string, params MosParams) (*layout.Cell, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Wrapf(err, "mos %s", name)
	}
	cell, err := p.drawMosHoriz(name, params)
	if err != nil {
		return nil, errors.Wrapf(err, "mos %s", name)
	}
	if params.Dir == geom.Horiz {
		return cell, nil
	}

	cell.Name = name + "_core"
	core := layout.NewInstance("core", cell).Rotate(layout.R90)
	rotated := layout.NewCell(name).AddInst(core)
	for _, port := range core.Ports() {
		rotated.AddPort(port)
	}
	return rotated, nil
}

func (p *Pdk) drawMosHoriz(name string, params MosParams) (*layout.Cell, error) {
	tc := p.config
	var (
		diff  = p.MustKey("diff")
		poly  = p.MustKey("poly")
		li    = p.MustKey("li")
		nsdm  = p.MustKey("nsdm")
		psdm  = p.MustKey("psdm")
		nwell = p.MustKey("nwell")
	)
	diffCfg := tc.MustLayer("diff")
	grid := p.Grid()

	nf := geom.Int(params.fingers())
	length := params.length()
	fs := FingerSpace(tc)
	edge := DiffEdgeToGate(tc)
	diffPerp := 2*edge + nf*length + (nf-1)*fs

	cell := layout.NewCell(name)

	// Diffusion, implants and wells, left to right.
	diffXs := make([]geom.Int, len(params.Devices))
	var cx geom.Int
	for i, d := range params.Devices {
		if i > 0 {
			if d.Type != params.Devices[i-1].Type {
				cx += DiffToOppositeDiff(tc)
			} else {
				cx += diffCfg.Space
			}
		}
		diffXs[i] = cx
		rect := geom.R(cx, 0, cx+d.Width, diffPerp)
		if d.Type == Pmos {
			cell.AddRect(psdm, rect.GrowBorder(diffCfg.Enclosure("psdm")))
			cell.AddRect(nwell, rect.GrowBorder(diffCfg.Enclosure("nwell")))
		} else {
			cell.AddRect(nsdm, rect.GrowBorder(diffCfg.Enclosure("nsdm")))
		}
		cell.AddRect(diff, rect)
		cx += d.Width
	}

	// Gate fingers span every device.
	ext := tc.MustLayer("poly").Extension("diff")
	for i := geom.Int(0); i < nf; i++ {
		y := edge + i*(length+fs)
		rect := geom.R(-ext, y, cx+ext, y+length)
		port := fmt.Sprintf("g%d", i)
		if params.GateContacts {
			r, err := p.drawGateContact(cell, port, rect, i%2 == 1)
			if err != nil {
				return nil, err
			}
			rect = r
		}
		cell.AddRect(poly, rect)
		cell.AddPortRect(port, poly, rect)
	}

	// Source/drain contacts, one per device per region.
	for region := 0; region <= int(nf); region++ {
		if lo.Contains(params.SkipSdMetal, region) {
			continue
		}
		cy := geom.Int(region) * (length + fs)
		for j, d := range params.Devices {
			if lo.Contains(d.SkipSdMetal, region) {
				continue
			}
			ct, err := p.ContactSized(sdStack(d.Type), geom.Horiz, "diff", d.Width)
			if err != nil {
				return nil, errors.Wrapf(err, "device %d", j)
			}
			diffBox, _ := ct.BBox(diff)
			liBox, _ := ct.BBox(li)
			outline := ct.Outline()
			ofs := geom.RoundDown((d.Width-diffBox.Width())/2, grid)

			inst := layout.NewInstance(fmt.Sprintf("sd_contact_%d_%d", region, j), ct.Cell)
			inst.MoveTo(geom.Pt(
				diffXs[j]+ofs-(diffBox.Left()-outline.Left()),
				cy-(diffBox.Bottom()-outline.Bottom()),
			))
			cell.AddInst(inst)
			cell.AddPortRect(fmt.Sprintf("sd_%d_%d", j, region), li, inst.Transform().ApplyRect(liBox))
		}
	}
	return cell, nil
}

// drawGateContact places a minimum poly contact one li space beyond the end
// of finger and returns the finger stretched to reach it.
func (p *Pdk) drawGateContact(cell *layout.Cell, port string, finger geom.Rect, right bool) (geom.Rect, error) {
	ct, err := p.GetContact(ContactParams{Stack: "polyc", Rows: 1, Cols: 1, Dir: geom.Horiz})
	if err != nil {
		return geom.Rect{}, errors.Wrap(err, "gate contact")
	}
	poly, li := p.MustKey("poly"), p.MustKey("li")
	polyBox, _ := ct.BBox(poly)
	liBox, _ := ct.BBox(li)
	outline := ct.Outline()
	gap := p.config.MustLayer("li").Space

	x := finger.Left() - gap - polyBox.Width()
	if right {
		x = finger.Right() + gap
	}
	y := geom.Round(finger.Center().Y-polyBox.Height()/2, p.Grid())

	inst := layout.NewInstance(port+"_contact", ct.Cell)
	inst.MoveTo(geom.Pt(x-(polyBox.Left()-outline.Left()), y-(polyBox.Bottom()-outline.Bottom())))
	cell.AddInst(inst)
	cell.AddPortRect(port, li, inst.Transform().ApplyRect(liBox))

	if right {
		return finger.WithSpan(geom.Horiz, geom.NewSpan(finger.Left(), x)), nil
	}
	return finger.WithSpan(geom.Horiz, geom.NewSpan(x+polyBox.Width(), finger.Right())), nil
}

func sdStack(t MosType) string {
	if t == Pmos {
		return "pdiffc"
	}
	return "ndiffc"
}
