package pdk

import (
	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/layout"
)

// TwoLevelParams describes two stacked contacts sharing a center, such as
// a diffusion contact with a local-interconnect via above it.
type TwoLevelParams struct {
	Name     string
	Bot, Top ContactParams
}

// TwoLevelContact draws the bottom and top contacts centered on each other.
// The resulting cell has one port "x" holding the shapes of both.
func (p *Pdk) TwoLevelContact(params TwoLevelParams) (*layout.Cell, error) {
	bot, err := p.GetContact(params.Bot)
	if err != nil {
		return nil, err
	}
	top, err := p.GetContact(params.Top)
	if err != nil {
		return nil, err
	}

	botInst := layout.NewInstance("bot", bot.Cell)
	topInst := layout.NewInstance("top", top.Cell).AlignCentersGridded(botInst.BBox(), p.Grid())

	port := botInst.MustPort("x")
	port.Shapes = append(port.Shapes, topInst.MustPort("x").Shapes...)

	cell := layout.NewCell(params.Name)
	cell.AddInst(botInst).AddInst(topInst).AddPort(port)
	return cell, nil
}

// Outline returns the bounding box of every layer the contact draws.
func (c *Contact) Outline() geom.Rect { return c.Cell.BBox() }
