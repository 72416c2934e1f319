package pdk

import (
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/layout"
	"github.com/chazu/sramlay/pkg/tech"
)

// ContactParams identifies a contact array. It is comparable and serves as
// the cache key. Dir is the relaxed direction: along it the conductor
// layers take the larger one-sided enclosure.
type ContactParams struct {
	Stack string
	Rows  int
	Cols  int
	Dir   geom.Dir
}

// Name returns the generated cell name, <stack>_<rows>x<cols><h|v>.
func (cp ContactParams) Name() string {
	return fmt.Sprintf("%s_%dx%d%s", cp.Stack, cp.Rows, cp.Cols, cp.Dir.Short())
}

// Count returns the number of cuts along dir.
func (cp ContactParams) Count(dir geom.Dir) int {
	if dir == geom.Horiz {
		return cp.Cols
	}
	return cp.Rows
}

// Contact is a generated contact cell together with the bounding box of
// each of its three layers.
type Contact struct {
	Cell   *layout.Cell
	Params ContactParams
	Stack  tech.ContactStack

	bboxes map[tech.LayerKey]geom.Rect
}

// BBox returns the bounding box of the contact on layer.
func (c *Contact) BBox(layer tech.LayerKey) (geom.Rect, bool) {
	r, ok := c.bboxes[layer]
	return r, ok
}

// GetContact returns the contact for params, generating it on first use.
// At most one generation runs per distinct params.
func (p *Pdk) GetContact(params ContactParams) (*Contact, error) {
	if params.Rows <= 0 || params.Cols <= 0 {
		return nil, errors.Wrapf(ErrInvalidContact, "%s: %dx%d", params.Stack, params.Rows, params.Cols)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if ct, ok := p.contacts[params]; ok {
		return ct, nil
	}
	ct, err := p.drawContact(params)
	if err != nil {
		return nil, err
	}
	p.contacts[params] = ct
	p.logger.Debug("generated contact", slog.String("cell", ct.Cell.Name), slog.Int("cached", len(p.contacts)))
	return ct, nil
}

// MustContact is like GetContact but panics on error.
func (p *Pdk) MustContact(params ContactParams) *Contact {
	ct, err := p.GetContact(params)
	if err != nil {
		panic(err)
	}
	return ct
}

func (p *Pdk) drawContact(params ContactParams) (*Contact, error) {
	stack, err := p.config.Stack(params.Stack)
	if err != nil {
		return nil, err
	}
	cut, err := p.config.Layer(stack.Cut())
	if err != nil {
		return nil, err
	}
	cutKey, err := p.layers.Key(stack.Cut())
	if err != nil {
		return nil, err
	}
	if cut.Width <= 0 {
		return nil, errors.Wrapf(tech.ErrMalformedConfig, "cut layer %s has no width", stack.Cut())
	}

	w, s := cut.Width, cut.Space
	rows, cols := geom.Int(params.Rows), geom.Int(params.Cols)
	cutBox := geom.R(0, 0, cols*w+(cols-1)*s, rows*w+(rows-1)*s)

	cell := layout.NewCell(params.Name())
	bboxes := map[tech.LayerKey]geom.Rect{cutKey: cutBox}
	for i := geom.Int(0); i < rows; i++ {
		for j := geom.Int(0); j < cols; j++ {
			x, y := j*(w+s), i*(w+s)
			cell.AddRect(cutKey, geom.R(x, y, x+w, y+w))
		}
	}

	var port layout.Port
	port.Name = "x"
	for _, name := range []string{stack.Bottom(), stack.Top()} {
		key, err := p.layers.Key(name)
		if err != nil {
			return nil, err
		}
		box := encloseCut(cutBox, cut, name, params.Dir)
		cell.AddRect(key, box)
		bboxes[key] = box
		port.Shapes = append(port.Shapes, layout.Shape{Layer: key, Rect: box})
	}
	cell.AddPort(port)

	return &Contact{Cell: cell, Params: params, Stack: stack, bboxes: bboxes}, nil
}

// encloseCut grows the cut array box by the symmetric enclosure of the cut
// by layer, and along dir by the larger of that and the one-sided
// enclosure.
func encloseCut(cutBox geom.Rect, cut *tech.LayerConfig, layer string, dir geom.Dir) geom.Rect {
	enc := cut.Enclosure(layer)
	relaxed := max(enc, cut.OneSideEnclosure(layer))
	return cutBox.GrowDir(dir.Other(), enc).GrowDir(dir, relaxed)
}

// relaxedEnclosure returns how far layer extends past the cut array on
// each side along the relaxed direction. The cut layer itself has none.
func relaxedEnclosure(stack tech.ContactStack, cut *tech.LayerConfig, layer string) geom.Int {
	if layer == stack.Cut() {
		return 0
	}
	return max(cut.Enclosure(layer), cut.OneSideEnclosure(layer))
}
