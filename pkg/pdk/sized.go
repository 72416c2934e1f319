package pdk

import (
	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/tech"
)

func (p *Pdk) stackLayers(stack, layer string) (tech.ContactStack, *tech.LayerConfig, error) {
	s, err := p.config.Stack(stack)
	if err != nil {
		return s, nil, err
	}
	cut, err := p.config.Layer(s.Cut())
	if err != nil {
		return s, nil, err
	}
	if layer != "" && layer != s.Bottom() && layer != s.Cut() && layer != s.Top() {
		return s, nil, errors.Wrapf(tech.ErrUnknownLayer, "stack %s has no layer %q", stack, layer)
	}
	return s, cut, nil
}

// fitCount returns the most cuts of width w and space s that fit in span
// with enc added on both ends.
func fitCount(span, w, s, enc geom.Int) int {
	avail := span - 2*enc + s
	if avail < w+s {
		return 0
	}
	return int(geom.FloorDiv(avail, w+s))
}

func paramsAlong(stack string, dir geom.Dir, n int) ContactParams {
	cp := ContactParams{Stack: stack, Rows: 1, Cols: 1, Dir: dir}
	if dir == geom.Horiz {
		cp.Cols = n
	} else {
		cp.Rows = n
	}
	return cp
}

// SizedParams returns the single-row (or single-column) contact with the
// most cuts along dir whose extent on layer, relaxed enclosure included on
// both ends, fits in span. A span too small for one cut fails with
// ErrInsufficientSpace.
func (p *Pdk) SizedParams(stack string, dir geom.Dir, layer string, span geom.Int) (ContactParams, error) {
	s, cut, err := p.stackLayers(stack, layer)
	if err != nil {
		return ContactParams{}, err
	}
	n := fitCount(span, cut.Width, cut.Space, relaxedEnclosure(s, cut, layer))
	if n < 1 {
		return ContactParams{}, errors.Wrapf(ErrInsufficientSpace, "%s on %s: span %d", stack, layer, span)
	}
	return paramsAlong(stack, dir, n), nil
}

// ContactSized generates the contact chosen by SizedParams.
func (p *Pdk) ContactSized(stack string, dir geom.Dir, layer string, span geom.Int) (*Contact, error) {
	cp, err := p.SizedParams(stack, dir, layer, span)
	if err != nil {
		return nil, err
	}
	return p.GetContact(cp)
}

// CoveringParams returns the contact with the fewest cuts along dir such
// that the cut array, n*w + (n-1)*s, is at least span. It rounds up, so
// the result never undersizes the target.
func (p *Pdk) CoveringParams(stack string, dir geom.Dir, span geom.Int) (ContactParams, error) {
	_, cut, err := p.stackLayers(stack, "")
	if err != nil {
		return ContactParams{}, err
	}
	n := 1
	if span > cut.Width {
		n = int(geom.CeilDiv(span+cut.Space, cut.Width+cut.Space))
	}
	return paramsAlong(stack, dir, n), nil
}

// ContactCovering generates the contact chosen by CoveringParams.
func (p *Pdk) ContactCovering(stack string, dir geom.Dir, span geom.Int) (*Contact, error) {
	cp, err := p.CoveringParams(stack, dir, span)
	if err != nil {
		return nil, err
	}
	return p.GetContact(cp)
}

// WithinParams returns the largest rows x cols contact whose extent on
// layer fits inside r. The relaxed direction follows the longer side of r.
func (p *Pdk) WithinParams(stack, layer string, r geom.Rect) (ContactParams, error) {
	s, cut, err := p.stackLayers(stack, layer)
	if err != nil {
		return ContactParams{}, err
	}
	dir := r.LongerDir()
	sym := geom.Int(0)
	if layer != s.Cut() {
		sym = cut.Enclosure(layer)
	}
	relaxed := relaxedEnclosure(s, cut, layer)

	along := fitCount(r.Span(dir).Length(), cut.Width, cut.Space, relaxed)
	across := fitCount(r.Span(dir.Other()).Length(), cut.Width, cut.Space, sym)
	if along < 1 || across < 1 {
		return ContactParams{}, errors.Wrapf(ErrInsufficientSpace, "%s on %s within %v", stack, layer, r)
	}
	cp := ContactParams{Stack: stack, Dir: dir}
	if dir == geom.Horiz {
		cp.Cols, cp.Rows = along, across
	} else {
		cp.Rows, cp.Cols = along, across
	}
	return cp, nil
}

// ContactWithin generates the contact chosen by WithinParams.
func (p *Pdk) ContactWithin(stack, layer string, r geom.Rect) (*Contact, error) {
	cp, err := p.WithinParams(stack, layer, r)
	if err != nil {
		return nil, err
	}
	return p.GetContact(cp)
}
