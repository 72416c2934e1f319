package route

import (
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/layout"
	"github.com/chazu/sramlay/pkg/pdk"
	"github.com/chazu/sramlay/pkg/tech"
)

// Router collects traces into one scratch cell. It is not safe for
// concurrent use.
type Router struct {
	pdk    *pdk.Pdk
	cell   *layout.Cell
	metals []tech.LayerKey
	traces int
	err    error
	logger *slog.Logger
}

// NewRouter returns a router drawing on the routing metals of the deck.
func NewRouter(name string, p *pdk.Pdk) (*Router, error) {
	cfg := p.Config()
	if len(cfg.Routing.Metals) == 0 {
		return nil, errors.Wrap(ErrNoLayer, "rule deck has no routing metals")
	}
	metals := make([]tech.LayerKey, len(cfg.Routing.Metals))
	for i, m := range cfg.Routing.Metals {
		k, err := p.Key(m)
		if err != nil {
			return nil, err
		}
		metals[i] = k
	}
	return &Router{
		pdk:    p,
		cell:   layout.NewCell(name),
		metals: metals,
		logger: slog.Default().With(slog.String("component", "route"), slog.String("router", name)),
	}, nil
}

// Trace starts a trace on the named routing metal. The pin rectangle is
// drawn as the trace's first element.
func (r *Router) Trace(pin geom.Rect, metal string) *Trace {
	r.traces++
	t := &Trace{router: r, id: r.traces, rect: pin}
	idx, err := r.pdk.Config().MetalIndex(metal)
	if err != nil {
		t.fail(err)
		return t
	}
	t.layer = idx
	t.width = r.pdk.Config().MustLayer(metal).Width
	t.elem = t.draw(pin)
	return t
}

// Err returns the first error recorded by any trace.
func (r *Router) Err() error { return r.err }

// Cell returns the scratch cell built so far.
func (r *Router) Cell() *layout.Cell { return r.cell }

// Finish packages the routed geometry as an instance named __route whose
// geometry stays where it was drawn. It returns the first trace error, if
// any, instead of a partially routed cell.
func (r *Router) Finish() (*layout.Instance, error) {
	if r.err != nil {
		return nil, errors.Wrapf(r.err, "router %s", r.cell.Name)
	}
	inst := layout.NewInstance("__route", r.cell)
	if !r.cell.IsEmpty() {
		inst.MoveTo(r.cell.BBox().P0)
	}
	r.logger.Debug("routing finished", slog.Int("traces", r.traces),
		slog.Int("rects", len(r.cell.Elems)), slog.Int("contacts", len(r.cell.Insts)))
	return inst, nil
}

func (r *Router) metalName(i int) string {
	return r.pdk.Config().Routing.Metals[i]
}

func (r *Router) record(err error) {
	if r.err == nil {
		r.err = err
	}
}

func contactName(trace, n int) string {
	return fmt.Sprintf("contact_%d_%d", trace, n)
}
