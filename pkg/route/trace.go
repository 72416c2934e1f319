package route

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/layout"
	"github.com/chazu/sramlay/pkg/pdk"
)

// TraceDir is the direction a trace last extended in.
type TraceDir int

const (
	None TraceDir = iota
	Up
	Down
	Left
	Right
)

func (d TraceDir) String() string {
	switch d {
	case None:
		return "none"
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("TraceDir(%d)", int(d))
	}
}

// Axis returns the direction of travel, and false for None.
func (d TraceDir) Axis() (geom.Dir, bool) {
	switch d {
	case Left, Right:
		return geom.Horiz, true
	case Up, Down:
		return geom.Vert, true
	}
	return 0, false
}

func toward(axis geom.Dir, positive bool) TraceDir {
	switch {
	case axis == geom.Horiz && positive:
		return Right
	case axis == geom.Horiz:
		return Left
	case positive:
		return Up
	default:
		return Down
	}
}

// cursor is the width x width square at the leading end of rect: centered
// on rect for a trace that has not moved yet, otherwise flush with the edge
// it last extended toward.
func cursor(state TraceDir, rect geom.Rect, width, grid geom.Int) (geom.Rect, error) {
	cx, err := geom.FromCenterSpanGridded(rect.HSpan().Center(), width, grid)
	if err != nil {
		return geom.Rect{}, err
	}
	cy, err := geom.FromCenterSpanGridded(rect.VSpan().Center(), width, grid)
	if err != nil {
		return geom.Rect{}, err
	}
	switch state {
	case Right:
		cx = geom.Span{Start: rect.Right() - width, Stop: rect.Right()}
	case Left:
		cx = geom.Span{Start: rect.Left(), Stop: rect.Left() + width}
	case Up:
		cy = geom.Span{Start: rect.Top() - width, Stop: rect.Top()}
	case Down:
		cy = geom.Span{Start: rect.Bottom(), Stop: rect.Bottom() + width}
	}
	return geom.FromSpans(cx, cy), nil
}

// step is the outcome of one transition.
type step struct {
	rect   geom.Rect
	next   TraceDir
	extend bool // rect replaces the current segment instead of adding one
	noop   bool
}

// nextSegment is the trace transition function. Moving along axis to
// target from state with current segment rect either does nothing (target
// already inside rect's span), stretches rect (same direction), or starts a
// new segment from the cursor at the end of rect.
func nextSegment(state TraceDir, rect geom.Rect, axis geom.Dir, target, width, grid geom.Int) (step, error) {
	span := rect.Span(axis)
	if span.Covers(target) {
		return step{rect: rect, next: state, noop: true}, nil
	}
	dir := toward(axis, target > span.Stop)

	if dir == state {
		return step{rect: rect.WithSpan(axis, span.Add(target)), next: dir, extend: true}, nil
	}

	cur, err := cursor(state, rect, width, grid)
	if err != nil {
		return step{}, err
	}
	along := geom.NewSpan(cur.EdgeFartherFrom(target, axis), target)
	return step{rect: cur.WithSpan(axis, along), next: dir}, nil
}

// Trace is a wire under construction. Its methods chain; after the first
// error every further call is a no-op and the error is reported by Err and
// by Router.Finish.
type Trace struct {
	router *Router
	id     int
	layer  int
	width  geom.Int
	rect   geom.Rect
	state  TraceDir
	elem   int
	ctr    int
	err    error
}

// Rect returns the current segment.
func (t *Trace) Rect() geom.Rect { return t.rect }

// Dir returns the direction the trace last extended in.
func (t *Trace) Dir() TraceDir { return t.state }

// Layer returns the name of the metal the trace is on.
func (t *Trace) Layer() string { return t.router.metalName(t.layer) }

// Err returns the first error the trace hit.
func (t *Trace) Err() error { return t.err }

func (t *Trace) fail(err error) {
	if t.err == nil {
		t.err = errors.Wrapf(err, "trace %d", t.id)
		t.router.record(t.err)
	}
}

func (t *Trace) grid() geom.Int { return t.router.pdk.Grid() }

func (t *Trace) draw(r geom.Rect) int {
	c := t.router.cell
	c.AddRect(t.router.metals[t.layer], r)
	return len(c.Elems) - 1
}

// Horiz extends the trace horizontally to x.
func (t *Trace) Horiz(x geom.Int) *Trace { return t.move(geom.Horiz, x) }

// Vert extends the trace vertically to y.
func (t *Trace) Vert(y geom.Int) *Trace { return t.move(geom.Vert, y) }

func (t *Trace) move(axis geom.Dir, target geom.Int) *Trace {
	if t.err != nil {
		return t
	}
	s, err := nextSegment(t.state, t.rect, axis, target, t.width, t.grid())
	if err != nil {
		t.fail(err)
		return t
	}
	switch {
	case s.noop:
		return t
	case s.extend:
		t.router.cell.Elems[t.elem].Rect = s.rect
	default:
		t.elem = t.draw(s.rect)
	}
	t.rect, t.state = s.rect, s.next
	return t
}

// HorizToRect extends the trace horizontally to the edge of r farther
// from the trace's center.
func (t *Trace) HorizToRect(r geom.Rect) *Trace {
	return t.Horiz(r.EdgeFartherFrom(t.rect.Center().X, geom.Horiz))
}

// VertToRect extends the trace vertically to the edge of r farther from
// the trace's center.
func (t *Trace) VertToRect(r geom.Rect) *Trace {
	return t.Vert(r.EdgeFartherFrom(t.rect.Center().Y, geom.Vert))
}

// HorizToTrace extends the trace horizontally across other's segment.
func (t *Trace) HorizToTrace(other *Trace) *Trace { return t.HorizToRect(other.rect) }

// VertToTrace extends the trace vertically across other's segment.
func (t *Trace) VertToTrace(other *Trace) *Trace { return t.VertToRect(other.rect) }

// SetWidth changes the width of segments drawn from now on.
func (t *Trace) SetWidth(w geom.Int) *Trace {
	if t.err != nil {
		return t
	}
	if w <= 0 || w%t.grid() != 0 {
		t.fail(errors.Wrapf(ErrInvalidWidth, "%d", w))
		return t
	}
	t.width = w
	return t
}

// SetMinWidth resets the width to the metal's minimum.
func (t *Trace) SetMinWidth() *Trace {
	if t.err != nil {
		return t
	}
	return t.SetWidth(t.router.pdk.Config().MustLayer(t.Layer()).Width)
}

// SBend jogs from the current segment to target, travelling along dir.
// The two must not overlap along dir. The jog is centered in the gap
// between them and the trace continues from target.
func (t *Trace) SBend(target geom.Rect, dir geom.Dir) *Trace {
	if t.err != nil {
		return t
	}
	src := t.rect
	if src.Span(dir).Intersects(target.Span(dir)) {
		t.fail(errors.Wrapf(ErrDegenerateOverlap, "s-bend from %v to %v overlaps along %s", src, target, dir))
		return t
	}
	first, second := src, target
	if target.LowerEdge(dir) < src.LowerEdge(dir) {
		first, second = target, src
	}
	gap := geom.NewSpan(first.UpperEdge(dir), second.LowerEdge(dir))
	midAlong, err := geom.FromCenterSpanGridded(gap.Center(), t.width, t.grid())
	if err != nil {
		t.fail(err)
		return t
	}
	if midAlong.Start < gap.Start || midAlong.Stop > gap.Stop {
		t.fail(errors.Wrapf(ErrDegenerateOverlap, "s-bend gap %v is narrower than width %d", gap, t.width))
		return t
	}
	mid := geom.FromDirSpans(dir, midAlong, src.Span(dir.Other()).Union(target.Span(dir.Other())))
	t.draw(mid)
	// A jog that fills the gap exactly needs no connector on that side.
	if near := geom.NewSpan(first.UpperEdge(dir), mid.LowerEdge(dir)); near.Length() > 0 {
		t.draw(geom.FromDirSpans(dir, near, first.Span(dir.Other())))
	}
	if far := geom.NewSpan(mid.UpperEdge(dir), second.LowerEdge(dir)); far.Length() > 0 {
		t.draw(geom.FromDirSpans(dir, far, second.Span(dir.Other())))
	}
	t.elem = t.draw(target)
	t.rect, t.state = target, None
	return t
}

// Up drops a minimum via at the cursor and continues on the metal above.
func (t *Trace) Up() *Trace { return t.changeLayer(1) }

// Down drops a minimum via at the cursor and continues on the metal below.
func (t *Trace) Down() *Trace { return t.changeLayer(-1) }

func (t *Trace) changeLayer(delta int) *Trace {
	if t.err != nil {
		return t
	}
	cur, err := cursor(t.state, t.rect, t.width, t.grid())
	if err != nil {
		t.fail(err)
		return t
	}
	if err := t.contact(cur, delta > 0, false); err != nil {
		t.fail(err)
		return t
	}
	t.layer += delta
	t.width = t.router.pdk.Config().MustLayer(t.Layer()).Width
	t.rect, t.state = cur, None
	t.elem = t.draw(cur)
	return t
}

// ContactUp places a via to the metal above, fitted into the overlap of
// the current segment and r. The trace stays on its layer.
func (t *Trace) ContactUp(r geom.Rect) *Trace { return t.contactOn(r, true, false) }

// ContactDown places a via to the metal below, fitted into the overlap of
// the current segment and r.
func (t *Trace) ContactDown(r geom.Rect) *Trace { return t.contactOn(r, false, false) }

// UpOn is ContactUp followed by a move to the metal above, continuing from
// the overlap.
func (t *Trace) UpOn(r geom.Rect) *Trace { return t.contactOn(r, true, true) }

// DownOn is ContactDown followed by a move to the metal below.
func (t *Trace) DownOn(r geom.Rect) *Trace { return t.contactOn(r, false, true) }

func (t *Trace) contactOn(r geom.Rect, above, switchLayer bool) *Trace {
	if t.err != nil {
		return t
	}
	overlap := t.rect.Intersection(r)
	if overlap.IsEmpty() {
		t.fail(errors.Wrapf(ErrDegenerateOverlap, "%v does not overlap %v", t.rect, r))
		return t
	}
	if err := t.contact(overlap, above, true); err != nil {
		t.fail(err)
		return t
	}
	if switchLayer {
		if above {
			t.layer++
		} else {
			t.layer--
		}
		t.width = t.router.pdk.Config().MustLayer(t.Layer()).Width
		t.rect, t.state = overlap, None
		t.elem = t.draw(overlap)
	}
	return t
}

// contact places a via between the current metal and the one above or
// below, centered on r. When fit is set the via is sized to r on the
// current metal, falling back to a single cut if nothing larger fits.
func (t *Trace) contact(r geom.Rect, above, fit bool) error {
	cfg := t.router.pdk.Config()
	lower := t.layer
	if !above {
		lower = t.layer - 1
	}
	if lower < 0 || lower+1 >= len(cfg.Routing.Metals) {
		where := "below"
		if above {
			where = "above"
		}
		return errors.Wrapf(ErrNoLayer, "no metal %s %s", where, t.Layer())
	}
	_, stack, err := cfg.ViaBetween(lower)
	if err != nil {
		return err
	}

	minimum := pdk.ContactParams{Stack: stack, Rows: 1, Cols: 1, Dir: r.LongerDir()}
	var ct *pdk.Contact
	if fit {
		ct, err = t.router.pdk.ContactWithin(stack, t.Layer(), r)
		if errors.Is(err, pdk.ErrInsufficientSpace) {
			ct, err = t.router.pdk.GetContact(minimum)
		}
	} else {
		ct, err = t.router.pdk.GetContact(minimum)
	}
	if err != nil {
		return err
	}

	t.ctr++
	inst := layout.NewInstance(contactName(t.id, t.ctr), ct.Cell)
	inst.AlignCentersGridded(r, t.grid())
	t.router.cell.AddInst(inst)
	return nil
}
