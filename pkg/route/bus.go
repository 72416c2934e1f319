package route

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/layout"
	"github.com/chazu/sramlay/pkg/pdk"
)

// Bus is a set of parallel minimum-pitch lines on one layer.
type Bus struct {
	Layer string
	Dir   geom.Dir // direction the lines run in
	Lines int
	Line  geom.Int
	Space geom.Int

	// Extent is the span every line covers along Dir.
	Extent geom.Span
	// Start is the lower edge of the first line across Dir.
	Start geom.Int
}

// NewBus returns a bus of n lines at the minimum width and space of layer.
func NewBus(p *pdk.Pdk, layer string, dir geom.Dir, n int, extent geom.Span) (*Bus, error) {
	lc, err := p.Config().Layer(layer)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, errors.Wrapf(ErrInvalidBus, "bus of %d lines", n)
	}
	return &Bus{Layer: layer, Dir: dir, Lines: n, Line: lc.Width, Space: lc.Space, Extent: extent}, nil
}

// AllowContact widens the spacing so that a via of stack can land on every
// line without violating spacing on either conductor.
func (b *Bus) AllowContact(p *pdk.Pdk, stack string) error {
	cfg := p.Config()
	s, err := cfg.Stack(stack)
	if err != nil {
		return err
	}
	cut := cfg.MustLayer(s.Cut())
	space := max(b.Space, cut.Width+cut.Space-b.Line)
	for _, name := range []string{s.Bottom(), s.Top()} {
		l := cfg.MustLayer(name)
		space = max(space, cut.Width+2*cut.Enclosure(name)+l.Space-b.Line)
	}
	b.Space = space
	return nil
}

// Span returns the total extent of the bus across Dir.
func (b *Bus) Span() geom.Int {
	return geom.Int(b.Lines)*b.Line + geom.Int(b.Lines-1)*b.Space
}

// AlignLow places the first line's lower edge at x.
func (b *Bus) AlignLow(x geom.Int) *Bus {
	b.Start = x
	return b
}

// AlignHigh places the last line's upper edge at x.
func (b *Bus) AlignHigh(x geom.Int) *Bus {
	b.Start = x - b.Span()
	return b
}

// Rect returns the i-th line.
func (b *Bus) Rect(i int) geom.Rect {
	lo := b.Start + geom.Int(i)*(b.Line+b.Space)
	return geom.FromDirSpans(b.Dir, b.Extent, geom.Span{Start: lo, Stop: lo + b.Line})
}

// Draw adds every line to c with a port named <prefix>_<i>.
func (b *Bus) Draw(p *pdk.Pdk, c *layout.Cell, prefix string) error {
	key, err := p.Key(b.Layer)
	if err != nil {
		return err
	}
	for i := 0; i < b.Lines; i++ {
		r := b.Rect(i)
		c.AddRect(key, r)
		c.AddPortRect(fmt.Sprintf("%s_%d", prefix, i), key, r)
	}
	return nil
}
