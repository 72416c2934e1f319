package tech

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/chazu/sramlay/pkg/geom"
)

// Config is a process rule deck.
type Config struct {
	Grid    geom.Int                `yaml:"grid" toml:"grid"`
	Tech    string                  `yaml:"tech" toml:"tech"`
	Gamma   float64                 `yaml:"gamma" toml:"gamma"`
	Beta    float64                 `yaml:"beta" toml:"beta"`
	Units   string                  `yaml:"units" toml:"units"`
	Layers  map[string]*LayerConfig `yaml:"layers" toml:"layers"`
	Derived []string                `yaml:"derived,omitempty" toml:"derived,omitempty"`
	Spacing []SpacingConfig         `yaml:"spacing" toml:"spacing"`
	Stacks  map[string]ContactStack `yaml:"stacks" toml:"stacks"`
	Routing RoutingConfig           `yaml:"routing" toml:"routing"`
}

// LayerConfig is the rule set of a single layer.
type LayerConfig struct {
	Desc       string       `yaml:"desc,omitempty" toml:"desc,omitempty"`
	Width      geom.Int     `yaml:"width,omitempty" toml:"width,omitempty"`
	Space      geom.Int     `yaml:"space,omitempty" toml:"space,omitempty"`
	Area       geom.Int     `yaml:"area,omitempty" toml:"area,omitempty"`
	Enclosures []Enclosure  `yaml:"enclosures,omitempty" toml:"enclosures,omitempty"`
	Extensions []Extension  `yaml:"extensions,omitempty" toml:"extensions,omitempty"`
	LayerNum   int16        `yaml:"layernum" toml:"layernum"`
	Purposes   []PurposeNum `yaml:"purposes,omitempty" toml:"purposes,omitempty"`
	Color      string       `yaml:"color,omitempty" toml:"color,omitempty"`
	Stack      *LayerStack  `yaml:"stack,omitempty" toml:"stack,omitempty"`

	name string
}

// LayerStack places a physical layer in the vertical process stack. Layers
// without one (implants, outlines) are not part of 3-D views.
type LayerStack struct {
	Height    geom.Int `yaml:"height" toml:"height"`
	Thickness geom.Int `yaml:"thickness" toml:"thickness"`
	Metal     bool     `yaml:"metal,omitempty" toml:"metal,omitempty"`
}

// Enclosure states that this layer must be enclosed by Layer by at least
// Enclosure. A one-sided rule only needs to hold on one pair of opposite
// edges.
type Enclosure struct {
	Layer     string   `yaml:"layer" toml:"layer"`
	Enclosure geom.Int `yaml:"enclosure" toml:"enclosure"`
	OneSide   bool     `yaml:"one_side" toml:"one_side"`
}

// Extension states that this layer must extend past Layer by Extend.
type Extension struct {
	Layer  string   `yaml:"layer" toml:"layer"`
	Extend geom.Int `yaml:"extend" toml:"extend"`
}

// SpacingConfig is a minimum distance between shapes on two layers.
type SpacingConfig struct {
	From string   `yaml:"from" toml:"from"`
	To   string   `yaml:"to" toml:"to"`
	Dist geom.Int `yaml:"dist" toml:"dist"`
}

// ContactStack lists the bottom conductor, cut, and top conductor layers
// of a contact or via.
type ContactStack struct {
	Layers []string `yaml:"layers" toml:"layers"`
}

func (s ContactStack) Bottom() string { return s.Layers[0] }
func (s ContactStack) Cut() string    { return s.Layers[1] }
func (s ContactStack) Top() string    { return s.Layers[2] }

// RoutingConfig orders the routing metals from the lowest up. Vias[i]
// names the stack that connects Metals[i] to Metals[i+1].
type RoutingConfig struct {
	Metals []string `yaml:"metals" toml:"metals"`
	Vias   []string `yaml:"vias" toml:"vias"`
}

// Name returns the layer name the config was registered under.
func (l *LayerConfig) Name() string { return l.name }

// Enclosure returns the largest two-sided enclosure of this layer by
// other, or zero if no rule names other.
func (l *LayerConfig) Enclosure(other string) geom.Int {
	return l.enclosure(other, false)
}

// OneSideEnclosure returns the largest enclosure of this layer by other
// across all rules, one-sided or not.
func (l *LayerConfig) OneSideEnclosure(other string) geom.Int {
	return l.enclosure(other, true)
}

func (l *LayerConfig) enclosure(other string, oneSided bool) geom.Int {
	rules := lo.Filter(l.Enclosures, func(e Enclosure, _ int) bool {
		return e.Layer == other && (oneSided || !e.OneSide)
	})
	return lo.Max(lo.Map(rules, func(e Enclosure, _ int) geom.Int { return e.Enclosure }))
}

// Extension returns how far this layer must extend past other.
func (l *LayerConfig) Extension(other string) geom.Int {
	ext, ok := lo.Find(l.Extensions, func(e Extension) bool { return e.Layer == other })
	if !ok {
		return 0
	}
	return ext.Extend
}

// Layer returns the rules of the named layer.
func (c *Config) Layer(name string) (*LayerConfig, error) {
	l, ok := c.Layers[name]
	if !ok || l == nil {
		return nil, errors.Wrapf(ErrUnknownLayer, "layer %q", name)
	}
	return l, nil
}

// MustLayer is like Layer but panics if the layer is not defined. It is
// meant for generator code whose layer names are fixed at compile time.
func (c *Config) MustLayer(name string) *LayerConfig {
	l, err := c.Layer(name)
	if err != nil {
		panic(err)
	}
	return l
}

// Space returns the minimum spacing between layers a and b in either
// order, or zero if none is configured.
func (c *Config) Space(a, b string) geom.Int {
	s, ok := lo.Find(c.Spacing, func(s SpacingConfig) bool {
		return (s.From == a && s.To == b) || (s.From == b && s.To == a)
	})
	if !ok {
		return 0
	}
	return s.Dist
}

// ScalePmos returns the PMOS width paired with an NMOS of width nmos:
// nmos times beta, rounded to the grid.
func (c *Config) ScalePmos(nmos geom.Int) geom.Int {
	units := float64(nmos) * c.Beta / float64(c.Grid)
	return roundHalfAway(units) * c.Grid
}

func roundHalfAway(f float64) geom.Int {
	if f < 0 {
		return -geom.Int(-f + 0.5)
	}
	return geom.Int(f + 0.5)
}

// Stack returns the named contact stack.
func (c *Config) Stack(name string) (ContactStack, error) {
	s, ok := c.Stacks[name]
	if !ok {
		return ContactStack{}, errors.Wrapf(ErrUnknownStack, "stack %q", name)
	}
	if len(s.Layers) != 3 {
		return ContactStack{}, errors.Wrapf(ErrMalformedStack, "stack %q has %d layers, want 3", name, len(s.Layers))
	}
	return s, nil
}

// Metal returns the i-th routing metal, counting from the lowest.
func (c *Config) Metal(i int) (string, error) {
	if i < 0 || i >= len(c.Routing.Metals) {
		return "", errors.Wrapf(ErrUnknownLayer, "routing metal %d", i)
	}
	return c.Routing.Metals[i], nil
}

// MetalIndex returns the routing index of the named metal.
func (c *Config) MetalIndex(name string) (int, error) {
	i := lo.IndexOf(c.Routing.Metals, name)
	if i < 0 {
		return 0, errors.Wrapf(ErrUnknownLayer, "%q is not a routing metal", name)
	}
	return i, nil
}

// ViaBetween returns the stack connecting routing metals i and i+1.
func (c *Config) ViaBetween(i int) (ContactStack, string, error) {
	if i < 0 || i >= len(c.Routing.Vias) {
		return ContactStack{}, "", errors.Wrapf(ErrUnknownStack, "no via above routing metal %d", i)
	}
	name := c.Routing.Vias[i]
	s, err := c.Stack(name)
	return s, name, err
}

func (c *Config) isRuleLayer(name string) bool {
	if _, ok := c.Layers[name]; ok {
		return true
	}
	return lo.Contains(c.Derived, name)
}

// Validate checks the deck for internal consistency. Every failure wraps
// ErrMalformedConfig, ErrUnknownLayer, or ErrMalformedStack and names the
// offending key.
func (c *Config) Validate() error {
	if c.Grid <= 0 {
		return errors.Wrapf(ErrMalformedConfig, "grid must be positive, got %d", c.Grid)
	}
	if len(c.Layers) == 0 {
		return errors.Wrap(ErrMalformedConfig, "no layers defined")
	}
	for _, name := range sortedKeys(c.Layers) {
		l := c.Layers[name]
		if l == nil {
			return errors.Wrapf(ErrMalformedConfig, "layers.%s is empty", name)
		}
		l.name = name
		for _, e := range l.Enclosures {
			if !c.isRuleLayer(e.Layer) {
				return errors.Wrapf(ErrUnknownLayer, "layers.%s.enclosures names %q", name, e.Layer)
			}
			if e.Enclosure < 0 {
				return errors.Wrapf(ErrMalformedConfig, "layers.%s.enclosures.%s is negative", name, e.Layer)
			}
		}
		for _, e := range l.Extensions {
			if !c.isRuleLayer(e.Layer) {
				return errors.Wrapf(ErrUnknownLayer, "layers.%s.extensions names %q", name, e.Layer)
			}
		}
		if l.Width < 0 || l.Space < 0 || l.Area < 0 {
			return errors.Wrapf(ErrMalformedConfig, "layers.%s has a negative rule", name)
		}
		if l.Color != "" {
			if _, _, _, err := ParseColor(l.Color); err != nil {
				return errors.Wrapf(ErrMalformedConfig, "layers.%s.color: %v", name, err)
			}
		}
		if l.Stack != nil && l.Stack.Thickness <= 0 {
			return errors.Wrapf(ErrMalformedConfig, "layers.%s.stack.thickness must be positive", name)
		}
	}
	for i, s := range c.Spacing {
		for _, n := range []string{s.From, s.To} {
			if !c.isRuleLayer(n) {
				return errors.Wrapf(ErrUnknownLayer, "spacing[%d] names %q", i, n)
			}
		}
	}
	for _, name := range sortedKeys(c.Stacks) {
		s := c.Stacks[name]
		if len(s.Layers) != 3 {
			return errors.Wrapf(ErrMalformedStack, "stacks.%s has %d layers, want 3", name, len(s.Layers))
		}
		for _, n := range s.Layers {
			if _, ok := c.Layers[n]; !ok {
				return errors.Wrapf(ErrUnknownLayer, "stacks.%s names %q", name, n)
			}
		}
	}
	if err := c.validateRouting(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRouting() error {
	r := c.Routing
	if len(r.Metals) == 0 {
		return nil
	}
	for _, m := range r.Metals {
		if _, ok := c.Layers[m]; !ok {
			return errors.Wrapf(ErrUnknownLayer, "routing.metals names %q", m)
		}
	}
	if len(r.Vias) != len(r.Metals)-1 {
		return errors.Wrapf(ErrMalformedConfig, "routing has %d metals but %d vias", len(r.Metals), len(r.Vias))
	}
	for i, v := range r.Vias {
		s, ok := c.Stacks[v]
		if !ok {
			return errors.Wrapf(ErrUnknownStack, "routing.vias names %q", v)
		}
		if s.Bottom() != r.Metals[i] || s.Top() != r.Metals[i+1] {
			return errors.Wrapf(ErrMalformedConfig, "routing.vias[%d] %q connects %s to %s, want %s to %s",
				i, v, s.Bottom(), s.Top(), r.Metals[i], r.Metals[i+1])
		}
	}
	return nil
}

// StackLayers returns the names of the layers that have a place in the
// process stack, lowest first. Layers at the same height sort by name.
func (c *Config) StackLayers() []string {
	names := lo.Filter(sortedKeys(c.Layers), func(n string, _ int) bool { return c.Layers[n].Stack != nil })
	slices.SortStableFunc(names, func(a, b string) int {
		return cmp.Compare(c.Layers[a].Stack.Height, c.Layers[b].Stack.Height)
	})
	return names
}

// ParseColor decodes a #rrggbb color into components in [0, 1].
func ParseColor(s string) (r, g, b float64, err error) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, errors.Errorf("color %q is not #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, errors.Wrapf(err, "color %q", s)
	}
	return float64(v>>16&0xff) / 255, float64(v>>8&0xff) / 255, float64(v&0xff) / 255, nil
}

func (c *Config) String() string {
	return fmt.Sprintf("%s (grid %d%s, %d layers, %d stacks)", c.Tech, c.Grid, c.Units, len(c.Layers), len(c.Stacks))
}

func logger() *slog.Logger {
	return slog.Default().With(slog.String("component", "tech"))
}
