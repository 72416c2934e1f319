package pdk

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/tech"
)

// Pdk is the handle generators draw through. The config and layer
// registry are read-only; the contact cache is safe for concurrent use.
type Pdk struct {
	config *tech.Config
	layers *tech.Layers
	logger *slog.Logger

	mu       sync.Mutex
	contacts map[ContactParams]*Contact
}

// New validates cfg and builds its layer registry.
func New(cfg *tech.Config) (*Pdk, error) {
	if cfg == nil {
		return nil, errors.Wrap(tech.ErrMalformedConfig, "nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	layers, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	return &Pdk{
		config:   cfg,
		layers:   layers,
		logger:   slog.Default().With(slog.String("component", "pdk"), slog.String("tech", cfg.Tech)),
		contacts: make(map[ContactParams]*Contact),
	}, nil
}

// Config returns the rule deck.
func (p *Pdk) Config() *tech.Config { return p.config }

// Layers returns the layer registry.
func (p *Pdk) Layers() *tech.Layers { return p.layers }

// Grid returns the process grid.
func (p *Pdk) Grid() geom.Int { return p.config.Grid }

// Key resolves a layer name.
func (p *Pdk) Key(name string) (tech.LayerKey, error) { return p.layers.Key(name) }

// MustKey resolves a layer name and panics if it is unknown.
func (p *Pdk) MustKey(name string) tech.LayerKey { return p.layers.MustKey(name) }

// Contacts returns every contact generated so far, ordered by cell name.
func (p *Pdk) Contacts() []*Contact {
	p.mu.Lock()
	out := make([]*Contact, 0, len(p.contacts))
	for _, c := range p.contacts {
		out = append(out, c)
	}
	p.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Cell.Name < out[j].Cell.Name })
	return out
}
