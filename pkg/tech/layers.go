package tech

import (
	"fmt"

	"github.com/pkg/errors"
)

// Purpose distinguishes the different uses of one mask layer.
type Purpose string

const (
	Drawing     Purpose = "drawing"
	Label       Purpose = "label"
	Pin         Purpose = "pin"
	Obstruction Purpose = "obstruction"
	Outline     Purpose = "outline"
)

func (p Purpose) valid() bool {
	switch p {
	case Drawing, Label, Pin, Obstruction, Outline:
		return true
	}
	return false
}

// PurposeNum pairs a purpose with its datatype number.
type PurposeNum struct {
	Purpose Purpose `yaml:"purpose" toml:"purpose"`
	Num     int16   `yaml:"num" toml:"num"`
}

// LayerKey identifies a layer in a Layers registry. The zero value is not
// a valid key.
type LayerKey struct {
	idx int
}

// IsValid reports whether k was issued by a registry.
func (k LayerKey) IsValid() bool { return k.idx > 0 }

func (k LayerKey) String() string { return fmt.Sprintf("LayerKey(%d)", k.idx) }

// Layer is one mask layer in the registry.
type Layer struct {
	Name     string
	Num      int16
	Purposes []PurposeNum
}

// PurposeNum returns the datatype of p on this layer.
func (l *Layer) PurposeNum(p Purpose) (int16, bool) {
	for _, pn := range l.Purposes {
		if pn.Purpose == p {
			return pn.Num, true
		}
	}
	return 0, false
}

type numPair struct{ num, datatype int16 }

type keyPurpose struct {
	key     LayerKey
	purpose Purpose
}

// Layers is the registry of mask layers. It is built once by
// Config.Registry and is read-only afterwards, so it may be shared freely.
type Layers struct {
	layers []Layer
	byName map[string]LayerKey
	byNum  map[numPair]keyPurpose
}

// Registry builds the layer registry from the deck. Layers are numbered in
// name order so keys are stable across loads.
func (c *Config) Registry() (*Layers, error) {
	reg := &Layers{
		byName: make(map[string]LayerKey, len(c.Layers)),
		byNum:  make(map[numPair]keyPurpose),
	}
	for _, name := range sortedKeys(c.Layers) {
		cfg := c.Layers[name]
		if _, err := reg.add(Layer{Name: name, Num: cfg.LayerNum, Purposes: cfg.Purposes}); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (r *Layers) add(l Layer) (LayerKey, error) {
	if _, dup := r.byName[l.Name]; dup {
		return LayerKey{}, errors.Wrapf(ErrMalformedConfig, "duplicate layer %q", l.Name)
	}
	key := LayerKey{idx: len(r.layers) + 1}
	for _, pn := range l.Purposes {
		if !pn.Purpose.valid() {
			return LayerKey{}, errors.Wrapf(ErrMalformedConfig, "layers.%s: unknown purpose %q", l.Name, pn.Purpose)
		}
		np := numPair{num: l.Num, datatype: pn.Num}
		if prev, dup := r.byNum[np]; dup {
			return LayerKey{}, errors.Wrapf(ErrMalformedConfig, "layers.%s: %d/%d already used by %s",
				l.Name, np.num, np.datatype, r.layers[prev.key.idx-1].Name)
		}
		r.byNum[np] = keyPurpose{key: key, purpose: pn.Purpose}
	}
	r.layers = append(r.layers, l)
	r.byName[l.Name] = key
	return key, nil
}

// Key returns the key of the named layer.
func (r *Layers) Key(name string) (LayerKey, error) {
	k, ok := r.byName[name]
	if !ok {
		return LayerKey{}, errors.Wrapf(ErrUnknownLayer, "layer %q", name)
	}
	return k, nil
}

// MustKey is like Key but panics on unknown names.
func (r *Layers) MustKey(name string) LayerKey {
	k, err := r.Key(name)
	if err != nil {
		panic(err)
	}
	return k
}

// ByNum looks a layer up by its layer and datatype numbers.
func (r *Layers) ByNum(num, datatype int16) (LayerKey, Purpose, bool) {
	kp, ok := r.byNum[numPair{num: num, datatype: datatype}]
	return kp.key, kp.purpose, ok
}

// Get returns the layer for k, or nil if k is not from this registry.
func (r *Layers) Get(k LayerKey) *Layer {
	if k.idx <= 0 || k.idx > len(r.layers) {
		return nil
	}
	return &r.layers[k.idx-1]
}

// Name returns the name of the layer for k, or k's String form if the key
// is unknown.
func (r *Layers) Name(k LayerKey) string {
	if l := r.Get(k); l != nil {
		return l.Name
	}
	return k.String()
}

// Keys returns every key in registration order.
func (r *Layers) Keys() []LayerKey {
	keys := make([]LayerKey, len(r.layers))
	for i := range r.layers {
		keys[i] = LayerKey{idx: i + 1}
	}
	return keys
}

// Len returns the number of registered layers.
func (r *Layers) Len() int { return len(r.layers) }
