package layout

import (
	"github.com/pkg/errors"
)

// Library is a name-keyed set of cells, as handed to exporters.
type Library struct {
	Name   string
	cells  []*Cell
	byName map[string]*Cell
}

// NewLibrary returns an empty library.
func NewLibrary(name string) *Library {
	return &Library{Name: name, byName: make(map[string]*Cell)}
}

// Add registers c. Adding the same cell twice is a no-op; adding a
// different cell under a name already in use fails with ErrDuplicateCell.
func (l *Library) Add(c *Cell) error {
	if prev, ok := l.byName[c.Name]; ok {
		if prev == c {
			return nil
		}
		return errors.Wrapf(ErrDuplicateCell, "library %s: %q", l.Name, c.Name)
	}
	l.byName[c.Name] = c
	l.cells = append(l.cells, c)
	return nil
}

// AddTree registers c and every cell it instantiates, children first.
func (l *Library) AddTree(c *Cell) error {
	return walkPostOrder(c, make(map[*Cell]bool), l.Add)
}

// Get returns the named cell, or nil.
func (l *Library) Get(name string) *Cell {
	return l.byName[name]
}

// MustGet returns the named cell or panics.
func (l *Library) MustGet(name string) *Cell {
	c := l.Get(name)
	if c == nil {
		panic(errors.Errorf("layout: library %s has no cell %q", l.Name, name))
	}
	return c
}

// Cells returns the cells in registration order.
func (l *Library) Cells() []*Cell {
	return append([]*Cell(nil), l.cells...)
}

// Len returns the number of cells.
func (l *Library) Len() int { return len(l.cells) }

// Walk calls fn for every cell so that a cell is visited only after all
// cells it instantiates. It stops at the first error.
func (l *Library) Walk(fn func(*Cell) error) error {
	seen := make(map[*Cell]bool, len(l.cells))
	for _, c := range l.cells {
		if err := walkPostOrder(c, seen, fn); err != nil {
			return err
		}
	}
	return nil
}

func walkPostOrder(c *Cell, seen map[*Cell]bool, fn func(*Cell) error) error {
	if c == nil || seen[c] {
		return nil
	}
	seen[c] = true
	for _, inst := range c.Insts {
		if err := walkPostOrder(inst.Cell, seen, fn); err != nil {
			return err
		}
	}
	return fn(c)
}
