// Package layout defines the hierarchical cell model for generated layout.
// A Cell is a DAG node: a flat list of drawn rectangles, named ports, and
// placed Instances of other cells. Cells are built once by a generator and
// then shared by pointer; they are never mutated after construction.
package layout
