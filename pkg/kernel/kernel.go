// Package kernel defines the solid modeling interface used to build 3-D
// views of a layout. Implementations (sdfx, manifold) sit behind this
// interface so the extruder does not depend on a particular backend.
package kernel

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the subset of solid modeling a layer-stack view needs: boxes,
// unions and translation.
type Kernel interface {
	// Box returns an x by y by z box with its minimum corner at the origin.
	Box(x, y, z float64) (Solid, error)
	Union(a, b Solid) Solid
	Translate(s Solid, x, y, z float64) Solid

	ToMesh(s Solid) (*Mesh, error)
}

// UnionAll folds solids into one. It returns nil for an empty slice.
func UnionAll(k Kernel, solids []Solid) Solid {
	var out Solid
	for _, s := range solids {
		if out == nil {
			out = s
			continue
		}
		out = k.Union(out, s)
	}
	return out
}
