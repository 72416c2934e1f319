//go:build manifold

// Package manifold extrudes layer stacks with the Manifold library
// (https://github.com/elalish/manifold) through its C API. Manifold's
// booleans are exact, so thin layers such as licon or mcon keep their
// shape at any resolution.
//
// The manifoldc library and headers are expected under /usr/local.
// Build with: go build -tags=manifold
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"runtime"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/kernel"
)

var (
	_ kernel.Kernel = (*ManifoldKernel)(nil)
	_ kernel.Solid  = (*solid)(nil)
)

// solid owns a manifold handle; the handle is released by a finalizer.
type solid struct {
	ptr *C.ManifoldManifold
}

func wrap(ptr *C.ManifoldManifold) *solid {
	s := &solid{ptr: ptr}
	runtime.SetFinalizer(s, func(s *solid) {
		C.manifold_delete_manifold(s.ptr)
	})
	return s
}

func unwrap(s kernel.Solid) *C.ManifoldManifold {
	return s.(*solid).ptr
}

func (s *solid) BoundingBox() (min, max [3]float64) {
	box := C.manifold_bounding_box(C.manifold_alloc_box(), s.ptr)
	defer C.manifold_delete_box(box)
	min = [3]float64{
		float64(C.manifold_box_min_x(box)),
		float64(C.manifold_box_min_y(box)),
		float64(C.manifold_box_min_z(box)),
	}
	max = [3]float64{
		float64(C.manifold_box_max_x(box)),
		float64(C.manifold_box_max_y(box)),
		float64(C.manifold_box_max_z(box)),
	}
	return min, max
}

// ManifoldKernel is a kernel.Kernel backed by manifoldc.
type ManifoldKernel struct{}

// New returns a Manifold kernel.
func New() (kernel.Kernel, error) {
	return &ManifoldKernel{}, nil
}

func (k *ManifoldKernel) Box(x, y, z float64) (kernel.Solid, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, errors.Errorf("manifold: box %gx%gx%g has an empty side", x, y, z)
	}
	return wrap(C.manifold_cube(C.manifold_alloc_manifold(), C.double(x), C.double(y), C.double(z), 0)), nil
}

func (k *ManifoldKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(C.manifold_union(C.manifold_alloc_manifold(), unwrap(a), unwrap(b)))
}

func (k *ManifoldKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(C.manifold_translate(C.manifold_alloc_manifold(), unwrap(s), C.double(x), C.double(y), C.double(z)))
}

// ToMesh copies the solid's MeshGL out of C memory. MeshGL interleaves
// per-vertex properties; the first three are the position and, when there
// are at least six, the next three are the normal. Normals are left nil
// otherwise.
func (k *ManifoldKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	if s == nil {
		return nil, errors.New("manifold: nil solid")
	}
	gl := C.manifold_get_meshgl(C.manifold_alloc_meshgl(), unwrap(s))
	defer C.manifold_delete_meshgl(gl)

	nv := int(C.manifold_meshgl_num_vert(gl))
	nt := int(C.manifold_meshgl_num_tri(gl))
	if nv == 0 || nt == 0 {
		return &kernel.Mesh{}, nil
	}
	np := int(C.manifold_meshgl_num_prop(gl))
	if np < 3 {
		return nil, errors.Errorf("manifold: %d vertex properties, need a position", np)
	}

	props := make([]float32, nv*np)
	C.manifold_meshgl_vert_properties((*C.float)(unsafe.Pointer(&props[0])), gl)
	indices := make([]uint32, nt*3)
	C.manifold_meshgl_tri_verts((*C.uint32_t)(unsafe.Pointer(&indices[0])), gl)

	m := &kernel.Mesh{Vertices: make([]float32, 0, nv*3), Indices: indices}
	if np >= 6 {
		m.Normals = make([]float32, 0, nv*3)
	}
	for v := 0; v < nv; v++ {
		p := props[v*np : (v+1)*np]
		m.Vertices = append(m.Vertices, p[0], p[1], p[2])
		if m.Normals != nil {
			m.Normals = append(m.Normals, p[3], p[4], p[5])
		}
	}
	return m, nil
}
