//go:build manifold

package manifold

import (
	"math"
	"testing"

	"github.com/chazu/sramlay/pkg/kernel"
)

func mustNew(t *testing.T) kernel.Kernel {
	t.Helper()
	k, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return k
}

func mustBox(t *testing.T, k kernel.Kernel, x, y, z float64) kernel.Solid {
	t.Helper()
	s, err := k.Box(x, y, z)
	if err != nil {
		t.Fatalf("Box(%g, %g, %g): %v", x, y, z, err)
	}
	return s
}

func checkBounds(t *testing.T, s kernel.Solid, wantMin, wantMax [3]float64) {
	t.Helper()
	min, max := s.BoundingBox()
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-wantMin[i]) > 1e-6 || math.Abs(max[i]-wantMax[i]) > 1e-6 {
			t.Fatalf("bounds = %v, %v; want %v, %v", min, max, wantMin, wantMax)
		}
	}
}

func TestBox(t *testing.T) {
	k := mustNew(t)
	checkBounds(t, mustBox(t, k, 10, 20, 30), [3]float64{0, 0, 0}, [3]float64{10, 20, 30})
	if _, err := k.Box(0, 1, 1); err == nil {
		t.Fatal("Box with an empty side succeeded")
	}
}

func TestUnionTranslate(t *testing.T) {
	k := mustNew(t)
	a := mustBox(t, k, 2, 2, 0.1)
	b := k.Translate(mustBox(t, k, 2, 2, 0.1), 1, 1, 0)
	u := k.Union(a, b)
	checkBounds(t, u, [3]float64{0, 0, 0}, [3]float64{3, 3, 0.1})

	mesh, err := k.ToMesh(u)
	if err != nil {
		t.Fatalf("ToMesh: %v", err)
	}
	if mesh.TriangleCount() < 12 {
		t.Fatalf("union has %d triangles", mesh.TriangleCount())
	}
	if mesh.Normals != nil && len(mesh.Normals) != len(mesh.Vertices) {
		t.Fatalf("normals %d != vertices %d", len(mesh.Normals), len(mesh.Vertices))
	}
}

func TestBoxMesh(t *testing.T) {
	k := mustNew(t)
	mesh, err := k.ToMesh(mustBox(t, k, 1, 1, 1))
	if err != nil {
		t.Fatalf("ToMesh: %v", err)
	}
	if mesh.TriangleCount() != 12 {
		t.Fatalf("box has %d triangles, want 12", mesh.TriangleCount())
	}
}
