package sdfx

import (
	"math"
	"testing"
)

func near(a, b [3]float64, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func TestBoxCorner(t *testing.T) {
	k := New()
	box, err := k.Box(100, 50, 25)
	if err != nil {
		t.Fatalf("Box: %v", err)
	}
	min, max := box.BoundingBox()
	if !near(min, [3]float64{0, 0, 0}, 0.01) || !near(max, [3]float64{100, 50, 25}, 0.01) {
		t.Fatalf("BoundingBox() = %v, %v", min, max)
	}
}

func TestBoxRejectsEmptySide(t *testing.T) {
	k := New()
	for _, dims := range [][3]float64{{0, 1, 1}, {1, -1, 1}, {1, 1, 0}} {
		if _, err := k.Box(dims[0], dims[1], dims[2]); err == nil {
			t.Fatalf("Box(%v) succeeded", dims)
		}
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	box, err := k.Box(10, 10, 10)
	if err != nil {
		t.Fatalf("Box: %v", err)
	}
	min, max := k.Translate(box, 100, 200, 300).BoundingBox()
	if !near(min, [3]float64{100, 200, 300}, 0.5) || !near(max, [3]float64{110, 210, 310}, 0.5) {
		t.Fatalf("BoundingBox() = %v, %v", min, max)
	}
}

func TestUnionMesh(t *testing.T) {
	k := New().WithCells(40)
	a, err := k.Box(50, 50, 10)
	if err != nil {
		t.Fatalf("Box: %v", err)
	}
	b, err := k.Box(50, 50, 10)
	if err != nil {
		t.Fatalf("Box: %v", err)
	}
	u := k.Union(a, k.Translate(b, 30, 0, 0))
	min, max := u.BoundingBox()
	if !near(min, [3]float64{0, 0, 0}, 0.5) || !near(max, [3]float64{80, 50, 10}, 0.5) {
		t.Fatalf("union BoundingBox() = %v, %v", min, max)
	}

	mesh, err := k.ToMesh(u)
	if err != nil {
		t.Fatalf("ToMesh: %v", err)
	}
	if mesh.IsEmpty() || mesh.TriangleCount() == 0 {
		t.Fatal("union mesh is empty")
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices %d != normals %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != mesh.TriangleCount()*3 {
		t.Fatalf("indices %d != 3*triangles", len(mesh.Indices))
	}
}

func TestToMeshNil(t *testing.T) {
	if _, err := New().ToMesh(nil); err == nil {
		t.Fatal("ToMesh(nil) succeeded")
	}
}
