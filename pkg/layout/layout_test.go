package layout

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/tech"
	"github.com/chazu/sramlay/pkg/tech/sky130"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func testLayers(t *testing.T) *tech.Layers {
	t.Helper()
	reg, err := sky130.Config().Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	return reg
}

// buildLeaf returns a 100x50 cell with a port "a" in its lower-left
// corner and a port "b" in its upper-right corner.
func buildLeaf(t *testing.T) *Cell {
	t.Helper()
	m1 := testLayers(t).MustKey("m1")
	c := NewCell("leaf")
	c.AddRect(m1, geom.R(0, 0, 100, 50))
	c.AddPortRect("a", m1, geom.R(0, 0, 10, 10))
	c.AddPortRect("b", m1, geom.R(80, 40, 100, 50))
	return c
}

var orientations = []Orientation{
	{},
	{ReflectX: true},
	{ReflectY: true},
	{ReflectX: true, ReflectY: true},
	{Rot: R90},
	{Rot: R180},
	{Rot: R270},
	{ReflectX: true, Rot: R90},
	{ReflectY: true, Rot: R270},
}

// ---------------------------------------------------------------------------
// Transforms
// ---------------------------------------------------------------------------

func TestInstanceRigid(t *testing.T) {
	leaf := buildLeaf(t)
	want := leaf.BBox()
	rng := rand.New(rand.NewSource(1))
	for n := 0; n < 200; n++ {
		o := orientations[rng.Intn(len(orientations))]
		loc := geom.Pt(geom.Int(rng.Intn(20000)-10000), geom.Int(rng.Intn(20000)-10000))
		inst := &Instance{Name: "x", Cell: leaf, Loc: loc, Orient: o}
		bb := inst.BBox()
		w, h := want.Width(), want.Height()
		if o.Rot == R90 || o.Rot == R270 {
			w, h = h, w
		}
		if bb.Width() != w || bb.Height() != h {
			t.Fatalf("%v at %v: bbox %v is %dx%d, want %dx%d", o, loc, bb, bb.Width(), bb.Height(), w, h)
		}
		if bb.P0 != loc {
			t.Fatalf("%v at %v: bbox lower-left %v", o, loc, bb.P0)
		}
		for _, p := range inst.Ports() {
			src, _ := leaf.Port(p.Name)
			sw, sh := src.BBox().Width(), src.BBox().Height()
			if o.Rot == R90 || o.Rot == R270 {
				sw, sh = sh, sw
			}
			if p.BBox().Width() != sw || p.BBox().Height() != sh {
				t.Fatalf("%v: port %s changed size", o, p.Name)
			}
			if !bb.Contains(p.BBox()) {
				t.Fatalf("%v: port %s %v outside bbox %v", o, p.Name, p.BBox(), bb)
			}
		}
	}
}

func TestFlipsIdempotent(t *testing.T) {
	leaf := buildLeaf(t)
	loc := geom.Pt(35, -70)
	base := portBoxes(t, &Instance{Cell: leaf, Loc: loc})
	tests := []struct {
		name string
		flip func(*Instance)
	}{
		{"sideways", func(i *Instance) { i.Sideways().Sideways() }},
		{"upside down", func(i *Instance) { i.UpsideDown().UpsideDown() }},
		{"both", func(i *Instance) { i.Sideways().UpsideDown().Sideways().UpsideDown() }},
		{"rotate full turn", func(i *Instance) { i.Rotate(R90).Rotate(R270) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := &Instance{Cell: leaf, Loc: loc}
			tt.flip(inst)
			if inst.Orient != Identity {
				t.Fatalf("orientation %v, want identity", inst.Orient)
			}
			if got := portBoxes(t, inst); got != base {
				t.Fatalf("ports %v, want %v", got, base)
			}
		})
	}
}

func portBoxes(t *testing.T, i *Instance) [2]geom.Rect {
	t.Helper()
	a, err := i.PortBBox("a")
	if err != nil {
		t.Fatal(err)
	}
	b, err := i.PortBBox("b")
	if err != nil {
		t.Fatal(err)
	}
	return [2]geom.Rect{a, b}
}

func TestPortUnderReflection(t *testing.T) {
	leaf := buildLeaf(t)
	tests := []struct {
		name   string
		orient Orientation
		want   geom.Rect
	}{
		{"identity", Orientation{}, geom.R(0, 0, 10, 10)},
		{"sideways", Orientation{ReflectX: true}, geom.R(90, 0, 100, 10)},
		{"upside down", Orientation{ReflectY: true}, geom.R(0, 40, 10, 50)},
		{"rot180", Orientation{Rot: R180}, geom.R(90, 40, 100, 50)},
		{"rot90", Orientation{Rot: R90}, geom.R(40, 0, 50, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := &Instance{Name: "x", Cell: leaf, Orient: tt.orient}
			got, err := inst.PortBBox("a")
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("port a = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransformCompose(t *testing.T) {
	a := Orientation{ReflectX: true, Rot: R90}.Matrix()
	b := Translation(geom.Pt(7, -3))
	p := geom.Pt(11, 5)
	if got, want := b.Then(a).Apply(p), b.Apply(a.Apply(p)); got != want {
		t.Fatalf("composition %v, want %v", got, want)
	}
	if !a.SwapsAxes() || b.SwapsAxes() {
		t.Fatal("SwapsAxes mismatch")
	}
}

func TestParseRotation(t *testing.T) {
	tests := []struct {
		in   int
		want Rotation
	}{
		{0, R0}, {90, R90}, {-90, R270}, {450, R90}, {180, R180},
	}
	for _, tt := range tests {
		got, err := ParseRotation(tt.in)
		if err != nil || got != tt.want {
			t.Fatalf("ParseRotation(%d) = %v, %v", tt.in, got, err)
		}
	}
	_, err := ParseRotation(45)
	if _, ok := err.(interface{ StackTrace() errors.StackTrace }); !ok {
		t.Fatalf("ParseRotation(45) error %v carries no stack", err)
	}
}

func TestMissingPort(t *testing.T) {
	inst := NewInstance("x", buildLeaf(t))
	if _, err := inst.Port("zz"); !errors.Is(err, ErrNoSuchPort) {
		t.Fatalf("err = %v", err)
	}
}

// ---------------------------------------------------------------------------
// Alignment
// ---------------------------------------------------------------------------

func TestAlignment(t *testing.T) {
	leaf := buildLeaf(t)
	a := NewInstance("a", leaf)
	b := NewInstance("b", leaf).AlignRightOf(a.BBox(), 20)
	if b.BBox().Left() != 120 || b.BBox().Bottom() != 0 {
		t.Fatalf("AlignRightOf bbox %v", b.BBox())
	}
	c := NewInstance("c", leaf).Sideways().AlignBeneath(a.BBox(), 0)
	if c.BBox().Top() != 0 {
		t.Fatalf("AlignBeneath bbox %v", c.BBox())
	}
	d := NewInstance("d", leaf).MoveTo(geom.Pt(1003, 2001)).AlignCentersGridded(a.BBox(), 5)
	if (d.Loc.X-1003)%5 != 0 || (d.Loc.Y-2001)%5 != 0 {
		t.Fatalf("gridded move is not a grid multiple: %v", d.Loc)
	}
	if d.BBox().Center().X-a.BBox().Center().X > 2 {
		t.Fatalf("centers too far apart: %v vs %v", d.BBox(), a.BBox())
	}
}

// ---------------------------------------------------------------------------
// Hierarchy
// ---------------------------------------------------------------------------

func TestFlattenSharedCell(t *testing.T) {
	leaf := buildLeaf(t)
	mid := NewCell("mid")
	mid.AddInst(NewInstance("l0", leaf))
	mid.AddInst(NewInstance("l1", leaf).MoveTo(geom.Pt(100, 0)).Sideways())
	top := NewCell("top")
	top.AddInst(NewInstance("m0", mid))
	top.AddInst(NewInstance("m1", mid).MoveTo(geom.Pt(0, 50)).UpsideDown())

	flat := top.Flatten()
	if len(flat) != 4 {
		t.Fatalf("got %d flat elements, want 4", len(flat))
	}
	if top.BBox() != geom.R(0, 0, 200, 100) {
		t.Fatalf("top bbox %v", top.BBox())
	}
	var area geom.Int
	for _, fe := range flat {
		area += fe.Rect.Area()
		if !strings.HasPrefix(fe.Path, "m") {
			t.Fatalf("path %q", fe.Path)
		}
	}
	if area != 4*100*50 {
		t.Fatalf("flattened area %d", area)
	}
}

func TestLibrary(t *testing.T) {
	leaf := buildLeaf(t)
	top := NewCell("top").AddInst(NewInstance("l", leaf))
	lib := NewLibrary("lib")
	if err := lib.AddTree(top); err != nil {
		t.Fatal(err)
	}
	if err := lib.Add(leaf); err != nil {
		t.Fatalf("re-adding the same cell: %v", err)
	}
	if err := lib.Add(NewCell("leaf")); !errors.Is(err, ErrDuplicateCell) {
		t.Fatalf("err = %v, want ErrDuplicateCell", err)
	}
	var order []string
	_ = lib.Walk(func(c *Cell) error {
		order = append(order, c.Name)
		return nil
	})
	if strings.Join(order, ",") != "leaf,top" {
		t.Fatalf("walk order %v", order)
	}
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	m1 := testLayers(t).MustKey("m1")
	leaf := buildLeaf(t)
	if res := Validate(leaf, 5); !res.OK() || len(res.Warnings) != 0 {
		t.Fatalf("valid leaf: %+v", res)
	}

	bad := NewCell("bad")
	bad.AddRect(m1, geom.R(0, 0, 0, 10))
	bad.AddRect(m1, geom.R(0, 0, 12, 10))
	bad.AddInst(NewInstance("x", leaf))
	bad.AddInst(NewInstance("x", leaf).MoveTo(geom.Pt(200, 0)))
	bad.AddPort(Port{Name: "empty"})
	res := Validate(bad, 5)
	wantErrs := []string{"zero or negative area", "off the 5 grid", "duplicate instance name"}
	for _, w := range wantErrs {
		found := false
		for _, e := range res.Errors {
			if strings.Contains(e.Message, w) {
				found = true
			}
		}
		if !found {
			t.Errorf("missing error %q in %v", w, res.Errors)
		}
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0].Message, "no shapes") {
		t.Fatalf("warnings = %v", res.Warnings)
	}
	if res.Err() == nil {
		t.Fatal("Err() returned nil")
	}

	if res := Validate(NewCell("blank"), 5); len(res.Warnings) != 1 {
		t.Fatalf("blank cell warnings = %v", res.Warnings)
	}
}

func TestValidateCycle(t *testing.T) {
	a := NewCell("a")
	b := NewCell("b").AddInst(NewInstance("a", a))
	a.AddInst(NewInstance("b", b))
	res := Validate(a, 5)
	if res.OK() || !strings.Contains(res.Errors[0].Message, "cycle") {
		t.Fatalf("res = %+v", res)
	}
}
