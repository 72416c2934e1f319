package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/layout"
	"github.com/chazu/sramlay/pkg/pdk"
	"github.com/chazu/sramlay/pkg/tech/sky130"
)

func fixture(t *testing.T) (*pdk.Pdk, *layout.Cell) {
	t.Helper()
	p, err := pdk.New(sky130.Config())
	if err != nil {
		t.Fatalf("pdk.New: %v", err)
	}
	ct, err := p.GetContact(pdk.ContactParams{Stack: "via1", Rows: 2, Cols: 1, Dir: geom.Vert})
	if err != nil {
		t.Fatal(err)
	}
	top := layout.NewCell("top")
	top.AddInst(layout.NewInstance("a", ct.Cell))
	top.AddInst(layout.NewInstance("b", ct.Cell).MoveTo(geom.Pt(1000, 0)))
	top.AddPortRect("vdd", p.MustKey("m2"), geom.R(0, 0, 1500, 200))
	return p, top
}

func TestCells(t *testing.T) {
	_, top := fixture(t)
	lib := layout.NewLibrary("lib")
	if err := lib.AddTree(top); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	Cells(&buf, lib)
	out := buf.String()
	for _, want := range []string{"via1_2x1v", "top", "vdd", "2 cells"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "via1_2x1v") > strings.Index(out, "top") {
		t.Error("children should be listed before parents")
	}
}

func TestContacts(t *testing.T) {
	p, _ := fixture(t)
	var buf bytes.Buffer
	Contacts(&buf, p)
	if out := buf.String(); !strings.Contains(out, "via1_2x1v") || !strings.Contains(out, "m1/via/m2") {
		t.Fatalf("contact report:\n%s", out)
	}
}

func TestLayers(t *testing.T) {
	p, top := fixture(t)
	stats := Layers(top, p.Layers())
	byName := make(map[string]LayerStat)
	for _, st := range stats {
		byName[st.Layer] = st
	}
	via, ok := byName["via"]
	if !ok || via.Shapes != 4 {
		t.Fatalf("via stats = %+v", via)
	}
	m1 := byName["m1"]
	if m1.Shapes != 2 || m1.BBox.Right() < 1000 {
		t.Fatalf("m1 stats = %+v", m1)
	}

	var buf bytes.Buffer
	PrintLayers(&buf, top, p.Layers())
	if !strings.Contains(buf.String(), "via") {
		t.Fatalf("layer report:\n%s", buf.String())
	}
}

func TestValidation(t *testing.T) {
	var buf bytes.Buffer
	Validation(&buf, layout.ValidationResult{})
	if !strings.Contains(buf.String(), "no validation findings") {
		t.Fatalf("empty report = %q", buf.String())
	}

	buf.Reset()
	Validation(&buf, layout.ValidationResult{
		Errors: []layout.ValidationError{{Cell: "bad", Message: "off grid", Severity: layout.SeverityError}},
	})
	if !strings.Contains(buf.String(), "off grid") || !strings.Contains(buf.String(), "error") {
		t.Fatalf("report = %q", buf.String())
	}
}
