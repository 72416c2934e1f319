package svg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/layout"
	"github.com/chazu/sramlay/pkg/pdk"
	"github.com/chazu/sramlay/pkg/tech/sky130"
)

func testPdk(t *testing.T) *pdk.Pdk {
	t.Helper()
	p, err := pdk.New(sky130.Config())
	if err != nil {
		t.Fatalf("pdk.New: %v", err)
	}
	return p
}

func TestExportLayers(t *testing.T) {
	p := testPdk(t)
	leaf := layout.NewCell("leaf").
		AddRect(p.MustKey("m1"), geom.R(0, 0, 1000, 140)).
		AddRect(p.MustKey("nsdm"), geom.R(0, 0, 400, 400))
	top := layout.NewCell("top").
		AddInst(layout.NewInstance("a", leaf)).
		AddInst(layout.NewInstance("b", leaf).MoveTo(geom.Pt(2000, 0))).
		AddPortRect("out", p.MustKey("m1"), geom.R(2000, 0, 3000, 140))

	var buf bytes.Buffer
	e := New(p)
	e.Margin = 0
	if err := e.Export(top, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`viewBox="0 -400 3000 400"`,
		`<g id="m1">`,
		`<g id="nsdm">`,
		`<rect x="2000" y="0" width="1000" height="140"`,
		`fill:#3366ff`,
		`>out</text>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Index(out, `<g id="nsdm">`) > strings.Index(out, `<g id="m1">`) {
		t.Fatal("implant drawn over metal")
	}
	if got := strings.Count(out, "<rect "); got != 4 {
		t.Fatalf("%d rects, want 4", got)
	}
}

func TestExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := New(testPdk(t)).Export(layout.NewCell("empty"), &buf); err == nil {
		t.Fatal("exporting an empty cell succeeded")
	}
}
