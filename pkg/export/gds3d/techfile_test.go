package gds3d

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

func TestUsedLayersOnly(t *testing.T) {
	p := testPdk(t)
	c := layout.NewCell("wire").AddRect(p.MustKey("m1"), geom.R(0, 0, 1000, 140))

	var buf bytes.Buffer
	if err := New(p).Export(c, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := buf.String()

	want := "LayerStart: m1\nLayer: 68\nDatatype: 20\nHeight: 1376\nThickness: 360\n" +
		"Red: 0.20\nGreen: 0.40\nBlue: 1.00\nFilter: 0.0\nMetal: 1\nShow: 1\nLayerEnd\n"
	if !strings.Contains(out, want) {
		t.Fatalf("m1 entry missing from:\n%s", out)
	}
	if !strings.Contains(out, "LayerStart: Substrate\nLayer: 255\nDatatype: 0\nHeight: -8624\n") {
		t.Fatalf("substrate entry missing from:\n%s", out)
	}
	if strings.Contains(out, "LayerStart: li\n") {
		t.Fatalf("unused layer li written:\n%s", out)
	}
}

func TestWholeStack(t *testing.T) {
	p := testPdk(t)
	tf := New(p)
	tf.Substrate = false

	var buf bytes.Buffer
	if err := tf.Export(nil, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := buf.String()
	if got := strings.Count(out, "LayerStart: "); got != len(p.Config().StackLayers()) {
		t.Fatalf("%d layers written, want %d", got, len(p.Config().StackLayers()))
	}
	if strings.Index(out, "LayerStart: nwell") > strings.Index(out, "LayerStart: m3") {
		t.Fatal("layers not written bottom up")
	}
	if !strings.Contains(out, "LayerStart: poly\nLayer: 66\nDatatype: 20\nHeight: 330\nThickness: 180\n") {
		t.Fatalf("poly entry missing from:\n%s", out)
	}
	if strings.Contains(out, "Substrate") {
		t.Fatal("substrate written when disabled")
	}
}
