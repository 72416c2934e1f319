package stl

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/kernel"
	"github.com/chazu/sramlay/pkg/layout"
	"github.com/chazu/sramlay/pkg/pdk"
	"github.com/chazu/sramlay/pkg/tech/sky130"
)

func triangle() *kernel.Mesh {
	return &kernel.Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2},
	}
}

func TestWriteFacets(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "tri", []*kernel.Mesh{triangle(), triangle()}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b := buf.Bytes()
	if len(b) != 84+2*50 {
		t.Fatalf("wrote %d bytes", len(b))
	}
	if !bytes.HasPrefix(b, []byte("sramlay tri")) {
		t.Fatalf("header = %q", b[:16])
	}
	if n := binary.LittleEndian.Uint32(b[80:]); n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
	nz := math.Float32frombits(binary.LittleEndian.Uint32(b[84+8:]))
	if nz != 1 {
		t.Fatalf("normal z = %g, want 1", nz)
	}
	vx := math.Float32frombits(binary.LittleEndian.Uint32(b[84+24:]))
	if vx != 1 {
		t.Fatalf("second vertex x = %g, want 1", vx)
	}
}

type solid struct{}

func (solid) BoundingBox() (min, max [3]float64) { return }

// oneTriangle meshes every solid as a single triangle.
type oneTriangle struct{}

func (oneTriangle) Box(x, y, z float64) (kernel.Solid, error)              { return solid{}, nil }
func (oneTriangle) Union(a, _ kernel.Solid) kernel.Solid                   { return a }
func (oneTriangle) Translate(s kernel.Solid, _, _, _ float64) kernel.Solid { return s }
func (oneTriangle) ToMesh(kernel.Solid) (*kernel.Mesh, error)              { return triangle(), nil }

func TestExportLayerFilter(t *testing.T) {
	p, err := pdk.New(sky130.Config())
	if err != nil {
		t.Fatalf("pdk.New: %v", err)
	}
	c := layout.NewCell("wires").
		AddRect(p.MustKey("m1"), geom.R(0, 0, 1000, 140)).
		AddRect(p.MustKey("m2"), geom.R(0, 0, 140, 1000)).
		AddRect(p.MustKey("li"), geom.R(0, 0, 170, 170))

	tests := []struct {
		name   string
		layers []string
		tris   uint32
	}{
		{"all", nil, 3},
		{"metal 2 only", []string{"m2"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(p, oneTriangle{})
			e.Layers = tt.layers
			var buf bytes.Buffer
			if err := e.Export(c, &buf); err != nil {
				t.Fatalf("Export: %v", err)
			}
			if n := binary.LittleEndian.Uint32(buf.Bytes()[80:]); n != tt.tris {
				t.Fatalf("count = %d, want %d", n, tt.tris)
			}
		})
	}

	e := New(p, oneTriangle{})
	e.Layers = []string{"m3"}
	if err := e.Export(c, &bytes.Buffer{}); err == nil {
		t.Fatal("export with no matching layers succeeded")
	}
}
