// Package stl writes the layer-stack view of a layout as binary STL.
package stl

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/chazu/sramlay/pkg/kernel"
	"github.com/chazu/sramlay/pkg/layout"
	"github.com/chazu/sramlay/pkg/pdk"
	"github.com/chazu/sramlay/pkg/tessellate"
)

// Exporter extrudes a cell with a kernel and writes every layer mesh into
// one STL solid. Units are µm.
type Exporter struct {
	pdk    *pdk.Pdk
	kernel kernel.Kernel

	// Layers restricts the output to the named layers when non-empty.
	Layers []string
}

// New returns an exporter extruding with k.
func New(p *pdk.Pdk, k kernel.Kernel) *Exporter {
	return &Exporter{pdk: p, kernel: k}
}

// Export tessellates c and writes the meshes.
func (e *Exporter) Export(c *layout.Cell, w io.Writer) error {
	meshes, err := tessellate.Tessellate(c, e.pdk, e.kernel)
	if err != nil {
		return err
	}
	if len(e.Layers) > 0 {
		meshes = lo.Filter(meshes, func(m *kernel.Mesh, _ int) bool { return lo.Contains(e.Layers, m.Layer) })
	}
	if len(meshes) == 0 {
		return errors.New("stl: no layers to extrude")
	}
	return Write(w, c.Name, meshes)
}

// Write encodes meshes as one binary STL body. Face normals are
// recomputed from the winding.
func Write(w io.Writer, name string, meshes []*kernel.Mesh) error {
	total := lo.SumBy(meshes, func(m *kernel.Mesh) int { return m.TriangleCount() })
	if total > math.MaxUint32 {
		return errors.Errorf("stl: %d triangles", total)
	}

	bw := bufio.NewWriter(w)
	var header [80]byte
	copy(header[:], "sramlay "+name)
	if _, err := bw.Write(header[:]); err != nil {
		return errors.Wrap(err, "stl: header")
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(total)); err != nil {
		return errors.Wrap(err, "stl: count")
	}

	var rec [50]byte
	for _, m := range meshes {
		for i := 0; i < m.TriangleCount(); i++ {
			tri := m.Triangle(i)
			n := normal(tri)
			putVec(rec[0:], n)
			putVec(rec[12:], tri[0])
			putVec(rec[24:], tri[1])
			putVec(rec[36:], tri[2])
			if _, err := bw.Write(rec[:]); err != nil {
				return errors.Wrap(err, "stl: facet")
			}
		}
	}
	return bw.Flush()
}

func putVec(b []byte, v [3]float32) {
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
}

func normal(t [3][3]float32) [3]float32 {
	var a, b [3]float64
	for i := 0; i < 3; i++ {
		a[i] = float64(t[1][i] - t[0][i])
		b[i] = float64(t[2][i] - t[0][i])
	}
	n := [3]float64{a[1]*b[2] - a[2]*b[1], a[2]*b[0] - a[0]*b[2], a[0]*b[1] - a[1]*b[0]}
	l := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if l < 1e-12 {
		return [3]float32{}
	}
	return [3]float32{float32(n[0] / l), float32(n[1] / l), float32(n[2] / l)}
}
