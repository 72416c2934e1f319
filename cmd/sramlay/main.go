// Command sramlay generates layout from a rule deck: either the built-in
// decoder demo or the cells produced by a layout script. The result can be
// validated, summarized, and written as SVG, STL, or a GDS3D techfile.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/export"
	"github.com/chazu/sramlay/pkg/export/gds3d"
	"github.com/chazu/sramlay/pkg/export/stl"
	"github.com/chazu/sramlay/pkg/export/svg"
	"github.com/chazu/sramlay/pkg/kernel"
	"github.com/chazu/sramlay/pkg/kernel/manifold"
	"github.com/chazu/sramlay/pkg/kernel/sdfx"
	"github.com/chazu/sramlay/pkg/layout"
	"github.com/chazu/sramlay/pkg/pdk"
	"github.com/chazu/sramlay/pkg/report"
	"github.com/chazu/sramlay/pkg/script"
	"github.com/chazu/sramlay/pkg/tech"
	"github.com/chazu/sramlay/pkg/tech/sky130"
)

func main() {
	techFile := flag.String("tech", "", "design-rule deck (.yaml or .toml); the embedded sky130 deck when empty")
	scriptFile := flag.String("script", "", "layout script to evaluate instead of the demo")
	topName := flag.String("top", "", "name of the cell to export (default: the script's top cell)")
	svgOut := flag.String("svg", "", "write an SVG drawing to `file`")
	stlOut := flag.String("stl", "", "write a layer-stack STL model to `file`")
	stlLayers := flag.String("stl-layers", "", "comma-separated layers to include in the STL model")
	kernelName := flag.String("kernel", "sdfx", "STL solid kernel: sdfx or manifold")
	meshCells := flag.Int("mesh-cells", sdfx.DefaultMeshCells, "sdfx marching cubes resolution")
	gds3dOut := flag.String("gds3d", "", "write a GDS3D techfile to `file`")
	showReport := flag.Bool("report", false, "print cell, contact, and layer tables")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	log.SetFlags(0)
	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := loadConfig(*techFile)
	if err != nil {
		log.Fatal(err)
	}
	p, err := pdk.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	lib, top, err := generate(p, *scriptFile)
	if err != nil {
		log.Fatal(err)
	}
	if *topName != "" {
		top = lib.Get(*topName)
		if top == nil {
			log.Fatalf("no cell named %q", *topName)
		}
	}
	if top == nil {
		log.Fatal("nothing to export: the script produced no top cell")
	}

	res := layout.Validate(top, p.Grid())
	for _, w := range res.Warnings {
		slog.Warn("validation", slog.String("cell", w.Cell), slog.String("finding", w.Message))
	}
	if *showReport {
		report.Cells(os.Stdout, lib)
		report.Contacts(os.Stdout, p)
		report.PrintLayers(os.Stdout, top, p.Layers())
		report.Validation(os.Stdout, res)
	}
	if err := res.Err(); err != nil {
		log.Fatal(err)
	}

	if *svgOut != "" {
		if err := export.WriteFile(svg.New(p), top, *svgOut); err != nil {
			log.Fatal(err)
		}
	}
	if *stlOut != "" {
		k, err := newKernel(*kernelName, *meshCells)
		if err != nil {
			log.Fatal(err)
		}
		e := stl.New(p, k)
		if *stlLayers != "" {
			e.Layers = strings.Split(*stlLayers, ",")
		}
		if err := export.WriteFile(e, top, *stlOut); err != nil {
			log.Fatal(err)
		}
	}
	if *gds3dOut != "" {
		if err := export.WriteFile(gds3d.New(p), top, *gds3dOut); err != nil {
			log.Fatal(err)
		}
	}
	fmt.Printf("%s: %s, %d cells\n", top.Name, top.BBox(), lib.Len())
}

func loadConfig(path string) (*tech.Config, error) {
	if path == "" {
		return sky130.Config(), nil
	}
	return tech.Load(path)
}

func newKernel(name string, cells int) (kernel.Kernel, error) {
	switch name {
	case "sdfx":
		return sdfx.New().WithCells(cells), nil
	case "manifold":
		return manifold.New()
	}
	return nil, errors.Errorf("unknown kernel %q", name)
}

// generate builds the demo, or evaluates the script at path.
func generate(p *pdk.Pdk, path string) (*layout.Library, *layout.Cell, error) {
	if path == "" {
		top, err := buildDemo(p)
		if err != nil {
			return nil, nil, err
		}
		lib := layout.NewLibrary("demo")
		if err := lib.AddTree(top); err != nil {
			return nil, nil, err
		}
		return lib, top, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	res, evalErrs, err := script.NewEngine(p).Evaluate(string(src))
	if err != nil {
		return nil, nil, errors.Wrap(err, path)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs[1:] {
			log.Printf("%s: %v", path, e)
		}
		return nil, nil, errors.Wrap(evalErrs[0], path)
	}
	return res.Library, res.Top, nil
}
