package script

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/array"
	"github.com/chazu/sramlay/pkg/gate"
	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/layout"
	"github.com/chazu/sramlay/pkg/pdk"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpCell wraps a generated cell.
type sexpCell struct {
	cell *layout.Cell
}

func (c *sexpCell) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(cell %q)", c.cell.Name)
}
func (c *sexpCell) Type() *zygo.RegisteredType { return nil }

// sexpInst wraps a placed instance, as returned by `place`.
type sexpInst struct {
	inst *layout.Instance
}

func (i *sexpInst) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(place %q %q)", i.inst.Cell.Name, i.inst.Name)
}
func (i *sexpInst) Type() *zygo.RegisteredType { return nil }

// sexpPoint wraps a geom.Point.
type sexpPoint struct {
	p geom.Point
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(pt %d %d)", p.p.X, p.p.Y)
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); {
		name, ok := isKW(args[i])
		switch {
		case ok && i+1 < len(args):
			result.kw[name] = args[i+1]
			i += 2
		case ok:
			result.kw[name] = zygo.SexpNull
			i++
		default:
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toInt extracts an integer coordinate. Floats are accepted only when they
// hold a whole number, since layout coordinates are exact.
func toInt(s zygo.Sexp) (geom.Int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return v.Val, nil
	case *zygo.SexpFloat:
		if v.Val == float64(int64(v.Val)) {
			return int64(v.Val), nil
		}
		return 0, errors.Errorf("expected a whole number, got %v", v.Val)
	}
	return 0, errors.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", errors.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", errors.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toBool treats nil and false as false and anything else as true.
func toBool(s zygo.Sexp) bool {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val
	case *zygo.SexpSentinel:
		return v != zygo.SexpNull
	}
	return true
}

func toDir(s zygo.Sexp) (geom.Dir, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, err
	}
	return geom.ParseDir(name)
}

func toCell(s zygo.Sexp) (*layout.Cell, error) {
	if c, ok := s.(*sexpCell); ok {
		return c.cell, nil
	}
	return nil, errors.Errorf("expected cell, got %T (%s)", s, s.SexpString(nil))
}

func toPoint(s zygo.Sexp) (geom.Point, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.p, nil
	}
	return geom.Point{}, errors.Errorf("expected point, got %T (%s)", s, s.SexpString(nil))
}

func isNull(s zygo.Sexp) bool {
	v, ok := s.(*zygo.SexpSentinel)
	return ok && v == zygo.SexpNull
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, errors.Errorf("expected list or array, got %T", s)
}

// intKW reads an optional integer keyword, returning def when absent.
func (pa kwArgs) intKW(name string, def geom.Int) (geom.Int, error) {
	v, ok := pa.kw[name]
	if !ok {
		return def, nil
	}
	n, err := toInt(v)
	if err != nil {
		return 0, errors.Wrap(err, name)
	}
	return n, nil
}

// dirKW reads an optional direction keyword.
func (pa kwArgs) dirKW(name string, def geom.Dir) (geom.Dir, error) {
	v, ok := pa.kw[name]
	if !ok {
		return def, nil
	}
	d, err := toDir(v)
	if err != nil {
		return 0, errors.Wrap(err, name)
	}
	return d, nil
}

// ---------------------------------------------------------------------------
// Evaluation state
// ---------------------------------------------------------------------------

// state is what builtins of one evaluation share.
type state struct {
	pdk   *pdk.Pdk
	lib   *layout.Library
	top   *layout.Cell
	insts int
}

func newState(p *pdk.Pdk) *state {
	return &state{pdk: p, lib: layout.NewLibrary("script")}
}

func (s *state) result() *Result {
	return &Result{Library: s.lib, Top: s.top}
}

// keep registers c and its subtree and wraps it for the script.
func (s *state) keep(c *layout.Cell) (zygo.Sexp, error) {
	if err := s.lib.AddTree(c); err != nil {
		return zygo.SexpNull, err
	}
	return &sexpCell{cell: c}, nil
}

func (s *state) instName(c *layout.Cell) string {
	s.insts++
	return fmt.Sprintf("%s_%d", c.Name, s.insts)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the layout builtins. Source must be passed
// through preprocessSource first so that :keyword tokens are recognizable
// and kebab-case names match the underscore names registered here.
func registerBuiltins(env *zygo.Zlisp, st *state) {

	// -----------------------------------------------------------------------
	// (pt 100 200)
	// -----------------------------------------------------------------------
	env.AddFunction("pt", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, errors.Errorf("pt requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "pt: x")
		}
		y, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "pt: y")
		}
		return &sexpPoint{p: geom.Pt(x, y)}, nil
	})

	// -----------------------------------------------------------------------
	// (contact "ndiffc" :rows 1 :cols 2 :dir :h)
	// -----------------------------------------------------------------------
	env.AddFunction("contact", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, errors.New("contact requires a stack name")
		}
		stack, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "contact: stack")
		}
		rows, err := pa.intKW("rows", 1)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "contact")
		}
		cols, err := pa.intKW("cols", 1)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "contact")
		}
		dir, err := pa.dirKW("dir", geom.Vert)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "contact")
		}
		ct, err := st.pdk.GetContact(pdk.ContactParams{Stack: stack, Rows: int(rows), Cols: int(cols), Dir: dir})
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "contact")
		}
		return st.keep(ct.Cell)
	})

	// -----------------------------------------------------------------------
	// (contact-sized "ndiffc" :layer "diff" :span 650 :dir :h)
	// -----------------------------------------------------------------------
	env.AddFunction("contact_sized", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, errors.New("contact-sized requires a stack name")
		}
		stack, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "contact-sized: stack")
		}
		layer := ""
		if v, ok := pa.kw["layer"]; ok {
			if layer, err = toString(v); err != nil {
				return zygo.SexpNull, errors.Wrap(err, "contact-sized: layer")
			}
		}
		span, err := pa.intKW("span", 0)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "contact-sized")
		}
		dir, err := pa.dirKW("dir", geom.Horiz)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "contact-sized")
		}

		var ct *pdk.Contact
		if layer == "" {
			ct, err = st.pdk.ContactCovering(stack, dir, span)
		} else {
			ct, err = st.pdk.ContactSized(stack, dir, layer, span)
		}
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "contact-sized")
		}
		return st.keep(ct.Cell)
	})

	// -----------------------------------------------------------------------
	// (gate "dec" :kind :nand2 :nmos 1600 :pmos 2400 :length 150)
	// -----------------------------------------------------------------------
	env.AddFunction("gate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, errors.New("gate requires a name")
		}
		cellName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "gate: name")
		}
		kind := "inv"
		if v, ok := pa.kw["kind"]; ok {
			if kind, err = toKeywordString(v); err != nil {
				return zygo.SexpNull, errors.Wrap(err, "gate: kind")
			}
		}
		size := gate.DecoderSize
		if size.NmosWidth, err = pa.intKW("nmos", size.NmosWidth); err != nil {
			return zygo.SexpNull, errors.Wrap(err, "gate")
		}
		if size.PmosWidth, err = pa.intKW("pmos", size.PmosWidth); err != nil {
			return zygo.SexpNull, errors.Wrap(err, "gate")
		}
		if size.Length, err = pa.intKW("length", size.Length); err != nil {
			return zygo.SexpNull, errors.Wrap(err, "gate")
		}

		g, err := gate.New(kind, size)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "gate")
		}
		c, err := gate.Draw(st.pdk, cellName, g)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "gate")
		}
		return st.keep(c)
	})

	// -----------------------------------------------------------------------
	// (cell-array "col" cell :n 4 :dir :v :pitch 2000 :flip :vertical :toggle true)
	// -----------------------------------------------------------------------
	env.AddFunction("cell_array", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, errors.New("cell-array requires a name and a cell")
		}
		cellName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "cell-array: name")
		}
		leaf, err := toCell(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "cell-array: cell")
		}
		n, err := pa.intKW("n", 1)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "cell-array")
		}
		dir, err := pa.dirKW("dir", geom.Horiz)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "cell-array")
		}
		pitch, err := pa.intKW("pitch", 0)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "cell-array")
		}
		flip := array.NoFlip
		if v, ok := pa.kw["flip"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, errors.Wrap(err, "cell-array: flip")
			}
			if flip, err = array.ParseFlipMode(s); err != nil {
				return zygo.SexpNull, errors.Wrap(err, "cell-array: flip")
			}
		}
		toggle := false
		if v, ok := pa.kw["toggle"]; ok {
			toggle = toBool(v)
		}

		c, err := array.DrawCellArray(array.Params{
			Name:       cellName,
			Entries:    array.Repeat(leaf, int(n)),
			Direction:  dir,
			Pitch:      pitch,
			Flip:       flip,
			FlipToggle: toggle,
		})
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "cell-array")
		}
		return st.keep(c)
	})

	// -----------------------------------------------------------------------
	// (grid "g" (list (list a b) (list c nil)) :at (pt 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("grid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, errors.New("grid requires a name and a list of rows")
		}
		cellName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "grid: name")
		}
		rowList, err := sexpListToSlice(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "grid: rows")
		}
		rows := make([][]*array.Entry, len(rowList))
		for i, r := range rowList {
			items, err := sexpListToSlice(r)
			if err != nil {
				return zygo.SexpNull, errors.Wrapf(err, "grid: row %d", i)
			}
			for j, item := range items {
				if isNull(item) {
					rows[i] = append(rows[i], nil)
					continue
				}
				c, err := toCell(item)
				if err != nil {
					return zygo.SexpNull, errors.Wrapf(err, "grid: entry (%d, %d)", i, j)
				}
				rows[i] = append(rows[i], &array.Entry{Cell: c})
			}
		}
		anchor := geom.Point{}
		if v, ok := pa.kw["at"]; ok {
			if anchor, err = toPoint(v); err != nil {
				return zygo.SexpNull, errors.Wrap(err, "grid: at")
			}
		}

		g, err := array.NewGridLayout(rows)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "grid")
		}
		return st.keep(g.Draw(cellName, anchor))
	})

	// -----------------------------------------------------------------------
	// (place cell :name "x0" :at (pt 0 0) :sideways true :upside-down true :rot 90)
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, errors.New("place requires a cell as first argument")
		}
		c, err := toCell(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "place: cell")
		}
		instName := ""
		if v, ok := pa.kw["name"]; ok {
			if instName, err = toString(v); err != nil {
				return zygo.SexpNull, errors.Wrap(err, "place: name")
			}
		} else {
			instName = st.instName(c)
		}

		inst := layout.NewInstance(instName, c)
		if v, ok := pa.kw["rot"]; ok {
			deg, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, errors.Wrap(err, "place: rot")
			}
			rot, err := layout.ParseRotation(int(deg))
			if err != nil {
				return zygo.SexpNull, errors.Wrap(err, "place: rot")
			}
			inst.Rotate(rot)
		}
		if v, ok := pa.kw["sideways"]; ok && toBool(v) {
			inst.Sideways()
		}
		if v, ok := pa.kw["upside-down"]; ok && toBool(v) {
			inst.UpsideDown()
		}
		if v, ok := pa.kw["at"]; ok {
			p, err := toPoint(v)
			if err != nil {
				return zygo.SexpNull, errors.Wrap(err, "place: at")
			}
			inst.MoveTo(p)
		}
		return &sexpInst{inst: inst}, nil
	})

	// -----------------------------------------------------------------------
	// (cell "top" (place a ...) (place b ...) c)
	// -----------------------------------------------------------------------
	env.AddFunction("cell", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, errors.New("cell requires a name argument")
		}
		cellName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "cell: name")
		}
		c := layout.NewCell(cellName)
		for i := 1; i < len(args); i++ {
			switch v := args[i].(type) {
			case *sexpInst:
				c.AddInst(v.inst)
			case *sexpCell:
				c.AddInst(layout.NewInstance(st.instName(v.cell), v.cell))
			default:
				return zygo.SexpNull, errors.Errorf("cell: child %d: expected placement or cell, got %T (%s)",
					i, args[i], args[i].SexpString(nil))
			}
		}
		return st.keep(c)
	})

	// -----------------------------------------------------------------------
	// (top cell)
	// -----------------------------------------------------------------------
	env.AddFunction("top", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, errors.Errorf("top requires exactly 1 argument, got %d", len(args))
		}
		c, err := toCell(args[0])
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "top")
		}
		st.top = c
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (width cell) / (height cell)
	// -----------------------------------------------------------------------
	for _, fn := range []struct {
		name string
		dir  geom.Dir
	}{{"width", geom.Horiz}, {"height", geom.Vert}} {
		dir := fn.dir
		env.AddFunction(fn.name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, errors.Errorf("%s requires exactly 1 argument, got %d", name, len(args))
			}
			c, err := toCell(args[0])
			if err != nil {
				return zygo.SexpNull, errors.Wrap(err, name)
			}
			return &zygo.SexpInt{Val: c.BBox().Span(dir).Length()}, nil
		})
	}
}
