package script

import (
	"os"
	"strings"
	"testing"

	"github.com/chazu/sramlay/pkg/geom"
	"github.com/chazu/sramlay/pkg/layout"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"simple keyword", `(contact "ndiffc" :rows 2)`, `(contact "ndiffc" "__kw_rows" 2)`},
		{"keyword in string preserved", `"thing with :keyword inside"`, `"thing with :keyword inside"`},
		{"assignment operator preserved", `(def x := 10)`, `(def x := 10)`},
		{"kebab-case identifier", `(contact-sized "ndiffc" :span 650)`, `(contact_sized "ndiffc" "__kw_span" 650)`},
		{"minus operator preserved", `(- 10 5)`, `(- 10 5)`},
		{"comment converted to // style", `;; comment with :keyword`, `// comment with :keyword`},
		{"hyphen in keyword preserved", `:upside-down`, `"__kw_upside-down"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preprocessSource(tt.input); got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func evaluate(t *testing.T, source string) *Result {
	t.Helper()
	res, evalErrs, err := newTestEngine(t).Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	return res
}

func TestContactBuiltin(t *testing.T) {
	res := evaluate(t, `(contact "ndiffc" :rows 1 :cols 2 :dir :h)`)
	c := res.Library.Get("ndiffc_1x2h")
	if c == nil {
		t.Fatalf("missing contact cell, have %d cells", res.Library.Len())
	}
	if res.Top != c {
		t.Fatal("last expression cell should become the top cell")
	}
}

func TestContactSizedBuiltin(t *testing.T) {
	res := evaluate(t, `
(def small (contact-sized "ndiffc" :layer "diff" :span 330 :dir :h))
(def wide (contact-sized "ndiffc" :layer "diff" :span 650 :dir :h))
(top wide)
`)
	if res.Library.Get("ndiffc_1x1h") == nil {
		t.Error("missing 1x1 contact")
	}
	if res.Top == nil || res.Top.Name != "ndiffc_1x2h" {
		t.Fatalf("top = %v, want ndiffc_1x2h", res.Top)
	}
}

func TestPlaceAndCell(t *testing.T) {
	res := evaluate(t, `
(def ct (contact "viali" :rows 2 :cols 2))
(top (cell "pair"
  (place ct :name "a" :at (pt 0 0))
  (place ct :name "b" :at (pt 1000 0) :sideways true :upside-down true)))
`)
	top := res.Top
	if top == nil || top.Name != "pair" {
		t.Fatalf("top = %v", top)
	}
	a, b := top.Inst("a"), top.Inst("b")
	if a == nil || b == nil {
		t.Fatalf("instances = %v", top.Insts)
	}
	if b.Loc != geom.Pt(1000, 0) || !b.Orient.ReflectX || !b.Orient.ReflectY {
		t.Fatalf("b = %v", b)
	}
	if a.BBox().Width() != b.BBox().Width() || a.BBox().Height() != b.BBox().Height() {
		t.Fatalf("flipped instance changed size: %v vs %v", a.BBox(), b.BBox())
	}
	if res.Library.Get("viali_2x2v") == nil {
		t.Fatal("contact not registered in library")
	}
}

func TestContactSizedCoversCuts(t *testing.T) {
	// Without a layer the cut array covers the span: 330 needs two 170 cuts.
	res := evaluate(t, `(contact-sized "ndiffc" :span 330 :dir :h)`)
	if res.Top == nil || res.Top.Name != "ndiffc_1x2h" {
		t.Fatalf("top = %v, want ndiffc_1x2h", res.Top)
	}
}

func TestArrayBuiltin(t *testing.T) {
	res := evaluate(t, `
(def ct (contact "via1" :rows 1 :cols 1))
(cell-array "col" ct :n 4 :dir :v :pitch 500 :flip :vertical :toggle true)
`)
	col := res.Library.Get("col")
	if col == nil || len(col.Insts) != 4 {
		t.Fatalf("col = %v", col)
	}
	for i, inst := range col.Insts {
		if inst.Loc != geom.Pt(0, geom.Int(i)*500) {
			t.Errorf("inst %d at %v", i, inst.Loc)
		}
		if inst.Orient.ReflectY != (i%2 == 1) {
			t.Errorf("inst %d ReflectY = %v", i, inst.Orient.ReflectY)
		}
	}
}

func TestGridBuiltin(t *testing.T) {
	res := evaluate(t, `
(def a (contact "ndiffc"))
(def b (contact "pdiffc"))
(grid "g" (list (list a b) (list b a)) :at (pt 0 0))
`)
	g := res.Top
	if g == nil || g.Name != "g" || len(g.Insts) != 4 {
		t.Fatalf("grid = %v", g)
	}
	bb := res.Library.MustGet("ndiffc_1x1v").BBox()
	if got := g.Inst("cell_1_1").BBox().P0; got != geom.Pt(bb.Width(), -bb.Height()) {
		t.Fatalf("cell_1_1 at %v", got)
	}
}

func TestGateBuiltin(t *testing.T) {
	res := evaluate(t, `(gate "dec" :kind :nand2 :nmos 1600 :pmos 2400 :length 150)`)
	c := res.Library.Get("dec")
	if c == nil {
		t.Fatal("missing gate cell")
	}
	for _, port := range []string{"A", "B", "Y", "VDD", "VSS"} {
		if _, ok := c.Port(port); !ok {
			t.Errorf("missing port %s", port)
		}
	}
	if r := layout.Validate(c, 5); !r.OK() {
		t.Fatalf("validate: %v", r.Err())
	}
}

func TestWidthHeightBuiltins(t *testing.T) {
	res := evaluate(t, `
(def ct (contact "via1" :rows 1 :cols 3 :dir :h))
(def w (width ct))
(def h (height ct))
(top (cell "wide" (place ct :at (pt w h))))
`)
	ct := res.Library.MustGet("via1_1x3h").BBox()
	if got := res.Top.Insts[0].Loc; got != geom.Pt(ct.Width(), ct.Height()) {
		t.Fatalf("placed at %v, want (%d, %d)", got, ct.Width(), ct.Height())
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name, source, want string
	}{
		{"unknown stack", `(contact "nope")`, "unknown contact stack"},
		{"zero rows", `(contact "via1" :rows 0)`, "invalid contact"},
		{"bad dir", `(contact "via1" :dir :diag)`, "invalid direction"},
		{"too small", `(contact-sized "ndiffc" :layer "diff" :span 10)`, "insufficient space"},
		{"unknown gate", `(gate "x" :kind :xor2)`, "unknown gate"},
		{"place non-cell", `(place 5)`, "expected cell"},
		{"bad rotation", `(place (contact "via1") :rot 45)`, "multiple of 90"},
		{"grid mismatch", `(grid "g" (list (list (contact "via1") (contact "via1" :rows 2))))`, "size mismatch"},
		{"duplicate cell", `(cell "x") (cell "x")`, "duplicate cell"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, evalErrs, err := newTestEngine(t).Evaluate(tt.source)
			if err != nil {
				t.Fatalf("fatal error: %v", err)
			}
			if res != nil || len(evalErrs) == 0 {
				t.Fatalf("expected eval error, got result %v", res)
			}
			if !strings.Contains(evalErrs[0].Message, tt.want) {
				t.Errorf("message = %q, want containing %q", evalErrs[0].Message, tt.want)
			}
		})
	}
}

func TestDecoderExample(t *testing.T) {
	src, err := os.ReadFile("../../examples/decoder.zy")
	if err != nil {
		t.Fatalf("read example: %v", err)
	}
	res := evaluate(t, string(src))
	if res.Top == nil || res.Top.Name != "decoder" {
		t.Fatalf("top = %v, want decoder", res.Top)
	}
	col, taps := res.Top.Inst("col"), res.Top.Inst("taps")
	if col == nil || taps == nil {
		t.Fatal("missing col or taps placement")
	}
	if taps.BBox().Left() < col.BBox().Right() {
		t.Fatalf("taps %v overlap column %v", taps.BBox(), col.BBox())
	}
	if vr := layout.Validate(res.Top, 5); !vr.OK() {
		t.Fatalf("validate: %v", vr.Err())
	}
}
