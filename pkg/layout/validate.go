package layout

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/geom"
)

// ValidationSeverity indicates whether a finding makes a cell unusable or
// is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // malformed geometry
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Cell     string             // cell with the problem
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] cell %s: %s", e.Severity, e.Cell, e.Message)
}

// ValidationResult separates blocking errors from warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether no errors were found.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Err returns nil if the result has no errors, otherwise an error naming
// the first one and the total count.
func (r ValidationResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	if len(r.Errors) == 1 {
		return r.Errors[0]
	}
	return errors.Errorf("%v (and %d more)", r.Errors[0], len(r.Errors)-1)
}

// Validate checks c and every cell below it. Each distinct cell is checked
// once. Structural problems (cycles, nil cells, duplicate names) and
// geometry problems (off-grid coordinates, empty rectangles) are errors;
// cells without geometry and ports without shapes are warnings. Validate
// never modifies the hierarchy.
func Validate(c *Cell, grid geom.Int) ValidationResult {
	var res ValidationResult
	if errs := validateDAG(c); len(errs) > 0 {
		res.Errors = append(res.Errors, errs...)
		return res
	}
	seen := make(map[*Cell]bool)
	_ = walkPostOrder(c, seen, func(cell *Cell) error {
		for _, f := range validateCell(cell, grid) {
			if f.Severity == SeverityWarning {
				res.Warnings = append(res.Warnings, f)
			} else {
				res.Errors = append(res.Errors, f)
			}
		}
		return nil
	})
	return res
}

// validateDAG checks for instance cycles using DFS with 3-color marking.
func validateDAG(root *Cell) []ValidationError {
	const (
		white = iota
		gray
		black
	)
	color := make(map[*Cell]int)
	var errs []ValidationError

	var visit func(c *Cell) bool
	visit = func(c *Cell) bool {
		switch color[c] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				Cell:     c.Name,
				Message:  "cell instantiates itself (cycle)",
				Severity: SeverityError,
			})
			return true
		}
		color[c] = gray
		for _, inst := range c.Insts {
			if inst.Cell == nil {
				continue
			}
			if visit(inst.Cell) {
				return true
			}
		}
		color[c] = black
		return false
	}
	if root != nil {
		visit(root)
	}
	return errs
}

func validateCell(c *Cell, grid geom.Int) []ValidationError {
	var out []ValidationError
	report := func(sev ValidationSeverity, format string, args ...any) {
		out = append(out, ValidationError{
			Cell:     c.Name,
			Message:  fmt.Sprintf(format, args...),
			Severity: sev,
		})
	}

	for i, e := range c.Elems {
		if e.Rect.IsEmpty() {
			report(SeverityError, "element %d has zero or negative area: %v", i, e.Rect)
		}
		if !e.Rect.IsOnGrid(grid) {
			report(SeverityError, "element %d is off the %d grid: %v", i, grid, e.Rect)
		}
	}

	names := make(map[string]bool, len(c.Insts))
	for _, inst := range c.Insts {
		if inst.Cell == nil {
			report(SeverityError, "instance %q has no cell", inst.Name)
			continue
		}
		if names[inst.Name] {
			report(SeverityError, "duplicate instance name %q", inst.Name)
		}
		names[inst.Name] = true
		if !inst.Loc.IsOnGrid(grid) {
			report(SeverityError, "instance %q is placed off the %d grid at %v", inst.Name, grid, inst.Loc)
		}
	}

	ports := make(map[string]bool, len(c.Ports))
	for _, p := range c.Ports {
		if ports[p.Name] {
			report(SeverityError, "duplicate port name %q", p.Name)
		}
		ports[p.Name] = true
		if len(p.Shapes) == 0 {
			report(SeverityWarning, "port %q has no shapes", p.Name)
		}
		for _, s := range p.Shapes {
			if s.Rect.IsEmpty() {
				report(SeverityError, "port %q has an empty shape %v", p.Name, s.Rect)
			}
			if !s.Rect.IsOnGrid(grid) {
				report(SeverityError, "port %q shape is off the %d grid: %v", p.Name, grid, s.Rect)
			}
		}
	}

	if c.IsEmpty() {
		report(SeverityWarning, "cell has no geometry")
	}
	return out
}
