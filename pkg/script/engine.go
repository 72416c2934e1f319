// Package script evaluates layout scripts. It wraps zygomys in a sandboxed
// environment whose builtins draw contacts, transistors, gates and arrays
// and place them into new cells.
package script

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/layout"
	"github.com/chazu/sramlay/pkg/pdk"
)

// EvalError is a non-fatal error in user code, such as a parse error or a
// builtin rejecting its arguments.
type EvalError struct {
	Line    int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return "line " + strconv.Itoa(e.Line) + ": " + e.Message
	}
	return e.Message
}

// Result is the output of one evaluation.
type Result struct {
	// Library holds every cell the script produced, children first.
	Library *layout.Library
	// Top is the cell passed to (top ...), or the value of the last
	// expression when it is a cell.
	Top *layout.Cell
}

// Engine evaluates scripts against one process. It is safe for
// concurrent use; each call to Evaluate creates a fresh sandbox.
type Engine struct {
	pdk *pdk.Pdk

	mu         sync.Mutex
	generation uint64
}

// NewEngine returns an engine drawing with p.
func NewEngine(p *pdk.Pdk) *Engine {
	return &Engine{pdk: p}
}

// Evaluate runs source in a fresh sandbox.
//
//   - On success: returns result + nil errors + nil error
//   - On parse/eval failure: returns nil result + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Result, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: errors.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, evalErrs, err := e.evaluate(source)
		ch <- evalResult{result: res, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

func (e *Engine) evaluate(source string) (*Result, []EvalError, error) {
	st := newState(e.pdk)
	if strings.TrimSpace(source) == "" {
		return st.result(), nil, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, st)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	last, err := env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}
	if st.top == nil {
		if c, ok := last.(*sexpCell); ok {
			st.top = c.cell
		}
	}

	res := st.result()
	logger().Debug("evaluated", slog.Int("cells", res.Library.Len()), slog.Bool("top", res.Top != nil))
	return res, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalErrors, keeping the
// line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}

func logger() *slog.Logger {
	return slog.Default().With(slog.String("component", "script"))
}
