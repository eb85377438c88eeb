// Package engine provides the design language evaluator. It wraps zygomys
// in a sandboxed environment and builds component trees from user source.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/airframe/pkg/component"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Design is the output of an evaluation.
type Design struct {
	// Roots are the components never used as a child, in creation order.
	Roots []component.Node
	// Parts maps each name to the latest component defined under it.
	Parts map[string]component.Node
}

// Root returns the root named name.
func (d *Design) Root(name string) (component.Node, bool) {
	for _, r := range d.Roots {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}

// Engine wraps the zygomys interpreter.
// Each call to Evaluate creates a fresh sandboxed environment for
// determinism. A newer call supersedes one still in flight, so use one
// Engine per independent stream of evaluations.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the hard limit for a single evaluation.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: EvalTimeout}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Evaluate takes design source code and builds its component trees.
//
// Return semantics:
//   - On success: returns design + nil errors + nil error
//   - On parse/eval failure: returns nil design + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Design, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		d, evalErrs, err := e.evaluate(source)
		ch <- evalResult{design: d, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation, e.timeout)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Design, []EvalError, error) {
	b := newBuilder()

	// Empty source is a valid program that produces an empty design.
	if strings.TrimSpace(source) == "" {
		return b.design(), nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, b)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	return b.design(), nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
