// The dc4-package is the facade external callers use: feed it bytes
// (or a ready-made action.Action), get output on the io.Writer you
// supply.
//
// Grounded on lib.rs's Dc4 struct; the two-step "New, then call verbs
// on it" shape follows the teacher's compiler.New/compiler.Compile
// pattern.
package dc4

import (
	"io"

	"github.com/skx/dc4/action"
	"github.com/skx/dc4/eval"
	"github.com/skx/dc4/macro"
	"github.com/skx/dc4/parser"
)

// Runtime wires together an Evaluator and a macro Runner behind the
// three entry points a caller needs: a byte stream, a literal macro
// body, or a single pre-built action. It is not safe for concurrent
// use by more than one goroutine.
type Runtime struct {
	ev     *eval.Evaluator
	runner *macro.Runner
}

// New returns a Runtime in dc's default state, identifying itself as
// progName in error messages.
func New(progName string) *Runtime {
	ev := eval.New(progName)
	return &Runtime{ev: ev, runner: macro.New(ev)}
}

// SetVersion overrides the version reported by the '@' command.
func (r *Runtime) SetVersion(major, minor, patch uint32) {
	r.ev.SetVersion(major, minor, patch)
}

// SetStdin overrides the source the '?' command reads a line from.
func (r *Runtime) SetStdin(in io.Reader) {
	r.ev.SetStdin(in)
}

// Stream consumes the entire byte stream from r as a program, writing
// output (and any error lines) to w. Errors encountered while running
// do not stop the program; they are reported through w and execution
// continues, exactly like piping a file into dc itself.
func (r *Runtime) Stream(in io.Reader, w io.Writer) {
	next := parser.Stream(in)
	for {
		a, ok := next()
		if !ok {
			return
		}
		if a.Kind == action.Eof {
			return
		}
		result, err := r.ev.Action(a, w)
		if err != nil {
			r.ev.Warn(w, err)
			continue
		}
		if result.Kind == eval.Macro {
			result = r.runner.Run(result.Text, w)
		}
		switch result.Kind {
		case eval.Continue:
		case eval.QuitLevels:
			// 'Q' must never unwind past the top level.
		case eval.Terminate:
			return
		}
	}
}

// Text runs text as if it were a single macro invocation - the
// top-level equivalent of what 'x' does to a string already on the
// stack.
func (r *Runtime) Text(text []byte, w io.Writer) eval.Result {
	return r.runner.Run(text, w)
}

// PushNumber parses input as a number in the current input radix and
// pushes it directly onto the stack.
func (r *Runtime) PushNumber(input []byte) error {
	return r.ev.PushNumber(input)
}

// PushString pushes a string directly onto the stack.
func (r *Runtime) PushString(s []byte) {
	r.ev.PushString(s)
}

// Action runs a single action, stopping on the first error encountered
// (and returning it to the caller, unlike Stream, which reports errors
// through w and keeps going).
func (r *Runtime) Action(a action.Action, w io.Writer) (eval.Result, error) {
	result, err := r.ev.Action(a, w)
	if err != nil {
		return eval.Result{}, err
	}
	if result.Kind == eval.Macro {
		return r.runner.Run(result.Text, w), nil
	}
	return result, nil
}
