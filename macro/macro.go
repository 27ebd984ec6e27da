// The macro-package drives a parser.Parser over a macro body's bytes
// and dispatches each action to an eval.Evaluator, implementing two
// things a plain action-at-a-time loop can't do on its own:
//
//   - tail-call elimination: a macro that invokes itself (or another
//     macro) as its very last action reuses the current stack frame
//     instead of recursing, so arbitrarily long tail-recursive dc
//     programs run in bounded Go stack depth.
//   - quit-level unwinding: 'q'/'Q' need to pop several levels of
//     nested macro invocation at once, including unwinding through
//     any tail-call frames that were flattened above.
//
// Grounded on state.rs's run_macro and its quit_handler! macro.
package macro

import (
	"io"

	"github.com/skx/dc4/action"
	"github.com/skx/dc4/eval"
	"github.com/skx/dc4/parser"
)

// Runner drives macro execution against a single Evaluator.
type Runner struct {
	ev *eval.Evaluator
}

// New returns a Runner that will dispatch actions to ev.
func New(ev *eval.Evaluator) *Runner {
	return &Runner{ev: ev}
}

// Run executes text as a macro body, returning the control-flow result
// it ultimately produces (Continue, Terminate, or QuitLevels - never
// Macro, which Run always resolves internally).
func (r *Runner) Run(text []byte, w io.Writer) eval.Result {
	p := parser.New()
	var tailDepth uint32
	pos := 0
	var cur byte
	haveCur := false

	for {
		if !haveCur && pos < len(text) {
			cur = text[pos]
			haveCur = true
		}

		var a action.Action
		if haveCur {
			act, ok, consumed := p.Step(cur)
			if consumed {
				haveCur = false
				pos++
			}
			if !ok {
				continue
			}
			a = act
		} else {
			a = p.Finish()
		}

		if a.Kind == action.Eof {
			return eval.Result{Kind: eval.Continue}
		}

		result, err := r.ev.Action(a, w)

		for err == nil && result.Kind == eval.Macro {
			if pos == len(text) {
				// Tail call: the macro invocation was the last thing
				// in the current text, so there is nothing left to
				// come back to - reuse this frame instead of
				// recursing.
				text = result.Text
				pos = 0
				haveCur = false
				tailDepth++
				result = eval.Result{Kind: eval.Continue}
			} else {
				result = r.Run(result.Text, w)
			}
		}

		if err != nil {
			r.ev.Warn(w, err)
			continue
		}

		switch result.Kind {
		case eval.Continue:
			// fall through to next iteration
		case eval.QuitLevels:
			if stop, final := quitHandler(result.N, tailDepth, eval.QuitLevels); stop {
				return final
			}
		case eval.Terminate:
			if stop, final := quitHandler(result.N, tailDepth, eval.Terminate); stop {
				return final
			}
		}
	}
}

// quitHandler implements the three-way decision a quit (n levels) makes
// against the number of tail-call frames flattened into this one:
//
//   - if n would unwind past this (flattened) frame, keep propagating
//     the quit upward with the tail-called levels already accounted for.
//   - if n exactly reaches this frame, the quit stops here.
//   - if any tail recursion happened at all, this frame's "parent" is
//     really just the end of its own text (it was about to return
//     anyway), so the whole thing unwinds.
//   - otherwise, the quit doesn't apply here at all: keep running.
func quitHandler(n, tailDepth uint32, kind eval.ResultKind) (stop bool, result eval.Result) {
	switch {
	case n > 0 && n-1 > tailDepth:
		return true, eval.Result{Kind: kind, N: n - tailDepth - 1}
	case n-1 == tailDepth:
		return true, eval.Result{Kind: eval.Continue}
	case n > 0 && tailDepth > 0:
		return true, eval.Result{Kind: eval.Continue}
	default:
		return false, eval.Result{}
	}
}
