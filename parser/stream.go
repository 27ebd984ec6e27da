package parser

import (
	"bufio"
	"io"

	"github.com/skx/dc4/action"
)

// Stream returns a function that, called repeatedly, drives a Parser
// over r one byte at a time and yields one action.Action per call,
// finally returning an Eof action and then ok=false forever after.
//
// Grounded on the pushback/stash handling of a reader-driven iterator:
// a byte left unconsumed by Step is stashed and re-offered on the next
// pull, rather than ever reading past it.
func Stream(r io.Reader) func() (action.Action, bool) {
	br := bufio.NewReader(r)
	p := New()
	var stashed byte
	haveStashed := false
	done := false
	eofPending := false

	return func() (action.Action, bool) {
		if done {
			return action.Action{}, false
		}
		if eofPending {
			done = true
			return action.Action{Kind: action.Eof}, true
		}
		for {
			var c byte
			var atEOF bool

			if haveStashed {
				c = stashed
				haveStashed = false
			} else {
				b, err := br.ReadByte()
				if err == io.EOF {
					atEOF = true
				} else if err != nil {
					done = true
					return action.Action{Kind: action.InputError, Err: err}, true
				} else {
					c = b
				}
			}

			if atEOF {
				a := p.Finish()
				if a.Kind == action.Eof {
					done = true
				} else {
					eofPending = true
				}
				return a, true
			}

			a, ok, consumed := p.Step(c)
			if !consumed {
				stashed = c
				haveStashed = true
			}
			if ok {
				return a, true
			}
		}
	}
}
