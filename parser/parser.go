// The parser-package implements dc4's byte-level grammar as a state
// machine: one byte goes in, at most one action.Action comes out, and
// nothing is buffered beyond the characters of whatever number, string
// or two-character command is currently in progress.
//
// This mirrors the teacher's lexer (lexer.lexer.go): a small struct
// holding just enough state to recognize the next token, stepped one
// byte at a time. Where the teacher's lexer reads ahead and backs up
// with readPosition/position, dc4's grammar instead asks the caller to
// re-present a byte it didn't consume - see Step's pushback return.
package parser

import (
	"io"

	"github.com/skx/dc4/action"
)

// state identifies which of the grammar's internal modes the parser is
// currently in.
type state int

const (
	stateStart state = iota
	stateComment
	stateNumber
	stateString
	stateShellExec
	stateBang
	stateTwoChar
)

// Parser is a byte-at-a-time state machine that recognizes dc4's
// command grammar and emits one action.Action at a time.
type Parser struct {
	st state

	// numDecimal records whether the number currently being scanned
	// has already seen a decimal point.
	numDecimal bool

	// strLevel tracks nested '[' ... ']' depth within a string literal.
	strLevel int
	// strBs records whether the previous string byte was an unconsumed
	// backslash (which makes the next '[' or ']' literal).
	strBs bool

	// twoCharOp is the register operation awaiting its register-name
	// byte.
	twoCharOp action.RegisterOp
}

// New returns a Parser ready to scan from the start of a new program.
func New() *Parser {
	return &Parser{st: stateStart}
}

// Step advances the state machine by one byte, returning the action
// produced (if ok is true) and whether c was actually consumed.
//
// If consumed is false, c terminated whatever was being scanned (a
// second '.', the byte after a finished number, ...) and the action
// returned, if any, must be emitted first - then the very same byte
// must be passed to Step again so it is reprocessed from the new state.
func (p *Parser) Step(c byte) (a action.Action, ok bool, consumed bool) {
	switch p.st {
	case stateStart:
		return p.advanceStart(c)
	case stateComment:
		return p.advanceComment(c)
	case stateNumber:
		return p.advanceNumber(c)
	case stateString:
		return p.advanceString(c)
	case stateShellExec:
		return p.advanceShellExec(c)
	case stateBang:
		return p.advanceBang(c)
	case stateTwoChar:
		return p.advanceTwoChar(c)
	}
	panic("parser: unreachable state")
}

// Finish signals end of input: it completes whatever token is in
// progress and returns a terminal action. The parser resets to its
// initial state afterward, so a single Parser could in principle be
// reused for a second stream.
func (p *Parser) Finish() action.Action {
	var a action.Action
	switch p.st {
	case stateStart, stateComment, stateBang:
		a = action.Action{Kind: action.Eof}
	case stateNumber:
		a = action.Action{Kind: action.PushNumber}
	case stateString:
		a = action.Action{Kind: action.PushString}
	case stateShellExec:
		a = action.Action{Kind: action.ShellExec}
	case stateTwoChar:
		a = action.Action{Kind: action.InputError, Err: io.ErrUnexpectedEOF}
	}
	p.st = stateStart
	return a
}

func (p *Parser) advanceStart(c byte) (action.Action, bool, bool) {
	switch {
	case c == ' ' || c == '\t' || c == '\r' || c == '\n':
		return action.Action{}, false, true

	case c == '_' || (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') || c == '.':
		p.st = stateNumber
		p.numDecimal = c == '.'
		return action.Action{Kind: action.NumberChar, Byte: c}, true, true

	case c == 'p':
		return action.Action{Kind: action.Print}, true, true
	case c == 'n':
		return action.Action{Kind: action.PrintNoNewlinePop}, true, true
	case c == 'P':
		return action.Action{Kind: action.PrintBytesPop}, true, true
	case c == 'f':
		return action.Action{Kind: action.PrintStack}, true, true

	case c == '+':
		return action.Action{Kind: action.Add}, true, true
	case c == '-':
		return action.Action{Kind: action.Sub}, true, true
	case c == '*':
		return action.Action{Kind: action.Mul}, true, true
	case c == '/':
		return action.Action{Kind: action.Div}, true, true
	case c == '%':
		return action.Action{Kind: action.Rem}, true, true
	case c == '~':
		return action.Action{Kind: action.DivRem}, true, true
	case c == '^':
		return action.Action{Kind: action.Exp}, true, true
	case c == '|':
		return action.Action{Kind: action.ModExp}, true, true
	case c == 'v':
		return action.Action{Kind: action.Sqrt}, true, true

	case c == 'c':
		return action.Action{Kind: action.ClearStack}, true, true
	case c == 'd':
		return action.Action{Kind: action.Dup}, true, true
	case c == 'r':
		return action.Action{Kind: action.Swap}, true, true

	case c == 's':
		p.st, p.twoCharOp = stateTwoChar, action.Store
		return action.Action{}, false, true
	case c == 'l':
		p.st, p.twoCharOp = stateTwoChar, action.Load
		return action.Action{}, false, true
	case c == 'S':
		p.st, p.twoCharOp = stateTwoChar, action.PushRegStack
		return action.Action{}, false, true
	case c == 'L':
		p.st, p.twoCharOp = stateTwoChar, action.PopRegStack
		return action.Action{}, false, true

	case c == 'i':
		return action.Action{Kind: action.SetInputRadix}, true, true
	case c == 'o':
		return action.Action{Kind: action.SetOutputRadix}, true, true
	case c == 'k':
		return action.Action{Kind: action.SetPrecision}, true, true
	case c == 'I':
		return action.Action{Kind: action.LoadInputRadix}, true, true
	case c == 'O':
		return action.Action{Kind: action.LoadOutputRadix}, true, true
	case c == 'K':
		return action.Action{Kind: action.LoadPrecision}, true, true

	case c == '[':
		p.st, p.strLevel, p.strBs = stateString, 0, false
		return action.Action{}, false, true
	case c == 'a':
		return action.Action{Kind: action.Asciify}, true, true
	case c == 'x':
		return action.Action{Kind: action.ExecuteMacro}, true, true

	case c == '!':
		p.st = stateBang
		return action.Action{}, false, true
	case c == '>':
		p.st, p.twoCharOp = stateTwoChar, action.Gt
		return action.Action{}, false, true
	case c == '<':
		p.st, p.twoCharOp = stateTwoChar, action.Lt
		return action.Action{}, false, true
	case c == '=':
		p.st, p.twoCharOp = stateTwoChar, action.Eq
		return action.Action{}, false, true
	case c == '?':
		return action.Action{Kind: action.Input}, true, true
	case c == 'q':
		return action.Action{Kind: action.Quit}, true, true
	case c == 'Q':
		return action.Action{Kind: action.QuitLevels}, true, true

	case c == 'Z':
		return action.Action{Kind: action.NumDigits}, true, true
	case c == 'X':
		return action.Action{Kind: action.NumFrxDigits}, true, true
	case c == 'z':
		return action.Action{Kind: action.StackDepth}, true, true

	case c == '#':
		p.st = stateComment
		return action.Action{}, false, true
	case c == ':':
		p.st, p.twoCharOp = stateTwoChar, action.StoreRegArray
		return action.Action{}, false, true
	case c == ';':
		p.st, p.twoCharOp = stateTwoChar, action.LoadRegArray
		return action.Action{}, false, true

	case c == '@':
		return action.Action{Kind: action.Version}, true, true

	default:
		return action.Action{Kind: action.Unimplemented, Byte: c}, true, true
	}
}

func (p *Parser) advanceComment(c byte) (action.Action, bool, bool) {
	if c == '\n' {
		p.st = stateStart
	}
	return action.Action{}, false, true
}

func (p *Parser) advanceNumber(c byte) (action.Action, bool, bool) {
	switch {
	case (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F'):
		return action.Action{Kind: action.NumberChar, Byte: c}, true, true
	case c == '.' && !p.numDecimal:
		p.numDecimal = true
		return action.Action{Kind: action.NumberChar, Byte: c}, true, true
	default:
		// Not part of the number (a second '_', a second '.', or any
		// other byte): end the number and ask for this byte again.
		p.st = stateStart
		return action.Action{Kind: action.PushNumber}, true, false
	}
}

func (p *Parser) advanceString(c byte) (action.Action, bool, bool) {
	switch {
	case c == '\\' && !p.strBs:
		p.strBs = true
		return action.Action{}, false, true
	case c == '[' && !p.strBs:
		p.strLevel++
		return action.Action{Kind: action.StringChar, Byte: c}, true, true
	case c == ']' && !p.strBs && p.strLevel > 0:
		p.strLevel--
		return action.Action{Kind: action.StringChar, Byte: c}, true, true
	case c == ']' && !p.strBs && p.strLevel == 0:
		p.st = stateStart
		return action.Action{Kind: action.PushString}, true, true
	default:
		p.strBs = false
		return action.Action{Kind: action.StringChar, Byte: c}, true, true
	}
}

func (p *Parser) advanceShellExec(c byte) (action.Action, bool, bool) {
	if c == '\n' {
		p.st = stateStart
		return action.Action{Kind: action.ShellExec}, true, true
	}
	return action.Action{}, false, true
}

func (p *Parser) advanceBang(c byte) (action.Action, bool, bool) {
	switch c {
	case '>':
		p.st, p.twoCharOp = stateTwoChar, action.Le
	case '<':
		p.st, p.twoCharOp = stateTwoChar, action.Ge
	case '=':
		p.st, p.twoCharOp = stateTwoChar, action.Ne
	default:
		p.st = stateShellExec
	}
	return action.Action{}, false, true
}

func (p *Parser) advanceTwoChar(c byte) (action.Action, bool, bool) {
	p.st = stateStart
	return action.Action{Kind: action.Register, RegOp: p.twoCharOp, Byte: c}, true, true
}
