// The eval-package implements dc4's stack machine: it owns the value
// stack, the register file, the current radixes and scale, and the
// in-flight number/string builders, and knows how to carry out every
// action.Action the parser can produce.
//
// Grounded on state.rs's Dc4State, adapted into the teacher's "struct
// plus one big dispatch method" shape from compiler.Compile's
// makeinternalform switch.
package eval

import (
	"bufio"
	"io"
	"os"

	"github.com/skx/dc4/action"
	"github.com/skx/dc4/bigreal"
	"github.com/skx/dc4/register"
	"github.com/skx/dc4/stack"
	"github.com/skx/dc4/value"
)

// ResultKind distinguishes the different ways running one action can
// ask its caller to change what happens next.
type ResultKind int

// The control-flow outcomes an action can produce.
const (
	// Continue means: nothing special, keep executing the current
	// macro.
	Continue ResultKind = iota
	// Terminate means N levels of macro nesting should unwind, like
	// QuitLevels, and the program stops if it reaches the top level.
	Terminate
	// QuitLevels means N levels of macro nesting should unwind.
	QuitLevels
	// Macro means: the evaluator wants the caller (the macro runner)
	// to execute Text as a new macro invocation, then resume here.
	Macro
)

// Result reports what the evaluator wants to happen after one action.
type Result struct {
	Kind ResultKind
	N    uint32
	Text []byte
}

// Evaluator is dc4's stack machine.
type Evaluator struct {
	progName string

	stack     *stack.Stack
	registers *register.File

	scale  uint32
	iradix uint32
	oradix uint32

	currentStr []byte
	currentNum numberBuilder

	versionMajor uint32
	versionMinor uint32
	versionPatch uint32

	stdinReader io.Reader
	stdin       *bufio.Reader
}

// New returns an Evaluator in dc's default state: base 10 in and out,
// scale 0, empty stack, empty registers.
func New(progName string) *Evaluator {
	return &Evaluator{
		progName:     progName,
		stack:        stack.New(),
		registers:    register.New(),
		iradix:       10,
		oradix:       10,
		currentNum:   newNumberBuilder(),
		versionMajor: 4,
		versionMinor: 0,
		versionPatch: 0,
		stdinReader:  os.Stdin,
	}
}

// SetVersion overrides the version number reported by the '@' command,
// normally populated from build-time linker flags.
func (e *Evaluator) SetVersion(major, minor, patch uint32) {
	e.versionMajor, e.versionMinor, e.versionPatch = major, minor, patch
}

// SetStdin overrides the source the '?' command reads a line from.
// Defaults to os.Stdin; tests substitute a strings.Reader.
func (e *Evaluator) SetStdin(r io.Reader) {
	e.stdinReader = r
	e.stdin = nil
}

func (e *Evaluator) readLine() ([]byte, error) {
	if e.stdin == nil {
		e.stdin = bufio.NewReader(e.stdinReader)
	}
	line, err := e.stdin.ReadBytes('\n')
	if err != nil && err != io.EOF {
		return line, err
	}
	return line, nil
}

// PushNumber parses input as a dc number literal in the current input
// radix and pushes it onto the stack directly, without going through
// a stream of NumberChar actions.
func (e *Evaluator) PushNumber(input []byte) error {
	num := newNumberBuilder()
	for i, c := range input {
		pc := c
		if i == 0 && c == '-' {
			pc = '_'
		}
		if err := num.push(pc, e.iradix); err != nil {
			return err
		}
	}
	e.stack.Push(value.Num(num.finish(e.iradix)))
	return nil
}

// PushString pushes s directly onto the stack as a string value.
func (e *Evaluator) PushString(s []byte) {
	dup := make([]byte, len(s))
	copy(dup, s)
	e.stack.Push(value.Str(dup))
}

// Action carries out a single parsed action, writing any program
// output (results, warnings) to w. Errors are returned to the caller
// rather than written; warnings are written directly and do not
// produce an error.
func (e *Evaluator) Action(a action.Action, w io.Writer) (Result, error) {
	switch a.Kind {
	case action.NumberChar:
		if err := e.currentNum.push(a.Byte, e.iradix); err != nil {
			return Result{}, err
		}
	case action.PushNumber:
		n := e.currentNum
		e.currentNum = newNumberBuilder()
		e.stack.Push(value.Num(n.finish(e.iradix)))
	case action.StringChar:
		e.currentStr = append(e.currentStr, a.Byte)
	case action.PushString:
		e.stack.Push(value.Str(e.currentStr))
		e.currentStr = nil

	case action.Register:
		return e.register(a)

	case action.Print:
		top, ok := e.stack.Peek(0)
		if !ok {
			return Result{}, errKind(StackEmpty)
		}
		e.printElem(top, w)
		io.WriteString(w, "\n")
	case action.PrintNoNewlinePop:
		v, err := e.popTop()
		if err != nil {
			return Result{}, err
		}
		e.printElem(v, w)
	case action.PrintBytesPop:
		v, err := e.popTop()
		if err != nil {
			return Result{}, err
		}
		if v.IsStr() {
			w.Write(v.Str)
		} else {
			w.Write(v.Num.ToInt().Bytes())
		}
	case action.PrintStack:
		for _, v := range e.stack.TopFirst() {
			e.printElem(v, w)
			io.WriteString(w, "\n")
		}

	case action.Add:
		if err := e.binaryOp(func(a, b *bigreal.BigReal) (*bigreal.BigReal, error) {
			return a.Add(b), nil
		}); err != nil {
			return Result{}, err
		}
	case action.Sub:
		if err := e.binaryOp(func(a, b *bigreal.BigReal) (*bigreal.BigReal, error) {
			return a.Sub(b), nil
		}); err != nil {
			return Result{}, err
		}
	case action.Mul:
		if err := e.binaryOp(func(a, b *bigreal.BigReal) (*bigreal.BigReal, error) {
			return a.Mul(b), nil
		}); err != nil {
			return Result{}, err
		}
	case action.Div:
		scale := e.scale
		if err := e.binaryOp(func(a, b *bigreal.BigReal) (*bigreal.BigReal, error) {
			if b.IsZero() {
				return nil, errKind(DivideByZero)
			}
			return a.Div(b, scale), nil
		}); err != nil {
			return Result{}, err
		}
	case action.Rem:
		scale := e.scale
		if err := e.binaryOp(func(a, b *bigreal.BigReal) (*bigreal.BigReal, error) {
			if b.IsZero() {
				return nil, errKind(RemainderByZero)
			}
			return a.Rem(b, scale), nil
		}); err != nil {
			return Result{}, err
		}
	case action.DivRem:
		if err := e.divRem(); err != nil {
			return Result{}, err
		}
	case action.Exp:
		warn := false
		scale := e.scale
		if err := e.binaryOp(func(base, exponent *bigreal.BigReal) (*bigreal.BigReal, error) {
			if !exponent.IsInteger() {
				warn = true
			}
			return base.Pow(exponent, scale), nil
		}); err != nil {
			return Result{}, err
		}
		if warn {
			e.warn(w, "warning: non-zero scale in exponent")
		}
	case action.ModExp:
		if err := e.modExp(w); err != nil {
			return Result{}, err
		}
	case action.Sqrt:
		v, ok := e.stack.Peek(0)
		if !ok {
			return Result{}, errKind(StackEmpty)
		}
		if v.IsStr() {
			return Result{}, errKind(SqrtNonNumeric)
		}
		if v.Num.IsNegative() {
			return Result{}, errKind(SqrtNegative)
		}
		e.stack.DropN(1)
		if v.Num.IsZero() {
			e.stack.Push(v)
		} else {
			x, _ := v.Num.Sqrt(e.scale)
			e.stack.Push(value.Num(x))
		}

	case action.ClearStack:
		e.stack.Clear()
	case action.Dup:
		e.stack.DupTop()
	case action.Swap:
		if !e.stack.SwapTop() {
			return Result{}, errKind(StackEmpty)
		}

	case action.SetInputRadix:
		v, ok := e.stack.Peek(0)
		if !ok {
			return Result{}, errKind(StackEmpty)
		}
		if v.IsStr() {
			return Result{}, errKind(InputRadixInvalid)
		}
		radix, ok := v.Num.Uint64()
		if !ok || radix < 2 || radix > 16 {
			return Result{}, errKind(InputRadixInvalid)
		}
		e.stack.DropN(1)
		e.iradix = uint32(radix)
	case action.SetOutputRadix:
		v, ok := e.stack.Peek(0)
		if !ok {
			return Result{}, errKind(StackEmpty)
		}
		if v.IsStr() {
			return Result{}, errKind(OutputRadixInvalid)
		}
		radix, ok := v.Num.Uint64()
		if !ok || radix < 2 || radix > 16 {
			return Result{}, errKind(OutputRadixInvalid)
		}
		e.stack.DropN(1)
		e.oradix = uint32(radix)
	case action.SetPrecision:
		v, ok := e.stack.Peek(0)
		if !ok {
			return Result{}, errKind(StackEmpty)
		}
		if v.IsStr() || v.Num.IsNegative() {
			return Result{}, errKind(ScaleInvalid)
		}
		scale, ok := v.Num.Uint64()
		if !ok || scale > 0xFFFFFFFF {
			return Result{}, errKind(ScaleTooBig)
		}
		e.stack.DropN(1)
		e.scale = uint32(scale)
	case action.LoadInputRadix:
		e.stack.Push(value.Num(bigreal.New(int64(e.iradix), 0)))
	case action.LoadOutputRadix:
		e.stack.Push(value.Num(bigreal.New(int64(e.oradix), 0)))
	case action.LoadPrecision:
		e.stack.Push(value.Num(bigreal.New(int64(e.scale), 0)))

	case action.Asciify:
		v, err := e.popTop()
		if err != nil {
			return Result{}, err
		}
		if v.IsStr() {
			if len(v.Str) > 1 {
				v.Str = v.Str[:1]
			}
			e.stack.Push(v)
		} else {
			bytes := v.Num.ToInt().Bytes()
			var first byte
			if len(bytes) > 0 {
				first = bytes[len(bytes)-1]
			}
			e.stack.Push(value.Str([]byte{first}))
		}
	case action.ExecuteMacro:
		v, err := e.popTop()
		if err != nil {
			return Result{}, err
		}
		if v.IsStr() {
			return Result{Kind: Macro, Text: v.Str}, nil
		}
		e.stack.Push(v)

	case action.Input:
		line, rerr := e.readLine()
		if rerr != nil {
			e.warn(w, "warning: error reading input: "+rerr.Error())
		}
		return Result{Kind: Macro, Text: line}, nil

	case action.Quit:
		return Result{Kind: Terminate, N: 2}, nil
	case action.QuitLevels:
		v, ok := e.stack.Peek(0)
		if !ok {
			return Result{}, errKind(StackEmpty)
		}
		if v.IsStr() || !v.Num.IsPositive() {
			return Result{}, errKind(QuitInvalid)
		}
		n, ok := v.Num.Uint64()
		if !ok || n > 0xFFFFFFFF {
			return Result{}, errKind(QuitTooBig)
		}
		e.stack.DropN(1)
		return Result{Kind: QuitLevels, N: uint32(n)}, nil

	case action.NumDigits:
		v, err := e.popTop()
		if err != nil {
			return Result{}, err
		}
		if v.IsNum() {
			e.stack.Push(value.Num(bigreal.New(int64(v.Num.NumDigits()), 0)))
		} else {
			e.stack.Push(value.Num(bigreal.New(int64(len(v.Str)), 0)))
		}
	case action.NumFrxDigits:
		v, err := e.popTop()
		if err != nil {
			return Result{}, err
		}
		if v.IsNum() {
			e.stack.Push(value.Num(bigreal.New(int64(v.Num.NumFrxDigits()), 0)))
		} else {
			e.stack.Push(value.Num(bigreal.Zero()))
		}
	case action.StackDepth:
		e.stack.Push(value.Num(bigreal.New(int64(e.stack.Len()), 0)))

	case action.ShellExec:
		return Result{}, errKind(ShellUnsupported)

	case action.Version:
		ver := uint64(e.versionMajor)<<24 | uint64(e.versionMinor)<<16 | uint64(e.versionPatch)
		e.stack.Push(value.Num(bigreal.New(int64(ver), 0)))
		e.stack.Push(value.Str([]byte("dc4")))

	case action.Eof:
		// nothing to do

	case action.Unimplemented:
		return Result{}, errByte(Unimplemented, a.Byte)
	case action.InputError:
		return Result{}, &Error{Kind: InputError, Err: a.Err}
	}
	return Result{}, nil
}

func (e *Evaluator) register(a action.Action) (Result, error) {
	reg := e.registers.Get(a.Byte)
	switch a.RegOp {
	case action.Store:
		v, err := e.popTop()
		if err != nil {
			return Result{}, err
		}
		reg.Set(v)
	case action.Load:
		v := reg.Value()
		if v == nil {
			return Result{}, errByte(RegisterEmpty, a.Byte)
		}
		e.stack.Push(v.Clone())
	case action.PushRegStack:
		v, err := e.popTop()
		if err != nil {
			return Result{}, err
		}
		reg.Push(v)
	case action.PopRegStack:
		v, ok := reg.Pop()
		if !ok {
			return Result{}, errByte(StackRegisterEmpty, a.Byte)
		}
		e.stack.Push(v)
	case action.Gt, action.Le, action.Lt, action.Ge, action.Eq, action.Ne:
		return e.condMacro(a.Byte, a.RegOp)
	case action.StoreRegArray:
		keyVal, ok := e.stack.Peek(0)
		if !ok {
			return Result{}, errKind(StackEmpty)
		}
		if keyVal.IsStr() || keyVal.Num.IsNegative() {
			return Result{}, errKind(ArrayIndexInvalid)
		}
		v, ok := e.stack.Peek(1)
		if !ok {
			return Result{}, errKind(StackEmpty)
		}
		reg.ArrayStore(keyVal.Num, v)
		e.stack.DropN(2)
	case action.LoadRegArray:
		keyVal, ok := e.stack.Peek(0)
		if !ok {
			return Result{}, errKind(StackEmpty)
		}
		if keyVal.IsStr() || keyVal.Num.IsNegative() {
			return Result{}, errKind(ArrayIndexInvalid)
		}
		e.stack.DropN(1)
		e.stack.Push(reg.ArrayLoad(keyVal.Num))
	}
	return Result{}, nil
}

func (e *Evaluator) condMacro(register byte, op action.RegisterOp) (Result, error) {
	// a is the second-from-top value, b is the top value - matching
	// get_two_ints()'s (second, top) order, so "b > a" below reads the
	// same way run_macro's Comparison::Gt arm does.
	a, b, err := e.twoInts()
	if err != nil {
		return Result{}, err
	}
	var cond bool
	switch op {
	case action.Gt:
		cond = b.Cmp(a) > 0
	case action.Le:
		cond = b.Cmp(a) <= 0
	case action.Lt:
		cond = b.Cmp(a) < 0
	case action.Ge:
		cond = b.Cmp(a) >= 0
	case action.Eq:
		cond = b.Cmp(a) == 0
	case action.Ne:
		cond = b.Cmp(a) != 0
	}
	e.stack.DropN(2)

	if !cond {
		return Result{}, nil
	}

	v := e.registers.Get(register).Value()
	if v == nil {
		return Result{}, errByte(RegisterEmpty, register)
	}
	if v.IsNum() {
		return Result{}, nil
	}
	return Result{Kind: Macro, Text: v.Str}, nil
}

func (e *Evaluator) divRem() error {
	a, b, err := e.twoIntsOrdered()
	if err != nil {
		return err
	}
	if b.IsZero() {
		return errKind(DivideByZero)
	}
	scale := e.scale
	div, rem := a.DivRem(b, scale)
	e.stack.DropN(2)
	e.stack.Push(value.Num(div))
	e.stack.Push(value.Num(rem))
	return nil
}

func (e *Evaluator) modExp(w io.Writer) error {
	if e.stack.Len() < 3 {
		return errKind(StackEmpty)
	}
	baseVal, _ := e.stack.Peek(2)
	exponentVal, _ := e.stack.Peek(1)
	modulusVal, _ := e.stack.Peek(0)
	top := []value.Value{baseVal, exponentVal, modulusVal}
	for i, v := range top {
		if v.IsStr() {
			return errKind(NonNumericValue)
		}
		if i == 1 && v.Num.IsNegative() {
			return errKind(NegativeExponent)
		}
		if i == 2 && v.Num.IsZero() {
			return errKind(RemainderByZero)
		}
	}

	modulus := top[2].Num
	exponent := top[1].Num
	base := top[0].Num
	e.stack.DropN(3)

	if !base.IsInteger() {
		e.warn(w, "warning: non-zero scale in base")
	}
	if !exponent.IsInteger() {
		e.warn(w, "warning: non-zero scale in exponent")
	}
	if !modulus.IsInteger() {
		e.warn(w, "warning: non-zero scale in modulus")
	}

	result, _ := bigreal.ModExp(base, exponent, modulus, e.scale)
	e.stack.Push(value.Num(result))
	return nil
}

func (e *Evaluator) printElem(v value.Value, w io.Writer) {
	if v.IsNum() {
		if v.Num.IsZero() {
			io.WriteString(w, "0")
		} else {
			io.WriteString(w, upper(v.Num.ToStrRadix(e.oradix)))
		}
		return
	}
	w.Write(v.Str)
}

func upper(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// twoInts returns the top two stack values as BigReals without popping
// them, in (second-from-top, top) order, matching get_two_ints.
func (e *Evaluator) twoInts() (a, b *bigreal.BigReal, err error) {
	if e.stack.Len() < 2 {
		return nil, nil, errKind(StackEmpty)
	}
	av, _ := e.stack.Peek(1)
	bv, _ := e.stack.Peek(0)
	if av.IsStr() || bv.IsStr() {
		return nil, nil, errKind(NonNumericValue)
	}
	return av.Num, bv.Num, nil
}

// twoIntsOrdered is an alias of twoInts kept separate so call sites
// read as "dividend, divisor" rather than "a, b".
func (e *Evaluator) twoIntsOrdered() (dividend, divisor *bigreal.BigReal, err error) {
	return e.twoInts()
}

func (e *Evaluator) binaryOp(f func(a, b *bigreal.BigReal) (*bigreal.BigReal, error)) error {
	a, b, err := e.twoInts()
	if err != nil {
		return err
	}
	result, err := f(a, b)
	if err != nil {
		return err
	}
	e.stack.DropN(2)
	e.stack.Push(value.Num(result))
	return nil
}

func (e *Evaluator) popTop() (value.Value, error) {
	v, err := e.stack.Pop()
	if err != nil {
		return value.Value{}, errKind(StackEmpty)
	}
	return v, nil
}

// warn writes a "<progname>: <message>" line, the same path errors use,
// but does not produce a Go error: it is a side effect of an otherwise
// successful action.
func (e *Evaluator) warn(w io.Writer, message string) {
	io.WriteString(w, e.progName+": "+message+"\n")
}

// Warn renders err (or a message) through dc4's standard
// "<progname>: <message>" error line, for callers (the macro runner,
// the facade) that catch an error and must report it without stopping
// the program.
func (e *Evaluator) Warn(w io.Writer, err error) {
	io.WriteString(w, e.progName+": "+err.Error()+"\n")
}
