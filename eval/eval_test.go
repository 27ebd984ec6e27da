package eval

import (
	"bytes"
	"strings"
	"testing"

	"github.com/skx/dc4/action"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pushNum(t *testing.T, e *Evaluator, n int64) {
	t.Helper()
	require.NoError(t, e.PushNumber([]byte(itoa(n))))
}

func itoa(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := ""
	if n == 0 {
		s = "0"
	}
	for n > 0 {
		s = string(rune('0'+n%10)) + s
		n /= 10
	}
	if neg {
		s = "-" + s
	}
	return s
}

func TestAddPopsTwoPushesOne(t *testing.T) {
	e := New("dc4")
	pushNum(t, e, 1)
	pushNum(t, e, 2)
	var buf bytes.Buffer
	_, err := e.Action(action.Action{Kind: action.Add}, &buf)
	require.NoError(t, err)
	require.Equal(t, 1, e.stack.Len())

	_, err = e.Action(action.Action{Kind: action.Print}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "3\n", buf.String())
}

// Stack-neutral errors: an operation that errors leaves the stack exactly
// as it found it.
func TestDivideByZeroLeavesStackUnchanged(t *testing.T) {
	e := New("dc4")
	pushNum(t, e, 10)
	pushNum(t, e, 0)
	depthBefore := e.stack.Len()

	var buf bytes.Buffer
	_, err := e.Action(action.Action{Kind: action.Div}, &buf)
	require.Error(t, err)
	assert.Equal(t, "divide by zero", err.Error())
	assert.Equal(t, depthBefore, e.stack.Len())
}

func TestStackEmptyOnPrint(t *testing.T) {
	e := New("dc4")
	var buf bytes.Buffer
	_, err := e.Action(action.Action{Kind: action.Print}, &buf)
	require.Error(t, err)
	assert.Equal(t, "stack empty", err.Error())
}

func TestSqrtNegativeIsAnErrorAndLeavesStack(t *testing.T) {
	e := New("dc4")
	pushNum(t, e, -25)
	var buf bytes.Buffer
	_, err := e.Action(action.Action{Kind: action.Sqrt}, &buf)
	require.Error(t, err)
	assert.Equal(t, "square root of negative number", err.Error())
	require.Equal(t, 1, e.stack.Len())
}

func TestSqrtPerfectSquare(t *testing.T) {
	e := New("dc4")
	pushNum(t, e, 625)
	var buf bytes.Buffer
	_, err := e.Action(action.Action{Kind: action.Sqrt}, &buf)
	require.NoError(t, err)
	_, err = e.Action(action.Action{Kind: action.Print}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "25\n", buf.String())
}

// Scale discipline: a/b at scale k keeps exactly k fractional digits
// (50/3 at scale 2 prints 16.66).
func TestScaleDiscipline(t *testing.T) {
	e := New("dc4")
	e.scale = 2
	pushNum(t, e, 50)
	pushNum(t, e, 3)
	var buf bytes.Buffer
	_, err := e.Action(action.Action{Kind: action.Div}, &buf)
	require.NoError(t, err)
	_, err = e.Action(action.Action{Kind: action.Print}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "16.66\n", buf.String())
}

func TestRegisterEmptyLoadReportsRegisterByte(t *testing.T) {
	e := New("dc4")
	var buf bytes.Buffer
	_, err := e.Action(action.Action{Kind: action.Register, Byte: 'z', RegOp: action.Load}, &buf)
	require.Error(t, err)
	assert.Equal(t, "register 'z' (0172) is empty", err.Error())
}

func TestRegisterStoreAndLoadRoundTrip(t *testing.T) {
	e := New("dc4")
	pushNum(t, e, 7)
	var buf bytes.Buffer
	_, err := e.Action(action.Action{Kind: action.Register, Byte: 'a', RegOp: action.Store}, &buf)
	require.NoError(t, err)
	require.True(t, e.stack.Empty())

	_, err = e.Action(action.Action{Kind: action.Register, Byte: 'a', RegOp: action.Load}, &buf)
	require.NoError(t, err)
	_, err = e.Action(action.Action{Kind: action.Print}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "7\n", buf.String())
}

// Array slot locality: pushing a slot, storing into its array, then
// popping the slot restores the previous slot's array unchanged.
func TestArraySlotLocality(t *testing.T) {
	e := New("dc4")

	pushNum(t, e, 100)
	var buf bytes.Buffer
	_, err := e.Action(action.Action{Kind: action.Register, Byte: 'r', RegOp: action.Store}, &buf)
	require.NoError(t, err)

	pushNum(t, e, 1)
	pushNum(t, e, 0)
	_, err = e.Action(action.Action{Kind: action.Register, Byte: 'r', RegOp: action.StoreRegArray}, &buf)
	require.NoError(t, err)

	pushNum(t, e, 999)
	_, err = e.Action(action.Action{Kind: action.Register, Byte: 'r', RegOp: action.PushRegStack}, &buf)
	require.NoError(t, err)

	pushNum(t, e, 2)
	pushNum(t, e, 0)
	_, err = e.Action(action.Action{Kind: action.Register, Byte: 'r', RegOp: action.StoreRegArray}, &buf)
	require.NoError(t, err)

	_, err = e.Action(action.Action{Kind: action.Register, Byte: 'r', RegOp: action.PopRegStack}, &buf)
	require.NoError(t, err)
	_, err = e.Action(action.Action{Kind: action.PrintNoNewlinePop}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "999", buf.String())
	buf.Reset()

	pushNum(t, e, 0)
	_, err = e.Action(action.Action{Kind: action.Register, Byte: 'r', RegOp: action.LoadRegArray}, &buf)
	require.NoError(t, err)
	_, err = e.Action(action.Action{Kind: action.Print}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "1\n", buf.String())
}

func TestOutputRadixRestrictedTo2Through16(t *testing.T) {
	e := New("dc4")
	pushNum(t, e, 17)
	var buf bytes.Buffer
	_, err := e.Action(action.Action{Kind: action.SetOutputRadix}, &buf)
	require.Error(t, err)
	assert.Equal(t, "output base must be a number between 2 and 16 (inclusive)", err.Error())
	require.Equal(t, 1, e.stack.Len())
}

// Stack-neutral errors: every operand-validating action leaves the
// stack exactly as it found it when it errors, not just binary ops.
func TestValidationErrorsLeaveOperandsOnStack(t *testing.T) {
	cases := []struct {
		name string
		a    action.Action
		want string
	}{
		{"sqrt non-numeric", action.Action{Kind: action.Sqrt}, "square root of nonnumeric attempted"},
		{"input radix invalid", action.Action{Kind: action.SetInputRadix}, "input base must be a number between 2 and 16 (inclusive)"},
		{"precision invalid", action.Action{Kind: action.SetPrecision}, "scale must be a nonnegative integer"},
		{"quit invalid", action.Action{Kind: action.QuitLevels}, "Q command requires a number >= 1"},
		{"array store invalid index", action.Action{Kind: action.Register, Byte: 'r', RegOp: action.StoreRegArray}, "array index must be a nonnegative integer"},
		{"array load invalid index", action.Action{Kind: action.Register, Byte: 'r', RegOp: action.LoadRegArray}, "array index must be a nonnegative integer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := New("dc4")
			e.PushString([]byte("oops"))
			depthBefore := e.stack.Len()

			var buf bytes.Buffer
			_, err := e.Action(tc.a, &buf)
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
			assert.Equal(t, depthBefore, e.stack.Len())
		})
	}
}

func TestQuitLevelsTooBigLeavesStack(t *testing.T) {
	e := New("dc4")
	require.NoError(t, e.PushNumber([]byte("99999999999")))
	var buf bytes.Buffer
	_, err := e.Action(action.Action{Kind: action.QuitLevels}, &buf)
	require.Error(t, err)
	assert.Equal(t, "quit levels out of range (must fit into 32 bits)", err.Error())
	require.Equal(t, 1, e.stack.Len())
}

func TestArrayStoreInvalidIndexLeavesBothOperands(t *testing.T) {
	e := New("dc4")
	pushNum(t, e, 42)
	e.PushString([]byte("x"))
	var buf bytes.Buffer
	_, err := e.Action(action.Action{Kind: action.Register, Byte: 'r', RegOp: action.StoreRegArray}, &buf)
	require.Error(t, err)
	require.Equal(t, 2, e.stack.Len())
}

func TestShellExecRefused(t *testing.T) {
	e := New("dc4")
	var buf bytes.Buffer
	_, err := e.Action(action.Action{Kind: action.ShellExec}, &buf)
	require.Error(t, err)
	assert.Equal(t, "running shell commands is not supported", err.Error())
}

func TestWarnUsesProgNamePrefix(t *testing.T) {
	e := New("mydc")
	var buf bytes.Buffer
	e.Warn(&buf, errKind(StackEmpty))
	assert.Equal(t, "mydc: stack empty\n", buf.String())
}

func TestInputReadsLineFromStdin(t *testing.T) {
	e := New("dc4")
	e.SetStdin(strings.NewReader("1 2 p\n"))
	var buf bytes.Buffer
	result, err := e.Action(action.Action{Kind: action.Input}, &buf)
	require.NoError(t, err)
	assert.Equal(t, Macro, result.Kind)
	assert.Equal(t, []byte("1 2 p\n"), result.Text)
}
