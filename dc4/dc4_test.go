package dc4

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func run(program string) string {
	rt := New("dc4")
	var buf bytes.Buffer
	rt.Text([]byte(program), &buf)
	return buf.String()
}

func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name    string
		program string
		want    string
	}{
		{"hex input round trip", "16i FFFF f", "65535\n"},
		{"stack arithmetic", "1 2 3 ++f", "6\n"},
		{"macro via register and conditional execute", "[[hello]n]sx 1 1 =x", "hello"},
		{"scale discipline on division", "2k 50 3 /f", "16.66\n"},
		{"modular exponentiation", "4 13 497 |f", "445\n"},
		{"tail-call quit saturation", "5[2Q]sq[d3=q1-ddn0<x]dsxx[done]p", "43done\n"},
		{"square root of negative leaves stack", "_25 vf", "dc4: square root of negative number\n-25\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, run(tc.program))
		})
	}
}

// Radix round-trip: for every radix 2..16, printing n in that radix and
// re-parsing the printed digits with iradix set to match recovers n.
func TestRadixRoundTrip(t *testing.T) {
	const n = 12345

	for radix := 2; radix <= 16; radix++ {
		printed := strings.TrimSuffix(run(fmt.Sprintf("%do %d p", radix, n)), "\n")

		// "10o" here runs before iradix changes, so its digits are
		// still read in the default base 10.
		back := run(fmt.Sprintf("10o %di %s f", radix, printed))
		assert.Equal(t, fmt.Sprintf("%d\n", n), back, "radix %d", radix)
	}
}

// Stack-neutral errors: an operation that fails to complete leaves
// whatever was on the stack before it untouched, so later commands still
// see the original operands.
func TestErrorLeavesStackForFollowingOps(t *testing.T) {
	got := run("_25 v 10 f")
	assert.Equal(t, "dc4: square root of negative number\n10\n-25\n", got)
}

func TestQuitTerminatesProgram(t *testing.T) {
	got := run("1 2 p q 3 4 p")
	assert.Equal(t, "2\n", got)
}

// Quit saturation at the true top level (Stream, not a nested macro
// frame): 'Q' can never unwind past the outermost input source, so the
// commands after it still run.
func TestTopLevelQuitLevelsIsNoOp(t *testing.T) {
	rt := New("dc4")
	var buf bytes.Buffer
	rt.Stream(strings.NewReader("1 Q 2 p"), &buf)
	assert.Equal(t, "2\n", buf.String())
}
