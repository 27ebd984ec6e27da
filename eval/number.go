package eval

import (
	"math/big"

	"github.com/skx/dc4/bigreal"
)

// numberBuilder accumulates a number literal one character at a time,
// exactly as dc's grammar delivers them: '_' for a leading negative
// sign, hex digits '0'-'9'/'A'-'F' (interpreted according to the
// current input radix), and at most one '.'.
//
// hasShift distinguishes "no decimal point yet" from "decimal point
// seen, zero fractional digits so far" - both start with shift==0, but
// only the latter should force the finished value's shift to 0 rather
// than leaving it unset.
type numberBuilder struct {
	value    *big.Int
	hasShift bool
	shift    uint32
	neg      bool
}

func newNumberBuilder() numberBuilder {
	return numberBuilder{value: new(big.Int)}
}

// push folds one more character into the number being built. iradix
// governs how digit characters are weighted.
func (n *numberBuilder) push(c byte, iradix uint32) error {
	switch {
	case c == '_':
		n.neg = true
	case c >= '0' && c <= '9' || c >= 'A' && c <= 'F':
		n.value.Mul(n.value, big.NewInt(int64(iradix)))
		n.value.Add(n.value, big.NewInt(int64(hexDigit(c))))
		if n.hasShift {
			n.shift++
		}
	case c == '.':
		n.hasShift = true
		n.shift = 0
	default:
		return &Error{Kind: UnexpectedNumberChar, Byte: c}
	}
	return nil
}

// finish converts the accumulated digits into a BigReal, per the exact
// "goofy" non-decimal-fraction rule dc itself implements: for
// iradix==10, shift is already a count of decimal digits, so it's used
// directly; for any other iradix, the accumulated integer actually
// represents the value in that radix with `shift` digits after the
// point *in that radix*, which is recovered only approximately by
// repeatedly dividing by iradix, `shift` times, each time truncating to
// `shift` decimal places. This can lose precision versus the
// mathematically exact conversion - that loss is original dc behavior,
// not a bug introduced here.
func (n numberBuilder) finish(iradix uint32) *bigreal.BigReal {
	if n.neg {
		n.value = new(big.Int).Neg(n.value)
	}
	real := bigreal.NewFromBigInt(n.value, 0)
	if n.hasShift {
		if iradix == 10 {
			real.SetShift(n.shift)
		} else {
			divisor := bigreal.New(int64(iradix), 0)
			for i := uint32(0); i < n.shift; i++ {
				real = real.Div(divisor, n.shift)
			}
		}
	}
	return real
}

func hexDigit(c byte) uint32 {
	if c >= '0' && c <= '9' {
		return uint32(c - '0')
	}
	return uint32(c-'A') + 10
}
