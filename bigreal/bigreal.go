// The bigreal-package implements dc4's arbitrary-precision scaled-decimal
// number type.
//
// A BigReal is a signed arbitrary-precision integer (backed by the
// standard library's math/big.Int) paired with a non-negative decimal
// "shift": the number represented is value * 10^-shift. So a BigReal
// with value=1234 and shift=3 is 1.234.
//
// Keeping the integer and the shift separate, rather than normalising
// to a floating binary mantissa, is what lets dc4 do exact decimal
// arithmetic and truncating (never rounding) division - the behaviour
// historical dc is built around.
package bigreal

import (
	"math/big"
)

// BigReal is a signed, arbitrary-precision, scaled-decimal number.
type BigReal struct {
	shift uint32
	value *big.Int
}

var (
	bigTen = big.NewInt(10)
	bigTwo = big.NewInt(2)
	bigOne = big.NewInt(1)
)

// New builds a BigReal from a native int64 value and a shift.
func New(value int64, shift uint32) *BigReal {
	return &BigReal{value: big.NewInt(value), shift: shift}
}

// NewFromBigInt builds a BigReal from a *big.Int and a shift. The BigInt
// is not retained; callers may mutate it after this call.
func NewFromBigInt(value *big.Int, shift uint32) *BigReal {
	return &BigReal{value: new(big.Int).Set(value), shift: shift}
}

// Zero returns the BigReal 0.
func Zero() *BigReal {
	return New(0, 0)
}

// One returns the BigReal 1.
func One() *BigReal {
	return New(1, 0)
}

// Clone returns an independent copy of b.
func (b *BigReal) Clone() *BigReal {
	return &BigReal{value: new(big.Int).Set(b.value), shift: b.shift}
}

// changeShift returns a copy of b re-scaled to the given shift, multiplying
// or dividing (truncating) the underlying integer by powers of ten as
// needed. Dividing to a smaller shift is lossy.
func (b *BigReal) changeShift(desired uint32) *BigReal {
	result := b.Clone()
	if desired > result.shift {
		for i := uint32(0); i < desired-b.shift; i++ {
			result.value.Mul(result.value, bigTen)
		}
	} else {
		for i := uint32(0); i < result.shift-desired; i++ {
			result.value.Quo(result.value, bigTen)
		}
	}
	result.shift = desired
	return result
}

// Simplify reduces b's shift as far as possible without losing precision,
// i.e. while the value is evenly divisible by ten.
func (b *BigReal) Simplify() {
	for b.shift != 0 {
		quotient, remainder := new(big.Int), new(big.Int)
		quotient.QuoRem(b.value, bigTen, remainder)
		if remainder.Sign() != 0 {
			break
		}
		b.shift--
		b.value = quotient
	}
}

// SetShift forcibly overrides b's shift without rescaling the value. Used
// by the number-literal builder, which accumulates value and shift
// independently as it reads digits.
func (b *BigReal) SetShift(shift uint32) {
	b.shift = shift
}

// NumFrxDigits returns the number of digits after the decimal point.
func (b *BigReal) NumFrxDigits() uint32 {
	return b.shift
}

// NumDigits returns the length, in characters, of the base-10
// representation of the underlying integer (sign included, if negative).
func (b *BigReal) NumDigits() uint32 {
	return uint32(len(b.value.Text(10)))
}

// IsInteger reports whether b has no fractional part.
func (b *BigReal) IsInteger() bool {
	return b.shift == 0
}

// IsZero reports whether b is exactly zero.
func (b *BigReal) IsZero() bool {
	return b.value.Sign() == 0
}

// IsPositive reports whether b is strictly greater than zero.
func (b *BigReal) IsPositive() bool {
	return b.value.Sign() > 0
}

// IsNegative reports whether b is strictly less than zero.
func (b *BigReal) IsNegative() bool {
	return b.value.Sign() < 0
}

// Abs returns the absolute value of b.
func (b *BigReal) Abs() *BigReal {
	return NewFromBigInt(new(big.Int).Abs(b.value), b.shift)
}

// Neg returns -b.
func (b *BigReal) Neg() *BigReal {
	return NewFromBigInt(new(big.Int).Neg(b.value), b.shift)
}

// ToInt truncates b's fractional part and returns the remaining integer.
func (b *BigReal) ToInt() *big.Int {
	shifted := b.changeShift(0)
	shifted.Simplify()
	return shifted.value
}

// Int64 truncates b's fractional part and returns it as an int64, with
// ok false if the value does not fit.
func (b *BigReal) Int64() (n int64, ok bool) {
	i := b.ToInt()
	if !i.IsInt64() {
		return 0, false
	}
	return i.Int64(), true
}

// Uint64 truncates b's fractional part and returns it as a uint64, with
// ok false if the value does not fit (including if it is negative).
func (b *BigReal) Uint64() (n uint64, ok bool) {
	i := b.ToInt()
	if !i.IsUint64() {
		return 0, false
	}
	return i.Uint64(), true
}

// Cmp compares b and rhs, returning -1, 0 or +1 as b is less than, equal
// to, or greater than rhs, aligning shifts first.
func (b *BigReal) Cmp(rhs *BigReal) int {
	if b.shift == rhs.shift {
		return b.value.Cmp(rhs.value)
	}
	maxShift := b.shift
	if rhs.shift > maxShift {
		maxShift = rhs.shift
	}
	a := b.changeShift(maxShift)
	y := rhs.changeShift(maxShift)
	return a.value.Cmp(y.value)
}

// Equal reports whether b and rhs represent the same number.
func (b *BigReal) Equal(rhs *BigReal) bool {
	return b.Cmp(rhs) == 0
}

// Key returns a string that canonically identifies b's value, suitable
// for use as a Go map key (register arrays key on this rather than on
// BigReal itself, since a struct wrapping *big.Int is not independently
// comparable the way Go needs for a map key).
func (b *BigReal) Key() string {
	simp := b.Clone()
	simp.Simplify()
	return simp.value.Text(10) + "s" + new(big.Int).SetUint64(uint64(simp.shift)).Text(10)
}

// Add returns b + rhs.
func (b *BigReal) Add(rhs *BigReal) *BigReal {
	if b.shift == rhs.shift {
		return NewFromBigInt(new(big.Int).Add(b.value, rhs.value), b.shift)
	}
	x, y := b, rhs
	if rhs.shift > b.shift {
		x, y = rhs, b
	}
	yAdj := y.changeShift(x.shift)
	return NewFromBigInt(new(big.Int).Add(x.value, yAdj.value), x.shift)
}

// Sub returns b - rhs.
func (b *BigReal) Sub(rhs *BigReal) *BigReal {
	return b.Add(NewFromBigInt(new(big.Int).Neg(rhs.value), rhs.shift))
}

// Mul returns b * rhs.
func (b *BigReal) Mul(rhs *BigReal) *BigReal {
	value := new(big.Int).Mul(b.value, rhs.value)
	return NewFromBigInt(value, b.shift+rhs.shift)
}

// adjustForDiv scales b and rhs to a common shift, with b carrying an
// extra `scale` digits of precision, so that truncating integer division
// below yields `scale` digits after the decimal point.
func (b *BigReal) adjustForDiv(rhs *BigReal, scale uint32) (*big.Int, *big.Int) {
	maxShift := b.shift
	if rhs.shift > maxShift {
		maxShift = rhs.shift
	}
	selfAdj := b.changeShift(maxShift + scale).value
	rhsAdj := rhs.changeShift(maxShift).value
	return selfAdj, rhsAdj
}

// Div returns b / rhs truncated to `scale` digits after the decimal
// point. Panics if rhs is zero, matching math/big's own division
// contract; callers (eval) must check for a zero divisor first and
// report DivideByZero themselves.
func (b *BigReal) Div(rhs *BigReal, scale uint32) *BigReal {
	selfAdj, rhsAdj := b.adjustForDiv(rhs, scale)
	return NewFromBigInt(new(big.Int).Quo(selfAdj, rhsAdj), scale)
}

// Rem returns the remainder of b / rhs at the given scale, i.e.
// b - rhs*(b.Div(rhs, scale)).
func (b *BigReal) Rem(rhs *BigReal, scale uint32) *BigReal {
	div := b.Div(rhs, scale)
	mul := rhs.Mul(div)
	return b.Sub(mul)
}

// DivRem returns both the quotient and remainder of b / rhs at once.
func (b *BigReal) DivRem(rhs *BigReal, scale uint32) (*BigReal, *BigReal) {
	div := b.Div(rhs, scale)
	mul := rhs.Mul(div)
	rem := b.Sub(mul)
	return div, rem
}

// Pow raises b to exponent, truncating any fractional part of the
// exponent, computing by repeated squaring. A negative exponent computes
// 1/b^|exponent| at the given scale.
func (b *BigReal) Pow(exponent *BigReal, scale uint32) *BigReal {
	negative := exponent.IsNegative()

	exp := exponent.changeShift(0).value
	exp = new(big.Int).Abs(exp)

	if exp.Sign() == 0 {
		return One()
	}

	base := b.Clone()
	for exp.Bit(0) == 0 {
		base = base.Mul(base)
		exp = new(big.Int).Rsh(exp, 1)
	}

	result := base.Clone()
	for new(big.Int).Sub(exp, bigOne).Sign() > 0 {
		exp = new(big.Int).Rsh(exp, 1)
		base = base.Mul(base)
		if exp.Bit(0) == 1 {
			result = result.Mul(base)
		}
	}

	if negative {
		return One().Div(result, scale)
	}
	return result
}

// Sqrt computes the square root of b to at least `scale` digits of
// precision using Newton's method, returning ok=false for a negative b.
func (b *BigReal) Sqrt(scale uint32) (result *BigReal, ok bool) {
	if b.IsNegative() {
		return nil, false
	}

	effScale := b.shift
	if scale > effScale {
		effScale = scale
	}

	x := b.Clone()
	two := New(2, 0)

	for {
		next := x.Add(b.Div(x, effScale)).Div(two, effScale)
		delta := x.Sub(next).Abs()
		x = next

		if new(big.Int).Sub(delta.value, bigOne).Sign() <= 0 {
			break
		}
	}

	return x, true
}

// ModExp computes base^exponent mod modulus, returning ok=false if the
// exponent is negative or the modulus is zero.
func ModExp(base, exponent, modulus *BigReal, scale uint32) (result *BigReal, ok bool) {
	if exponent.IsNegative() || modulus.IsZero() {
		return nil, false
	}

	one := One()
	two := New(2, 0)

	if modulus.Sub(one).IsZero() {
		return Zero(), true
	}

	b := base.Rem(modulus, 0)
	exp := exponent.changeShift(0)
	res := one.Clone()

	for !exp.IsZero() {
		if exp.Rem(two, 0).Sub(one).IsZero() {
			res = res.Mul(b).Rem(modulus, 0)
		}
		exp = exp.Div(two, 0)
		b = b.Mul(b).Rem(modulus, 0)
	}

	return res, true
}

// ToStrRadix renders b in the given radix (2..36). For radix 10 the
// decimal point is placed directly; for other radixes the fractional
// digits are produced by long division, since the fractional part was
// only ever exact in base 10.
func (b *BigReal) ToStrRadix(radix uint32) string {
	if b.shift == 0 {
		return b.value.Text(int(radix))
	}

	if radix == 10 {
		output := ""
		if b.IsNegative() {
			output = "-"
		}

		digits := new(big.Int).Abs(b.value).Text(10)
		if uint32(len(digits)) < b.shift {
			output += "."
			for i := uint32(0); i < b.shift-uint32(len(digits)); i++ {
				output += "0"
			}
			output += digits
		} else {
			decimalPos := uint32(len(digits)) - b.shift
			output += digits[:decimalPos] + "." + digits[decimalPos:]
		}
		return output
	}

	result := ""
	if b.value.Sign() < 0 {
		result = "-"
	}

	whole := b.changeShift(0).Abs()
	if !whole.IsZero() {
		result += whole.value.Text(int(radix))
	}
	result += "."

	wholeAtShift := whole.changeShift(b.shift)
	part := new(big.Int).Sub(b.value, wholeAtShift.value)
	part.Abs(part)
	bigRadix := big.NewInt(int64(radix))
	part.Mul(part, bigRadix)

	maxPlace := One().changeShift(b.shift).value
	place := big.NewInt(int64(radix))

	for {
		div, rem := new(big.Int), new(big.Int)
		div.QuoRem(part, maxPlace, rem)

		result += div.Text(int(radix))
		part = new(big.Int).Mul(rem, bigRadix)

		if place.Cmp(maxPlace) >= 0 {
			break
		}
		place.Mul(place, bigRadix)
	}

	return result
}
