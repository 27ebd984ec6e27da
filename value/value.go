// The value-package holds the tagged union dc4's stack and registers
// actually store: either a number or a raw string of bytes.
package value

import "github.com/skx/dc4/bigreal"

// Kind identifies which variant a Value holds.
type Kind int

// The two variants a Value can hold.
const (
	KindNum Kind = iota
	KindStr
)

// Value is either a BigReal number or a raw byte string. dc strings are
// not required to be valid UTF-8 (a macro body is just bytes), so Str
// is a []byte rather than a Go string.
type Value struct {
	Kind Kind
	Num  *bigreal.BigReal
	Str  []byte
}

// Num wraps n as a numeric Value.
func Num(n *bigreal.BigReal) Value {
	return Value{Kind: KindNum, Num: n}
}

// Str wraps s as a string Value.
func Str(s []byte) Value {
	return Value{Kind: KindStr, Str: s}
}

// IsNum reports whether v holds a number.
func (v Value) IsNum() bool {
	return v.Kind == KindNum
}

// IsStr reports whether v holds a string.
func (v Value) IsStr() bool {
	return v.Kind == KindStr
}

// Clone returns an independent copy of v.
func (v Value) Clone() Value {
	if v.Kind == KindNum {
		return Num(v.Num.Clone())
	}
	dup := make([]byte, len(v.Str))
	copy(dup, v.Str)
	return Str(dup)
}
