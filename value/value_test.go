package value

import (
	"testing"

	"github.com/skx/dc4/bigreal"
	"github.com/stretchr/testify/assert"
)

func TestNumAndStrKind(t *testing.T) {
	n := Num(bigreal.New(42, 0))
	assert.True(t, n.IsNum())
	assert.False(t, n.IsStr())

	s := Str([]byte("hello"))
	assert.True(t, s.IsStr())
	assert.False(t, s.IsNum())
}

func TestCloneIndependence(t *testing.T) {
	orig := Str([]byte("hello"))
	dup := orig.Clone()
	dup.Str[0] = 'H'
	assert.Equal(t, byte('h'), orig.Str[0])

	n := Num(bigreal.New(5, 0))
	nDup := n.Clone()
	assert.True(t, n.Num.Equal(nDup.Num))
	assert.NotSame(t, n.Num, nDup.Num)
}

func TestStrPermitsInvalidUTF8(t *testing.T) {
	raw := []byte{0xff, 0xfe, 0x00, 0x80}
	v := Str(raw)
	assert.Equal(t, raw, v.Str)
}
