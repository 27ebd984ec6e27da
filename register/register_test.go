package register

import (
	"testing"

	"github.com/skx/dc4/bigreal"
	"github.com/skx/dc4/value"
)

func TestSetAndValue(t *testing.T) {
	f := New()
	r := f.Get('a')
	if r.Value() != nil {
		t.Fatalf("expected empty register")
	}
	r.Set(value.Num(bigreal.New(42, 0)))
	got := r.Value()
	if got == nil || !got.Num.Equal(bigreal.New(42, 0)) {
		t.Fatalf("expected 42, got %v", got)
	}
}

func TestSetReplacesTopOnly(t *testing.T) {
	f := New()
	r := f.Get('a')
	r.Push(value.Num(bigreal.New(1, 0)))
	r.Push(value.Num(bigreal.New(2, 0)))
	r.Set(value.Num(bigreal.New(99, 0)))
	if r.Depth() != 2 {
		t.Fatalf("expected depth 2, got %d", r.Depth())
	}
	got := r.Value()
	if !got.Num.Equal(bigreal.New(99, 0)) {
		t.Fatalf("expected 99, got %v", got.Num)
	}
}

func TestPushPop(t *testing.T) {
	f := New()
	r := f.Get('b')
	r.Push(value.Num(bigreal.New(1, 0)))
	r.Push(value.Num(bigreal.New(2, 0)))
	v, ok := r.Pop()
	if !ok || !v.Num.Equal(bigreal.New(2, 0)) {
		t.Fatalf("expected 2, got %v ok=%v", v, ok)
	}
	v, ok = r.Pop()
	if !ok || !v.Num.Equal(bigreal.New(1, 0)) {
		t.Fatalf("expected 1, got %v ok=%v", v, ok)
	}
	_, ok = r.Pop()
	if ok {
		t.Fatalf("expected empty register pop to fail")
	}
}

func TestArrayDefaultsToZero(t *testing.T) {
	f := New()
	r := f.Get('c')
	v := r.ArrayLoad(bigreal.New(5, 0))
	if !v.IsNum() || !v.Num.IsZero() {
		t.Fatalf("expected zero, got %v", v)
	}
}

func TestArrayStoreLoad(t *testing.T) {
	f := New()
	r := f.Get('c')
	r.ArrayStore(bigreal.New(5, 0), value.Str([]byte("hi")))
	got := r.ArrayLoad(bigreal.New(5, 0))
	if !got.IsStr() || string(got.Str) != "hi" {
		t.Fatalf("unexpected array load: %v", got)
	}
	// A different key is still the zero default.
	other := r.ArrayLoad(bigreal.New(6, 0))
	if !other.Num.IsZero() {
		t.Fatalf("expected zero for unstored key")
	}
}

func TestArrayKeysNormalizeByValue(t *testing.T) {
	f := New()
	r := f.Get('c')
	r.ArrayStore(bigreal.New(50, 1), value.Num(bigreal.New(7, 0))) // 5.0
	got := r.ArrayLoad(bigreal.New(5, 0))
	if !got.Num.Equal(bigreal.New(7, 0)) {
		t.Fatalf("expected keys 5.0 and 5 to collide, got %v", got)
	}
}
