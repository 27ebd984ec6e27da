// The register-package implements dc4's 256-slot register file: one
// slot per possible register-name byte, each slot itself a stack of
// (main value, associative array) pairs, per the 'S'/'L' push/pop
// register-stack commands.
//
// Ported from dcregisters.rs's DCRegisters/DCRegisterStack/DCRegister.
package register

import (
	"github.com/skx/dc4/bigreal"
	"github.com/skx/dc4/value"
)

// numRegisters is the number of addressable registers: one per byte
// value, 0 through 255.
const numRegisters = 256

// File is the full set of 256 registers.
type File struct {
	registers [numRegisters]Stack
}

// New returns an empty register file.
func New() *File {
	return &File{}
}

// Get returns the register stack named by the byte c.
func (f *File) Get(c byte) *Stack {
	return &f.registers[c]
}

// Stack is a single register's stack of slots. Most programs only ever
// push once (via 's'/'l'), but 'S'/'L' let a register act as its own
// private stack.
type Stack struct {
	slots []slot
}

// slot is one entry in a register's stack: a main value (possibly
// absent, if only the array has ever been touched) plus an associative
// array keyed by a numeric index.
type slot struct {
	main  *value.Value
	array map[string]*value.Value
}

// Value returns the top slot's main value, or nil if the register is
// empty or its top slot has none.
func (s *Stack) Value() *value.Value {
	if len(s.slots) == 0 {
		return nil
	}
	return s.slots[len(s.slots)-1].main
}

// Set replaces the top slot's main value (or creates one if the
// register was empty), matching the 's' command's "store, don't
// stack" semantics.
func (s *Stack) Set(v value.Value) {
	if len(s.slots) == 0 {
		s.slots = append(s.slots, slot{main: &v})
		return
	}
	s.slots[len(s.slots)-1].main = &v
}

// Push pushes a new slot holding v onto the register's stack ('S').
func (s *Stack) Push(v value.Value) {
	s.slots = append(s.slots, slot{main: &v})
}

// Pop pops the top slot and returns its main value, with ok=false if
// the register was empty or the top slot had no main value.
func (s *Stack) Pop() (v value.Value, ok bool) {
	if len(s.slots) == 0 {
		return value.Value{}, false
	}
	top := s.slots[len(s.slots)-1]
	s.slots = s.slots[:len(s.slots)-1]
	if top.main == nil {
		return value.Value{}, false
	}
	return *top.main, true
}

// ArrayStore stores v at index key in the top slot's array, creating
// an (empty-main) slot first if the register stack is empty.
func (s *Stack) ArrayStore(key *bigreal.BigReal, v value.Value) {
	if len(s.slots) == 0 {
		s.slots = append(s.slots, slot{})
	}
	top := &s.slots[len(s.slots)-1]
	if top.array == nil {
		top.array = make(map[string]*value.Value)
	}
	top.array[key.Key()] = &v
}

// ArrayLoad returns the value stored at index key in the top slot's
// array, or the number 0 if nothing has ever been stored there (array
// elements default to zero, they are never "empty" the way a bare
// register is).
func (s *Stack) ArrayLoad(key *bigreal.BigReal) value.Value {
	if len(s.slots) == 0 {
		return value.Num(bigreal.Zero())
	}
	top := s.slots[len(s.slots)-1]
	if top.array == nil {
		return value.Num(bigreal.Zero())
	}
	if v, ok := top.array[key.Key()]; ok {
		return *v
	}
	return value.Num(bigreal.Zero())
}

// Depth returns the number of slots currently pushed onto this
// register's stack.
func (s *Stack) Depth() int {
	return len(s.slots)
}
