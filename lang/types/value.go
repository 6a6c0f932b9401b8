package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is anything the machine can hold in a register. It follows the
// teacher's newer lang/types/value.go Value interface rather than the
// older, superseded lang/machine/value.go shape, but carries only
// String/Type/Truth: Freeze is a method of *List alone. Truth is kept
// uniform across all value kinds (spec.md has no boolean-coercing surface
// form today); zero numbers and empty strings, lists and maps are false.
type Value interface {
	String() string
	Type() string
	Truth() bool
}

// Boolean is the Value wrapping a bool.
type Boolean bool

func (b Boolean) String() string { return strconv.FormatBool(bool(b)) }
func (Boolean) Type() string     { return "bool" }
func (b Boolean) Truth() bool    { return bool(b) }

// Byte is the Value wrapping an 8-bit unsigned integer.
type Byte uint8

func (b Byte) String() string { return strconv.FormatUint(uint64(b), 10) }
func (Byte) Type() string     { return "byte" }
func (b Byte) Truth() bool    { return b != 0 }

// Character is the Value wrapping a single Unicode scalar.
type Character rune

func (c Character) String() string { return string(rune(c)) }
func (Character) Type() string     { return "char" }
func (c Character) Truth() bool    { return c != 0 }

// Float is the Value wrapping a 64-bit float.
type Float float64

func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (Float) Type() string     { return "float" }
func (f Float) Truth() bool    { return f != 0 }

// Integer is the Value wrapping a 64-bit signed integer.
type Integer int64

func (i Integer) String() string { return strconv.FormatInt(int64(i), 10) }
func (Integer) Type() string     { return "int" }
func (i Integer) Truth() bool    { return i != 0 }

// String is the Value wrapping a UTF-8 string.
type String string

func (s String) String() string { return string(s) }
func (String) Type() string     { return "string" }
func (s String) Truth() bool    { return len(s) != 0 }

// List is the Value wrapping a homogeneous sequence, grounded in
// original_source's tools/collections.rs list helpers. Lists are ordinary
// Go heap values: neither the machine nor the JIT releases them through
// drop lists, and the JIT has no list-specific FFI hooks.
type List struct {
	Elem   Kind
	Values []Value
	frozen bool
}

// NewList returns a list of the given element kind with the given initial
// contents.
func NewList(elem Kind, values []Value) *List {
	return &List{Elem: elem, Values: values}
}

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range l.Values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
	b.WriteByte(']')
	return b.String()
}

func (*List) Type() string  { return "list" }
func (l *List) Truth() bool { return len(l.Values) != 0 }

// Freeze marks the list immutable, after original_source's Vm::Register
// distinction between a plain Value and a captured Pointer. Nothing in the
// compiler, machine or JIT calls it, and SET_LOCAL does not check it.
func (l *List) Freeze() { l.frozen = true }

// Frozen reports whether Freeze has been called.
func (l *List) Frozen() bool { return l.frozen }

// Function is the Value wrapping a compiled function: a prototype index
// and a name, with no captured registers. The machine
// package defines the concrete call mechanics; this type only needs to
// satisfy Value so functions can flow through registers and lists.
type Function struct {
	PrototypeIndex int
	Name           string
}

func (f *Function) String() string { return fmt.Sprintf("<function %s>", f.Name) }
func (*Function) Type() string     { return "function" }
func (*Function) Truth() bool      { return true }

// None is the unit Value, used as a function's return value when it has no
// declared return type.
type None struct{}

func (None) String() string { return "none" }
func (None) Type() string   { return "none" }
func (None) Truth() bool    { return false }
