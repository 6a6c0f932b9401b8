// Package ir defines the packed instruction format the emitter produces and
// the machine and JIT backend both consume: addresses, the 64-bit
// instruction word, prototypes, constants and the top-level program.
//
// Grounded in original_source/dust-lang/src/vm/mod.rs's Pointer enum (which
// tags where a value lives: Stack/Constant/ParentStack/ParentConstant) and
// in spec.md §3's bit-packed instruction layout, reworked onto the teacher's
// compiler.Opcode style of one small file per concept
// (lang/compiler/opcode.go in the teacher repo).
package ir

import "fmt"

// AddressKind tags where an Address's index should be looked up.
type AddressKind uint8

const (
	// KindRegister indexes the current frame's register window.
	KindRegister AddressKind = iota
	// KindConstant indexes the owning prototype's constant pool.
	KindConstant
	// KindEncoded carries an immediate value packed directly into the
	// index (used for small integer/boolean literals that do not warrant
	// a constant-pool entry).
	KindEncoded
	// KindList indexes the owning prototype's drop-list table. The
	// compiler does not emit it: MAKE_LIST names its element span with
	// Encoded base and count operands instead.
	KindList
)

func (k AddressKind) String() string {
	switch k {
	case KindRegister:
		return "reg"
	case KindConstant:
		return "const"
	case KindEncoded:
		return "imm"
	case KindList:
		return "list"
	default:
		return "?"
	}
}

// Address is a 32-bit operand reference: a 2-bit kind and a 30-bit index.
// It is the machine-independent form; instructions pack it further down
// into 14 bits per slot (see Instruction).
type Address struct {
	Kind  AddressKind
	Index uint32
}

// Register builds a register address.
func Register(index uint32) Address { return Address{Kind: KindRegister, Index: index} }

// Constant builds a constant-pool address.
func Constant(index uint32) Address { return Address{Kind: KindConstant, Index: index} }

// Encoded builds an immediate address carrying value directly.
func Encoded(value uint32) Address { return Address{Kind: KindEncoded, Index: value} }

// List builds a drop-list address.
func List(index uint32) Address { return Address{Kind: KindList, Index: index} }

func (a Address) String() string {
	return fmt.Sprintf("%s(%d)", a.Kind, a.Index)
}
