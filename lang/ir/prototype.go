package ir

import (
	"github.com/vellumlang/vellum/lang/source"
	"github.com/vellumlang/vellum/lang/types"
)

// DropList names the registers of one block whose locals hold list values;
// the compiler records one per block that has any (string locals are not
// recorded). Neither lang/machine nor lang/jit reads drop lists: no
// register is released when control leaves the block, on fall-through,
// early return or cancellation.
type DropList struct {
	Registers []uint32
}

// Prototype is one compiled function: its code, its constant pool, its
// register-window size and the drop lists recorded for its blocks. Every Program has one or more prototypes; prototype 0 is
// always the module's top-level code (mirroring the teacher's
// makeToplevelFunction in lang/machine/thread.go).
type Prototype struct {
	Name         string
	NamePosition source.Position

	Type types.Type // Kind == KindFunction

	Instructions []Instruction
	Positions    []source.Position // parallel to Instructions

	RegisterCount int
	Constants     []Constant
	DropLists     []DropList

	// ParameterCount is the number of leading registers bound to the
	// prototype's formal parameters on entry.
	ParameterCount int
}

// Program is a fully emitted unit: the ordered list of prototypes plus
// which one is the entry point.
type Program struct {
	Prototypes []*Prototype
	Main       int // index into Prototypes
}

// MainPrototype returns the program's entry-point prototype.
func (p *Program) MainPrototype() *Prototype { return p.Prototypes[p.Main] }
