package ir

// Constant is a single entry in a prototype's constant pool. Only one field
// is meaningful per entry; which one is determined by the OperandType tag
// on the instruction that references it, the same way the teacher's
// compiler encodes CONSTANT operands untyped and lets the consuming
// instruction disambiguate (lang/compiler/opcode.go CONSTANT).
type Constant struct {
	Boolean   bool
	Byte      byte
	Character rune
	Float     float64
	Integer   int64
	String    string

	// Function holds the prototype index for a constant that names a
	// nested function (used by MAKE_FUNCTION-equivalent loads), grounded
	// in original_source's Vm.chunk.constants[i] which can itself be a
	// Value::Function wrapping a Chunk.
	Function int
}
