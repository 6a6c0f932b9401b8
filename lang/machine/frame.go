package machine

import (
	"github.com/vellumlang/vellum/lang/ir"
	"github.com/vellumlang/vellum/lang/types"
)

// Frame is one call's register window plus its program counter. Grounded
// in original_source/dust-lang/src/vm/mod.rs's Vm struct (stack of
// registers, ip, parent), reworked onto a Go slice-of-Value rather than a
// Rust Register enum distinguishing Empty/Value/Pointer: Vellum represents
// an empty register as a nil types.Value instead, since Go interfaces are
// already a tagged union with a natural nil case.
type Frame struct {
	proto     *ir.Prototype
	ip        int
	regs      []types.Value
	parent    *Frame // calling frame; recorded but not read by any instruction
	resultReg uint32 // caller's register to receive this frame's return value
}

func newFrame(proto *ir.Prototype, argBase int, parent *Frame) *Frame {
	return &Frame{proto: proto, regs: make([]types.Value, proto.RegisterCount), parent: parent}
}

// get reads the value an address names. ty disambiguates KindConstant and
// KindEncoded operands, which carry no type tag of their own (the
// instruction's single OperandType field covers all of its operands, the
// same packing tradeoff spec.md §3 documents).
func (f *Frame) get(a ir.Address, ty types.OperandType, constants []ir.Constant) types.Value {
	switch a.Kind {
	case ir.KindRegister:
		if int(a.Index) < len(f.regs) {
			return f.regs[a.Index]
		}
		return nil
	case ir.KindConstant:
		return decodeConstant(constants[a.Index], ty)
	case ir.KindEncoded:
		return decodeEncoded(a.Index, ty)
	default:
		return nil
	}
}

func (f *Frame) set(reg uint32, v types.Value) {
	f.regs[reg] = v
}

func decodeConstant(c ir.Constant, ty types.OperandType) types.Value {
	switch ty {
	case types.OperandBoolean:
		return types.Boolean(c.Boolean)
	case types.OperandByte:
		return types.Byte(c.Byte)
	case types.OperandCharacter:
		return types.Character(c.Character)
	case types.OperandFloat:
		return types.Float(c.Float)
	case types.OperandInteger:
		return types.Integer(c.Integer)
	case types.OperandString:
		return types.String(c.String)
	case types.OperandFunction:
		return &types.Function{PrototypeIndex: c.Function}
	default:
		return types.None{}
	}
}

func decodeEncoded(index uint32, ty types.OperandType) types.Value {
	switch ty {
	case types.OperandBoolean:
		return types.Boolean(index != 0)
	default:
		return types.Integer(int64(index))
	}
}
