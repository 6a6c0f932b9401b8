package jit

import (
	"fmt"

	"github.com/vellumlang/vellum/lang/ir"
	"github.com/vellumlang/vellum/lang/machine"
	"github.com/vellumlang/vellum/lang/types"
)

// step is one compiled instruction: given the register window base and the
// thread context, it executes the instruction's effect and reports where
// control goes next. jump is the absolute instruction index to resume at;
// returned reports a RETURN was hit, in which case ret holds the value.
type step func(ctx *ThreadContext, base int) (jump int, ret types.Value, returned bool, err error)

// closureBuilder implements Builder by lowering each instruction to a Go
// closure ahead of time and chaining them into a loop, rather than
// emitting native code the way original_source's Cranelift-backed
// jit_compiler does. Every instruction is compiled exactly once per
// prototype; JitLogic re-enters the precompiled step table on every call.
type closureBuilder struct{}

// NewBuilder returns the only Builder this package ships.
func NewBuilder() Builder { return closureBuilder{} }

func (closureBuilder) Build(proto *ir.Prototype, protoIndex int) (JitLogic, error) {
	steps := make([]step, len(proto.Instructions))
	for ip, in := range proto.Instructions {
		s, err := compileInstruction(proto, in, ip)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", ip, err)
		}
		steps[ip] = s
	}
	registerCount := proto.RegisterCount
	paramCount := proto.ParameterCount

	return func(ctx *ThreadContext, argBase int) (types.Value, error) {
		base := len(ctx.Registers)
		ctx.Registers = append(ctx.Registers, make([]types.Value, registerCount)...)
		defer func() { ctx.Registers = ctx.Registers[:base] }()

		for i := 0; i < paramCount; i++ {
			ctx.Registers[base+i] = ctx.Registers[argBase+i]
		}

		ip := 0
		for {
			if ip >= len(steps) {
				return types.None{}, nil
			}
			if ctx.MaxSteps > 0 {
				ctx.Steps++
				if ctx.Steps > ctx.MaxSteps {
					return nil, &machine.RuntimeError{Status: machine.StatusErrorStackOverflow, Detail: "step limit exceeded"}
				}
			}
			select {
			case <-ctx.Ctx.Done():
				return nil, &machine.RuntimeError{Status: machine.StatusCancelled}
			default:
			}

			next, ret, returned, err := steps[ip](ctx, base)
			if err != nil {
				return nil, err
			}
			if returned {
				return ret, nil
			}
			ip = next
		}
	}, nil
}

// compileInstruction lowers one instruction into a step closure. next is
// the instruction's own fall-through target (ip+1), computed once here at
// build time rather than carried on ThreadContext, since the bytecode
// never changes underneath a compiled prototype.
func compileInstruction(proto *ir.Prototype, in ir.Instruction, ip int) (step, error) {
	op := in.Operation()
	ty := in.OperandType()
	a, b, c := in.A(), in.B(), in.C()
	constants := proto.Constants
	next := ip + 1

	switch op {
	case ir.Move, ir.Load:
		return func(ctx *ThreadContext, base int) (int, types.Value, bool, error) {
			v := get(ctx, base, b, ty, constants)
			ctx.Registers[base+int(a.Index)] = v
			return next, nil, false, nil
		}, nil

	case ir.GetLocal:
		return func(ctx *ThreadContext, base int) (int, types.Value, bool, error) {
			recv := get(ctx, base, b, ty, constants)
			idx := get(ctx, base, c, types.OperandInteger, constants)
			v, err := indexValue(recv, idx)
			if err != nil {
				return 0, nil, false, err
			}
			ctx.Registers[base+int(a.Index)] = v
			return next, nil, false, nil
		}, nil

	case ir.SetLocal:
		return func(ctx *ThreadContext, base int) (int, types.Value, bool, error) {
			return next, nil, false, nil
		}, nil

	case ir.MakeList:
		elemKind := listElemKind(ty)
		return func(ctx *ThreadContext, base int) (int, types.Value, bool, error) {
			start := base + int(b.Index)
			count := int(c.Index)
			values := make([]types.Value, count)
			copy(values, ctx.Registers[start:start+count])
			ctx.Registers[base+int(a.Index)] = types.NewList(elemKind, values)
			return next, nil, false, nil
		}, nil

	case ir.Add, ir.Subtract, ir.Multiply, ir.Divide, ir.Modulo, ir.Power:
		return func(ctx *ThreadContext, base int) (int, types.Value, bool, error) {
			left := get(ctx, base, b, ty, constants)
			right := get(ctx, base, c, ty, constants)
			v, err := machine.ExecArithmetic(op, ty, left, right)
			if err != nil {
				return 0, nil, false, err
			}
			ctx.Registers[base+int(a.Index)] = v
			return next, nil, false, nil
		}, nil

	case ir.BitAnd, ir.BitOr, ir.BitXor, ir.ShiftLeft, ir.ShiftRight:
		return func(ctx *ThreadContext, base int) (int, types.Value, bool, error) {
			left := get(ctx, base, b, ty, constants)
			right := get(ctx, base, c, ty, constants)
			v, err := machine.ExecBitwise(op, ty, left, right)
			if err != nil {
				return 0, nil, false, err
			}
			ctx.Registers[base+int(a.Index)] = v
			return next, nil, false, nil
		}, nil

	case ir.BitNot:
		return func(ctx *ThreadContext, base int) (int, types.Value, bool, error) {
			v, err := machine.ExecBitwise(ir.BitNot, ty, get(ctx, base, b, ty, constants), nil)
			if err != nil {
				return 0, nil, false, err
			}
			ctx.Registers[base+int(a.Index)] = v
			return next, nil, false, nil
		}, nil

	case ir.Negate:
		return func(ctx *ThreadContext, base int) (int, types.Value, bool, error) {
			v, err := machine.ExecNegate(ty, get(ctx, base, b, ty, constants))
			if err != nil {
				return 0, nil, false, err
			}
			ctx.Registers[base+int(a.Index)] = v
			return next, nil, false, nil
		}, nil

	case ir.Not:
		return func(ctx *ThreadContext, base int) (int, types.Value, bool, error) {
			v := boolValue(get(ctx, base, b, ty, constants))
			ctx.Registers[base+int(a.Index)] = !v
			return next, nil, false, nil
		}, nil

	case ir.Equal, ir.Less, ir.LessEqual:
		return func(ctx *ThreadContext, base int) (int, types.Value, bool, error) {
			left := get(ctx, base, b, ty, constants)
			right := get(ctx, base, c, ty, constants)
			v, err := machine.ExecCompare(op, ty, left, right)
			if err != nil {
				return 0, nil, false, err
			}
			ctx.Registers[base+int(a.Index)] = v
			return next, nil, false, nil
		}, nil

	case ir.Test:
		expected := a.Index != 0
		target := next + int(ir.DecodeJumpOffset(c.Index))
		return func(ctx *ThreadContext, base int) (int, types.Value, bool, error) {
			v := boolValue(get(ctx, base, b, ty, constants))
			if bool(v) == expected {
				return target, nil, false, nil
			}
			return next, nil, false, nil
		}, nil

	case ir.TestSet:
		expected := a.Index != 0
		target := next + int(ir.DecodeJumpOffset(c.Index))
		return func(ctx *ThreadContext, base int) (int, types.Value, bool, error) {
			v := boolValue(get(ctx, base, b, ty, constants))
			if bool(v) == expected {
				return target, nil, false, nil
			}
			ctx.Registers[base+int(a.Index)] = v
			return next, nil, false, nil
		}, nil

	case ir.Jump:
		target := next + int(ir.DecodeJumpOffset(c.Index))
		return func(ctx *ThreadContext, base int) (int, types.Value, bool, error) {
			return target, nil, false, nil
		}, nil

	case ir.Call:
		return func(ctx *ThreadContext, base int) (int, types.Value, bool, error) {
			fnVal := get(ctx, base, b, types.OperandFunction, constants)
			fn, ok := fnVal.(*types.Function)
			if !ok {
				return 0, nil, false, &machine.RuntimeError{Status: machine.StatusErrorTypeMismatch, Detail: "call target is not a function"}
			}
			if fn.PrototypeIndex < 0 || fn.PrototypeIndex >= len(ctx.Program.Prototypes) {
				return 0, nil, false, &machine.RuntimeError{Status: machine.StatusErrorTypeMismatch, Detail: fmt.Sprintf("unresolved function reference %d", fn.PrototypeIndex)}
			}
			logic, ok := ctx.Compiled[fn.PrototypeIndex]
			if !ok {
				return 0, nil, false, &machine.RuntimeError{Status: machine.StatusErrorTypeMismatch, Detail: fmt.Sprintf("prototype %d was not compiled", fn.PrototypeIndex)}
			}
			result, err := logic(ctx, base+int(c.Index))
			if err != nil {
				return 0, nil, false, err
			}
			ctx.Registers[base+int(a.Index)] = result
			return next, nil, false, nil
		}, nil

	case ir.CallNative:
		return func(ctx *ThreadContext, base int) (int, types.Value, bool, error) {
			name := get(ctx, base, b, types.OperandString, constants)
			s, ok := name.(types.String)
			if !ok {
				return 0, nil, false, &machine.RuntimeError{Status: machine.StatusErrorTypeMismatch, Detail: "native call target is not a name"}
			}
			fn, ok := ctx.Natives[string(s)]
			if !ok {
				return 0, nil, false, &machine.RuntimeError{Status: machine.StatusErrorTypeMismatch, Detail: fmt.Sprintf("unknown native function %q", s)}
			}
			start := base + int(c.Index)
			end := base + int(a.Index)
			args := make([]types.Value, 0, end-start)
			for i := start; i < end; i++ {
				args = append(args, ctx.Registers[i])
			}
			result, err := fn(args)
			if err != nil {
				return 0, nil, false, err
			}
			ctx.Registers[base+int(a.Index)] = result
			return next, nil, false, nil
		}, nil

	case ir.Return:
		hasValue := ty != types.OperandNone
		return func(ctx *ThreadContext, base int) (int, types.Value, bool, error) {
			if !hasValue {
				return 0, types.None{}, true, nil
			}
			return 0, get(ctx, base, a, ty, constants), true, nil
		}, nil

	default:
		return nil, fmt.Errorf("jit: unsupported operation %s", op)
	}
}

func get(ctx *ThreadContext, base int, addr ir.Address, ty types.OperandType, constants []ir.Constant) types.Value {
	switch addr.Kind {
	case ir.KindRegister:
		return ctx.Registers[base+int(addr.Index)]
	case ir.KindConstant:
		return decodeConstant(constants[addr.Index], ty)
	case ir.KindEncoded:
		return decodeEncoded(addr.Index, ty)
	default:
		return nil
	}
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
	if ty == types.OperandBoolean {
		return types.Boolean(index != 0)
	}
	return types.Integer(int64(index))
}

func boolValue(v types.Value) types.Boolean {
	if b, ok := v.(types.Boolean); ok {
		return b
	}
	if v == nil {
		return false
	}
	return types.Boolean(v.Truth())
}

func indexValue(recv, idx types.Value) (types.Value, error) {
	l, ok := recv.(*types.List)
	if !ok {
		return nil, &machine.RuntimeError{Status: machine.StatusErrorTypeMismatch, Detail: "indexing a non-list value"}
	}
	i, ok := idx.(types.Integer)
	if !ok {
		return nil, &machine.RuntimeError{Status: machine.StatusErrorTypeMismatch, Detail: "list index must be an integer"}
	}
	if i < 0 || int(i) >= len(l.Values) {
		return nil, &machine.RuntimeError{Status: machine.StatusErrorIndexOutOfBounds, Detail: fmt.Sprintf("index %d out of bounds for list of length %d", i, len(l.Values))}
	}
	return l.Values[i], nil
}

func listElemKind(ty types.OperandType) types.Kind {
	switch ty {
	case types.OperandListBoolean:
		return types.KindBoolean
	case types.OperandListByte:
		return types.KindByte
	case types.OperandListCharacter:
		return types.KindCharacter
	case types.OperandListFloat:
		return types.KindFloat
	case types.OperandListInteger:
		return types.KindInteger
	case types.OperandListString:
		return types.KindString
	default:
		return types.KindNone
	}
}
