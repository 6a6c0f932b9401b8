package machine

import (
	"fmt"

	"github.com/vellumlang/vellum/lang/ir"
	"github.com/vellumlang/vellum/lang/types"
)

// run is the instruction dispatch loop: a big switch over Operation, the
// same shape as the teacher's lang/machine/machine.go run(), adapted from a
// stack machine (locals/stack slices carved from one space) to a register
// machine (one fixed-size register window per frame, carved by Frame).
//
// Comparisons (Equal/Less/LessEqual) write their boolean result directly
// into the A register rather than the classic compare-and-skip trick: NEQ
// lowers to Equal+Not and GT/GE lower to Less/LessEqual with swapped
// operands (lang/compiler/operators.go), so the machine only needs three
// comparison cases instead of six.
func (t *Thread) run(prog *ir.Program) (types.Value, error) {
	for {
		if len(t.callStack) == 0 {
			return types.None{}, nil
		}
		f := t.callStack[len(t.callStack)-1]

		if t.steps++; t.limits.MaxSteps > 0 && t.steps > t.limits.MaxSteps {
			return nil, &RuntimeError{Status: StatusErrorStackOverflow, Detail: "step limit exceeded"}
		}
		if t.checkCancelled() {
			t.unwindAll()
			return nil, &RuntimeError{Status: StatusCancelled}
		}

		if f.ip >= len(f.proto.Instructions) {
			ret := t.returnFromFrame(types.None{})
			if len(t.callStack) == 0 {
				return ret, nil
			}
			continue
		}

		in := f.proto.Instructions[f.ip]
		op := in.Operation()
		ty := in.OperandType()

		switch op {
		case ir.Move, ir.Load:
			v := f.get(in.B(), ty, f.proto.Constants)
			f.set(in.A().Index, v)
			f.ip++

		case ir.GetLocal:
			v := f.get(in.B(), ty, f.proto.Constants)
			idx := f.get(in.C(), types.OperandInteger, f.proto.Constants)
			lv, err := indexValue(v, idx)
			if err != nil {
				return nil, err
			}
			f.set(in.A().Index, lv)
			f.ip++

		case ir.SetLocal:
			f.ip++ // locals are addressed directly by register in this encoding; SET_LOCAL is reserved for captured-frame writes, not yet surfaced by the compiler.

		case ir.MakeList:
			base := in.B().Index
			count := in.C().Index
			values := make([]types.Value, count)
			for i := uint32(0); i < count; i++ {
				values[i] = f.regs[base+i]
			}
			f.set(in.A().Index, types.NewList(elemKindFor(ty), values))
			f.ip++

		case ir.Add, ir.Subtract, ir.Multiply, ir.Divide, ir.Modulo, ir.Power:
			v, err := ExecArithmetic(op, ty, f.get(in.B(), ty, f.proto.Constants), f.get(in.C(), ty, f.proto.Constants))
			if err != nil {
				return nil, err
			}
			f.set(in.A().Index, v)
			f.ip++

		case ir.BitAnd, ir.BitOr, ir.BitXor, ir.ShiftLeft, ir.ShiftRight:
			v, err := ExecBitwise(op, ty, f.get(in.B(), ty, f.proto.Constants), f.get(in.C(), ty, f.proto.Constants))
			if err != nil {
				return nil, err
			}
			f.set(in.A().Index, v)
			f.ip++

		case ir.BitNot:
			v, err := ExecBitwise(ir.BitNot, ty, f.get(in.B(), ty, f.proto.Constants), nil)
			if err != nil {
				return nil, err
			}
			f.set(in.A().Index, v)
			f.ip++

		case ir.Negate:
			v, err := ExecNegate(ty, f.get(in.B(), ty, f.proto.Constants))
			if err != nil {
				return nil, err
			}
			f.set(in.A().Index, v)
			f.ip++

		case ir.Not:
			v := f.get(in.B(), ty, f.proto.Constants)
			f.set(in.A().Index, !boolValue(v))
			f.ip++

		case ir.Equal, ir.Less, ir.LessEqual:
			result, err := ExecCompare(op, ty, f.get(in.B(), ty, f.proto.Constants), f.get(in.C(), ty, f.proto.Constants))
			if err != nil {
				return nil, err
			}
			f.set(in.A().Index, result)
			f.ip++

		case ir.Test:
			expected := in.A().Index != 0
			v := boolValue(f.get(in.B(), ty, f.proto.Constants))
			if bool(v) == expected {
				f.ip += 1 + int(ir.DecodeJumpOffset(in.C().Index))
			} else {
				f.ip++
			}

		case ir.TestSet:
			expected := in.A().Index != 0
			v := boolValue(f.get(in.B(), ty, f.proto.Constants))
			if bool(v) == expected {
				f.ip += 1 + int(ir.DecodeJumpOffset(in.C().Index))
			} else {
				f.set(in.A().Index, v)
				f.ip++
			}

		case ir.Jump:
			offset := ir.DecodeJumpOffset(in.C().Index)
			f.ip += 1 + int(offset)

		case ir.Call:
			if err := t.execCall(f, in); err != nil {
				return nil, err
			}

		case ir.CallNative:
			v, err := t.execCallNative(f, in)
			if err != nil {
				return nil, err
			}
			f.set(in.A().Index, v)
			f.ip++

		case ir.Return:
			var result types.Value = types.None{}
			if ty != types.OperandNone {
				result = f.get(in.A(), ty, f.proto.Constants)
			}
			ret := t.returnFromFrame(result)
			if len(t.callStack) == 0 {
				return ret, nil
			}

		default:
			return nil, &RuntimeError{Status: StatusErrorTypeMismatch, Detail: fmt.Sprintf("unimplemented operation %s", op)}
		}
	}
}

// returnFromFrame pops the current frame and, if a caller remains, delivers
// result into the register CALL reserved for it.
func (t *Thread) returnFromFrame(result types.Value) types.Value {
	callee := t.popFrame()
	if len(t.callStack) == 0 {
		return result
	}
	caller := t.callStack[len(t.callStack)-1]
	caller.set(callee.resultReg, result)
	return result
}

func (t *Thread) unwindAll() {
	t.callStack = nil
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
		return nil, &RuntimeError{Status: StatusErrorTypeMismatch, Detail: "indexing a non-list value"}
	}
	i, ok := idx.(types.Integer)
	if !ok {
		return nil, &RuntimeError{Status: StatusErrorTypeMismatch, Detail: "list index must be an integer"}
	}
	if i < 0 || int(i) >= len(l.Values) {
		return nil, &RuntimeError{Status: StatusErrorIndexOutOfBounds, Detail: fmt.Sprintf("index %d out of bounds for list of length %d", i, len(l.Values))}
	}
	return l.Values[i], nil
}

func elemKindFor(ty types.OperandType) types.Kind {
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
