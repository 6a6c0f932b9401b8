package machine

import (
	"fmt"
	"math"
	"strings"

	"github.com/vellumlang/vellum/lang/ir"
	"github.com/vellumlang/vellum/lang/types"
)

// ExecArithmetic implements ADD/SUBTRACT/MULTIPLY/DIVIDE/MODULO/POWER.
// Integer and Byte saturate on overflow; Float never saturates and
// division by zero yields IEEE inf/NaN; Integer division/modulo by zero is
// a runtime error (spec.md §5). String ADD is concatenation, including the
// two mixed String+Character/Character+String tags so one rune can be
// appended without allocating a one-rune string first (SPEC_FULL.md §5).
func ExecArithmetic(op ir.Operation, ty types.OperandType, a, b types.Value) (types.Value, error) {
	switch ty {
	case types.OperandInteger:
		x, y := int64(a.(types.Integer)), int64(b.(types.Integer))
		switch op {
		case ir.Add:
			return types.Integer(saturatingAddInt(x, y)), nil
		case ir.Subtract:
			return types.Integer(saturatingSubInt(x, y)), nil
		case ir.Multiply:
			return types.Integer(saturatingMulInt(x, y)), nil
		case ir.Divide:
			if y == 0 {
				return nil, &RuntimeError{Status: StatusErrorDivisionByZero}
			}
			return types.Integer(x / y), nil
		case ir.Modulo:
			if y == 0 {
				return nil, &RuntimeError{Status: StatusErrorDivisionByZero}
			}
			return types.Integer(x % y), nil
		case ir.Power:
			return types.Integer(int64(math.Pow(float64(x), float64(y)))), nil
		}

	case types.OperandByte:
		x, y := byte(a.(types.Byte)), byte(b.(types.Byte))
		switch op {
		case ir.Add:
			return types.Byte(saturatingAddByte(x, y)), nil
		case ir.Subtract:
			return types.Byte(saturatingSubByte(x, y)), nil
		case ir.Multiply:
			return types.Byte(saturatingMulByte(x, y)), nil
		case ir.Divide:
			if y == 0 {
				return nil, &RuntimeError{Status: StatusErrorDivisionByZero}
			}
			return types.Byte(x / y), nil
		case ir.Modulo:
			if y == 0 {
				return nil, &RuntimeError{Status: StatusErrorDivisionByZero}
			}
			return types.Byte(x % y), nil
		case ir.Power:
			return types.Byte(byte(math.Pow(float64(x), float64(y)))), nil
		}

	case types.OperandFloat:
		x, y := float64(a.(types.Float)), float64(b.(types.Float))
		switch op {
		case ir.Add:
			return types.Float(x + y), nil
		case ir.Subtract:
			return types.Float(x - y), nil
		case ir.Multiply:
			return types.Float(x * y), nil
		case ir.Divide:
			return types.Float(x / y), nil // IEEE: y==0 yields +Inf/-Inf/NaN, no error
		case ir.Modulo:
			return types.Float(math.Mod(x, y)), nil
		case ir.Power:
			return types.Float(math.Pow(x, y)), nil
		}

	case types.OperandString, types.OperandStringCharacter, types.OperandCharacterString:
		if op != ir.Add {
			return nil, &RuntimeError{Status: StatusErrorTypeMismatch, Detail: "strings only support +"}
		}
		return types.String(stringOf(a) + stringOf(b)), nil
	}
	return nil, &RuntimeError{Status: StatusErrorTypeMismatch, Detail: fmt.Sprintf("operand type %s does not support %s", ty, op)}
}

func stringOf(v types.Value) string {
	switch x := v.(type) {
	case types.String:
		return string(x)
	case types.Character:
		return string(rune(x))
	default:
		return v.String()
	}
}

// ExecBitwise implements AND/OR/XOR/NOT/SHL/SHR over Integer and Byte.
func ExecBitwise(op ir.Operation, ty types.OperandType, a, b types.Value) (types.Value, error) {
	switch ty {
	case types.OperandInteger:
		x := int64(a.(types.Integer))
		if op == ir.BitNot {
			return types.Integer(^x), nil
		}
		y := int64(b.(types.Integer))
		switch op {
		case ir.BitAnd:
			return types.Integer(x & y), nil
		case ir.BitOr:
			return types.Integer(x | y), nil
		case ir.BitXor:
			return types.Integer(x ^ y), nil
		case ir.ShiftLeft:
			return types.Integer(x << uint(y)), nil
		case ir.ShiftRight:
			return types.Integer(x >> uint(y)), nil
		}
	case types.OperandByte:
		x := byte(a.(types.Byte))
		if op == ir.BitNot {
			return types.Byte(^x), nil
		}
		y := byte(b.(types.Byte))
		switch op {
		case ir.BitAnd:
			return types.Byte(x & y), nil
		case ir.BitOr:
			return types.Byte(x | y), nil
		case ir.BitXor:
			return types.Byte(x ^ y), nil
		case ir.ShiftLeft:
			return types.Byte(x << y), nil
		case ir.ShiftRight:
			return types.Byte(x >> y), nil
		}
	}
	return nil, &RuntimeError{Status: StatusErrorTypeMismatch, Detail: fmt.Sprintf("operand type %s does not support %s", ty, op)}
}

func ExecNegate(ty types.OperandType, v types.Value) (types.Value, error) {
	switch ty {
	case types.OperandInteger:
		return types.Integer(saturatingSubInt(0, int64(v.(types.Integer)))), nil
	case types.OperandFloat:
		return types.Float(-float64(v.(types.Float))), nil
	default:
		return nil, &RuntimeError{Status: StatusErrorTypeMismatch, Detail: "negate requires a numeric operand"}
	}
}

// ExecCompare implements EQUAL/LESS/LESS_EQUAL, each returning a Boolean
// directly (lang/compiler/operators.go derives NEQ/GT/GE from these three
// at compile time).
func ExecCompare(op ir.Operation, ty types.OperandType, a, b types.Value) (types.Value, error) {
	if op == ir.Equal {
		return types.Boolean(valuesEqual(a, b)), nil
	}
	cmp, err := compareOrdered(ty, a, b)
	if err != nil {
		return nil, err
	}
	if op == ir.Less {
		return types.Boolean(cmp < 0), nil
	}
	return types.Boolean(cmp <= 0), nil
}

func valuesEqual(a, b types.Value) bool {
	switch x := a.(type) {
	case types.Integer:
		y, ok := b.(types.Integer)
		return ok && x == y
	case types.Byte:
		y, ok := b.(types.Byte)
		return ok && x == y
	case types.Float:
		y, ok := b.(types.Float)
		return ok && x == y
	case types.Boolean:
		y, ok := b.(types.Boolean)
		return ok && x == y
	case types.Character:
		y, ok := b.(types.Character)
		return ok && x == y
	case types.String:
		y, ok := b.(types.String)
		return ok && x == y
	default:
		return a == b
	}
}

func compareOrdered(ty types.OperandType, a, b types.Value) (int, error) {
	switch ty {
	case types.OperandInteger:
		x, y := int64(a.(types.Integer)), int64(b.(types.Integer))
		return cmpInt(x, y), nil
	case types.OperandByte:
		x, y := byte(a.(types.Byte)), byte(b.(types.Byte))
		return cmpInt(int64(x), int64(y)), nil
	case types.OperandFloat:
		x, y := float64(a.(types.Float)), float64(b.(types.Float))
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		default:
			return 0, nil
		}
	case types.OperandString:
		return strings.Compare(string(a.(types.String)), string(b.(types.String))), nil
	case types.OperandCharacter:
		return cmpInt(int64(a.(types.Character)), int64(b.(types.Character))), nil
	default:
		return 0, &RuntimeError{Status: StatusErrorTypeMismatch, Detail: fmt.Sprintf("operand type %s is not ordered", ty)}
	}
}

func cmpInt(x, y int64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}
