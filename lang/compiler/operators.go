package compiler

import (
	"github.com/vellumlang/vellum/lang/ir"
	"github.com/vellumlang/vellum/lang/scanner"
)

// arithmeticOp maps a binary operator token to its Operation, for the
// tokens that always lower to a register-register arithmetic instruction.
// Comparison tokens are handled separately (compareOp) since EQUAL/LESS/
// LESS_EQUAL write their boolean result directly into a register rather
// than going through this table (SPEC_FULL.md §6.2).
func arithmeticOp(t scanner.Token) (ir.Operation, bool) {
	switch t {
	case scanner.PLUS:
		return ir.Add, true
	case scanner.MINUS:
		return ir.Subtract, true
	case scanner.STAR:
		return ir.Multiply, true
	case scanner.SLASH:
		return ir.Divide, true
	case scanner.PERCENT:
		return ir.Modulo, true
	case scanner.CARET:
		return ir.Power, true
	case scanner.AMP:
		return ir.BitAnd, true
	case scanner.PIPE:
		return ir.BitOr, true
	case scanner.XOR:
		return ir.BitXor, true
	case scanner.SHL:
		return ir.ShiftLeft, true
	case scanner.SHR:
		return ir.ShiftRight, true
	default:
		return 0, false
	}
}

// compareOp maps a comparison token to the Operation the machine expects,
// plus whether the caller should negate the written boolean with a
// trailing NOT (so NEQ reuses EQUAL and negates it) and whether the two
// operands should be swapped (so GT/GE reuse LESS/LESS_EQUAL with operands
// in the other order), matching original_source's RunnerLogic table which
// defines only EQUAL/LESS/LESS_EQUAL and derives the rest.
func compareOp(t scanner.Token) (op ir.Operation, invert bool, swap bool, ok bool) {
	switch t {
	case scanner.EQ_EQ:
		return ir.Equal, false, false, true
	case scanner.BANG_EQ:
		return ir.Equal, true, false, true
	case scanner.LT:
		return ir.Less, false, false, true
	case scanner.LT_EQ:
		return ir.LessEqual, false, false, true
	case scanner.GT:
		return ir.Less, false, true, true
	case scanner.GT_EQ:
		return ir.LessEqual, false, true, true
	default:
		return 0, false, false, false
	}
}

func assignOpToArith(t scanner.Token) (ir.Operation, bool) {
	switch t {
	case scanner.PLUS_EQ:
		return ir.Add, true
	case scanner.MINUS_EQ:
		return ir.Subtract, true
	case scanner.STAR_EQ:
		return ir.Multiply, true
	case scanner.SLASH_EQ:
		return ir.Divide, true
	default:
		return 0, false
	}
}
