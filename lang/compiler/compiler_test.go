package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumlang/vellum/lang/diagnostic"
	"github.com/vellumlang/vellum/lang/ir"
	"github.com/vellumlang/vellum/lang/machine"
	"github.com/vellumlang/vellum/lang/parser"
	"github.com/vellumlang/vellum/lang/scanner"
	"github.com/vellumlang/vellum/lang/types"
)

func compileSource(t *testing.T, src string) *ir.Program {
	t.Helper()
	diags := diagnostic.NewList(nil)
	sc := scanner.New(1, []byte(src), diags)
	p := parser.New(sc, diags)
	mod := p.ParseModule()
	require.Equal(t, 0, diags.Len(), "parse diagnostics: %v", diags.Items())

	prog, err := Compile(mod, diags)
	require.NoError(t, err, "compile diagnostics: %v", diags.Items())
	return prog
}

func runSource(t *testing.T, src string) types.Value {
	t.Helper()
	prog := compileSource(t, src)
	v, err := machine.Run(context.Background(), machine.DefaultLimits(), prog)
	require.NoError(t, err)
	return v
}

func TestCompileArithmetic(t *testing.T) {
	v := runSource(t, "return 1 + 2 * 3;")
	assert.Equal(t, types.Integer(7), v)
}

func TestCompileIntegerSaturatesOnOverflow(t *testing.T) {
	v := runSource(t, "return 9223372036854775807 + 1;")
	assert.Equal(t, types.Integer(9223372036854775807), v)
}

func TestCompileComparisonEqual(t *testing.T) {
	assert.Equal(t, types.Boolean(true), runSource(t, "return 1 == 1;"))
	assert.Equal(t, types.Boolean(false), runSource(t, "return 1 == 2;"))
}

func TestCompileComparisonNotEqualLowersToEqualPlusNot(t *testing.T) {
	assert.Equal(t, types.Boolean(true), runSource(t, "return 1 != 2;"))
	assert.Equal(t, types.Boolean(false), runSource(t, "return 1 != 1;"))
}

func TestCompileComparisonGreaterLowersToLessSwapped(t *testing.T) {
	assert.Equal(t, types.Boolean(true), runSource(t, "return 2 > 1;"))
	assert.Equal(t, types.Boolean(false), runSource(t, "return 1 > 2;"))
	assert.Equal(t, types.Boolean(true), runSource(t, "return 2 >= 2;"))
}

func TestCompileLetAndMutation(t *testing.T) {
	v := runSource(t, `
		let mut x = 1;
		x = x + 41;
		return x;
	`)
	assert.Equal(t, types.Integer(42), v)
}

func TestCompileIfElse(t *testing.T) {
	v := runSource(t, `
		let x = 5;
		if x > 3 {
			return 1;
		} else {
			return 0;
		}
	`)
	assert.Equal(t, types.Integer(1), v)
}

// TestCompileIfTrueBranchFallsThroughAndSkipsElse exercises both halves of
// the TEST/JUMP pair an if/else lowers to: the then-branch must actually
// execute (not be skipped), and control must not also fall into the
// else-branch afterward.
func TestCompileIfTrueBranchFallsThroughAndSkipsElse(t *testing.T) {
	v := runSource(t, `
		let mut r = 0;
		if true {
			r = 1;
		} else {
			r = 2;
		}
		return r;
	`)
	assert.Equal(t, types.Integer(1), v)
}

func TestCompileIfFalseBranchTakesElse(t *testing.T) {
	v := runSource(t, `
		let mut r = 0;
		if false {
			r = 1;
		} else {
			r = 2;
		}
		return r;
	`)
	assert.Equal(t, types.Integer(2), v)
}

func TestCompileLogicalAndShortCircuits(t *testing.T) {
	v := runSource(t, "return false && (1 / 0 == 0);")
	assert.Equal(t, types.Boolean(false), v)
}

func TestCompileLogicalOrShortCircuits(t *testing.T) {
	v := runSource(t, "return true || (1 / 0 == 0);")
	assert.Equal(t, types.Boolean(true), v)
}

func TestCompileLogicalAndEvaluatesBothWhenLeftTrue(t *testing.T) {
	assert.Equal(t, types.Boolean(true), runSource(t, "return true && true;"))
	assert.Equal(t, types.Boolean(false), runSource(t, "return true && false;"))
}

func TestCompileLogicalOrEvaluatesBothWhenLeftFalse(t *testing.T) {
	assert.Equal(t, types.Boolean(true), runSource(t, "return false || true;"))
	assert.Equal(t, types.Boolean(false), runSource(t, "return false || false;"))
}

func TestCompileWhileLoop(t *testing.T) {
	v := runSource(t, `
		let mut i = 0;
		let mut sum = 0;
		while i < 5 {
			sum = sum + i;
			i = i + 1;
		}
		return sum;
	`)
	assert.Equal(t, types.Integer(10), v)
}

func TestCompileLoopWithBreakAndContinue(t *testing.T) {
	v := runSource(t, `
		let mut i = 0;
		let mut sum = 0;
		loop {
			i = i + 1;
			if i > 10 {
				break;
			}
			if i == 5 {
				continue;
			}
			sum = sum + i;
		}
		return sum;
	`)
	// 1+2+3+4+6+7+8+9+10, skipping 5
	assert.Equal(t, types.Integer(55-5), v)
}

func TestCompileFunctionCall(t *testing.T) {
	v := runSource(t, `
		fn add(a: int, b: int) -> int {
			return a + b;
		}
		return add(20, 22);
	`)
	assert.Equal(t, types.Integer(42), v)
}

func TestCompileListLiteralAndIndex(t *testing.T) {
	v := runSource(t, `
		let xs = [10, 20, 30];
		return xs[1];
	`)
	assert.Equal(t, types.Integer(20), v)
}

func TestCompileClosureCaptureReportsDiagnostic(t *testing.T) {
	diags := diagnostic.NewList(nil)
	sc := scanner.New(1, []byte(`
		fn outer() -> int {
			let x = 1;
			fn inner() -> int {
				return x;
			}
			return inner();
		}
		return outer();
	`), diags)
	p := parser.New(sc, diags)
	mod := p.ParseModule()
	require.Equal(t, 0, diags.Len())

	_, err := Compile(mod, diags)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "captured from an enclosing function")
}
