package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumlang/vellum/lang/ast"
	"github.com/vellumlang/vellum/lang/diagnostic"
	"github.com/vellumlang/vellum/lang/scanner"
)

func parseSource(t *testing.T, src string) *ast.Module {
	t.Helper()
	diags := diagnostic.NewList(nil)
	sc := scanner.New(1, []byte(src), diags)
	p := New(sc, diags)
	mod := p.ParseModule()
	require.Equal(t, 0, diags.Len(), "unexpected diagnostics: %v", diags.Items())
	return mod
}

func TestParseLet(t *testing.T) {
	mod := parseSource(t, "let x = 1;")
	require.Len(t, mod.Statements, 1)
	n := mod.Statements[0]
	require.Equal(t, ast.KindLet, n.Kind)
	assert.Equal(t, "x", n.Name)
	assert.False(t, n.Mutable)
	require.Len(t, n.Children, 1)
	assert.Equal(t, ast.KindIntegerLiteral, n.Children[0].Kind)
	assert.Equal(t, int64(1), n.Children[0].IntValue)
}

func TestParseLetMutWithType(t *testing.T) {
	mod := parseSource(t, "let mut x: int = 1;")
	n := mod.Statements[0]
	assert.True(t, n.Mutable)
	require.NotNil(t, n.ReturnType)
	assert.Equal(t, "int", n.ReturnType.Name)
}

func TestParseBinaryPrecedence(t *testing.T) {
	mod := parseSource(t, "1 + 2 * 3;")
	require.Len(t, mod.Statements, 1)
	stmt := mod.Statements[0]
	require.Equal(t, ast.KindExprStmt, stmt.Kind)

	top := stmt.Children[0]
	require.Equal(t, ast.KindBinary, top.Kind)
	assert.Equal(t, int8(scanner.PLUS), top.Operator)
	assert.Equal(t, int64(1), top.Children[0].IntValue)

	right := top.Children[1]
	require.Equal(t, ast.KindBinary, right.Kind)
	assert.Equal(t, int8(scanner.STAR), right.Operator)
	assert.Equal(t, int64(2), right.Children[0].IntValue)
	assert.Equal(t, int64(3), right.Children[1].IntValue)
}

func TestParseIfElse(t *testing.T) {
	mod := parseSource(t, "if x { 1; } else { 2; }")
	n := mod.Statements[0]
	require.Equal(t, ast.KindIf, n.Kind)
	require.Len(t, n.Children, 3)
	assert.Equal(t, ast.KindIdentifier, n.Children[0].Kind)
	assert.Equal(t, ast.KindBlock, n.Children[1].Kind)
	assert.Equal(t, ast.KindBlock, n.Children[2].Kind)
}

func TestParseIfElseIfChain(t *testing.T) {
	mod := parseSource(t, "if x { 1; } else if y { 2; }")
	n := mod.Statements[0]
	require.Len(t, n.Children, 3)
	assert.Equal(t, ast.KindIf, n.Children[2].Kind)
}

func TestParseFunction(t *testing.T) {
	mod := parseSource(t, "fn add(a: int, b: int) -> int { return a + b; }")
	n := mod.Statements[0]
	require.Equal(t, ast.KindFunction, n.Kind)
	assert.Equal(t, "add", n.Name)
	require.Len(t, n.Params, 2)
	assert.Equal(t, "a", n.Params[0].Name)
	assert.Equal(t, "int", n.Params[0].Type.Name)
	require.NotNil(t, n.ReturnType)
	assert.Equal(t, "int", n.ReturnType.Name)

	body := n.Children[0]
	require.Equal(t, ast.KindBlock, body.Kind)
	require.Len(t, body.Children, 1)
	assert.Equal(t, ast.KindReturn, body.Children[0].Kind)
}

func TestParseCall(t *testing.T) {
	mod := parseSource(t, "add(1, 2);")
	stmt := mod.Statements[0]
	call := stmt.Children[0]
	require.Equal(t, ast.KindCall, call.Kind)
	require.Len(t, call.Children, 3)
	assert.Equal(t, ast.KindIdentifier, call.Children[0].Kind)
	assert.Equal(t, "add", call.Children[0].Name)
	assert.Equal(t, int64(1), call.Children[1].IntValue)
	assert.Equal(t, int64(2), call.Children[2].IntValue)
}

func TestParseListLiteralAndIndex(t *testing.T) {
	mod := parseSource(t, "let xs = [1, 2, 3]; xs[0];")
	require.Len(t, mod.Statements, 2)

	list := mod.Statements[0].Children[0]
	require.Equal(t, ast.KindListLiteral, list.Kind)
	require.Len(t, list.Children, 3)

	idx := mod.Statements[1].Children[0]
	require.Equal(t, ast.KindIndex, idx.Kind)
	assert.Equal(t, "xs", idx.Children[0].Name)
	assert.Equal(t, int64(0), idx.Children[1].IntValue)
}

func TestParseWhileLoopBreakContinue(t *testing.T) {
	mod := parseSource(t, "while x { break; } loop { continue; }")
	require.Len(t, mod.Statements, 2)

	w := mod.Statements[0]
	require.Equal(t, ast.KindWhile, w.Kind)
	body := w.Children[1]
	assert.Equal(t, ast.KindBreak, body.Children[0].Kind)

	l := mod.Statements[1]
	require.Equal(t, ast.KindLoop, l.Kind)
	assert.Equal(t, ast.KindContinue, l.Children[0].Children[0].Kind)
}

func TestParseAssign(t *testing.T) {
	mod := parseSource(t, "x = 1; y += 2;")
	require.Len(t, mod.Statements, 2)

	plain := mod.Statements[0].Children[0]
	require.Equal(t, ast.KindAssign, plain.Kind)
	assert.Equal(t, int8(scanner.EQ), plain.Operator)

	compound := mod.Statements[1].Children[0]
	require.Equal(t, ast.KindAssign, compound.Kind)
	assert.Equal(t, int8(scanner.PLUS_EQ), compound.Operator)
}

func TestParseLogicalOperators(t *testing.T) {
	mod := parseSource(t, "a && b || c;")
	top := mod.Statements[0].Children[0]
	require.Equal(t, ast.KindLogical, top.Kind)
	assert.Equal(t, int8(scanner.AMP_AMP), top.Children[0].Operator)
}

func TestParseUnexpectedTokenReportsDiagnostic(t *testing.T) {
	diags := diagnostic.NewList(nil)
	sc := scanner.New(1, []byte(");"), diags)
	p := New(sc, diags)
	p.ParseModule()
	assert.Greater(t, diags.Len(), 0)
}
