package machine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumlang/vellum/lang/compiler"
	"github.com/vellumlang/vellum/lang/diagnostic"
	"github.com/vellumlang/vellum/lang/ir"
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

	prog, err := compiler.Compile(mod, diags)
	require.NoError(t, err, "compile diagnostics: %v", diags.Items())
	return prog
}

func TestRunDivisionByZero(t *testing.T) {
	prog := compileSource(t, "return 1 / 0;")
	_, err := Run(context.Background(), DefaultLimits(), prog)
	require.Error(t, err)
	rerr, ok := err.(*RuntimeError)
	require.True(t, ok)
	assert.Equal(t, StatusErrorDivisionByZero, rerr.Status)
}

func TestRunIndexOutOfBounds(t *testing.T) {
	prog := compileSource(t, `
		let xs = [1, 2, 3];
		return xs[10];
	`)
	_, err := Run(context.Background(), DefaultLimits(), prog)
	require.Error(t, err)
	rerr, ok := err.(*RuntimeError)
	require.True(t, ok)
	assert.Equal(t, StatusErrorIndexOutOfBounds, rerr.Status)
}

func TestRunStepLimitExceeded(t *testing.T) {
	prog := compileSource(t, `
		let mut i = 0;
		while i < 1000000 {
			i = i + 1;
		}
		return i;
	`)
	limits := Limits{MaxSteps: 10, MaxCallStackDepth: 256, MaxRegisters: 1 << 14}
	_, err := Run(context.Background(), limits, prog)
	require.Error(t, err)
	rerr, ok := err.(*RuntimeError)
	require.True(t, ok)
	assert.Equal(t, StatusErrorStackOverflow, rerr.Status)
}

func TestRunCallStackOverflow(t *testing.T) {
	prog := compileSource(t, `
		fn recurse(n: int) -> int {
			return recurse(n + 1);
		}
		return recurse(0);
	`)
	limits := Limits{MaxSteps: 10_000_000, MaxCallStackDepth: 8, MaxRegisters: 1 << 14}
	_, err := Run(context.Background(), limits, prog)
	require.Error(t, err)
	rerr, ok := err.(*RuntimeError)
	require.True(t, ok)
	assert.Equal(t, StatusErrorStackOverflow, rerr.Status)
}

func TestRunCancellation(t *testing.T) {
	prog := compileSource(t, "return 1;")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, DefaultLimits(), prog)
	require.Error(t, err)
	rerr, ok := err.(*RuntimeError)
	require.True(t, ok)
	assert.Equal(t, StatusCancelled, rerr.Status)
}

func TestRunWriteLineUsesRedirectedStdout(t *testing.T) {
	prog := compileSource(t, `write_line("hello"); return 0;`)
	var buf stringWriter
	th := NewThread(context.Background(), DefaultLimits())
	th.SetStdio(Stdio{Stdout: &buf})
	v, err := th.RunProgram(prog)
	require.NoError(t, err)
	assert.Equal(t, types.Integer(0), v)
	assert.Equal(t, "hello\n", buf.String())
}

type stringWriter struct {
	data []byte
}

func (w *stringWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *stringWriter) String() string { return string(w.data) }

func TestCallNativeUnknownName(t *testing.T) {
	th := NewThread(context.Background(), DefaultLimits())
	_, err := CallNative(th, "not_a_native", nil)
	require.Error(t, err)
	rerr, ok := err.(*RuntimeError)
	require.True(t, ok)
	assert.Equal(t, StatusErrorTypeMismatch, rerr.Status)
}
