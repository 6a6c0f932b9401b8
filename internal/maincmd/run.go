package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/vellumlang/vellum/lang/ir"
	"github.com/vellumlang/vellum/lang/jit"
	"github.com/vellumlang/vellum/lang/machine"
	"github.com/vellumlang/vellum/lang/types"
)

// Run compiles a source file and executes it, via the register-stack
// interpreter by default or the closure-based JIT backend when --jit is
// set (SPEC_FULL.md §6.5).
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	prog, _, err := compileFile(stdio, args[0])
	if err != nil {
		return err
	}

	limits := machine.Limits{
		MaxSteps:          c.cfg.MaxSteps,
		MaxCallStackDepth: c.cfg.MaxCallStackDepth,
		MaxRegisters:      c.cfg.MaxRegisters(),
	}

	var result types.Value
	if c.cfg.EnableJIT {
		result, err = runJIT(ctx, prog, c.cfg.MaxSteps, stdio)
	} else {
		result, err = runInterpreted(ctx, prog, limits, stdio)
	}
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	if result != nil {
		fmt.Fprintln(stdio.Stdout, result.String())
	}
	return nil
}

func runInterpreted(ctx context.Context, prog *ir.Program, limits machine.Limits, stdio mainer.Stdio) (types.Value, error) {
	t := machine.NewThread(ctx, limits)
	t.SetStdio(machine.Stdio{Stdin: stdio.Stdin, Stdout: stdio.Stdout, Stderr: stdio.Stderr})
	return t.RunProgram(prog)
}

func runJIT(ctx context.Context, prog *ir.Program, maxSteps int64, stdio mainer.Stdio) (types.Value, error) {
	compiled, err := jit.Compile(prog, jit.NewBuilder())
	if err != nil {
		return nil, err
	}
	natives := jitNatives(stdio)
	tctx := &jit.ThreadContext{
		Ctx:      ctx,
		Program:  prog,
		Compiled: compiled,
		Natives:  natives,
		MaxSteps: maxSteps,
	}
	logic := compiled[prog.Main]
	return logic(tctx, 0)
}

// jitNatives adapts the interpreter's Thread-bound NativeFunc signature to
// the JIT's Thread-free one, running each native against a throwaway
// interpreter Thread so read_line/write_line share one Stdio
// implementation instead of duplicating it (SPEC_FULL.md §6.5's FFI-parity
// requirement between the two backends).
func jitNatives(stdio mainer.Stdio) map[string]func([]types.Value) (types.Value, error) {
	shim := machine.NewThread(context.Background(), machine.DefaultLimits())
	shim.SetStdio(machine.Stdio{Stdin: stdio.Stdin, Stdout: stdio.Stdout, Stderr: stdio.Stderr})

	names := []string{"read_line", "write_line", "list_length", "string_length"}
	out := make(map[string]func([]types.Value) (types.Value, error), len(names))
	for _, name := range names {
		name := name
		out[name] = func(args []types.Value) (types.Value, error) {
			return machine.CallNative(shim, name, args)
		}
	}
	return out
}
