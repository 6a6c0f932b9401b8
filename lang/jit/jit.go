// Package jit is Vellum's JIT backend. No Go-ecosystem equivalent of
// Cranelift (the native code generator original_source's jit_vm wraps) was
// found anywhere in the retrieved pack, so rather than fabricate a
// dependency the pack never carries, this package keeps the documented
// *contract* of a JIT — ahead-of-time, dependency-ordered lowering of every
// reachable prototype into a directly callable entry point, with the same
// runtime FFI-style helper functions a native backend would need — and
// implements the lowering step as compiled Go closures instead of machine
// code. A Builder is the seam a real native backend would plug into later
// without changing the call-order or FFI surface (SPEC_FULL.md §6.5).
package jit

import (
	"context"
	"fmt"

	"github.com/vellumlang/vellum/lang/ir"
	"github.com/vellumlang/vellum/lang/types"
)

// JitLogic is one compiled prototype's entry point: given the running
// thread context and the base register index of its argument window, it
// executes the prototype and returns its result. Mirrors
// original_source's `type JitLogic = extern "C" fn(&mut ThreadContext,
// usize) -> i64` signature, generalized from a raw i64 to types.Value since
// Go has no untyped-register convention to exploit the way the native ABI
// does.
type JitLogic func(ctx *ThreadContext, baseRegister int) (types.Value, error)

// ThreadContext is the JIT-compiled code's view of the running thread: the
// register file for the currently executing call, plus a handle back to
// the whole program so CALL can dispatch to another compiled prototype.
// Grounded in original_source's ThreadContext, which every FFI function and
// every compiled prototype receives as its first argument.
type ThreadContext struct {
	Ctx     context.Context
	Program *ir.Program
	Compiled map[int]JitLogic
	Registers []types.Value
	Natives  map[string]func(args []types.Value) (types.Value, error)
	Steps    int64
	MaxSteps int64
}

// Builder lowers one prototype's instructions into a JitLogic. A real
// native backend would implement Builder by emitting machine code per
// instruction instead of a Go closure; closureBuilder is the only
// implementation shipped here.
type Builder interface {
	Build(proto *ir.Prototype, protoIndex int) (JitLogic, error)
}

// Compile lowers every prototype reachable from program's entry point,
// returning a table keyed by prototype index. Unreachable prototypes are
// skipped, the same way a native backend would not waste code-generation
// effort on dead functions.
//
// The compile order is a depth-first walk over CALL-instruction edges
// rooted at the entry prototype, pushing callees before callers so that by
// the time a caller's closure chain references a callee's JitLogic, that
// entry already exists — grounded in
// original_source/dust-lang/src/jit_vm/jit_compiler/mod.rs's
// get_compile_order / compile_prototype pairing.
func Compile(program *ir.Program, b Builder) (map[int]JitLogic, error) {
	order, err := compileOrder(program)
	if err != nil {
		return nil, err
	}
	compiled := make(map[int]JitLogic, len(order))
	for _, idx := range order {
		logic, err := b.Build(program.Prototypes[idx], idx)
		if err != nil {
			return nil, fmt.Errorf("jit: compiling prototype %d (%s): %w", idx, program.Prototypes[idx].Name, err)
		}
		compiled[idx] = logic
	}
	return compiled, nil
}

func compileOrder(program *ir.Program) ([]int, error) {
	var order []int
	visited := make([]bool, len(program.Prototypes))
	visiting := make([]bool, len(program.Prototypes))

	var visit func(idx int) error
	visit = func(idx int) error {
		if visited[idx] {
			return nil
		}
		if visiting[idx] {
			return fmt.Errorf("jit: call cycle detected at prototype %d", idx)
		}
		visiting[idx] = true
		for _, c := range program.Prototypes[idx].Constants {
			if c.Function == 0 && idx != 0 {
				// A zero-valued Function field ordinarily means "not a
				// function constant"; prototype 0 is excluded from this
				// check since it is legitimately referenceable as callee 0
				// (the entry point calling itself recursively by name).
				continue
			}
			if c.Function < 0 || c.Function >= len(program.Prototypes) || c.Function == idx {
				continue
			}
			if err := visit(c.Function); err != nil {
				return err
			}
		}
		visiting[idx] = false
		visited[idx] = true
		order = append(order, idx)
		return nil
	}

	if err := visit(program.Main); err != nil {
		return nil, err
	}
	return order, nil
}
