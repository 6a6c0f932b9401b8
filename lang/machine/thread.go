// Package machine is the register-stack interpreter: given an ir.Program it
// runs prototype 0 to completion, dispatching packed ir.Instruction words
// against a flat register file that each call frame allocates as its own
// slice (unlike the teacher's lang/machine/thread.go, which carves
// locals/stack windows out of one backing []Value per Thread).
package machine

import (
	"context"
	"sync/atomic"

	"github.com/vellumlang/vellum/lang/ir"
	"github.com/vellumlang/vellum/lang/types"
)

// Status reports why a Run call stopped.
type Status uint8

const (
	StatusReturned Status = iota
	StatusErrorIndexOutOfBounds
	StatusErrorTypeMismatch
	StatusErrorStackOverflow
	StatusErrorDivisionByZero
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusReturned:
		return "returned"
	case StatusErrorIndexOutOfBounds:
		return "index out of bounds"
	case StatusErrorTypeMismatch:
		return "type mismatch"
	case StatusErrorStackOverflow:
		return "stack overflow"
	case StatusErrorDivisionByZero:
		return "division by zero"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// RuntimeError is returned by Run when execution stops for any reason
// other than a normal return.
type RuntimeError struct {
	Status Status
	IP     int
	Proto  int
	Detail string
}

func (e *RuntimeError) Error() string {
	if e.Detail != "" {
		return e.Status.String() + ": " + e.Detail
	}
	return e.Status.String()
}

// Limits bounds a thread's resource consumption. Sourced from
// internal/config (SPEC_FULL.md §3), mirroring the teacher's
// Thread{MaxSteps,MaxCallStackDepth} fields in lang/machine/thread.go.
type Limits struct {
	MaxSteps          int64
	MaxCallStackDepth int
	MaxRegisters      int
}

// DefaultLimits returns generous limits suitable for tests and the CLI's
// default configuration.
func DefaultLimits() Limits {
	return Limits{MaxSteps: 10_000_000, MaxCallStackDepth: 256, MaxRegisters: 1 << 14}
}

// Thread is one cooperative logical thread of execution: a single VM
// instance runs exactly one thread at a time, single-threaded, with
// cancellation checked between instructions rather than preempted (the
// concurrency model spec.md §6 describes). Grounded in the teacher's
// Thread{ctx,ctxCancel,cancelled atomic.Bool,steps} fields.
type Thread struct {
	limits Limits

	ctx       context.Context
	cancelled atomic.Bool

	steps int64

	callStack []*Frame

	natives map[string]NativeFunc
	stdio   Stdio

	program *ir.Program
}

// NewThread returns a thread ready to run prog under ctx, honoring limits.
func NewThread(ctx context.Context, limits Limits) *Thread {
	t := &Thread{limits: limits, ctx: ctx}
	t.natives = defaultNatives()
	return t
}

// SetStdio redirects the thread's standard streams for the native
// functions that use them (read_line, write_line).
func (t *Thread) SetStdio(s Stdio) { t.stdio = s }

// Cancel marks the thread for cancellation; the running instruction loop
// observes it at the next instruction boundary and discards the whole call
// stack at once; drop lists are not walked.
func (t *Thread) Cancel() { t.cancelled.Store(true) }

func (t *Thread) checkCancelled() bool {
	if t.cancelled.Load() {
		return true
	}
	select {
	case <-t.ctx.Done():
		return true
	default:
		return false
	}
}

// Run executes prog's main prototype to completion and returns its result.
func Run(ctx context.Context, limits Limits, prog *ir.Program) (types.Value, error) {
	t := NewThread(ctx, limits)
	return t.RunProgram(prog)
}

// RunProgram runs prog's entry prototype on this thread.
func (t *Thread) RunProgram(prog *ir.Program) (types.Value, error) {
	t.program = prog
	main := prog.MainPrototype()
	frame := newFrame(main, 0, nil)
	if err := t.pushFrame(frame); err != nil {
		return nil, err
	}
	return t.run(prog)
}

func (t *Thread) pushFrame(f *Frame) error {
	if len(t.callStack) >= t.limits.MaxCallStackDepth {
		return &RuntimeError{Status: StatusErrorStackOverflow}
	}
	t.callStack = append(t.callStack, f)
	return nil
}

func (t *Thread) popFrame() *Frame {
	f := t.callStack[len(t.callStack)-1]
	t.callStack = t.callStack[:len(t.callStack)-1]
	return f
}
