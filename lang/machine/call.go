package machine

import (
	"fmt"

	"github.com/vellumlang/vellum/lang/ir"
	"github.com/vellumlang/vellum/lang/types"
)

// execCall handles CALL: A is the destination register for the return
// value, B names the function value (a constant-loaded *types.Function),
// and C holds the base register of the already-moved argument list
// (lang/compiler/expr.go compileCall moves each argument into consecutive
// registers starting at base before emitting CALL).
func (t *Thread) execCall(f *Frame, in ir.Instruction) error {
	fnVal := f.get(in.B(), types.OperandFunction, f.proto.Constants)
	fn, ok := fnVal.(*types.Function)
	if !ok {
		return &RuntimeError{Status: StatusErrorTypeMismatch, Detail: "call target is not a function"}
	}
	if fn.PrototypeIndex < 0 || fn.PrototypeIndex >= len(t.program.Prototypes) {
		return &RuntimeError{Status: StatusErrorTypeMismatch, Detail: fmt.Sprintf("unresolved function reference %d", fn.PrototypeIndex)}
	}
	proto := t.program.Prototypes[fn.PrototypeIndex]
	base := in.C().Index

	callee := newFrame(proto, int(base), f)
	callee.resultReg = in.A().Index
	for i := 0; i < proto.ParameterCount; i++ {
		callee.regs[i] = f.regs[base+uint32(i)]
	}
	f.ip++
	return t.pushFrame(callee)
}

// execCallNative handles CALL_NATIVE: B is a Constant holding the native's
// registered name, C the base register of its moved arguments. No argument
// count is encoded: the native receives every register from C up to, but
// not including, the destination register A, which the compiler allocates
// right after the last moved argument.
func (t *Thread) execCallNative(f *Frame, in ir.Instruction) (types.Value, error) {
	name := f.get(in.B(), types.OperandString, f.proto.Constants)
	s, ok := name.(types.String)
	if !ok {
		return nil, &RuntimeError{Status: StatusErrorTypeMismatch, Detail: "native call target is not a name"}
	}
	fn, ok := t.natives[string(s)]
	if !ok {
		return nil, &RuntimeError{Status: StatusErrorTypeMismatch, Detail: fmt.Sprintf("unknown native function %q", s)}
	}
	base := in.C().Index
	dst := in.A().Index
	var args []types.Value
	for i := base; i < dst; i++ {
		args = append(args, f.regs[i])
	}
	return fn(t, args)
}
