package machine

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/vellumlang/vellum/lang/types"
)

// NativeFunc is a built-in's Go implementation, invoked by CALL_NATIVE.
// Grounded in original_source's jit_vm FFI hooks (read_line, write_line,
// list_length via tools/collections.rs, string_length via tools/string.rs)
// and in the teacher's Thread{Stdout,Stderr,Stdin} fields, which give every
// thread its own redirectable standard streams rather than reaching for
// the process globals directly.
type NativeFunc func(t *Thread, args []types.Value) (types.Value, error)

// CallNative invokes a registered native by name against t, the seam the
// JIT backend's ThreadContext natives table uses to share the exact same
// implementations (including Stdio redirection) as the interpreter, rather
// than duplicating read_line/write_line/list_length/string_length.
func CallNative(t *Thread, name string, args []types.Value) (types.Value, error) {
	fn, ok := t.natives[name]
	if !ok {
		return nil, &RuntimeError{Status: StatusErrorTypeMismatch, Detail: fmt.Sprintf("unknown native function %q", name)}
	}
	return fn(t, args)
}

func defaultNatives() map[string]NativeFunc {
	return map[string]NativeFunc{
		"read_line":     nativeReadLine,
		"write_line":    nativeWriteLine,
		"list_length":   nativeListLength,
		"string_length": nativeStringLength,
	}
}

// Stdio lets a caller redirect a thread's standard streams, the same
// redirection seam the teacher's Thread exposes.
type Stdio struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func nativeReadLine(t *Thread, args []types.Value) (types.Value, error) {
	in := t.stdio.Stdin
	if in == nil {
		in = os.Stdin
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return types.String(""), nil
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return types.String(line), nil
}

func nativeWriteLine(t *Thread, args []types.Value) (types.Value, error) {
	out := t.stdio.Stdout
	if out == nil {
		out = os.Stdout
	}
	if len(args) == 0 {
		fmt.Fprintln(out)
		return types.None{}, nil
	}
	fmt.Fprintln(out, args[0].String())
	return types.None{}, nil
}

func nativeListLength(t *Thread, args []types.Value) (types.Value, error) {
	if len(args) == 0 {
		return nil, &RuntimeError{Status: StatusErrorTypeMismatch, Detail: "list_length expects one list argument"}
	}
	l, ok := args[0].(*types.List)
	if !ok {
		return nil, &RuntimeError{Status: StatusErrorTypeMismatch, Detail: "list_length expects a list"}
	}
	return types.Integer(len(l.Values)), nil
}

func nativeStringLength(t *Thread, args []types.Value) (types.Value, error) {
	if len(args) == 0 {
		return nil, &RuntimeError{Status: StatusErrorTypeMismatch, Detail: "string_length expects one string argument"}
	}
	s, ok := args[0].(types.String)
	if !ok {
		return nil, &RuntimeError{Status: StatusErrorTypeMismatch, Detail: "string_length expects a string"}
	}
	return types.Integer(len([]rune(string(s)))), nil
}
