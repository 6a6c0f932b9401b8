package maincmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mna/mainer"

	"github.com/vellumlang/vellum/lang/compiler"
	"github.com/vellumlang/vellum/lang/diagnostic"
	"github.com/vellumlang/vellum/lang/ir"
	"github.com/vellumlang/vellum/lang/parser"
	"github.com/vellumlang/vellum/lang/scanner"
	"github.com/vellumlang/vellum/lang/source"
)

// Compile runs the scanner, parser and emitter over a single source file
// and prints the resulting disassembly, one instruction per line grouped
// by prototype, the way the teacher's ParseFiles prints one AST per file.
func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	prog, _, err := compileFile(stdio, args[0])
	if err != nil {
		return err
	}
	printProgram(stdio.Stdout, prog)
	return nil
}

func compileFile(stdio mainer.Stdio, path string) (*ir.Program, *source.FileSet, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return nil, nil, err
	}

	fset := source.NewFileSet()
	file := fset.AddFile(path, content)
	diags := diagnostic.NewList(fset)

	sc := scanner.New(file, content, diags)
	p := parser.New(sc, diags)
	mod := p.ParseModule()
	if diags.Len() > 0 {
		fmt.Fprintln(stdio.Stderr, diags.Err())
		return nil, fset, diags.Err()
	}

	prog, err := compiler.Compile(mod, diags)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return nil, fset, err
	}
	return prog, fset, nil
}

func printProgram(w io.Writer, prog *ir.Program) {
	for i, proto := range prog.Prototypes {
		fmt.Fprintf(w, "prototype %d %q (registers=%d, params=%d)\n", i, proto.Name, proto.RegisterCount, proto.ParameterCount)
		for ip, in := range proto.Instructions {
			fmt.Fprintf(w, "  %4d  %s\n", ip, in.String())
		}
	}
}
