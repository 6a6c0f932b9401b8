// Package maincmd is Vellum's command dispatch, the same reflection-driven
// subcommand table as the teacher's internal/maincmd/maincmd.go: Cmd's
// exported methods matching the (context.Context, mainer.Stdio,
// []string) error shape are discovered at startup and looked up by
// lowercased name, so adding a subcommand is just adding a method.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"

	"github.com/vellumlang/vellum/internal/config"
)

const binName = "vellum"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> [<path>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> <path>
       %[1]s -h|--help
       %[1]s -v|--version

Compiler, virtual machine and disassembler for the %[1]s programming
language (a register-based bytecode VM for a small statically-typed,
expression-oriented language).

The <command> can be one of:
       run                       Compile and run a source file.
       compile                   Compile a source file and print its
                                 disassembled bytecode.
       disassemble               Alias of compile.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --jit                     Run compiled prototypes through the
                                 closure-based JIT backend instead of
                                 the register-stack interpreter.

Runtime limits are read from VELLUM_MAX_STEPS, VELLUM_MAX_CALL_STACK_DEPTH,
VELLUM_MAX_REGISTER_STACK_BYTES and VELLUM_ENABLE_JIT.
`, binName)
)

// Cmd is mainer's entry point: one struct per invocation, its exported
// flag-tagged fields populated by mainer.Parser.Parse, then Main dispatches
// to the subcommand named by the first positional argument.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`
	JIT     bool `flag:"jit"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error

	cfg config.Config
}

func (c *Cmd) SetArgs(args []string) { c.args = args }

func (c *Cmd) SetFlags(flags map[string]bool) { c.flags = flags }

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]
	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", cmdName)
	}
	if len(c.args[1:]) == 0 {
		return fmt.Errorf("%s: a source file must be provided", cmdName)
	}
	return nil
}

// Main parses args, validates them and dispatches to the resolved
// subcommand, the same three-step shape as the teacher's Cmd.Main.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid configuration: %s\n", err)
		return mainer.InvalidArgs
	}
	c.cfg = cfg

	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}
	if c.JIT {
		c.cfg.EnableJIT = true
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		return mainer.Failure
	}
	return mainer.Success
}

func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type
		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		name := strings.ToLower(m.Name)
		cmds[name] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	// "disassemble" is a friendlier alias for the same subcommand Compile
	// implements; buildCmds only discovers exported method names, so the
	// alias is wired in by hand.
	if fn, ok := cmds["compile"]; ok {
		cmds["disassemble"] = fn
	}
	return cmds
}
