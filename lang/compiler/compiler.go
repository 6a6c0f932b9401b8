// Package compiler is the emitter: it walks an ast.Module once, resolving
// names and types against a resolver.Resolver as it goes (rather than in a
// separate pass) and lowering expressions and statements directly into
// packed ir.Instruction words.
//
// Grounded in the teacher's lang/compiler/compiler.go pcomp/fcomp split
// (one struct for the whole compile, one per function being emitted) and
// its block-based control-flow linearization; the Pratt precedence climb
// itself is grounded in original_source/dust-lang/src/compiler/parse_rule.rs
// (see lang/parser/precedence.go, which already applies that grounding at
// parse time — the compiler only needs operator-to-Operation tables here).
package compiler

import (
	"golang.org/x/exp/slices"

	"github.com/vellumlang/vellum/lang/ast"
	"github.com/vellumlang/vellum/lang/diagnostic"
	"github.com/vellumlang/vellum/lang/ir"
	"github.com/vellumlang/vellum/lang/resolver"
	"github.com/vellumlang/vellum/lang/source"
	"github.com/vellumlang/vellum/lang/types"
)

// pcomp holds state shared across every function compiled from one module:
// the resolver driving name/type resolution and the growing list of
// prototypes (index 0 is always the module's top level).
type pcomp struct {
	res        *resolver.Resolver
	diags      *diagnostic.List
	prototypes []*ir.Prototype

	// funcProto maps a function declaration to the index of its compiled
	// prototype, so a later reference to the function by name can load the
	// right constant (see fcomp.compileIdentifier).
	funcProto map[resolver.DeclarationId]int
}

// loopCtx tracks the backpatch points for one enclosing loop/while so that
// break/continue can jump to the right place once the loop's end is known.
type loopCtx struct {
	breakJumps    []int // instruction indices of JUMP placeholders to patch to loop end
	continueStart int    // instruction index to jump back to on continue
}

// blockScope tracks one lexical block's drop list (the registers of its
// list-holding locals, recorded on the prototype at exit), the resolver scope it
// corresponds to, and the register high-water mark to reclaim on exit.
type blockScope struct {
	scope      resolver.ScopeId
	baseReg    uint32
	dropRegs   []uint32
}

// fcomp compiles a single function (or the module top level, which is
// modeled as a zero-argument function the way the teacher's
// makeToplevelFunction does).
type fcomp struct {
	p    *pcomp
	proto *ir.Prototype

	funcScope resolver.ScopeId

	nextRegister  uint32
	maxRegister   uint32
	locals        map[resolver.DeclarationId]uint32
	localIsHeap   map[resolver.DeclarationId]bool

	blocks []blockScope
	loops  []*loopCtx

	lastPos source.Position
}

// Compile resolves and emits an entire module, returning the finished
// program or the accumulated diagnostics as an error.
func Compile(mod *ast.Module, diags *diagnostic.List) (*ir.Program, error) {
	res := resolver.New(diags)
	p := &pcomp{res: res, diags: diags, funcProto: map[resolver.DeclarationId]int{}}

	main := &ir.Prototype{Name: "main", Type: types.Type{Kind: types.KindFunction, Return: &types.Type{Kind: types.KindNone}}}
	p.prototypes = append(p.prototypes, main)

	fc := &fcomp{p: p, proto: main, funcScope: resolver.MainScope, locals: map[resolver.DeclarationId]uint32{}, localIsHeap: map[resolver.DeclarationId]bool{}}
	fc.pushBlock(resolver.MainScope)
	for _, stmt := range mod.Statements {
		fc.compileStatement(stmt)
	}
	fc.popBlock()
	fc.emitImplicitReturn()
	main.RegisterCount = int(fc.maxRegister)

	if diags.Len() > 0 {
		return nil, diags.Err()
	}
	return &ir.Program{Prototypes: p.prototypes, Main: 0}, nil
}

func (fc *fcomp) pushBlock(scope resolver.ScopeId) {
	fc.blocks = append(fc.blocks, blockScope{scope: scope, baseReg: fc.nextRegister})
}

// popBlock records the block's drop list on the prototype (when the block
// declared any list-holding locals) and reclaims the block's registers. It
// emits no drop instructions, and neither the machine nor the JIT reads the
// recorded drop lists.
func (fc *fcomp) popBlock() {
	b := fc.blocks[len(fc.blocks)-1]
	fc.blocks = fc.blocks[:len(fc.blocks)-1]
	if len(b.dropRegs) > 0 {
		fc.proto.DropLists = append(fc.proto.DropLists, ir.DropList{Registers: b.dropRegs})
	}
	fc.nextRegister = b.baseReg
}

func (fc *fcomp) allocRegister() uint32 {
	r := fc.nextRegister
	fc.nextRegister++
	if fc.nextRegister > fc.maxRegister {
		fc.maxRegister = fc.nextRegister
	}
	return r
}

func (fc *fcomp) markHeap(reg uint32) {
	b := &fc.blocks[len(fc.blocks)-1]
	if slices.Contains(b.dropRegs, reg) {
		return
	}
	b.dropRegs = append(b.dropRegs, reg)
}

// emitAt appends one instruction at position pos and returns its index,
// for later backpatching by jump-emitting callers.
func (fc *fcomp) emitAt(pos source.Position, op ir.Operation, ty types.OperandType, a, b, c ir.Address) int {
	idx := len(fc.proto.Instructions)
	fc.proto.Instructions = append(fc.proto.Instructions, ir.Encode(op, ty, a, b, c))
	fc.proto.Positions = append(fc.proto.Positions, pos)
	fc.lastPos = pos
	return idx
}

func (fc *fcomp) patchJumpOffset(idx int, offset int32) {
	in := fc.proto.Instructions[idx]
	c := ir.Address{Kind: ir.KindEncoded, Index: ir.EncodeJumpOffset(offset)}
	fc.proto.Instructions[idx] = ir.Encode(in.Operation(), in.OperandType(), in.A(), in.B(), c)
}

func (fc *fcomp) emitImplicitReturn() {
	fc.emitAt(fc.lastPos, ir.Return, types.OperandNone, ir.Address{}, ir.Address{}, ir.Address{})
}
