package compiler

import (
	"github.com/vellumlang/vellum/lang/ast"
	"github.com/vellumlang/vellum/lang/ir"
	"github.com/vellumlang/vellum/lang/resolver"
	"github.com/vellumlang/vellum/lang/types"
)

func (fc *fcomp) compileStatement(n *ast.Node) {
	switch n.Kind {
	case ast.KindLet:
		fc.compileLet(n)
	case ast.KindBlock:
		fc.compileBlockStatement(n)
	case ast.KindIf:
		fc.compileIf(n)
	case ast.KindWhile:
		fc.compileWhile(n)
	case ast.KindLoop:
		fc.compileLoop(n)
	case ast.KindBreak:
		fc.compileBreak(n)
	case ast.KindContinue:
		fc.compileContinue(n)
	case ast.KindReturn:
		fc.compileReturn(n)
	case ast.KindFunction:
		fc.compileFunction(n)
	case ast.KindExprStmt:
		fc.compileExpr(n.Children[0])
	default:
		fc.p.diags.Addf(n.Position, "internal error", "statement kind %d not handled by the emitter", n.Kind)
	}
}

func (fc *fcomp) compileLet(n *ast.Node) {
	value, ty := fc.compileExpr(n.Children[0])
	kind := resolver.KindLocal
	if n.Mutable {
		kind = resolver.KindLocalMutable
	}
	decl := fc.p.res.Declare(fc.funcScope, n.Name, kind, fc.p.res.ResolveType(ty), n.Position, false)

	dst := ir.Register(fc.allocRegister())
	fc.emitAt(n.Position, ir.Move, ty.AsOperandType(), dst, value, ir.Address{})
	fc.locals[decl] = dst.Index
	if ty == types.TypeString {
		return // strings are copy-by-value in registers; no drop needed until lists of them
	}
	resolved := fc.p.res.ResolveType(ty)
	if resolved.Kind == types.KindList {
		fc.markHeap(dst.Index)
	}
}

func (fc *fcomp) compileBlockStatement(n *ast.Node) {
	fc.pushBlock(fc.funcScope)
	for _, stmt := range n.Children {
		fc.compileStatement(stmt)
	}
	fc.popBlock()
}

func (fc *fcomp) compileIf(n *ast.Node) {
	cond, _ := fc.compileExpr(n.Children[0])
	testJmp := fc.emitAt(n.Position, ir.Test, types.OperandBoolean, ir.Encoded(0), cond, ir.Address{})

	fc.compileBlockStatement(n.Children[1])

	if len(n.Children) == 3 {
		elseJmp := fc.emitAt(n.Position, ir.Jump, types.OperandNone, ir.Address{}, ir.Address{}, ir.Address{})
		afterThen := len(fc.proto.Instructions)
		fc.patchJumpOffset(testJmp, int32(afterThen-testJmp-1))
		if n.Children[2].Kind == ast.KindBlock {
			fc.compileBlockStatement(n.Children[2])
		} else {
			fc.compileIf(n.Children[2])
		}
		end := len(fc.proto.Instructions)
		fc.patchJumpOffset(elseJmp, int32(end-elseJmp-1))
	} else {
		end := len(fc.proto.Instructions)
		fc.patchJumpOffset(testJmp, int32(end-testJmp-1))
	}
}

func (fc *fcomp) compileWhile(n *ast.Node) {
	condStart := len(fc.proto.Instructions)
	cond, _ := fc.compileExpr(n.Children[0])
	exitJmp := fc.emitAt(n.Position, ir.Test, types.OperandBoolean, ir.Encoded(0), cond, ir.Address{})

	lc := &loopCtx{continueStart: condStart}
	fc.loops = append(fc.loops, lc)
	fc.compileBlockStatement(n.Children[1])

	backJmp := fc.emitAt(n.Position, ir.Jump, types.OperandNone, ir.Address{}, ir.Address{}, ir.Address{})
	fc.patchJumpOffset(backJmp, int32(condStart-backJmp-1))

	end := len(fc.proto.Instructions)
	fc.patchJumpOffset(exitJmp, int32(end-exitJmp-1))
	for _, b := range lc.breakJumps {
		fc.patchJumpOffset(b, int32(end-b-1))
	}
	fc.loops = fc.loops[:len(fc.loops)-1]
}

func (fc *fcomp) compileLoop(n *ast.Node) {
	start := len(fc.proto.Instructions)
	lc := &loopCtx{continueStart: start}
	fc.loops = append(fc.loops, lc)
	fc.compileBlockStatement(n.Children[0])

	backJmp := fc.emitAt(n.Position, ir.Jump, types.OperandNone, ir.Address{}, ir.Address{}, ir.Address{})
	fc.patchJumpOffset(backJmp, int32(start-backJmp-1))

	end := len(fc.proto.Instructions)
	for _, b := range lc.breakJumps {
		fc.patchJumpOffset(b, int32(end-b-1))
	}
	fc.loops = fc.loops[:len(fc.loops)-1]
}

func (fc *fcomp) compileBreak(n *ast.Node) {
	if len(fc.loops) == 0 {
		fc.p.diags.Addf(n.Position, "break outside loop", "break must be inside a while or loop body")
		return
	}
	lc := fc.loops[len(fc.loops)-1]
	jmp := fc.emitAt(n.Position, ir.Jump, types.OperandNone, ir.Address{}, ir.Address{}, ir.Address{})
	lc.breakJumps = append(lc.breakJumps, jmp)
}

func (fc *fcomp) compileContinue(n *ast.Node) {
	if len(fc.loops) == 0 {
		fc.p.diags.Addf(n.Position, "continue outside loop", "continue must be inside a while or loop body")
		return
	}
	lc := fc.loops[len(fc.loops)-1]
	jmp := fc.emitAt(n.Position, ir.Jump, types.OperandNone, ir.Address{}, ir.Address{}, ir.Address{})
	fc.patchJumpOffset(jmp, int32(lc.continueStart-jmp-1))
}

func (fc *fcomp) compileReturn(n *ast.Node) {
	if len(n.Children) == 0 {
		fc.emitAt(n.Position, ir.Return, types.OperandNone, ir.Address{}, ir.Address{}, ir.Address{})
		return
	}
	v, ty := fc.compileExpr(n.Children[0])
	fc.emitAt(n.Position, ir.Return, ty.AsOperandType(), v, ir.Address{}, ir.Address{})
}
