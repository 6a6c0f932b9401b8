package compiler

import (
	"github.com/vellumlang/vellum/lang/ast"
	"github.com/vellumlang/vellum/lang/ir"
	"github.com/vellumlang/vellum/lang/resolver"
	"github.com/vellumlang/vellum/lang/scanner"
	"github.com/vellumlang/vellum/lang/types"
)

func (fc *fcomp) addConstant(c ir.Constant) uint32 {
	idx := uint32(len(fc.proto.Constants))
	fc.proto.Constants = append(fc.proto.Constants, c)
	return idx
}

// compileExpr lowers one expression node, returning the register holding
// its value and its static type.
func (fc *fcomp) compileExpr(n *ast.Node) (ir.Address, types.TypeId) {
	switch n.Kind {
	case ast.KindIntegerLiteral:
		return fc.loadConstant(n, ir.Constant{Integer: n.IntValue}, types.OperandInteger), types.TypeInteger
	case ast.KindFloatLiteral:
		return fc.loadConstant(n, ir.Constant{Float: n.FloatValue}, types.OperandFloat), types.TypeFloat
	case ast.KindStringLiteral:
		return fc.loadConstant(n, ir.Constant{String: n.StringValue}, types.OperandString), types.TypeString
	case ast.KindCharacterLiteral:
		return fc.loadConstant(n, ir.Constant{Character: n.RuneValue}, types.OperandCharacter), types.TypeCharacter
	case ast.KindByteLiteral:
		return fc.loadConstant(n, ir.Constant{Byte: n.ByteValue}, types.OperandByte), types.TypeByte
	case ast.KindBooleanLiteral:
		return fc.loadBoolean(n, n.BoolValue), types.TypeBoolean

	case ast.KindIdentifier:
		return fc.compileIdentifier(n)

	case ast.KindUnary:
		return fc.compileUnary(n)
	case ast.KindBinary:
		return fc.compileBinary(n)
	case ast.KindLogical:
		return fc.compileLogical(n)
	case ast.KindAssign:
		return fc.compileAssign(n)
	case ast.KindCall:
		return fc.compileCall(n)
	case ast.KindIndex:
		return fc.compileIndex(n)
	case ast.KindListLiteral:
		return fc.compileListLiteral(n)

	default:
		fc.p.diags.Addf(n.Position, "internal error", "expression kind %d not handled by the emitter", n.Kind)
		return ir.Address{}, types.TypeNone
	}
}

func (fc *fcomp) loadConstant(n *ast.Node, c ir.Constant, ty types.OperandType) ir.Address {
	idx := fc.addConstant(c)
	dst := ir.Register(fc.allocRegister())
	fc.emitAt(n.Position, ir.Load, ty, dst, ir.Constant(idx), ir.Address{})
	return dst
}

func (fc *fcomp) loadBoolean(n *ast.Node, v bool) ir.Address {
	dst := ir.Register(fc.allocRegister())
	enc := uint32(0)
	if v {
		enc = 1
	}
	fc.emitAt(n.Position, ir.Load, types.OperandBoolean, dst, ir.Encoded(enc), ir.Address{})
	return dst
}

func (fc *fcomp) compileIdentifier(n *ast.Node) (ir.Address, types.TypeId) {
	decl, ok := fc.p.res.Use(fc.funcScope, n.Name)
	if !ok {
		fc.p.diags.Addf(n.Position, "undefined name", "%q is not declared in this scope", n.Name)
		return ir.Address{}, types.TypeNone
	}
	if reg, ok := fc.locals[decl]; ok {
		return ir.Register(reg), fc.p.res.Declaration(decl).TypeId
	}
	d := fc.p.res.Declaration(decl)
	if d.Kind == resolver.KindFunction {
		protoIdx := fc.p.funcProto[decl]
		cidx := fc.addConstant(ir.Constant{Function: protoIdx})
		dst := ir.Register(fc.allocRegister())
		fc.emitAt(n.Position, ir.Load, types.OperandFunction, dst, ir.Constant(cidx), ir.Address{})
		return dst, d.TypeId
	}
	// A read of a variable captured from an enclosing function. The
	// resolver already recorded the capture (lang/resolver/closure.go); the
	// parent-frame register access itself is not yet wired into the
	// emitter (see DESIGN.md's open-questions entry on closures), so this
	// is reported as an unsupported construct rather than emitting an
	// instruction whose semantics nothing implements.
	fc.p.diags.Addf(n.Position, "unsupported closure capture", "%q is captured from an enclosing function, which is not yet implemented", n.Name)
	return ir.Register(fc.allocRegister()), d.TypeId
}

func (fc *fcomp) compileUnary(n *ast.Node) (ir.Address, types.TypeId) {
	operand, ty := fc.compileExpr(n.Children[0])
	dst := ir.Register(fc.allocRegister())
	switch scanner.Token(n.Operator) {
	case scanner.MINUS:
		fc.emitAt(n.Position, ir.Negate, ty.AsOperandType(), dst, operand, ir.Address{})
	case scanner.BANG:
		fc.emitAt(n.Position, ir.Not, types.OperandBoolean, dst, operand, ir.Address{})
		ty = types.TypeBoolean
	case scanner.TILDE:
		fc.emitAt(n.Position, ir.BitNot, ty.AsOperandType(), dst, operand, ir.Address{})
	}
	return dst, ty
}

func (fc *fcomp) compileBinary(n *ast.Node) (ir.Address, types.TypeId) {
	left, lty := fc.compileExpr(n.Children[0])
	right, _ := fc.compileExpr(n.Children[1])
	tok := scanner.Token(n.Operator)

	if op, invert, swap, ok := compareOp(tok); ok {
		a, b := left, right
		if swap {
			a, b = right, left
		}
		dst := ir.Register(fc.allocRegister())
		fc.emitAt(n.Position, op, lty.AsOperandType(), dst, a, b)
		if invert {
			fc.emitAt(n.Position, ir.Not, types.OperandBoolean, dst, dst, ir.Address{})
		}
		return dst, types.TypeBoolean
	}

	op, ok := arithmeticOp(tok)
	if !ok {
		fc.p.diags.Addf(n.Position, "internal error", "unhandled binary operator")
		return ir.Address{}, types.TypeNone
	}
	dst := ir.Register(fc.allocRegister())
	fc.emitAt(n.Position, op, lty.AsOperandType(), dst, left, right)
	return dst, lty
}

// compileLogical lowers && / || with short-circuit control flow rather
// than as an eager bitwise AND/OR, matching ordinary expression-language
// semantics (SPEC_FULL.md §5).
func (fc *fcomp) compileLogical(n *ast.Node) (ir.Address, types.TypeId) {
	isAnd := scanner.Token(n.Operator) == scanner.AMP_AMP

	left, _ := fc.compileExpr(n.Children[0])
	dst := ir.Register(fc.allocRegister())
	fc.emitAt(n.Position, ir.Move, types.OperandBoolean, dst, left, ir.Address{})

	expected := uint32(1)
	if isAnd {
		expected = 0 // TEST jumps over the right-hand evaluation when short-circuiting
	}
	testJmp := fc.emitAt(n.Position, ir.Test, types.OperandBoolean, ir.Encoded(expected), dst, ir.Address{})

	right, _ := fc.compileExpr(n.Children[1])
	fc.emitAt(n.Position, ir.Move, types.OperandBoolean, dst, right, ir.Address{})

	end := len(fc.proto.Instructions)
	fc.patchJumpOffset(testJmp, int32(end-testJmp-1))
	return dst, types.TypeBoolean
}

func (fc *fcomp) compileAssign(n *ast.Node) (ir.Address, types.TypeId) {
	target := n.Children[0]
	if target.Kind != ast.KindIdentifier {
		fc.p.diags.Addf(n.Position, "invalid assignment target", "only local variables can be assigned to")
		return ir.Address{}, types.TypeNone
	}
	decl, ok := fc.p.res.Use(fc.funcScope, target.Name)
	if !ok {
		fc.p.diags.Addf(target.Position, "undefined name", "%q is not declared in this scope", target.Name)
		return ir.Address{}, types.TypeNone
	}
	d := fc.p.res.Declaration(decl)
	if d.Kind != resolver.KindLocalMutable {
		fc.p.diags.Addf(n.Position, "cannot assign to immutable binding", "%q was declared with let, not let mut", target.Name)
	}
	reg, local := fc.locals[decl]

	tok := scanner.Token(n.Operator)
	var value ir.Address
	if tok == scanner.EQ {
		value, _ = fc.compileExpr(n.Children[1])
	} else {
		op, _ := assignOpToArith(tok)
		rhs, _ := fc.compileExpr(n.Children[1])
		value = ir.Register(fc.allocRegister())
		cur := ir.Register(reg)
		fc.emitAt(n.Position, op, d.TypeId.AsOperandType(), value, cur, rhs)
	}

	if !local {
		fc.p.diags.Addf(n.Position, "unsupported closure capture", "%q is captured from an enclosing function, which is not yet implemented", target.Name)
		return value, d.TypeId
	}
	fc.emitAt(n.Position, ir.Move, d.TypeId.AsOperandType(), ir.Register(reg), value, ir.Address{})
	return ir.Register(reg), d.TypeId
}

func (fc *fcomp) compileCall(n *ast.Node) (ir.Address, types.TypeId) {
	callee := n.Children[0]
	args := n.Children[1:]

	if callee.Kind == ast.KindIdentifier {
		if decl, ok := fc.p.res.Use(fc.funcScope, callee.Name); ok {
			d := fc.p.res.Declaration(decl)
			if d.Kind == resolver.KindNativeFunction {
				return fc.compileNativeCall(n, callee.Name, args, d)
			}
		}
	}

	fn, fty := fc.compileExpr(callee)
	vals := make([]ir.Address, len(args))
	for i, a := range args {
		vals[i], _ = fc.compileExpr(a)
	}
	base := fc.nextRegister
	for i, a := range args {
		dst := ir.Register(fc.allocRegister())
		fc.emitAt(a.Position, ir.Move, types.OperandNone, dst, vals[i], ir.Address{})
	}
	dst := ir.Register(fc.allocRegister())
	fc.emitAt(n.Position, ir.Call, types.OperandFunction, dst, fn, ir.Encoded(base))

	resolved := fc.p.res.ResolveType(fty)
	if resolved.Return != nil {
		return dst, fc.p.res.InternType(*resolved.Return)
	}
	return dst, types.TypeNone
}

func (fc *fcomp) compileNativeCall(n *ast.Node, name string, args []*ast.Node, d resolver.Declaration) (ir.Address, types.TypeId) {
	vals := make([]ir.Address, len(args))
	for i, a := range args {
		vals[i], _ = fc.compileExpr(a)
	}
	base := fc.nextRegister
	for i, a := range args {
		dst := ir.Register(fc.allocRegister())
		fc.emitAt(a.Position, ir.Move, types.OperandNone, dst, vals[i], ir.Address{})
	}
	dst := ir.Register(fc.allocRegister())
	idx := fc.addConstant(ir.Constant{String: name})
	fc.emitAt(n.Position, ir.CallNative, types.OperandFunction, dst, ir.Constant(idx), ir.Encoded(base))

	resolved := fc.p.res.ResolveType(d.TypeId)
	if resolved.Return != nil {
		return dst, fc.p.res.InternType(*resolved.Return)
	}
	return dst, types.TypeNone
}

func (fc *fcomp) compileIndex(n *ast.Node) (ir.Address, types.TypeId) {
	recv, rty := fc.compileExpr(n.Children[0])
	idx, _ := fc.compileExpr(n.Children[1])
	dst := ir.Register(fc.allocRegister())
	elemTy := types.TypeNone
	resolved := fc.p.res.ResolveType(rty)
	if resolved.Elem != nil {
		elemTy = fc.p.res.InternType(*resolved.Elem)
	}
	fc.emitAt(n.Position, ir.GetLocal, elemTy.AsOperandType(), dst, recv, idx)
	return dst, elemTy
}

func (fc *fcomp) compileListLiteral(n *ast.Node) (ir.Address, types.TypeId) {
	elemTy := types.TypeNone
	vals := make([]ir.Address, len(n.Children))
	tys := make([]types.TypeId, len(n.Children))
	for i, child := range n.Children {
		vals[i], tys[i] = fc.compileExpr(child)
		elemTy = tys[i]
	}
	base := fc.nextRegister
	for i, child := range n.Children {
		dst := ir.Register(fc.allocRegister())
		fc.emitAt(child.Position, ir.Move, tys[i].AsOperandType(), dst, vals[i], ir.Address{})
	}
	dst := ir.Register(fc.allocRegister())
	fc.emitAt(n.Position, ir.MakeList, types.ListElemOperandType(elemTy.AsOperandType()), dst, ir.Encoded(base), ir.Encoded(uint32(len(n.Children))))
	fc.markHeap(dst.Index)
	listType := types.Type{Kind: types.KindList, Elem: typeOf(fc, elemTy)}
	return dst, fc.p.res.InternType(listType)
}

func typeOf(fc *fcomp, id types.TypeId) *types.Type {
	t := fc.p.res.ResolveType(id)
	return &t
}
