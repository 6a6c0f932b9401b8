package compiler

import (
	"github.com/vellumlang/vellum/lang/ast"
	"github.com/vellumlang/vellum/lang/ir"
	"github.com/vellumlang/vellum/lang/resolver"
	"github.com/vellumlang/vellum/lang/types"
)

// compileFunction declares n's name in the enclosing scope, compiles its
// body into a fresh prototype, and records the prototype index so that
// later references to the function by name load the right constant.
// Grounded in the teacher's fcomp nesting in lang/compiler/compiler.go,
// where each *ast.FunctionLit gets its own fcomp chained to a parent.
func (fc *fcomp) compileFunction(n *ast.Node) {
	var params []types.Type
	for _, p := range n.Params {
		params = append(params, resolveTypeExpr(p.Type))
	}
	ret := types.Type{Kind: types.KindNone}
	if n.ReturnType != nil {
		ret = resolveTypeExpr(*n.ReturnType)
	}
	fnType := types.Type{Kind: types.KindFunction, ValueParams: params, Return: &ret}

	decl := fc.p.res.Declare(fc.funcScope, n.Name, resolver.KindFunction, fnType, n.Position, true)

	proto := &ir.Prototype{Name: n.Name, NamePosition: n.Position, Type: fnType, ParameterCount: len(params)}
	protoIndex := len(fc.p.prototypes)
	fc.p.prototypes = append(fc.p.prototypes, proto)
	fc.p.funcProto[decl] = protoIndex

	childScope := fc.p.res.PushScope(fc.funcScope, resolver.ScopeFunction)
	child := &fcomp{
		p:           fc.p,
		proto:       proto,
		funcScope:   childScope,
		locals:      map[resolver.DeclarationId]uint32{},
		localIsHeap: map[resolver.DeclarationId]bool{},
	}
	child.pushBlock(childScope)
	for _, param := range n.Params {
		pdecl := fc.p.res.Declare(childScope, param.Name, resolver.KindLocal, resolveTypeExpr(param.Type), n.Position, false)
		reg := child.allocRegister()
		child.locals[pdecl] = reg
	}
	for _, stmt := range n.Children[0].Children {
		child.compileStatement(stmt)
	}
	child.popBlock()
	child.emitImplicitReturn()
	proto.RegisterCount = int(child.maxRegister)
}

func resolveTypeExpr(t ast.TypeExpr) types.Type {
	if t.Name == "list" && t.Elem != nil {
		elem := resolveTypeExpr(*t.Elem)
		return types.Type{Kind: types.KindList, Elem: &elem}
	}
	switch t.Name {
	case "bool":
		return types.Type{Kind: types.KindBoolean}
	case "byte":
		return types.Type{Kind: types.KindByte}
	case "char":
		return types.Type{Kind: types.KindCharacter}
	case "float":
		return types.Type{Kind: types.KindFloat}
	case "int":
		return types.Type{Kind: types.KindInteger}
	case "string":
		return types.Type{Kind: types.KindString}
	default:
		return types.Type{Kind: types.KindNone}
	}
}
