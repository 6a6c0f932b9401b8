// Package ast defines the parse tree the parser builds and the compiler
// walks. Expressions carry enough structure for a single-pass emitter to
// lower them directly, mirroring the teacher's own tendency to keep ASTs
// thin and emission-oriented rather than building a fully decorated tree
// for a separate type-checking pass.
package ast

import "github.com/vellumlang/vellum/lang/source"

// NodeKind tags the shape of a Node.
type NodeKind uint8

const (
	KindIntegerLiteral NodeKind = iota
	KindFloatLiteral
	KindStringLiteral
	KindCharacterLiteral
	KindByteLiteral
	KindBooleanLiteral
	KindIdentifier
	KindUnary
	KindBinary
	KindLogical
	KindAssign
	KindCall
	KindIndex
	KindListLiteral
	KindBlock
	KindIf
	KindWhile
	KindLoop
	KindBreak
	KindContinue
	KindReturn
	KindLet
	KindFunction
	KindExprStmt
	KindModule
)

// Node is one parse-tree node. Rather than a Go-idiomatic tagged union of
// concrete struct types (which would need a type switch everywhere the
// tree is walked), Vellum keeps the teacher's own single-struct-per-tree
// style from lang/resolver's block linked list, generalized here: every
// node carries its kind, its children by index, its source position, and a
// small untyped Payload the few node kinds that need a scalar (operator
// token, literal value) stash into.
type Node struct {
	Kind     NodeKind
	Position source.Position

	Children []*Node

	// Payload carries kind-specific scalars: the operator Token for Unary/
	// Binary/Logical/Assign, the boolean value for BooleanLiteral, etc.
	// Typed accessors below hide the representation from callers.
	IntValue    int64
	FloatValue  float64
	StringValue string
	RuneValue   rune
	ByteValue   byte
	BoolValue   bool
	Operator    int8 // scanner.Token, untyped here to avoid an import cycle risk
	Name        string
	Mutable     bool
	Label       string

	// Function-only
	Params     []Param
	ReturnType *TypeExpr
}

// Param is one function parameter.
type Param struct {
	Name string
	Type TypeExpr
}

// TypeExpr is a minimal type annotation surface: a name plus, for list
// types, an element type.
type TypeExpr struct {
	Name string
	Elem *TypeExpr
}

// Module is the top-level parse result: a sequence of statements.
type Module struct {
	Statements []*Node
}
