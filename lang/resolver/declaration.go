// Package resolver performs name, scope and type resolution for the
// emitter, which calls it as it walks the AST: every identifier use is
// bound to a DeclarationId, every function body gets a ScopeId (blocks
// inside a function share their function's scope), and every expression's
// static type is interned to a TypeId so the emitter never has to
// re-derive it.
//
// Grounded in original_source/dust-lang/src/resolver/mod.rs's Resolver
// struct (IndexMap-backed declaration table, Vec<Scope>, IndexSet-backed
// type interning), reworked onto the teacher's resolver.go style: a small
// set of plain exported ids (teacher's Binding/Scope pairing in
// lang/resolver/resolver.go) rather than the original's trait-heavy Rust
// shape.
package resolver

import (
	"github.com/vellumlang/vellum/lang/source"
	"github.com/vellumlang/vellum/lang/types"
)

// DeclarationId names one binding: a local, a function, a type, or a
// module. Reserved ids mirror original_source's DeclarationId::MAIN /
// ANONYMOUS / NATIVE sentinels.
type DeclarationId uint32

const (
	// MainDeclaration is pre-registered for the top-level module function.
	MainDeclaration DeclarationId = 0

	// AnonymousDeclaration marks a binding that exists only transiently
	// during resolution (e.g. an expression's synthetic temporary) and is
	// never looked up by name.
	AnonymousDeclaration DeclarationId = ^DeclarationId(0)

	// NativeDeclaration is a reserved sentinel id. New does not use it:
	// each built-in function (read_line, write_line, list_length,
	// string_length) gets its own sequential id from registerNative.
	NativeDeclaration DeclarationId = ^DeclarationId(0) - 1
)

// ScopeId names one lexical scope. MAIN is the module's top-level block;
// Global is reserved for natives and is always an ancestor of MAIN.
type ScopeId uint32

const (
	MainScope   ScopeId = 0
	GlobalScope ScopeId = ^ScopeId(0)
)

// ScopeKind tags what introduced a scope, which affects how far name
// lookup climbs before giving up (original_source find_declaration_in_scope
// only climbs past Block scopes, stopping at Function/Module boundaries
// unless the name is explicitly imported).
type ScopeKind uint8

const (
	ScopeBlock ScopeKind = iota
	ScopeFunction
	ScopeModule
)

// Scope is one node in the resolver's scope tree.
type Scope struct {
	Kind   ScopeKind
	Parent ScopeId // only meaningful if this scope has a parent; see hasParent
	hasParent bool

	// Imports lists declarations explicitly pulled into this scope from a
	// module (supplemented feature; spec.md itself has no module system,
	// but original_source's imports/modules mechanism is carried forward
	// as future surface per SPEC_FULL.md §4 rather than wired to syntax
	// yet).
	Imports []DeclarationId
}

// DeclarationKind distinguishes what a Declaration names. Local and
// LocalMutable carry the id of a same-named declaration they shadow, the
// way original_source's DeclarationKind::Local{shadowed} does, so that
// diagnostics can point at the earlier binding.
type DeclarationKind uint8

const (
	KindFunction DeclarationKind = iota
	KindNativeFunction
	KindLocal
	KindLocalMutable
	KindType
)

// IsLocal reports whether kind names a plain or mutable local variable.
func (k DeclarationKind) IsLocal() bool { return k == KindLocal || k == KindLocalMutable }

// Declaration records one named binding: its kind, the scope it lives in,
// its resolved type, and (for locals) what it shadows.
type Declaration struct {
	Kind     DeclarationKind
	ScopeId  ScopeId
	TypeId   types.TypeId
	Position source.Position
	Public   bool
	Shadowed    DeclarationId // only meaningful if HasShadowed
	HasShadowed bool
}
