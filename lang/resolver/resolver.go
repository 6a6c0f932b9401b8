package resolver

import (
	"fmt"

	"github.com/dolthub/swiss"

	"github.com/vellumlang/vellum/lang/diagnostic"
	"github.com/vellumlang/vellum/lang/source"
	"github.com/vellumlang/vellum/lang/types"
)

// declarationKey identifies a name within a specific scope, the lookup key
// for the resolver's declaration table.
type declarationKey struct {
	Scope ScopeId
	Name  string
}

// Resolver walks the program once, assigning DeclarationIds, ScopeIds and
// TypeIds as it goes. It keeps every declaration ever made (shadowed ones
// included) so that later diagnostics and the emitter's register allocator
// can still reach them by id.
//
// The declaration table is a github.com/dolthub/swiss map the same way the
// teacher's lang/machine/map.go wraps swiss.Map for the language's own
// runtime Map value; reusing it here for the resolver's internal lookup
// table keeps the same hash-map library doing double duty the way a real
// production codebase would rather than pulling in a second one.
type Resolver struct {
	declarations []Declaration
	byName       *swiss.Map[declarationKey, DeclarationId]

	scopes []Scope

	types *typeTable

	captures map[ScopeId][]Capture

	diags *diagnostic.List
}

// New creates a resolver pre-populated with the top-level module scope and
// function declaration, plus the supplemented native functions
// (read_line, write_line, list_length, string_length; SPEC_FULL.md §5).
// Grounded in original_source's Resolver::new(with_native_functions).
func New(diags *diagnostic.List) *Resolver {
	r := &Resolver{
		byName: swiss.NewMap[declarationKey, DeclarationId](64),
		types:  newTypeTable(),
		diags:  diags,
	}

	r.scopes = append(r.scopes, Scope{Kind: ScopeModule, hasParent: false}) // MainScope: the module's top level, where the compiler declares main's locals
	r.scopes = append(r.scopes, Scope{Kind: ScopeFunction, Parent: 0, hasParent: true})

	r.declarations = append(r.declarations, Declaration{}) // index 0 reserved to line up with MainDeclaration

	r.registerNative("read_line", fnType(nil, types.Type{Kind: types.KindString}))
	r.registerNative("write_line", fnType([]types.Type{{Kind: types.KindString}}, types.Type{Kind: types.KindNone}))
	r.registerNative("list_length", fnType([]types.Type{{Kind: types.KindList, Elem: &types.Type{Kind: types.KindNone}}}, types.Type{Kind: types.KindInteger}))
	r.registerNative("string_length", fnType([]types.Type{{Kind: types.KindString}}, types.Type{Kind: types.KindInteger}))

	return r
}

func fnType(params []types.Type, ret types.Type) types.Type {
	r := ret
	return types.Type{Kind: types.KindFunction, ValueParams: params, Return: &r}
}

func (r *Resolver) registerNative(name string, t types.Type) {
	id := DeclarationId(len(r.declarations))
	r.declarations = append(r.declarations, Declaration{
		Kind:    KindNativeFunction,
		ScopeId: GlobalScope,
		TypeId:  r.types.intern(t),
		Public:  true,
	})
	r.byName.Put(declarationKey{Scope: GlobalScope, Name: name}, id)
}

// PushScope creates a new child scope of parent and returns its id.
func (r *Resolver) PushScope(parent ScopeId, kind ScopeKind) ScopeId {
	id := ScopeId(len(r.scopes))
	r.scopes = append(r.scopes, Scope{Kind: kind, Parent: parent, hasParent: true})
	return id
}

// ScopeKindOf reports the kind of scope id.
func (r *Resolver) ScopeKindOf(id ScopeId) ScopeKind { return r.scopes[id].Kind }

// Declare adds a new declaration named name in scope, recording what it
// shadows if a same-named local already exists in that exact scope.
// Mirrors original_source's add_declaration, which always appends (never
// overwrites) so the shadowed binding remains reachable by its own id.
func (r *Resolver) Declare(scope ScopeId, name string, kind DeclarationKind, t types.Type, pos source.Position, public bool) DeclarationId {
	id := DeclarationId(len(r.declarations))
	decl := Declaration{
		Kind:     kind,
		ScopeId:  scope,
		TypeId:   r.types.intern(t),
		Position: pos,
		Public:   public,
	}
	if prev, ok := r.byName.Get(declarationKey{Scope: scope, Name: name}); ok {
		decl.Shadowed = prev
		decl.HasShadowed = true
	}
	r.declarations = append(r.declarations, decl)
	r.byName.Put(declarationKey{Scope: scope, Name: name}, id)
	return id
}

// Find looks up name starting in scope, climbing to parent scopes only
// while they are Block scopes (matching original_source's
// find_declaration_in_scope, which stops climbing at a Function or Module
// boundary — crossing those requires an explicit import, use/capture
// handled separately by the emitter's closure analysis).
func (r *Resolver) Find(scope ScopeId, name string) (DeclarationId, bool) {
	for {
		if id, ok := r.byName.Get(declarationKey{Scope: scope, Name: name}); ok {
			return id, true
		}
		sc := r.scopes[scope]
		if sc.Kind != ScopeBlock || !sc.hasParent {
			break
		}
		scope = sc.Parent
	}
	if id, ok := r.byName.Get(declarationKey{Scope: GlobalScope, Name: name}); ok {
		return id, true
	}
	return 0, false
}

// Declaration returns the declaration recorded under id.
func (r *Resolver) Declaration(id DeclarationId) Declaration { return r.declarations[id] }

// ResolveType expands a TypeId back into its full Type.
func (r *Resolver) ResolveType(id types.TypeId) types.Type { return r.types.resolve(id) }

// InternType interns t, returning its TypeId (reusing an existing entry for
// structurally identical composite types).
func (r *Resolver) InternType(t types.Type) types.TypeId { return r.types.intern(t) }

// Error records a resolution diagnostic at pos.
func (r *Resolver) Error(pos source.Position, title, format string, args ...interface{}) {
	r.diags.Addf(pos, title, format, args...)
}

// DuplicateLocal reports a diagnostic for redeclaring name in the same
// scope, pointing at both the new and the shadowed position.
func (r *Resolver) DuplicateLocal(pos source.Position, name string, shadowed DeclarationId) {
	prev := r.declarations[shadowed]
	r.diags.Add(&diagnostic.Diagnostic{
		Title:       "duplicate declaration",
		Description: fmt.Sprintf("%q is already declared in this scope", name),
		Primary:     pos,
		DetailSnippets: []diagnostic.Snippet{
			{Message: "first declared here", Position: prev.Position},
		},
	})
}
