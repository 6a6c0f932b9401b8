package resolver

import "github.com/vellumlang/vellum/lang/types"

// typeTable interns composite types (arrays, lists, function signatures) so
// that two structurally identical types, declared separately, resolve to
// the same types.TypeId. Grounded in original_source's
// Resolver.types: IndexSet<TypeNode,...> plus its flat type_members table
// for function parameter lists; Vellum collapses TypeNode+type_members into
// a single slice of fully expanded types.Type, trading one indirection for
// simplicity the original's no_std-oriented flat encoding didn't need to
// make.
type typeTable struct {
	entries []types.Type
	index   map[string]types.TypeId
}

func newTypeTable() *typeTable {
	return &typeTable{index: make(map[string]types.TypeId)}
}

// intern returns the TypeId for t, reusing an existing entry if one with
// the same structural signature already exists.
func (tt *typeTable) intern(t types.Type) types.TypeId {
	if t.Kind <= types.KindString {
		return primitiveTypeId(t.Kind)
	}
	sig := t.String()
	if id, ok := tt.index[sig]; ok {
		return id
	}
	id := types.TypeId(len(tt.entries))
	tt.entries = append(tt.entries, t)
	tt.index[sig] = id
	return id
}

// resolve expands id back into its full Type, recursing for composites.
func (tt *typeTable) resolve(id types.TypeId) types.Type {
	if id.IsPrimitive() {
		return primitiveType(id)
	}
	if int(id) < len(tt.entries) {
		return tt.entries[id]
	}
	return types.Type{Kind: types.KindNone}
}

func primitiveTypeId(k types.Kind) types.TypeId {
	switch k {
	case types.KindBoolean:
		return types.TypeBoolean
	case types.KindByte:
		return types.TypeByte
	case types.KindCharacter:
		return types.TypeCharacter
	case types.KindFloat:
		return types.TypeFloat
	case types.KindInteger:
		return types.TypeInteger
	case types.KindString:
		return types.TypeString
	default:
		return types.TypeNone
	}
}

func primitiveType(id types.TypeId) types.Type {
	switch id {
	case types.TypeBoolean:
		return types.Type{Kind: types.KindBoolean}
	case types.TypeByte:
		return types.Type{Kind: types.KindByte}
	case types.TypeCharacter:
		return types.Type{Kind: types.KindCharacter}
	case types.TypeFloat:
		return types.Type{Kind: types.KindFloat}
	case types.TypeInteger:
		return types.Type{Kind: types.KindInteger}
	case types.TypeString:
		return types.Type{Kind: types.KindString}
	default:
		return types.Type{Kind: types.KindNone}
	}
}
