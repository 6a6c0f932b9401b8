package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumlang/vellum/lang/diagnostic"
	"github.com/vellumlang/vellum/lang/source"
	"github.com/vellumlang/vellum/lang/types"
)

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	diags := diagnostic.NewList(nil)
	return New(diags)
}

func TestNewRegistersNatives(t *testing.T) {
	r := newResolver(t)
	id, ok := r.Find(1, "write_line")
	require.True(t, ok)
	d := r.Declaration(id)
	assert.Equal(t, KindNativeFunction, d.Kind)
}

func TestDeclareAndFindInSameScope(t *testing.T) {
	r := newResolver(t)
	block := r.PushScope(1, ScopeBlock)
	id := r.Declare(block, "x", KindLocal, types.Type{Kind: types.KindInteger}, source.Position{}, false)

	found, ok := r.Find(block, "x")
	require.True(t, ok)
	assert.Equal(t, id, found)
}

func TestFindClimbsBlockScopesNotFunctionScopes(t *testing.T) {
	r := newResolver(t)
	id := r.Declare(1, "y", KindLocal, types.Type{Kind: types.KindInteger}, source.Position{}, false)
	block := r.PushScope(1, ScopeBlock)

	found, ok := r.Find(block, "y")
	require.True(t, ok)
	assert.Equal(t, id, found)
}

func TestFindUnknownNameFails(t *testing.T) {
	r := newResolver(t)
	_, ok := r.Find(1, "nope")
	assert.False(t, ok)
}

func TestDeclareRecordsShadowing(t *testing.T) {
	r := newResolver(t)
	first := r.Declare(1, "x", KindLocal, types.Type{Kind: types.KindInteger}, source.Position{}, false)
	second := r.Declare(1, "x", KindLocalMutable, types.Type{Kind: types.KindInteger}, source.Position{}, false)

	d := r.Declaration(second)
	require.True(t, d.HasShadowed)
	assert.Equal(t, first, d.Shadowed)

	found, ok := r.Find(1, "x")
	require.True(t, ok)
	assert.Equal(t, second, found, "the most recent declaration wins lookup")
}

func TestUseRecordsCaptureAcrossFunctionBoundary(t *testing.T) {
	r := newResolver(t)
	countID := r.Declare(1, "count", KindLocalMutable, types.Type{Kind: types.KindInteger}, source.Position{}, false)

	innerFn := r.PushScope(1, ScopeFunction)
	innerBody := r.PushScope(innerFn, ScopeBlock)

	found, ok := r.Use(innerBody, "count")
	require.True(t, ok)
	assert.Equal(t, countID, found)

	captures := r.Captures(innerFn)
	require.Len(t, captures, 1)
	assert.Equal(t, countID, captures[0].Declaration)
	assert.Equal(t, 1, captures[0].Depth)
}

func TestUseWithinSameFunctionRecordsNoCapture(t *testing.T) {
	r := newResolver(t)
	id := r.Declare(1, "x", KindLocal, types.Type{Kind: types.KindInteger}, source.Position{}, false)
	block := r.PushScope(1, ScopeBlock)

	found, ok := r.Use(block, "x")
	require.True(t, ok)
	assert.Equal(t, id, found)
	assert.Empty(t, r.Captures(1))
}

func TestTypeInterningReusesStructuralDuplicates(t *testing.T) {
	r := newResolver(t)
	listInt := types.Type{Kind: types.KindList, Elem: &types.Type{Kind: types.KindInteger}}

	id1 := r.InternType(listInt)
	id2 := r.InternType(listInt)
	assert.Equal(t, id1, id2)

	resolved := r.ResolveType(id1)
	assert.Equal(t, types.KindList, resolved.Kind)
	require.NotNil(t, resolved.Elem)
	assert.Equal(t, types.KindInteger, resolved.Elem.Kind)
}

func TestTypeInterningPrimitivesUseReservedIds(t *testing.T) {
	r := newResolver(t)
	id := r.InternType(types.Type{Kind: types.KindInteger})
	assert.Equal(t, types.TypeInteger, id)
}
