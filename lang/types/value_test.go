package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueTruth(t *testing.T) {
	assert.True(t, Boolean(true).Truth())
	assert.False(t, Boolean(false).Truth())
	assert.True(t, Integer(1).Truth())
	assert.False(t, Integer(0).Truth())
	assert.False(t, String("").Truth())
}

func TestListFreeze(t *testing.T) {
	l := NewList(KindInteger, []Value{Integer(1), Integer(2)})
	assert.False(t, l.Frozen())
	l.Freeze()
	assert.True(t, l.Frozen())
	assert.Equal(t, "list", l.Type())
}

func TestMapGetSet(t *testing.T) {
	m := NewMap(4)
	m.Set(String("a"), Integer(1))
	v, ok := m.Get(String("a"))
	assert.True(t, ok)
	assert.Equal(t, Integer(1), v)

	_, ok = m.Get(String("missing"))
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestMapIterate(t *testing.T) {
	m := NewMap(4)
	m.Set(Integer(1), String("one"))
	m.Set(Integer(2), String("two"))

	seen := map[int64]string{}
	m.Iterate(func(k, v Value) bool {
		seen[int64(k.(Integer))] = string(v.(String))
		return true
	})
	assert.Equal(t, map[int64]string{1: "one", 2: "two"}, seen)
}
