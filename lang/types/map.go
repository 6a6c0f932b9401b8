package types

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// Map is the runtime Value backing the supplemented map type (SPEC_FULL.md
// §4 domain-stack wiring: dolthub/swiss is used both for the resolver's
// internal declaration table and here, for the language's own map value,
// grounded directly on the teacher's lang/machine/map.go Map).
type Map struct {
	m *swiss.Map[Value, Value]
}

// NewMap returns a map with initial capacity for at least size entries.
func NewMap(size int) *Map {
	return &Map{m: swiss.NewMap[Value, Value](uint32(size))}
}

func (m *Map) String() string { return fmt.Sprintf("map(%p)", m) }
func (*Map) Type() string     { return "map" }
func (m *Map) Truth() bool    { return m.m.Count() != 0 }

// Get returns the value stored under k, if any.
func (m *Map) Get(k Value) (Value, bool) { return m.m.Get(k) }

// Set stores v under k, overwriting any previous value.
func (m *Map) Set(k, v Value) { m.m.Put(k, v) }

// Len reports the number of entries.
func (m *Map) Len() int { return m.m.Count() }

// Iterate calls f for every entry, in unspecified order, stopping early if
// f returns false.
func (m *Map) Iterate(f func(k, v Value) bool) {
	m.m.Iter(func(k, v Value) bool { return !f(k, v) })
}
