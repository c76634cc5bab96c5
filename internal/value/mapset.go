package value

import "math"

func mathFloatBits(f float64) uint64 { return math.Float64bits(f) }

// Map associates Value to Value, preserving insertion order (spec.md §3.1:
// "insertion order is preserved and is part of the observable output").
// Building a Map with duplicate keys keeps the last-written value but the
// position of the key's first occurrence (spec.md §4.1 "silent
// normalization").
type Map struct {
	keys  []Value
	vals  []Value
	index map[string]int // hashKey(key) -> position in keys/vals
}

// NewMap builds a Map from parallel key/value slices in written order,
// normalizing duplicate keys by keeping the last value written.
func NewMap(keys, vals []Value) Map {
	m := Map{index: make(map[string]int, len(keys))}
	for i := range keys {
		m.put(keys[i], vals[i])
	}
	return m
}

// EmptyMap is the zero-element Map.
func EmptyMap() Map { return Map{index: map[string]int{}} }

func (m *Map) put(k, v Value) {
	hk := hashKey(k)
	if pos, ok := m.index[hk]; ok {
		m.vals[pos] = v
		return
	}
	m.index[hk] = len(m.keys)
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
}

// Assoc returns a new Map with k bound to v, preserving every other entry
// and its position; an existing k keeps its position and gets the new v.
func (m Map) Assoc(k, v Value) Map {
	keys := append(append([]Value{}, m.keys...))
	vals := append(append([]Value{}, m.vals...))
	out := Map{keys: keys, vals: vals, index: cloneIndex(m.index)}
	out.put(k, v)
	return out
}

// Dissoc returns a new Map with k removed, if present.
func (m Map) Dissoc(k Value) Map {
	hk := hashKey(k)
	pos, ok := m.index[hk]
	if !ok {
		return m
	}
	keys := make([]Value, 0, len(m.keys)-1)
	vals := make([]Value, 0, len(m.vals)-1)
	for i := range m.keys {
		if i == pos {
			continue
		}
		keys = append(keys, m.keys[i])
		vals = append(vals, m.vals[i])
	}
	return NewMap(keys, vals)
}

func cloneIndex(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Get looks up k, returning (value, true) or (Nil, false) on miss.
func (m Map) Get(k Value) (Value, bool) {
	pos, ok := m.index[hashKey(k)]
	if !ok {
		return NilValue, false
	}
	return m.vals[pos], true
}

// Len returns the number of entries.
func (m Map) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order. The caller must not mutate the
// returned slice.
func (m Map) Keys() []Value { return m.keys }

// Vals returns the values in insertion order, parallel to Keys(). The
// caller must not mutate the returned slice.
func (m Map) Vals() []Value { return m.vals }

func (m Map) Kind() Kind { return KindMap }
func (m Map) String() string {
	var b []byte
	b = append(b, '{')
	for i := range m.keys {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = append(b, m.keys[i].String()...)
		b = append(b, ' ')
		b = append(b, m.vals[i].String()...)
	}
	b = append(b, '}')
	return string(b)
}

// Set is an unordered-unique collection whose iteration order equals
// insertion order (spec.md §3.1).
type Set struct {
	Elems []Value
	index map[string]int
}

// NewSet builds a Set from elems in written order, keeping one occurrence
// of each distinct element (first occurrence's position, per spec.md §4.1).
func NewSet(elems []Value) Set {
	s := Set{index: make(map[string]int, len(elems))}
	for _, e := range elems {
		s.add(e)
	}
	return s
}

func (s *Set) add(v Value) {
	hk := hashKey(v)
	if _, ok := s.index[hk]; ok {
		return
	}
	s.index[hk] = len(s.Elems)
	s.Elems = append(s.Elems, v)
}

// Conj returns a new Set with v added (a no-op if already present).
func (s Set) Conj(v Value) Set {
	out := NewSet(append(append([]Value{}, s.Elems...), v))
	return out
}

// Contains reports whether v is a member.
func (s Set) Contains(v Value) bool {
	_, ok := s.index[hashKey(v)]
	return ok
}

func (s Set) Kind() Kind { return KindSet }
func (s Set) String() string {
	return "#{" + joinValues(s.Elems, " ") + "}"
}
