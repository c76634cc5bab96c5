package value

import "strings"

// List is an ordered sequence, semantically a linked (seq-like) collection.
// It is backed by a slice for simplicity; List and Vector are kept as
// distinct variants (spec.md §3.1) so that otherwise-identical element
// sequences never compare equal across the two.
type List struct{ Elems []Value }

func (l List) Kind() Kind { return KindList }
func (l List) String() string {
	return "(" + joinValues(l.Elems, " ") + ")"
}

// NewList builds a List from elems, taking ownership of the slice.
func NewList(elems []Value) List { return List{Elems: elems} }

// Vector is an ordered, indexable sequence.
type Vector struct{ Elems []Value }

func (v Vector) Kind() Kind { return KindVector }
func (v Vector) String() string {
	return "[" + joinValues(v.Elems, " ") + "]"
}

// NewVector builds a Vector from elems, taking ownership of the slice.
func NewVector(elems []Value) Vector { return Vector{Elems: elems} }

func joinValues(vs []Value, sep string) string {
	var b strings.Builder
	for i, v := range vs {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(v.String())
	}
	return b.String()
}

// Seq returns the element slice of a List, Vector, or Set (a Set's in
// insertion order), or nil with ok false for any other Value. Used by
// sequence-oriented built-ins that treat these interchangeably as input (spec.md's built-in table: first,
// rest, take, drop, map, filter, ...).
func Seq(v Value) (elems []Value, ok bool) {
	switch t := v.(type) {
	case List:
		return t.Elems, true
	case Vector:
		return t.Elems, true
	case Set:
		return t.Elems, true
	default:
		return nil, false
	}
}
