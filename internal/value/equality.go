package value

// Equal implements the structural equality of spec.md §3.1: same variant
// tag, matching payload. Integer and Float never compare equal to each
// other even when numerically equal. Maps compare equal under unordered
// key-matching and Sets by membership; Lists and Vectors compare
// elementwise in order.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Nil:
		return true
	case Bool:
		return x.Value == b.(Bool).Value
	case Integer:
		return x.Value == b.(Integer).Value
	case Float:
		return x.Value == b.(Float).Value
	case String:
		return x.Value == b.(String).Value
	case Character:
		return x.Value == b.(Character).Value
	case Symbol:
		y := b.(Symbol)
		return x.Namespace == y.Namespace && x.Name == y.Name
	case Keyword:
		y := b.(Keyword)
		return x.Namespace == y.Namespace && x.Name == y.Name
	case List:
		return equalOrdered(x.Elems, b.(List).Elems)
	case Vector:
		return equalOrdered(x.Elems, b.(Vector).Elems)
	case Set:
		return equalSet(x, b.(Set))
	case Map:
		return equalMap(x, b.(Map))
	case Tagged:
		y := b.(Tagged)
		return Equal(x.Tag, y.Tag) && Equal(x.Wrapped, y.Wrapped)
	case Lambda:
		// Lambdas never compare equal, not even to themselves, matching
		// their non-serializable, non-literal nature.
		return false
	default:
		return false
	}
}

func equalOrdered(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalSet(a, b Set) bool {
	if len(a.Elems) != len(b.Elems) {
		return false
	}
	for _, e := range a.Elems {
		if !b.Contains(e) {
			return false
		}
	}
	return true
}

func equalMap(a, b Map) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i, k := range a.keys {
		bv, ok := b.Get(k)
		if !ok || !Equal(a.vals[i], bv) {
			return false
		}
	}
	return true
}
