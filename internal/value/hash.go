package value

import (
	"sort"
	"strconv"
	"strings"
)

// hashKey produces a canonical string encoding of v such that two Values
// equal under Equal produce identical keys, and differing Values produce
// (with overwhelming probability) different keys. It underlies Map key
// uniqueness and Set element uniqueness (spec.md §4.1).
//
// For Map-typed keys the encoding is order-independent over the key's own
// entries even though the Map's iteration order is insertion-ordered: the
// container remembers order, but the hash treats its content set-like
// (spec.md §9, "Map key equality").
// HashKey exposes hashKey for callers outside this package that need a
// canonical grouping key for a Value (e.g. eval's group-by/frequencies).
func HashKey(v Value) string { return hashKey(v) }

func hashKey(v Value) string {
	switch t := v.(type) {
	case Nil:
		return "n"
	case Bool:
		if t.Value {
			return "b1"
		}
		return "b0"
	case Integer:
		return "i" + strconv.FormatInt(t.Value, 10)
	case Float:
		if t.Value == 0 {
			// 0.0 and -0.0 are Equal, so they must share one key.
			return "f0"
		}
		return "f" + strconv.FormatUint(mathFloatBits(t.Value), 36)
	case String:
		return "s" + strconv.Itoa(len(t.Value)) + ":" + t.Value
	case Character:
		return "c" + strconv.FormatInt(int64(t.Value), 10)
	case Symbol:
		return "y" + t.Namespace + "/" + t.Name
	case Keyword:
		return "k" + t.Namespace + "/" + t.Name
	case List:
		return "l[" + hashJoinOrdered(t.Elems) + "]"
	case Vector:
		return "v[" + hashJoinOrdered(t.Elems) + "]"
	case Set:
		return "t{" + hashJoinUnordered(t.Elems) + "}"
	case Map:
		pairs := make([]string, len(t.keys))
		for i := range t.keys {
			pairs[i] = hashKey(t.keys[i]) + "=" + hashKey(t.vals[i])
		}
		sort.Strings(pairs)
		return "m{" + strings.Join(pairs, ",") + "}"
	case Tagged:
		return "g" + t.Tag.String() + ":" + hashKey(t.Wrapped)
	case Lambda:
		// Lambdas are never valid map keys or set elements in practice
		// (they can't appear in EDN input), but a stable key keeps this
		// function total rather than panicking on an unexpected call site.
		return "#fn:" + t.Name
	default:
		return "?"
	}
}

func hashJoinOrdered(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = hashKey(v)
	}
	return strings.Join(parts, ",")
}

func hashJoinUnordered(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = hashKey(v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
