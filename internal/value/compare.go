package value

import (
	"fmt"
	"strings"
)

// Compare implements the ordering used by sort-like built-ins (spec.md §3.1
// "Ordering"): numeric variants compare numerically across Integer/Float,
// strings compare lexicographically by code point, and any other
// cross-variant (or unorderable) comparison is an error.
func Compare(a, b Value) (int, error) {
	an, aIsNum := asFloat(a)
	bn, bIsNum := asFloat(b)
	if aIsNum && bIsNum {
		switch {
		case an < bn:
			return -1, nil
		case an > bn:
			return 1, nil
		default:
			return 0, nil
		}
	}

	as, aIsStr := a.(String)
	bs, bIsStr := b.(String)
	if aIsStr && bIsStr {
		return strings.Compare(as.Value, bs.Value), nil
	}

	return 0, fmt.Errorf("cannot order %s and %s", a.Kind(), b.Kind())
}

func asFloat(v Value) (float64, bool) {
	switch t := v.(type) {
	case Integer:
		return float64(t.Value), true
	case Float:
		return t.Value, true
	default:
		return 0, false
	}
}
