package value

import "testing"

func TestScalarStrings(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"nil", NilValue, "nil"},
		{"true", True, "true"},
		{"false", False, "false"},
		{"integer", Integer{Value: 42}, "42"},
		{"negative integer", Integer{Value: -7}, "-7"},
		{"float with fraction", Float{Value: 3.14}, "3.14"},
		{"integer-like float keeps decimal point", Float{Value: 42.0}, "42.0"},
		{"string escapes", String{Value: "a\"b\\c\n"}, `"a\"b\\c\n"`},
		{"character newline", Character{Value: '\n'}, `\newline`},
		{"character letter", Character{Value: 'x'}, `\x`},
		{"bare symbol", Symbol{Name: "foo"}, "foo"},
		{"namespaced symbol", Symbol{Namespace: "ns", Name: "foo"}, "ns/foo"},
		{"bare keyword", Keyword{Name: "foo"}, ":foo"},
		{"namespaced keyword", Keyword{Namespace: "ns", Name: "foo"}, ":ns/foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"nil is falsy", NilValue, false},
		{"false is falsy", False, false},
		{"true is truthy", True, true},
		{"zero integer is truthy", Integer{Value: 0}, true},
		{"empty string is truthy", String{Value: ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truthy(tt.v); got != tt.want {
				t.Errorf("Truthy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqualDistinguishesIntegerAndFloat(t *testing.T) {
	if Equal(Integer{Value: 1}, Float{Value: 1.0}) {
		t.Error("Integer(1) should not equal Float(1.0)")
	}
	if !Equal(Integer{Value: 1}, Integer{Value: 1}) {
		t.Error("Integer(1) should equal Integer(1)")
	}
}

func TestEqualListVsVector(t *testing.T) {
	l := NewList([]Value{Integer{Value: 1}, Integer{Value: 2}})
	v := NewVector([]Value{Integer{Value: 1}, Integer{Value: 2}})
	if Equal(l, v) {
		t.Error("a List and a Vector with identical elements must not be equal")
	}
}

func TestMapDuplicateKeysKeepLastValueFirstPosition(t *testing.T) {
	m := NewMap(
		[]Value{Keyword{Name: "a"}, Keyword{Name: "b"}, Keyword{Name: "a"}},
		[]Value{Integer{Value: 1}, Integer{Value: 2}, Integer{Value: 3}},
	)
	if m.Len() != 2 {
		t.Fatalf("expected 2 entries after de-duplication, got %d", m.Len())
	}
	got, ok := m.Get(Keyword{Name: "a"})
	if !ok || !Equal(got, Integer{Value: 3}) {
		t.Errorf("expected :a -> 3 (last write wins), got %v", got)
	}
	keys := m.Keys()
	if len(keys) != 2 || !Equal(keys[0], Keyword{Name: "a"}) {
		t.Errorf("expected :a to retain its first-insertion position, got keys=%v", keys)
	}
}

func TestSetDeduplicates(t *testing.T) {
	s := NewSet([]Value{
		Keyword{Name: "red"},
		Keyword{Name: "blue"},
		Keyword{Name: "red"},
	})
	if len(s.Elems) != 2 {
		t.Fatalf("expected 2 unique elements, got %d", len(s.Elems))
	}
	if !s.Contains(Keyword{Name: "blue"}) {
		t.Error("expected set to contain :blue")
	}
}

func TestMapAsMapKeyHashesContentSetLike(t *testing.T) {
	k1 := NewMap(
		[]Value{Keyword{Name: "a"}, Keyword{Name: "b"}},
		[]Value{Integer{Value: 1}, Integer{Value: 2}},
	)
	k2 := NewMap(
		[]Value{Keyword{Name: "b"}, Keyword{Name: "a"}},
		[]Value{Integer{Value: 2}, Integer{Value: 1}},
	)
	outer := NewMap([]Value{k1}, []Value{String{Value: "first"}})
	got, ok := outer.Get(k2)
	if !ok || !Equal(got, String{Value: "first"}) {
		t.Errorf("expected map-typed keys to hash order-independently over their own entries, got %v, ok=%v", got, ok)
	}
}

func TestCompareNumericCrossType(t *testing.T) {
	c, err := Compare(Integer{Value: 1}, Float{Value: 1.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c >= 0 {
		t.Errorf("expected 1 < 1.5, got comparison %d", c)
	}
}

func TestCompareCrossVariantIsError(t *testing.T) {
	if _, err := Compare(Integer{Value: 1}, String{Value: "x"}); err == nil {
		t.Error("expected an error comparing an Integer and a String")
	}
}
