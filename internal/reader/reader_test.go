package reader

import (
	"testing"

	"github.com/mtnygard/eq/internal/value"
)

func mustRead(t *testing.T, src string) value.Value {
	t.Helper()
	v, err := ReadEDN(src)
	if err != nil {
		t.Fatalf("ReadEDN(%q): unexpected error: %v", src, err)
	}
	return v
}

func TestReadScalars(t *testing.T) {
	cases := []struct {
		src  string
		want value.Value
	}{
		{"nil", value.NilValue},
		{"true", value.True},
		{"false", value.False},
		{"42", value.Integer{Value: 42}},
		{"-7", value.Integer{Value: -7}},
		{"3.5", value.Float{Value: 3.5}},
		{`"hi\n"`, value.String{Value: "hi\n"}},
		{`\a`, value.Character{Value: 'a'}},
		{`\newline`, value.Character{Value: '\n'}},
		{":foo", value.Keyword{Name: "foo"}},
		{":ns/foo", value.Keyword{Namespace: "ns", Name: "foo"}},
		{"sym", value.Symbol{Name: "sym"}},
		{"ns/sym", value.Symbol{Namespace: "ns", Name: "sym"}},
	}
	for _, c := range cases {
		got := mustRead(t, c.src)
		if !value.Equal(got, c.want) {
			t.Errorf("ReadEDN(%q) = %v, want %v", c.src, got, c.want)
		}
	}
}

func TestReadIntOverflowWithNSuffixIsParseError(t *testing.T) {
	_, err := ReadEDN("99999999999999999999999999N")
	if err == nil {
		t.Fatal("expected a parse error for an N-suffixed integer overflowing int64")
	}
}

func TestReadListVectorSet(t *testing.T) {
	lst := mustRead(t, "(1 2 3)")
	l, ok := lst.(value.List)
	if !ok || len(l.Elems) != 3 {
		t.Fatalf("got %#v, want a 3-element List", lst)
	}

	vec := mustRead(t, "[1 2 3]")
	v, ok := vec.(value.Vector)
	if !ok || len(v.Elems) != 3 {
		t.Fatalf("got %#v, want a 3-element Vector", vec)
	}

	set := mustRead(t, "#{1 2 2 3}")
	s, ok := set.(value.Set)
	if !ok || len(s.Elems) != 3 {
		t.Fatalf("got %#v, want a 3-element Set (deduped)", set)
	}
}

func TestReadMap(t *testing.T) {
	m := mustRead(t, `{:a 1 :b 2}`)
	mm, ok := m.(value.Map)
	if !ok || mm.Len() != 2 {
		t.Fatalf("got %#v, want a 2-entry Map", m)
	}
	got, found := mm.Get(value.Keyword{Name: "a"})
	if !found || !value.Equal(got, value.Integer{Value: 1}) {
		t.Errorf("Get(:a) = %v, %v", got, found)
	}
}

func TestReadMapOddFormsIsParseError(t *testing.T) {
	_, err := ReadEDN(`{:a 1 :b}`)
	if err == nil {
		t.Fatal("expected an odd-map parse error")
	}
}

func TestReadUnterminatedCollectionIsParseError(t *testing.T) {
	_, err := ReadEDN(`(1 2 3`)
	if err == nil {
		t.Fatal("expected an unterminated-collection parse error")
	}
}

func TestReadDoubleColonAliasIsParseError(t *testing.T) {
	_, err := ReadEDN("::alias")
	if err == nil {
		t.Fatal("expected a bad-keyword parse error for ::alias in a bare read")
	}
}

func TestReadTaggedLiteral(t *testing.T) {
	v := mustRead(t, "#my/tag [1 2]")
	tg, ok := v.(value.Tagged)
	if !ok {
		t.Fatalf("got %#v, want Tagged", v)
	}
	if tg.Tag.Namespace != "my" || tg.Tag.Name != "tag" {
		t.Errorf("tag = %v, want my/tag", tg.Tag)
	}
}

func TestReadDiscard(t *testing.T) {
	v := mustRead(t, "[1 #_2 3]")
	vec := v.(value.Vector)
	if len(vec.Elems) != 2 {
		t.Fatalf("got %d elems, want 2 (middle discarded)", len(vec.Elems))
	}
	if !value.Equal(vec.Elems[0], value.Integer{Value: 1}) || !value.Equal(vec.Elems[1], value.Integer{Value: 3}) {
		t.Errorf("got %v, want [1 3]", vec.Elems)
	}
}

func TestReadAllEDN(t *testing.T) {
	forms, err := ReadAllEDN("1 2 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forms) != 3 {
		t.Fatalf("got %d forms, want 3", len(forms))
	}
}

func TestReadLeadingDiscardTopLevel(t *testing.T) {
	forms, err := ReadAllEDN("#_1 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forms) != 1 || !value.Equal(forms[0], value.Integer{Value: 2}) {
		t.Fatalf("got %v, want [2]", forms)
	}
}
