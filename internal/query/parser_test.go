package query

import (
	"testing"

	"github.com/mtnygard/eq/internal/value"
)

func mustParse(t *testing.T, src string) Expression {
	t.Helper()
	expr, err := ParseQuery(src)
	if err != nil {
		t.Fatalf("ParseQuery(%q): unexpected error: %v", src, err)
	}
	return expr
}

func TestParseIdentityAndLiteral(t *testing.T) {
	if _, ok := mustParse(t, ".").(Identity); !ok {
		t.Error("expected Identity for \".\"")
	}
	lit, ok := mustParse(t, "42").(Literal)
	if !ok || !value.Equal(lit.Value, value.Integer{Value: 42}) {
		t.Errorf("expected Literal(42), got %#v", lit)
	}
}

func TestParseKeywordHeadBecomesKeywordLookup(t *testing.T) {
	call, ok := mustParse(t, "(:name .)").(Call)
	if !ok {
		t.Fatalf("expected Call, got %#v", call)
	}
	kl, ok := call.Head.(KeywordLookup)
	if !ok || kl.Keyword.Name != "name" {
		t.Errorf("expected KeywordLookup(:name), got %#v", call.Head)
	}
	if len(call.Args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(call.Args))
	}
}

func TestParseCallWithSymHead(t *testing.T) {
	call, ok := mustParse(t, "(map inc .)").(Call)
	if !ok {
		t.Fatalf("expected Call, got %#v", call)
	}
	sym, ok := call.Head.(Sym)
	if !ok || sym.Name != "map" {
		t.Errorf("expected head Sym(map), got %#v", call.Head)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}
}

func TestParseThreadFirstExpandsToNestedCalls(t *testing.T) {
	// (-> . (get :a) inc) => (inc (get . :a))
	expr := mustParse(t, "(-> . (get :a) inc)")
	outer, ok := expr.(Call)
	if !ok {
		t.Fatalf("expected outer Call, got %#v", expr)
	}
	if sym, ok := outer.Head.(Sym); !ok || sym.Name != "inc" {
		t.Errorf("expected outer head Sym(inc), got %#v", outer.Head)
	}
	if len(outer.Args) != 1 {
		t.Fatalf("expected 1 outer arg, got %d", len(outer.Args))
	}
	inner, ok := outer.Args[0].(Call)
	if !ok {
		t.Fatalf("expected inner Call, got %#v", outer.Args[0])
	}
	if sym, ok := inner.Head.(Sym); !ok || sym.Name != "get" {
		t.Errorf("expected inner head Sym(get), got %#v", inner.Head)
	}
	if len(inner.Args) != 2 {
		t.Fatalf("expected 2 inner args (identity first), got %d", len(inner.Args))
	}
	if _, ok := inner.Args[0].(Identity); !ok {
		t.Errorf("expected first inner arg to be the threaded seed (Identity), got %#v", inner.Args[0])
	}
}

func TestParseThreadLastPutsAccumulatorLast(t *testing.T) {
	expr := mustParse(t, "(->> . (map inc))")
	call, ok := expr.(Call)
	if !ok {
		t.Fatalf("expected Call, got %#v", expr)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}
	if _, ok := call.Args[1].(Identity); !ok {
		t.Errorf("expected seed to be threaded as the last arg, got %#v", call.Args[1])
	}
}

func TestParseAnonLambdaBareParam(t *testing.T) {
	lam, ok := mustParse(t, "#(inc %)").(Lambda)
	if !ok {
		t.Fatalf("expected Lambda, got %#v", lam)
	}
	if len(lam.Params) != 1 || lam.Params[0] != "%1" {
		t.Errorf("expected params [%%1], got %v", lam.Params)
	}
	call, ok := lam.Body.(Call)
	if !ok {
		t.Fatalf("expected body Call, got %#v", lam.Body)
	}
	sym, ok := call.Args[0].(Sym)
	if !ok || sym.Name != "%1" {
		t.Errorf("expected body to reference %%1 after rewrite, got %#v", call.Args[0])
	}
}

func TestParseAnonLambdaMultiParam(t *testing.T) {
	lam, ok := mustParse(t, "#(+ %1 %2)").(Lambda)
	if !ok {
		t.Fatalf("expected Lambda, got %#v", lam)
	}
	if len(lam.Params) != 2 || lam.Params[0] != "%1" || lam.Params[1] != "%2" {
		t.Errorf("expected params [%%1 %%2], got %v", lam.Params)
	}
}

func TestParseFn(t *testing.T) {
	lam, ok := mustParse(t, "(fn [x y] (+ x y))").(Lambda)
	if !ok {
		t.Fatalf("expected Lambda, got %#v", lam)
	}
	if len(lam.Params) != 2 || lam.Params[0] != "x" || lam.Params[1] != "y" {
		t.Errorf("expected params [x y], got %v", lam.Params)
	}
}

func TestParseIfWhenCondDo(t *testing.T) {
	if _, ok := mustParse(t, "(if . 1 2)").(If); !ok {
		t.Error("expected If")
	}
	if _, ok := mustParse(t, "(when . 1)").(When); !ok {
		t.Error("expected When")
	}
	cond, ok := mustParse(t, "(cond (nil? .) 1 :else 2)").(Cond)
	if !ok {
		t.Fatalf("expected Cond, got %#v", cond)
	}
	if len(cond.Clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(cond.Clauses))
	}
	if cond.Clauses[1].Test != nil {
		t.Errorf("expected :else clause to have nil Test, got %#v", cond.Clauses[1].Test)
	}
	if _, ok := mustParse(t, "(do 1 2 3)").(Do); !ok {
		t.Error("expected Do")
	}
}

func TestParseVecMapSetLiterals(t *testing.T) {
	vec, ok := mustParse(t, "[1 . 3]").(Vec)
	if !ok || len(vec.Elems) != 3 {
		t.Fatalf("expected 3-elem Vec, got %#v", vec)
	}
	m, ok := mustParse(t, "{:a 1 :b .}").(MapLit)
	if !ok || len(m.Keys) != 2 {
		t.Fatalf("expected 2-pair MapLit, got %#v", m)
	}
	s, ok := mustParse(t, "#{1 2 .}").(SetLit)
	if !ok || len(s.Elems) != 3 {
		t.Fatalf("expected 3-elem SetLit, got %#v", s)
	}
}

func TestParseMapLitOddFormsIsError(t *testing.T) {
	if _, err := ParseQuery("{:a 1 :b}"); err == nil {
		t.Fatal("expected an odd-map parse error")
	}
}

func TestParseUnterminatedCallIsError(t *testing.T) {
	if _, err := ParseQuery("(map inc ."); err == nil {
		t.Fatal("expected an unterminated-collection parse error")
	}
}
