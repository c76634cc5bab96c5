package eval

import (
	"testing"

	"github.com/mtnygard/eq/internal/query"
	"github.com/mtnygard/eq/internal/reader"
	"github.com/mtnygard/eq/internal/value"
)

func mustEval(t *testing.T, filter, doc string) value.Value {
	t.Helper()
	expr, err := query.ParseQuery(filter)
	if err != nil {
		t.Fatalf("ParseQuery(%q): unexpected error: %v", filter, err)
	}
	input, err := reader.ReadEDN(doc)
	if err != nil {
		t.Fatalf("ReadEDN(%q): unexpected error: %v", doc, err)
	}
	got, err := Evaluate(expr, input)
	if err != nil {
		t.Fatalf("Evaluate(%q, %q): unexpected error: %v", filter, doc, err)
	}
	return got
}

func evalErr(t *testing.T, filter, doc string) error {
	t.Helper()
	expr, err := query.ParseQuery(filter)
	if err != nil {
		t.Fatalf("ParseQuery(%q): unexpected error: %v", filter, err)
	}
	input, err := reader.ReadEDN(doc)
	if err != nil {
		t.Fatalf("ReadEDN(%q): unexpected error: %v", doc, err)
	}
	_, err = Evaluate(expr, input)
	return err
}

func TestEvalIdentityAndLiteral(t *testing.T) {
	if got := mustEval(t, ".", "42"); !value.Equal(got, value.Integer{Value: 42}) {
		t.Errorf("got %v", got)
	}
	if got := mustEval(t, "true", "nil"); !value.Equal(got, value.True) {
		t.Errorf("got %v", got)
	}
}

func TestEvalKeywordLookup(t *testing.T) {
	got := mustEval(t, "(:a .)", "{:a 1 :b 2}")
	if !value.Equal(got, value.Integer{Value: 1}) {
		t.Errorf("got %v", got)
	}
	got = mustEval(t, "(:missing .)", "{:a 1}")
	if !value.Equal(got, value.NilValue) {
		t.Errorf("expected nil for missing key, got %v", got)
	}
}

func TestEvalMapFilterReduce(t *testing.T) {
	got := mustEval(t, "(map #(+ % 1) .)", "[1 2 3]")
	want := value.NewVector([]value.Value{value.Integer{Value: 2}, value.Integer{Value: 3}, value.Integer{Value: 4}})
	if !value.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	got = mustEval(t, "(filter #(= 1 (mod % 2)) .)", "[1 2 3 4 5]")
	want = value.NewVector([]value.Value{value.Integer{Value: 1}, value.Integer{Value: 3}, value.Integer{Value: 5}})
	if !value.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	got = mustEval(t, "(reduce + 0 .)", "[1 2 3 4]")
	if !value.Equal(got, value.Integer{Value: 10}) {
		t.Errorf("got %v", got)
	}
}

func TestEvalAnonLambda(t *testing.T) {
	got := mustEval(t, "(map #(* % 2) .)", "[1 2 3]")
	want := value.NewVector([]value.Value{value.Integer{Value: 2}, value.Integer{Value: 4}, value.Integer{Value: 6}})
	if !value.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEvalThreadingMacro(t *testing.T) {
	got := mustEval(t, "(-> . (get :a) (+ 1))", "{:a 10}")
	if !value.Equal(got, value.Integer{Value: 11}) {
		t.Errorf("got %v", got)
	}
}

func TestEvalKeywordAsFunction(t *testing.T) {
	got := mustEval(t, "(map :a .)", "[{:a 1} {:a 2}]")
	want := value.NewVector([]value.Value{value.Integer{Value: 1}, value.Integer{Value: 2}})
	if !value.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEvalAndOrShortCircuit(t *testing.T) {
	got := mustEval(t, "(and (:a .) (:b .))", "{:a 1 :b 2}")
	if !value.Equal(got, value.Integer{Value: 2}) {
		t.Errorf("got %v", got)
	}
	got = mustEval(t, "(or nil false 3)", "nil")
	if !value.Equal(got, value.Integer{Value: 3}) {
		t.Errorf("got %v", got)
	}
}

func TestEvalIfCondWhenDo(t *testing.T) {
	got := mustEval(t, "(if (> . 0) :pos :nonpos)", "5")
	if !value.Equal(got, value.Keyword{Name: "pos"}) {
		t.Errorf("got %v", got)
	}
	got = mustEval(t, "(cond (nil? .) :n (number? .) :num :else :other)", "7")
	if !value.Equal(got, value.Keyword{Name: "num"}) {
		t.Errorf("got %v", got)
	}
	got = mustEval(t, "(when (> . 0) :yes)", "-1")
	if !value.Equal(got, value.NilValue) {
		t.Errorf("got %v", got)
	}
	got = mustEval(t, "(do 1 2 3)", "nil")
	if !value.Equal(got, value.Integer{Value: 3}) {
		t.Errorf("got %v", got)
	}
}

func TestEvalUnknownSymbolIsEvalError(t *testing.T) {
	if err := evalErr(t, "(bogus .)", "1"); err == nil {
		t.Fatal("expected an unknown-symbol eval error")
	}
}

func TestEvalArityMismatchIsEvalError(t *testing.T) {
	if err := evalErr(t, "(get)", "1"); err == nil {
		t.Fatal("expected an arity-mismatch eval error")
	}
}

func TestEvalDivisionByZeroIsEvalError(t *testing.T) {
	if err := evalErr(t, "(/ 1 0)", "nil"); err == nil {
		t.Fatal("expected a division-by-zero eval error")
	}
}

func TestEvalTypeErrorIsEvalError(t *testing.T) {
	if err := evalErr(t, "(+ . 1)", `"x"`); err == nil {
		t.Fatal("expected a type error adding a string")
	}
}

func TestEvalLegacySugarArityPadding(t *testing.T) {
	// get takes (coll key), but may be called with just (key) against the
	// current input per the legacy single-arg sugar (spec.md §4.4).
	got := mustEval(t, "(get :a)", "{:a 1}")
	if !value.Equal(got, value.Integer{Value: 1}) {
		t.Errorf("got %v", got)
	}
}

func TestEvalStackOverflowGuard(t *testing.T) {
	ev := New("")
	ev.MaxDepth = 4
	expr, err := query.ParseQuery("(+ 1 (+ 1 (+ 1 (+ 1 (+ 1 1)))))")
	if err != nil {
		t.Fatalf("ParseQuery: unexpected error: %v", err)
	}
	if _, err := ev.Evaluate(expr, value.NilValue); err == nil {
		t.Fatal("expected a stack-overflow eval error with a shallow MaxDepth")
	}
}
