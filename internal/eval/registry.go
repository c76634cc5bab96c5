package eval

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mtnygard/eq/internal/diag"
	"github.com/mtnygard/eq/internal/query"
	"github.com/mtnygard/eq/internal/render"
	"github.com/mtnygard/eq/internal/value"
)

// Builtin is one entry of the registry B (spec.md §4.4). MaxArity of -1
// means unbounded.
type Builtin struct {
	Name     string
	MinArity int
	MaxArity int
	// CollFirst marks a builtin whose collection/subject argument is
	// conventionally first (get, get-in, select-keys, contains?), so legacy
	// single-arg sugar (spec.md: "treat the current input as the implicit
	// last argument") fills the current input in as that leading subject
	// instead of appending it after the argument actually given.
	CollFirst bool
	Call      func(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error)
}

var builtinRegistry = map[string]Builtin{}

func register(b Builtin) {
	builtinRegistry[b.Name] = b
}

func init() {
	registerLookupBuiltins()
	registerSeqBuiltins()
	registerHigherOrderBuiltins()
	registerPredicateBuiltins()
	registerComparisonBuiltins()
	registerArithmeticBuiltins()
	registerLogicalBuiltins()
	registerSupplementalBuiltins()
}

func typeErr(ev *Evaluator, pos query.Pos, format string, args ...any) error {
	return ev.evalErr(diag.TypeError, fmt.Sprintf(format, args...), pos)
}

// seqElems extracts the element slice of a List, Vector, or Set, or reports
// a type error.
func seqElems(ev *Evaluator, v value.Value, pos query.Pos, who string) ([]value.Value, error) {
	elems, ok := value.Seq(v)
	if !ok {
		return nil, typeErr(ev, pos, "%s expects a list, vector, or set, got %s", who, v.Kind())
	}
	return elems, nil
}

// rebuildLike returns a new collection of the same kind as template (List or
// Vector; Set and anything else default to Vector) holding elems.
func rebuildLike(template value.Value, elems []value.Value) value.Value {
	switch template.(type) {
	case value.List:
		return value.NewList(elems)
	default:
		return value.NewVector(elems)
	}
}

func asInt(ev *Evaluator, v value.Value, pos query.Pos, who string) (int64, error) {
	i, ok := v.(value.Integer)
	if !ok {
		return 0, typeErr(ev, pos, "%s expects an integer, got %s", who, v.Kind())
	}
	return i.Value, nil
}

// --- lookup builtins: get, get-in, select-keys, contains? ------------------

func registerLookupBuiltins() {
	register(Builtin{Name: "get", MinArity: 2, MaxArity: 3, CollFirst: true, Call: biGet})
	register(Builtin{Name: "get-in", MinArity: 2, MaxArity: 2, CollFirst: true, Call: biGetIn})
	register(Builtin{Name: "select-keys", MinArity: 2, MaxArity: 2, CollFirst: true, Call: biSelectKeys})
	register(Builtin{Name: "contains?", MinArity: 2, MaxArity: 2, CollFirst: true, Call: biContains})
	register(Builtin{Name: "keys", MinArity: 1, MaxArity: 1, Call: biKeys})
	register(Builtin{Name: "vals", MinArity: 1, MaxArity: 1, Call: biVals})
}

func biGet(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	coll, key := args[0], args[1]
	var dflt value.Value = value.NilValue
	if len(args) == 3 {
		dflt = args[2]
	}
	switch c := coll.(type) {
	case value.Map:
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		return dflt, nil
	case value.Vector:
		idx, ok := key.(value.Integer)
		if !ok || idx.Value < 0 || int(idx.Value) >= len(c.Elems) {
			return dflt, nil
		}
		return c.Elems[idx.Value], nil
	default:
		return nil, typeErr(ev, pos, "get expects a map or vector, got %s", coll.Kind())
	}
}

func biGetIn(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	path, ok := value.Seq(args[1])
	if !ok {
		return nil, typeErr(ev, pos, "get-in expects a path vector, got %s", args[1].Kind())
	}
	cur := args[0]
	for _, k := range path {
		v, err := biGet(ev, []value.Value{cur, k}, pos)
		if err != nil {
			return nil, err
		}
		cur = v
	}
	return cur, nil
}

func biSelectKeys(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	m, ok := args[0].(value.Map)
	if !ok {
		return nil, typeErr(ev, pos, "select-keys expects a map, got %s", args[0].Kind())
	}
	wanted, ok := value.Seq(args[1])
	if !ok {
		return nil, typeErr(ev, pos, "select-keys expects a key vector, got %s", args[1].Kind())
	}
	var keys, vals []value.Value
	for _, k := range wanted {
		if v, ok := m.Get(k); ok {
			keys = append(keys, k)
			vals = append(vals, v)
		}
	}
	return value.NewMap(keys, vals), nil
}

func biContains(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	switch c := args[0].(type) {
	case value.Map:
		_, ok := c.Get(args[1])
		return value.BoolOf(ok), nil
	case value.Set:
		return value.BoolOf(c.Contains(args[1])), nil
	case value.Vector:
		idx, ok := args[1].(value.Integer)
		return value.BoolOf(ok && idx.Value >= 0 && int(idx.Value) < len(c.Elems)), nil
	default:
		return nil, typeErr(ev, pos, "contains? expects a map, set, or vector, got %s", args[0].Kind())
	}
}

func biKeys(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	m, ok := args[0].(value.Map)
	if !ok {
		return nil, typeErr(ev, pos, "keys expects a map, got %s", args[0].Kind())
	}
	return value.NewVector(append([]value.Value{}, m.Keys()...)), nil
}

func biVals(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	m, ok := args[0].(value.Map)
	if !ok {
		return nil, typeErr(ev, pos, "vals expects a map, got %s", args[0].Kind())
	}
	return value.NewVector(append([]value.Value{}, m.Vals()...)), nil
}

// --- sequence builtins: first, last, rest, nth, take, drop, count ---------

func registerSeqBuiltins() {
	register(Builtin{Name: "first", MinArity: 1, MaxArity: 1, Call: biFirst})
	register(Builtin{Name: "last", MinArity: 1, MaxArity: 1, Call: biLast})
	register(Builtin{Name: "rest", MinArity: 1, MaxArity: 1, Call: biRest})
	register(Builtin{Name: "nth", MinArity: 2, MaxArity: 2, Call: biNth})
	register(Builtin{Name: "take", MinArity: 2, MaxArity: 2, Call: biTake})
	register(Builtin{Name: "drop", MinArity: 2, MaxArity: 2, Call: biDrop})
	register(Builtin{Name: "count", MinArity: 1, MaxArity: 1, Call: biCount})
}

func biFirst(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	elems, err := seqElems(ev, args[0], pos, "first")
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return value.NilValue, nil
	}
	return elems[0], nil
}

func biLast(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	elems, err := seqElems(ev, args[0], pos, "last")
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return value.NilValue, nil
	}
	return elems[len(elems)-1], nil
}

func biRest(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	elems, err := seqElems(ev, args[0], pos, "rest")
	if err != nil {
		return nil, err
	}
	if len(elems) <= 1 {
		return rebuildLike(args[0], nil), nil
	}
	return rebuildLike(args[0], append([]value.Value{}, elems[1:]...)), nil
}

func biNth(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	elems, err := seqElems(ev, args[0], pos, "nth")
	if err != nil {
		return nil, err
	}
	idx, err := asInt(ev, args[1], pos, "nth")
	if err != nil {
		return nil, err
	}
	if idx < 0 || int(idx) >= len(elems) {
		return nil, ev.evalErr(diag.IndexOutOfRange, fmt.Sprintf("index %d out of range for a collection of length %d", idx, len(elems)), pos)
	}
	return elems[idx], nil
}

func clampRange(n, length int) int {
	if n < 0 {
		return 0
	}
	if n > length {
		return length
	}
	return n
}

func biTake(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	elems, err := seqElems(ev, args[0], pos, "take")
	if err != nil {
		return nil, err
	}
	n, err := asInt(ev, args[1], pos, "take")
	if err != nil {
		return nil, err
	}
	k := clampRange(int(n), len(elems))
	return rebuildLike(args[0], append([]value.Value{}, elems[:k]...)), nil
}

func biDrop(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	elems, err := seqElems(ev, args[0], pos, "drop")
	if err != nil {
		return nil, err
	}
	n, err := asInt(ev, args[1], pos, "drop")
	if err != nil {
		return nil, err
	}
	k := clampRange(int(n), len(elems))
	return rebuildLike(args[0], append([]value.Value{}, elems[k:]...)), nil
}

func biCount(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	switch t := args[0].(type) {
	case value.String:
		return value.Integer{Value: int64(utf8.RuneCountInString(t.Value))}, nil
	case value.Map:
		return value.Integer{Value: int64(t.Len())}, nil
	default:
		elems, ok := value.Seq(args[0])
		if !ok {
			return nil, typeErr(ev, pos, "count expects a collection or string, got %s", args[0].Kind())
		}
		return value.Integer{Value: int64(len(elems))}, nil
	}
}

// --- higher-order builtins: map, filter, remove, reduce, apply, group-by, frequencies

func registerHigherOrderBuiltins() {
	register(Builtin{Name: "map", MinArity: 2, MaxArity: 2, Call: biMap})
	register(Builtin{Name: "filter", MinArity: 2, MaxArity: 2, Call: biFilter})
	register(Builtin{Name: "select", MinArity: 2, MaxArity: 2, Call: biFilter})
	register(Builtin{Name: "remove", MinArity: 2, MaxArity: 2, Call: biRemove})
	register(Builtin{Name: "reduce", MinArity: 2, MaxArity: 3, Call: biReduce})
	register(Builtin{Name: "apply", MinArity: 2, MaxArity: 2, Call: biApply})
	register(Builtin{Name: "group-by", MinArity: 2, MaxArity: 2, Call: biGroupBy})
	register(Builtin{Name: "frequencies", MinArity: 1, MaxArity: 1, Call: biFrequencies})
}

func biMap(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	elems, err := seqElems(ev, args[1], pos, "map")
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, len(elems))
	for i, e := range elems {
		v, err := ev.invokeValue(args[0], []value.Value{e}, pos)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return value.NewVector(out), nil
}

func biFilter(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	elems, err := seqElems(ev, args[1], pos, "filter")
	if err != nil {
		return nil, err
	}
	var out []value.Value
	for _, e := range elems {
		v, err := ev.invokeValue(args[0], []value.Value{e}, pos)
		if err != nil {
			return nil, err
		}
		if value.Truthy(v) {
			out = append(out, e)
		}
	}
	return value.NewVector(out), nil
}

func biRemove(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	elems, err := seqElems(ev, args[1], pos, "remove")
	if err != nil {
		return nil, err
	}
	var out []value.Value
	for _, e := range elems {
		v, err := ev.invokeValue(args[0], []value.Value{e}, pos)
		if err != nil {
			return nil, err
		}
		if !value.Truthy(v) {
			out = append(out, e)
		}
	}
	return value.NewVector(out), nil
}

func biReduce(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	f := args[0]
	var init value.Value
	var elems []value.Value
	var err error
	if len(args) == 3 {
		init = args[1]
		elems, err = seqElems(ev, args[2], pos, "reduce")
	} else {
		elems, err = seqElems(ev, args[1], pos, "reduce")
		if err == nil {
			if len(elems) == 0 {
				return nil, typeErr(ev, pos, "reduce of an empty collection with no initial value")
			}
			init = elems[0]
			elems = elems[1:]
		}
	}
	if err != nil {
		return nil, err
	}
	acc := init
	for _, e := range elems {
		acc, err = ev.invokeValue(f, []value.Value{acc, e}, pos)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func biApply(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	elems, err := seqElems(ev, args[1], pos, "apply")
	if err != nil {
		return nil, err
	}
	return ev.invokeValue(args[0], elems, pos)
}

func biGroupBy(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	elems, err := seqElems(ev, args[1], pos, "group-by")
	if err != nil {
		return nil, err
	}
	var keys []value.Value
	groups := map[string][]value.Value{}
	order := map[string]int{}
	for _, e := range elems {
		k, err := ev.invokeValue(args[0], []value.Value{e}, pos)
		if err != nil {
			return nil, err
		}
		hk := keyHash(k)
		if _, seen := order[hk]; !seen {
			order[hk] = len(keys)
			keys = append(keys, k)
		}
		groups[hk] = append(groups[hk], e)
	}
	vals := make([]value.Value, len(keys))
	for i, k := range keys {
		vals[i] = value.NewVector(groups[keyHash(k)])
	}
	return value.NewMap(keys, vals), nil
}

func biFrequencies(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	elems, err := seqElems(ev, args[0], pos, "frequencies")
	if err != nil {
		return nil, err
	}
	var keys []value.Value
	counts := map[string]int64{}
	order := map[string]int{}
	for _, e := range elems {
		hk := keyHash(e)
		if _, seen := order[hk]; !seen {
			order[hk] = len(keys)
			keys = append(keys, e)
		}
		counts[hk]++
	}
	vals := make([]value.Value, len(keys))
	for i, k := range keys {
		vals[i] = value.Integer{Value: counts[keyHash(k)]}
	}
	return value.NewMap(keys, vals), nil
}

// keyHash gives group-by/frequencies a stable grouping key matching the
// same structural-equality notion Map and Set use for their own keys.
func keyHash(v value.Value) string {
	return value.HashKey(v)
}

// --- type predicates --------------------------------------------------

func registerPredicateBuiltins() {
	register(Builtin{Name: "nil?", MinArity: 1, MaxArity: 1, Call: predicate(func(v value.Value) bool { _, ok := v.(value.Nil); return ok })})
	register(Builtin{Name: "number?", MinArity: 1, MaxArity: 1, Call: predicate(func(v value.Value) bool {
		switch v.(type) {
		case value.Integer, value.Float:
			return true
		}
		return false
	})})
	register(Builtin{Name: "string?", MinArity: 1, MaxArity: 1, Call: predicate(func(v value.Value) bool { _, ok := v.(value.String); return ok })})
	register(Builtin{Name: "keyword?", MinArity: 1, MaxArity: 1, Call: predicate(func(v value.Value) bool { _, ok := v.(value.Keyword); return ok })})
	register(Builtin{Name: "boolean?", MinArity: 1, MaxArity: 1, Call: predicate(func(v value.Value) bool { _, ok := v.(value.Bool); return ok })})
	register(Builtin{Name: "empty?", MinArity: 1, MaxArity: 1, Call: biEmpty})
}

func predicate(pred func(value.Value) bool) func(*Evaluator, []value.Value, query.Pos) (value.Value, error) {
	return func(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
		return value.BoolOf(pred(args[0])), nil
	}
}

func biEmpty(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	switch t := args[0].(type) {
	case value.String:
		return value.BoolOf(t.Value == ""), nil
	case value.Map:
		return value.BoolOf(t.Len() == 0), nil
	default:
		elems, ok := value.Seq(args[0])
		if !ok {
			return nil, typeErr(ev, pos, "empty? expects a collection or string, got %s", args[0].Kind())
		}
		return value.BoolOf(len(elems) == 0), nil
	}
}

// --- comparisons: =, <, >, <=, >= --------------------------------------

func registerComparisonBuiltins() {
	register(Builtin{Name: "=", MinArity: 2, MaxArity: -1, Call: biEq})
	register(Builtin{Name: "<", MinArity: 2, MaxArity: -1, Call: numericChain(func(c int) bool { return c < 0 })})
	register(Builtin{Name: ">", MinArity: 2, MaxArity: -1, Call: numericChain(func(c int) bool { return c > 0 })})
	register(Builtin{Name: "<=", MinArity: 2, MaxArity: -1, Call: numericChain(func(c int) bool { return c <= 0 })})
	register(Builtin{Name: ">=", MinArity: 2, MaxArity: -1, Call: numericChain(func(c int) bool { return c >= 0 })})
}

func biEq(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	for i := 1; i < len(args); i++ {
		if !value.Equal(args[0], args[i]) {
			return value.False, nil
		}
	}
	return value.True, nil
}

func isNumeric(v value.Value) bool {
	switch v.(type) {
	case value.Integer, value.Float:
		return true
	}
	return false
}

func numericChain(ok func(int) bool) func(*Evaluator, []value.Value, query.Pos) (value.Value, error) {
	return func(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
		for _, a := range args {
			if !isNumeric(a) {
				return nil, typeErr(ev, pos, "expected a number, got %s", a.Kind())
			}
		}
		for i := 0; i+1 < len(args); i++ {
			c, err := value.Compare(args[i], args[i+1])
			if err != nil {
				return nil, ev.evalErr(diag.TypeError, err.Error(), pos)
			}
			if !ok(c) {
				return value.False, nil
			}
		}
		return value.True, nil
	}
}

// --- arithmetic: +, -, *, /, mod ----------------------------------------

func registerArithmeticBuiltins() {
	register(Builtin{Name: "+", MinArity: 2, MaxArity: -1, Call: biAdd})
	register(Builtin{Name: "-", MinArity: 1, MaxArity: -1, Call: biSub})
	register(Builtin{Name: "*", MinArity: 2, MaxArity: -1, Call: biMul})
	register(Builtin{Name: "/", MinArity: 2, MaxArity: -1, Call: biDiv})
	register(Builtin{Name: "mod", MinArity: 2, MaxArity: 2, Call: biMod})
}

func numAdd(a, b value.Value) value.Value {
	ai, aInt := a.(value.Integer)
	bi, bInt := b.(value.Integer)
	if aInt && bInt {
		return value.Integer{Value: ai.Value + bi.Value}
	}
	return value.Float{Value: toFloat(a) + toFloat(b)}
}

func toFloat(v value.Value) float64 {
	switch t := v.(type) {
	case value.Integer:
		return float64(t.Value)
	case value.Float:
		return t.Value
	default:
		return 0
	}
}

func biAdd(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	if err := requireAllNumeric(ev, args, pos, "+"); err != nil {
		return nil, err
	}
	acc := args[0]
	for _, a := range args[1:] {
		acc = numAdd(acc, a)
	}
	return acc, nil
}

func biSub(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	if err := requireAllNumeric(ev, args, pos, "-"); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		if i, ok := args[0].(value.Integer); ok {
			return value.Integer{Value: -i.Value}, nil
		}
		return value.Float{Value: -toFloat(args[0])}, nil
	}
	acc := args[0]
	for _, a := range args[1:] {
		ai, aInt := acc.(value.Integer)
		bi, bInt := a.(value.Integer)
		if aInt && bInt {
			acc = value.Integer{Value: ai.Value - bi.Value}
		} else {
			acc = value.Float{Value: toFloat(acc) - toFloat(a)}
		}
	}
	return acc, nil
}

func biMul(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	if err := requireAllNumeric(ev, args, pos, "*"); err != nil {
		return nil, err
	}
	acc := args[0]
	for _, a := range args[1:] {
		ai, aInt := acc.(value.Integer)
		bi, bInt := a.(value.Integer)
		if aInt && bInt {
			acc = value.Integer{Value: ai.Value * bi.Value}
		} else {
			acc = value.Float{Value: toFloat(acc) * toFloat(a)}
		}
	}
	return acc, nil
}

func biDiv(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	if err := requireAllNumeric(ev, args, pos, "/"); err != nil {
		return nil, err
	}
	acc := args[0]
	for _, a := range args[1:] {
		if toFloat(a) == 0 {
			return nil, ev.evalErr(diag.DivisionByZero, "division by zero", pos)
		}
		ai, aInt := acc.(value.Integer)
		bi, bInt := a.(value.Integer)
		if aInt && bInt && ai.Value%bi.Value == 0 {
			acc = value.Integer{Value: ai.Value / bi.Value}
		} else {
			acc = value.Float{Value: toFloat(acc) / toFloat(a)}
		}
	}
	return acc, nil
}

func biMod(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	a, err := asInt(ev, args[0], pos, "mod")
	if err != nil {
		return nil, err
	}
	b, err := asInt(ev, args[1], pos, "mod")
	if err != nil {
		return nil, err
	}
	if b == 0 {
		return nil, ev.evalErr(diag.DivisionByZero, "division by zero", pos)
	}
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return value.Integer{Value: m}, nil
}

func requireAllNumeric(ev *Evaluator, args []value.Value, pos query.Pos, name string) error {
	for _, a := range args {
		if !isNumeric(a) {
			return typeErr(ev, pos, "%s expects numbers, got %s", name, a.Kind())
		}
	}
	return nil
}

// --- logical: not (and/or are special-cased in eval.go for short-circuiting) --

func registerLogicalBuiltins() {
	register(Builtin{Name: "not", MinArity: 1, MaxArity: 1, Call: biNot})
	register(Builtin{Name: "str", MinArity: 0, MaxArity: -1, Call: biStr})
}

func biNot(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	return value.BoolOf(!value.Truthy(args[0])), nil
}

func biStr(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	var b strings.Builder
	for _, a := range args {
		if s, ok := a.(value.String); ok {
			b.WriteString(s.Value)
		} else {
			b.WriteString(a.String())
		}
	}
	return value.String{Value: b.String()}, nil
}

// --- supplemental builtins (SPEC_FULL.md, not in spec.md's required table) --

func registerSupplementalBuiltins() {
	register(Builtin{Name: "sort", MinArity: 1, MaxArity: 1, Call: biSort})
	register(Builtin{Name: "sort-by", MinArity: 2, MaxArity: 2, Call: biSortBy})
	register(Builtin{Name: "reverse", MinArity: 1, MaxArity: 1, Call: biReverse})
	register(Builtin{Name: "distinct", MinArity: 1, MaxArity: 1, Call: biDistinct})
	register(Builtin{Name: "concat", MinArity: 1, MaxArity: -1, Call: biConcat})
	register(Builtin{Name: "assoc", MinArity: 3, MaxArity: -1, CollFirst: true, Call: biAssoc})
	register(Builtin{Name: "dissoc", MinArity: 2, MaxArity: -1, CollFirst: true, Call: biDissoc})
	register(Builtin{Name: "update", MinArity: 3, MaxArity: 3, CollFirst: true, Call: biUpdate})
	register(Builtin{Name: "conj", MinArity: 2, MaxArity: -1, CollFirst: true, Call: biConj})
	register(Builtin{Name: "collate", MinArity: 2, MaxArity: 2, Call: biCollate})
	register(Builtin{Name: "to-json", MinArity: 1, MaxArity: 1, Call: biToJSON})
}

func biSort(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	elems, err := seqElems(ev, args[0], pos, "sort")
	if err != nil {
		return nil, err
	}
	out := append([]value.Value{}, elems...)
	var sortErr error
	sort.SliceStable(out, func(i, j int) bool {
		c, err := value.Compare(out[i], out[j])
		if err != nil {
			sortErr = err
			return false
		}
		return c < 0
	})
	if sortErr != nil {
		return nil, ev.evalErr(diag.TypeError, sortErr.Error(), pos)
	}
	return value.NewVector(out), nil
}

func biSortBy(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	elems, err := seqElems(ev, args[1], pos, "sort-by")
	if err != nil {
		return nil, err
	}
	keyed := make([]value.Value, len(elems))
	for i, e := range elems {
		k, err := ev.invokeValue(args[0], []value.Value{e}, pos)
		if err != nil {
			return nil, err
		}
		keyed[i] = k
	}
	idx := make([]int, len(elems))
	for i := range idx {
		idx[i] = i
	}
	var sortErr error
	sort.SliceStable(idx, func(i, j int) bool {
		c, err := value.Compare(keyed[idx[i]], keyed[idx[j]])
		if err != nil {
			sortErr = err
			return false
		}
		return c < 0
	})
	if sortErr != nil {
		return nil, ev.evalErr(diag.TypeError, sortErr.Error(), pos)
	}
	out := make([]value.Value, len(elems))
	for i, j := range idx {
		out[i] = elems[j]
	}
	return value.NewVector(out), nil
}

func biReverse(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	elems, err := seqElems(ev, args[0], pos, "reverse")
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, len(elems))
	for i, e := range elems {
		out[len(elems)-1-i] = e
	}
	return rebuildLike(args[0], out), nil
}

func biDistinct(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	elems, err := seqElems(ev, args[0], pos, "distinct")
	if err != nil {
		return nil, err
	}
	var out []value.Value
	for _, e := range elems {
		dup := false
		for _, o := range out {
			if value.Equal(e, o) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, e)
		}
	}
	return value.NewVector(out), nil
}

func biConcat(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	var out []value.Value
	for _, a := range args {
		elems, err := seqElems(ev, a, pos, "concat")
		if err != nil {
			return nil, err
		}
		out = append(out, elems...)
	}
	return value.NewVector(out), nil
}

func biAssoc(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	m, ok := args[0].(value.Map)
	if !ok {
		return nil, typeErr(ev, pos, "assoc expects a map, got %s", args[0].Kind())
	}
	rest := args[1:]
	if len(rest)%2 != 0 {
		return nil, ev.evalErr(diag.ArityMismatch, "assoc requires key/value pairs", pos)
	}
	for i := 0; i < len(rest); i += 2 {
		m = m.Assoc(rest[i], rest[i+1])
	}
	return m, nil
}

func biDissoc(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	m, ok := args[0].(value.Map)
	if !ok {
		return nil, typeErr(ev, pos, "dissoc expects a map, got %s", args[0].Kind())
	}
	for _, k := range args[1:] {
		m = m.Dissoc(k)
	}
	return m, nil
}

func biUpdate(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	m, ok := args[0].(value.Map)
	if !ok {
		return nil, typeErr(ev, pos, "update expects a map, got %s", args[0].Kind())
	}
	cur, _ := m.Get(args[1])
	next, err := ev.invokeValue(args[2], []value.Value{cur}, pos)
	if err != nil {
		return nil, err
	}
	return m.Assoc(args[1], next), nil
}

func biConj(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	switch c := args[0].(type) {
	case value.Set:
		out := c
		for _, x := range args[1:] {
			out = out.Conj(x)
		}
		return out, nil
	case value.Vector:
		return value.NewVector(append(append([]value.Value{}, c.Elems...), args[1:]...)), nil
	case value.List:
		out := append([]value.Value{}, c.Elems...)
		for _, x := range args[1:] {
			out = append([]value.Value{x}, out...)
		}
		return value.NewList(out), nil
	default:
		return nil, typeErr(ev, pos, "conj expects a list, vector, or set, got %s", args[0].Kind())
	}
}

var collator = collate.New(language.Und)

func biCollate(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	a, ok := args[0].(value.String)
	if !ok {
		return nil, typeErr(ev, pos, "collate expects strings, got %s", args[0].Kind())
	}
	b, ok := args[1].(value.String)
	if !ok {
		return nil, typeErr(ev, pos, "collate expects strings, got %s", args[1].Kind())
	}
	return value.Integer{Value: int64(collator.CompareString(a.Value, b.Value))}, nil
}

func biToJSON(ev *Evaluator, args []value.Value, pos query.Pos) (value.Value, error) {
	s, err := render.JSON(args[0], render.Compact())
	if err != nil {
		return nil, err
	}
	return value.String{Value: s}, nil
}
