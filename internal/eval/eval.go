// Package eval implements the tree-walking evaluator (E) and built-in
// registry (B) of spec.md §4.4, following the teacher's recursive-descent
// Eval-over-AST shape (internal/interp's statement/expression evaluator).
package eval

import (
	"fmt"

	"github.com/mtnygard/eq/internal/diag"
	"github.com/mtnygard/eq/internal/query"
	"github.com/mtnygard/eq/internal/value"
)

const defaultMaxDepth = 4096

// Evaluator runs a single query Expression against one or more input
// documents. It is not safe for concurrent use by multiple goroutines
// (spec.md §5: "single-threaded and synchronous"), but independent
// Evaluators may run concurrently over independent documents.
type Evaluator struct {
	// Source is the filter text, used only to render the caret/context block
	// of an EvalError (diag.EvalError.Source).
	Source   string
	MaxDepth int
	depth    int
}

// New creates an Evaluator. source is the original filter text, used for
// diagnostic rendering only.
func New(source string) *Evaluator {
	return &Evaluator{Source: source, MaxDepth: defaultMaxDepth}
}

// Evaluate runs expr against input with a fresh root environment
// (spec.md §6.1: evaluate(expr, input) → Value | EvalError).
func (ev *Evaluator) Evaluate(expr query.Expression, input value.Value) (value.Value, error) {
	return ev.eval(expr, input, NewEnv(nil))
}

// Evaluate is the package-level convenience form of Evaluator.Evaluate,
// using an Evaluator with no filter-text context for diagnostics.
func Evaluate(expr query.Expression, input value.Value) (value.Value, error) {
	return New("").Evaluate(expr, input)
}

func (ev *Evaluator) evalErr(cat diag.EvalCategory, msg string, pos query.Pos) error {
	return &diag.EvalError{
		Category: cat,
		Message:  msg,
		Pos:      diag.Position{Line: pos.Line, Column: pos.Column},
		Source:   ev.Source,
	}
}

func (ev *Evaluator) eval(expr query.Expression, input value.Value, env *Env) (value.Value, error) {
	ev.depth++
	defer func() { ev.depth-- }()
	if ev.depth > ev.MaxDepth {
		return nil, ev.evalErr(diag.StackOverflow, "maximum evaluation depth exceeded", expr.ExprPos())
	}

	switch e := expr.(type) {
	case query.Literal:
		return e.Value, nil
	case query.Identity:
		return input, nil
	case query.Sym:
		return ev.evalSym(e, env)
	case query.Call:
		return ev.evalCall(e, input, env)
	case query.Vec:
		elems, err := ev.evalArgs(e.Elems, input, env)
		if err != nil {
			return nil, err
		}
		return value.NewVector(elems), nil
	case query.SetLit:
		elems, err := ev.evalArgs(e.Elems, input, env)
		if err != nil {
			return nil, err
		}
		return value.NewSet(elems), nil
	case query.MapLit:
		keys, err := ev.evalArgs(e.Keys, input, env)
		if err != nil {
			return nil, err
		}
		vals, err := ev.evalArgs(e.Vals, input, env)
		if err != nil {
			return nil, err
		}
		return value.NewMap(keys, vals), nil
	case query.Lambda:
		return ev.evalLambda(e, input, env), nil
	case query.If:
		test, err := ev.eval(e.Test, input, env)
		if err != nil {
			return nil, err
		}
		if value.Truthy(test) {
			return ev.eval(e.Then, input, env)
		}
		if e.Else == nil {
			return value.NilValue, nil
		}
		return ev.eval(e.Else, input, env)
	case query.When:
		test, err := ev.eval(e.Test, input, env)
		if err != nil {
			return nil, err
		}
		if !value.Truthy(test) {
			return value.NilValue, nil
		}
		return ev.eval(e.Body, input, env)
	case query.Cond:
		for _, c := range e.Clauses {
			if c.Test == nil {
				return ev.eval(c.Result, input, env)
			}
			test, err := ev.eval(c.Test, input, env)
			if err != nil {
				return nil, err
			}
			if value.Truthy(test) {
				return ev.eval(c.Result, input, env)
			}
		}
		return value.NilValue, nil
	case query.Do:
		var result value.Value = value.NilValue
		for _, sub := range e.Exprs {
			v, err := ev.eval(sub, input, env)
			if err != nil {
				return nil, err
			}
			result = v
		}
		return result, nil
	default:
		return nil, ev.evalErr(diag.BadLambdaBody, fmt.Sprintf("unhandled expression node %T", expr), query.Pos{})
	}
}

func (ev *Evaluator) evalArgs(exprs []query.Expression, input value.Value, env *Env) ([]value.Value, error) {
	out := make([]value.Value, len(exprs))
	for i, e := range exprs {
		v, err := ev.eval(e, input, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (ev *Evaluator) evalSym(s query.Sym, env *Env) (value.Value, error) {
	name := s.Name
	if s.Namespace != "" {
		name = s.Namespace + "/" + s.Name
	}
	if lv, ok := env.Lookup(name); ok {
		return lv, nil
	}
	if s.Namespace == "" {
		if b, ok := builtinRegistry[s.Name]; ok {
			return ev.wrapBuiltin(b), nil
		}
	}
	return nil, ev.evalErr(diag.UnknownSymbol, fmt.Sprintf("unknown symbol %q", name), s.Pos)
}

// wrapBuiltin lets a built-in flow as a first-class Value (spec.md §3.2:
// "Sym(name) — bare symbol reference (for functions appearing as values,
// e.g. inside (map f coll))"). The wrapped builtin applies legacy-sugar
// arity padding using Nil, since no "current input" is available once it
// has been detached from its call site.
func (ev *Evaluator) wrapBuiltin(b Builtin) value.Value {
	return value.Lambda{
		Name:  b.Name,
		Arity: -1,
		Invoke: func(args []value.Value) (value.Value, error) {
			return ev.invokeBuiltin(b, args, query.Pos{}, value.NilValue)
		},
	}
}

func (ev *Evaluator) evalLambda(l query.Lambda, input value.Value, closureEnv *Env) value.Value {
	params := append([]string{}, l.Params...)
	body := l.Body
	return value.Lambda{
		Arity: len(params),
		Invoke: func(args []value.Value) (value.Value, error) {
			callEnv := NewEnv(closureEnv)
			for i, p := range params {
				callEnv.Bind(p, args[i])
			}
			newInput := input
			if len(args) > 0 {
				newInput = args[0]
			}
			return ev.eval(body, newInput, callEnv)
		},
	}
}

func (ev *Evaluator) evalCall(c query.Call, input value.Value, env *Env) (value.Value, error) {
	if sym, ok := c.Head.(query.Sym); ok && sym.Namespace == "" {
		if _, shadowed := env.Lookup(sym.Name); !shadowed {
			switch sym.Name {
			case "and":
				return ev.evalAnd(c.Args, input, env)
			case "or":
				return ev.evalOr(c.Args, input, env)
			}
		}
	}

	if kl, ok := c.Head.(query.KeywordLookup); ok {
		return ev.evalKeywordCall(kl, c.Args, input, env, c.Pos)
	}

	if sym, ok := c.Head.(query.Sym); ok && sym.Namespace == "" {
		if lv, ok := env.Lookup(sym.Name); ok {
			lam, ok := lv.(value.Lambda)
			if !ok {
				return nil, ev.evalErr(diag.TypeError, fmt.Sprintf("%s is bound to a %s, not a function", sym.Name, lv.Kind()), c.Pos)
			}
			args, err := ev.evalArgs(c.Args, input, env)
			if err != nil {
				return nil, err
			}
			return ev.invokeLambda(lam, args, c.Pos)
		}
		if b, ok := builtinRegistry[sym.Name]; ok {
			args, err := ev.evalArgs(c.Args, input, env)
			if err != nil {
				return nil, err
			}
			return ev.invokeBuiltin(b, args, c.Pos, input)
		}
		return nil, ev.evalErr(diag.UnknownSymbol, fmt.Sprintf("unknown symbol %q", sym.Name), c.Pos)
	}

	headVal, err := ev.eval(c.Head, input, env)
	if err != nil {
		return nil, err
	}
	args, err := ev.evalArgs(c.Args, input, env)
	if err != nil {
		return nil, err
	}
	return ev.invokeValue(headVal, args, c.Pos)
}

func (ev *Evaluator) evalAnd(args []query.Expression, input value.Value, env *Env) (value.Value, error) {
	var last value.Value = value.True
	for _, a := range args {
		v, err := ev.eval(a, input, env)
		if err != nil {
			return nil, err
		}
		if !value.Truthy(v) {
			return v, nil
		}
		last = v
	}
	return last, nil
}

func (ev *Evaluator) evalOr(args []query.Expression, input value.Value, env *Env) (value.Value, error) {
	var last value.Value = value.NilValue
	for _, a := range args {
		v, err := ev.eval(a, input, env)
		if err != nil {
			return nil, err
		}
		if value.Truthy(v) {
			return v, nil
		}
		last = v
	}
	return last, nil
}

func (ev *Evaluator) evalKeywordCall(kl query.KeywordLookup, argExprs []query.Expression, input value.Value, env *Env, pos query.Pos) (value.Value, error) {
	args, err := ev.evalArgs(argExprs, input, env)
	if err != nil {
		return nil, err
	}
	target := input
	if len(args) > 0 {
		target = args[0]
	}
	return ev.lookupKeyword(kl.Keyword, target, pos)
}

func (ev *Evaluator) lookupKeyword(kw value.Keyword, v value.Value, pos query.Pos) (value.Value, error) {
	switch t := v.(type) {
	case value.Map:
		if got, ok := t.Get(kw); ok {
			return got, nil
		}
		return value.NilValue, nil
	case value.Set:
		if t.Contains(kw) {
			return kw, nil
		}
		return value.NilValue, nil
	default:
		return nil, ev.evalErr(diag.TypeError, fmt.Sprintf("cannot call keyword %s on a %s", kw.String(), v.Kind()), pos)
	}
}

// invokeValue invokes any callable Value: a Lambda directly, or a Keyword
// using its lookup semantics (spec.md §4.4's Call(head=keyword) rule,
// generalized for use as a higher-order function argument).
func (ev *Evaluator) invokeValue(callable value.Value, args []value.Value, pos query.Pos) (value.Value, error) {
	switch c := callable.(type) {
	case value.Lambda:
		return ev.invokeLambda(c, args, pos)
	case value.Keyword:
		if len(args) != 1 {
			return nil, ev.evalErr(diag.ArityMismatch, "a keyword used as a function takes exactly 1 argument", pos)
		}
		return ev.lookupKeyword(c, args[0], pos)
	default:
		return nil, ev.evalErr(diag.TypeError, fmt.Sprintf("%s is not callable", callable.Kind()), pos)
	}
}

func (ev *Evaluator) invokeLambda(lam value.Lambda, args []value.Value, pos query.Pos) (value.Value, error) {
	if lam.Arity >= 0 && len(args) != lam.Arity {
		return nil, ev.evalErr(diag.ArityMismatch, fmt.Sprintf("function expects %d argument(s), got %d", lam.Arity, len(args)), pos)
	}
	return lam.Invoke(args)
}

func (ev *Evaluator) invokeBuiltin(b Builtin, args []value.Value, pos query.Pos, input value.Value) (value.Value, error) {
	if b.MinArity > 0 && len(args) == b.MinArity-1 {
		if b.CollFirst {
			args = append([]value.Value{input}, args...)
		} else {
			args = append(append([]value.Value{}, args...), input)
		}
	}
	if len(args) < b.MinArity || (b.MaxArity >= 0 && len(args) > b.MaxArity) {
		return nil, ev.evalErr(diag.ArityMismatch, fmt.Sprintf("%s expects %s, got %d argument(s)", b.Name, arityDesc(b), len(args)), pos)
	}
	return b.Call(ev, args, pos)
}

func arityDesc(b Builtin) string {
	if b.MaxArity < 0 {
		return fmt.Sprintf("at least %d argument(s)", b.MinArity)
	}
	if b.MinArity == b.MaxArity {
		return fmt.Sprintf("exactly %d argument(s)", b.MinArity)
	}
	return fmt.Sprintf("%d to %d argument(s)", b.MinArity, b.MaxArity)
}
