package query

import (
	"strconv"

	"github.com/mtnygard/eq/internal/lexer"
)

// parseAnonLambda parses `#( ... )`, whose body is tokenized exactly like a
// list body (spec.md §4.3), then expands it to a Lambda with generated
// parameter names by scanning for `%`, `%1`, `%2`, ... occurrences.
func (p *Parser) parseAnonLambda(openPos lexer.Position) (Expression, error) {
	body, err := p.parseList(openPos)
	if err != nil {
		return nil, err
	}
	maxIdx, bareUsed := scanAnonParams(body)
	arity := maxIdx
	if bareUsed && arity < 1 {
		arity = 1
	}
	if arity == 0 {
		return Lambda{Params: nil, Body: body, Pos: toPos(openPos)}, nil
	}
	if bareUsed {
		body = rewriteSym(body, "%", "%1")
	}
	params := make([]string, arity)
	for i := 1; i <= arity; i++ {
		params[i-1] = "%" + strconv.Itoa(i)
	}
	return Lambda{Params: params, Body: body, Pos: toPos(openPos)}, nil
}

// scanAnonParams walks expr for Sym nodes named "%" or "%N" and returns the
// highest N seen (0 if none) and whether the bare "%" form was used.
func scanAnonParams(expr Expression) (maxIdx int, bareUsed bool) {
	walkExprs(expr, func(e Expression) {
		sym, ok := e.(Sym)
		if !ok || sym.Namespace != "" {
			return
		}
		if sym.Name == "%" {
			bareUsed = true
			return
		}
		if len(sym.Name) >= 2 && sym.Name[0] == '%' {
			if n, err := strconv.Atoi(sym.Name[1:]); err == nil && n > maxIdx {
				maxIdx = n
			}
		}
	})
	return maxIdx, bareUsed
}

// rewriteSym returns a copy of expr with every Sym named from renamed to to.
func rewriteSym(expr Expression, from, to string) Expression {
	if expr == nil {
		return nil
	}
	switch e := expr.(type) {
	case Sym:
		if e.Namespace == "" && e.Name == from {
			e.Name = to
		}
		return e
	case Call:
		e.Head = rewriteSym(e.Head, from, to)
		e.Args = rewriteExprSlice(e.Args, from, to)
		return e
	case Vec:
		e.Elems = rewriteExprSlice(e.Elems, from, to)
		return e
	case MapLit:
		e.Keys = rewriteExprSlice(e.Keys, from, to)
		e.Vals = rewriteExprSlice(e.Vals, from, to)
		return e
	case SetLit:
		e.Elems = rewriteExprSlice(e.Elems, from, to)
		return e
	case Lambda:
		e.Body = rewriteSym(e.Body, from, to)
		return e
	case If:
		e.Test = rewriteSym(e.Test, from, to)
		e.Then = rewriteSym(e.Then, from, to)
		e.Else = rewriteSym(e.Else, from, to)
		return e
	case When:
		e.Test = rewriteSym(e.Test, from, to)
		e.Body = rewriteSym(e.Body, from, to)
		return e
	case Cond:
		clauses := make([]CondClause, len(e.Clauses))
		for i, c := range e.Clauses {
			clauses[i] = CondClause{Test: rewriteSym(c.Test, from, to), Result: rewriteSym(c.Result, from, to)}
		}
		e.Clauses = clauses
		return e
	case Do:
		e.Exprs = rewriteExprSlice(e.Exprs, from, to)
		return e
	default:
		return expr
	}
}

func rewriteExprSlice(exprs []Expression, from, to string) []Expression {
	out := make([]Expression, len(exprs))
	for i, e := range exprs {
		out[i] = rewriteSym(e, from, to)
	}
	return out
}

// walkExprs visits expr and every sub-expression, calling visit on each.
func walkExprs(expr Expression, visit func(Expression)) {
	if expr == nil {
		return
	}
	visit(expr)
	switch e := expr.(type) {
	case Call:
		walkExprs(e.Head, visit)
		for _, a := range e.Args {
			walkExprs(a, visit)
		}
	case Vec:
		for _, el := range e.Elems {
			walkExprs(el, visit)
		}
	case MapLit:
		for _, k := range e.Keys {
			walkExprs(k, visit)
		}
		for _, v := range e.Vals {
			walkExprs(v, visit)
		}
	case SetLit:
		for _, el := range e.Elems {
			walkExprs(el, visit)
		}
	case Lambda:
		walkExprs(e.Body, visit)
	case If:
		walkExprs(e.Test, visit)
		walkExprs(e.Then, visit)
		walkExprs(e.Else, visit)
	case When:
		walkExprs(e.Test, visit)
		walkExprs(e.Body, visit)
	case Cond:
		for _, c := range e.Clauses {
			walkExprs(c.Test, visit)
			walkExprs(c.Result, visit)
		}
	case Do:
		for _, ex := range e.Exprs {
			walkExprs(ex, visit)
		}
	}
}
