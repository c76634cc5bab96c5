package value

import "fmt"

// Lambda is the runtime representation of a callable produced by the query
// reader/evaluator (spec.md §3.2 Lambda/AnonLambda, §4.4 "produce a callable
// Value"). It is never produced by the EDN reader and is an error to render
// to output (spec.md's "non-serializable" EvalError category).
//
// Invoke is supplied by the eval package, which owns the AST and
// environment types; keeping it a plain function field here avoids an
// import cycle between value and eval.
type Lambda struct {
	Name   string
	Arity  int
	Invoke func(args []Value) (Value, error)
}

func (l Lambda) Kind() Kind { return KindLambda }
func (l Lambda) String() string {
	if l.Name != "" {
		return fmt.Sprintf("#<fn %s>", l.Name)
	}
	return "#<fn>"
}
