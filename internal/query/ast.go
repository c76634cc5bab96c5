// Package query implements the query-expression reader (Q): Clojure-surface
// filter text → an Expression AST consumed by internal/eval. It reuses
// internal/lexer's tokenizer wholesale, following spec.md §4.3 ("Re-uses R's
// tokenization except for two additions").
package query

import "github.com/mtnygard/eq/internal/value"

// Pos is a source position within the filter text, carried by every
// Expression node for diagnostics (spec.md §3.2).
type Pos struct {
	Line   int
	Column int
}

// Expression is any node of the query AST.
type Expression interface {
	// ExprPos returns the node's source position, for diagnostics.
	ExprPos() Pos
}

// Literal is a constant embedded in the query.
type Literal struct {
	Value value.Value
	Pos   Pos
}

// Identity is `.`, evaluating to the current input.
type Identity struct {
	Pos Pos
}

// Sym is a bare symbol reference, e.g. `f` inside `(map f coll)`.
type Sym struct {
	Name      string
	Namespace string
	Pos       Pos
}

// Call is function application. Head is either a Sym, a KeywordLookup, or
// any Expression yielding a callable (e.g. a Lambda literal in head
// position).
type Call struct {
	Head Expression
	Args []Expression
	Pos  Pos
}

// KeywordLookup models a keyword used in call-head position, `(:k x)`
// (spec.md §3.2: "A keyword in head position is modeled as
// Call(KeywordLookup(k), [x])").
type KeywordLookup struct {
	Keyword value.Keyword
	Pos     Pos
}

// Vec is a vector literal whose elements are Expressions.
type Vec struct {
	Elems []Expression
	Pos   Pos
}

// MapLit is a map literal whose key/value pairs are Expressions.
type MapLit struct {
	Keys []Expression
	Vals []Expression
	Pos  Pos
}

// SetLit is a set literal whose elements are Expressions.
type SetLit struct {
	Elems []Expression
	Pos   Pos
}

// Lambda is `(fn [params...] body)`.
type Lambda struct {
	Params []string
	Body   Expression
	Pos    Pos
}

// AnonLambda is `#(...)` before expansion. The parser never builds this
// node: parseAnonLambda expands `#(...)` directly to a Lambda with generated
// parameter names (spec.md §4.3).
type AnonLambda struct {
	Body  Expression
	Arity int
	Pos   Pos
}

// ThreadFirst is `(-> seed step...)`.
type ThreadFirst struct {
	Seed  Expression
	Steps []Expression
	Pos   Pos
}

// ThreadLast is `(->> seed step...)`.
type ThreadLast struct {
	Seed  Expression
	Steps []Expression
	Pos   Pos
}

// If is `(if test then else)`; Else is nil when omitted, and the If then
// yields Nil when test is falsy.
type If struct {
	Test Expression
	Then Expression
	Else Expression
	Pos  Pos
}

// When is `(when test body)`, yielding Nil when test is falsy.
type When struct {
	Test Expression
	Body Expression
	Pos  Pos
}

// CondClause is one test/result pair of a Cond, or an :else fallback when
// Test is nil.
type CondClause struct {
	Test   Expression
	Result Expression
}

// Cond is `(cond test1 result1 test2 result2 ... :else default)`.
type Cond struct {
	Clauses []CondClause
	Pos     Pos
}

// Do is `(do expr...)`, yielding the value of the last expression.
type Do struct {
	Exprs []Expression
	Pos   Pos
}

func (e Literal) ExprPos() Pos       { return e.Pos }
func (e Identity) ExprPos() Pos      { return e.Pos }
func (e Sym) ExprPos() Pos           { return e.Pos }
func (e Call) ExprPos() Pos          { return e.Pos }
func (e KeywordLookup) ExprPos() Pos { return e.Pos }
func (e Vec) ExprPos() Pos           { return e.Pos }
func (e MapLit) ExprPos() Pos        { return e.Pos }
func (e SetLit) ExprPos() Pos        { return e.Pos }
func (e Lambda) ExprPos() Pos        { return e.Pos }
func (e AnonLambda) ExprPos() Pos    { return e.Pos }
func (e ThreadFirst) ExprPos() Pos   { return e.Pos }
func (e ThreadLast) ExprPos() Pos    { return e.Pos }
func (e If) ExprPos() Pos            { return e.Pos }
func (e When) ExprPos() Pos          { return e.Pos }
func (e Cond) ExprPos() Pos          { return e.Pos }
func (e Do) ExprPos() Pos            { return e.Pos }
