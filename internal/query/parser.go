package query

import (
	"fmt"
	"strconv"

	"github.com/mtnygard/eq/internal/diag"
	"github.com/mtnygard/eq/internal/lexer"
	"github.com/mtnygard/eq/internal/value"
)

// Parser builds a query Expression tree from filter text, reusing
// internal/lexer's tokenizer (spec.md §4.3).
type Parser struct {
	lex    *lexer.Lexer
	source string
	tok    lexer.Token
	peeked bool
	err    error
}

// New creates a Parser over filter text.
func New(source string) *Parser {
	return &Parser{lex: lexer.New(source), source: source}
}

// ParseQuery parses a single top-level query expression (spec.md §6.1:
// parse_query).
func ParseQuery(text string) (Expression, error) {
	p := New(text)
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok.Type == lexer.EOF {
		return nil, p.parseErr(diag.UnexpectedEOF, "empty query", lexer.Position{Line: 1, Column: 1})
	}
	expr, err := p.parseForm(tok)
	if err != nil {
		return nil, err
	}
	trailing, err := p.next()
	if err != nil {
		return nil, err
	}
	if trailing.Type != lexer.EOF {
		return nil, p.parseErr(diag.UnexpectedEOF, fmt.Sprintf("unexpected trailing token %q", trailing.Literal), trailing.Pos)
	}
	return expr, nil
}

func (p *Parser) next() (lexer.Token, error) {
	if p.peeked {
		p.peeked = false
		return p.tok, p.err
	}
	return p.lex.NextToken()
}

func (p *Parser) peek() (lexer.Token, error) {
	if !p.peeked {
		p.tok, p.err = p.lex.NextToken()
		p.peeked = true
	}
	return p.tok, p.err
}

func toPos(lp lexer.Position) Pos { return Pos{Line: lp.Line, Column: lp.Column} }

func (p *Parser) parseErr(cat diag.ParseCategory, msg string, lp lexer.Position) error {
	return &diag.ParseError{
		Category: cat,
		Message:  msg,
		Pos:      diag.Position{Line: lp.Line, Column: lp.Column},
		Source:   p.source,
	}
}

// parseForm dispatches on an already-consumed leading token, mirroring
// internal/reader's readForm but producing Expression nodes instead of
// Values, and recognizing the query surface's extra head-position forms.
func (p *Parser) parseForm(tok lexer.Token) (Expression, error) {
	switch tok.Type {
	case lexer.LPAREN:
		return p.parseList(tok.Pos)
	case lexer.LBRACKET:
		return p.parseVec(tok.Pos)
	case lexer.LBRACE:
		return p.parseMapLit(tok.Pos)
	case lexer.SETSTART:
		return p.parseSetLit(tok.Pos)
	case lexer.FNSTART:
		return p.parseAnonLambda(tok.Pos)
	case lexer.DISCARD:
		if _, err := p.parseNext(); err != nil {
			return nil, err
		}
		return p.parseNext()
	case lexer.HASH:
		return p.parseTagged(tok.Pos)
	case lexer.INT:
		v, err := parseIntLiteral(tok.Literal)
		if err != nil {
			return nil, p.parseErr(diag.BadNumber, err.Error(), tok.Pos)
		}
		return Literal{Value: v, Pos: toPos(tok.Pos)}, nil
	case lexer.FLOAT:
		v, err := parseFloatLiteral(tok.Literal)
		if err != nil {
			return nil, p.parseErr(diag.BadNumber, err.Error(), tok.Pos)
		}
		return Literal{Value: v, Pos: toPos(tok.Pos)}, nil
	case lexer.STRING:
		return Literal{Value: value.String{Value: tok.Literal}, Pos: toPos(tok.Pos)}, nil
	case lexer.CHAR:
		runes := []rune(tok.Literal)
		if len(runes) != 1 {
			return nil, p.parseErr(diag.BadChar, "invalid character literal", tok.Pos)
		}
		return Literal{Value: value.Character{Value: runes[0]}, Pos: toPos(tok.Pos)}, nil
	case lexer.KEYWORD:
		kw, err := p.parseKeywordLiteral(tok)
		if err != nil {
			return nil, err
		}
		return Literal{Value: kw, Pos: toPos(tok.Pos)}, nil
	case lexer.SYMBOL:
		return p.parseSymbolForm(tok), nil
	case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
		return nil, p.parseErr(diag.UnexpectedCloser, fmt.Sprintf("unexpected %q", tok.Literal), tok.Pos)
	case lexer.EOF:
		return nil, p.parseErr(diag.UnexpectedEOF, "unexpected end of input", tok.Pos)
	default:
		return nil, p.parseErr(diag.UnexpectedEOF, fmt.Sprintf("unexpected token %q", tok.Literal), tok.Pos)
	}
}

func (p *Parser) parseNext() (Expression, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	return p.parseForm(tok)
}

func (p *Parser) parseKeywordLiteral(tok lexer.Token) (value.Keyword, error) {
	lit := tok.Literal
	if len(lit) >= 2 && lit[1] == ':' {
		return value.Keyword{}, p.parseErr(diag.BadKeyword, fmt.Sprintf("namespaced-alias keyword %q has no alias context", lit), tok.Pos)
	}
	sym := splitSymbolText(lit[1:])
	return value.Keyword{Namespace: sym.Namespace, Name: sym.Name}, nil
}

func (p *Parser) parseSymbolForm(tok lexer.Token) Expression {
	switch tok.Literal {
	case ".":
		return Identity{Pos: toPos(tok.Pos)}
	case "nil":
		return Literal{Value: value.NilValue, Pos: toPos(tok.Pos)}
	case "true":
		return Literal{Value: value.True, Pos: toPos(tok.Pos)}
	case "false":
		return Literal{Value: value.False, Pos: toPos(tok.Pos)}
	}
	sym := splitSymbolText(tok.Literal)
	return Sym{Name: sym.Name, Namespace: sym.Namespace, Pos: toPos(tok.Pos)}
}

func splitSymbolText(s string) value.Symbol {
	if s == "/" {
		return value.Symbol{Name: "/"}
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return value.Symbol{Namespace: s[:i], Name: s[i+1:]}
		}
	}
	return value.Symbol{Name: s}
}

// parseList parses the content of `( ... )`, dispatching to special forms
// when the head symbol names one (spec.md §4.3/§4.4).
func (p *Parser) parseList(openPos lexer.Position) (Expression, error) {
	first, err := p.peek()
	if err != nil {
		return nil, err
	}
	if first.Type == lexer.RPAREN {
		p.peeked = false
		return Literal{Value: value.NewList(nil), Pos: toPos(openPos)}, nil
	}
	if first.Type == lexer.SYMBOL {
		switch first.Literal {
		case "fn":
			p.peeked = false
			return p.parseFn(openPos)
		case "if":
			p.peeked = false
			return p.parseIf(openPos)
		case "when":
			p.peeked = false
			return p.parseWhen(openPos)
		case "cond":
			p.peeked = false
			return p.parseCond(openPos)
		case "do":
			p.peeked = false
			return p.parseDo(openPos)
		case "->":
			p.peeked = false
			return p.parseThread(openPos, false)
		case "->>":
			p.peeked = false
			return p.parseThread(openPos, true)
		}
	}
	return p.parseCallBody(openPos)
}

// parseCallBody parses head and args up to the closing RPAREN, given the
// opening "(" has already been consumed and no special form applied. A
// keyword head becomes a KeywordLookup (spec.md §3.2).
func (p *Parser) parseCallBody(openPos lexer.Position) (Expression, error) {
	headTok, err := p.next()
	if err != nil {
		return nil, err
	}
	var head Expression
	if headTok.Type == lexer.KEYWORD {
		kw, err := p.parseKeywordLiteral(headTok)
		if err != nil {
			return nil, err
		}
		head = KeywordLookup{Keyword: kw, Pos: toPos(headTok.Pos)}
	} else {
		head, err = p.parseForm(headTok)
		if err != nil {
			return nil, err
		}
	}
	args, err := p.parseUntil(lexer.RPAREN, "call", openPos)
	if err != nil {
		return nil, err
	}
	return Call{Head: head, Args: args, Pos: toPos(openPos)}, nil
}

// parseUntil reads Expressions until the closer token type is seen,
// consuming the closer.
func (p *Parser) parseUntil(closer lexer.TokenType, kind string, openPos lexer.Position) ([]Expression, error) {
	var out []Expression
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type == closer {
			p.peeked = false
			return out, nil
		}
		if tok.Type == lexer.EOF {
			return nil, p.parseErr(diag.UnterminatedCollection, fmt.Sprintf("unterminated %s starting at %d:%d", kind, openPos.Line, openPos.Column), tok.Pos)
		}
		p.peeked = false
		expr, err := p.parseForm(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
}

func (p *Parser) parseVec(openPos lexer.Position) (Expression, error) {
	elems, err := p.parseUntil(lexer.RBRACKET, "vector", openPos)
	if err != nil {
		return nil, err
	}
	return Vec{Elems: elems, Pos: toPos(openPos)}, nil
}

func (p *Parser) parseSetLit(openPos lexer.Position) (Expression, error) {
	elems, err := p.parseUntil(lexer.RBRACE, "set", openPos)
	if err != nil {
		return nil, err
	}
	return SetLit{Elems: elems, Pos: toPos(openPos)}, nil
}

func (p *Parser) parseMapLit(openPos lexer.Position) (Expression, error) {
	elems, err := p.parseUntil(lexer.RBRACE, "map", openPos)
	if err != nil {
		return nil, err
	}
	if len(elems)%2 != 0 {
		return nil, p.parseErr(diag.OddMap, "map literal has an odd number of forms", openPos)
	}
	var keys, vals []Expression
	for i := 0; i < len(elems); i += 2 {
		keys = append(keys, elems[i])
		vals = append(vals, elems[i+1])
	}
	return MapLit{Keys: keys, Vals: vals, Pos: toPos(openPos)}, nil
}

func (p *Parser) parseTagged(hashPos lexer.Position) (Expression, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok.Type != lexer.SYMBOL {
		return nil, p.parseErr(diag.BadReaderMacro, "expected a tag symbol after #", hashPos)
	}
	tag := splitSymbolText(tok.Literal)
	wrapped, err := p.parseNext()
	if err != nil {
		return nil, err
	}
	// Tagged literals are only meaningful as constant data; a query cannot
	// tag a computed sub-expression, so the wrapped expression must itself
	// be a Literal.
	lit, ok := wrapped.(Literal)
	if !ok {
		return nil, p.parseErr(diag.BadReaderMacro, "#tag can only wrap a literal value in a query", hashPos)
	}
	return Literal{Value: value.Tagged{Tag: tag, Wrapped: lit.Value}, Pos: toPos(hashPos)}, nil
}

func (p *Parser) parseFn(openPos lexer.Position) (Expression, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok.Type != lexer.LBRACKET {
		return nil, p.parseErr(diag.BadReaderMacro, "malformed fn: expected a [params] vector", tok.Pos)
	}
	var params []string
	for {
		ptok, err := p.next()
		if err != nil {
			return nil, err
		}
		if ptok.Type == lexer.RBRACKET {
			break
		}
		if ptok.Type != lexer.SYMBOL {
			return nil, p.parseErr(diag.BadReaderMacro, "fn params must be symbols", ptok.Pos)
		}
		params = append(params, ptok.Literal)
	}
	body, err := p.parseNext()
	if err != nil {
		return nil, err
	}
	closeTok, err := p.next()
	if err != nil {
		return nil, err
	}
	if closeTok.Type != lexer.RPAREN {
		return nil, p.parseErr(diag.BadReaderMacro, "malformed fn: expected exactly one body expression", closeTok.Pos)
	}
	return Lambda{Params: params, Body: body, Pos: toPos(openPos)}, nil
}

func (p *Parser) parseIf(openPos lexer.Position) (Expression, error) {
	test, err := p.parseNext()
	if err != nil {
		return nil, err
	}
	then, err := p.parseNext()
	if err != nil {
		return nil, err
	}
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	var elseExpr Expression
	if tok.Type == lexer.RPAREN {
		return If{Test: test, Then: then, Else: nil, Pos: toPos(openPos)}, nil
	}
	elseExpr, err = p.parseForm(tok)
	if err != nil {
		return nil, err
	}
	closeTok, err := p.next()
	if err != nil {
		return nil, err
	}
	if closeTok.Type != lexer.RPAREN {
		return nil, p.parseErr(diag.BadReaderMacro, "malformed if: too many forms", closeTok.Pos)
	}
	return If{Test: test, Then: then, Else: elseExpr, Pos: toPos(openPos)}, nil
}

func (p *Parser) parseWhen(openPos lexer.Position) (Expression, error) {
	test, err := p.parseNext()
	if err != nil {
		return nil, err
	}
	body, err := p.parseNext()
	if err != nil {
		return nil, err
	}
	closeTok, err := p.next()
	if err != nil {
		return nil, err
	}
	if closeTok.Type != lexer.RPAREN {
		return nil, p.parseErr(diag.BadReaderMacro, "malformed when: expected exactly one body expression", closeTok.Pos)
	}
	return When{Test: test, Body: body, Pos: toPos(openPos)}, nil
}

func (p *Parser) parseCond(openPos lexer.Position) (Expression, error) {
	forms, err := p.parseUntil(lexer.RPAREN, "cond", openPos)
	if err != nil {
		return nil, err
	}
	if len(forms)%2 != 0 {
		return nil, p.parseErr(diag.BadReaderMacro, "cond requires test/result pairs", openPos)
	}
	var clauses []CondClause
	for i := 0; i < len(forms); i += 2 {
		test := forms[i]
		if kw, ok := test.(Literal); ok {
			if k, isKw := kw.Value.(value.Keyword); isKw && k.Namespace == "" && k.Name == "else" {
				test = nil
			}
		}
		clauses = append(clauses, CondClause{Test: test, Result: forms[i+1]})
	}
	return Cond{Clauses: clauses, Pos: toPos(openPos)}, nil
}

func (p *Parser) parseDo(openPos lexer.Position) (Expression, error) {
	exprs, err := p.parseUntil(lexer.RPAREN, "do", openPos)
	if err != nil {
		return nil, err
	}
	return Do{Exprs: exprs, Pos: toPos(openPos)}, nil
}

// parseThread parses `(-> seed step...)` / `(->> seed step...)` and expands
// it immediately into nested Call nodes (spec.md §4.3: macro expansion is
// performed in Q, before handing to E).
func (p *Parser) parseThread(openPos lexer.Position, last bool) (Expression, error) {
	forms, err := p.parseUntil(lexer.RPAREN, "threading form", openPos)
	if err != nil {
		return nil, err
	}
	if len(forms) == 0 {
		return nil, p.parseErr(diag.BadReaderMacro, "threading macro requires a seed expression", openPos)
	}
	acc := forms[0]
	for _, step := range forms[1:] {
		acc = threadInto(acc, step, last)
	}
	return acc, nil
}

// threadInto inserts acc into step as the first (->) or last (->>) argument.
// A bare symbol/keyword step is treated as a zero-arg call (spec.md §4.3).
func threadInto(acc, step Expression, last bool) Expression {
	var head Expression
	var args []Expression
	switch s := step.(type) {
	case Call:
		head = s.Head
		args = append(args, s.Args...)
	default:
		head = step
	}
	if last {
		args = append(args, acc)
	} else {
		args = append([]Expression{acc}, args...)
	}
	pos := step.ExprPos()
	return Call{Head: head, Args: args, Pos: pos}
}

func parseIntLiteral(lit string) (value.Value, error) {
	if len(lit) > 0 && lit[len(lit)-1] == 'N' {
		n, err := strconv.ParseInt(lit[:len(lit)-1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("integer literal %q overflows 64-bit range (no bignum support)", lit)
		}
		return value.Integer{Value: n}, nil
	}
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid integer literal %q", lit)
	}
	return value.Integer{Value: n}, nil
}

func parseFloatLiteral(lit string) (value.Value, error) {
	if len(lit) > 0 && lit[len(lit)-1] == 'M' {
		lit = lit[:len(lit)-1]
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid float literal %q", lit)
	}
	return value.Float{Value: f}, nil
}
