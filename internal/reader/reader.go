// Package reader implements the EDN reader (R): text → Value (spec.md
// §4.2). It is a recursive-descent parser over the shared internal/lexer
// token stream, following the teacher's parser.go lexer-wraps-into-parser
// structure (internal/parser.Parser wrapping internal/lexer.Lexer).
package reader

import (
	"fmt"
	"strconv"

	"github.com/mtnygard/eq/internal/diag"
	"github.com/mtnygard/eq/internal/lexer"
	"github.com/mtnygard/eq/internal/value"
)

// Reader parses one or more top-level EDN forms from source text.
type Reader struct {
	lex    *lexer.Lexer
	source string
	tok    lexer.Token
	peeked bool
	err    error
}

// New creates a Reader over source.
func New(source string) *Reader {
	return &Reader{lex: lexer.New(source), source: source}
}

// ReadOne reads a single top-level EDN form, or reports io.EOF-equivalent
// via the ok=false return when input is exhausted.
func (r *Reader) ReadOne() (v value.Value, ok bool, err error) {
	tok, err := r.next()
	if err != nil {
		return nil, false, err
	}
	if tok.Type == lexer.EOF {
		return nil, false, nil
	}
	v, err = r.readForm(tok)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// ReadAll reads every top-level form until end-of-input.
func (r *Reader) ReadAll() ([]value.Value, error) {
	var out []value.Value
	for {
		v, ok, err := r.ReadOne()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}

// ReadEDN reads exactly one top-level form from source and reports an error
// if the source holds none (spec.md §6.1: read_edn).
func ReadEDN(source string) (value.Value, error) {
	r := New(source)
	v, ok, err := r.ReadOne()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, r.parseError(diag.UnexpectedEOF, "no form found", lexer.Position{Line: 1, Column: 1})
	}
	return v, nil
}

// ReadAllEDN reads every top-level form from source (spec.md §6.1:
// read_edn_all).
func ReadAllEDN(source string) ([]value.Value, error) {
	return New(source).ReadAll()
}

func (r *Reader) next() (lexer.Token, error) {
	if r.peeked {
		r.peeked = false
		return r.tok, r.err
	}
	tok, err := r.lex.NextToken()
	return tok, err
}

func (r *Reader) peek() (lexer.Token, error) {
	if !r.peeked {
		r.tok, r.err = r.lex.NextToken()
		r.peeked = true
	}
	return r.tok, r.err
}

func (r *Reader) parseError(cat diag.ParseCategory, msg string, pos lexer.Position) error {
	return &diag.ParseError{
		Category: cat,
		Message:  msg,
		Pos:      diag.Position{Line: pos.Line, Column: pos.Column},
		Source:   r.source,
	}
}

// readForm dispatches on an already-consumed leading token.
func (r *Reader) readForm(tok lexer.Token) (value.Value, error) {
	switch tok.Type {
	case lexer.LPAREN:
		return r.readSeq(lexer.RPAREN, "list", func(elems []value.Value) value.Value {
			return value.NewList(elems)
		}, tok.Pos)
	case lexer.LBRACKET:
		return r.readSeq(lexer.RBRACKET, "vector", func(elems []value.Value) value.Value {
			return value.NewVector(elems)
		}, tok.Pos)
	case lexer.LBRACE:
		return r.readMap(tok.Pos)
	case lexer.SETSTART:
		return r.readSet(tok.Pos)
	case lexer.DISCARD:
		if _, _, err := r.readDiscarded(); err != nil {
			return nil, err
		}
		return r.readNext()
	case lexer.HASH:
		return r.readTagged(tok.Pos)
	case lexer.FNSTART:
		return nil, r.parseError(diag.BadReaderMacro, "#(...) anonymous-fn syntax is not valid EDN", tok.Pos)
	case lexer.INT:
		return r.readInt(tok)
	case lexer.FLOAT:
		return r.readFloat(tok)
	case lexer.STRING:
		return value.String{Value: tok.Literal}, nil
	case lexer.CHAR:
		runes := []rune(tok.Literal)
		if len(runes) != 1 {
			return nil, r.parseError(diag.BadChar, "invalid character literal", tok.Pos)
		}
		return value.Character{Value: runes[0]}, nil
	case lexer.KEYWORD:
		return r.readKeyword(tok)
	case lexer.SYMBOL:
		return r.readSymbolOrLiteral(tok), nil
	case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
		return nil, r.parseError(diag.UnexpectedCloser, fmt.Sprintf("unexpected %q", tok.Literal), tok.Pos)
	case lexer.EOF:
		return nil, r.parseError(diag.UnexpectedEOF, "unexpected end of input", tok.Pos)
	default:
		return nil, r.parseError(diag.UnexpectedEOF, fmt.Sprintf("unexpected token %q", tok.Literal), tok.Pos)
	}
}

// readNext consumes and reads the next token-initiated form; used after a
// reader-discard prefix.
func (r *Reader) readNext() (value.Value, error) {
	tok, err := r.next()
	if err != nil {
		return nil, err
	}
	return r.readForm(tok)
}

// readDiscarded reads and throws away the form following #_.
func (r *Reader) readDiscarded() (value.Value, bool, error) {
	tok, err := r.next()
	if err != nil {
		return nil, false, err
	}
	v, err := r.readForm(tok)
	return v, true, err
}

func (r *Reader) readSeq(closer lexer.TokenType, kind string, build func([]value.Value) value.Value, openPos lexer.Position) (value.Value, error) {
	var elems []value.Value
	for {
		tok, err := r.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type == closer {
			r.peeked = false
			return build(elems), nil
		}
		if tok.Type == lexer.EOF {
			return nil, r.parseError(diag.UnterminatedCollection, fmt.Sprintf("unterminated %s starting at %d:%d", kind, openPos.Line, openPos.Column), tok.Pos)
		}
		if tok.Type == lexer.DISCARD {
			r.peeked = false
			if _, _, err := r.readDiscarded(); err != nil {
				return nil, err
			}
			continue
		}
		r.peeked = false
		v, err := r.readForm(tok)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
}

func (r *Reader) readMap(openPos lexer.Position) (value.Value, error) {
	v, err := r.readSeq(lexer.RBRACE, "map", func(elems []value.Value) value.Value { return value.Vector{Elems: elems} }, openPos)
	if err != nil {
		return nil, err
	}
	elems := v.(value.Vector).Elems //nolint:forcetypeassert // internal carrier from readSeq
	if len(elems)%2 != 0 {
		return nil, r.parseError(diag.OddMap, "map literal has an odd number of forms", openPos)
	}
	keys := make([]value.Value, 0, len(elems)/2)
	vals := make([]value.Value, 0, len(elems)/2)
	for i := 0; i < len(elems); i += 2 {
		keys = append(keys, elems[i])
		vals = append(vals, elems[i+1])
	}
	return value.NewMap(keys, vals), nil
}

func (r *Reader) readSet(openPos lexer.Position) (value.Value, error) {
	v, err := r.readSeq(lexer.RBRACE, "set", func(elems []value.Value) value.Value { return value.Vector{Elems: elems} }, openPos)
	if err != nil {
		return nil, err
	}
	elems := v.(value.Vector).Elems //nolint:forcetypeassert
	return value.NewSet(elems), nil
}

func (r *Reader) readTagged(hashPos lexer.Position) (value.Value, error) {
	tok, err := r.next()
	if err != nil {
		return nil, err
	}
	if tok.Type != lexer.SYMBOL {
		return nil, r.parseError(diag.BadReaderMacro, "expected a tag symbol after #", hashPos)
	}
	tagSym := parseSymbolText(tok.Literal)
	wrapped, err := r.readNext()
	if err != nil {
		return nil, err
	}
	return value.Tagged{Tag: tagSym, Wrapped: wrapped}, nil
}

func (r *Reader) readInt(tok lexer.Token) (value.Value, error) {
	lit := tok.Literal
	big := false
	if len(lit) > 0 && lit[len(lit)-1] == 'N' {
		lit = lit[:len(lit)-1]
		big = true
	}
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		cat := diag.BadNumber
		msg := fmt.Sprintf("invalid integer literal %q", tok.Literal)
		if big {
			msg = fmt.Sprintf("integer literal %q overflows 64-bit range (no bignum support)", tok.Literal)
		}
		return nil, r.parseError(cat, msg, tok.Pos)
	}
	return value.Integer{Value: n}, nil
}

func (r *Reader) readFloat(tok lexer.Token) (value.Value, error) {
	lit := tok.Literal
	if len(lit) > 0 && lit[len(lit)-1] == 'M' {
		lit = lit[:len(lit)-1]
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, r.parseError(diag.BadNumber, fmt.Sprintf("invalid float literal %q", tok.Literal), tok.Pos)
	}
	return value.Float{Value: f}, nil
}

func (r *Reader) readKeyword(tok lexer.Token) (value.Value, error) {
	lit := tok.Literal
	if len(lit) >= 2 && lit[1] == ':' {
		return nil, r.parseError(diag.BadKeyword, fmt.Sprintf("namespaced-alias keyword %q has no alias context", lit), tok.Pos)
	}
	sym := parseSymbolText(lit[1:])
	return value.Keyword{Namespace: sym.Namespace, Name: sym.Name}, nil
}

func (r *Reader) readSymbolOrLiteral(tok lexer.Token) value.Value {
	switch tok.Literal {
	case "nil":
		return value.NilValue
	case "true":
		return value.True
	case "false":
		return value.False
	}
	return parseSymbolText(tok.Literal)
}

// parseSymbolText splits "ns/name" into a namespaced Symbol. A bare "/" is
// the division symbol (spec.md §4.2); at most one "/" splits a namespace
// from a name.
func parseSymbolText(s string) value.Symbol {
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
