package lexer

import "testing"

func TestNextTokenBasic(t *testing.T) {
	input := `(:name . ,) ; comment
[1 -2 3.5 "hi"] #{1 2} #(inc %) #_skip true`

	tests := []struct {
		wantType    TokenType
		wantLiteral string
	}{
		{LPAREN, "("},
		{KEYWORD, ":name"},
		{SYMBOL, "."},
		{RPAREN, ")"},
		{LBRACKET, "["},
		{INT, "1"},
		{INT, "-2"},
		{FLOAT, "3.5"},
		{STRING, "hi"},
		{RBRACKET, "]"},
		{SETSTART, "#{"},
		{INT, "1"},
		{INT, "2"},
		{RBRACE, "}"},
		{FNSTART, "#("},
		{SYMBOL, "inc"},
		{SYMBOL, "%"},
		{RPAREN, ")"},
		{DISCARD, "#_"},
		{SYMBOL, "skip"},
		{SYMBOL, "true"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d]: unexpected error: %v", i, err)
		}
		if tok.Type != tt.wantType {
			t.Fatalf("tests[%d]: type = %v, want %v (literal=%q)", i, tok.Type, tt.wantType, tok.Literal)
		}
		if tok.Literal != tt.wantLiteral {
			t.Fatalf("tests[%d]: literal = %q, want %q", i, tok.Literal, tt.wantLiteral)
		}
	}
}

func TestCommasAreWhitespace(t *testing.T) {
	l := New("[1, 2,3]")
	var lits []string
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Type == EOF {
			break
		}
		lits = append(lits, tok.Literal)
	}
	want := []string{"[", "1", "2", "3", "]"}
	if len(lits) != len(want) {
		t.Fatalf("got %v, want %v", lits, want)
	}
	for i := range want {
		if lits[i] != want[i] {
			t.Errorf("token %d: got %q, want %q", i, lits[i], want[i])
		}
	}
}

func TestUnterminatedStringError(t *testing.T) {
	l := New(`"abc`)
	if _, err := l.NextToken(); err == nil {
		t.Error("expected an unterminated-string error")
	}
}

func TestNamedCharacterLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`\newline`, "\n"},
		{`\space`, " "},
		{`\tab`, "\t"},
		{`\a`, "a"},
		{`\A`, "A"},
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("input %q: unexpected error: %v", tt.input, err)
		}
		if tok.Type != CHAR || tok.Literal != tt.want {
			t.Errorf("input %q: got (%v,%q), want (CHAR,%q)", tt.input, tok.Type, tok.Literal, tt.want)
		}
	}
}

func TestKeywordAliasFormIsCaptured(t *testing.T) {
	l := New("::x")
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected lexer error: %v", err)
	}
	if tok.Type != KEYWORD || tok.Literal != "::x" {
		t.Errorf("got (%v,%q), want (KEYWORD,\"::x\")", tok.Type, tok.Literal)
	}
}
