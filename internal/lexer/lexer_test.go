package lexer

import "testing"

func TestNextTokenBasic(t *testing.T) {
	input := `let x = 10;`

	tests := []struct {
		expectedType TokenType
		expectedRaw  string
	}{
		{LET, "let"},
		{IDENT, "x"},
		{ASSIGN, "="},
		{INT, "10"},
		{SEMICOLON, ";"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - type wrong. expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Raw != tt.expectedRaw {
			t.Fatalf("tests[%d] - raw wrong. expected=%q, got=%q", i, tt.expectedRaw, tok.Raw)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	l := New(`"hello\nworld"`)
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("expected STRING, got %q", tok.Type)
	}
	if tok.Value != "hello\nworld" {
		t.Fatalf("expected decoded escape, got %q", tok.Value)
	}
}

func TestInterpolationLeftUndecoded(t *testing.T) {
	l := New(`"hi $name"`)
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("expected STRING, got %q", tok.Type)
	}
	if tok.Value != "hi $name" {
		t.Fatalf("interpolation marker should survive lexing undecoded, got %q", tok.Value)
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"42", INT},
		{"3.14", FLOAT},
		{"0xFF", INT},
		{"0b1010", INT},
		{"1_000_000", INT},
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != tt.typ {
			t.Errorf("input %q: expected %q, got %q", tt.input, tt.typ, tok.Type)
		}
	}
}

func TestUnterminatedStringReportsError(t *testing.T) {
	l := New(`"unterminated`)
	l.NextToken()
	if len(l.Errors) == 0 {
		t.Fatalf("expected a lexer error for an unterminated string")
	}
}
