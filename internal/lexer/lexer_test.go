package lexer

import (
	"strings"
	"testing"

	"github.com/zap-lang/zap/internal/diagnostic"
)

func TestBasicTokens(t *testing.T) {
	input := `const main = fn() {
	println!('Hello, Zap!');
};`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
	}{
		{TokenConst, "const"},
		{TokenIdentifier, "main"},
		{TokenAssign, "="},
		{TokenFn, "fn"},
		{TokenLParen, "("},
		{TokenRParen, ")"},
		{TokenLBrace, "{"},
		{TokenIdentifier, "println"},
		{TokenExclamation, "!"},
		{TokenLParen, "("},
		{TokenString, "Hello, Zap!"},
		{TokenRParen, ")"},
		{TokenSemicolon, ";"},
		{TokenRBrace, "}"},
		{TokenSemicolon, ";"},
		{TokenEOF, ""},
	}

	l := NewFromString("test.zap", input)

	for i, tt := range tests {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedValue {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedValue, tok.Literal)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := `fn let mut return struct if elif else while const enum new pub static self`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
	}{
		{TokenFn, "fn"},
		{TokenLet, "let"},
		{TokenMut, "mut"},
		{TokenReturn, "return"},
		{TokenStruct, "struct"},
		{TokenIf, "if"},
		{TokenElif, "elif"},
		{TokenElse, "else"},
		{TokenWhile, "while"},
		{TokenConst, "const"},
		{TokenEnum, "enum"},
		{TokenNew, "new"},
		{TokenIdentifier, "pub"},
		{TokenIdentifier, "static"},
		{TokenIdentifier, "self"},
		{TokenEOF, ""},
	}

	l := NewFromString("test.zap", input)

	for i, tt := range tests {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Type.IsKeyword() != (tt.expectedType >= TokenFn && tt.expectedType <= TokenNew) {
			t.Fatalf("tests[%d] - IsKeyword wrong for %s", i, tok.Type)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `+= -= *= == != <= >= .. + - * / = < > & ! : , ; . ( ) [ ] { } <==`

	expected := []TokenType{
		TokenPlusAssign, TokenMinusAssign, TokenMulAssign, TokenEq, TokenNe, TokenLe, TokenGe, TokenRange,
		TokenPlus, TokenMinus, TokenMul, TokenDiv, TokenAssign, TokenLt, TokenGt, TokenAmpersand, TokenExclamation,
		TokenColon, TokenComma, TokenSemicolon, TokenDot,
		TokenLParen, TokenRParen, TokenLBracket, TokenRBracket, TokenLBrace, TokenRBrace,
		TokenLe, TokenAssign,
		TokenEOF,
	}

	tokens, err := NewFromString("ops.zap", input).Lex()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}

	for i, tt := range expected {
		if tokens[i].Type != tt {
			t.Errorf("tokens[%d] - expected=%s, got=%s (%q)", i, tt, tokens[i].Type, tokens[i].Literal)
		}
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"42", []string{"42"}},
		{"1.5", []string{"1.5"}},
		{"1..5", []string{"1", "..", "5"}},
		{"1.", []string{"1", "."}},
		{"1.5.3", []string{"1.5", ".", "3"}},
		{"1.x", []string{"1", ".", "x"}},
		{"0..10", []string{"0", "..", "10"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := NewFromString("num.zap", tt.input).Lex()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := make([]string, 0, len(tokens))
			for _, tok := range tokens[:len(tokens)-1] {
				got = append(got, tok.Literal)
			}

			if strings.Join(got, " ") != strings.Join(tt.expected, " ") {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Single quoted", `'hi'`, "hi"},
		{"Double quoted", `"hi"`, "hi"},
		{"Empty", `''`, ""},
		{"Escapes", `'a\nb\tc\\d\'e'`, "a\nb\tc\\d'e"},
		{"Double quote escape", `"say \"hi\""`, `say "hi"`},
		{"Other quote inside", `'say "hi"'`, `say "hi"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := NewFromString("str.zap", tt.input).Next()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tok.Type != TokenString {
				t.Fatalf("expected STRING, got %s", tok.Type)
			}
			if tok.Literal != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tok.Literal)
			}
		})
	}
}

func TestCommentsAndWhitespace(t *testing.T) {
	input := "// leading comment\n  \t// another\nconst // trailing\n\n   x // end"

	tokens, err := NewFromString("c.zap", input).Lex()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %v", len(tokens), tokens)
	}
	if tokens[0].Type != TokenConst || tokens[1].Literal != "x" || tokens[2].Type != TokenEOF {
		t.Errorf("unexpected tokens: %v", tokens)
	}
}

func TestTokenPositions(t *testing.T) {
	input := "const a = 1;\n  let b"

	tokens, err := NewFromString("pos.zap", input).Lex()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		index  int
		line   int
		column int
	}{
		{0, 1, 1},
		{1, 1, 7},
		{4, 1, 12},
		{5, 2, 3},
		{6, 2, 7},
	}

	for _, tt := range tests {
		line, column := tokens[tt.index].Pos.LineColumn()
		if line != tt.line || column != tt.column {
			t.Errorf("tokens[%d] %q at %d:%d, expected %d:%d",
				tt.index, tokens[tt.index].Literal, line, column, tt.line, tt.column)
		}
	}
}

func TestBadToken(t *testing.T) {
	tokens, err := NewFromString("bad.zap", "a @ b # \u00e9").Lex()
	if err != nil {
		t.Fatalf("bad characters must not fail lexing: %v", err)
	}

	if tokens[1].Type != TokenBad || tokens[1].Literal != "@" {
		t.Errorf("expected BAD '@', got %s %q", tokens[1].Type, tokens[1].Literal)
	}
	if tokens[3].Type != TokenBad {
		t.Errorf("expected BAD '#', got %s", tokens[3].Type)
	}
	if tokens[4].Type != TokenIdentifier || tokens[4].Literal != "\u00e9" {
		t.Errorf("expected unicode identifier, got %s %q", tokens[4].Type, tokens[4].Literal)
	}
}

func TestIdentifierNormalization(t *testing.T) {
	decomposed := "cafe\u0301"
	composed := "caf\u00e9"

	tok, err := NewFromString("n.zap", decomposed).Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Literal != composed {
		t.Errorf("expected NFC identifier %q, got %q", composed, tok.Literal)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		message    string
		offset     int
		incomplete bool
	}{
		{"Number followed by identifier", "const x = 12abc;", "values must be separated", 12, false},
		{"Decimal followed by identifier", "1.5e", "values must be separated", 3, false},
		{"Invalid escape", `'a\qb'`, "invalid escaped char", 3, false},
		{"Unterminated string", "'abc", "unterminated string literal", 0, true},
		{"Trailing backslash", `'abc\`, "unterminated string literal", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFromString("err.zap", tt.input).Lex()
			if err == nil {
				t.Fatal("expected an error")
			}

			diag, ok := diagnostic.As(err)
			if !ok {
				t.Fatalf("expected *diagnostic.Error, got %T", err)
			}
			if diag.Stage != diagnostic.StageLexer {
				t.Errorf("expected lexer stage, got %s", diag.Stage)
			}
			if diag.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, diag.Message)
			}
			if diag.Pos.Offset != tt.offset {
				t.Errorf("expected offset %d, got %d", tt.offset, diag.Pos.Offset)
			}
			if diag.Incomplete != tt.incomplete {
				t.Errorf("expected incomplete=%v", tt.incomplete)
			}
		})
	}
}

func TestErrorIsSticky(t *testing.T) {
	l := NewFromString("sticky.zap", "1a b c")

	_, first := l.Next()
	_, second := l.Next()

	if first == nil || first != second {
		t.Fatalf("expected the same error twice, got %v and %v", first, second)
	}
}

func TestEOFRepeats(t *testing.T) {
	l := NewFromString("eof.zap", "  // nothing here")

	for i := 0; i < 3; i++ {
		tok, err := l.Next()
		if err != nil || tok.Type != TokenEOF {
			t.Fatalf("call %d: expected EOF, got %v %v", i, tok, err)
		}
	}
}

func TestAllIterator(t *testing.T) {
	var kinds []TokenType
	for tok, err := range NewFromString("it.zap", "a + 1").All() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		kinds = append(kinds, tok.Type)
	}

	expected := []TokenType{TokenIdentifier, TokenPlus, TokenNumber, TokenEOF}
	if len(kinds) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, kinds)
	}
	for i := range expected {
		if kinds[i] != expected[i] {
			t.Errorf("kinds[%d] = %s, expected %s", i, kinds[i], expected[i])
		}
	}

	count := 0
	for _, err := range NewFromString("it.zap", "1x").All() {
		if err == nil {
			t.Fatal("expected error from iterator")
		}
		count++
	}
	if count != 1 {
		t.Errorf("expected exactly one yield on error, got %d", count)
	}
}

// TestRoundTrip lexes a source, re-serializes its tokens and lexes the
// result again; both token streams must agree.
func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"const a = 1.5 + 2 * (3 - 4); // comment",
		`const s = 'it\'s a \\ test\n';`,
		`const t = "tab\there";`,
		"const r = 1..10;",
		"const main = fn() { let mut i = 0; while i <= 10 { i += 1; }; };",
	}

	for _, input := range inputs {
		first, err := NewFromString("rt.zap", input).Lex()
		if err != nil {
			t.Fatalf("lex %q: %v", input, err)
		}

		parts := make([]string, 0, len(first))
		for _, tok := range first {
			parts = append(parts, tok.String())
		}
		serialized := strings.Join(parts, " ")

		second, err := NewFromString("rt.zap", serialized).Lex()
		if err != nil {
			t.Fatalf("relex %q: %v", serialized, err)
		}

		if len(first) != len(second) {
			t.Fatalf("token count changed: %d vs %d for %q", len(first), len(second), serialized)
		}
		for i := range first {
			if first[i].Type != second[i].Type || first[i].Literal != second[i].Literal {
				t.Errorf("token %d changed: %s %q vs %s %q",
					i, first[i].Type, first[i].Literal, second[i].Type, second[i].Literal)
			}
		}
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		tt       TokenType
		expected string
	}{
		{TokenSemicolon, "';'"},
		{TokenRange, "'..'"},
		{TokenElse, "'else'"},
		{TokenIdentifier, "identifier"},
		{TokenEOF, "end of input"},
	}

	for _, tt := range tests {
		if got := tt.tt.Describe(); got != tt.expected {
			t.Errorf("%s.Describe() = %q, expected %q", tt.tt, got, tt.expected)
		}
	}
}
