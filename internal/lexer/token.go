package lexer

import (
	"fmt"
	"strings"

	"github.com/zap-lang/zap/internal/position"
)

// TokenType represents the type of a token
type TokenType int

// Token types
const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenBad

	// Literals
	TokenIdentifier
	TokenNumber
	TokenString

	// Keywords
	TokenFn
	TokenLet
	TokenMut
	TokenReturn
	TokenStruct
	TokenIf
	TokenElif
	TokenElse
	TokenWhile
	TokenConst
	TokenEnum
	TokenNew

	// Two-character operators
	TokenPlusAssign
	TokenMinusAssign
	TokenMulAssign
	TokenEq
	TokenNe
	TokenLe
	TokenGe
	TokenRange

	// Single-character operators
	TokenPlus
	TokenMinus
	TokenMul
	TokenDiv
	TokenAssign
	TokenLt
	TokenGt
	TokenAmpersand
	TokenExclamation

	// Punctuation
	TokenColon
	TokenComma
	TokenSemicolon
	TokenDot
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
)

// tokenNames provides debug names for token types
var tokenNames = map[TokenType]string{
	TokenEOF: "EOF",
	TokenBad: "BAD",

	TokenIdentifier: "IDENTIFIER",
	TokenNumber:     "NUMBER",
	TokenString:     "STRING",

	TokenFn:     "FN",
	TokenLet:    "LET",
	TokenMut:    "MUT",
	TokenReturn: "RETURN",
	TokenStruct: "STRUCT",
	TokenIf:     "IF",
	TokenElif:   "ELIF",
	TokenElse:   "ELSE",
	TokenWhile:  "WHILE",
	TokenConst:  "CONST",
	TokenEnum:   "ENUM",
	TokenNew:    "NEW",

	TokenPlusAssign:  "PLUS_ASSIGN",
	TokenMinusAssign: "MINUS_ASSIGN",
	TokenMulAssign:   "MUL_ASSIGN",
	TokenEq:          "EQ",
	TokenNe:          "NE",
	TokenLe:          "LE",
	TokenGe:          "GE",
	TokenRange:       "RANGE",

	TokenPlus:        "PLUS",
	TokenMinus:       "MINUS",
	TokenMul:         "MUL",
	TokenDiv:         "DIV",
	TokenAssign:      "ASSIGN",
	TokenLt:          "LT",
	TokenGt:          "GT",
	TokenAmpersand:   "AMPERSAND",
	TokenExclamation: "EXCLAMATION",

	TokenColon:     "COLON",
	TokenComma:     "COMMA",
	TokenSemicolon: "SEMICOLON",
	TokenDot:       "DOT",
	TokenLParen:    "LPAREN",
	TokenRParen:    "RPAREN",
	TokenLBracket:  "LBRACKET",
	TokenRBracket:  "RBRACKET",
	TokenLBrace:    "LBRACE",
	TokenRBrace:    "RBRACE",
}

// keywords maps keyword spellings to their token types
var keywords = map[string]TokenType{
	"fn":     TokenFn,
	"let":    TokenLet,
	"mut":    TokenMut,
	"return": TokenReturn,
	"struct": TokenStruct,
	"if":     TokenIf,
	"elif":   TokenElif,
	"else":   TokenElse,
	"while":  TokenWhile,
	"const":  TokenConst,
	"enum":   TokenEnum,
	"new":    TokenNew,
}

// doubleOperators are matched greedily before singleOperators.
var doubleOperators = map[string]TokenType{
	"+=": TokenPlusAssign,
	"-=": TokenMinusAssign,
	"*=": TokenMulAssign,
	"==": TokenEq,
	"!=": TokenNe,
	"<=": TokenLe,
	">=": TokenGe,
	"..": TokenRange,
}

var singleOperators = map[byte]TokenType{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenMul,
	'/': TokenDiv,
	'=': TokenAssign,
	'<': TokenLt,
	'>': TokenGt,
	'&': TokenAmpersand,
	'!': TokenExclamation,
	':': TokenColon,
	',': TokenComma,
	';': TokenSemicolon,
	'.': TokenDot,
	'(': TokenLParen,
	')': TokenRParen,
	'[': TokenLBracket,
	']': TokenRBracket,
	'{': TokenLBrace,
	'}': TokenRBrace,
}

// symbols holds the source spelling of every fixed-text token type.
var symbols = func() map[TokenType]string {
	m := make(map[TokenType]string, len(keywords)+len(doubleOperators)+len(singleOperators))
	for text, tt := range keywords {
		m[tt] = text
	}
	for text, tt := range doubleOperators {
		m[tt] = text
	}
	for ch, tt := range singleOperators {
		m[tt] = string(ch)
	}
	return m
}()

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Describe returns the user-facing spelling of the token type, as used in
// "expected ..." diagnostics.
func (tt TokenType) Describe() string {
	if text, ok := symbols[tt]; ok {
		return "'" + text + "'"
	}

	switch tt {
	case TokenEOF:
		return "end of input"
	case TokenIdentifier:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	default:
		return "invalid token"
	}
}

// IsKeyword reports whether the token type is a reserved word.
func (tt TokenType) IsKeyword() bool {
	return tt >= TokenFn && tt <= TokenNew
}

// Token represents a lexical token. It is immutable once created.
type Token struct {
	Type    TokenType
	Literal string // decoded text; string literals hold their unescaped value
	Pos     position.Position
}

// String re-serializes the token as source text. String literals are
// re-quoted and re-escaped so that lexing the result yields the same token.
func (t Token) String() string {
	switch t.Type {
	case TokenString:
		return Quote(t.Literal)
	case TokenEOF:
		return ""
	default:
		return t.Literal
	}
}

// Describe returns the user-facing description of this token for diagnostics.
func (t Token) Describe() string {
	switch t.Type {
	case TokenEOF:
		return "end of input"
	case TokenString:
		return Quote(t.Literal)
	default:
		return "'" + t.Literal + "'"
	}
}

// Debug returns a one-line dump of the token with its position.
func (t Token) Debug() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Pos: %s}", t.Type, t.Literal, t.Pos)
}

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\t", `\t`,
)

// Quote renders s as a single-quoted Zap string literal.
func Quote(s string) string {
	return "'" + quoteReplacer.Replace(s) + "'"
}
