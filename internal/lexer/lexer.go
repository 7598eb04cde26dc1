// Package lexer implements the Zap lexical analyzer.
//
// The lexer is a pull-based, forward-only token source: the parser asks for
// one token at a time with Next. Lexing is fail-fast; the first malformed
// construct stops the lexer and every later call returns the same error.
package lexer

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/zap-lang/zap/internal/diagnostic"
	"github.com/zap-lang/zap/internal/position"
)

// Lexer represents the lexical analyzer
type Lexer struct {
	file  *position.SourceFile
	input string
	pos   int // current position in input (points to current char)

	err error // sticky error, set once lexing failed
}

// New creates a new lexer over a source file
func New(file *position.SourceFile) *Lexer {
	return &Lexer{
		file:  file,
		input: file.Content,
	}
}

// NewFromString creates a lexer over an in-memory source
func NewFromString(filename, input string) *Lexer {
	return New(position.NewSourceFile(filename, input))
}

// Next scans the input and returns the next token. At end of input it
// returns a TokenEOF token, repeatedly if called again.
func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}

	l.skipWhitespaceAndComments()

	if l.pos >= len(l.input) {
		return l.newToken(TokenEOF, "", len(l.input)), nil
	}

	start := l.pos
	r, size := l.currentRune()

	var (
		tok Token
		err error
	)

	switch {
	case isIdentifierStart(r):
		ident := l.readIdentifier()
		tok = l.newToken(lookupIdent(ident), ident, start)
	case isDigit(l.input[l.pos]):
		var number string
		number, err = l.readNumber()
		tok = l.newToken(TokenNumber, number, start)
	case l.input[l.pos] == '\'' || l.input[l.pos] == '"':
		var value string
		value, err = l.readString()
		tok = l.newToken(TokenString, value, start)
	default:
		tok = l.readOperator(start, size)
	}

	if err != nil {
		l.err = err
		return Token{}, err
	}

	return tok, nil
}

// Lex drains the lexer into a slice. The EOF token is the last element.
func (l *Lexer) Lex() ([]Token, error) {
	tokens := make([]Token, 0, len(l.input)/4+1)

	for {
		tok, err := l.Next()
		if err != nil {
			return tokens, err
		}

		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// All returns a single-use iterator over the remaining tokens, ending with
// the EOF token. On a lexical error it yields the error once and stops.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if err != nil {
				yield(Token{}, err)
				return
			}
			if !yield(tok, nil) || tok.Type == TokenEOF {
				return
			}
		}
	}
}

// skipWhitespaceAndComments skips blanks and "//" comments until neither
// is found, since whitespace may precede another comment.
func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == ' ' || ch == '\n' || ch == '\t' || ch == '\r':
			l.pos++
		case ch == '/' && l.peekChar(1) == '/':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

// peekChar returns the byte at offset from the current position without advancing
func (l *Lexer) peekChar(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

// currentRune decodes the rune at the current position
func (l *Lexer) currentRune() (rune, int) {
	if l.pos >= len(l.input) {
		return utf8.RuneError, 0
	}
	if c := l.input[l.pos]; c < utf8.RuneSelf {
		return rune(c), 1
	}
	return utf8.DecodeRuneInString(l.input[l.pos:])
}

// readIdentifier reads a maximal run of identifier characters
func (l *Lexer) readIdentifier() string {
	start := l.pos
	ascii := true

	for l.pos < len(l.input) {
		r, size := l.currentRune()
		if !isIdentifierChar(r) {
			break
		}
		if size > 1 {
			ascii = false
		}
		l.pos += size
	}

	ident := l.input[start:l.pos]
	if !ascii {
		// Composed and decomposed spellings must name the same binding.
		ident = norm.NFC.String(ident)
	}
	return ident
}

// readNumber reads digits with at most one interior '.'. A '.' is only part
// of the literal when a digit follows it, which keeps "1..5" a range and
// leaves a trailing "1." to the member-access grammar.
func (l *Lexer) readNumber() (string, error) {
	start := l.pos
	seenDot := false

	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if isDigit(ch) {
			l.pos++
			continue
		}
		if ch == '.' && !seenDot && isDigit(l.peekChar(1)) {
			seenDot = true
			l.pos++
			continue
		}
		break
	}

	if r, _ := l.currentRune(); l.pos < len(l.input) && isIdentifierChar(r) {
		return "", diagnostic.New(diagnostic.StageLexer, l.file.At(l.pos), "values must be separated")
	}

	return l.input[start:l.pos], nil
}

// readString reads a quoted literal and returns its unescaped value
func (l *Lexer) readString() (string, error) {
	start := l.pos
	quote := l.input[l.pos]
	l.pos++

	var sb strings.Builder

	for {
		if l.pos >= len(l.input) {
			err := diagnostic.New(diagnostic.StageLexer, l.file.At(start), "unterminated string literal")
			err.Incomplete = true
			return "", err
		}

		ch := l.input[l.pos]
		switch ch {
		case quote:
			l.pos++
			return sb.String(), nil
		case '\\':
			l.pos++
			if l.pos >= len(l.input) {
				continue
			}
			escaped, ok := escapeChar(l.input[l.pos])
			if !ok {
				return "", diagnostic.New(diagnostic.StageLexer, l.file.At(l.pos), "invalid escaped char")
			}
			sb.WriteByte(escaped)
			l.pos++
		default:
			sb.WriteByte(ch)
			l.pos++
		}
	}
}

// readOperator matches two-character operators greedily, then single
// characters. Anything else becomes a TokenBad for the parser to report.
func (l *Lexer) readOperator(start, size int) Token {
	if l.pos+2 <= len(l.input) {
		if tt, ok := doubleOperators[l.input[l.pos:l.pos+2]]; ok {
			l.pos += 2
			return l.newToken(tt, l.input[start:l.pos], start)
		}
	}

	if tt, ok := singleOperators[l.input[l.pos]]; ok {
		l.pos++
		return l.newToken(tt, l.input[start:l.pos], start)
	}

	l.pos += max(size, 1)
	return l.newToken(TokenBad, l.input[start:l.pos], start)
}

// newToken creates a token starting at the given offset
func (l *Lexer) newToken(tokenType TokenType, literal string, offset int) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Pos:     l.file.At(offset),
	}
}

func escapeChar(ch byte) (byte, bool) {
	switch ch {
	case '\\':
		return '\\', true
	case '\'':
		return '\'', true
	case '"':
		return '"', true
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	default:
		return 0, false
	}
}

// isIdentifierStart checks if r may begin an identifier
func isIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// isIdentifierChar checks if r may continue an identifier
func isIdentifierChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// isDigit checks if character is ASCII digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// lookupIdent checks if identifier is keyword
func lookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdentifier
}
