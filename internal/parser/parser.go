// Package parser implements the Zap recursive descent parser.
//
// The parser pulls one token of lookahead at a time from the lexer and
// builds an *ast.Program. It is fail-fast: the first grammar mismatch is
// returned as a *diagnostic.Error and parsing stops. The only semantic check
// performed is that a conditional used as a value either produces a value on
// all of its arms or on none of them.
package parser

import (
	"fmt"

	"github.com/zap-lang/zap/internal/ast"
	"github.com/zap-lang/zap/internal/diagnostic"
	"github.com/zap-lang/zap/internal/lexer"
	"github.com/zap-lang/zap/internal/position"
)

// Parser represents the recursive descent parser
type Parser struct {
	lexer *lexer.Lexer
	cur   lexer.Token // lookahead
	prev  lexer.Token // last consumed token

	lexErr  error // first lexical error; the parser sees EOF after it
	started bool
}

// New creates a new parser reading tokens from l
func New(l *lexer.Lexer) *Parser {
	return &Parser{lexer: l}
}

// ParseString parses an in-memory source.
func ParseString(filename, src string) (*ast.Program, error) {
	return New(lexer.NewFromString(filename, src)).Parse()
}

// Parse parses a whole source file. Every top-level item must be a const
// declaration.
func (p *Parser) Parse() (*ast.Program, error) {
	if !p.started {
		p.started = true
		p.next()
	}

	prog := &ast.Program{Position: p.cur.Pos}

	for !p.curIs(lexer.TokenEOF) {
		decl, err := p.parseDeclaration(true)
		if err != nil {
			return nil, err
		}
		prog.Decls = append(prog.Decls, decl)
	}

	if p.lexErr != nil {
		return nil, p.lexErr
	}

	return prog, nil
}

// next advances the parser to the next token. A lexical error is recorded
// and replaced by EOF so that the grammar unwinds; errorf then reports the
// lexical error instead of whatever mismatch EOF caused.
func (p *Parser) next() {
	p.prev = p.cur

	tok, err := p.lexer.Next()
	if err != nil {
		if p.lexErr == nil {
			p.lexErr = err
		}
		tok = lexer.Token{Type: lexer.TokenEOF, Pos: p.prev.Pos}
	}

	p.cur = tok
}

// curIs checks if the current token is of the given type
func (p *Parser) curIs(tokenType lexer.TokenType) bool {
	return p.cur.Type == tokenType
}

// curIn checks if the current token is one of the given types
func (p *Parser) curIn(types ...lexer.TokenType) bool {
	for _, tt := range types {
		if p.cur.Type == tt {
			return true
		}
	}
	return false
}

// curIsKeyword matches a contextual keyword such as "pub", which lexes as an
// identifier.
func (p *Parser) curIsKeyword(word string) bool {
	return p.cur.Type == lexer.TokenIdentifier && p.cur.Literal == word
}

// match advances past the current token if it has the given type
func (p *Parser) match(tokenType lexer.TokenType) bool {
	if !p.curIs(tokenType) {
		return false
	}
	p.next()
	return true
}

// expect consumes a token of the given type or fails
func (p *Parser) expect(tokenType lexer.TokenType) (lexer.Token, error) {
	if !p.curIs(tokenType) {
		return lexer.Token{}, p.errorf(p.cur.Pos, "expected %s, found %s", tokenType.Describe(), p.cur.Describe())
	}

	tok := p.cur
	p.next()
	return tok, nil
}

// expectIdent consumes an identifier token
func (p *Parser) expectIdent() (*ast.Ident, error) {
	tok, err := p.expect(lexer.TokenIdentifier)
	if err != nil {
		return nil, err
	}
	return &ast.Ident{Position: tok.Pos, Name: tok.Literal}, nil
}

// expectClosing consumes the terminator of a construct. A mismatch is
// reported as "missing 'x'" right after the last consumed token.
func (p *Parser) expectClosing(tokenType lexer.TokenType) error {
	if p.match(tokenType) {
		return nil
	}
	return p.errorf(p.prev.Pos, "missing %s", tokenType.Describe())
}

// errorf builds a parser diagnostic. Failures raised while the lookahead is
// EOF are marked incomplete, since more input could still fix them.
func (p *Parser) errorf(pos position.Position, format string, args ...interface{}) error {
	if p.lexErr != nil {
		return p.lexErr
	}

	err := diagnostic.New(diagnostic.StageParser, pos, fmt.Sprintf(format, args...))
	err.Incomplete = p.curIs(lexer.TokenEOF)
	return err
}
