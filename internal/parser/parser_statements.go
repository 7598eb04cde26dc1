package parser

import (
	"github.com/zap-lang/zap/internal/ast"
	"github.com/zap-lang/zap/internal/lexer"
)

// assignOperators may only follow an expression used as a full statement.
var assignOperators = []lexer.TokenType{
	lexer.TokenAssign,
	lexer.TokenPlusAssign,
	lexer.TokenMinusAssign,
	lexer.TokenMulAssign,
}

// parseBlock parses { statement* }
func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.expect(lexer.TokenLBrace)
	if err != nil {
		return nil, err
	}

	block := &ast.Block{Position: open.Pos}
	for !p.match(lexer.TokenRBrace) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}

	return block, nil
}

func (p *Parser) parseStatement() (ast.Node, error) {
	switch p.cur.Type {
	case lexer.TokenReturn:
		return p.parseReturn()
	case lexer.TokenLet, lexer.TokenConst:
		return p.parseVariable(false, false, false)
	case lexer.TokenWhile:
		return p.parseWhile()
	default:
		return p.parseExpressionStatement()
	}
}

// parseReturn parses return [expr] ;
func (p *Parser) parseReturn() (*ast.Return, error) {
	ret := &ast.Return{Position: p.cur.Pos}
	p.next()

	if p.match(lexer.TokenSemicolon) {
		return ret, nil
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	ret.Value = value

	if err := p.expectClosing(lexer.TokenSemicolon); err != nil {
		return nil, err
	}

	return ret, nil
}

// parseWhile parses while expr block
func (p *Parser) parseWhile() (*ast.While, error) {
	loop := &ast.While{Position: p.cur.Pos}
	p.next()

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	loop.Cond = cond

	if loop.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}

	return loop, nil
}

// parseExpressionStatement parses an expression with an optional trailing
// assignment. An expression directly followed by the closing brace of its
// block, with no ';', becomes the block's scope return.
func (p *Parser) parseExpressionStatement() (ast.Node, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.curIn(assignOperators...) {
		op := p.cur
		p.next()

		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		expr = &ast.Assignment{Position: expr.Pos(), Target: expr, Operator: op.Literal, Value: value}
	}

	if p.match(lexer.TokenSemicolon) {
		return expr, nil
	}

	cond, isCondition := expr.(*ast.Condition)

	if p.curIs(lexer.TokenRBrace) {
		// A chain none of whose arms produce a value is plain control flow.
		if isCondition && !cond.Body.ContainsScopeReturn() {
			return expr, nil
		}
		return &ast.ScopeReturn{Position: expr.Pos(), Value: expr}, nil
	}

	if isCondition {
		return expr, nil
	}

	return nil, p.errorf(p.prev.Pos, "missing ';'")
}
