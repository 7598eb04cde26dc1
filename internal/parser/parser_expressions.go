package parser

import (
	"github.com/zap-lang/zap/internal/ast"
	"github.com/zap-lang/zap/internal/lexer"
)

// binaryLevels lists binary operators from lowest to highest precedence.
// All levels are left-associative.
var binaryLevels = [][]lexer.TokenType{
	{lexer.TokenEq, lexer.TokenNe, lexer.TokenLt, lexer.TokenGt, lexer.TokenLe, lexer.TokenGe},
	{lexer.TokenPlus, lexer.TokenMinus},
	{lexer.TokenMul, lexer.TokenDiv},
}

var unaryOperators = []lexer.TokenType{
	lexer.TokenPlus,
	lexer.TokenMinus,
	lexer.TokenAmpersand,
	lexer.TokenMul,
	lexer.TokenExclamation,
}

// parseExpression parses a declaration prototype or a comparison.
func (p *Parser) parseExpression() (ast.Node, error) {
	if p.curIn(lexer.TokenLet, lexer.TokenConst) {
		return p.parseVariable(false, false, true)
	}
	return p.parseBinary(0)
}

// parseBinary parses the operators of binaryLevels[level] and above.
func (p *Parser) parseBinary(level int) (ast.Node, error) {
	if level == len(binaryLevels) {
		return p.parseTerm(true)
	}

	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}

	for p.curIn(binaryLevels[level]...) {
		op := p.cur
		p.next()

		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Position: left.Pos(), Left: left, Operator: op.Literal, Right: right}
	}

	return left, nil
}

// parseTerm parses [unary] primary [".." term] postfix*. The unary operator
// applies to the whole postfix chain, so -a.b() is -(a.b()).
func (p *Parser) parseTerm(allowRange bool) (ast.Node, error) {
	var sign *lexer.Token
	if p.curIn(unaryOperators...) {
		tok := p.cur
		sign = &tok
		p.next()
	}

	term, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if allowRange && p.match(lexer.TokenRange) {
		upper, err := p.parseTerm(false)
		if err != nil {
			return nil, err
		}
		term = &ast.Range{Position: term.Pos(), Lower: term, Upper: upper}
	}

	for {
		switch {
		case p.match(lexer.TokenDot):
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			term = &ast.Member{Position: term.Pos(), Base: term, Name: name}
		case p.curIn(lexer.TokenLParen, lexer.TokenExclamation):
			if term, err = p.parseCall(term); err != nil {
				return nil, err
			}
		default:
			if sign != nil {
				return &ast.UnaryOp{Position: sign.Pos, Operator: sign.Literal, Operand: term}, nil
			}
			return term, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.cur

	switch tok.Type {
	case lexer.TokenNumber:
		p.next()
		return &ast.Number{Position: tok.Pos, Value: tok.Literal}, nil
	case lexer.TokenString:
		p.next()
		return &ast.String{Position: tok.Pos, Value: tok.Literal}, nil
	case lexer.TokenIdentifier:
		p.next()
		return &ast.Ident{Position: tok.Pos, Name: tok.Literal}, nil
	case lexer.TokenFn:
		return p.parseFunction()
	case lexer.TokenStruct:
		return p.parseStruct()
	case lexer.TokenEnum:
		return p.parseEnum()
	case lexer.TokenLParen:
		p.next()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectClosing(lexer.TokenRParen); err != nil {
			return nil, err
		}
		return expr, nil
	case lexer.TokenIf:
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		if err := p.checkScopeReturns(cond); err != nil {
			return nil, err
		}
		return cond, nil
	case lexer.TokenLBracket:
		return p.parseArray()
	case lexer.TokenNew:
		return p.parseNew()
	default:
		return nil, p.errorf(tok.Pos, "expected expression")
	}
}

// parseCall parses [!] ( args ) applied to callee
func (p *Parser) parseCall(callee ast.Node) (*ast.Call, error) {
	call := &ast.Call{Position: callee.Pos(), Callee: callee}
	call.IsBuiltin = p.match(lexer.TokenExclamation)

	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return nil, err
	}

	args, err := p.parseList(lexer.TokenRParen)
	if err != nil {
		return nil, err
	}
	call.Args = args

	return call, nil
}

// parseList parses comma separated expressions up to and including the
// closing token.
func (p *Parser) parseList(closing lexer.TokenType) ([]ast.Node, error) {
	if p.match(closing) {
		return nil, nil
	}

	var list []ast.Node
	for {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		list = append(list, expr)

		if !p.match(lexer.TokenComma) {
			break
		}
	}

	if _, err := p.expect(closing); err != nil {
		return nil, err
	}

	return list, nil
}

// parseCondition parses if expr block (elif expr block)* [else block]. The
// chain carries the position of its if keyword.
func (p *Parser) parseCondition() (*ast.Condition, error) {
	var head, tail *ast.Condition

	for {
		link := &ast.Condition{Position: p.cur.Pos}

		switch p.cur.Type {
		case lexer.TokenIf:
			link.Kind = ast.If
		case lexer.TokenElif:
			link.Kind = ast.Elif
		case lexer.TokenElse:
			link.Kind = ast.Else
		}
		p.next()

		if link.Kind != ast.Else {
			cond, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			link.Cond = cond
		}

		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		link.Body = body

		if head == nil {
			head = link
		} else {
			tail.Next = link
		}
		tail = link

		if link.Kind == ast.Else || !p.curIn(lexer.TokenElif, lexer.TokenElse) {
			return head, nil
		}
	}
}

// checkScopeReturns requires either every arm of the chain or none of them
// to produce a value.
func (p *Parser) checkScopeReturns(chain *ast.Condition) error {
	links, producing := 0, 0
	for link := range chain.Links() {
		links++
		if link.Body.ContainsScopeReturn() {
			producing++
		}
	}

	if producing > 0 && producing != links {
		return p.errorf(chain.Pos(), "not all paths return a value")
	}
	return nil
}

// parseArray parses [ expr, ... ]
func (p *Parser) parseArray() (*ast.Array, error) {
	arr := &ast.Array{Position: p.cur.Pos}
	p.next()

	elements, err := p.parseList(lexer.TokenRBracket)
	if err != nil {
		return nil, err
	}
	arr.Elements = elements

	return arr, nil
}

// parseNew parses new [type] { name: expr, ... }
func (p *Parser) parseNew() (*ast.New, error) {
	n := &ast.New{Position: p.cur.Pos}
	p.next()

	if !p.curIs(lexer.TokenLBrace) {
		typ, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		n.Type = typ
	}

	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}
	if p.match(lexer.TokenRBrace) {
		return n, nil
	}

	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenColon); err != nil {
			return nil, err
		}

		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		n.Fields = append(n.Fields, ast.FieldInit{Name: name.Name, Value: value, Position: name.Position})

		if !p.match(lexer.TokenComma) {
			break
		}
	}

	if _, err := p.expect(lexer.TokenRBrace); err != nil {
		return nil, err
	}

	return n, nil
}
