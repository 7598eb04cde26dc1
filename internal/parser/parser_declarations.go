package parser

import (
	"github.com/zap-lang/zap/internal/ast"
	"github.com/zap-lang/zap/internal/lexer"
)

// parseDeclaration parses ["pub"] ["static"] followed by a let/const binding.
// Used for top-level items, which must be const, and struct fields.
func (p *Parser) parseDeclaration(topLevel bool) (*ast.VariableDecl, error) {
	isPublic := false
	if p.curIsKeyword("pub") {
		isPublic = true
		p.next()
	}

	isStatic := false
	if p.curIsKeyword("static") {
		isStatic = true
		p.next()
	}

	if topLevel && p.curIs(lexer.TokenLet) {
		return nil, p.errorf(p.cur.Pos, "unexpected 'let' at top level")
	}
	if !p.curIn(lexer.TokenLet, lexer.TokenConst) {
		return nil, p.errorf(p.cur.Pos, "unexpected token")
	}

	return p.parseVariable(isPublic, isStatic, false)
}

// parseVariable parses a binding starting at the let/const keyword. With
// prototypeOnly set, parsing stops after the optional type annotation; this
// is the declaration-as-expression form.
func (p *Parser) parseVariable(isPublic, isStatic, prototypeOnly bool) (*ast.VariableDecl, error) {
	kind := p.cur
	p.next()

	decl := &ast.VariableDecl{
		Position: kind.Pos,
		IsConst:  kind.Type == lexer.TokenConst,
		IsPublic: isPublic,
		IsStatic: isStatic,
	}
	decl.IsMutable = !decl.IsConst && p.match(lexer.TokenMut)

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	decl.Name = name

	if p.match(lexer.TokenColon) {
		if decl.Type, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}

	if prototypeOnly {
		return decl, nil
	}

	if !p.match(lexer.TokenAssign) {
		if _, err := p.expect(lexer.TokenSemicolon); err != nil {
			return nil, err
		}
		return decl, nil
	}

	if decl.Value, err = p.parseExpression(); err != nil {
		return nil, err
	}
	if err := p.expectClosing(lexer.TokenSemicolon); err != nil {
		return nil, err
	}

	return decl, nil
}

// parseFunction parses fn ["(" params ")" [":" type]] block
func (p *Parser) parseFunction() (*ast.FunctionLiteral, error) {
	fn := &ast.FunctionLiteral{Position: p.cur.Pos}
	p.next()

	fn.ReturnType = &ast.Ident{Position: fn.Position, Name: "void"}

	if p.curIs(lexer.TokenLParen) {
		params, err := p.parseParams()
		if err != nil {
			return nil, err
		}
		fn.Params = params

		if p.match(lexer.TokenColon) {
			if fn.ReturnType, err = p.parseExpression(); err != nil {
				return nil, err
			}
		}
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	fn.Body = body

	return fn, nil
}

func (p *Parser) parseParams() ([]ast.Param, error) {
	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return nil, err
	}

	var params []ast.Param
	for !p.match(lexer.TokenRParen) {
		if len(params) > 0 {
			if _, err := p.expect(lexer.TokenComma); err != nil {
				return nil, err
			}
		}

		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}

		param := ast.Param{Name: name}
		if p.match(lexer.TokenColon) {
			if param.Type, err = p.parseExpression(); err != nil {
				return nil, err
			}
		}

		params = append(params, param)
	}

	return params, nil
}

// parseStruct parses struct { declaration* }
func (p *Parser) parseStruct() (*ast.Struct, error) {
	st := &ast.Struct{Position: p.cur.Pos}
	p.next()

	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}

	for !p.match(lexer.TokenRBrace) {
		field, err := p.parseDeclaration(false)
		if err != nil {
			return nil, err
		}
		st.Fields = append(st.Fields, field)
	}

	return st, nil
}

// parseEnum parses enum { A, B, ... }
func (p *Parser) parseEnum() (*ast.Enum, error) {
	enum := &ast.Enum{Position: p.cur.Pos}
	p.next()

	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}
	if p.match(lexer.TokenRBrace) {
		return enum, nil
	}

	seen := make(map[string]bool)
	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if seen[name.Name] {
			return nil, p.errorf(name.Position, "duplicate enum member '%s'", name.Name)
		}
		seen[name.Name] = true
		enum.Members = append(enum.Members, ast.EnumMember{Name: name.Name, Position: name.Position})

		if !p.match(lexer.TokenComma) {
			break
		}
	}

	if _, err := p.expect(lexer.TokenRBrace); err != nil {
		return nil, err
	}

	return enum, nil
}
