package parser

import "github.com/pawlang/pawc/internal/ast"
import "github.com/pawlang/pawc/internal/lexer"

// parseType parses a syntactic type reference with curTok positioned at
// its first token.
func (p *Parser) parseType() ast.TypeExpr {
	switch p.curTok.Type {
	case lexer.AMP:
		start := p.curTok.Span
		p.nextToken()
		mutable := false
		if p.curIs(lexer.MUT) {
			mutable = true
			p.nextToken()
		}
		elem := p.parseType()
		return ast.NewReferenceTypeExpr(mutable, elem, mergeSpan(start, elem.Span()))

	case lexer.ASTERISK:
		start := p.curTok.Span
		p.nextToken()
		elem := p.parseType()
		return ast.NewPointerTypeExpr(elem, mergeSpan(start, elem.Span()))

	case lexer.LBRACKET:
		start := p.curTok.Span
		p.nextToken()
		elem := p.parseType()
		var size ast.Expr
		if p.peekIs(lexer.SEMICOLON) {
			p.nextToken()
			p.nextToken()
			size = p.parseExpression(precedenceLowest)
		}
		p.expect(lexer.RBRACKET)
		return ast.NewArrayTypeExpr(elem, size, mergeSpan(start, p.curTok.Span))

	case lexer.FN:
		start := p.curTok.Span
		p.expect(lexer.LPAREN)
		var params []ast.TypeExpr
		if !p.peekIs(lexer.RPAREN) {
			p.nextToken()
			params = append(params, p.parseType())
			for p.peekIs(lexer.COMMA) {
				p.nextToken()
				p.nextToken()
				params = append(params, p.parseType())
			}
		}
		p.expect(lexer.RPAREN)
		var ret ast.TypeExpr
		if p.peekIs(lexer.ARROW) {
			p.nextToken()
			p.nextToken()
			ret = p.parseType()
		}
		return ast.NewFunctionTypeExpr(params, ret, mergeSpan(start, p.curTok.Span))

	case lexer.IDENT, lexer.SELFTYPE:
		tok := p.curTok
		p.knownTypes[tok.Raw] = true
		var args []ast.TypeExpr
		if p.peekIs(lexer.LT) && p.knownTypes[tok.Raw] {
			p.nextToken() // consume '<'
			p.nextToken()
			args = append(args, p.parseType())
			for p.peekIs(lexer.COMMA) {
				p.nextToken()
				p.nextToken()
				args = append(args, p.parseType())
			}
			p.expect(lexer.GT)
		}
		return ast.NewNamedTypeExpr(tok.Raw, args, mergeSpan(tok.Span, p.curTok.Span))

	default:
		p.reportError("expected type, found '"+string(p.curTok.Type)+"'", p.curTok.Span)
		return ast.NewNamedTypeExpr("<error>", nil, p.curTok.Span)
	}
}

// parseGenericParams parses an optional `<T, U, ...>` parameter list on a
// function or type declaration, registering each name into knownTypes so
// later uses of `Name<...>` in the same declaration parse as generic
// instantiation rather than a comparison.
func (p *Parser) parseGenericParams() []*ast.GenericParam {
	if !p.peekIs(lexer.LT) {
		return nil
	}
	p.nextToken()
	var params []*ast.GenericParam
	p.nextToken()
	for !p.curIs(lexer.GT) && !p.curIs(lexer.EOF) {
		params = append(params, ast.NewGenericParam(p.curTok.Raw, p.curTok.Span))
		p.knownTypes[p.curTok.Raw] = true
		if p.peekIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
		} else {
			p.nextToken()
		}
	}
	return params
}
