package parser

import (
	"github.com/pawlang/pawc/internal/ast"
	"github.com/pawlang/pawc/internal/lexer"
)

// parsePattern parses one pattern inside an `is`-match arm: `_`, a literal,
// a bare binder name, or `Variant` / `Variant(p1, p2)`.
func (p *Parser) parsePattern() ast.Pattern {
	switch p.curTok.Type {
	case lexer.IDENT:
		tok := p.curTok
		if tok.Raw == "_" {
			return ast.NewWildcardPattern(tok.Span)
		}
		if p.peekIs(lexer.LPAREN) {
			p.nextToken() // consume name, cur == '('
			p.nextToken()
			var binders []ast.Pattern
			for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
				binders = append(binders, p.parsePattern())
				if p.peekIs(lexer.COMMA) {
					p.nextToken()
					p.nextToken()
				} else {
					p.nextToken()
					break
				}
			}
			return ast.NewVariantPattern(tok.Raw, binders, mergeSpan(tok.Span, p.curTok.Span))
		}
		// A capitalized bare name with no payload is a unit variant
		// pattern; anything else is a fresh binder. The checker resolves
		// which enum (if any) the name belongs to.
		if isUpper(tok.Raw) {
			return ast.NewVariantPattern(tok.Raw, nil, tok.Span)
		}
		return ast.NewIdentPattern(tok.Raw, tok.Span)

	case lexer.INT:
		return ast.NewLiteralPattern(p.parseIntLiteral(), p.curTok.Span)
	case lexer.FLOAT:
		return ast.NewLiteralPattern(p.parseFloatLiteral(), p.curTok.Span)
	case lexer.STRING:
		return ast.NewLiteralPattern(p.parseStringLiteral(), p.curTok.Span)
	case lexer.CHAR:
		return ast.NewLiteralPattern(p.parseCharLiteral(), p.curTok.Span)
	case lexer.TRUE, lexer.FALSE:
		return ast.NewLiteralPattern(p.parseBoolLiteral(), p.curTok.Span)
	case lexer.MINUS:
		start := p.curTok.Span
		p.nextToken()
		lit := p.parseExpression(precedencePrefix)
		_ = start
		return ast.NewLiteralPattern(lit, p.curTok.Span)

	default:
		p.reportError("expected pattern, found '"+string(p.curTok.Type)+"'", p.curTok.Span)
		return ast.NewWildcardPattern(p.curTok.Span)
	}
}

func isUpper(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return c >= 'A' && c <= 'Z'
}
