package parser

import (
	"github.com/pawlang/pawc/internal/ast"
	"github.com/pawlang/pawc/internal/lexer"
)

// parseImportDecl parses `import a.b.c;`, `import a.b.{x, y};`, or
// `import a.b.*;`.
func (p *Parser) parseImportDecl() *ast.ImportDecl {
	start := p.curTok.Span
	if !p.expect(lexer.IDENT) {
		return nil
	}
	path := []string{p.curTok.Raw}
	for p.peekIs(lexer.DOT) {
		p.nextToken() // '.'
		p.nextToken()
		if p.curIs(lexer.ASTERISK) {
			p.consumeImportTerminator()
			return ast.NewImportDecl(path, "", nil, true, mergeSpan(start, p.curTok.Span))
		}
		if p.curIs(lexer.LBRACE) {
			items := p.parseImportItemList()
			p.consumeImportTerminator()
			return ast.NewImportDecl(path, "", items, false, mergeSpan(start, p.curTok.Span))
		}
		path = append(path, p.curTok.Raw)
	}
	// Last path segment is the imported item itself.
	item := path[len(path)-1]
	path = path[:len(path)-1]
	p.consumeImportTerminator()
	return ast.NewImportDecl(path, item, nil, false, mergeSpan(start, p.curTok.Span))
}

func (p *Parser) parseImportItemList() []string {
	var items []string
	p.nextToken()
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		items = append(items, p.curTok.Raw)
		if p.peekIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
		} else {
			p.nextToken()
		}
	}
	return items
}

func (p *Parser) consumeImportTerminator() {
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
}

// parseDecl parses one top-level declaration: `fn`, `type`, `impl`,
// optionally prefixed by `pub`.
func (p *Parser) parseDecl() ast.Decl {
	isPub := false
	if p.curIs(lexer.PUB) {
		isPub = true
		p.nextToken()
	}

	switch p.curTok.Type {
	case lexer.FN:
		return p.parseFnDecl(isPub, false)
	case lexer.ASYNC:
		p.nextToken()
		if !p.curIs(lexer.FN) {
			p.reportError("expected 'fn' after 'async'", p.curTok.Span)
			return nil
		}
		return p.parseFnDecl(isPub, true)
	case lexer.TYPE:
		return p.parseTypeDecl(isPub)
	case lexer.IMPL:
		return p.parseImplDecl()
	default:
		p.reportError("expected declaration, found '"+string(p.curTok.Type)+"'", p.curTok.Span)
		return nil
	}
}

// parseFnDecl parses `fn name<T>(params) -> Ret { body }` and the
// single-expression form `fn name(params) -> Ret = expr;`.
func (p *Parser) parseFnDecl(isPub, isAsync bool) *ast.FnDecl {
	start := p.curTok.Span
	if !p.expect(lexer.IDENT) {
		return nil
	}
	name := p.curTok.Raw

	typeParams := p.parseGenericParams()

	if !p.expect(lexer.LPAREN) {
		return nil
	}
	params := p.parseParamList()

	var ret ast.TypeExpr
	if p.peekIs(lexer.ARROW) {
		p.nextToken()
		p.nextToken()
		ret = p.parseType()
	}

	var body *ast.BlockExpr
	if p.peekIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		tailStart := p.curTok.Span
		tail := p.parseExpression(precedenceLowest)
		if p.peekIs(lexer.SEMICOLON) {
			p.nextToken()
		}
		body = ast.NewBlockExpr(nil, tail, mergeSpan(tailStart, exprSpan(tail)))
	} else if p.peekIs(lexer.LBRACE) {
		p.nextToken()
		body = p.parseBlock()
	} else if p.peekIs(lexer.SEMICOLON) || p.peekIs(lexer.RBRACE) {
		// Bodyless signature, as a trait's method_sigs allow (spec.md §4.3).
		// Left to the checker to reject trait/impl dispatch entirely.
		if p.peekIs(lexer.SEMICOLON) {
			p.nextToken()
		}
	} else {
		p.expect(lexer.LBRACE)
	}

	return ast.NewFnDecl(name, typeParams, params, ret, body, isPub, isAsync, mergeSpan(start, p.curTok.Span))
}

func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param
	p.nextToken()
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		start := p.curTok.Span
		mutable := false
		if p.curIs(lexer.MUT) {
			mutable = true
			p.nextToken()
		}
		if p.curIs(lexer.SELF) {
			params = append(params, ast.NewParam("self", mutable, true, nil, mergeSpan(start, p.curTok.Span)))
		} else {
			name := p.curTok.Raw
			var typ ast.TypeExpr
			if p.expect(lexer.COLON) {
				p.nextToken()
				typ = p.parseType()
			}
			params = append(params, ast.NewParam(name, mutable, false, typ, mergeSpan(start, p.curTok.Span)))
		}
		if p.peekIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
		} else {
			p.nextToken()
		}
	}
	return params
}

// parseTypeDecl parses `type Name<T> = struct|enum|trait { ... }` and the
// plain alias form `type Name<T> = SomeType;`.
func (p *Parser) parseTypeDecl(isPub bool) ast.Decl {
	start := p.curTok.Span
	if !p.expect(lexer.IDENT) {
		return nil
	}
	name := p.curTok.Raw
	p.knownTypes[name] = true
	typeParams := p.parseGenericParams()

	if !p.expect(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()

	switch p.curTok.Type {
	case lexer.STRUCT:
		return p.parseStructBody(name, typeParams, isPub, start)
	case lexer.ENUM:
		return p.parseEnumBody(name, typeParams, isPub, start)
	case lexer.TRAIT:
		return p.parseTraitBody(name, typeParams, isPub, start)
	default:
		target := p.parseType()
		if p.peekIs(lexer.SEMICOLON) {
			p.nextToken()
		}
		return ast.NewAliasDecl(name, typeParams, target, isPub, mergeSpan(start, target.Span()))
	}
}

func (p *Parser) parseStructBody(name string, typeParams []*ast.GenericParam, isPub bool, start lexer.Span) *ast.StructDecl {
	if !p.expect(lexer.LBRACE) {
		return nil
	}
	p.nextToken()

	var fields []*ast.StructField
	var methods []*ast.FnDecl
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		fieldPub := false
		if p.curIs(lexer.PUB) {
			fieldPub = true
			p.nextToken()
		}
		if p.curIs(lexer.FN) {
			if m := p.parseFnDecl(fieldPub, false); m != nil {
				methods = append(methods, m)
			}
			p.nextToken()
			continue
		}
		fstart := p.curTok.Span
		fname := p.curTok.Raw
		if !p.expect(lexer.COLON) {
			break
		}
		p.nextToken()
		ftyp := p.parseType()
		fields = append(fields, ast.NewStructField(fname, ftyp, fieldPub, mergeSpan(fstart, ftyp.Span())))
		if p.peekIs(lexer.COMMA) || p.peekIs(lexer.SEMICOLON) {
			p.nextToken()
		}
		p.nextToken()
	}
	return ast.NewStructDecl(name, typeParams, fields, methods, isPub, mergeSpan(start, p.curTok.Span))
}

func (p *Parser) parseEnumBody(name string, typeParams []*ast.GenericParam, isPub bool, start lexer.Span) *ast.EnumDecl {
	if !p.expect(lexer.LBRACE) {
		return nil
	}
	p.nextToken()

	var variants []*ast.EnumVariant
	var methods []*ast.FnDecl
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.FN) {
			if m := p.parseFnDecl(false, false); m != nil {
				methods = append(methods, m)
			}
			p.nextToken()
			continue
		}
		vstart := p.curTok.Span
		vname := p.curTok.Raw
		var payloads []ast.TypeExpr
		if p.peekIs(lexer.LPAREN) {
			p.nextToken()
			p.nextToken()
			for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
				payloads = append(payloads, p.parseType())
				if p.peekIs(lexer.COMMA) {
					p.nextToken()
					p.nextToken()
				} else {
					p.nextToken()
				}
			}
		}
		variants = append(variants, ast.NewEnumVariant(vname, payloads, mergeSpan(vstart, p.curTok.Span)))
		p.knownTypes[vname] = true
		if p.peekIs(lexer.COMMA) {
			p.nextToken()
		}
		p.nextToken()
	}
	return ast.NewEnumDecl(name, typeParams, variants, methods, isPub, mergeSpan(start, p.curTok.Span))
}

func (p *Parser) parseTraitBody(name string, typeParams []*ast.GenericParam, isPub bool, start lexer.Span) *ast.TraitDecl {
	if !p.expect(lexer.LBRACE) {
		return nil
	}
	p.nextToken()

	var methods []*ast.FnDecl
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.FN) {
			if m := p.parseFnDecl(false, false); m != nil {
				methods = append(methods, m)
			}
			p.nextToken()
			continue
		}
		p.nextToken()
	}
	return ast.NewTraitDecl(name, typeParams, methods, isPub, mergeSpan(start, p.curTok.Span))
}

// parseImplDecl parses `impl Type { ... }` or, when the type reference is
// followed by `::`, `impl Trait::Type { ... }` naming the trait being
// implemented. Always parsed successfully; rejected later by the checker
// (spec.md §9).
func (p *Parser) parseImplDecl() *ast.ImplDecl {
	start := p.curTok.Span
	p.nextToken()
	first := p.parseType()

	var trait, target ast.TypeExpr
	if p.peekIs(lexer.DOUBLE_COLON) {
		trait = first
		p.nextToken()
		p.nextToken()
		target = p.parseType()
	} else {
		target = first
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}
	p.nextToken()
	var methods []*ast.FnDecl
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.FN) {
			if m := p.parseFnDecl(false, false); m != nil {
				methods = append(methods, m)
			}
			p.nextToken()
			continue
		}
		p.nextToken()
	}
	return ast.NewImplDecl(trait, target, methods, mergeSpan(start, p.curTok.Span))
}
