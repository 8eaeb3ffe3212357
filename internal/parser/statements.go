package parser

import (
	"github.com/pawlang/pawc/internal/ast"
	"github.com/pawlang/pawc/internal/lexer"
)

// parseBlock parses `{ stmt* [tailExpr] }` with curTok on the opening '{'.
// A trailing expression with no terminating ';' becomes the block's Tail;
// everything else is a statement.
func (p *Parser) parseBlock() *ast.BlockExpr {
	start := p.curTok.Span
	p.nextToken()

	var stmts []ast.Stmt
	var tail ast.Expr

	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		stmt, trailingExpr := p.parseBlockItem()
		if trailingExpr != nil {
			tail = trailingExpr
			p.nextToken()
			break
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.nextToken()
	}
	return ast.NewBlockExpr(stmts, tail, mergeSpan(start, p.curTok.Span))
}

// parseBlockItem parses one block item and reports whether it was a
// trailing (non-`;`-terminated) expression rather than a statement.
func (p *Parser) parseBlockItem() (ast.Stmt, ast.Expr) {
	switch p.curTok.Type {
	case lexer.LET:
		return p.parseLetStmt(), nil
	case lexer.RETURN:
		return p.parseReturnStmt(), nil
	case lexer.BREAK:
		return p.parseBreakStmt(), nil
	case lexer.CONTINUE:
		return ast.NewContinueStmt(p.curTok.Span), nil
	case lexer.LOOP:
		return p.parseLoopStmt(), nil
	case lexer.SEMICOLON:
		return nil, nil
	default:
		start := p.curTok.Span
		expr := p.parseExpression(precedenceLowest)

		if compoundOp, ok := compoundAssignOps[p.peekTok.Type]; ok {
			p.nextToken()
			p.nextToken()
			value := p.parseExpression(precedenceLowest)
			if p.peekIs(lexer.SEMICOLON) {
				p.nextToken()
			}
			return ast.NewCompoundAssignStmt(compoundOp, expr, value, mergeSpan(start, exprSpan(value))), nil
		}
		if p.peekIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			value := p.parseExpression(precedenceLowest)
			if p.peekIs(lexer.SEMICOLON) {
				p.nextToken()
			}
			return ast.NewAssignStmt(expr, value, mergeSpan(start, exprSpan(value))), nil
		}

		if p.peekIs(lexer.SEMICOLON) {
			p.nextToken()
			return ast.NewExprStmt(expr, mergeSpan(start, p.curTok.Span)), nil
		}
		if p.peekIs(lexer.RBRACE) {
			return nil, expr
		}
		return ast.NewExprStmt(expr, mergeSpan(start, exprSpan(expr))), nil
	}
}

var compoundAssignOps = map[lexer.TokenType]lexer.TokenType{
	lexer.PLUSEQ:  lexer.PLUS,
	lexer.MINUSEQ: lexer.MINUS,
	lexer.STAREQ:  lexer.ASTERISK,
	lexer.SLASHEQ: lexer.SLASH,
	lexer.PCTEQ:   lexer.PERCENT,
}

func (p *Parser) parseLetStmt() ast.Stmt {
	start := p.curTok.Span
	mutable := false
	if p.peekIs(lexer.MUT) {
		p.nextToken()
		mutable = true
	}
	if !p.expect(lexer.IDENT) {
		return nil
	}
	name := p.curTok.Raw

	var typ ast.TypeExpr
	if p.peekIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		typ = p.parseType()
	}

	if !p.expect(lexer.ASSIGN) {
		return ast.NewLetStmt(name, mutable, typ, nil, mergeSpan(start, p.curTok.Span))
	}
	p.nextToken()
	value := p.parseExpression(precedenceLowest)
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return ast.NewLetStmt(name, mutable, typ, value, mergeSpan(start, exprSpan(value)))
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.curTok.Span
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
		return ast.NewReturnStmt(nil, start)
	}
	p.nextToken()
	value := p.parseExpression(precedenceLowest)
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return ast.NewReturnStmt(value, mergeSpan(start, exprSpan(value)))
}

func (p *Parser) parseBreakStmt() ast.Stmt {
	start := p.curTok.Span
	if p.peekIs(lexer.SEMICOLON) || p.peekIs(lexer.RBRACE) {
		if p.peekIs(lexer.SEMICOLON) {
			p.nextToken()
		}
		return ast.NewBreakStmt(nil, start)
	}
	p.nextToken()
	value := p.parseExpression(precedenceLowest)
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return ast.NewBreakStmt(value, mergeSpan(start, exprSpan(value)))
}

// parseLoopStmt unifies the three surface loop forms into one LoopStmt:
//
//	loop { ... }                  -- bare infinite loop
//	loop cond { ... }              -- conditional loop
//	loop name in iterable { ... }  -- iterator loop
func (p *Parser) parseLoopStmt() ast.Stmt {
	start := p.curTok.Span
	p.nextToken()

	if p.curIs(lexer.LBRACE) {
		body := p.parseBlock()
		return ast.NewLoopStmt(nil, "", nil, body, mergeSpan(start, body.Span()))
	}

	if p.curIs(lexer.IDENT) && p.peekIs(lexer.IN) {
		binder := p.curTok.Raw
		p.nextToken() // cur == IN
		p.nextToken()
		iterable := p.parseExpression(precedenceLowest)
		if !p.expect(lexer.LBRACE) {
			return nil
		}
		body := p.parseBlock()
		return ast.NewLoopStmt(nil, binder, iterable, body, mergeSpan(start, body.Span()))
	}

	p.noStructLiteral = true
	cond := p.parseExpression(precedenceLowest)
	p.noStructLiteral = false
	if !p.expect(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	return ast.NewLoopStmt(cond, "", nil, body, mergeSpan(start, body.Span()))
}
