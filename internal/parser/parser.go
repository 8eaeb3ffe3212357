// Package parser implements a Pratt-style recursive descent parser that
// turns a token stream into a PawLang AST.
package parser

import (
	"github.com/pawlang/pawc/internal/ast"
	"github.com/pawlang/pawc/internal/diag"
	"github.com/pawlang/pawc/internal/lexer"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

type Option func(*options)

type options struct {
	filename string
}

// WithFilename configures the parser to attribute all emitted spans to the
// given filename, used when compiling a multi-file project.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

const (
	precedenceLowest = iota
	precedenceOr
	precedenceAnd
	precedenceEquality
	precedenceComparison
	precedenceRange
	precedenceSum
	precedenceProduct
	precedenceCast
	precedencePrefix
	precedencePostfix
)

var precedences = map[lexer.TokenType]int{
	lexer.OR:       precedenceOr,
	lexer.AND:      precedenceAnd,
	lexer.EQ:       precedenceEquality,
	lexer.NOT_EQ:   precedenceEquality,
	lexer.LT:       precedenceComparison,
	lexer.LE:       precedenceComparison,
	lexer.GT:       precedenceComparison,
	lexer.GE:       precedenceComparison,
	lexer.DOTDOT:   precedenceRange,
	lexer.DOTDOTEQ: precedenceRange,
	lexer.PLUS:     precedenceSum,
	lexer.MINUS:    precedenceSum,
	lexer.ASTERISK: precedenceProduct,
	lexer.SLASH:    precedenceProduct,
	lexer.PERCENT:  precedenceProduct,
	lexer.AS:       precedenceCast,
	lexer.IS:       precedenceComparison,
	lexer.QUESTION: precedencePostfix,
	lexer.LPAREN:   precedencePostfix,
	lexer.LBRACKET: precedencePostfix,
	lexer.DOT:      precedencePostfix,
	lexer.DOUBLE_COLON: precedencePostfix,
}

// ParseError captures a recoverable parsing error with location context.
type ParseError struct {
	Message  string
	Span     lexer.Span
	Severity diag.Severity
}

// Parser implements a Pratt-style recursive descent parser for PawLang.
//
// Invariants:
//   - Lookahead: curTok always reflects the token under examination; peekTok
//     mirrors the one after it. The pair is the parser's sole lookahead
//     window and is only mutated via nextToken.
//   - Diagnostics: errors is append-only; callers consult Errors() after
//     ParseFile.
//   - known_types tracks every type name seen so far in the file (the
//     primitives, declared type names, enum variant names, generic
//     parameters, and identifiers parsed in type position); names are
//     never removed when a generic parameter's declaration ends.
//     It disambiguates `Name < ...` as a generic-argument list only when
//     Name is a known type; otherwise `<` parses as the comparison
//     operator. This is the one piece of the grammar with no direct
//     teacher analogue, since the teacher's own generics use `Name[T]`
//     brackets instead of `Name<T>`.
type Parser struct {
	lx      *lexer.Lexer
	curTok  lexer.Token
	peekTok lexer.Token

	errors []ParseError

	filename string

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn

	knownTypes map[string]bool

	// noStructLiteral suppresses `Name { ... }` struct-literal parsing
	// while inside an if/loop condition, where `{` instead opens the
	// body block. Mirrors the same ambiguity Rust-family parsers resolve
	// the same way.
	noStructLiteral bool
}

// New returns a parser initialized with the provided source input.
func New(input string, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Parser{
		lx:         lexer.New(input),
		prefixFns:  make(map[lexer.TokenType]prefixParseFn),
		infixFns:   make(map[lexer.TokenType]infixParseFn),
		filename:   cfg.filename,
		knownTypes: defaultKnownTypes(),
	}
	if cfg.filename != "" {
		p.lx.SetFilename(cfg.filename)
	}

	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.SELFTYPE, p.parseIdentifier)
	p.registerPrefix(lexer.SELF, p.parseIdentifier)
	p.registerPrefix(lexer.INT, p.parseIntLiteral)
	p.registerPrefix(lexer.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.CHAR, p.parseCharLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBoolLiteral)
	p.registerPrefix(lexer.FALSE, p.parseBoolLiteral)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpr)
	p.registerPrefix(lexer.BANG, p.parsePrefixExpr)
	p.registerPrefix(lexer.AMP, p.parsePrefixExpr)
	p.registerPrefix(lexer.ASTERISK, p.parsePrefixExpr)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(lexer.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(lexer.LBRACE, p.parseBlockAsExpr)
	p.registerPrefix(lexer.IF, p.parseIfExpr)
	p.registerPrefix(lexer.AWAIT, p.parsePrefixExpr)

	p.registerInfix(lexer.PLUS, p.parseInfixExpr)
	p.registerInfix(lexer.MINUS, p.parseInfixExpr)
	p.registerInfix(lexer.ASTERISK, p.parseInfixExpr)
	p.registerInfix(lexer.SLASH, p.parseInfixExpr)
	p.registerInfix(lexer.PERCENT, p.parseInfixExpr)
	p.registerInfix(lexer.AND, p.parseInfixExpr)
	p.registerInfix(lexer.OR, p.parseInfixExpr)
	p.registerInfix(lexer.EQ, p.parseInfixExpr)
	p.registerInfix(lexer.NOT_EQ, p.parseInfixExpr)
	p.registerInfix(lexer.LT, p.parseInfixExpr)
	p.registerInfix(lexer.LE, p.parseInfixExpr)
	p.registerInfix(lexer.GT, p.parseInfixExpr)
	p.registerInfix(lexer.GE, p.parseInfixExpr)
	p.registerInfix(lexer.DOTDOT, p.parseRangeExpr)
	p.registerInfix(lexer.DOTDOTEQ, p.parseRangeExpr)
	p.registerInfix(lexer.AS, p.parseCastExpr)
	p.registerInfix(lexer.QUESTION, p.parseTryExpr)
	p.registerInfix(lexer.LPAREN, p.parseCallExpr)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpr)
	p.registerInfix(lexer.DOT, p.parseDotExpr)
	p.registerInfix(lexer.DOUBLE_COLON, p.parseStaticCallExpr)
	p.registerInfix(lexer.IS, p.parseIsExpr)

	p.nextToken()
	p.nextToken()

	return p
}

func defaultKnownTypes() map[string]bool {
	m := make(map[string]bool)
	names := []string{
		"i8", "i16", "i32", "i64", "i128",
		"u8", "u16", "u32", "u64", "u128",
		"f32", "f64", "bool", "char", "string", "void",
	}
	for _, n := range names {
		m[n] = true
	}
	return m
}

// Errors returns all recoverable parse errors that were encountered.
func (p *Parser) Errors() []ParseError { return p.errors }

// Diagnostics converts Errors() into the shared diag.Diagnostic model.
func (p *Parser) Diagnostics() []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(p.errors))
	for _, e := range p.errors {
		out = append(out, diag.Diagnostic{
			Stage:    diag.StageParser,
			Severity: e.Severity,
			Code:     diag.CodeParserUnexpectedToken,
			Message:  e.Message,
			Span: diag.Span{
				Filename: e.Span.Filename,
				Line:     e.Span.Line,
				Column:   e.Span.Column,
				Start:    e.Span.Start,
				End:      e.Span.End,
			},
		})
	}
	return out
}

// ParseFile parses a full compilation unit and returns its AST.
func (p *Parser) ParseFile() *ast.File {
	file := ast.NewFile(p.filename, "", p.curTok.Span)

	for p.curTok.Type != lexer.EOF {
		prevTok := p.curTok

		if p.curTok.Type == lexer.IMPORT {
			if imp := p.parseImportDecl(); imp != nil {
				file.Imports = append(file.Imports, imp)
				p.nextToken()
				continue
			}
		} else if decl := p.parseDecl(); decl != nil {
			file.Decls = append(file.Decls, decl)
			p.nextToken()
			continue
		}

		if p.curTok.Type == lexer.EOF {
			break
		}
		if p.curTok == prevTok {
			p.nextToken()
		}
	}

	return file
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.lx.NextToken()
	for p.peekTok.Type == lexer.LINE_COMMENT || p.peekTok.Type == lexer.BLOCK_COMMENT ||
		p.peekTok.Type == lexer.WHITESPACE || p.peekTok.Type == lexer.NEWLINE {
		p.peekTok = p.lx.NextToken()
	}
}

func (p *Parser) curIs(tt lexer.TokenType) bool  { return p.curTok.Type == tt }
func (p *Parser) peekIs(tt lexer.TokenType) bool { return p.peekTok.Type == tt }

// expect asserts the peek token matches tt; on success it advances.
func (p *Parser) expect(tt lexer.TokenType) bool {
	if p.peekTok.Type == tt {
		p.nextToken()
		return true
	}
	p.reportError("expected '"+string(tt)+"', found '"+string(p.peekTok.Type)+"'", p.peekTok.Span)
	return false
}

func (p *Parser) spanWithFilename(span lexer.Span) lexer.Span {
	if span.Filename == "" && p.filename != "" {
		span.Filename = p.filename
	}
	return span
}

func (p *Parser) reportError(msg string, span lexer.Span) {
	p.errors = append(p.errors, ParseError{Message: msg, Span: p.spanWithFilename(span), Severity: diag.SeverityError})
}

func (p *Parser) registerPrefix(tt lexer.TokenType, fn prefixParseFn) { p.prefixFns[tt] = fn }
func (p *Parser) registerInfix(tt lexer.TokenType, fn infixParseFn)   { p.infixFns[tt] = fn }

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekTok.Type]; ok {
		return pr
	}
	return precedenceLowest
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curTok.Type]; ok {
		return pr
	}
	return precedenceLowest
}

func mergeSpan(a, b lexer.Span) lexer.Span {
	if !a.IsValid() {
		return b
	}
	if !b.IsValid() {
		return a
	}
	s := a
	if b.End > s.End {
		s.End = b.End
	}
	return s
}
