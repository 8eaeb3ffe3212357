package parser

import (
	"strings"

	"github.com/pawlang/pawc/internal/ast"
	"github.com/pawlang/pawc/internal/lexer"
)

// containsInterpolation reports whether a decoded string value contains an
// unescaped `$` marker (the lexer already collapses `$$` to a literal `$`,
// so any remaining `$` here begins an interpolation segment).
func containsInterpolation(value string) bool {
	return strings.ContainsRune(value, '$')
}

// scanStringSegments splits an interpolated string literal's decoded value
// into alternating literal/expression segments and re-parses each `$name`
// or `${expr}` segment as an independent expression, per spec.md §4.2's
// "preserve the split" design: the checker and codegen never see raw `${...}`
// text, only the already-separated StringInterpExpr segments.
func (p *Parser) scanStringSegments(value string, outerSpan lexer.Span) ast.Expr {
	var literals []string
	var exprs []ast.Expr

	runes := []rune(value)
	var lit strings.Builder
	i := 0
	for i < len(runes) {
		if runes[i] != '$' || i+1 >= len(runes) {
			lit.WriteRune(runes[i])
			i++
			continue
		}
		// runes[i] == '$' and there is at least one more rune.
		if runes[i+1] == '{' {
			end := matchBrace(runes, i+1)
			if end < 0 {
				lit.WriteRune(runes[i])
				i++
				continue
			}
			inner := string(runes[i+2 : end])
			literals = append(literals, lit.String())
			lit.Reset()
			exprs = append(exprs, p.parseEmbeddedExpr(inner, outerSpan))
			i = end + 1
			continue
		}
		if isIdentStart(runes[i+1]) {
			j := i + 1
			for j < len(runes) && isIdentCont(runes[j]) {
				j++
			}
			inner := string(runes[i+1 : j])
			literals = append(literals, lit.String())
			lit.Reset()
			exprs = append(exprs, p.parseEmbeddedExpr(inner, outerSpan))
			i = j
			continue
		}
		lit.WriteRune(runes[i])
		i++
	}
	literals = append(literals, lit.String())

	return ast.NewStringInterpExpr(literals, exprs, outerSpan)
}

func (p *Parser) parseEmbeddedExpr(src string, outerSpan lexer.Span) ast.Expr {
	sub := New(src, WithFilename(outerSpan.Filename))
	for k := range p.knownTypes {
		sub.knownTypes[k] = true
	}
	expr := sub.parseExpression(precedenceLowest)
	for _, e := range sub.Errors() {
		p.errors = append(p.errors, e)
	}
	if expr == nil {
		return ast.NewIdent(src, outerSpan)
	}
	return expr
}

func matchBrace(runes []rune, openIdx int) int {
	depth := 0
	for i := openIdx; i < len(runes); i++ {
		switch runes[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}
