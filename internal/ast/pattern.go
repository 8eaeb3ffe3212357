package ast

import "github.com/pawlang/pawc/internal/lexer"

// Pattern is a pattern in an `is`-match arm.
type Pattern interface {
	Node
	patternNode()
}

// WildcardPattern is `_`.
type WildcardPattern struct{ base }

func NewWildcardPattern(span lexer.Span) *WildcardPattern { return &WildcardPattern{base{span}} }
func (p *WildcardPattern) patternNode()                   {}

// LiteralPattern matches an exact int/float/bool/char/string literal.
type LiteralPattern struct {
	base
	Value Expr // one of IntLit, FloatLit, BoolLit, CharLit, StringLit
}

func NewLiteralPattern(value Expr, span lexer.Span) *LiteralPattern {
	return &LiteralPattern{base: base{span}, Value: value}
}
func (p *LiteralPattern) patternNode() {}

// IdentPattern binds the matched value to a new name, e.g. the `n` in
// `n` or the `x` in `Some(x)`.
type IdentPattern struct {
	base
	Name string
}

func NewIdentPattern(name string, span lexer.Span) *IdentPattern {
	return &IdentPattern{base: base{span}, Name: name}
}
func (p *IdentPattern) patternNode() {}

// VariantPattern matches an enum variant, optionally destructuring its
// payload fields: `Name`, or `Name(p1, p2)`.
type VariantPattern struct {
	base
	Variant string
	Binders []Pattern
}

func NewVariantPattern(variant string, binders []Pattern, span lexer.Span) *VariantPattern {
	return &VariantPattern{base: base{span}, Variant: variant, Binders: binders}
}
func (p *VariantPattern) patternNode() {}
