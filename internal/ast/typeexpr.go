package ast

import "github.com/pawlang/pawc/internal/lexer"

// NamedTypeExpr is a bare or generic-instantiated named type: `int`,
// `String`, `Box<int>`, `Option<T>`. An empty Args means a non-generic
// reference; the checker resolves Name against primitives, user types,
// and in-scope generic parameters.
type NamedTypeExpr struct {
	base
	Name string
	Args []TypeExpr
}

func NewNamedTypeExpr(name string, args []TypeExpr, span lexer.Span) *NamedTypeExpr {
	return &NamedTypeExpr{base: base{span}, Name: name, Args: args}
}
func (t *NamedTypeExpr) typeExprNode() {}

// PointerTypeExpr is `*Type`.
type PointerTypeExpr struct {
	base
	Elem TypeExpr
}

func NewPointerTypeExpr(elem TypeExpr, span lexer.Span) *PointerTypeExpr {
	return &PointerTypeExpr{base: base{span}, Elem: elem}
}
func (t *PointerTypeExpr) typeExprNode() {}

// ReferenceTypeExpr is `&Type` or `&mut Type`. Parsed for source
// compatibility; the checker treats it as its Elem (no borrow checking).
type ReferenceTypeExpr struct {
	base
	Mutable bool
	Elem    TypeExpr
}

func NewReferenceTypeExpr(mutable bool, elem TypeExpr, span lexer.Span) *ReferenceTypeExpr {
	return &ReferenceTypeExpr{base: base{span}, Mutable: mutable, Elem: elem}
}
func (t *ReferenceTypeExpr) typeExprNode() {}

// ArrayTypeExpr is `[Type; N]` (fixed-size) or `[Type]` (slice-like, N nil).
type ArrayTypeExpr struct {
	base
	Elem TypeExpr
	Size Expr // nil for an unsized array type
}

func NewArrayTypeExpr(elem TypeExpr, size Expr, span lexer.Span) *ArrayTypeExpr {
	return &ArrayTypeExpr{base: base{span}, Elem: elem, Size: size}
}
func (t *ArrayTypeExpr) typeExprNode() {}

// FunctionTypeExpr is `fn(T1, T2) -> R`.
type FunctionTypeExpr struct {
	base
	Params []TypeExpr
	Return TypeExpr
}

func NewFunctionTypeExpr(params []TypeExpr, ret TypeExpr, span lexer.Span) *FunctionTypeExpr {
	return &FunctionTypeExpr{base: base{span}, Params: params, Return: ret}
}
func (t *FunctionTypeExpr) typeExprNode() {}
