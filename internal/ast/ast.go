// Package ast defines the PawLang abstract syntax tree produced by the
// parser. Every node is built through an ast.New* constructor that stamps
// the node with its source Span, mirroring the teacher compiler's
// constructor discipline so tests can assert on node shape without
// depending on field-assignment order.
package ast

import "github.com/pawlang/pawc/internal/lexer"

// Node is the root of the AST node hierarchy.
type Node interface {
	Span() lexer.Span
}

// Expr is any node that produces a value.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any node that appears inside a block's statement list.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is any top-level declaration.
type Decl interface {
	Node
	declNode()
}

// TypeExpr is a syntactic type reference, not yet resolved to a checker Type.
type TypeExpr interface {
	Node
	typeExprNode()
}

type base struct{ span lexer.Span }

func (b base) Span() lexer.Span { return b.span }

// Ident is a bare identifier reference.
type Ident struct {
	base
	Name string
}

func NewIdent(name string, span lexer.Span) *Ident { return &Ident{base{span}, name} }
func (i *Ident) exprNode()                         {}

// File is one parsed module.
type File struct {
	base
	Path    string // filesystem path this file was loaded from
	Module  string // dotted import-path this file corresponds to
	Imports []*ImportDecl
	Decls   []Decl
}

func NewFile(path, module string, span lexer.Span) *File {
	return &File{base: base{span}, Path: path, Module: module}
}

// ImportDecl is `import a.b.c;`, `import a.b.{x, y};`, or `import a.b.*;`.
type ImportDecl struct {
	base
	Path     []string // ["a", "b"]
	Items    []string // explicit item names; empty when Wildcard or single-item
	Item     string    // single imported item, e.g. "c" in `import a.b.c;`
	Wildcard bool
}

func NewImportDecl(path []string, item string, items []string, wildcard bool, span lexer.Span) *ImportDecl {
	return &ImportDecl{base: base{span}, Path: path, Item: item, Items: items, Wildcard: wildcard}
}
func (d *ImportDecl) declNode() {}

// GenericParam is a single `<T>` type parameter on a function or type decl.
type GenericParam struct {
	base
	Name string
}

func NewGenericParam(name string, span lexer.Span) *GenericParam {
	return &GenericParam{base{span}, name}
}

// Param is one function/method parameter, `[mut] name: Type`. Type is nil
// for a bare `self`/`mut self` receiver parameter.
type Param struct {
	base
	Name    string
	Mutable bool
	IsSelf  bool
	Type    TypeExpr
}

func NewParam(name string, mutable, isSelf bool, typ TypeExpr, span lexer.Span) *Param {
	return &Param{base: base{span}, Name: name, Mutable: mutable, IsSelf: isSelf, Type: typ}
}

// FnDecl is a function or method declaration, `fn name<T>(params) -> Ret { body }`
// or the single-expression form `fn name(...) -> T = expr`.
type FnDecl struct {
	base
	Name       string
	TypeParams []*GenericParam
	Params     []*Param
	ReturnType TypeExpr // nil means void
	Body       *BlockExpr
	IsPub      bool
	IsAsync    bool
}

func NewFnDecl(name string, typeParams []*GenericParam, params []*Param, ret TypeExpr, body *BlockExpr, isPub, isAsync bool, span lexer.Span) *FnDecl {
	return &FnDecl{base: base{span}, Name: name, TypeParams: typeParams, Params: params, ReturnType: ret, Body: body, IsPub: isPub, IsAsync: isAsync}
}
func (d *FnDecl) declNode() {}

// IsMethod reports whether the first parameter is a self receiver.
func (d *FnDecl) IsMethod() bool {
	return len(d.Params) > 0 && d.Params[0].IsSelf
}

// StructField is `[pub] name: Type` inside a struct declaration.
type StructField struct {
	base
	Name  string
	Type  TypeExpr
	IsPub bool
}

func NewStructField(name string, typ TypeExpr, isPub bool, span lexer.Span) *StructField {
	return &StructField{base: base{span}, Name: name, Type: typ, IsPub: isPub}
}

// StructDecl is `type Name<T> = struct { fields; methods }`.
type StructDecl struct {
	base
	Name       string
	TypeParams []*GenericParam
	Fields     []*StructField
	Methods    []*FnDecl
	IsPub      bool
}

func NewStructDecl(name string, typeParams []*GenericParam, fields []*StructField, methods []*FnDecl, isPub bool, span lexer.Span) *StructDecl {
	return &StructDecl{base: base{span}, Name: name, TypeParams: typeParams, Fields: fields, Methods: methods, IsPub: isPub}
}
func (d *StructDecl) declNode() {}

// EnumVariant is `Name` or `Name(T1, T2, ...)` inside an enum declaration.
type EnumVariant struct {
	base
	Name     string
	Payloads []TypeExpr
}

func NewEnumVariant(name string, payloads []TypeExpr, span lexer.Span) *EnumVariant {
	return &EnumVariant{base: base{span}, Name: name, Payloads: payloads}
}

// EnumDecl is `type Name<T> = enum { variants; methods }`.
type EnumDecl struct {
	base
	Name       string
	TypeParams []*GenericParam
	Variants   []*EnumVariant
	Methods    []*FnDecl
	IsPub      bool
}

func NewEnumDecl(name string, typeParams []*GenericParam, variants []*EnumVariant, methods []*FnDecl, isPub bool, span lexer.Span) *EnumDecl {
	return &EnumDecl{base: base{span}, Name: name, TypeParams: typeParams, Variants: variants, Methods: methods, IsPub: isPub}
}
func (d *EnumDecl) declNode() {}

// TraitDecl is `type Name<T> = trait { method_sigs }`. Parsed so source
// using `trait` does not hit a syntax error, but rejected by the checker
// (spec.md §9's recommended resolution for the trait open question).
type TraitDecl struct {
	base
	Name       string
	TypeParams []*GenericParam
	Methods    []*FnDecl // signatures only; Body may be nil
	IsPub      bool
}

func NewTraitDecl(name string, typeParams []*GenericParam, methods []*FnDecl, isPub bool, span lexer.Span) *TraitDecl {
	return &TraitDecl{base: base{span}, Name: name, TypeParams: typeParams, Methods: methods, IsPub: isPub}
}
func (d *TraitDecl) declNode() {}

// ImplDecl is `impl Trait for Type { methods }` or `impl Type { methods }`.
// Parsed, never lowered (spec.md §1 non-goal).
type ImplDecl struct {
	base
	Trait   TypeExpr // nil for an inherent impl
	Target  TypeExpr
	Methods []*FnDecl
}

func NewImplDecl(trait, target TypeExpr, methods []*FnDecl, span lexer.Span) *ImplDecl {
	return &ImplDecl{base: base{span}, Trait: trait, Target: target, Methods: methods}
}
func (d *ImplDecl) declNode() {}

// AliasDecl is `type Name<T> = SomeType;` with no struct/enum/trait body.
type AliasDecl struct {
	base
	Name       string
	TypeParams []*GenericParam
	Target     TypeExpr
	IsPub      bool
}

func NewAliasDecl(name string, typeParams []*GenericParam, target TypeExpr, isPub bool, span lexer.Span) *AliasDecl {
	return &AliasDecl{base: base{span}, Name: name, TypeParams: typeParams, Target: target, IsPub: isPub}
}
func (d *AliasDecl) declNode() {}
