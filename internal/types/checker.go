package types

import (
	"github.com/pawlang/pawc/internal/ast"
	"github.com/pawlang/pawc/internal/diag"
	"github.com/pawlang/pawc/internal/lexer"
)

// FuncInfo is a checked function or method signature.
type FuncInfo struct {
	Decl       *ast.FnDecl
	TypeParams []string
	Params     []Type
	Return     Type
	Receiver   *Named // non-nil for a method
}

// StructInfo is a checked struct declaration.
type StructInfo struct {
	Decl       *ast.StructDecl
	TypeParams []string
	FieldNames []string
	FieldTypes map[string]Type
	Methods    map[string]*FuncInfo
}

// EnumInfo is a checked enum declaration.
type EnumInfo struct {
	Decl       *ast.EnumDecl
	TypeParams []string
	Variants   []*VariantInfo
	Methods    map[string]*FuncInfo
}

// VariantInfo is one constructor of an enum.
type VariantInfo struct {
	Name     string
	Index    int
	Enum     string
	Payloads []Type
}

// Checker walks a linked program and assigns/validates types.
type Checker struct {
	Funcs       map[string]*FuncInfo
	Structs     map[string]*StructInfo
	Enums       map[string]*EnumInfo
	Variants    map[string]*VariantInfo // variant name -> info; unqualified, global namespace per spec.md
	Aliases     map[string]ast.TypeExpr
	// ExprTypes records the inferred type of every expression node the
	// checker visits, keyed by identity. internal/mono reads this back to
	// recover the concrete type arguments of an implicitly-inferred
	// generic struct literal (one with no explicit `Name<T>{...}` type
	// arguments), since the AST alone doesn't carry that inference result.
	ExprTypes   map[ast.Expr]Type
	// CallTypeArgs records, for each call site that invokes a generic
	// function through its bare name (no explicit `name<T>(...)` syntax),
	// the concrete type arguments inference bound — the unification
	// result spec.md §4.5 describes ("a call f(a, b) with f: fn<T>(T, T)
	// -> T binds T to unify(type(a), type(b))"). internal/mono and the
	// code generators consult this to mangle the call to the right
	// monomorphized symbol.
	CallTypeArgs map[*ast.CallExpr][]Type
	diagnostics  []diag.Diagnostic
}

// NewChecker returns an empty checker ready to register declarations.
func NewChecker() *Checker {
	return &Checker{
		Funcs:        make(map[string]*FuncInfo),
		Structs:      make(map[string]*StructInfo),
		Enums:        make(map[string]*EnumInfo),
		Variants:     make(map[string]*VariantInfo),
		Aliases:      make(map[string]ast.TypeExpr),
		ExprTypes:    make(map[ast.Expr]Type),
		CallTypeArgs: make(map[*ast.CallExpr][]Type),
	}
}

// Diagnostics returns every diagnostic raised so far.
func (c *Checker) Diagnostics() []diag.Diagnostic { return c.diagnostics }

func (c *Checker) errorf(code diag.Code, span lexer.Span, msg string) {
	c.diagnostics = append(c.diagnostics, diag.Diagnostic{
		Stage:    diag.StageChecker,
		Severity: diag.SeverityError,
		Code:     code,
		Message:  msg,
		Span: diag.Span{
			Filename: span.Filename, Line: span.Line, Column: span.Column, Start: span.Start, End: span.End,
		},
	})
}

// CheckFile registers every declaration in file, then type-checks each
// function body. It is intentionally a two-pass process so mutually
// recursive functions and forward references to later-declared types
// resolve, matching spec.md §4.5's requirement that inference be local and
// forward-only only *within* a function body, not across declarations.
func (c *Checker) CheckFile(file *ast.File) {
	for _, d := range file.Decls {
		c.registerDecl(d)
	}
	for _, d := range file.Decls {
		c.checkDeclBody(d)
	}
}

func (c *Checker) registerDecl(d ast.Decl) {
	switch n := d.(type) {
	case *ast.FnDecl:
		c.Funcs[n.Name] = c.buildFuncInfo(n, nil)
	case *ast.StructDecl:
		c.registerStruct(n)
	case *ast.EnumDecl:
		c.registerEnum(n)
	case *ast.TraitDecl:
		c.errorf(diag.CodeCheckerUnsupportedConstruct, n.Span(),
			"trait declarations are parsed but not supported by the checker")
	case *ast.ImplDecl:
		c.errorf(diag.CodeCheckerUnsupportedConstruct, n.Span(),
			"impl blocks are parsed but not supported by the checker")
	case *ast.AliasDecl:
		c.Aliases[n.Name] = n.Target
	}
}

func (c *Checker) registerStruct(n *ast.StructDecl) {
	info := &StructInfo{
		Decl:       n,
		FieldNames: make([]string, 0, len(n.Fields)),
		FieldTypes: make(map[string]Type, len(n.Fields)),
		Methods:    make(map[string]*FuncInfo),
	}
	for _, tp := range n.TypeParams {
		info.TypeParams = append(info.TypeParams, tp.Name)
	}
	genericScope := genericParamSet(info.TypeParams)
	for _, f := range n.Fields {
		t := c.resolveTypeExpr(f.Type, genericScope)
		info.FieldNames = append(info.FieldNames, f.Name)
		info.FieldTypes[f.Name] = t
	}
	recv := &Named{Name: n.Name, Args: namedArgsFromParams(info.TypeParams)}
	for _, m := range n.Methods {
		info.Methods[m.Name] = c.buildFuncInfo(m, recv)
	}
	c.Structs[n.Name] = info
}

func (c *Checker) registerEnum(n *ast.EnumDecl) {
	info := &EnumInfo{Decl: n, Methods: make(map[string]*FuncInfo)}
	for _, tp := range n.TypeParams {
		info.TypeParams = append(info.TypeParams, tp.Name)
	}
	genericScope := genericParamSet(info.TypeParams)
	for i, v := range n.Variants {
		payloads := make([]Type, 0, len(v.Payloads))
		for _, p := range v.Payloads {
			payloads = append(payloads, c.resolveTypeExpr(p, genericScope))
		}
		vi := &VariantInfo{Name: v.Name, Index: i, Enum: n.Name, Payloads: payloads}
		info.Variants = append(info.Variants, vi)
		c.Variants[v.Name] = vi
	}
	recv := &Named{Name: n.Name, Args: namedArgsFromParams(info.TypeParams)}
	for _, m := range n.Methods {
		info.Methods[m.Name] = c.buildFuncInfo(m, recv)
	}
	c.Enums[n.Name] = info
}

func (c *Checker) buildFuncInfo(n *ast.FnDecl, recv *Named) *FuncInfo {
	var typeParams []string
	for _, tp := range n.TypeParams {
		typeParams = append(typeParams, tp.Name)
	}
	genericScope := genericParamSet(typeParams)
	if recv != nil {
		for _, a := range recv.Args {
			if gp, ok := a.(*GenericParam); ok {
				genericScope[gp.Name] = true
			}
		}
	}

	var params []Type
	for _, p := range n.Params {
		if p.IsSelf {
			params = append(params, recv)
			continue
		}
		params = append(params, c.resolveTypeExpr(p.Type, genericScope))
	}
	var ret Type = Void
	if n.ReturnType != nil {
		ret = c.resolveTypeExpr(n.ReturnType, genericScope)
	}
	return &FuncInfo{Decl: n, TypeParams: typeParams, Params: params, Return: ret, Receiver: recv}
}

func genericParamSet(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func namedArgsFromParams(typeParams []string) []Type {
	args := make([]Type, len(typeParams))
	for i, n := range typeParams {
		args[i] = &GenericParam{Name: n}
	}
	return args
}

// ResolveTypeExprPublic exposes resolveTypeExpr to other packages (the
// monomorphization collector resolves explicit type arguments the same
// way the checker resolves any other type reference).
func (c *Checker) ResolveTypeExprPublic(te ast.TypeExpr) Type {
	return c.resolveTypeExpr(te, nil)
}

// resolveTypeExpr turns a syntactic type reference into a checker Type,
// treating any name in genericScope as an unresolved generic parameter.
func (c *Checker) resolveTypeExpr(te ast.TypeExpr, genericScope map[string]bool) Type {
	if te == nil {
		return Void
	}
	switch t := te.(type) {
	case *ast.NamedTypeExpr:
		if genericScope[t.Name] {
			return &GenericParam{Name: t.Name}
		}
		if prim := LookupPrimitive(t.Name); prim != nil {
			return prim
		}
		args := make([]Type, 0, len(t.Args))
		for _, a := range t.Args {
			args = append(args, c.resolveTypeExpr(a, genericScope))
		}
		if _, ok := c.Structs[t.Name]; ok {
			return &Named{Name: t.Name, Args: args}
		}
		if _, ok := c.Enums[t.Name]; ok {
			return &Named{Name: t.Name, Args: args}
		}
		if target, ok := c.Aliases[t.Name]; ok {
			return c.resolveTypeExpr(target, genericScope)
		}
		// Forward reference to a type registered later in the same file,
		// or genuinely unknown; recorded optimistically as Named and
		// caught by a use site that never resolves to a real decl.
		return &Named{Name: t.Name, Args: args}
	case *ast.PointerTypeExpr:
		return &Pointer{Elem: c.resolveTypeExpr(t.Elem, genericScope)}
	case *ast.ReferenceTypeExpr:
		return c.resolveTypeExpr(t.Elem, genericScope)
	case *ast.ArrayTypeExpr:
		size := -1
		if lit, ok := t.Size.(*ast.IntLit); ok {
			size = int(lit.Value)
		}
		return &Array{Elem: c.resolveTypeExpr(t.Elem, genericScope), Size: size}
	case *ast.FunctionTypeExpr:
		params := make([]Type, 0, len(t.Params))
		for _, p := range t.Params {
			params = append(params, c.resolveTypeExpr(p, genericScope))
		}
		return &Function{Params: params, Return: c.resolveTypeExpr(t.Return, genericScope)}
	}
	return Void
}
