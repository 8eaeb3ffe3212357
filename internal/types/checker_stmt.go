package types

import (
	"github.com/pawlang/pawc/internal/ast"
	"github.com/pawlang/pawc/internal/diag"
)

// checkDeclBody type-checks the body of a function or the methods nested
// inside a struct/enum declaration. Struct/enum/trait/alias declarations
// themselves carry no executable body beyond their methods.
func (c *Checker) checkDeclBody(d ast.Decl) {
	switch n := d.(type) {
	case *ast.FnDecl:
		c.checkFunc(c.Funcs[n.Name])
	case *ast.StructDecl:
		info := c.Structs[n.Name]
		for _, m := range n.Methods {
			c.checkFunc(info.Methods[m.Name])
		}
	case *ast.EnumDecl:
		info := c.Enums[n.Name]
		for _, m := range n.Methods {
			c.checkFunc(info.Methods[m.Name])
		}
	}
}

func (c *Checker) checkFunc(fi *FuncInfo) {
	if fi == nil || fi.Decl.Body == nil {
		return
	}
	if fi.Decl.IsAsync {
		c.errorf(diag.CodeCheckerUnsupportedConstruct, fi.Decl.Span(), "async functions are parsed but not supported by the checker")
	}
	scope := NewScope(nil)
	for i, p := range fi.Decl.Params {
		scope.Insert(p.Name, &Symbol{Name: p.Name, Type: fi.Params[i], Mutable: p.Mutable || p.IsSelf, DefNode: p})
	}
	got := c.checkBlock(fi.Decl.Body, scope)
	if fi.Return != nil && got != nil && !Equal(fi.Return, got) && !isVoid(fi.Return) {
		c.errorf(diag.CodeCheckerTypeMismatch, fi.Decl.Body.Span(),
			"function '"+fi.Decl.Name+"' returns "+got.String()+", expected "+fi.Return.String())
	}
}

func isVoid(t Type) bool {
	p, ok := t.(*Primitive)
	return ok && p.Name == "void"
}

// checkBlock checks every statement and, if present, the tail expression,
// returning the block's resulting type (the tail's type, or nil when the
// block has no tail expression).
func (c *Checker) checkBlock(b *ast.BlockExpr, parent *Scope) Type {
	scope := NewScope(parent)
	for _, s := range b.Stmts {
		c.checkStmt(s, scope)
	}
	if b.Tail != nil {
		return c.inferExpr(b.Tail, scope)
	}
	return nil
}

func (c *Checker) checkStmt(s ast.Stmt, scope *Scope) {
	switch n := s.(type) {
	case *ast.LetStmt:
		valType := c.inferExpr(n.Value, scope)
		declared := valType
		if n.Type != nil {
			declared = c.resolveTypeExpr(n.Type, nil)
			if valType != nil && !Equal(declared, valType) {
				c.errorf(diag.CodeCheckerTypeMismatch, n.Span(),
					"cannot assign "+typeStr(valType)+" to '"+n.Name+"' of type "+declared.String())
			}
		}
		scope.Insert(n.Name, &Symbol{Name: n.Name, Type: declared, Mutable: n.Mutable, DefNode: n})

	case *ast.AssignStmt:
		c.checkAssignTarget(n.Target, scope)
		valType := c.inferExpr(n.Value, scope)
		targetType := c.inferExpr(n.Target, scope)
		if valType != nil && targetType != nil && !Equal(valType, targetType) {
			c.errorf(diag.CodeCheckerTypeMismatch, n.Span(), "cannot assign "+typeStr(valType)+" to "+typeStr(targetType))
		}

	case *ast.CompoundAssignStmt:
		c.checkAssignTarget(n.Target, scope)
		c.inferExpr(n.Value, scope)
		c.inferExpr(n.Target, scope)

	case *ast.ReturnStmt:
		if n.Value != nil {
			c.inferExpr(n.Value, scope)
		}

	case *ast.ExprStmt:
		c.inferExpr(n.X, scope)

	case *ast.LoopStmt:
		loopScope := NewScope(scope)
		if n.Cond != nil {
			c.inferExpr(n.Cond, loopScope)
		}
		if n.Binder != "" {
			elemType := Type(Void)
			if it := c.inferExpr(n.Iterable, loopScope); it != nil {
				if arr, ok := it.(*Array); ok {
					elemType = arr.Elem
				} else if rg, ok := n.Iterable.(*ast.RangeExpr); ok {
					_ = rg
					elemType = I32
				}
			}
			loopScope.Insert(n.Binder, &Symbol{Name: n.Binder, Type: elemType, DefNode: n})
		}
		c.checkBlock(n.Body, loopScope)

	case *ast.BreakStmt:
		if n.Value != nil {
			c.inferExpr(n.Value, scope)
		}
	}
}

// checkAssignTarget enforces that a plain identifier target was declared
// `mut`; field/index targets are unwrapped to their base identifier, whose
// mutability decides (spec.md §4.5's mutability-check scope).
func (c *Checker) checkAssignTarget(target ast.Expr, scope *Scope) {
	base := target
	for {
		if f, ok := base.(*ast.FieldExpr); ok {
			base = f.Target
		} else if ix, ok := base.(*ast.IndexExpr); ok {
			base = ix.Target
		} else {
			break
		}
	}
	id, ok := base.(*ast.Ident)
	if !ok {
		return
	}
	sym := scope.Lookup(id.Name)
	if sym == nil {
		c.errorf(diag.CodeCheckerUnknownIdentifier, id.Span(), "unknown identifier '"+id.Name+"'")
		return
	}
	if !sym.Mutable {
		c.errorf(diag.CodeCheckerImmutableAssignment, id.Span(), "cannot assign to immutable variable '"+id.Name+"'")
	}
}

func typeStr(t Type) string {
	if t == nil {
		return "<unknown>"
	}
	return t.String()
}
