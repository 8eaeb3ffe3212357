package types

import (
	"github.com/pawlang/pawc/internal/ast"
	"github.com/pawlang/pawc/internal/diag"
	"github.com/pawlang/pawc/internal/lexer"
)

// inferExpr assigns a Type to expr, recording diagnostics for mismatches
// and unresolved references along the way. Inference is local and
// forward-only: an expression never infers a type from how its result is
// later used, matching spec.md §4.5. The result is also cached into
// c.ExprTypes so later phases (internal/mono) can recover it without
// re-running inference.
func (c *Checker) inferExpr(expr ast.Expr, scope *Scope) Type {
	t := c.inferExprRaw(expr, scope)
	c.ExprTypes[expr] = t
	return t
}

func (c *Checker) inferExprRaw(expr ast.Expr, scope *Scope) Type {
	switch e := expr.(type) {
	case *ast.IntLit:
		// spec.md §4.2/§8: an integer literal defaults to i32 unless its
		// value doesn't fit, in which case it widens to i64.
		if e.Value > 2147483647 || e.Value < -2147483648 {
			return I64
		}
		return I32
	case *ast.FloatLit:
		return F64
	case *ast.BoolLit:
		return Bool
	case *ast.CharLit:
		return Char
	case *ast.StringLit:
		return String
	case *ast.StringInterpExpr:
		for _, sub := range e.Exprs {
			c.inferExpr(sub, scope)
		}
		return String

	case *ast.Ident:
		if e.Name == "self" {
			if sym := scope.Lookup("self"); sym != nil {
				return sym.Type
			}
		}
		if sym := scope.Lookup(e.Name); sym != nil {
			return sym.Type
		}
		if vi, ok := c.Variants[e.Name]; ok && len(vi.Payloads) == 0 {
			return &Named{Name: vi.Enum}
		}
		c.errorf(diag.CodeCheckerUnknownIdentifier, e.Span(), "unknown identifier '"+e.Name+"'")
		return nil

	case *ast.GenericRefExpr:
		if fi, ok := c.Funcs[e.Name]; ok {
			return fi.Return
		}
		c.errorf(diag.CodeCheckerUnknownIdentifier, e.Span(), "unknown generic reference '"+e.Name+"'")
		return nil

	case *ast.UnaryExpr:
		operand := c.inferExpr(e.Operand, scope)
		switch e.Op {
		case lexer.AMP:
			return &Pointer{Elem: operand}
		case lexer.ASTERISK:
			if p, ok := operand.(*Pointer); ok {
				return p.Elem
			}
			return operand
		default:
			return operand
		}

	case *ast.BinaryExpr:
		left := c.inferExpr(e.Left, scope)
		right := c.inferExpr(e.Right, scope)
		if left != nil && right != nil && !Equal(left, right) {
			c.errorf(diag.CodeCheckerTypeMismatch, e.Span(),
				"mismatched operand types "+left.String()+" and "+right.String())
		}
		switch e.Op {
		case lexer.EQ, lexer.NOT_EQ, lexer.LT, lexer.LE, lexer.GT, lexer.GE, lexer.AND, lexer.OR:
			return Bool
		default:
			return left
		}

	case *ast.RangeExpr:
		if e.Start != nil {
			c.inferExpr(e.Start, scope)
		}
		if e.End != nil {
			c.inferExpr(e.End, scope)
		}
		return &Array{Elem: I32, Size: -1}

	case *ast.CastExpr:
		c.inferExpr(e.Inner, scope)
		return c.resolveTypeExpr(e.Type, nil)

	case *ast.TryExpr:
		inner := c.inferExpr(e.Inner, scope)
		if n, ok := inner.(*Named); ok {
			return n
		}
		return inner

	case *ast.AwaitExpr:
		c.errorf(diag.CodeCheckerUnsupportedConstruct, e.Span(), "await is parsed but not supported by the checker")
		return c.inferExpr(e.Inner, scope)

	case *ast.ArrayLiteral:
		var elemType Type
		for _, el := range e.Elems {
			t := c.inferExpr(el, scope)
			if elemType == nil {
				elemType = t
			}
		}
		return &Array{Elem: elemType, Size: len(e.Elems)}

	case *ast.IndexExpr:
		target := c.inferExpr(e.Target, scope)
		c.inferExpr(e.Index, scope)
		if arr, ok := target.(*Array); ok {
			return arr.Elem
		}
		return nil

	case *ast.FieldExpr:
		target := c.inferExpr(e.Target, scope)
		named, ok := target.(*Named)
		if !ok {
			return nil
		}
		if info, ok := c.Structs[named.Name]; ok {
			if t, ok := info.FieldTypes[e.Field]; ok {
				return t
			}
			c.errorf(diag.CodeCheckerUnknownField, e.Span(), "unknown field '"+e.Field+"' on "+named.Name)
		}
		return nil

	case *ast.StructLiteral:
		nt, ok := e.Type.(*ast.NamedTypeExpr)
		if !ok {
			return nil
		}
		info, ok := c.Structs[nt.Name]
		if !ok {
			c.errorf(diag.CodeCheckerUnknownIdentifier, e.Span(), "unknown struct '"+nt.Name+"'")
			return nil
		}
		fieldValueTypes := make(map[string]Type, len(e.Fields))
		for _, f := range e.Fields {
			fieldValueTypes[f.Name] = c.inferExpr(f.Value, scope)
			if _, ok := info.FieldTypes[f.Name]; !ok {
				c.errorf(diag.CodeCheckerUnknownField, f.Span(), "unknown field '"+f.Name+"' on "+nt.Name)
			}
		}
		if len(nt.Args) > 0 {
			args := make([]Type, 0, len(nt.Args))
			for _, a := range nt.Args {
				args = append(args, c.resolveTypeExpr(a, nil))
			}
			return &Named{Name: nt.Name, Args: args}
		}
		// No explicit `Name<T>{...}` type arguments: infer each type
		// parameter by matching the declared (possibly generic) field
		// types against the concrete types of the initializer
		// expressions, per spec.md §4.5's struct-literal inference rule.
		return &Named{Name: nt.Name, Args: inferStructTypeArgs(info, fieldValueTypes)}

	case *ast.CallExpr:
		return c.inferCall(e, scope)

	case *ast.StaticCallExpr:
		nt, ok := e.Type.(*ast.NamedTypeExpr)
		if !ok {
			return nil
		}
		for _, a := range e.Args {
			c.inferExpr(a, scope)
		}
		if info, ok := c.Structs[nt.Name]; ok {
			if m, ok := info.Methods[e.Method]; ok {
				return m.Return
			}
		}
		if info, ok := c.Enums[nt.Name]; ok {
			if m, ok := info.Methods[e.Method]; ok {
				return m.Return
			}
		}
		c.checkArity(len(e.Args), -1, e.Span(), nt.Name+"::"+e.Method)
		return nil

	case *ast.MethodCallExpr:
		target := c.inferExpr(e.Target, scope)
		for _, a := range e.Args {
			c.inferExpr(a, scope)
		}
		named, ok := target.(*Named)
		if !ok {
			return nil
		}
		bind := func(params []string) map[string]Type {
			b := make(map[string]Type, len(params))
			for i, tp := range params {
				if i < len(named.Args) && named.Args[i] != nil {
					b[tp] = named.Args[i]
				}
			}
			return b
		}
		if info, ok := c.Structs[named.Name]; ok {
			if m, ok := info.Methods[e.Method]; ok {
				return substituteGeneric(m.Return, bind(info.TypeParams))
			}
		}
		if info, ok := c.Enums[named.Name]; ok {
			if m, ok := info.Methods[e.Method]; ok {
				return substituteGeneric(m.Return, bind(info.TypeParams))
			}
		}
		c.errorf(diag.CodeCheckerUnknownIdentifier, e.Span(), "unknown method '"+e.Method+"' on "+named.Name)
		return nil

	case *ast.IfExpr:
		c.inferExpr(e.Cond, scope)
		thenType := c.checkBlock(e.Then, scope)
		if e.Else != nil {
			switch els := e.Else.(type) {
			case *ast.BlockExpr:
				c.checkBlock(els, scope)
			default:
				c.inferExpr(els, scope)
			}
		}
		return thenType

	case *ast.IsExpr:
		return c.inferIsExpr(e, scope)

	case *ast.BlockExpr:
		return c.checkBlock(e, scope)
	}
	return nil
}

func (c *Checker) inferCall(e *ast.CallExpr, scope *Scope) Type {
	var argTypes []Type
	for _, a := range e.Args {
		argTypes = append(argTypes, c.inferExpr(a, scope))
	}
	switch callee := e.Callee.(type) {
	case *ast.Ident:
		if vi, ok := c.Variants[callee.Name]; ok {
			c.checkArity(len(e.Args), len(vi.Payloads), e.Span(), callee.Name)
			return &Named{Name: vi.Enum}
		}
		if fi, ok := c.Funcs[callee.Name]; ok {
			c.checkArity(len(e.Args), len(fi.Params), e.Span(), callee.Name)
			if len(fi.TypeParams) == 0 {
				return fi.Return
			}
			// Generic function called by its bare name (no explicit
			// `name<T>(...)` syntax): unify each declared parameter
			// type against the matching argument's inferred type,
			// per spec.md §4.5's generic-argument unification rule.
			resolved := make(map[string]Type, len(fi.TypeParams))
			for i, pt := range fi.Params {
				if i < len(argTypes) && argTypes[i] != nil {
					c.unifyCallGeneric(pt, argTypes[i], resolved, e.Span())
				}
			}
			targs := make([]Type, len(fi.TypeParams))
			for i, name := range fi.TypeParams {
				targs[i] = resolved[name]
			}
			c.CallTypeArgs[e] = targs
			return substituteGeneric(fi.Return, resolved)
		}
		c.errorf(diag.CodeCheckerUnknownIdentifier, callee.Span(), "unknown function '"+callee.Name+"'")
		return nil
	case *ast.GenericRefExpr:
		if fi, ok := c.Funcs[callee.Name]; ok {
			c.checkArity(len(e.Args), len(fi.Params), e.Span(), callee.Name)
			return fi.Return
		}
		if vi, ok := c.Variants[callee.Name]; ok {
			c.checkArity(len(e.Args), len(vi.Payloads), e.Span(), callee.Name)
			return &Named{Name: vi.Enum}
		}
		return nil
	default:
		t := c.inferExpr(e.Callee, scope)
		if fn, ok := t.(*Function); ok {
			c.checkArity(len(e.Args), len(fn.Params), e.Span(), "<fn>")
			return fn.Return
		}
		return nil
	}
}

func (c *Checker) checkArity(got, want int, span lexer.Span, name string) {
	if want < 0 || got == want {
		return
	}
	c.errorf(diag.CodeCheckerArityMismatch, span, name+" expects "+itoa(want)+" argument(s), got "+itoa(got))
}

func (c *Checker) inferIsExpr(e *ast.IsExpr, scope *Scope) Type {
	subjectType := c.inferExpr(e.Subject, scope)
	var result Type
	for _, arm := range e.Arms {
		armScope := NewScope(scope)
		c.bindPattern(arm.Pattern, subjectType, armScope)
		if arm.Guard != nil {
			c.inferExpr(arm.Guard, armScope)
		}
		t := c.inferExpr(arm.Body, armScope)
		if result == nil {
			result = t
		} else if t != nil && !Equal(result, t) {
			c.errorf(diag.CodeCheckerTypeMismatch, arm.Span(), "match arms have incompatible types")
		}
	}
	return result
}

func (c *Checker) bindPattern(p ast.Pattern, subject Type, scope *Scope) {
	switch pat := p.(type) {
	case *ast.IdentPattern:
		scope.Insert(pat.Name, &Symbol{Name: pat.Name, Type: subject, DefNode: pat})
	case *ast.VariantPattern:
		vi, ok := c.Variants[pat.Variant]
		if !ok {
			c.errorf(diag.CodeCheckerUnknownIdentifier, pat.Span(), "unknown enum variant '"+pat.Variant+"'")
			return
		}
		for i, binder := range pat.Binders {
			var bt Type
			if i < len(vi.Payloads) {
				bt = vi.Payloads[i]
			}
			c.bindPattern(binder, bt, scope)
		}
	case *ast.LiteralPattern:
		c.inferExpr(pat.Value, scope)
	}
}

// inferStructTypeArgs matches info's declared field types (some of which
// may be bare GenericParam references to info.TypeParams) against the
// concrete types actually supplied in a struct literal's field
// initializers, producing one concrete Type per entry in info.TypeParams,
// in declaration order. A type parameter never mentioned by any field
// (unreachable from any initializer) resolves to nil; codegen substitution
// treats a nil arg as the parameter's own name, which only matters for
// programs that never instantiate the field concretely.
func inferStructTypeArgs(info *StructInfo, fieldValueTypes map[string]Type) []Type {
	if len(info.TypeParams) == 0 {
		return nil
	}
	resolved := make(map[string]Type, len(info.TypeParams))
	for _, fieldName := range info.FieldNames {
		declared := info.FieldTypes[fieldName]
		actual := fieldValueTypes[fieldName]
		if actual == nil {
			continue
		}
		unifyGeneric(declared, actual, resolved)
	}
	args := make([]Type, len(info.TypeParams))
	for i, name := range info.TypeParams {
		args[i] = resolved[name]
	}
	return args
}

// unifyCallGeneric is unifyGeneric's call-site counterpart: it raises
// CodeCheckerGenericConflict when the same type parameter would bind to
// two different concrete types across a single call's arguments (spec.md
// §4.5's GenericConflict(param, t1, t2) case), rather than silently
// keeping the first binding.
func (c *Checker) unifyCallGeneric(declared, actual Type, resolved map[string]Type, span lexer.Span) {
	switch d := declared.(type) {
	case *GenericParam:
		if prev, ok := resolved[d.Name]; ok {
			if !Equal(prev, actual) {
				c.errorf(diag.CodeCheckerGenericConflict, span,
					"generic parameter '"+d.Name+"' bound to both "+prev.String()+" and "+actual.String())
			}
			return
		}
		resolved[d.Name] = actual
	case *Pointer:
		if a, ok := actual.(*Pointer); ok {
			c.unifyCallGeneric(d.Elem, a.Elem, resolved, span)
		}
	case *Array:
		if a, ok := actual.(*Array); ok {
			c.unifyCallGeneric(d.Elem, a.Elem, resolved, span)
		}
	case *Named:
		if a, ok := actual.(*Named); ok {
			for i := range d.Args {
				if i < len(a.Args) {
					c.unifyCallGeneric(d.Args[i], a.Args[i], resolved, span)
				}
			}
		}
	}
}

// substituteGeneric replaces every GenericParam reachable in t with its
// binding in resolved, leaving it as GenericParam when unbound (an
// unreachable type parameter, e.g. one that appears only in a function's
// return type and no parameter).
func substituteGeneric(t Type, resolved map[string]Type) Type {
	switch tt := t.(type) {
	case *GenericParam:
		if conc, ok := resolved[tt.Name]; ok {
			return conc
		}
		return tt
	case *Pointer:
		return &Pointer{Elem: substituteGeneric(tt.Elem, resolved)}
	case *Array:
		return &Array{Elem: substituteGeneric(tt.Elem, resolved), Size: tt.Size}
	case *Named:
		if len(tt.Args) == 0 {
			return tt
		}
		args := make([]Type, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = substituteGeneric(a, resolved)
		}
		return &Named{Name: tt.Name, Args: args}
	default:
		return t
	}
}

// unifyGeneric walks declared (a field's declared type, which may contain
// GenericParam placeholders) alongside actual (the concrete type of the
// supplied value) and records each GenericParam's concrete binding into
// resolved.
func unifyGeneric(declared, actual Type, resolved map[string]Type) {
	switch d := declared.(type) {
	case *GenericParam:
		if _, ok := resolved[d.Name]; !ok {
			resolved[d.Name] = actual
		}
	case *Pointer:
		if a, ok := actual.(*Pointer); ok {
			unifyGeneric(d.Elem, a.Elem, resolved)
		}
	case *Array:
		if a, ok := actual.(*Array); ok {
			unifyGeneric(d.Elem, a.Elem, resolved)
		}
	case *Named:
		if a, ok := actual.(*Named); ok {
			for i := range d.Args {
				if i < len(a.Args) {
					unifyGeneric(d.Args[i], a.Args[i], resolved)
				}
			}
		}
	}
}
