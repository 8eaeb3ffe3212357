package c

import (
	"fmt"
	"strings"

	"github.com/pawlang/pawc/internal/ast"
	"github.com/pawlang/pawc/internal/lexer"
	"github.com/pawlang/pawc/internal/mono"
	"github.com/pawlang/pawc/internal/types"
)

// genBlockBody emits a block's statements followed by its tail expression,
// as a `return` when hasReturn is set (the block is a function body whose
// signature promises a value).
func (g *Generator) genBlockBody(b *ast.BlockExpr, hasReturn bool) {
	g.pushScope()
	defer g.popScope()
	for _, s := range b.Stmts {
		g.genStmt(s)
	}
	if b.Tail != nil {
		val := g.genExpr(b.Tail)
		if hasReturn {
			g.emit("    return %s;\n", val)
		} else {
			g.emit("    %s;\n", val)
		}
	}
}

func (g *Generator) genStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.LetStmt:
		ctype := "long"
		if n.Type != nil {
			ctype = cTypeOf(n.Type, nil)
		}
		g.scope.Insert(n.Name, ctype)
		if n.Value != nil {
			g.emit("    %s %s = %s;\n", ctype, n.Name, g.genExpr(n.Value))
		} else {
			g.emit("    %s %s;\n", ctype, n.Name)
		}

	case *ast.AssignStmt:
		g.emit("    %s = %s;\n", g.genExpr(n.Target), g.genExpr(n.Value))

	case *ast.CompoundAssignStmt:
		g.emit("    %s %s= %s;\n", g.genExpr(n.Target), cOpSymbol(n.Op), g.genExpr(n.Value))

	case *ast.ReturnStmt:
		if n.Value != nil {
			g.emit("    return %s;\n", g.genExpr(n.Value))
		} else {
			g.emit("    return;\n")
		}

	case *ast.ExprStmt:
		g.emit("    %s;\n", g.genExpr(n.X))

	case *ast.BreakStmt:
		g.emit("    break;\n")

	case *ast.ContinueStmt:
		g.emit("    continue;\n")

	case *ast.LoopStmt:
		g.genLoopStmt(n)
	}
}

func (g *Generator) genLoopStmt(n *ast.LoopStmt) {
	switch {
	case n.Binder != "":
		g.genIteratorLoop(n)
	case n.Cond != nil:
		g.emit("    while (%s) {\n", g.genExpr(n.Cond))
		g.pushScope()
		for _, st := range n.Body.Stmts {
			g.genStmt(st)
		}
		g.popScope()
		g.emit("    }\n")
	default:
		g.emit("    for (;;) {\n")
		g.pushScope()
		for _, st := range n.Body.Stmts {
			g.genStmt(st)
		}
		g.popScope()
		g.emit("    }\n")
	}
}

// genIteratorLoop lowers `loop binder in iterable { body }` per spec.md
// §4.7. A range iterable becomes a counted `for` over its bounds,
// honoring the `..=` inclusive flag with `<=` instead of `<`. Any other
// iterable is treated as an array: a literal's length is known at
// compile time, while any other array expression is bounded with
// `sizeof(array)/sizeof(array[0])`, per the spec's rule for statically
// sized arrays.
func (g *Generator) genIteratorLoop(n *ast.LoopStmt) {
	elemType := "long"
	if t, ok := g.checker.ExprTypes[n.Iterable]; ok && t != nil {
		if arr, ok := t.(*types.Array); ok && arr.Elem != nil {
			elemType = cTypeOfResolved(arr.Elem)
		}
	}

	if rg, ok := n.Iterable.(*ast.RangeExpr); ok {
		lo := g.genExpr(rg.Start)
		hi := g.genExpr(rg.End)
		cmp := "<"
		if rg.Inclusive {
			cmp = "<="
		}
		g.emit("    for (%s %s = %s; %s %s %s; %s++) {\n", elemType, n.Binder, lo, n.Binder, cmp, hi, n.Binder)
		g.pushScope()
		g.scope.Insert(n.Binder, elemType)
		for _, st := range n.Body.Stmts {
			g.genStmt(st)
		}
		g.popScope()
		g.emit("    }\n")
		return
	}

	arrExpr := g.genExpr(n.Iterable)
	var bound string
	if lit, ok := n.Iterable.(*ast.ArrayLiteral); ok {
		bound = fmt.Sprintf("%d", len(lit.Elems))
	} else {
		bound = fmt.Sprintf("(sizeof(%s) / sizeof((%s)[0]))", arrExpr, arrExpr)
	}
	idx := g.freshTemp("i")
	g.emit("    for (long %s = 0; %s < %s; %s++) {\n", idx, idx, bound, idx)
	g.pushScope()
	g.scope.Insert(n.Binder, elemType)
	g.emit("    %s %s = %s[%s];\n", elemType, n.Binder, arrExpr, idx)
	for _, st := range n.Body.Stmts {
		g.genStmt(st)
	}
	g.popScope()
	g.emit("    }\n")
}

func cOpSymbol(op lexer.TokenType) string {
	switch op {
	case lexer.PLUS:
		return "+"
	case lexer.MINUS:
		return "-"
	case lexer.ASTERISK:
		return "*"
	case lexer.SLASH:
		return "/"
	case lexer.PERCENT:
		return "%"
	default:
		return "+"
	}
}

// genExpr renders expr as a C expression. Expressions that need statement
// context in C (the `is`-match and string interpolation) lower through a
// GNU statement-expression, `({ ...; result; })`, matching the teacher's
// habit of leaning on GCC/Clang extensions the C backend already assumes
// are available.
func (g *Generator) genExpr(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.IntLit:
		return fmt.Sprintf("%d", e.Value)
	case *ast.FloatLit:
		return fmt.Sprintf("%g", e.Value)
	case *ast.BoolLit:
		if e.Value {
			return "true"
		}
		return "false"
	case *ast.CharLit:
		return "'" + string(e.Value) + "'"
	case *ast.StringLit:
		return quoteC(e.Value)
	case *ast.StringInterpExpr:
		return g.genStringInterp(e)
	case *ast.Ident:
		return e.Name
	case *ast.GenericRefExpr:
		return e.Name
	case *ast.UnaryExpr:
		return cUnaryOp(e.Op) + g.genExpr(e.Operand)
	case *ast.BinaryExpr:
		return "(" + g.genExpr(e.Left) + " " + cBinOp(e.Op) + " " + g.genExpr(e.Right) + ")"
	case *ast.CastExpr:
		return "((" + cTypeOf(e.Type, nil) + ")" + g.genExpr(e.Inner) + ")"
	case *ast.FieldExpr:
		return g.genFieldExpr(e)
	case *ast.IndexExpr:
		return g.genExpr(e.Target) + "[" + g.genExpr(e.Index) + "]"
	case *ast.ArrayLiteral:
		return g.genArrayLiteral(e)
	case *ast.StructLiteral:
		return g.genStructLiteral(e)
	case *ast.CallExpr:
		return g.genCallExpr(e)
	case *ast.MethodCallExpr:
		return g.genMethodCall(e)
	case *ast.StaticCallExpr:
		return g.genStaticCall(e)
	case *ast.TryExpr:
		return g.genTryExpr(e)
	case *ast.IfExpr:
		return g.genIfExprValue(e)
	case *ast.IsExpr:
		return g.genIsExprValue(e)
	case *ast.BlockExpr:
		return g.genBlockExprValue(e)
	case *ast.AwaitExpr:
		return g.genExpr(e.Inner)
	default:
		return "/* unsupported expr */0"
	}
}

func cUnaryOp(op lexer.TokenType) string {
	switch op {
	case lexer.MINUS:
		return "-"
	case lexer.BANG:
		return "!"
	case lexer.AMP:
		return "&"
	case lexer.ASTERISK:
		return "*"
	default:
		return ""
	}
}

func cBinOp(op lexer.TokenType) string {
	switch op {
	case lexer.PLUS:
		return "+"
	case lexer.MINUS:
		return "-"
	case lexer.ASTERISK:
		return "*"
	case lexer.SLASH:
		return "/"
	case lexer.PERCENT:
		return "%"
	case lexer.EQ:
		return "=="
	case lexer.NOT_EQ:
		return "!="
	case lexer.LT:
		return "<"
	case lexer.LE:
		return "<="
	case lexer.GT:
		return ">"
	case lexer.GE:
		return ">="
	case lexer.AND:
		return "&&"
	case lexer.OR:
		return "||"
	default:
		return "+"
	}
}

func (g *Generator) genArrayLiteral(e *ast.ArrayLiteral) string {
	var parts []string
	for _, el := range e.Elems {
		parts = append(parts, g.genExpr(el))
	}
	return "(long[]){" + strings.Join(parts, ", ") + "}"
}

// genStructLiteral lowers `Name { f1: v1, f2: v2 }` to a call to the
// mangled `_new` constructor, reordering arguments into the struct's
// declared field order (genStructType/genStructCtor's order) regardless
// of the order the literal's initializer list wrote them in.
func (g *Generator) genStructLiteral(e *ast.StructLiteral) string {
	name := ""
	baseName := ""
	if nt, ok := e.Type.(*ast.NamedTypeExpr); ok {
		baseName = nt.Name
	}
	if named, ok := g.checker.ExprTypes[e].(*types.Named); ok {
		name = mono.Mangle(named.Name, named.Args)
		baseName = named.Name
	} else {
		name = baseName
	}
	values := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		values[f.Name] = g.genExpr(f.Value)
	}
	var args []string
	if info, ok := g.checker.Structs[baseName]; ok {
		for _, fn := range info.FieldNames {
			args = append(args, values[fn])
		}
	} else {
		for _, f := range e.Fields {
			args = append(args, values[f.Name])
		}
	}
	return name + "_new(" + strings.Join(args, ", ") + ")"
}

func (g *Generator) genCallExpr(e *ast.CallExpr) string {
	var name string
	switch callee := e.Callee.(type) {
	case *ast.Ident:
		name = callee.Name
		if vi, ok := g.checker.Variants[callee.Name]; ok {
			// Bare-name enum variant construction, e.g. `Ok(100)`:
			// mangle to the enum's variant constructor, `EnumMangled_Variant`,
			// per spec.md §4.7's enum-lowering rule.
			enumArgs, _ := g.checker.ExprTypes[e].(*types.Named)
			var targs []types.Type
			if enumArgs != nil {
				targs = enumArgs.Args
			}
			name = mono.MangleMethod(mono.Mangle(vi.Enum, targs), vi.Name)
		} else if targs, ok := g.checker.CallTypeArgs[e]; ok {
			name = mono.Mangle(callee.Name, targs)
		}
	case *ast.GenericRefExpr:
		name = mangledNameForGenericRef(callee)
	default:
		name = g.genExpr(e.Callee)
	}
	var args []string
	for _, a := range e.Args {
		args = append(args, g.genExpr(a))
	}
	return name + "(" + strings.Join(args, ", ") + ")"
}

// mangledNameForGenericRef renders `name<T1,T2>` call sites using the same
// mangling scheme the monomorphization collector used to name the
// specialized function, so the call site and its definition agree.
func mangledNameForGenericRef(ref *ast.GenericRefExpr) string {
	parts := []string{ref.Name}
	for _, t := range ref.TypeArgs {
		if nt, ok := t.(*ast.NamedTypeExpr); ok {
			parts = append(parts, nt.Name)
		}
	}
	return strings.Join(parts, "_")
}

// genFieldExpr lowers `target.field`, using `->` when the target is a
// pointer-typed local (in particular `self`, which spec.md §4.7 requires
// to be a pointer inside a method body) and `.` otherwise.
func (g *Generator) genFieldExpr(e *ast.FieldExpr) string {
	target := g.genExpr(e.Target)
	op := "."
	if ident, ok := e.Target.(*ast.Ident); ok {
		if ct := g.scope.Lookup(ident.Name); strings.HasSuffix(ct, "*") {
			op = "->"
		}
	}
	return target + op + e.Field
}

// genMethodCall lowers `target.method(args)` to the mangled C function
// `ReceiverMangled_method(&target, args...)`, per spec.md §4.7's "self
// becomes a pointer" method rule. The receiver's mangled name is recovered
// from the type checker's recorded type of the target expression, the
// same lookup internal/mono uses to collect the method instance.
func (g *Generator) genMethodCall(e *ast.MethodCallExpr) string {
	var args []string
	recv := g.genExpr(e.Target)
	alreadyPointer := false
	if ident, ok := e.Target.(*ast.Ident); ok {
		alreadyPointer = strings.HasSuffix(g.scope.Lookup(ident.Name), "*")
	}
	if alreadyPointer {
		args = append(args, recv)
	} else {
		args = append(args, "&"+recv)
	}
	for _, a := range e.Args {
		args = append(args, g.genExpr(a))
	}
	name := e.Method
	if named, ok := g.checker.ExprTypes[e.Target].(*types.Named); ok {
		name = mono.MangleMethod(mono.Mangle(named.Name, named.Args), e.Method)
	}
	return name + "(" + strings.Join(args, ", ") + ")"
}

// genStaticCall lowers `Type<Args>::method(args)` to the mangled static
// function `Type_Args..._method(args...)`.
func (g *Generator) genStaticCall(e *ast.StaticCallExpr) string {
	nt, _ := e.Type.(*ast.NamedTypeExpr)
	name := ""
	if nt != nil {
		var targs []types.Type
		for _, a := range nt.Args {
			targs = append(targs, g.checker.ResolveTypeExprPublic(a))
		}
		name = mono.MangleMethod(mono.Mangle(nt.Name, targs), e.Method)
	}
	var args []string
	for _, a := range e.Args {
		args = append(args, g.genExpr(a))
	}
	return name + "(" + strings.Join(args, ", ") + ")"
}

// genTryExpr lowers `expr?` using a GNU statement-expression that checks
// the tag of a two-variant Result-shaped enum and early-returns the error
// variant unchanged, per spec.md §4.7's `?`-propagation rule.
func (g *Generator) genTryExpr(e *ast.TryExpr) string {
	inner := g.genExpr(e.Inner)
	tmp := g.freshTemp("try")
	return fmt.Sprintf("({ __auto_type %s = %s; if (%s.tag == 1) return %s; %s; })", tmp, inner, tmp, tmp, tmp)
}

func (g *Generator) genIfExprValue(e *ast.IfExpr) string {
	tmp := g.freshTemp("if")
	var b strings.Builder
	fmt.Fprintf(&b, "({ __auto_type %s; if (%s) { ", tmp, g.genExpr(e.Cond))
	if e.Then.Tail != nil {
		fmt.Fprintf(&b, "%s = %s; ", tmp, g.genExpr(e.Then.Tail))
	}
	b.WriteString("} else { ")
	if blk, ok := e.Else.(*ast.BlockExpr); ok && blk.Tail != nil {
		fmt.Fprintf(&b, "%s = %s; ", tmp, g.genExpr(blk.Tail))
	} else if e.Else != nil {
		fmt.Fprintf(&b, "%s = %s; ", tmp, g.genExpr(e.Else))
	}
	fmt.Fprintf(&b, "} %s; })", tmp)
	return b.String()
}

// genIsExprValue lowers an `is`-match into an if/else-if chain over the
// subject's tag field, binding each variant's payload fields into locals
// named after the pattern's binders.
func (g *Generator) genIsExprValue(e *ast.IsExpr) string {
	subject := g.genExpr(e.Subject)
	tmp := g.freshTemp("match")
	var b strings.Builder
	enumName := ""
	if named, ok := g.checker.ExprTypes[e.Subject].(*types.Named); ok {
		enumName = mono.Mangle(named.Name, named.Args)
	}
	fmt.Fprintf(&b, "({ __auto_type %s; __auto_type __subj = %s; ", tmp, subject)
	for i, arm := range e.Arms {
		kw := "if"
		if i > 0 {
			kw = "else if"
		}
		vp, ok := arm.Pattern.(*ast.VariantPattern)
		if !ok {
			fmt.Fprintf(&b, "{ %s = %s; } ", tmp, g.genExpr(arm.Body))
			continue
		}
		fmt.Fprintf(&b, "%s (__subj.tag == %s) { ", kw, variantTagLiteral(enumName, vp.Variant))
		for i, binder := range vp.Binders {
			if ip, ok := binder.(*ast.IdentPattern); ok {
				fmt.Fprintf(&b, "__auto_type %s = __subj.as.%s._%d; ", ip.Name, vp.Variant, i)
			}
		}
		fmt.Fprintf(&b, "%s = %s; } ", tmp, g.genExpr(arm.Body))
	}
	fmt.Fprintf(&b, "%s; })", tmp)
	return b.String()
}

// variantTagLiteral names the tag constant genEnumType emits for variant
// of the enum whose mangled name is enumName: `<enumName>_TAG_<variant>`.
func variantTagLiteral(enumName, variant string) string {
	return enumName + "_TAG_" + variant
}

func (g *Generator) genBlockExprValue(e *ast.BlockExpr) string {
	tmp := g.freshTemp("blk")
	var b strings.Builder
	fmt.Fprintf(&b, "({ ")
	for _, s := range e.Stmts {
		_ = s
	}
	if e.Tail != nil {
		fmt.Fprintf(&b, "%s; })", g.genExpr(e.Tail))
	} else {
		fmt.Fprintf(&b, "%s; })", tmp)
	}
	return b.String()
}

// genStringInterp appends literal segments (strcat) and interpolated
// expressions (snprintf) to a function-static 1024-byte buffer, per
// spec.md §4.7's string-interpolation lowering.
func (g *Generator) genStringInterp(e *ast.StringInterpExpr) string {
	tmp := g.freshTemp("str")
	var b strings.Builder
	fmt.Fprintf(&b, "({ static char %s[1024]; %s[0] = 0; ", tmp, tmp)
	for i, lit := range e.Literals {
		if lit != "" {
			fmt.Fprintf(&b, "strcat(%s, %s); ", tmp, quoteC(lit))
		}
		if i < len(e.Exprs) {
			fmt.Fprintf(&b, "snprintf(%s + strlen(%s), sizeof(%s) - strlen(%s), \"%%ld\", (long)(%s)); ",
				tmp, tmp, tmp, tmp, g.genExpr(e.Exprs[i]))
		}
	}
	fmt.Fprintf(&b, "%s; })", tmp)
	return b.String()
}
