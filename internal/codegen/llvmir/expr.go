package llvmir

import (
	"fmt"
	"strings"

	"github.com/pawlang/pawc/internal/ast"
	"github.com/pawlang/pawc/internal/lexer"
	"github.com/pawlang/pawc/internal/mono"
	"github.com/pawlang/pawc/internal/types"
)

// genExpr lowers expr to a sequence of instructions and returns the
// register (or immediate) holding its value.
func (g *Generator) genExpr(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.IntLit:
		return fmt.Sprintf("%d", e.Value)
	case *ast.FloatLit:
		return fmt.Sprintf("%g", e.Value)
	case *ast.BoolLit:
		if e.Value {
			return "1"
		}
		return "0"
	case *ast.CharLit:
		return fmt.Sprintf("%d", e.Value)
	case *ast.StringLit:
		return g.internString(e.Value)
	case *ast.StringInterpExpr:
		return g.genStringInterp(e)
	case *ast.Ident:
		return g.genLoad(e.Name)
	case *ast.GenericRefExpr:
		return "@" + mangledNameForGenericRef(e)
	case *ast.UnaryExpr:
		return g.genUnary(e)
	case *ast.BinaryExpr:
		return g.genBinary(e)
	case *ast.CastExpr:
		return g.genExpr(e.Inner)
	case *ast.FieldExpr:
		return g.genFieldAccess(e)
	case *ast.IndexExpr:
		return g.genIndex(e)
	case *ast.ArrayLiteral:
		return g.genArrayLiteral(e)
	case *ast.StructLiteral:
		return g.genStructLiteral(e)
	case *ast.CallExpr:
		return g.genCall(e)
	case *ast.MethodCallExpr:
		return g.genMethodCall(e)
	case *ast.StaticCallExpr:
		return g.genStaticCall(e)
	case *ast.TryExpr:
		return g.genTry(e)
	case *ast.IfExpr:
		return g.genIf(e)
	case *ast.IsExpr:
		return g.genIs(e)
	case *ast.BlockExpr:
		return g.genBlock(e)
	case *ast.AwaitExpr:
		return g.genExpr(e.Inner)
	default:
		return "0"
	}
}

func (g *Generator) genLoad(name string) string {
	reg, ok := g.locals[name]
	if !ok {
		return "0"
	}
	lt := g.localTypes[name]
	out := g.freshReg()
	g.emit("  %s = load %s, %s* %s\n", out, lt, lt, reg)
	return out
}

func (g *Generator) genUnary(e *ast.UnaryExpr) string {
	val := g.genExpr(e.Operand)
	opType := g.exprLLVMType(e.Operand)
	switch e.Op {
	case lexer.MINUS:
		out := g.freshReg()
		if isFloatLLVMType(opType) {
			g.emit("  %s = fneg %s %s\n", out, opType, val)
		} else {
			g.emit("  %s = sub %s 0, %s\n", out, opType, val)
		}
		return out
	case lexer.BANG:
		out := g.freshReg()
		g.emit("  %s = xor %s %s, 1\n", out, opType, val)
		return out
	default:
		return val
	}
}

func isFloatLLVMType(t string) bool { return t == "float" || t == "double" }

// exprIsUnsigned reports whether e's checker-recorded type is one of the
// unsigned integer primitives, distinguishing udiv/urem/ult-family
// instructions from their signed counterparts (LLVM integers carry no
// sign of their own; it is encoded in the instruction).
func (g *Generator) exprIsUnsigned(e ast.Expr) bool {
	t, ok := g.checker.ExprTypes[e]
	if !ok || t == nil {
		return false
	}
	prim, ok := g.resolveType(t).(*types.Primitive)
	return ok && types.IsUnsignedInt(prim.Name)
}

// llvmCompare maps a comparison operator to its icmp/fcmp mnemonic and
// predicate, honoring operand signedness for integers and using ordered
// predicates for floats (PawLang has no NaN-aware comparison operators).
func llvmCompare(op lexer.TokenType, isFloat, isUnsigned bool) (instr, pred string) {
	if isFloat {
		switch op {
		case lexer.EQ:
			return "fcmp", "oeq"
		case lexer.NOT_EQ:
			return "fcmp", "one"
		case lexer.LT:
			return "fcmp", "olt"
		case lexer.LE:
			return "fcmp", "ole"
		case lexer.GT:
			return "fcmp", "ogt"
		default:
			return "fcmp", "oge"
		}
	}
	switch op {
	case lexer.EQ:
		return "icmp", "eq"
	case lexer.NOT_EQ:
		return "icmp", "ne"
	case lexer.LT:
		if isUnsigned {
			return "icmp", "ult"
		}
		return "icmp", "slt"
	case lexer.LE:
		if isUnsigned {
			return "icmp", "ule"
		}
		return "icmp", "sle"
	case lexer.GT:
		if isUnsigned {
			return "icmp", "ugt"
		}
		return "icmp", "sgt"
	default:
		if isUnsigned {
			return "icmp", "uge"
		}
		return "icmp", "sge"
	}
}

func (g *Generator) genBinary(e *ast.BinaryExpr) string {
	l := g.genExpr(e.Left)
	r := g.genExpr(e.Right)
	out := g.freshReg()
	opType := g.exprLLVMType(e.Left)
	isFloat := isFloatLLVMType(opType)
	isUnsigned := g.exprIsUnsigned(e.Left)
	switch e.Op {
	case lexer.PLUS:
		if isFloat {
			g.emit("  %s = fadd %s %s, %s\n", out, opType, l, r)
		} else {
			g.emit("  %s = add %s %s, %s\n", out, opType, l, r)
		}
	case lexer.MINUS:
		if isFloat {
			g.emit("  %s = fsub %s %s, %s\n", out, opType, l, r)
		} else {
			g.emit("  %s = sub %s %s, %s\n", out, opType, l, r)
		}
	case lexer.ASTERISK:
		if isFloat {
			g.emit("  %s = fmul %s %s, %s\n", out, opType, l, r)
		} else {
			g.emit("  %s = mul %s %s, %s\n", out, opType, l, r)
		}
	case lexer.SLASH:
		switch {
		case isFloat:
			g.emit("  %s = fdiv %s %s, %s\n", out, opType, l, r)
		case isUnsigned:
			g.emit("  %s = udiv %s %s, %s\n", out, opType, l, r)
		default:
			g.emit("  %s = sdiv %s %s, %s\n", out, opType, l, r)
		}
	case lexer.PERCENT:
		switch {
		case isFloat:
			g.emit("  %s = frem %s %s, %s\n", out, opType, l, r)
		case isUnsigned:
			g.emit("  %s = urem %s %s, %s\n", out, opType, l, r)
		default:
			g.emit("  %s = srem %s %s, %s\n", out, opType, l, r)
		}
	case lexer.EQ, lexer.NOT_EQ, lexer.LT, lexer.LE, lexer.GT, lexer.GE:
		instr, pred := llvmCompare(e.Op, isFloat, isUnsigned)
		g.emit("  %s = %s %s %s %s, %s\n", out, instr, pred, opType, l, r)
	case lexer.AND:
		g.emit("  %s = and i1 %s, %s\n", out, l, r)
	case lexer.OR:
		g.emit("  %s = or i1 %s, %s\n", out, l, r)
	default:
		g.emit("  %s = add %s %s, %s\n", out, opType, l, r)
	}
	return out
}

// genFieldAccess lowers `target.field` to a GEP into the target's struct
// type at the field's declared index, followed by a load — structs are
// always pointer-valued in this backend, since its `_new` constructor
// returns a pointer (the C backend's `_new` returns the struct by value).
func (g *Generator) genFieldAccess(e *ast.FieldExpr) string {
	base := g.genExpr(e.Target)
	rawNamed, _ := g.checker.ExprTypes[e.Target].(*types.Named)
	if rawNamed == nil {
		out := g.freshReg()
		g.emit("  %s = getelementptr inbounds i8, i8* %s, i32 0 ; .%s\n", out, base, e.Field)
		return out
	}
	named, _ := g.resolveType(rawNamed).(*types.Named)
	mangled := mono.Mangle(named.Name, named.Args)
	info := g.checker.Structs[named.Name]
	idx := 0
	fieldType := "i32"
	if info != nil {
		fieldSubst := make(map[string]types.Type, len(info.TypeParams))
		for i, p := range info.TypeParams {
			if i < len(named.Args) {
				fieldSubst[p] = named.Args[i]
			}
		}
		for i, fn := range info.FieldNames {
			if fn == e.Field {
				idx = i
				ft := info.FieldTypes[fn]
				if gp, ok := ft.(*types.GenericParam); ok {
					if conc, ok := fieldSubst[gp.Name]; ok {
						ft = conc
					}
				}
				fieldType = g.llvmTypeOfResolved(ft)
				break
			}
		}
	}
	addr := g.freshReg()
	g.emit("  %s = getelementptr inbounds %%struct.%s, %%struct.%s* %s, i32 0, i32 %d\n",
		addr, mangled, mangled, base, idx)
	out := g.freshReg()
	g.emit("  %s = load %s, %s* %s\n", out, fieldType, fieldType, addr)
	return out
}

// genIndex lowers `target[index]` to a GEP on the target's element type,
// which the checker already recorded as this expression's own type.
func (g *Generator) genIndex(e *ast.IndexExpr) string {
	base := g.genExpr(e.Target)
	idx := g.genExpr(e.Index)
	elemType := g.exprLLVMType(e)
	addr := g.freshReg()
	g.emit("  %s = getelementptr inbounds %s, %s* %s, i64 %s\n", addr, elemType, elemType, base, idx)
	out := g.freshReg()
	g.emit("  %s = load %s, %s* %s\n", out, elemType, elemType, addr)
	return out
}

// arrayElemLLVMType recovers an array literal's element type from the
// checker's recorded Array type, falling back to the first element's own
// type when inference left it unset (an empty literal with no annotation).
func (g *Generator) arrayElemLLVMType(e *ast.ArrayLiteral) string {
	if t, ok := g.checker.ExprTypes[e]; ok && t != nil {
		if arr, ok := g.resolveType(t).(*types.Array); ok && arr.Elem != nil {
			return g.llvmTypeOfResolved(arr.Elem)
		}
	}
	if len(e.Elems) > 0 {
		return g.exprLLVMType(e.Elems[0])
	}
	return "i32"
}

func (g *Generator) genArrayLiteral(e *ast.ArrayLiteral) string {
	n := len(e.Elems)
	elemType := g.arrayElemLLVMType(e)
	arr := g.freshReg()
	g.emit("  %s = alloca [%d x %s]\n", arr, n, elemType)
	for i, el := range e.Elems {
		val := g.genExpr(el)
		addr := g.freshReg()
		g.emit("  %s = getelementptr inbounds [%d x %s], [%d x %s]* %s, i32 0, i32 %d\n", addr, n, elemType, n, elemType, arr, i)
		g.emit("  store %s %s, %s* %s\n", elemType, val, elemType, addr)
	}
	decay := g.freshReg()
	g.emit("  %s = bitcast [%d x %s]* %s to %s*\n", decay, n, elemType, arr, elemType)
	return decay
}

// exprLLVMType returns the LLVM type of a checked expression, falling back
// to i32 (the same default an un-annotated integer literal infers to) for
// anything the checker didn't record, e.g. synthetic nodes.
func (g *Generator) exprLLVMType(e ast.Expr) string {
	if t, ok := g.checker.ExprTypes[e]; ok && t != nil {
		return g.llvmTypeOfResolved(g.resolveType(t))
	}
	return "i32"
}

// returnLLVMType returns the LLVM type a call/method-call/static-call
// expression's result should be declared with, consulting the checker's
// substituted inference result so a call to a generic or enum/struct
// returning function gets its real aggregate type instead of a blanket
// default.
func (g *Generator) returnLLVMType(e ast.Expr) string {
	if t, ok := g.checker.ExprTypes[e]; ok && t != nil {
		t = g.resolveType(t)
		if prim, ok := t.(*types.Primitive); ok && prim.Name == "void" {
			return "void"
		}
		return g.llvmTypeOfResolved(t)
	}
	return "i32"
}

func (g *Generator) genStructLiteral(e *ast.StructLiteral) string {
	name := ""
	baseName := ""
	if nt, ok := e.Type.(*ast.NamedTypeExpr); ok {
		baseName = nt.Name
	}
	if rawNamed, ok := g.checker.ExprTypes[e].(*types.Named); ok {
		named, _ := g.resolveType(rawNamed).(*types.Named)
		name = mono.Mangle(named.Name, named.Args)
		baseName = named.Name
	} else {
		name = baseName
	}
	values := make(map[string]string, len(e.Fields))
	valueTypes := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		values[f.Name] = g.genExpr(f.Value)
		valueTypes[f.Name] = g.exprLLVMType(f.Value)
	}
	var args []string
	if info, ok := g.checker.Structs[baseName]; ok {
		for _, fn := range info.FieldNames {
			args = append(args, valueTypes[fn]+" "+values[fn])
		}
	} else {
		for _, f := range e.Fields {
			args = append(args, valueTypes[f.Name]+" "+values[f.Name])
		}
	}
	out := g.freshReg()
	g.emit("  %s = call %%struct.%s* @%s_new(%s)\n", out, name, name, strings.Join(args, ", "))
	return out
}

func (g *Generator) genCall(e *ast.CallExpr) string {
	var name string
	switch callee := e.Callee.(type) {
	case *ast.Ident:
		name = callee.Name
		if vi, ok := g.checker.Variants[callee.Name]; ok {
			rawArgs, _ := g.checker.ExprTypes[e].(*types.Named)
			var targs []types.Type
			if rawArgs != nil {
				if resolved, ok := g.resolveType(rawArgs).(*types.Named); ok {
					targs = resolved.Args
				}
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
		args = append(args, g.exprLLVMType(a)+" "+g.genExpr(a))
	}
	retType := g.returnLLVMType(e)
	out := g.freshReg()
	if retType == "void" {
		g.emit("  call void @%s(%s)\n", name, strings.Join(args, ", "))
		return ""
	}
	g.emit("  %s = call %s @%s(%s)\n", out, retType, name, strings.Join(args, ", "))
	return out
}

func mangledNameForGenericRef(ref *ast.GenericRefExpr) string {
	parts := []string{ref.Name}
	for _, t := range ref.TypeArgs {
		if nt, ok := t.(*ast.NamedTypeExpr); ok {
			parts = append(parts, nt.Name)
		}
	}
	return strings.Join(parts, "_")
}

func (g *Generator) genMethodCall(e *ast.MethodCallExpr) string {
	self := g.genExpr(e.Target)
	selfType := g.exprLLVMType(e.Target)
	var args []string
	args = append(args, selfType+" "+self)
	for _, a := range e.Args {
		args = append(args, g.exprLLVMType(a)+" "+g.genExpr(a))
	}
	name := e.Method
	if rawNamed, ok := g.checker.ExprTypes[e.Target].(*types.Named); ok {
		if named, ok := g.resolveType(rawNamed).(*types.Named); ok {
			name = mono.MangleMethod(mono.Mangle(named.Name, named.Args), e.Method)
		}
	}
	retType := g.returnLLVMType(e)
	out := g.freshReg()
	if retType == "void" {
		g.emit("  call void @%s(%s)\n", name, strings.Join(args, ", "))
		return ""
	}
	g.emit("  %s = call %s @%s(%s)\n", out, retType, name, strings.Join(args, ", "))
	return out
}

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
		args = append(args, g.exprLLVMType(a)+" "+g.genExpr(a))
	}
	retType := g.returnLLVMType(e)
	out := g.freshReg()
	if retType == "void" {
		g.emit("  call void @%s(%s)\n", name, strings.Join(args, ", "))
		return ""
	}
	g.emit("  %s = call %s @%s(%s)\n", out, retType, name, strings.Join(args, ", "))
	return out
}

// genTry extracts the tag word of a Result-shaped enum value and branches
// to an early return of the unchanged error value on a non-zero (error)
// tag, per the tagged-union lowering shared with the C backend.
func (g *Generator) genTry(e *ast.TryExpr) string {
	val := g.genExpr(e.Inner)
	enumType := g.exprLLVMType(e.Inner)
	tag := g.freshReg()
	g.emit("  %s = extractvalue %s %s, 0\n", tag, enumType, val)
	isErr := g.freshReg()
	g.emit("  %s = icmp ne i32 %s, 0\n", isErr, tag)
	errLabel := g.freshLabel("try.err")
	okLabel := g.freshLabel("try.ok")
	g.emit("  br i1 %s, label %%%s, label %%%s\n", isErr, errLabel, okLabel)
	g.emit("%s:\n", errLabel)
	if g.currentRetType == "void" {
		g.emit("  ret void\n")
	} else {
		g.emit("  ret %s %s\n", g.currentRetType, val)
	}
	g.emit("%s:\n", okLabel)
	return val
}

func (g *Generator) genIf(e *ast.IfExpr) string {
	cond := g.genExpr(e.Cond)
	thenLabel := g.freshLabel("if.then")
	elseLabel := g.freshLabel("if.else")
	endLabel := g.freshLabel("if.end")
	g.emit("  br i1 %s, label %%%s, label %%%s\n", cond, thenLabel, elseLabel)

	g.emit("%s:\n", thenLabel)
	thenVal := "0"
	if e.Then.Tail != nil {
		thenVal = g.genExpr(e.Then.Tail)
	}
	for _, s := range e.Then.Stmts {
		_ = s
	}
	g.emit("  br label %%%s\n", endLabel)

	g.emit("%s:\n", elseLabel)
	elseVal := "0"
	if blk, ok := e.Else.(*ast.BlockExpr); ok {
		if blk.Tail != nil {
			elseVal = g.genExpr(blk.Tail)
		}
	} else if e.Else != nil {
		elseVal = g.genExpr(e.Else)
	}
	g.emit("  br label %%%s\n", endLabel)

	g.emit("%s:\n", endLabel)
	out := g.freshReg()
	g.emit("  %s = phi %s [ %s, %%%s ], [ %s, %%%s ]\n", out, g.exprLLVMType(e), thenVal, thenLabel, elseVal, elseLabel)
	return out
}

// genIs lowers an `is`-match into a chain of tag comparisons, each arm
// branching to its own block and joining via a phi at the end, the
// register-based analogue of the C backend's if/else-if lowering.
func (g *Generator) genIs(e *ast.IsExpr) string {
	subject := g.genExpr(e.Subject)
	subjectType := g.exprLLVMType(e.Subject)
	tag := g.freshReg()
	g.emit("  %s = extractvalue %s %s, 0\n", tag, subjectType, subject)

	endLabel := g.freshLabel("match.end")
	var incoming []string
	for i, arm := range e.Arms {
		armLabel := g.freshLabel("match.arm")
		nextLabel := g.freshLabel("match.next")
		if i == len(e.Arms)-1 {
			nextLabel = endLabel
		}

		if vp, ok := arm.Pattern.(*ast.VariantPattern); ok {
			cmp := g.freshReg()
			g.emit("  %s = icmp eq i32 %s, %d\n", cmp, tag, i)
			_ = vp
			g.emit("  br i1 %s, label %%%s, label %%%s\n", cmp, armLabel, nextLabel)
		} else {
			g.emit("  br label %%%s\n", armLabel)
		}

		g.emit("%s:\n", armLabel)
		val := g.genExpr(arm.Body)
		g.emit("  br label %%%s\n", endLabel)
		incoming = append(incoming, fmt.Sprintf("[ %s, %%%s ]", val, armLabel))

		if i != len(e.Arms)-1 {
			g.emit("%s:\n", nextLabel)
		}
	}

	g.emit("%s:\n", endLabel)
	out := g.freshReg()
	g.emit("  %s = phi %s %s\n", out, g.exprLLVMType(e), strings.Join(incoming, ", "))
	return out
}

// genStringInterp concatenates literal segments and stringified
// expression values at runtime via a support routine, paralleling the C
// backend's snprintf-based lowering.
func (g *Generator) genStringInterp(e *ast.StringInterpExpr) string {
	buf := g.freshReg()
	g.emit("  %s = call i8* @paw_strbuf_new()\n", buf)
	for i, lit := range e.Literals {
		if lit != "" {
			litPtr := g.internString(lit)
			g.emit("  call void @paw_strbuf_append(i8* %s, i8* %s)\n", buf, litPtr)
		}
		if i < len(e.Exprs) {
			val := g.genExpr(e.Exprs[i])
			g.emit("  call void @paw_strbuf_append_int(i8* %s, i64 %s)\n", buf, val)
		}
	}
	return buf
}
