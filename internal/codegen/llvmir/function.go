package llvmir

import (
	"fmt"
	"strings"

	"github.com/pawlang/pawc/internal/ast"
	"github.com/pawlang/pawc/internal/lexer"
	"github.com/pawlang/pawc/internal/mono"
	"github.com/pawlang/pawc/internal/types"
)

// genFunc emits one monomorphized function. Every local, including
// immutable lets, gets an alloca: matching -O0 clang output keeps the
// lowering uniform and leaves register promotion to a later optimization
// pass outside this compiler's scope.
func (g *Generator) genFunc(fi *mono.FuncInstance) {
	subst := substitution(g.genericParamNames(fi), fi.TypeArgs)
	oldLocals, oldTypes := g.locals, g.localTypes
	g.locals = make(map[string]string)
	g.localTypes = make(map[string]string)
	defer func() { g.locals, g.localTypes = oldLocals, oldTypes }()

	retType := "void"
	if fi.Decl.ReturnType != nil {
		retType = g.llvmTypeOf(fi.Decl.ReturnType, subst)
	}
	oldRetType := g.currentRetType
	oldSubst := g.currentSubst
	g.currentRetType = retType
	g.currentSubst = subst
	defer func() { g.currentRetType = oldRetType; g.currentSubst = oldSubst }()

	var paramDecls []string
	var paramNames []string
	var paramTypes []string
	for _, p := range fi.Decl.Params {
		if p.IsSelf {
			recvType := "i8*"
			if fi.Receiver != nil {
				recvType = g.llvmTypeOfResolved(fi.Receiver)
			}
			paramDecls = append(paramDecls, recvType+" %self.in")
			paramNames = append(paramNames, "self")
			paramTypes = append(paramTypes, recvType)
			continue
		}
		pt := g.llvmTypeOf(p.Type, subst)
		paramDecls = append(paramDecls, fmt.Sprintf("%s %%%s.in", pt, p.Name))
		paramNames = append(paramNames, p.Name)
		paramTypes = append(paramTypes, pt)
	}

	g.emit("\ndefine %s @%s(%s) {\nentry:\n", retType, fi.MangledName, strings.Join(paramDecls, ", "))

	for i, name := range paramNames {
		pt := paramTypes[i]
		reg := g.freshReg()
		g.emit("  %s = alloca %s\n", reg, pt)
		g.emit("  store %s %%%s.in, %s* %s\n", pt, name, pt, reg)
		g.locals[name] = reg
		g.localTypes[name] = pt
	}

	if fi.Decl.Body != nil {
		result := g.genBlock(fi.Decl.Body)
		if retType == "void" {
			g.emit("  ret void\n")
		} else if result != "" {
			g.emit("  ret %s %s\n", retType, result)
		} else {
			g.emit("  ret %s zeroinitializer\n", retType)
		}
	} else {
		g.emit("  ret void\n")
	}
	g.emit("}\n")
}

// genBlock emits every statement then returns the register holding the
// tail expression's value, or "" if the block has no tail.
func (g *Generator) genBlock(b *ast.BlockExpr) string {
	for _, s := range b.Stmts {
		g.genStmt(s)
	}
	if b.Tail != nil {
		return g.genExpr(b.Tail)
	}
	return ""
}

func (g *Generator) genStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.LetStmt:
		var lt string
		switch {
		case n.Type != nil:
			lt = g.llvmTypeOf(n.Type, g.currentSubst)
		case n.Value != nil:
			lt = g.exprLLVMType(n.Value)
		default:
			lt = "i32"
		}
		reg := g.freshReg()
		g.emit("  %s = alloca %s\n", reg, lt)
		g.locals[n.Name] = reg
		g.localTypes[n.Name] = lt
		if n.Value != nil {
			val := g.genExpr(n.Value)
			g.emit("  store %s %s, %s* %s\n", lt, val, lt, reg)
		}

	case *ast.AssignStmt:
		g.genAssign(n.Target, g.genExpr(n.Value))

	case *ast.CompoundAssignStmt:
		cur := g.genExpr(n.Target)
		rhs := g.genExpr(n.Value)
		opType := g.exprLLVMType(n.Target)
		reg := g.freshReg()
		g.emit("  %s = %s %s %s, %s\n", reg, llvmArithOp(n.Op, opType, g.exprIsUnsigned(n.Target)), opType, cur, rhs)
		g.genAssign(n.Target, reg)

	case *ast.ReturnStmt:
		if n.Value != nil {
			val := g.genExpr(n.Value)
			rt := g.currentRetType
			if rt == "" || rt == "void" {
				rt = g.exprLLVMType(n.Value)
			}
			g.emit("  ret %s %s\n", rt, val)
		} else {
			g.emit("  ret void\n")
		}

	case *ast.ExprStmt:
		g.genExpr(n.X)

	case *ast.BreakStmt:
		if len(g.loopStack) > 0 {
			g.emit("  br label %%%s\n", g.loopStack[len(g.loopStack)-1].breakLabel)
		}

	case *ast.ContinueStmt:
		if len(g.loopStack) > 0 {
			g.emit("  br label %%%s\n", g.loopStack[len(g.loopStack)-1].continueLabel)
		}

	case *ast.LoopStmt:
		g.genLoop(n)
	}
}

func (g *Generator) genAssign(target ast.Expr, val string) {
	switch t := target.(type) {
	case *ast.Ident:
		reg, ok := g.locals[t.Name]
		if !ok {
			return
		}
		lt := g.localTypes[t.Name]
		g.emit("  store %s %s, %s* %s\n", lt, val, lt, reg)
	default:
		// Field/index assignment targets resolve their own address; the
		// common case covered here is the plain-identifier one.
	}
}

// llvmArithOp mirrors genBinary's instruction choice for compound
// assignment (`+=` and friends): float operands get the f-prefixed
// instructions, unsigned integer operands get the u-prefixed div/rem.
func llvmArithOp(op lexer.TokenType, opType string, unsigned bool) string {
	isFloat := isFloatLLVMType(opType)
	switch op {
	case lexer.PLUS:
		if isFloat {
			return "fadd"
		}
		return "add"
	case lexer.MINUS:
		if isFloat {
			return "fsub"
		}
		return "sub"
	case lexer.ASTERISK:
		if isFloat {
			return "fmul"
		}
		return "mul"
	case lexer.SLASH:
		switch {
		case isFloat:
			return "fdiv"
		case unsigned:
			return "udiv"
		default:
			return "sdiv"
		}
	case lexer.PERCENT:
		switch {
		case isFloat:
			return "frem"
		case unsigned:
			return "urem"
		default:
			return "srem"
		}
	default:
		return "add"
	}
}

func (g *Generator) genLoop(n *ast.LoopStmt) {
	if n.Binder != "" {
		g.genIteratorLoop(n)
		return
	}

	condLabel := g.freshLabel("loop.cond")
	bodyLabel := g.freshLabel("loop.body")
	endLabel := g.freshLabel("loop.end")

	g.loopStack = append(g.loopStack, &loopContext{breakLabel: endLabel, continueLabel: condLabel})
	defer func() { g.loopStack = g.loopStack[:len(g.loopStack)-1] }()

	g.emit("  br label %%%s\n%s:\n", condLabel, condLabel)
	if n.Cond != nil {
		cond := g.genExpr(n.Cond)
		g.emit("  br i1 %s, label %%%s, label %%%s\n", cond, bodyLabel, endLabel)
	} else {
		g.emit("  br label %%%s\n", bodyLabel)
	}

	g.emit("%s:\n", bodyLabel)
	for _, st := range n.Body.Stmts {
		g.genStmt(st)
	}
	g.emit("  br label %%%s\n%s:\n", condLabel, endLabel)
}

// genIteratorLoop lowers `loop binder in iterable { body }`, the LLVM
// counterpart of the C backend's genIteratorLoop. A range iterable
// becomes a counted loop over its bounds (honoring `..=` with `sle`
// instead of `slt`); any other iterable is treated as an array whose
// length the checker recorded statically (spec.md §3's Array.Size),
// since every array value in this backend decays to a bare element
// pointer with no length carried at the IR level. Each iteration stores
// the current value into the binder's alloca so the loop body observes
// it through an ordinary load, rather than leaving it uninitialized.
func (g *Generator) genIteratorLoop(n *ast.LoopStmt) {
	elemType := "i32"
	if t, ok := g.checker.ExprTypes[n.Iterable]; ok && t != nil {
		if arr, ok := g.resolveType(t).(*types.Array); ok && arr.Elem != nil {
			elemType = g.llvmTypeOfResolved(arr.Elem)
		}
	}

	binderReg := g.freshReg()
	g.emit("  %s = alloca %s\n", binderReg, elemType)
	g.locals[n.Binder] = binderReg
	g.localTypes[n.Binder] = elemType

	condLabel := g.freshLabel("loop.cond")
	bodyLabel := g.freshLabel("loop.body")
	endLabel := g.freshLabel("loop.end")

	g.loopStack = append(g.loopStack, &loopContext{breakLabel: endLabel, continueLabel: condLabel})
	defer func() { g.loopStack = g.loopStack[:len(g.loopStack)-1] }()

	if rg, ok := n.Iterable.(*ast.RangeExpr); ok {
		lo := g.genExpr(rg.Start)
		hi := g.genExpr(rg.End)
		idxReg := g.freshReg()
		g.emit("  %s = alloca %s\n", idxReg, elemType)
		g.emit("  store %s %s, %s* %s\n", elemType, lo, elemType, idxReg)

		g.emit("  br label %%%s\n%s:\n", condLabel, condLabel)
		cur := g.freshReg()
		g.emit("  %s = load %s, %s* %s\n", cur, elemType, elemType, idxReg)
		pred := "slt"
		if rg.Inclusive {
			pred = "sle"
		}
		cmp := g.freshReg()
		g.emit("  %s = icmp %s %s %s, %s\n", cmp, pred, elemType, cur, hi)
		g.emit("  br i1 %s, label %%%s, label %%%s\n", cmp, bodyLabel, endLabel)

		g.emit("%s:\n", bodyLabel)
		g.emit("  store %s %s, %s* %s\n", elemType, cur, elemType, binderReg)
		for _, st := range n.Body.Stmts {
			g.genStmt(st)
		}
		reloaded := g.freshReg()
		g.emit("  %s = load %s, %s* %s\n", reloaded, elemType, elemType, idxReg)
		next := g.freshReg()
		g.emit("  %s = add %s %s, 1\n", next, elemType, reloaded)
		g.emit("  store %s %s, %s* %s\n", elemType, next, elemType, idxReg)
		g.emit("  br label %%%s\n%s:\n", condLabel, endLabel)
		return
	}

	arr := g.genExpr(n.Iterable)
	bound := "0"
	if t, ok := g.checker.ExprTypes[n.Iterable]; ok && t != nil {
		if arrTy, ok := g.resolveType(t).(*types.Array); ok && arrTy.Size >= 0 {
			bound = fmt.Sprintf("%d", arrTy.Size)
		}
	}

	idxReg := g.freshReg()
	g.emit("  %s = alloca i64\n", idxReg)
	g.emit("  store i64 0, i64* %s\n", idxReg)

	g.emit("  br label %%%s\n%s:\n", condLabel, condLabel)
	idxVal := g.freshReg()
	g.emit("  %s = load i64, i64* %s\n", idxVal, idxReg)
	cmp := g.freshReg()
	g.emit("  %s = icmp slt i64 %s, %s\n", cmp, idxVal, bound)
	g.emit("  br i1 %s, label %%%s, label %%%s\n", cmp, bodyLabel, endLabel)

	g.emit("%s:\n", bodyLabel)
	elemAddr := g.freshReg()
	g.emit("  %s = getelementptr inbounds %s, %s* %s, i64 %s\n", elemAddr, elemType, elemType, arr, idxVal)
	elemVal := g.freshReg()
	g.emit("  %s = load %s, %s* %s\n", elemVal, elemType, elemType, elemAddr)
	g.emit("  store %s %s, %s* %s\n", elemType, elemVal, elemType, binderReg)
	for _, st := range n.Body.Stmts {
		g.genStmt(st)
	}
	reloadedIdx := g.freshReg()
	g.emit("  %s = load i64, i64* %s\n", reloadedIdx, idxReg)
	next := g.freshReg()
	g.emit("  %s = add i64 %s, 1\n", next, reloadedIdx)
	g.emit("  store i64 %s, i64* %s\n", next, idxReg)
	g.emit("  br label %%%s\n%s:\n", condLabel, endLabel)
}
