// Package llvmir lowers a monomorphized PawLang program directly to
// textual LLVM IR, bypassing a dedicated MIR stage in favor of emitting
// straight from the typed, monomorphized AST.
package llvmir

import (
	"fmt"
	"strings"

	"github.com/pawlang/pawc/internal/ast"
	"github.com/pawlang/pawc/internal/mono"
	"github.com/pawlang/pawc/internal/types"
)

// loopContext tracks the labels a break/continue inside the current loop
// should branch to.
type loopContext struct {
	breakLabel    string
	continueLabel string
}

// Generator emits one LLVM IR module for every entry in a monomorphization
// Database.
type Generator struct {
	builder strings.Builder

	db      *mono.Database
	checker *types.Checker

	locals       map[string]string // source name -> %register holding its alloca
	localTypes   map[string]string // source name -> LLVM type of the alloca'd value
	regCounter   int
	labelCounter int

	// currentRetType is the LLVM return type of the function genFunc is
	// currently emitting, consulted by ret/try lowering so an early return
	// (`return expr` or a `?`-propagated error) uses the function's actual
	// declared type instead of assuming i64.
	currentRetType string

	// currentSubst maps the enclosing generic declaration's type-parameter
	// names to this instantiation's concrete types. The checker's ExprTypes
	// cache was built from a single pass over the unspecialized generic
	// body, so it still reports bare GenericParam types inside one; this
	// substitution recovers the concrete type for the instantiation genFunc
	// is currently emitting.
	currentSubst map[string]types.Type

	loopStack []*loopContext

	globals     []string
	globalNames map[string]bool
}

// NewGenerator returns a generator bound to a monomorphized program.
func NewGenerator(db *mono.Database, checker *types.Checker) *Generator {
	return &Generator{
		db:          db,
		checker:     checker,
		globalNames: make(map[string]bool),
	}
}

func (g *Generator) freshReg() string {
	g.regCounter++
	return fmt.Sprintf("%%r%d", g.regCounter)
}

func (g *Generator) freshLabel(prefix string) string {
	g.labelCounter++
	return fmt.Sprintf("%s%d", prefix, g.labelCounter)
}

func (g *Generator) emit(format string, args ...interface{}) {
	fmt.Fprintf(&g.builder, format, args...)
}

// Generate returns the complete textual IR module: a ModuleID header line,
// struct/enum type definitions, constructors, every monomorphized
// function, then the global string constants those functions reference.
func (g *Generator) Generate() string {
	g.builder.Reset()
	g.emit("; ModuleID = 'paw'\n\n")

	for _, si := range g.db.Structs {
		g.genStructType(si)
	}
	// Every enum instantiation is lowered to the same fixed-size payload
	// shape, a 32-byte inline buffer big enough for any payload this
	// compiler can produce without per-variant struct types in IR.
	for _, ei := range g.db.Enums {
		g.genEnumType(ei)
	}

	for _, si := range g.db.Structs {
		g.genStructCtor(si)
	}
	for _, ei := range g.db.Enums {
		g.genEnumCtors(ei)
	}

	for _, fi := range g.db.Funcs {
		g.genFunc(fi)
	}

	var out strings.Builder
	out.WriteString(g.builder.String())
	if len(g.globals) > 0 {
		out.WriteString("\n; globals\n")
		for _, decl := range g.globals {
			out.WriteString(decl)
			out.WriteString("\n")
		}
	}
	return out.String()
}

func (g *Generator) genStructType(si *mono.StructInstance) {
	subst := substitution(typeParamNames(si.Decl.TypeParams), si.TypeArgs)
	var fields []string
	for _, f := range si.Decl.Fields {
		fields = append(fields, g.llvmTypeOf(f.Type, subst))
	}
	g.emit("%%struct.%s = type { %s }\n", si.MangledName, strings.Join(fields, ", "))
}

const enumPayloadBytes = 32

func (g *Generator) genEnumType(ei *mono.EnumInstance) {
	g.emit("%%enum.%s = type { i32, [%d x i8] }\n", ei.MangledName, enumPayloadBytes)
}

// genStructCtor emits the `_new` constructor every struct literal lowers
// to, mirroring the C backend's genStructCtor: alloca the named struct
// type, store each field in declaration order, return the pointer.
func (g *Generator) genStructCtor(si *mono.StructInstance) {
	subst := substitution(typeParamNames(si.Decl.TypeParams), si.TypeArgs)
	var paramDecls []string
	var fieldTypes []string
	for _, f := range si.Decl.Fields {
		ft := g.llvmTypeOf(f.Type, subst)
		fieldTypes = append(fieldTypes, ft)
		paramDecls = append(paramDecls, fmt.Sprintf("%s %%%s.in", ft, f.Name))
	}
	g.emit("\ndefine %%struct.%s* @%s_new(%s) {\nentry:\n",
		si.MangledName, si.MangledName, strings.Join(paramDecls, ", "))
	slot := g.freshReg()
	g.emit("  %s = alloca %%struct.%s\n", slot, si.MangledName)
	for i, f := range si.Decl.Fields {
		ft := fieldTypes[i]
		fieldPtr := g.freshReg()
		g.emit("  %s = getelementptr inbounds %%struct.%s, %%struct.%s* %s, i32 0, i32 %d\n",
			fieldPtr, si.MangledName, si.MangledName, slot, i)
		g.emit("  store %s %%%s.in, %s* %s\n", ft, f.Name, ft, fieldPtr)
	}
	g.emit("  ret %%struct.%s* %s\n}\n", si.MangledName, slot)
}

// genEnumCtors emits one constructor per variant, packing the tag and any
// payload values into the enum's fixed 32-byte buffer. Payload fields are
// stored through a bitcast of the buffer to an anonymous struct type shaped
// like this variant's payload list, since distinct variants of the same
// enum can carry differently-typed (and differently-sized) payloads and
// IR has no union type of its own.
func (g *Generator) genEnumCtors(ei *mono.EnumInstance) {
	subst := substitution(typeParamNames(ei.Decl.TypeParams), ei.TypeArgs)
	for i, v := range ei.Decl.Variants {
		var paramDecls []string
		var payloadTypes []string
		for j, p := range v.Payloads {
			pt := g.llvmTypeOf(p, subst)
			payloadTypes = append(payloadTypes, pt)
			paramDecls = append(paramDecls, fmt.Sprintf("%s %%p%d", pt, j))
		}
		g.emit("\ndefine %%enum.%s @%s_%s(%s) {\nentry:\n",
			ei.MangledName, ei.MangledName, v.Name, strings.Join(paramDecls, ", "))
		slot := g.freshReg()
		g.emit("  %s = alloca %%enum.%s\n", slot, ei.MangledName)
		tagPtr := g.freshReg()
		g.emit("  %s = getelementptr inbounds %%enum.%s, %%enum.%s* %s, i32 0, i32 0\n",
			tagPtr, ei.MangledName, ei.MangledName, slot)
		g.emit("  store i32 %d, i32* %s\n", i, tagPtr)
		if len(v.Payloads) > 0 {
			bufPtr := g.freshReg()
			g.emit("  %s = getelementptr inbounds %%enum.%s, %%enum.%s* %s, i32 0, i32 1\n",
				bufPtr, ei.MangledName, ei.MangledName, slot)
			payloadStructType := "{ " + strings.Join(payloadTypes, ", ") + " }"
			typed := g.freshReg()
			g.emit("  %s = bitcast [%d x i8]* %s to %s*\n", typed, enumPayloadBytes, bufPtr, payloadStructType)
			for j, pt := range payloadTypes {
				fieldPtr := g.freshReg()
				g.emit("  %s = getelementptr inbounds %s, %s* %s, i32 0, i32 %d\n",
					fieldPtr, payloadStructType, payloadStructType, typed, j)
				g.emit("  store %s %%p%d, %s* %s\n", pt, j, pt, fieldPtr)
			}
		}
		out := g.freshReg()
		g.emit("  %s = load %%enum.%s, %%enum.%s* %s\n", out, ei.MangledName, ei.MangledName, slot)
		g.emit("  ret %%enum.%s %s\n}\n", ei.MangledName, out)
	}
}

func genericNamesOf(fn *ast.FnDecl) []string {
	return typeParamNames(fn.TypeParams)
}

func typeParamNames(params []*ast.GenericParam) []string {
	names := make([]string, 0, len(params))
	for _, tp := range params {
		names = append(names, tp.Name)
	}
	return names
}

// resolveType substitutes any GenericParam node reachable in t using the
// generator's currentSubst, recovering the concrete type a checker-recorded
// expression type still names abstractly inside a generic declaration.
func (g *Generator) resolveType(t types.Type) types.Type {
	switch tt := t.(type) {
	case *types.GenericParam:
		if conc, ok := g.currentSubst[tt.Name]; ok {
			return conc
		}
		return t
	case *types.Named:
		if len(tt.Args) == 0 {
			return t
		}
		args := make([]types.Type, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = g.resolveType(a)
		}
		return &types.Named{Name: tt.Name, Args: args}
	case *types.Pointer:
		return &types.Pointer{Elem: g.resolveType(tt.Elem)}
	case *types.Array:
		return &types.Array{Elem: g.resolveType(tt.Elem), Size: tt.Size}
	default:
		return t
	}
}

func substitution(names []string, args []types.Type) map[string]types.Type {
	m := make(map[string]types.Type, len(names))
	for i, n := range names {
		if i < len(args) {
			m[n] = args[i]
		}
	}
	return m
}

// genericParamNames mirrors internal/codegen/c's helper of the same name:
// for a method, fi.TypeArgs holds the *receiver's* concrete type
// arguments (internal/mono's queueMethod), so the names to substitute are
// the enclosing struct's or enum's type parameters, not the method's own.
func (g *Generator) genericParamNames(fi *mono.FuncInstance) []string {
	if fi.Receiver == nil {
		return genericNamesOf(fi.Decl)
	}
	named, ok := fi.Receiver.(*types.Named)
	if !ok {
		return genericNamesOf(fi.Decl)
	}
	if si, ok := g.checker.Structs[named.Name]; ok {
		return si.TypeParams
	}
	if ei, ok := g.checker.Enums[named.Name]; ok {
		return ei.TypeParams
	}
	return genericNamesOf(fi.Decl)
}

// internString registers a string literal as a module-level global
// constant and returns the register holding a pointer to its first byte.
func (g *Generator) internString(s string) string {
	name := fmt.Sprintf("@.str.%d", len(g.globals))
	bytes := []byte(s)
	bytes = append(bytes, 0)
	g.globals = append(g.globals, fmt.Sprintf("%s = private unnamed_addr constant [%d x i8] c\"%s\"",
		name, len(bytes), escapeIRString(bytes)))
	return name
}

func escapeIRString(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		if c >= 32 && c < 127 && c != '"' && c != '\\' {
			sb.WriteByte(c)
		} else {
			fmt.Fprintf(&sb, "\\%02X", c)
		}
	}
	return sb.String()
}
