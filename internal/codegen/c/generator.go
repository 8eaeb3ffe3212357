// Package c lowers a monomorphized PawLang program to C17 source text,
// emitting one function per entry in the monomorphization database rather
// than once per source-level declaration.
package c

import (
	"fmt"
	"strings"

	"github.com/pawlang/pawc/internal/ast"
	"github.com/pawlang/pawc/internal/mono"
	"github.com/pawlang/pawc/internal/types"
)

// Scope tracks each local variable's C type string within the function
// currently being generated.
type Scope struct {
	Parent *Scope
	Vars   map[string]string
}

func NewScope(parent *Scope) *Scope { return &Scope{Parent: parent, Vars: make(map[string]string)} }

func (s *Scope) Insert(name, ctype string) { s.Vars[name] = ctype }

func (s *Scope) Lookup(name string) string {
	if t, ok := s.Vars[name]; ok {
		return t
	}
	if s.Parent != nil {
		return s.Parent.Lookup(name)
	}
	return ""
}

// Generator converts a monomorphization Database into C source text.
type Generator struct {
	db       *mono.Database
	checker  *types.Checker
	out      strings.Builder
	scope    *Scope
	tmpCount int
}

// NewGenerator returns a generator bound to a monomorphized program.
func NewGenerator(db *mono.Database, checker *types.Checker) *Generator {
	return &Generator{db: db, checker: checker, scope: NewScope(nil)}
}

func (g *Generator) pushScope() { g.scope = NewScope(g.scope) }
func (g *Generator) popScope() {
	if g.scope.Parent != nil {
		g.scope = g.scope.Parent
	}
}

func (g *Generator) emit(format string, args ...interface{}) {
	fmt.Fprintf(&g.out, format, args...)
}

func (g *Generator) freshTemp(prefix string) string {
	g.tmpCount++
	return fmt.Sprintf("__%s%d", prefix, g.tmpCount)
}

// Generate emits a complete translation unit: headers, struct/enum type
// definitions, then every monomorphized function body.
func (g *Generator) Generate() string {
	g.out.Reset()
	g.emit("#include <stdio.h>\n#include <stdlib.h>\n#include <stdint.h>\n#include <stdbool.h>\n#include <string.h>\n\n")

	for _, si := range g.db.Structs {
		g.genStructType(si)
	}
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
		g.genFuncDecl(fi)
	}
	return g.out.String()
}

func (g *Generator) genStructType(si *mono.StructInstance) {
	subst := substitution(typeParamNames(si.Decl.TypeParams), si.TypeArgs)
	g.emit("typedef struct {\n")
	for _, f := range si.Decl.Fields {
		g.emit("    %s %s;\n", cTypeOf(f.Type, subst), f.Name)
	}
	g.emit("} %s;\n\n", si.MangledName)
}

// genEnumType emits a tagged-union enum as a fixed tag field plus a union
// of each variant's payload struct, per spec.md §4.7's enum-lowering rule.
func (g *Generator) genEnumType(ei *mono.EnumInstance) {
	subst := substitution(typeParamNames(ei.Decl.TypeParams), ei.TypeArgs)
	g.emit("typedef enum {\n")
	for _, v := range ei.Decl.Variants {
		g.emit("    %s_TAG_%s,\n", ei.MangledName, v.Name)
	}
	g.emit("} %s_Tag;\n\n", ei.MangledName)

	g.emit("typedef struct {\n    %s_Tag tag;\n    union {\n", ei.MangledName)
	for _, v := range ei.Decl.Variants {
		if len(v.Payloads) == 0 {
			continue
		}
		g.emit("        struct {\n")
		for i, p := range v.Payloads {
			g.emit("            %s _%d;\n", cTypeOf(p, subst), i)
		}
		g.emit("        } %s;\n", v.Name)
	}
	g.emit("    } as;\n} %s;\n\n", ei.MangledName)
}

func (g *Generator) genStructCtor(si *mono.StructInstance) {
	subst := substitution(typeParamNames(si.Decl.TypeParams), si.TypeArgs)
	var params []string
	for _, f := range si.Decl.Fields {
		params = append(params, cTypeOf(f.Type, subst)+" "+f.Name)
	}
	g.emit("%s %s_new(%s) {\n", si.MangledName, si.MangledName, strings.Join(params, ", "))
	g.emit("    %s __v;\n", si.MangledName)
	for _, f := range si.Decl.Fields {
		g.emit("    __v.%s = %s;\n", f.Name, f.Name)
	}
	g.emit("    return __v;\n}\n\n")
}

func (g *Generator) genEnumCtors(ei *mono.EnumInstance) {
	subst := substitution(typeParamNames(ei.Decl.TypeParams), ei.TypeArgs)
	for _, v := range ei.Decl.Variants {
		var params []string
		for i, p := range v.Payloads {
			params = append(params, fmt.Sprintf("%s _%d", cTypeOf(p, subst), i))
		}
		g.emit("%s %s_%s(%s) {\n", ei.MangledName, ei.MangledName, v.Name, strings.Join(params, ", "))
		g.emit("    %s __v;\n    __v.tag = %s_TAG_%s;\n", ei.MangledName, ei.MangledName, v.Name)
		for i := range v.Payloads {
			g.emit("    __v.as.%s._%d = _%d;\n", v.Name, i, i)
		}
		g.emit("    return __v;\n}\n\n")
	}
}

func (g *Generator) genFuncDecl(fi *mono.FuncInstance) {
	subst := substitution(g.genericParamNames(fi), fi.TypeArgs)
	retType := "void"
	if fi.Decl.ReturnType != nil {
		retType = cTypeOf(fi.Decl.ReturnType, subst)
	}

	g.pushScope()
	defer g.popScope()

	var params []string
	for _, p := range fi.Decl.Params {
		if p.IsSelf {
			recvType := "void*"
			if fi.Receiver != nil {
				recvType = cTypeOfResolved(fi.Receiver) + "*"
			}
			params = append(params, recvType+" self")
			g.scope.Insert("self", recvType)
			continue
		}
		ct := cTypeOf(p.Type, subst)
		params = append(params, ct+" "+p.Name)
		g.scope.Insert(p.Name, ct)
	}

	g.emit("%s %s(%s) {\n", retType, fi.MangledName, strings.Join(params, ", "))
	if fi.Decl.Body != nil {
		g.genBlockBody(fi.Decl.Body, retType != "void")
	}
	g.emit("}\n\n")
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

// genericParamNames returns the type-parameter names fi.TypeArgs binds
// against. For a free function these are the function's own declared
// type parameters. For a method, fi.TypeArgs instead holds the
// *receiver's* concrete type arguments (see internal/mono's queueMethod),
// so the names to substitute are the enclosing struct's or enum's type
// parameters, not the method's own (methods rarely declare their own).
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

func substitution(names []string, args []types.Type) map[string]types.Type {
	m := make(map[string]types.Type, len(names))
	for i, n := range names {
		if i < len(args) {
			m[n] = args[i]
		}
	}
	return m
}
