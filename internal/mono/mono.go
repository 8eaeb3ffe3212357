// Package mono collects every concrete instantiation of a generic function
// or type that a program actually uses, via a fixed-point worklist over the
// typed AST, and names each instantiation with the compiler's mangling
// scheme. Both backends in internal/codegen consume this database instead
// of emitting code per declaration, so a generic body that is never
// instantiated never reaches code generation.
package mono

import (
	"strings"

	"github.com/pawlang/pawc/internal/ast"
	"github.com/pawlang/pawc/internal/types"
)

// FuncInstance is one concrete instantiation of a generic (or non-generic)
// function, keyed by its mangled name.
type FuncInstance struct {
	MangledName string
	Decl        *ast.FnDecl
	TypeArgs    []types.Type
	Receiver    types.Type // non-nil for a monomorphized method
}

// StructInstance is one concrete instantiation of a generic struct.
type StructInstance struct {
	MangledName string
	Decl        *ast.StructDecl
	TypeArgs    []types.Type
}

// EnumInstance is one concrete instantiation of a generic enum.
type EnumInstance struct {
	MangledName string
	Decl        *ast.EnumDecl
	TypeArgs    []types.Type
}

// Database is the monomorphization collector's output: every instantiation
// the program reaches, ready for code generation.
type Database struct {
	Funcs   map[string]*FuncInstance
	Structs map[string]*StructInstance
	Enums   map[string]*EnumInstance
}

func newDatabase() *Database {
	return &Database{
		Funcs:   make(map[string]*FuncInstance),
		Structs: make(map[string]*StructInstance),
		Enums:   make(map[string]*EnumInstance),
	}
}

// Collector runs the fixed-point worklist over a checked program.
type Collector struct {
	checker *types.Checker
	db      *Database
	// worklist holds mangled keys already queued, so re-discovering the
	// same instantiation from a different call site is a no-op.
	seen map[string]bool
}

// NewCollector returns a collector bound to a checked program's symbol
// tables (functions, structs, enums) used to resolve generic bodies.
func NewCollector(checker *types.Checker) *Collector {
	return &Collector{checker: checker, db: newDatabase(), seen: make(map[string]bool)}
}

// Collect walks file's declarations, queues every call/construct site with
// concrete (non-generic-parameter) type arguments, and iterates until a
// full pass adds nothing new — the fixed point spec.md §4.6 requires,
// since a freshly specialized body can itself call other generics.
func (col *Collector) Collect(file *ast.File) *Database {
	for _, d := range file.Decls {
		switch n := d.(type) {
		case *ast.FnDecl:
			if len(n.TypeParams) == 0 {
				col.queueFunc(n, nil, nil)
			}
		case *ast.StructDecl:
			if len(n.TypeParams) == 0 {
				col.queueStructWithMethods(n, nil)
			}
		case *ast.EnumDecl:
			if len(n.TypeParams) == 0 {
				col.queueEnumWithMethods(n, nil)
			}
		}
	}

	for {
		changed := false
		funcs := make([]*FuncInstance, 0, len(col.db.Funcs))
		for _, fi := range col.db.Funcs {
			funcs = append(funcs, fi)
		}
		for _, fi := range funcs {
			if fi.Decl.Body == nil {
				continue
			}
			if col.scanForCalls(fi.Decl.Body) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return col.db
}

// scanForCalls walks node looking for call/construction sites that name a
// generic declaration, queuing any instantiation not already in the
// database. Returns whether it queued anything new.
//
// A generic struct literal contributes not just the struct instance but
// one method instance per method declared on that struct (spec.md §4.6:
// "any of them might be invoked later on a value of this concrete type"),
// regardless of whether this particular call site invokes any of them.
func (col *Collector) scanForCalls(node ast.Node) bool {
	changed := false
	ast.Walk(node, func(n ast.Node) bool {
		switch e := n.(type) {
		case *ast.GenericRefExpr:
			if fn := col.lookupGenericFunc(e.Name); fn != nil {
				targs := col.resolveTypeArgs(e.TypeArgs)
				if col.queueFunc(fn, targs, nil) {
					changed = true
				}
			}
		case *ast.CallExpr:
			if ident, ok := e.Callee.(*ast.Ident); ok {
				if fn := col.lookupGenericFunc(ident.Name); fn != nil {
					if targs, ok := col.checker.CallTypeArgs[e]; ok {
						if col.queueFunc(fn, targs, nil) {
							changed = true
						}
					}
				}
			}
		case *ast.StructLiteral:
			name := structLiteralName(e)
			if sd := col.lookupGenericStruct(name); sd != nil {
				targs := col.structLiteralTypeArgs(e, sd)
				if col.queueStructWithMethods(sd, targs) {
					changed = true
				}
			}
		case *ast.StaticCallExpr:
			if nt, ok := e.Type.(*ast.NamedTypeExpr); ok {
				targs := col.resolveTypeArgs(nt.Args)
				if sd := col.lookupGenericStruct(nt.Name); sd != nil {
					if col.queueMethodOf(sd, e.Method, targs) {
						changed = true
					}
				} else if ed := col.lookupGenericEnum(nt.Name); ed != nil {
					if col.queueEnumMethod(ed, e.Method, targs) {
						changed = true
					}
				}
			}
		case *ast.MethodCallExpr:
			if named, ok := col.checker.ExprTypes[e.Target].(*types.Named); ok {
				if sd := col.lookupGenericStruct(named.Name); sd != nil {
					if col.queueMethodOf(sd, e.Method, named.Args) {
						changed = true
					}
				}
			}
		}
		return true
	})
	return changed
}

// structLiteralName returns the struct name a literal constructs, whether
// or not it carries explicit `Name<T>{...}` type arguments.
func structLiteralName(e *ast.StructLiteral) string {
	if nt, ok := e.Type.(*ast.NamedTypeExpr); ok {
		return nt.Name
	}
	return ""
}

// structLiteralTypeArgs prefers the literal's explicit type arguments;
// failing that, it falls back to the checker's inferred type for the
// literal expression (populated by types.Checker.inferExpr for the common
// `Name { field: value }` form with no explicit arguments).
func (col *Collector) structLiteralTypeArgs(e *ast.StructLiteral, sd *ast.StructDecl) []types.Type {
	if nt, ok := e.Type.(*ast.NamedTypeExpr); ok && len(nt.Args) > 0 {
		return col.resolveTypeArgs(nt.Args)
	}
	if named, ok := col.checker.ExprTypes[e].(*types.Named); ok {
		return named.Args
	}
	return nil
}

func (col *Collector) lookupGenericFunc(name string) *ast.FnDecl {
	if fi, ok := col.checker.Funcs[name]; ok && len(fi.TypeParams) > 0 {
		return fi.Decl
	}
	return nil
}

func (col *Collector) lookupGenericStruct(name string) *ast.StructDecl {
	if si, ok := col.checker.Structs[name]; ok && len(si.TypeParams) > 0 {
		return si.Decl
	}
	return nil
}

func (col *Collector) lookupGenericEnum(name string) *ast.EnumDecl {
	if ei, ok := col.checker.Enums[name]; ok && len(ei.TypeParams) > 0 {
		return ei.Decl
	}
	return nil
}

func (col *Collector) resolveTypeArgs(exprs []ast.TypeExpr) []types.Type {
	out := make([]types.Type, 0, len(exprs))
	for _, te := range exprs {
		out = append(out, col.checker.ResolveTypeExprPublic(te))
	}
	return out
}

// queueFunc queues a free (non-method) function instance.
func (col *Collector) queueFunc(decl *ast.FnDecl, typeArgs []types.Type, receiver types.Type) bool {
	name := Mangle(decl.Name, typeArgs)
	if col.seen[name] {
		return false
	}
	col.seen[name] = true
	col.db.Funcs[name] = &FuncInstance{MangledName: name, Decl: decl, TypeArgs: typeArgs, Receiver: receiver}
	return true
}

// queueMethod queues one method instance, mangled `ReceiverMangled_method`
// per spec.md §4.6's method-instance mangling rule — applied uniformly
// whether or not the receiver is itself generic, so methods on distinct
// structs never collide on a bare method name in the emitted C/LLVM text.
func (col *Collector) queueMethod(methodDecl *ast.FnDecl, receiverName string, receiverTypeArgs []types.Type) bool {
	receiverMangled := Mangle(receiverName, receiverTypeArgs)
	name := MangleMethod(receiverMangled, methodDecl.Name)
	if col.seen[name] {
		return false
	}
	col.seen[name] = true
	col.db.Funcs[name] = &FuncInstance{
		MangledName: name,
		Decl:        methodDecl,
		TypeArgs:    receiverTypeArgs,
		Receiver:    &types.Named{Name: receiverName, Args: receiverTypeArgs},
	}
	return true
}

// queueMethodOf looks up methodName among sd's declared methods and queues
// its instance for the given receiver type arguments.
func (col *Collector) queueMethodOf(sd *ast.StructDecl, methodName string, typeArgs []types.Type) bool {
	for _, m := range sd.Methods {
		if m.Name == methodName {
			return col.queueMethod(m, sd.Name, typeArgs)
		}
	}
	return false
}

// queueEnumMethod looks up methodName among ed's declared methods and
// queues its instance for the given receiver type arguments.
func (col *Collector) queueEnumMethod(ed *ast.EnumDecl, methodName string, typeArgs []types.Type) bool {
	for _, m := range ed.Methods {
		if m.Name == methodName {
			return col.queueMethod(m, ed.Name, typeArgs)
		}
	}
	return false
}

func (col *Collector) queueStruct(decl *ast.StructDecl, typeArgs []types.Type) bool {
	name := Mangle(decl.Name, typeArgs)
	if col.seen[name] {
		return false
	}
	col.seen[name] = true
	col.db.Structs[name] = &StructInstance{MangledName: name, Decl: decl, TypeArgs: typeArgs}
	return true
}

// queueStructWithMethods queues decl's struct instance plus one method
// instance per method it declares, per spec.md §4.6: any method might be
// invoked later on a value of this concrete type, so every method is
// monomorphized alongside the struct itself rather than lazily on first
// call. Returns whether anything new was added.
func (col *Collector) queueStructWithMethods(decl *ast.StructDecl, typeArgs []types.Type) bool {
	changed := col.queueStruct(decl, typeArgs)
	for _, m := range decl.Methods {
		if col.queueMethod(m, decl.Name, typeArgs) {
			changed = true
		}
	}
	return changed
}

func (col *Collector) queueEnum(decl *ast.EnumDecl, typeArgs []types.Type) bool {
	name := Mangle(decl.Name, typeArgs)
	if col.seen[name] {
		return false
	}
	col.seen[name] = true
	col.db.Enums[name] = &EnumInstance{MangledName: name, Decl: decl, TypeArgs: typeArgs}
	return true
}

// queueEnumWithMethods is queueStructWithMethods's enum counterpart.
func (col *Collector) queueEnumWithMethods(decl *ast.EnumDecl, typeArgs []types.Type) bool {
	changed := col.queueEnum(decl, typeArgs)
	for _, m := range decl.Methods {
		if col.queueMethod(m, decl.Name, typeArgs) {
			changed = true
		}
	}
	return changed
}

// Mangle produces the compiler's deterministic monomorphized name:
// `Name` for a non-generic declaration, `Name_T1_T2` for a generic one
// instantiated with concrete types T1, T2 — no angle brackets, so the
// result is always a valid C/LLVM identifier.
func Mangle(name string, typeArgs []types.Type) string {
	if len(typeArgs) == 0 {
		return name
	}
	parts := make([]string, 0, len(typeArgs)+1)
	parts = append(parts, name)
	for _, t := range typeArgs {
		parts = append(parts, mangleType(t))
	}
	return strings.Join(parts, "_")
}

// MangleMethod produces `StructName_T1_T2_method`.
func MangleMethod(typeMangled, method string) string {
	return typeMangled + "_" + method
}

func mangleType(t types.Type) string {
	switch tt := t.(type) {
	case *types.Primitive:
		return tt.Name
	case *types.Named:
		return Mangle(tt.Name, tt.Args)
	case *types.Pointer:
		return "ptr_" + mangleType(tt.Elem)
	case *types.Array:
		return "arr_" + mangleType(tt.Elem)
	case *types.GenericParam:
		return tt.Name
	default:
		return "t"
	}
}
