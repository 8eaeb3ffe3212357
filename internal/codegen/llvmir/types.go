package llvmir

import (
	"github.com/pawlang/pawc/internal/ast"
	"github.com/pawlang/pawc/internal/mono"
	"github.com/pawlang/pawc/internal/types"
)

// primitiveLLVMType maps a spec.md §3 primitive name to the LLVM IR type
// it renders as outside of an SSA-condition context, per §4.8: sized
// integers to iN (LLVM integers are sign-agnostic; sign shows up in the
// choice of instruction, not the type), f32/f64 to float/double, bool to
// i8 (aggregate/ABI width; i1 is reserved for condition values computed
// inline by comparisons), char to i8, string to i8*.
func primitiveLLVMType(name string) (string, bool) {
	switch name {
	case "i8", "u8":
		return "i8", true
	case "i16", "u16":
		return "i16", true
	case "i32", "u32":
		return "i32", true
	case "i64", "u64":
		return "i64", true
	case "i128", "u128":
		return "i128", true
	case "f32":
		return "float", true
	case "f64":
		return "double", true
	case "bool":
		return "i8", true
	case "char":
		return "i8", true
	case "string":
		return "i8*", true
	case "void":
		return "void", true
	}
	return "", false
}

// llvmTypeOf renders a syntactic type expression as an LLVM IR type,
// distinguishing i1 (a value used only as a condition) is left to call
// sites; bare bool fields use i8 so they have an addressable byte size.
// A bare struct name renders as a pointer (`%struct.Name*`, matching the
// `_new` constructor's return type); a bare enum name renders as the
// value type itself (`%enum.Name`, matching the variant constructors'
// return type) since this backend never takes an enum's address.
func (g *Generator) llvmTypeOf(te ast.TypeExpr, subst map[string]types.Type) string {
	switch t := te.(type) {
	case *ast.NamedTypeExpr:
		if conc, ok := subst[t.Name]; ok {
			return g.llvmTypeOfResolved(conc)
		}
		if lt, ok := primitiveLLVMType(t.Name); ok {
			return lt
		}
		mangled := mono.Mangle(t.Name, resolveArgs(t.Args, subst))
		if g.checker != nil {
			if _, ok := g.checker.Enums[t.Name]; ok {
				return "%enum." + mangled
			}
		}
		return "%struct." + mangled + "*"
	case *ast.PointerTypeExpr:
		return g.llvmTypeOf(t.Elem, subst) + "*"
	case *ast.ReferenceTypeExpr:
		return g.llvmTypeOf(t.Elem, subst) + "*"
	case *ast.ArrayTypeExpr:
		return g.llvmTypeOf(t.Elem, subst) + "*"
	case *ast.FunctionTypeExpr:
		return "i8*"
	default:
		return "void"
	}
}

func resolveArgs(exprs []ast.TypeExpr, subst map[string]types.Type) []types.Type {
	out := make([]types.Type, 0, len(exprs))
	for _, e := range exprs {
		if nt, ok := e.(*ast.NamedTypeExpr); ok {
			if conc, ok := subst[nt.Name]; ok {
				out = append(out, conc)
				continue
			}
		}
		out = append(out, nil)
	}
	return out
}

func (g *Generator) llvmTypeOfResolved(t types.Type) string {
	switch tt := t.(type) {
	case *types.Primitive:
		if lt, ok := primitiveLLVMType(tt.Name); ok {
			return lt
		}
		return "void"
	case *types.Named:
		mangled := mono.Mangle(tt.Name, tt.Args)
		if g.checker != nil {
			if _, ok := g.checker.Enums[tt.Name]; ok {
				return "%enum." + mangled
			}
		}
		return "%struct." + mangled + "*"
	case *types.Pointer:
		return g.llvmTypeOfResolved(tt.Elem) + "*"
	case *types.Array:
		return g.llvmTypeOfResolved(tt.Elem) + "*"
	default:
		return "void"
	}
}
