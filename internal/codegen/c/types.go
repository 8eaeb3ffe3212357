package c

import (
	"strconv"

	"github.com/pawlang/pawc/internal/ast"
	"github.com/pawlang/pawc/internal/mono"
	"github.com/pawlang/pawc/internal/types"
)

// primitiveCType maps a spec.md §3 primitive name to the C17 type it
// lowers to, per §4.7: signed/unsigned fixed-width ints to <stdint.h>
// typedefs (i128/u128 fall back to the compiler-extension __int128_t/
// __uint128_t; the emitted preamble does not guard their use), f32/f64 to float/double,
// bool to <stdbool.h>'s bool, string to char*.
func primitiveCType(name string) (string, bool) {
	switch name {
	case "i8":
		return "int8_t", true
	case "i16":
		return "int16_t", true
	case "i32":
		return "int32_t", true
	case "i64":
		return "int64_t", true
	case "i128":
		return "__int128_t", true
	case "u8":
		return "uint8_t", true
	case "u16":
		return "uint16_t", true
	case "u32":
		return "uint32_t", true
	case "u64":
		return "uint64_t", true
	case "u128":
		return "__uint128_t", true
	case "f32":
		return "float", true
	case "f64":
		return "double", true
	case "bool":
		return "bool", true
	case "char":
		return "char", true
	case "string":
		return "char*", true
	case "void":
		return "void", true
	}
	return "", false
}

// cTypeOf renders a syntactic type expression as a C type string,
// substituting any generic parameter named in subst with its concrete
// argument.
func cTypeOf(te ast.TypeExpr, subst map[string]types.Type) string {
	switch t := te.(type) {
	case *ast.NamedTypeExpr:
		if conc, ok := subst[t.Name]; ok {
			return cTypeOfResolved(conc)
		}
		if ct, ok := primitiveCType(t.Name); ok {
			return ct
		}
		return mono.Mangle(t.Name, resolveArgs(t.Args, subst))
	case *ast.PointerTypeExpr:
		return cTypeOf(t.Elem, subst) + "*"
	case *ast.ReferenceTypeExpr:
		return cTypeOf(t.Elem, subst) + "*"
	case *ast.ArrayTypeExpr:
		return cTypeOf(t.Elem, subst) + "*"
	case *ast.FunctionTypeExpr:
		return "void*"
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

func cTypeOfResolved(t types.Type) string {
	switch tt := t.(type) {
	case *types.Primitive:
		if ct, ok := primitiveCType(tt.Name); ok {
			return ct
		}
		return "void"
	case *types.Named:
		return mono.Mangle(tt.Name, tt.Args)
	case *types.Pointer:
		return cTypeOfResolved(tt.Elem) + "*"
	case *types.Array:
		return cTypeOfResolved(tt.Elem) + "*"
	default:
		return "void"
	}
}

func quoteC(s string) string {
	return strconv.Quote(s)
}
