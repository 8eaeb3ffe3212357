// Package types implements PawLang's type representation and the type
// checker that walks a linked, AST-shaped program to assign and validate
// types before monomorphization and code generation.
package types

import "strings"

// Type is the checker's internal representation of a PawLang type. Every
// variant implements String() for diagnostics and mangling; the structural
// comparisons the checker performs constantly go through the package-level
// Equal function.
type Type interface {
	String() string
	isType()
}

// Primitive is one of the built-in scalar types.
type Primitive struct{ Name string }

func (p *Primitive) String() string { return p.Name }
func (p *Primitive) isType()        {}

// The full primitive set spec.md §3 defines: sized integers, sized
// floats, plus bool/char/string/void. I32 and F64 are the default types
// an un-annotated integer/float literal infers to (spec.md §4.2, §4.5);
// they carry no special status beyond being LookupPrimitive("i32")/("f64").
var (
	I8     = &Primitive{"i8"}
	I16    = &Primitive{"i16"}
	I32    = &Primitive{"i32"}
	I64    = &Primitive{"i64"}
	I128   = &Primitive{"i128"}
	U8     = &Primitive{"u8"}
	U16    = &Primitive{"u16"}
	U32    = &Primitive{"u32"}
	U64    = &Primitive{"u64"}
	U128   = &Primitive{"u128"}
	F32    = &Primitive{"f32"}
	F64    = &Primitive{"f64"}
	Bool   = &Primitive{"bool"}
	Char   = &Primitive{"char"}
	String = &Primitive{"string"}
	Void   = &Primitive{"void"}
)

var primitivesByName = map[string]*Primitive{
	"i8": I8, "i16": I16, "i32": I32, "i64": I64, "i128": I128,
	"u8": U8, "u16": U16, "u32": U32, "u64": U64, "u128": U128,
	"f32": F32, "f64": F64, "bool": Bool, "char": Char, "string": String, "void": Void,
}

// IsSignedInt reports whether name is one of the signed integer primitives.
func IsSignedInt(name string) bool {
	switch name {
	case "i8", "i16", "i32", "i64", "i128":
		return true
	}
	return false
}

// IsUnsignedInt reports whether name is one of the unsigned integer primitives.
func IsUnsignedInt(name string) bool {
	switch name {
	case "u8", "u16", "u32", "u64", "u128":
		return true
	}
	return false
}

// IsFloat reports whether name is one of the floating-point primitives.
func IsFloat(name string) bool {
	return name == "f32" || name == "f64"
}

// LookupPrimitive returns the primitive type named name, or nil.
func LookupPrimitive(name string) *Primitive { return primitivesByName[name] }

// GenericParam is an unresolved type parameter, e.g. `T` inside a generic
// function or type body before monomorphization substitutes it.
type GenericParam struct{ Name string }

func (g *GenericParam) String() string { return g.Name }
func (g *GenericParam) isType()        {}

// Named is a reference to a user-declared struct or enum, with any
// generic arguments already resolved to concrete types (or still
// GenericParam placeholders, inside a not-yet-monomorphized generic body).
type Named struct {
	Name string
	Args []Type
}

func (n *Named) String() string {
	if len(n.Args) == 0 {
		return n.Name
	}
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return n.Name + "<" + strings.Join(parts, ", ") + ">"
}
func (n *Named) isType() {}

// Pointer is `*T`.
type Pointer struct{ Elem Type }

func (p *Pointer) String() string { return "*" + p.Elem.String() }
func (p *Pointer) isType()        {}

// Array is `[T; N]` (Size >= 0) or `[T]` (Size == -1, unsized).
type Array struct {
	Elem Type
	Size int
}

func (a *Array) String() string {
	if a.Size < 0 {
		return "[" + a.Elem.String() + "]"
	}
	return "[" + a.Elem.String() + "; " + itoa(a.Size) + "]"
}
func (a *Array) isType() {}

// Function is a first-class function type, `fn(T1, T2) -> R`.
type Function struct {
	Params []Type
	Return Type
}

func (f *Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	ret := "void"
	if f.Return != nil {
		ret = f.Return.String()
	}
	return "fn(" + strings.Join(parts, ", ") + ") -> " + ret
}
func (f *Function) isType() {}

// Equal reports whether two resolved types are structurally identical.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch at := a.(type) {
	case *Primitive:
		bt, ok := b.(*Primitive)
		return ok && at.Name == bt.Name
	case *GenericParam:
		bt, ok := b.(*GenericParam)
		return ok && at.Name == bt.Name
	case *Named:
		bt, ok := b.(*Named)
		if !ok || at.Name != bt.Name || len(at.Args) != len(bt.Args) {
			return false
		}
		for i := range at.Args {
			if !Equal(at.Args[i], bt.Args[i]) {
				return false
			}
		}
		return true
	case *Pointer:
		bt, ok := b.(*Pointer)
		return ok && Equal(at.Elem, bt.Elem)
	case *Array:
		bt, ok := b.(*Array)
		return ok && at.Size == bt.Size && Equal(at.Elem, bt.Elem)
	case *Function:
		bt, ok := b.(*Function)
		if !ok || len(at.Params) != len(bt.Params) || !Equal(at.Return, bt.Return) {
			return false
		}
		for i := range at.Params {
			if !Equal(at.Params[i], bt.Params[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
