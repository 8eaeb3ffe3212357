package parser

import (
	"testing"

	"github.com/pawlang/pawc/internal/ast"
)

func parseOK(t *testing.T, src string) *ast.File {
	t.Helper()
	p := New(src)
	file := p.ParseFile()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors())
	}
	return file
}

func TestParseFnDeclWithGenerics(t *testing.T) {
	file := parseOK(t, `fn add<T>(a: T, b: T) -> T { a + b }`)
	if len(file.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(file.Decls))
	}
	fn, ok := file.Decls[0].(*ast.FnDecl)
	if !ok {
		t.Fatalf("expected *ast.FnDecl, got %T", file.Decls[0])
	}
	if fn.Name != "add" {
		t.Fatalf("expected name add, got %q", fn.Name)
	}
	if len(fn.TypeParams) != 1 || fn.TypeParams[0].Name != "T" {
		t.Fatalf("expected single type param T, got %v", fn.TypeParams)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
}

func TestParseSingleExprFnForm(t *testing.T) {
	file := parseOK(t, `fn square(x: i32) -> i32 = x * x`)
	fn := file.Decls[0].(*ast.FnDecl)
	if fn.Body == nil {
		t.Fatalf("expected a synthesized body for single-expr fn form")
	}
}

func TestGenericVsComparisonDisambiguation(t *testing.T) {
	// Box is a known type (declared above), so Box<i32> parses as a
	// generic-argument list, not `Box < i32 > (...)` comparisons.
	file := parseOK(t, `
type Box<T> = struct { value: T }
fn main() -> i32 {
    let x = Box<i32>::new(1);
    0
}
`)
	if len(file.Decls) != 2 {
		t.Fatalf("expected 2 decls, got %d", len(file.Decls))
	}
}

func TestComparisonNotMisparsedAsGeneric(t *testing.T) {
	// `a` is not a known type, so `a < b` must parse as a comparison binary
	// expression, never as a generic-argument list.
	file := parseOK(t, `fn main() -> bool { let a = 1; let b = 2; a < b }`)
	fn := file.Decls[0].(*ast.FnDecl)
	block := fn.Body
	tail := block.Tail
	bin, ok := tail.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr tail, got %T", tail)
	}
	if bin.Op != "<" {
		t.Fatalf("expected < operator, got %q", bin.Op)
	}
}

func TestParseStructDecl(t *testing.T) {
	file := parseOK(t, `
type Box<T> = struct {
    value: T
    fn get(self) -> T { self.value }
}
`)
	sd, ok := file.Decls[0].(*ast.StructDecl)
	if !ok {
		t.Fatalf("expected *ast.StructDecl, got %T", file.Decls[0])
	}
	if len(sd.Fields) != 1 || sd.Fields[0].Name != "value" {
		t.Fatalf("expected one field 'value', got %v", sd.Fields)
	}
	if len(sd.Methods) != 1 || sd.Methods[0].Name != "get" {
		t.Fatalf("expected one method 'get', got %v", sd.Methods)
	}
}

func TestParseEnumDecl(t *testing.T) {
	file := parseOK(t, `type Result = enum { Ok(i32), Err(i32) }`)
	ed, ok := file.Decls[0].(*ast.EnumDecl)
	if !ok {
		t.Fatalf("expected *ast.EnumDecl, got %T", file.Decls[0])
	}
	if len(ed.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(ed.Variants))
	}
	if ed.Variants[0].Name != "Ok" || len(ed.Variants[0].Payloads) != 1 {
		t.Fatalf("unexpected first variant shape: %+v", ed.Variants[0])
	}
}

func TestParseIsExpr(t *testing.T) {
	file := parseOK(t, `
type Result = enum { Ok(i32), Err(i32) }
fn main() -> i32 {
    Ok(1) is {
        Ok(v) -> v,
        Err(_) -> -1
    }
}
`)
	fn := file.Decls[1].(*ast.FnDecl)
	isExpr, ok := fn.Body.Tail.(*ast.IsExpr)
	if !ok {
		t.Fatalf("expected IsExpr tail, got %T", fn.Body.Tail)
	}
	if len(isExpr.Arms) != 2 {
		t.Fatalf("expected 2 match arms, got %d", len(isExpr.Arms))
	}
}

func TestParseLoopForms(t *testing.T) {
	file := parseOK(t, `
fn main() -> i32 {
    let mut sum = 0;
    loop i in 1..=8 { sum = sum + i }
    loop sum < 42 { sum = sum + 6 }
    sum
}
`)
	fn := file.Decls[0].(*ast.FnDecl)
	var loops []*ast.LoopStmt
	for _, stmt := range fn.Body.Stmts {
		if l, ok := stmt.(*ast.LoopStmt); ok {
			loops = append(loops, l)
		}
	}
	if len(loops) != 2 {
		t.Fatalf("expected 2 loop statements, got %d", len(loops))
	}
	if loops[0].Iterable == nil || loops[0].Cond != nil {
		t.Fatalf("expected first loop to be an iterator form, got %+v", loops[0])
	}
	if loops[1].Cond == nil || loops[1].Iterable != nil {
		t.Fatalf("expected second loop to be a condition form, got %+v", loops[1])
	}
}

func TestParseTryExpr(t *testing.T) {
	file := parseOK(t, `
fn run() -> Result {
    let x = divide(84, 2)?;
    Ok(x)
}
`)
	fn := file.Decls[0].(*ast.FnDecl)
	letStmt := fn.Body.Stmts[0].(*ast.LetStmt)
	if _, ok := letStmt.Value.(*ast.TryExpr); !ok {
		t.Fatalf("expected TryExpr init, got %T", letStmt.Value)
	}
}

func TestParseStringInterpolation(t *testing.T) {
	file := parseOK(t, `fn main() -> string { "hello ${name}!" }`)
	fn := file.Decls[0].(*ast.FnDecl)
	if _, ok := fn.Body.Tail.(*ast.StringInterpExpr); !ok {
		t.Fatalf("expected StringInterpExpr tail, got %T", fn.Body.Tail)
	}
}

func TestUnexpectedTokenReportsError(t *testing.T) {
	p := New(`fn main() -> i32 { let = }`)
	p.ParseFile()
	if len(p.Errors()) == 0 {
		t.Fatalf("expected parse errors for malformed let statement")
	}
}

func TestParseImportDecls(t *testing.T) {
	file := parseOK(t, `
import std.io.println;
import std.collections.{Vec, Map};
fn main() -> i32 { 0 }
`)
	if len(file.Imports) != 2 {
		t.Fatalf("expected 2 import decls, got %d", len(file.Imports))
	}
	if len(file.Imports[1].Items) != 2 {
		t.Fatalf("expected braced import to expand to 2 items, got %v", file.Imports[1].Items)
	}
}
