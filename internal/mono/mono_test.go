package mono_test

import (
	"testing"

	"github.com/pawlang/pawc/internal/mono"
	"github.com/pawlang/pawc/internal/parser"
	"github.com/pawlang/pawc/internal/types"
)

func collect(t *testing.T, src string) *mono.Database {
	t.Helper()
	p := parser.New(src)
	file := p.ParseFile()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	c := types.NewChecker()
	c.CheckFile(file)
	if len(c.Diagnostics()) != 0 {
		t.Fatalf("unexpected checker diagnostics: %v", c.Diagnostics())
	}
	col := mono.NewCollector(c)
	return col.Collect(file)
}

func TestCollectFunctionInstanceDedup(t *testing.T) {
	db := collect(t, `
fn add<T>(a: T, b: T) -> T { a + b }
fn main() -> i32 {
    add(1, 2);
    add(3, 4);
    add(5, 6)
}
`)
	if _, ok := db.Funcs["add_i32"]; !ok {
		t.Fatalf("expected add_i32 in collected functions, got %v", db.Funcs)
	}
	if len(db.Funcs) != 2 { // add_i32 plus main
		t.Fatalf("expected exactly one add instance regardless of call-site count, got %d: %v", len(db.Funcs), db.Funcs)
	}
}

func TestCollectStructAndMethodInstance(t *testing.T) {
	db := collect(t, `
type Box<T> = struct {
    value: T
    fn get(self) -> T { self.value }
}
fn main() -> i32 {
    let b = Box { value: 7 };
    b.get() * 6
}
`)
	if _, ok := db.Structs["Box_i32"]; !ok {
		t.Fatalf("expected Box_i32 struct instance, got %v", db.Structs)
	}
	if _, ok := db.Funcs["Box_i32_get"]; !ok {
		t.Fatalf("expected Box_i32_get method instance, got %v", db.Funcs)
	}
}

func TestCollectEnumInstance(t *testing.T) {
	db := collect(t, `
type Result = enum { Ok(i32), Err(i32) }
fn test() -> Result { Ok(100) }
fn main() -> i32 {
    test() is { Ok(v) -> v, Err(_) -> -1 }
}
`)
	if _, ok := db.Enums["Result"]; !ok {
		t.Fatalf("expected Result enum instance, got %v", db.Enums)
	}
}

func TestMangleNesting(t *testing.T) {
	name := mono.Mangle("Vec", []types.Type{
		&types.Named{Name: "Pair", Args: []types.Type{
			types.LookupPrimitive("i32"), types.LookupPrimitive("f64"),
		}},
	})
	if name != "Vec_Pair_i32_f64" {
		t.Fatalf("expected Vec_Pair_i32_f64, got %q", name)
	}
}

func TestMangleMethod(t *testing.T) {
	if got := mono.MangleMethod("Box_i32", "get"); got != "Box_i32_get" {
		t.Fatalf("expected Box_i32_get, got %q", got)
	}
}
