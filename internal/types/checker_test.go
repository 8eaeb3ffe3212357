package types_test

import (
	"testing"

	"github.com/pawlang/pawc/internal/diag"
	"github.com/pawlang/pawc/internal/parser"
	"github.com/pawlang/pawc/internal/types"
)

func check(t *testing.T, src string) *types.Checker {
	t.Helper()
	p := parser.New(src)
	file := p.ParseFile()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	c := types.NewChecker()
	c.CheckFile(file)
	return c
}

func TestCheckerInfersLetFromLiteral(t *testing.T) {
	c := check(t, `fn main() -> i32 { let x = 1; x }`)
	if len(c.Diagnostics()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.Diagnostics())
	}
}

func TestCheckerArityMismatch(t *testing.T) {
	c := check(t, `
fn add(a: i32, b: i32) -> i32 { a + b }
fn main() -> i32 { add(1) }
`)
	var found bool
	for _, d := range c.Diagnostics() {
		if d.Code == diag.CodeCheckerArityMismatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an arity mismatch diagnostic, got %v", c.Diagnostics())
	}
}

func TestCheckerImmutableAssignment(t *testing.T) {
	c := check(t, `
fn main() -> i32 {
    let x = 1;
    x = 2;
    x
}
`)
	var found bool
	for _, d := range c.Diagnostics() {
		if d.Code == diag.CodeCheckerImmutableAssignment {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an immutable-assignment diagnostic, got %v", c.Diagnostics())
	}
}

func TestCheckerMutableAssignmentAccepted(t *testing.T) {
	c := check(t, `
fn main() -> i32 {
    let mut x = 1;
    x = 2;
    x
}
`)
	if len(c.Diagnostics()) != 0 {
		t.Fatalf("unexpected diagnostics for a mut binding reassignment: %v", c.Diagnostics())
	}
}

func TestCheckerUnknownIdentifier(t *testing.T) {
	c := check(t, `fn main() -> i32 { y }`)
	var found bool
	for _, d := range c.Diagnostics() {
		if d.Code == diag.CodeCheckerUnknownIdentifier {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an unknown-identifier diagnostic, got %v", c.Diagnostics())
	}
}

func TestCheckerGenericCallUnifiesTypeArgs(t *testing.T) {
	c := check(t, `
fn add<T>(a: T, b: T) -> T { a + b }
fn main() -> i32 { add(17, 25) }
`)
	if len(c.Diagnostics()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.Diagnostics())
	}
	var sawArgs bool
	for _, args := range c.CallTypeArgs {
		if len(args) == 1 && args[0].String() == "i32" {
			sawArgs = true
		}
	}
	if !sawArgs {
		t.Fatalf("expected add<T>(17, 25) to unify T to i32")
	}
}

func TestCheckerTraitRejected(t *testing.T) {
	c := check(t, `
type Shape = trait {
    fn area(self) -> f64
}
fn main() -> i32 { 0 }
`)
	if len(c.Diagnostics()) == 0 {
		t.Fatalf("expected trait declarations to be rejected at check time")
	}
}

func TestCheckerAsyncRejected(t *testing.T) {
	c := check(t, `async fn fetch() -> i32 { 0 }`)
	if len(c.Diagnostics()) == 0 {
		t.Fatalf("expected async fn to be rejected at check time")
	}
}
