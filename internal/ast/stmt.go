package ast

import "github.com/pawlang/pawc/internal/lexer"

// LetStmt is `let [mut] name[: Type] = value;`.
type LetStmt struct {
	base
	Name    string
	Mutable bool
	Type    TypeExpr // nil when the type is inferred from Value
	Value   Expr
}

func NewLetStmt(name string, mutable bool, typ TypeExpr, value Expr, span lexer.Span) *LetStmt {
	return &LetStmt{base: base{span}, Name: name, Mutable: mutable, Type: typ, Value: value}
}
func (s *LetStmt) stmtNode() {}

// AssignStmt is `target = value;`.
type AssignStmt struct {
	base
	Target Expr
	Value  Expr
}

func NewAssignStmt(target, value Expr, span lexer.Span) *AssignStmt {
	return &AssignStmt{base: base{span}, Target: target, Value: value}
}
func (s *AssignStmt) stmtNode() {}

// CompoundAssignStmt is `target += value;` and friends.
type CompoundAssignStmt struct {
	base
	Op     lexer.TokenType // the arithmetic op, e.g. PLUS for `+=`
	Target Expr
	Value  Expr
}

func NewCompoundAssignStmt(op lexer.TokenType, target, value Expr, span lexer.Span) *CompoundAssignStmt {
	return &CompoundAssignStmt{base: base{span}, Op: op, Target: target, Value: value}
}
func (s *CompoundAssignStmt) stmtNode() {}

// ReturnStmt is `return [value];`.
type ReturnStmt struct {
	base
	Value Expr // nil for a bare `return;`
}

func NewReturnStmt(value Expr, span lexer.Span) *ReturnStmt {
	return &ReturnStmt{base: base{span}, Value: value}
}
func (s *ReturnStmt) stmtNode() {}

// ExprStmt wraps an expression used for its side effects, `expr;`.
type ExprStmt struct {
	base
	X Expr
}

func NewExprStmt(x Expr, span lexer.Span) *ExprStmt { return &ExprStmt{base{span}, x} }
func (s *ExprStmt) stmtNode()                       {}

// LoopStmt unifies the three surface loop forms spec.md §3 describes:
// bare `loop { }`, conditional `loop cond { }`, and iterator
// `loop name in iterable { }`. Exactly one of Cond or (Binder, Iterable)
// is set; both empty means a bare infinite loop.
type LoopStmt struct {
	base
	Cond     Expr // set for `loop cond { ... }`
	Binder   string // set for `loop name in iterable { ... }`
	Iterable Expr
	Body     *BlockExpr
}

func NewLoopStmt(cond Expr, binder string, iterable Expr, body *BlockExpr, span lexer.Span) *LoopStmt {
	return &LoopStmt{base: base{span}, Cond: cond, Binder: binder, Iterable: iterable, Body: body}
}
func (s *LoopStmt) stmtNode() {}

// BreakStmt is `break [value];`.
type BreakStmt struct {
	base
	Value Expr
}

func NewBreakStmt(value Expr, span lexer.Span) *BreakStmt {
	return &BreakStmt{base: base{span}, Value: value}
}
func (s *BreakStmt) stmtNode() {}

// ContinueStmt is `continue;`.
type ContinueStmt struct{ base }

func NewContinueStmt(span lexer.Span) *ContinueStmt { return &ContinueStmt{base{span}} }
func (s *ContinueStmt) stmtNode()                   {}
