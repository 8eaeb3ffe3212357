package ast

import "github.com/pawlang/pawc/internal/lexer"

// IntLit is an integer literal. Raw preserves the original text (with any
// underscores already stripped by the lexer) for diagnostics.
type IntLit struct {
	base
	Value int64
	Raw   string
}

func NewIntLit(value int64, raw string, span lexer.Span) *IntLit {
	return &IntLit{base: base{span}, Value: value, Raw: raw}
}
func (e *IntLit) exprNode() {}

// FloatLit is a floating point literal.
type FloatLit struct {
	base
	Value float64
	Raw   string
}

func NewFloatLit(value float64, raw string, span lexer.Span) *FloatLit {
	return &FloatLit{base: base{span}, Value: value, Raw: raw}
}
func (e *FloatLit) exprNode() {}

// BoolLit is `true` or `false`.
type BoolLit struct {
	base
	Value bool
}

func NewBoolLit(value bool, span lexer.Span) *BoolLit { return &BoolLit{base{span}, value} }
func (e *BoolLit) exprNode()                          {}

// CharLit is a single-quoted character literal.
type CharLit struct {
	base
	Value rune
}

func NewCharLit(value rune, span lexer.Span) *CharLit { return &CharLit{base{span}, value} }
func (e *CharLit) exprNode()                          {}

// StringLit is a plain string literal with no interpolation.
type StringLit struct {
	base
	Value string
}

func NewStringLit(value string, span lexer.Span) *StringLit { return &StringLit{base{span}, value} }
func (e *StringLit) exprNode()                               {}

// StringInterpExpr is a `"text ${expr} more"` interpolated string, split
// into alternating literal and expression segments. Len(Literals) is
// always len(Exprs)+1. The checker/codegen keep this split representation
// rather than re-parsing `${...}` later (spec.md §4.2/§9).
type StringInterpExpr struct {
	base
	Literals []string
	Exprs    []Expr
}

func NewStringInterpExpr(literals []string, exprs []Expr, span lexer.Span) *StringInterpExpr {
	return &StringInterpExpr{base: base{span}, Literals: literals, Exprs: exprs}
}
func (e *StringInterpExpr) exprNode() {}

// GenericRefExpr is an explicit generic instantiation reference,
// `name<T1, T2>`, used as the callee of a CallExpr when the caller pins the
// type arguments explicitly instead of leaving them to be inferred from the
// argument expressions.
type GenericRefExpr struct {
	base
	Name     string
	TypeArgs []TypeExpr
}

func NewGenericRefExpr(name string, typeArgs []TypeExpr, span lexer.Span) *GenericRefExpr {
	return &GenericRefExpr{base: base{span}, Name: name, TypeArgs: typeArgs}
}
func (e *GenericRefExpr) exprNode() {}

// BinaryExpr is `left op right`.
type BinaryExpr struct {
	base
	Op    lexer.TokenType
	Left  Expr
	Right Expr
}

func NewBinaryExpr(op lexer.TokenType, left, right Expr, span lexer.Span) *BinaryExpr {
	return &BinaryExpr{base: base{span}, Op: op, Left: left, Right: right}
}
func (e *BinaryExpr) exprNode() {}

// UnaryExpr is `-x`, `!x`, `*x`, or `&x`/`&mut x`.
type UnaryExpr struct {
	base
	Op      lexer.TokenType
	Operand Expr
}

func NewUnaryExpr(op lexer.TokenType, operand Expr, span lexer.Span) *UnaryExpr {
	return &UnaryExpr{base: base{span}, Op: op, Operand: operand}
}
func (e *UnaryExpr) exprNode() {}

// CallExpr is `callee(args)`. The checker resolves Callee against the
// function table or the enum-variant-constructor table; both cases share
// this one AST node, matching how the teacher compiler treats a call as a
// single syntactic shape resolved later by symbol lookup.
type CallExpr struct {
	base
	Callee Expr
	Args   []Expr
}

func NewCallExpr(callee Expr, args []Expr, span lexer.Span) *CallExpr {
	return &CallExpr{base: base{span}, Callee: callee, Args: args}
}
func (e *CallExpr) exprNode() {}

// StaticCallExpr is `Type<Args>::method(args)` or `Type::method(args)`,
// an explicit static/associated-function call.
type StaticCallExpr struct {
	base
	Type   TypeExpr
	Method string
	Args   []Expr
}

func NewStaticCallExpr(typ TypeExpr, method string, args []Expr, span lexer.Span) *StaticCallExpr {
	return &StaticCallExpr{base: base{span}, Type: typ, Method: method, Args: args}
}
func (e *StaticCallExpr) exprNode() {}

// FieldExpr is `target.field`.
type FieldExpr struct {
	base
	Target Expr
	Field  string
}

func NewFieldExpr(target Expr, field string, span lexer.Span) *FieldExpr {
	return &FieldExpr{base: base{span}, Target: target, Field: field}
}
func (e *FieldExpr) exprNode() {}

// MethodCallExpr is `target.method(args)`.
type MethodCallExpr struct {
	base
	Target Expr
	Method string
	Args   []Expr
}

func NewMethodCallExpr(target Expr, method string, args []Expr, span lexer.Span) *MethodCallExpr {
	return &MethodCallExpr{base: base{span}, Target: target, Method: method, Args: args}
}
func (e *MethodCallExpr) exprNode() {}

// IndexExpr is `target[index]`.
type IndexExpr struct {
	base
	Target Expr
	Index  Expr
}

func NewIndexExpr(target, index Expr, span lexer.Span) *IndexExpr {
	return &IndexExpr{base: base{span}, Target: target, Index: index}
}
func (e *IndexExpr) exprNode() {}

// RangeExpr is `start..end` or `start..=end`.
type RangeExpr struct {
	base
	Start     Expr
	End       Expr
	Inclusive bool
}

func NewRangeExpr(start, end Expr, inclusive bool, span lexer.Span) *RangeExpr {
	return &RangeExpr{base: base{span}, Start: start, End: end, Inclusive: inclusive}
}
func (e *RangeExpr) exprNode() {}

// ArrayLiteral is `[e1, e2, e3]`.
type ArrayLiteral struct {
	base
	Elems []Expr
}

func NewArrayLiteral(elems []Expr, span lexer.Span) *ArrayLiteral {
	return &ArrayLiteral{base: base{span}, Elems: elems}
}
func (e *ArrayLiteral) exprNode() {}

// StructFieldInit is `name: value` inside a StructLiteral.
type StructFieldInit struct {
	base
	Name  string
	Value Expr
}

func NewStructFieldInit(name string, value Expr, span lexer.Span) *StructFieldInit {
	return &StructFieldInit{base: base{span}, Name: name, Value: value}
}

// StructLiteral is `Name { f1: v1, f2: v2 }`.
type StructLiteral struct {
	base
	Type   TypeExpr
	Fields []*StructFieldInit
}

func NewStructLiteral(typ TypeExpr, fields []*StructFieldInit, span lexer.Span) *StructLiteral {
	return &StructLiteral{base: base{span}, Type: typ, Fields: fields}
}
func (e *StructLiteral) exprNode() {}

// BlockExpr is `{ stmts; tail }`. Tail is nil when the block ends in a
// statement (including one ending in `;`) rather than a trailing
// expression.
type BlockExpr struct {
	base
	Stmts []Stmt
	Tail  Expr
}

func NewBlockExpr(stmts []Stmt, tail Expr, span lexer.Span) *BlockExpr {
	return &BlockExpr{base: base{span}, Stmts: stmts, Tail: tail}
}
func (e *BlockExpr) exprNode() {}

// IfExpr is `if cond { then } else { else }`. Else may be another *IfExpr
// (an `else if` chain) or a *BlockExpr, or nil when there is no else arm.
type IfExpr struct {
	base
	Cond Expr
	Then *BlockExpr
	Else Expr
}

func NewIfExpr(cond Expr, then *BlockExpr, els Expr, span lexer.Span) *IfExpr {
	return &IfExpr{base: base{span}, Cond: cond, Then: then, Else: els}
}
func (e *IfExpr) exprNode() {}

// IsExpr is a pattern-match expression: `subject is { arm, arm, ... }`.
type IsExpr struct {
	base
	Subject Expr
	Arms    []*MatchArm
}

func NewIsExpr(subject Expr, arms []*MatchArm, span lexer.Span) *IsExpr {
	return &IsExpr{base: base{span}, Subject: subject, Arms: arms}
}
func (e *IsExpr) exprNode() {}

// MatchArm is `pattern [if guard] -> body`.
type MatchArm struct {
	base
	Pattern Pattern
	Guard   Expr // nil when the arm has no guard
	Body    Expr
}

func NewMatchArm(pattern Pattern, guard, body Expr, span lexer.Span) *MatchArm {
	return &MatchArm{base: base{span}, Pattern: pattern, Guard: guard, Body: body}
}

// TryExpr is `expr?`: propagate an error-variant result to the caller.
type TryExpr struct {
	base
	Inner Expr
}

func NewTryExpr(inner Expr, span lexer.Span) *TryExpr { return &TryExpr{base{span}, inner} }
func (e *TryExpr) exprNode()                          {}

// CastExpr is `expr as Type`.
type CastExpr struct {
	base
	Inner Expr
	Type  TypeExpr
}

func NewCastExpr(inner Expr, typ TypeExpr, span lexer.Span) *CastExpr {
	return &CastExpr{base: base{span}, Inner: inner, Type: typ}
}
func (e *CastExpr) exprNode() {}

// AwaitExpr is `expr.await`. Parsed so async/await source does not hit a
// syntax error; rejected by the checker per spec.md §9.
type AwaitExpr struct {
	base
	Inner Expr
}

func NewAwaitExpr(inner Expr, span lexer.Span) *AwaitExpr { return &AwaitExpr{base{span}, inner} }
func (e *AwaitExpr) exprNode()                            {}
