package ast

// Walk traverses the AST starting from node, calling fn for each node.
// If fn returns false, Walk stops traversing that branch. Used by the
// monomorphization collector to find call/construct sites.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		for _, imp := range n.Imports {
			Walk(imp, fn)
		}
		for _, decl := range n.Decls {
			Walk(decl, fn)
		}

	case *FnDecl:
		for _, p := range n.Params {
			Walk(p, fn)
		}
		if n.ReturnType != nil {
			Walk(n.ReturnType, fn)
		}
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *Param:
		if n.Type != nil {
			Walk(n.Type, fn)
		}

	case *StructDecl:
		for _, f := range n.Fields {
			Walk(f, fn)
		}
		for _, m := range n.Methods {
			Walk(m, fn)
		}

	case *StructField:
		Walk(n.Type, fn)

	case *EnumDecl:
		for _, v := range n.Variants {
			Walk(v, fn)
		}
		for _, m := range n.Methods {
			Walk(m, fn)
		}

	case *EnumVariant:
		for _, p := range n.Payloads {
			Walk(p, fn)
		}

	case *TraitDecl:
		for _, m := range n.Methods {
			Walk(m, fn)
		}

	case *ImplDecl:
		if n.Trait != nil {
			Walk(n.Trait, fn)
		}
		Walk(n.Target, fn)
		for _, m := range n.Methods {
			Walk(m, fn)
		}

	case *AliasDecl:
		Walk(n.Target, fn)

	case *NamedTypeExpr:
		for _, a := range n.Args {
			Walk(a, fn)
		}
	case *PointerTypeExpr:
		Walk(n.Elem, fn)
	case *ReferenceTypeExpr:
		Walk(n.Elem, fn)
	case *ArrayTypeExpr:
		Walk(n.Elem, fn)
		if n.Size != nil {
			Walk(n.Size, fn)
		}
	case *FunctionTypeExpr:
		for _, p := range n.Params {
			Walk(p, fn)
		}
		if n.Return != nil {
			Walk(n.Return, fn)
		}

	case *BlockExpr:
		for _, s := range n.Stmts {
			Walk(s, fn)
		}
		if n.Tail != nil {
			Walk(n.Tail, fn)
		}
	case *IfExpr:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		if n.Else != nil {
			Walk(n.Else, fn)
		}
	case *IsExpr:
		Walk(n.Subject, fn)
		for _, a := range n.Arms {
			Walk(a, fn)
		}
	case *MatchArm:
		Walk(n.Pattern, fn)
		if n.Guard != nil {
			Walk(n.Guard, fn)
		}
		Walk(n.Body, fn)
	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *UnaryExpr:
		Walk(n.Operand, fn)
	case *GenericRefExpr:
		for _, a := range n.TypeArgs {
			Walk(a, fn)
		}
	case *CallExpr:
		Walk(n.Callee, fn)
		for _, a := range n.Args {
			Walk(a, fn)
		}
	case *StaticCallExpr:
		Walk(n.Type, fn)
		for _, a := range n.Args {
			Walk(a, fn)
		}
	case *FieldExpr:
		Walk(n.Target, fn)
	case *MethodCallExpr:
		Walk(n.Target, fn)
		for _, a := range n.Args {
			Walk(a, fn)
		}
	case *IndexExpr:
		Walk(n.Target, fn)
		Walk(n.Index, fn)
	case *RangeExpr:
		if n.Start != nil {
			Walk(n.Start, fn)
		}
		if n.End != nil {
			Walk(n.End, fn)
		}
	case *ArrayLiteral:
		for _, e := range n.Elems {
			Walk(e, fn)
		}
	case *StructFieldInit:
		Walk(n.Value, fn)
	case *StructLiteral:
		Walk(n.Type, fn)
		for _, f := range n.Fields {
			Walk(f, fn)
		}
	case *TryExpr:
		Walk(n.Inner, fn)
	case *CastExpr:
		Walk(n.Inner, fn)
		Walk(n.Type, fn)
	case *AwaitExpr:
		Walk(n.Inner, fn)
	case *StringInterpExpr:
		for _, e := range n.Exprs {
			Walk(e, fn)
		}

	case *VariantPattern:
		for _, b := range n.Binders {
			Walk(b, fn)
		}
	case *LiteralPattern:
		Walk(n.Value, fn)

	case *LetStmt:
		if n.Type != nil {
			Walk(n.Type, fn)
		}
		Walk(n.Value, fn)
	case *AssignStmt:
		Walk(n.Target, fn)
		Walk(n.Value, fn)
	case *CompoundAssignStmt:
		Walk(n.Target, fn)
		Walk(n.Value, fn)
	case *ReturnStmt:
		if n.Value != nil {
			Walk(n.Value, fn)
		}
	case *ExprStmt:
		Walk(n.X, fn)
	case *LoopStmt:
		if n.Cond != nil {
			Walk(n.Cond, fn)
		}
		if n.Iterable != nil {
			Walk(n.Iterable, fn)
		}
		Walk(n.Body, fn)
	case *BreakStmt:
		if n.Value != nil {
			Walk(n.Value, fn)
		}

	// Leaf nodes: Ident, IntLit, FloatLit, BoolLit, CharLit, StringLit,
	// GenericParam, WildcardPattern, IdentPattern, ContinueStmt,
	// ImportDecl — nothing further to visit.
	}
}
