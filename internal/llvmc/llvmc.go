// Package llvmc presents the Go-side surface a binding to the LLVM C API
// would expose — Context, Module, Builder, Value, BasicBlock — but backs
// every method with pure string emission instead of a *C.LLVMModuleRef.
// No cgo, no dynamic library load: this is a textual stand-in with the
// same object shape a real binding would hand back. No other package in
// this module imports it; internal/codegen/llvmir writes its IR text with
// its own strings.Builder.
package llvmc

import "fmt"

// Context owns a set of modules, the way LLVMContextRef owns everything
// built under it.
type Context struct{}

// NewContext returns a fresh context.
func NewContext() *Context { return &Context{} }

// Module accumulates top-level IR text: type definitions, globals, and
// function bodies appended by a Builder.
type Module struct {
	Name string
	body []string
}

// NewModule creates a named module under ctx.
func (ctx *Context) NewModule(name string) *Module {
	return &Module{Name: name}
}

// AddFunctionDecl appends a function declaration/definition's source text
// verbatim; Builder is what actually produces that text.
func (m *Module) AddFunctionDecl(text string) {
	m.body = append(m.body, text)
}

// String renders the complete module as LLVM IR text.
func (m *Module) String() string {
	out := fmt.Sprintf("; ModuleID = '%s'\n\n", m.Name)
	for _, b := range m.body {
		out += b
	}
	return out
}

// Value is an SSA register or immediate constant referenced by name.
type Value struct {
	Name string
	Type string
}

func (v *Value) String() string { return v.Name }

// BasicBlock is a named label within a function being built.
type BasicBlock struct {
	Label string
}

// Builder accumulates instructions into the current basic block, mirroring
// LLVMBuilderRef's position-and-append usage pattern.
type Builder struct {
	ctx        *Context
	lines      []string
	regCounter int
}

// NewBuilder returns a builder bound to ctx.
func NewBuilder(ctx *Context) *Builder { return &Builder{ctx: ctx} }

// FreshValue allocates a new SSA register name of the given type.
func (b *Builder) FreshValue(typ string) *Value {
	b.regCounter++
	return &Value{Name: fmt.Sprintf("%%v%d", b.regCounter), Type: typ}
}

// AppendBlock starts a new labeled basic block.
func (b *Builder) AppendBlock(label string) *BasicBlock {
	b.lines = append(b.lines, fmt.Sprintf("%s:\n", label))
	return &BasicBlock{Label: label}
}

// Emit appends one formatted instruction line to the current position.
func (b *Builder) Emit(format string, args ...interface{}) {
	b.lines = append(b.lines, "  "+fmt.Sprintf(format, args...)+"\n")
}

// Br emits an unconditional branch to target.
func (b *Builder) Br(target *BasicBlock) {
	b.Emit("br label %%%s", target.Label)
}

// CondBr emits a conditional branch.
func (b *Builder) CondBr(cond *Value, thenBB, elseBB *BasicBlock) {
	b.Emit("br i1 %s, label %%%s, label %%%s", cond.Name, thenBB.Label, elseBB.Label)
}

// Ret emits a return instruction; a nil value emits `ret void`.
func (b *Builder) Ret(v *Value) {
	if v == nil {
		b.Emit("ret void")
		return
	}
	b.Emit("ret %s %s", v.Type, v.Name)
}

// Dump returns every instruction emitted so far as IR text, for a Module
// to fold into its own body via AddFunctionDecl.
func (b *Builder) Dump() string {
	out := ""
	for _, l := range b.lines {
		out += l
	}
	return out
}
