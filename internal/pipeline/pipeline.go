// Package pipeline drives the eight compiler phases end to end: load,
// parse (folded into load), link, check, collect monomorphizations, and
// generate code through the selected backend.
package pipeline

import (
	"path/filepath"

	"github.com/pawlang/pawc/internal/ast"
	"github.com/pawlang/pawc/internal/codegen/c"
	"github.com/pawlang/pawc/internal/codegen/llvmir"
	"github.com/pawlang/pawc/internal/diag"
	"github.com/pawlang/pawc/internal/linker"
	"github.com/pawlang/pawc/internal/loader"
	"github.com/pawlang/pawc/internal/mono"
	"github.com/pawlang/pawc/internal/parser"
	"github.com/pawlang/pawc/internal/types"
)

// Backend selects which code generator Compile runs.
type Backend string

const (
	BackendC    Backend = "c"
	BackendLLVM Backend = "llvm"
)

// Options configures a Compile/CompileFile run.
type Options struct {
	Backend    Backend
	StdlibRoot string
}

// Result is everything a driver needs to decide whether to write an
// output file: generated source text, the monomorphization database (for
// symbol-existence assertions), and every diagnostic raised across all
// phases. Output is empty whenever Diagnostics contains an error.
type Result struct {
	Output      string
	DB          *mono.Database
	Checker     *types.Checker
	Diagnostics []diag.Diagnostic
}

// HasErrors reports whether any diagnostic in the result is an error.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == diag.SeverityError {
			return true
		}
	}
	return false
}

// CompileFile runs the full pipeline starting from a root source file on
// disk, resolving its import graph via internal/loader.
func CompileFile(path string, opts Options) *Result {
	ld := loader.New(filepath.Dir(path), loader.WithStdlibRoot(opts.StdlibRoot))
	modules, err := ld.Load(path)
	res := &Result{Diagnostics: ld.Diagnostics()}
	if err != nil {
		return res
	}

	lk := linker.New()
	merged := lk.Link(modules)
	res.Diagnostics = append(res.Diagnostics, lk.Diagnostics()...)
	if res.HasErrors() {
		return res
	}

	return compileFile(merged, opts, res)
}

// Compile runs the full pipeline over a single in-memory source string
// with no import resolution, the shape every scenario in this package's
// tests uses.
func Compile(source string, opts Options) *Result {
	p := parser.New(source)
	file := p.ParseFile()
	res := &Result{}
	for _, pe := range p.Errors() {
		res.Diagnostics = append(res.Diagnostics, diag.Diagnostic{
			Stage: diag.StageParser, Severity: diag.SeverityError,
			Code: diag.CodeParserUnexpectedToken, Message: pe.Message,
			Span: diag.Span{Filename: pe.Span.Filename, Line: pe.Span.Line, Column: pe.Span.Column},
		})
	}
	if res.HasErrors() {
		return res
	}
	return compileFile(file, opts, res)
}

// compileFile runs the checker, monomorphization collector, and the
// selected backend over an already-linked program.
func compileFile(file *ast.File, opts Options, res *Result) *Result {
	checker := types.NewChecker()
	checker.CheckFile(file)
	res.Checker = checker
	res.Diagnostics = append(res.Diagnostics, checker.Diagnostics()...)
	if res.HasErrors() {
		return res
	}

	collector := mono.NewCollector(checker)
	db := collector.Collect(file)
	res.DB = db

	switch opts.Backend {
	case BackendLLVM:
		gen := llvmir.NewGenerator(db, checker)
		res.Output = gen.Generate()
	default:
		gen := c.NewGenerator(db, checker)
		res.Output = gen.Generate()
	}
	return res
}
