// Package loader resolves a root PawLang source file's import graph to a
// file system, reads every reachable module, and returns them in
// leaves-first order so the linker can merge dependencies before
// dependents.
package loader

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pawlang/pawc/internal/ast"
	"github.com/pawlang/pawc/internal/diag"
	"github.com/pawlang/pawc/internal/parser"
)

// Module is one loaded source file paired with its parsed AST.
type Module struct {
	Path string
	File *ast.File
}

// Loader walks an import graph rooted at one file.
type Loader struct {
	root        string
	stdlibRoot  string
	visited     map[string]bool // cycle detection, entries removed on stack pop
	loaded      map[string]*Module
	diagnostics []diag.Diagnostic
}

// Option configures a Loader.
type Option func(*Loader)

// WithStdlibRoot sets the installation root used to resolve `std.*`
// imports; cmd/pawc computes it with ResolveStdlibRoot. Without this
// option (or with an empty root) `std.*` imports stay unresolved.
func WithStdlibRoot(root string) Option {
	return func(l *Loader) { l.stdlibRoot = root }
}

// New returns a loader rooted at dir, the directory containing the entry
// source file.
func New(rootDir string, opts ...Option) *Loader {
	l := &Loader{
		root:    rootDir,
		visited: make(map[string]bool),
		loaded:  make(map[string]*Module),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Diagnostics returns every diagnostic raised while loading.
func (l *Loader) Diagnostics() []diag.Diagnostic { return l.diagnostics }

func (l *Loader) errorf(code diag.Code, msg string) {
	l.diagnostics = append(l.diagnostics, diag.Diagnostic{
		Stage: diag.StageLoader, Severity: diag.SeverityError, Code: code, Message: msg,
	})
}

// ResolveStdlibRoot implements the explicit-flag, then manifest, then
// env-var ladder: a non-empty flagRoot wins outright, then a non-empty
// manifestRoot, then PAW_STDLIB, and finally an empty string (the loader then treats any
// `std.*` import as unresolved rather than guessing an install prefix).
func ResolveStdlibRoot(flagRoot, manifestRoot string) string {
	if flagRoot != "" {
		return flagRoot
	}
	if manifestRoot != "" {
		return manifestRoot
	}
	if env := os.Getenv("PAW_STDLIB"); env != "" {
		return env
	}
	return ""
}

// Load reads entryPath and every module it transitively imports, and
// returns them leaves-first: a module never precedes one of its own
// dependencies in the returned slice.
func (l *Loader) Load(entryPath string) ([]*Module, error) {
	var order []*Module
	if err := l.visit(entryPath, &order); err != nil {
		return nil, err
	}
	return order, nil
}

func (l *Loader) visit(path string, order *[]*Module) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		l.errorf(diag.CodeLoaderIOError, err.Error())
		return err
	}
	if l.visited[abs] {
		l.errorf(diag.CodeLoaderCyclicImport, "cyclic import involving "+abs)
		return &diag.Diagnostic{Stage: diag.StageLoader, Code: diag.CodeLoaderCyclicImport, Message: "cyclic import involving " + abs}
	}
	if _, ok := l.loaded[abs]; ok {
		return nil
	}
	l.visited[abs] = true
	defer delete(l.visited, abs)

	src, err := os.ReadFile(abs)
	if err != nil {
		l.errorf(diag.CodeLoaderFileNotFound, "cannot read "+abs+": "+err.Error())
		return err
	}

	p := parser.New(string(src), parser.WithFilename(abs))
	file := p.ParseFile()
	for _, pe := range p.Errors() {
		l.diagnostics = append(l.diagnostics, diag.Diagnostic{
			Stage: diag.StageParser, Severity: diag.SeverityError,
			Code: diag.CodeParserUnexpectedToken, Message: pe.Message,
			Span: diag.Span{Filename: pe.Span.Filename, Line: pe.Span.Line, Column: pe.Span.Column},
		})
	}

	mod := &Module{Path: abs, File: file}

	for _, imp := range file.Imports {
		depPath, ok := l.resolveImportPath(abs, imp)
		if !ok {
			l.errorf(diag.CodeLoaderFileNotFound, "cannot resolve import "+strings.Join(imp.Path, "."))
			continue
		}
		if err := l.visit(depPath, order); err != nil {
			return err
		}
	}

	l.loaded[abs] = mod
	*order = append(*order, mod)
	return nil
}

// resolveImportPath maps an import's dotted path to a file on disk,
// relative to fromFile's directory for plain paths and to the resolved
// stdlib root for a `std.*` path. A `a.b.c` path prefers `a/b/c.paw` over
// `a/b/c/mod.paw`, checked in that order.
func (l *Loader) resolveImportPath(fromFile string, imp *ast.ImportDecl) (string, bool) {
	base := filepath.Dir(fromFile)
	if len(imp.Path) > 0 && imp.Path[0] == "std" {
		if l.stdlibRoot == "" {
			return "", false
		}
		base = l.stdlibRoot
		rest := imp.Path[1:]
		return l.resolveUnderBase(base, rest)
	}
	return l.resolveUnderBase(base, imp.Path)
}

func (l *Loader) resolveUnderBase(base string, parts []string) (string, bool) {
	if len(parts) == 0 {
		return "", false
	}
	flat := filepath.Join(append([]string{base}, parts...)...) + ".paw"
	if fileExists(flat) {
		return flat, true
	}
	nested := filepath.Join(append(append([]string{base}, parts...), "mod.paw")...)
	if fileExists(nested) {
		return nested, true
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
