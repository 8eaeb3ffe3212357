// Package linker merges a leaves-first list of loaded modules into one
// program, applying `pub`/private visibility and import-list filtering at
// the boundary between modules the way internal/loader's caller expects.
package linker

import (
	"strings"

	"github.com/pawlang/pawc/internal/ast"
	"github.com/pawlang/pawc/internal/diag"
	"github.com/pawlang/pawc/internal/loader"
)

// Linker merges loaded modules into a single checkable file.
type Linker struct {
	diagnostics []diag.Diagnostic
}

// New returns an empty linker.
func New() *Linker { return &Linker{} }

// Diagnostics returns every diagnostic raised while linking.
func (lk *Linker) Diagnostics() []diag.Diagnostic { return lk.diagnostics }

func (lk *Linker) errorf(code diag.Code, span ast.Node, msg string) {
	var sp diag.Span
	if span != nil {
		s := span.Span()
		sp = diag.Span{Filename: s.Filename, Line: s.Line, Column: s.Column, Start: s.Start, End: s.End}
	}
	lk.diagnostics = append(lk.diagnostics, diag.Diagnostic{
		Stage: diag.StageLinker, Severity: diag.SeverityError, Code: code, Message: msg, Span: sp,
	})
}

// Link walks modules leaves-first, resolving each module's import list
// against the names exported (`pub`) by modules loaded before it, and
// returns one merged *ast.File whose Decls holds every module's
// declarations, public and private alike, in link order. Any two top-level
// declarations with the same name are a linker error, exported or not,
// since the merged program has a single flat declaration namespace.
func (lk *Linker) Link(modules []*loader.Module) *ast.File {
	merged := &ast.File{Module: "main"}
	seen := make(map[string]ast.Node)
	exported := make(map[string]map[string]ast.Decl) // module path -> exported name -> decl

	for _, mod := range modules {
		exports := make(map[string]ast.Decl)
		for _, d := range mod.File.Decls {
			name, isPub := declName(d)
			if name == "" {
				continue
			}
			if isPub {
				exports[name] = d
			}
		}
		exported[mod.Path] = exports

		visible := lk.resolveImports(mod, exported)

		for _, d := range mod.File.Decls {
			name, _ := declName(d)
			if name == "" {
				merged.Decls = append(merged.Decls, d)
				continue
			}
			if prev, dup := seen[name]; dup {
				lk.errorf(diag.CodeLinkerNameConflict, d, "duplicate declaration of '"+name+"'")
				_ = prev
				continue
			}
			seen[name] = d
			merged.Decls = append(merged.Decls, d)
		}
		for name, d := range visible {
			if _, already := seen[name]; already {
				continue
			}
			seen[name] = d
		}
	}

	return merged
}

// resolveImports checks that every name a module's import list names is
// actually exported by the module it names, and returns the set of
// declarations that import makes visible (used only for diagnostics here,
// since the merged file already carries every module's own declarations
// in one flat namespace).
func (lk *Linker) resolveImports(mod *loader.Module, exported map[string]map[string]ast.Decl) map[string]ast.Decl {
	visible := make(map[string]ast.Decl)
	for _, imp := range mod.File.Imports {
		depExports := lookupByPath(exported, imp.Path)
		if depExports == nil {
			lk.errorf(diag.CodeLinkerUnresolvedImport, imp, "unresolved import '"+strings.Join(imp.Path, ".")+"'")
			continue
		}
		switch {
		case imp.Wildcard:
			for name, d := range depExports {
				visible[name] = d
			}
		case len(imp.Items) > 0:
			for _, item := range imp.Items {
				d, ok := depExports[item]
				if !ok {
					lk.errorf(diag.CodeLinkerUnresolvedImport, imp, "module has no public member '"+item+"'")
					continue
				}
				visible[item] = d
			}
		case imp.Item != "":
			d, ok := depExports[imp.Item]
			if !ok {
				lk.errorf(diag.CodeLinkerUnresolvedImport, imp, "module has no public member '"+imp.Item+"'")
				continue
			}
			visible[imp.Item] = d
		}
	}
	return visible
}

// lookupByPath finds the export set for whichever loaded module's path
// ends with the dotted import path's components, mirroring the teacher's
// own path-suffix matching in convertUseToGoImport.
func lookupByPath(exported map[string]map[string]ast.Decl, path []string) map[string]ast.Decl {
	suffix := strings.Join(path, "/")
	for modPath, exports := range exported {
		normalized := strings.ReplaceAll(modPath, "\\", "/")
		if strings.HasSuffix(strings.TrimSuffix(normalized, ".paw"), suffix) {
			return exports
		}
	}
	return nil
}

func declName(d ast.Decl) (name string, isPub bool) {
	switch n := d.(type) {
	case *ast.FnDecl:
		return n.Name, n.IsPub
	case *ast.StructDecl:
		return n.Name, n.IsPub
	case *ast.EnumDecl:
		return n.Name, n.IsPub
	case *ast.TraitDecl:
		return n.Name, n.IsPub
	case *ast.ImplDecl:
		return "", false
	case *ast.AliasDecl:
		return n.Name, n.IsPub
	}
	return "", false
}
