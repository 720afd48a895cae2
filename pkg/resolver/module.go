package resolver

import (
	"path/filepath"
	"strings"

	"github.com/CBerJun/acacia/pkg/ast"
	"github.com/CBerJun/acacia/pkg/diag"
	"github.com/CBerJun/acacia/pkg/lexer"
	"github.com/CBerJun/acacia/pkg/parser"
	"github.com/CBerJun/acacia/pkg/source"
)

// LoadState tracks a module's progress through loading, so import cycles
// can be detected (spec.md §4.4).
type LoadState int

const (
	NotLoaded LoadState = iota
	InProgress
	Loaded
)

// Module is one resolved source file: its AST, its root scope, and its
// load-cycle state.
type Module struct {
	Path  []string // dotted import path, e.g. ["a", "b", "c"]
	File  *source.File
	AST   *ast.Module
	Scope *Scope
	State LoadState
}

// Resolver coordinates module loading and the per-module scope walk. It
// owns the module cache (keyed by dotted path) and the project's root
// directory used to locate `import a.b.c` against `a/b/c.ac` on disk.
type Resolver struct {
	reader  *source.Reader
	sink    *diag.Sink
	lexCfg  lexer.Config
	root    string
	modules map[string]*Module
}

// NewResolver constructs a Resolver rooted at projectRoot (the directory
// dotted import paths are resolved against).
func NewResolver(reader *source.Reader, sink *diag.Sink, lexCfg lexer.Config, projectRoot string) *Resolver {
	return &Resolver{reader: reader, sink: sink, lexCfg: lexCfg, root: projectRoot, modules: map[string]*Module{}}
}

// ResolveFile parses and resolves a single top-level source file (one not
// reached via an `import` statement), returning its Module.
func (r *Resolver) ResolveFile(file *source.File) *Module {
	mod := &Module{File: file, State: InProgress}
	mod.AST = parser.Parse(file, r.sink, r.lexCfg)
	mod.Scope = NewScope(nil)
	w := &walker{r: r, mod: mod}
	w.walkStmts(mod.AST.Stmts, mod.Scope)
	mod.State = Loaded
	return mod
}

// load resolves the dotted import path dotted, using the module cache to
// short-circuit both repeats and in-progress cycles (spec.md §4.4).
func (r *Resolver) load(dotted []string, importRange source.Range) *Module {
	key := strings.Join(dotted, ".")
	if mod, ok := r.modules[key]; ok {
		return mod
	}
	path := filepath.Join(r.root, filepath.Join(dotted...)+".ac")
	file, err := r.reader.GetRealFile(path)
	if err != nil {
		r.sink.Report("module-not-found", importRange, map[string]any{"name": key})
		mod := &Module{Path: dotted, State: Loaded, Scope: NewScope(nil)}
		r.modules[key] = mod
		return mod
	}
	mod := &Module{Path: dotted, File: file, State: InProgress}
	r.modules[key] = mod
	mod.AST = parser.Parse(file, r.sink, r.lexCfg)
	mod.Scope = NewScope(nil)
	w := &walker{r: r, mod: mod}
	w.walkStmts(mod.AST.Stmts, mod.Scope)
	mod.State = Loaded
	return mod
}
