package resolver

import "github.com/CBerJun/acacia/pkg/ast"

// walkImport handles `import a.b.c as x(, ...)*`: each dotted path loads
// every package `__init__` along the way then the leaf, and binds the
// (possibly aliased) final module name in the importing scope (spec.md
// §4.4).
func (w *walker) walkImport(n *ast.ImportStmt, scope *Scope) {
	for _, name := range n.Names {
		w.r.sink.PushNote("imported-here", n.Range(), map[string]any{"path": joinDotted(name.Path)})
		mod := w.r.load(name.Path, n.Range())
		w.r.sink.PopNote()

		bindName := name.Path[len(name.Path)-1]
		def := name.Alias
		if def == nil {
			def = ast.NewIdentifierDef(n.Range(), bindName)
		} else {
			bindName = def.Text
		}
		sym := w.declare(scope, bindName, KindModule, def)
		if sym != nil {
			sym.Value = &ModuleBinding{Module: mod}
		}
	}
}

// walkImportFrom handles `from m import x, y as z` and `from m import *`
// (spec.md §4.4).
func (w *walker) walkImportFrom(n *ast.ImportFromStmt, scope *Scope) {
	w.r.sink.PushNote("imported-here", n.Range(), map[string]any{"path": joinDotted(n.Module)})
	mod := w.r.load(n.Module, n.Range())
	w.r.sink.PopNote()

	if n.Wildcard {
		if mod.State != Loaded {
			w.r.sink.Report("partial-wildcard-import", n.Range(), map[string]any{"module": joinDotted(n.Module)})
		}
		for _, sym := range mod.Scope.Exported() {
			dest, _ := scope.Declare(sym.Name, sym.Kind, sym.Def)
			dest.Value = sym.Value
		}
		return
	}

	for _, name := range n.Names {
		srcName := name.Path[0]
		srcSym := mod.Scope.LookupLocal(srcName)
		if srcSym == nil || (len(srcName) > 0 && srcName[0] == '_') {
			w.r.sink.Report("cannot-import-name", n.Range(), map[string]any{"name": srcName, "module": joinDotted(n.Module)})
			continue
		}
		bindName := srcName
		def := name.Alias
		if def == nil {
			def = ast.NewIdentifierDef(n.Range(), bindName)
		} else {
			bindName = def.Text
		}
		sym := w.declare(scope, bindName, srcSym.Kind, def)
		if sym != nil {
			sym.Value = srcSym.Value
		}
	}
}

func joinDotted(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

// ModuleBinding is the Binding payload attached to a symbol introduced by
// `import`/`from ... import`, letting later passes reach the loaded
// module's scope.
type ModuleBinding struct {
	Module *Module
}

func (*ModuleBinding) BindingKind() string { return "module" }
