package resolver

import (
	"github.com/CBerJun/acacia/pkg/ast"
)

// walker performs the actual top-down scope walk for one module (spec.md
// §4.4). It is re-created per module so its note-context usage (via the
// shared diag.Sink) stays scoped to that module's import chain.
type walker struct {
	r   *Resolver
	mod *Module
}

// declare binds name in scope, reporting name-redefinition (with a
// previous-definition note) on collision.
func (w *walker) declare(scope *Scope, name string, kind SymbolKind, def *ast.IdentifierDef) *Symbol {
	if name == "" {
		return nil
	}
	sym, fresh := scope.Declare(name, kind, def)
	if !fresh {
		w.r.sink.ReportWithNote(
			"name-redefinition", def.Range(), map[string]any{"name": name},
			"name-redefinition-note", sym.Def.Range(), nil,
		)
		return sym
	}
	return sym
}

// use resolves an identifier use-site against scope, reporting
// undefined-name on failure, and bumps the symbol's reference count.
func (w *walker) use(scope *Scope, id *ast.Identifier) {
	sym := scope.Lookup(id.Name())
	if sym == nil {
		w.r.sink.Report("undefined-name", id.Range(), map[string]any{"name": id.Name()})
		return
	}
	sym.RefCount++
	id.Resolve(sym)
}

// closeScope emits unused-name for every symbol in scope with zero
// references whose name does not start with "_" (spec.md §4.4, §8.8).
func (w *walker) closeScope(scope *Scope) {
	for _, sym := range scope.Symbols() {
		if sym.RefCount == 0 && (len(sym.Name) == 0 || sym.Name[0] != '_') {
			w.r.sink.Report("unused-name", sym.Def.Range(), map[string]any{"name": sym.Name})
		}
	}
}

func (w *walker) walkStmts(stmts []ast.Stmt, scope *Scope) {
	for _, s := range stmts {
		w.walkStmt(s, scope)
	}
}

// walkBlock walks a block in a fresh child scope and closes it afterward.
func (w *walker) walkBlock(b *ast.Block, parent *Scope) *Scope {
	scope := NewScope(parent)
	if b != nil {
		w.walkStmts(b.Stmts, scope)
	}
	w.closeScope(scope)
	return scope
}

func (w *walker) walkStmt(s ast.Stmt, scope *Scope) {
	switch n := s.(type) {
	case *ast.PassStmt:
		// nothing to resolve
	case *ast.ExprStmt:
		w.walkExpr(n.Expr, scope)
	case *ast.Assign:
		w.walkExpr(n.Value, scope)
		if n.Type != nil {
			w.walkExpr(n.Type, scope)
		}
		w.walkAssignTarget(n, scope)
	case *ast.AugAssign:
		w.walkExpr(n.Target, scope)
		w.walkExpr(n.Value, scope)
	case *ast.IfStmt:
		w.walkExpr(n.Cond, scope)
		w.walkBlock(n.Body, scope)
		for _, e := range n.Elifs {
			w.walkExpr(e.Cond, scope)
			w.walkBlock(e.Body, scope)
		}
		if n.Else != nil {
			w.walkBlock(n.Else, scope)
		}
	case *ast.WhileStmt:
		w.walkExpr(n.Cond, scope)
		w.walkBlock(n.Body, scope)
	case *ast.ForStmt:
		w.walkExpr(n.Iter, scope)
		inner := NewScope(scope)
		w.declare(inner, n.Var.Text, KindLoopVar, n.Var)
		if n.Body != nil {
			w.walkStmts(n.Body.Stmts, inner)
		}
		w.closeScope(inner)
	case *ast.FuncDef:
		w.declare(scope, n.Name.Text, KindFunction, n.Name)
		w.walkFuncBody(n, scope)
	case *ast.InterfaceDef:
		w.walkBlock(n.Body, scope)
	case *ast.EntityDef:
		w.walkEntityDef(n, scope)
	case *ast.StructDef:
		w.walkStructDef(n, scope)
	case *ast.ImportStmt:
		w.walkImport(n, scope)
	case *ast.ImportFromStmt:
		w.walkImportFrom(n, scope)
	case *ast.ConstStmt:
		w.walkExpr(n.Value, scope)
		if n.Type != nil {
			w.walkExpr(n.Type, scope)
		}
		w.declare(scope, n.Name.Text, KindConst, n.Name)
	case *ast.ResultStmt:
		w.walkExpr(n.Value, scope)
	}
}

// walkAssignTarget declares the target for walrus/reference forms (which
// introduce a new binding) and resolves it as a use for plain `name = expr`
// re-assignment of an existing variable; an undeclared plain target is
// treated as an implicit declaration, matching a dynamically-typed
// scripting language's assignment semantics.
func (w *walker) walkAssignTarget(n *ast.Assign, scope *Scope) {
	switch n.Kind {
	case ast.AssignWalrus:
		w.declare(scope, n.Target.Text, KindLocalVar, n.Target)
	case ast.AssignReference:
		w.declare(scope, n.Target.Text, KindReference, n.Target)
	case ast.AssignPlain:
		if sym := scope.Lookup(n.Target.Text); sym != nil {
			sym.RefCount++
			n.Target.Resolve(sym)
			return
		}
		w.declare(scope, n.Target.Text, KindLocalVar, n.Target)
	}
}

func (w *walker) walkFuncBody(n *ast.FuncDef, outer *Scope) {
	scope := NewScope(outer)
	for _, p := range n.Params {
		if p.Type != nil {
			w.walkExpr(p.Type, outer)
		}
		if p.Default != nil {
			w.walkExpr(p.Default, outer)
		}
		kind := KindParameter
		if p.Mode == ast.PassConst {
			kind = KindConst
		}
		w.declare(scope, p.Name.Text, kind, p.Name)
	}
	if n.ReturnType != nil {
		w.walkExpr(n.ReturnType, outer)
	}
	if n.Body != nil {
		w.walkStmts(n.Body.Stmts, scope)
	}
	w.closeScope(scope)
}

func (w *walker) walkEntityDef(n *ast.EntityDef, scope *Scope) {
	w.declare(scope, n.Name.Text, KindTemplate, n.Name)
	for _, p := range n.Parents {
		w.walkExpr(p, scope)
	}
	fieldScope := NewScope(scope)
	seen := map[string]*ast.FieldDecl{}
	for _, f := range n.Fields {
		w.walkExpr(f.Type, scope)
		if prev, ok := seen[f.Name.Text]; ok {
			w.r.sink.ReportWithNote(
				"duplicate-entity-attr", f.Name.Range(), map[string]any{"name": f.Name.Text},
				"duplicate-entity-attr-note", prev.Name.Range(), nil,
			)
		} else {
			seen[f.Name.Text] = f
			w.declare(fieldScope, f.Name.Text, KindLocalVar, f.Name)
		}
	}
	newCount := 0
	var firstNew *ast.FuncDef
	for _, m := range n.Methods {
		if m.Name.Text == "new" {
			newCount++
			if newCount == 1 {
				firstNew = m
			} else {
				w.r.sink.ReportWithNote(
					"multiple-new-methods", m.Name.Range(), nil,
					"multiple-new-methods-note", firstNew.Name.Range(), nil,
				)
			}
			if m.Kind == ast.FuncConst {
				w.r.sink.Report("const-new-method", m.Name.Range(), nil)
			}
		}
		if m.Kind == ast.FuncConst && m.Qualifier != ast.QualStatic && m.Qualifier != ast.QualNone {
			w.r.sink.Report("non-static-const-method", m.Name.Range(), nil)
		}
		w.walkFuncBody(m, fieldScope)
	}
}

func (w *walker) walkStructDef(n *ast.StructDef, scope *Scope) {
	w.declare(scope, n.Name.Text, KindStructTemplate, n.Name)
	seen := map[string]*ast.FieldDecl{}
	for _, f := range n.Fields {
		w.walkExpr(f.Type, scope)
		if prev, ok := seen[f.Name.Text]; ok {
			w.r.sink.ReportWithNote(
				"duplicate-struct-attr", f.Name.Range(), map[string]any{"name": f.Name.Text},
				"duplicate-struct-attr-note", prev.Name.Range(), nil,
			)
		} else {
			seen[f.Name.Text] = f
		}
	}
}

func (w *walker) walkExpr(e ast.Expr, scope *Scope) {
	switch n := e.(type) {
	case *ast.Identifier:
		w.use(scope, n)
	case *ast.BinOp:
		w.walkExpr(n.LHS, scope)
		w.walkExpr(n.RHS, scope)
	case *ast.UnaryOp:
		w.walkExpr(n.Operand, scope)
	case *ast.CompareChain:
		for _, o := range n.Operands {
			w.walkExpr(o, scope)
		}
	case *ast.BoolOp:
		for _, o := range n.Operands {
			w.walkExpr(o, scope)
		}
	case *ast.Attribute:
		w.walkExpr(n.Object, scope)
	case *ast.Call:
		w.walkExpr(n.Callee, scope)
		for _, a := range n.Args {
			w.walkExpr(a.Value, scope)
		}
	case *ast.Subscript:
		w.walkExpr(n.Object, scope)
		w.walkExpr(n.Index, scope)
	case *ast.NewExpr:
		if n.Template != nil {
			w.walkExpr(n.Template, scope)
		}
		for _, a := range n.Args {
			w.walkExpr(a.Value, scope)
		}
	case *ast.ListLiteral:
		for _, el := range n.Elems {
			w.walkExpr(el, scope)
		}
	case *ast.MapLiteral:
		for _, entry := range n.Entries {
			w.walkExpr(entry.Key, scope)
			w.walkExpr(entry.Value, scope)
		}
	case *ast.StringLiteral:
		w.walkStringParts(n.Parts, scope)
	case *ast.CommandLiteral:
		w.walkStringParts(n.Parts, scope)
	}
}

func (w *walker) walkStringParts(parts []ast.StringPart, scope *Scope) {
	for _, p := range parts {
		if ip, ok := p.(ast.InterpPart); ok {
			w.walkExpr(ip.Expr, scope)
		}
	}
}
