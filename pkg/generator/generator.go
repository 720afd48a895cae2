// Package generator lowers a resolved Acacia AST into the Command IR
// (spec.md §4.5), the staged step between the typed AST and the emitted
// `.mcfunction` text. It covers integer/boolean literals and variables,
// string/command literals with `${...}` interpolation, list/map literals
// and subscripting, arithmetic, comparisons, and/or short-circuit lowering,
// assignment, augmented assignment, if/while/for control flow, `def`/
// `inline def`/`const def`/`result`/call, entity and struct templates
// (C3-linearized inheritance, field storage, virtual method dispatch,
// `new`), the Position/Offset/Rotation/Engroup/Enfilter builder chains, and
// `import`/`from import` of the binary modules registered in pkg/modules.
// `const def` bodies are re-run by pkg/ctexec's compile-time evaluator
// rather than lowered into the Command IR; filesystem-backed source-module
// imports (pkg/resolver's concern) are still out of scope here; see
// DESIGN.md.
package generator

import (
	"fmt"
	"strings"

	"github.com/CBerJun/acacia/pkg/ast"
	"github.com/CBerJun/acacia/pkg/cmds"
	"github.com/CBerJun/acacia/pkg/ctexec"
	"github.com/CBerJun/acacia/pkg/diag"
	"github.com/CBerJun/acacia/pkg/expr"
	"github.com/CBerJun/acacia/pkg/modules"
)

// scope is a generator-local name→variable table, tracking which scoreboard
// variable a local name currently resolves to while lowering one function
// body. It mirrors pkg/resolver's Scope shape (parent chain, declare/lookup)
// rather than reusing the resolver's own Symbol table, since a fresh
// declaration's IdentifierDef is never linked back to its Symbol (only a
// plain-assignment's reuse of an existing name is); the generator re-derives
// bindings directly from the already name-checked AST as it walks.
type scope struct {
	parent *scope
	vars   map[string]expr.Storable
	// consts holds `for`-loop bindings: a loop variable is bound directly to
	// one compile-time iterable element per unrolled iteration rather than
	// exported into a fresh scoreboard slot, so it is never itself
	// reassignable through Storable's write-back path — a plain assignment
	// to the same name instead shadows it with a new local, same as
	// reusing any other name.
	consts map[string]expr.Expr
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: map[string]expr.Storable{}, consts: map[string]expr.Expr{}}
}

func (s *scope) declare(name string, v expr.Storable) { s.vars[name] = v }

func (s *scope) declareConst(name string, v expr.Expr) { s.consts[name] = v }

// lookup resolves name to a Storable local, the form genAssign/genAugAssign
// need to write back into; it does not see through a `consts` binding, since
// a `for`-loop variable has no backing slot to write into (see declareConst).
func (s *scope) lookup(name string) (expr.Storable, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vars[name]; ok {
			return v, true
		}
		if _, ok := sc.consts[name]; ok {
			return nil, false
		}
	}
	return nil, false
}

// lookupExpr resolves name for a read, seeing through both ordinary locals
// and `for`-loop const bindings.
func (s *scope) lookupExpr(name string) (expr.Expr, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vars[name]; ok {
			return v, true
		}
		if v, ok := sc.consts[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// ctx carries the state threaded through one function body's statement and
// expression lowering: which file commands land in, the current lexical
// scope, (inside a function with a declared return type) the slot a
// `result` statement writes into, and (inside an entity method body) the
// EntityVal `self` resolves to.
type ctx struct {
	file    *cmds.MCFunctionFile
	scope   *scope
	retSlot expr.Storable
	self    *expr.EntityVal
}

func (c *ctx) emit(cs ...cmds.Command) {
	c.file.Commands = append(c.file.Commands, cs...)
}

// funcInfo is one lowered `def`. A regular def carries its fixed parameter
// and return scoreboard slots (allocated once at definition time) and the
// library file its body was compiled into. An inline def instead carries
// inlineDef, its raw body, and is re-expanded fresh at every call site
// (lowerInlineCall) rather than compiled once.
type funcInfo struct {
	params []expr.Storable
	ret    expr.Storable // nil if the def has no return type annotation
	file   cmds.FileID

	inlineDef *ast.FuncDef
}

// methodInfo is one entity-template method, resolved through MRO-ordered
// inheritance before any override in a more derived template takes effect
// (genEntityDef). A virtual method's params/ret slots are shared by every
// template that overrides it (owner is the template whose file actually
// implements this resolution), the same vtable-style fixed call signature
// genFuncDef gives a plain top-level def.
type methodInfo struct {
	def    *ast.FuncDef
	owner  *expr.EntityTemplate
	params []expr.Storable
	ret    expr.Storable
	file   cmds.FileID
}

// Generator lowers statement/expression ASTs into the Command IR, owning
// the FunctionsManager that allocates scoreboard slots and function files,
// and the diagnostic sink built-in module calls report argument-matching
// errors against (spec.md §6.5's axe.Chopper.Call contract).
type Generator struct {
	Mgr  *cmds.FunctionsManager
	Sink *diag.Sink

	funcs map[string]*funcInfo

	// builtModules caches one built *modules.Module per canonical built-in
	// module name, so importing the same module twice (e.g. once directly,
	// once via a `from` import elsewhere) builds it and runs its InitCmds
	// only once.
	builtModules map[string]*modules.Module
	// importedModules maps each name an `import`/`from import` statement
	// bound in this compilation to the built module it refers to, keyed by
	// the (possibly aliased) local name — this is what `name.attr` resolves
	// against, since a built-in module is a bag of attributes
	// (modules.Module.AttrTable) rather than an expr.Expr in its own right.
	importedModules map[string]*modules.Module

	// entityTemplates and structTemplates hold every template defined so
	// far, keyed by declared name, the way genFuncDef's funcs table holds
	// every def defined so far: a template may only be referenced after its
	// own `entity`/`struct` block has run (no forward references), mirroring
	// the single-pass, top-to-bottom order genStmts already imposes on
	// function definitions.
	entityTemplates map[string]*expr.EntityTemplate
	structTemplates map[string]*expr.StructTemplate
	// entityTemplateOrder records every entity template in declaration
	// order, the pool lowerEntityMethodCall's virtual dispatch searches for
	// candidate overriders (only templates defined by that point in the
	// file are visible, a disclosed simplification; see DESIGN.md).
	entityTemplateOrder []*expr.EntityTemplate

	// entityMethods holds, per template, every method name reachable on it
	// (inherited or its own), each tagged with the template that actually
	// implements it — this is the dispatch table lowerEntityNew and
	// lowerEntityMethodCall consult.
	entityMethods map[*expr.EntityTemplate]map[string]*methodInfo

	// entityFieldObjs maps each distinct field name within a template
	// hierarchy to the single scoreboard objective every subtemplate
	// sharing that field stores it on (minted once, the first time the
	// field is declared, and copied forward to every subtemplate rather
	// than re-minted).
	entityFieldObjs map[*expr.EntityTemplate]map[string]string

	// constFuncs holds every `const def`, keyed by name: a compile-time
	// callable pkg/ctexec's Evaluator dispatches to both from another
	// compile-time expression (via ctScope) and from ordinary runtime code
	// calling it directly (lowerConstCall).
	constFuncs map[string]*ctFuncImpl

	// ctScope and ctEval back every compile-time construct this package
	// wires up: top-level `const` bindings and `const def` bodies are
	// evaluated against ctScope by ctEval, pkg/ctexec's own AST-walking
	// evaluator, rather than lowered into the Command IR at all (spec.md
	// §4.7).
	ctScope *ctexec.Scope
	ctEval  *ctexec.Evaluator
}

// New constructs a Generator bound to mgr, reporting built-in module call
// argument errors to sink.
func New(mgr *cmds.FunctionsManager, sink *diag.Sink) *Generator {
	return &Generator{
		Mgr:             mgr,
		Sink:            sink,
		funcs:           map[string]*funcInfo{},
		builtModules:    map[string]*modules.Module{},
		importedModules: map[string]*modules.Module{},
		entityTemplates: map[string]*expr.EntityTemplate{},
		structTemplates: map[string]*expr.StructTemplate{},
		entityMethods:   map[*expr.EntityTemplate]map[string]*methodInfo{},
		entityFieldObjs: map[*expr.EntityTemplate]map[string]string{},
		constFuncs:      map[string]*ctFuncImpl{},
		ctScope:         ctexec.NewScope(nil),
		ctEval:          ctexec.New(),
	}
}

// GenBlock lowers stmts into file's command list, in a fresh top-level scope.
func (g *Generator) GenBlock(file *cmds.MCFunctionFile, stmts []ast.Stmt) error {
	return g.genBlockWithParent(file, nil, nil, nil, stmts)
}

// genBlockWithParent lowers stmts into file in a scope nested inside
// parent, so a branch or loop body can still read (and reassign) the
// enclosing function's locals while its own declarations stay scoped to
// itself (spec.md §3.6). retSlot and self carry through from the enclosing
// function body so a `result` or a `self` reference nested inside an
// `if`/`while`/`for` still resolves the same way it would at the top level
// of an entity method.
func (g *Generator) genBlockWithParent(file *cmds.MCFunctionFile, parent *scope, retSlot expr.Storable, self *expr.EntityVal, stmts []ast.Stmt) error {
	c := &ctx{file: file, scope: newScope(parent), retSlot: retSlot, self: self}
	return g.genStmts(c, stmts)
}

func (g *Generator) genStmts(c *ctx, stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := g.genStmt(c, s); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) genStmt(c *ctx, s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.PassStmt:
		return nil
	case *ast.ExprStmt:
		_, err := g.lowerExpr(c, n.Expr)
		return err
	case *ast.Assign:
		return g.genAssign(c, n)
	case *ast.AugAssign:
		return g.genAugAssign(c, n)
	case *ast.IfStmt:
		return g.genIf(c, n)
	case *ast.WhileStmt:
		return g.genWhile(c, n)
	case *ast.ForStmt:
		return g.genFor(c, n)
	case *ast.FuncDef:
		return g.genFuncDef(c, n)
	case *ast.EntityDef:
		return g.genEntityDef(c, n)
	case *ast.StructDef:
		return g.genStructDef(n)
	case *ast.InterfaceDef:
		return g.genInterfaceDef(n)
	case *ast.ConstStmt:
		return g.genConstStmt(c, n)
	case *ast.ImportStmt:
		return g.genImport(c, n)
	case *ast.ImportFromStmt:
		return g.genImportFrom(c, n)
	case *ast.ResultStmt:
		val, err := g.lowerExpr(c, n.Value)
		if err != nil {
			return err
		}
		if c.retSlot == nil {
			return fmt.Errorf("generator: `result` used outside a function with a declared return type")
		}
		c.emit(val.Export(c.retSlot, g.Mgr)...)
		return nil
	default:
		return fmt.Errorf("generator: statement form not yet supported: %T", s)
	}
}

// allocFor mints a fresh scoreboard-backed variable of dt's brand. A struct
// allocates one Storable per declared field, recursively; an entity
// allocates a reference cell with no identity yet (Export rebinds it to
// whatever EntityVal flows into it, same as any other reference type).
func (g *Generator) allocFor(dt *expr.DataType) (expr.Storable, error) {
	switch dt.Brand {
	case expr.BrandInt:
		return &expr.IntVar{Slot: g.Mgr.Allocate()}, nil
	case expr.BrandBool:
		return &expr.BoolVar{Slot: g.Mgr.Allocate()}, nil
	case expr.BrandStruct:
		fields := make(map[string]expr.Storable, len(dt.Struct.Fields))
		for _, f := range dt.Struct.Fields {
			v, err := g.allocFor(f.Type)
			if err != nil {
				return nil, err
			}
			fields[f.Name] = v
		}
		return &expr.StructVal{Template: dt.Struct, Fields: fields}, nil
	case expr.BrandEntity:
		return &expr.EntityVal{Template: dt.Entity}, nil
	default:
		return nil, fmt.Errorf("generator: local variables of type %s are not yet supported", dt)
	}
}

func (g *Generator) genAssign(c *ctx, n *ast.Assign) error {
	val, err := g.lowerExpr(c, n.Value)
	if err != nil {
		return err
	}
	if n.Kind == ast.AssignPlain {
		if dst, ok := c.scope.lookup(n.Target.Text); ok {
			c.emit(val.Export(dst, g.Mgr)...)
			return nil
		}
	}
	dst, err := g.allocFor(val.DataType())
	if err != nil {
		return err
	}
	c.emit(val.Export(dst, g.Mgr)...)
	c.scope.declare(n.Target.Text, dst)
	return nil
}

// genAugAssign lowers `target OP= value` (spec.md §4.5): for an IntVar
// target this uses the single-opcode IAdd/ISub/IMul/IDiv/IMod fast paths
// rather than a generic Add-then-Export, matching the teacher's own
// preference for the narrowest applicable command form.
func (g *Generator) genAugAssign(c *ctx, n *ast.AugAssign) error {
	id, ok := n.Target.(*ast.Identifier)
	if !ok {
		return fmt.Errorf("generator: augmented-assignment target must be a name, got %T", n.Target)
	}
	dst, ok := c.scope.lookup(id.Text)
	if !ok {
		return fmt.Errorf("generator: augmented assignment to undeclared name %q", id.Text)
	}
	iv, ok := dst.(*expr.IntVar)
	if !ok {
		return fmt.Errorf("generator: augmented assignment is only supported on int variables")
	}
	rhs, err := g.lowerExpr(c, n.Value)
	if err != nil {
		return err
	}
	var cmdsOut []cmds.Command
	switch n.Op {
	case ast.AugAdd:
		cmdsOut, err = iv.IAdd(rhs, g.Mgr)
	case ast.AugSub:
		cmdsOut, err = iv.ISub(rhs, g.Mgr)
	case ast.AugMul:
		cmdsOut, err = iv.IMul(rhs, g.Mgr)
	case ast.AugDiv:
		cmdsOut, err = iv.IDiv(rhs, g.Mgr)
	case ast.AugMod:
		cmdsOut, err = iv.IMod(rhs, g.Mgr)
	}
	if err != nil {
		return err
	}
	c.emit(cmdsOut...)
	return nil
}

// genIf lowers `if/elif/else` by branching out to a freshly allocated
// function file per arm, the way a naive datapack emitter always does
// (spec.md §4.5); pkg/optimizer's function inliner is what folds a
// single-command arm back into its caller (spec.md §4.6).
func (g *Generator) genIf(c *ctx, n *ast.IfStmt) error {
	if err := g.genBranch(c, n.Cond, n.Body); err != nil {
		return err
	}
	for _, e := range n.Elifs {
		if err := g.genBranch(c, e.Cond, e.Body); err != nil {
			return err
		}
	}
	if n.Else != nil {
		elseID := g.Mgr.NewLibFile()
		if err := g.genBlockWithParent(g.Mgr.File(elseID), c.scope, c.retSlot, c.self, n.Else.Stmts); err != nil {
			return err
		}
		if g.Mgr.File(elseID).HasContent() {
			c.emit(&cmds.InvokeFunction{File: elseID})
		}
	}
	return nil
}

// genBranch lowers one `if`/`elif` arm: evaluate cond, lower body into its
// own file, and invoke it guarded by cond's execute subcommands.
func (g *Generator) genBranch(c *ctx, cond ast.Expr, body *ast.Block) error {
	branchID := g.Mgr.NewLibFile()
	if err := g.genBlockWithParent(g.Mgr.File(branchID), c.scope, c.retSlot, c.self, body.Stmts); err != nil {
		return err
	}
	if !g.Mgr.File(branchID).HasContent() {
		return nil
	}
	return g.genGuardedInvoke(c, cond, branchID)
}

// genGuardedInvoke lowers cond and emits the commands that invoke target
// exactly when cond holds: nothing for a literal false, an unconditional
// invoke for a literal true, otherwise an `execute <cond> run function
// <target>` (spec.md §4.5).
func (g *Generator) genGuardedInvoke(c *ctx, cond ast.Expr, target cmds.FileID) error {
	condVal, err := g.lowerExpr(c, cond)
	if err != nil {
		return err
	}
	be, ok := condVal.(expr.BoolExpr)
	if !ok {
		return fmt.Errorf("generator: condition must be a bool expression, got %s", condVal.DataType())
	}
	if v, ok := be.IsLiteral(); ok {
		if v {
			c.emit(&cmds.InvokeFunction{File: target})
		}
		return nil
	}
	subcmds, setup, err := expr.Condition(be, g.Mgr)
	if err != nil {
		return err
	}
	c.emit(setup...)
	c.emit(&cmds.Execute{
		Subcmds: subcmds,
		Runs:    &cmds.InvokeFunction{File: target},
	})
	return nil
}

// genWhile lowers `while cond: body` into a self-recursive function file:
// the body re-tests cond and re-invokes itself at the end, and the call
// site only needs to invoke it once guarded by the initial test (spec.md
// §4.5). This mirrors the teacher's own use of `function` for tail
// recursion rather than emitting a native loop construct, since Minecraft
// commands have none.
func (g *Generator) genWhile(c *ctx, n *ast.WhileStmt) error {
	loopID := g.Mgr.NewLibFile()
	loopCtx := &ctx{file: g.Mgr.File(loopID), scope: newScope(c.scope), retSlot: c.retSlot, self: c.self}
	if err := g.genStmts(loopCtx, n.Body.Stmts); err != nil {
		return err
	}
	if err := g.genGuardedInvoke(loopCtx, n.Cond, loopID); err != nil {
		return err
	}
	return g.genGuardedInvoke(c, n.Cond, loopID)
}

// iterable is implemented by every compile-time-known value `for` can walk
// (currently *expr.AcaciaList); it is the same narrowing axe.Iterator uses,
// kept local here so the generator need not import pkg/modules/axe.
type iterable interface {
	Iterate() []expr.Expr
}

// genFor lowers `for name in iter: body` (spec.md §4.5) by unrolling body
// once per element of a compile-time iterable: there is no Minecraft
// primitive to loop over an Acacia list at runtime (it has no scoreboard
// representation at all, see pkg/expr/const.go), so the only possible
// lowering is to bind name to each element in turn and re-generate body's
// statements directly into the caller's own file, the way the teacher's own
// code generator always prefers inlining a known-bounded expansion over
// spending a function-file hop on it.
func (g *Generator) genFor(c *ctx, n *ast.ForStmt) error {
	iterVal, err := g.lowerExpr(c, n.Iter)
	if err != nil {
		return err
	}
	it, ok := iterVal.(iterable)
	if !ok {
		return fmt.Errorf("generator: `for` requires a compile-time iterable, got %s", iterVal.DataType())
	}
	for _, item := range it.Iterate() {
		body := &ctx{file: c.file, scope: newScope(c.scope), retSlot: c.retSlot, self: c.self}
		body.scope.declareConst(n.Var.Text, item)
		if err := g.genStmts(body, n.Body.Stmts); err != nil {
			return err
		}
	}
	return nil
}

// funcDataType resolves a `def` parameter or return type annotation (or an
// entity/struct field's declared type) to a DataType: "int"/"bool" for the
// two scalar brands, or an already-defined entity/struct template name.
func (g *Generator) funcDataType(e ast.Expr) (*expr.DataType, error) {
	id, ok := e.(*ast.Identifier)
	if !ok {
		return nil, fmt.Errorf("generator: type annotation must be a name, got %T", e)
	}
	switch id.Text {
	case "int":
		return expr.NewBrandType(expr.BrandInt), nil
	case "bool":
		return expr.NewBrandType(expr.BrandBool), nil
	}
	if t, ok := g.entityTemplates[id.Text]; ok {
		return expr.NewEntityType(t), nil
	}
	if t, ok := g.structTemplates[id.Text]; ok {
		return expr.NewStructType(t), nil
	}
	return nil, fmt.Errorf("generator: unsupported parameter/return type %q", id.Text)
}

// genFuncDef lowers `def name(params...): body` into its own library file
// with a fixed set of parameter and return scoreboard slots allocated once
// at definition time, the same non-reentrant calling convention every
// mcfunction-based compiler uses in the absence of a real call stack: a
// call site writes its arguments into those same slots, invokes the
// function, and reads the same return slot back out (spec.md §4.5, §9).
// Recursive or re-entrant calls therefore silently share a function's own
// slots, a known limitation of the language rather than a generator bug.
func (g *Generator) genFuncDef(c *ctx, n *ast.FuncDef) error {
	if n.Kind == ast.FuncConst {
		return g.genConstFuncDef(n)
	}
	if n.Qualifier != ast.QualNone {
		return fmt.Errorf("generator: entity-template method qualifiers are only valid inside an entity body")
	}
	for _, p := range n.Params {
		if p.Mode != ast.PassByValue {
			return fmt.Errorf("generator: parameter %q: only by-value parameters are supported", p.Name.Text)
		}
		if p.Type == nil {
			return fmt.Errorf("generator: parameter %q needs a type annotation", p.Name.Text)
		}
	}
	// An inline def is never compiled up front: each call site re-walks its
	// body in a fresh scope with its own arguments (lowerInlineCall), so
	// there is nothing to allocate or generate here besides recording it.
	if n.Kind == ast.FuncInline {
		g.funcs[n.Name.Text] = &funcInfo{inlineDef: n}
		return nil
	}
	params := make([]expr.Storable, len(n.Params))
	names := make([]string, len(n.Params))
	for i, p := range n.Params {
		dt, err := g.funcDataType(p.Type)
		if err != nil {
			return err
		}
		v, err := g.allocFor(dt)
		if err != nil {
			return err
		}
		params[i] = v
		names[i] = p.Name.Text
	}
	var ret expr.Storable
	if n.ReturnType != nil {
		dt, err := g.funcDataType(n.ReturnType)
		if err != nil {
			return err
		}
		ret, err = g.allocFor(dt)
		if err != nil {
			return err
		}
	}
	fileID := g.Mgr.NewLibFile()
	// A real named function is not fodder for the single-use inliner the
	// way an if/while/for arm's throwaway file is: it opts back out of the
	// default NewLibFile gives every library file.
	g.Mgr.File(fileID).SetInliningFriendly(false)
	bodyScope := newScope(nil)
	for i, name := range names {
		bodyScope.declare(name, params[i])
	}
	bodyCtx := &ctx{file: g.Mgr.File(fileID), scope: bodyScope, retSlot: ret}
	if err := g.genStmts(bodyCtx, n.Body.Stmts); err != nil {
		return err
	}
	g.funcs[n.Name.Text] = &funcInfo{params: params, ret: ret, file: fileID}
	return nil
}

// buildModule builds (or returns the cached) *modules.Module for a
// canonical built-in module name, running its one-time InitCmds into the
// project's init file the first time it's imported anywhere (spec.md
// §6.5). Only names registered in pkg/modules are reachable: the
// filesystem-backed `.ac`-file imports pkg/resolver already resolves for
// name checking have no codegen counterpart yet, so a genuine source
// module import is reported rather than silently skipped.
func (g *Generator) buildModule(name string) (*modules.Module, error) {
	if mod, ok := g.builtModules[name]; ok {
		return mod, nil
	}
	builder, ok := modules.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("generator: import of source-file modules is not yet supported; %q is not a built-in module", name)
	}
	mod, err := builder(&modules.Context{M: g.Mgr, Sink: g.Sink})
	if err != nil {
		return nil, fmt.Errorf("generator: failed to build built-in module %q: %w", name, err)
	}
	initFile := g.Mgr.File(g.Mgr.FileInit)
	initFile.Commands = append(initFile.Commands, mod.InitCmds...)
	g.builtModules[name] = mod
	return mod, nil
}

// genImport lowers `import a(.b.c)? (as x)?(, ...)*`. Only single-segment
// paths are supported, since every reachable target is a built-in module
// registered by a flat name (spec.md §6.5); a dotted path always names a
// source-file package, which is pkg/resolver's concern, not codegen's yet.
func (g *Generator) genImport(c *ctx, n *ast.ImportStmt) error {
	for _, name := range n.Names {
		if len(name.Path) != 1 {
			return fmt.Errorf("generator: only single-segment built-in module imports are supported, got %q", strings.Join(name.Path, "."))
		}
		mod, err := g.buildModule(name.Path[0])
		if err != nil {
			return err
		}
		bindName := name.Path[0]
		if name.Alias != nil {
			bindName = name.Alias.Text
		}
		g.importedModules[bindName] = mod
	}
	return nil
}

// genImportFrom lowers `from a import x, y as z` / `from a import *`,
// binding each named attribute directly as a `consts` entry in the
// importing scope when it's a plain expr.Expr value; a callable member
// (a *modules.BinaryFunc) can only be reached through a qualified call
// (`a.x(...)`) today, so importing one by its bare name is reported rather
// than silently bound to something that can't be called.
func (g *Generator) genImportFrom(c *ctx, n *ast.ImportFromStmt) error {
	if len(n.Module) != 1 {
		return fmt.Errorf("generator: only single-segment built-in module imports are supported, got %q", strings.Join(n.Module, "."))
	}
	mod, err := g.buildModule(n.Module[0])
	if err != nil {
		return err
	}
	if n.Wildcard {
		return fmt.Errorf("generator: `from %s import *` is not yet supported", n.Module[0])
	}
	for _, name := range n.Names {
		srcName := name.Path[0]
		v, ok := mod.Attrs[srcName]
		if !ok {
			return fmt.Errorf("generator: %s has no attribute %q", n.Module[0], srcName)
		}
		e, ok := v.(expr.Expr)
		if !ok {
			return fmt.Errorf("generator: %s.%s is callable; import %s instead and call %s.%s(...)", n.Module[0], srcName, n.Module[0], n.Module[0], srcName)
		}
		bindName := srcName
		if name.Alias != nil {
			bindName = name.Alias.Text
		}
		c.scope.declareConst(bindName, e)
	}
	return nil
}
