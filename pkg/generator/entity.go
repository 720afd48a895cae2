package generator

import (
	"fmt"

	"github.com/CBerJun/acacia/pkg/ast"
	"github.com/CBerJun/acacia/pkg/cmds"
	"github.com/CBerJun/acacia/pkg/expr"
	"github.com/CBerJun/acacia/pkg/source"
)

// genStructDef lowers `struct Name: field declarations`, recording a
// StructTemplate for later `new`/field-access lowering (spec.md §4.5).
func (g *Generator) genStructDef(n *ast.StructDef) error {
	fields := make([]expr.StructField, len(n.Fields))
	for i, f := range n.Fields {
		dt, err := g.funcDataType(f.Type)
		if err != nil {
			return err
		}
		fields[i] = expr.StructField{Name: f.Name.Text, Type: dt}
	}
	g.structTemplates[n.Name.Text] = &expr.StructTemplate{Name: n.Name.Text, Fields: fields}
	return nil
}

// genInterfaceDef lowers `interface <path>: body` into its own file under
// the `interface/` namespace (spec.md §4.5, §6.4): unlike a def or an
// entity method, an interface body runs with no parameters, no return
// slot, and no `self`, exactly once per datapack tick/load hook it is
// wired to elsewhere.
func (g *Generator) genInterfaceDef(n *ast.InterfaceDef) error {
	fileID := g.Mgr.NewInterfaceFile(n.Path)
	return g.genBlockWithParent(g.Mgr.File(fileID), nil, nil, nil, n.Body.Stmts)
}

// genConstStmt lowers a top-level `const name := expr` by re-running expr
// through pkg/ctexec's Evaluator rather than the Command IR (spec.md
// §4.7): the result is bound both into the compile-time scope (so a later
// `const` or `const def` body can refer to it) and, converted back to an
// expr.Expr, into the ordinary lexical scope, so plain runtime code can
// use the name too.
func (g *Generator) genConstStmt(c *ctx, n *ast.ConstStmt) error {
	v, err := g.ctEval.Eval(g.ctScope, n.Value)
	if err != nil {
		return err
	}
	g.ctScope.Declare(n.Name.Text, v)
	ev, err := ctObjToExpr(v)
	if err != nil {
		return err
	}
	c.scope.declareConst(n.Name.Text, ev)
	return nil
}

// fieldStorable backs one entity field with a scoreboard slot. Only
// int/bool fields get real storage today; a nested struct/entity field is
// rejected at genEntityDef time instead of silently producing the wrong
// Storable kind here.
func fieldStorable(dt *expr.DataType, slot cmds.ScbSlot) expr.Storable {
	if dt.Brand == expr.BrandBool {
		return &expr.BoolVar{Slot: slot}
	}
	return &expr.IntVar{Slot: slot}
}

// fieldsFor builds the field-access table for an entity of template tmpl
// addressed through sel: every field shares the one scoreboard objective
// every subtemplate of tmpl's hierarchy agrees on (g.entityFieldObjs), and
// differs only in which entity (sel) the slot's Target names.
func (g *Generator) fieldsFor(tmpl *expr.EntityTemplate, sel string) map[string]expr.Storable {
	objs := g.entityFieldObjs[tmpl]
	out := make(map[string]expr.Storable, len(tmpl.Fields))
	for name, dt := range tmpl.Fields {
		out[name] = fieldStorable(dt, cmds.ScbSlot{Target: sel, Objective: objs[name]})
	}
	return out
}

// genEntityDef lowers `entity Name(parents...): body` (spec.md §4.5): it
// resolves parents, C3-linearizes the MRO, merges field and method tables
// down the MRO (closest ancestor wins, matching
// pkg/resolver/walker.go's own "later definition overrides" rule for
// direct duplicates), mints the objectives backing each field and the tag
// identifying instances of this template at runtime, then compiles every
// declared method.
func (g *Generator) genEntityDef(c *ctx, n *ast.EntityDef) error {
	parents := make([]*expr.EntityTemplate, len(n.Parents))
	for i, p := range n.Parents {
		id, ok := p.(*ast.Identifier)
		if !ok {
			return fmt.Errorf("generator: entity parent must be a template name, got %T", p)
		}
		t, ok := g.entityTemplates[id.Text]
		if !ok {
			return fmt.Errorf("generator: undefined entity template %q", id.Text)
		}
		parents[i] = t
	}
	tmpl := &expr.EntityTemplate{
		Name:       n.Name.Text,
		RuntimeTag: g.Mgr.AllocateEntityTag(),
		Parents:    parents,
		Fields:     map[string]*expr.DataType{},
	}
	mro, err := g.linearize(tmpl, n.Range())
	if err != nil {
		return err
	}
	tmpl.MRO = mro

	fieldObjs := map[string]string{}
	for i := len(mro) - 1; i >= 1; i-- {
		anc := mro[i]
		for name, dt := range anc.Fields {
			tmpl.Fields[name] = dt
		}
		for name, obj := range g.entityFieldObjs[anc] {
			fieldObjs[name] = obj
		}
	}
	for _, f := range n.Fields {
		dt, err := g.funcDataType(f.Type)
		if err != nil {
			return err
		}
		if dt.Brand == expr.BrandStruct || dt.Brand == expr.BrandEntity {
			return fmt.Errorf("generator: entity field %q: nested struct/entity fields are not yet supported", f.Name.Text)
		}
		tmpl.Fields[f.Name.Text] = dt
		if _, ok := fieldObjs[f.Name.Text]; !ok {
			fieldObjs[f.Name.Text] = g.Mgr.AllocateExtraObjective()
		}
	}
	g.entityFieldObjs[tmpl] = fieldObjs

	methods := map[string]*methodInfo{}
	for i := len(mro) - 1; i >= 1; i-- {
		anc := mro[i]
		for name, mi := range g.entityMethods[anc] {
			methods[name] = mi
		}
	}
	g.entityMethods[tmpl] = methods
	g.entityTemplates[n.Name.Text] = tmpl
	g.entityTemplateOrder = append(g.entityTemplateOrder, tmpl)

	for _, m := range n.Methods {
		if err := g.genEntityMethod(tmpl, m); err != nil {
			return err
		}
	}
	return nil
}

// linearize computes tmpl's C3 MRO from its already-linearized parents,
// ported from entity_template.py's own merge: repeatedly take the first
// head of some sequence that does not appear in the tail of any other
// sequence, removing it from every sequence it headed, until none remain.
func (g *Generator) linearize(tmpl *expr.EntityTemplate, rng source.Range) ([]*expr.EntityTemplate, error) {
	seqs := make([][]*expr.EntityTemplate, 0, len(tmpl.Parents)+1)
	for _, p := range tmpl.Parents {
		seqs = append(seqs, append([]*expr.EntityTemplate{}, p.MRO...))
	}
	if len(tmpl.Parents) > 0 {
		seqs = append(seqs, append([]*expr.EntityTemplate{}, tmpl.Parents...))
	}
	result := []*expr.EntityTemplate{tmpl}
	for {
		seqs = dropEmpty(seqs)
		if len(seqs) == 0 {
			return result, nil
		}
		var head *expr.EntityTemplate
		for _, s := range seqs {
			candidate := s[0]
			if !inAnyTail(candidate, seqs) {
				head = candidate
				break
			}
		}
		if head == nil {
			return nil, g.Sink.Report("mro", rng, map[string]any{"name": tmpl.Name})
		}
		result = append(result, head)
		for i, s := range seqs {
			seqs[i] = removeOnce(s, head)
		}
	}
}

func dropEmpty(seqs [][]*expr.EntityTemplate) [][]*expr.EntityTemplate {
	out := seqs[:0]
	for _, s := range seqs {
		if len(s) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func inAnyTail(t *expr.EntityTemplate, seqs [][]*expr.EntityTemplate) bool {
	for _, s := range seqs {
		for _, x := range s[1:] {
			if x == t {
				return true
			}
		}
	}
	return false
}

func removeOnce(s []*expr.EntityTemplate, t *expr.EntityTemplate) []*expr.EntityTemplate {
	out := make([]*expr.EntityTemplate, 0, len(s))
	removed := false
	for _, x := range s {
		if !removed && x == t {
			removed = true
			continue
		}
		out = append(out, x)
	}
	return out
}

// genEntityMethod compiles one method body of tmpl into its own library
// file. `self` is bound to a synthetic EntityVal addressed through the
// literal selector "@s", which only resolves to the right entity once
// lowerEntityMethodCall wraps the invocation in `execute as <entity> run
// ...`; every declared field is also declared bare in the body's scope,
// mirroring pkg/resolver/walker.go's walkEntityDef, which resolves field
// names as plain locals alongside explicit `self.field` access.
func (g *Generator) genEntityMethod(tmpl *expr.EntityTemplate, n *ast.FuncDef) error {
	for _, p := range n.Params {
		if p.Mode != ast.PassByValue {
			return fmt.Errorf("generator: parameter %q: only by-value parameters are supported", p.Name.Text)
		}
		if p.Type == nil {
			return fmt.Errorf("generator: parameter %q needs a type annotation", p.Name.Text)
		}
	}

	var params []expr.Storable
	var ret expr.Storable
	owner := tmpl

	if n.Qualifier == ast.QualOverride {
		inherited, ok := g.entityMethods[tmpl][n.Name.Text]
		if !ok {
			return fmt.Errorf("generator: %q on %s overrides nothing", n.Name.Text, tmpl.Name)
		}
		if len(inherited.params) != len(n.Params) {
			return fmt.Errorf("generator: override %q must repeat the overridden method's parameter count", n.Name.Text)
		}
		params = inherited.params
		ret = inherited.ret
	} else {
		var err error
		params = make([]expr.Storable, len(n.Params))
		for i, p := range n.Params {
			dt, err2 := g.funcDataType(p.Type)
			if err2 != nil {
				return err2
			}
			params[i], err = g.allocFor(dt)
			if err != nil {
				return err
			}
		}
		if n.ReturnType != nil {
			dt, err2 := g.funcDataType(n.ReturnType)
			if err2 != nil {
				return err2
			}
			ret, err = g.allocFor(dt)
			if err != nil {
				return err
			}
		}
	}

	fileID := g.Mgr.NewLibFile()
	g.Mgr.File(fileID).SetInliningFriendly(false)
	self := &expr.EntityVal{Template: tmpl, Selector: "@s", Fields: g.fieldsFor(tmpl, "@s")}
	bodyScope := newScope(nil)
	for i, p := range n.Params {
		bodyScope.declare(p.Name.Text, params[i])
	}
	for name, field := range self.Fields {
		bodyScope.declare(name, field)
	}
	bodyCtx := &ctx{file: g.Mgr.File(fileID), scope: bodyScope, retSlot: ret, self: self}
	if err := g.genStmts(bodyCtx, n.Body.Stmts); err != nil {
		return err
	}
	g.entityMethods[tmpl][n.Name.Text] = &methodInfo{def: n, owner: owner, params: params, ret: ret, file: fileID}
	return nil
}

// overridersOf returns every entity template defined so far (other than
// base itself) that both descends from base and supplies a different
// implementation of name than base's own resolution — the guard list a
// virtual call tests against the callee's actual runtime_tag before
// falling back to base's own implementation. Only templates defined by
// this point in the file are visible: a later `entity` block overriding an
// already-compiled call site's method is not retroactively discovered, a
// disclosed simplification rather than a true whole-program deferred pass
// (see DESIGN.md).
func (g *Generator) overridersOf(base *expr.EntityTemplate, name string, baseOwner *expr.EntityTemplate) []*expr.EntityTemplate {
	var out []*expr.EntityTemplate
	for _, t := range g.entityTemplateOrder {
		if t == base || !t.Subtemplate(base) {
			continue
		}
		mi, ok := g.entityMethods[t][name]
		if !ok || mi.owner == baseOwner {
			continue
		}
		out = append(out, t)
	}
	return out
}

// lowerEntityMethodCall dispatches `obj.name(args...)` (spec.md §4.5):
// a plain (non-virtual) method calls its statically-resolved
// implementation unconditionally; a virtual/override method instead tests
// obj's actual runtime_tag against every known overrider before falling
// back to the statically-resolved implementation, since every entity
// instance carries exactly one leaf runtime_tag (so at most one guard can
// ever fire) — see DESIGN.md for the dispatch-scope caveat.
func (g *Generator) lowerEntityMethodCall(c *ctx, obj *expr.EntityVal, name string, n *ast.Call) (expr.Expr, error) {
	mi, ok := g.entityMethods[obj.Template][name]
	if !ok {
		return nil, fmt.Errorf("generator: %s has no method %q", obj.DataType(), name)
	}
	if len(n.Args) != len(mi.params) {
		return nil, fmt.Errorf("generator: %s.%s takes %d argument(s), got %d", obj.DataType(), name, len(mi.params), len(n.Args))
	}
	for i, a := range n.Args {
		if a.Name != "" {
			return nil, fmt.Errorf("generator: keyword arguments to entity methods are not yet supported")
		}
		val, err := g.lowerExpr(c, a.Value)
		if err != nil {
			return nil, err
		}
		c.emit(val.Export(mi.params[i], g.Mgr)...)
	}
	asSubcmd := cmds.ExecuteEnv{Kind: cmds.EnvAs, Args: obj.Selector}
	if mi.def.Qualifier != ast.QualVirtual && mi.def.Qualifier != ast.QualOverride {
		c.emit(&cmds.Execute{Subcmds: []cmds.ExecuteSubcmd{asSubcmd}, Runs: &cmds.InvokeFunction{File: mi.file}})
		if mi.ret == nil {
			return &expr.NoneLiteral{}, nil
		}
		return mi.ret, nil
	}
	overriders := g.overridersOf(obj.Template, name, mi.owner)
	for _, t := range overriders {
		om := g.entityMethods[t][name]
		c.emit(&cmds.Execute{
			Subcmds: []cmds.ExecuteSubcmd{asSubcmd, cmds.ExecuteCond{Kind: "entity", Args: "@s[tag=" + t.RuntimeTag + "]"}},
			Runs:    &cmds.InvokeFunction{File: om.file},
		})
	}
	fallback := []cmds.ExecuteSubcmd{asSubcmd}
	for _, t := range overriders {
		fallback = append(fallback, cmds.ExecuteCond{Kind: "entity", Args: "@s[tag=" + t.RuntimeTag + "]", Invert: true})
	}
	c.emit(&cmds.Execute{Subcmds: fallback, Runs: &cmds.InvokeFunction{File: mi.file}})
	if mi.ret == nil {
		return &expr.NoneLiteral{}, nil
	}
	return mi.ret, nil
}

// lowerNewExpr lowers `new(args...)` / `T.new(args...)` (spec.md §4.5).
func (g *Generator) lowerNewExpr(c *ctx, n *ast.NewExpr) (expr.Expr, error) {
	if c.self != nil {
		if id, ok := n.Template.(*ast.Identifier); ok && id.Text == c.self.Template.Name {
			return g.lowerEntityNew(c, c.self.Template, n)
		}
	}
	id, ok := n.Template.(*ast.Identifier)
	if !ok {
		return nil, fmt.Errorf("generator: `new` target must be a template name, got %T", n.Template)
	}
	if tmpl, ok := g.entityTemplates[id.Text]; ok {
		return g.lowerEntityNew(c, tmpl, n)
	}
	if tmpl, ok := g.structTemplates[id.Text]; ok {
		return g.lowerStructNew(c, tmpl, n)
	}
	return nil, fmt.Errorf("generator: undefined template %q", id.Text)
}

// lowerEntityNew summons a fresh entity of tmpl's template and runs its
// `new` method (if any) against it (spec.md §4.5). Every summoned entity
// is a marker `minecraft:armor_stand`: ast.EntityDef carries no
// block/mob-type meta-field to summon a real one yet, a disclosed
// simplification (see DESIGN.md).
func (g *Generator) lowerEntityNew(c *ctx, tmpl *expr.EntityTemplate, n *ast.NewExpr) (expr.Expr, error) {
	identity := g.Mgr.AllocateEntityName()
	sel := "@e[tag=" + identity + "]"
	c.emit(&cmds.Raw{Text: fmt.Sprintf("summon minecraft:armor_stand ~ ~ ~ {Tags:[%q,%q]}", tmpl.RuntimeTag, identity)})
	ev := &expr.EntityVal{Template: tmpl, Selector: sel, Fields: g.fieldsFor(tmpl, sel)}
	ctor, ok := g.entityMethods[tmpl]["new"]
	if !ok {
		if len(n.Args) != 0 {
			return nil, fmt.Errorf("generator: %s has no \"new\" method to accept arguments", tmpl.Name)
		}
		return ev, nil
	}
	if len(n.Args) != len(ctor.params) {
		return nil, fmt.Errorf("generator: %s.new takes %d argument(s), got %d", tmpl.Name, len(ctor.params), len(n.Args))
	}
	for i, a := range n.Args {
		if a.Name != "" {
			return nil, fmt.Errorf("generator: keyword arguments to \"new\" are not yet supported")
		}
		val, err := g.lowerExpr(c, a.Value)
		if err != nil {
			return nil, err
		}
		c.emit(val.Export(ctor.params[i], g.Mgr)...)
	}
	c.emit(&cmds.Execute{
		Subcmds: []cmds.ExecuteSubcmd{cmds.ExecuteEnv{Kind: cmds.EnvAs, Args: sel}},
		Runs:    &cmds.InvokeFunction{File: ctor.file},
	})
	return ev, nil
}

// lowerStructNew constructs a struct value via keyword arguments
// (`StructName.new(field=value, ...)`): the AST has no dedicated
// struct-literal node, so this call-like form is the Open Question
// decision recorded in DESIGN.md for struct construction syntax.
func (g *Generator) lowerStructNew(c *ctx, tmpl *expr.StructTemplate, n *ast.NewExpr) (expr.Expr, error) {
	sv := &expr.StructVal{Template: tmpl, Fields: map[string]expr.Storable{}}
	for _, f := range tmpl.Fields {
		v, err := g.allocFor(f.Type)
		if err != nil {
			return nil, err
		}
		sv.Fields[f.Name] = v
	}
	for _, a := range n.Args {
		if a.Name == "" {
			return nil, fmt.Errorf("generator: struct construction requires keyword arguments (field=value)")
		}
		dst, ok := sv.Fields[a.Name]
		if !ok {
			return nil, fmt.Errorf("generator: %s has no field %q", tmpl.Name, a.Name)
		}
		val, err := g.lowerExpr(c, a.Value)
		if err != nil {
			return nil, err
		}
		c.emit(val.Export(dst, g.Mgr)...)
	}
	return sv, nil
}
