package generator

import (
	"strings"
	"testing"

	"github.com/CBerJun/acacia/pkg/ast"
	"github.com/CBerJun/acacia/pkg/cmds"
	"github.com/CBerJun/acacia/pkg/expr"
)

func strLit(s string) *ast.StringLiteral {
	return ast.NewStringLiteral(zeroRange, []ast.StringPart{ast.TextPart{Text: s}})
}

func cmdLit(parts ...ast.StringPart) *ast.CommandLiteral {
	return ast.NewCommandLiteral(zeroRange, ast.CommandShort, parts)
}

func port(name string, typ ast.Expr) *ast.Port {
	return ast.NewPort(zeroRange, identDef(name), typ, nil, ast.PassByValue)
}

func block(stmts ...ast.Stmt) *ast.Block { return ast.NewBlock(zeroRange, stmts) }

// TestGenStmt_CommandLiteralEmitsRaw covers review comment #1: a bare
// command statement must compile, since every spec.md §8 scenario is built
// around one.
func TestGenStmt_CommandLiteralEmitsRaw(t *testing.T) {
	g, file := newGen()
	stmt := ast.NewExprStmt(zeroRange, cmdLit(ast.TextPart{Text: "say hi"}))
	if err := g.GenBlock(file, []ast.Stmt{stmt}); err != nil {
		t.Fatalf("GenBlock: %v", err)
	}
	if len(file.Commands) != 1 {
		t.Fatalf("want 1 command, got %d: %v", len(file.Commands), file.Commands)
	}
	raw, ok := file.Commands[0].(*cmds.Raw)
	if !ok {
		t.Fatalf("want *cmds.Raw, got %T", file.Commands[0])
	}
	if raw.Text != "say hi" {
		t.Fatalf("want %q, got %q", "say hi", raw.Text)
	}
}

// TestGenStmt_CommandLiteralInterpolatesConstants covers spec.md §4.2/§4.5
// interpolation of a `${...}` part inside a command literal.
func TestGenStmt_CommandLiteralInterpolatesConstants(t *testing.T) {
	g, file := newGen()
	decl := ast.NewAssign(zeroRange, ast.AssignWalrus, identDef("n"), nil, intLit(3))
	cmd := cmdLit(
		ast.TextPart{Text: "say count="},
		ast.InterpPart{Expr: intLit(3)},
	)
	stmt := ast.NewExprStmt(zeroRange, cmd)
	if err := g.GenBlock(file, []ast.Stmt{decl, stmt}); err != nil {
		t.Fatalf("GenBlock: %v", err)
	}
	raw, ok := file.Commands[len(file.Commands)-1].(*cmds.Raw)
	if !ok {
		t.Fatalf("want *cmds.Raw, got %T", file.Commands[len(file.Commands)-1])
	}
	if raw.Text != "say count=3" {
		t.Fatalf("want %q, got %q", "say count=3", raw.Text)
	}
}

// TestGenStmt_CommandLiteralRuntimeInterpolationErrors: a scoreboard-backed
// value has no fixed text to splice into a command's plain-text argument.
func TestGenStmt_CommandLiteralRuntimeInterpolationErrors(t *testing.T) {
	g, file := newGen()
	decl := ast.NewAssign(zeroRange, ast.AssignWalrus, identDef("n"), nil, intLit(3))
	reassign := ast.NewAssign(zeroRange, ast.AssignPlain, identDef("n"), nil,
		ast.NewBinOp(zeroRange, ast.BinAdd, ident("n"), intLit(1)))
	cmd := cmdLit(ast.InterpPart{Expr: ident("n")})
	stmt := ast.NewExprStmt(zeroRange, cmd)
	if err := g.GenBlock(file, []ast.Stmt{decl, reassign, stmt}); err == nil {
		t.Fatalf("want error interpolating a runtime-only value, got nil")
	}
}

// TestGenEntityDef_FieldsAndMethodCall covers review comment #2: a plain
// (non-virtual) entity method must compile and dispatch.
func TestGenEntityDef_FieldsAndMethodCall(t *testing.T) {
	g, file := newGen()
	entity := ast.NewEntityDef(zeroRange, identDef("Cow"), nil,
		[]*ast.FieldDecl{ast.NewFieldDecl(zeroRange, identDef("health"), ident("int"))},
		[]*ast.FuncDef{
			ast.NewFuncDef(zeroRange, ast.FuncRegular, ast.QualNone, identDef("hurt"),
				[]*ast.Port{port("amount", ident("int"))}, nil,
				block(ast.NewAugAssign(zeroRange, ast.AugSub, ident("health"), ident("amount")))),
		})
	if err := g.GenBlock(file, []ast.Stmt{entity}); err != nil {
		t.Fatalf("GenBlock(entity def): %v", err)
	}
	tmpl, ok := g.entityTemplates["Cow"]
	if !ok {
		t.Fatalf("expected entity template %q to be registered", "Cow")
	}
	if _, ok := tmpl.Fields["health"]; !ok {
		t.Fatalf("expected field %q on template", "health")
	}
	if _, ok := g.entityMethods[tmpl]["hurt"]; !ok {
		t.Fatalf("expected method %q on template", "hurt")
	}

	newStmt := ast.NewAssign(zeroRange, ast.AssignWalrus, identDef("c"), nil,
		ast.NewNewExpr(zeroRange, ident("Cow"), nil))
	call := ast.NewExprStmt(zeroRange,
		ast.NewCall(zeroRange, ast.NewAttribute(zeroRange, ident("c"), "hurt"), []ast.Arg{{Value: intLit(2)}}))
	g2, file2 := newGen()
	g2.entityTemplates = g.entityTemplates
	g2.entityMethods = g.entityMethods
	g2.entityFieldObjs = g.entityFieldObjs
	g2.entityTemplateOrder = g.entityTemplateOrder
	if err := g2.GenBlock(file2, []ast.Stmt{newStmt, call}); err != nil {
		t.Fatalf("GenBlock(new+call): %v", err)
	}
	var sawSummon, sawInvoke bool
	for _, cmd := range file2.Commands {
		if r, ok := cmd.(*cmds.Raw); ok && strings.Contains(r.Text, "summon") {
			sawSummon = true
		}
		if ex, ok := cmd.(*cmds.Execute); ok {
			for _, sc := range ex.Subcmds {
				if env, ok := sc.(cmds.ExecuteEnv); ok && env.Kind == cmds.EnvAs {
					sawInvoke = true
				}
			}
		}
	}
	if !sawSummon {
		t.Fatalf("expected a summon command among %v", file2.Commands)
	}
	if !sawInvoke {
		t.Fatalf("expected an `execute as ...` dispatch among %v", file2.Commands)
	}
}

// TestLinearize_DiamondInheritanceSucceeds exercises C3 linearization on a
// simple diamond (D(B, C), B(A), C(A)).
func TestLinearize_DiamondInheritanceSucceeds(t *testing.T) {
	g, file := newGen()
	a := ast.NewEntityDef(zeroRange, identDef("A"), nil, nil, nil)
	b := ast.NewEntityDef(zeroRange, identDef("B"), []ast.Expr{ident("A")}, nil, nil)
	c := ast.NewEntityDef(zeroRange, identDef("C"), []ast.Expr{ident("A")}, nil, nil)
	d := ast.NewEntityDef(zeroRange, identDef("D"), []ast.Expr{ident("B"), ident("C")}, nil, nil)
	if err := g.GenBlock(file, []ast.Stmt{a, b, c, d}); err != nil {
		t.Fatalf("GenBlock: %v", err)
	}
	tmplD := g.entityTemplates["D"]
	var names []string
	for _, anc := range tmplD.MRO {
		names = append(names, anc.Name)
	}
	want := []string{"D", "B", "C", "A"}
	if len(names) != len(want) {
		t.Fatalf("want MRO %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("want MRO %v, got %v", want, names)
		}
	}
}

// TestLinearize_InconsistentOrderReportsMRODiagnostic: Bad(X, Y, X) over
// X(A), Y(A) lists X both before and after Y, so it has no consistent
// linearization and must fail loudly rather than silently picking an
// arbitrary order.
func TestLinearize_InconsistentOrderReportsMRODiagnostic(t *testing.T) {
	g, file := newGen()
	a := ast.NewEntityDef(zeroRange, identDef("A"), nil, nil, nil)
	x := ast.NewEntityDef(zeroRange, identDef("X"), []ast.Expr{ident("A")}, nil, nil)
	y := ast.NewEntityDef(zeroRange, identDef("Y"), []ast.Expr{ident("A")}, nil, nil)
	bad := ast.NewEntityDef(zeroRange, identDef("Bad"), []ast.Expr{ident("X"), ident("Y"), ident("X")}, nil, nil)
	if err := g.GenBlock(file, []ast.Stmt{a, x, y, bad}); err == nil {
		t.Fatalf("want an error for a non-linearizable parent order, got nil")
	}
}

// TestGenEntityDef_VirtualOverrideDispatchesByTag covers review comment #2's
// virtual-dispatch subsystem: calling a virtual method through a base
// reference must guard on the overriding subtemplate's runtime_tag.
func TestGenEntityDef_VirtualOverrideDispatchesByTag(t *testing.T) {
	g, file := newGen()
	base := ast.NewEntityDef(zeroRange, identDef("Animal"), nil, nil,
		[]*ast.FuncDef{
			ast.NewFuncDef(zeroRange, ast.FuncRegular, ast.QualVirtual, identDef("speak"), nil, nil, block(ast.NewPassStmt(zeroRange))),
		})
	derived := ast.NewEntityDef(zeroRange, identDef("Dog"), []ast.Expr{ident("Animal")}, nil,
		[]*ast.FuncDef{
			ast.NewFuncDef(zeroRange, ast.FuncRegular, ast.QualOverride, identDef("speak"), nil, nil, block(ast.NewPassStmt(zeroRange))),
		})
	if err := g.GenBlock(file, []ast.Stmt{base, derived}); err != nil {
		t.Fatalf("GenBlock: %v", err)
	}
	animalTmpl := g.entityTemplates["Animal"]
	baseMI := g.entityMethods[animalTmpl]["speak"]
	overriders := g.overridersOf(animalTmpl, "speak", baseMI.owner)
	if len(overriders) != 1 || overriders[0].Name != "Dog" {
		t.Fatalf("want [Dog] as the only overrider, got %v", overriders)
	}

	callFile := newGenWithTemplates(g)
	obj := &expr.EntityVal{Template: animalTmpl, Selector: "@s", Fields: map[string]expr.Storable{}}
	callCtx := &ctx{file: callFile.file}
	_, err := callFile.gen.lowerEntityMethodCall(callCtx, obj, "speak", ast.NewCall(zeroRange, nil, nil))
	if err != nil {
		t.Fatalf("lowerEntityMethodCall: %v", err)
	}
	var guarded, fellThrough bool
	for _, cmd := range callFile.file.Commands {
		ex, ok := cmd.(*cmds.Execute)
		if !ok {
			continue
		}
		for _, sc := range ex.Subcmds {
			if cond, ok := sc.(cmds.ExecuteCond); ok {
				if !cond.Invert && strings.Contains(cond.Args, overriders[0].RuntimeTag) {
					guarded = true
				}
				if cond.Invert {
					fellThrough = true
				}
			}
		}
	}
	if !guarded {
		t.Fatalf("want a positive guard on Dog's runtime_tag among %v", callFile.file.Commands)
	}
	if !fellThrough {
		t.Fatalf("want an inverted-guard fallback to the base implementation among %v", callFile.file.Commands)
	}
}

// genWithTemplates is a tiny fixture: a fresh Generator/file pair that
// shares the entity bookkeeping of an already-populated Generator, the same
// way a real multi-statement module would see templates defined earlier in
// the same file.
type genWithTemplates struct {
	gen  *Generator
	file *cmds.MCFunctionFile
}

func newGenWithTemplates(src *Generator) genWithTemplates {
	g, file := newGen()
	g.entityTemplates = src.entityTemplates
	g.entityMethods = src.entityMethods
	g.entityFieldObjs = src.entityFieldObjs
	g.entityTemplateOrder = src.entityTemplateOrder
	g.structTemplates = src.structTemplates
	return genWithTemplates{gen: g, file: file}
}

// TestGenStructDef_EmitsFieldExports covers review comment #3's struct
// template support: `Point.new(x=1, y=2)` must build a StructVal whose
// fields are populated via one Export per keyword argument.
func TestGenStructDef_EmitsFieldExports(t *testing.T) {
	g, file := newGen()
	def := ast.NewStructDef(zeroRange, identDef("Point"), []*ast.FieldDecl{
		ast.NewFieldDecl(zeroRange, identDef("x"), ident("int")),
		ast.NewFieldDecl(zeroRange, identDef("y"), ident("int")),
	})
	newExpr := ast.NewNewExpr(zeroRange, ident("Point"), []ast.Arg{
		{Name: "x", Value: intLit(1)},
		{Name: "y", Value: intLit(2)},
	})
	stmt := ast.NewAssign(zeroRange, ast.AssignWalrus, identDef("p"), nil, newExpr)
	if err := g.GenBlock(file, []ast.Stmt{def, stmt}); err != nil {
		t.Fatalf("GenBlock: %v", err)
	}
	count := 0
	for _, cmd := range file.Commands {
		if _, ok := cmd.(*cmds.ScbSetConst); ok {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("want 2 ScbSetConst commands (one per field), got %d: %v", count, file.Commands)
	}
}

// TestBuilder_PosChainAndEngroupFilter covers review comment #3's
// Position/Engroup builder chains.
func TestBuilder_PosChainAndEngroupFilter(t *testing.T) {
	g, file := newGen()
	entity := ast.NewEntityDef(zeroRange, identDef("Zombie"), nil, nil, nil)
	if err := g.GenBlock(file, []ast.Stmt{entity}); err != nil {
		t.Fatalf("GenBlock(entity def): %v", err)
	}
	posCall := ast.NewCall(zeroRange, ident("Pos"), []ast.Arg{
		{Value: intLit(1)}, {Value: intLit(2)}, {Value: intLit(3)},
	})
	offsetChain := ast.NewCall(zeroRange,
		ast.NewAttribute(zeroRange, posCall, "offset"),
		[]ast.Arg{{Value: ast.NewCall(zeroRange, ident("Offset"), []ast.Arg{
			{Value: intLit(0)}, {Value: intLit(1)}, {Value: intLit(0)},
		})}},
	)
	c := &ctx{file: file}
	posVal, err := g.lowerExpr(c, offsetChain)
	if err != nil {
		t.Fatalf("lowerExpr(Pos().offset(...)): %v", err)
	}
	pv, ok := posVal.(*expr.PosVal)
	if !ok {
		t.Fatalf("want *expr.PosVal, got %T", posVal)
	}
	if pv.Y.Value != 3 {
		t.Fatalf("want y=3 after offsetting 2 by 1, got %v", pv.Y.Value)
	}

	engroupCall := ast.NewCall(zeroRange, ident("Engroup"), []ast.Arg{{Value: ident("Zombie")}})
	selectCall := ast.NewCall(zeroRange, ast.NewAttribute(zeroRange, engroupCall, "select"), nil)
	filterCall := ast.NewCall(zeroRange, ast.NewAttribute(zeroRange, selectCall, "tag"), []ast.Arg{{Value: strLit("hostile")}})
	filtered, err := g.lowerExpr(c, filterCall)
	if err != nil {
		t.Fatalf("lowerExpr(Engroup(...).select().tag(...)): %v", err)
	}
	ev, ok := filtered.(*expr.EnfilterVal)
	if !ok {
		t.Fatalf("want *expr.EnfilterVal, got %T", filtered)
	}
	if !strings.Contains(ev.Text(), "hostile") {
		t.Fatalf("want selector text to mention the tag filter, got %q", ev.Text())
	}
}

// TestGenFuncDef_InlineExpandsAtCallSite covers review comment #4: an
// inline def must actually expand its body at the call site rather than
// falling through to the ordinary compiled-def path.
func TestGenFuncDef_InlineExpandsAtCallSite(t *testing.T) {
	g, file := newGen()
	def := ast.NewFuncDef(zeroRange, ast.FuncInline, ast.QualNone, identDef("twice"),
		[]*ast.Port{port("n", ident("int"))}, ident("int"),
		block(ast.NewResultStmt(zeroRange, ast.NewBinOp(zeroRange, ast.BinMul, ident("n"), intLit(2)))))
	call := ast.NewAssign(zeroRange, ast.AssignWalrus, identDef("r"), nil,
		ast.NewCall(zeroRange, ident("twice"), []ast.Arg{{Value: intLit(21)}}))
	if err := g.GenBlock(file, []ast.Stmt{def, call}); err != nil {
		t.Fatalf("GenBlock: %v", err)
	}
	for _, cmd := range file.Commands {
		if _, ok := cmd.(*cmds.InvokeFunction); ok {
			t.Fatalf("inline call must not emit an InvokeFunction, got %v", file.Commands)
		}
	}
	fi := g.funcs["twice"]
	if fi == nil || fi.inlineDef == nil {
		t.Fatalf("want `twice` recorded as an inline def")
	}
	if fi.params != nil {
		t.Fatalf("an inline def must not pre-allocate parameter slots up front")
	}
}

// TestConstDef_EvaluatesAtCompileTime covers review comment #5: a const def
// must actually run through pkg/ctexec end to end, not just be rejected.
func TestConstDef_EvaluatesAtCompileTime(t *testing.T) {
	g, file := newGen()
	def := ast.NewFuncDef(zeroRange, ast.FuncConst, ast.QualNone, identDef("square"),
		[]*ast.Port{port("n", nil)}, nil,
		block(ast.NewResultStmt(zeroRange, ast.NewBinOp(zeroRange, ast.BinMul, ident("n"), ident("n")))))
	constStmt := ast.NewConstStmt(zeroRange, identDef("nine"), nil,
		ast.NewCall(zeroRange, ident("square"), []ast.Arg{{Value: intLit(3)}}))
	assign := ast.NewAssign(zeroRange, ast.AssignWalrus, identDef("x"), nil, ident("nine"))
	if err := g.GenBlock(file, []ast.Stmt{def, constStmt, assign}); err != nil {
		t.Fatalf("GenBlock: %v", err)
	}
	last, ok := file.Commands[len(file.Commands)-1].(*cmds.ScbSetConst)
	if !ok {
		t.Fatalf("want the final assignment to fold to ScbSetConst, got %T", file.Commands[len(file.Commands)-1])
	}
	if last.Value != 9 {
		t.Fatalf("want square(3) == 9, got %d", last.Value)
	}
}

// TestGenFuncDef_QualifiedTopLevelFuncRejected: a qualified plain def
// outside an entity body is rejected (a `const def` is handed to
// genConstFuncDef before this qualifier check).
func TestGenFuncDef_QualifiedTopLevelFuncRejected(t *testing.T) {
	g, file := newGen()
	def := ast.NewFuncDef(zeroRange, ast.FuncRegular, ast.QualVirtual, identDef("f"), nil, nil, block(ast.NewPassStmt(zeroRange)))
	if err := g.GenBlock(file, []ast.Stmt{def}); err == nil {
		t.Fatalf("want an error for a qualified function outside an entity body")
	}
}
