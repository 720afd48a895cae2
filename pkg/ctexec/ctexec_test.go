package ctexec

import (
	"testing"

	"github.com/CBerJun/acacia/pkg/ast"
	"github.com/CBerJun/acacia/pkg/source"
)

var zeroRange source.Range

func ident(name string) *ast.Identifier     { return ast.NewIdentifier(zeroRange, name) }
func identDef(name string) *ast.IdentifierDef { return ast.NewIdentifierDef(zeroRange, name) }
func intLit(v int64) *ast.IntLiteral        { return ast.NewIntLiteral(zeroRange, v) }
func boolLit(v bool) *ast.BoolLiteral       { return ast.NewBoolLiteral(zeroRange, v) }

func mustInt(t *testing.T, o CTObj) int64 {
	t.Helper()
	i, ok := o.(*CTInt)
	if !ok {
		t.Fatalf("want *CTInt, got %T", o)
	}
	return i.Value
}

func TestEval_ArithmeticPromotesIntToFloat(t *testing.T) {
	e := New()
	expr := ast.NewBinOp(zeroRange, ast.BinAdd, intLit(1), ast.NewFloatLiteral(zeroRange, 0.5))
	v, err := e.Eval(NewScope(nil), expr)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	f, ok := v.(*CTFloat)
	if !ok {
		t.Fatalf("want *CTFloat, got %T", v)
	}
	if f.Value != 1.5 {
		t.Fatalf("want 1.5, got %v", f.Value)
	}
}

func TestEval_StringInterpolation(t *testing.T) {
	e := New()
	scope := NewScope(nil)
	scope.Declare("x", &CTInt{Value: 7})
	lit := ast.NewStringLiteral(zeroRange, []ast.StringPart{
		ast.TextPart{Text: "x is "},
		ast.InterpPart{Expr: ident("x")},
	})
	v, err := e.Eval(scope, lit)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	s, ok := v.(*CTString)
	if !ok || s.Value != "x is 7" {
		t.Fatalf("want CTString %q, got %#v", "x is 7", v)
	}
}

func TestExec_ConstThenPlainReassignMutatesSameCell(t *testing.T) {
	e := New()
	scope := NewScope(nil)
	stmts := []ast.Stmt{
		ast.NewConstStmt(zeroRange, identDef("x"), nil, intLit(1)),
		ast.NewAssign(zeroRange, ast.AssignPlain, identDef("x"), nil, intLit(2)),
	}
	if _, err := e.ExecBlock(scope, stmts); err != nil {
		t.Fatalf("ExecBlock: %v", err)
	}
	ptr, ok := scope.Lookup("x")
	if !ok {
		t.Fatal("want x bound")
	}
	if mustInt(t, ptr.Get()) != 2 {
		t.Fatalf("want x == 2, got %v", ptr.Get())
	}
}

func TestExec_ReferenceAliasesSameCell(t *testing.T) {
	e := New()
	scope := NewScope(nil)
	stmts := []ast.Stmt{
		ast.NewConstStmt(zeroRange, identDef("x"), nil, intLit(1)),
		ast.NewAssign(zeroRange, ast.AssignReference, identDef("y"), nil, ident("x")),
		ast.NewAssign(zeroRange, ast.AssignPlain, identDef("y"), nil, intLit(9)),
	}
	if _, err := e.ExecBlock(scope, stmts); err != nil {
		t.Fatalf("ExecBlock: %v", err)
	}
	xPtr, _ := scope.Lookup("x")
	if mustInt(t, xPtr.Get()) != 9 {
		t.Fatalf("want mutating y through the reference to also change x, got %v", xPtr.Get())
	}
}

func TestExec_WhileAccumulatesResult(t *testing.T) {
	e := New()
	scope := NewScope(nil)
	scope.Declare("i", &CTInt{Value: 0})
	scope.Declare("total", &CTInt{Value: 0})
	cond := ast.NewCompareChain(zeroRange, []ast.Expr{ident("i"), intLit(5)}, []ast.CompareOpKind{ast.CmpLT})
	body := ast.NewBlock(zeroRange, []ast.Stmt{
		ast.NewAugAssign(zeroRange, ast.AugAdd, ident("total"), ident("i")),
		ast.NewAugAssign(zeroRange, ast.AugAdd, ident("i"), intLit(1)),
	})
	loop := ast.NewWhileStmt(zeroRange, cond, body)
	if _, err := e.ExecBlock(scope, []ast.Stmt{loop}); err != nil {
		t.Fatalf("ExecBlock: %v", err)
	}
	totalPtr, _ := scope.Lookup("total")
	if mustInt(t, totalPtr.Get()) != 10 {
		t.Fatalf("want total == 0+1+2+3+4 == 10, got %v", totalPtr.Get())
	}
}

func TestExec_ForOverListBindsEachElement(t *testing.T) {
	e := New()
	scope := NewScope(nil)
	list := ast.NewListLiteral(zeroRange, []ast.Expr{intLit(1), intLit(2), intLit(3)})
	scope.Declare("sum", &CTInt{Value: 0})
	loopVar := identDef("v")
	body := ast.NewBlock(zeroRange, []ast.Stmt{
		ast.NewAugAssign(zeroRange, ast.AugAdd, ident("sum"), ident("v")),
	})
	forStmt := ast.NewForStmt(zeroRange, loopVar, list, body)
	if _, err := e.ExecBlock(scope, []ast.Stmt{forStmt}); err != nil {
		t.Fatalf("ExecBlock: %v", err)
	}
	sumPtr, _ := scope.Lookup("sum")
	if mustInt(t, sumPtr.Get()) != 6 {
		t.Fatalf("want sum == 6, got %v", sumPtr.Get())
	}
}

func TestExec_IfResultShortCircuits(t *testing.T) {
	e := New()
	scope := NewScope(nil)
	ifStmt := ast.NewIfStmt(
		zeroRange, boolLit(true),
		ast.NewBlock(zeroRange, []ast.Stmt{ast.NewResultStmt(zeroRange, intLit(42))}),
		nil, nil,
	)
	unreached := ast.NewConstStmt(zeroRange, identDef("never"), nil, intLit(0))
	res, err := e.ExecBlock(scope, []ast.Stmt{ifStmt, unreached})
	if err != nil {
		t.Fatalf("ExecBlock: %v", err)
	}
	if !res.Returned || mustInt(t, res.Value) != 42 {
		t.Fatalf("want result 42, got %#v", res)
	}
	if _, ok := scope.Lookup("never"); ok {
		t.Fatal("statement after result should not have run")
	}
}

func TestExec_RefusesImportAndFuncDef(t *testing.T) {
	e := New()
	scope := NewScope(nil)
	if _, err := e.ExecBlock(scope, []ast.Stmt{ast.NewImportStmt(zeroRange, nil)}); err == nil {
		t.Fatal("want import rejected in a compile-time context")
	}
	if _, err := e.ExecBlock(scope, []ast.Stmt{
		ast.NewFuncDef(zeroRange, ast.FuncRegular, ast.QualNone, identDef("f"), nil, nil, ast.NewBlock(zeroRange, nil)),
	}); err == nil {
		t.Fatal("want function definitions rejected in a compile-time context")
	}
}

func TestExec_AssignToUndeclaredNameIsRejected(t *testing.T) {
	e := New()
	scope := NewScope(nil)
	stmt := ast.NewAssign(zeroRange, ast.AssignPlain, identDef("x"), nil, intLit(1))
	if err := e.execAssign(scope, stmt); err == nil {
		t.Fatal("want plain assignment to an undeclared name rejected")
	}
}

func TestCTMap_SetGetRoundTrips(t *testing.T) {
	m := NewCTMap()
	if err := m.Set(&CTString{Value: "k"}, &CTInt{Value: 3}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := m.Get(&CTString{Value: "k"})
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if mustInt(t, v) != 3 {
		t.Fatalf("want 3, got %v", v)
	}
}
