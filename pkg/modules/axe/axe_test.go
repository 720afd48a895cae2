package axe

import (
	"testing"

	"github.com/CBerJun/acacia/pkg/diag"
	"github.com/CBerJun/acacia/pkg/expr"
	"github.com/CBerJun/acacia/pkg/source"
)

func TestChopper_PositionalArgumentsBindByOrder(t *testing.T) {
	c := Chop(PosOrKw("a", LiteralInt{}), PosOrKw("b", LiteralString{}))
	sink := diag.NewSink()
	res, ok := c.Call(sink, source.Range{},
		[]expr.Expr{&expr.IntLiteral{Value: 1}, &expr.StringLiteral{Value: "x"}}, nil)
	if !ok {
		t.Fatalf("Call failed, diagnostics: %v", sink.Diagnostics())
	}
	if res["a"].(int32) != 1 || res["b"].(string) != "x" {
		t.Errorf("res = %v, want a=1 b=\"x\"", res)
	}
}

func TestChopper_KeywordArgumentsBindByName(t *testing.T) {
	c := Chop(PosOrKw("a", LiteralInt{}), PosOrKw("b", LiteralString{}))
	sink := diag.NewSink()
	res, ok := c.Call(sink, source.Range{}, nil, map[string]expr.Expr{
		"b": &expr.StringLiteral{Value: "y"},
		"a": &expr.IntLiteral{Value: 2},
	})
	if !ok {
		t.Fatalf("Call failed, diagnostics: %v", sink.Diagnostics())
	}
	if res["a"].(int32) != 2 || res["b"].(string) != "y" {
		t.Errorf("res = %v, want a=2 b=\"y\"", res)
	}
}

func TestChopper_DefaultsFillMissingArguments(t *testing.T) {
	c := Chop(PosOrKw("a", LiteralInt{}).WithDefault(int32(42)))
	sink := diag.NewSink()
	res, ok := c.Call(sink, source.Range{}, nil, nil)
	if !ok {
		t.Fatalf("Call failed, diagnostics: %v", sink.Diagnostics())
	}
	if res["a"].(int32) != 42 {
		t.Errorf("res[\"a\"] = %v, want 42", res["a"])
	}
}

func TestChopper_MissingRequiredArgumentReportsDiagnostic(t *testing.T) {
	c := Chop(PosOrKw("a", LiteralInt{}))
	sink := diag.NewSink()
	_, ok := c.Call(sink, source.Range{}, nil, nil)
	if ok {
		t.Fatal("Call should fail for a missing required argument")
	}
	if !sink.HasErrors() {
		t.Error("expected a missing-arg diagnostic")
	}
}

func TestChopper_TooManyPositionalArgumentsReportsDiagnostic(t *testing.T) {
	c := Chop(PosOrKw("a", LiteralInt{}))
	sink := diag.NewSink()
	_, ok := c.Call(sink, source.Range{},
		[]expr.Expr{&expr.IntLiteral{Value: 1}, &expr.IntLiteral{Value: 2}}, nil)
	if ok {
		t.Fatal("Call should fail when more positional args are given than declared")
	}
	if !sink.HasErrors() {
		t.Error("expected a too-many-args diagnostic")
	}
}

func TestChopper_UnexpectedKeywordArgumentReportsDiagnostic(t *testing.T) {
	c := Chop(PosOrKw("a", LiteralInt{}))
	sink := diag.NewSink()
	_, ok := c.Call(sink, source.Range{}, nil, map[string]expr.Expr{
		"b": &expr.IntLiteral{Value: 1},
	})
	if ok {
		t.Fatal("Call should fail for an undeclared keyword argument")
	}
	if !sink.HasErrors() {
		t.Error("expected an unexpected-keyword-arg diagnostic")
	}
}

func TestChopper_ArgumentGivenTwiceReportsDiagnostic(t *testing.T) {
	c := Chop(PosOrKw("a", LiteralInt{}))
	sink := diag.NewSink()
	_, ok := c.Call(sink, source.Range{},
		[]expr.Expr{&expr.IntLiteral{Value: 1}},
		map[string]expr.Expr{"a": &expr.IntLiteral{Value: 2}})
	if ok {
		t.Fatal("Call should fail when an argument is bound both positionally and by keyword")
	}
	if !sink.HasErrors() {
		t.Error("expected an arg-multiple-values diagnostic")
	}
}

func TestChopper_WrongArgumentTypeReportsDiagnostic(t *testing.T) {
	c := Chop(PosOrKw("a", LiteralInt{}))
	sink := diag.NewSink()
	_, ok := c.Call(sink, source.Range{}, []expr.Expr{&expr.StringLiteral{Value: "x"}}, nil)
	if ok {
		t.Fatal("Call should fail for a mistyped argument")
	}
	if !sink.HasErrors() {
		t.Error("expected a wrong-arg-type diagnostic")
	}
}

func TestChopper_PositionalOnlyRejectsKeywordBinding(t *testing.T) {
	c := Chop(Pos("a", LiteralInt{}))
	sink := diag.NewSink()
	_, ok := c.Call(sink, source.Range{}, nil, map[string]expr.Expr{
		"a": &expr.IntLiteral{Value: 1},
	})
	if ok {
		t.Fatal("Call should fail passing a positional-only argument by keyword")
	}
	if !sink.HasErrors() {
		t.Error("expected an unexpected-keyword-arg diagnostic")
	}
}

func TestChopper_StarArgsCollectsExcessPositionals(t *testing.T) {
	c := Chop(StarArgs("args", LiteralInt{}))
	sink := diag.NewSink()
	res, ok := c.Call(sink, source.Range{},
		[]expr.Expr{&expr.IntLiteral{Value: 1}, &expr.IntLiteral{Value: 2}, &expr.IntLiteral{Value: 3}}, nil)
	if !ok {
		t.Fatalf("Call failed, diagnostics: %v", sink.Diagnostics())
	}
	args := res["args"].([]any)
	if len(args) != 3 {
		t.Fatalf("len(args) = %d, want 3", len(args))
	}
	for i, want := range []int32{1, 2, 3} {
		if args[i].(int32) != want {
			t.Errorf("args[%d] = %v, want %d", i, args[i], want)
		}
	}
}

func TestChopper_StarArgsDefaultsToNilWhenUnused(t *testing.T) {
	c := Chop(PosOrKw("a", LiteralInt{}), StarArgs("rest", LiteralInt{}))
	sink := diag.NewSink()
	res, ok := c.Call(sink, source.Range{}, []expr.Expr{&expr.IntLiteral{Value: 1}}, nil)
	if !ok {
		t.Fatalf("Call failed, diagnostics: %v", sink.Diagnostics())
	}
	if res["rest"] != nil {
		if rest, ok := res["rest"].([]any); !ok || len(rest) != 0 {
			t.Errorf("rest = %v, want nil or empty", res["rest"])
		}
	}
}

func TestChopper_KwdsCollectsExcessKeywords(t *testing.T) {
	c := Chop(Kwds("extra", LiteralInt{}))
	sink := diag.NewSink()
	res, ok := c.Call(sink, source.Range{}, nil, map[string]expr.Expr{
		"x": &expr.IntLiteral{Value: 1},
		"y": &expr.IntLiteral{Value: 2},
	})
	if !ok {
		t.Fatalf("Call failed, diagnostics: %v", sink.Diagnostics())
	}
	extra := res["extra"].(map[string]any)
	if len(extra) != 2 || extra["x"].(int32) != 1 || extra["y"].(int32) != 2 {
		t.Errorf("extra = %v, want {x:1, y:2}", extra)
	}
}

func TestChopper_WithRenameChangesResultKey(t *testing.T) {
	c := Chop(PosOrKw("public_name", LiteralInt{}).WithRename("internal_name"))
	sink := diag.NewSink()
	res, ok := c.Call(sink, source.Range{}, nil, map[string]expr.Expr{
		"public_name": &expr.IntLiteral{Value: 5},
	})
	if !ok {
		t.Fatalf("Call failed, diagnostics: %v", sink.Diagnostics())
	}
	if res["internal_name"].(int32) != 5 {
		t.Errorf("res = %v, want internal_name=5", res)
	}
	if _, ok := res["public_name"]; ok {
		t.Error("res must not also carry the original key")
	}
}

func TestChop_PanicsOnDuplicateArgumentName(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Chop to panic on a duplicate argument name")
		}
	}()
	Chop(PosOrKw("a", LiteralInt{}), PosOrKw("a", LiteralString{}))
}

func TestChop_PanicsOnMultipleStarArgs(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Chop to panic on more than one star-args parameter")
		}
	}()
	Chop(StarArgs("a", LiteralInt{}), StarArgs("b", LiteralInt{}))
}

func TestChop_PanicsOnMultipleKwds(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Chop to panic on more than one kwds parameter")
		}
	}()
	Chop(Kwds("a", LiteralInt{}), Kwds("b", LiteralInt{}))
}
