package axe

import (
	"testing"

	"github.com/CBerJun/acacia/pkg/expr"
)

func TestAnyValue_AcceptsAnything(t *testing.T) {
	v, ok := (AnyValue{}).Convert(&expr.IntLiteral{Value: 1})
	if !ok || v.(*expr.IntLiteral).Value != 1 {
		t.Errorf("Convert = %v, %v, want the original expr unchanged", v, ok)
	}
}

func TestTyped_MatchesDataType(t *testing.T) {
	ty := expr.NewBrandType(expr.BrandInt)
	conv := Typed{Type: ty}
	if _, ok := conv.Convert(&expr.IntLiteral{Value: 1}); !ok {
		t.Error("Typed should accept a matching brand")
	}
	if _, ok := conv.Convert(&expr.StringLiteral{Value: "x"}); ok {
		t.Error("Typed should reject a non-matching brand")
	}
}

func TestMultityped_AcceptsAnyListedType(t *testing.T) {
	conv := Multityped{Types: []*expr.DataType{expr.NewBrandType(expr.BrandInt), expr.NewBrandType(expr.BrandStr)}}
	if _, ok := conv.Convert(&expr.IntLiteral{Value: 1}); !ok {
		t.Error("Multityped should accept int")
	}
	if _, ok := conv.Convert(&expr.StringLiteral{Value: "x"}); !ok {
		t.Error("Multityped should accept str")
	}
	if _, ok := conv.Convert(&expr.BoolLiteral{Value: true}); ok {
		t.Error("Multityped should reject bool when not listed")
	}
}

func TestLiteralInt_RejectsNonLiteral(t *testing.T) {
	if _, ok := (LiteralInt{}).Convert(&expr.IntVar{}); ok {
		t.Error("LiteralInt should reject a runtime IntVar")
	}
	v, ok := (LiteralInt{}).Convert(&expr.IntLiteral{Value: 5})
	if !ok || v.(int32) != 5 {
		t.Errorf("Convert = %v, %v, want 5, true", v, ok)
	}
}

func TestRangedLiteralInt_EnforcesBounds(t *testing.T) {
	conv := RangedLiteralInt{Min: 0, Max: 10}
	if _, ok := conv.Convert(&expr.IntLiteral{Value: 5}); !ok {
		t.Error("5 should be within [0, 10]")
	}
	if _, ok := conv.Convert(&expr.IntLiteral{Value: 11}); ok {
		t.Error("11 should be rejected, outside [0, 10]")
	}
	if _, ok := conv.Convert(&expr.IntLiteral{Value: -1}); ok {
		t.Error("-1 should be rejected, outside [0, 10]")
	}
}

func TestLiteralIntEnum_AcceptsOnlyListedValues(t *testing.T) {
	conv := LiteralIntEnum{Accepts: []int32{1, 2, 3}}
	if _, ok := conv.Convert(&expr.IntLiteral{Value: 2}); !ok {
		t.Error("2 should be accepted")
	}
	if _, ok := conv.Convert(&expr.IntLiteral{Value: 4}); ok {
		t.Error("4 should be rejected")
	}
}

func TestLiteralFloat_WidensIntLiteral(t *testing.T) {
	v, ok := (LiteralFloat{}).Convert(&expr.IntLiteral{Value: 3})
	if !ok || v.(float64) != 3 {
		t.Errorf("Convert = %v, %v, want 3.0, true", v, ok)
	}
	v, ok = (LiteralFloat{}).Convert(&expr.FloatLiteral{Value: 1.5})
	if !ok || v.(float64) != 1.5 {
		t.Errorf("Convert = %v, %v, want 1.5, true", v, ok)
	}
}

func TestPosXZ_AddsBlockCenterOffsetToIntLiteral(t *testing.T) {
	v, ok := (PosXZ{}).Convert(&expr.IntLiteral{Value: 10})
	if !ok || v.(float64) != 10.5 {
		t.Errorf("Convert = %v, %v, want 10.5, true", v, ok)
	}
	v, ok = (PosXZ{}).Convert(&expr.FloatLiteral{Value: 10.25})
	if !ok || v.(float64) != 10.25 {
		t.Errorf("Convert = %v, %v, want 10.25 unchanged, true", v, ok)
	}
}

func TestLiteralString_RejectsNonLiteral(t *testing.T) {
	v, ok := (LiteralString{}).Convert(&expr.StringLiteral{Value: "hi"})
	if !ok || v.(string) != "hi" {
		t.Errorf("Convert = %v, %v, want \"hi\", true", v, ok)
	}
	if _, ok := (LiteralString{}).Convert(&expr.IntLiteral{Value: 1}); ok {
		t.Error("LiteralString should reject a non-string literal")
	}
}

func TestLiteralStringEnum_AcceptsOnlyListedValues(t *testing.T) {
	conv := LiteralStringEnum{Accepts: []string{"a", "b"}}
	if _, ok := conv.Convert(&expr.StringLiteral{Value: "a"}); !ok {
		t.Error("\"a\" should be accepted")
	}
	if _, ok := conv.Convert(&expr.StringLiteral{Value: "c"}); ok {
		t.Error("\"c\" should be rejected")
	}
}

func TestLiteralBool(t *testing.T) {
	v, ok := (LiteralBool{}).Convert(&expr.BoolLiteral{Value: true})
	if !ok || v.(bool) != true {
		t.Errorf("Convert = %v, %v, want true, true", v, ok)
	}
}

func TestNullable_AcceptsNoneAsNil(t *testing.T) {
	conv := Nullable{Inner: LiteralInt{}}
	v, ok := conv.Convert(&expr.NoneLiteral{})
	if !ok || v != nil {
		t.Errorf("Convert = %v, %v, want nil, true", v, ok)
	}
}

func TestNullable_DelegatesToInnerForNonNone(t *testing.T) {
	conv := Nullable{Inner: LiteralInt{}}
	v, ok := conv.Convert(&expr.IntLiteral{Value: 7})
	if !ok || v.(int32) != 7 {
		t.Errorf("Convert = %v, %v, want 7, true", v, ok)
	}
	if _, ok := conv.Convert(&expr.StringLiteral{Value: "x"}); ok {
		t.Error("Nullable should still reject a mismatched non-None value")
	}
}

func TestAnyOf_TriesEachConverterInOrder(t *testing.T) {
	conv := AnyOf{Converters: []Converter{LiteralBool{}, LiteralInt{}}}
	if _, ok := conv.Convert(&expr.BoolLiteral{Value: true}); !ok {
		t.Error("AnyOf should accept via the first converter")
	}
	if _, ok := conv.Convert(&expr.IntLiteral{Value: 1}); !ok {
		t.Error("AnyOf should accept via the second converter")
	}
	if _, ok := conv.Convert(&expr.StringLiteral{Value: "x"}); ok {
		t.Error("AnyOf should reject when no converter matches")
	}
}

func TestIterator_ConvertsListToExprSlice(t *testing.T) {
	lst := &expr.AcaciaList{Items: []expr.Expr{&expr.IntLiteral{Value: 1}, &expr.IntLiteral{Value: 2}}}
	v, ok := (Iterator{}).Convert(lst)
	if !ok {
		t.Fatal("Iterator should accept an AcaciaList")
	}
	items := v.([]expr.Expr)
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
}

func TestIterator_RejectsNonIterable(t *testing.T) {
	if _, ok := (Iterator{}).Convert(&expr.IntLiteral{Value: 1}); ok {
		t.Error("Iterator should reject a non-iterable expr")
	}
}

func TestListOf_ConvertsEachElement(t *testing.T) {
	lst := &expr.AcaciaList{Items: []expr.Expr{&expr.IntLiteral{Value: 1}, &expr.IntLiteral{Value: 2}}}
	v, ok := (ListOf{Inner: LiteralInt{}}).Convert(lst)
	if !ok {
		t.Fatal("ListOf should accept a list of ints")
	}
	out := v.([]any)
	if len(out) != 2 || out[0].(int32) != 1 || out[1].(int32) != 2 {
		t.Errorf("out = %v, want [1, 2]", out)
	}
}

func TestListOf_RejectsElementThatFailsInner(t *testing.T) {
	lst := &expr.AcaciaList{Items: []expr.Expr{&expr.IntLiteral{Value: 1}, &expr.StringLiteral{Value: "x"}}}
	if _, ok := (ListOf{Inner: LiteralInt{}}).Convert(lst); ok {
		t.Error("ListOf should reject when any element fails the inner converter")
	}
}

func TestMapOf_ConvertsKeysAndValues(t *testing.T) {
	m := expr.NewAcaciaMap()
	m.Set(&expr.StringLiteral{Value: "a"}, &expr.IntLiteral{Value: 1})
	v, ok := (MapOf{Key: LiteralString{}, Value: LiteralInt{}}).Convert(m)
	if !ok {
		t.Fatal("MapOf should accept a matching map")
	}
	out := v.(map[any]any)
	if out["a"].(int32) != 1 {
		t.Errorf("out = %v, want {a: 1}", out)
	}
}

func TestMapOf_RejectsValueThatFailsInner(t *testing.T) {
	m := expr.NewAcaciaMap()
	m.Set(&expr.StringLiteral{Value: "a"}, &expr.StringLiteral{Value: "not an int"})
	if _, ok := (MapOf{Key: LiteralString{}, Value: LiteralInt{}}).Convert(m); ok {
		t.Error("MapOf should reject when a value fails the inner converter")
	}
}

type fakeCallable struct{ expr.Expr }

func (fakeCallable) IsAcaciaCallable() {}

func TestCallable_AcceptsDuckTypedCallable(t *testing.T) {
	if _, ok := (Callable{}).Convert(fakeCallable{}); !ok {
		t.Error("Callable should accept a value implementing IsAcaciaCallable")
	}
}

func TestCallable_RejectsNonCallable(t *testing.T) {
	if _, ok := (Callable{}).Convert(&expr.IntLiteral{Value: 1}); ok {
		t.Error("Callable should reject a plain IntLiteral")
	}
}
