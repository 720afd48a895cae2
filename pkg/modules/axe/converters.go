package axe

import (
	"fmt"
	"strings"

	"github.com/CBerJun/acacia/pkg/expr"
)

// Converter validates and unwraps one call argument into the Go value a
// binary function implementation actually wants to work with — the Go
// analogue of axe.py's Converter/convert/get_show_name pair. Convert
// reports ok=false (rather than raising, as the Python source's
// wrong_argument does) to let Chopper.Call attach the call site's range.
type Converter interface {
	ShowName() string
	Convert(origin expr.Expr) (any, bool)
}

// AnyValue accepts any argument unchanged.
type AnyValue struct{}

func (AnyValue) ShowName() string               { return "any object" }
func (AnyValue) Convert(origin expr.Expr) (any, bool) { return origin, true }

// Typed accepts a value whose DataType matches the given type.
type Typed struct{ Type *expr.DataType }

func (t Typed) ShowName() string { return t.Type.String() }
func (t Typed) Convert(origin expr.Expr) (any, bool) {
	if !origin.DataType().Matches(t.Type) {
		return nil, false
	}
	return origin, true
}

// Multityped accepts a value matching any of several types.
type Multityped struct{ Types []*expr.DataType }

func (t Multityped) ShowName() string {
	names := make([]string, len(t.Types))
	for i, ty := range t.Types {
		names[i] = ty.String()
	}
	return strings.Join(names, " / ")
}
func (t Multityped) Convert(origin expr.Expr) (any, bool) {
	for _, ty := range t.Types {
		if origin.DataType().Matches(ty) {
			return origin, true
		}
	}
	return nil, false
}

// LiteralInt accepts an int literal and unwraps it to Go int32.
type LiteralInt struct{}

func (LiteralInt) ShowName() string { return "int (literal)" }
func (LiteralInt) Convert(origin expr.Expr) (any, bool) {
	lit, ok := origin.(*expr.IntLiteral)
	if !ok {
		return nil, false
	}
	return lit.Value, true
}

// RangedLiteralInt accepts an int literal within [Min, Max].
type RangedLiteralInt struct{ Min, Max int32 }

func (r RangedLiteralInt) ShowName() string {
	return fmt.Sprintf("int (literal) (%d ~ %d)", r.Min, r.Max)
}
func (r RangedLiteralInt) Convert(origin expr.Expr) (any, bool) {
	v, ok := (LiteralInt{}).Convert(origin)
	if !ok {
		return nil, false
	}
	n := v.(int32)
	if n < r.Min || n > r.Max {
		return nil, false
	}
	return n, true
}

// LiteralIntEnum accepts an int literal that is one of a fixed set.
type LiteralIntEnum struct{ Accepts []int32 }

func (e LiteralIntEnum) ShowName() string {
	parts := make([]string, len(e.Accepts))
	for i, v := range e.Accepts {
		parts[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf("int (literal) (one of %s)", strings.Join(parts, ", "))
}
func (e LiteralIntEnum) Convert(origin expr.Expr) (any, bool) {
	v, ok := (LiteralInt{}).Convert(origin)
	if !ok {
		return nil, false
	}
	n := v.(int32)
	for _, accept := range e.Accepts {
		if n == accept {
			return n, true
		}
	}
	return nil, false
}

// LiteralFloat accepts a float or int literal and unwraps it to Go
// float64, matching the original's implicit int-to-float widening.
type LiteralFloat struct{}

func (LiteralFloat) ShowName() string { return "float (accepts int literal)" }
func (LiteralFloat) Convert(origin expr.Expr) (any, bool) {
	switch v := origin.(type) {
	case *expr.FloatLiteral:
		return v.Value, true
	case *expr.IntLiteral:
		return float64(v.Value), true
	default:
		return nil, false
	}
}

// PosXZ is LiteralFloat plus the original's block-center nudge: a bare int
// coordinate gets 0.5 added, matching Minecraft's own absolute-position
// rounding for the x/z axes.
type PosXZ struct{}

func (PosXZ) ShowName() string { return "float (accepts int literal)" }
func (PosXZ) Convert(origin expr.Expr) (any, bool) {
	if _, isInt := origin.(*expr.IntLiteral); isInt {
		v, ok := (LiteralFloat{}).Convert(origin)
		if !ok {
			return nil, false
		}
		return v.(float64) + 0.5, true
	}
	return (LiteralFloat{}).Convert(origin)
}

// LiteralString accepts a string literal and unwraps it to Go string.
type LiteralString struct{}

func (LiteralString) ShowName() string { return "str (literal)" }
func (LiteralString) Convert(origin expr.Expr) (any, bool) {
	lit, ok := origin.(*expr.StringLiteral)
	if !ok {
		return nil, false
	}
	return lit.Value, true
}

// LiteralStringEnum accepts a string literal that is one of a fixed set.
type LiteralStringEnum struct{ Accepts []string }

func (e LiteralStringEnum) ShowName() string {
	quoted := make([]string, len(e.Accepts))
	for i, s := range e.Accepts {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("str (literal) (one of %s)", strings.Join(quoted, ", "))
}
func (e LiteralStringEnum) Convert(origin expr.Expr) (any, bool) {
	v, ok := (LiteralString{}).Convert(origin)
	if !ok {
		return nil, false
	}
	s := v.(string)
	for _, accept := range e.Accepts {
		if s == accept {
			return s, true
		}
	}
	return nil, false
}

// LiteralBool accepts a bool literal and unwraps it to Go bool.
type LiteralBool struct{}

func (LiteralBool) ShowName() string { return "bool (literal)" }
func (LiteralBool) Convert(origin expr.Expr) (any, bool) {
	lit, ok := origin.(*expr.BoolLiteral)
	if !ok {
		return nil, false
	}
	return lit.Value, true
}

// Nullable wraps another converter, additionally accepting NoneLiteral and
// converting it to a Go untyped nil.
type Nullable struct{ Inner Converter }

func (n Nullable) ShowName() string { return n.Inner.ShowName() + " (or None)" }
func (n Nullable) Convert(origin expr.Expr) (any, bool) {
	if _, isNone := origin.(*expr.NoneLiteral); isNone {
		return nil, true
	}
	return n.Inner.Convert(origin)
}

// AnyOf tries each converter in order, accepting the first that succeeds.
type AnyOf struct{ Converters []Converter }

func (a AnyOf) ShowName() string {
	names := make([]string, len(a.Converters))
	for i, c := range a.Converters {
		names[i] = c.ShowName()
	}
	return strings.Join(names, " / ")
}
func (a AnyOf) Convert(origin expr.Expr) (any, bool) {
	for _, c := range a.Converters {
		if v, ok := c.Convert(origin); ok {
			return v, true
		}
	}
	return nil, false
}

// Iterator accepts any compile-time-iterable value (currently AcaciaList)
// and converts it to a Go []expr.Expr.
type Iterator struct{}

func (Iterator) ShowName() string { return "any iterable" }
func (Iterator) Convert(origin expr.Expr) (any, bool) {
	it, ok := origin.(interface{ Iterate() []expr.Expr })
	if !ok {
		return nil, false
	}
	return it.Iterate(), true
}

// ListOf accepts an AcaciaList whose every element converts via Inner, and
// converts it to a Go []any of the converted elements.
type ListOf struct{ Inner Converter }

func (l ListOf) ShowName() string { return "list of " + l.Inner.ShowName() }
func (l ListOf) Convert(origin expr.Expr) (any, bool) {
	lst, ok := origin.(*expr.AcaciaList)
	if !ok {
		return nil, false
	}
	out := make([]any, len(lst.Items))
	for i, item := range lst.Items {
		v, ok := l.Inner.Convert(item)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// MapOf accepts an AcaciaMap whose every key/value pair converts via Key
// and Value, and converts it to a Go map[any]any.
type MapOf struct{ Key, Value Converter }

func (m MapOf) ShowName() string {
	return fmt.Sprintf("map (%s: %s)", m.Key.ShowName(), m.Value.ShowName())
}
func (m MapOf) Convert(origin expr.Expr) (any, bool) {
	mp, ok := origin.(*expr.AcaciaMap)
	if !ok {
		return nil, false
	}
	out := map[any]any{}
	for _, entry := range mp.Entries() {
		k, ok := m.Key.Convert(entry.Key)
		if !ok {
			return nil, false
		}
		v, ok := m.Value.Convert(entry.Value)
		if !ok {
			return nil, false
		}
		out[k] = v
	}
	return out, true
}

// Callable accepts any callable Acacia expression (a value implementing
// the generator-side call capability); narrowed here to "has a Call
// method" so axe itself need not import the generator package.
type Callable struct{}

func (Callable) ShowName() string { return "(callable)" }
func (Callable) Convert(origin expr.Expr) (any, bool) {
	if _, ok := origin.(interface {
		IsAcaciaCallable()
	}); !ok {
		return nil, false
	}
	return origin, true
}
