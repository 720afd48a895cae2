package expr

import (
	"fmt"

	"github.com/CBerJun/acacia/pkg/cmds"
)

// Acacia has no runtime representation for strings, floats, lists, or
// maps — Minecraft's scoreboard can only ever hold a 32-bit integer, so
// these four types only ever exist as fully compile-time-known constants
// (spec.md §3.4's Str/Float/List/Map brands), mirroring
// acaciamc/mccmdgen/expression/{string,float_,list_,map_}.py's ConstExpr
// base: none of them implement Storable, so assigning one raises the
// normal "no backing slot" host-language bug rather than ever reaching
// Export.

var (
	strType   = NewBrandType(BrandStr)
	floatType = NewBrandType(BrandFloat)
	listType  = NewBrandType(BrandList)
	mapType   = NewBrandType(BrandMap)
	noneType  = NewBrandType(BrandAny)
)

// StringLiteral is a fully compile-time-known string (spec.md §3.4).
type StringLiteral struct{ Value string }

func (c *StringLiteral) DataType() *DataType { return strType }
func (c *StringLiteral) Export(Storable, *cmds.FunctionsManager) []cmds.Command {
	panic("expr: StringLiteral has no backing scoreboard slot")
}

// Concat implements Acacia string concatenation (`+`).
func (c *StringLiteral) Concat(rhs Expr) (*StringLiteral, error) {
	r, ok := rhs.(*StringLiteral)
	if !ok {
		return nil, &OpError{Op: OpAdd, LHSType: strType, RHSType: rhs.DataType()}
	}
	return &StringLiteral{Value: c.Value + r.Value}, nil
}

// FloatLiteral is a fully compile-time-known float (spec.md §3.4).
type FloatLiteral struct{ Value float64 }

func (c *FloatLiteral) DataType() *DataType { return floatType }
func (c *FloatLiteral) Export(Storable, *cmds.FunctionsManager) []cmds.Command {
	panic("expr: FloatLiteral has no backing scoreboard slot")
}

func (c *FloatLiteral) Add(rhs Expr) (*FloatLiteral, error) {
	r, err := asFloat(rhs)
	if err != nil {
		return nil, err
	}
	return &FloatLiteral{Value: c.Value + r}, nil
}
func (c *FloatLiteral) Sub(rhs Expr) (*FloatLiteral, error) {
	r, err := asFloat(rhs)
	if err != nil {
		return nil, err
	}
	return &FloatLiteral{Value: c.Value - r}, nil
}
func (c *FloatLiteral) Mul(rhs Expr) (*FloatLiteral, error) {
	r, err := asFloat(rhs)
	if err != nil {
		return nil, err
	}
	return &FloatLiteral{Value: c.Value * r}, nil
}
func (c *FloatLiteral) Div(rhs Expr) (*FloatLiteral, error) {
	r, err := asFloat(rhs)
	if err != nil {
		return nil, err
	}
	if r == 0 {
		return nil, &DivisionByZeroError{Op: OpDiv}
	}
	return &FloatLiteral{Value: c.Value / r}, nil
}

// asFloat accepts either a FloatLiteral or an IntLiteral operand, matching
// the original's implicit int-to-float promotion in mixed arithmetic.
func asFloat(e Expr) (float64, error) {
	switch v := e.(type) {
	case *FloatLiteral:
		return v.Value, nil
	case *IntLiteral:
		return float64(v.Value), nil
	default:
		return 0, &OpError{Op: OpAdd, LHSType: floatType, RHSType: e.DataType()}
	}
}

// NoneLiteral is Acacia's `None` (spec.md §3.4).
type NoneLiteral struct{}

func (c *NoneLiteral) DataType() *DataType { return noneType }
func (c *NoneLiteral) Export(Storable, *cmds.FunctionsManager) []cmds.Command {
	panic("expr: NoneLiteral has no backing scoreboard slot")
}

// AcaciaList is a fully compile-time-known, heterogeneous list (spec.md
// §3.4); mutation produces a fresh list rather than aliasing, matching
// acaciamc/mccmdgen/expression/list_.py's ConstExpr immutability.
type AcaciaList struct{ Items []Expr }

func (c *AcaciaList) DataType() *DataType { return listType }
func (c *AcaciaList) Export(Storable, *cmds.FunctionsManager) []cmds.Command {
	panic("expr: AcaciaList has no backing scoreboard slot")
}

// Iterate exposes this list's elements for a `for` loop over a compile-time
// iterable (spec.md §4.5).
func (c *AcaciaList) Iterate() []Expr { return c.Items }

// MapEntry is one key/value pair of an AcaciaMap, in insertion order so
// that equal-looking maps with different insertion histories still
// round-trip predictably through iteration.
type MapEntry struct {
	Key, Value Expr
}

// AcaciaMap is a fully compile-time-known map keyed by any hashable
// constant Expr (spec.md §3.4); keys are compared by Go equality, which is
// sound for every const key type this language allows (int/bool/string).
type AcaciaMap struct{ entries []MapEntry }

func NewAcaciaMap() *AcaciaMap { return &AcaciaMap{} }

func (c *AcaciaMap) DataType() *DataType { return mapType }
func (c *AcaciaMap) Export(Storable, *cmds.FunctionsManager) []cmds.Command {
	panic("expr: AcaciaMap has no backing scoreboard slot")
}

// Set inserts or overwrites key's value, preserving key's original
// position on overwrite (matching Python dict semantics, which the
// original relies on).
func (c *AcaciaMap) Set(key, value Expr) {
	k := constKey(key)
	for i, e := range c.entries {
		if constKey(e.Key) == k {
			c.entries[i].Value = value
			return
		}
	}
	c.entries = append(c.entries, MapEntry{Key: key, Value: value})
}

// Get looks up key, reporting whether it was present.
func (c *AcaciaMap) Get(key Expr) (Expr, bool) {
	k := constKey(key)
	for _, e := range c.entries {
		if constKey(e.Key) == k {
			return e.Value, true
		}
	}
	return nil, false
}

// Entries returns every key/value pair in insertion order.
func (c *AcaciaMap) Entries() []MapEntry { return c.entries }

// constKey renders a const Expr key to a comparable Go value.
func constKey(e Expr) any {
	switch v := e.(type) {
	case *IntLiteral:
		return v.Value
	case *BoolLiteral:
		return v.Value
	case *StringLiteral:
		return v.Value
	default:
		return fmt.Sprintf("%p", e)
	}
}
