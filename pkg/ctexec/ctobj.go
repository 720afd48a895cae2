// Package ctexec implements the compile-time executer (spec.md §4.7): a
// second AST visitor, separate from pkg/generator, that re-interprets an
// AST subtree directly against a compile-time scope instead of lowering
// it into the Command IR. It backs `const` definitions, `for`/`while`
// bodies whose bound is known at compile time, and reference (`&x`)
// aliasing, and refuses every construct that would require emitting a
// runtime command.
package ctexec

import "fmt"

// CTObj is implemented by every compile-time value: the constant-folding
// counterpart to pkg/expr's runtime Expr (spec.md §4.7, §9). Unlike Expr,
// a CTObj never carries emitted commands — producing one is pure Go
// computation over the literal value.
type CTObj interface {
	CTTypeName() string
}

// CTInt is a compile-time integer.
type CTInt struct{ Value int64 }

func (*CTInt) CTTypeName() string { return "int" }

// CTFloat is a compile-time float.
type CTFloat struct{ Value float64 }

func (*CTFloat) CTTypeName() string { return "float" }

// CTBool is a compile-time boolean.
type CTBool struct{ Value bool }

func (*CTBool) CTTypeName() string { return "bool" }

// CTString is a compile-time string.
type CTString struct{ Value string }

func (*CTString) CTTypeName() string { return "str" }

// CTNone is the sole compile-time `None` value.
type CTNone struct{}

func (*CTNone) CTTypeName() string { return "None" }

// None is the shared CTNone instance; CTNone carries no state so every
// site that produces it can share one value.
var None = &CTNone{}

// CTList is a compile-time list; elements may be of mixed type, as in
// Python.
type CTList struct{ Elems []CTObj }

func (*CTList) CTTypeName() string { return "list" }

func (l *CTList) CTIterate() ([]CTObj, error) { return l.Elems, nil }

// CTMap is a compile-time map. Keys are compared by their canonical key
// string (ctKey), not by Go identity, matching the value-equality
// semantics of Acacia's own constant containers.
type CTMap struct {
	keys   []CTObj
	values []CTObj
	index  map[string]int
}

func NewCTMap() *CTMap { return &CTMap{index: map[string]int{}} }

func (*CTMap) CTTypeName() string { return "map" }

// Set inserts or overwrites the value for key.
func (m *CTMap) Set(key, value CTObj) error {
	k, err := ctKey(key)
	if err != nil {
		return err
	}
	if i, ok := m.index[k]; ok {
		m.values[i] = value
		return nil
	}
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
	return nil
}

// Get looks up key, reporting whether it was present.
func (m *CTMap) Get(key CTObj) (CTObj, bool, error) {
	k, err := ctKey(key)
	if err != nil {
		return nil, false, err
	}
	i, ok := m.index[k]
	if !ok {
		return nil, false, nil
	}
	return m.values[i], true, nil
}

// CTIterate yields this map's keys in insertion order, matching Python's
// default dict iteration.
func (m *CTMap) CTIterate() ([]CTObj, error) { return m.keys, nil }

// ctKey computes the canonical comparison key for a hashable CTObj; lists
// and maps are not hashable (as in Python) and return an error.
func ctKey(o CTObj) (string, error) {
	switch v := o.(type) {
	case *CTInt:
		return fmt.Sprintf("i%d", v.Value), nil
	case *CTFloat:
		return fmt.Sprintf("f%v", v.Value), nil
	case *CTBool:
		return fmt.Sprintf("b%v", v.Value), nil
	case *CTString:
		return "s" + v.Value, nil
	case *CTNone:
		return "n", nil
	default:
		return "", fmt.Errorf("ctexec: %s is not a valid map key", o.CTTypeName())
	}
}

// CTIterable is implemented by every CTObj that `for x in obj` may walk.
type CTIterable interface {
	CTIterate() ([]CTObj, error)
}

// CTAttrGetter is implemented by a CTObj exposing named attributes
// (`obj.name`); no built-in CTObj does yet — this is the hook the
// entity/struct/module const-value lowering built on top of this package
// will implement.
type CTAttrGetter interface {
	CTGetAttr(name string) (CTObj, bool)
}

// Arithmetic and comparison capability interfaces, mirroring
// pkg/expr.Adder/Suber/.../Comparer one level up: Go interface dispatch
// standing in for the original implementation's dynamic `cadd`/`csub`/
// `cmul`/`cdiv`/`cmod`/`cneg`/`ccompare` method lookup (spec.md §4.7, §9).
type (
	CTAdder    interface{ Cadd(rhs CTObj) (CTObj, error) }
	CTSuber    interface{ Csub(rhs CTObj) (CTObj, error) }
	CTMuler    interface{ Cmul(rhs CTObj) (CTObj, error) }
	CTDiver    interface{ Cdiv(rhs CTObj) (CTObj, error) }
	CTModer    interface{ Cmod(rhs CTObj) (CTObj, error) }
	CTNegater  interface{ Cneg() (CTObj, error) }
	CTComparer interface {
		Ccompare(op CompareOp, rhs CTObj) (*CTBool, error)
	}
)

// CompareOp mirrors ast.CompareOpKind without importing pkg/ast into the
// value-type file; eval.go converts between them at the one call site that
// needs both.
type CompareOp int

const (
	CmpLT CompareOp = iota
	CmpGT
	CmpLE
	CmpGE
	CmpEQ
	CmpNE
)
