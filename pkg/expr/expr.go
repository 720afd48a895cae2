package expr

import "github.com/CBerJun/acacia/pkg/cmds"

// OpKind names a binary/unary operator for OpError reporting and for
// AcaciaExpr's optional-capability dispatch (spec.md §3.5, §9 — this
// replaces the Python source's per-operator duck-typed method lookup with
// one exhaustive switch per concrete Expr variant).
type OpKind int

const (
	OpAdd OpKind = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
	OpPos
	OpNot
	OpEQ
	OpNE
	OpLT
	OpLE
	OpGT
	OpGE
	OpAnd
	OpOr
)

// OpError reports that a concrete Expr variant does not support the
// requested operator against the given operand type, replacing the Python
// source's raised InvalidOpError (spec.md §9).
type OpError struct {
	Op       OpKind
	LHSType  *DataType
	RHSType  *DataType // nil for unary operators
}

func (e *OpError) Error() string {
	if e.RHSType == nil {
		return "unsupported unary operator on " + e.LHSType.String()
	}
	return "unsupported operator between " + e.LHSType.String() + " and " + e.RHSType.String()
}

// Expr is implemented by every value variant: constants (ConstExpr) and
// scoreboard/tag-backed variables (VarValue) alike (spec.md §3.5's
// AcaciaExpr). Binary/unary/comparison capabilities are expressed as
// additional narrower interfaces (Adder, Comparer, ...) that a concrete
// variant implements only when it supports that operation; callers type-
// assert and fall back to an OpError when the assertion fails, mirroring
// the Python source's raise-on-unsupported-operation behavior without
// resorting to reflection.
type Expr interface {
	// DataType is this value's type descriptor.
	DataType() *DataType
	// Export emits the commands that store this value into dst
	// (storable types only; panics if this variant is not storable).
	Export(dst Storable, m *cmds.FunctionsManager) []cmds.Command
}

// Storable is implemented by every Expr variant that can be an assignment
// destination (IntVar, BoolVar, and eventually struct/entity field slots).
type Storable interface {
	Expr
	scbSlotOrNil() (cmds.ScbSlot, bool)
}

// AttrHolder is implemented by any value exposing a name-to-value
// attribute table (spec.md's "attribute_table: a name→expr map carrying
// methods and fields") — entity/struct values and host-defined CT objects
// such as a binary module's Task all satisfy this the same way, so a
// future attribute-access generator step can look members up uniformly
// regardless of what kind of value it's looking them up on.
type AttrHolder interface {
	AttrTable() map[string]any
}

// Binary operator capabilities take the FunctionsManager because absorbing
// a lower-priority operand (spec.md §3.5's "higher absorbs lower") may need
// to materialize a temporary — e.g. adding two IntOpGroups requires
// exporting the right-hand group to a scratch slot first (spec.md §4.5's
// _imul_div_mod open question). Implementations return any setup commands
// that must run before the resulting Expr is itself used.

// Adder is implemented by Expr variants supporting `+`.
type Adder interface {
	Add(rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error)
}

// Suber is implemented by Expr variants supporting `-`.
type Suber interface {
	Sub(rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error)
}

// Muler is implemented by Expr variants supporting `*`.
type Muler interface {
	Mul(rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error)
}

// Diver is implemented by Expr variants supporting `/` (C-style truncated
// division, spec.md §8 property 3).
type Diver interface {
	Div(rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error)
}

// Moder is implemented by Expr variants supporting `%` (C-style truncated
// remainder, matching Minecraft's own `%=` semantics).
type Moder interface {
	Mod(rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error)
}

// Negater is implemented by Expr variants supporting unary `-`.
type Negater interface {
	Neg() (Expr, error)
}

// Comparer is implemented by Expr variants supporting rich comparison; the
// result may be a BoolExpr capable of decomposing into execute subcommands
// (spec.md §3.5's CompareBase).
type Comparer interface {
	Compare(op OpKind, rhs Expr, m *cmds.FunctionsManager) (BoolExpr, []cmds.Command, error)
}

// BoolExpr narrows Expr to the boolean-valued variants; AndGroup/OrGroup
// lowering (spec.md §4.5) operates over this interface.
type BoolExpr interface {
	Expr
	// IsLiteral reports whether this is a BoolLiteral, and its value.
	IsLiteral() (value bool, ok bool)
}
