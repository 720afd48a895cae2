package expr

import "github.com/CBerJun/acacia/pkg/cmds"

var boolType = NewBrandType(BrandBool)

// BoolLiteral is a compile-time-known boolean (spec.md §3.5).
type BoolLiteral struct{ Value bool }

func (c *BoolLiteral) DataType() *DataType          { return boolType }
func (c *BoolLiteral) IsLiteral() (bool, bool)       { return c.Value, true }
func (c *BoolLiteral) Export(dst Storable, m *cmds.FunctionsManager) []cmds.Command {
	v := int32(0)
	if c.Value {
		v = 1
	}
	return []cmds.Command{&cmds.ScbSetConst{Slot: mustSlot(dst), Value: v}}
}

// BoolVar is a scoreboard slot holding 0 (false) or 1 (true), spec.md §3.5.
type BoolVar struct{ Slot cmds.ScbSlot }

func (v *BoolVar) DataType() *DataType              { return boolType }
func (v *BoolVar) IsLiteral() (bool, bool)          { return false, false }
func (v *BoolVar) scbSlotOrNil() (cmds.ScbSlot, bool) { return v.Slot, true }

func (v *BoolVar) Export(dst Storable, m *cmds.FunctionsManager) []cmds.Command {
	slot := mustSlot(dst)
	if slot == v.Slot {
		return nil
	}
	return []cmds.Command{&cmds.ScbOperation{A: slot, B: v.Slot, Op: cmds.OpAssign}}
}

// subcmds renders this boolean as a positive `execute` condition: "score
// <slot> matches 1".
func (v *BoolVar) subcmds() []cmds.ExecuteSubcmd {
	return []cmds.ExecuteSubcmd{cmds.ExecuteScoreMatch{Slot: v.Slot, Lo: 1, Hi: 1, HasLo: true, HasHi: true}}
}

// NotBoolVar is the logical negation of a BoolVar without its own slot
// (spec.md §3.5) — it renders as "matches 0" rather than materializing a
// new variable.
type NotBoolVar struct{ Inner *BoolVar }

func (v *NotBoolVar) DataType() *DataType     { return boolType }
func (v *NotBoolVar) IsLiteral() (bool, bool) { return false, false }

func (v *NotBoolVar) Export(dst Storable, m *cmds.FunctionsManager) []cmds.Command {
	slot := mustSlot(dst)
	return []cmds.Command{
		&cmds.ScbSetConst{Slot: slot, Value: 1},
		&cmds.Execute{
			Subcmds: []cmds.ExecuteSubcmd{cmds.ExecuteScoreMatch{Slot: v.Inner.Slot, Lo: 1, Hi: 1, HasLo: true, HasHi: true}},
			Runs:    &cmds.ScbSetConst{Slot: slot, Value: 0},
		},
	}
}

func (v *NotBoolVar) subcmds() []cmds.ExecuteSubcmd {
	return []cmds.ExecuteSubcmd{cmds.ExecuteScoreMatch{Slot: v.Inner.Slot, Lo: 0, Hi: 0, HasLo: true, HasHi: true}}
}

// compareOpFlip returns the op with lhs/rhs swapped (used when the literal
// operand of a comparison is on the left).
func compareOpFlip(op OpKind) OpKind {
	switch op {
	case OpLT:
		return OpGT
	case OpLE:
		return OpGE
	case OpGT:
		return OpLT
	case OpGE:
		return OpLE
	default:
		return op
	}
}

// Compare implements spec.md §3.5's rich comparison for IntLiteral:
// literal-literal folds to BoolLiteral, literal-variable promotes to a
// ScbMatchesCompare/ScbEqualCompare range test, per priority order.
func (c *IntLiteral) Compare(op OpKind, rhs Expr, m *cmds.FunctionsManager) (BoolExpr, []cmds.Command, error) {
	switch r := rhs.(type) {
	case *IntLiteral:
		return &BoolLiteral{Value: foldIntCompare(op, c.Value, r.Value)}, nil, nil
	case *IntVar:
		return compareVarAgainstConst(compareOpFlip(op), r.Slot, c.Value), nil, nil
	default:
		return nil, nil, &OpError{Op: op, LHSType: intType, RHSType: rhs.DataType()}
	}
}

// Compare implements spec.md §3.5's rich comparison for IntVar: against a
// literal it becomes a range/equality test; against another variable it
// becomes an IntCompare (two-slot `execute if score a op b`).
func (v *IntVar) Compare(op OpKind, rhs Expr, m *cmds.FunctionsManager) (BoolExpr, []cmds.Command, error) {
	switch r := rhs.(type) {
	case *IntLiteral:
		return compareVarAgainstConst(op, v.Slot, r.Value), nil, nil
	case *IntVar:
		return &IntCompare{A: v.Slot, B: r.Slot, Op: op}, nil, nil
	default:
		return nil, nil, &OpError{Op: op, LHSType: intType, RHSType: rhs.DataType()}
	}
}

func foldIntCompare(op OpKind, a, b int32) bool {
	switch op {
	case OpEQ:
		return a == b
	case OpNE:
		return a != b
	case OpLT:
		return a < b
	case OpLE:
		return a <= b
	case OpGT:
		return a > b
	case OpGE:
		return a >= b
	default:
		return false
	}
}

// compareVarAgainstConst builds the range/equality BoolExpr for `slot op
// literal`, splitting on whether op is an equality test (ScbEqualCompare)
// or a relational one (ScbMatchesCompare), per spec.md §3.5's distinct
// variants — only ScbMatchesCompare participates in range fusion
// (spec.md §4.5, §8 property 4).
func compareVarAgainstConst(op OpKind, slot cmds.ScbSlot, value int32) BoolExpr {
	switch op {
	case OpEQ:
		return &ScbEqualCompare{Slot: slot, Value: value, Invert: false}
	case OpNE:
		return &ScbEqualCompare{Slot: slot, Value: value, Invert: true}
	case OpLT:
		return &ScbMatchesCompare{Slot: slot, HasHi: true, Hi: value - 1}
	case OpLE:
		return &ScbMatchesCompare{Slot: slot, HasHi: true, Hi: value}
	case OpGT:
		return &ScbMatchesCompare{Slot: slot, HasLo: true, Lo: value + 1}
	case OpGE:
		return &ScbMatchesCompare{Slot: slot, HasLo: true, Lo: value}
	default:
		panic("compareVarAgainstConst: not a comparison operator")
	}
}

// ScbEqualCompare is `slot == value` / `slot != value` (spec.md §3.5);
// kept distinct from ScbMatchesCompare since equality tests do not
// participate in range fusion.
type ScbEqualCompare struct {
	Slot   cmds.ScbSlot
	Value  int32
	Invert bool
}

func (c *ScbEqualCompare) DataType() *DataType     { return boolType }
func (c *ScbEqualCompare) IsLiteral() (bool, bool) { return false, false }

func (c *ScbEqualCompare) Export(dst Storable, m *cmds.FunctionsManager) []cmds.Command {
	return exportSubcmds(dst, c.subcmds())
}

func (c *ScbEqualCompare) subcmds() []cmds.ExecuteSubcmd {
	return []cmds.ExecuteSubcmd{cmds.ExecuteScoreMatch{
		Slot: c.Slot, Lo: c.Value, Hi: c.Value, HasLo: true, HasHi: true, Invert: c.Invert,
	}}
}

// ScbMatchesCompare is a one- or two-sided range test against a literal
// (spec.md §3.5): `<`, `<=`, `>`, `>=`, and the two-sided form produced by
// AND-fusing two such tests against the same slot.
type ScbMatchesCompare struct {
	Slot         cmds.ScbSlot
	Lo, Hi       int32
	HasLo, HasHi bool
}

func (c *ScbMatchesCompare) DataType() *DataType     { return boolType }
func (c *ScbMatchesCompare) IsLiteral() (bool, bool) { return false, false }

func (c *ScbMatchesCompare) Export(dst Storable, m *cmds.FunctionsManager) []cmds.Command {
	return exportSubcmds(dst, c.subcmds())
}

func (c *ScbMatchesCompare) subcmds() []cmds.ExecuteSubcmd {
	return []cmds.ExecuteSubcmd{cmds.ExecuteScoreMatch{Slot: c.Slot, Lo: c.Lo, Hi: c.Hi, HasLo: c.HasLo, HasHi: c.HasHi}}
}

// fuse intersects c with other (same slot assumed); ok is false if the
// resulting range is empty (spec.md §4.5 step 3, §8 property 4).
func (c *ScbMatchesCompare) fuse(other *ScbMatchesCompare) (*ScbMatchesCompare, bool) {
	lo, hasLo := c.Lo, c.HasLo
	if other.HasLo && (!hasLo || other.Lo > lo) {
		lo, hasLo = other.Lo, true
	}
	hi, hasHi := c.Hi, c.HasHi
	if other.HasHi && (!hasHi || other.Hi < hi) {
		hi, hasHi = other.Hi, true
	}
	if hasLo && hasHi && lo > hi {
		return nil, false
	}
	return &ScbMatchesCompare{Slot: c.Slot, Lo: lo, Hi: hi, HasLo: hasLo, HasHi: hasHi}, true
}

// IntCompare is a two-slot relational comparison (spec.md §3.5): `execute
// if score a <op> score b`.
type IntCompare struct {
	A, B cmds.ScbSlot
	Op   OpKind
}

func (c *IntCompare) DataType() *DataType     { return boolType }
func (c *IntCompare) IsLiteral() (bool, bool) { return false, false }

func (c *IntCompare) Export(dst Storable, m *cmds.FunctionsManager) []cmds.Command {
	return exportSubcmds(dst, c.subcmds())
}

func (c *IntCompare) subcmds() []cmds.ExecuteSubcmd {
	if c.Op == OpNE {
		return []cmds.ExecuteSubcmd{cmds.ExecuteScoreComp{A: c.A, B: c.B, Op: "=", Invert: true}}
	}
	ops := map[OpKind]string{OpLT: "<", OpLE: "<=", OpEQ: "=", OpGE: ">=", OpGT: ">"}
	return []cmds.ExecuteSubcmd{cmds.ExecuteScoreComp{A: c.A, B: c.B, Op: ops[c.Op]}}
}

// decomposable is implemented by every BoolExpr that can contribute
// subcommands to an `execute` chain directly (spec.md §3.5's "(deps,
// subcmds)" decomposition), excluding BoolLiteral (folded away earlier)
// and WildBool/NotWildBool (already bags of subcmds, handled separately).
type decomposable interface {
	subcmds() []cmds.ExecuteSubcmd
}

// exportSubcmds is the shared Export() implementation for every
// decomposable boolean variant: set target 0, then conditionally set it 1.
func exportSubcmds(dst Storable, subcmds []cmds.ExecuteSubcmd) []cmds.Command {
	slot := mustSlot(dst)
	return []cmds.Command{
		&cmds.ScbSetConst{Slot: slot, Value: 0},
		&cmds.Execute{Subcmds: subcmds, Runs: &cmds.ScbSetConst{Slot: slot, Value: 1}},
	}
}

// WildBool is a bag of `execute` subcommands plus fusable ranges,
// representing a conjunction whose members have already been lowered
// (spec.md §3.5, §4.5's new_and_group).
type WildBool struct {
	Subcmds []cmds.ExecuteSubcmd     // non-range subcommands (IntCompare, ExecuteCond, ...)
	Ranges  map[cmds.ScbSlot]*ScbMatchesCompare // fusable per-slot ranges
}

func (w *WildBool) DataType() *DataType     { return boolType }
func (w *WildBool) IsLiteral() (bool, bool) { return false, false }

func (w *WildBool) Export(dst Storable, m *cmds.FunctionsManager) []cmds.Command {
	return exportSubcmds(dst, w.subcmds())
}

func (w *WildBool) subcmds() []cmds.ExecuteSubcmd {
	out := append([]cmds.ExecuteSubcmd{}, w.Subcmds...)
	for _, r := range w.Ranges {
		out = append(out, cmds.ExecuteScoreMatch{Slot: r.Slot, Lo: r.Lo, Hi: r.Hi, HasLo: r.HasLo, HasHi: r.HasHi})
	}
	return out
}

// NotWildBool is the negation of a conjunction (spec.md §3.5): it cannot
// be re-expressed as a subcommand bag in general (De Morgan turns AND of
// NOTs into an OR, which `execute` cannot express directly), so it must be
// materialized into a BoolVar via Export before it can be combined further
// (spec.md §4.5 step 4).
type NotWildBool struct{ Inner *WildBool }

func (w *NotWildBool) DataType() *DataType     { return boolType }
func (w *NotWildBool) IsLiteral() (bool, bool) { return false, false }

func (w *NotWildBool) Export(dst Storable, m *cmds.FunctionsManager) []cmds.Command {
	slot := mustSlot(dst)
	return []cmds.Command{
		&cmds.ScbSetConst{Slot: slot, Value: 1},
		&cmds.Execute{Subcmds: w.Inner.subcmds(), Runs: &cmds.ScbSetConst{Slot: slot, Value: 0}},
	}
}

// singleton wraps any decomposable BoolExpr as a one-entry WildBool, the
// common form new_and_group folds every non-literal operand into before
// merging (spec.md §4.5).
func singleton(b BoolExpr) *WildBool {
	if w, ok := b.(*WildBool); ok {
		return w
	}
	if d, ok := b.(decomposable); ok {
		if mc, ok := d.(*ScbMatchesCompare); ok {
			return &WildBool{Ranges: map[cmds.ScbSlot]*ScbMatchesCompare{mc.Slot: mc}}
		}
		return &WildBool{Subcmds: d.subcmds()}
	}
	panic("expr: singleton() on a non-decomposable, non-literal BoolExpr")
}

// NewAndGroup implements spec.md §4.5's new_and_group: folds literal
// operands, fuses ScbMatchesCompare entries against the same slot, and
// materializes any NotWildBool operand into a temporary before merging.
func NewAndGroup(operands []BoolExpr, m *cmds.FunctionsManager) (BoolExpr, []cmds.Command, error) {
	var setup []cmds.Command
	acc := &WildBool{Ranges: map[cmds.ScbSlot]*ScbMatchesCompare{}}
	for _, op := range operands {
		if v, ok := op.IsLiteral(); ok {
			if !v {
				return &BoolLiteral{Value: false}, nil, nil
			}
			continue
		}
		var w *WildBool
		if nw, ok := op.(*NotWildBool); ok {
			tmp := &BoolVar{Slot: m.Allocate()}
			setup = append(setup, nw.Export(tmp, m)...)
			w = singleton(tmp)
		} else {
			w = singleton(op)
		}
		acc.Subcmds = append(acc.Subcmds, w.Subcmds...)
		for slot, r := range w.Ranges {
			if existing, ok := acc.Ranges[slot]; ok {
				fused, ok := existing.fuse(r)
				if !ok {
					return &BoolLiteral{Value: false}, nil, nil
				}
				acc.Ranges[slot] = fused
			} else {
				acc.Ranges[slot] = r
			}
		}
	}
	if len(acc.Subcmds) == 0 && len(acc.Ranges) == 0 {
		return &BoolLiteral{Value: true}, setup, nil
	}
	return acc, setup, nil
}

// NewOrGroup implements spec.md §4.5's `or`: De Morgan over new_and_group,
// `!(¬a ∧ ¬b ∧ …)`.
func NewOrGroup(operands []BoolExpr, m *cmds.FunctionsManager) (BoolExpr, []cmds.Command, error) {
	negated := make([]BoolExpr, len(operands))
	for i, op := range operands {
		n, err := negate(op)
		if err != nil {
			return nil, nil, err
		}
		negated[i] = n
	}
	anded, setup, err := NewAndGroup(negated, m)
	if err != nil {
		return nil, nil, err
	}
	result, err := negate(anded)
	return result, setup, err
}

// negate returns the logical negation of a BoolExpr without emitting any
// commands (a deferred, representational negation — materializing happens
// only if the result is later used as a NotWildBool operand to and_group).
func negate(b BoolExpr) (BoolExpr, error) {
	switch v := b.(type) {
	case *BoolLiteral:
		return &BoolLiteral{Value: !v.Value}, nil
	case *BoolVar:
		return &NotBoolVar{Inner: v}, nil
	case *NotBoolVar:
		return v.Inner, nil
	case *ScbEqualCompare:
		return &ScbEqualCompare{Slot: v.Slot, Value: v.Value, Invert: !v.Invert}, nil
	case *IntCompare:
		return &IntCompare{A: v.A, B: v.B, Op: negateOp(v.Op)}, nil
	case *ScbMatchesCompare:
		return negateMatches(v), nil
	case *WildBool:
		return &NotWildBool{Inner: v}, nil
	case *NotWildBool:
		return v.Inner, nil
	default:
		return nil, &OpError{Op: OpNot, LHSType: boolType}
	}
}

func negateOp(op OpKind) OpKind {
	switch op {
	case OpLT:
		return OpGE
	case OpLE:
		return OpGT
	case OpGT:
		return OpLE
	case OpGE:
		return OpLT
	case OpEQ:
		return OpNE
	default:
		return OpEQ
	}
}

// Not returns the logical negation of b (the `not` operator), deferring any
// materialization the same way and_group's own negation does — it only
// costs commands once the result is actually exported or fed back into
// NewAndGroup as a NotWildBool operand.
func Not(b BoolExpr) (BoolExpr, error) { return negate(b) }

// Condition lowers a BoolExpr into the `execute` subcommands that test it
// directly, for use by a caller building an `if cond: ...` branch (spec.md
// §4.5). A BoolLiteral has no subcommand form; the caller is expected to
// special-case IsLiteral itself rather than call Condition on a literal.
// NotWildBool cannot contribute subcommands directly (see its doc comment),
// so it is materialized into a temporary BoolVar first; the commands that
// must run before the returned subcommands are evaluated are setup.
func Condition(b BoolExpr, m *cmds.FunctionsManager) (subcmds []cmds.ExecuteSubcmd, setup []cmds.Command, err error) {
	if _, ok := b.IsLiteral(); ok {
		return nil, nil, &OpError{Op: OpAnd, LHSType: boolType}
	}
	if nw, ok := b.(*NotWildBool); ok {
		tmp := &BoolVar{Slot: m.Allocate()}
		setup = nw.Export(tmp, m)
		return tmp.subcmds(), setup, nil
	}
	d, ok := b.(decomposable)
	if !ok {
		return nil, nil, &OpError{Op: OpAnd, LHSType: boolType}
	}
	return d.subcmds(), nil, nil
}

// negateMatches negates a one-sided range directly into its complementary
// one-sided range (e.g. `>= n` negates to `< n`); a two-sided (already
// fused) range has no single-sided complement, so it is wrapped as a
// NotWildBool instead.
func negateMatches(c *ScbMatchesCompare) BoolExpr {
	switch {
	case c.HasLo && !c.HasHi:
		return &ScbMatchesCompare{Slot: c.Slot, HasHi: true, Hi: c.Lo - 1}
	case c.HasHi && !c.HasLo:
		return &ScbMatchesCompare{Slot: c.Slot, HasLo: true, Lo: c.Hi + 1}
	default:
		return &NotWildBool{Inner: singleton(c)}
	}
}
