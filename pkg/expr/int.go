package expr

import "github.com/CBerJun/acacia/pkg/cmds"

var intType = NewBrandType(BrandInt)

func addI32(a, b int32) (int32, bool) {
	r := int64(a) + int64(b)
	return int32(r), r >= -(1<<31) && r < (1<<31)
}

func subI32(a, b int32) (int32, bool) {
	r := int64(a) - int64(b)
	return int32(r), r >= -(1<<31) && r < (1<<31)
}

func mulI32(a, b int32) (int32, bool) {
	r := int64(a) * int64(b)
	return int32(r), r >= -(1<<31) && r < (1<<31)
}

// truncDiv/truncMod implement C-style truncated division and remainder,
// matching Minecraft's own `/=`/`%=` scoreboard operations (spec.md §8
// property 3): the quotient truncates toward zero and the remainder takes
// the sign of the dividend.
func truncDiv(a, b int32) int32 { return a / b }
func truncMod(a, b int32) int32 { return a % b }

// IntLiteral is a Python-style constant integer (spec.md §3.5): fully
// known at compile time, participates in constant folding.
type IntLiteral struct{ Value int32 }

func (c *IntLiteral) DataType() *DataType { return intType }

func (c *IntLiteral) Export(dst Storable, m *cmds.FunctionsManager) []cmds.Command {
	slot := mustSlot(dst)
	return []cmds.Command{&cmds.ScbSetConst{Slot: slot, Value: c.Value}}
}

func (c *IntLiteral) IsLiteral() (int32, bool) { return c.Value, true }

func (c *IntLiteral) Add(rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error) {
	switch r := rhs.(type) {
	case *IntLiteral:
		v, ok := addI32(c.Value, r.Value)
		if !ok {
			return nil, nil, &ConstArithmeticError{Op: OpAdd, LHS: c.Value, RHS: r.Value}
		}
		return &IntLiteral{Value: v}, nil, nil
	case *IntVar:
		return newIntOpGroupConst(c.Value).withOpVar(cmds.OpAdd, r.Slot), nil, nil
	case *IntOpGroup:
		setup, slot := r.exportToTemp(m)
		return newIntOpGroupConst(c.Value).withOpVar(cmds.OpAdd, slot), setup, nil
	default:
		return nil, nil, &OpError{Op: OpAdd, LHSType: intType, RHSType: rhs.DataType()}
	}
}

func (c *IntLiteral) Sub(rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error) {
	if r, ok := rhs.(*IntLiteral); ok {
		v, ok := subI32(c.Value, r.Value)
		if !ok {
			return nil, nil, &ConstArithmeticError{Op: OpSub, LHS: c.Value, RHS: r.Value}
		}
		return &IntLiteral{Value: v}, nil, nil
	}
	return liftConstOp(c.Value, OpSub, cmds.OpSub, rhs, m)
}

func (c *IntLiteral) Mul(rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error) {
	if r, ok := rhs.(*IntLiteral); ok {
		v, ok := mulI32(c.Value, r.Value)
		if !ok {
			return nil, nil, &ConstArithmeticError{Op: OpMul, LHS: c.Value, RHS: r.Value}
		}
		return &IntLiteral{Value: v}, nil, nil
	}
	return liftConstOp(c.Value, OpMul, cmds.OpMul, rhs, m)
}

func (c *IntLiteral) Div(rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error) {
	if r, ok := rhs.(*IntLiteral); ok {
		if r.Value == 0 {
			return nil, nil, &DivisionByZeroError{Op: OpDiv}
		}
		return &IntLiteral{Value: truncDiv(c.Value, r.Value)}, nil, nil
	}
	return liftConstOp(c.Value, OpDiv, cmds.OpDiv, rhs, m)
}

func (c *IntLiteral) Mod(rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error) {
	if r, ok := rhs.(*IntLiteral); ok {
		if r.Value == 0 {
			return nil, nil, &DivisionByZeroError{Op: OpMod}
		}
		return &IntLiteral{Value: truncMod(c.Value, r.Value)}, nil, nil
	}
	return liftConstOp(c.Value, OpMod, cmds.OpMod, rhs, m)
}

func (c *IntLiteral) Neg() (Expr, error) {
	v, ok := subI32(0, c.Value)
	if !ok {
		return nil, &ConstArithmeticError{Op: OpNeg, LHS: 0, RHS: c.Value}
	}
	return &IntLiteral{Value: v}, nil
}

// liftConstOp promotes an IntLiteral left-hand side into an IntOpGroup
// seeded with set-const when the right-hand side is a variable, per
// spec.md §3.5's "higher absorbs lower" priority rule.
func liftConstOp(lhs int32, op OpKind, scbOp cmds.ScbOp, rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error) {
	switch r := rhs.(type) {
	case *IntVar:
		return newIntOpGroupConst(lhs).withOpVar(scbOp, r.Slot), nil, nil
	case *IntOpGroup:
		setup, slot := r.exportToTemp(m)
		return newIntOpGroupConst(lhs).withOpVar(scbOp, slot), setup, nil
	default:
		return nil, nil, &OpError{Op: op, LHSType: intType, RHSType: rhs.DataType()}
	}
}

func mustSlot(dst Storable) cmds.ScbSlot {
	slot, ok := dst.scbSlotOrNil()
	if !ok {
		panic("expr: Export target has no backing scoreboard slot")
	}
	return slot
}

// IntVar is a single scoreboard slot holding an integer (spec.md §3.5).
// Assignable.
type IntVar struct{ Slot cmds.ScbSlot }

func (v *IntVar) DataType() *DataType            { return intType }
func (v *IntVar) scbSlotOrNil() (cmds.ScbSlot, bool) { return v.Slot, true }

func (v *IntVar) Export(dst Storable, m *cmds.FunctionsManager) []cmds.Command {
	slot := mustSlot(dst)
	if slot == v.Slot {
		return nil
	}
	return []cmds.Command{&cmds.ScbOperation{A: slot, B: v.Slot, Op: cmds.OpAssign}}
}

func (v *IntVar) Add(rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error) {
	return v.binOp(OpAdd, cmds.OpAdd, rhs, m)
}
func (v *IntVar) Sub(rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error) {
	return v.binOp(OpSub, cmds.OpSub, rhs, m)
}
func (v *IntVar) Mul(rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error) {
	return v.binOp(OpMul, cmds.OpMul, rhs, m)
}
func (v *IntVar) Div(rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error) {
	return v.binOp(OpDiv, cmds.OpDiv, rhs, m)
}
func (v *IntVar) Mod(rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error) {
	return v.binOp(OpMod, cmds.OpMod, rhs, m)
}

// binOp promotes v (a single-slot IntVar, which can only ever hold one
// pending opcode) into an IntOpGroup seeded with set-var, then queues the
// requested step against rhs (spec.md §3.5's priority order: IntOpGroup >
// IntVar > IntLiteral).
func (v *IntVar) binOp(op OpKind, scbOp cmds.ScbOp, rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error) {
	switch r := rhs.(type) {
	case *IntLiteral:
		return newIntOpGroupVar(v.Slot).withOpConst(scbOp, r.Value), nil, nil
	case *IntVar:
		return newIntOpGroupVar(v.Slot).withOpVar(scbOp, r.Slot), nil, nil
	case *IntOpGroup:
		setup, slot := r.exportToTemp(m)
		return newIntOpGroupVar(v.Slot).withOpVar(scbOp, slot), setup, nil
	default:
		return nil, nil, &OpError{Op: op, LHSType: intType, RHSType: rhs.DataType()}
	}
}

// Compound-assignment helpers (spec.md §4.5's augmented-assignment
// dispatch): IAdd/ISub/IMul/IDiv/IMod fold a single-step scoreboard opcode
// directly against v's own slot when rhs is const/var, avoiding the
// general Add-then-export round trip; an IntOpGroup rhs still requires
// materializing first.
func (v *IntVar) IAdd(rhs Expr, m *cmds.FunctionsManager) ([]cmds.Command, error) {
	return v.iOp(cmds.OpAdd, rhs, m)
}
func (v *IntVar) ISub(rhs Expr, m *cmds.FunctionsManager) ([]cmds.Command, error) {
	return v.iOp(cmds.OpSub, rhs, m)
}
func (v *IntVar) IMul(rhs Expr, m *cmds.FunctionsManager) ([]cmds.Command, error) {
	return v.iOp(cmds.OpMul, rhs, m)
}
func (v *IntVar) IDiv(rhs Expr, m *cmds.FunctionsManager) ([]cmds.Command, error) {
	return v.iOp(cmds.OpDiv, rhs, m)
}
func (v *IntVar) IMod(rhs Expr, m *cmds.FunctionsManager) ([]cmds.Command, error) {
	return v.iOp(cmds.OpMod, rhs, m)
}

func (v *IntVar) iOp(scbOp cmds.ScbOp, rhs Expr, m *cmds.FunctionsManager) ([]cmds.Command, error) {
	switch r := rhs.(type) {
	case *IntLiteral:
		switch scbOp {
		case cmds.OpAdd:
			return []cmds.Command{&cmds.ScbAddConst{Slot: v.Slot, Value: r.Value}}, nil
		case cmds.OpSub:
			return []cmds.Command{&cmds.ScbRemoveConst{Slot: v.Slot, Value: r.Value}}, nil
		default:
			constSlot := m.AddIntConst(r.Value)
			return []cmds.Command{&cmds.ScbOperation{A: v.Slot, B: constSlot, Op: scbOp}}, nil
		}
	case *IntVar:
		return []cmds.Command{&cmds.ScbOperation{A: v.Slot, B: r.Slot, Op: scbOp}}, nil
	case *IntOpGroup:
		setup, slot := r.exportToTemp(m)
		setup = append(setup, &cmds.ScbOperation{A: v.Slot, B: slot, Op: scbOp})
		return setup, nil
	default:
		return nil, &OpError{Op: OpAdd, LHSType: intType, RHSType: rhs.DataType()}
	}
}

// intOpStepKind tags one opcode in an IntOpGroup's pending queue.
type intOpStepKind int

const (
	stepSetConst intOpStepKind = iota
	stepSetVar
	stepOpConst
	stepOpVar
	stepRandom
)

// intOpStep is one opcode-level step (spec.md §3.5).
type intOpStep struct {
	kind     intOpStepKind
	scbOp    cmds.ScbOp
	constVal int32
	varSlot  cmds.ScbSlot
	min, max int32 // stepRandom
}

// IntOpGroup is a lazy sequence of opcode-level steps that chooses its own
// destination slot when exported (spec.md §3.5). It is the highest-
// priority integer representation: binary ops against any other integer
// variant fold into (i.e. extend) the group rather than the reverse.
type IntOpGroup struct{ steps []intOpStep }

func newIntOpGroupConst(v int32) *IntOpGroup {
	return &IntOpGroup{steps: []intOpStep{{kind: stepSetConst, constVal: v}}}
}

func newIntOpGroupVar(slot cmds.ScbSlot) *IntOpGroup {
	return &IntOpGroup{steps: []intOpStep{{kind: stepSetVar, varSlot: slot}}}
}

// NewIntOpGroupRandom seeds a group with `scoreboard players random`.
func NewIntOpGroupRandom(min, max int32) *IntOpGroup {
	return &IntOpGroup{steps: []intOpStep{{kind: stepRandom, min: min, max: max}}}
}

func (g *IntOpGroup) clone() *IntOpGroup {
	ng := &IntOpGroup{steps: make([]intOpStep, len(g.steps))}
	copy(ng.steps, g.steps)
	return ng
}

func (g *IntOpGroup) withOpConst(op cmds.ScbOp, v int32) *IntOpGroup {
	ng := g.clone()
	ng.steps = append(ng.steps, intOpStep{kind: stepOpConst, scbOp: op, constVal: v})
	return ng
}

func (g *IntOpGroup) withOpVar(op cmds.ScbOp, slot cmds.ScbSlot) *IntOpGroup {
	ng := g.clone()
	ng.steps = append(ng.steps, intOpStep{kind: stepOpVar, scbOp: op, varSlot: slot})
	return ng
}

func (g *IntOpGroup) DataType() *DataType { return intType }

// resolveInto renders this group's full step queue against dst, handling
// the `x *= x` self-alias hazard (spec.md §9's open question) by detecting
// whether dst appears as a later read source in the queue: if so, the
// queue is built up in a fresh temporary first and copied into dst only at
// the very end, rather than ever operating in place against a slot that
// the queue still needs to read from.
func (g *IntOpGroup) resolveInto(dst cmds.ScbSlot, m *cmds.FunctionsManager) []cmds.Command {
	if g.readsSlotAfterFirstStep(dst) {
		tmp := m.Allocate()
		cmdsOut := g.resolveIntoFresh(tmp, m)
		cmdsOut = append(cmdsOut, &cmds.ScbOperation{A: dst, B: tmp, Op: cmds.OpAssign})
		return cmdsOut
	}
	return g.resolveIntoFresh(dst, m)
}

// readsSlotAfterFirstStep reports whether slot is read by any stepOpVar
// step; the first step (set-const/set-var) always establishes dst's
// initial value and is never itself a hazard.
func (g *IntOpGroup) readsSlotAfterFirstStep(slot cmds.ScbSlot) bool {
	for _, s := range g.steps[1:] {
		if s.kind == stepOpVar && s.varSlot == slot {
			return true
		}
	}
	return false
}

func (g *IntOpGroup) resolveIntoFresh(dst cmds.ScbSlot, m *cmds.FunctionsManager) []cmds.Command {
	var out []cmds.Command
	for _, s := range g.steps {
		switch s.kind {
		case stepSetConst:
			out = append(out, &cmds.ScbSetConst{Slot: dst, Value: s.constVal})
		case stepSetVar:
			out = append(out, &cmds.ScbOperation{A: dst, B: s.varSlot, Op: cmds.OpAssign})
		case stepOpConst:
			out = append(out, opConstCommand(dst, s.scbOp, s.constVal, m))
		case stepOpVar:
			out = append(out, &cmds.ScbOperation{A: dst, B: s.varSlot, Op: s.scbOp})
		case stepRandom:
			out = append(out, &cmds.ScbRandom{Slot: dst, Min: s.min, Max: s.max})
		}
	}
	return out
}

// opConstCommand renders a stepOpConst step; add/sub of a constant use the
// dedicated single-argument commands, everything else has no direct
// `operation <op>= <lit>` form in Minecraft, so the constant is memoized
// into its own slot (FunctionsManager.AddIntConst) and the step becomes a
// regular slot-to-slot operation against it.
func opConstCommand(dst cmds.ScbSlot, op cmds.ScbOp, v int32, m *cmds.FunctionsManager) cmds.Command {
	switch op {
	case cmds.OpAdd:
		return &cmds.ScbAddConst{Slot: dst, Value: v}
	case cmds.OpSub:
		return &cmds.ScbRemoveConst{Slot: dst, Value: v}
	default:
		return &cmds.ScbOperation{A: dst, B: m.AddIntConst(v), Op: op}
	}
}

// Export renders this group's queue directly into dst's slot.
func (g *IntOpGroup) Export(dst Storable, m *cmds.FunctionsManager) []cmds.Command {
	return g.resolveInto(mustSlot(dst), m)
}

// exportToTemp exports this group into a fresh temporary, returning the
// setup commands and the slot now holding the result; used when this group
// is absorbed as an operand into another expression (spec.md §4.5, §9).
func (g *IntOpGroup) exportToTemp(m *cmds.FunctionsManager) ([]cmds.Command, cmds.ScbSlot) {
	tmp := m.Allocate()
	return g.resolveInto(tmp, m), tmp
}

func (g *IntOpGroup) Add(rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error) {
	return g.binOp(OpAdd, cmds.OpAdd, rhs, m)
}
func (g *IntOpGroup) Sub(rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error) {
	return g.binOp(OpSub, cmds.OpSub, rhs, m)
}
func (g *IntOpGroup) Mul(rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error) {
	return g.binOp(OpMul, cmds.OpMul, rhs, m)
}
func (g *IntOpGroup) Div(rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error) {
	return g.binOp(OpDiv, cmds.OpDiv, rhs, m)
}
func (g *IntOpGroup) Mod(rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error) {
	return g.binOp(OpMod, cmds.OpMod, rhs, m)
}

func (g *IntOpGroup) binOp(op OpKind, scbOp cmds.ScbOp, rhs Expr, m *cmds.FunctionsManager) (Expr, []cmds.Command, error) {
	switch r := rhs.(type) {
	case *IntLiteral:
		switch scbOp {
		case cmds.OpAdd, cmds.OpSub:
			return g.withOpConst(scbOp, r.Value), nil, nil
		default:
			return g.withOpVar(scbOp, m.AddIntConst(r.Value)), nil, nil
		}
	case *IntVar:
		return g.withOpVar(scbOp, r.Slot), nil, nil
	case *IntOpGroup:
		setup, slot := r.exportToTemp(m)
		return g.withOpVar(scbOp, slot), setup, nil
	default:
		return nil, nil, &OpError{Op: op, LHSType: intType, RHSType: rhs.DataType()}
	}
}
