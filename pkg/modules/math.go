package modules

import (
	"github.com/CBerJun/acacia/pkg/cmds"
	"github.com/CBerJun/acacia/pkg/expr"
	"github.com/CBerJun/acacia/pkg/modules/axe"
	"github.com/CBerJun/acacia/pkg/source"
)

func init() {
	Register("math", buildMath)
}

var intConv = axe.Typed{Type: expr.NewBrandType(expr.BrandInt)}

func buildMath(ctx *Context) (*Module, error) {
	return &Module{Attrs: map[string]any{
		"randintc": &BinaryFunc{Chopper: randintcChopper, Call: mathRandintc},
		"powc":     &BinaryFunc{Chopper: powcChopper, Call: mathPowc},
		"min":      &BinaryFunc{Chopper: minMaxChopper, Call: mathMinMax(cmds.OpMin, "min")},
		"max":      &BinaryFunc{Chopper: minMaxChopper, Call: mathMinMax(cmds.OpMax, "max")},
	}}, nil
}

var randintcChopper = axe.Chop(
	axe.PosOrKw("min", axe.LiteralInt{}),
	axe.PosOrKw("max", axe.LiteralInt{}),
)

// mathRandintc is `randintc(min: int-literal, max: int-literal) -> int`:
// a uniformly-distributed random integer in [min, max] (math.py's
// _randintc), backed directly by `scoreboard players random`.
func mathRandintc(ctx *Context, rng source.Range, args map[string]any) (expr.Expr, []cmds.Command, bool) {
	min := args["min"].(int32)
	max := args["max"].(int32)
	slot := ctx.M.Allocate()
	return &expr.IntVar{Slot: slot}, []cmds.Command{&cmds.ScbRandom{Slot: slot, Min: min, Max: max}}, true
}

var powcChopper = axe.Chop(
	axe.PosOrKw("x", intConv),
	axe.PosOrKw("y", axe.RangedLiteralInt{Min: 1, Max: 1 << 30}),
)

// mathPowc is `powc(x: int, y: int-literal) -> int`: x to the power of the
// compile-time-known positive exponent y (math.py's _powc). When x isn't
// itself a literal, x is copied into a fresh slot that is then multiplied
// by x y-1 times.
func mathPowc(ctx *Context, rng source.Range, args map[string]any) (expr.Expr, []cmds.Command, bool) {
	x := args["x"].(expr.Expr)
	y := args["y"].(int32)
	if lit, ok := x.(*expr.IntLiteral); ok {
		v, err := constPow(lit.Value, y)
		if err != nil {
			ArgError(ctx, rng, "y", "result overflows 32-bit range")
			return nil, nil, false
		}
		return &expr.IntLiteral{Value: v}, nil, true
	}
	xSlot, setup := materializeInt(ctx.M, x)
	slot := ctx.M.Allocate()
	cmdList := append([]cmds.Command{}, setup...)
	cmdList = append(cmdList, &cmds.ScbOperation{A: slot, B: xSlot, Op: cmds.OpAssign})
	for i := int32(1); i < y; i++ {
		cmdList = append(cmdList, &cmds.ScbOperation{A: slot, B: xSlot, Op: cmds.OpMul})
	}
	return &expr.IntVar{Slot: slot}, cmdList, true
}

func constPow(base, exp int32) (int32, error) {
	r := int64(1)
	b := int64(base)
	for i := int32(0); i < exp; i++ {
		r *= b
		if r > (1<<31-1) || r < -(1<<31) {
			return 0, errOverflow
		}
	}
	return int32(r), nil
}

var errOverflow = overflowError{}

type overflowError struct{}

func (overflowError) Error() string { return "integer overflow" }

var minMaxChopper = axe.Chop(axe.StarArgs("args", intConv))

// mathMinMax builds `min`/`max`(*args: int) -> int (math.py's _min/_max):
// at least one argument is required; the result is computed left-to-right
// via a chain of `scoreboard players operation <slot> < ...`/`> ...`.
func mathMinMax(op cmds.ScbOp, name string) Func {
	return func(ctx *Context, rng source.Range, args map[string]any) (expr.Expr, []cmds.Command, bool) {
		raw, _ := args["args"].([]any)
		if len(raw) == 0 {
			ArgError(ctx, rng, "args", name+" needs at least 1 argument")
			return nil, nil, false
		}
		first := raw[0].(expr.Expr)
		slot, cmdList := materializeInt(ctx.M, first)
		out := append([]cmds.Command{}, cmdList...)
		for _, a := range raw[1:] {
			other := a.(expr.Expr)
			otherSlot, setup := materializeInt(ctx.M, other)
			out = append(out, setup...)
			out = append(out, &cmds.ScbOperation{A: slot, B: otherSlot, Op: op})
		}
		return &expr.IntVar{Slot: slot}, out, true
	}
}
