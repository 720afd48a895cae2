// Task and register_loop from schedule.py, reduced to what's buildable
// without first-class function values: both only ever need "the FileID of
// an already-compiled body" (FileRef), not the body's own parameter list,
// so extra call arguments are not passed through to the target (see
// taskNew).
package modules

import (
	"github.com/CBerJun/acacia/pkg/cmds"
	"github.com/CBerJun/acacia/pkg/expr"
	"github.com/CBerJun/acacia/pkg/modules/axe"
	"github.com/CBerJun/acacia/pkg/source"
)

func init() {
	Register("schedule", buildSchedule)
}

var taskType = expr.NewBrandType(expr.BrandTask)

func buildSchedule(ctx *Context) (*Module, error) {
	return &Module{Attrs: map[string]any{
		"Task":          &BinaryFunc{Chopper: taskNewChopper, Call: taskNew},
		"register_loop": &BinaryFunc{Chopper: registerLoopChopper, Call: registerLoop},
	}}, nil
}

// TaskVal is a scheduled, cancellable, re-armable invocation of a target
// mcfunction body (schedule.py's Task): timer < 0 means "not scheduled",
// timer == 0 means "fire this tick", timer > 0 is ticks remaining.
type TaskVal struct {
	Timer      *expr.IntVar
	TargetFile cmds.FileID
	attrs      map[string]any
}

func (t *TaskVal) DataType() *expr.DataType { return taskType }
func (t *TaskVal) Export(expr.Storable, *cmds.FunctionsManager) []cmds.Command {
	panic("modules: TaskVal has no backing scoreboard slot")
}
func (t *TaskVal) AttrTable() map[string]any { return t.attrs }

var taskNewChopper = axe.Chop(
	axe.PosOrKw("target", axe.Callable{}),
	axe.StarArgs("args", axe.AnyValue{}),
	axe.Kwds("kwds", axe.AnyValue{}),
)

// taskNew is `Task(target: function, *args, **kwds)`'s constructor
// (schedule.py's TaskType.__new__): allocates the timer, initializes it to
// "not scheduled", and registers this task's own tick-check commands once.
//
// args/kwds are accepted but discarded: the target is invoked with no
// arguments.
func taskNew(ctx *Context, rng source.Range, args map[string]any) (expr.Expr, []cmds.Command, bool) {
	target := args["target"].(*FileRef)
	t := newTask(ctx.M, target.File)
	return t, nil, true
}

func newTask(m *cmds.FunctionsManager, target cmds.FileID) *TaskVal {
	slot := m.Allocate()
	t := &TaskVal{Timer: &expr.IntVar{Slot: slot}, TargetFile: target}
	m.File(m.FileInit).Commands = append(m.File(m.FileInit).Commands, &cmds.ScbSetConst{Slot: slot, Value: -1})
	m.File(m.FileTick).Commands = append(m.File(m.FileTick).Commands,
		&cmds.Execute{
			Subcmds: []cmds.ExecuteSubcmd{cmds.ExecuteScoreMatch{Slot: slot, Lo: 0, Hi: 0, HasLo: true, HasHi: true}},
			Runs:    &cmds.InvokeFunction{File: target},
		},
		&cmds.Execute{
			Subcmds: []cmds.ExecuteSubcmd{cmds.ExecuteScoreMatch{Slot: slot, HasLo: true, Lo: 0}},
			Runs:    &cmds.ScbRemoveConst{Slot: slot, Value: 1},
		},
	)
	t.attrs = map[string]any{
		"_timer":       t.Timer,
		"after":        &BinaryFunc{Chopper: taskAfterChopper, Call: t.after},
		"cancel":       &BinaryFunc{Chopper: axe.Chop(), Call: t.cancel},
		"has_schedule": &BinaryFunc{Chopper: axe.Chop(), Call: t.hasSchedule},
	}
	return t
}

var taskAfterChopper = axe.Chop(axe.PosOrKw("timer", intConv).WithDefault(expr.Expr(&expr.IntLiteral{Value: 0})))

// after is `.after(timer: int = 0)` (schedule.py's Task.after): exports
// the given delay (in ticks, possibly itself a runtime expression) into
// this task's timer, arming it.
func (t *TaskVal) after(ctx *Context, rng source.Range, args map[string]any) (expr.Expr, []cmds.Command, bool) {
	delay := args["timer"].(expr.Expr)
	return &expr.NoneLiteral{}, delay.Export(t.Timer, ctx.M), true
}

// cancel is `.cancel()` (schedule.py's Task.cancel): resets the timer to
// "not scheduled".
func (t *TaskVal) cancel(ctx *Context, rng source.Range, args map[string]any) (expr.Expr, []cmds.Command, bool) {
	return &expr.NoneLiteral{}, []cmds.Command{&cmds.ScbSetConst{Slot: t.Timer.Slot, Value: -1}}, true
}

// hasSchedule is `.has_schedule() -> bool` (schedule.py's
// Task.has_schedule): true while the timer hasn't gone negative.
func (t *TaskVal) hasSchedule(ctx *Context, rng source.Range, args map[string]any) (expr.Expr, []cmds.Command, bool) {
	result, setup, err := t.Timer.Compare(expr.OpGE, &expr.IntLiteral{Value: 0}, ctx.M)
	if err != nil {
		ArgError(ctx, rng, "self", err.Error())
		return nil, nil, false
	}
	return result, setup, true
}

var registerLoopChopper = axe.Chop(
	axe.PosOrKw("target", axe.Callable{}),
	axe.PosOrKw("interval", axe.RangedLiteralInt{Min: 1, Max: 1 << 30}).WithDefault(int32(1)),
	axe.StarArgs("args", axe.AnyValue{}),
	axe.Kwds("kwds", axe.AnyValue{}),
)

// registerLoop is `register_loop(target, interval=1, *args, **kwds)`
// (schedule.py's register_loop): invokes target every tick when interval
// is the literal 1 (the common case, folded directly into file_tick with
// no extra bookkeeping); otherwise allocates its own timer that resets
// every `interval` ticks.
func registerLoop(ctx *Context, rng source.Range, args map[string]any) (expr.Expr, []cmds.Command, bool) {
	target := args["target"].(*FileRef)
	interval := args["interval"].(int32)
	if interval == 1 {
		ctx.M.File(ctx.M.FileTick).Commands = append(ctx.M.File(ctx.M.FileTick).Commands,
			&cmds.InvokeFunction{File: target.File})
		return &expr.NoneLiteral{}, nil, true
	}
	slot := ctx.M.Allocate()
	ctx.M.File(ctx.M.FileInit).Commands = append(ctx.M.File(ctx.M.FileInit).Commands,
		&cmds.ScbSetConst{Slot: slot, Value: 0})
	ctx.M.File(ctx.M.FileTick).Commands = append(ctx.M.File(ctx.M.FileTick).Commands,
		&cmds.Execute{
			Subcmds: []cmds.ExecuteSubcmd{cmds.ExecuteScoreMatch{Slot: slot, Lo: 0, Hi: 0, HasLo: true, HasHi: true}},
			Runs:    &cmds.InvokeFunction{File: target.File},
		},
		&cmds.Execute{
			Subcmds: []cmds.ExecuteSubcmd{cmds.ExecuteScoreMatch{Slot: slot, Lo: 0, Hi: 0, HasLo: true, HasHi: true}},
			Runs:    &cmds.ScbSetConst{Slot: slot, Value: interval},
		},
		&cmds.ScbRemoveConst{Slot: slot, Value: 1},
	)
	return &expr.NoneLiteral{}, nil, true
}
