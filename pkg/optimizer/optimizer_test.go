package optimizer

import (
	"testing"

	"github.com/CBerJun/acacia/pkg/cmds"
)

func TestOptEmptyFunctions_RemovesEmptyFileAndCommentsCallSite(t *testing.T) {
	mgr := cmds.NewFunctionsManager("acacia")
	emptyID := mgr.NewLibFile()
	callerID := mgr.NewLibFile()
	mgr.File(callerID).Commands = []cmds.Command{&cmds.InvokeFunction{File: emptyID}}

	optEmptyFunctions(mgr)

	if !mgr.File(emptyID).Dead() {
		t.Fatal("want empty file marked dead")
	}
	caller := mgr.File(callerID)
	if len(caller.Commands) != 1 {
		t.Fatalf("want 1 command, got %d", len(caller.Commands))
	}
	if _, ok := caller.Commands[0].(*cmds.Comment); !ok {
		t.Fatalf("want call site rewritten to a comment, got %T", caller.Commands[0])
	}
}

func TestOptDeadFunctions_RemovesUnreachableFile(t *testing.T) {
	mgr := cmds.NewFunctionsManager("acacia")
	reachableID := mgr.NewLibFile()
	mgr.File(mgr.FileInit).Commands = []cmds.Command{&cmds.InvokeFunction{File: reachableID}}
	mgr.File(reachableID).Commands = []cmds.Command{&cmds.ScbSetConst{Slot: mgr.Allocate(), Value: 1}}

	unreachableID := mgr.NewLibFile()
	mgr.File(unreachableID).Commands = []cmds.Command{&cmds.ScbSetConst{Slot: mgr.Allocate(), Value: 2}}

	optDeadFunctions(mgr)

	if mgr.File(reachableID).Dead() {
		t.Fatal("file reachable from init should stay alive")
	}
	if !mgr.File(unreachableID).Dead() {
		t.Fatal("file unreachable from any entry point should be marked dead")
	}
}

func TestOptExecuteAsAts_StripsAsSelfAndUnwraps(t *testing.T) {
	mgr := cmds.NewFunctionsManager("acacia")
	id := mgr.NewLibFile()
	slot := mgr.Allocate()
	f := mgr.File(id)
	f.Commands = []cmds.Command{
		&cmds.Execute{
			Subcmds: []cmds.ExecuteSubcmd{cmds.ExecuteEnv{Kind: cmds.EnvAs, Args: "@s"}},
			Runs:    &cmds.ScbSetConst{Slot: slot, Value: 1},
		},
	}

	optExecuteAsAts(mgr)

	if _, ok := f.Commands[0].(*cmds.ScbSetConst); !ok {
		t.Fatalf("want unwrapped ScbSetConst once `as @s` is stripped, got %T", f.Commands[0])
	}
}

func TestOptExecuteAsAts_KeepsOtherSubcommands(t *testing.T) {
	mgr := cmds.NewFunctionsManager("acacia")
	id := mgr.NewLibFile()
	slot := mgr.Allocate()
	f := mgr.File(id)
	f.Commands = []cmds.Command{
		&cmds.Execute{
			Subcmds: []cmds.ExecuteSubcmd{
				cmds.ExecuteEnv{Kind: cmds.EnvAs, Args: "@s"},
				cmds.ExecuteScoreMatch{Slot: slot, Lo: 1, Hi: 1, HasLo: true, HasHi: true},
			},
			Runs: &cmds.ScbSetConst{Slot: slot, Value: 1},
		},
	}

	optExecuteAsAts(mgr)

	exec, ok := f.Commands[0].(*cmds.Execute)
	if !ok {
		t.Fatalf("want Execute to survive since a real subcommand remains, got %T", f.Commands[0])
	}
	if len(exec.Subcmds) != 1 {
		t.Fatalf("want only the `as @s` subcommand stripped, got %d remaining", len(exec.Subcmds))
	}
}

func TestOptFunctionInliner_InlinesBareSingleUseCallee(t *testing.T) {
	mgr := cmds.NewFunctionsManager("acacia")
	calleeID := mgr.NewLibFile()
	mgr.File(calleeID).Commands = []cmds.Command{&cmds.ScbSetConst{Slot: mgr.Allocate(), Value: 5}}
	callerID := mgr.NewLibFile()
	mgr.File(callerID).Commands = []cmds.Command{&cmds.InvokeFunction{File: calleeID}}

	optFunctionInliner(mgr, DefaultConfig)

	caller := mgr.File(callerID)
	if len(caller.Commands) != 1 {
		t.Fatalf("want 1 spliced command, got %d", len(caller.Commands))
	}
	if _, ok := caller.Commands[0].(*cmds.ScbSetConst); !ok {
		t.Fatalf("want spliced ScbSetConst, got %T", caller.Commands[0])
	}
	if !mgr.File(calleeID).Dead() {
		t.Fatal("callee should be marked dead once inlined")
	}
}

func TestOptFunctionInliner_RefusesAcrossNonPredicativeExecute(t *testing.T) {
	mgr := cmds.NewFunctionsManager("acacia")
	calleeID := mgr.NewLibFile()
	mgr.File(calleeID).Commands = []cmds.Command{&cmds.ScbSetConst{Slot: mgr.Allocate(), Value: 1}}
	callerID := mgr.NewLibFile() // inlining-friendly by default (NewLibFile)
	mgr.File(callerID).Commands = []cmds.Command{
		&cmds.Execute{
			Subcmds: []cmds.ExecuteSubcmd{cmds.ExecuteEnv{Kind: cmds.EnvAt, Args: "@e[tag=foo]"}},
			Runs:    &cmds.InvokeFunction{File: calleeID},
		},
	}

	optFunctionInliner(mgr, DefaultConfig)

	if mgr.File(calleeID).Dead() {
		t.Fatal("a callee behind a context-changing execute subcommand must never be inlined")
	}
}

func TestOptFunctionInliner_DistributesPredicateWhenNoConflict(t *testing.T) {
	mgr := cmds.NewFunctionsManager("acacia")
	condSlot := mgr.Allocate()
	writeSlot := mgr.Allocate()
	calleeID := mgr.NewLibFile()
	mgr.File(calleeID).Commands = []cmds.Command{&cmds.ScbSetConst{Slot: writeSlot, Value: 9}}
	callerID := mgr.NewLibFile()
	mgr.File(callerID).Commands = []cmds.Command{
		&cmds.Execute{
			Subcmds: []cmds.ExecuteSubcmd{cmds.ExecuteScoreMatch{Slot: condSlot, Lo: 1, Hi: 1, HasLo: true, HasHi: true}},
			Runs:    &cmds.InvokeFunction{File: calleeID},
		},
	}

	optFunctionInliner(mgr, DefaultConfig)

	caller := mgr.File(callerID)
	if len(caller.Commands) != 1 {
		t.Fatalf("want the predicate distributed over the single callee command, got %d commands", len(caller.Commands))
	}
	exec, ok := caller.Commands[0].(*cmds.Execute)
	if !ok {
		t.Fatalf("want a guarded Execute, got %T", caller.Commands[0])
	}
	if _, ok := exec.Runs.(*cmds.ScbSetConst); !ok {
		t.Fatalf("want the callee's own command wrapped directly, got %T", exec.Runs)
	}
}

func TestOptFunctionInliner_MaterializesOnReadWriteConflict(t *testing.T) {
	mgr := cmds.NewFunctionsManager("acacia")
	slot := mgr.Allocate()
	calleeID := mgr.NewLibFile()
	mgr.File(calleeID).Commands = []cmds.Command{&cmds.ScbSetConst{Slot: slot, Value: 9}}
	callerID := mgr.NewLibFile()
	mgr.File(callerID).Commands = []cmds.Command{
		&cmds.Execute{
			Subcmds: []cmds.ExecuteSubcmd{cmds.ExecuteScoreMatch{Slot: slot, Lo: 1, Hi: 1, HasLo: true, HasHi: true}},
			Runs:    &cmds.InvokeFunction{File: calleeID},
		},
	}

	optFunctionInliner(mgr, DefaultConfig)

	caller := mgr.File(callerID)
	if len(caller.Commands) != 3 {
		t.Fatalf("want tmp-init + predicate-capture + guarded callee command, got %d: %v", len(caller.Commands), caller.Commands)
	}
	if _, ok := caller.Commands[0].(*cmds.ScbSetConst); !ok {
		t.Fatalf("want tmp=0 init first, got %T", caller.Commands[0])
	}
	capture, ok := caller.Commands[1].(*cmds.Execute)
	if !ok {
		t.Fatalf("want the predicate captured into tmp, got %T", caller.Commands[1])
	}
	if _, ok := capture.Runs.(*cmds.ScbSetConst); !ok {
		t.Fatalf("want tmp=1 under the original predicate, got %T", capture.Runs)
	}
	guarded, ok := caller.Commands[2].(*cmds.Execute)
	if !ok {
		t.Fatalf("want the inlined command re-guarded by the tmp, got %T", caller.Commands[2])
	}
	if _, ok := guarded.Runs.(*cmds.ScbSetConst); !ok {
		t.Fatalf("want the callee's own command preserved, got %T", guarded.Runs)
	}
}

func TestOptFunctionInliner_NeverInlinesSelfRecursiveLoop(t *testing.T) {
	mgr := cmds.NewFunctionsManager("acacia")
	slot := mgr.Allocate()
	loopID := mgr.NewLibFile()
	cond := cmds.ExecuteScoreMatch{Slot: slot, HasLo: true, Lo: 0}
	mgr.File(loopID).Commands = []cmds.Command{
		&cmds.ScbAddConst{Slot: slot, Value: 1},
		&cmds.Execute{Subcmds: []cmds.ExecuteSubcmd{cond}, Runs: &cmds.InvokeFunction{File: loopID}},
	}
	callerID := mgr.NewLibFile()
	mgr.File(callerID).Commands = []cmds.Command{
		&cmds.Execute{Subcmds: []cmds.ExecuteSubcmd{cond}, Runs: &cmds.InvokeFunction{File: loopID}},
	}

	optFunctionInliner(mgr, DefaultConfig)

	if mgr.File(loopID).Dead() {
		t.Fatal("a file called from more than one site (its own recursive tail plus the outer call) must never be inlined")
	}
}
