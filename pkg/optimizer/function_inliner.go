package optimizer

import (
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/CBerJun/acacia/pkg/cmds"
)

// callSite locates one command that calls a function file: Index into
// Caller's Commands slice.
type callSite struct {
	caller cmds.FileID
	index  int
}

// optFunctionInliner finds files called from exactly one site and splices
// their body into that site, one candidate at a time in FileID order
// (spec.md §4.6 pass 4). It iterates to a
// fixed point: each successful inline can turn its own caller into a new
// single-use callee of the next function out.
func optFunctionInliner(m *cmds.FunctionsManager, cfg Config) {
	entries := entryFiles(m)
	for {
		sites := collectCallSites(m)
		target, site, ok := pickInlineCandidate(m, sites, entries, cfg)
		if !ok {
			return
		}
		log.Debug("optimizer: inlining ", m.PathOf(target), " into ", m.PathOf(site.caller))
		inlineAt(m, target, site)
	}
}

// collectCallSites maps each file to every top-level command (in any live
// file) that calls it, whether bare or wrapped in an Execute.
func collectCallSites(m *cmds.FunctionsManager) map[cmds.FileID][]callSite {
	sites := map[cmds.FileID][]callSite{}
	for i, f := range m.Files() {
		if f.Dead() {
			continue
		}
		caller := cmds.FileID(i)
		for idx, c := range f.Commands {
			callee, ok := c.FuncRef()
			if !ok {
				continue
			}
			sites[callee] = append(sites[callee], callSite{caller: caller, index: idx})
		}
	}
	return sites
}

// pickInlineCandidate returns one eligible (callee, call site) pair, or
// false if none remain. Candidates are scanned in FileID order so the
// pipeline's output is deterministic.
func pickInlineCandidate(
	m *cmds.FunctionsManager, sites map[cmds.FileID][]callSite,
	entries map[cmds.FileID]bool, cfg Config,
) (cmds.FileID, callSite, bool) {
	var targets []cmds.FileID
	for id, s := range sites {
		if len(s) == 1 {
			targets = append(targets, id)
		}
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
	for _, target := range targets {
		if entries[target] || m.File(target).Dead() {
			continue
		}
		site := sites[target][0]
		if site.caller == target {
			// Self-recursive (a while loop's own tail call): never inline.
			continue
		}
		if canInline(m, target, site, cfg) {
			return target, site, true
		}
	}
	return 0, callSite{}, false
}

func canInline(m *cmds.FunctionsManager, target cmds.FileID, site callSite, cfg Config) bool {
	caller := m.File(site.caller)
	cmd := caller.Commands[site.index]
	exec, wrapped := cmd.(*cmds.Execute)
	if !wrapped {
		// A bare InvokeFunction/ScheduleFunction call site has no
		// surrounding execute context to worry about: always safe.
		return true
	}
	if !caller.InliningFriendly() {
		return false
	}
	if !exec.AllPredicative() {
		return false
	}
	callee := m.File(target)
	size := callee.CmdLength()
	return size == 1 || size <= cfg.MaxInlineSize
}

// inlineAt splices target's body into the call site, handling both the
// bare call-site case (direct splice) and the execute-wrapped case (each
// callee command re-guarded by the surrounding predicates, or, if the
// predicates read a slot the callee writes, by a materialized temporary
// that captures the predicate's verdict once up front).
func inlineAt(m *cmds.FunctionsManager, target cmds.FileID, site callSite) {
	callee := m.File(target)
	caller := m.File(site.caller)
	cmd := caller.Commands[site.index]

	var spliced []cmds.Command
	if exec, wrapped := cmd.(*cmds.Execute); wrapped {
		spliced = inlineUnderExecute(m, exec, callee.Commands)
	} else {
		spliced = append(spliced, callee.Commands...)
	}

	out := make([]cmds.Command, 0, len(caller.Commands)-1+len(spliced))
	out = append(out, caller.Commands[:site.index]...)
	out = append(out, spliced...)
	out = append(out, caller.Commands[site.index+1:]...)
	caller.Commands = out

	callee.MarkDead()
}

// inlineUnderExecute distributes exec's predicative subcommands over each
// of the callee's commands, unless those predicates read a slot the
// callee writes (spec.md §4.6's read/write-honesty property: reordering a
// read to observe the callee's post-write state, or vice versa, would be
// observable). In that case the predicates are evaluated exactly once
// into a temporary first, and each inlined command is guarded by that
// temporary instead.
func inlineUnderExecute(m *cmds.FunctionsManager, exec *cmds.Execute, calleeCmds []cmds.Command) []cmds.Command {
	if conflictsWithWrites(exec.Subcmds, calleeCmds) {
		return materializeThenGuard(m, exec.Subcmds, calleeCmds)
	}
	out := make([]cmds.Command, len(calleeCmds))
	for i, c := range calleeCmds {
		out[i] = &cmds.Execute{Subcmds: append([]cmds.ExecuteSubcmd(nil), exec.Subcmds...), Runs: c}
	}
	return out
}

func materializeThenGuard(m *cmds.FunctionsManager, subcmds []cmds.ExecuteSubcmd, calleeCmds []cmds.Command) []cmds.Command {
	tmp := m.Allocate()
	out := make([]cmds.Command, 0, len(calleeCmds)+2)
	out = append(out, &cmds.ScbSetConst{Slot: tmp, Value: 0})
	out = append(out, &cmds.Execute{
		Subcmds: append([]cmds.ExecuteSubcmd(nil), subcmds...),
		Runs:    &cmds.ScbSetConst{Slot: tmp, Value: 1},
	})
	guard := cmds.ExecuteScoreMatch{Slot: tmp, Lo: 1, Hi: 1, HasLo: true, HasHi: true}
	for _, c := range calleeCmds {
		out = append(out, &cmds.Execute{Subcmds: []cmds.ExecuteSubcmd{guard}, Runs: c})
	}
	return out
}

func conflictsWithWrites(subcmds []cmds.ExecuteSubcmd, calleeCmds []cmds.Command) bool {
	reads, preciseReads := predicateReadSlots(subcmds)
	if !preciseReads {
		return true
	}
	writes, preciseWrites := calleeWriteSlots(calleeCmds)
	if !preciseWrites {
		return true
	}
	for _, r := range reads {
		for _, w := range writes {
			if r == w {
				return true
			}
		}
	}
	return false
}

// predicateReadSlots enumerates the concrete slots a predicative
// subcommand chain reads. ExecuteCond never touches a slot; the two
// scoreboard subcommand kinds are handled directly since
// ExecuteSubcmd.ScbDidRead only answers yes/no for a given slot, not which
// slots. precise is false if a subcommand kind isn't recognized, the
// conservative signal to assume a conflict.
func predicateReadSlots(subcmds []cmds.ExecuteSubcmd) (slots []cmds.ScbSlot, precise bool) {
	precise = true
	for _, s := range subcmds {
		switch v := s.(type) {
		case cmds.ExecuteScoreComp:
			slots = append(slots, v.A, v.B)
		case cmds.ExecuteScoreMatch:
			slots = append(slots, v.Slot)
		case cmds.ExecuteCond:
			// reads no scoreboard slot
		default:
			precise = false
		}
	}
	return slots, precise
}

// calleeWriteSlots enumerates the concrete slots a callee's commands
// write, the same way predicateReadSlots does for reads. A command whose
// writes are opaque to this purely-structural scan (InvokeFunction,
// ScheduleFunction, a nested Execute) makes the whole result imprecise,
// forcing the conservative materialize-first path.
func calleeWriteSlots(calleeCmds []cmds.Command) (slots []cmds.ScbSlot, precise bool) {
	precise = true
	for _, c := range calleeCmds {
		switch v := c.(type) {
		case *cmds.ScbSetConst:
			slots = append(slots, v.Slot)
		case *cmds.ScbAddConst:
			slots = append(slots, v.Slot)
		case *cmds.ScbRemoveConst:
			slots = append(slots, v.Slot)
		case *cmds.ScbRandom:
			slots = append(slots, v.Slot)
		case *cmds.ScbOperation:
			slots = append(slots, v.A)
			if v.Op == cmds.OpSwap {
				slots = append(slots, v.B)
			}
		case *cmds.Comment, *cmds.Raw, *cmds.ScbObjective, *cmds.RawtextOutput, *cmds.TitlerawOutput:
			// no scoreboard writes
		default:
			precise = false
		}
	}
	return slots, precise
}
