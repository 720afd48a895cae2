package optimizer

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/CBerJun/acacia/pkg/cmds"
)

// optEmptyFunctions removes every live, non-entry file with no
// non-comment commands, and rewrites any call site that targeted a
// removed file into a comment noting what used to be there (spec.md
// §4.6 pass 1). Removing a callee can empty out its own single caller in
// turn (a branch whose only command was a now-removed call), so the pass
// iterates to a fixed point rather than running once.
func optEmptyFunctions(m *cmds.FunctionsManager) {
	entries := entryFiles(m)
	for {
		removed := markEmptyFiles(m, entries)
		if len(removed) == 0 {
			return
		}
		rewriteDeadCallSites(m, removed, "function was empty after optimization")
	}
}

func markEmptyFiles(m *cmds.FunctionsManager, entries map[cmds.FileID]bool) map[cmds.FileID]bool {
	removed := map[cmds.FileID]bool{}
	for i, f := range m.Files() {
		id := cmds.FileID(i)
		if f.Dead() || entries[id] || f.HasContent() {
			continue
		}
		f.MarkDead()
		removed[id] = true
		log.Debug("optimizer: removing empty function ", m.PathOf(id))
	}
	return removed
}

// rewriteDeadCallSites replaces every command in a live file that calls a
// now-dead file with a comment, across the whole manager. An Execute
// whose Runs targets a dead file is replaced wholesale, since an execute
// chain with no trailing run is not a valid command.
func rewriteDeadCallSites(m *cmds.FunctionsManager, dead map[cmds.FileID]bool, reason string) {
	for _, f := range m.Files() {
		if f.Dead() {
			continue
		}
		for i, c := range f.Commands {
			id, ok := c.FuncRef()
			if !ok || !dead[id] {
				continue
			}
			f.Commands[i] = &cmds.Comment{
				Text: fmt.Sprintf("removed call to %s (%s)", m.PathOf(id), reason),
			}
		}
	}
}
