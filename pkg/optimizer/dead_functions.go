package optimizer

import (
	log "github.com/sirupsen/logrus"

	"github.com/CBerJun/acacia/pkg/cmds"
)

// optDeadFunctions computes the call graph via Command.FuncRef and marks
// every file unreachable from an entry file dead (spec.md §4.6 pass 2).
func optDeadFunctions(m *cmds.FunctionsManager) {
	reachable := map[cmds.FileID]bool{}
	var stack []cmds.FileID
	for id := range entryFiles(m) {
		if !m.File(id).Dead() {
			stack = append(stack, id)
			reachable[id] = true
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range m.File(id).Commands {
			callee, ok := c.FuncRef()
			if !ok || reachable[callee] {
				continue
			}
			reachable[callee] = true
			stack = append(stack, callee)
		}
	}
	for i, f := range m.Files() {
		id := cmds.FileID(i)
		if f.Dead() || reachable[id] {
			continue
		}
		f.MarkDead()
		log.Debug("optimizer: removing unreachable function ", m.PathOf(id))
	}
}
