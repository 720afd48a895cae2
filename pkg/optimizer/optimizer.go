// Package optimizer runs the fixed pipeline of cleanup passes over a
// completed set of Command IR function files (spec.md §4.6), once
// generation of every module is done and before the emitter renders
// `.mcfunction` text. Passes run in a fixed order and each sees the
// previous pass's output: opt_empty_functions, opt_dead_functions,
// opt_execute_as_ats, opt_function_inliner.
package optimizer

import (
	log "github.com/sirupsen/logrus"

	"github.com/CBerJun/acacia/pkg/cmds"
)

// Config tunes the inliner's size cutoff; everything else in the pipeline
// is unconditional.
type Config struct {
	// MaxInlineSize bounds how large a callee may be (in non-comment
	// commands) to still be inlined across a surrounding predicative
	// execute chain. A callee of length 1 is always eligible regardless
	// of this bound (spec.md §4.6 precondition (c)).
	MaxInlineSize int
}

// DefaultConfig is used by Run when no Config is supplied.
var DefaultConfig = Config{MaxInlineSize: 4}

// Run executes the full optimizer pipeline against m in place.
func Run(m *cmds.FunctionsManager, cfg Config) {
	log.Debug("optimizer: starting pipeline")
	optEmptyFunctions(m)
	optDeadFunctions(m)
	optExecuteAsAts(m)
	optFunctionInliner(m, cfg)
	log.Debug("optimizer: pipeline complete")
}

// entryFiles returns the set of files the call graph must treat as always
// reachable: init, load, tick, and every interface/<path> file (spec.md
// §6.2 names these the datapack's externally-invoked hooks, so the dead
// function/inliner passes may never remove or fold away their identity).
func entryFiles(m *cmds.FunctionsManager) map[cmds.FileID]bool {
	entries := map[cmds.FileID]bool{m.FileInit: true, m.FileMain: true, m.FileTick: true}
	for i, f := range m.Files() {
		if isInterfacePath(f.Path) {
			entries[cmds.FileID(i)] = true
		}
	}
	return entries
}

func isInterfacePath(path string) bool {
	return len(path) >= len("interface/") && path[:len("interface/")] == "interface/"
}
