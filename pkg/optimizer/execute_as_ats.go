package optimizer

import "github.com/CBerJun/acacia/pkg/cmds"

// optExecuteAsAts strips every `as @s` subcommand from every Execute
// command, unwrapping to the bare wrapped command when nothing remains
// (spec.md §4.6 pass 3). `as @s` never changes who runs the follow-up
// command (the executing entity was already itself), so it only ever
// costs a command for no effect.
func optExecuteAsAts(m *cmds.FunctionsManager) {
	for _, f := range m.Files() {
		if f.Dead() {
			continue
		}
		for i, c := range f.Commands {
			f.Commands[i] = stripAsSelf(c)
		}
	}
}

func stripAsSelf(c cmds.Command) cmds.Command {
	exec, ok := c.(*cmds.Execute)
	if !ok {
		return c
	}
	exec.Runs = stripAsSelf(exec.Runs)
	kept := exec.Subcmds[:0]
	for _, s := range exec.Subcmds {
		if isAsSelf(s) {
			continue
		}
		kept = append(kept, s)
	}
	exec.Subcmds = kept
	if len(exec.Subcmds) == 0 {
		return exec.Runs
	}
	return exec
}

func isAsSelf(s cmds.ExecuteSubcmd) bool {
	env, ok := s.(cmds.ExecuteEnv)
	return ok && env.Kind == cmds.EnvAs && env.Args == "@s"
}
