// Package modules is the binary-module host (spec.md §6.5, §9): the
// registry of built-in modules implemented directly in Go rather than in
// Acacia source, and the small ABI they're built against. This plays the
// role of acaciamc/modules/__init__.py's module table plus
// acaciamc/mccmdgen/expression/func.py's BinaryFunction plumbing, folded
// into one package since the Go port has no separate "binary function
// wrapper expr type" — a Func is called directly by the generator once its
// arguments have been matched by an axe.Chopper.
package modules

import (
	"github.com/CBerJun/acacia/pkg/cmds"
	"github.com/CBerJun/acacia/pkg/diag"
	"github.com/CBerJun/acacia/pkg/expr"
	"github.com/CBerJun/acacia/pkg/modules/axe"
	"github.com/CBerJun/acacia/pkg/source"
)

// Context is the shared, per-compilation state a built-in module needs:
// the project's command-emission state and the diagnostic sink to report
// against. One Context is built per compilation and threaded through every
// module Builder and Func call.
type Context struct {
	M    *cmds.FunctionsManager
	Sink *diag.Sink
}

// Func is a binary function implementation. args is the already
// axe-converted argument map (see pkg/modules/axe's Chopper.Call), keyed by
// each Param's Rename. A Func returns ok=false only after it has already
// reported a diagnostic itself (via ArgError or a Chopper.Call failure);
// generator call sites must not report a second one.
type Func func(ctx *Context, rng source.Range, args map[string]any) (expr.Expr, []cmds.Command, bool)

// BinaryFunc pairs a Func with the axe.Chopper that validates and converts
// a call's raw arguments before Call ever runs — this is what a Module's
// Attrs entry for a callable actually stores, mirroring how the original
// module source stacks @axe.chop/@axe.arg directly on the function it
// decorates rather than keeping the signature separate from the body.
type BinaryFunc struct {
	Chopper *axe.Chopper
	Call    Func
}

// Module is a built-in module's exposed surface: a name-to-value attribute
// table (each value either a plain expr.Expr constant, a Func, or a nested
// CT-style object such as a Type) plus any commands that must run once at
// load time to set the module up (the Go analogue of acacia_build
// returning a BuiltModule with init_cmds, spec.md §6.5).
type Module struct {
	Attrs    map[string]any
	InitCmds []cmds.Command
}

// AttrTable satisfies expr.AttrHolder, so an imported built-in module's
// members can be looked up the same way any other CT object's are.
func (m *Module) AttrTable() map[string]any { return m.Attrs }

// Builder constructs one built-in module's Module value. It may fail (a
// missing host dependency, e.g. music.py's "mido not installed" case) by
// returning a non-nil error, which the caller turns into a diagnostic at
// the import site.
type Builder func(ctx *Context) (*Module, error)

var registry = map[string]Builder{}

// Register adds a built-in module under name; called from each module
// file's init().
func Register(name string, b Builder) {
	registry[name] = b
}

// Lookup finds a registered built-in module's Builder by name.
func Lookup(name string) (Builder, bool) {
	b, ok := registry[name]
	return b, ok
}

// Names returns every registered built-in module name, for diagnostics
// that want to suggest valid module names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	return names
}

// ArgError reports a binary function's own post-conversion validation
// failure (e.g. "y must be a positive integer") as a regular diagnostic
// keyed to the call site, translating the original's raised
// axe.ArgumentError(arg, message) (spec.md §7) without needing a distinct
// Go exception type — the Func body just calls this and returns ok=false.
func ArgError(ctx *Context, rng source.Range, arg, message string) {
	ctx.Sink.Report("binary-module-error", rng, map[string]any{
		"message": arg + ": " + message,
	})
}

// materializeInt exports any int-typed Expr into a scoreboard slot,
// reusing an IntVar's own slot rather than copying it — this is the
// generic move every built-in module needs to turn a converted argument
// into an operand for a raw ScbOperation/ScbRandom/Execute chain, since
// Export is the one public extension point pkg/expr's const-only and
// var-backed int variants both implement (spec.md §3.5).
func materializeInt(m *cmds.FunctionsManager, v expr.Expr) (cmds.ScbSlot, []cmds.Command) {
	if iv, ok := v.(*expr.IntVar); ok {
		return iv.Slot, nil
	}
	slot := m.Allocate()
	dst := &expr.IntVar{Slot: slot}
	return slot, v.Export(dst, m)
}
