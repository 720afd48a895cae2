package modules

import (
	"github.com/CBerJun/acacia/pkg/cmds"
	"github.com/CBerJun/acacia/pkg/expr"
)

var functionType = expr.NewBrandType(expr.BrandFunction)

// FileRef is a scoped stand-in for a first-class Acacia function value:
// it carries only "the FileID of an already-compiled mcfunction body" to
// invoke later (schedule.py's Task.target_file), which is all the
// `schedule` module needs. The generator lowers user defs to their own
// files but does not construct FileRef values for them, so user-defined
// functions have no value form that Task(...)/register_loop(...) accept.
type FileRef struct{ File cmds.FileID }

func (f *FileRef) DataType() *expr.DataType { return functionType }

func (f *FileRef) Export(expr.Storable, *cmds.FunctionsManager) []cmds.Command {
	panic("modules: FileRef has no backing scoreboard slot")
}

// IsAcaciaCallable marks FileRef as accepted by axe.Callable.
func (f *FileRef) IsAcaciaCallable() {}
