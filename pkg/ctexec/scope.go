package ctexec

import "github.com/CBerJun/acacia/pkg/source"

// CTObjPtr is a pointer into compile-time scope: the storage cell a name
// binding actually resolves to. A plain `name := expr` binding owns a
// fresh cell; a reference definition `&name := expr` (spec.md §4.7)
// instead binds the new name to an existing cell's *CTObjPtr, so mutating
// either name's binding through Set is visible through both — the
// compile-time analogue of pkg/expr's Storable/Export, without ever
// touching a scoreboard.
type CTObjPtr struct{ obj CTObj }

// NewCTObjPtr wraps obj in a fresh cell.
func NewCTObjPtr(obj CTObj) *CTObjPtr { return &CTObjPtr{obj: obj} }

// Get returns the cell's current value.
func (p *CTObjPtr) Get() CTObj { return p.obj }

// Set rebinds the cell to a new value.
func (p *CTObjPtr) Set(obj CTObj) { p.obj = obj }

// Scope is a generator-local name→cell table for the compile-time
// executer, directly mirroring pkg/generator's own scope shape (parent
// chain, declare/lookup) one level up: a const binding's name never
// needs to survive past the walk that creates it, so there is no
// separate persistent symbol table to consult.
type Scope struct {
	parent *Scope
	vars   map[string]*CTObjPtr
}

// NewScope constructs a scope nested inside parent (nil for a module's
// top-level compile-time scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, vars: map[string]*CTObjPtr{}}
}

// Declare binds name to a fresh cell holding obj, returning the cell.
func (s *Scope) Declare(name string, obj CTObj) *CTObjPtr {
	ptr := NewCTObjPtr(obj)
	s.vars[name] = ptr
	return ptr
}

// DeclareRef binds name directly to an existing cell (a reference
// definition), rather than copying its value into a fresh one.
func (s *Scope) DeclareRef(name string, ptr *CTObjPtr) { s.vars[name] = ptr }

// Lookup walks the parent chain for name's cell.
func (s *Scope) Lookup(name string) (*CTObjPtr, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if ptr, ok := sc.vars[name]; ok {
			return ptr, true
		}
	}
	return nil, false
}

// LookupLocal reports whether name is bound directly in s, without
// walking to a parent.
func (s *Scope) LookupLocal(name string) (*CTObjPtr, bool) {
	ptr, ok := s.vars[name]
	return ptr, ok
}

// Frame is the call-site diagnostic context CTCallable.Ccall receives
// (spec.md §4.7): which compile-time call is in progress and where it was
// written, so an error raised deep inside a const function's body can
// still point at the call that triggered it.
type Frame struct {
	Range source.Range
	Name  string
}

// CallArg is one evaluated call argument, positional (Name == "") or
// keyword; kept distinct from ast.Arg so this package does not need to
// re-evaluate anything once an argument reaches Ccall.
type CallArg struct {
	Name  string
	Value CTObj
}

// CTCallable is implemented by a compile-time-callable value — a `const
// def` or an imported const reference (spec.md §4.7). No concrete
// implementation lives in this package yet: it is the hook point for the
// function-definition lowering built on top of pkg/generator, which owns
// the parameter list needed to match keyword arguments against Ports.
type CTCallable interface {
	Ccall(args []CallArg, frame Frame) (CTObj, error)
}
