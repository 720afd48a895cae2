// Package resolver implements the post-AST pass: scope construction, symbol
// definition/lookup, module loading (including import cycles), and the
// unused-name warning (spec.md §3.6, §4.4).
package resolver

import "github.com/CBerJun/acacia/pkg/ast"

// SymbolKind classifies the binding site a Symbol records (spec.md §3.6).
type SymbolKind int

const (
	KindLocalVar SymbolKind = iota
	KindConst
	KindReference
	KindFunction
	KindType
	KindModule
	KindTemplate
	KindStructTemplate
	KindParameter
	KindImportAlias
	KindLoopVar
)

// Symbol is one name binding recorded in a Scope.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Def      *ast.IdentifierDef
	Value    ast.Binding // generator-level payload (slot, function, module, ...); nil until the generator fills it in
	RefCount int
}

// BindingKind implements ast.Binding so a *Symbol can be attached directly
// to an ast.Identifier/ast.IdentifierDef via Resolve.
func (s *Symbol) BindingKind() string { return "symbol" }

// Scope is a name-indexed symbol table with an optional outer scope
// (spec.md §3.6). Lookup walks outward; redefinition within the same scope
// is an error; shadowing into an inner scope is allowed.
type Scope struct {
	parent  *Scope
	symbols map[string]*Symbol
	order   []*Symbol
}

// NewScope creates a scope nested inside parent (nil for a module's root
// scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, symbols: map[string]*Symbol{}}
}

// Declare binds name in this exact scope. Returns the existing symbol and
// false if name is already bound here (the caller reports
// name-redefinition); otherwise creates and returns a fresh symbol.
func (s *Scope) Declare(name string, kind SymbolKind, def *ast.IdentifierDef) (*Symbol, bool) {
	if existing, ok := s.symbols[name]; ok {
		return existing, false
	}
	sym := &Symbol{Name: name, Kind: kind, Def: def}
	s.symbols[name] = sym
	s.order = append(s.order, sym)
	return sym, true
}

// Lookup walks this scope and its outer chain, returning the nearest symbol
// bound to name, or nil.
func (s *Scope) Lookup(name string) *Symbol {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.symbols[name]; ok {
			return sym
		}
	}
	return nil
}

// LookupLocal looks up name only in this exact scope, without walking
// outward.
func (s *Scope) LookupLocal(name string) *Symbol {
	return s.symbols[name]
}

// Exported returns the names in this scope that a wildcard import would
// copy: not starting with "_" (spec.md §4.4).
func (s *Scope) Exported() []*Symbol {
	var out []*Symbol
	for _, sym := range s.order {
		if len(sym.Name) == 0 || sym.Name[0] == '_' {
			continue
		}
		out = append(out, sym)
	}
	return out
}

// Symbols returns every symbol declared directly in this scope, in
// declaration order.
func (s *Scope) Symbols() []*Symbol {
	return s.order
}
