package expr

import "github.com/CBerJun/acacia/pkg/cmds"

// EntityVal is a single entity reference (spec.md §3.5): a template plus
// the selector string that names exactly it, and its instance fields.
// cmds.ScbSlot.Target is a plain string, so fields backed by a per-entity
// selector need no new Command-IR machinery beyond the existing
// scoreboard-slot Storables (IntVar, BoolVar, ...).
type EntityVal struct {
	Template *EntityTemplate
	Selector string // e.g. "@e[tag=acacia_ent_3]"
	Fields   map[string]Storable
}

func (e *EntityVal) DataType() *DataType { return NewEntityType(e.Template) }

// Export rebinds dst to refer to the same entity e does: entity values are
// references (spec.md §3.5), so assignment never copies fields.
func (e *EntityVal) Export(dst Storable, m *cmds.FunctionsManager) []cmds.Command {
	other, ok := dst.(*EntityVal)
	if !ok {
		panic("expr: EntityVal.Export requires an *EntityVal destination")
	}
	other.Template = e.Template
	other.Selector = e.Selector
	other.Fields = e.Fields
	return nil
}

func (e *EntityVal) scbSlotOrNil() (cmds.ScbSlot, bool) { return cmds.ScbSlot{}, false }

// AttrTable exposes this entity's fields for attribute-access lowering.
func (e *EntityVal) AttrTable() map[string]any {
	out := make(map[string]any, len(e.Fields))
	for k, v := range e.Fields {
		out[k] = v
	}
	return out
}

// EngroupVal is a group of entities sharing a template (spec.md §3.5):
// backed by a tag-refined Selector rather than a fixed member list, so
// membership can grow at runtime (entities summoned later and tagged into
// the group are automatically included).
type EngroupVal struct {
	Template *EntityTemplate
	GroupTag string
	Sel      *Selector
}

func (g *EngroupVal) DataType() *DataType { return NewEngroupType(g.Template) }
func (g *EngroupVal) Export(Storable, *cmds.FunctionsManager) []cmds.Command {
	panic("expr: EngroupVal has no backing scoreboard slot")
}

// Filter begins a selector-refinement chain over this group's members
// (`.select()`), returning the first EnfilterVal stage.
func (g *EngroupVal) Filter() *EnfilterVal {
	return &EnfilterVal{Template: g.Template, Sel: g.Sel}
}

// EnfilterVal is one stage of a selector-builder refinement chain over an
// Engroup (spec.md §3.5, §4.5; mcselector.py's MCSelector methods). Each
// builder call below returns a new EnfilterVal, never mutating the one it
// was called on.
type EnfilterVal struct {
	Template *EntityTemplate
	Sel      *Selector
}

func (f *EnfilterVal) DataType() *DataType { return &DataType{Brand: BrandEnfilter, Entity: f.Template} }
func (f *EnfilterVal) Export(Storable, *cmds.FunctionsManager) []cmds.Command {
	panic("expr: EnfilterVal has no backing scoreboard slot")
}

func (f *EnfilterVal) refine(sel *Selector) *EnfilterVal {
	return &EnfilterVal{Template: f.Template, Sel: sel}
}

// Tag refines to members carrying the given tag (`.tag(name)`).
func (f *EnfilterVal) Tag(name string) *EnfilterVal { return f.refine(f.Sel.Tag(name)) }

// TagNot refines to members lacking the given tag (`.tag_n(name)`).
func (f *EnfilterVal) TagNot(name string) *EnfilterVal { return f.refine(f.Sel.TagNot(name)) }

// Limit caps how many members this chain resolves to (`.limit(n)`).
func (f *EnfilterVal) Limit(n int) *EnfilterVal { return f.refine(f.Sel.Limit(n)) }

// Distance refines by distance to the executing context (`.distance(lo, hi)`).
func (f *EnfilterVal) Distance(lo, hi string) *EnfilterVal {
	return f.refine(f.Sel.Distance(lo, hi))
}

// Text renders the fully-refined selector this chain has built.
func (f *EnfilterVal) Text() string { return f.Sel.Text() }
