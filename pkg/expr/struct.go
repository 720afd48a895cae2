package expr

import "github.com/CBerJun/acacia/pkg/cmds"

// StructVal is a struct-template instance (spec.md §3.5, §4.5): unlike
// EntityVal it is a value type, so assignment and argument passing copy
// every field rather than rebinding a reference.
type StructVal struct {
	Template *StructTemplate
	Fields   map[string]Storable
}

func (s *StructVal) DataType() *DataType { return NewStructType(s.Template) }

// Export copies dst's fields from s's, field by field, in template order
// (spec.md §3.5's "structs are passed and assigned by value").
func (s *StructVal) Export(dst Storable, m *cmds.FunctionsManager) []cmds.Command {
	other, ok := dst.(*StructVal)
	if !ok {
		panic("expr: StructVal.Export requires an *StructVal destination")
	}
	var out []cmds.Command
	for _, f := range s.Template.Fields {
		srcField, ok := s.Fields[f.Name]
		if !ok {
			continue
		}
		dstField, ok := other.Fields[f.Name]
		if !ok {
			continue
		}
		out = append(out, srcField.Export(dstField, m)...)
	}
	return out
}

func (s *StructVal) scbSlotOrNil() (cmds.ScbSlot, bool) { return cmds.ScbSlot{}, false }

// AttrTable exposes this struct's fields for attribute-access lowering
// (`point.x`, `point.y`, ...).
func (s *StructVal) AttrTable() map[string]any {
	out := make(map[string]any, len(s.Fields))
	for k, v := range s.Fields {
		out[k] = v
	}
	return out
}
