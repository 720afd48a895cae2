// Package expr implements the value model: the DataType/CTDataType
// lattices and the AcaciaExpr variants (constants and scoreboard/tag-backed
// variables) that the generator lowers statements and expressions into
// (spec.md §3.4-§3.5).
package expr

import "fmt"

// Brand is the nominal tag of a DataType (spec.md §3.4).
type Brand int

const (
	BrandInt Brand = iota
	BrandBool
	BrandStr
	BrandFloat
	BrandPos
	BrandOffset
	BrandRot
	BrandEngroup
	BrandEnfilter
	BrandList
	BrandMap
	BrandMusic
	BrandTask
	BrandModule
	BrandFunction
	BrandType
	BrandAny
	BrandEntity
	BrandStruct
)

func (b Brand) String() string {
	switch b {
	case BrandInt:
		return "int"
	case BrandBool:
		return "bool"
	case BrandStr:
		return "str"
	case BrandFloat:
		return "float"
	case BrandPos:
		return "Pos"
	case BrandOffset:
		return "Offset"
	case BrandRot:
		return "Rot"
	case BrandEngroup:
		return "Engroup"
	case BrandEnfilter:
		return "Enfilter"
	case BrandList:
		return "list"
	case BrandMap:
		return "map"
	case BrandMusic:
		return "Music"
	case BrandTask:
		return "Task"
	case BrandModule:
		return "module"
	case BrandFunction:
		return "function"
	case BrandType:
		return "type"
	case BrandEntity:
		return "entity"
	case BrandStruct:
		return "struct"
	default:
		return "Any"
	}
}

// EntityTemplate is an entity definition's runtime identity: the MRO it
// linearizes to and the unique tag minted for it (spec.md §4.5).
type EntityTemplate struct {
	Name       string
	RuntimeTag string
	MRO        []*EntityTemplate // self first, then parents in C3 order
	Fields     map[string]*DataType
	Parents    []*EntityTemplate
}

// Subtemplate reports whether t is t itself or appears later in its MRO,
// i.e. whether a value of template t may flow where parent is expected.
func (t *EntityTemplate) Subtemplate(parent *EntityTemplate) bool {
	for _, m := range t.MRO {
		if m == parent {
			return true
		}
	}
	return false
}

// StructTemplate is a struct definition's field layout.
type StructTemplate struct {
	Name   string
	Fields []StructField
}

// StructField is one declared field of a struct template, in declaration
// order (order matters for field-wise export, spec.md §4.5).
type StructField struct {
	Name string
	Type *DataType
}

// SubStructTemplate reports whether t's field set is a superset-compatible
// layout of other (spec.md §3.4's "sub-struct-template"): same field names
// in the same order with compatible types. Acacia structs are structural,
// not nominal, but templates are still compared by identity first since
// two templates with identical fields remain distinct types.
func (t *StructTemplate) SubStructTemplate(other *StructTemplate) bool {
	if t == other {
		return true
	}
	if len(t.Fields) != len(other.Fields) {
		return false
	}
	for i, f := range t.Fields {
		o := other.Fields[i]
		if f.Name != o.Name || !f.Type.Matches(o.Type) {
			return false
		}
	}
	return true
}

// DataType is a runtime value's type descriptor (spec.md §3.4). Unlike
// go-corset's numeric-range lattice, Acacia's DataType lattice is shallow:
// brand equality plus one optional parameter (entity/entity-group template
// or struct template).
type DataType struct {
	Brand    Brand
	Entity   *EntityTemplate // set when Brand == BrandEntity or BrandEngroup
	Struct   *StructTemplate // set when Brand == BrandStruct
}

// AnyType is the top of the lattice: it matches, and is matched by,
// everything.
var AnyType = &DataType{Brand: BrandAny}

// NewBrandType constructs a plain nominal type with no parameter.
func NewBrandType(b Brand) *DataType { return &DataType{Brand: b} }

// NewEntityType constructs the type of a single entity of template t.
func NewEntityType(t *EntityTemplate) *DataType {
	return &DataType{Brand: BrandEntity, Entity: t}
}

// NewEngroupType constructs the type of an entity group over template t.
func NewEngroupType(t *EntityTemplate) *DataType {
	return &DataType{Brand: BrandEngroup, Entity: t}
}

// NewStructType constructs the type of a struct value of template t.
func NewStructType(t *StructTemplate) *DataType {
	return &DataType{Brand: BrandStruct, Struct: t}
}

// Matches implements spec.md §3.4's subtype test: same brand and any
// parameter relation holds (subtemplate for entities, sub-struct-template
// for structs); Any matches everything, and everything matches Any.
func (d *DataType) Matches(other *DataType) bool {
	if d == nil || other == nil || d.Brand == BrandAny || other.Brand == BrandAny {
		return true
	}
	if d.Brand != other.Brand {
		return false
	}
	switch d.Brand {
	case BrandEntity, BrandEngroup:
		return d.Entity.Subtemplate(other.Entity)
	case BrandStruct:
		return d.Struct.SubStructTemplate(other.Struct)
	default:
		return true
	}
}

func (d *DataType) String() string {
	switch d.Brand {
	case BrandEntity, BrandEngroup:
		return fmt.Sprintf("%s[%s]", d.Brand, d.Entity.Name)
	case BrandStruct:
		return fmt.Sprintf("%s[%s]", d.Brand, d.Struct.Name)
	default:
		return d.Brand.String()
	}
}

// CTBrand is the nominal tag of a compile-time data type (spec.md §3.4).
// The compile-time lattice is separate from the runtime one but aligned
// for overlap brands: a literal int inhabits both BrandInt and CTBrandInt.
type CTBrand int

const (
	CTBrandInt CTBrand = iota
	CTBrandBool
	CTBrandStr
	CTBrandFloat
	CTBrandList
	CTBrandMap
	CTBrandModule
	CTBrandType
	CTBrandCallable
	CTBrandNone
	CTBrandAny
)

func (b CTBrand) String() string {
	switch b {
	case CTBrandInt:
		return "ctdt_int"
	case CTBrandBool:
		return "ctdt_bool"
	case CTBrandStr:
		return "ctdt_str"
	case CTBrandFloat:
		return "ctdt_float"
	case CTBrandList:
		return "ctdt_list"
	case CTBrandMap:
		return "ctdt_map"
	case CTBrandModule:
		return "ctdt_module"
	case CTBrandType:
		return "ctdt_type"
	case CTBrandCallable:
		return "ctdt_callable"
	case CTBrandNone:
		return "ctdt_none"
	default:
		return "ctdt_any"
	}
}

// CTDataType is the compile-time evaluator's type descriptor, with an
// explicit bases list for subtyping rather than a parameterized brand
// (spec.md §3.4).
type CTDataType struct {
	Brand CTBrand
	Bases []*CTDataType
}

var CTAnyType = &CTDataType{Brand: CTBrandAny}

// NewCTType constructs a compile-time type with the given direct bases.
func NewCTType(b CTBrand, bases ...*CTDataType) *CTDataType {
	return &CTDataType{Brand: b, Bases: bases}
}

// Matches reports whether d is other or transitively derives from it
// through Bases.
func (d *CTDataType) Matches(other *CTDataType) bool {
	if d == nil || other == nil || d.Brand == CTBrandAny || other.Brand == CTBrandAny {
		return true
	}
	if d == other || d.Brand == other.Brand {
		return true
	}
	for _, base := range d.Bases {
		if base.Matches(other) {
			return true
		}
	}
	return false
}

func (d *CTDataType) String() string { return d.Brand.String() }
