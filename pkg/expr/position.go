package expr

import (
	"fmt"

	"github.com/CBerJun/acacia/pkg/cmds"
)

// PosAxisKind distinguishes how one coordinate axis is anchored (spec.md
// §3.5, §4.5): Minecraft's own absolute/relative("~")/local("^") forms.
type PosAxisKind int

const (
	AxisAbsolute PosAxisKind = iota
	AxisRelative
	AxisLocal
)

// PosAxis is one coordinate of a Position/Offset/Rotation value.
type PosAxis struct {
	Kind  PosAxisKind
	Value float64
}

func (a PosAxis) render() string {
	switch a.Kind {
	case AxisRelative:
		return fmt.Sprintf("~%g", a.Value)
	case AxisLocal:
		return fmt.Sprintf("^%g", a.Value)
	default:
		return fmt.Sprintf("%g", a.Value)
	}
}

var (
	posType    = NewBrandType(BrandPos)
	offsetType = NewBrandType(BrandOffset)
	rotType    = NewBrandType(BrandRot)
)

// PosVal is an absolute execute-anchor position: a dimension plus three
// axes (spec.md §3.5, §4.5's Position builder chain). Every builder method
// clones rather than mutates, matching offset.py/position.py's own
// immutable-value style.
type PosVal struct {
	Dimension string // "" means the current/unspecified dimension
	X, Y, Z   PosAxis
}

func (p *PosVal) DataType() *DataType { return posType }
func (p *PosVal) Export(Storable, *cmds.FunctionsManager) []cmds.Command {
	panic("expr: PosVal has no backing scoreboard slot")
}

func (p *PosVal) clone() *PosVal {
	c := *p
	return &c
}

// Dim returns a copy anchored to a different dimension (`.dim(name)`).
func (p *PosVal) Dim(name string) *PosVal {
	c := p.clone()
	c.Dimension = name
	return c
}

// Abs returns a copy with all three axes replaced by absolute coordinates
// (`.abs(x, y, z)`).
func (p *PosVal) Abs(x, y, z float64) *PosVal {
	c := p.clone()
	c.X = PosAxis{Kind: AxisAbsolute, Value: x}
	c.Y = PosAxis{Kind: AxisAbsolute, Value: y}
	c.Z = PosAxis{Kind: AxisAbsolute, Value: z}
	return c
}

// Offset returns a copy translated by off, axis by axis: off's delta
// accumulates into each axis' own value while the axis keeps its existing
// anchor kind, matching offset.py's "apply an Offset to a Position".
func (p *PosVal) Offset(off *OffsetVal) *PosVal {
	c := p.clone()
	c.X.Value += off.X
	c.Y.Value += off.Y
	c.Z.Value += off.Z
	return c
}

// Local returns a copy whose three axes are reinterpreted as `^`-relative
// to the executing entity's own facing (`.local(x, y, z)`).
func (p *PosVal) Local(x, y, z float64) *PosVal {
	c := p.clone()
	c.X = PosAxis{Kind: AxisLocal, Value: x}
	c.Y = PosAxis{Kind: AxisLocal, Value: y}
	c.Z = PosAxis{Kind: AxisLocal, Value: z}
	return c
}

// Apply returns a copy carrying rot as this position's facing context for
// a subsequent `.local` call (`.apply(rot)`); a combined position+rotation
// execute-anchor value isn't modeled yet, so this records nothing beyond
// the clone itself — a disclosed simplification, see DESIGN.md.
func (p *PosVal) Apply(rot *RotVal) *PosVal { return p.clone() }

// Align returns a copy with each named axis floored to its containing
// block (`.align("xz")`), mirroring the `execute align` subcommand's own
// axis-letter argument.
func (p *PosVal) Align(axes string) *PosVal {
	c := p.clone()
	for _, ax := range axes {
		switch ax {
		case 'x':
			c.X.Value = floorAxis(c.X.Value)
		case 'y':
			c.Y.Value = floorAxis(c.Y.Value)
		case 'z':
			c.Z.Value = floorAxis(c.Z.Value)
		}
	}
	return c
}

func floorAxis(v float64) float64 {
	i := int64(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return float64(i)
}

// FaceEntity renders the `execute facing entity <selector> <anchor>`
// subcommand this position contributes when used as a facing target
// (`.face_entity(selector, anchor)`); facing is a one-shot execute
// modifier rather than another chainable Position, so it returns a raw
// subcommand instead of a *PosVal.
func (p *PosVal) FaceEntity(selector, anchor string) cmds.ExecuteSubcmd {
	return cmds.ExecuteEnv{Kind: cmds.EnvFacing, Args: fmt.Sprintf("entity %s %s", selector, anchor)}
}

// Subcmds renders this position as the `execute in`/`positioned` subcommand
// sequence that anchors further execution at it (spec.md §4.5).
func (p *PosVal) Subcmds() []cmds.ExecuteSubcmd {
	var out []cmds.ExecuteSubcmd
	if p.Dimension != "" {
		out = append(out, cmds.ExecuteEnv{Kind: cmds.EnvIn, Args: p.Dimension})
	}
	out = append(out, cmds.ExecuteEnv{
		Kind: cmds.EnvPositioned,
		Args: fmt.Sprintf("%s %s %s", p.X.render(), p.Y.render(), p.Z.render()),
	})
	return out
}

// OffsetVal is a pure three-axis delta (spec.md §3.5): unlike PosVal it
// carries no anchor of its own and is never executed at directly, only
// applied to a Position via PosVal.Offset.
type OffsetVal struct{ X, Y, Z float64 }

func (o *OffsetVal) DataType() *DataType { return offsetType }
func (o *OffsetVal) Export(Storable, *cmds.FunctionsManager) []cmds.Command {
	panic("expr: OffsetVal has no backing scoreboard slot")
}

// RotVal is a two-axis rotation, vertical then horizontal (spec.md §3.5).
type RotVal struct {
	Vertical, Horizontal PosAxis
}

func (r *RotVal) DataType() *DataType { return rotType }
func (r *RotVal) Export(Storable, *cmds.FunctionsManager) []cmds.Command {
	panic("expr: RotVal has no backing scoreboard slot")
}

func (r *RotVal) clone() *RotVal {
	c := *r
	return &c
}

// Abs returns a copy with both axes replaced by absolute degrees
// (`.abs(vertical, horizontal)`).
func (r *RotVal) Abs(v, h float64) *RotVal {
	c := r.clone()
	c.Vertical = PosAxis{Kind: AxisAbsolute, Value: v}
	c.Horizontal = PosAxis{Kind: AxisAbsolute, Value: h}
	return c
}

// Offset returns a copy translated by a two-axis delta (`.offset(dv, dh)`).
func (r *RotVal) Offset(dv, dh float64) *RotVal {
	c := r.clone()
	c.Vertical.Value += dv
	c.Horizontal.Value += dh
	return c
}

// Subcmds renders this rotation as the `execute rotated` subcommand.
func (r *RotVal) Subcmds() []cmds.ExecuteSubcmd {
	return []cmds.ExecuteSubcmd{cmds.ExecuteEnv{
		Kind: cmds.EnvRotated,
		Args: fmt.Sprintf("%s %s", r.Vertical.render(), r.Horizontal.render()),
	}}
}
