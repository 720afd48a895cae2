package expr

import (
	"testing"

	"github.com/CBerJun/acacia/pkg/cmds"
)

func TestPosVal_AbsThenOffsetAccumulatesPerAxis(t *testing.T) {
	p := (&PosVal{}).Abs(1, 2, 3)
	moved := p.Offset(&OffsetVal{X: 10, Y: -1, Z: 0})
	if moved.X.Value != 11 || moved.Y.Value != 1 || moved.Z.Value != 3 {
		t.Fatalf("want (11, 1, 3), got (%v, %v, %v)", moved.X.Value, moved.Y.Value, moved.Z.Value)
	}
	// Offset must not mutate the original.
	if p.X.Value != 1 {
		t.Fatalf("Offset mutated the receiver: X = %v, want 1", p.X.Value)
	}
}

func TestPosVal_DimSetsDimensionWithoutTouchingAxes(t *testing.T) {
	p := (&PosVal{}).Abs(0, 64, 0)
	nether := p.Dim("the_nether")
	if nether.Dimension != "the_nether" {
		t.Fatalf("want dimension the_nether, got %q", nether.Dimension)
	}
	if nether.Y.Value != 64 {
		t.Fatalf("Dim must preserve existing axes, got Y=%v", nether.Y.Value)
	}
	if p.Dimension != "" {
		t.Fatalf("Dim mutated the receiver's Dimension")
	}
}

func TestPosVal_AlignFloorsNamedAxesOnly(t *testing.T) {
	p := (&PosVal{}).Abs(1.7, -1.2, 3.9)
	aligned := p.Align("xz")
	if aligned.X.Value != 1 {
		t.Fatalf("want floor(1.7) = 1, got %v", aligned.X.Value)
	}
	if aligned.Z.Value != 3 {
		t.Fatalf("want floor(3.9) = 3, got %v", aligned.Z.Value)
	}
	if aligned.Y.Value != -1.2 {
		t.Fatalf("y was not named in the align axes and must be untouched, got %v", aligned.Y.Value)
	}
}

func TestPosVal_AlignFloorsNegativeTowardNegativeInfinity(t *testing.T) {
	p := (&PosVal{}).Abs(-0.5, 0, 0)
	aligned := p.Align("x")
	if aligned.X.Value != -1 {
		t.Fatalf("want floor(-0.5) = -1, got %v", aligned.X.Value)
	}
}

func TestPosVal_LocalUsesCaretAnchoring(t *testing.T) {
	p := (&PosVal{}).Local(0, 0, 1)
	if p.Z.Kind != AxisLocal {
		t.Fatalf("want AxisLocal, got %v", p.Z.Kind)
	}
	if got := p.Z.render(); got != "^1" {
		t.Fatalf("want ^1, got %q", got)
	}
}

func TestPosVal_SubcmdsEmitsInThenPositioned(t *testing.T) {
	p := (&PosVal{Dimension: "the_end"}).Abs(1, 2, 3)
	subs := p.Subcmds()
	if len(subs) != 2 {
		t.Fatalf("want 2 subcommands (in, positioned), got %d: %v", len(subs), subs)
	}
	in, ok := subs[0].(cmds.ExecuteEnv)
	if !ok || in.Kind != cmds.EnvIn || in.Args != "the_end" {
		t.Fatalf("want EnvIn the_end first, got %#v", subs[0])
	}
	pos, ok := subs[1].(cmds.ExecuteEnv)
	if !ok || pos.Kind != cmds.EnvPositioned {
		t.Fatalf("want EnvPositioned second, got %#v", subs[1])
	}
	if pos.Args != "1 2 3" {
		t.Fatalf("want %q, got %q", "1 2 3", pos.Args)
	}
}

func TestPosVal_SubcmdsOmitsInWithoutDimension(t *testing.T) {
	p := (&PosVal{}).Abs(0, 0, 0)
	subs := p.Subcmds()
	if len(subs) != 1 {
		t.Fatalf("want 1 subcommand (positioned only), got %d: %v", len(subs), subs)
	}
}

func TestPosVal_FaceEntityRendersEntityAnchorSubcommand(t *testing.T) {
	p := (&PosVal{}).Abs(0, 0, 0)
	sub := p.FaceEntity("@p", "eyes")
	env, ok := sub.(cmds.ExecuteEnv)
	if !ok || env.Kind != cmds.EnvFacing {
		t.Fatalf("want EnvFacing, got %#v", sub)
	}
	if env.Args != "entity @p eyes" {
		t.Fatalf("want %q, got %q", "entity @p eyes", env.Args)
	}
}

func TestRotVal_AbsThenOffsetAccumulates(t *testing.T) {
	r := (&RotVal{}).Abs(0, 90)
	turned := r.Offset(10, -45)
	if turned.Vertical.Value != 10 {
		t.Fatalf("want vertical 10, got %v", turned.Vertical.Value)
	}
	if turned.Horizontal.Value != 45 {
		t.Fatalf("want horizontal 45, got %v", turned.Horizontal.Value)
	}
	if r.Vertical.Value != 0 {
		t.Fatalf("Offset mutated the receiver")
	}
}

func TestRotVal_SubcmdsEmitsRotated(t *testing.T) {
	r := (&RotVal{}).Abs(15, -30)
	subs := r.Subcmds()
	if len(subs) != 1 {
		t.Fatalf("want 1 subcommand, got %d", len(subs))
	}
	env, ok := subs[0].(cmds.ExecuteEnv)
	if !ok || env.Kind != cmds.EnvRotated {
		t.Fatalf("want EnvRotated, got %#v", subs[0])
	}
	if env.Args != "15 -30" {
		t.Fatalf("want %q, got %q", "15 -30", env.Args)
	}
}

func TestPosVal_ApplyIsADocumentedNoOpClone(t *testing.T) {
	p := (&PosVal{}).Abs(1, 2, 3)
	r := (&RotVal{}).Abs(0, 0)
	applied := p.Apply(r)
	if applied == p {
		t.Fatalf("Apply must return a distinct clone, not alias the receiver")
	}
	if applied.X.Value != 1 || applied.Y.Value != 2 || applied.Z.Value != 3 {
		t.Fatalf("Apply's placeholder clone must preserve axes, got %#v", applied)
	}
}
