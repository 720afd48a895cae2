package modules

import (
	"testing"

	"github.com/CBerJun/acacia/pkg/cmds"
	"github.com/CBerJun/acacia/pkg/expr"
	"github.com/CBerJun/acacia/pkg/source"
)

func musicArgs(path string, overrides map[string]any) map[string]any {
	args := map[string]any{
		"path":           path,
		"looping":        false,
		"loop_interval":  int32(50),
		"listener":       "@a",
		"note_offset":    int32(0),
		"chunk_size":     int32(500),
		"speed":          float64(1),
		"volume":         float64(1),
		"channel_volume": map[any]any{},
		"instrument":     map[any]any{},
	}
	for k, v := range overrides {
		args[k] = v
	}
	return args
}

func TestMusicNew_BuildsTimerAndLibraryFiles(t *testing.T) {
	ctx := newTestContext()
	path := writeTempMIDI(t, buildMinimalSMF())
	out, cmdList, ok := musicNew(ctx, source.Range{}, musicArgs(path, nil))
	if !ok {
		t.Fatalf("musicNew returned ok=false")
	}
	if cmdList != nil {
		t.Errorf("cmdList = %v, want nil (everything is baked into file_init/file_tick/lib files)", cmdList)
	}
	mv, ok := out.(*MusicVal)
	if !ok {
		t.Fatalf("result type = %T, want *MusicVal", out)
	}
	if mv.Length <= 0 {
		t.Errorf("Length = %d, want a positive tick count", mv.Length)
	}
	initCmds := ctx.M.File(ctx.M.FileInit).Commands
	found := false
	for _, c := range initCmds {
		if set, ok := c.(*cmds.ScbSetConst); ok && set.Slot == mv.Timer.Slot && set.Value == 0 {
			found = true
		}
	}
	if !found {
		t.Error("file_init must initialize the timer slot to 0")
	}
	if !ctx.M.HasTick() {
		t.Error("HasTick() should be true after building a Music()")
	}
	for k := range map[string]bool{"_timer": true, "LENGTH": true, "play": true, "stop": true} {
		if _, ok := mv.AttrTable()[k]; !ok {
			t.Errorf("AttrTable missing %q", k)
		}
	}
}

func TestMusicNew_RejectsNonPositiveSpeed(t *testing.T) {
	ctx := newTestContext()
	path := writeTempMIDI(t, buildMinimalSMF())
	_, _, ok := musicNew(ctx, source.Range{}, musicArgs(path, map[string]any{"speed": float64(0)}))
	if ok {
		t.Fatal("musicNew should reject a non-positive speed")
	}
	if !ctx.Sink.HasErrors() {
		t.Error("expected a diagnostic to be reported")
	}
}

func TestMusicNew_RejectsNonPositiveVolume(t *testing.T) {
	ctx := newTestContext()
	path := writeTempMIDI(t, buildMinimalSMF())
	_, _, ok := musicNew(ctx, source.Range{}, musicArgs(path, map[string]any{"volume": float64(-1)}))
	if ok {
		t.Fatal("musicNew should reject a non-positive volume")
	}
	if !ctx.Sink.HasErrors() {
		t.Error("expected a diagnostic to be reported")
	}
}

func TestMusicNew_RejectsMissingFile(t *testing.T) {
	ctx := newTestContext()
	_, _, ok := musicNew(ctx, source.Range{}, musicArgs("/no/such/file.mid", nil))
	if ok {
		t.Fatal("musicNew should fail when the MIDI file can't be read")
	}
	if !ctx.Sink.HasErrors() {
		t.Error("expected a diagnostic to be reported")
	}
}

func TestMusicVal_PlayExportsTimerDelay(t *testing.T) {
	mv := &MusicVal{Timer: &expr.IntVar{Slot: cmds.ScbSlot{Target: "t", Objective: "acacia"}}, Length: 100}
	ctx := newTestContext()
	out, cmdList, ok := mv.play(ctx, source.Range{}, map[string]any{
		"timer": expr.Expr(&expr.IntLiteral{Value: 10}),
	})
	if !ok {
		t.Fatal("play returned ok=false")
	}
	if _, ok := out.(*expr.NoneLiteral); !ok {
		t.Errorf("result type = %T, want *expr.NoneLiteral", out)
	}
	if len(cmdList) != 1 {
		t.Fatalf("len(cmdList) = %d, want 1", len(cmdList))
	}
	set, ok := cmdList[0].(*cmds.ScbSetConst)
	if !ok || set.Slot != mv.Timer.Slot || set.Value != 10 {
		t.Errorf("cmdList[0] = %+v, want ScbSetConst{Slot: %v, Value: 10}", cmdList[0], mv.Timer.Slot)
	}
}

func TestMusicVal_StopParksTimerPastEnd(t *testing.T) {
	mv := &MusicVal{Timer: &expr.IntVar{Slot: cmds.ScbSlot{Target: "t", Objective: "acacia"}}, Length: 100}
	ctx := newTestContext()
	_, cmdList, ok := mv.stop(ctx, source.Range{}, map[string]any{})
	if !ok {
		t.Fatal("stop returned ok=false")
	}
	set, ok := cmdList[0].(*cmds.ScbSetConst)
	if !ok || set.Value != 102 {
		t.Errorf("cmdList[0] = %+v, want ScbSetConst{Value: 102}", cmdList[0])
	}
}
