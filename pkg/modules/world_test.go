package modules

import (
	"strings"
	"testing"

	"github.com/CBerJun/acacia/pkg/cmds"
	"github.com/CBerJun/acacia/pkg/expr"
	"github.com/CBerJun/acacia/pkg/source"
)

func rawText(t *testing.T, c cmds.Command) string {
	t.Helper()
	r, ok := c.(*cmds.Raw)
	if !ok {
		t.Fatalf("command type = %T, want *cmds.Raw", c)
	}
	return r.Text
}

func TestItemNew_BuildsComponentsOnlyWhenNonDefault(t *testing.T) {
	ctx := newTestContext()
	out, _, ok := itemNew(ctx, source.Range{}, map[string]any{
		"id": "minecraft:stick", "data": int32(0), "keep_on_death": false,
		"can_destroy": []any{}, "can_place_on": []any{},
	})
	if !ok {
		t.Fatal("itemNew returned ok=false")
	}
	item := out.(*ItemVal)
	if len(item.Components) != 0 {
		t.Errorf("Components = %v, want empty for all-default args", item.Components)
	}
	if item.toStr() != `minecraft:stick:0{}` {
		t.Errorf("toStr() = %q, want \"minecraft:stick:0{}\"", item.toStr())
	}
}

func TestItemNew_KeepOnDeathAndPlacementRestrictions(t *testing.T) {
	ctx := newTestContext()
	out, _, ok := itemNew(ctx, source.Range{}, map[string]any{
		"id": "minecraft:diamond_pickaxe", "data": int32(0), "keep_on_death": true,
		"can_destroy":  []any{"minecraft:stone"},
		"can_place_on": []any{},
	})
	if !ok {
		t.Fatal("itemNew returned ok=false")
	}
	item := out.(*ItemVal)
	if _, ok := item.Components["minecraft:keep_on_death"]; !ok {
		t.Error("Components must include minecraft:keep_on_death")
	}
	cd, ok := item.Components["minecraft:can_destroy"].(map[string]any)
	if !ok {
		t.Fatal("Components[\"minecraft:can_destroy\"] missing or wrong type")
	}
	blocks := cd["blocks"].([]string)
	if len(blocks) != 1 || blocks[0] != "minecraft:stone" {
		t.Errorf("blocks = %v, want [minecraft:stone]", blocks)
	}
}

func TestBlockNew_ToStrFormatsStatesInSortedOrder(t *testing.T) {
	ctx := newTestContext()
	out, _, ok := blockNew(ctx, source.Range{}, map[string]any{
		"id": "minecraft:wool",
		"states": map[any]any{
			"color": "red",
			"age":   int32(3),
		},
	})
	if !ok {
		t.Fatal("blockNew returned ok=false")
	}
	block := out.(*BlockVal)
	got := block.toStr()
	want := `minecraft:wool["age"=3,"color"="red"]`
	if got != want {
		t.Errorf("toStr() = %q, want %q", got, want)
	}
}

func TestBlockNew_ToStrWithNoStates(t *testing.T) {
	ctx := newTestContext()
	out, _, ok := blockNew(ctx, source.Range{}, map[string]any{
		"id": "minecraft:stone", "states": map[any]any{},
	})
	if !ok {
		t.Fatal("blockNew returned ok=false")
	}
	if got := out.(*BlockVal).toStr(); got != "minecraft:stone" {
		t.Errorf("toStr() = %q, want \"minecraft:stone\"", got)
	}
}

func TestWorldRaw_OrdersArgumentsByExplicitKeys(t *testing.T) {
	fn := worldRaw("event entity %s %s", "target", "event")
	_, cmdList, ok := fn(newTestContext(), source.Range{}, map[string]any{
		"target": "@e[tag=foo]", "event": "minecraft:entity_born",
	})
	if !ok {
		t.Fatal("worldRaw-built func returned ok=false")
	}
	want := "event entity @e[tag=foo] minecraft:entity_born"
	if got := rawText(t, cmdList[0]); got != want {
		t.Errorf("command = %q, want %q", got, want)
	}
}

func TestWorldRaw_TagAddOrdersTargetBeforeTag(t *testing.T) {
	fn := worldRaw("tag %s add %s", "target", "tag")
	_, cmdList, ok := fn(newTestContext(), source.Range{}, map[string]any{
		"target": "@s", "tag": "marked",
	})
	if !ok {
		t.Fatal("worldRaw-built func returned ok=false")
	}
	want := "tag @s add marked"
	if got := rawText(t, cmdList[0]); got != want {
		t.Errorf("command = %q, want %q", got, want)
	}
}

func TestMsgSay_WrapsExecuteAsSender(t *testing.T) {
	fn := senderExecutes("say %s")
	_, cmdList, ok := fn(newTestContext(), source.Range{}, map[string]any{
		"sender": "@s", "message": "hello",
	})
	if !ok {
		t.Fatal("senderExecutes-built func returned ok=false")
	}
	want := "execute as @s run say hello"
	if got := rawText(t, cmdList[0]); got != want {
		t.Errorf("command = %q, want %q", got, want)
	}
}

func TestMsgTell_IncludesSenderAndReceiver(t *testing.T) {
	_, cmdList, ok := msgTell(newTestContext(), source.Range{}, map[string]any{
		"sender": "@s", "receiver": "@p", "message": "hi",
	})
	if !ok {
		t.Fatal("msgTell returned ok=false")
	}
	want := "execute as @s run tell @p hi"
	if got := rawText(t, cmdList[0]); got != want {
		t.Errorf("command = %q, want %q", got, want)
	}
}

func TestEffectGive_HidesParticlesWhenRequested(t *testing.T) {
	_, cmdList, ok := effectGive(newTestContext(), source.Range{}, map[string]any{
		"target": "@s", "effect": "speed", "duration": int32(30), "amplifier": int32(1), "particle": false,
	})
	if !ok {
		t.Fatal("effectGive returned ok=false")
	}
	want := "effect @s speed 30 1 true"
	if got := rawText(t, cmdList[0]); got != want {
		t.Errorf("command = %q, want %q", got, want)
	}
}

func TestGive_FormatsItemAndAmount(t *testing.T) {
	ctx := newTestContext()
	item := &ItemVal{ID: "minecraft:apple", Components: map[string]any{}}
	_, cmdList, ok := give(ctx, source.Range{}, map[string]any{
		"player": "@p", "item": expr.Expr(item), "amount": int32(5),
	})
	if !ok {
		t.Fatal("give returned ok=false")
	}
	want := "give @p minecraft:apple:0{} 5"
	if got := rawText(t, cmdList[0]); got != want {
		t.Errorf("command = %q, want %q", got, want)
	}
}

func TestSettings_FormatsBoolAndIntGamerules(t *testing.T) {
	_, cmdList, ok := settings(newTestContext(), source.Range{}, map[string]any{
		"name": "doDaylightCycle", "value": false,
	})
	if !ok {
		t.Fatal("settings returned ok=false")
	}
	if got := rawText(t, cmdList[0]); got != "gamerule doDaylightCycle false" {
		t.Errorf("command = %q, want \"gamerule doDaylightCycle false\"", got)
	}
}

func TestWeather_OmitsDurationWhenNil(t *testing.T) {
	_, cmdList, ok := weather(newTestContext(), source.Range{}, map[string]any{
		"weather": "rain", "duration": nil,
	})
	if !ok {
		t.Fatal("weather returned ok=false")
	}
	if got := rawText(t, cmdList[0]); got != "weather rain" {
		t.Errorf("command = %q, want \"weather rain\"", got)
	}
}

func TestWeather_IncludesDurationWhenGiven(t *testing.T) {
	_, cmdList, ok := weather(newTestContext(), source.Range{}, map[string]any{
		"weather": "thunder", "duration": int32(100),
	})
	if !ok {
		t.Fatal("weather returned ok=false")
	}
	if got := rawText(t, cmdList[0]); got != "weather thunder 100" {
		t.Errorf("command = %q, want \"weather thunder 100\"", got)
	}
}

func TestMusicPlay_RepeatSelectsLoopMode(t *testing.T) {
	fn := musicPlay("play")
	_, cmdList, ok := fn(newTestContext(), source.Range{}, map[string]any{
		"track": "game.menu", "volume": float64(1), "fade": float64(0), "repeat": true,
	})
	if !ok {
		t.Fatal("musicPlay-built func returned ok=false")
	}
	if got := rawText(t, cmdList[0]); !strings.HasSuffix(got, "loop") {
		t.Errorf("command = %q, want a trailing \"loop\" mode", got)
	}
}

func TestMusicQueue_UsesQueueOperation(t *testing.T) {
	fn := musicPlay("queue")
	_, cmdList, ok := fn(newTestContext(), source.Range{}, map[string]any{
		"track": "game.menu", "volume": float64(1), "fade": float64(0), "repeat": false,
	})
	if !ok {
		t.Fatal("musicPlay-built func returned ok=false")
	}
	if got := rawText(t, cmdList[0]); !strings.HasPrefix(got, "music queue ") {
		t.Errorf("command = %q, want a \"music queue\" prefix", got)
	}
}
