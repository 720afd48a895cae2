// The music module (music.py): builds a redstone-music player from a MIDI
// file by simulating its own tick loop at compile time and baking the
// resulting `playsound` commands into a chain of library files, exactly the
// way music.py's Music.__init__ does before the compiler ever emits
// anything. The one deliberate surface reduction is `listener`: world.py's
// PlayerSelector/MCSelector runtime type isn't ported (see world.go), so
// `listener` is a plain target-selector string instead.
package modules

import (
	"fmt"
	"math"

	"github.com/CBerJun/acacia/pkg/cmds"
	"github.com/CBerJun/acacia/pkg/expr"
	"github.com/CBerJun/acacia/pkg/modules/axe"
	"github.com/CBerJun/acacia/pkg/source"
)

func init() {
	Register("music", buildMusic)
}

var musicType = expr.NewBrandType(expr.BrandMusic)

func buildMusic(ctx *Context) (*Module, error) {
	return &Module{Attrs: map[string]any{
		"Music": &BinaryFunc{Chopper: musicNewChopper, Call: musicNew},
	}}, nil
}

var instrumentIDs = map[int32]string{
	0: "note.harp", 1: "note.harp", 2: "note.pling", 3: "note.pling",
	4: "note.pling", 5: "note.pling", 6: "note.harp", 7: "note.pling",
	8: "note.harp", 9: "note.bell", 10: "note.chime", 11: "note.iron_xylophone",
	12: "note.xylophone", 13: "note.xylophone", 14: "note.chime", 15: "note.bell",
	16: "note.flute", 17: "note.flute", 18: "note.flute", 19: "note.flute",
	20: "note.flute", 21: "note.flute", 22: "note.flute", 23: "note.flute",
	24: "note.guitar", 25: "note.guitar", 26: "note.guitar", 27: "note.guitar",
	28: "note.guitar", 29: "note.guitar", 30: "note.guitar", 31: "note.bass",
	32: "note.bass", 33: "note.bass", 34: "note.bass", 35: "note.bass",
	36: "note.bass", 37: "note.bass", 38: "note.bass", 39: "note.bass",
	40: "note.flute", 41: "note.flute", 42: "note.flute", 43: "note.flute",
	44: "note.guitar", 45: "note.guitar", 46: "note.harp", 47: "note.snare",
	48: "note.flute", 49: "note.flute", 50: "note.flute", 51: "note.flute",
	52: "note.flute", 53: "note.flute", 54: "note.flute", 55: "note.snare",
	56: "note.chime", 57: "note.chime", 58: "note.chime", 59: "note.chime",
	60: "note.chime", 61: "note.chime", 62: "note.chime", 63: "note.chime",
	64: "note.bit", 65: "note.bit", 66: "note.bit", 67: "note.bit",
	68: "note.flute", 69: "note.flute", 70: "note.flute", 71: "note.flute",
	72: "note.flute", 73: "note.flute", 74: "note.flute", 75: "note.flute",
	76: "note.flute", 77: "note.flute", 78: "note.bell", 79: "note.flute",
	80: "note.bit", 81: "note.bit", 82: "note.flute", 83: "note.flute",
	84: "note.guitar", 85: "note.bit", 86: "note.bit", 87: "note.bit",
	88: "note.bit", 89: "note.bit", 90: "note.bit", 91: "note.bit",
	92: "note.guitar", 93: "note.bit", 94: "note.bit", 95: "note.guitar",
	96: "note.bit", 97: "note.bit", 98: "note.bit", 99: "note.bit",
	100: "note.bit", 101: "note.bit", 102: "note.bit", 103: "note.bit",
	104: "note.guitar", 105: "note.banjo", 106: "note.guitar", 107: "note.guitar",
	108: "note.bell", 109: "note.flute", 110: "note.guitar", 111: "note.flute",
	112: "note.bell", 113: "note.bell", 114: "note.drum", 115: "note.cow_bell",
	116: "note.drum", 117: "note.drum", 118: "note.drum", 119: "note.bit",
	120: "note.hat", 121: "note.hat", 122: "note.hat", 123: "note.hat",
	124: "note.hat", 125: "note.hat", 126: "note.hat", 127: "note.snare",
}

var musicNewChopper = axe.Chop(
	axe.PosOrKw("path", axe.LiteralString{}),
	axe.PosOrKw("looping", axe.LiteralBool{}).WithDefault(false),
	axe.PosOrKw("loop_interval", axe.LiteralInt{}).WithDefault(int32(50)),
	axe.PosOrKw("listener", axe.LiteralString{}).WithDefault("@a"),
	axe.PosOrKw("note_offset", axe.LiteralInt{}).WithDefault(int32(0)),
	axe.PosOrKw("chunk_size", axe.RangedLiteralInt{Min: 1, Max: 1 << 30}).WithDefault(int32(500)),
	axe.PosOrKw("speed", axe.LiteralFloat{}).WithDefault(float64(1)),
	axe.PosOrKw("volume", axe.LiteralFloat{}).WithDefault(float64(1)),
	axe.PosOrKw("channel_volume", axe.MapOf{Key: axe.RangedLiteralInt{Min: 0, Max: 15}, Value: axe.LiteralFloat{}}).WithDefault(map[any]any{}),
	axe.PosOrKw("instrument", axe.MapOf{Key: axe.RangedLiteralInt{Min: 0, Max: 127}, Value: axe.LiteralString{}}).WithDefault(map[any]any{}),
)

// musicNew is `Music(...)`'s constructor (music.py's MusicType._new):
// parses the MIDI file and runs the whole compile-time tick simulation up
// front, exactly like the original, so the resulting TaskVal-like MusicVal
// only ever needs to expose its already-baked timer and file chain.
func musicNew(ctx *Context, rng source.Range, args map[string]any) (expr.Expr, []cmds.Command, bool) {
	path := args["path"].(string)
	looping := args["looping"].(bool)
	loopInterval := args["loop_interval"].(int32)
	listener := args["listener"].(string)
	noteOffset := args["note_offset"].(int32)
	chunkSize := args["chunk_size"].(int32)
	speed := args["speed"].(float64)
	volume := args["volume"].(float64)
	channelVolumeRaw := args["channel_volume"].(map[any]any)
	instrumentRaw := args["instrument"].(map[any]any)

	if speed <= 0 {
		ArgError(ctx, rng, "speed", "must be positive")
		return nil, nil, false
	}
	if volume <= 0 {
		ArgError(ctx, rng, "volume", "must be positive")
		return nil, nil, false
	}
	channelVolume := map[int32]float64{}
	for k, v := range channelVolumeRaw {
		if v.(float64) < 0 {
			ArgError(ctx, rng, "channel_volume", "must be positive")
			return nil, nil, false
		}
		channelVolume[k.(int32)] = v.(float64)
	}
	overrideInstrument := map[int32]string{}
	for k, v := range instrumentRaw {
		overrideInstrument[k.(int32)] = v.(string)
	}

	midi, err := readMIDI(path)
	if err != nil {
		ArgError(ctx, rng, "path", "could not read MIDI file: "+err.Error())
		return nil, nil, false
	}
	if midi.Format != 0 && midi.Format != 1 {
		ArgError(ctx, rng, "path", fmt.Sprintf("unsupported MIDI file type %d", midi.Format))
		return nil, nil, false
	}

	loopingInfo := int32(-1)
	if looping {
		loopingInfo = loopInterval
	}

	timerSlot := ctx.M.Allocate()

	sim := &musicSim{
		m:                  ctx.M,
		timerSlot:          timerSlot,
		tracks:             midi.Tracks,
		listener:           listener,
		noteOffset:         noteOffset,
		chunkSize:          chunkSize,
		overrideInstrument: overrideInstrument,
		userSpeed:          speed,
		userVolume:         volume,
		userChannelVolume:  channelVolume,
		bpm:                120,
		mtPerBeat:          float64(midi.TicksPerBeat),
		channelVolume:      map[int32]int32{},
		channelInstrument:  map[int32]int32{},
		lastMsgMT:          make([]int, len(midi.Tracks)),
	}
	for i := int32(0); i < 16; i++ {
		sim.channelInstrument[i] = 0
		sim.channelVolume[i] = 100
	}
	sim.channelInstrument[9] = 127
	sim.newFile()
	for !sim.isFinished() {
		sim.mainLoop()
	}
	gtLen := sim.gtInt
	if !sim.m.File(sim.files[len(sim.files)-1]).HasContent() {
		sim.files = sim.files[:len(sim.files)-1]
		sim.fileSepGT = sim.fileSepGT[:len(sim.fileSepGT)-1]
	}
	sim.fileSepGT = append(sim.fileSepGT, gtLen+1)

	slot := timerSlot
	timer := &expr.IntVar{Slot: slot}
	ctx.M.File(ctx.M.FileInit).Commands = append(ctx.M.File(ctx.M.FileInit).Commands,
		&cmds.ScbSetConst{Slot: slot, Value: 0})

	var loopCmds []cmds.Command
	loopCmds = append(loopCmds, &cmds.Comment{Text: "music.Music"})
	for i := 0; i < len(sim.fileSepGT)-1; i++ {
		t1, t2 := sim.fileSepGT[i], sim.fileSepGT[i+1]
		loopCmds = append(loopCmds, &cmds.Execute{
			Subcmds: []cmds.ExecuteSubcmd{cmds.ExecuteScoreMatch{Slot: slot, HasLo: true, HasHi: true, Lo: int32(t1), Hi: int32(t2 - 1)}},
			Runs:    &cmds.InvokeFunction{File: sim.files[i]},
		})
	}
	loopCmds = append(loopCmds, &cmds.Execute{
		Subcmds: []cmds.ExecuteSubcmd{cmds.ExecuteScoreMatch{Slot: slot, HasHi: true, Hi: int32(gtLen)}},
		Runs:    &cmds.ScbAddConst{Slot: slot, Value: 1},
	})
	if loopingInfo >= 0 {
		loopCmds = append(loopCmds, &cmds.Execute{
			Subcmds: []cmds.ExecuteSubcmd{cmds.ExecuteScoreMatch{Slot: slot, HasLo: true, HasHi: true, Lo: int32(gtLen + 1), Hi: int32(gtLen + 1)}},
			Runs:    &cmds.ScbSetConst{Slot: slot, Value: -loopingInfo},
		})
	}
	ctx.M.File(ctx.M.FileTick).Commands = append(ctx.M.File(ctx.M.FileTick).Commands, loopCmds...)
	ctx.M.NoteTickUsed()

	mv := &MusicVal{Timer: timer, Length: int32(gtLen)}
	mv.attrs = map[string]any{
		"_timer": timer,
		"LENGTH": &expr.IntLiteral{Value: int32(gtLen)},
		"play":   &BinaryFunc{Chopper: musicPlayChopper, Call: mv.play},
		"stop":   &BinaryFunc{Chopper: axe.Chop(), Call: mv.stop},
	}
	return mv, nil, true
}

// MusicVal is one already-simulated, ready-to-play music (music.py's
// Music instance, minus the simulation bookkeeping that only matters
// during construction).
type MusicVal struct {
	Timer  *expr.IntVar
	Length int32
	attrs  map[string]any
}

func (v *MusicVal) DataType() *expr.DataType { return musicType }
func (v *MusicVal) Export(expr.Storable, *cmds.FunctionsManager) []cmds.Command {
	panic("modules: MusicVal has no backing scoreboard slot")
}
func (v *MusicVal) AttrTable() map[string]any { return v.attrs }

var musicPlayChopper = axe.Chop(axe.PosOrKw("timer", intConv).WithDefault(expr.Expr(&expr.IntLiteral{Value: 0})))

// play is `.play(timer: int = 0)` (music.py's Music._play): negative values
// are a countdown before playing starts, non-negative ones seek directly
// into the timeline.
func (v *MusicVal) play(ctx *Context, rng source.Range, args map[string]any) (expr.Expr, []cmds.Command, bool) {
	timer := args["timer"].(expr.Expr)
	return &expr.NoneLiteral{}, timer.Export(v.Timer, ctx.M), true
}

// stop is `.stop()` (music.py's Music._stop): parks the timer two GT past
// the end of the timeline, which every loop-arm's ExecuteScoreMatch range
// excludes.
func (v *MusicVal) stop(ctx *Context, rng source.Range, args map[string]any) (expr.Expr, []cmds.Command, bool) {
	return &expr.NoneLiteral{}, []cmds.Command{&cmds.ScbSetConst{Slot: v.Timer.Slot, Value: v.Length + 2}}, true
}

// musicSim replays music.py's Music.__init__ tick simulation: it walks
// every MIDI track's message stream against a running "MT" (MIDI tick)
// and "GT" (Minecraft game tick) clock, baking `playsound` commands into
// chunked library files as it goes.
type musicSim struct {
	m          *cmds.FunctionsManager
	timerSlot  cmds.ScbSlot
	tracks     [][]midiMessage
	listener   string
	noteOffset int32
	chunkSize  int32

	overrideInstrument map[int32]string
	userSpeed          float64
	userVolume         float64
	userChannelVolume  map[int32]float64

	bpm       float64
	mtPerBeat float64
	mt        int
	gt        float64
	gtInt     int
	lastGTInt int
	lastMsgMT []int

	channelVolume     map[int32]int32
	channelInstrument map[int32]int32

	files        []cmds.FileID
	fileSepGT    []int
	curFile      cmds.FileID
	curChunkSize int32
}

func (s *musicSim) newFile() {
	id := s.m.NewLibFile()
	s.m.File(id).Commands = append(s.m.File(id).Commands, &cmds.Comment{Text: "Music loop"})
	s.files = append(s.files, id)
	s.curFile = id
	s.fileSepGT = append(s.fileSepGT, s.gtInt)
	s.curChunkSize = 0
}

func (s *musicSim) isFinished() bool {
	for _, t := range s.tracks {
		if len(t) > 0 {
			return false
		}
	}
	return true
}

func (s *musicSim) mainLoop() {
	for i, track := range s.tracks {
		if len(track) == 0 {
			continue
		}
		message := track[0]
		if message.Time > s.mt-s.lastMsgMT[i] {
			continue
		}
		switch {
		case message.Type == "note_on":
			if message.Velocity != 0 {
				s.playNote(message)
			}
		case message.Type == "set_tempo":
			s.bpm = 6e7 / float64(message.TempoMicros)
		case message.Type == "control_change":
			if message.Control == 7 {
				s.channelVolume[int32(message.Channel)] = int32(message.Value)
			}
		case message.Type == "program_change":
			s.channelInstrument[int32(message.Channel)] = int32(message.Program)
		}
		s.lastMsgMT[i] = s.mt
		s.tracks[i] = track[1:]
	}
	s.mt++
	s.gt += 1 / (s.bpm * s.mtPerBeat * s.userSpeed / 1200)
	s.gtInt = int(math.Round(s.gt))
	if s.gtInt > s.lastGTInt {
		s.lastGTInt = s.gtInt
		if s.curChunkSize >= s.chunkSize {
			s.newFile()
		}
	}
}

func (s *musicSim) getInstrument(channel int32) string {
	id := s.channelInstrument[channel]
	if name, ok := s.overrideInstrument[id]; ok {
		return name
	}
	return instrumentIDs[id]
}

func (s *musicSim) getVolume(channel int32, velocity int) float64 {
	channelV := float64(s.channelVolume[channel]) * s.userChannelVolumeOf(channel)
	return float64(velocity) * channelV / 127 / 127 * s.userVolume
}

func (s *musicSim) userChannelVolumeOf(channel int32) float64 {
	if v, ok := s.userChannelVolume[channel]; ok {
		return v
	}
	return 1
}

func (s *musicSim) getPitch(note int) float64 {
	return math.Pow(2, (float64(note+int(s.noteOffset)-54))/12-1)
}

func (s *musicSim) playNote(message midiMessage) {
	volume := s.getVolume(int32(message.Channel), message.Velocity)
	if volume == 0 {
		return
	}
	pitch := s.getPitch(message.Note)
	sound := s.getInstrument(int32(message.Channel))
	s.m.File(s.curFile).Commands = append(s.m.File(s.curFile).Commands, &cmds.Execute{
		Subcmds: []cmds.ExecuteSubcmd{
			cmds.ExecuteScoreMatch{Slot: s.timerSlot, HasLo: true, HasHi: true, Lo: int32(s.gtInt), Hi: int32(s.gtInt)},
			cmds.ExecuteEnv{Kind: cmds.EnvAs, Args: s.listener},
			cmds.ExecuteEnv{Kind: cmds.EnvAt, Args: "@s"},
		},
		Runs: &cmds.Raw{Text: fmt.Sprintf("playsound %s @s ~ ~ ~ %.2f %.3f", sound, volume, pitch)},
	})
	s.curChunkSize++
}
