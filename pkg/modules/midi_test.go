package modules

import (
	"os"
	"path/filepath"
	"testing"
)

// buildMinimalSMF assembles a type-0, single-track Standard MIDI File with
// one tempo meta event, one note-on (running-status note-off via velocity 0),
// and a control-change, to exercise readMIDI's header/running-status/
// meta-event handling without needing a real, far larger, sample file.
func buildMinimalSMF() []byte {
	header := []byte{'M', 'T', 'h', 'd', 0, 0, 0, 6, 0, 0, 0, 1, 0, 96}

	var track []byte
	// delta 0, set_tempo meta event, 500000 us/beat (120 BPM).
	track = append(track, 0x00, 0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20)
	// delta 0, note_on channel 0, note 60, velocity 100.
	track = append(track, 0x00, 0x90, 0x3C, 0x64)
	// delta 10, running status note_on (implicit 0x90) channel 0, note 60, velocity 0 (note off).
	track = append(track, 0x0A, 0x3C, 0x00)
	// delta 10, control_change channel 0, controller 7 (volume), value 80.
	track = append(track, 0x0A, 0xB0, 0x07, 0x50)
	// delta 0, end of track meta event.
	track = append(track, 0x00, 0xFF, 0x2F, 0x00)

	trackHeader := []byte{'M', 'T', 'r', 'k', 0, 0, 0, byte(len(track))}

	out := append([]byte{}, header...)
	out = append(out, trackHeader...)
	out = append(out, track...)
	return out
}

func writeTempMIDI(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.mid")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write temp MIDI file: %v", err)
	}
	return path
}

func TestReadMIDI_ParsesHeaderAndDivision(t *testing.T) {
	path := writeTempMIDI(t, buildMinimalSMF())
	mf, err := readMIDI(path)
	if err != nil {
		t.Fatalf("readMIDI error: %v", err)
	}
	if mf.Format != 0 {
		t.Errorf("Format = %d, want 0", mf.Format)
	}
	if mf.TicksPerBeat != 96 {
		t.Errorf("TicksPerBeat = %d, want 96", mf.TicksPerBeat)
	}
	if len(mf.Tracks) != 1 {
		t.Fatalf("len(Tracks) = %d, want 1", len(mf.Tracks))
	}
}

func TestReadMIDI_ParsesTempoAndNoteEvents(t *testing.T) {
	path := writeTempMIDI(t, buildMinimalSMF())
	mf, err := readMIDI(path)
	if err != nil {
		t.Fatalf("readMIDI error: %v", err)
	}
	track := mf.Tracks[0]
	if len(track) != 4 {
		t.Fatalf("len(track) = %d, want 4 (tempo, note_on, note_on/off via running status, control_change)", len(track))
	}
	if track[0].Type != "set_tempo" || track[0].TempoMicros != 500000 {
		t.Errorf("track[0] = %+v, want set_tempo at 500000us", track[0])
	}
	if track[1].Type != "note_on" || track[1].Note != 60 || track[1].Velocity != 100 {
		t.Errorf("track[1] = %+v, want note_on note=60 velocity=100", track[1])
	}
	if track[2].Type != "note_on" || track[2].Note != 60 || track[2].Velocity != 0 {
		t.Errorf("track[2] = %+v, want running-status note_on velocity=0 (note off)", track[2])
	}
	if track[3].Type != "control_change" || track[3].Control != 7 || track[3].Value != 80 {
		t.Errorf("track[3] = %+v, want control_change controller=7 value=80", track[3])
	}
	if track[2].Time != 10 || track[3].Time != 10 {
		t.Errorf("delta times = %d, %d, want 10, 10", track[2].Time, track[3].Time)
	}
}

func TestReadMIDI_RejectsBadMagic(t *testing.T) {
	bad := append([]byte{}, buildMinimalSMF()...)
	bad[0] = 'X'
	path := writeTempMIDI(t, bad)
	if _, err := readMIDI(path); err == nil {
		t.Fatal("expected an error for a corrupted header magic")
	}
}

func TestReadMIDI_MissingFile(t *testing.T) {
	if _, err := readMIDI(filepath.Join(t.TempDir(), "does-not-exist.mid")); err == nil {
		t.Fatal("expected an error reading a nonexistent file")
	}
}
