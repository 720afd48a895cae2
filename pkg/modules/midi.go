package modules

import (
	"encoding/binary"
	"errors"
	"os"
)

// midiMessage is one parsed channel/meta event of interest to music.go,
// carrying Time as the tick delta since the previous message *read out of
// this same track* — matching the semantics music.py's main_loop relies on
// when it pops one message off each track at a time (mido's own Message.time
// convention).
type midiMessage struct {
	Time        int
	Type        string // "note_on" | "set_tempo" | "control_change" | "program_change"
	Channel     int
	Note        int
	Velocity    int
	Control     int
	Value       int
	Program     int
	TempoMicros int
}

type midiFile struct {
	Format        int
	TicksPerBeat  int
	Tracks        [][]midiMessage
}

// readMIDI parses a Standard MIDI File (type 0 or 1) at path into the
// subset of event data music.py's Music class actually consumes: note-on
// velocity/channel/note, tempo changes, channel-volume (CC7), and program
// (instrument) changes. Anything else (other controllers, pitch bend,
// sysex, lyrics/text meta events) is skipped but still advances the
// parser correctly via its declared length.
func readMIDI(path string) (*midiFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := &midiParser{data: data}
	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	mf := &midiFile{Format: p.format, TicksPerBeat: p.division}
	for i := 0; i < p.ntrks; i++ {
		track, err := p.parseTrack()
		if err != nil {
			return nil, err
		}
		mf.Tracks = append(mf.Tracks, track)
	}
	return mf, nil
}

type midiParser struct {
	data           []byte
	pos            int
	format, ntrks  int
	division       int
}

var errMalformedMIDI = errors.New("malformed MIDI file")

func (p *midiParser) u8() (byte, error) {
	if p.pos >= len(p.data) {
		return 0, errMalformedMIDI
	}
	b := p.data[p.pos]
	p.pos++
	return b, nil
}

func (p *midiParser) bytes(n int) ([]byte, error) {
	if p.pos+n > len(p.data) {
		return nil, errMalformedMIDI
	}
	b := p.data[p.pos : p.pos+n]
	p.pos += n
	return b, nil
}

func (p *midiParser) varint() (int, error) {
	v := 0
	for i := 0; i < 4; i++ {
		b, err := p.u8()
		if err != nil {
			return 0, err
		}
		v = (v << 7) | int(b&0x7f)
		if b&0x80 == 0 {
			return v, nil
		}
	}
	return 0, errMalformedMIDI
}

func (p *midiParser) parseHeader() error {
	magic, err := p.bytes(4)
	if err != nil || string(magic) != "MThd" {
		return errMalformedMIDI
	}
	hdrLen, err := p.bytes(4)
	if err != nil {
		return err
	}
	n := binary.BigEndian.Uint32(hdrLen)
	body, err := p.bytes(int(n))
	if err != nil || len(body) < 6 {
		return errMalformedMIDI
	}
	p.format = int(binary.BigEndian.Uint16(body[0:2]))
	p.ntrks = int(binary.BigEndian.Uint16(body[2:4]))
	p.division = int(binary.BigEndian.Uint16(body[4:6]))
	if p.division&0x8000 != 0 {
		return errors.New("SMPTE timecode division is not supported")
	}
	return nil
}

func (p *midiParser) parseTrack() ([]midiMessage, error) {
	magic, err := p.bytes(4)
	if err != nil || string(magic) != "MTrk" {
		return nil, errMalformedMIDI
	}
	lenBytes, err := p.bytes(4)
	if err != nil {
		return nil, err
	}
	trackLen := int(binary.BigEndian.Uint32(lenBytes))
	end := p.pos + trackLen
	var msgs []midiMessage
	pendingTime := 0
	var runningStatus byte
	for p.pos < end {
		delta, err := p.varint()
		if err != nil {
			return nil, err
		}
		pendingTime += delta
		status, err := p.u8()
		if err != nil {
			return nil, err
		}
		if status < 0x80 {
			// running status: this byte is actually the first data byte.
			p.pos--
			status = runningStatus
		} else {
			runningStatus = status
		}
		switch {
		case status == 0xFF:
			metaType, err := p.u8()
			if err != nil {
				return nil, err
			}
			n, err := p.varint()
			if err != nil {
				return nil, err
			}
			body, err := p.bytes(n)
			if err != nil {
				return nil, err
			}
			if metaType == 0x51 && len(body) == 3 {
				micros := int(body[0])<<16 | int(body[1])<<8 | int(body[2])
				msgs = append(msgs, midiMessage{Time: pendingTime, Type: "set_tempo", TempoMicros: micros})
				pendingTime = 0
			}
		case status == 0xF0 || status == 0xF7:
			n, err := p.varint()
			if err != nil {
				return nil, err
			}
			if _, err := p.bytes(n); err != nil {
				return nil, err
			}
		default:
			kind := status & 0xF0
			channel := int(status & 0x0F)
			switch kind {
			case 0x80, 0x90, 0xA0, 0xB0, 0xE0:
				data, err := p.bytes(2)
				if err != nil {
					return nil, err
				}
				switch kind {
				case 0x90:
					msgs = append(msgs, midiMessage{Time: pendingTime, Type: "note_on", Channel: channel, Note: int(data[0]), Velocity: int(data[1])})
					pendingTime = 0
				case 0x80:
					msgs = append(msgs, midiMessage{Time: pendingTime, Type: "note_on", Channel: channel, Note: int(data[0]), Velocity: 0})
					pendingTime = 0
				case 0xB0:
					msgs = append(msgs, midiMessage{Time: pendingTime, Type: "control_change", Channel: channel, Control: int(data[0]), Value: int(data[1])})
					pendingTime = 0
				}
			case 0xC0, 0xD0:
				data, err := p.bytes(1)
				if err != nil {
					return nil, err
				}
				if kind == 0xC0 {
					msgs = append(msgs, midiMessage{Time: pendingTime, Type: "program_change", Channel: channel, Program: int(data[0])})
					pendingTime = 0
				}
			default:
				return nil, errMalformedMIDI
			}
		}
	}
	p.pos = end
	return msgs, nil
}
