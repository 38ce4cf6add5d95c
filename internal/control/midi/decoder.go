// Package midi turns MIDI input into show triggers: Note On messages become
// MIDINote events and MIDI Time Code quarter frames are assembled into
// "HH:MM:SS:FF" timecode events.
package midi

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"

	"github.com/nerrad567/showcue-core/internal/trigger"
)

const statusMTCQuarterFrame = 0xF1

// Decoder converts raw MIDI messages into trigger events. It holds the eight
// MTC quarter-frame nibbles between messages, so one Decoder must be used
// per input port.
type Decoder struct {
	nibbles [8]uint8
}

// Decode returns the event for msg, or false if msg is not relevant.
func (d *Decoder) Decode(msg midi.Message) (trigger.Event, bool) {
	switch {
	case msg.Is(midi.NoteOnMsg):
		var channel, key, velocity uint8
		msg.GetNoteOn(&channel, &key, &velocity)
		// Note On with zero velocity is a Note Off.
		if velocity == 0 {
			return trigger.Event{}, false
		}
		return trigger.Note(int(key)).From(trigger.SourceMIDI), true

	case len(msg) >= 2 && msg[0] == statusMTCQuarterFrame:
		return d.quarterFrame(msg[1])
	}
	return trigger.Event{}, false
}

// quarterFrame stores one nibble. The full time is emitted when piece 7
// (hours high nibble) arrives.
func (d *Decoder) quarterFrame(data uint8) (trigger.Event, bool) {
	piece := (data >> 4) & 0x07
	d.nibbles[piece] = data & 0x0F
	if piece != 7 {
		return trigger.Event{}, false
	}

	n := d.nibbles
	frame := int(n[0]) | int(n[1]&0x1)<<4
	second := int(n[2]) | int(n[3])<<4
	minute := int(n[4]) | int(n[5])<<4
	hour := int(n[6]) | int(n[7]&0x1)<<4

	code := fmt.Sprintf("%02d:%02d:%02d:%02d", hour, minute, second, frame)
	return trigger.TimecodeEvent(code).From(trigger.SourceMIDI), true
}

// QuarterFrames encodes a time as the eight MTC quarter-frame messages a
// sender would transmit, piece 0 first. The rate bits are left at 24 fps.
func QuarterFrames(hour, minute, second, frame int) []midi.Message {
	values := [8]int{
		frame & 0x0F, (frame >> 4) & 0x01,
		second & 0x0F, (second >> 4) & 0x03,
		minute & 0x0F, (minute >> 4) & 0x03,
		hour & 0x0F, (hour >> 4) & 0x01,
	}
	msgs := make([]midi.Message, 0, len(values))
	for piece, v := range values {
		msgs = append(msgs, midi.Message{statusMTCQuarterFrame, byte(piece<<4 | v)})
	}
	return msgs
}
