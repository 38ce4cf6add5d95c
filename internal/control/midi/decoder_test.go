package midi

import (
	"testing"

	"gitlab.com/gomidi/midi/v2"

	"github.com/nerrad567/showcue-core/internal/trigger"
)

func TestDecoder_NoteOn(t *testing.T) {
	tests := []struct {
		name   string
		msg    midi.Message
		want   trigger.Event
		wantOK bool
	}{
		{"note on", midi.NoteOn(0, 60, 100), trigger.Note(60).From(trigger.SourceMIDI), true},
		{"other channel", midi.NoteOn(9, 36, 1), trigger.Note(36).From(trigger.SourceMIDI), true},
		{"zero velocity", midi.NoteOn(0, 60, 0), trigger.Event{}, false},
		{"note off", midi.NoteOff(0, 60), trigger.Event{}, false},
		{"control change", midi.ControlChange(0, 7, 127), trigger.Event{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Decoder
			got, ok := d.Decode(tt.msg)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Decode() = (%+v, %v), want (%+v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDecoder_MTC(t *testing.T) {
	var d Decoder
	frames := QuarterFrames(1, 2, 3, 4)

	for i, msg := range frames[:7] {
		if ev, ok := d.Decode(msg); ok {
			t.Fatalf("piece %d emitted %+v before piece 7", i, ev)
		}
	}
	ev, ok := d.Decode(frames[7])
	if !ok {
		t.Fatal("piece 7 did not emit timecode")
	}
	want := trigger.TimecodeEvent("01:02:03:04").From(trigger.SourceMIDI)
	if ev != want {
		t.Errorf("event = %+v, want %+v", ev, want)
	}
}

func TestDecoder_MTCMaxValues(t *testing.T) {
	var d Decoder
	var last trigger.Event
	for _, msg := range QuarterFrames(23, 59, 59, 29) {
		if ev, ok := d.Decode(msg); ok {
			last = ev
		}
	}
	if last.Text != "23:59:59:29" {
		t.Errorf("timecode = %q, want 23:59:59:29", last.Text)
	}
}

func TestDecoder_MTCShortMessageIgnored(t *testing.T) {
	var d Decoder
	if _, ok := d.Decode(midi.Message{0xF1}); ok {
		t.Error("single-byte quarter frame should be ignored")
	}
}
