// Package trigger defines the normalized events that every control
// ingress (OSC, plain-text UDP, Art-Net, MIDI, HTTP, failover) produces
// and the show engine consumes.
package trigger

import "fmt"

// Kind identifies the action an Event requests.
type Kind int

// Event kinds.
const (
	PlayRow Kind = iota + 1
	PreviewRow
	PreloadRow
	Take
	StopAll
	Timecode
	DMXLevel
	OverlayText
	MIDINote
)

// Event sources.
const (
	SourceOSC      = "osc"
	SourceArtnet   = "artnet"
	SourceMIDI     = "midi"
	SourceAPI      = "api"
	SourceMQTT     = "mqtt"
	SourceFailover = "failover"
)

var kindNames = map[Kind]string{
	PlayRow:     "play_row",
	PreviewRow:  "preview_row",
	PreloadRow:  "preload_row",
	Take:        "take",
	StopAll:     "stop_all",
	Timecode:    "timecode",
	DMXLevel:    "dmx_level",
	OverlayText: "overlay_text",
	MIDINote:    "midi_note",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is a normalized control trigger. Only the fields relevant to Kind
// are set.
type Event struct {
	Kind    Kind
	Row     int    // PlayRow, PreviewRow, PreloadRow
	Text    string // Timecode, OverlayText
	Channel int    // DMXLevel, 1-based
	Value   int    // DMXLevel, 0-255
	Note    int    // MIDINote
	Source  string
}

func (e Event) String() string {
	switch e.Kind {
	case PlayRow, PreviewRow, PreloadRow:
		return fmt.Sprintf("%s(%d)", e.Kind, e.Row)
	case Timecode, OverlayText:
		return fmt.Sprintf("%s(%q)", e.Kind, e.Text)
	case DMXLevel:
		return fmt.Sprintf("%s(%d,%d)", e.Kind, e.Channel, e.Value)
	case MIDINote:
		return fmt.Sprintf("%s(%d)", e.Kind, e.Note)
	default:
		return e.Kind.String()
	}
}

// Sink receives events from an ingress. Implementations must not block.
type Sink interface {
	Submit(e Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(e Event)

// Submit calls f(e).
func (f SinkFunc) Submit(e Event) { f(e) }

// BatchSink is a Sink that can take the events of one datagram together.
// A batch is handled in order and is either queued whole or dropped whole.
type BatchSink interface {
	Sink
	SubmitBatch(events []Event)
}

// SubmitAll hands events to sink, as a single batch when sink supports it.
func SubmitAll(sink Sink, events []Event) {
	if len(events) == 0 {
		return
	}
	if b, ok := sink.(BatchSink); ok {
		b.SubmitBatch(events)
		return
	}
	for _, e := range events {
		sink.Submit(e)
	}
}

// Play returns a PlayRow event.
func Play(row int) Event { return Event{Kind: PlayRow, Row: row} }

// Preview returns a PreviewRow event.
func Preview(row int) Event { return Event{Kind: PreviewRow, Row: row} }

// Preload returns a PreloadRow event.
func Preload(row int) Event { return Event{Kind: PreloadRow, Row: row} }

// TakeEvent returns a Take event.
func TakeEvent() Event { return Event{Kind: Take} }

// StopAllEvent returns a StopAll event.
func StopAllEvent() Event { return Event{Kind: StopAll} }

// TimecodeEvent returns a Timecode event.
func TimecodeEvent(code string) Event { return Event{Kind: Timecode, Text: code} }

// DMX returns a DMXLevel event.
func DMX(channel, value int) Event { return Event{Kind: DMXLevel, Channel: channel, Value: value} }

// Overlay returns an OverlayText event.
func Overlay(text string) Event { return Event{Kind: OverlayText, Text: text} }

// Note returns a MIDINote event.
func Note(note int) Event { return Event{Kind: MIDINote, Note: note} }

// From returns a copy of e tagged with the given source.
func (e Event) From(source string) Event {
	e.Source = source
	return e
}
