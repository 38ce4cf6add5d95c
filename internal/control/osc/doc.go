// Package osc ingests show-control commands from UDP.
//
// Two grammars share one socket:
//
//   - Binary OSC-lite: a NUL-padded, 4-byte aligned address, a type-tag
//     string starting with ',' and big-endian arguments. Only the 'i'
//     (int32), 'f' (float32) and 's' (string) tags are supported.
//   - Plain text: whitespace separated tokens such as "play 3",
//     "text Doors open" or "/cue/preview/2". Bare verbs are mapped to
//     canonical addresses.
//
// Decoded messages are dispatched to normalized trigger events:
//
//	/cue/play[/N] [row]      → PlayRow
//	/cue/preview[/N] [row]   → PreviewRow
//	/cue/preload[/N] [row]   → PreloadRow
//	/cue/take, /take         → Take
//	/cue/stop_all, /stop_all → StopAll
//	/timecode, /tc <code>    → Timecode
//	/dmx <channel> <value>   → DMXLevel
//	/text, /overlay/text     → OverlayText (empty text when no argument)
//
// Malformed packets and unknown addresses are reported as errors for
// diagnostics; they never stop the server.
package osc
