package show

import "github.com/nerrad567/showcue-core/internal/cue"

// ResolveDMX returns the row of the first cue bound to channel whose
// threshold value reaches, or -1.
func ResolveDMX(cues []cue.Cue, channel, value int) int {
	if channel < 0 {
		return cue.Unbound
	}
	for row, c := range cues {
		if c.DMXChannel >= 0 && c.DMXChannel == channel && value >= c.DMXValue {
			return row
		}
	}
	return cue.Unbound
}

// ResolveMIDI returns the row of the first cue bound to note, or -1.
func ResolveMIDI(cues []cue.Cue, note int) int {
	if note < 0 {
		return cue.Unbound
	}
	for row, c := range cues {
		if c.MidiNote == note {
			return row
		}
	}
	return cue.Unbound
}
