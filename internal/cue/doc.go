// Package cue defines the cue data model for showcue.
//
// A cue is a schedulable playback unit: a media source (a file or a live
// input URL), a logical display target, a layer, an optional transition
// override, external trigger bindings (timecode, MIDI note, DMX level,
// hotkey) and sequencing settings (follow cue, playlist advance, auto-stop).
//
// # Key Types
//
//   - Cue: the data entity. Read-only to playback and output.
//   - TransitionStyle: the closed set of supported transitions.
//   - Calibration: per-screen edge blend, keystone and mask settings.
//   - Store: the row-indexed lookup contract used by playback.
//   - List: the in-memory Store, loaded from a YAML cue list.
//
// # Thread Safety
//
// List is safe for concurrent use. Cue and Calibration are value types.
//
// # Usage
//
//	list, err := cue.LoadList("configs/cues.yaml")
//	if err != nil {
//	    return err
//	}
//	c, ok := list.CueAt(0)
package cue
