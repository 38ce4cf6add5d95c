// Package output routes cues to display surfaces and runs transitions.
//
// A Router maps a cue's logical target ("selected screen", "screen-N" or
// "all-screens") to screen indices and drives one Surface per screen. Each
// Surface owns a Renderer (the external media player plus its overlay) and
// executes transitions as a small state machine:
//
//	Idle ──play──▶ FadingIn ──done──▶ Playing
//	Playing ──play──▶ FadingOut ──swap──▶ FadingIn ──done──▶ Playing
//	any ──stop──▶ Idle (when no layer is left playing)
//
// Fades are animated by a Scheduler in 16 ms ticks. The Scheduler decides
// which goroutine runs the ticks; the show loop serializes them with every
// other state change, so Router and Surface carry no locks.
//
// Thread Safety: Router and Surface are NOT safe for concurrent use. Drive
// them from a single goroutine.
package output
