// Package playback is the cue-scheduling brain of a show node.
//
// The Controller turns row, id, take and timecode requests into routed
// cues, applies each cue's own transition override, and schedules the
// follow-ups a live cue asks for:
//
//   - follow cue: the configured row (or the next row) after FollowDelayMs
//   - playlist advance: the next cue sharing PlaylistID, wrapping when the
//     playlist loops, after PlaylistAdvanceDelayMs
//   - auto-stop: the cue's own layer on its own targets after AutoStopMs
//
// Follow cues and playlist advance are deliberately separate paths: follow
// addresses a raw row index, playlist advance scans by set membership and
// never selects the current row.
//
// Timers run through a Scheduler and re-resolve their target when they
// fire, so a cue removed in the meantime turns the timer into a no-op.
//
// Thread Safety: Controller is NOT safe for concurrent use. Drive it from
// the show loop.
package playback
