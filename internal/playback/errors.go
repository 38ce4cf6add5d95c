package playback

import "errors"

// Domain errors for the playback package.
var (
	// ErrInvalidRow is returned for rows outside the cue list.
	ErrInvalidRow = errors.New("playback: invalid cue row")

	// ErrCueNotFound is returned when a cue id is not in the list.
	ErrCueNotFound = errors.New("playback: cue not found")

	// ErrNoMedia is returned for cues with neither file nor live URL.
	ErrNoMedia = errors.New("playback: cue has no playable media")

	// ErrInvalidTimecode is returned for timecodes that cannot be normalized.
	ErrInvalidTimecode = errors.New("playback: invalid timecode")
)
