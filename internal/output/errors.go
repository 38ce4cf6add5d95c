package output

import "errors"

// Domain errors for the output package.
var (
	// ErrNothingPreviewed is returned by TakePreview before any preview.
	ErrNothingPreviewed = errors.New("output: nothing is in preview")

	// ErrRouteFailed is returned when no target screen accepted the cue.
	// It wraps the per-screen errors.
	ErrRouteFailed = errors.New("output: routing failed on every target")

	// ErrScreenNotFound is returned by a DisplayDirectory for unknown screens.
	ErrScreenNotFound = errors.New("output: screen not found")

	// ErrNoMedia is returned when a cue has neither file nor live URL.
	ErrNoMedia = errors.New("output: cue has no playable media")
)
