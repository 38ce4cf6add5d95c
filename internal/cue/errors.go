package cue

import "errors"

// Domain errors for the cue package.
var (
	// ErrDuplicateID is returned when a cue list contains the same id twice.
	ErrDuplicateID = errors.New("cue: duplicate id")

	// ErrInvalidCue is returned when a loaded cue fails validation.
	ErrInvalidCue = errors.New("cue: invalid")
)
