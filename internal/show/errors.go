package show

import "errors"

// Domain errors for the show package.
var (
	// ErrLoopStopped is returned when work is posted to a finished loop.
	ErrLoopStopped = errors.New("show: loop stopped")

	// ErrLoopRunning is returned by Run on a loop that is already running.
	ErrLoopRunning = errors.New("show: loop already running")

	// ErrUnknownEvent is returned for trigger or remote events the engine
	// does not handle.
	ErrUnknownEvent = errors.New("show: unknown event")

	// ErrUnknownHotkey is returned when no cue is bound to a hotkey.
	ErrUnknownHotkey = errors.New("show: no cue bound to hotkey")
)
