package osc

import "errors"

// Domain errors for the osc package.
var (
	// ErrMalformedPacket is returned when a datagram matches neither grammar.
	ErrMalformedPacket = errors.New("osc: malformed packet")

	// ErrUnsupportedTag is returned for type tags other than i, f and s.
	ErrUnsupportedTag = errors.New("osc: unsupported type tag")

	// ErrUnknownCommand is returned for plain-text verbs without an alias.
	ErrUnknownCommand = errors.New("osc: unknown text command")

	// ErrUnhandledAddress is returned by Dispatch for addresses with no
	// trigger mapping.
	ErrUnhandledAddress = errors.New("osc: unhandled address")
)
