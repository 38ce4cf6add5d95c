package artnet

import "errors"

// Domain errors for the artnet package.
var (
	// ErrInvalidPacket is returned for datagrams that are not ArtDmx.
	ErrInvalidPacket = errors.New("artnet: invalid packet")

	// ErrInvalidUniverse is returned for universes outside 0-32767.
	ErrInvalidUniverse = errors.New("artnet: universe must be between 0 and 32767")
)
