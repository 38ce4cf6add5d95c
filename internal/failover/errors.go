package failover

import "errors"

// Domain errors for the failover package.
var (
	// ErrEmptyKey is returned by Start when the shared key is blank.
	ErrEmptyKey = errors.New("failover: shared key is required")

	// ErrPeerUnresolved is returned by SetPeer when the host cannot be resolved.
	ErrPeerUnresolved = errors.New("failover: peer host resolution failed")

	// ErrInvalidPeerPort is returned by SetPeer for ports outside 1-65535.
	ErrInvalidPeerPort = errors.New("failover: invalid peer port")
)
