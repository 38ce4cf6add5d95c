package artnet

import (
	"fmt"
	"sync"
)

// Level is a changed channel value. Channel is 1-based.
type Level struct {
	Channel int
	Value   int
}

// Decoder turns ArtDmx datagrams for one universe into channel changes.
//
// Thread Safety: all methods are safe for concurrent use.
type Decoder struct {
	mu       sync.Mutex
	universe int
	shadow   [Channels]byte
}

// NewDecoder creates a decoder bound to universe.
func NewDecoder(universe int) (*Decoder, error) {
	if universe < 0 || universe > MaxUniverse {
		return nil, fmt.Errorf("%w: %d", ErrInvalidUniverse, universe)
	}
	return &Decoder{universe: universe}, nil
}

// Universe returns the bound universe.
func (d *Decoder) Universe() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.universe
}

// Reset rebinds the universe and clears the shadow buffer.
func (d *Decoder) Reset(universe int) error {
	if universe < 0 || universe > MaxUniverse {
		return fmt.Errorf("%w: %d", ErrInvalidUniverse, universe)
	}
	d.mu.Lock()
	d.universe = universe
	d.shadow = [Channels]byte{}
	d.mu.Unlock()
	return nil
}

// Decode returns the levels that changed since the last accepted frame.
// Frames for other universes are dropped without error.
func (d *Decoder) Decode(datagram []byte) ([]Level, error) {
	pkt, err := ParseDMX(datagram)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if pkt.Universe != d.universe {
		return nil, nil
	}

	n := min(len(pkt.Data), Channels)
	var changed []Level
	for i := 0; i < n; i++ {
		level := pkt.Data[i]
		if level == d.shadow[i] {
			continue
		}
		d.shadow[i] = level
		changed = append(changed, Level{Channel: i + 1, Value: int(level)})
	}
	return changed, nil
}
