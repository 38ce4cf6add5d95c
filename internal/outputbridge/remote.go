package outputbridge

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Publisher sends bridge control messages.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	IsConnected() bool
}

type bridgeCommand struct {
	Enabled bool `json:"enabled"`
}

// Remote is a bridge run by a companion process that follows a retained
// MQTT control topic. It is available while the broker is connected.
type Remote struct {
	name  string
	topic string
	pub   Publisher

	mu      sync.Mutex
	enabled bool
}

// NewRemote creates a bridge controlled through topic.
func NewRemote(name, topic string, pub Publisher) *Remote {
	return &Remote{name: name, topic: topic, pub: pub}
}

// Name returns the bridge name.
func (r *Remote) Name() string { return r.name }

// IsAvailable reports whether the control channel is up.
func (r *Remote) IsAvailable() bool { return r.pub != nil && r.pub.IsConnected() }

// Enabled reports whether the bridge was last told to run.
func (r *Remote) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// Enable tells the companion to start mirroring program output.
func (r *Remote) Enable() error {
	if !r.IsAvailable() {
		return fmt.Errorf("%w: %s (broker not connected)", ErrUnavailable, r.name)
	}
	if err := r.send(true); err != nil {
		return err
	}
	r.mu.Lock()
	r.enabled = true
	r.mu.Unlock()
	return nil
}

// Disable tells the companion to stop. It is a no-op when already off.
func (r *Remote) Disable() {
	r.mu.Lock()
	was := r.enabled
	r.enabled = false
	r.mu.Unlock()
	if was && r.IsAvailable() {
		_ = r.send(false)
	}
}

func (r *Remote) send(enabled bool) error {
	payload, err := json.Marshal(bridgeCommand{Enabled: enabled})
	if err != nil {
		return fmt.Errorf("encoding %s command: %w", r.name, err)
	}
	if err := r.pub.Publish(r.topic, payload, 1, true); err != nil {
		return fmt.Errorf("publishing %s command: %w", r.name, err)
	}
	return nil
}
