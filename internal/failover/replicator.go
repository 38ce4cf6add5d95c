package failover

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/showcue-core/internal/control/udp"
	"github.com/nerrad567/showcue-core/internal/cue"
)

// Logger is the logging contract used by the replicator.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

// RemoteEvent is a verified event received from the peer.
type RemoteEvent struct {
	Type    string
	EventID string
	CueID   string // TypeCueLive
	Text    string // TypeOverlayText
}

// RemoteHandler receives verified peer events on the receive goroutine.
type RemoteHandler func(RemoteEvent)

// Options configures a Replicator.
type Options struct {
	Logger  Logger
	Handler RemoteHandler

	// Resolver is used for peer DNS lookups. Defaults to net.DefaultResolver.
	Resolver *net.Resolver

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Replicator publishes local events to one peer and verifies the peer's.
//
// Thread Safety: all methods are safe for concurrent use. The handler is
// called from the socket goroutine and should hand work to the show loop.
type Replicator struct {
	nodeID   string
	logger   Logger
	handler  RemoteHandler
	resolver *net.Resolver
	now      func() time.Time
	listener *udp.Listener

	mu     sync.Mutex
	key    []byte
	peer   *net.UDPAddr
	recent *recentSet
}

// New creates a stopped replicator with a fresh node id.
func New(opts Options) *Replicator {
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}
	if opts.Resolver == nil {
		opts.Resolver = net.DefaultResolver
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Replicator{
		nodeID:   uuid.New().String(),
		logger:   opts.Logger,
		handler:  opts.Handler,
		resolver: opts.Resolver,
		now:      opts.Now,
		listener: udp.NewListener("failover", opts.Logger),
		recent:   newRecentSet(maxRecentEvents),
	}
}

// NodeID returns this process's node id.
func (r *Replicator) NodeID() string {
	return r.nodeID
}

// Start binds the sync socket and begins accepting peer events.
//
// A running replicator is stopped and restarted with the new settings.
// Incoming datagrams are verified against sharedKey and handed to the
// configured handler until Stop is called.
//
// Parameters:
//   - ctx: Bounds the bind only
//   - listenPort: UDP port to bind (0 picks an ephemeral port)
//   - sharedKey: HMAC key shared with the peer, surrounding spaces ignored
//
// Returns:
//   - error: nil on success, or:
//   - ErrEmptyKey if sharedKey is blank
//   - a wrapped bind error if the port is unavailable
func (r *Replicator) Start(ctx context.Context, listenPort int, sharedKey string) error {
	r.Stop()

	key := strings.TrimSpace(sharedKey)
	if key == "" {
		return ErrEmptyKey
	}

	r.mu.Lock()
	r.key = []byte(key)
	r.mu.Unlock()

	if err := r.listener.Start(ctx, listenPort, func(data []byte, _ net.Addr) {
		r.HandleDatagram(data)
	}); err != nil {
		return fmt.Errorf("failover: bind udp %d: %w", listenPort, err)
	}
	r.logger.Info("failover sync listening", "port", r.listener.Port(), "node_id", r.nodeID)
	return nil
}

// Stop closes the socket. Safe to call when stopped.
func (r *Replicator) Stop() {
	if r.listener.Running() {
		r.listener.Stop()
		r.logger.Info("failover sync stopped")
	}
}

// IsRunning reports whether the socket is bound.
func (r *Replicator) IsRunning() bool {
	return r.listener.Running()
}

// Port returns the bound listen port, or 0 when stopped.
func (r *Replicator) Port() int {
	return r.listener.Port()
}

// SetPeer resolves host (literal address first, then DNS) and makes it the
// send target. On failure the peer is cleared and sends become no-ops; the
// replicator keeps receiving. An empty host clears the peer.
func (r *Replicator) SetPeer(ctx context.Context, host string, port int) error {
	r.mu.Lock()
	r.peer = nil
	r.mu.Unlock()

	host = strings.TrimSpace(host)
	if host == "" {
		return nil
	}
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPeerPort, port)
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		ips, lookupErr := r.resolver.LookupNetIP(ctx, "ip", host)
		if lookupErr != nil || len(ips) == 0 {
			return fmt.Errorf("%w: %s", ErrPeerUnresolved, host)
		}
		addr = ips[0]
	}

	peer := net.UDPAddrFromAddrPort(netip.AddrPortFrom(addr.Unmap(), uint16(port)))
	r.mu.Lock()
	r.peer = peer
	r.mu.Unlock()
	r.logger.Info("failover peer set", "peer", peer.String())
	return nil
}

// Peer returns the resolved peer address, or nil.
func (r *Replicator) Peer() net.Addr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.peer == nil {
		return nil
	}
	return r.peer
}

// Publish signs and sends one event to the peer.
//
// It is a no-op unless the replicator is running and has a peer. The event
// id is remembered so that the peer echoing it back is ignored.
//
// Parameters:
//   - eventType: One of TypeCueLive, TypeStopAll or TypeOverlayText
//   - payload: Event fields, encoded as JSON inside the signed envelope
//
// Returns:
//   - error: nil on success or when there is nobody to send to, otherwise
//     an envelope encoding or socket write error
func (r *Replicator) Publish(eventType string, payload map[string]any) error {
	if !r.listener.Running() {
		return nil
	}

	r.mu.Lock()
	peer := r.peer
	key := r.key
	r.mu.Unlock()
	if peer == nil {
		return nil
	}

	env, err := r.seal(key, eventType, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failover: encoding envelope: %w", err)
	}

	r.mu.Lock()
	r.recent.remember(env.EventID)
	r.mu.Unlock()

	if err := r.listener.WriteTo(data, peer); err != nil {
		return fmt.Errorf("failover: send %s: %w", eventType, err)
	}
	r.logger.Debug("failover event sent", "type", eventType, "event_id", env.EventID)
	return nil
}

// PublishCueLive announces that c went live on this node.
func (r *Replicator) PublishCueLive(c cue.Cue) error {
	return r.Publish(TypeCueLive, map[string]any{
		"cueId":        c.ID,
		"cueName":      c.Name,
		"targetSetId":  c.TargetSetID,
		"targetScreen": c.TargetScreen,
		"layer":        c.Layer,
	})
}

// PublishStopAll announces a global stop.
func (r *Replicator) PublishStopAll() error {
	return r.Publish(TypeStopAll, map[string]any{})
}

// PublishOverlayText announces new overlay text.
func (r *Replicator) PublishOverlayText(text string) error {
	return r.Publish(TypeOverlayText, map[string]any{"text": text})
}

func (r *Replicator) seal(key []byte, eventType string, payload map[string]any) (*Envelope, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	eventID := uuid.New().String()
	auth, err := computeAuth(key, eventID, eventType, payload)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		Version:      protocolVersion,
		EventID:      eventID,
		Source:       r.nodeID,
		Type:         eventType,
		TimestampUTC: r.now().UTC().Format(time.RFC3339),
		Auth:         auth,
		Payload:      payload,
	}, nil
}

// HandleDatagram verifies one received datagram and, if it is a new event
// from the peer, passes it to the handler. Reports whether it was accepted.
func (r *Replicator) HandleDatagram(data []byte) bool {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		r.logger.Debug("failover: dropping undecodable datagram", "error", err)
		return false
	}
	if !env.complete() {
		r.logger.Debug("failover: dropping incomplete envelope")
		return false
	}
	if env.Source == r.nodeID {
		return false
	}

	r.mu.Lock()
	key := r.key
	if r.recent.seen(env.EventID) {
		r.mu.Unlock()
		return false
	}
	if len(key) == 0 || !verifyAuth(key, &env) {
		r.mu.Unlock()
		r.logger.Debug("failover: dropping envelope with bad auth", "event_id", env.EventID)
		return false
	}
	r.recent.remember(env.EventID)
	r.mu.Unlock()

	ev := RemoteEvent{Type: env.Type, EventID: env.EventID}
	switch env.Type {
	case TypeCueLive:
		ev.CueID = stringField(env.Payload, "cueId")
		if ev.CueID == "" {
			return false
		}
	case TypeStopAll:
	case TypeOverlayText:
		ev.Text = stringField(env.Payload, "text")
	default:
		r.logger.Debug("failover: ignoring unknown event type", "type", env.Type)
		return false
	}

	if r.handler != nil {
		r.handler(ev)
	}
	return true
}

func stringField(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return s
}
