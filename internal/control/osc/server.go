package osc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"

	"github.com/nerrad567/showcue-core/internal/control/udp"
	"github.com/nerrad567/showcue-core/internal/trigger"
)

// Logger is the logging contract used by the server.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

// Stats counts datagrams by outcome. Received counts socket reads only;
// commands relayed through HandleText are counted by outcome alone.
type Stats struct {
	Received  uint64 `json:"received"`
	Events    uint64 `json:"events"`
	Malformed uint64 `json:"malformed"`
	Unhandled uint64 `json:"unhandled"`
	Ignored   uint64 `json:"ignored"`
}

// Server listens for OSC and plain-text commands and submits trigger
// events to a sink.
type Server struct {
	listener *udp.Listener
	sink     trigger.Sink
	logger   Logger
	source   string

	events    atomic.Uint64
	malformed atomic.Uint64
	unhandled atomic.Uint64
	ignored   atomic.Uint64
}

// NewServer creates a stopped server.
func NewServer(sink trigger.Sink, logger Logger) *Server {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Server{
		listener: udp.NewListener("osc", logger),
		sink:     sink,
		logger:   logger,
		source:   trigger.SourceOSC,
	}
}

// Start binds the UDP port. A bind failure is returned and leaves the server
// stopped.
func (s *Server) Start(ctx context.Context, port int) error {
	return s.listener.Start(ctx, port, func(data []byte, _ net.Addr) {
		s.HandlePacket(data)
	})
}

// Stop closes the socket.
func (s *Server) Stop() {
	s.listener.Stop()
}

// Port returns the bound port, or 0 when stopped.
func (s *Server) Port() int {
	return s.listener.Port()
}

// HandlePacket decodes one packet and submits the resulting event. It is
// also the entry point for command text arriving over other transports.
func (s *Server) HandlePacket(data []byte) {
	s.handle(data, s.source)
}

// HandleText is HandlePacket for a payload from another ingress, tagged
// with that source.
func (s *Server) HandleText(data []byte, source string) {
	s.handle(data, source)
}

func (s *Server) handle(data []byte, source string) {
	msg, err := Decode(data)
	if err != nil {
		s.malformed.Add(1)
		s.logger.Debug("dropping malformed osc packet", "error", err, "bytes", len(data))
		return
	}

	event, ok, err := Dispatch(msg)
	if err != nil {
		if errors.Is(err, ErrUnhandledAddress) {
			s.unhandled.Add(1)
		}
		s.logger.Debug("osc message not dispatched", "message", msg.String(), "error", err)
		return
	}
	if !ok {
		s.ignored.Add(1)
		s.logger.Debug("osc message produced no event", "message", msg.String())
		return
	}

	s.events.Add(1)
	s.sink.Submit(event.From(source))
}

// Stats returns the datagram counters.
func (s *Server) Stats() Stats {
	return Stats{
		Received:  s.listener.Received(),
		Events:    s.events.Load(),
		Malformed: s.malformed.Load(),
		Unhandled: s.unhandled.Load(),
		Ignored:   s.ignored.Load(),
	}
}
