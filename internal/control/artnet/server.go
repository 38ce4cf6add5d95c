package artnet

import (
	"context"
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

// Stats counts datagrams and the level changes they carried.
type Stats struct {
	Received uint64 `json:"received"`
	Invalid  uint64 `json:"invalid"`
	Changes  uint64 `json:"changes"`
}

// Server listens for ArtDmx datagrams and submits DMXLevel events.
type Server struct {
	listener *udp.Listener
	decoder  *Decoder
	sink     trigger.Sink
	logger   Logger

	invalid atomic.Uint64
	changes atomic.Uint64
}

// NewServer creates a stopped server.
func NewServer(sink trigger.Sink, logger Logger) *Server {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Server{
		listener: udp.NewListener("artnet", logger),
		decoder:  &Decoder{},
		sink:     sink,
		logger:   logger,
	}
}

// Start binds port and listens for universe. The shadow buffer is reset so
// the first frame after a (re)start reports every non-zero channel.
func (s *Server) Start(ctx context.Context, port, universe int) error {
	if err := s.decoder.Reset(universe); err != nil {
		return err
	}
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

// Universe returns the bound universe.
func (s *Server) Universe() int {
	return s.decoder.Universe()
}

// HandlePacket decodes one datagram and submits an event per changed level.
// All changes of a frame go to the sink as one batch, so a full-universe
// change does not overrun a bounded event queue.
func (s *Server) HandlePacket(data []byte) {
	levels, err := s.decoder.Decode(data)
	if err != nil {
		s.invalid.Add(1)
		s.logger.Debug("dropping invalid art-net packet", "error", err)
		return
	}
	if len(levels) == 0 {
		return
	}
	events := make([]trigger.Event, len(levels))
	for i, l := range levels {
		events[i] = trigger.DMX(l.Channel, l.Value).From(trigger.SourceArtnet)
	}
	s.changes.Add(uint64(len(levels)))
	trigger.SubmitAll(s.sink, events)
}

// Stats returns the datagram counters. Received counts only datagrams read
// from the socket, not ones handed to HandlePacket directly.
func (s *Server) Stats() Stats {
	return Stats{
		Received: s.listener.Received(),
		Invalid:  s.invalid.Load(),
		Changes:  s.changes.Load(),
	}
}
