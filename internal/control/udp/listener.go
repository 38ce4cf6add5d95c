// Package udp provides the datagram listener shared by the OSC, Art-Net and
// failover services.
//
// A Listener owns one bound socket and one receive goroutine. Each datagram
// is copied and handed to the Handler on that goroutine; handlers are
// expected to decode and post work to the show loop, never to block.
package udp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
)

// maxDatagramSize is the largest UDP payload we accept.
const maxDatagramSize = 65535

// ErrNotRunning is returned by WriteTo when the listener is stopped.
var ErrNotRunning = errors.New("udp: listener not running")

// ErrInvalidPort is returned for ports outside 0-65535.
var ErrInvalidPort = errors.New("udp: invalid port")

// Handler receives a copy of each datagram and its sender.
type Handler func(data []byte, from net.Addr)

// Logger is the logging contract used by the listener.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

// Listener is a restartable UDP receive loop.
//
// Thread Safety: all methods are safe for concurrent use.
type Listener struct {
	name   string
	logger Logger

	mu   sync.Mutex
	conn net.PacketConn
	wg   sync.WaitGroup

	received atomic.Uint64
}

// NewListener creates a stopped listener. name tags log lines.
func NewListener(name string, logger Logger) *Listener {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Listener{name: name, logger: logger}
}

// Start binds port on all interfaces and starts the receive loop. A running
// listener is stopped first. Port 0 binds an ephemeral port.
//
// Bind failures are returned immediately; the listener stays stopped.
func (l *Listener) Start(ctx context.Context, port int, handler Handler) error {
	if port < 0 || port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}
	if handler == nil {
		return errors.New("udp: handler cannot be nil")
	}

	l.Stop()

	var lc net.ListenConfig
	conn, err := lc.ListenPacket(ctx, "udp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("%s bind on port %d: %w", l.name, port, err)
	}

	l.mu.Lock()
	l.conn = conn
	l.mu.Unlock()

	l.wg.Add(1)
	go l.receiveLoop(conn, handler)

	l.logger.Info("udp listener started", "listener", l.name, "port", l.Port())
	return nil
}

// Stop closes the socket and waits for the receive loop to exit.
// Stopping a stopped listener is a no-op.
func (l *Listener) Stop() {
	l.mu.Lock()
	conn := l.conn
	l.conn = nil
	l.mu.Unlock()

	if conn == nil {
		return
	}
	conn.Close() //nolint:errcheck // closing unblocks ReadFrom
	l.wg.Wait()
	l.logger.Info("udp listener stopped", "listener", l.name)
}

// Running reports whether the socket is bound.
func (l *Listener) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn != nil
}

// Port returns the bound port, or 0 when stopped.
func (l *Listener) Port() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn == nil {
		return 0
	}
	if addr, ok := l.conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.Port
	}
	return 0
}

// Received returns the number of datagrams read since creation.
func (l *Listener) Received() uint64 {
	return l.received.Load()
}

// WriteTo sends one datagram from the bound socket.
func (l *Listener) WriteTo(data []byte, addr net.Addr) error {
	l.mu.Lock()
	conn := l.conn
	l.mu.Unlock()
	if conn == nil {
		return ErrNotRunning
	}
	if _, err := conn.WriteTo(data, addr); err != nil {
		return fmt.Errorf("%s send: %w", l.name, err)
	}
	return nil
}

func (l *Listener) receiveLoop(conn net.PacketConn, handler Handler) {
	defer l.wg.Done()

	buf := make([]byte, maxDatagramSize)
	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			l.logger.Warn("udp read failed", "listener", l.name, "error", err)
			continue
		}
		l.received.Add(1)

		data := make([]byte, n)
		copy(data, buf[:n])
		handler(data, from)
	}
}
