package midi

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/nerrad567/showcue-core/internal/trigger"
)

// ErrNoInputPorts is returned when no MIDI input is available.
var ErrNoInputPorts = errors.New("midi: no input ports available")

// Logger is the logging contract used by the listener.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}
func (noopLogger) Warn(string, ...any) {}

// FindInPort returns the first input port whose name contains substr
// (case-insensitive). An empty substr selects the first port.
func FindInPort(substr string) (drivers.In, error) {
	ports := midi.GetInPorts()
	if len(ports) == 0 {
		return nil, ErrNoInputPorts
	}
	if substr == "" {
		return ports[0], nil
	}
	lower := strings.ToLower(substr)
	for _, port := range ports {
		if strings.Contains(strings.ToLower(port.String()), lower) {
			return port, nil
		}
	}
	return nil, fmt.Errorf("midi: no input port matching %q", substr)
}

// Listener feeds one MIDI input port through a Decoder into a Sink.
//
// A driver must be registered by the binary (blank import of a gomidi
// driver package) before Start can find any ports.
type Listener struct {
	sink   trigger.Sink
	logger Logger

	mu      sync.Mutex
	decoder Decoder
	stop    func()
	port    string
}

// NewListener creates a stopped listener.
func NewListener(sink trigger.Sink, logger Logger) *Listener {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Listener{sink: sink, logger: logger}
}

// Start opens the port matching portName and begins listening. A running
// listener is stopped first.
func (l *Listener) Start(portName string) error {
	l.Stop()

	in, err := FindInPort(portName)
	if err != nil {
		return err
	}

	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		l.Handle(msg)
	})
	if err != nil {
		return fmt.Errorf("midi: listen on %s: %w", in.String(), err)
	}

	l.mu.Lock()
	l.stop = stop
	l.port = in.String()
	l.decoder = Decoder{}
	l.mu.Unlock()

	l.logger.Info("midi listening", "port", in.String())
	return nil
}

// Handle decodes msg and submits the resulting event, if any.
func (l *Listener) Handle(msg midi.Message) {
	l.mu.Lock()
	ev, ok := l.decoder.Decode(msg)
	l.mu.Unlock()
	if ok {
		l.sink.Submit(ev)
	}
}

// Stop closes the port. Safe to call when stopped.
func (l *Listener) Stop() {
	l.mu.Lock()
	stop := l.stop
	port := l.port
	l.stop = nil
	l.port = ""
	l.mu.Unlock()

	if stop != nil {
		stop()
		l.logger.Info("midi stopped", "port", port)
	}
}

// Port returns the open port name, or "" when stopped.
func (l *Listener) Port() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.port
}

// Close stops the listener and releases the driver.
func (l *Listener) Close() {
	l.Stop()
	midi.CloseDriver()
}
