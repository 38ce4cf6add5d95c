package showlog

import (
	"context"
	"sync/atomic"
	"time"
)

const (
	defaultQueueSize = 256
	writeTimeout     = 5 * time.Second
)

// Recorder persists journal entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Logger is the logging contract used by the writer.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Writer queues entries and records them on its own goroutine.
//
// Thread Safety: Record is safe for concurrent use and never blocks.
type Writer struct {
	rec     Recorder
	logger  Logger
	queue   chan Entry
	dropped atomic.Uint64
	failed  atomic.Uint64
}

// NewWriter creates a writer with room for size queued entries (256 if
// size is not positive).
func NewWriter(rec Recorder, size int, logger Logger) *Writer {
	if size <= 0 {
		size = defaultQueueSize
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Writer{rec: rec, logger: logger, queue: make(chan Entry, size)}
}

// Record queues e, stamping CreatedAt now so queue delay does not skew the
// journal. A full queue drops the entry.
func (w *Writer) Record(e Entry) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	select {
	case w.queue <- e:
	default:
		if w.dropped.Add(1) == 1 {
			w.logger.Warn("show journal queue full, dropping entries")
		}
	}
}

// Run drains the queue until ctx is cancelled, then writes whatever is
// still queued.
func (w *Writer) Run(ctx context.Context) error {
	for {
		select {
		case e := <-w.queue:
			w.write(e)
		case <-ctx.Done():
			for {
				select {
				case e := <-w.queue:
					w.write(e)
				default:
					return nil
				}
			}
		}
	}
}

func (w *Writer) write(e Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := w.rec.Record(ctx, e); err != nil {
		w.failed.Add(1)
		w.logger.Warn("show journal write failed", "kind", e.Kind, "error", err)
	}
}

// Dropped returns how many entries were dropped because the queue was full.
func (w *Writer) Dropped() uint64 { return w.dropped.Load() }

// Failed returns how many entries the recorder rejected.
func (w *Writer) Failed() uint64 { return w.failed.Load() }
