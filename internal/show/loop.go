package show

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Logger is the logging contract used by the loop and engine.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

const defaultQueueSize = 256

// Loop runs posted functions one at a time on the goroutine that calls Run.
//
// Thread Safety: Post, TryPost, Do and AfterFunc are safe for concurrent
// use. Functions posted from inside the loop must not wait on the loop.
type Loop struct {
	tasks   chan func()
	done    chan struct{}
	started atomic.Bool
	logger  Logger

	ctx context.Context // set by Run before the first task
}

// NewLoop creates a loop whose queue holds size pending functions (256 if
// size is not positive).
func NewLoop(size int, logger Logger) *Loop {
	if size <= 0 {
		size = defaultQueueSize
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Loop{
		tasks:  make(chan func(), size),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Run executes posted functions until ctx is cancelled. Functions still
// queued at that point are discarded.
func (l *Loop) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer close(l.done)
	l.ctx = ctx

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.tasks:
			l.run(fn)
		}
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Warn("show loop task panicked", "panic", fmt.Sprint(r))
		}
	}()
	fn()
}

// Context returns the context Run was called with, or Background before
// Run starts. Loop-only.
func (l *Loop) Context() context.Context {
	if l.ctx == nil {
		return context.Background()
	}
	return l.ctx
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Post queues fn, waiting for room if the queue is full. It reports false
// if the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	return l.post(fn, nil)
}

func (l *Loop) post(fn func(), cancel <-chan struct{}) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	case <-cancel:
		return false
	}
}

// TryPost queues fn without waiting. It reports false if the queue is full
// or the loop has stopped.
func (l *Loop) TryPost(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	default:
		return false
	}
}

// Do runs fn on the loop and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	ran := make(chan struct{})
	if !l.post(func() {
		defer close(ran)
		fn()
	}, ctx.Done()) {
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrLoopStopped
	}

	select {
	case <-ran:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		select {
		case <-ran:
			return nil
		default:
			return ErrLoopStopped
		}
	}
}

// AfterFunc posts fn to the loop once d has elapsed. Callbacks due after
// the loop stops are dropped.
func (l *Loop) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		l.Post(fn)
	})
}
