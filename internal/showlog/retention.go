package showlog

import (
	"context"
	"time"
)

// Pruner deletes journal entries older than a cutoff.
type Pruner interface {
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Retention prunes the journal on a fixed interval.
type Retention struct {
	Pruner   Pruner
	Keep     time.Duration
	Interval time.Duration

	// AfterPrune runs when a pass deleted rows, typically a WAL checkpoint.
	AfterPrune func(ctx context.Context) error

	Logger Logger
}

// Run prunes once immediately and then every Interval until ctx is
// cancelled. A non-positive Keep disables pruning.
func (r Retention) Run(ctx context.Context) error {
	if r.Keep <= 0 || r.Pruner == nil {
		return nil
	}
	if r.Logger == nil {
		r.Logger = noopLogger{}
	}
	interval := r.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		r.prune(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (r Retention) prune(ctx context.Context) {
	n, err := r.Pruner.Prune(ctx, r.Keep)
	if err != nil {
		r.Logger.Warn("show journal prune failed", "error", err)
		return
	}
	if n == 0 || r.AfterPrune == nil {
		return
	}
	if err := r.AfterPrune(ctx); err != nil {
		r.Logger.Warn("show journal post-prune step failed", "pruned", n, "error", err)
	}
}
