package showlog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// ─── Mock Dependencies ─────────────────────────────────────────────

type fakePruner struct {
	mu    sync.Mutex
	calls int
	keep  time.Duration
	n     int64
	err   error
}

func (f *fakePruner) Prune(_ context.Context, olderThan time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.keep = olderThan
	return f.n, f.err
}

func (f *fakePruner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestRetention_Disabled(t *testing.T) {
	p := &fakePruner{}
	if err := (Retention{Pruner: p}).Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if p.count() != 0 {
		t.Errorf("prune calls = %d, want 0", p.count())
	}
}

func TestRetention_PrunesAndCheckpoints(t *testing.T) {
	p := &fakePruner{n: 3}
	var mu sync.Mutex
	after := 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Retention{
			Pruner:   p,
			Keep:     48 * time.Hour,
			Interval: 5 * time.Millisecond,
			AfterPrune: func(context.Context) error {
				mu.Lock()
				after++
				mu.Unlock()
				return nil
			},
		}.Run(ctx)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for p.count() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("prune calls = %d, want >= 2", p.count())
		}
		time.Sleep(2 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	p.mu.Lock()
	keep := p.keep
	p.mu.Unlock()
	if keep != 48*time.Hour {
		t.Errorf("keep = %v, want 48h", keep)
	}
	mu.Lock()
	defer mu.Unlock()
	if after == 0 {
		t.Error("AfterPrune never ran")
	}
}

func TestRetention_SkipsAfterPruneOnError(t *testing.T) {
	p := &fakePruner{n: 5, err: errors.New("locked")}
	called := false
	r := Retention{
		Pruner:     p,
		Keep:       time.Hour,
		AfterPrune: func(context.Context) error { called = true; return nil },
		Logger:     noopLogger{},
	}
	r.prune(context.Background())
	if called {
		t.Error("AfterPrune ran after a failed prune")
	}
}
