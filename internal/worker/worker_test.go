package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/refledger/refledger-core/internal/core/domain"
)

// countingReconciler records how often the worker invoked it.
type countingReconciler struct {
	runs atomic.Int64
	err  error
}

func (c *countingReconciler) Run(ctx context.Context) (*domain.SyncResult, error) {
	c.runs.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &domain.SyncResult{Success: true}, nil
}

func TestWorker_RunsImmediatelyThenOnInterval(t *testing.T) {
	rec := &countingReconciler{}
	w := New(Config{Reconciler: rec, Interval: 20 * time.Millisecond})

	w.Start(context.Background())
	defer w.Stop()

	assert.Eventually(t, func() bool {
		return rec.runs.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)
}

func TestWorker_StopWaitsForLoop(t *testing.T) {
	rec := &countingReconciler{}
	w := New(Config{Reconciler: rec, Interval: time.Hour})

	w.Start(context.Background())

	// The immediate first pass happens even with a long interval
	assert.Eventually(t, func() bool {
		return rec.runs.Load() == 1
	}, 2*time.Second, 5*time.Millisecond)

	w.Stop()
	after := rec.runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, rec.runs.Load())
}

func TestWorker_FailedRunDoesNotStopLoop(t *testing.T) {
	rec := &countingReconciler{err: errors.New("source down")}
	w := New(Config{Reconciler: rec, Interval: 20 * time.Millisecond})

	w.Start(context.Background())
	defer w.Stop()

	assert.Eventually(t, func() bool {
		return rec.runs.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)
}

func TestWorker_ContextCancelStopsLoop(t *testing.T) {
	rec := &countingReconciler{}
	w := New(Config{Reconciler: rec, Interval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	cancel()

	// Stop still returns promptly after cancellation
	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}

func TestWorker_DoubleStartIsNoop(t *testing.T) {
	rec := &countingReconciler{}
	w := New(Config{Reconciler: rec, Interval: time.Hour})

	w.Start(context.Background())
	w.Start(context.Background())
	w.Stop()

	assert.Equal(t, int64(1), rec.runs.Load())
}
