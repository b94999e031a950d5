package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/refledger/refledger-core/internal/core/domain"
	"github.com/refledger/refledger-core/internal/core/ports/driving"
)

// Worker runs the sync reconciler on a fixed interval. A run that fails
// because the source is unreachable leaves the journal untouched, so the
// worker just waits for the next tick.
type Worker struct {
	reconciler driving.SyncReconciler
	interval   time.Duration
	logger     *slog.Logger

	// Internal state
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Config holds configuration for the worker.
type Config struct {
	Reconciler driving.SyncReconciler
	Interval   time.Duration
	Logger     *slog.Logger
}

// New creates a new periodic sync worker.
func New(cfg Config) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	return &Worker{
		reconciler: cfg.Reconciler,
		interval:   interval,
		logger:     logger,
	}
}

// Start begins the periodic loop. It returns immediately; the loop runs
// until Stop is called or the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	w.logger.Info("sync worker starting", "interval", w.interval)

	go w.loop(ctx)
}

func (w *Worker) loop(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// First pass immediately rather than waiting a full interval
	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	result, err := w.reconciler.Run(ctx)
	if err != nil {
		w.logger.Warn("sync run failed", "error", err)
		return
	}
	w.logResult(result)
}

func (w *Worker) logResult(result *domain.SyncResult) {
	w.logger.Info("sync run complete",
		"appended", result.Stats.Appended(),
		"collections_added", result.Stats.CollectionsAdded,
		"items_added", result.Stats.ItemsAdded,
		"items_updated", result.Stats.ItemsUpdated,
		"skipped", result.Stats.Skipped,
		"type_conflicts", result.Stats.TypeConflicts,
		"duration_seconds", result.Duration,
		"last_version", result.LastVersion,
	)
}

// Stop signals the loop to exit and waits for it to finish.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	doneCh := w.doneCh
	w.mu.Unlock()

	<-doneCh
	w.logger.Info("sync worker stopped")
}
