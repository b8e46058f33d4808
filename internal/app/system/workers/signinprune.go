// internal/app/system/workers/signinprune.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/devcollab/devcollab/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Pruner deletes records created before a cutoff and returns how many it
// removed. signinstore.Store implements it.
type Pruner interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SignInPrune is a background worker that drops sign-in history older than
// its retention.
type SignInPrune struct {
	store     Pruner
	log       *zap.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewSignInPrune creates the worker. It runs once per interval and removes
// records older than retention.
func NewSignInPrune(store Pruner, logger *zap.Logger, interval, retention time.Duration) *SignInPrune {
	return &SignInPrune{
		store:     store,
		log:       logger,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start runs one prune immediately, then one per interval.
func (w *SignInPrune) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("sign-in prune worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("retention", w.retention))
}

// Stop signals the worker to stop and waits for it to finish. It is safe to
// call more than once.
func (w *SignInPrune) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("sign-in prune worker stopped")
	})
}

func (w *SignInPrune) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.prune()
	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.prune()
		}
	}
}

// prune runs one pass and returns the number of records removed.
func (w *SignInPrune) prune() int64 {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
	defer cancel()

	cutoff := w.now().Add(-w.retention)
	n, err := w.store.DeleteBefore(ctx, cutoff)
	if err != nil {
		w.log.Error("failed to prune sign-in history", zap.Error(err))
		return 0
	}
	if n > 0 {
		w.log.Info("pruned sign-in history", zap.Int64("count", n), zap.Time("cutoff", cutoff))
	}
	return n
}
