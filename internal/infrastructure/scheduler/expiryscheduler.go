package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/studyforge/studyforge/internal/shared/goroutine"
	"github.com/studyforge/studyforge/internal/shared/logger"
)

// DefaultSweepBatch bounds how many lapsed accounts one tick downgrades.
const DefaultSweepBatch = 100

// ExpirySweeper is implemented by subscription.Lifecycle.
type ExpirySweeper interface {
	ExpireLapsed(ctx context.Context, batch int) (int, error)
}

// ExpiryScheduler periodically downgrades lapsed premium accounts so that
// stored state catches up even for accounts nobody reads. Reads stay correct
// without it because CheckStatus normalizes lazily.
type ExpiryScheduler struct {
	sweeper  ExpirySweeper
	logger   logger.Interface
	interval time.Duration
	batch    int
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewExpiryScheduler(sweeper ExpirySweeper, interval time.Duration, logger logger.Interface) *ExpiryScheduler {
	return &ExpiryScheduler{
		sweeper:  sweeper,
		logger:   logger.Named("scheduler.expiry"),
		interval: interval,
		batch:    DefaultSweepBatch,
		stopChan: make(chan struct{}),
	}
}

func (s *ExpiryScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting expiry scheduler", "interval", s.interval, "batch", s.batch)

	s.wg.Add(1)
	goroutine.SafeGo(s.logger, "expiry-scheduler", func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	})
}

func (s *ExpiryScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("expiry scheduler stopped")
	})
}

func (s *ExpiryScheduler) runLoop(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ExpiryScheduler) sweep(ctx context.Context) {
	defer goroutine.Recover(s.logger, "expiry-sweep")

	start := time.Now()
	total := 0
	for {
		n, err := s.sweeper.ExpireLapsed(ctx, s.batch)
		total += n
		if err != nil {
			s.logger.Errorw("expiry sweep failed",
				"error", err,
				"expired", total,
				"duration", time.Since(start))
			return
		}
		// A short batch means nothing lapsed is left.
		if n < s.batch || ctx.Err() != nil {
			break
		}
	}

	if total > 0 {
		s.logger.Infow("lapsed subscriptions expired", "count", total, "duration", time.Since(start))
	} else {
		s.logger.Debugw("no lapsed subscriptions", "duration", time.Since(start))
	}
}
