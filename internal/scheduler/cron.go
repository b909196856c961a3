package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/streamhub/internal/cache"
	"github.com/amaumene/streamhub/internal/views"
)

// Scheduler manages the background jobs: the periodic view-count flush and
// the expired-cache sweep
type Scheduler struct {
	cron          *cron.Cron
	batcher       *views.Batcher
	respCache     *cache.ResponseCache
	flushInterval time.Duration
	logger        *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(batcher *views.Batcher, respCache *cache.ResponseCache, flushInterval time.Duration, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		batcher:       batcher,
		respCache:     respCache,
		flushInterval: flushInterval,
		logger:        logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.flushInterval), func() {
		s.runFlush()
	})
	if err != nil {
		return fmt.Errorf("failed to add view flush job: %w", err)
	}

	// Hourly: drop expired cache entries eagerly
	_, err = s.cron.AddFunc("0 * * * *", func() {
		s.respCache.Sweep()
	})
	if err != nil {
		return fmt.Errorf("failed to add cache sweep job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")
	return nil
}

// Stop stops the scheduler and drains pending view counts. Must be called
// before the store is closed.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()

	if applied := s.batcher.Flush(); applied > 0 {
		s.logger.WithField("views", applied).Info("Flushed pending views on shutdown")
	}
}

// runFlush executes one view-count flush cycle
func (s *Scheduler) runFlush() {
	applied := s.batcher.Flush()
	if applied > 0 {
		s.logger.WithField("views", applied).Debug("Flushed view counts")
	}
}
