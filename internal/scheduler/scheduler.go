package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/winn0518/ShoreSquad/internal/forecast"
	"github.com/winn0518/ShoreSquad/internal/observability"
)

// tickTimeout bounds a single refresh tick. It must exceed the fetch timeout
// so a slow upstream fails inside the fetch, not here.
const tickTimeout = 30 * time.Second

// Scheduler refreshes the forecast on a fixed interval. Each tick calls
// Refresh directly: the service's own fallback chain absorbs failures, so a
// tick never needs a retry of its own.
type Scheduler struct {
	scheduler *gocron.Scheduler
	forecasts *forecast.Service
	interval  time.Duration
	logger    *zap.Logger
}

// New creates a Scheduler that refreshes forecasts every interval.
func New(forecasts *forecast.Service, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		forecasts: forecasts,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the periodic refresh and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 10
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
		defer cancel()

		observability.ScheduledRefreshesTotal.Inc()
		outcome := s.forecasts.Refresh(ctx)
		s.logger.Info("Scheduled forecast refresh completed",
			zap.String("source", outcome.Source),
			zap.Time("fetchedAt", outcome.FetchedAt))
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future ticks.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
