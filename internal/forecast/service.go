package forecast

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/winn0518/ShoreSquad/internal/client"
	"github.com/winn0518/ShoreSquad/internal/models"
	"github.com/winn0518/ShoreSquad/internal/observability"
	"github.com/winn0518/ShoreSquad/internal/traffic"
)

// Notices rendered in the page's status region after a refresh. The degraded
// notice is shown for every failure, whether stale or simulated data follows.
const (
	NoticeUpdated  = "Weather forecast updated"
	NoticeDegraded = "Could not load weather data. Showing cached data."
)

// Service owns the forecast refresh cycle: the single-entry cache, the
// debounce window for caller-initiated refreshes, and the fallback chain
// (fresh cache, live fetch, stale cache, simulated data).
type Service struct {
	fetcher   client.ForecastClient
	cache     *Cache
	clock     clockwork.Clock
	loc       *time.Location
	ttl       time.Duration
	logger    *zap.Logger
	debouncer *refreshDebouncer
}

// NewService creates a Service. ttl bounds cache freshness; debounceWindow
// is the trailing window for RefreshDebounced. loc is the timezone used for
// day and date labels.
func NewService(fetcher client.ForecastClient, clock clockwork.Clock, loc *time.Location, ttl, debounceWindow time.Duration, logger *zap.Logger) *Service {
	s := &Service{
		fetcher: fetcher,
		cache:   NewCache(),
		clock:   clock,
		loc:     loc,
		ttl:     ttl,
		logger:  logger,
	}
	s.debouncer = newRefreshDebouncer(clock, debounceWindow, s.Refresh)
	return s
}

// Refresh runs one refresh cycle and never fails: every call yields four
// renderable days plus the notice describing how they were obtained.
// The clock is read once; that single instant drives both the freshness
// check and all day labeling for the cycle.
func (s *Service) Refresh(ctx context.Context) models.RefreshOutcome {
	now := s.clock.Now().In(s.loc)

	if days, fetchedAt, ok := s.cache.Fresh(now, s.ttl); ok {
		observability.ForecastRefreshOutcomesTotal.WithLabelValues(models.SourceCache).Inc()
		s.logger.Debug("forecast served from cache", zap.Duration("age", now.Sub(fetchedAt)))
		return models.RefreshOutcome{
			Days:      days,
			Source:    models.SourceCache,
			FetchedAt: fetchedAt,
		}
	}

	raws, err := s.fetcher.Fetch(ctx)
	if err == nil {
		days := buildDays(now, raws)
		s.cache.Replace(days, now)
		traffic.RecordSuccess()
		observability.ForecastRefreshOutcomesTotal.WithLabelValues(models.SourceLive).Inc()
		s.logger.Info("forecast refreshed", zap.Int("areas", len(raws)))
		return models.RefreshOutcome{
			Days:      days,
			Source:    models.SourceLive,
			Notice:    NoticeUpdated,
			FetchedAt: now,
		}
	}

	traffic.RecordError()
	s.logger.Warn("forecast fetch failed",
		zap.String("category", string(client.CategorizeError(err))),
		zap.Error(err))

	if days, fetchedAt, ok := s.cache.Any(); ok {
		observability.ForecastRefreshOutcomesTotal.WithLabelValues(models.SourceStale).Inc()
		s.logger.Info("serving stale forecast", zap.Duration("age", now.Sub(fetchedAt)))
		return models.RefreshOutcome{
			Days:      days,
			Source:    models.SourceStale,
			Notice:    NoticeDegraded,
			FetchedAt: fetchedAt,
		}
	}

	observability.ForecastRefreshOutcomesTotal.WithLabelValues(models.SourceSimulated).Inc()
	s.logger.Info("serving simulated forecast")
	return models.RefreshOutcome{
		Days:      simulatedDays(now),
		Source:    models.SourceSimulated,
		Notice:    NoticeDegraded,
		FetchedAt: now,
	}
}

// RefreshDebounced funnels caller-initiated refreshes through the trailing
// debounce window before running Refresh once for the whole burst. Only
// context errors are returned (the caller stopped waiting).
func (s *Service) RefreshDebounced(ctx context.Context) (models.RefreshOutcome, error) {
	return s.debouncer.Do(ctx)
}
