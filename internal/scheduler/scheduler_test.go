package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/winn0518/ShoreSquad/internal/forecast"
	"github.com/winn0518/ShoreSquad/internal/models"
)

type staticFetcher struct{}

func (staticFetcher) Fetch(ctx context.Context) ([]models.AreaForecast, error) {
	return []models.AreaForecast{
		{Area: "Pasir Ris", Forecast: "Sunny"},
		{Area: "East Coast", Forecast: "Cloudy"},
		{Area: "Changi", Forecast: "Showers"},
		{Area: "Sembawang", Forecast: "Windy"},
	}, nil
}

func newTestScheduler(t *testing.T, interval time.Duration) *Scheduler {
	t.Helper()
	svc := forecast.NewService(staticFetcher{}, clockwork.NewRealClock(), time.UTC,
		10*time.Minute, 300*time.Millisecond, zap.NewNop())
	return New(svc, interval, zap.NewNop())
}

func TestNew(t *testing.T) {
	s := newTestScheduler(t, 10*time.Minute)

	if s.scheduler == nil {
		t.Error("New() left scheduler nil")
	}
	if s.forecasts == nil {
		t.Error("New() left forecasts nil")
	}
	if s.interval != 10*time.Minute {
		t.Errorf("interval = %v, want 10m", s.interval)
	}
}

func TestScheduler_StartAndStop(t *testing.T) {
	s := newTestScheduler(t, 10*time.Minute)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.Stop()
}

// TestScheduler_SubMinuteIntervalStarts verifies that intervals below one
// minute still schedule (the interval floors to the default ten minutes
// rather than a zero-interval job).
func TestScheduler_SubMinuteIntervalStarts(t *testing.T) {
	s := newTestScheduler(t, 30*time.Second)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v for sub-minute interval", err)
	}
	s.Stop()
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	s := newTestScheduler(t, 10*time.Minute)
	s.Stop() // must not panic
}

// TestCoverageGaps_IntentionallyUntested documents paths we reviewed but
// chose not to test. Run with -v to see skip reasons.
func TestCoverageGaps_IntentionallyUntested(t *testing.T) {
	t.Run("tick execution", func(t *testing.T) {
		t.Skip("first tick fires one full interval after start; a real-time wait would make the suite minutes long, and the refresh path it calls is covered by the forecast service tests")
	})
}
