package http

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/winn0518/ShoreSquad/internal/crew"
	"github.com/winn0518/ShoreSquad/internal/forecast"
	"github.com/winn0518/ShoreSquad/internal/traffic"
)

// setupBenchmarkHandler wires a handler around a canned fetcher without the
// *testing.T plumbing the unit tests use.
func setupBenchmarkHandler(fetcher *scriptedFetcher) *Handler {
	traffic.Reset()
	clock := clockwork.NewFakeClockAt(fixedNow)
	svc := forecast.NewService(fetcher, clock, sgtZone, 10*time.Minute, 300*time.Millisecond, zap.NewNop())
	roster := crew.NewInMemoryStore()
	hc := &HealthConfig{DegradedWindow: 15 * time.Minute, DegradedErrorPct: 50}
	return NewHandler(svc, testCatalog(), roster, clock, hc, zap.NewNop())
}

// BenchmarkHandler_GetForecast_CacheHit benchmarks the forecast endpoint when
// the cache is warm and no upstream call happens.
func BenchmarkHandler_GetForecast_CacheHit(b *testing.B) {
	handler := setupBenchmarkHandler(&scriptedFetcher{raws: goodBulletin()})

	// Warm the cache so every timed iteration is a pure cache read.
	w := httptest.NewRecorder()
	handler.GetForecast(w, newRequest("GET", "/api/weather", ""))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		handler.GetForecast(w, newRequest("GET", "/api/weather", ""))
	}
}

// BenchmarkHandler_GetForecast_SimulatedFallback benchmarks the forecast
// endpoint when every upstream fetch fails and simulated data is served.
func BenchmarkHandler_GetForecast_SimulatedFallback(b *testing.B) {
	handler := setupBenchmarkHandler(&scriptedFetcher{err: errors.New("bulletin unavailable")})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		handler.GetForecast(w, newRequest("GET", "/api/weather", ""))
	}
}

// BenchmarkHandler_GetHome benchmarks a full page render with a warm cache.
func BenchmarkHandler_GetHome(b *testing.B) {
	handler := setupBenchmarkHandler(&scriptedFetcher{raws: goodBulletin()})

	w := httptest.NewRecorder()
	handler.GetHome(w, newRequest("GET", "/", ""))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		handler.GetHome(w, newRequest("GET", "/", ""))
	}
}

// BenchmarkHandler_PostJoin_ValidationError benchmarks signup validation
// rejects without touching the roster.
func BenchmarkHandler_PostJoin_ValidationError(b *testing.B) {
	handler := setupBenchmarkHandler(&scriptedFetcher{raws: goodBulletin()})
	body := `{"name":"A","email":"a@example.com","eventId":"east-coast-sep"}`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		req := newRequest("POST", "/api/crew", body)
		req.Header.Set("Content-Type", "application/json")
		handler.PostJoin(w, req)
	}
}

// BenchmarkHandler_GetHealth benchmarks the health check endpoint.
func BenchmarkHandler_GetHealth(b *testing.B) {
	handler := setupBenchmarkHandler(&scriptedFetcher{raws: goodBulletin()})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		handler.GetHealth(w, newRequest("GET", "/health", ""))
	}
}
