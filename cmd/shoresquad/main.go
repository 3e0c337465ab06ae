package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/winn0518/ShoreSquad/internal/client"
	"github.com/winn0518/ShoreSquad/internal/config"
	"github.com/winn0518/ShoreSquad/internal/crew"
	"github.com/winn0518/ShoreSquad/internal/events"
	"github.com/winn0518/ShoreSquad/internal/forecast"
	httphandler "github.com/winn0518/ShoreSquad/internal/http"
	"github.com/winn0518/ShoreSquad/internal/lifecycle"
	"github.com/winn0518/ShoreSquad/internal/models"
	"github.com/winn0518/ShoreSquad/internal/observability"
	"github.com/winn0518/ShoreSquad/internal/scheduler"
)

const eventDateLayout = "2006-01-02 15:04"

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	clock := clockwork.NewRealClock()
	loc := cfg.Location()

	bulletin := client.NewBulletinClient(cfg.ForecastURL, cfg.ForecastTimeout)
	forecasts := forecast.NewService(bulletin, clock, loc, cfg.CacheTTL, cfg.DebounceWindow, logger)

	var roster crew.Store
	var memcacheCloser *crew.MemcachedStore
	switch cfg.CrewBackend {
	case "memcached":
		mc, err := crew.NewMemcachedStore(cfg.MemcachedAddrs, cfg.MemcachedTimeout, cfg.MemcachedMaxIdleConns)
		if err != nil {
			logger.Fatal("memcached roster", zap.Error(err))
		}
		memcacheCloser = mc
		roster = mc
		logger.Info("crew backend: memcached", zap.String("addrs", cfg.MemcachedAddrs))
	default:
		roster = crew.NewInMemoryStore()
		logger.Info("crew backend: in_memory")
	}

	var configured []models.CleanupEvent
	for _, e := range cfg.Events {
		date, err := time.ParseInLocation(eventDateLayout, e.Date, loc)
		if err != nil {
			logger.Fatal("event date", zap.String("event", e.ID), zap.Error(err))
		}
		configured = append(configured, models.CleanupEvent{
			ID:           e.ID,
			Title:        e.Title,
			Beach:        e.Beach,
			Region:       e.Region,
			MeetingPoint: e.MeetingPoint,
			Date:         date,
		})
	}
	catalog := events.NewCatalog(configured)
	logger.Info("cleanup events loaded", zap.Int("count", catalog.Len()))

	healthConfig := &httphandler.HealthConfig{
		DegradedWindow:   cfg.DegradedWindow,
		DegradedErrorPct: cfg.DegradedErrorPct,
	}
	if memcacheCloser != nil {
		healthConfig.RosterPing = memcacheCloser.Ping
	}

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}
	handler := httphandler.NewHandler(forecasts, catalog, roster, clock, healthConfig, logger)

	observability.RegisterTrafficGauges(cfg.DegradedWindow)

	router := mux.NewRouter()
	router.Use(httphandler.CorrelationIDMiddleware(logger))
	router.Use(httphandler.MetricsMiddleware)
	router.HandleFunc("/health", handler.GetHealth).Methods("GET")
	router.Handle("/metrics", observability.MetricsHandler())
	router.HandleFunc("/", handler.GetHome).Methods("GET")
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(httphandler.RateLimitMiddleware(limiter))
	apiRouter.Use(httphandler.TimeoutMiddleware(cfg.RequestTimeout))
	apiRouter.HandleFunc("/weather", handler.GetForecast).Methods("GET")
	apiRouter.HandleFunc("/weather/refresh", handler.PostForecastRefresh).Methods("POST")
	apiRouter.HandleFunc("/events", handler.GetEvents).Methods("GET")
	apiRouter.HandleFunc("/crew", handler.PostJoin).Methods("POST")
	apiRouter.HandleFunc("/crew", handler.GetCrew).Methods("GET")

	// First load happens before the heartbeat starts so the page never waits
	// a full interval for data.
	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	outcome := forecasts.Refresh(startCtx)
	startCancel()
	logger.Info("initial forecast loaded", zap.String("source", outcome.Source))

	sched := scheduler.New(forecasts, cfg.RefreshInterval, logger)
	if err := sched.Start(); err != nil {
		logger.Fatal("scheduler", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", ":"+cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	lifecycle.SetShuttingDown(true)
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	inFlight := httphandler.InFlightCount()
	logger.Info("waiting for in-flight requests", zap.Int64("count", inFlight))
	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer waitCancel()
	if err := httphandler.WaitForInFlight(waitCtx, cfg.InFlightCheckInterval); err != nil {
		logger.Warn("in-flight requests not completed", zap.Error(err), zap.Int64("remaining", httphandler.InFlightCount()))
	}

	if err := observability.FlushTelemetry(context.Background(), logger); err != nil {
		logger.Error("telemetry flush", zap.Error(err))
	}

	if memcacheCloser != nil {
		if err := memcacheCloser.Close(); err != nil {
			logger.Error("memcached close", zap.Error(err))
		}
	}
	logger.Info("shutdown complete")
}
