package http

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/winn0518/ShoreSquad/internal/crew"
	"github.com/winn0518/ShoreSquad/internal/events"
	"github.com/winn0518/ShoreSquad/internal/forecast"
	"github.com/winn0518/ShoreSquad/internal/lifecycle"
	"github.com/winn0518/ShoreSquad/internal/models"
	"github.com/winn0518/ShoreSquad/internal/observability"
	"github.com/winn0518/ShoreSquad/internal/traffic"
)

var validate = validator.New()

// HealthConfig holds thresholds for the health handler.
type HealthConfig struct {
	DegradedWindow   time.Duration
	DegradedErrorPct int
	// RosterPing, when set, is called to check roster store reachability. Used when backend is memcached.
	RosterPing func() error
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	forecasts        *forecast.Service
	catalog          *events.Catalog
	roster           crew.Store
	clock            clockwork.Clock
	healthConfig     *HealthConfig
	logger           *zap.Logger
	healthStatusMu   sync.Mutex
	healthStatusPrev string
}

// NewHandler returns a new Handler.
func NewHandler(
	forecasts *forecast.Service,
	catalog *events.Catalog,
	roster crew.Store,
	clock clockwork.Clock,
	healthConfig *HealthConfig,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		forecasts:    forecasts,
		catalog:      catalog,
		roster:       roster,
		clock:        clock,
		healthConfig: healthConfig,
		logger:       logger,
	}
}

// GetForecast handles GET /api/weather. A refresh cycle never fails; the
// outcome says whether the days came from the live endpoint, the cache, or
// simulated data.
func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	outcome := h.forecasts.Refresh(r.Context())
	writeJSON(w, http.StatusOK, outcome)
}

// PostForecastRefresh handles POST /api/weather/refresh. Bursts of refresh
// requests are absorbed by the debounce window; every caller in the burst
// receives the outcome of the single cycle that runs.
func (h *Handler) PostForecastRefresh(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.forecasts.RefreshDebounced(r.Context())
	if err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "REFRESH_TIMEOUT", "refresh did not complete in time")
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// GetEvents handles GET /api/events. Optional query params: region filters
// case-insensitively, upcoming=true drops events already past.
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	f := events.Filter{Region: strings.TrimSpace(r.URL.Query().Get("region"))}
	if v := r.URL.Query().Get("upcoming"); v != "" {
		up, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "INVALID_UPCOMING", "upcoming must be true or false")
			return
		}
		f.Upcoming = up
	}
	list := h.catalog.List(h.clock.Now(), f)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": list,
		"count":  len(list),
	})
}

// joinRequest is the POST /api/crew payload, from JSON or the page's form.
type joinRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=80"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,min=8,max=20"`
	EventID string `json:"eventId" validate:"required"`
}

// PostJoin handles POST /api/crew. Accepts application/json and, for the
// no-script form on the page, form-encoded bodies.
func (h *Handler) PostJoin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJoinRequest(w, r)
	if !ok {
		return
	}

	if err := validate.Struct(req); err != nil {
		field := "signup"
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field = strings.ToLower(verrs[0].Field())
		}
		writeError(w, r, http.StatusBadRequest, "INVALID_SIGNUP", "invalid field: "+field)
		return
	}

	event, ok := h.catalog.Get(req.EventID)
	if !ok {
		writeError(w, r, http.StatusNotFound, "UNKNOWN_EVENT", "no such cleanup event: "+req.EventID)
		return
	}

	signup := models.CrewSignup{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		EventID:  event.ID,
		JoinedAt: h.clock.Now().UTC(),
	}
	if err := h.roster.Add(r.Context(), signup); err != nil {
		if errors.Is(err, crew.ErrDuplicateSignup) {
			writeError(w, r, http.StatusConflict, "DUPLICATE_SIGNUP", "this email already joined the event")
			return
		}
		writeStoreError(w, r, err)
		return
	}

	observability.CrewSignupsTotal.Inc()
	writeJSON(w, http.StatusCreated, signup)
}

// decodeJoinRequest parses the join payload from JSON or form encoding and
// trims whitespace. Writes the 400 itself and returns ok=false on bad bodies.
func decodeJoinRequest(w http.ResponseWriter, r *http.Request) (joinRequest, bool) {
	var req joinRequest
	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if contentType == "application/x-www-form-urlencoded" || contentType == "multipart/form-data" {
		if err := r.ParseForm(); err != nil {
			writeError(w, r, http.StatusBadRequest, "INVALID_SIGNUP", "malformed form body")
			return req, false
		}
		req.Name = r.PostFormValue("name")
		req.Email = r.PostFormValue("email")
		req.Phone = r.PostFormValue("phone")
		req.EventID = r.PostFormValue("eventId")
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "INVALID_SIGNUP", "malformed JSON body")
			return req, false
		}
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.EventID = strings.TrimSpace(req.EventID)
	return req, true
}

// GetCrew handles GET /api/crew.
func (h *Handler) GetCrew(w http.ResponseWriter, r *http.Request) {
	list, err := h.roster.List(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"crew":  list,
		"count": len(list),
	})
}

// healthResult holds the computed health status and metadata for logging.
type healthResult struct {
	status     string
	statusCode int
	reason     string
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	result := h.computeHealthStatus()

	h.healthStatusMu.Lock()
	prev := h.healthStatusPrev
	if prev != "" && prev != result.status {
		h.logger.Info("health status transition",
			zap.String("previous_status", prev),
			zap.String("current_status", result.status),
			zap.String("reason", result.reason))
	}
	h.healthStatusPrev = result.status
	h.healthStatusMu.Unlock()

	checks := make(map[string]string)
	if result.status == "degraded" {
		checks["forecast"] = "unhealthy"
	} else {
		checks["forecast"] = "healthy"
	}
	if h.healthConfig != nil && h.healthConfig.RosterPing != nil {
		if h.healthConfig.RosterPing() == nil {
			checks["roster"] = "healthy"
		} else {
			checks["roster"] = "unhealthy"
		}
	}
	resp := map[string]interface{}{
		"status":    result.status,
		"service":   "shoresquad",
		"version":   "dev",
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(result.statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

// computeHealthStatus determines the current health status by evaluating
// conditions in priority order. Decision order: shutting-down > degraded >
// healthy. Degraded stays 200: the fallback chain keeps the page serving
// cached or simulated data, so the process remains in rotation while the
// upstream recovers.
func (h *Handler) computeHealthStatus() healthResult {
	// Priority 1: Check if service is shutting down
	if lifecycle.IsShuttingDown() {
		return healthResult{"shutting-down", http.StatusServiceUnavailable, "signal"}
	}
	// Priority 2: Check degraded state (fetch error rate exceeds configured threshold)
	if h.healthConfig != nil && h.healthConfig.DegradedWindow > 0 && h.healthConfig.DegradedErrorPct > 0 {
		errors, total := traffic.ErrorRate(h.healthConfig.DegradedWindow)
		if total > 0 {
			pct := float64(errors) * 100 / float64(total)
			if pct >= float64(h.healthConfig.DegradedErrorPct) {
				return healthResult{"degraded", http.StatusOK, "fetch_error_rate"}
			}
		}
	}
	// Default: All checks passed, service is healthy
	return healthResult{"healthy", http.StatusOK, ""}
}

// writeJSON writes a JSON response with the specified HTTP status code.
// Sets Content-Type header to application/json and encodes the provided value.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard error format with code, message,
// and requestId (correlation ID) if available in request context.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	corrID := ""
	if v := r.Context().Value("correlation_id"); v != nil {
		corrID = v.(string)
	}
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": corrID,
		},
	})
}

// writeStoreError writes a 503 Service Unavailable error response for roster store failures.
// Logs the underlying error at DEBUG level if logger is available in request context.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, http.StatusServiceUnavailable, "ROSTER_UNAVAILABLE", "Unable to reach the crew roster")
	if logger, ok := r.Context().Value("logger").(*zap.Logger); ok && logger != nil {
		logger.Debug("roster store error", zap.Error(err))
	}
}
