package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/winn0518/ShoreSquad/internal/models"
	"github.com/winn0518/ShoreSquad/internal/observability"
)

// ForecastClient fetches the raw four-day forecast bulletin.
type ForecastClient interface {
	Fetch(ctx context.Context) ([]models.AreaForecast, error)
}

var (
	ErrUpstreamStatus    = errors.New("upstream status")
	ErrMalformedResponse = errors.New("malformed response")
	ErrEmptyBulletin     = errors.New("empty bulletin")
)

// forecastDays is the number of per-day entries a usable bulletin must carry.
const forecastDays = 4

// BulletinClient issues a single GET against the public forecast endpoint.
// There is no retry here: a failed fetch is handled by the caller's fallback
// chain, and the next scheduled refresh is the retry.
type BulletinClient struct {
	apiURL  string
	timeout time.Duration
	client  *http.Client
}

func NewBulletinClient(apiURL string, timeout time.Duration) *BulletinClient {
	return &BulletinClient{
		apiURL:  apiURL,
		timeout: timeout,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type bulletinResponse struct {
	Items []struct {
		Forecasts []struct {
			Area     string `json:"area"`
			Forecast string `json:"forecast"`
		} `json:"forecasts"`
	} `json:"items"`
}

func (c *BulletinClient) Fetch(ctx context.Context) ([]models.AreaForecast, error) {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, "GET", c.apiURL, nil)
	if err != nil {
		observability.ForecastFetchesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	corrID := extractCorrelationID(ctx)
	if corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		duration := time.Since(start).Seconds()
		observability.ForecastFetchesTotal.WithLabelValues("error").Inc()
		observability.ForecastFetchDuration.WithLabelValues("error").Observe(duration)

		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("request timeout: %w", err)
		}
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start).Seconds()
	status := statusLabel(resp.StatusCode)
	observability.ForecastFetchesTotal.WithLabelValues(status).Inc()
	observability.ForecastFetchDuration.WithLabelValues(status).Observe(duration)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrUpstreamStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var bulletin bulletinResponse
	if err := json.Unmarshal(body, &bulletin); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return mapBulletin(bulletin)
}

// mapBulletin extracts the first item's per-area list. Later items are
// superseded revisions and are ignored.
func mapBulletin(bulletin bulletinResponse) ([]models.AreaForecast, error) {
	if len(bulletin.Items) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrEmptyBulletin)
	}
	forecasts := bulletin.Items[0].Forecasts
	if len(forecasts) < forecastDays {
		return nil, fmt.Errorf("%w: %d forecasts, need %d", ErrEmptyBulletin, len(forecasts), forecastDays)
	}

	out := make([]models.AreaForecast, 0, len(forecasts))
	for _, f := range forecasts {
		out = append(out, models.AreaForecast{
			Area:     f.Area,
			Forecast: f.Forecast,
		})
	}
	return out, nil
}

func extractCorrelationID(ctx context.Context) string {
	if corrIDVal := ctx.Value("correlation_id"); corrIDVal != nil {
		if corrID, ok := corrIDVal.(string); ok {
			return corrID
		}
	}
	return ""
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode == 429 {
		return "rate_limited"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}
