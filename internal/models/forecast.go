package models

import "time"

// ForecastDay is one display-ready day of the four-day forecast panel.
type ForecastDay struct {
	Day       string `json:"day"`
	Date      string `json:"date"`
	Condition string `json:"condition"`
	Forecast  string `json:"forecast"`
	Emoji     string `json:"emoji"`
}

// AreaForecast is one entry of the upstream bulletin's per-area list. Area is
// parsed for completeness; the panel consumes only the forecast text.
type AreaForecast struct {
	Area     string `json:"area"`
	Forecast string `json:"forecast"`
}

// Refresh outcome sources, in order of preference.
const (
	SourceLive      = "live"
	SourceCache     = "cache"
	SourceStale     = "stale"
	SourceSimulated = "simulated"
)

// RefreshOutcome is what a forecast refresh yields: the four days to render,
// where they came from, and the transient status notice for the page. A
// refresh never fails; Days always holds four renderable records.
type RefreshOutcome struct {
	Days      []ForecastDay `json:"days"`
	Source    string        `json:"source"`
	Notice    string        `json:"notice,omitempty"`
	FetchedAt time.Time     `json:"fetchedAt"`
}
