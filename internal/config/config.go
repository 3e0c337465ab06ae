package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds service configuration loaded from YAML and env.
type Config struct {
	ServerPort string

	ForecastURL     string
	ForecastTimeout time.Duration
	CacheTTL        time.Duration
	DebounceWindow  time.Duration
	RefreshInterval time.Duration
	Timezone        string

	RequestTimeout time.Duration

	CrewBackend string // "in_memory" or "memcached"

	MemcachedAddrs        string
	MemcachedTimeout      time.Duration
	MemcachedMaxIdleConns int

	RateLimitRPS   int
	RateLimitBurst int

	ShutdownTimeout       time.Duration
	InFlightCheckInterval time.Duration

	DegradedWindow   time.Duration
	DegradedErrorPct int

	Events []EventConfig
}

// EventConfig is one cleanup event as authored in YAML. Date uses the
// "2006-01-02 15:04" layout and is interpreted in the configured timezone.
type EventConfig struct {
	ID           string `yaml:"id"`
	Title        string `yaml:"title"`
	Beach        string `yaml:"beach"`
	Region       string `yaml:"region"`
	MeetingPoint string `yaml:"meeting_point"`
	Date         string `yaml:"date"`
}

type fileConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Forecast struct {
		URL             string `yaml:"url"`
		Timeout         string `yaml:"timeout"`
		CacheTTL        string `yaml:"cache_ttl"`
		DebounceWindow  string `yaml:"debounce_window"`
		RefreshInterval string `yaml:"refresh_interval"`
		Timezone        string `yaml:"timezone"`
	} `yaml:"forecast"`

	Request struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"request"`

	Crew struct {
		Backend   string `yaml:"backend"`
		Memcached struct {
			Addrs        string `yaml:"addrs"`
			Timeout      string `yaml:"timeout"`
			MaxIdleConns int    `yaml:"max_idle_conns"`
		} `yaml:"memcached"`
	} `yaml:"crew"`

	Reliability struct {
		RateLimitRPS   int `yaml:"rate_limit_rps"`
		RateLimitBurst int `yaml:"rate_limit_burst"`
	} `yaml:"reliability"`

	Shutdown struct {
		Timeout               string `yaml:"timeout"`
		InFlightCheckInterval string `yaml:"inflight_check_interval"`
	} `yaml:"shutdown"`

	Health struct {
		DegradedWindow   string `yaml:"degraded_window"`
		DegradedErrorPct int    `yaml:"degraded_error_pct"`
	} `yaml:"health"`

	Events []EventConfig `yaml:"events"`
}

// DefaultForecastURL is the public two-hour forecast bulletin. The endpoint
// needs no key or auth, so there is no secrets flow here.
const DefaultForecastURL = "https://api.data.gov.sg/v1/environment/2-hour-weather-forecast"

// Load reads configuration from config/{ENV_NAME}.yaml (default dev), then
// applies env overrides (PORT, FORECAST_URL, CREW_BACKEND, MEMCACHED_ADDRS).
// A .env file is loaded first when present. A missing config file is fine:
// every setting has a default and no secret is required.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional .env; absence is not an error

	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}

	var fc fileConfig
	configPath := filepath.Join(cwd, "config", env+".yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg := &Config{}

	cfg.ServerPort = os.Getenv("PORT")
	if cfg.ServerPort == "" {
		cfg.ServerPort = fc.Server.Port
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	cfg.ForecastURL = os.Getenv("FORECAST_URL")
	if cfg.ForecastURL == "" {
		cfg.ForecastURL = fc.Forecast.URL
	}
	if cfg.ForecastURL == "" {
		cfg.ForecastURL = DefaultForecastURL
	}
	cfg.ForecastTimeout = parseDuration(fc.Forecast.Timeout, 10*time.Second)
	cfg.CacheTTL = parseDuration(fc.Forecast.CacheTTL, 10*time.Minute)
	cfg.DebounceWindow = parseDuration(fc.Forecast.DebounceWindow, 300*time.Millisecond)
	cfg.RefreshInterval = parseDuration(fc.Forecast.RefreshInterval, 10*time.Minute)
	cfg.Timezone = strings.TrimSpace(fc.Forecast.Timezone)
	if cfg.Timezone == "" {
		cfg.Timezone = "Asia/Singapore"
	}

	cfg.RequestTimeout = parseDuration(fc.Request.Timeout, 15*time.Second)

	cfg.CrewBackend = strings.TrimSpace(strings.ToLower(os.Getenv("CREW_BACKEND")))
	if cfg.CrewBackend == "" {
		cfg.CrewBackend = strings.TrimSpace(strings.ToLower(fc.Crew.Backend))
	}
	if cfg.CrewBackend == "" {
		cfg.CrewBackend = "in_memory"
	}
	cfg.MemcachedAddrs = strings.TrimSpace(os.Getenv("MEMCACHED_ADDRS"))
	if cfg.MemcachedAddrs == "" {
		cfg.MemcachedAddrs = strings.TrimSpace(fc.Crew.Memcached.Addrs)
	}
	if cfg.MemcachedAddrs == "" {
		cfg.MemcachedAddrs = "localhost:11211"
	}
	cfg.MemcachedTimeout = parseDuration(fc.Crew.Memcached.Timeout, 500*time.Millisecond)
	cfg.MemcachedMaxIdleConns = fc.Crew.Memcached.MaxIdleConns
	if cfg.MemcachedMaxIdleConns <= 0 {
		cfg.MemcachedMaxIdleConns = 2
	}

	cfg.RateLimitRPS = fc.Reliability.RateLimitRPS
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 10
	}
	cfg.RateLimitBurst = fc.Reliability.RateLimitBurst
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 20
	}

	cfg.ShutdownTimeout = parseDuration(fc.Shutdown.Timeout, 10*time.Second)
	cfg.InFlightCheckInterval = parseDuration(fc.Shutdown.InFlightCheckInterval, 100*time.Millisecond)

	cfg.DegradedWindow = parseDuration(fc.Health.DegradedWindow, 15*time.Minute)
	cfg.DegradedErrorPct = fc.Health.DegradedErrorPct
	if cfg.DegradedErrorPct <= 0 {
		cfg.DegradedErrorPct = 50
	}

	cfg.Events = fc.Events

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves the configured timezone. When tzdata is unavailable the
// fixed UTC+8 offset keeps day labels correct for Singapore.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.FixedZone("SGT", 8*60*60)
	}
	return loc
}

// parseDuration parses a duration string and returns defaultVal if parsing
// fails or the result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// validate performs post-load validation. RequestTimeout must leave room for
// a full upstream fetch plus the debounce window; it is auto-adjusted up.
func validate(cfg *Config) error {
	if cfg.ForecastTimeout <= 0 {
		return fmt.Errorf("forecast.timeout must be positive")
	}
	if cfg.RequestTimeout <= cfg.ForecastTimeout+cfg.DebounceWindow {
		cfg.RequestTimeout = cfg.ForecastTimeout + cfg.DebounceWindow + time.Second
	}
	switch cfg.CrewBackend {
	case "in_memory", "memcached":
		// valid
	default:
		return fmt.Errorf("crew.backend must be in_memory or memcached, got %q", cfg.CrewBackend)
	}
	for i, e := range cfg.Events {
		if strings.TrimSpace(e.ID) == "" {
			return fmt.Errorf("events[%d]: id is required", i)
		}
		if strings.TrimSpace(e.Date) == "" {
			return fmt.Errorf("events[%d] (%s): date is required", i, e.ID)
		}
	}
	return nil
}
