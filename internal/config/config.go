package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. The Polygon credential is
// environment-only so it never ends up committed inside a YAML file.
type Config struct {
	Tickers           []string `yaml:"tickers"`
	YearsBack         int      `yaml:"years_back"`
	Provider          string   `yaml:"provider"`
	Output            string   `yaml:"output"`
	Title             string   `yaml:"title"`
	MaxParallel       int      `yaml:"max_parallel"`
	RequestsPerMinute int      `yaml:"requests_per_minute"`
	RebuildCron       string   `yaml:"rebuild_cron"`
	Proxy             string   `yaml:"proxy"`
	APIKey            string   `yaml:"-"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is tolerated: defaults cover
// everything except the Polygon credential.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TICKERS"); v != "" {
		cfg.Tickers = strings.Split(v, ",")
	}
	if v := os.Getenv("YEARS_BACK"); v != "" {
		var years int
		if _, err := fmt.Sscanf(v, "%d", &years); err == nil {
			cfg.YearsBack = years
		}
	}
	if v := os.Getenv("PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("OUTPUT_PATH"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("REBUILD_CRON"); v != "" {
		cfg.RebuildCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	cfg.APIKey = os.Getenv("POLYGON_API_KEY")

	// Defaults
	if len(cfg.Tickers) == 0 {
		cfg.Tickers = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "META", "NVDA", "TSLA", "AVGO"}
	}
	if cfg.YearsBack == 0 {
		cfg.YearsBack = 2
	}
	if cfg.Provider == "" {
		cfg.Provider = "polygon"
	}
	if cfg.Output == "" {
		cfg.Output = "index.html"
	}
	if cfg.Title == "" {
		cfg.Title = "Big 8 Tech — Returns & Volatility"
	}
	if cfg.MaxParallel == 0 {
		cfg.MaxParallel = 4
	}

	cfg.Tickers = normalizeTickers(cfg.Tickers)
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))

	return cfg, nil
}

// normalizeTickers trims, uppercases, and deduplicates keeping the first
// occurrence.
func normalizeTickers(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if len(c.Tickers) == 0 {
		return fmt.Errorf("tickers must list at least one symbol")
	}
	if c.YearsBack < 1 {
		return fmt.Errorf("years_back must be at least 1")
	}
	switch c.Provider {
	case "polygon":
		if c.APIKey == "" {
			return fmt.Errorf("POLYGON_API_KEY is required for the polygon provider")
		}
	case "yahoo", "mock":
	default:
		return fmt.Errorf("unknown provider %q (want polygon, yahoo or mock)", c.Provider)
	}
	if c.MaxParallel < 1 {
		return fmt.Errorf("max_parallel must be at least 1")
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must not be negative")
	}
	if c.Output == "" {
		return fmt.Errorf("output path must not be empty")
	}
	return nil
}
