// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Exchange describes market-data connectivity for the traded product.
type Exchange struct {
	Provider  string `yaml:"provider"` // stub|coinbase
	ProductID string `yaml:"product_id"`
	WSURL     string `yaml:"ws_url"`
}

// Sentiment describes the mention stream for the tracked keyword.
type Sentiment struct {
	Provider string `yaml:"provider"` // stub
	Keyword  string `yaml:"keyword"`
}

// Algo groups the windowing, indicator, and decision tunables. The demo defaults
// (10s windows, 6-window SMA) reduce fast enough to watch; production runs use the
// 15-minute preset in the sample config.
type Algo struct {
	WindowPeriodMs   int     `yaml:"window_period_ms"`
	WindowCount      int     `yaml:"window_count"`
	FastSpan         int     `yaml:"fast_span"`
	SlowSpan         int     `yaml:"slow_span"`
	SlopeHorizon     int     `yaml:"slope_horizon"`
	DecisionPeriodMs int     `yaml:"decision_period_ms"`
	OrderSize        string  `yaml:"order_size"`
	ThresholdPos     float64 `yaml:"threshold_pos"`
	ThresholdNeg     float64 `yaml:"threshold_neg"`
	// RetentionWindows bounds the per-stream window series; 0 keeps every window.
	RetentionWindows int `yaml:"retention_windows"`
}

// Risk encodes guard-rails for how much size the decision engine may take on.
type Risk struct {
	MaxNotionalPerTrade float64 `yaml:"max_notional_per_trade"`
}

// Paper captures paper-trading account settings.
type Paper struct {
	StartingCash         float64 `yaml:"starting_cash"`
	MaxPositionPerSymbol float64 `yaml:"max_position_per_symbol"`
	FillsPath            string  `yaml:"fills_path"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App       App       `yaml:"app"`
	Exchange  Exchange  `yaml:"exchange"`
	Sentiment Sentiment `yaml:"sentiment"`
	Algo      Algo      `yaml:"algo"`
	Risk      Risk      `yaml:"risk"`
	Paper     Paper     `yaml:"paper"`
}

// Load reads a YAML file from disk and hydrates a Config struct.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	config.applyDefaults()
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Algo.WindowPeriodMs <= 0 {
		c.Algo.WindowPeriodMs = 10_000
	}
	if c.Algo.WindowCount <= 0 {
		c.Algo.WindowCount = 6
	}
	if c.Algo.FastSpan <= 0 {
		c.Algo.FastSpan = 12
	}
	if c.Algo.SlowSpan <= 0 {
		c.Algo.SlowSpan = 26
	}
	if c.Algo.SlopeHorizon <= 0 {
		c.Algo.SlopeHorizon = 3
	}
	if c.Algo.DecisionPeriodMs <= 0 {
		c.Algo.DecisionPeriodMs = 5_000
	}
	if c.Algo.OrderSize == "" {
		c.Algo.OrderSize = "10"
	}
	if c.Algo.ThresholdPos == 0 {
		c.Algo.ThresholdPos = 100
	}
	if c.Algo.ThresholdNeg == 0 {
		c.Algo.ThresholdNeg = 100
	}
}
