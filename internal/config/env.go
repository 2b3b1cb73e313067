package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Credentials holds exchange and social API material sourced from the environment
// (typically a .env file loaded by the binary), never from YAML.
type Credentials struct {
	CBPKey          string `env:"CBP_KEY"`
	CBPSecret       string `env:"CBP_SECRET"`
	CBPPassphrase   string `env:"CBP_PASSPHRASE"`
	TwitterKey      string `env:"TWITTER_KEY"`
	TwitterSecret   string `env:"TWITTER_SECRET"`
	TwitterTokenKey string `env:"TWITTER_TOKEN_KEY"`
	TwitterTokenSec string `env:"TWITTER_TOKEN_SECRET"`
}

// HasExchange reports whether the Coinbase credential triple is complete.
func (c Credentials) HasExchange() bool {
	return c.CBPKey != "" && c.CBPSecret != "" && c.CBPPassphrase != ""
}

// Overrides are environment knobs layered on top of the YAML file, useful in
// containers where editing the config is awkward.
type Overrides struct {
	MetricsAddr string `env:"METRICS_ADDR"`
	LogLevel    string `env:"LOG_LEVEL"`
}

// FromEnv parses credentials and overrides out of the process environment.
func FromEnv() (Credentials, Overrides, error) {
	var creds Credentials
	if err := env.Parse(&creds); err != nil {
		return Credentials{}, Overrides{}, fmt.Errorf("parse credentials: %w", err)
	}
	var ov Overrides
	if err := env.Parse(&ov); err != nil {
		return Credentials{}, Overrides{}, fmt.Errorf("parse overrides: %w", err)
	}
	return creds, ov, nil
}

// Apply folds non-empty overrides into the config.
func (o Overrides) Apply(cfg *Config) {
	if o.MetricsAddr != "" {
		cfg.App.MetricsAddr = o.MetricsAddr
	}
	if o.LogLevel != "" {
		cfg.App.LogLevel = o.LogLevel
	}
}
