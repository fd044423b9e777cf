package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/quantsim/strategies"
	"gopkg.in/yaml.v3"
)

// Config represents a complete run configuration.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Run      RunConfig      `json:"run" yaml:"run"`
}

// AccountConfig contains portfolio initialization parameters.
type AccountConfig struct {
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
	AllowShort     bool    `json:"allow_short" yaml:"allow_short"`
}

// StrategyConfig selects a strategy by name with a free-form parameter map.
// Unrecognized parameters are ignored; missing ones keep their defaults.
type StrategyConfig struct {
	Name       string         `json:"name" yaml:"name"`
	Parameters map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// DataConfig selects the snapshot source.
type DataConfig struct {
	Source string `json:"source" yaml:"source"` // "csv" or "synthetic"

	// csv
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// synthetic
	Symbols    map[string]float64 `json:"symbols,omitempty" yaml:"symbols,omitempty"` // symbol -> start price
	Steps      int                `json:"steps,omitempty" yaml:"steps,omitempty"`
	Interval   string             `json:"interval,omitempty" yaml:"interval,omitempty"` // e.g. "1m", "1h"
	Drift      float64            `json:"drift,omitempty" yaml:"drift,omitempty"`
	Volatility float64            `json:"volatility,omitempty" yaml:"volatility,omitempty"`
	Seed       int64              `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// ParseInterval converts the interval string to a time.Duration.
func (d DataConfig) ParseInterval() (time.Duration, error) {
	if d.Interval == "" {
		return time.Minute, nil
	}
	return time.ParseDuration(d.Interval)
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// RunConfig contains run-level parameters.
type RunConfig struct {
	Mode string `json:"mode" yaml:"mode"` // "backtest" or "live"
	Seed int64  `json:"seed" yaml:"seed"` // fill-model RNG seed
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Account.InitialCapital <= 0 {
		return fmt.Errorf("account.initial_capital must be positive")
	}
	if _, err := strategies.KindByName(c.Strategy.Name); err != nil {
		return fmt.Errorf("strategy.name: %w", err)
	}

	switch c.Data.Source {
	case "csv":
		if c.Data.Path == "" {
			return fmt.Errorf("data.path required for csv source")
		}
	case "synthetic":
		if len(c.Data.Symbols) == 0 {
			return fmt.Errorf("data.symbols required for synthetic source")
		}
		if c.Data.Steps <= 0 {
			return fmt.Errorf("data.steps must be positive for synthetic source")
		}
		if _, err := c.Data.ParseInterval(); err != nil {
			return fmt.Errorf("data.interval: %w", err)
		}
	default:
		return fmt.Errorf("data.source must be 'csv' or 'synthetic'")
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	if c.Run.Mode != "backtest" && c.Run.Mode != "live" {
		return fmt.Errorf("run.mode must be 'backtest' or 'live'")
	}
	return nil
}

// Default returns a configuration with sensible defaults: a market-making
// run over a synthetic BTC/USD series.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			InitialCapital: 100000,
		},
		Strategy: StrategyConfig{
			Name: "market-making",
		},
		Data: DataConfig{
			Source:     "synthetic",
			Symbols:    map[string]float64{"BTC/USD": 50000},
			Steps:      1000,
			Interval:   "1m",
			Volatility: 0.002,
			Seed:       42,
		},
		Journal: JournalConfig{
			Type: "none",
		},
		Run: RunConfig{
			Mode: "backtest",
			Seed: 42,
		},
	}
}
