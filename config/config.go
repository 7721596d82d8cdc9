// Package config loads the platform configuration from YAML or JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gxquant/screener/risk"
)

// Config is the complete platform configuration.
type Config struct {
	Data    DataConfig    `json:"data" yaml:"data"`
	Account AccountConfig `json:"account" yaml:"account"`
	Risk    risk.Limits   `json:"risk" yaml:"risk"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// DataConfig locates the on-disk market data.
type DataConfig struct {
	Dir        string `json:"dir" yaml:"dir"`
	Industries string `json:"industries,omitempty" yaml:"industries,omitempty"`
	StoreDir   string `json:"store_dir,omitempty" yaml:"store_dir,omitempty"`
}

// AccountConfig sets the simulated account.
type AccountConfig struct {
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
}

// JournalConfig selects the journal backend.
type JournalConfig struct {
	Type          string `json:"type" yaml:"type"` // "sqlite" or "csv"
	DBPath        string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	TradesFile    string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	SnapshotsFile string `json:"snapshots_file,omitempty" yaml:"snapshots_file,omitempty"`
}

// LoggingConfig configures the application logger.
type LoggingConfig struct {
	Level string `json:"level" yaml:"level"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir:      "data/kline",
			StoreDir: "data/results",
		},
		Account: AccountConfig{InitialCapital: 100_000},
		Risk:    risk.DefaultLimits(),
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "screener.sqlite",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadFromFile loads a config file, trying YAML first and falling back to
// JSON. Missing risk limits are filled from the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if yerr := yaml.Unmarshal(data, cfg); yerr != nil {
		if strings.HasSuffix(path, ".json") {
			if jerr := json.Unmarshal(data, cfg); jerr != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, jerr)
			}
		} else {
			return nil, fmt.Errorf("parse config %s: %w", path, yerr)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the platform cannot run with.
func (c *Config) Validate() error {
	if c.Account.InitialCapital <= 0 {
		return fmt.Errorf("account.initial_capital must be positive, got %v", c.Account.InitialCapital)
	}
	switch c.Journal.Type {
	case "", "sqlite", "csv":
	default:
		return fmt.Errorf("journal.type must be sqlite or csv, got %q", c.Journal.Type)
	}
	return nil
}
