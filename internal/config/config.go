// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	apperrors "motor-supplychain/internal/errors"
	"motor-supplychain/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// SupplyChain configures the motor supply chain pipeline
	SupplyChain SupplyChainConfig `json:"supply_chain"`

	// Refresh configures the commodity price refresh
	Refresh RefreshConfig `json:"refresh"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`

	// Server contains HTTP adapter configuration
	Server ServerConfig `json:"server"`
}

// SupplyChainConfig holds the pipeline options
type SupplyChainConfig struct {
	// Enabled turns the supply chain analysis on for the motor model
	Enabled bool `json:"enabled"`

	// FCopper is the copper mass fraction (stator windings)
	FCopper float64 `json:"f_copper"`

	// FMagnet is the NdFeB magnet mass fraction (rotor)
	FMagnet float64 `json:"f_magnet"`

	// FSteel is the electrical steel mass fraction (laminations)
	FSteel float64 `json:"f_steel"`

	// FAluminum is the aluminum mass fraction (housing, endcaps)
	FAluminum float64 `json:"f_aluminum"`

	// PricesCSV is a custom material price table; empty uses the built-in one
	PricesCSV string `json:"prices_csv,omitempty"`

	// RiskCSV is a custom supply risk table; empty uses the built-in one
	RiskCSV string `json:"risk_csv,omitempty"`
}

// RefreshConfig contains price refresh settings
type RefreshConfig struct {
	// Source selects the commodity price source (worldbank, none)
	Source string `json:"source"`

	// BaseURL is the indicator endpoint of the source
	BaseURL string `json:"base_url"`

	// TimeoutSeconds bounds each indicator request
	TimeoutSeconds int `json:"timeout_seconds"`

	// MaxValues is how many recent monthly values are averaged
	MaxValues int `json:"max_values"`
}

// Timeout returns the per-request timeout
func (r RefreshConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format"`
}

// ServerConfig contains HTTP adapter settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		SupplyChain: SupplyChainConfig{
			Enabled:   true,
			FCopper:   0.25,
			FMagnet:   0.12,
			FSteel:    0.45,
			FAluminum: 0.10,
		},
		Refresh: RefreshConfig{
			Source:         "worldbank",
			BaseURL:        "https://api.worldbank.org/v2/en/indicator",
			TimeoutSeconds: 10,
			MaxValues:      12,
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
		},
		Logging: logging.DefaultConfig(),
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// DefaultPath returns $HOME/.motor-supplychain.json
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".motor-supplychain.json")
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, apperrors.Config("read config file", err).WithContext("path", path)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, apperrors.Config("decode config file", err).WithContext("path", path)
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
