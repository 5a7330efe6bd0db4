// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"shopquote/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Catalog contains machine catalog configuration
	Catalog CatalogConfig `json:"catalog"`

	// Capacity contains capacity scheduling configuration
	Capacity CapacityConfig `json:"capacity"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`

	// ReadTimeoutSeconds bounds request reads
	ReadTimeoutSeconds int `json:"read_timeout_seconds"`

	// WriteTimeoutSeconds bounds response writes
	WriteTimeoutSeconds int `json:"write_timeout_seconds"`
}

// CatalogConfig contains machine catalog settings
type CatalogConfig struct {
	// Dir is the directory containing .hcl catalog files
	Dir string `json:"dir"`

	// DefaultRegion selects the rate card when a request carries none
	DefaultRegion string `json:"default_region"`
}

// CapacityConfig contains capacity scheduling settings
type CapacityConfig struct {
	// DatabasePath is the path to the capacity SQLite database
	DatabasePath string `json:"database_path"`

	// HorizonDays is the scheduling search window length
	HorizonDays int `json:"horizon_days"`

	// StandardOffsetDays is the earliest day offset for standard lead time
	StandardOffsetDays int `json:"standard_offset_days"`

	// ExpediteOffsetDays is the earliest day offset for expedite lead time
	ExpediteOffsetDays int `json:"expedite_offset_days"`

	// DefaultDayMinutes is the availability used when a day record
	// is created lazily
	DefaultDayMinutes float64 `json:"default_day_minutes"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".shopquote", "capacity.db")

	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Addr:                ":8080",
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 30,
		},
		Catalog: CatalogConfig{
			Dir:           "./catalog",
			DefaultRegion: "us-east",
		},
		Capacity: CapacityConfig{
			DatabasePath:       dbPath,
			HorizonDays:        30,
			StandardOffsetDays: 3,
			ExpediteOffsetDays: 1,
			DefaultDayMinutes:  480,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
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
