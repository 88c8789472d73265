package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/darakelian/osrsprice/internal/engine/cache"
	"github.com/darakelian/osrsprice/internal/wiki"
)

// Application directory name under the user's cache and config directories.
const appDirName = "osrsprice"

// fallbackCacheDir is used when the platform has no user cache directory.
const fallbackCacheDir = "cache_dir"

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Environment variables that override the config file.
const (
	EnvConfigFile      = "OSRSPRICE_CONFIG"
	EnvCacheDir        = "OSRSPRICE_CACHE_DIR"
	EnvPriceTTLSeconds = "OSRSPRICE_PRICE_TTL_SECONDS"
	EnvLogLevel        = "OSRSPRICE_LOG_LEVEL"
	EnvLogFormat       = "OSRSPRICE_LOG_FORMAT"
	EnvOutput          = "OSRSPRICE_OUTPUT"
)

// Config is the full tool configuration.
type Config struct {
	Cache   CacheConfig   `yaml:"cache"`
	API     APIConfig     `yaml:"api"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// CacheConfig controls where datasets are cached and how long prices stay fresh.
type CacheConfig struct {
	Dir             string `yaml:"dir"`
	PriceTTLSeconds int64  `yaml:"price_ttl_seconds"`
}

// APIConfig points the transport at the prices API.
type APIConfig struct {
	MappingURL string        `yaml:"mapping_url"`
	LatestURL  string        `yaml:"latest_url"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// OutputConfig selects how results are printed.
type OutputConfig struct {
	Format string `yaml:"format"`
}

// LoggingConfig selects log level, format and destination.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			Dir:             DefaultCacheDir(),
			PriceTTLSeconds: cache.DefaultPriceTTLSeconds,
		},
		API: APIConfig{
			MappingURL: wiki.DefaultMappingURL,
			LatestURL:  wiki.DefaultLatestURL,
			Timeout:    wiki.DefaultTimeout,
			MaxRetries: wiki.DefaultMaxRetries,
		},
		Output: OutputConfig{
			Format: OutputTable,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// DefaultCacheDir returns the per-user cache directory for the tool.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		return fallbackCacheDir
	}
	return filepath.Join(dir, appDirName)
}

// DefaultConfigPath returns the per-user config file path, or "" if the platform
// has no user config directory.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ""
	}
	return filepath.Join(dir, appDirName, "config.yaml")
}

// Load builds the configuration from defaults, a config file and the environment.
//
// The config file is path if non-empty, else $OSRSPRICE_CONFIG, else the default config
// path when it exists. An explicitly named file that does not exist is an error.
func Load(path string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path == "" {
		if envPath, ok := lookupEnv(EnvConfigFile); ok && envPath != "" {
			path = envPath
		}
	}

	if path != "" {
		if err := MergeYAMLFile(cfg, path); err != nil {
			return nil, err
		}
	} else if defaultPath := DefaultConfigPath(); defaultPath != "" {
		if _, err := os.Stat(defaultPath); err == nil {
			if mergeErr := MergeYAMLFile(cfg, defaultPath); mergeErr != nil {
				return nil, mergeErr
			}
		}
	}

	if err := cfg.ApplyEnv(lookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv overrides fields from OSRSPRICE_* environment variables.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) error {
	if v, ok := lookupEnv(EnvCacheDir); ok && v != "" {
		c.Cache.Dir = v
	}
	if v, ok := lookupEnv(EnvPriceTTLSeconds); ok && v != "" {
		ttl, err := cache.ParseTTL(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPriceTTLSeconds, err)
		}
		c.Cache.PriceTTLSeconds = int64(ttl / time.Second)
	}
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	if v, ok := lookupEnv(EnvOutput); ok && v != "" {
		c.Output.Format = strings.ToLower(v)
	}
	return nil
}

// PriceTTL returns the price cache TTL as a duration.
func (c *Config) PriceTTL() (time.Duration, error) {
	return cache.TTLFromSeconds(c.Cache.PriceTTLSeconds)
}

// Validate checks the configuration for values the tool cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Cache.Dir == "" {
		errs = append(errs, errors.New("cache.dir cannot be empty"))
	}
	if c.Cache.PriceTTLSeconds < 0 {
		errs = append(errs, fmt.Errorf("cache.price_ttl_seconds must be >= 0, got %d", c.Cache.PriceTTLSeconds))
	}
	if c.API.MappingURL == "" {
		errs = append(errs, errors.New("api.mapping_url cannot be empty"))
	}
	if c.API.LatestURL == "" {
		errs = append(errs, errors.New("api.latest_url cannot be empty"))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be >= 0, got %s", c.API.Timeout))
	}
	if c.API.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("api.max_retries must be >= 0, got %d", c.API.MaxRetries))
	}
	switch c.Output.Format {
	case OutputTable, OutputJSON:
	default:
		errs = append(errs, fmt.Errorf("output.format must be %q or %q, got %q", OutputTable, OutputJSON, c.Output.Format))
	}

	return errors.Join(errs...)
}
