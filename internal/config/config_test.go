package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darakelian/osrsprice/internal/engine/cache"
	"github.com/darakelian/osrsprice/internal/logging"
	"github.com/darakelian/osrsprice/internal/wiki"
)

func envFrom(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotEmpty(t, cfg.Cache.Dir)
	assert.Equal(t, int64(300), cfg.Cache.PriceTTLSeconds)
	assert.Equal(t, wiki.DefaultMappingURL, cfg.API.MappingURL)
	assert.Equal(t, wiki.DefaultLatestURL, cfg.API.LatestURL)
	assert.Equal(t, OutputTable, cfg.Output.Format)
	require.NoError(t, cfg.Validate())

	ttl, err := cfg.PriceTTL()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, ttl)
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := writeConfigFile(t, `
cache:
  dir: /var/cache/prices
api:
  timeout: 10s
output:
  format: json
`)

	cfg, err := Load(path, envFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, "/var/cache/prices", cfg.Cache.Dir)
	assert.Equal(t, int64(cache.DefaultPriceTTLSeconds), cfg.Cache.PriceTTLSeconds, "absent keys keep defaults")
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, wiki.DefaultLatestURL, cfg.API.LatestURL)
	assert.Equal(t, OutputJSON, cfg.Output.Format)
}

func TestLoad_FileFromEnv(t *testing.T) {
	path := writeConfigFile(t, "cache:\n  price_ttl_seconds: 60\n")

	cfg, err := Load("", envFrom(map[string]string{EnvConfigFile: path}))
	require.NoError(t, err)
	assert.Equal(t, int64(60), cfg.Cache.PriceTTLSeconds)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), envFrom(nil))
	require.Error(t, err)
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeConfigFile(t, "cache:\n  ttl: 60\n")
	_, err := Load(path, envFrom(nil))
	require.Error(t, err)
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeConfigFile(t, "# nothing here\n")
	cfg, err := Load(path, envFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, Default().Cache, cfg.Cache)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "cache:\n  dir: /from/file\n  price_ttl_seconds: 60\n")

	cfg, err := Load(path, envFrom(map[string]string{
		EnvCacheDir:        "/from/env",
		EnvPriceTTLSeconds: "2m",
		EnvLogLevel:        "debug",
		EnvLogFormat:       "json",
		EnvOutput:          "JSON",
	}))
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.Cache.Dir)
	assert.Equal(t, int64(120), cfg.Cache.PriceTTLSeconds)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, OutputJSON, cfg.Output.Format)
}

func TestLoad_InvalidEnvTTL(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	for _, v := range []string{"-1", "1500ms", "500ms"} {
		t.Run(v, func(t *testing.T) {
			_, err := Load("", envFrom(map[string]string{EnvPriceTTLSeconds: v}))
			require.ErrorIs(t, err, cache.ErrInvalidTTL)
		})
	}
}

func TestLoad_EnvTTLDuration(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("", envFrom(map[string]string{EnvPriceTTLSeconds: "2m30s"}))
	require.NoError(t, err)
	assert.Equal(t, int64(150), cfg.Cache.PriceTTLSeconds)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty cache dir", func(c *Config) { c.Cache.Dir = "" }},
		{"negative ttl", func(c *Config) { c.Cache.PriceTTLSeconds = -1 }},
		{"empty mapping url", func(c *Config) { c.API.MappingURL = "" }},
		{"empty latest url", func(c *Config) { c.API.LatestURL = "" }},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }},
		{"negative retries", func(c *Config) { c.API.MaxRetries = -1 }},
		{"unknown output", func(c *Config) { c.Output.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestPriceTTL_ZeroAndHuge(t *testing.T) {
	cfg := Default()

	cfg.Cache.PriceTTLSeconds = 0
	ttl, err := cfg.PriceTTL()
	require.NoError(t, err)
	assert.Zero(t, ttl)

	cfg.Cache.PriceTTLSeconds = 1 << 62
	ttl, err = cfg.PriceTTL()
	require.NoError(t, err)
	assert.Equal(t, cache.NeverExpire, ttl)
}

func TestToLoggingConfig(t *testing.T) {
	lc := LoggingConfig{Level: "debug", Format: "json"}
	got := lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputStderr, got.Output)
	assert.Equal(t, "debug", got.Level)

	lc.File = "/tmp/osrsprice.log"
	got = lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputFile, got.Output)
	assert.Equal(t, "/tmp/osrsprice.log", got.File)
}
