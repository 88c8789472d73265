package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darakelian/osrsprice/internal/cli"
	"github.com/darakelian/osrsprice/pkg/version"
)

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		require.NotNil(t, root)
		assert.NotEmpty(t, root.Use)
	})
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
}

// setupAPI starts a fake prices API and points the CLI at it through a config file.
func setupAPI(t *testing.T, mappingStatus int) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/mapping":
			w.WriteHeader(mappingStatus)
			_, _ = w.Write([]byte(`[{"id":12934,"name":"Zulrah's scales"},{"id":20997,"name":"Twisted bow"}]`))
		case "/latest":
			_, _ = w.Write([]byte(`{"data":{"12934":{"high":null,"low":42000},"20997":{"high":1200000000,"low":1190000000}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	cacheDir := filepath.Join(t.TempDir(), "cache")
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := fmt.Sprintf("cache:\n  dir: %s\napi:\n  mapping_url: %s/mapping\n  latest_url: %s/latest\n  max_retries: 0\n",
		cacheDir, srv.URL, srv.URL)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0600))

	t.Setenv("OSRSPRICE_CONFIG", cfgPath)
	t.Setenv("LC_ALL", "en_US.UTF-8")
	return cacheDir
}

func TestRun(t *testing.T) {
	cacheDir := setupAPI(t, http.StatusOK)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"ZULRAH"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "Zulrah's scales -> high: N/A, low: 42,000\n", stdout.String())

	assert.FileExists(t, filepath.Join(cacheDir, "mappings.json"))
	assert.FileExists(t, filepath.Join(cacheDir, "prices.json"))
}

func TestRun_ZeroMatchesSucceeds(t *testing.T) {
	setupAPI(t, http.StatusOK)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"partyhat"}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "No priced items match")
}

func TestRun_FetchFailureExitsNonZero(t *testing.T) {
	setupAPI(t, http.StatusInternalServerError)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"twisted"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.True(t, strings.HasPrefix(stderr.String(), "Error: "), stderr.String())
}

func TestRun_MissingArgument(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), nil, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "accepts 1 arg")
}
