package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"MCP_TRANSPORT", "MCP_HOST", "MCP_PORT", "MCP_BASE_URL", "ENABLE_REST",
		"ERDDAP_DEFAULT_URL", "ERDDAP_TIMEOUT", "ERDDAP_RATE_LIMIT", "ERDDAP_RATE_BURST", "ERDDAP_USER_AGENT",
		"AUDIT_DUCKDB_PATH", "AUDIT_DATABASE_URL", "LOG_LEVEL", "LOG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, TransportStdio, cfg.Server.Transport)
	assert.Equal(t, "127.0.0.1:8000", cfg.Server.Addr())
	assert.Equal(t, "http://127.0.0.1:8000", cfg.Server.PublicURL())
	assert.True(t, cfg.Server.EnableREST)
	assert.Equal(t, 30*time.Second, cfg.ERDDAP.Timeout)
	assert.Zero(t, cfg.ERDDAP.RateLimit)
	assert.Equal(t, 1, cfg.ERDDAP.RateBurst)
	assert.Empty(t, cfg.Audit.DuckDBPath)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("MCP_TRANSPORT", "streamable-http")
	t.Setenv("MCP_HOST", "0.0.0.0")
	t.Setenv("MCP_PORT", "9001")
	t.Setenv("MCP_BASE_URL", "https://mcp.example.org/")
	t.Setenv("ENABLE_REST", "false")
	t.Setenv("ERDDAP_DEFAULT_URL", "https://erddap.maracoos.org/erddap")
	t.Setenv("ERDDAP_TIMEOUT", "5s")
	t.Setenv("ERDDAP_RATE_LIMIT", "2.5")
	t.Setenv("ERDDAP_RATE_BURST", "3")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, TransportStreamableHTTP, cfg.Server.Transport)
	assert.Equal(t, "0.0.0.0:9001", cfg.Server.Addr())
	assert.Equal(t, "https://mcp.example.org", cfg.Server.PublicURL())
	assert.False(t, cfg.Server.EnableREST)
	assert.Equal(t, "https://erddap.maracoos.org/erddap", cfg.ERDDAP.DefaultURL)
	assert.Equal(t, 5*time.Second, cfg.ERDDAP.Timeout)
	assert.Equal(t, 2.5, cfg.ERDDAP.RateLimit)
	assert.Equal(t, 3, cfg.ERDDAP.RateBurst)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("MCP_PORT", "eighty")
	_, err := Load()
	assert.ErrorContains(t, err, "MCP_PORT")

	clearEnv(t)
	t.Setenv("ERDDAP_RATE_LIMIT", "fast")
	_, err = Load()
	assert.ErrorContains(t, err, "ERDDAP_RATE_LIMIT")
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("ERDDAP_DEFAULT_URL")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ERDDAP_DEFAULT_URL=https://coastwatch.pfeg.noaa.gov/erddap\n"), 0o600))
	t.Chdir(dir)
	t.Cleanup(func() { os.Unsetenv("ERDDAP_DEFAULT_URL") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://coastwatch.pfeg.noaa.gov/erddap", cfg.ERDDAP.DefaultURL)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Server.Transport = "websocket"
	assert.ErrorContains(t, cfg.Validate(), "unknown transport")

	cfg.Server.Transport = TransportSSE
	cfg.Server.Port = 70000
	assert.ErrorContains(t, cfg.Validate(), "out of range")
}
