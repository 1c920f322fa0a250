package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("uses defaults when file is missing", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())

		cfg, v, err := Load("")

		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, "https://rgsordertracking.com/animekompi/endpoints", cfg.Catalog.BaseURL)
		assert.Equal(t, 60*time.Second, cfg.Catalog.CacheTTL)
		assert.Equal(t, ":3000", cfg.Web.Addr)
		assert.Equal(t, "Asia/Jakarta", cfg.Schedule.Timezone)
	})

	t.Run("reads yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		data := []byte("catalog:\n  base_url: http://example.test\n  cache_ttl: 5s\nweb:\n  addr: \":8080\"\n")
		require.NoError(t, os.WriteFile(path, data, 0644))

		cfg, _, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "http://example.test", cfg.Catalog.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.Catalog.CacheTTL)
		assert.Equal(t, ":8080", cfg.Web.Addr)
		assert.Equal(t, DefaultUserAgent, cfg.Catalog.UserAgent)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv("MIZUNIME_WEB_ADDR", ":9999")

		cfg, _, err := Load("")

		require.NoError(t, err)
		assert.Equal(t, ":9999", cfg.Web.Addr)
	})

	t.Run("rejects unknown timezone", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("schedule:\n  timezone: Nowhere/Atlantis\n"), 0644))

		_, _, err := Load(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "schedule.timezone")
	})
}

func TestSaveDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, SaveDefaultConfig(path))

	cfg, _, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Catalog.BaseURL, cfg.Catalog.BaseURL)
	assert.Equal(t, DefaultConfig().Web.SiteName, cfg.Web.SiteName)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("bogus"))
}

func TestInitLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mizunime.log")
	level := LevelVar("debug")

	logger, err := InitLogger(&LoggingConfig{File: path, Format: "json"}, level)
	require.NoError(t, err)

	logger.Debug("hello", "k", "v")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)

	level.Set(slog.LevelError)
	assert.False(t, logger.Enabled(t.Context(), slog.LevelInfo))
}

func TestColorLevel(t *testing.T) {
	got := colorLevel(nil, slog.Any(slog.LevelKey, slog.LevelWarn))
	assert.Equal(t, "\033[33mWARN\033[0m", got.Value.String())

	msg := slog.String(slog.MessageKey, "hello")
	assert.Equal(t, msg, colorLevel(nil, msg))

	nested := slog.Any(slog.LevelKey, slog.LevelError)
	assert.Equal(t, nested, colorLevel([]string{"req"}, nested), "grouped attrs are left alone")
}

func TestDefaultLogFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	assert.Equal(t, filepath.Join(dir, "mizunime", "mizunime.log"), DefaultLogFile())
}
