package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadDefaults loads from an empty directory so only defaults and env apply.
func loadDefaults(t *testing.T) *Config {
	t.Helper()

	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	return cfg
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoad_DefaultValues(t *testing.T) {
	cfg := loadDefaults(t)

	assert.Equal(t, "quote-widget", cfg.App.Name)
	assert.Equal(t, "dev", cfg.App.Version)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 1, cfg.Client.Retry.MaxAttempts, "retry is off by default")
	assert.Equal(t, DefaultQuoteBaseURL, cfg.Services.Quote.BaseURL)
	assert.Equal(t, "weirdrich", cfg.Services.Quote.Name)
}

func TestLoad_WidgetAndExportDefaults(t *testing.T) {
	cfg := loadDefaults(t)

	assert.Equal(t, 15*time.Second, cfg.Widget.RefreshInterval)
	assert.Equal(t, 10*time.Second, cfg.Widget.FetchTimeout)
	assert.Equal(t, "quote.png", cfg.Export.Filename)
	assert.Equal(t, 2, cfg.Export.Scale)
	assert.Equal(t, "From weirdrichapi.com", cfg.Export.Watermark)
	assert.InDelta(t, 24.0, cfg.Export.FontSize, 0.001)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvVarOverrides(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_LOG_LEVEL", "warn")
	t.Setenv("APP_WIDGET_REFRESH_INTERVAL", "30s")
	t.Setenv("APP_SERVICES_QUOTE_BASE_URL", "http://localhost:4000")

	cfg := loadDefaults(t)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 30*time.Second, cfg.Widget.RefreshInterval)
	assert.Equal(t, "http://localhost:4000", cfg.Services.Quote.BaseURL)
}

func TestLoad_BoolEnvVar(t *testing.T) {
	t.Setenv("APP_TELEMETRY_ENABLED", "true")

	assert.True(t, loadDefaults(t).Telemetry.Enabled)
}

func TestLoad_FileLayering(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
app:
  version: "1.2.3"
widget:
  refresh_interval: 20s
export:
  scale: 3
`)
	writeFile(t, dir, "dev.yaml", `
app:
  environment: dev
widget:
  refresh_interval: 5s
`)

	cfg, err := LoadFrom(dir, "dev")
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", cfg.App.Version)
	assert.Equal(t, "dev", cfg.App.Environment)
	assert.Equal(t, 5*time.Second, cfg.Widget.RefreshInterval, "profile overrides base")
	assert.Equal(t, 3, cfg.Export.Scale)
}

func TestLoad_EnvBeatsFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "widget:\n  refresh_interval: 20s\n")
	t.Setenv("APP_WIDGET_REFRESH_INTERVAL", "45s")

	cfg, err := LoadFrom(dir, "")
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.Widget.RefreshInterval)
}

func TestLoad_NonExistentProfile(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "nonexistent")
	require.NoError(t, err)

	assert.Equal(t, "quote-widget", cfg.App.Name)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "widget: [unclosed\n")

	_, err := LoadFrom(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading base config")
}

func TestLoad_LogFileDefaults(t *testing.T) {
	cfg := loadDefaults(t)

	assert.False(t, cfg.Log.File.Enabled)
	assert.Equal(t, "./logs/quote-widget.log", cfg.Log.File.Path)
	assert.Equal(t, DefaultLogFileMaxSizeMB, cfg.Log.File.MaxSizeMB)
	assert.Equal(t, DefaultLogFileMaxBackups, cfg.Log.File.MaxBackups)
	assert.Equal(t, DefaultLogFileMaxAgeDays, cfg.Log.File.MaxAgeDays)
	assert.True(t, cfg.Log.File.Compress)
}

func TestLoad_ClientDefaults(t *testing.T) {
	cfg := loadDefaults(t)

	assert.Equal(t, 10*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 200*time.Millisecond, cfg.Client.Retry.InitialInterval)
	assert.Equal(t, 2*time.Second, cfg.Client.Retry.MaxInterval)
	assert.Equal(t, DefaultClientCircuitMaxFailures, cfg.Client.CircuitBreaker.MaxFailures)
	assert.Equal(t, 30*time.Second, cfg.Client.CircuitBreaker.Timeout)
	assert.Equal(t, 90*time.Second, cfg.Client.Transport.IdleConnTimeout)
}

func TestEnvKeyMapper(t *testing.T) {
	mapKey := envKeyMapper([]string{"widget.refresh_interval", "server.port", "log.file.max_size"})

	tests := map[string]string{
		"APP_WIDGET_REFRESH_INTERVAL": "widget.refresh_interval",
		"APP_SERVER_PORT":             "server.port",
		"APP_LOG_FILE_MAX_SIZE":       "log.file.max_size",
		"APP_UNKNOWN_THING":           "unknown.thing",
	}

	for env, want := range tests {
		assert.Equal(t, want, mapKey(env), env)
	}
}

func TestServerConfig_Address(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8080", ServerConfig{Host: "127.0.0.1", Port: 8080}.Address())
}
