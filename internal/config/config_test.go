package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Empty(t, cfg.Geocode.GoogleAPIKey)
	assert.Equal(t, 15, cfg.Geocode.GoogleTimeoutSecs)
	assert.Equal(t, "https://nominatim.openstreetmap.org/search", cfg.Geocode.NominatimURL)
	assert.Equal(t, 20, cfg.Geocode.NominatimTimeoutSecs)
	assert.Equal(t, "install-check/1.0", cfg.Geocode.UserAgent)
	assert.InDelta(t, 1.0, cfg.Geocode.RateLimit, 0.001)
	assert.Equal(t, "https://overpass-api.de/api/interpreter", cfg.Overpass.URL)
	assert.Equal(t, 60, cfg.Overpass.TimeoutSecs)
	assert.InDelta(t, 80.0, cfg.Overpass.RadiusM, 0.001)
	assert.Equal(t, 2, cfg.Overpass.MaxAttempts)
	assert.Equal(t, "jsonl", cfg.Recorder.Driver)
	assert.Equal(t, "classifications.jsonl", cfg.Recorder.Path)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
recorder:
  driver: sqlite
  path: cases.db
log:
  level: debug
  format: console
overpass:
  radius_m: 60
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Recorder.Driver)
	assert.Equal(t, "cases.db", cfg.Recorder.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.InDelta(t, 60.0, cfg.Overpass.RadiusM, 0.001)
	// Defaults still apply for unset values
	assert.Equal(t, 60, cfg.Overpass.TimeoutSecs)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
recorder:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("INSTALLCHECK_RECORDER_DRIVER", "postgres")
	t.Setenv("INSTALLCHECK_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Recorder.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("INSTALLCHECK_SERVER_PORT", "3000")
	t.Setenv("INSTALLCHECK_GEOCODE_GOOGLE_API_KEY", "env-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "env-key", cfg.Geocode.GoogleAPIKey)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("INSTALLCHECK_GEOCODE_USER_AGENT=dotenv-agent/2.0\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("INSTALLCHECK_GEOCODE_USER_AGENT") }) //nolint:errcheck

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dotenv-agent/2.0", cfg.Geocode.UserAgent)
}

func TestLoadDotEnvDoesNotOverrideProcessEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("INSTALLCHECK_OUTPUT_FORMAT=yaml\n"), 0o600))
	t.Setenv("INSTALLCHECK_OUTPUT_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Output.Format = "json"
	cfg.Recorder.Driver = "jsonl"
	cfg.Recorder.Path = "classifications.jsonl"
	cfg.Overpass.RadiusM = 80
	cfg.Geocode.RateLimit = 1
	cfg.Server.Port = 8080
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validDefaults()
	for _, mode := range []string{"check", "analyze", "serve"} {
		assert.NoError(t, cfg.Validate(mode), mode)
	}
}

func TestValidate_OutputFormat(t *testing.T) {
	cfg := validDefaults()
	cfg.Output.Format = "xml"

	err := cfg.Validate("check")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "output.format must be json or yaml")
}

func TestValidate_RecorderDriver(t *testing.T) {
	cfg := validDefaults()
	cfg.Recorder.Driver = "mongo"
	err := cfg.Validate("check")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "recorder.driver must be")

	cfg.Recorder.Driver = "postgres"
	err = cfg.Validate("check")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "recorder.database_url is required")

	cfg.Recorder.DatabaseURL = "postgres://localhost/installs"
	assert.NoError(t, cfg.Validate("check"))

	cfg.Recorder.Driver = "sqlite"
	cfg.Recorder.Path = ""
	err = cfg.Validate("check")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "recorder.path is required")
}

func TestValidate_AnalyzeBounds(t *testing.T) {
	cfg := validDefaults()
	cfg.Overpass.RadiusM = 0
	cfg.Geocode.RateLimit = 0

	err := cfg.Validate("analyze")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "overpass.radius_m")
	assert.Contains(t, err.Error(), "geocode.rate_limit must be > 0")

	// The manual path never touches Overpass or the geocoder.
	assert.NoError(t, cfg.Validate("check"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
