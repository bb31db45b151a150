package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []int{2024, 2025}, cfg.Fetch.Years)
	assert.Equal(t, 365, cfg.Report.WindowDays)
	assert.Equal(t, []string{"05:00", "17:00"}, cfg.Schedule.RunTimes)
}

func TestLoadFromFileOverlay(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "eiareport.yaml")

	content := `
fetch:
  market: miso
  years: [2023, 2024]
report:
  window_days: 180
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	// Overlaid values
	assert.Equal(t, "miso", cfg.Fetch.Market)
	assert.Equal(t, []int{2023, 2024}, cfg.Fetch.Years)
	assert.Equal(t, 180, cfg.Report.WindowDays)

	// Untouched defaults survive
	assert.Equal(t, "https://www.eia.gov/electricity/wholesalemarkets/csv", cfg.Fetch.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Fetch.Timeout)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "eiareport.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("report:\n  window_days: 180\n"), 0644))

	t.Setenv("EIA_REPORT_WINDOW_DAYS", "90")
	t.Setenv("EIA_LOGGING_LEVEL", "debug")

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 90, cfg.Report.WindowDays)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Fetch.BaseURL, cfg.Fetch.BaseURL)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.Logging.Level = "verbose" },
		},
		{
			name:   "empty years",
			mutate: func(c *Config) { c.Fetch.Years = nil },
		},
		{
			name:   "single year only",
			mutate: func(c *Config) { c.Fetch.Years = []int{2024} },
		},
		{
			name:   "non-positive window",
			mutate: func(c *Config) { c.Report.WindowDays = 0 },
		},
		{
			name:   "malformed run time",
			mutate: func(c *Config) { c.Schedule.RunTimes = []string{"5am"} },
		},
		{
			name:   "port out of range",
			mutate: func(c *Config) { c.Server.Port = 70000 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestYearSheetName(t *testing.T) {
	assert.Equal(t, "2024 Data", YearSheetName(2024))
	assert.Equal(t, "2025 Data", YearSheetName(2025))
}
