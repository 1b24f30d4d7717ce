package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QVLENS_DATA_DIR", filepath.Join(dir, "data"))

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.DataDir))
	assert.DirExists(t, cfg.DataDir)
	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, 250000.0, cfg.Analysis.TotalBudget)
	assert.Equal(t, 4.0, cfg.Analysis.StrongThreshold)
	assert.Equal(t, 9, cfg.Analysis.MaxIntensity)
	assert.Equal(t, 10, cfg.Analysis.ReportRetention)
	assert.Equal(t, "@every 1h", cfg.Schedule.RefreshReports)
	assert.Equal(t, "@daily", cfg.Schedule.PublishReports)
	assert.False(t, cfg.R2.Enabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("QVLENS_DATA_DIR", t.TempDir())
	t.Setenv("QVLENS_PORT", "9090")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("QVLENS_TOTAL_BUDGET", "1000.5")
	t.Setenv("QVLENS_STRONG_THRESHOLD", "5")
	t.Setenv("QVLENS_MAX_INTENSITY", "12")
	t.Setenv("QVLENS_REFRESH_SCHEDULE", "@every 5m")
	t.Setenv("R2_ACCOUNT_ID", "acct")
	t.Setenv("R2_ACCESS_KEY_ID", "key")
	t.Setenv("R2_SECRET_ACCESS_KEY", "secret")
	t.Setenv("R2_BUCKET_NAME", "bucket")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 1000.5, cfg.Analysis.TotalBudget)
	assert.Equal(t, 5.0, cfg.Analysis.StrongThreshold)
	assert.Equal(t, 12, cfg.Analysis.MaxIntensity)
	assert.Equal(t, "@every 5m", cfg.Schedule.RefreshReports)
	assert.True(t, cfg.R2.Enabled())
}

func TestFromEnv_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("QVLENS_DATA_DIR", t.TempDir())
	t.Setenv("QVLENS_PORT", "not-a-port")
	t.Setenv("QVLENS_TOTAL_BUDGET", "lots")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, 250000.0, cfg.Analysis.TotalBudget)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port: 8001,
			Analysis: AnalysisConfig{
				TotalBudget:     250000,
				StrongThreshold: 4,
				MaxIntensity:    9,
				ReportRetention: 10,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Port = 0 }, "invalid port"},
		{"zero budget", func(c *Config) { c.Analysis.TotalBudget = 0 }, "total budget"},
		{"zero threshold", func(c *Config) { c.Analysis.StrongThreshold = 0 }, "threshold"},
		{"intensity below threshold", func(c *Config) { c.Analysis.MaxIntensity = 3 }, "max intensity"},
		{"zero retention", func(c *Config) { c.Analysis.ReportRetention = 0 }, "retention"},
		{"partial R2", func(c *Config) { c.R2.AccountID = "acct" }, "R2 publishing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
