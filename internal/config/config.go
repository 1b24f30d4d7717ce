// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for all databases (always absolute)
	LogLevel string
	Port     int
	DevMode  bool
	Analysis AnalysisConfig
	Schedule ScheduleConfig
	R2       R2Config
}

// AnalysisConfig holds the parameters of the voting comparison
type AnalysisConfig struct {
	TotalBudget     float64 // Budget split proportionally between candidates
	StrongThreshold float64 // Vote value that counts as a strong preference
	MaxIntensity    int     // Upper bucket of the intensity distribution
	ReportRetention int     // Reports kept per election
}

// ScheduleConfig holds cron specs for background jobs
type ScheduleConfig struct {
	RefreshReports string
	PublishReports string
	Maintenance    string
}

// R2Config holds Cloudflare R2 (S3-compatible) credentials for report publishing
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
}

// Enabled reports whether every R2 credential is present
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.BucketName != ""
}

func (c R2Config) partial() bool {
	set := 0
	for _, v := range []string{c.AccountID, c.AccessKeyID, c.SecretAccessKey, c.BucketName} {
		if v != "" {
			set++
		}
	}
	return set > 0 && set < 4
}

// Load reads configuration from environment variables, after loading a .env file if present
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from the current environment only
func FromEnv() (*Config, error) {
	absDataDir, err := filepath.Abs(getEnv("QVLENS_DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:  absDataDir,
		Port:     getEnvAsInt("QVLENS_PORT", 8001),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Analysis: AnalysisConfig{
			TotalBudget:     getEnvAsFloat("QVLENS_TOTAL_BUDGET", 250000),
			StrongThreshold: getEnvAsFloat("QVLENS_STRONG_THRESHOLD", 4),
			MaxIntensity:    getEnvAsInt("QVLENS_MAX_INTENSITY", 9),
			ReportRetention: getEnvAsInt("QVLENS_REPORT_RETENTION", 10),
		},
		Schedule: ScheduleConfig{
			RefreshReports: getEnv("QVLENS_REFRESH_SCHEDULE", "@every 1h"),
			PublishReports: getEnv("QVLENS_PUBLISH_SCHEDULE", "@daily"),
			Maintenance:    getEnv("QVLENS_MAINTENANCE_SCHEDULE", "@every 6h"),
		},
		R2: R2Config{
			AccountID:       getEnv("R2_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("R2_BUCKET_NAME", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if configuration values are usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Analysis.TotalBudget <= 0 {
		return fmt.Errorf("total budget must be positive, got %v", c.Analysis.TotalBudget)
	}
	if c.Analysis.StrongThreshold <= 0 {
		return fmt.Errorf("strong preference threshold must be positive, got %v", c.Analysis.StrongThreshold)
	}
	if float64(c.Analysis.MaxIntensity) < c.Analysis.StrongThreshold {
		return fmt.Errorf("max intensity %d is below the strong threshold %v", c.Analysis.MaxIntensity, c.Analysis.StrongThreshold)
	}
	if c.Analysis.ReportRetention <= 0 {
		return fmt.Errorf("report retention must be positive, got %d", c.Analysis.ReportRetention)
	}
	if c.R2.partial() {
		return fmt.Errorf("R2 publishing needs R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY and R2_BUCKET_NAME")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
