package di

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aristath/qvlens/internal/config"
	"github.com/aristath/qvlens/internal/events"
	"github.com/aristath/qvlens/internal/modules/voting"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		DataDir: t.TempDir(),
		Port:    8001,
		Analysis: config.AnalysisConfig{
			TotalBudget:     250000,
			StrongThreshold: 4,
			MaxIntensity:    9,
			ReportRetention: 2,
		},
		Schedule: config.ScheduleConfig{
			RefreshReports: "@every 1h",
			PublishReports: "@daily",
			Maintenance:    "@every 6h",
		},
	}
}

const testElection = `{
  "candidates": [{"title": "A"}, {"title": "B"}],
  "votes": [
    {"id": 1, "voter": "v1", "votes": [{"candidate": 0, "vote": 4}, {"candidate": 1, "vote": 1}]},
    {"id": 2, "voter": "v2", "votes": [{"candidate": 1, "vote": 2}]}
  ]
}`

func TestWire_BuildsContainer(t *testing.T) {
	cfg := testConfig(t)
	container, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer container.Close()

	assert.FileExists(t, filepath.Join(cfg.DataDir, "elections.db"))
	assert.FileExists(t, filepath.Join(cfg.DataDir, "cache.db"))
	assert.Len(t, container.Databases(), 2)

	assert.NotNil(t, container.VotingService)
	assert.NotNil(t, container.ComparisonService)
	assert.Nil(t, container.ReportPublisher)
	assert.Nil(t, container.Jobs.PublishReports)
	assert.Equal(t, []string{"maintenance", "refresh_reports"}, container.Scheduler.JobNames())
}

func TestWire_EndToEnd(t *testing.T) {
	container, err := Wire(testConfig(t), zerolog.Nop())
	require.NoError(t, err)
	defer container.Close()

	election, err := voting.ParseElectionJSON(strings.NewReader(testElection))
	require.NoError(t, err)
	imported, err := container.VotingService.Import(context.Background(), "e2e", election)
	require.NoError(t, err)

	var computed int
	container.EventBus.Subscribe(events.ReportComputed, func(*events.Event) { computed++ })

	require.NoError(t, container.Scheduler.RunByName("refresh_reports"))
	require.NoError(t, container.Scheduler.RunByName("refresh_reports"))
	require.NoError(t, container.Scheduler.RunByName("refresh_reports"))
	assert.Equal(t, 3, computed)

	require.NoError(t, container.Scheduler.RunByName("maintenance"))
	reports, err := container.ComparisonService.ListReports(imported.ID)
	require.NoError(t, err)
	assert.Len(t, reports, 2)

	// Deleting the election drops its reports through the event bus
	require.NoError(t, container.VotingService.Delete(imported.ID))
	reports, err = container.ComparisonService.ListReports(imported.ID)
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestWire_BadScheduleClosesDatabases(t *testing.T) {
	cfg := testConfig(t)
	cfg.Schedule.Maintenance = "whenever"

	_, err := Wire(cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "maintenance")
}

func TestInitializeDatabases_BadDataDir(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(cfg.DataDir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	cfg.DataDir = blocker

	_, err := InitializeDatabases(cfg, zerolog.Nop())
	assert.Error(t, err)
}
