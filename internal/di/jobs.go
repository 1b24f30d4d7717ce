package di

import (
	"fmt"

	"github.com/aristath/qvlens/internal/config"
	"github.com/aristath/qvlens/internal/scheduler"
	"github.com/rs/zerolog"
)

// RegisterJobs creates the background jobs and schedules them
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	sched := scheduler.New(container.EventManager, log)
	jobs := &JobInstances{}

	jobs.RefreshReports = scheduler.NewRefreshReportsJob(container.ComparisonService, log)
	if err := sched.AddJob(cfg.Schedule.RefreshReports, jobs.RefreshReports); err != nil {
		return nil, fmt.Errorf("failed to register refresh_reports job: %w", err)
	}

	checkpointers := make([]scheduler.Checkpointer, 0, 2)
	for _, db := range container.Databases() {
		checkpointers = append(checkpointers, db)
	}
	jobs.Maintenance = scheduler.NewMaintenanceJob(checkpointers, container.ComparisonService, cfg.Analysis.ReportRetention, log)
	if err := sched.AddJob(cfg.Schedule.Maintenance, jobs.Maintenance); err != nil {
		return nil, fmt.Errorf("failed to register maintenance job: %w", err)
	}

	if container.ReportPublisher != nil {
		jobs.PublishReports = scheduler.NewPublishReportsJob(container.ReportPublisher, container.EventManager, cfg.Analysis.ReportRetention, log)
		if err := sched.AddJob(cfg.Schedule.PublishReports, jobs.PublishReports); err != nil {
			return nil, fmt.Errorf("failed to register publish_reports job: %w", err)
		}
	}

	container.Scheduler = sched
	container.Jobs = jobs
	return jobs, nil
}
