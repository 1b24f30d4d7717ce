package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/qvlens/internal/events"
	"github.com/rs/zerolog"
)

// jobTimeout bounds a single run of a job that talks to storage
const jobTimeout = 10 * time.Minute

// ReportRefresher recomputes comparison reports
type ReportRefresher interface {
	RefreshAll(ctx context.Context) (int, error)
}

// ReportPruner trims stored reports
type ReportPruner interface {
	PruneAll(keep int) (int64, error)
}

// ReportPublisher uploads and rotates published reports
type ReportPublisher interface {
	PublishLatest(ctx context.Context) (int, error)
	Rotate(ctx context.Context, keep int) (int, error)
}

// Checkpointer is a database whose WAL can be checkpointed
type Checkpointer interface {
	Name() string
	WALCheckpoint(mode string) error
}

// RefreshReportsJob recomputes the comparison report of every election
type RefreshReportsJob struct {
	reports ReportRefresher
	log     zerolog.Logger
}

// NewRefreshReportsJob creates a new RefreshReportsJob
func NewRefreshReportsJob(reports ReportRefresher, log zerolog.Logger) *RefreshReportsJob {
	return &RefreshReportsJob{
		reports: reports,
		log:     log.With().Str("job", "refresh_reports").Logger(),
	}
}

// Name returns the job name
func (j *RefreshReportsJob) Name() string {
	return "refresh_reports"
}

// Run executes the refresh
func (j *RefreshReportsJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	refreshed, err := j.reports.RefreshAll(ctx)
	j.log.Info().Int("refreshed", refreshed).Msg("Reports refreshed")
	return err
}

// PublishReportsJob uploads the latest reports to R2 and rotates old ones
type PublishReportsJob struct {
	publisher    ReportPublisher
	eventManager *events.Manager
	keep         int
	log          zerolog.Logger
}

// NewPublishReportsJob creates a new PublishReportsJob
func NewPublishReportsJob(publisher ReportPublisher, eventManager *events.Manager, keep int, log zerolog.Logger) *PublishReportsJob {
	return &PublishReportsJob{
		publisher:    publisher,
		eventManager: eventManager,
		keep:         keep,
		log:          log.With().Str("job", "publish_reports").Logger(),
	}
}

// Name returns the job name
func (j *PublishReportsJob) Name() string {
	return "publish_reports"
}

// Run executes the publish and rotation
func (j *PublishReportsJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	uploaded, err := j.publisher.PublishLatest(ctx)
	if err != nil {
		return fmt.Errorf("failed to publish reports: %w", err)
	}

	deleted, err := j.publisher.Rotate(ctx, j.keep)
	if err != nil {
		return fmt.Errorf("failed to rotate published reports: %w", err)
	}

	j.eventManager.Emit("reliability", &events.ReportsPublishedData{
		Uploaded: uploaded,
		Deleted:  deleted,
	})
	return nil
}

// MaintenanceJob checkpoints database WALs and prunes old reports
type MaintenanceJob struct {
	databases []Checkpointer
	pruner    ReportPruner
	keep      int
	log       zerolog.Logger
}

// NewMaintenanceJob creates a new MaintenanceJob
func NewMaintenanceJob(databases []Checkpointer, pruner ReportPruner, keep int, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		databases: databases,
		pruner:    pruner,
		keep:      keep,
		log:       log.With().Str("job", "maintenance").Logger(),
	}
}

// Name returns the job name
func (j *MaintenanceJob) Name() string {
	return "maintenance"
}

// Run checkpoints every database, then prunes reports. All steps run even if one fails.
func (j *MaintenanceJob) Run() error {
	var errs []error

	for _, db := range j.databases {
		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			j.log.Warn().Err(err).Str("database", db.Name()).Msg("WAL checkpoint failed")
			errs = append(errs, err)
		}
	}

	pruned, err := j.pruner.PruneAll(j.keep)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to prune reports: %w", err))
	}

	j.log.Info().
		Int("databases", len(j.databases)).
		Int64("reports_pruned", pruned).
		Msg("Maintenance completed")

	return errors.Join(errs...)
}
