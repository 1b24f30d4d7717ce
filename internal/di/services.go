package di

import (
	"fmt"

	"github.com/aristath/qvlens/internal/config"
	"github.com/aristath/qvlens/internal/events"
	"github.com/aristath/qvlens/internal/modules/comparison"
	"github.com/aristath/qvlens/internal/modules/inequality"
	"github.com/aristath/qvlens/internal/modules/voting"
	"github.com/aristath/qvlens/internal/reliability"
	"github.com/rs/zerolog"
)

// InitializeRepositories creates repositories on top of the open databases
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	if container.ElectionsDB == nil || container.CacheDB == nil {
		return fmt.Errorf("databases must be initialized first")
	}

	container.VotingRepo = voting.NewRepository(container.ElectionsDB.Conn(), log)
	container.ComparisonRepo = comparison.NewRepository(container.CacheDB.Conn(), log)
	return nil
}

// InitializeServices creates the event bus, domain services and the optional R2 publisher
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	container.EventBus = events.NewBus()
	container.EventManager = events.NewManager(container.EventBus, log)

	container.InequalityService = inequality.NewService(log)
	container.VotingService = voting.NewService(
		container.VotingRepo,
		container.EventManager,
		voting.Settings{
			StrongThreshold: cfg.Analysis.StrongThreshold,
			MaxIntensity:    cfg.Analysis.MaxIntensity,
		},
		log,
	)
	container.ComparisonService = comparison.NewService(
		container.VotingService,
		container.ComparisonRepo,
		container.InequalityService,
		container.EventManager,
		comparison.Options{
			Budget:          cfg.Analysis.TotalBudget,
			StrongThreshold: cfg.Analysis.StrongThreshold,
		},
		log,
	)
	container.unsubscribers = append(container.unsubscribers,
		container.ComparisonService.SubscribeToEvents(container.EventBus))

	if cfg.R2.Enabled() {
		r2Client, err := reliability.NewR2Client(
			cfg.R2.AccountID,
			cfg.R2.AccessKeyID,
			cfg.R2.SecretAccessKey,
			cfg.R2.BucketName,
			log,
		)
		if err != nil {
			return fmt.Errorf("failed to create R2 client: %w", err)
		}
		container.R2Client = r2Client
		container.ReportPublisher = reliability.NewReportPublisher(r2Client, container.ComparisonService, log)
		log.Info().Str("bucket", cfg.R2.BucketName).Msg("R2 report publishing enabled")
	} else {
		log.Info().Msg("R2 not configured, report publishing disabled")
	}

	return nil
}
