package di

import (
	"fmt"
	"path/filepath"

	"github.com/aristath/qvlens/internal/config"
	"github.com/aristath/qvlens/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens both databases and applies their schemas
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{Config: cfg}

	// 1. elections.db - imported ballots, the source of truth
	electionsDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "elections.db"),
		Profile: database.ProfileStandard,
		Name:    "elections",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize elections database: %w", err)
	}
	container.ElectionsDB = electionsDB

	// 2. cache.db - comparison reports, can be recomputed from elections.db
	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		electionsDB.Close()
		return nil, fmt.Errorf("failed to initialize cache database: %w", err)
	}
	container.CacheDB = cacheDB

	for _, db := range container.Databases() {
		if err := db.Migrate(); err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to migrate %s database: %w", db.Name(), err)
		}
	}

	log.Info().Str("data_dir", cfg.DataDir).Msg("Databases initialized")
	return container, nil
}
