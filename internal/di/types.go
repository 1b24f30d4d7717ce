// Package di provides dependency injection wiring and initialization.
package di

import (
	"github.com/aristath/qvlens/internal/config"
	"github.com/aristath/qvlens/internal/database"
	"github.com/aristath/qvlens/internal/events"
	"github.com/aristath/qvlens/internal/modules/comparison"
	"github.com/aristath/qvlens/internal/modules/inequality"
	"github.com/aristath/qvlens/internal/modules/voting"
	"github.com/aristath/qvlens/internal/reliability"
	"github.com/aristath/qvlens/internal/scheduler"
)

// Container holds all dependencies
// This is passed to the server and other components
type Container struct {
	Config *config.Config

	// Databases
	ElectionsDB *database.DB // imported ballots
	CacheDB     *database.DB // computed reports

	// Events
	EventBus     *events.Bus
	EventManager *events.Manager

	// Repositories
	VotingRepo     *voting.Repository
	ComparisonRepo *comparison.Repository

	// Services
	InequalityService *inequality.Service
	VotingService     *voting.Service
	ComparisonService *comparison.Service

	// Reliability (nil when R2 is not configured)
	R2Client        *reliability.R2Client
	ReportPublisher *reliability.ReportPublisher

	// Jobs
	Scheduler *scheduler.Scheduler
	Jobs      *JobInstances

	unsubscribers []func()
}

// JobInstances holds the background jobs. PublishReports is nil when R2 is not configured.
type JobInstances struct {
	RefreshReports *scheduler.RefreshReportsJob
	PublishReports *scheduler.PublishReportsJob
	Maintenance    *scheduler.MaintenanceJob
}

// Databases returns every open database
func (c *Container) Databases() []*database.DB {
	var dbs []*database.DB
	for _, db := range []*database.DB{c.ElectionsDB, c.CacheDB} {
		if db != nil {
			dbs = append(dbs, db)
		}
	}
	return dbs
}

// Close releases event subscriptions and closes the databases
func (c *Container) Close() error {
	for _, unsubscribe := range c.unsubscribers {
		unsubscribe()
	}
	c.unsubscribers = nil

	var firstErr error
	for _, db := range c.Databases() {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
