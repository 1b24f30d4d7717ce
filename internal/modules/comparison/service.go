package comparison

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/qvlens/internal/events"
	"github.com/aristath/qvlens/internal/modules/inequality"
	"github.com/aristath/qvlens/internal/modules/voting"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ElectionSource provides elections to compare
type ElectionSource interface {
	Get(id string) (*voting.Election, error)
	List() ([]voting.ElectionInfo, error)
}

// Service builds, stores and serves comparison reports
type Service struct {
	elections    ElectionSource
	repo         *Repository
	analyzer     *inequality.Service
	eventManager *events.Manager
	opts         Options
	log          zerolog.Logger
}

// NewService creates a new comparison service
func NewService(
	elections ElectionSource,
	repo *Repository,
	analyzer *inequality.Service,
	eventManager *events.Manager,
	opts Options,
	log zerolog.Logger,
) *Service {
	return &Service{
		elections:    elections,
		repo:         repo,
		analyzer:     analyzer,
		eventManager: eventManager,
		opts:         opts,
		log:          log.With().Str("service", "comparison").Logger(),
	}
}

// Compare builds a fresh report for an election, stores it and announces it
func (s *Service) Compare(ctx context.Context, electionID string) (*Report, error) {
	election, err := s.elections.Get(electionID)
	if err != nil {
		return nil, err
	}

	report, err := BuildReport(election, s.opts, s.analyzer)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.ID = uuid.New().String()
	report.CreatedAt = time.Now().UTC()
	if err := s.repo.Save(report); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("election_id", electionID).
		Str("report_id", report.ID).
		Float64("qv_gini", report.QV.Summary.Gini).
		Float64("opov_gini", report.OPOV.Summary.Gini).
		Str("more_equal", report.MoreEqual).
		Msg("Comparison computed")

	s.eventManager.Emit("comparison", &events.ReportComputedData{
		ElectionID: electionID,
		ReportID:   report.ID,
		QVGini:     report.QV.Summary.Gini,
		OPOVGini:   report.OPOV.Summary.Gini,
		MoreEqual:  report.MoreEqual,
	})

	return report, nil
}

// RefreshAll recomputes the report of every election. It keeps going past
// individual failures and returns how many succeeded along with the first error.
func (s *Service) RefreshAll(ctx context.Context) (int, error) {
	elections, err := s.elections.List()
	if err != nil {
		return 0, fmt.Errorf("failed to list elections: %w", err)
	}

	var firstErr error
	refreshed := 0
	for _, e := range elections {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}
		if _, err := s.Compare(ctx, e.ID); err != nil {
			s.log.Warn().Err(err).Str("election_id", e.ID).Msg("Failed to refresh report")
			if firstErr == nil {
				firstErr = fmt.Errorf("election %s: %w", e.ID, err)
			}
			continue
		}
		refreshed++
	}
	return refreshed, firstErr
}

// Latest returns the newest stored report of an election
func (s *Service) Latest(electionID string) (*Report, error) {
	return s.repo.Latest(electionID)
}

// Get returns a stored report
func (s *Service) Get(reportID string) (*Report, error) {
	return s.repo.Get(reportID)
}

// LatestReports returns the newest report of every election that has one
func (s *Service) LatestReports() ([]*Report, error) {
	ids, err := s.repo.ElectionIDs()
	if err != nil {
		return nil, err
	}

	reports := make([]*Report, 0, len(ids))
	for _, id := range ids {
		report, err := s.repo.Latest(id)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// ListReports returns an election's stored reports, newest first
func (s *Service) ListReports(electionID string) ([]ReportInfo, error) {
	return s.repo.ListByElection(electionID)
}

// PruneAll trims every election's reports to the newest keep
func (s *Service) PruneAll(keep int) (int64, error) {
	ids, err := s.repo.ElectionIDs()
	if err != nil {
		return 0, err
	}

	var total int64
	for _, id := range ids {
		n, err := s.repo.Prune(id, keep)
		if err != nil {
			return total, err
		}
		total += n
	}
	if total > 0 {
		s.log.Info().Int64("deleted", total).Int("keep", keep).Msg("Pruned old reports")
	}
	return total, nil
}

// SubscribeToEvents drops an election's reports when the election is deleted.
// The returned func unsubscribes.
func (s *Service) SubscribeToEvents(bus *events.Bus) func() {
	return bus.Subscribe(events.ElectionDeleted, func(event *events.Event) {
		data, ok := event.Data.(*events.ElectionDeletedData)
		if !ok {
			return
		}
		n, err := s.repo.DeleteByElection(data.ElectionID)
		if err != nil {
			s.log.Error().Err(err).Str("election_id", data.ElectionID).Msg("Failed to delete reports")
			return
		}
		s.log.Debug().Str("election_id", data.ElectionID).Int64("deleted", n).Msg("Reports deleted with election")
	})
}
