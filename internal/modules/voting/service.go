package voting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aristath/qvlens/internal/events"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Settings are the analysis defaults applied when a caller does not override them
type Settings struct {
	StrongThreshold float64
	MaxIntensity    int
}

// Service imports elections and exposes their tallies
type Service struct {
	repo         *Repository
	eventManager *events.Manager
	settings     Settings
	log          zerolog.Logger
}

// NewService creates a new voting service
func NewService(repo *Repository, eventManager *events.Manager, settings Settings, log zerolog.Logger) *Service {
	return &Service{
		repo:         repo,
		eventManager: eventManager,
		settings:     settings,
		log:          log.With().Str("service", "voting").Logger(),
	}
}

// Settings returns the configured analysis defaults
func (s *Service) Settings() Settings {
	return s.settings
}

// Import validates and deduplicates e, assigns it an ID and stores it.
// Only the last ballot of each voter is kept.
func (s *Service) Import(ctx context.Context, name string, e *Election) (*Election, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ballots, removed := DeduplicateBallots(e.Ballots)
	imported := &Election{
		ID:         uuid.New().String(),
		Name:       strings.TrimSpace(name),
		Candidates: e.Candidates,
		Ballots:    ballots,
		CreatedAt:  time.Now().UTC(),
	}
	if imported.Name == "" {
		imported.Name = fmt.Sprintf("election-%s", imported.CreatedAt.Format("20060102-150405"))
	}

	if err := s.repo.Create(imported); err != nil {
		return nil, fmt.Errorf("failed to store election: %w", err)
	}

	s.log.Info().
		Str("election_id", imported.ID).
		Str("name", imported.Name).
		Int("ballots", len(ballots)).
		Int("duplicates_removed", removed).
		Msg("Election imported")

	s.eventManager.Emit("voting", &events.ElectionImportedData{
		ElectionID:        imported.ID,
		Name:              imported.Name,
		Candidates:        len(imported.Candidates),
		Ballots:           len(ballots),
		DuplicatesRemoved: removed,
	})

	return imported, nil
}

// Get returns a stored election
func (s *Service) Get(id string) (*Election, error) {
	return s.repo.Get(id)
}

// List returns all stored elections
func (s *Service) List() ([]ElectionInfo, error) {
	return s.repo.List()
}

// Delete removes an election and announces it so derived reports can be dropped
func (s *Service) Delete(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.log.Info().Str("election_id", id).Msg("Election deleted")
	s.eventManager.Emit("voting", &events.ElectionDeletedData{ElectionID: id})
	return nil
}

// TallyQV returns the quadratic voting totals of an election
func (s *Service) TallyQV(id string) ([]CandidateVotes, error) {
	e, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}
	return TallyQV(e), nil
}

// TallyOPOV returns the simulated one-person-one-vote totals of an election
func (s *Service) TallyOPOV(id string) ([]CandidateVotes, error) {
	e, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}
	return TallyOPOV(e), nil
}

// Intensity returns the vote-value distribution of an election
func (s *Service) Intensity(id string) (*Intensity, error) {
	e, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}
	return IntensityDistribution(e, s.settings.MaxIntensity)
}

// BuriedVoices returns buried strong preferences. A threshold <= 0 uses the configured default.
func (s *Service) BuriedVoices(id string, threshold float64) ([]BuriedVoice, error) {
	if threshold <= 0 {
		threshold = s.settings.StrongThreshold
	}
	e, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}
	return BuriedVoices(e, threshold), nil
}
