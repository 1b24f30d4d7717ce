package voting

import (
	"database/sql"
	"testing"

	"github.com/aristath/qvlens/internal/events"
	testingpkg "github.com/aristath/qvlens/internal/testing"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// sampleElection has a duplicate voter (v1), a tied ballot (v2) and a ballot without positive votes (v4)
func sampleElection() *Election {
	return &Election{
		Name: "sample",
		Candidates: []Candidate{
			{Index: 0, Title: "ユースセンター", TitleEN: "Youth Center"},
			{Index: 1, Title: "Rice Field"},
			{Index: 2, Title: "Art Center"},
		},
		Ballots: []Ballot{
			{ID: "b1", VoterID: "v1", Votes: map[int]float64{0: 3, 1: 1}},
			{ID: "b2", VoterID: "v2", Votes: map[int]float64{0: 2, 2: 2}},
			{ID: "b3", VoterID: "v3", Votes: map[int]float64{1: 5, 2: 4}},
			{ID: "b4", VoterID: "v4", Votes: map[int]float64{0: -1, 1: 0}},
			{ID: "b5", VoterID: "v1", Votes: map[int]float64{0: 4, 2: 1}},
		},
	}
}

// dedupedSample is sampleElection after keeping each voter's last ballot
func dedupedSample() *Election {
	e := sampleElection()
	e.Ballots, _ = DeduplicateBallots(e.Ballots)
	return e
}

func setupTestDB(t *testing.T) *sql.DB {
	return testingpkg.NewMemoryDB(t, "sqlite3", "elections")
}

func newTestService(t *testing.T) (*Service, *events.Bus) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	bus := events.NewBus()
	repo := NewRepository(setupTestDB(t), log)
	settings := Settings{StrongThreshold: 4, MaxIntensity: 9}
	return NewService(repo, events.NewManager(bus, log), settings, log), bus
}
