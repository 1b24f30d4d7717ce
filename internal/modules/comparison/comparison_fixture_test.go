package comparison

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/aristath/qvlens/internal/events"
	testingpkg "github.com/aristath/qvlens/internal/testing"
	"github.com/aristath/qvlens/internal/modules/inequality"
	"github.com/aristath/qvlens/internal/modules/voting"
	"github.com/rs/zerolog"
)

var testOptions = Options{Budget: 250000, StrongThreshold: 4}

// sampleElection tallies to QV [6 5 7] and OPOV [1.5 1 0.5]
func sampleElection() *voting.Election {
	return &voting.Election{
		ID:   "e1",
		Name: "sample",
		Candidates: []voting.Candidate{
			{Index: 0, Title: "Youth Center"},
			{Index: 1, Title: "Rice Field"},
			{Index: 2, Title: "Art Center"},
		},
		Ballots: []voting.Ballot{
			{ID: "b2", VoterID: "v2", Votes: map[int]float64{0: 2, 2: 2}},
			{ID: "b3", VoterID: "v3", Votes: map[int]float64{1: 5, 2: 4}},
			{ID: "b4", VoterID: "v4", Votes: map[int]float64{0: -1, 1: 0}},
			{ID: "b5", VoterID: "v1", Votes: map[int]float64{0: 4, 2: 1}},
		},
	}
}

type fakeElections map[string]*voting.Election

func (f fakeElections) Get(id string) (*voting.Election, error) {
	e, ok := f[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", voting.ErrElectionNotFound, id)
	}
	return e, nil
}

func (f fakeElections) List() ([]voting.ElectionInfo, error) {
	infos := make([]voting.ElectionInfo, 0, len(f))
	for id, e := range f {
		infos = append(infos, voting.ElectionInfo{ID: id, Name: e.Name})
	}
	return infos, nil
}

func setupTestDB(t *testing.T) *sql.DB {
	return testingpkg.NewMemoryDB(t, "sqlite", "cache")
}

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func newTestService(t *testing.T, elections fakeElections) (*Service, *Repository, *events.Bus) {
	log := testLogger()
	bus := events.NewBus()
	repo := NewRepository(setupTestDB(t), log)
	service := NewService(elections, repo, inequality.NewService(log), events.NewManager(bus, log), testOptions, log)
	return service, repo, bus
}
