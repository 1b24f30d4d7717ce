package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aristath/qvlens/internal/events"
	testingpkg "github.com/aristath/qvlens/internal/testing"
	"github.com/aristath/qvlens/internal/modules/comparison"
	"github.com/aristath/qvlens/internal/modules/inequality"
	"github.com/aristath/qvlens/internal/modules/voting"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type staticElections map[string]*voting.Election

func (s staticElections) Get(id string) (*voting.Election, error) {
	if e, ok := s[id]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %s", voting.ErrElectionNotFound, id)
}

func (s staticElections) List() ([]voting.ElectionInfo, error) {
	return nil, nil
}

func setupRouter(t *testing.T) *chi.Mux {
	db := testingpkg.NewMemoryDB(t, "sqlite", "cache")

	elections := staticElections{
		"e1": {
			ID:         "e1",
			Name:       "test",
			Candidates: []voting.Candidate{{Index: 0, Title: "A"}, {Index: 1, Title: "B"}},
			Ballots: []voting.Ballot{
				{ID: "1", VoterID: "v1", Votes: map[int]float64{0: 4, 1: 1}},
				{ID: "2", VoterID: "v2", Votes: map[int]float64{1: 2}},
			},
		},
		"empty": {
			ID:         "empty",
			Candidates: []voting.Candidate{{Index: 0, Title: "A"}},
		},
	}

	log := zerolog.New(nil).Level(zerolog.Disabled)
	service := comparison.NewService(
		elections,
		comparison.NewRepository(db, log),
		inequality.NewService(log),
		events.NewManager(events.NewBus(), log),
		comparison.Options{Budget: 1000, StrongThreshold: 4},
		log,
	)

	router := chi.NewRouter()
	router.Route("/api", NewHandler(service, log).RegisterRoutes)
	return router
}

func decodeReport(t *testing.T, w *httptest.ResponseRecorder) comparison.Report {
	var env struct {
		Data comparison.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Data
}

func TestHandleCompute_ThenLatest(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/elections/e1/comparison", nil))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	computed := decodeReport(t, w)

	assert.NotEmpty(t, computed.ID)
	assert.Equal(t, 1000.0, computed.Budget)
	// QV [4 3] vs OPOV [1 1]
	assert.InDelta(t, 1000.0*4/7, computed.QV.Allocations[0].Amount, 1e-9)
	assert.InDelta(t, 500.0, computed.OPOV.Allocations[0].Amount, 1e-9)
	assert.Equal(t, comparison.MethodOPOV, computed.MoreEqual)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/elections/e1/comparison", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, computed.ID, decodeReport(t, w).ID)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/elections/e1/reports", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), computed.ID)
}

func TestHandleGetReport_Msgpack(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/elections/e1/comparison", nil))
	require.Equal(t, http.StatusCreated, w.Code)
	computed := decodeReport(t, w)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/"+computed.ID, nil)
	req.Header.Set("Accept", "application/msgpack")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/msgpack", w.Header().Get("Content-Type"))

	var report comparison.Report
	require.NoError(t, msgpack.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, computed.ID, report.ID)
	assert.InDelta(t, computed.QV.Summary.Gini, report.QV.Summary.Gini, 1e-12)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reports/"+computed.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestHandleErrors(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"unknown election", http.MethodPost, "/api/elections/missing/comparison", http.StatusNotFound},
		{"no report yet", http.MethodGet, "/api/elections/e1/comparison", http.StatusNotFound},
		{"unknown report", http.MethodGet, "/api/reports/missing", http.StatusNotFound},
		{"election without votes", http.MethodPost, "/api/elections/empty/comparison", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
