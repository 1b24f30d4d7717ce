package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aristath/qvlens/internal/modules/inequality"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type analyzeResponse struct {
	Data  inequality.Summary `json:"data"`
	Error string             `json:"error"`
}

func setupRouter() *chi.Mux {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(inequality.NewService(log), log)

	router := chi.NewRouter()
	router.Route("/api", handler.RegisterRoutes)
	return router
}

func post(t *testing.T, router http.Handler, body string) (*httptest.ResponseRecorder, analyzeResponse) {
	req := httptest.NewRequest(http.MethodPost, "/api/inequality/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestHandleAnalyze_Entities(t *testing.T) {
	router := setupRouter()

	w, resp := post(t, router, `{"entities":[{"label":"a","amount":1},{"label":"b","amount":3}]}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, resp.Data.Count)
	assert.InDelta(t, 0.25, resp.Data.Gini, 1e-12)
	assert.Equal(t, "a", resp.Data.Shares[0].Label)
	assert.True(t, resp.Data.LorenzSorted)
	assert.Len(t, resp.Data.Lorenz, 3)
}

func TestHandleAnalyze_AmountsUnsorted(t *testing.T) {
	router := setupRouter()

	w, resp := post(t, router, `{"amounts":[3,1],"labels":["big","small"],"sort_ascending":false}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, resp.Data.LorenzSorted)
	assert.InDelta(t, 0.75, resp.Data.Lorenz[1].Allocation, 1e-12)
	assert.Equal(t, "big", resp.Data.Shares[0].Label)
}

func TestHandleAnalyze_InvalidInput(t *testing.T) {
	router := setupRouter()

	tests := []struct {
		name string
		body string
	}{
		{"empty set", `{"amounts":[]}`},
		{"all zero", `{"amounts":[0,0,0]}`},
		{"negative", `{"amounts":[1,-2]}`},
		{"overflowing total", `{"amounts":[1.7e308,1.7e308]}`},
		{"too many labels", `{"amounts":[1],"labels":["a","b"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := post(t, router, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, resp.Error, "invalid allocation input")
		})
	}
}

func TestHandleAnalyze_MalformedBody(t *testing.T) {
	router := setupRouter()

	w, resp := post(t, router, `{"amounts":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", resp.Error)
}
