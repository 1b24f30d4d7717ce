// Package handlers provides HTTP handlers for allocation statistics.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aristath/qvlens/internal/modules/inequality"
	"github.com/rs/zerolog"
)

// AnalyzeRequest is the body of POST /api/inequality/analyze.
// Either Entities or Amounts (with optional Labels) must be provided.
type AnalyzeRequest struct {
	Entities      []inequality.Entity `json:"entities,omitempty"`
	Amounts       []float64           `json:"amounts,omitempty"`
	Labels        []string            `json:"labels,omitempty"`
	SortAscending *bool               `json:"sort_ascending,omitempty"`
}

// Handler handles allocation statistics HTTP requests
type Handler struct {
	service *inequality.Service
	log     zerolog.Logger
}

// NewHandler creates a new inequality handler
func NewHandler(service *inequality.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "inequality").Logger(),
	}
}

// HandleAnalyze handles POST /api/inequality/analyze
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set, err := req.allocationSet()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sortAscending := true
	if req.SortAscending != nil {
		sortAscending = *req.SortAscending
	}

	summary, err := h.service.Analyze(set, sortAscending)
	if err != nil {
		if errors.Is(err, inequality.ErrInvalidInput) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Failed to analyze allocation")
		h.writeError(w, http.StatusInternalServerError, "Failed to analyze allocation")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": summary,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (req AnalyzeRequest) allocationSet() (inequality.AllocationSet, error) {
	if len(req.Entities) > 0 {
		return inequality.AllocationSet{Entities: req.Entities}, nil
	}
	return inequality.NewAllocationSet(req.Labels, req.Amounts)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
