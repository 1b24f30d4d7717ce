// Package handlers provides HTTP handlers for comparison reports.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aristath/qvlens/internal/modules/comparison"
	"github.com/aristath/qvlens/internal/modules/inequality"
	"github.com/aristath/qvlens/internal/modules/voting"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

const contentTypeMsgpack = "application/msgpack"

// Handler handles comparison HTTP requests
type Handler struct {
	service *comparison.Service
	log     zerolog.Logger
}

// NewHandler creates a new comparison handler
func NewHandler(service *comparison.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "comparison").Logger(),
	}
}

// HandleCompute handles POST /api/elections/{id}/comparison
func (h *Handler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Compare(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "Failed to compute comparison")
		return
	}
	h.writeReport(w, r, http.StatusCreated, report)
}

// HandleLatest handles GET /api/elections/{id}/comparison
func (h *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Latest(chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "Failed to get comparison")
		return
	}
	h.writeReport(w, r, http.StatusOK, report)
}

// HandleListReports handles GET /api/elections/{id}/reports
func (h *Handler) HandleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.ListReports(chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "Failed to list reports")
		return
	}
	h.writeData(w, http.StatusOK, reports)
}

// HandleGetReport handles GET /api/reports/{reportID}
func (h *Handler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Get(chi.URLParam(r, "reportID"))
	if err != nil {
		h.handleServiceError(w, err, "Failed to get report")
		return
	}
	h.writeReport(w, r, http.StatusOK, report)
}

// writeReport answers in msgpack when the client asks for it, JSON otherwise
func (h *Handler) writeReport(w http.ResponseWriter, r *http.Request, status int, report *comparison.Report) {
	if !strings.Contains(r.Header.Get("Accept"), contentTypeMsgpack) {
		h.writeData(w, status, report)
		return
	}

	payload, err := msgpack.Marshal(report)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to encode msgpack response")
		h.writeError(w, http.StatusInternalServerError, "Failed to encode report")
		return
	}

	w.Header().Set("Content-Type", contentTypeMsgpack)
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		h.log.Error().Err(err).Msg("Failed to write msgpack response")
	}
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, voting.ErrElectionNotFound), errors.Is(err, comparison.ErrReportNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, inequality.ErrInvalidInput):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.Error().Err(err).Msg(message)
		h.writeError(w, http.StatusInternalServerError, message)
	}
}

func (h *Handler) writeData(w http.ResponseWriter, status int, data interface{}) {
	h.writeJSON(w, status, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
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
