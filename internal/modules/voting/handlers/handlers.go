// Package handlers provides HTTP handlers for election import and tallies.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/qvlens/internal/modules/voting"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// maxUploadMemory bounds the in-memory part of multipart CSV uploads
const maxUploadMemory = 32 << 20

// Handler handles election HTTP requests
type Handler struct {
	service *voting.Service
	log     zerolog.Logger
}

// NewHandler creates a new voting handler
func NewHandler(service *voting.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "voting").Logger(),
	}
}

// HandleImport handles POST /api/elections
// Accepts an election JSON export, or a multipart form with "votes" and "candidates" CSV files.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var (
		election *voting.Election
		err      error
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		election, err = parseCSVUpload(r)
	} else {
		election, err = voting.ParseElectionJSON(r.Body)
	}
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	imported, err := h.service.Import(r.Context(), r.URL.Query().Get("name"), election)
	if err != nil {
		h.handleServiceError(w, err, "Failed to import election")
		return
	}

	h.writeData(w, http.StatusCreated, infoOf(imported))
}

func parseCSVUpload(r *http.Request) (*voting.Election, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	votesFile, _, err := r.FormFile("votes")
	if err != nil {
		return nil, fmt.Errorf("missing votes file: %w", err)
	}
	defer votesFile.Close()

	candidatesFile, _, err := r.FormFile("candidates")
	if err != nil {
		return nil, fmt.Errorf("missing candidates file: %w", err)
	}
	defer candidatesFile.Close()

	return voting.ParseCSV(votesFile, candidatesFile)
}

// HandleList handles GET /api/elections
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	elections, err := h.service.List()
	if err != nil {
		h.handleServiceError(w, err, "Failed to list elections")
		return
	}
	h.writeData(w, http.StatusOK, elections)
}

// HandleGet handles GET /api/elections/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	election, err := h.service.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "Failed to get election")
		return
	}
	h.writeData(w, http.StatusOK, election)
}

// HandleDelete handles DELETE /api/elections/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, err, "Failed to delete election")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTallyQV handles GET /api/elections/{id}/tally/qv
func (h *Handler) HandleTallyQV(w http.ResponseWriter, r *http.Request) {
	tally, err := h.service.TallyQV(chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "Failed to tally election")
		return
	}
	h.writeData(w, http.StatusOK, tally)
}

// HandleTallyOPOV handles GET /api/elections/{id}/tally/opov
func (h *Handler) HandleTallyOPOV(w http.ResponseWriter, r *http.Request) {
	tally, err := h.service.TallyOPOV(chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "Failed to tally election")
		return
	}
	h.writeData(w, http.StatusOK, tally)
}

// HandleIntensity handles GET /api/elections/{id}/intensity
func (h *Handler) HandleIntensity(w http.ResponseWriter, r *http.Request) {
	intensity, err := h.service.Intensity(chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "Failed to compute intensity")
		return
	}
	h.writeData(w, http.StatusOK, intensity)
}

// HandleBuriedVoices handles GET /api/elections/{id}/buried-voices?threshold=
func (h *Handler) HandleBuriedVoices(w http.ResponseWriter, r *http.Request) {
	threshold := 0.0
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, "threshold must be a positive number")
			return
		}
		threshold = parsed
	}

	buried, err := h.service.BuriedVoices(chi.URLParam(r, "id"), threshold)
	if err != nil {
		h.handleServiceError(w, err, "Failed to compute buried voices")
		return
	}
	h.writeData(w, http.StatusOK, buried)
}

func infoOf(e *voting.Election) voting.ElectionInfo {
	return voting.ElectionInfo{
		ID:         e.ID,
		Name:       e.Name,
		Candidates: len(e.Candidates),
		Ballots:    len(e.Ballots),
		CreatedAt:  e.CreatedAt,
	}
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, voting.ErrElectionNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, voting.ErrInvalidElection), errors.Is(err, voting.ErrInvalidBallot):
		h.writeError(w, http.StatusBadRequest, err.Error())
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
