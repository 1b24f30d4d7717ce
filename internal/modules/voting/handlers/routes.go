package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers election routes.
// Patterns are flat so other modules can add routes under /elections/{id}.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/elections", h.HandleImport)
	r.Get("/elections", h.HandleList)
	r.Get("/elections/{id}", h.HandleGet)
	r.Delete("/elections/{id}", h.HandleDelete)
	r.Get("/elections/{id}/tally/qv", h.HandleTallyQV)
	r.Get("/elections/{id}/tally/opov", h.HandleTallyOPOV)
	r.Get("/elections/{id}/intensity", h.HandleIntensity)
	r.Get("/elections/{id}/buried-voices", h.HandleBuriedVoices)
}
