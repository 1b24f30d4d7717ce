package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers allocation statistics routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/inequality", func(r chi.Router) {
		r.Post("/analyze", h.HandleAnalyze)
	})
}
