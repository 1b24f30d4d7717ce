package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers comparison and report routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/elections/{id}/comparison", h.HandleCompute)
	r.Get("/elections/{id}/comparison", h.HandleLatest)
	r.Get("/elections/{id}/reports", h.HandleListReports)
	r.Get("/reports/{reportID}", h.HandleGetReport)
}
