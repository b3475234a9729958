package knowledge

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers knowledge-base routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/knowledge", func(r chi.Router) {
		r.Post("/add", h.Add)
		r.Post("/search", h.Search)
		r.Delete("/{doc_id}", h.Delete)
	})
}
