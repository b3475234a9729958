package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the synchronous chat route
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/chat", h.Chat)
}

// RegisterStreamRoutes registers the streaming chat route. Kept separate so
// the router can exempt it from the global request timeout.
func RegisterStreamRoutes(r chi.Router, h *Handler) {
	r.Post("/chat/stream", h.ChatStream)
}
