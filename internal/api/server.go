package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	chatapi "github.com/jarvis-assistant/backend/internal/api/chat"
	"github.com/jarvis-assistant/backend/internal/api/docs"
	healthapi "github.com/jarvis-assistant/backend/internal/api/health"
	knowledgeapi "github.com/jarvis-assistant/backend/internal/api/knowledge"
	"github.com/jarvis-assistant/backend/internal/api/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	chatHandler *chatapi.Handler,
	knowledgeHandler *knowledgeapi.Handler,
	healthHandler *healthapi.Handler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)   // Recover from panics
	r.Use(chimiddleware.RequestID)   // Add request ID
	r.Use(middleware.Logger(logger)) // Log requests
	r.Use(middleware.CORS)           // Handle CORS

	// Root endpoint with welcome message
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"Welcome to Jarvis AI Assistant","docs":"/docs","health":"/health"}`))
	})

	// Health check endpoint
	r.Get("/health", healthHandler.Check)

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Bounded request/response endpoints
	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(120 * time.Second))
		chatapi.RegisterRoutes(r, chatHandler)
		knowledgeapi.RegisterRoutes(r, knowledgeHandler)
	})

	// The streaming endpoint carries no router-level timeout: the reply
	// length is bounded by the generation service and the client's
	// connection, and a timeout here would cut replies mid-stream.
	chatapi.RegisterStreamRoutes(r, chatHandler)

	return r
}
