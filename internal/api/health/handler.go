package health

import (
	"context"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jarvis-assistant/backend/internal/entity"
	"github.com/jarvis-assistant/backend/internal/pkg/response"
	"go.uber.org/zap"
)

// GenerationHealth reports the state of the generation service.
type GenerationHealth interface {
	Health(ctx context.Context) ([]string, error)
	Model() string
}

// RetrievalHealth reports the state of the vector store.
type RetrievalHealth interface {
	Health(ctx context.Context) error
}

type Handler struct {
	generation GenerationHealth
	retrieval  RetrievalHealth
}

func NewHandler(generation GenerationHealth, retrieval RetrievalHealth) *Handler {
	return &Handler{
		generation: generation,
		retrieval:  retrieval,
	}
}

// Check handles GET /health - aggregated state of the external services.
// A reachable server with a broken collaborator reports "degraded" rather
// than failing the request.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	llmStatus := entity.LLMStatus{
		Status:          "healthy",
		ConfiguredModel: h.generation.Model(),
	}
	models, err := h.generation.Health(ctx)
	if err != nil {
		ctxzap.Warn(ctx, "LLM health check failed", zap.Error(err))
		llmStatus.Status = "unhealthy"
		llmStatus.Error = err.Error()
	} else {
		llmStatus.AvailableModels = models
	}

	vectorStatus := "healthy"
	if err := h.retrieval.Health(ctx); err != nil {
		ctxzap.Warn(ctx, "vector store health check failed", zap.Error(err))
		vectorStatus = "unhealthy: " + err.Error()
	}

	overall := "healthy"
	if llmStatus.Status != "healthy" || vectorStatus != "healthy" {
		overall = "degraded"
	}

	response.Success(w, entity.HealthResponse{
		Status:   overall,
		LLM:      llmStatus,
		VectorDB: vectorStatus,
	})
}
