package chat

import (
	"context"

	"github.com/jarvis-assistant/backend/internal/entity"
)

// RetrievalClient fetches semantically relevant chunks from the knowledge
// base. Failures surface as entity.ErrRetrievalUnavailable.
type RetrievalClient interface {
	Query(ctx context.Context, text string, topK int) ([]entity.RetrievedChunk, error)
}

// GenerationClient produces replies from an assembled prompt. Failures
// surface as entity.ErrGenerationUnavailable or entity.ErrGenerationTimeout.
type GenerationClient interface {
	Generate(ctx context.Context, segments []entity.PromptSegment) (string, error)
	GenerateStream(ctx context.Context, segments []entity.PromptSegment) (<-chan entity.StreamChunk, error)
}
