package chat

import (
	"context"

	"github.com/jarvis-assistant/backend/internal/entity"
)

type ChatUsecase interface {
	Respond(ctx context.Context, req *entity.ChatRequest) (*entity.ChatResult, error)
	RespondStream(ctx context.Context, req *entity.ChatRequest) (<-chan entity.StreamChunk, error)
}
