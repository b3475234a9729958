package knowledge

import (
	"context"

	"github.com/jarvis-assistant/backend/internal/entity"
)

type KnowledgeUsecase interface {
	AddDocument(ctx context.Context, req *entity.KnowledgeAddRequest) (*entity.KnowledgeAddResponse, error)
	Search(ctx context.Context, req *entity.KnowledgeSearchRequest) (*entity.KnowledgeSearchResponse, error)
	DeleteDocument(ctx context.Context, docID string) (*entity.KnowledgeDeleteResponse, error)
}
