package knowledge

import (
	"context"

	"github.com/jarvis-assistant/backend/internal/entity"
)

// VectorStore is the external knowledge index. All methods may fail with
// entity.ErrRetrievalUnavailable.
type VectorStore interface {
	Query(ctx context.Context, text string, topK int) ([]entity.RetrievedChunk, error)
	Upsert(ctx context.Context, chunk entity.KnowledgeChunk) error
	Delete(ctx context.Context, ids ...string) error
}
