// Package knowledge implements knowledge-base management: document
// ingestion with chunking, similarity search and deletion. The documents
// themselves live in the external vector store; this layer only shapes
// and forwards them.
package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jarvis-assistant/backend/internal/entity"
	"github.com/jarvis-assistant/backend/internal/pkg/chunker"
	"github.com/jarvis-assistant/backend/internal/pkg/validator"
	"go.uber.org/zap"
)

const defaultSearchTopK = 5

type Usecase struct {
	store     VectorStore
	chunker   *chunker.Chunker
	validator *validator.Validator
	logger    *zap.Logger
}

func NewUsecase(
	store VectorStore,
	chunker *chunker.Chunker,
	validator *validator.Validator,
	logger *zap.Logger,
) *Usecase {
	return &Usecase{
		store:     store,
		chunker:   chunker,
		validator: validator,
		logger:    logger,
	}
}

// AddDocument ingests one document. With Chunk set the content is split
// into overlapping pieces indexed as "{doc_id}_chunk_{i}"; otherwise the
// document is stored whole under its own id.
func (uc *Usecase) AddDocument(ctx context.Context, req *entity.KnowledgeAddRequest) (*entity.KnowledgeAddResponse, error) {
	if err := uc.validator.ValidateKnowledgeAdd(req); err != nil {
		return nil, err
	}

	docID := strings.TrimSpace(req.DocID)
	if docID == "" {
		docID = uuid.New().String()
	}

	var pieces []string
	if req.Chunk {
		pieces = uc.chunker.Split(req.Content)
	} else {
		pieces = []string{strings.TrimSpace(req.Content)}
	}
	if len(pieces) == 0 {
		return nil, entity.ErrEmptyDocument
	}

	ctxzap.Info(ctx, "ingesting document",
		zap.String("doc_id", docID),
		zap.Int("chunk_count", len(pieces)),
	)

	for i, piece := range pieces {
		chunkID := docID
		if len(pieces) > 1 {
			chunkID = fmt.Sprintf("%s_chunk_%d", docID, i)
		}

		metadata := make(map[string]any, len(req.Metadata)+3)
		for k, v := range req.Metadata {
			metadata[k] = v
		}
		metadata["parent_doc_id"] = docID
		metadata["chunk_index"] = i
		metadata["total_chunks"] = len(pieces)

		chunk := entity.KnowledgeChunk{
			ID:       chunkID,
			Content:  piece,
			Metadata: metadata,
		}

		if err := uc.store.Upsert(ctx, chunk); err != nil {
			return nil, fmt.Errorf("upsert chunk %d of %d: %w", i+1, len(pieces), err)
		}
	}

	ctxzap.Info(ctx, "document ingested", zap.String("doc_id", docID))

	return &entity.KnowledgeAddResponse{
		Status:        "success",
		DocID:         docID,
		ChunksCreated: len(pieces),
	}, nil
}

// Search runs a similarity query against the knowledge base.
func (uc *Usecase) Search(ctx context.Context, req *entity.KnowledgeSearchRequest) (*entity.KnowledgeSearchResponse, error) {
	if err := uc.validator.ValidateKnowledgeSearch(req); err != nil {
		return nil, err
	}

	topK := req.TopK
	if topK == 0 {
		topK = defaultSearchTopK
	}

	chunks, err := uc.store.Query(ctx, req.Query, topK)
	if err != nil {
		return nil, fmt.Errorf("search knowledge: %w", err)
	}

	results := make([]entity.KnowledgeSearchResult, 0, len(chunks))
	for _, rc := range chunks {
		results = append(results, entity.KnowledgeSearchResult{
			ID:       rc.Chunk.ID,
			Score:    rc.Score,
			Text:     rc.Chunk.Content,
			Metadata: rc.Chunk.Metadata,
		})
	}

	return &entity.KnowledgeSearchResponse{
		Status:  "success",
		Query:   req.Query,
		Results: results,
	}, nil
}

// DeleteDocument removes a document (or one chunk) by id.
func (uc *Usecase) DeleteDocument(ctx context.Context, docID string) (*entity.KnowledgeDeleteResponse, error) {
	if err := uc.validator.ValidateKnowledgeDelete(docID); err != nil {
		return nil, err
	}

	if err := uc.store.Delete(ctx, docID); err != nil {
		return nil, fmt.Errorf("delete document: %w", err)
	}

	ctxzap.Info(ctx, "document deleted", zap.String("doc_id", docID))

	return &entity.KnowledgeDeleteResponse{
		Status: "deleted",
		DocID:  docID,
	}, nil
}
