// Package vectordb integrates the managed vector-database REST API. The
// connector embeds query/document text through the embedding client and
// speaks the index's upsert/query/delete endpoints.
package vectordb

import (
	"context"
	"fmt"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jarvis-assistant/backend/internal/config"
	"github.com/jarvis-assistant/backend/internal/entity"
	"github.com/jarvis-assistant/backend/internal/integration/common"
	pkgretry "github.com/jarvis-assistant/backend/internal/pkg/retry"
	pkghttp "github.com/jarvis-assistant/backend/pkg/http"
	"go.uber.org/zap"
)

// EmbeddingClient turns text into a fixed-dimension vector.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Connector struct {
	config    config.VectorConnectorConfig
	connector *pkghttp.Connector
	embedder  EmbeddingClient
	logger    *zap.Logger
}

func NewConnector(
	cfg config.VectorConnectorConfig,
	embedder EmbeddingClient,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger,
			pkghttp.WithAPIKeyHeader(cfg.APIKeyHeader, cfg.Token)),
		config:   cfg,
		embedder: embedder,
		logger:   logger,
	}
}

// Query embeds the text and returns up to topK matches ordered by
// descending score. Any failure maps to ErrRetrievalUnavailable.
func (c *Connector) Query(ctx context.Context, text string, topK int) ([]entity.RetrievedChunk, error) {
	vector, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrRetrievalUnavailable, err)
	}

	req := entity.VectorQueryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
	}

	var resp entity.VectorQueryResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.QueryEndpoint, &req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrRetrievalUnavailable, err)
	}

	chunks := make([]entity.RetrievedChunk, 0, len(resp.Matches))
	for _, match := range resp.Matches {
		content, _ := match.Metadata["text"].(string)
		chunks = append(chunks, entity.RetrievedChunk{
			Chunk: entity.KnowledgeChunk{
				ID:       match.ID,
				Content:  content,
				Metadata: match.Metadata,
			},
			Score: match.Score,
		})
	}

	ctxzap.Debug(ctx, "retrieval query completed",
		zap.Int("top_k", topK),
		zap.Int("match_count", len(chunks)),
	)

	return chunks, nil
}

// Upsert stores the chunk with its embedding. The chunk text rides along
// in the vector metadata so query results carry it back.
func (c *Connector) Upsert(ctx context.Context, chunk entity.KnowledgeChunk) error {
	vector := chunk.Embedding
	if len(vector) == 0 {
		var err error
		vector, err = c.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			return fmt.Errorf("%w: %v", entity.ErrRetrievalUnavailable, err)
		}
	}

	metadata := map[string]any{"text": chunk.Content}
	for k, v := range chunk.Metadata {
		metadata[k] = v
	}

	req := entity.VectorUpsertRequest{
		Vectors: []entity.VectorRecord{{
			ID:       chunk.ID,
			Values:   vector,
			Metadata: metadata,
		}},
	}

	err := pkgretry.Do(ctx, c.config.Retry, func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.UpsertEndpoint, &req, nil)
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to upsert chunk", zap.String("chunk_id", chunk.ID), zap.Error(err))
		return fmt.Errorf("%w: %v", entity.ErrRetrievalUnavailable, err)
	}

	ctxzap.Info(ctx, "chunk upserted", zap.String("chunk_id", chunk.ID))
	return nil
}

// Delete removes the vectors with the given ids.
func (c *Connector) Delete(ctx context.Context, ids ...string) error {
	req := entity.VectorDeleteRequest{IDs: ids}

	err := pkgretry.Do(ctx, c.config.Retry, func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.DeleteEndpoint, &req, nil)
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to delete vectors", zap.Strings("ids", ids), zap.Error(err))
		return fmt.Errorf("%w: %v", entity.ErrRetrievalUnavailable, err)
	}

	ctxzap.Info(ctx, "vectors deleted", zap.Int("count", len(ids)))
	return nil
}

// Health checks the index is reachable.
func (c *Connector) Health(ctx context.Context) error {
	var resp entity.VectorStatsResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.StatsEndpoint, nil, &resp); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrRetrievalUnavailable, err)
	}
	return nil
}
