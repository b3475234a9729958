// Package embedding integrates the embeddings endpoint of the local
// inference daemon. Results are cached by input text since retrieval and
// ingestion frequently re-embed identical strings.
package embedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jarvis-assistant/backend/internal/config"
	"github.com/jarvis-assistant/backend/internal/entity"
	"github.com/jarvis-assistant/backend/internal/integration/common"
	pkghttp "github.com/jarvis-assistant/backend/pkg/http"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.EmbeddingConnectorConfig
	connector *pkghttp.Connector
	cache     *gocache.Cache
	logger    *zap.Logger
}

func NewConnector(
	cfg config.EmbeddingConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger, pkghttp.WithAuthToken(cfg.Token)),
		config:    cfg,
		cache:     gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		logger:    logger,
	}
}

// Embed returns the vector for the given text.
func (c *Connector) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.config.Model + "\x00" + text
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]float32), nil
	}

	req := entity.EmbeddingRequest{
		Model:  c.config.Model,
		Prompt: text,
	}

	var resp entity.EmbeddingResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.EmbedEndpoint, &req, &resp); err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}

	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("embedding service returned empty vector")
	}

	ctxzap.Debug(ctx, "text embedded",
		zap.Int("text_length", len(text)),
		zap.Int("dimension", len(resp.Embedding)),
	)

	c.cache.Set(key, resp.Embedding, gocache.DefaultExpiration)

	return resp.Embedding, nil
}
