package vectordb

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jarvis-assistant/backend/internal/entity"
	"go.uber.org/zap"
)

// MockConnector is an in-memory vector store for local development and
// ENABLE_MOCKS mode. Scoring is naive term overlap, which is enough for
// wiring the pipeline end to end without a real index.
type MockConnector struct {
	mu     sync.RWMutex
	chunks map[string]entity.KnowledgeChunk
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		chunks: make(map[string]entity.KnowledgeChunk),
		logger: logger,
	}
}

func (m *MockConnector) Query(ctx context.Context, text string, topK int) ([]entity.RetrievedChunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ctxzap.Info(ctx, "[MOCK] querying vector store", zap.Int("top_k", topK))

	terms := strings.Fields(strings.ToLower(text))

	results := make([]entity.RetrievedChunk, 0, len(m.chunks))
	for _, chunk := range m.chunks {
		score := overlapScore(strings.ToLower(chunk.Content), terms)
		if score > 0 {
			results = append(results, entity.RetrievedChunk{Chunk: chunk, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.ID < results[j].Chunk.ID
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}

	return results, nil
}

func (m *MockConnector) Upsert(ctx context.Context, chunk entity.KnowledgeChunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctxzap.Info(ctx, "[MOCK] upserting chunk", zap.String("chunk_id", chunk.ID))
	m.chunks[chunk.ID] = chunk
	return nil
}

func (m *MockConnector) Delete(ctx context.Context, ids ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctxzap.Info(ctx, "[MOCK] deleting vectors", zap.Int("count", len(ids)))
	for _, id := range ids {
		delete(m.chunks, id)
	}
	return nil
}

func (m *MockConnector) Health(ctx context.Context) error {
	return nil
}

func overlapScore(content string, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}
	hits := 0
	for _, term := range terms {
		if strings.Contains(content, term) {
			hits++
		}
	}
	return float64(hits) / float64(len(terms))
}
