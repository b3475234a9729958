package embedding

import (
	"context"
	"hash/fnv"

	"go.uber.org/zap"
)

const mockDimension = 8

// MockConnector produces deterministic pseudo-embeddings so the mock stack
// behaves consistently across calls.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, mockDimension)
	h := fnv.New32a()
	for i := range vec {
		h.Write([]byte(text))
		h.Write([]byte{byte(i)})
		vec[i] = float32(h.Sum32()%1000) / 1000
	}
	return vec, nil
}
