package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jarvis-assistant/backend/internal/entity"
	"go.uber.org/zap"
)

// MockConnector is a canned generation client for local development and
// ENABLE_MOCKS mode.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Generate(ctx context.Context, segments []entity.PromptSegment) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating response via LLM", zap.Int("segment_count", len(segments)))

	return m.reply(segments), nil
}

func (m *MockConnector) GenerateStream(ctx context.Context, segments []entity.PromptSegment) (<-chan entity.StreamChunk, error) {
	ctxzap.Info(ctx, "[MOCK] streaming response via LLM", zap.Int("segment_count", len(segments)))

	reply := m.reply(segments)
	out := make(chan entity.StreamChunk, 8)

	go func() {
		defer close(out)
		for _, word := range strings.SplitAfter(reply, " ") {
			select {
			case <-ctx.Done():
				out <- entity.StreamChunk{Done: true, Err: ctx.Err()}
				return
			case out <- entity.StreamChunk{Content: word}:
			}
		}
		out <- entity.StreamChunk{Done: true}
	}()

	return out, nil
}

func (m *MockConnector) Health(ctx context.Context) ([]string, error) {
	return []string{"mock-model"}, nil
}

func (m *MockConnector) Model() string {
	return "mock-model"
}

func (m *MockConnector) reply(segments []entity.PromptSegment) string {
	query := ""
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i].Role == entity.RoleUser {
			query = segments[i].Content
			break
		}
	}
	return fmt.Sprintf("This is a mock reply to: %s", query)
}
