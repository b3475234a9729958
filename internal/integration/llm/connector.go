// Package llm integrates the Ollama-compatible generation service.
package llm

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jarvis-assistant/backend/internal/config"
	"github.com/jarvis-assistant/backend/internal/entity"
	"github.com/jarvis-assistant/backend/internal/integration/common"
	pkghttp "github.com/jarvis-assistant/backend/pkg/http"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger, pkghttp.WithAuthToken(cfg.Token)),
		config:    cfg,
		logger:    logger,
	}
}

// Generate produces a complete reply for the assembled prompt.
func (c *Connector) Generate(ctx context.Context, segments []entity.PromptSegment) (string, error) {
	prompt := renderPrompt(segments)

	ctxzap.Info(ctx, "generating response via LLM service",
		zap.String("model", c.config.Model),
		zap.Int("prompt_length", len(prompt)),
	)

	req := entity.LLMGenerateRequest{
		Model:  c.config.Model,
		Prompt: prompt,
		Stream: false,
	}

	var resp entity.LLMGenerateResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.GenerateEndpoint, &req, &resp); err != nil {
		return "", mapGenerationError(err)
	}

	if resp.Response == "" {
		return "", fmt.Errorf("%w: empty generation response", entity.ErrGenerationUnavailable)
	}

	ctxzap.Info(ctx, "response generated successfully", zap.Int("response_length", len(resp.Response)))

	return resp.Response, nil
}

// GenerateStream produces an ordered stream of reply chunks. The returned
// channel is closed after the final chunk; cancelling ctx aborts the
// upstream call and releases the connection.
func (c *Connector) GenerateStream(ctx context.Context, segments []entity.PromptSegment) (<-chan entity.StreamChunk, error) {
	prompt := renderPrompt(segments)

	ctxzap.Info(ctx, "starting streaming generation via LLM service",
		zap.String("model", c.config.Model),
		zap.Int("prompt_length", len(prompt)),
	)

	req := entity.LLMGenerateRequest{
		Model:  c.config.Model,
		Prompt: prompt,
		Stream: true,
	}

	body, err := c.connector.DoStreamRequest(ctx, http.MethodPost, c.config.GenerateEndpoint, &req)
	if err != nil {
		return nil, mapGenerationError(err)
	}

	out := make(chan entity.StreamChunk, 16)

	go func() {
		defer close(out)
		defer body.Close()

		// Every send races ctx cancellation: a consumer that has gone away
		// must not strand this goroutine on a full channel, or the response
		// body would never be closed and the connection would leak.
		emit := func(chunk entity.StreamChunk) bool {
			select {
			case out <- chunk:
				return true
			case <-ctx.Done():
				return false
			}
		}

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			if ctx.Err() != nil {
				emit(entity.StreamChunk{Done: true, Err: mapGenerationError(ctx.Err())})
				return
			}

			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var chunk entity.LLMGenerateResponse
			if err := json.Unmarshal(line, &chunk); err != nil {
				continue // skip malformed lines
			}

			if chunk.Response != "" {
				if !emit(entity.StreamChunk{Content: chunk.Response}) {
					return
				}
			}

			if chunk.Done {
				emit(entity.StreamChunk{Done: true})
				return
			}
		}

		if err := scanner.Err(); err != nil {
			emit(entity.StreamChunk{Done: true, Err: mapGenerationError(err)})
			return
		}

		// Upstream closed without a terminal frame
		emit(entity.StreamChunk{Done: true, Err: fmt.Errorf("%w: stream ended unexpectedly", entity.ErrGenerationUnavailable)})
	}()

	return out, nil
}

// Health reports the models available on the generation service.
func (c *Connector) Health(ctx context.Context) ([]string, error) {
	var resp entity.LLMTagsResponse
	if err := c.connector.DoRequest(ctx, http.MethodGet, c.config.TagsEndpoint, nil, &resp); err != nil {
		return nil, mapGenerationError(err)
	}

	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}

	return names, nil
}

// Model returns the configured generation model name.
func (c *Connector) Model() string {
	return c.config.Model
}

// renderPrompt flattens role-tagged segments into the text prompt format
// the generation service expects: system preamble and knowledge block
// first, then the prior conversation, then the new user query.
func renderPrompt(segments []entity.PromptSegment) string {
	var b strings.Builder

	var conversation []entity.PromptSegment
	for _, seg := range segments {
		switch seg.Role {
		case entity.RoleSystem:
			b.WriteString(seg.Content)
			b.WriteString("\n\n")
		default:
			conversation = append(conversation, seg)
		}
	}

	// The last non-system segment is the new user query; everything before
	// it is the trimmed conversation window.
	if len(conversation) > 1 {
		b.WriteString("Previous conversation:\n")
		for _, seg := range conversation[:len(conversation)-1] {
			b.WriteString(capitalizeRole(seg.Role))
			b.WriteString(": ")
			b.WriteString(seg.Content)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(conversation) > 0 {
		query := conversation[len(conversation)-1]
		b.WriteString("User Query: ")
		b.WriteString(query.Content)
		b.WriteString("\n\nPlease provide a helpful response:")
	}

	return b.String()
}

func capitalizeRole(r entity.Role) string {
	s := string(r)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func mapGenerationError(err error) error {
	if errors.Is(err, entity.ErrGenerationTimeout) || errors.Is(err, entity.ErrGenerationUnavailable) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", entity.ErrGenerationTimeout, err)
	}
	return fmt.Errorf("%w: %v", entity.ErrGenerationUnavailable, err)
}
