package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jarvis-assistant/backend/internal/config"
	"github.com/jarvis-assistant/backend/internal/entity"
	"github.com/jarvis-assistant/backend/internal/pkg/validator"
	"go.uber.org/zap"
)

// RetrievalWarning is attached to the reply when the knowledge base was
// requested but unreachable and the request proceeded without it.
const RetrievalWarning = "knowledge base unavailable; reply generated without retrieved context"

// Usecase drives one chat request: optional retrieval, prompt assembly,
// generation, history update. It holds no per-conversation state - each
// call gets the caller's history snapshot and returns a new one.
type Usecase struct {
	retrieval  RetrievalClient
	generation GenerationClient
	assembler  *Assembler
	validator  *validator.Validator
	promptCfg  config.PromptConfig
	logger     *zap.Logger
}

func NewUsecase(
	retrieval RetrievalClient,
	generation GenerationClient,
	assembler *Assembler,
	validator *validator.Validator,
	promptCfg config.PromptConfig,
	logger *zap.Logger,
) *Usecase {
	return &Usecase{
		retrieval:  retrieval,
		generation: generation,
		assembler:  assembler,
		validator:  validator,
		promptCfg:  promptCfg,
		logger:     logger,
	}
}

// Respond handles one chat turn. Retrieval failures degrade to a warning;
// generation failures are fatal and leave the history unadvanced.
func (uc *Usecase) Respond(ctx context.Context, req *entity.ChatRequest) (*entity.ChatResult, error) {
	if err := uc.validator.ValidateChat(req); err != nil {
		return nil, err
	}
	message := strings.TrimSpace(req.Message)

	retrieved, warning := uc.retrieve(ctx, req.KnowledgeEnabled(), message)

	segments, err := uc.assembler.Assemble(req.ConversationHistory, retrieved, message, uc.promptOptions(req))
	if err != nil {
		return nil, err
	}

	reply, err := uc.generation.Generate(ctx, segments)
	if err != nil {
		return nil, fmt.Errorf("generate reply: %w", err)
	}

	return uc.commit(req.ConversationHistory, message, reply, retrieved, warning), nil
}

// RespondStream handles one chat turn with incremental output. Chunks are
// forwarded in order as they arrive; the terminal chunk carries the
// committed result. On error or cancellation before the terminal chunk
// nothing is committed.
func (uc *Usecase) RespondStream(ctx context.Context, req *entity.ChatRequest) (<-chan entity.StreamChunk, error) {
	if err := uc.validator.ValidateChat(req); err != nil {
		return nil, err
	}
	message := strings.TrimSpace(req.Message)

	retrieved, warning := uc.retrieve(ctx, req.KnowledgeEnabled(), message)

	segments, err := uc.assembler.Assemble(req.ConversationHistory, retrieved, message, uc.promptOptions(req))
	if err != nil {
		return nil, err
	}

	upstream, err := uc.generation.GenerateStream(ctx, segments)
	if err != nil {
		return nil, fmt.Errorf("start generation stream: %w", err)
	}

	out := make(chan entity.StreamChunk, 16)

	go func() {
		defer close(out)

		var accumulated strings.Builder

		for chunk := range upstream {
			if chunk.Err != nil {
				uc.forward(ctx, out, entity.StreamChunk{Done: true, Err: chunk.Err})
				return
			}

			if chunk.Content != "" {
				accumulated.WriteString(chunk.Content)
				if !uc.forward(ctx, out, entity.StreamChunk{Content: chunk.Content}) {
					return
				}
			}

			if chunk.Done {
				result := uc.commit(req.ConversationHistory, message, accumulated.String(), retrieved, warning)
				uc.forward(ctx, out, entity.StreamChunk{Done: true, Final: result})
				return
			}
		}

		uc.forward(ctx, out, entity.StreamChunk{
			Done: true,
			Err:  fmt.Errorf("%w: stream closed before completion", entity.ErrGenerationUnavailable),
		})
	}()

	return out, nil
}

func (uc *Usecase) retrieve(ctx context.Context, useKnowledgeBase bool, message string) ([]entity.RetrievedChunk, string) {
	if !useKnowledgeBase {
		return nil, ""
	}

	chunks, err := uc.retrieval.Query(ctx, message, uc.promptCfg.TopK)
	if err != nil {
		ctxzap.Warn(ctx, "retrieval failed, continuing without knowledge context", zap.Error(err))
		return nil, RetrievalWarning
	}

	ctxzap.Debug(ctx, "knowledge retrieved", zap.Int("chunk_count", len(chunks)))
	return chunks, ""
}

// commit builds the result without touching the caller's history slice.
func (uc *Usecase) commit(
	history []entity.Message,
	message, reply string,
	retrieved []entity.RetrievedChunk,
	warning string,
) *entity.ChatResult {
	userMsg := entity.Message{Role: entity.RoleUser, Content: message}
	assistantMsg := entity.Message{Role: entity.RoleAssistant, Content: reply}

	updated := make([]entity.Message, 0, len(history)+2)
	updated = append(updated, history...)
	updated = append(updated, userMsg, assistantMsg)

	var sources []entity.SourceRef
	for _, rc := range retrieved {
		sources = append(sources, entity.SourceRef{ID: rc.Chunk.ID, Score: rc.Score})
	}

	return &entity.ChatResult{
		Reply:   assistantMsg,
		History: updated,
		Sources: sources,
		Warning: warning,
	}
}

func (uc *Usecase) promptOptions(req *entity.ChatRequest) PromptOptions {
	return PromptOptions{
		MaxTurns:         uc.promptCfg.MaxTurns,
		MaxContextChars:  uc.promptCfg.MaxContextChars,
		UseKnowledgeBase: req.KnowledgeEnabled(),
	}
}

// forward delivers a chunk unless the caller has gone away.
func (uc *Usecase) forward(ctx context.Context, out chan<- entity.StreamChunk, chunk entity.StreamChunk) bool {
	select {
	case out <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}
