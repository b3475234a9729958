package chat

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/jarvis-assistant/backend/internal/config"
	"github.com/jarvis-assistant/backend/internal/entity"
	"github.com/jarvis-assistant/backend/internal/pkg/validator"
	"go.uber.org/zap"
)

type stubRetrieval struct {
	calls  int
	chunks []entity.RetrievedChunk
	err    error
}

func (s *stubRetrieval) Query(ctx context.Context, text string, topK int) ([]entity.RetrievedChunk, error) {
	s.calls++
	return s.chunks, s.err
}

type stubGeneration struct {
	calls        int
	streamCalls  int
	reply        string
	err          error
	streamChunks []entity.StreamChunk
	streamErr    error
}

func (s *stubGeneration) Generate(ctx context.Context, segments []entity.PromptSegment) (string, error) {
	s.calls++
	return s.reply, s.err
}

func (s *stubGeneration) GenerateStream(ctx context.Context, segments []entity.PromptSegment) (<-chan entity.StreamChunk, error) {
	s.streamCalls++
	if s.streamErr != nil {
		return nil, s.streamErr
	}
	out := make(chan entity.StreamChunk, len(s.streamChunks))
	for _, c := range s.streamChunks {
		out <- c
	}
	close(out)
	return out, nil
}

func newTestUsecase(retrieval *stubRetrieval, generation *stubGeneration) *Usecase {
	return NewUsecase(
		retrieval,
		generation,
		NewAssembler("system prompt"),
		validator.New(100),
		config.PromptConfig{MaxTurns: 5, MaxContextChars: 4000, TopK: 3},
		zap.NewNop(),
	)
}

func boolPtr(b bool) *bool {
	return &b
}

func TestRespondEmptyMessageMakesNoExternalCalls(t *testing.T) {
	retrieval := &stubRetrieval{}
	generation := &stubGeneration{reply: "unused"}
	uc := newTestUsecase(retrieval, generation)

	for _, message := range []string{"", "   \t\n"} {
		_, err := uc.Respond(context.Background(), &entity.ChatRequest{
			Message:          message,
			UseKnowledgeBase: boolPtr(true),
		})
		if !errors.Is(err, entity.ErrEmptyMessage) {
			t.Errorf("Respond(%q) error = %v, want ErrEmptyMessage", message, err)
		}
	}

	if retrieval.calls != 0 || generation.calls != 0 {
		t.Errorf("external calls made for invalid input: retrieval=%d generation=%d",
			retrieval.calls, generation.calls)
	}
}

func TestRespondRetrievalFailureDegrades(t *testing.T) {
	retrieval := &stubRetrieval{err: entity.ErrRetrievalUnavailable}
	generation := &stubGeneration{reply: "answer without context"}
	uc := newTestUsecase(retrieval, generation)

	result, err := uc.Respond(context.Background(), &entity.ChatRequest{
		Message:          "question",
		UseKnowledgeBase: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("Respond() error = %v, want degraded success", err)
	}

	if result.Warning != RetrievalWarning {
		t.Errorf("Warning = %q, want %q", result.Warning, RetrievalWarning)
	}
	if result.Reply.Content != "answer without context" {
		t.Errorf("Reply = %q", result.Reply.Content)
	}
	if len(result.Sources) != 0 {
		t.Errorf("Sources = %v, want none after failed retrieval", result.Sources)
	}
	if generation.calls != 1 {
		t.Errorf("generation calls = %d, want 1", generation.calls)
	}
}

func TestRespondGenerationFailureIsFatal(t *testing.T) {
	retrieval := &stubRetrieval{}
	generation := &stubGeneration{err: entity.ErrGenerationUnavailable}
	uc := newTestUsecase(retrieval, generation)

	_, err := uc.Respond(context.Background(), &entity.ChatRequest{
		Message:          "question",
		UseKnowledgeBase: boolPtr(true),
	})
	if !errors.Is(err, entity.ErrGenerationUnavailable) {
		t.Fatalf("Respond() error = %v, want ErrGenerationUnavailable", err)
	}
}

func TestRespondDoesNotMutateCallerHistory(t *testing.T) {
	retrieval := &stubRetrieval{}
	generation := &stubGeneration{reply: "reply"}
	uc := newTestUsecase(retrieval, generation)

	history := make([]entity.Message, 1, 8)
	history[0] = entity.Message{Role: entity.RoleUser, Content: "earlier"}
	snapshot := append([]entity.Message(nil), history...)

	result, err := uc.Respond(context.Background(), &entity.ChatRequest{
		Message:             "question",
		ConversationHistory: history,
	})
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}

	if !reflect.DeepEqual(history, snapshot) {
		t.Errorf("caller history mutated: %+v", history)
	}
	if len(result.History) != 3 {
		t.Fatalf("result history length = %d, want 3", len(result.History))
	}
	if result.History[1].Content != "question" || result.History[2].Content != "reply" {
		t.Errorf("history tail = %+v", result.History[1:])
	}
	if result.History[1].Role != entity.RoleUser || result.History[2].Role != entity.RoleAssistant {
		t.Errorf("history tail roles = %+v", result.History[1:])
	}
}

func TestRespondSources(t *testing.T) {
	retrieval := &stubRetrieval{chunks: []entity.RetrievedChunk{
		{Chunk: entity.KnowledgeChunk{ID: "doc1", Content: "text one"}, Score: 0.91},
		{Chunk: entity.KnowledgeChunk{ID: "doc2", Content: "text two"}, Score: 0.52},
	}}
	generation := &stubGeneration{reply: "grounded reply"}
	uc := newTestUsecase(retrieval, generation)

	result, err := uc.Respond(context.Background(), &entity.ChatRequest{
		Message:          "question",
		UseKnowledgeBase: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}

	want := []entity.SourceRef{{ID: "doc1", Score: 0.91}, {ID: "doc2", Score: 0.52}}
	if !reflect.DeepEqual(result.Sources, want) {
		t.Errorf("Sources = %+v, want %+v", result.Sources, want)
	}
}

func TestRespondKnowledgeBaseDisabledSkipsRetrieval(t *testing.T) {
	retrieval := &stubRetrieval{chunks: []entity.RetrievedChunk{
		{Chunk: entity.KnowledgeChunk{ID: "doc1"}, Score: 0.9},
	}}
	generation := &stubGeneration{reply: "reply"}
	uc := newTestUsecase(retrieval, generation)

	result, err := uc.Respond(context.Background(), &entity.ChatRequest{
		Message:          "question",
		UseKnowledgeBase: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if retrieval.calls != 0 {
		t.Errorf("retrieval calls = %d, want 0", retrieval.calls)
	}
	if len(result.Sources) != 0 {
		t.Errorf("Sources = %v, want none", result.Sources)
	}
}

func TestRespondKnowledgeBaseDefaultsToEnabled(t *testing.T) {
	retrieval := &stubRetrieval{}
	generation := &stubGeneration{reply: "reply"}
	uc := newTestUsecase(retrieval, generation)

	// use_knowledge_base omitted from the request
	if _, err := uc.Respond(context.Background(), &entity.ChatRequest{Message: "question"}); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if retrieval.calls != 1 {
		t.Errorf("retrieval calls = %d, want 1", retrieval.calls)
	}
}

func TestRespondStreamDeliversChunksInOrder(t *testing.T) {
	retrieval := &stubRetrieval{}
	generation := &stubGeneration{streamChunks: []entity.StreamChunk{
		{Content: "Hel"},
		{Content: "lo "},
		{Content: "there"},
		{Done: true},
	}}
	uc := newTestUsecase(retrieval, generation)

	stream, err := uc.RespondStream(context.Background(), &entity.ChatRequest{Message: "hi"})
	if err != nil {
		t.Fatalf("RespondStream() error = %v", err)
	}

	var contents []string
	var final *entity.ChatResult
	for chunk := range stream {
		if chunk.Err != nil {
			t.Fatalf("unexpected stream error: %v", chunk.Err)
		}
		if chunk.Content != "" {
			contents = append(contents, chunk.Content)
		}
		if chunk.Done {
			final = chunk.Final
		}
	}

	if !reflect.DeepEqual(contents, []string{"Hel", "lo ", "there"}) {
		t.Errorf("stream contents = %v", contents)
	}
	if final == nil {
		t.Fatal("terminal chunk missing committed result")
	}
	if final.Reply.Content != "Hello there" {
		t.Errorf("final reply = %q, want %q", final.Reply.Content, "Hello there")
	}
	if len(final.History) != 2 {
		t.Errorf("final history length = %d, want 2", len(final.History))
	}
}

func TestRespondStreamErrorCarriesNoResult(t *testing.T) {
	retrieval := &stubRetrieval{}
	generation := &stubGeneration{streamChunks: []entity.StreamChunk{
		{Content: "partial"},
		{Err: entity.ErrGenerationUnavailable},
	}}
	uc := newTestUsecase(retrieval, generation)

	stream, err := uc.RespondStream(context.Background(), &entity.ChatRequest{Message: "hi"})
	if err != nil {
		t.Fatalf("RespondStream() error = %v", err)
	}

	var streamErr error
	for chunk := range stream {
		if chunk.Err != nil {
			streamErr = chunk.Err
		}
		if chunk.Final != nil {
			t.Error("result committed despite stream error")
		}
	}
	if !errors.Is(streamErr, entity.ErrGenerationUnavailable) {
		t.Errorf("stream error = %v, want ErrGenerationUnavailable", streamErr)
	}
}

func TestRespondStreamUpstreamClosedEarly(t *testing.T) {
	retrieval := &stubRetrieval{}
	generation := &stubGeneration{streamChunks: []entity.StreamChunk{
		{Content: "partial reply cut off"},
	}}
	uc := newTestUsecase(retrieval, generation)

	stream, err := uc.RespondStream(context.Background(), &entity.ChatRequest{Message: "hi"})
	if err != nil {
		t.Fatalf("RespondStream() error = %v", err)
	}

	var streamErr error
	for chunk := range stream {
		if chunk.Err != nil {
			streamErr = chunk.Err
		}
		if chunk.Final != nil {
			t.Error("result committed despite truncated stream")
		}
	}
	if !errors.Is(streamErr, entity.ErrGenerationUnavailable) {
		t.Errorf("stream error = %v, want ErrGenerationUnavailable", streamErr)
	}
}
