package chat

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/jarvis-assistant/backend/internal/entity"
)

func chunk(id, content string, score float64) entity.RetrievedChunk {
	return entity.RetrievedChunk{
		Chunk: entity.KnowledgeChunk{ID: id, Content: content},
		Score: score,
	}
}

func defaultOpts() PromptOptions {
	return PromptOptions{MaxTurns: 5, MaxContextChars: 4000, UseKnowledgeBase: true}
}

func TestAssembleEmptyMessage(t *testing.T) {
	a := NewAssembler("system prompt")

	for _, message := range []string{"", "   ", "\n\t "} {
		if _, err := a.Assemble(nil, nil, message, defaultOpts()); !errors.Is(err, entity.ErrEmptyMessage) {
			t.Errorf("Assemble(%q) error = %v, want ErrEmptyMessage", message, err)
		}
	}
}

func TestAssembleSegmentOrder(t *testing.T) {
	a := NewAssembler("You are a helpful assistant.")

	history := []entity.Message{
		{Role: entity.RoleUser, Content: "hi"},
		{Role: entity.RoleAssistant, Content: "hello"},
	}
	retrieved := []entity.RetrievedChunk{chunk("doc1", "vacation policy text", 0.9)}

	segments, err := a.Assemble(history, retrieved, "How much PTO do I have?", defaultOpts())
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if len(segments) != 5 {
		t.Fatalf("got %d segments, want 5", len(segments))
	}
	if segments[0].Role != entity.RoleSystem || segments[0].Content != "You are a helpful assistant." {
		t.Errorf("segment 0 = %+v, want system preamble", segments[0])
	}
	if segments[1].Role != entity.RoleSystem || !strings.Contains(segments[1].Content, "[1] vacation policy text") {
		t.Errorf("segment 1 = %+v, want knowledge block", segments[1])
	}
	if segments[2].Content != "hi" || segments[3].Content != "hello" {
		t.Errorf("history segments out of order: %+v", segments[2:4])
	}
	last := segments[len(segments)-1]
	if last.Role != entity.RoleUser || last.Content != "How much PTO do I have?" {
		t.Errorf("last segment = %+v, want the new user message", last)
	}
}

func TestAssembleWindowKeepsMostRecent(t *testing.T) {
	a := NewAssembler("")

	history := []entity.Message{
		{Role: entity.RoleUser, Content: "one"},
		{Role: entity.RoleAssistant, Content: "two"},
		{Role: entity.RoleUser, Content: "three"},
		{Role: entity.RoleAssistant, Content: "four"},
	}

	opts := PromptOptions{MaxTurns: 2, MaxContextChars: 4000}
	segments, err := a.Assemble(history, nil, "five", opts)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	var contents []string
	for _, s := range segments {
		contents = append(contents, s.Content)
	}
	want := []string{"three", "four", "five"}
	if !reflect.DeepEqual(contents, want) {
		t.Errorf("window contents = %v, want %v", contents, want)
	}
}

func TestAssembleZeroTurnsDropsHistory(t *testing.T) {
	a := NewAssembler("")

	history := []entity.Message{{Role: entity.RoleUser, Content: "old"}}
	segments, err := a.Assemble(history, nil, "new", PromptOptions{MaxTurns: 0, MaxContextChars: 100})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if len(segments) != 1 || segments[0].Content != "new" {
		t.Errorf("segments = %+v, want only the new message", segments)
	}
}

func TestAssembleKnowledgeDisabled(t *testing.T) {
	a := NewAssembler("preamble")

	retrieved := []entity.RetrievedChunk{chunk("doc1", "secret context", 0.9)}
	opts := PromptOptions{MaxTurns: 5, MaxContextChars: 4000, UseKnowledgeBase: false}

	segments, err := a.Assemble(nil, retrieved, "question", opts)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	for _, s := range segments {
		if strings.Contains(s.Content, "secret context") {
			t.Errorf("knowledge content leaked into segment %+v with UseKnowledgeBase=false", s)
		}
	}
}

func TestRenderKnowledgeBlockBudget(t *testing.T) {
	manyChunks := make([]entity.RetrievedChunk, 100)
	for i := range manyChunks {
		manyChunks[i] = chunk(fmt.Sprintf("doc%d", i), "x", 0.9)
	}

	tests := []struct {
		name      string
		retrieved []entity.RetrievedChunk
		maxChars  int
		want      []string
		absent    []string
	}{
		{
			name: "all chunks fit",
			retrieved: []entity.RetrievedChunk{
				chunk("a", "first", 0.9),
				chunk("b", "second", 0.8),
			},
			maxChars: 200,
			want:     []string{"[1] first", "[2] second"},
		},
		{
			name: "second chunk truncated at the remaining budget",
			retrieved: []entity.RetrievedChunk{
				chunk("a", "12345", 0.9),
				chunk("b", "abcdefgh", 0.8),
			},
			maxChars: 73,
			want:     []string{"[1] 12345", "[2] abc"},
			absent:   []string{"abcd"},
		},
		{
			name: "oversized single chunk is truncated, not dropped",
			retrieved: []entity.RetrievedChunk{
				chunk("a", strings.Repeat("x", 5000), 0.9),
				chunk("b", "never reached", 0.8),
			},
			maxChars: 1000,
			want:     []string{"[1] " + strings.Repeat("x", 100)},
			absent:   []string{"never reached"},
		},
		{
			name:      "label and separator overhead counts against the budget",
			retrieved: manyChunks,
			maxChars:  100,
		},
		{
			name: "budget smaller than the header yields no block",
			retrieved: []entity.RetrievedChunk{
				chunk("a", "content", 0.9),
			},
			maxChars: 10,
			absent:   []string{"content", knowledgeHeader[:5]},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := renderKnowledgeBlock(tt.retrieved, tt.maxChars)
			if len(block) > tt.maxChars {
				t.Errorf("block length = %d, exceeds budget %d:\n%s", len(block), tt.maxChars, block)
			}
			for _, w := range tt.want {
				if !strings.Contains(block, w) {
					t.Errorf("block missing %q:\n%s", w, block)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(block, a) {
					t.Errorf("block should not contain %q:\n%s", a, block)
				}
			}
		})
	}
}

func TestAssembleDeterministic(t *testing.T) {
	a := NewAssembler("preamble")

	history := []entity.Message{{Role: entity.RoleUser, Content: "hi"}}
	retrieved := []entity.RetrievedChunk{chunk("a", "context", 0.9)}

	first, err := a.Assemble(history, retrieved, "question", defaultOpts())
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	second, err := a.Assemble(history, retrieved, "question", defaultOpts())
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different segments:\n%+v\n%+v", first, second)
	}
}
