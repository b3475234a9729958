package chat

import (
	"fmt"
	"strings"

	"github.com/jarvis-assistant/backend/internal/entity"
)

const knowledgeHeader = "Here is relevant information from the knowledge base:"

// PromptOptions bound the assembled context.
type PromptOptions struct {
	// MaxTurns is the number of most recent conversation messages kept in
	// the window; older ones are dropped first.
	MaxTurns int
	// MaxContextChars caps the total knowledge block content size.
	MaxContextChars int
	// UseKnowledgeBase toggles the knowledge block entirely.
	UseKnowledgeBase bool
}

// Assembler builds a bounded, role-tagged prompt from the conversation,
// retrieved knowledge and the new user message. Assembly is deterministic:
// identical inputs always produce identical segments.
type Assembler struct {
	systemPrompt string
}

func NewAssembler(systemPrompt string) *Assembler {
	return &Assembler{systemPrompt: systemPrompt}
}

// Assemble produces the ordered prompt segments:
// preamble, knowledge block (optional), trimmed conversation window, new
// user message. Returns ErrEmptyMessage when the new message is blank.
func (a *Assembler) Assemble(
	history []entity.Message,
	retrieved []entity.RetrievedChunk,
	message string,
	opts PromptOptions,
) ([]entity.PromptSegment, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, entity.ErrEmptyMessage
	}

	segments := make([]entity.PromptSegment, 0, len(history)+3)

	if a.systemPrompt != "" {
		segments = append(segments, entity.PromptSegment{
			Role:    entity.RoleSystem,
			Content: a.systemPrompt,
		})
	}

	if opts.UseKnowledgeBase && len(retrieved) > 0 {
		if block := renderKnowledgeBlock(retrieved, opts.MaxContextChars); block != "" {
			segments = append(segments, entity.PromptSegment{
				Role:    entity.RoleSystem,
				Content: block,
			})
		}
	}

	window := history
	if opts.MaxTurns >= 0 && len(history) > opts.MaxTurns {
		window = history[len(history)-opts.MaxTurns:]
	}
	for _, msg := range window {
		segments = append(segments, entity.PromptSegment{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	segments = append(segments, entity.PromptSegment{
		Role:    entity.RoleUser,
		Content: message,
	})

	return segments, nil
}

// renderKnowledgeBlock concatenates chunk contents in the given (already
// score-descending) order as labeled blocks. The whole rendered block,
// header, labels and separators included, never exceeds maxChars: an
// oversized chunk is truncated, never silently dropped. A budget too small
// to fit the header and a label yields no block at all rather than one
// that is all boilerplate.
func renderKnowledgeBlock(retrieved []entity.RetrievedChunk, maxChars int) string {
	const sep = "\n\n"

	used := len(knowledgeHeader) + len(sep)
	var blocks []string

	for i, rc := range retrieved {
		if rc.Chunk.Content == "" {
			continue
		}

		label := fmt.Sprintf("[%d] ", i+1)
		overhead := len(label)
		if len(blocks) > 0 {
			overhead += len(sep)
		}

		budget := maxChars - used - overhead
		if budget <= 0 {
			break
		}

		content := rc.Chunk.Content
		if len(content) > budget {
			content = content[:budget]
		}

		blocks = append(blocks, label+content)
		used += overhead + len(content)
	}

	if len(blocks) == 0 {
		return ""
	}

	return knowledgeHeader + sep + strings.Join(blocks, sep)
}
