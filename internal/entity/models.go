package entity

// Role identifies the author of a conversation message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

func (r Role) Validate() error {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return nil
	default:
		return ErrInvalidRole
	}
}

// Message is a single conversation turn. Immutable once created; an ordered
// slice of messages forms the conversation history owned by the caller.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// KnowledgeChunk is a unit of knowledge stored in the external vector store.
// Content is immutable; updates are delete + reinsert.
type KnowledgeChunk struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Embedding []float32      `json:"embedding,omitempty"`
}

// RetrievedChunk is one similarity-search hit. Result slices are ordered by
// descending score and never exceed the requested top_k.
type RetrievedChunk struct {
	Chunk KnowledgeChunk `json:"chunk"`
	Score float64        `json:"score"`
}

// PromptSegment is one role-tagged piece of an assembled prompt. The
// generation client decides how segments are rendered on the wire.
type PromptSegment struct {
	Role    Role
	Content string
}

// StreamChunk is one element of a streaming generation. Done marks the last
// chunk; on a successful stream the last chunk carries Final, on a failed
// one it carries Err and Final stays nil.
type StreamChunk struct {
	Content string
	Done    bool
	Err     error
	Final   *ChatResult
}

// SourceRef points at a knowledge chunk that contributed to a reply.
type SourceRef struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// ChatResult is the committed outcome of one orchestrated request. History
// is a fresh slice: the caller-supplied conversation is never mutated.
type ChatResult struct {
	Reply   Message     `json:"reply"`
	History []Message   `json:"history"`
	Sources []SourceRef `json:"sources,omitempty"`
	Warning string      `json:"warning,omitempty"`
}
