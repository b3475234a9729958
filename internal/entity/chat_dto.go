package entity

// ChatRequest is the caller-facing payload for /chat and /chat/stream.
// The conversation history is supplied by the caller on every request;
// the backend holds no session state between calls.
type ChatRequest struct {
	Message             string    `json:"message"`
	ConversationHistory []Message `json:"conversation_history,omitempty"`
	// UseKnowledgeBase defaults to true when omitted, so it is a pointer:
	// only an explicit false disables retrieval.
	UseKnowledgeBase *bool `json:"use_knowledge_base,omitempty"`
}

// KnowledgeEnabled reports whether retrieval should run for this request.
func (r *ChatRequest) KnowledgeEnabled() bool {
	return r.UseKnowledgeBase == nil || *r.UseKnowledgeBase
}

// ChatResponse is the caller-facing reply for /chat.
type ChatResponse struct {
	Response string      `json:"response"`
	History  []Message   `json:"history"`
	Sources  []SourceRef `json:"sources,omitempty"`
	Warning  string      `json:"warning,omitempty"`
}

// HealthResponse aggregates the state of the external collaborators.
type HealthResponse struct {
	Status   string    `json:"status"`
	LLM      LLMStatus `json:"llm_status"`
	VectorDB string    `json:"vector_db_status"`
}

type LLMStatus struct {
	Status          string   `json:"status"`
	AvailableModels []string `json:"available_models,omitempty"`
	ConfiguredModel string   `json:"configured_model"`
	Error           string   `json:"error,omitempty"`
}
