package entity

// Wire types for the Ollama-compatible generation service.

type LLMGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type LLMGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type LLMModelInfo struct {
	Name string `json:"name"`
}

type LLMTagsResponse struct {
	Models []LLMModelInfo `json:"models"`
}

// Wire types for the Ollama embeddings endpoint.

type EmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type EmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}
