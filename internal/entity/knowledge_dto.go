package entity

// KnowledgeAddRequest adds one document to the knowledge base. When Chunk
// is true the content is split before indexing; DocID may be empty, in
// which case one is generated.
type KnowledgeAddRequest struct {
	DocID    string         `json:"doc_id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Chunk    bool           `json:"chunk"`
}

type KnowledgeAddResponse struct {
	Status        string `json:"status"`
	DocID         string `json:"doc_id"`
	ChunksCreated int    `json:"chunks_created"`
}

type KnowledgeSearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type KnowledgeSearchResult struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type KnowledgeSearchResponse struct {
	Status  string                  `json:"status"`
	Query   string                  `json:"query"`
	Results []KnowledgeSearchResult `json:"results"`
}

type KnowledgeDeleteResponse struct {
	Status string `json:"status"`
	DocID  string `json:"doc_id"`
}
