package entity

// Wire types for the managed vector-database REST API. The payload carries
// the chunk text alongside caller metadata so query results are usable
// without a second lookup.

type VectorRecord struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type VectorUpsertRequest struct {
	Vectors []VectorRecord `json:"vectors"`
}

type VectorUpsertResponse struct {
	UpsertedCount int `json:"upsertedCount"`
}

type VectorQueryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type VectorMatch struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type VectorQueryResponse struct {
	Matches []VectorMatch `json:"matches"`
}

type VectorDeleteRequest struct {
	IDs []string `json:"ids"`
}

type VectorStatsResponse struct {
	Dimension        int `json:"dimension"`
	TotalVectorCount int `json:"totalVectorCount"`
}
