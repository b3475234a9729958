package validator

import (
	"fmt"
	"strings"

	"github.com/jarvis-assistant/backend/internal/entity"
)

// ValidateKnowledgeAdd validates a document ingestion request
func (v *Validator) ValidateKnowledgeAdd(req *entity.KnowledgeAddRequest) error {
	if strings.TrimSpace(req.Content) == "" {
		return fmt.Errorf("%w: content", entity.ErrMissingField)
	}
	return nil
}

// ValidateKnowledgeSearch validates a knowledge search request
func (v *Validator) ValidateKnowledgeSearch(req *entity.KnowledgeSearchRequest) error {
	if strings.TrimSpace(req.Query) == "" {
		return fmt.Errorf("%w: query", entity.ErrMissingField)
	}
	if req.TopK < 0 || req.TopK > v.maxTopK {
		return fmt.Errorf("%w: top_k must be between 0 and %d, got %d", entity.ErrInvalidParameter, v.maxTopK, req.TopK)
	}
	return nil
}

// ValidateKnowledgeDelete validates a document deletion request
func (v *Validator) ValidateKnowledgeDelete(docID string) error {
	if strings.TrimSpace(docID) == "" {
		return fmt.Errorf("%w: doc_id", entity.ErrMissingField)
	}
	return nil
}
