package entity

import "errors"

// Domain errors
var (
	// Request validation errors - no external call is made when these fire
	ErrEmptyMessage     = errors.New("message is empty")
	ErrInvalidRole      = errors.New("invalid message role")
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")

	// Retrieval errors - the orchestrator degrades and continues
	ErrRetrievalUnavailable = errors.New("knowledge base unavailable")

	// Generation errors - fatal to the request, surfaced to the caller
	ErrGenerationUnavailable = errors.New("generation service unavailable")
	ErrGenerationTimeout     = errors.New("generation timed out")

	// Knowledge ingestion errors
	ErrDocumentNotFound = errors.New("document not found")
	ErrEmptyDocument    = errors.New("document content is empty")
)
