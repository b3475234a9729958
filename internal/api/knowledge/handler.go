package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jarvis-assistant/backend/internal/entity"
	"github.com/jarvis-assistant/backend/internal/pkg/logger"
	"github.com/jarvis-assistant/backend/internal/pkg/response"
	"go.uber.org/zap"
)

type Handler struct {
	usecase KnowledgeUsecase
}

func NewHandler(usecase KnowledgeUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// Add handles POST /knowledge/add - store a document in the knowledge base
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "KnowledgeAdd")

	var req entity.KnowledgeAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.usecase.AddDocument(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, result)
}

// Search handles POST /knowledge/search - similarity search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "KnowledgeSearch")

	var req entity.KnowledgeSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.usecase.Search(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, result)
}

// Delete handles DELETE /knowledge/{doc_id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "doc_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("doc_id", docID),
		zap.String("action", "KnowledgeDelete"),
	)

	result, err := h.usecase.DeleteDocument(ctx, docID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, result)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "knowledge request failed", zap.Error(err))

	switch {
	case errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrEmptyDocument):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrRetrievalUnavailable):
		response.Error(w, http.StatusBadGateway, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, err.Error())
	}
}
