package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jarvis-assistant/backend/internal/entity"
	"github.com/jarvis-assistant/backend/internal/pkg/logger"
	"github.com/jarvis-assistant/backend/internal/pkg/response"
	"go.uber.org/zap"
)

type Handler struct {
	usecase ChatUsecase
}

func NewHandler(usecase ChatUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// Chat handles POST /chat - one synchronous chat turn
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")

	var req entity.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.usecase.Respond(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, entity.ChatResponse{
		Response: result.Reply.Content,
		History:  result.History,
		Sources:  result.Sources,
		Warning:  result.Warning,
	})
}

// ChatStream handles POST /chat/stream - chunked reply streaming. The
// response is plain text flushed per chunk; a client disconnect cancels
// the upstream generation through the request context.
func (h *Handler) ChatStream(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ChatStream")

	var req entity.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stream, err := h.usecase.RespondStream(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		ctxzap.Error(ctx, "response writer does not support flushing")
		response.Error(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	written := false
	for chunk := range stream {
		if chunk.Err != nil {
			ctxzap.Error(ctx, "stream failed", zap.Error(chunk.Err), zap.Bool("partial_output", written))
			if !written {
				// Headers already sent; the body carries the failure.
				w.Write([]byte("Error: " + chunk.Err.Error()))
			}
			return
		}

		if chunk.Content != "" {
			if _, err := w.Write([]byte(chunk.Content)); err != nil {
				ctxzap.Warn(ctx, "client went away mid-stream", zap.Error(err))
				return
			}
			flusher.Flush()
			written = true
		}
	}
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "chat request failed", zap.Error(err))

	switch {
	case errors.Is(err, entity.ErrEmptyMessage),
		errors.Is(err, entity.ErrInvalidRole),
		errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrInvalidParameter):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrGenerationTimeout):
		response.Error(w, http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, entity.ErrGenerationUnavailable):
		response.Error(w, http.StatusBadGateway, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, err.Error())
	}
}
