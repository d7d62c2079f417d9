package assistant

import (
	"context"
	"encoding/json"
	"net/http"

	internal "github.com/expenseworks/expense-claims/internal"
	"github.com/expenseworks/expense-claims/internal/transport"
)

type ServiceAPI interface {
	Chat(ctx context.Context, message string) string
}

type Handler struct {
	*transport.BaseHandler
	service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		service:     service,
	}
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleServiceError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}
	if req.Message == "" {
		h.HandleServiceError(w, internal.NewValidationError("message is required", internal.ErrCodeValidationFailed))
		return
	}

	reply := h.service.Chat(r.Context(), req.Message)
	h.WriteJSON(w, http.StatusOK, ChatResponse{Response: reply})
}
