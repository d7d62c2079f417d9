package reporting

import (
	"net/http"
	"strconv"

	"github.com/expenseworks/expense-claims/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListExpenses(statusFilter string, limit int) ([]ExpenseView, error)
	GetExpense(id int64) (*ExpenseDetailView, error)
	ListPendingForReview(textFilter string) ([]ExpenseView, error)
	Summarize() (*Summary, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		Service:     service,
	}
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	statusFilter := r.URL.Query().Get("status")

	views, err := h.Service.ListExpenses(statusFilter, 0)
	if err != nil {
		h.Logger.Error("ListExpenses: service error", "error", err, "status_filter", statusFilter)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"expenses": views,
		"count":    len(views),
	})
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("GetExpense: invalid expense ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid expense ID")
		return
	}

	view, err := h.Service.GetExpense(id)
	if err != nil {
		h.Logger.Error("GetExpense: service error", "error", err, "expense_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")

	views, err := h.Service.ListPendingForReview(filter)
	if err != nil {
		h.Logger.Error("ListPending: service error", "error", err, "filter", filter)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"expenses": views,
		"count":    len(views),
	})
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summarize()
	if err != nil {
		h.Logger.Error("Summary: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}
