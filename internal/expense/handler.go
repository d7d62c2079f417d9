package expense

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/expenseworks/expense-claims/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateExpense(dto CreateExpenseDTO) (*Expense, error)
	SubmitExpense(expenseID int64) (*Expense, error)
	ApproveExpense(expenseID, reviewerID int64) (*Expense, error)
	RejectExpense(expenseID, reviewerID int64) (*Expense, error)
	DeleteExpense(expenseID int64) error
	BulkApprove(expenseIDs []int64, reviewerID int64) (int, error)
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

func (h *Handler) expenseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("invalid expense ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid expense ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var dto CreateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := h.Service.CreateExpense(dto)
	if err != nil {
		h.Logger.Error("CreateExpense: service error", "error", err, "user_id", dto.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateExpense: expense created",
		"expense_id", exp.ID,
		"user_id", exp.UserID,
		"amount_minor", exp.AmountMinor)

	h.WriteJSON(w, http.StatusCreated, exp)
}

func (h *Handler) SubmitExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := h.expenseID(w, r)
	if !ok {
		return
	}

	exp, err := h.Service.SubmitExpense(id)
	if err != nil {
		h.Logger.Error("SubmitExpense: service error", "error", err, "expense_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, exp)
}

func (h *Handler) ApproveExpense(w http.ResponseWriter, r *http.Request) {
	h.reviewExpense(w, r, h.Service.ApproveExpense)
}

func (h *Handler) RejectExpense(w http.ResponseWriter, r *http.Request) {
	h.reviewExpense(w, r, h.Service.RejectExpense)
}

func (h *Handler) reviewExpense(w http.ResponseWriter, r *http.Request, review func(int64, int64) (*Expense, error)) {
	id, ok := h.expenseID(w, r)
	if !ok {
		return
	}

	var dto ReviewExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("review: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	exp, err := review(id, dto.ReviewerID)
	if err != nil {
		h.Logger.Error("review: service error", "error", err, "expense_id", id, "reviewer_id", dto.ReviewerID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("review: expense reviewed",
		"expense_id", id,
		"reviewer_id", dto.ReviewerID,
		"status", exp.Status)

	h.WriteJSON(w, http.StatusOK, exp)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := h.expenseID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteExpense(id); err != nil {
		h.Logger.Error("DeleteExpense: service error", "error", err, "expense_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "expense deleted"})
}

func (h *Handler) BulkApprove(w http.ResponseWriter, r *http.Request) {
	var dto BulkApproveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("BulkApprove: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	approved, err := h.Service.BulkApprove(dto.ExpenseIDs, dto.ReviewerID)
	if err != nil {
		h.Logger.Error("BulkApprove: service error", "error", err, "reviewer_id", dto.ReviewerID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("BulkApprove: batch finished",
		"requested", len(dto.ExpenseIDs),
		"approved", approved,
		"reviewer_id", dto.ReviewerID)

	h.WriteJSON(w, http.StatusOK, BulkApproveResponse{
		Approved: approved,
		Skipped:  len(dto.ExpenseIDs) - approved,
	})
}
