package expense

import (
	"errors"
	"time"
)

// CreateExpenseDTO is the request payload for creating an expense.
// Amount arrives in major units (pounds) and is stored in minor units.
type CreateExpenseDTO struct {
	UserID      int64     `json:"user_id"`
	CategoryID  int64     `json:"category_id"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency,omitempty"`
	ExpenseDate time.Time `json:"expense_date"`
	Description *string   `json:"description,omitempty"`
}

func (dto CreateExpenseDTO) Validate() error {
	if dto.UserID <= 0 {
		return errors.New("user_id is required")
	}
	if dto.CategoryID <= 0 {
		return errors.New("category_id is required")
	}
	if dto.Amount < 0 {
		return errors.New("amount must not be negative")
	}
	if dto.ExpenseDate.IsZero() {
		return errors.New("expense date is required")
	}
	if dto.Currency != "" && !SupportedCurrency(dto.Currency) {
		return errors.New("unsupported currency code")
	}
	return nil
}

// ReviewExpenseDTO carries the reviewer identity for approve/reject.
// The caller supplies it explicitly; there is no ambient principal.
type ReviewExpenseDTO struct {
	ReviewerID int64 `json:"reviewer_id"`
}

func (dto ReviewExpenseDTO) Validate() error {
	if dto.ReviewerID <= 0 {
		return errors.New("reviewer_id is required")
	}
	return nil
}

// BulkApproveDTO is the batch approval payload.
type BulkApproveDTO struct {
	ExpenseIDs []int64 `json:"expense_ids"`
	ReviewerID int64   `json:"reviewer_id"`
}

func (dto BulkApproveDTO) Validate() error {
	if len(dto.ExpenseIDs) == 0 {
		return errors.New("expense_ids is required")
	}
	if dto.ReviewerID <= 0 {
		return errors.New("reviewer_id is required")
	}
	return nil
}

type BulkApproveResponse struct {
	Approved int `json:"approved"`
	Skipped  int `json:"skipped"`
}
