package reporting

import (
	"time"

	"github.com/expenseworks/expense-claims/internal"
)

var ErrExpenseNotFound = internal.NewNotFoundError("expense not found", internal.ErrCodeExpenseNotFound)

// ExpenseView is the list projection joining an expense with its owner,
// category and status names. Amount is in display (major) units.
type ExpenseView struct {
	ID          int64      `json:"id"`
	ExpenseDate time.Time  `json:"expense_date"`
	Category    string     `json:"category"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status"`
	OwnerName   string     `json:"user_name"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
}

// ExpenseDetailView adds the reviewer name for single-expense reads.
type ExpenseDetailView struct {
	ExpenseView
	ReviewerName *string `json:"reviewer_name,omitempty"`
}

type StatusSummary struct {
	Status      string  `json:"status"`
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

type Summary struct {
	TotalExpenses int64           `json:"total_expenses"`
	TotalAmount   float64         `json:"total_amount"`
	ByStatus      []StatusSummary `json:"by_status"`
}
