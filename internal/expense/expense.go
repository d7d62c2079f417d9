package expense

import (
	"math"
	"strings"
	"time"

	expenseDatamodel "github.com/expenseworks/expense-claims/internal/core/datamodel/expense"
)

// Status names are a closed set. Draft expenses may be submitted;
// submitted expenses may be approved or rejected; Approved and Rejected
// are terminal.
const (
	StatusDraft     = "Draft"
	StatusSubmitted = "Submitted"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
)

// CanonicalStatus maps a case-insensitive status name onto its
// canonical form, returning false for names outside the closed set.
func CanonicalStatus(name string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "draft":
		return StatusDraft, true
	case "submitted":
		return StatusSubmitted, true
	case "approved":
		return StatusApproved, true
	case "rejected":
		return StatusRejected, true
	}
	return "", false
}

var supportedCurrencies = map[string]bool{
	"GBP": true,
}

// SupportedCurrency reports whether the 3-letter code is one the system
// stores amounts for.
func SupportedCurrency(code string) bool {
	return supportedCurrencies[strings.ToUpper(code)]
}

// MinorUnits converts a major-unit amount (pounds) to integer minor
// units (pence) with half-up rounding, e.g. 12.34 -> 1234.
func MinorUnits(major float64) int64 {
	return int64(math.Round(major * 100))
}

// MajorUnits is the display value of an amount held in minor units.
func MajorUnits(minor int64) float64 {
	return float64(minor) / 100
}

type Expense struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	CategoryID  int64      `json:"category_id"`
	Status      string     `json:"status"`
	AmountMinor int64      `json:"amount_minor"`
	Currency    string     `json:"currency"`
	ExpenseDate time.Time  `json:"expense_date"`
	Description *string    `json:"description,omitempty"`
	ReceiptFile *string    `json:"receipt_file,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	ReviewedBy  *int64     `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (e *Expense) AmountMajor() float64 {
	return MajorUnits(e.AmountMinor)
}

func (e *Expense) CanBeSubmitted() bool {
	return e.Status == StatusDraft
}

func (e *Expense) CanBeReviewed() bool {
	return e.Status == StatusSubmitted
}

func (e *Expense) IsTerminal() bool {
	return e.Status == StatusApproved || e.Status == StatusRejected
}

func ToDataModel(e *Expense, statusID int64) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:          e.ID,
		UserID:      e.UserID,
		CategoryID:  e.CategoryID,
		StatusID:    statusID,
		AmountMinor: e.AmountMinor,
		Currency:    e.Currency,
		ExpenseDate: e.ExpenseDate,
		Description: e.Description,
		ReceiptFile: e.ReceiptFile,
		SubmittedAt: e.SubmittedAt,
		ReviewedBy:  e.ReviewedBy,
		ReviewedAt:  e.ReviewedAt,
		CreatedAt:   e.CreatedAt,
	}
}

func FromDataModel(dm *expenseDatamodel.Expense, statusName string) *Expense {
	return &Expense{
		ID:          dm.ID,
		UserID:      dm.UserID,
		CategoryID:  dm.CategoryID,
		Status:      statusName,
		AmountMinor: dm.AmountMinor,
		Currency:    dm.Currency,
		ExpenseDate: dm.ExpenseDate,
		Description: dm.Description,
		ReceiptFile: dm.ReceiptFile,
		SubmittedAt: dm.SubmittedAt,
		ReviewedBy:  dm.ReviewedBy,
		ReviewedAt:  dm.ReviewedAt,
		CreatedAt:   dm.CreatedAt,
	}
}
