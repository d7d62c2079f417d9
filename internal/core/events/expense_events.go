package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeExpenseCreated   = "expense.created"
	EventTypeExpenseSubmitted = "expense.submitted"
	EventTypeExpenseApproved  = "expense.approved"
	EventTypeExpenseRejected  = "expense.rejected"
	EventTypeExpenseDeleted   = "expense.deleted"
)

type ExpenseLifecycleEvent struct {
	BaseEvent
	ExpenseID   int64  `json:"expense_id"`
	OwnerID     int64  `json:"owner_id"`
	ReviewerID  *int64 `json:"reviewer_id,omitempty"`
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
}

func newLifecycleEvent(eventType string, expenseID, ownerID, amountMinor int64, currency, status string, reviewerID *int64) *ExpenseLifecycleEvent {
	data := map[string]interface{}{
		"expense_id":   expenseID,
		"owner_id":     ownerID,
		"amount_minor": amountMinor,
		"currency":     currency,
		"status":       status,
	}
	if reviewerID != nil {
		data["reviewer_id"] = *reviewerID
	}
	return &ExpenseLifecycleEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data:      data,
		},
		ExpenseID:   expenseID,
		OwnerID:     ownerID,
		ReviewerID:  reviewerID,
		AmountMinor: amountMinor,
		Currency:    currency,
		Status:      status,
	}
}

func NewExpenseCreatedEvent(expenseID, ownerID, amountMinor int64, currency string) *ExpenseLifecycleEvent {
	return newLifecycleEvent(EventTypeExpenseCreated, expenseID, ownerID, amountMinor, currency, "Draft", nil)
}

func NewExpenseSubmittedEvent(expenseID, ownerID, amountMinor int64, currency string) *ExpenseLifecycleEvent {
	return newLifecycleEvent(EventTypeExpenseSubmitted, expenseID, ownerID, amountMinor, currency, "Submitted", nil)
}

func NewExpenseApprovedEvent(expenseID, ownerID, amountMinor int64, currency string, reviewerID int64) *ExpenseLifecycleEvent {
	return newLifecycleEvent(EventTypeExpenseApproved, expenseID, ownerID, amountMinor, currency, "Approved", &reviewerID)
}

func NewExpenseRejectedEvent(expenseID, ownerID, amountMinor int64, currency string, reviewerID int64) *ExpenseLifecycleEvent {
	return newLifecycleEvent(EventTypeExpenseRejected, expenseID, ownerID, amountMinor, currency, "Rejected", &reviewerID)
}

func NewExpenseDeletedEvent(expenseID, ownerID, amountMinor int64, currency, status string) *ExpenseLifecycleEvent {
	return newLifecycleEvent(EventTypeExpenseDeleted, expenseID, ownerID, amountMinor, currency, status, nil)
}
