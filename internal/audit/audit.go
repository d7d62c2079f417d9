// Package audit records every expense lifecycle event to the
// structured log, giving operators a trail of who moved which claim
// and when without a dedicated audit store.
package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/expenseworks/expense-claims/internal/core/events"
)

type EventHandler struct {
	logger *slog.Logger
}

func NewEventHandler(logger *slog.Logger) *EventHandler {
	return &EventHandler{logger: logger}
}

func (h *EventHandler) HandleLifecycleEvent(ctx context.Context, event events.Event) error {
	lifecycleEvent, ok := event.(*events.ExpenseLifecycleEvent)
	if !ok {
		h.logger.Error("invalid event type for audit handler", "event_type", event.EventType())
		return fmt.Errorf("expected ExpenseLifecycleEvent, got %T", event)
	}

	attrs := []any{
		"event_id", lifecycleEvent.EventID(),
		"expense_id", lifecycleEvent.ExpenseID,
		"owner_id", lifecycleEvent.OwnerID,
		"amount_minor", lifecycleEvent.AmountMinor,
		"currency", lifecycleEvent.Currency,
		"status", lifecycleEvent.Status,
	}
	if lifecycleEvent.ReviewerID != nil {
		attrs = append(attrs, "reviewer_id", *lifecycleEvent.ReviewerID)
	}

	h.logger.Info(lifecycleEvent.EventType(), attrs...)
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	lifecycleEventTypes := []string{
		events.EventTypeExpenseCreated,
		events.EventTypeExpenseSubmitted,
		events.EventTypeExpenseApproved,
		events.EventTypeExpenseRejected,
		events.EventTypeExpenseDeleted,
	}

	for _, eventType := range lifecycleEventTypes {
		eventBus.Subscribe(eventType, h.HandleLifecycleEvent)
	}

	h.logger.Info("audit event handlers registered", "handlers", lifecycleEventTypes)
}
