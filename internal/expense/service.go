package expense

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/expenseworks/expense-claims/internal"
	"github.com/expenseworks/expense-claims/internal/core/events"
)

var (
	ErrExpenseNotFound   = internal.NewNotFoundError("expense not found", internal.ErrCodeExpenseNotFound)
	ErrOwnerNotFound     = internal.NewNotFoundError("owner not found", internal.ErrCodeUserNotFound)
	ErrCategoryNotFound  = internal.NewNotFoundError("category not found", internal.ErrCodeCategoryNotFound)
	ErrReviewerNotFound  = internal.NewNotFoundError("reviewer not found", internal.ErrCodeReviewerNotFound)
	ErrInvalidTransition = internal.NewInvalidTransitionError("expense status does not allow this transition")
)

// RepositoryAPI is the data access contract for expenses. Transition
// performs the guard-and-update as a single conditional write: the row
// is only touched while it still holds fromStatus, so two racing
// reviewers cannot both win.
type RepositoryAPI interface {
	Create(exp *Expense) error
	GetByID(id int64) (*Expense, error)
	Delete(id int64) (bool, error)
	Transition(id int64, fromStatus, toStatus string, updates map[string]interface{}) (bool, error)
}

type UserDirectory interface {
	Exists(id int64) (bool, error)
}

type CategoryDirectory interface {
	Exists(id int64) (bool, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// ReviewPolicy is consulted before approve/reject. The default permits
// any reviewer, matching historical behavior; installations that want
// reviewer-is-not-owner can supply a stricter policy.
type ReviewPolicy func(exp *Expense, reviewerID int64) error

func AllowAnyReviewer(_ *Expense, _ int64) error {
	return nil
}

// Service is the expense lifecycle engine: it owns every mutation of an
// expense's status and the fields each transition sets.
type Service struct {
	repo       RepositoryAPI
	users      UserDirectory
	categories CategoryDirectory
	bus        EventPublisher
	policy     ReviewPolicy
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, users UserDirectory, categories CategoryDirectory, bus EventPublisher, policy ReviewPolicy, logger *slog.Logger) *Service {
	if policy == nil {
		policy = AllowAnyReviewer
	}
	return &Service{
		repo:       repo,
		users:      users,
		categories: categories,
		bus:        bus,
		policy:     policy,
		logger:     logger,
	}
}

// CreateExpense stores a new expense in Draft with no submission or
// review timestamps. Amount arrives in major units and is persisted in
// minor units.
func (s *Service) CreateExpense(dto CreateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("expense validation failed", "error", err, "user_id", dto.UserID)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	ownerExists, err := s.users.Exists(dto.UserID)
	if err != nil {
		return nil, err
	}
	if !ownerExists {
		return nil, ErrOwnerNotFound
	}

	categoryExists, err := s.categories.Exists(dto.CategoryID)
	if err != nil {
		return nil, err
	}
	if !categoryExists {
		return nil, ErrCategoryNotFound
	}

	currency := strings.ToUpper(dto.Currency)
	if currency == "" {
		currency = "GBP"
	}

	exp := &Expense{
		UserID:      dto.UserID,
		CategoryID:  dto.CategoryID,
		Status:      StatusDraft,
		AmountMinor: MinorUnits(dto.Amount),
		Currency:    currency,
		ExpenseDate: dto.ExpenseDate,
		Description: dto.Description,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(exp); err != nil {
		s.logger.Error("failed to create expense", "error", err, "user_id", dto.UserID)
		return nil, err
	}

	s.publish(events.NewExpenseCreatedEvent(exp.ID, exp.UserID, exp.AmountMinor, exp.Currency))

	s.logger.Info("expense created",
		"expense_id", exp.ID,
		"user_id", exp.UserID,
		"amount_minor", exp.AmountMinor,
		"status", exp.Status)

	return exp, nil
}

// SubmitExpense moves a Draft expense to Submitted, stamping
// submitted_at exactly once.
func (s *Service) SubmitExpense(expenseID int64) (*Expense, error) {
	exp, err := s.repo.GetByID(expenseID)
	if err != nil {
		return nil, err
	}

	if !exp.CanBeSubmitted() {
		s.logger.Warn("cannot submit expense in current status",
			"expense_id", expenseID,
			"current_status", exp.Status)
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	ok, err := s.repo.Transition(expenseID, StatusDraft, StatusSubmitted, map[string]interface{}{
		"submitted_at": now,
	})
	if err != nil {
		s.logger.Error("failed to submit expense", "error", err, "expense_id", expenseID)
		return nil, err
	}
	if !ok {
		// lost a race: someone moved it out of Draft between read and write
		return nil, ErrInvalidTransition
	}

	exp.Status = StatusSubmitted
	exp.SubmittedAt = &now

	s.publish(events.NewExpenseSubmittedEvent(exp.ID, exp.UserID, exp.AmountMinor, exp.Currency))

	s.logger.Info("expense submitted", "expense_id", expenseID, "submitted_at", now)
	return exp, nil
}

// ApproveExpense moves a Submitted expense to Approved, setting
// reviewed_by and reviewed_at together.
func (s *Service) ApproveExpense(expenseID, reviewerID int64) (*Expense, error) {
	return s.review(expenseID, reviewerID, StatusApproved)
}

// RejectExpense moves a Submitted expense to Rejected, setting
// reviewed_by and reviewed_at together.
func (s *Service) RejectExpense(expenseID, reviewerID int64) (*Expense, error) {
	return s.review(expenseID, reviewerID, StatusRejected)
}

func (s *Service) review(expenseID, reviewerID int64, target string) (*Expense, error) {
	reviewerExists, err := s.users.Exists(reviewerID)
	if err != nil {
		return nil, err
	}
	if !reviewerExists {
		return nil, ErrReviewerNotFound
	}

	exp, err := s.repo.GetByID(expenseID)
	if err != nil {
		return nil, err
	}

	if !exp.CanBeReviewed() {
		s.logger.Warn("cannot review expense in current status",
			"expense_id", expenseID,
			"current_status", exp.Status,
			"target_status", target)
		return nil, ErrInvalidTransition
	}

	if err := s.policy(exp, reviewerID); err != nil {
		s.logger.Warn("review rejected by policy", "expense_id", expenseID, "reviewer_id", reviewerID, "error", err)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	now := time.Now()
	ok, err := s.repo.Transition(expenseID, StatusSubmitted, target, map[string]interface{}{
		"reviewed_by": reviewerID,
		"reviewed_at": now,
	})
	if err != nil {
		s.logger.Error("failed to review expense", "error", err, "expense_id", expenseID, "target_status", target)
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	exp.Status = target
	exp.ReviewedBy = &reviewerID
	exp.ReviewedAt = &now

	if target == StatusApproved {
		s.publish(events.NewExpenseApprovedEvent(exp.ID, exp.UserID, exp.AmountMinor, exp.Currency, reviewerID))
	} else {
		s.publish(events.NewExpenseRejectedEvent(exp.ID, exp.UserID, exp.AmountMinor, exp.Currency, reviewerID))
	}

	s.logger.Info("expense reviewed",
		"expense_id", expenseID,
		"reviewer_id", reviewerID,
		"status", target)

	return exp, nil
}

// DeleteExpense removes an expense regardless of its state.
func (s *Service) DeleteExpense(expenseID int64) error {
	exp, err := s.repo.GetByID(expenseID)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(expenseID)
	if err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", expenseID)
		return err
	}
	if !deleted {
		return ErrExpenseNotFound
	}

	s.publish(events.NewExpenseDeletedEvent(exp.ID, exp.UserID, exp.AmountMinor, exp.Currency, exp.Status))

	s.logger.Info("expense deleted", "expense_id", expenseID, "status_at_delete", exp.Status)
	return nil
}

// BulkApprove applies Approve semantics to every id in the set. Ids that
// are missing or not in Submitted state are skipped, not failed; batch
// approval screens depend on that. Each row commits independently, so a
// mid-batch failure leaves already-approved rows correct.
func (s *Service) BulkApprove(expenseIDs []int64, reviewerID int64) (int, error) {
	reviewerExists, err := s.users.Exists(reviewerID)
	if err != nil {
		return 0, err
	}
	if !reviewerExists {
		return 0, ErrReviewerNotFound
	}

	approved := 0
	for _, id := range expenseIDs {
		exp, err := s.repo.GetByID(id)
		if err != nil {
			if appErr, isApp := internal.IsAppError(err); isApp && appErr.Type == internal.ErrorTypeNotFound {
				s.logger.Warn("bulk approve: expense missing, skipping", "expense_id", id)
				continue
			}
			return approved, err
		}

		if !exp.CanBeReviewed() {
			s.logger.Debug("bulk approve: skipping expense not in submitted state",
				"expense_id", id, "status", exp.Status)
			continue
		}

		if err := s.policy(exp, reviewerID); err != nil {
			s.logger.Warn("bulk approve: policy skipped expense", "expense_id", id, "error", err)
			continue
		}

		now := time.Now()
		ok, err := s.repo.Transition(id, StatusSubmitted, StatusApproved, map[string]interface{}{
			"reviewed_by": reviewerID,
			"reviewed_at": now,
		})
		if err != nil {
			return approved, err
		}
		if !ok {
			continue
		}

		approved++
		s.publish(events.NewExpenseApprovedEvent(exp.ID, exp.UserID, exp.AmountMinor, exp.Currency, reviewerID))
	}

	s.logger.Info("bulk approve finished",
		"requested", len(expenseIDs),
		"approved", approved,
		"reviewer_id", reviewerID)

	return approved, nil
}

// GetExpense returns the expense with its status name resolved.
func (s *Service) GetExpense(expenseID int64) (*Expense, error) {
	return s.repo.GetByID(expenseID)
}

func (s *Service) publish(event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(context.Background(), event); err != nil {
		s.logger.Error("failed to publish lifecycle event", "event_type", event.EventType(), "error", err)
	}
}
