package reporting

import (
	"log/slog"
)

// RepositoryAPI produces read-only joined views over the expense table.
type RepositoryAPI interface {
	ListExpenses(statusFilter string, limit int) ([]ExpenseView, error)
	GetExpense(id int64) (*ExpenseDetailView, error)
	ListPendingForReview(textFilter string) ([]ExpenseView, error)
	Summarize() (*Summary, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListExpenses returns all expenses newest-first, optionally filtered
// by an exact case-insensitive status name. An unknown filter simply
// matches nothing. limit <= 0 means no cap.
func (s *Service) ListExpenses(statusFilter string, limit int) ([]ExpenseView, error) {
	views, err := s.repo.ListExpenses(statusFilter, limit)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err, "status_filter", statusFilter)
		return nil, err
	}
	return views, nil
}

func (s *Service) GetExpense(id int64) (*ExpenseDetailView, error) {
	view, err := s.repo.GetExpense(id)
	if err != nil {
		s.logger.Error("failed to get expense view", "error", err, "expense_id", id)
		return nil, err
	}
	return view, nil
}

// ListPendingForReview returns the Submitted queue oldest-first so
// reviewers work first-in-first-out. The optional filter is a
// case-insensitive substring match on category name or description.
func (s *Service) ListPendingForReview(textFilter string) ([]ExpenseView, error) {
	views, err := s.repo.ListPendingForReview(textFilter)
	if err != nil {
		s.logger.Error("failed to list pending expenses", "error", err, "filter", textFilter)
		return nil, err
	}
	return views, nil
}

func (s *Service) Summarize() (*Summary, error) {
	summary, err := s.repo.Summarize()
	if err != nil {
		s.logger.Error("failed to summarize expenses", "error", err)
		return nil, err
	}
	return summary, nil
}
