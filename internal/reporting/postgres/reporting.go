package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/expenseworks/expense-claims/internal"
	"github.com/expenseworks/expense-claims/internal/expense"
	"github.com/expenseworks/expense-claims/internal/reporting"
	"gorm.io/gorm"
)

// ReportingRepository implements reporting.RepositoryAPI with joined
// read queries; it never writes.
type ReportingRepository struct {
	db *gorm.DB
}

func NewReportingRepository(db *gorm.DB) reporting.RepositoryAPI {
	return &ReportingRepository{db: db}
}

type viewRow struct {
	ID           int64
	ExpenseDate  time.Time
	Category     string
	AmountMinor  int64
	Currency     string
	Description  *string
	Status       string
	OwnerName    string
	SubmittedAt  *time.Time
	ReviewedAt   *time.Time
	ReviewerName *string
}

func (row *viewRow) toView() reporting.ExpenseView {
	return reporting.ExpenseView{
		ID:          row.ID,
		ExpenseDate: row.ExpenseDate,
		Category:    row.Category,
		Amount:      expense.MajorUnits(row.AmountMinor),
		Currency:    row.Currency,
		Description: row.Description,
		Status:      row.Status,
		OwnerName:   row.OwnerName,
		SubmittedAt: row.SubmittedAt,
		ReviewedAt:  row.ReviewedAt,
	}
}

const viewColumns = `expenses.id,
	expenses.expense_date,
	expense_categories.name AS category,
	expenses.amount_minor,
	expenses.currency,
	expenses.description,
	expense_statuses.name AS status,
	users.name AS owner_name,
	expenses.submitted_at,
	expenses.reviewed_at`

func (r *ReportingRepository) baseQuery() *gorm.DB {
	return r.db.Table("expenses").
		Joins("JOIN users ON users.id = expenses.user_id").
		Joins("JOIN expense_categories ON expense_categories.id = expenses.category_id").
		Joins("JOIN expense_statuses ON expense_statuses.id = expenses.status_id")
}

func (r *ReportingRepository) ListExpenses(statusFilter string, limit int) ([]reporting.ExpenseView, error) {
	q := r.baseQuery().
		Select(viewColumns).
		Order("expenses.expense_date DESC, expenses.id ASC")

	if statusFilter != "" {
		q = q.Where("LOWER(expense_statuses.name) = LOWER(?)", statusFilter)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []viewRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, internal.NewStoreUnavailableError("failed to list expenses", err)
	}

	views := make([]reporting.ExpenseView, len(rows))
	for i := range rows {
		views[i] = rows[i].toView()
	}
	return views, nil
}

func (r *ReportingRepository) GetExpense(id int64) (*reporting.ExpenseDetailView, error) {
	var row viewRow
	err := r.baseQuery().
		Select(viewColumns+", reviewers.name AS reviewer_name").
		Joins("LEFT JOIN users AS reviewers ON reviewers.id = expenses.reviewed_by").
		Where("expenses.id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reporting.ErrExpenseNotFound
		}
		return nil, internal.NewStoreUnavailableError("failed to load expense view", err)
	}

	return &reporting.ExpenseDetailView{
		ExpenseView:  row.toView(),
		ReviewerName: row.ReviewerName,
	}, nil
}

func (r *ReportingRepository) ListPendingForReview(textFilter string) ([]reporting.ExpenseView, error) {
	q := r.baseQuery().
		Select(viewColumns).
		Where("expense_statuses.name = ?", expense.StatusSubmitted).
		Order("expenses.submitted_at ASC, expenses.id ASC") // FIFO review queue

	if textFilter != "" {
		// null descriptions compare as empty and never match a pattern
		pattern := "%" + strings.ToLower(textFilter) + "%"
		q = q.Where("LOWER(expense_categories.name) LIKE ? OR LOWER(COALESCE(expenses.description, '')) LIKE ?", pattern, pattern)
	}

	var rows []viewRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, internal.NewStoreUnavailableError("failed to list pending expenses", err)
	}

	views := make([]reporting.ExpenseView, len(rows))
	for i := range rows {
		views[i] = rows[i].toView()
	}
	return views, nil
}

type statusAggRow struct {
	Status     string
	Count      int64
	TotalMinor int64
}

func (r *ReportingRepository) Summarize() (*reporting.Summary, error) {
	var rows []statusAggRow
	err := r.db.Table("expenses").
		Select("expense_statuses.name AS status, COUNT(*) AS count, COALESCE(SUM(expenses.amount_minor), 0) AS total_minor").
		Joins("JOIN expense_statuses ON expense_statuses.id = expenses.status_id").
		Group("expense_statuses.name").
		Order("expense_statuses.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, internal.NewStoreUnavailableError("failed to summarize expenses", err)
	}

	summary := &reporting.Summary{ByStatus: make([]reporting.StatusSummary, 0, len(rows))}
	var totalMinor int64
	for _, row := range rows {
		summary.TotalExpenses += row.Count
		totalMinor += row.TotalMinor
		summary.ByStatus = append(summary.ByStatus, reporting.StatusSummary{
			Status:      row.Status,
			Count:       row.Count,
			TotalAmount: expense.MajorUnits(row.TotalMinor),
		})
	}
	summary.TotalAmount = expense.MajorUnits(totalMinor)

	return summary, nil
}
