package postgres

import (
	"errors"
	"time"

	"github.com/expenseworks/expense-claims/internal"
	expenseDatamodel "github.com/expenseworks/expense-claims/internal/core/datamodel/expense"
	statusDatamodel "github.com/expenseworks/expense-claims/internal/core/datamodel/status"
	"github.com/expenseworks/expense-claims/internal/expense"
	"gorm.io/gorm"
)

// ExpenseRepository implements expense.RepositoryAPI using GORM.
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.RepositoryAPI {
	return &ExpenseRepository{db: db}
}

type expenseRow struct {
	ID          int64
	UserID      int64
	CategoryID  int64
	StatusID    int64
	AmountMinor int64
	Currency    string
	ExpenseDate time.Time
	Description *string
	ReceiptFile *string
	SubmittedAt *time.Time
	ReviewedBy  *int64
	ReviewedAt  *time.Time
	CreatedAt   time.Time
	StatusName  string
}

func (row *expenseRow) toDomain() *expense.Expense {
	dm := expenseDatamodel.Expense{
		ID:          row.ID,
		UserID:      row.UserID,
		CategoryID:  row.CategoryID,
		StatusID:    row.StatusID,
		AmountMinor: row.AmountMinor,
		Currency:    row.Currency,
		ExpenseDate: row.ExpenseDate,
		Description: row.Description,
		ReceiptFile: row.ReceiptFile,
		SubmittedAt: row.SubmittedAt,
		ReviewedBy:  row.ReviewedBy,
		ReviewedAt:  row.ReviewedAt,
		CreatedAt:   row.CreatedAt,
	}
	return expense.FromDataModel(&dm, row.StatusName)
}

// statusID resolves a status name to its reference-table id. Status
// rows are seeded by migration; a missing name is a deployment fault.
func (r *ExpenseRepository) statusID(name string) (int64, error) {
	var st statusDatamodel.ExpenseStatus
	err := r.db.Where("name = ?", name).First(&st).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, internal.NewNotFoundError("status "+name+" not found", internal.ErrCodeStatusNotFound)
		}
		return 0, internal.NewStoreUnavailableError("failed to resolve status", err)
	}
	return st.ID, nil
}

// Create inserts the expense in Draft and fills in the generated id.
func (r *ExpenseRepository) Create(exp *expense.Expense) error {
	draftID, err := r.statusID(expense.StatusDraft)
	if err != nil {
		return err
	}

	dm := expense.ToDataModel(exp, draftID)
	if err := r.db.Create(dm).Error; err != nil {
		return internal.NewStoreUnavailableError("failed to insert expense", err)
	}

	exp.ID = dm.ID
	exp.CreatedAt = dm.CreatedAt
	return nil
}

func (r *ExpenseRepository) GetByID(id int64) (*expense.Expense, error) {
	var row expenseRow
	err := r.db.Table("expenses").
		Select("expenses.*, expense_statuses.name AS status_name").
		Joins("JOIN expense_statuses ON expense_statuses.id = expenses.status_id").
		Where("expenses.id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, expense.ErrExpenseNotFound
		}
		return nil, internal.NewStoreUnavailableError("failed to load expense", err)
	}
	return row.toDomain(), nil
}

func (r *ExpenseRepository) Delete(id int64) (bool, error) {
	res := r.db.Where("id = ?", id).Delete(&expenseDatamodel.Expense{})
	if res.Error != nil {
		return false, internal.NewStoreUnavailableError("failed to delete expense", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Transition performs the lifecycle guard-and-update as one conditional
// UPDATE: the row only changes while it still holds fromStatus. Zero
// rows affected means the guard failed (row gone or status moved).
func (r *ExpenseRepository) Transition(id int64, fromStatus, toStatus string, updates map[string]interface{}) (bool, error) {
	fromID, err := r.statusID(fromStatus)
	if err != nil {
		return false, err
	}
	toID, err := r.statusID(toStatus)
	if err != nil {
		return false, err
	}

	values := map[string]interface{}{"status_id": toID}
	for col, v := range updates {
		values[col] = v
	}

	res := r.db.Model(&expenseDatamodel.Expense{}).
		Where("id = ? AND status_id = ?", id, fromID).
		Updates(values)
	if res.Error != nil {
		return false, internal.NewStoreUnavailableError("failed to update expense status", res.Error)
	}
	return res.RowsAffected > 0, nil
}
