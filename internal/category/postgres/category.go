package postgres

import (
	"errors"

	"github.com/expenseworks/expense-claims/internal"
	"github.com/expenseworks/expense-claims/internal/category"
	categoryDatamodel "github.com/expenseworks/expense-claims/internal/core/datamodel/category"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetAll() ([]*categoryDatamodel.ExpenseCategory, error) {
	var categories []*categoryDatamodel.ExpenseCategory
	err := r.db.Order("name ASC").Find(&categories).Error
	if err != nil {
		return nil, internal.NewStoreUnavailableError("failed to list categories", err)
	}
	return categories, nil
}

func (r *CategoryRepository) GetByName(name string) (*categoryDatamodel.ExpenseCategory, error) {
	var cat categoryDatamodel.ExpenseCategory
	err := r.db.Where("name = ?", name).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, internal.NewStoreUnavailableError("failed to load category", err)
	}
	return &cat, nil
}

func (r *CategoryRepository) Exists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&categoryDatamodel.ExpenseCategory{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, internal.NewStoreUnavailableError("failed to check category", err)
	}
	return count > 0, nil
}
