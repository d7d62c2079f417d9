package category

import (
	categoryDatamodel "github.com/expenseworks/expense-claims/internal/core/datamodel/category"
)

type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

func (c *Category) IsActiveCategory() bool {
	return c.IsActive
}

func (c *Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		ID:   c.ID,
		Name: c.Name,
	}
}

func FromDataModel(dm *categoryDatamodel.ExpenseCategory) *Category {
	return &Category{
		ID:       dm.ID,
		Name:     dm.Name,
		IsActive: dm.IsActive,
	}
}
