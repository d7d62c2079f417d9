package category

import (
	"log/slog"

	categoryDatamodel "github.com/expenseworks/expense-claims/internal/core/datamodel/category"
)

type RepositoryAPI interface {
	GetAll() ([]*categoryDatamodel.ExpenseCategory, error)
	GetByName(name string) (*categoryDatamodel.ExpenseCategory, error)
	Exists(id int64) (bool, error)
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

// GetAllCategories returns active categories only; inactive ones are
// hidden from selection lists.
func (s *Service) GetAllCategories() ([]CategoryResponse, error) {
	dataCategories, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, err
	}

	var responses []CategoryResponse
	for _, dataCategory := range dataCategories {
		domainCategory := FromDataModel(dataCategory)
		if domainCategory.IsActiveCategory() {
			responses = append(responses, domainCategory.ToResponse())
		}
	}

	return responses, nil
}

// GetCategoryByName resolves an active category by exact name, or nil
// when absent.
func (s *Service) GetCategoryByName(name string) (*Category, error) {
	dataCategory, err := s.repo.GetByName(name)
	if err != nil {
		s.logger.Error("failed to look up category", "name", name, "error", err)
		return nil, err
	}
	if dataCategory == nil {
		return nil, nil
	}

	domainCategory := FromDataModel(dataCategory)
	if !domainCategory.IsActiveCategory() {
		return nil, nil
	}
	return domainCategory, nil
}
