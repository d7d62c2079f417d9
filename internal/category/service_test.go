package category_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/expenseworks/expense-claims/internal/category"
	categoryDatamodel "github.com/expenseworks/expense-claims/internal/core/datamodel/category"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCategoryService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Category Service Suite")
}

// MockRepository implements category.RepositoryAPI for testing
type MockRepository struct {
	categories map[string]*categoryDatamodel.ExpenseCategory
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		categories: make(map[string]*categoryDatamodel.ExpenseCategory),
	}
}

func (m *MockRepository) GetAll() ([]*categoryDatamodel.ExpenseCategory, error) {
	if m.shouldFail {
		return nil, m.failError
	}

	var result []*categoryDatamodel.ExpenseCategory
	for _, cat := range m.categories {
		result = append(result, cat)
	}
	return result, nil
}

func (m *MockRepository) GetByName(name string) (*categoryDatamodel.ExpenseCategory, error) {
	if m.shouldFail {
		return nil, m.failError
	}

	cat, exists := m.categories[name]
	if !exists {
		return nil, nil
	}
	return cat, nil
}

func (m *MockRepository) Exists(id int64) (bool, error) {
	if m.shouldFail {
		return false, m.failError
	}
	for _, cat := range m.categories {
		if cat.ID == id {
			return true, nil
		}
	}
	return false, nil
}

var _ = Describe("CategoryService", func() {
	var (
		service  *category.Service
		mockRepo *MockRepository
		logger   *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = category.NewService(mockRepo, logger)
	})

	Describe("GetAllCategories", func() {
		It("should return only active categories", func() {
			mockRepo.categories["Travel"] = &categoryDatamodel.ExpenseCategory{ID: 1, Name: "Travel", IsActive: true}
			mockRepo.categories["Meals"] = &categoryDatamodel.ExpenseCategory{ID: 2, Name: "Meals", IsActive: true}
			mockRepo.categories["Legacy"] = &categoryDatamodel.ExpenseCategory{ID: 3, Name: "Legacy", IsActive: false}

			responses, err := service.GetAllCategories()

			Expect(err).ToNot(HaveOccurred())
			Expect(responses).To(HaveLen(2))
			names := []string{responses[0].Name, responses[1].Name}
			Expect(names).To(ContainElements("Travel", "Meals"))
			Expect(names).ToNot(ContainElement("Legacy"))
		})

		It("should return an empty result when there are no categories", func() {
			responses, err := service.GetAllCategories()

			Expect(err).ToNot(HaveOccurred())
			Expect(responses).To(BeEmpty())
		})

		It("should propagate repository errors", func() {
			mockRepo.shouldFail = true
			mockRepo.failError = errors.New("database connection failed")

			responses, err := service.GetAllCategories()

			Expect(err).To(HaveOccurred())
			Expect(responses).To(BeNil())
		})
	})

	Describe("GetCategoryByName", func() {
		BeforeEach(func() {
			mockRepo.categories["Travel"] = &categoryDatamodel.ExpenseCategory{ID: 1, Name: "Travel", IsActive: true}
			mockRepo.categories["Legacy"] = &categoryDatamodel.ExpenseCategory{ID: 3, Name: "Legacy", IsActive: false}
		})

		It("should resolve an active category by exact name", func() {
			cat, err := service.GetCategoryByName("Travel")

			Expect(err).ToNot(HaveOccurred())
			Expect(cat).ToNot(BeNil())
			Expect(cat.ID).To(Equal(int64(1)))
		})

		It("should return nil for an unknown name", func() {
			cat, err := service.GetCategoryByName("Yachts")

			Expect(err).ToNot(HaveOccurred())
			Expect(cat).To(BeNil())
		})

		It("should return nil for an inactive category", func() {
			cat, err := service.GetCategoryByName("Legacy")

			Expect(err).ToNot(HaveOccurred())
			Expect(cat).To(BeNil())
		})
	})
})
