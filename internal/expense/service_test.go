package expense_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/expenseworks/expense-claims/internal"
	"github.com/expenseworks/expense-claims/internal/core/events"
	"github.com/expenseworks/expense-claims/internal/expense"
)

func TestExpenseService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ExpenseService Suite")
}

// Mock repository for testing
type mockExpenseRepository struct {
	expenses        map[int64]*expense.Expense
	createError     error
	getError        error
	transitionError error
	nextID          int64
}

func newMockExpenseRepository() *mockExpenseRepository {
	return &mockExpenseRepository{
		expenses: make(map[int64]*expense.Expense),
		nextID:   1,
	}
}

func (m *mockExpenseRepository) Create(exp *expense.Expense) error {
	if m.createError != nil {
		return m.createError
	}
	exp.ID = m.nextID
	m.nextID++
	exp.CreatedAt = time.Now()
	m.expenses[exp.ID] = exp
	return nil
}

func (m *mockExpenseRepository) GetByID(id int64) (*expense.Expense, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	exp, exists := m.expenses[id]
	if !exists {
		return nil, expense.ErrExpenseNotFound
	}
	copied := *exp
	return &copied, nil
}

func (m *mockExpenseRepository) Delete(id int64) (bool, error) {
	if _, exists := m.expenses[id]; !exists {
		return false, nil
	}
	delete(m.expenses, id)
	return true, nil
}

func (m *mockExpenseRepository) Transition(id int64, fromStatus, toStatus string, updates map[string]interface{}) (bool, error) {
	if m.transitionError != nil {
		return false, m.transitionError
	}
	exp, exists := m.expenses[id]
	if !exists || exp.Status != fromStatus {
		return false, nil
	}
	exp.Status = toStatus
	if v, ok := updates["submitted_at"].(time.Time); ok {
		exp.SubmittedAt = &v
	}
	if v, ok := updates["reviewed_by"].(int64); ok {
		exp.ReviewedBy = &v
	}
	if v, ok := updates["reviewed_at"].(time.Time); ok {
		exp.ReviewedAt = &v
	}
	return true, nil
}

// Mock directory shared by users and categories
type mockDirectory struct {
	ids         map[int64]bool
	existsError error
}

func newMockDirectory(ids ...int64) *mockDirectory {
	m := &mockDirectory{ids: make(map[int64]bool)}
	for _, id := range ids {
		m.ids[id] = true
	}
	return m
}

func (m *mockDirectory) Exists(id int64) (bool, error) {
	if m.existsError != nil {
		return false, m.existsError
	}
	return m.ids[id], nil
}

// Mock event publisher recording published event types
type mockPublisher struct {
	published []string
}

func (m *mockPublisher) Publish(_ context.Context, event events.Event) error {
	m.published = append(m.published, event.EventType())
	return nil
}

var _ = Describe("ExpenseService", func() {
	var (
		service    *expense.Service
		mockRepo   *mockExpenseRepository
		users      *mockDirectory
		categories *mockDirectory
		bus        *mockPublisher
		logger     *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = newMockExpenseRepository()
		users = newMockDirectory(1, 2)
		categories = newMockDirectory(10)
		bus = &mockPublisher{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = expense.NewService(mockRepo, users, categories, bus, expense.AllowAnyReviewer, logger)
	})

	createDraft := func() *expense.Expense {
		exp, err := service.CreateExpense(expense.CreateExpenseDTO{
			UserID:      1,
			CategoryID:  10,
			Amount:      12.34,
			ExpenseDate: time.Now(),
		})
		Expect(err).ToNot(HaveOccurred())
		return exp
	}

	Describe("CreateExpense", func() {
		It("should create a draft expense with the amount in minor units", func() {
			exp, err := service.CreateExpense(expense.CreateExpenseDTO{
				UserID:      1,
				CategoryID:  10,
				Amount:      12.34,
				ExpenseDate: time.Now(),
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(exp.ID).To(BeNumerically(">", 0))
			Expect(exp.Status).To(Equal(expense.StatusDraft))
			Expect(exp.AmountMinor).To(Equal(int64(1234)))
			Expect(exp.Currency).To(Equal("GBP"))
			Expect(exp.SubmittedAt).To(BeNil())
			Expect(exp.ReviewedBy).To(BeNil())
			Expect(bus.published).To(ContainElement(events.EventTypeExpenseCreated))
		})

		It("should round half-up when converting to minor units", func() {
			exp, err := service.CreateExpense(expense.CreateExpenseDTO{
				UserID:      1,
				CategoryID:  10,
				Amount:      0.105,
				ExpenseDate: time.Now(),
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(exp.AmountMinor).To(Equal(int64(11)))
		})

		It("should accept a zero amount", func() {
			exp, err := service.CreateExpense(expense.CreateExpenseDTO{
				UserID:      1,
				CategoryID:  10,
				Amount:      0,
				ExpenseDate: time.Now(),
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(exp.AmountMinor).To(Equal(int64(0)))
		})

		It("should reject a negative amount", func() {
			_, err := service.CreateExpense(expense.CreateExpenseDTO{
				UserID:      1,
				CategoryID:  10,
				Amount:      -5,
				ExpenseDate: time.Now(),
			})

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should reject an unsupported currency", func() {
			_, err := service.CreateExpense(expense.CreateExpenseDTO{
				UserID:      1,
				CategoryID:  10,
				Amount:      10,
				Currency:    "USD",
				ExpenseDate: time.Now(),
			})

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should return not found for an unknown owner", func() {
			_, err := service.CreateExpense(expense.CreateExpenseDTO{
				UserID:      99,
				CategoryID:  10,
				Amount:      10,
				ExpenseDate: time.Now(),
			})

			Expect(err).To(Equal(expense.ErrOwnerNotFound))
		})

		It("should return not found for an unknown category", func() {
			_, err := service.CreateExpense(expense.CreateExpenseDTO{
				UserID:      1,
				CategoryID:  99,
				Amount:      10,
				ExpenseDate: time.Now(),
			})

			Expect(err).To(Equal(expense.ErrCategoryNotFound))
		})
	})

	Describe("SubmitExpense", func() {
		It("should move a draft to submitted and stamp submitted_at", func() {
			exp := createDraft()

			submitted, err := service.SubmitExpense(exp.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(submitted.Status).To(Equal(expense.StatusSubmitted))
			Expect(submitted.SubmittedAt).ToNot(BeNil())
			Expect(bus.published).To(ContainElement(events.EventTypeExpenseSubmitted))
		})

		It("should refuse to submit twice", func() {
			exp := createDraft()

			_, err := service.SubmitExpense(exp.ID)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.SubmitExpense(exp.ID)
			Expect(err).To(Equal(expense.ErrInvalidTransition))
		})

		It("should return not found for an unknown expense", func() {
			_, err := service.SubmitExpense(99999)
			Expect(err).To(Equal(expense.ErrExpenseNotFound))
		})

		It("should refuse when another actor already moved it out of draft", func() {
			exp := createDraft()

			mockRepo.expenses[exp.ID].Status = expense.StatusSubmitted

			_, err := service.SubmitExpense(exp.ID)
			Expect(err).To(Equal(expense.ErrInvalidTransition))
		})
	})

	Describe("ApproveExpense", func() {
		It("should approve a submitted expense and record the reviewer", func() {
			exp := createDraft()
			_, err := service.SubmitExpense(exp.ID)
			Expect(err).ToNot(HaveOccurred())

			approved, err := service.ApproveExpense(exp.ID, 2)

			Expect(err).ToNot(HaveOccurred())
			Expect(approved.Status).To(Equal(expense.StatusApproved))
			Expect(approved.ReviewedBy).ToNot(BeNil())
			Expect(*approved.ReviewedBy).To(Equal(int64(2)))
			Expect(approved.ReviewedAt).ToNot(BeNil())
			Expect(bus.published).To(ContainElement(events.EventTypeExpenseApproved))
		})

		It("should refuse to approve a draft", func() {
			exp := createDraft()

			_, err := service.ApproveExpense(exp.ID, 2)
			Expect(err).To(Equal(expense.ErrInvalidTransition))
		})

		It("should refuse to approve an already approved expense", func() {
			exp := createDraft()
			_, err := service.SubmitExpense(exp.ID)
			Expect(err).ToNot(HaveOccurred())
			_, err = service.ApproveExpense(exp.ID, 2)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ApproveExpense(exp.ID, 2)
			Expect(err).To(Equal(expense.ErrInvalidTransition))
		})

		It("should return not found for an unknown reviewer", func() {
			exp := createDraft()
			_, err := service.SubmitExpense(exp.ID)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ApproveExpense(exp.ID, 99)
			Expect(err).To(Equal(expense.ErrReviewerNotFound))
		})

		It("should consult the review policy", func() {
			denyOwner := func(exp *expense.Expense, reviewerID int64) error {
				if exp.UserID == reviewerID {
					return errors.New("reviewer cannot review their own expense")
				}
				return nil
			}
			service = expense.NewService(mockRepo, users, categories, bus, denyOwner, logger)

			exp := createDraft()
			_, err := service.SubmitExpense(exp.ID)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ApproveExpense(exp.ID, exp.UserID)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))

			_, err = service.ApproveExpense(exp.ID, 2)
			Expect(err).ToNot(HaveOccurred())
		})
	})

	Describe("RejectExpense", func() {
		It("should reject a submitted expense and record the reviewer", func() {
			exp := createDraft()
			_, err := service.SubmitExpense(exp.ID)
			Expect(err).ToNot(HaveOccurred())

			rejected, err := service.RejectExpense(exp.ID, 2)

			Expect(err).ToNot(HaveOccurred())
			Expect(rejected.Status).To(Equal(expense.StatusRejected))
			Expect(rejected.ReviewedBy).ToNot(BeNil())
			Expect(bus.published).To(ContainElement(events.EventTypeExpenseRejected))
		})

		It("should refuse to reject an approved expense", func() {
			exp := createDraft()
			_, err := service.SubmitExpense(exp.ID)
			Expect(err).ToNot(HaveOccurred())
			_, err = service.ApproveExpense(exp.ID, 2)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.RejectExpense(exp.ID, 2)
			Expect(err).To(Equal(expense.ErrInvalidTransition))
		})
	})

	Describe("DeleteExpense", func() {
		It("should delete an expense in any state", func() {
			exp := createDraft()

			err := service.DeleteExpense(exp.ID)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.GetExpense(exp.ID)
			Expect(err).To(Equal(expense.ErrExpenseNotFound))
			Expect(bus.published).To(ContainElement(events.EventTypeExpenseDeleted))
		})

		It("should return not found for an unknown expense", func() {
			err := service.DeleteExpense(99999)
			Expect(err).To(Equal(expense.ErrExpenseNotFound))
		})
	})

	Describe("BulkApprove", func() {
		It("should approve every submitted expense in the set", func() {
			first := createDraft()
			second := createDraft()
			_, err := service.SubmitExpense(first.ID)
			Expect(err).ToNot(HaveOccurred())
			_, err = service.SubmitExpense(second.ID)
			Expect(err).ToNot(HaveOccurred())

			approved, err := service.BulkApprove([]int64{first.ID, second.ID}, 2)

			Expect(err).ToNot(HaveOccurred())
			Expect(approved).To(Equal(2))
		})

		It("should silently skip expenses not in submitted state", func() {
			draft := createDraft()
			submitted := createDraft()
			_, err := service.SubmitExpense(submitted.ID)
			Expect(err).ToNot(HaveOccurred())

			approved, err := service.BulkApprove([]int64{draft.ID, submitted.ID}, 2)

			Expect(err).ToNot(HaveOccurred())
			Expect(approved).To(Equal(1))

			kept, err := service.GetExpense(draft.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(kept.Status).To(Equal(expense.StatusDraft))
		})

		It("should skip ids that do not exist", func() {
			submitted := createDraft()
			_, err := service.SubmitExpense(submitted.ID)
			Expect(err).ToNot(HaveOccurred())

			approved, err := service.BulkApprove([]int64{99999, submitted.ID}, 2)

			Expect(err).ToNot(HaveOccurred())
			Expect(approved).To(Equal(1))
		})

		It("should return not found for an unknown reviewer", func() {
			_, err := service.BulkApprove([]int64{1}, 99)
			Expect(err).To(Equal(expense.ErrReviewerNotFound))
		})
	})

	Describe("full lifecycle", func() {
		It("should walk draft through submission to approval and stay terminal", func() {
			exp := createDraft()
			Expect(exp.Status).To(Equal(expense.StatusDraft))

			submitted, err := service.SubmitExpense(exp.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(submitted.Status).To(Equal(expense.StatusSubmitted))

			approved, err := service.ApproveExpense(exp.ID, 2)
			Expect(err).ToNot(HaveOccurred())
			Expect(approved.Status).To(Equal(expense.StatusApproved))
			Expect(approved.IsTerminal()).To(BeTrue())

			_, err = service.RejectExpense(exp.ID, 2)
			Expect(err).To(Equal(expense.ErrInvalidTransition))

			_, err = service.SubmitExpense(exp.ID)
			Expect(err).To(Equal(expense.ErrInvalidTransition))
		})
	})
})
