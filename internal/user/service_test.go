package user_test

import (
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/expenseworks/expense-claims/internal/user"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "UserService Suite")
}

type mockUserRepository struct {
	users    map[int64]*user.UserDetailResponse
	managers map[int64]*int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:    make(map[int64]*user.UserDetailResponse),
		managers: make(map[int64]*int64),
	}
}

func (m *mockUserRepository) addUser(id int64, name string, managerID *int64) {
	m.users[id] = &user.UserDetailResponse{
		UserResponse: user.UserResponse{ID: id, Name: name},
	}
	m.managers[id] = managerID
}

func (m *mockUserRepository) GetActiveUsers() ([]user.UserResponse, error) {
	var result []user.UserResponse
	for _, u := range m.users {
		result = append(result, u.UserResponse)
	}
	return result, nil
}

func (m *mockUserRepository) GetByID(id int64) (*user.UserDetailResponse, error) {
	u, exists := m.users[id]
	if !exists {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetManagerID(id int64) (*int64, error) {
	return m.managers[id], nil
}

func (m *mockUserRepository) FirstUserID() (int64, error) {
	var lowest int64
	for id := range m.users {
		if lowest == 0 || id < lowest {
			lowest = id
		}
	}
	if lowest == 0 {
		return 0, user.ErrUserNotFound
	}
	return lowest, nil
}

func (m *mockUserRepository) Exists(id int64) (bool, error) {
	_, exists := m.users[id]
	return exists, nil
}

var _ = Describe("UserService", func() {
	var (
		service  *user.Service
		mockRepo *mockUserRepository
	)

	idPtr := func(id int64) *int64 { return &id }

	BeforeEach(func() {
		mockRepo = newMockUserRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(mockRepo, logger)
	})

	Describe("GetUser", func() {
		It("should walk manager references to the top", func() {
			mockRepo.addUser(3, "Director", nil)
			mockRepo.addUser(2, "Manager", idPtr(3))
			mockRepo.addUser(1, "Employee", idPtr(2))

			detail, err := service.GetUser(1)

			Expect(err).ToNot(HaveOccurred())
			Expect(detail.Name).To(Equal("Employee"))
			Expect(detail.ManagerChain).To(Equal([]int64{2, 3}))
		})

		It("should return an empty chain for a user with no manager", func() {
			mockRepo.addUser(1, "Founder", nil)

			detail, err := service.GetUser(1)

			Expect(err).ToNot(HaveOccurred())
			Expect(detail.ManagerChain).To(BeEmpty())
		})

		It("should stop at a cycle instead of looping", func() {
			mockRepo.addUser(1, "A", idPtr(2))
			mockRepo.addUser(2, "B", idPtr(1))

			detail, err := service.GetUser(1)

			Expect(err).ToNot(HaveOccurred())
			Expect(detail.ManagerChain).To(Equal([]int64{2}))
		})

		It("should handle a self-managed user", func() {
			mockRepo.addUser(1, "Loop", idPtr(1))

			detail, err := service.GetUser(1)

			Expect(err).ToNot(HaveOccurred())
			Expect(detail.ManagerChain).To(BeEmpty())
		})

		It("should return not found for an unknown user", func() {
			_, err := service.GetUser(99)
			Expect(err).To(Equal(user.ErrUserNotFound))
		})
	})
})
