package user

import (
	"log/slog"

	"github.com/expenseworks/expense-claims/internal"
)

var ErrUserNotFound = internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)

type RepositoryAPI interface {
	GetActiveUsers() ([]UserResponse, error)
	GetByID(id int64) (*UserDetailResponse, error)
	GetManagerID(id int64) (*int64, error)
	FirstUserID() (int64, error)
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

func (s *Service) GetActiveUsers() ([]UserResponse, error) {
	users, err := s.repo.GetActiveUsers()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}
	return users, nil
}

// GetUser returns a user's detail including the chain of manager ids
// above them, used by clients to render the approval hierarchy.
func (s *Service) GetUser(id int64) (*UserDetailResponse, error) {
	detail, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "user_id", id)
		return nil, err
	}

	chain, err := s.managerChain(id)
	if err != nil {
		s.logger.Error("failed to walk manager chain", "error", err, "user_id", id)
		return nil, err
	}
	detail.ManagerChain = chain

	return detail, nil
}

// managerChain walks manager references upward from a user. The
// relation carries no acyclicity guarantee, so visited ids stop the
// walk instead of looping forever.
func (s *Service) managerChain(id int64) ([]int64, error) {
	visited := map[int64]bool{id: true}
	var chain []int64

	current := id
	for {
		managerID, err := s.repo.GetManagerID(current)
		if err != nil {
			return nil, err
		}
		if managerID == nil {
			break
		}
		if visited[*managerID] {
			s.logger.Warn("manager chain contains a cycle, stopping walk",
				"user_id", id, "repeated_id", *managerID)
			break
		}
		visited[*managerID] = true
		chain = append(chain, *managerID)
		current = *managerID
	}

	return chain, nil
}
