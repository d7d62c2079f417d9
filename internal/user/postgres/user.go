package postgres

import (
	"errors"

	"github.com/expenseworks/expense-claims/internal"
	userDatamodel "github.com/expenseworks/expense-claims/internal/core/datamodel/user"
	"github.com/expenseworks/expense-claims/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

type userRow struct {
	ID          int64
	Name        string
	Email       string
	RoleName    string
	ManagerName *string
}

func (r *UserRepository) GetActiveUsers() ([]user.UserResponse, error) {
	var rows []userRow
	err := r.db.Table("users").
		Select("users.id, users.name, users.email, roles.name AS role_name").
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("users.is_active = ?", true).
		Order("users.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, internal.NewStoreUnavailableError("failed to list users", err)
	}

	responses := make([]user.UserResponse, len(rows))
	for i, row := range rows {
		responses[i] = user.UserResponse{
			ID:    row.ID,
			Name:  row.Name,
			Email: row.Email,
			Role:  row.RoleName,
		}
	}
	return responses, nil
}

func (r *UserRepository) GetByID(id int64) (*user.UserDetailResponse, error) {
	var row userRow
	err := r.db.Table("users").
		Select("users.id, users.name, users.email, roles.name AS role_name, managers.name AS manager_name").
		Joins("JOIN roles ON roles.id = users.role_id").
		Joins("LEFT JOIN users AS managers ON managers.id = users.manager_id").
		Where("users.id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, internal.NewStoreUnavailableError("failed to load user", err)
	}

	return &user.UserDetailResponse{
		UserResponse: user.UserResponse{
			ID:    row.ID,
			Name:  row.Name,
			Email: row.Email,
			Role:  row.RoleName,
		},
		ManagerName: row.ManagerName,
	}, nil
}

func (r *UserRepository) GetManagerID(id int64) (*int64, error) {
	var u userDatamodel.User
	err := r.db.Select("manager_id").Where("id = ?", id).Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, internal.NewStoreUnavailableError("failed to load user", err)
	}
	return u.ManagerID, nil
}

// FirstUserID is the stand-in identity used where the product has no
// authenticated principal, e.g. expenses created through the assistant.
func (r *UserRepository) FirstUserID() (int64, error) {
	var u userDatamodel.User
	err := r.db.Order("id ASC").Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, user.ErrUserNotFound
		}
		return 0, internal.NewStoreUnavailableError("failed to load first user", err)
	}
	return u.ID, nil
}

func (r *UserRepository) Exists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, internal.NewStoreUnavailableError("failed to check user", err)
	}
	return count > 0, nil
}
