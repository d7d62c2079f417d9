package user

import (
	"time"

	userDatamodel "github.com/expenseworks/expense-claims/internal/core/datamodel/user"
)

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	RoleID    int64     `json:"role_id"`
	ManagerID *int64    `json:"manager_id,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func FromDataModel(dm *userDatamodel.User) *User {
	return &User{
		ID:        dm.ID,
		Name:      dm.Name,
		Email:     dm.Email,
		RoleID:    dm.RoleID,
		ManagerID: dm.ManagerID,
		IsActive:  dm.IsActive,
		CreatedAt: dm.CreatedAt,
	}
}
