package user

import "time"

// User references its role and, optionally, a manager. The manager
// relation is a plain id back-reference; nothing guarantees the chain
// is acyclic, so traversal code must not assume a tree.
type User struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;uniqueIndex;not null"`
	RoleID    int64     `gorm:"column:role_id;not null"`
	ManagerID *int64    `gorm:"column:manager_id"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
