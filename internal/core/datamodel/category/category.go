package category

type ExpenseCategory struct {
	ID       int64  `gorm:"primaryKey"`
	Name     string `gorm:"column:name;uniqueIndex;not null"`
	IsActive bool   `gorm:"column:is_active;default:true"`
}

func (ExpenseCategory) TableName() string {
	return "expense_categories"
}
