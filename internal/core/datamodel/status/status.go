package status

// ExpenseStatus is static reference data. The name set is closed:
// Draft, Submitted, Approved, Rejected.
type ExpenseStatus struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"column:name;uniqueIndex;not null"`
}

func (ExpenseStatus) TableName() string {
	return "expense_statuses"
}
