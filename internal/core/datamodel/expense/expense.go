package expense

import "time"

// Expense rows keep money in integer minor units (pence for GBP).
// submitted_at is set exactly once on Draft->Submitted; reviewed_by and
// reviewed_at are set together on the transition out of Submitted.
type Expense struct {
	ID          int64      `gorm:"primaryKey"`
	UserID      int64      `gorm:"column:user_id;not null"`
	CategoryID  int64      `gorm:"column:category_id;not null"`
	StatusID    int64      `gorm:"column:status_id;not null"`
	AmountMinor int64      `gorm:"column:amount_minor;not null"`
	Currency    string     `gorm:"column:currency;size:3;default:GBP"`
	ExpenseDate time.Time  `gorm:"column:expense_date;type:date"`
	Description *string    `gorm:"column:description"`
	ReceiptFile *string    `gorm:"column:receipt_file"`
	SubmittedAt *time.Time `gorm:"column:submitted_at"`
	ReviewedBy  *int64     `gorm:"column:reviewed_by"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}
