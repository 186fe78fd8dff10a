package models

import "time"

// ExpenseSource records how an expense entered the system.
type ExpenseSource string

const (
	ExpenseSourceManual  ExpenseSource = "manual"
	ExpenseSourceReceipt ExpenseSource = "receipt"
	ExpenseSourceVoice   ExpenseSource = "voice"
)

// Expense represents a single logged expense. Amounts are stored in cents.
type Expense struct {
	Base
	UserID      uint          `gorm:"not null;index" json:"user_id"`
	CategoryID  *uint         `json:"category_id,omitempty"`
	Amount      int64         `gorm:"type:bigint;not null" json:"amount"`
	Description string        `gorm:"not null" json:"description"`
	Date        time.Time     `gorm:"not null;index" json:"date"`
	Notes       string        `json:"notes,omitempty"`
	ReceiptURL  string        `json:"receipt_url,omitempty"`
	Source      ExpenseSource `gorm:"not null;default:manual" json:"source"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
