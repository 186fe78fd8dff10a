package models

// Category represents an expense category owned by a user.
type Category struct {
	Base
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	Name      string `gorm:"not null" json:"name"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	IsDefault bool   `gorm:"default:false" json:"is_default"`

	// Relationships
	Expenses []Expense `gorm:"foreignKey:CategoryID" json:"expenses,omitempty"`
}
