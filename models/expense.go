package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense references Category rows of any type (Maintenance, Utilities/Bills,
// Salary & Rent, ...), not a separate expense-category table.
type Expense struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	BranchID    uint            `gorm:"index;not null" json:"branch_id"`
	CategoryID  uint            `gorm:"index;not null" json:"category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Date        time.Time       `gorm:"index;not null" json:"date"`
	Description string          `gorm:"size:255" json:"description"`
	EncodedBy   *uint           `json:"encoded_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
