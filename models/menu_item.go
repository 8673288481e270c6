package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MenuItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	BranchID    uint            `gorm:"index;not null" json:"branch_id"`
	Name        string          `gorm:"size:150;not null" json:"name"`
	Description string          `json:"description"`
	Category    string          `gorm:"size:100;index" json:"category"` // menu section, e.g. "Mains", "Drinks"
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	// No default tag: gorm would omit a false value on insert and let the
	// column default win, silently re-enabling the item.
	Available   bool            `gorm:"not null" json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
