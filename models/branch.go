package models

import (
	"time"

	"gorm.io/gorm"
)

// Branch is a physical restaurant location. Deactivation keeps the row so
// orders, expenses and inventory retain their history.
type Branch struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:150;not null" json:"name"`
	Address   string         `json:"address"`
	City      string         `gorm:"size:100" json:"city"`
	Phone     string         `gorm:"size:30" json:"phone"`
	Email     string         `gorm:"size:150" json:"email"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
