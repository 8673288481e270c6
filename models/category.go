package models

import "time"

// Category types a category can belong to. New rows default to Inventory.
const (
	CategoryTypeInventory   = "Inventory"
	CategoryTypeMaintenance = "Maintenance"
	CategoryTypeUtilities   = "Utilities/Bills"
	CategoryTypeSalaryRent  = "Salary & Rent"
	CategoryTypeOthers      = "Others"
)

// CategoryTypes is the fixed set of valid category types.
var CategoryTypes = map[string]bool{
	CategoryTypeInventory:   true,
	CategoryTypeMaintenance: true,
	CategoryTypeUtilities:   true,
	CategoryTypeSalaryRent:  true,
	CategoryTypeOthers:      true,
}

// CategoryIcons is the fixed set of icon keys the frontend knows how to render.
var CategoryIcons = map[string]bool{
	"box":      true,
	"carrot":   true,
	"fish":     true,
	"meat":     true,
	"milk":     true,
	"wrench":   true,
	"bolt":     true,
	"droplet":  true,
	"wallet":   true,
	"receipt":  true,
	"building": true,
	"ellipsis": true,
}

// Category is a branch-scoped inventory/expense category.
//
// Deletion is a soft update: Active is flipped to false and the row is kept.
// Every read path filters on active = true, so a deleted category disappears
// from the API but stays in the table for audit. Unlike the other entities
// this does NOT use gorm.DeletedAt; administrative tooling needs to see and
// un-delete these rows with a plain UPDATE.
//
// (branch_id, name) is the human-facing identity but is deliberately not
// unique: legacy data contains duplicate names within a branch.
type Category struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	BranchID     uint       `gorm:"index;not null" json:"branch_id"`
	Name         string     `gorm:"size:100;not null" json:"name"`
	CategoryType string     `gorm:"size:30;not null;default:Inventory" json:"category_type"`
	Description  *string    `json:"description"`
	Icon         *string    `gorm:"size:30" json:"icon"`
	Active       bool       `gorm:"index;not null;default:true" json:"active"`
	EncodedBy    *uint      `json:"encoded_by"`
	EncodedDt    time.Time  `gorm:"autoCreateTime" json:"encoded_dt"`
	EditedBy     *uint      `json:"edited_by"`
	EditedDt     *time.Time `json:"edited_dt"`
}
