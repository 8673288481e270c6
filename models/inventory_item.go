package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is a branch-scoped stock item.
//
// CategoryID is nullable: older rows were entered with only a free-text
// CategoryName, so the rollup resolves a category by id first and falls back
// to a normalized name match. Same explicit Active soft delete as Category.
type InventoryItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	BranchID     uint            `gorm:"index;not null" json:"branch_id"`
	CategoryID   *uint           `gorm:"index" json:"category_id"`
	CategoryName string          `gorm:"size:100" json:"category_name"`
	Name         string          `gorm:"size:150;not null" json:"name"`
	Unit         string          `gorm:"size:30" json:"unit"`
	StockQty     float64         `gorm:"default:0" json:"stock_qty"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"unit_cost"`
	ReorderLevel float64         `gorm:"default:0" json:"reorder_level"`
	Active       bool            `gorm:"index;not null;default:true" json:"active"`
	EncodedBy    *uint           `json:"encoded_by"`
	EncodedDt    time.Time       `gorm:"autoCreateTime" json:"encoded_dt"`
	EditedBy     *uint           `json:"edited_by"`
	EditedDt     *time.Time      `json:"edited_dt"`
}
