package utils

import (
	"strconv"
	"strings"

	"resto-backend/models"

	"github.com/shopspring/decimal"
)

// CategoryMetrics is a per-category aggregate computed at read time. It is
// never persisted.
type CategoryMetrics struct {
	CategoryID uint            `json:"category_id"`
	Name       string          `json:"name"`
	TotalItems int             `json:"total_items"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// RollupCategories joins inventory items to categories and accumulates item
// count and stock valuation per category.
//
// Items reference a category by id when they have one, but legacy rows carry
// only a free-text category name, so each category is indexed twice: under
// its id and under its normalized name. The key spaces are prefixed so a
// category named "7" can never collide with category id 7. Items that match
// neither key are excluded from every total; that is expected legacy data,
// not an error. Categories with no items report zeros.
func RollupCategories(categories []models.Category, items []models.InventoryItem) []CategoryMetrics {
	metrics := make([]CategoryMetrics, len(categories))
	buckets := make(map[string]*CategoryMetrics, len(categories)*2)

	for i, cat := range categories {
		metrics[i] = CategoryMetrics{
			CategoryID: cat.ID,
			Name:       cat.Name,
			TotalValue: decimal.Zero,
		}
		buckets[idKey(cat.ID)] = &metrics[i]
		if name := normalizeName(cat.Name); name != "" {
			// First category wins when branch data has duplicate names.
			if _, taken := buckets[nameKey(name)]; !taken {
				buckets[nameKey(name)] = &metrics[i]
			}
		}
	}

	for _, item := range items {
		var bucket *CategoryMetrics
		if item.CategoryID != nil {
			bucket = buckets[idKey(*item.CategoryID)]
		}
		if bucket == nil {
			bucket = buckets[nameKey(normalizeName(item.CategoryName))]
		}
		if bucket == nil {
			continue
		}
		bucket.TotalItems++
		bucket.TotalValue = bucket.TotalValue.Add(
			decimal.NewFromFloat(item.StockQty).Mul(item.UnitCost))
	}

	return metrics
}

func idKey(id uint) string {
	return "id:" + strconv.FormatUint(uint64(id), 10)
}

func nameKey(normalized string) string {
	return "name:" + normalized
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
