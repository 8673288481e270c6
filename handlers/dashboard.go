package handlers

import (
	"net/http"
	"time"

	"resto-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	DB *gorm.DB
}

// GetDashboard returns the headline stats for one branch.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	branchID, ok := resolveBranchID(c)
	if !ok || branchID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "branch_id is required"})
		return
	}

	// Midnight in the server's local timezone, not UTC.
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var totalOrders, todayOrders, pendingOrders int64
	h.DB.Model(&models.Order{}).Where("branch_id = ?", branchID).Count(&totalOrders)
	h.DB.Model(&models.Order{}).Where("branch_id = ? AND created_at >= ?", branchID, today).Count(&todayOrders)
	h.DB.Model(&models.Order{}).Where("branch_id = ? AND status IN ?", branchID,
		[]string{"pending", "confirmed", "preparing"}).Count(&pendingOrders)

	var totalRevenue, todayRevenue decimal.Decimal
	h.DB.Model(&models.Order{}).Where("branch_id = ? AND status != ?", branchID, models.OrderStatusCancelled).
		Select("COALESCE(SUM(total), 0)").Scan(&totalRevenue)
	h.DB.Model(&models.Order{}).Where("branch_id = ? AND status != ? AND created_at >= ?",
		branchID, models.OrderStatusCancelled, today).
		Select("COALESCE(SUM(total), 0)").Scan(&todayRevenue)

	var expenseTotal decimal.Decimal
	h.DB.Model(&models.Expense{}).Where("branch_id = ?", branchID).
		Select("COALESCE(SUM(amount), 0)").Scan(&expenseTotal)

	var lowStockCount int64
	h.DB.Model(&models.InventoryItem{}).
		Where("branch_id = ? AND active = ? AND stock_qty <= reorder_level", branchID, true).
		Count(&lowStockCount)

	var staffCount int64
	h.DB.Model(&models.User{}).Where("branch_id = ?", branchID).Count(&staffCount)

	var recentOrders []models.Order
	h.DB.Preload("Items").
		Where("branch_id = ?", branchID).
		Order("created_at DESC").
		Limit(10).
		Find(&recentOrders)

	c.JSON(http.StatusOK, gin.H{
		"total_revenue":    totalRevenue,
		"today_revenue":    todayRevenue,
		"total_orders":     totalOrders,
		"today_orders":     todayOrders,
		"pending_orders":   pendingOrders,
		"expense_total":    expenseTotal,
		"low_stock_alerts": lowStockCount,
		"staff_count":      staffCount,
		"recent_orders":    recentOrders,
	})
}

// BranchComparison is one row of the admin compare panel.
type BranchComparison struct {
	BranchID     uint            `json:"branch_id"`
	BranchName   string          `json:"branch_name"`
	Revenue      decimal.Decimal `json:"revenue"`
	OrderCount   int64           `json:"order_count"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
	Net          decimal.Decimal `json:"net"`
}

// CompareBranches aggregates revenue, orders and expenses per active branch
// over an optional from/to date range. Computed fresh on every request.
func (h *DashboardHandler) CompareBranches(c *gin.Context) {
	var branches []models.Branch
	if err := h.DB.Where("is_active = ?", true).Order("id ASC").Find(&branches).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch branches"})
		return
	}

	from := c.Query("from")
	to := c.Query("to")

	orderQuery := func(branchID uint) *gorm.DB {
		q := h.DB.Model(&models.Order{}).
			Where("branch_id = ? AND status != ?", branchID, models.OrderStatusCancelled)
		if from != "" {
			q = q.Where("created_at >= ?", from)
		}
		if to != "" {
			q = q.Where("created_at <= ?", to)
		}
		return q
	}
	expenseQuery := func(branchID uint) *gorm.DB {
		q := h.DB.Model(&models.Expense{}).Where("branch_id = ?", branchID)
		if from != "" {
			q = q.Where("date >= ?", from)
		}
		if to != "" {
			q = q.Where("date <= ?", to)
		}
		return q
	}

	rows := make([]BranchComparison, 0, len(branches))
	for _, branch := range branches {
		row := BranchComparison{BranchID: branch.ID, BranchName: branch.Name}

		if err := orderQuery(branch.ID).Count(&row.OrderCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compare branches"})
			return
		}
		orderQuery(branch.ID).Select("COALESCE(SUM(total), 0)").Scan(&row.Revenue)
		expenseQuery(branch.ID).Select("COALESCE(SUM(amount), 0)").Scan(&row.ExpenseTotal)
		row.Net = row.Revenue.Sub(row.ExpenseTotal)

		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, rows)
}
