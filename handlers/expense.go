package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"resto-backend/database"
	"resto-backend/models"
	"resto-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseHandler struct {
	DB *gorm.DB
}

type expenseRequest struct {
	BranchID    uint            `json:"branch_id"`
	CategoryID  uint            `json:"category_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Date        string          `json:"date"` // YYYY-MM-DD, defaults to today
	Description string          `json:"description"`
}

func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	branchID, ok := resolveBranchID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid branch_id"})
		return
	}

	query := h.DB.Preload("Category").Order("date DESC, id DESC")
	if branchID != 0 {
		query = query.Where("branch_id = ?", branchID)
	}
	if from := c.Query("from"); from != "" {
		query = query.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("date <= ?", to)
	}

	var expenses []models.Expense
	if err := query.Find(&expenses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
		return
	}

	c.JSON(http.StatusOK, expenses)
}

func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	if err := database.CategorySchema.Ensure(h.DB); err != nil {
		log.Printf("category schema init failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
		return
	}

	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	role, _ := c.Get("user_role")
	if role != "admin" {
		branchID, _ := c.Get("branch_id")
		req.BranchID = branchID.(uint)
	}
	if req.BranchID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "branch_id is required"})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	// The referenced category must be active and in the same branch.
	var category models.Category
	if err := h.DB.Where("id = ? AND branch_id = ? AND active = ?", req.CategoryID, req.BranchID, true).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found for this branch"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	expense := models.Expense{
		BranchID:    req.BranchID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
		EncodedBy:   actingUserID(c),
	}

	if err := h.DB.Create(&expense).Error; err != nil {
		log.Printf("expense create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
		return
	}

	c.JSON(http.StatusCreated, expense)
}

func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expense id"})
		return
	}

	var expense models.Expense
	if err := h.DB.First(&expense, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}

	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	updates := map[string]interface{}{
		"category_id": req.CategoryID,
		"amount":      req.Amount,
		"description": req.Description,
	}
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		updates["date"] = parsed
	}

	if err := h.DB.Model(&expense).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update expense"})
		return
	}

	h.DB.Preload("Category").First(&expense, expense.ID)
	c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expense id"})
		return
	}

	result := h.DB.Delete(&models.Expense{}, uint(id))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete expense"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}

// GetExpenseSummary groups a branch's expenses by category over an optional
// date range.
func (h *ExpenseHandler) GetExpenseSummary(c *gin.Context) {
	branchID, ok := resolveBranchID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid branch_id"})
		return
	}

	type summaryRow struct {
		CategoryID uint            `json:"category_id"`
		Total      decimal.Decimal `json:"total"`
		Count      int64           `json:"count"`
	}

	query := h.DB.Model(&models.Expense{}).
		Select("category_id, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Group("category_id")
	if branchID != 0 {
		query = query.Where("branch_id = ?", branchID)
	}
	if from := c.Query("from"); from != "" {
		query = query.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("date <= ?", to)
	}

	var rows []summaryRow
	if err := query.Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expense summary"})
		return
	}

	c.JSON(http.StatusOK, rows)
}
