package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"resto-backend/database"
	"resto-backend/models"
	"resto-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventoryHandler struct {
	DB *gorm.DB
}

type inventoryItemRequest struct {
	BranchID     uint            `json:"branch_id"`
	CategoryID   *uint           `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Name         string          `json:"name" binding:"required"`
	Unit         string          `json:"unit"`
	StockQty     float64         `json:"stock_qty"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	ReorderLevel float64         `json:"reorder_level"`
}

// resolveBranchID returns the branch the request operates on: admins may pass
// ?branch_id, scoped users always get their own.
func resolveBranchID(c *gin.Context) (uint, bool) {
	role, _ := c.Get("user_role")
	if role == "admin" {
		raw := c.Query("branch_id")
		if raw == "" {
			return 0, true // unscoped
		}
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return 0, false
		}
		return uint(id), true
	}
	branchID, _ := c.Get("branch_id")
	id, ok := branchID.(uint)
	return id, ok
}

func (h *InventoryHandler) GetItems(c *gin.Context) {
	branchID, ok := resolveBranchID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid branch_id"})
		return
	}

	query := h.DB.Where("active = ?", true).Order("id DESC")
	if branchID != 0 {
		query = query.Where("branch_id = ?", branchID)
	}

	var items []models.InventoryItem
	if err := query.Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	var item models.InventoryItem
	if err := h.DB.Where("id = ? AND active = ?", uint(id), true).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req inventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
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

	item := models.InventoryItem{
		BranchID:     req.BranchID,
		CategoryID:   req.CategoryID,
		CategoryName: req.CategoryName,
		Name:         req.Name,
		Unit:         req.Unit,
		StockQty:     req.StockQty,
		UnitCost:     req.UnitCost,
		ReorderLevel: req.ReorderLevel,
		Active:       true,
		EncodedBy:    actingUserID(c),
	}

	if err := h.DB.Create(&item).Error; err != nil {
		log.Printf("inventory create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	var req inventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	now := time.Now()
	result := h.DB.Model(&models.InventoryItem{}).
		Where("id = ? AND active = ?", uint(id), true).
		Updates(map[string]interface{}{
			"category_id":   req.CategoryID,
			"category_name": req.CategoryName,
			"name":          req.Name,
			"unit":          req.Unit,
			"stock_qty":     req.StockQty,
			"unit_cost":     req.UnitCost,
			"reorder_level": req.ReorderLevel,
			"edited_by":     actingUserID(c),
			"edited_dt":     &now,
		})
	if result.Error != nil {
		log.Printf("inventory update failed: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	var item models.InventoryItem
	h.DB.First(&item, uint(id))
	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	now := time.Now()
	result := h.DB.Model(&models.InventoryItem{}).
		Where("id = ? AND active = ?", uint(id), true).
		Updates(map[string]interface{}{
			"active":    false,
			"edited_by": actingUserID(c),
			"edited_dt": &now,
		})
	if result.Error != nil {
		log.Printf("inventory delete failed: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

// GetLowStock lists active items at or below their reorder level.
func (h *InventoryHandler) GetLowStock(c *gin.Context) {
	branchID, ok := resolveBranchID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid branch_id"})
		return
	}

	query := h.DB.Where("active = ? AND stock_qty <= reorder_level", true).Order("stock_qty ASC")
	if branchID != 0 {
		query = query.Where("branch_id = ?", branchID)
	}

	var items []models.InventoryItem
	if err := query.Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch low stock items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetCategoryMetrics computes per-category item counts and stock valuation
// for a branch. The join happens in memory at read time; nothing is cached.
func (h *InventoryHandler) GetCategoryMetrics(c *gin.Context) {
	if err := database.CategorySchema.Ensure(h.DB); err != nil {
		log.Printf("category schema init failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to compute metrics"})
		return
	}

	branchID, ok := resolveBranchID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid branch_id"})
		return
	}

	catQuery := h.DB.Where("active = ?", true).Order("id DESC")
	itemQuery := h.DB.Where("active = ?", true)
	if branchID != 0 {
		catQuery = catQuery.Where("branch_id = ?", branchID)
		itemQuery = itemQuery.Where("branch_id = ?", branchID)
	}

	var categories []models.Category
	if err := catQuery.Find(&categories).Error; err != nil {
		log.Printf("metrics category fetch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to compute metrics"})
		return
	}

	var items []models.InventoryItem
	if err := itemQuery.Find(&items).Error; err != nil {
		log.Printf("metrics item fetch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to compute metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": utils.RollupCategories(categories, items)})
}
