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
	"gorm.io/gorm"
)

type CategoryHandler struct {
	DB *gorm.DB
}

type categoryRequest struct {
	BranchID     uint    `json:"branch_id"`
	Name         string  `json:"name" binding:"required"`
	CategoryType string  `json:"category_type"`
	Description  *string `json:"description"`
	Icon         *string `json:"icon"`
}

// actingUserID returns the authenticated user's id for audit stamping.
func actingUserID(c *gin.Context) *uint {
	v, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	if id, ok := v.(uint); ok {
		return &id
	}
	return nil
}

// GetCategories lists active categories, newest first. Admins may filter by
// ?branch_id; everyone else is locked to their own branch.
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	if err := database.CategorySchema.Ensure(h.DB); err != nil {
		log.Printf("category schema init failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch categories"})
		return
	}

	query := h.DB.Where("active = ?", true).Order("id DESC")

	role, _ := c.Get("user_role")
	if role == "admin" {
		if raw := c.Query("branch_id"); raw != "" {
			branchID, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid branch_id"})
				return
			}
			query = query.Where("branch_id = ?", uint(branchID))
		}
	} else {
		branchID, _ := c.Get("branch_id")
		query = query.Where("branch_id = ?", branchID)
	}

	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		log.Printf("category list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": categories})
}

// GetCategory returns one active category. Soft-deleted rows look identical
// to rows that never existed.
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	if err := database.CategorySchema.Ensure(h.DB); err != nil {
		log.Printf("category schema init failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch category"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid category id"})
		return
	}

	var category models.Category
	if err := h.DB.Where("id = ? AND active = ?", uint(id), true).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Category not found"})
			return
		}
		log.Printf("category fetch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": category})
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	if err := database.CategorySchema.Ensure(h.DB); err != nil {
		log.Printf("category schema init failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create category"})
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": utils.SanitizeValidationError(err)})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "name is required"})
		return
	}

	// Non-admins always create inside their own branch.
	role, _ := c.Get("user_role")
	if role != "admin" {
		branchID, _ := c.Get("branch_id")
		req.BranchID = branchID.(uint)
	}
	if req.BranchID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "branch_id is required"})
		return
	}

	if req.CategoryType == "" {
		req.CategoryType = models.CategoryTypeInventory
	}
	if !models.CategoryTypes[req.CategoryType] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid category_type"})
		return
	}
	if req.Icon != nil && !models.CategoryIcons[*req.Icon] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unknown icon"})
		return
	}

	category := models.Category{
		BranchID:     req.BranchID,
		Name:         req.Name,
		CategoryType: req.CategoryType,
		Description:  req.Description,
		Icon:         req.Icon,
		Active:       true,
		EncodedBy:    actingUserID(c),
	}

	if err := h.DB.Create(&category).Error; err != nil {
		log.Printf("category create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": category})
}

// UpdateCategory only touches active rows; branch_id and active are
// immutable here. A missing or already-deleted row is a 404, not an error.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	if err := database.CategorySchema.Ensure(h.DB); err != nil {
		log.Printf("category schema init failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update category"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid category id"})
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": utils.SanitizeValidationError(err)})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "name is required"})
		return
	}
	if req.CategoryType == "" {
		req.CategoryType = models.CategoryTypeInventory
	}
	if !models.CategoryTypes[req.CategoryType] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid category_type"})
		return
	}
	if req.Icon != nil && !models.CategoryIcons[*req.Icon] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unknown icon"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"name":          req.Name,
		"category_type": req.CategoryType,
		"description":   req.Description,
		"icon":          req.Icon,
		"edited_by":     actingUserID(c),
		"edited_dt":     &now,
	}

	result := h.DB.Model(&models.Category{}).
		Where("id = ? AND active = ?", uint(id), true).
		Updates(updates)
	if result.Error != nil {
		log.Printf("category update failed: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update category"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Category not found"})
		return
	}

	var category models.Category
	h.DB.First(&category, uint(id))
	c.JSON(http.StatusOK, gin.H{"success": true, "data": category})
}

// DeleteCategory soft-deletes: the row stays in the table with active=false.
// Deleting an already-deleted row reports not found rather than failing.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := database.CategorySchema.Ensure(h.DB); err != nil {
		log.Printf("category schema init failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete category"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid category id"})
		return
	}

	now := time.Now()
	result := h.DB.Model(&models.Category{}).
		Where("id = ? AND active = ?", uint(id), true).
		Updates(map[string]interface{}{
			"active":    false,
			"edited_by": actingUserID(c),
			"edited_dt": &now,
		})
	if result.Error != nil {
		log.Printf("category delete failed: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete category"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"deleted": true}})
}
