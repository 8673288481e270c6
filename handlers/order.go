package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"resto-backend/models"
	"resto-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderHandler struct {
	DB *gorm.DB
}

// CreateOrder snapshots menu prices server-side; clients only send item ids
// and quantities.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req struct {
		BranchID uint            `json:"branch_id"`
		TableNo  string          `json:"table_no"`
		Discount decimal.Decimal `json:"discount"`
		Items    []struct {
			MenuItemID uint `json:"menu_item_id" binding:"required"`
			Quantity   int  `json:"quantity" binding:"required,min=1"`
		} `json:"items" binding:"required,min=1"`
	}

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
	if req.Discount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "discount must not be negative"})
		return
	}

	subtotal := decimal.Zero
	orderItems := make([]models.OrderItem, 0, len(req.Items))
	for _, reqItem := range req.Items {
		var menuItem models.MenuItem
		if err := h.DB.Where("id = ? AND branch_id = ?", reqItem.MenuItemID, req.BranchID).First(&menuItem).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item not found for this branch"})
			return
		}
		if !menuItem.Available {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item is not available: " + menuItem.Name})
			return
		}

		lineTotal := menuItem.Price.Mul(decimal.NewFromInt(int64(reqItem.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID: menuItem.ID,
			ItemName:   menuItem.Name,
			Quantity:   reqItem.Quantity,
			Price:      menuItem.Price,
		})
	}

	total := subtotal.Sub(req.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	order := models.Order{
		BranchID:  req.BranchID,
		TableNo:   req.TableNo,
		Status:    models.OrderStatusPending,
		Subtotal:  subtotal,
		Discount:  req.Discount,
		Total:     total,
		EncodedBy: actingUserID(c),
		Items:     orderItems,
	}

	if err := h.DB.Create(&order).Error; err != nil {
		log.Printf("order create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	branchID, ok := resolveBranchID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid branch_id"})
		return
	}

	query := h.DB.Preload("Items").Order("created_at DESC")
	if branchID != 0 {
		query = query.Where("branch_id = ?", branchID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Limit(100).Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var order models.Order
	if err := h.DB.Preload("Items").First(&order, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus enforces the order state machine.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var order models.Order
	if err := h.DB.First(&order, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if !models.IsValidTransition(order.Status, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid status transition",
			"from":  order.Status,
			"to":    req.Status,
		})
		return
	}

	if err := h.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}

	h.DB.Preload("Items").First(&order, order.ID)
	c.JSON(http.StatusOK, order)
}
