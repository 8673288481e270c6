package routes

import (
	"resto-backend/handlers"
	"resto-backend/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Initialize handlers
	authHandler := &handlers.AuthHandler{DB: db}
	branchHandler := &handlers.BranchHandler{DB: db}
	categoryHandler := &handlers.CategoryHandler{DB: db}
	inventoryHandler := &handlers.InventoryHandler{DB: db}
	menuHandler := &handlers.MenuHandler{DB: db}
	orderHandler := &handlers.OrderHandler{DB: db}
	expenseHandler := &handlers.ExpenseHandler{DB: db}
	userHandler := &handlers.UserHandler{DB: db}
	dashboardHandler := &handlers.DashboardHandler{DB: db}

	// Public routes
	api := r.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", authHandler.GetProfile)
		protected.GET("/branches", branchHandler.ListBranches)
		protected.GET("/branches/:id", branchHandler.GetBranch)
	}

	// Branch-scoped routes (staff and managers act on their own branch,
	// admins pass through and may target any branch)
	scoped := protected.Group("")
	scoped.Use(middleware.BranchMiddleware())
	{
		// Category routes
		scoped.GET("/categories", categoryHandler.GetCategories)
		scoped.GET("/categories/:id", categoryHandler.GetCategory)
		scoped.POST("/categories", categoryHandler.CreateCategory)
		scoped.PUT("/categories/:id", categoryHandler.UpdateCategory)
		scoped.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		// Inventory routes
		scoped.GET("/inventory", inventoryHandler.GetItems)
		scoped.GET("/inventory/low-stock", inventoryHandler.GetLowStock)
		scoped.GET("/inventory/metrics", inventoryHandler.GetCategoryMetrics)
		scoped.GET("/inventory/:id", inventoryHandler.GetItem)
		scoped.POST("/inventory", inventoryHandler.CreateItem)
		scoped.PUT("/inventory/:id", inventoryHandler.UpdateItem)
		scoped.DELETE("/inventory/:id", inventoryHandler.DeleteItem)

		// Menu routes
		scoped.GET("/menu", menuHandler.GetMenuItems)
		scoped.GET("/menu/:id", menuHandler.GetMenuItem)
		scoped.POST("/menu", menuHandler.CreateMenuItem)
		scoped.PUT("/menu/:id", menuHandler.UpdateMenuItem)
		scoped.DELETE("/menu/:id", menuHandler.DeleteMenuItem)

		// Order routes
		scoped.POST("/orders", orderHandler.CreateOrder)
		scoped.GET("/orders", orderHandler.GetOrders)
		scoped.GET("/orders/:id", orderHandler.GetOrder)
		scoped.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)

		// Expense routes
		scoped.GET("/expenses", expenseHandler.GetExpenses)
		scoped.GET("/expenses/summary", expenseHandler.GetExpenseSummary)
		scoped.POST("/expenses", expenseHandler.CreateExpense)
		scoped.PUT("/expenses/:id", expenseHandler.UpdateExpense)
		scoped.DELETE("/expenses/:id", expenseHandler.DeleteExpense)

		// Dashboard
		scoped.GET("/dashboard", dashboardHandler.GetDashboard)
	}

	// Admin routes (require admin role)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		// Branch management
		admin.POST("/branches", branchHandler.CreateBranch)
		admin.PUT("/branches/:id", branchHandler.UpdateBranch)
		admin.DELETE("/branches/:id", branchHandler.DeactivateBranch)

		// User management
		admin.GET("/users", userHandler.ListUsers)
		admin.POST("/users", userHandler.CreateUser)
		admin.PUT("/users/:id/role", userHandler.UpdateUserRole)
		admin.PUT("/users/:id/blocked", userHandler.SetUserBlocked)

		// Cross-branch comparison
		admin.GET("/dashboard/compare", dashboardHandler.CompareBranches)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
