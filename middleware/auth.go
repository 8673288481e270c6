package middleware

import (
	"net/http"
	"strings"

	"resto-backend/utils"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		token := parts[1]
		claims, err := utils.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		if claims.BranchID != nil {
			c.Set("branch_id", *claims.BranchID)
		}
		c.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists || role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// BranchMiddleware requires the user to be a manager or staff member with a
// branch id in their token. Admins pass through unscoped.
func BranchMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Branch access required"})
			c.Abort()
			return
		}

		if role == "admin" {
			c.Next()
			return
		}

		roleStr := role.(string)
		if roleStr != "manager" && roleStr != "staff" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Branch access required"})
			c.Abort()
			return
		}

		if _, exists := c.Get("branch_id"); !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "No branch associated with this account"})
			c.Abort()
			return
		}

		c.Next()
	}
}
