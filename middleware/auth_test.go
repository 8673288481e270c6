package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"resto-backend/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")
}

func setupTestRouter() *gin.Engine {
	r := gin.New()

	// Protected endpoint for testing AuthMiddleware
	protected := r.Group("/api")
	protected.Use(AuthMiddleware())
	protected.GET("/test", func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		role, _ := c.Get("user_role")
		c.JSON(http.StatusOK, gin.H{
			"user_id": userID,
			"role":    role,
		})
	})

	// Admin endpoint for testing AdminMiddleware
	admin := r.Group("/api/admin")
	admin.Use(AuthMiddleware())
	admin.Use(AdminMiddleware())
	admin.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "admin access granted"})
	})

	// Branch endpoint for testing BranchMiddleware
	branch := r.Group("/api/branch")
	branch.Use(AuthMiddleware())
	branch.Use(BranchMiddleware())
	branch.GET("/test", func(c *gin.Context) {
		branchID, _ := c.Get("branch_id")
		c.JSON(http.StatusOK, gin.H{"branch_id": branchID})
	})

	return r
}

func doGet(router *gin.Engine, url, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	router := setupTestRouter()

	token, err := utils.GenerateToken(1, "test@test.com", "staff", nil)
	if err != nil {
		t.Fatal(err)
	}

	w := doGet(router, "/api/test", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router := setupTestRouter()

	w := doGet(router, "/api/test", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	router := setupTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/test", nil)
	req.Header.Set("Authorization", "NotBearer abc")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	router := setupTestRouter()

	w := doGet(router, "/api/test", "not-a-jwt")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestAdminMiddlewareAllowsAdmin(t *testing.T) {
	router := setupTestRouter()

	token, _ := utils.GenerateToken(1, "admin@test.com", "admin", nil)
	w := doGet(router, "/api/admin/test", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminMiddlewareRejectsStaff(t *testing.T) {
	router := setupTestRouter()

	token, _ := utils.GenerateToken(2, "staff@test.com", "staff", nil)
	w := doGet(router, "/api/admin/test", token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}

func TestBranchMiddlewareAllowsScopedManager(t *testing.T) {
	router := setupTestRouter()

	branchID := uint(4)
	token, _ := utils.GenerateToken(3, "manager@test.com", "manager", &branchID)
	w := doGet(router, "/api/branch/test", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBranchMiddlewareAllowsAdminUnscoped(t *testing.T) {
	router := setupTestRouter()

	token, _ := utils.GenerateToken(1, "admin@test.com", "admin", nil)
	w := doGet(router, "/api/branch/test", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBranchMiddlewareRejectsUnscopedStaff(t *testing.T) {
	router := setupTestRouter()

	token, _ := utils.GenerateToken(5, "floating@test.com", "staff", nil)
	w := doGet(router, "/api/branch/test", token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}
