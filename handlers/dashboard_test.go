package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resto-backend/models"
)

func TestGetDashboard(t *testing.T) {
	db := freshDB()
	r := setupDashboardRouter(db)
	branch := seedBranch(db, "Main Branch")
	cat := seedCategory(db, branch.ID, "Utilities")
	_, token := seedTestUser(db, "manager@test.com", "manager", &branch.ID)

	seedOrder(db, branch.ID, models.OrderStatusServed, "40.00")
	seedOrder(db, branch.ID, models.OrderStatusPending, "15.00")
	seedOrder(db, branch.ID, models.OrderStatusCancelled, "99.00")
	seedExpense(db, branch.ID, cat.ID, "12.50", "2026-08-01")

	low := seedInventoryItem(db, branch.ID, nil, "", "Flour", 1, "1.00")
	db.Model(&models.InventoryItem{}).Where("id = ?", low.ID).Update("reorder_level", 5)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/dashboard", nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)

	if resp["total_orders"] != float64(3) {
		t.Errorf("expected 3 total orders, got %v", resp["total_orders"])
	}
	if resp["pending_orders"] != float64(1) {
		t.Errorf("expected 1 pending order, got %v", resp["pending_orders"])
	}
	// Cancelled orders never count toward revenue: 40 + 15.
	if resp["total_revenue"] != "55" {
		t.Errorf("expected total revenue 55, got %v", resp["total_revenue"])
	}
	if resp["expense_total"] != "12.5" {
		t.Errorf("expected expense total 12.5, got %v", resp["expense_total"])
	}
	if resp["low_stock_alerts"] != float64(1) {
		t.Errorf("expected 1 low stock alert, got %v", resp["low_stock_alerts"])
	}
	if resp["staff_count"] != float64(1) {
		t.Errorf("expected 1 staff member, got %v", resp["staff_count"])
	}
}

func TestGetDashboardTodayUsesLocalMidnight(t *testing.T) {
	db := freshDB()
	r := setupDashboardRouter(db)
	branch := seedBranch(db, "Main Branch")
	_, token := seedTestUser(db, "manager@test.com", "manager", &branch.ID)

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	yesterday := seedOrder(db, branch.ID, models.OrderStatusServed, "40.00")
	db.Model(&models.Order{}).Where("id = ?", yesterday.ID).
		Update("created_at", midnight.Add(-time.Minute))
	todayOrder := seedOrder(db, branch.ID, models.OrderStatusServed, "15.00")
	db.Model(&models.Order{}).Where("id = ?", todayOrder.ID).
		Update("created_at", midnight.Add(time.Minute))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/dashboard", nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)

	if resp["today_orders"] != float64(1) {
		t.Errorf("expected 1 order today, got %v", resp["today_orders"])
	}
	if resp["today_revenue"] != "15" {
		t.Errorf("expected today's revenue 15, got %v", resp["today_revenue"])
	}
	if resp["total_orders"] != float64(2) {
		t.Errorf("expected 2 total orders, got %v", resp["total_orders"])
	}
}

func TestGetDashboardRequiresBranch(t *testing.T) {
	db := freshDB()
	r := setupDashboardRouter(db)
	_, adminToken := seedTestUser(db, "admin@test.com", "admin", nil)

	// Admin without ?branch_id has no branch to report on.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/dashboard", nil, adminToken))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without branch, got %d", w.Code)
	}
}

func TestCompareBranches(t *testing.T) {
	db := freshDB()
	r := setupDashboardRouter(db)
	b1 := seedBranch(db, "Branch One")
	b2 := seedBranch(db, "Branch Two")
	c1 := seedCategory(db, b1.ID, "Utilities")
	_, adminToken := seedTestUser(db, "admin@test.com", "admin", nil)

	seedOrder(db, b1.ID, models.OrderStatusServed, "100.00")
	seedOrder(db, b1.ID, models.OrderStatusCancelled, "50.00")
	seedExpense(db, b1.ID, c1.ID, "30.00", "2026-08-01")
	seedOrder(db, b2.ID, models.OrderStatusServed, "20.00")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/admin/dashboard/compare", nil, adminToken))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	rows := parseResponseArray(w)
	if len(rows) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(rows))
	}

	first := rows[0].(map[string]interface{})
	if first["branch_id"] != float64(b1.ID) {
		t.Fatalf("expected branch one first, got %v", first["branch_id"])
	}
	if first["revenue"] != "100" {
		t.Errorf("expected revenue 100, got %v", first["revenue"])
	}
	if first["order_count"] != float64(1) {
		t.Errorf("cancelled orders must not count, got %v", first["order_count"])
	}
	if first["expense_total"] != "30" {
		t.Errorf("expected expense total 30, got %v", first["expense_total"])
	}
	if first["net"] != "70" {
		t.Errorf("expected net 70, got %v", first["net"])
	}

	second := rows[1].(map[string]interface{})
	if second["revenue"] != "20" {
		t.Errorf("expected revenue 20, got %v", second["revenue"])
	}
	if second["net"] != "20" {
		t.Errorf("expected net 20, got %v", second["net"])
	}
}

func TestCompareBranchesRequiresAdmin(t *testing.T) {
	db := freshDB()
	r := setupDashboardRouter(db)
	branch := seedBranch(db, "Main Branch")
	_, managerToken := seedTestUser(db, "manager@test.com", "manager", &branch.ID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/admin/dashboard/compare", nil, managerToken))
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", w.Code)
	}
}
