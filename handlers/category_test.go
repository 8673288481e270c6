package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"resto-backend/models"
)

func TestCreateCategory(t *testing.T) {
	db := freshDB()
	r := setupCategoryRouter(db)
	branch := seedBranch(db, "Main Branch")
	user, token := seedTestUser(db, "manager@test.com", "manager", &branch.ID)

	w := httptest.NewRecorder()
	req := authRequest("POST", "/api/categories", map[string]interface{}{
		"name": "Vegetables",
		"icon": "carrot",
	}, token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["success"] != true {
		t.Errorf("expected success true, got %v", resp["success"])
	}
	data := resp["data"].(map[string]interface{})
	if data["name"] != "Vegetables" {
		t.Errorf("expected name Vegetables, got %v", data["name"])
	}
	if data["category_type"] != models.CategoryTypeInventory {
		t.Errorf("expected default type Inventory, got %v", data["category_type"])
	}
	if data["active"] != true {
		t.Errorf("expected active true, got %v", data["active"])
	}
	if data["branch_id"] != float64(branch.ID) {
		t.Errorf("expected branch_id %d, got %v", branch.ID, data["branch_id"])
	}
	if data["encoded_by"] != float64(user.ID) {
		t.Errorf("expected encoded_by %d, got %v", user.ID, data["encoded_by"])
	}
}

func TestCreateCategoryTrimsName(t *testing.T) {
	db := freshDB()
	r := setupCategoryRouter(db)
	branch := seedBranch(db, "Main Branch")
	_, token := seedTestUser(db, "manager@test.com", "manager", &branch.ID)

	w := httptest.NewRecorder()
	req := authRequest("POST", "/api/categories", map[string]interface{}{
		"name": "  Dry Goods  ",
	}, token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := parseResponse(w)["data"].(map[string]interface{})
	if data["name"] != "Dry Goods" {
		t.Errorf("expected trimmed name, got %q", data["name"])
	}
}

func TestCreateCategoryValidation(t *testing.T) {
	db := freshDB()
	r := setupCategoryRouter(db)
	branch := seedBranch(db, "Main Branch")
	_, token := seedTestUser(db, "manager@test.com", "manager", &branch.ID)

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing name", map[string]interface{}{"icon": "carrot"}},
		{"whitespace name", map[string]interface{}{"name": "   "}},
		{"invalid type", map[string]interface{}{"name": "X", "category_type": "Nonsense"}},
		{"unknown icon", map[string]interface{}{"name": "X", "icon": "rocket"}},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := authRequest("POST", "/api/categories", tc.body, token)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, w.Code)
		}
		if resp := parseResponse(w); resp["success"] != false {
			t.Errorf("%s: expected success false, got %v", tc.name, resp["success"])
		}
	}
}

func TestGetCategoriesBranchScoping(t *testing.T) {
	db := freshDB()
	r := setupCategoryRouter(db)
	b1 := seedBranch(db, "Branch One")
	b2 := seedBranch(db, "Branch Two")
	seedCategory(db, b1.ID, "Vegetables")
	seedCategory(db, b2.ID, "Seafood")

	_, staffToken := seedTestUser(db, "staff@test.com", "staff", &b1.ID)
	_, adminToken := seedTestUser(db, "admin@test.com", "admin", nil)

	// Staff only sees their own branch.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/categories", nil, staffToken))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	data := parseResponse(w)["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("expected 1 category for staff, got %d", len(data))
	}
	if data[0].(map[string]interface{})["name"] != "Vegetables" {
		t.Errorf("staff should see their own branch's category")
	}

	// Admin filtered to branch two.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/categories?branch_id="+uintParam(b2.ID), nil, adminToken))
	data = parseResponse(w)["data"].([]interface{})
	if len(data) != 1 || data[0].(map[string]interface{})["name"] != "Seafood" {
		t.Errorf("admin filter by branch_id failed: %v", data)
	}

	// Admin with no filter sees all branches.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/categories", nil, adminToken))
	data = parseResponse(w)["data"].([]interface{})
	if len(data) != 2 {
		t.Errorf("expected admin to see 2 categories, got %d", len(data))
	}
}

func TestGetCategoriesNewestFirst(t *testing.T) {
	db := freshDB()
	r := setupCategoryRouter(db)
	branch := seedBranch(db, "Main Branch")
	_, token := seedTestUser(db, "staff@test.com", "staff", &branch.ID)
	seedCategory(db, branch.ID, "First")
	seedCategory(db, branch.ID, "Second")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/categories", nil, token))
	data := parseResponse(w)["data"].([]interface{})
	if len(data) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(data))
	}
	if data[0].(map[string]interface{})["name"] != "Second" {
		t.Errorf("expected newest category first, got %v", data[0])
	}
}

func TestCategoryLifecycle(t *testing.T) {
	db := freshDB()
	r := setupCategoryRouter(db)
	branch := seedBranch(db, "Main Branch")
	_, token := seedTestUser(db, "manager@test.com", "manager", &branch.ID)
	cat := seedCategory(db, branch.ID, "Vegetables")

	// Visible while active.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/categories/"+uintParam(cat.ID), nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// Delete succeeds.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("DELETE", "/api/categories/"+uintParam(cat.ID), nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d: %s", w.Code, w.Body.String())
	}

	// Gone from the API.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/categories/"+uintParam(cat.ID), nil, token))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/categories", nil, token))
	if data := parseResponse(w)["data"].([]interface{}); len(data) != 0 {
		t.Errorf("expected empty list after delete, got %d", len(data))
	}

	// Second delete reports not found.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("DELETE", "/api/categories/"+uintParam(cat.ID), nil, token))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", w.Code)
	}

	// The row itself survives with active flipped off and an edit stamp.
	var row models.Category
	if err := db.First(&row, cat.ID).Error; err != nil {
		t.Fatalf("deleted row should still exist: %v", err)
	}
	if row.Active {
		t.Errorf("expected active false after delete")
	}
	if row.EditedDt == nil {
		t.Errorf("expected edited_dt stamped on delete")
	}
}

func TestUpdateCategory(t *testing.T) {
	db := freshDB()
	r := setupCategoryRouter(db)
	branch := seedBranch(db, "Main Branch")
	user, token := seedTestUser(db, "manager@test.com", "manager", &branch.ID)
	cat := seedCategory(db, branch.ID, "Vegetables")

	w := httptest.NewRecorder()
	req := authRequest("PUT", "/api/categories/"+uintParam(cat.ID), map[string]interface{}{
		"name":          "Fresh Produce",
		"category_type": models.CategoryTypeInventory,
	}, token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := parseResponse(w)["data"].(map[string]interface{})
	if data["name"] != "Fresh Produce" {
		t.Errorf("expected updated name, got %v", data["name"])
	}
	if data["edited_by"] != float64(user.ID) {
		t.Errorf("expected edited_by %d, got %v", user.ID, data["edited_by"])
	}
	if data["edited_dt"] == nil {
		t.Errorf("expected edited_dt stamped")
	}
}

func TestUpdateDeletedCategoryReturns404(t *testing.T) {
	db := freshDB()
	r := setupCategoryRouter(db)
	branch := seedBranch(db, "Main Branch")
	_, token := seedTestUser(db, "manager@test.com", "manager", &branch.ID)
	cat := seedCategory(db, branch.ID, "Vegetables")
	db.Model(&models.Category{}).Where("id = ?", cat.ID).Update("active", false)

	w := httptest.NewRecorder()
	req := authRequest("PUT", "/api/categories/"+uintParam(cat.ID), map[string]interface{}{
		"name": "Fresh Produce",
	}, token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 updating a deleted category, got %d", w.Code)
	}
}

func TestDuplicateCategoryNamesAllowed(t *testing.T) {
	db := freshDB()
	r := setupCategoryRouter(db)
	branch := seedBranch(db, "Main Branch")
	_, token := seedTestUser(db, "manager@test.com", "manager", &branch.ID)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := authRequest("POST", "/api/categories", map[string]interface{}{
			"name": "Vegetables",
		}, token)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("create %d: expected 201, got %d: %s", i, w.Code, w.Body.String())
		}
	}

	var count int64
	db.Model(&models.Category{}).Where("branch_id = ? AND name = ?", branch.ID, "Vegetables").Count(&count)
	if count != 2 {
		t.Errorf("expected 2 rows with duplicate name, got %d", count)
	}
}

func TestCategoryEndpointsRequireAuth(t *testing.T) {
	db := freshDB()
	r := setupCategoryRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("GET", "/api/categories", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}
}

func TestGetCategoriesDBError(t *testing.T) {
	db := freshDB()
	r := setupCategoryRouter(db)
	branch := seedBranch(db, "Main Branch")
	_, token := seedTestUser(db, "staff@test.com", "staff", &branch.ID)
	seedCategory(db, branch.ID, "Vegetables")

	db.Exec("DROP TABLE categories")
	defer func() {
		if err := db.Migrator().AutoMigrate(&models.Category{}); err != nil {
			t.Fatalf("failed to recreate categories table: %v", err)
		}
	}()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/categories", nil, token))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 when table is missing, got %d", w.Code)
	}
	if resp := parseResponse(w); resp["success"] != false {
		t.Errorf("expected success false on error, got %v", resp["success"])
	}
}
