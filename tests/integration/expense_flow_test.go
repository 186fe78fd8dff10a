package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestExpenseFlow_CRUDAndFilters(t *testing.T) {
	app := setupApp(t)
	accessToken, _, _ := app.registerUser(t, "expenses@test.com", "password123")

	// Create a custom category
	rec := app.request("POST", "/api/v1/categories",
		`{"name":"Coffee","icon":"coffee","color":"#8B4513"}`, accessToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	category := parseJSON(t, rec)["category"].(map[string]interface{})
	categoryID := int(category["id"].(float64))

	// Create two expenses, one categorized
	body := fmt.Sprintf(`{
		"category_id": %d,
		"amount": 450,
		"description": "Flat white",
		"date": "2025-03-12T09:30:00Z"
	}`, categoryID)
	rec = app.request("POST", "/api/v1/expenses", body, accessToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
	}
	expense := parseJSON(t, rec)["expense"].(map[string]interface{})
	expenseID := int(expense["id"].(float64))
	if expense["source"] != "manual" {
		t.Errorf("expected manual source, got %v", expense["source"])
	}

	rec = app.request("POST", "/api/v1/expenses",
		`{"amount":12000,"description":"Groceries","date":"2025-03-11T18:00:00Z"}`, accessToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
	}

	// List everything
	rec = app.request("GET", "/api/v1/expenses", "", accessToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["total_items"].(float64) != 2 {
		t.Errorf("expected 2 expenses, got %v", result["total_items"])
	}

	// Filter by category
	rec = app.request("GET", fmt.Sprintf("/api/v1/expenses?category_id=%d", categoryID), "", accessToken)
	result = parseJSON(t, rec)
	if result["total_items"].(float64) != 1 {
		t.Errorf("expected 1 categorized expense, got %v", result["total_items"])
	}

	// Filter by amount range
	rec = app.request("GET", "/api/v1/expenses?min_amount=1000", "", accessToken)
	result = parseJSON(t, rec)
	if result["total_items"].(float64) != 1 {
		t.Errorf("expected 1 expense over 1000, got %v", result["total_items"])
	}

	// Search
	rec = app.request("GET", "/api/v1/expenses?search=flat", "", accessToken)
	result = parseJSON(t, rec)
	if result["total_items"].(float64) != 1 {
		t.Errorf("expected 1 search match, got %v", result["total_items"])
	}

	// Update
	rec = app.request("PUT", fmt.Sprintf("/api/v1/expenses/%d", expenseID),
		`{"amount":500,"notes":"price went up"}`, accessToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("update failed: %d %s", rec.Code, rec.Body.String())
	}
	updated := parseJSON(t, rec)["expense"].(map[string]interface{})
	if updated["amount"].(float64) != 500 {
		t.Errorf("expected amount 500, got %v", updated["amount"])
	}

	// Delete
	rec = app.request("DELETE", fmt.Sprintf("/api/v1/expenses/%d", expenseID), "", accessToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", fmt.Sprintf("/api/v1/expenses/%d", expenseID), "", accessToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestExpenseFlow_ValidationAndIsolation(t *testing.T) {
	app := setupApp(t)
	aliceToken, _, _ := app.registerUser(t, "alice@test.com", "password123")
	bobToken, _, _ := app.registerUser(t, "bob@test.com", "password123")

	// Zero amount is rejected
	rec := app.request("POST", "/api/v1/expenses",
		`{"amount":0,"description":"Free lunch","date":"2025-03-12T09:30:00Z"}`, aliceToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	assertErrorCode(t, rec, "VALIDATION_ERROR")

	// Alice's expense is invisible to Bob
	rec = app.request("POST", "/api/v1/expenses",
		`{"amount":450,"description":"Private","date":"2025-03-12T09:30:00Z"}`, aliceToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
	}
	expense := parseJSON(t, rec)["expense"].(map[string]interface{})
	expenseID := int(expense["id"].(float64))

	rec = app.request("GET", fmt.Sprintf("/api/v1/expenses/%d", expenseID), "", bobToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user's expense, got %d", rec.Code)
	}
	assertErrorCode(t, rec, "EXPENSE_NOT_FOUND")
}

func TestCategoryFlow_DefaultsAreProtected(t *testing.T) {
	app := setupApp(t)
	accessToken, _, _ := app.registerUser(t, "cats@test.com", "password123")

	rec := app.request("GET", "/api/v1/categories?page_size=50", "", accessToken)
	data := parseJSON(t, rec)["data"].([]interface{})
	first := data[0].(map[string]interface{})
	defaultID := int(first["id"].(float64))

	// Deleting a default category is refused
	rec = app.request("DELETE", fmt.Sprintf("/api/v1/categories/%d", defaultID), "", accessToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	assertErrorCode(t, rec, "DEFAULT_CATEGORY")

	// Duplicate names are refused
	name := first["name"].(string)
	rec = app.request("POST", "/api/v1/categories",
		fmt.Sprintf(`{"name":%q}`, name), accessToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate name, got %d: %s", rec.Code, rec.Body.String())
	}
	assertErrorCode(t, rec, "DUPLICATE_CATEGORY")
}
