package integration

import (
	"fmt"
	"net/http"
	"testing"

	"moneta/internal/models"
)

func TestBudgetUsageFlow(t *testing.T) {
	app := setupApp(t)

	accountID := app.createAccount(t, "Budget Checking", "0")
	tagID := app.createTag(t, "Groceries Budget")

	rec := app.request("POST", "/api/v1/repeats", `{"name":"Monthly Budget","months":1}`, testAPIKey)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create repeat failed: %d %s", rec.Code, rec.Body.String())
	}
	repeatID := parseJSON(t, rec)["repeat"].(map[string]interface{})["id"].(float64)

	body := fmt.Sprintf(`{"name":"Groceries","tag_ids":"%.0f","amount":"200.00","roll_over":true,"repeat_id":%.0f,"start_day":"2025-01-01","active":true}`,
		tagID, repeatID)
	rec = app.request("POST", "/api/v1/budgets", body, testAPIKey)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget failed: %d %s", rec.Code, rec.Body.String())
	}
	budget := parseJSON(t, rec)["budget"].(map[string]interface{})
	if budget["next_start"] != "2025-02-01" {
		t.Errorf("next_start = %v", budget["next_start"])
	}

	// Spend against the budget's tag inside the current window. The test
	// clock pins add_date to 2025-01-20.
	app.createTransaction(t, accountID, tagID, models.TransactionTypeExpense, models.StatusCleared,
		"2025-01-10", "50.00")

	rec = app.request("GET", fmt.Sprintf("/api/v1/budgets/%.0f", budget["id"].(float64)), "", testAPIKey)
	if rec.Code != http.StatusOK {
		t.Fatalf("get budget failed: %d %s", rec.Code, rec.Body.String())
	}
	got := parseJSON(t, rec)["budget"].(map[string]interface{})
	if got["used"] != "50.00" {
		t.Errorf("used = %v", got["used"])
	}
	if got["used_percentage"].(float64) != 25 {
		t.Errorf("used_percentage = %v", got["used_percentage"])
	}
	if got["window_start"] != "2025-01-01" || got["window_end"] != "2025-01-31" {
		t.Errorf("window = %v .. %v", got["window_start"], got["window_end"])
	}
}

func TestBudgetRejectsZeroRepeat(t *testing.T) {
	app := setupApp(t)

	tagID := app.createTag(t, "Zero Budget")
	rec := app.request("POST", "/api/v1/repeats", `{"name":"Never"}`, testAPIKey)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("zero repeat accepted: %d %s", rec.Code, rec.Body.String())
	}

	// A budget pointing at a missing repeat is rejected too.
	body := fmt.Sprintf(`{"name":"Broken","tag_ids":"%.0f","amount":"100.00","repeat_id":9999,"start_day":"2025-01-01","active":true}`, tagID)
	rec = app.request("POST", "/api/v1/budgets", body, testAPIKey)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing repeat: got %d, want 404: %s", rec.Code, rec.Body.String())
	}
}
