package integration

import (
	"fmt"
	"net/http"
	"testing"

	"moneta/internal/models"
)

func TestCashFlowListingFlow(t *testing.T) {
	app := setupApp(t)

	accountID := app.createAccount(t, "Listing Checking", "100.00")
	tagID := app.createTag(t, "Groceries")
	app.createTransaction(t, accountID, tagID, models.TransactionTypeExpense, models.StatusCleared,
		"2025-01-01", "25.00")
	app.createTransaction(t, accountID, tagID, models.TransactionTypeIncome, models.StatusCleared,
		"2025-01-02", "50.00")

	rec := app.request("GET", fmt.Sprintf("/api/v1/transactions/account/%.0f", accountID), "", testAPIKey)
	if rec.Code != http.StatusOK {
		t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	page := result["transactions"].(map[string]interface{})
	rows := page["data"].([]interface{})
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	// Newest first: the income tops the page.
	first := rows[0].(map[string]interface{})
	second := rows[1].(map[string]interface{})
	if first["pretty_total"] != "50.00" || first["balance"] != "125.00" {
		t.Errorf("first row = %v / %v", first["pretty_total"], first["balance"])
	}
	if second["pretty_total"] != "-25.00" || second["balance"] != "75.00" {
		t.Errorf("second row = %v / %v", second["pretty_total"], second["balance"])
	}
}

func TestClearToggleFlow(t *testing.T) {
	app := setupApp(t)

	accountID := app.createAccount(t, "Toggle Checking", "0")
	tagID := app.createTag(t, "Dining")
	txnID := app.createTransaction(t, accountID, tagID, models.TransactionTypeExpense, models.StatusPending,
		"2025-01-10", "15.00")

	rec := app.request("POST", fmt.Sprintf("/api/v1/transactions/%.0f/clear", txnID), "", testAPIKey)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear failed: %d %s", rec.Code, rec.Body.String())
	}
	txn := parseJSON(t, rec)["transaction"].(map[string]interface{})
	if uint(txn["status_id"].(float64)) != models.StatusCleared {
		t.Errorf("status = %v, want cleared", txn["status_id"])
	}

	rec = app.request("POST", fmt.Sprintf("/api/v1/transactions/%.0f/clear", txnID), "", testAPIKey)
	txn = parseJSON(t, rec)["transaction"].(map[string]interface{})
	if uint(txn["status_id"].(float64)) != models.StatusPending {
		t.Errorf("status = %v, want pending again", txn["status_id"])
	}
}

// A monthly reminder shows up in the composed listing as virtual rows with
// negative ids, without any stored counterpart.
func TestReminderAppearsInListing(t *testing.T) {
	app := setupApp(t)

	accountID := app.createAccount(t, "Reminder Checking", "0")
	tagID := app.createTag(t, "Rent")

	rec := app.request("POST", "/api/v1/repeats", `{"name":"Monthly","months":1}`, testAPIKey)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create repeat failed: %d %s", rec.Code, rec.Body.String())
	}
	repeat := parseJSON(t, rec)["repeat"].(map[string]interface{})

	body := fmt.Sprintf(`{"tag_id":%.0f,"amount":"40.00","source_account_id":%.0f,"description":"Rent","type_id":%d,"start_date":"2025-02-01","repeat_id":%.0f}`,
		tagID, accountID, models.TransactionTypeExpense, repeat["id"].(float64))
	rec = app.request("POST", "/api/v1/reminders", body, testAPIKey)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create reminder failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", fmt.Sprintf("/api/v1/transactions/account/%.0f?max_days=75", accountID), "", testAPIKey)
	if rec.Code != http.StatusOK {
		t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
	}
	page := parseJSON(t, rec)["transactions"].(map[string]interface{})
	rows := page["data"].([]interface{})
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 reminder orbits", len(rows))
	}
	for _, r := range rows {
		row := r.(map[string]interface{})
		if row["id"].(float64) >= 0 {
			t.Errorf("row id = %v, want a virtual id", row["id"])
		}
		if row["pretty_total"] != "-40.00" {
			t.Errorf("pretty_total = %v", row["pretty_total"])
		}
	}
}

func TestTransferFlow(t *testing.T) {
	app := setupApp(t)

	sourceID := app.createAccount(t, "Transfer Source", "0")
	destinationID := app.createAccount(t, "Transfer Destination", "0")
	tagID := app.createTag(t, "Moves")

	body := fmt.Sprintf(`{"date":"2025-01-10","total_amount":"30.00","status_id":%d,"type_id":%d,"description":"move","source_account_id":%.0f,"destination_account_id":%.0f,"details":[{"tag_id":%.0f,"full_toggle":true}]}`,
		models.StatusCleared, models.TransactionTypeTransfer, sourceID, destinationID, tagID)
	rec := app.request("POST", "/api/v1/transactions", body, testAPIKey)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transfer failed: %d %s", rec.Code, rec.Body.String())
	}

	fromSource := app.request("GET", fmt.Sprintf("/api/v1/transactions/account/%.0f", sourceID), "", testAPIKey)
	rows := parseJSON(t, fromSource)["transactions"].(map[string]interface{})["data"].([]interface{})
	if len(rows) != 1 {
		t.Fatalf("got %d source rows, want 1", len(rows))
	}
	row := rows[0].(map[string]interface{})
	if row["pretty_total"] != "-30.00" {
		t.Errorf("source pretty_total = %v", row["pretty_total"])
	}
	if row["pretty_account"] != "Transfer Source => Transfer Destination" {
		t.Errorf("pretty_account = %v", row["pretty_account"])
	}

	fromDestination := app.request("GET", fmt.Sprintf("/api/v1/transactions/account/%.0f", destinationID), "", testAPIKey)
	rows = parseJSON(t, fromDestination)["transactions"].(map[string]interface{})["data"].([]interface{})
	if len(rows) != 1 {
		t.Fatalf("got %d destination rows, want 1", len(rows))
	}
	if rows[0].(map[string]interface{})["pretty_total"] != "30.00" {
		t.Errorf("destination pretty_total = %v", rows[0].(map[string]interface{})["pretty_total"])
	}
}
