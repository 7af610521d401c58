package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"moneta/internal/clock"
	"moneta/internal/config"
	"moneta/internal/handlers"
	"moneta/internal/logger"
	"moneta/internal/middleware"
	"moneta/internal/models"
	"moneta/internal/services"
	"moneta/internal/validator"
)

const testAPIKey = "integration-test-key"

// testToday pins the civil date every handler sees.
var testToday = clock.Date(2025, time.January, 20)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	os.Setenv("API_KEY", testAPIKey)
	config.Load()
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.AccountType{},
		&models.Bank{},
		&models.Account{},
		&models.TransactionType{},
		&models.TransactionStatus{},
		&models.Transaction{},
		&models.TransactionDetail{},
		&models.TagType{},
		&models.MainTag{},
		&models.SubTag{},
		&models.Tag{},
		&models.Repeat{},
		&models.Reminder{},
		&models.ReminderExclusion{},
		&models.Budget{},
		&models.Option{},
		&models.Payee{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	seeds := []interface{}{
		&models.AccountType{ID: models.AccountTypeCreditCard, Name: "Credit Card"},
		&models.AccountType{ID: models.AccountTypeChecking, Name: "Checking"},
		&models.TransactionType{ID: models.TransactionTypeExpense, Name: "Expense"},
		&models.TransactionType{ID: models.TransactionTypeIncome, Name: "Income"},
		&models.TransactionType{ID: models.TransactionTypeTransfer, Name: "Transfer"},
		&models.TransactionStatus{ID: models.StatusPending, Name: "Pending"},
		&models.TransactionStatus{ID: models.StatusCleared, Name: "Cleared"},
		&models.TransactionStatus{ID: models.StatusReconciled, Name: "Reconciled"},
		&models.TransactionStatus{ID: models.StatusArchived, Name: "Archived"},
	}
	for _, row := range seeds {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("failed to seed vocabulary: %v", err)
		}
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	clk := clock.Fixed{Date: testToday}

	// Services
	optionService := services.NewOptionService(db)
	accountService := services.NewAccountService(db)
	transactionService := services.NewTransactionService(db, clk)
	cashFlowService := services.NewCashFlowService(db, clk, optionService)
	reminderService := services.NewReminderService(db, clk, transactionService)
	budgetService := services.NewBudgetService(db, clk)
	tagService := services.NewTagService(db, clk)
	referenceService := services.NewReferenceService(db)

	// Handlers
	accountHandler := handlers.NewAccountHandler(accountService, cashFlowService, clk)
	transactionHandler := handlers.NewTransactionHandler(transactionService, cashFlowService, clk)
	reminderHandler := handlers.NewReminderHandler(reminderService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	tagHandler := handlers.NewTagHandler(tagService)
	optionHandler := handlers.NewOptionHandler(optionService)
	referenceHandler := handlers.NewReferenceHandler(referenceService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth())

	accounts := v1.Group("/accounts")
	accounts.GET("", accountHandler.ListAccounts)
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("/:account_id", accountHandler.GetAccount)
	accounts.PUT("/:account_id", accountHandler.UpdateAccount)
	accounts.DELETE("/:account_id", accountHandler.DeleteAccount)
	accounts.GET("/forecast/:account_id", accountHandler.Forecast)

	transactions := v1.Group("/transactions")
	transactions.GET("/account/:account_id", transactionHandler.ListByAccount)
	transactions.GET("/tag/:tag_id", transactionHandler.ListByTag)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("/:transaction_id", transactionHandler.GetTransaction)
	transactions.PUT("/:transaction_id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:transaction_id", transactionHandler.DeleteTransaction)
	transactions.POST("/:transaction_id/clear", transactionHandler.ClearTransaction)

	reminders := v1.Group("/reminders")
	reminders.GET("", reminderHandler.ListReminders)
	reminders.POST("", reminderHandler.CreateReminder)
	reminders.GET("/:reminder_id", reminderHandler.GetReminder)
	reminders.PUT("/:reminder_id", reminderHandler.UpdateReminder)
	reminders.DELETE("/:reminder_id", reminderHandler.DeleteReminder)
	reminders.POST("/:reminder_id/exclusions", reminderHandler.AddExclusion)
	reminders.DELETE("/:reminder_id/exclusions", reminderHandler.RemoveExclusion)

	budgets := v1.Group("/budgets")
	budgets.GET("", budgetHandler.ListBudgets)
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("/:budget_id", budgetHandler.GetBudget)
	budgets.PUT("/:budget_id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:budget_id", budgetHandler.DeleteBudget)

	tags := v1.Group("/tags")
	tags.GET("", tagHandler.ListTags)
	tags.POST("", tagHandler.CreateTag)
	tags.DELETE("/:tag_id", tagHandler.DeleteTag)
	tags.GET("/:tag_id/graph", tagHandler.TagGraph)
	tags.POST("/main", tagHandler.CreateMainTag)
	tags.POST("/sub", tagHandler.CreateSubTag)

	options := v1.Group("/options")
	options.GET("", optionHandler.GetOptions)
	options.PUT("", optionHandler.UpdateOptions)

	banks := v1.Group("/banks")
	banks.GET("", referenceHandler.ListBanks)
	banks.POST("", referenceHandler.CreateBank)

	repeats := v1.Group("/repeats")
	repeats.GET("", referenceHandler.ListRepeats)
	repeats.POST("", referenceHandler.CreateRepeat)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// createBank creates a bank through the API and returns its id.
func (app *testApp) createBank(t *testing.T, name string) float64 {
	t.Helper()
	rec := app.request("POST", "/api/v1/banks", fmt.Sprintf(`{"name":%q}`, name), testAPIKey)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create bank failed: %d %s", rec.Code, rec.Body.String())
	}
	bank := parseJSON(t, rec)["bank"].(map[string]interface{})
	return bank["id"].(float64)
}

// createAccount creates a checking account through the API and returns its id.
func (app *testApp) createAccount(t *testing.T, name, opening string) float64 {
	t.Helper()
	bankID := app.createBank(t, "Bank of "+name)
	body := fmt.Sprintf(`{"name":%q,"account_type_id":%d,"bank_id":%.0f,"opening_balance":%q,"open_date":"2020-01-01","active":true}`,
		name, models.AccountTypeChecking, bankID, opening)
	rec := app.request("POST", "/api/v1/accounts", body, testAPIKey)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account failed: %d %s", rec.Code, rec.Body.String())
	}
	account := parseJSON(t, rec)["account"].(map[string]interface{})
	return account["id"].(float64)
}

// createTag creates a main tag plus a (parent, nil) tag pair and returns the
// tag pair's id.
func (app *testApp) createTag(t *testing.T, name string) float64 {
	t.Helper()
	rec := app.request("POST", "/api/v1/tags/main", fmt.Sprintf(`{"name":%q}`, name), testAPIKey)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create main tag failed: %d %s", rec.Code, rec.Body.String())
	}
	main := parseJSON(t, rec)["main_tag"].(map[string]interface{})

	body := fmt.Sprintf(`{"parent_id":%.0f}`, main["id"].(float64))
	rec = app.request("POST", "/api/v1/tags", body, testAPIKey)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create tag failed: %d %s", rec.Code, rec.Body.String())
	}
	tag := parseJSON(t, rec)["tag"].(map[string]interface{})
	return tag["id"].(float64)
}

// createTransaction creates an expense or income with one full-toggle detail
// and returns its id.
func (app *testApp) createTransaction(t *testing.T, accountID, tagID float64, typeID, statusID uint, date, amount string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"date":%q,"total_amount":%q,"status_id":%d,"type_id":%d,"description":"flow test","source_account_id":%.0f,"details":[{"tag_id":%.0f,"full_toggle":true}]}`,
		date, amount, statusID, typeID, accountID, tagID)
	rec := app.request("POST", "/api/v1/transactions", body, testAPIKey)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction failed: %d %s", rec.Code, rec.Body.String())
	}
	txn := parseJSON(t, rec)["transaction"].(map[string]interface{})
	return txn["id"].(float64)
}
