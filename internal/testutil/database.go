// Package testutil provides test helpers for setting up in-memory databases,
// creating fixtures, and making assertions.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"moneta/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbCounter atomic.Int64

// allModels is the list of all GORM models to auto-migrate in tests.
var allModels = []interface{}{
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

// SetupTestDB creates an in-memory SQLite database with all models migrated
// and the fixed vocabularies seeded.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A uniquely named shared-cache database keeps every pooled connection
	// on the same in-memory store and isolates tests from each other.
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	seedVocabularies(t, db)
	return db
}

// seedVocabularies inserts the semantic rows the code keys off by id.
func seedVocabularies(t *testing.T, db *gorm.DB) {
	t.Helper()

	rows := []interface{}{
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
	for _, row := range rows {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("failed to seed vocabulary: %v", err)
		}
	}
}

// TeardownTestDB closes the underlying database connection.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}
