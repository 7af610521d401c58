package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneta/internal/clock"
	"moneta/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Amount parses a decimal literal, failing the test on junk.
func Amount(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("invalid amount %q: %v", value, err)
	}
	return d
}

// CreateTestBank creates a bank with a unique name.
func CreateTestBank(t *testing.T, db *gorm.DB) *models.Bank {
	t.Helper()
	bank := &models.Bank{Name: fmt.Sprintf("Bank %d", nextID())}
	if err := db.Create(bank).Error; err != nil {
		t.Fatalf("failed to create test bank: %v", err)
	}
	return bank
}

// CreateTestAccount creates a checking account with the given opening
// balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, opening string) *models.Account {
	t.Helper()
	return createAccount(t, db, models.AccountTypeChecking, opening)
}

// CreateTestCreditCard creates a credit-card account with monthly cycle
// geometry funded by fundingID.
func CreateTestCreditCard(t *testing.T, db *gorm.DB, fundingID uint, due, nextCycle time.Time) *models.Account {
	t.Helper()
	account := createAccount(t, db, models.AccountTypeCreditCard, "0")
	account.DueDate = &due
	account.NextCycleDate = &nextCycle
	account.StatementCycleLength = 1
	account.StatementCyclePeriod = "m"
	account.FundingAccountID = &fundingID
	account.CalculatePayments = true
	if err := db.Save(account).Error; err != nil {
		t.Fatalf("failed to update test credit card: %v", err)
	}
	return account
}

func createAccount(t *testing.T, db *gorm.DB, typeID uint, opening string) *models.Account {
	t.Helper()
	account := &models.Account{
		Name:           fmt.Sprintf("Account %d", nextID()),
		AccountTypeID:  typeID,
		BankID:         CreateTestBank(t, db).ID,
		OpeningBalance: Amount(t, opening),
		OpenDate:       clock.Date(2020, time.January, 1),
		Active:         true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestTag creates a main tag and a (parent, nil) tag pair.
func CreateTestTag(t *testing.T, db *gorm.DB) *models.Tag {
	t.Helper()
	main := &models.MainTag{Name: fmt.Sprintf("Tag %d", nextID())}
	if err := db.Create(main).Error; err != nil {
		t.Fatalf("failed to create test main tag: %v", err)
	}
	tag := &models.Tag{ParentID: main.ID}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create test tag: %v", err)
	}
	tag.Parent = *main
	return tag
}

// CreateTestRepeat creates a repeat period.
func CreateTestRepeat(t *testing.T, db *gorm.DB, days, weeks, months, years int) *models.Repeat {
	t.Helper()
	repeat := &models.Repeat{
		Name:   fmt.Sprintf("Repeat %d", nextID()),
		Days:   days,
		Weeks:  weeks,
		Months: months,
		Years:  years,
	}
	if err := db.Create(repeat).Error; err != nil {
		t.Fatalf("failed to create test repeat: %v", err)
	}
	return repeat
}

// CreateTestTransaction creates a stored transaction with a single
// full-toggle detail.
func CreateTestTransaction(t *testing.T, db *gorm.DB, accountID uint, typeID, statusID uint, date time.Time, amount string) *models.Transaction {
	t.Helper()
	total := Amount(t, amount)
	detailAmt := total.Neg()
	if typeID == models.TransactionTypeIncome {
		detailAmt = total
	}
	txn := &models.Transaction{
		Date:            date,
		TotalAmount:     total,
		StatusID:        statusID,
		TypeID:          typeID,
		Description:     fmt.Sprintf("Transaction %d", nextID()),
		AddDate:         date,
		EditDate:        date,
		SourceAccountID: &accountID,
		Details: []models.TransactionDetail{{
			TagID:      CreateTestTag(t, db).ID,
			DetailAmt:  detailAmt,
			FullToggle: true,
		}},
	}
	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return txn
}

// CreateTestTransfer creates a stored transfer between two accounts.
func CreateTestTransfer(t *testing.T, db *gorm.DB, sourceID, destinationID uint, statusID uint, date time.Time, amount string) *models.Transaction {
	t.Helper()
	total := Amount(t, amount)
	txn := &models.Transaction{
		Date:                 date,
		TotalAmount:          total,
		StatusID:             statusID,
		TypeID:               models.TransactionTypeTransfer,
		Description:          fmt.Sprintf("Transfer %d", nextID()),
		AddDate:              date,
		EditDate:             date,
		SourceAccountID:      &sourceID,
		DestinationAccountID: &destinationID,
		Details: []models.TransactionDetail{{
			TagID:      CreateTestTag(t, db).ID,
			DetailAmt:  total.Neg(),
			FullToggle: true,
		}},
	}
	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("failed to create test transfer: %v", err)
	}
	return txn
}

// CreateTestReminder creates a reminder on the account's expense side.
func CreateTestReminder(t *testing.T, db *gorm.DB, accountID uint, repeatID uint, next time.Time, amount string) *models.Reminder {
	t.Helper()
	reminder := &models.Reminder{
		TagID:           CreateTestTag(t, db).ID,
		Amount:          Amount(t, amount),
		SourceAccountID: accountID,
		Description:     fmt.Sprintf("Reminder %d", nextID()),
		TypeID:          models.TransactionTypeExpense,
		StartDate:       next,
		NextDate:        &next,
		RepeatID:        repeatID,
	}
	if err := db.Create(reminder).Error; err != nil {
		t.Fatalf("failed to create test reminder: %v", err)
	}
	return reminder
}

// CreateTestBudget creates an active roll-over budget over the given tags.
func CreateTestBudget(t *testing.T, db *gorm.DB, tagIDs string, repeatID uint, startDay time.Time, amount string) *models.Budget {
	t.Helper()
	budget := &models.Budget{
		Name:      fmt.Sprintf("Budget %d", nextID()),
		TagIDs:    tagIDs,
		Amount:    Amount(t, amount),
		RollOver:  true,
		RepeatID:  repeatID,
		StartDay:  startDay,
		Active:    true,
		NextStart: startDay,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
