package services

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"moneta/internal/clock"
	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/testutil"
)

func newAccount(t *testing.T) (AccountService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return NewAccountService(db), db
}

func accountInput(t *testing.T, db *gorm.DB, typeID uint) AccountInput {
	t.Helper()
	bank := testutil.CreateTestBank(t, db)
	return AccountInput{
		Name:           "Main at " + bank.Name,
		AccountTypeID:  typeID,
		BankID:         bank.ID,
		OpeningBalance: testutil.Amount(t, "100.00"),
		OpenDate:       clock.Date(2020, time.January, 1),
		Active:         true,
	}
}

func TestCreateAccount(t *testing.T) {
	svc, db := newAccount(t)
	account, err := svc.Create(accountInput(t, db, models.AccountTypeChecking))
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, account.OpeningBalance, "100.00")
	if account.AccountType.ID != models.AccountTypeChecking {
		t.Errorf("account type = %d, want checking", account.AccountType.ID)
	}
}

func TestFundingRules(t *testing.T) {
	svc, db := newAccount(t)
	checking := testutil.CreateTestAccount(t, db, "0")
	savingsType := models.AccountType{Name: "Savings"}
	testutil.AssertNoError(t, db.Create(&savingsType).Error)
	savings, err := svc.Create(accountInput(t, db, savingsType.ID))
	testutil.AssertNoError(t, err)

	// Only credit cards may designate a funding account.
	input := accountInput(t, db, models.AccountTypeChecking)
	input.FundingAccountID = &checking.ID
	_, err = svc.Create(input)
	testutil.AssertAppError(t, err, apperrors.ErrFundingNotSupported.Code)

	// The funding account must be a checking account.
	input = accountInput(t, db, models.AccountTypeCreditCard)
	input.FundingAccountID = &savings.ID
	_, err = svc.Create(input)
	testutil.AssertAppError(t, err, apperrors.ErrFundingNotChecking.Code)

	// The funding account must exist.
	missing := uint(9999)
	input.FundingAccountID = &missing
	_, err = svc.Create(input)
	testutil.AssertAppError(t, err, apperrors.ErrAccountNotFound.Code)

	input.FundingAccountID = &checking.ID
	card, err := svc.Create(input)
	testutil.AssertNoError(t, err)

	// An account cannot fund itself.
	update := input
	update.FundingAccountID = &card.ID
	_, err = svc.Update(card.ID, update)
	testutil.AssertAppError(t, err, apperrors.ErrSelfFundingAccount.Code)
}

func TestDeletePreservesTransfers(t *testing.T) {
	svc, db := newAccount(t)
	account := testutil.CreateTestAccount(t, db, "0")
	counterparty := testutil.CreateTestAccount(t, db, "0")

	expense := testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeExpense, models.StatusCleared,
		clock.Date(2025, time.January, 5), "25.00")
	transfer := testutil.CreateTestTransfer(t, db, account.ID, counterparty.ID, models.StatusCleared,
		clock.Date(2025, time.January, 6), "30.00")

	testutil.AssertNoError(t, svc.Delete(account.ID))

	if err := db.First(&models.Transaction{}, expense.ID).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expense survived the delete: %v", err)
	}
	var details int64
	err := db.Model(&models.TransactionDetail{}).
		Where("transaction_id = ?", expense.ID).Count(&details).Error
	testutil.AssertNoError(t, err)
	if details != 0 {
		t.Errorf("got %d orphaned details", details)
	}
	testutil.AssertNoError(t, db.First(&models.Transaction{}, transfer.ID).Error)
}

func TestDeleteDetachesFundedCards(t *testing.T) {
	svc, db := newAccount(t)
	funding := testutil.CreateTestAccount(t, db, "0")
	card := testutil.CreateTestCreditCard(t, db, funding.ID,
		clock.Date(2025, time.February, 25), clock.Date(2025, time.February, 1))

	testutil.AssertNoError(t, svc.Delete(funding.ID))

	var got models.Account
	testutil.AssertNoError(t, db.First(&got, card.ID).Error)
	if got.FundingAccountID != nil {
		t.Errorf("funding_account_id = %d, want detached", *got.FundingAccountID)
	}
}

func TestListActiveOnly(t *testing.T) {
	svc, db := newAccount(t)
	testutil.CreateTestAccount(t, db, "0")
	inactive := testutil.CreateTestAccount(t, db, "0")
	inactive.Active = false
	testutil.AssertNoError(t, db.Save(inactive).Error)

	all, err := svc.List(false)
	testutil.AssertNoError(t, err)
	active, err := svc.List(true)
	testutil.AssertNoError(t, err)
	if len(all) != 2 || len(active) != 1 {
		t.Errorf("got %d total and %d active accounts, want 2 and 1", len(all), len(active))
	}
}

func TestGetMissingAccount(t *testing.T) {
	svc, _ := newAccount(t)
	_, err := svc.Get(9999)
	testutil.AssertAppError(t, err, apperrors.ErrAccountNotFound.Code)
}
