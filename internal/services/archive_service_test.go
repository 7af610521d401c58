package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"moneta/internal/clock"
	"moneta/internal/models"
	"moneta/internal/testutil"
)

func newArchive(t *testing.T, autoArchive bool, archiveLength int) (ArchiveService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	options := NewOptionService(db)
	length := archiveLength
	_, err := options.Update(UpdateOptionInput{AutoArchive: &autoArchive, ArchiveLength: &length})
	testutil.AssertNoError(t, err)
	return NewArchiveService(db, options), db
}

func statusOf(t *testing.T, db *gorm.DB, id uint) uint {
	t.Helper()
	var txn models.Transaction
	testutil.AssertNoError(t, db.First(&txn, id).Error)
	return txn.StatusID
}

// With archive_length 2 on 2025-06-15 the cutoff is 2023-12-31: a row dated
// exactly on the cutoff is archived, the next day survives.
func TestSweepCutoff(t *testing.T) {
	svc, db := newArchive(t, true, 2)
	account := testutil.CreateTestAccount(t, db, "0")
	old := testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeExpense, models.StatusCleared,
		clock.Date(2023, time.December, 31), "25.00")
	recent := testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeExpense, models.StatusCleared,
		clock.Date(2024, time.January, 1), "10.00")

	n, err := svc.Sweep(clock.Date(2025, time.June, 15))
	testutil.AssertNoError(t, err)
	if n != 1 {
		t.Fatalf("archived %d rows, want 1", n)
	}
	if got := statusOf(t, db, old.ID); got != models.StatusArchived {
		t.Errorf("old row status = %d, want archived", got)
	}
	if got := statusOf(t, db, recent.ID); got != models.StatusCleared {
		t.Errorf("recent row status = %d, want cleared", got)
	}
}

func TestSweepUpdatesArchiveBalance(t *testing.T) {
	svc, db := newArchive(t, true, 2)
	account := testutil.CreateTestAccount(t, db, "0")
	other := testutil.CreateTestAccount(t, db, "0")
	testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeExpense, models.StatusCleared,
		clock.Date(2020, time.March, 1), "25.00")
	testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeIncome, models.StatusCleared,
		clock.Date(2020, time.April, 1), "100.00")
	// The destination side of an archived transfer counts positively.
	testutil.CreateTestTransfer(t, db, other.ID, account.ID, models.StatusCleared,
		clock.Date(2020, time.May, 1), "30.00")

	_, err := svc.Sweep(clock.Date(2025, time.June, 15))
	testutil.AssertNoError(t, err)

	var got models.Account
	testutil.AssertNoError(t, db.First(&got, account.ID).Error)
	testutil.AssertDecimal(t, got.ArchiveBalance, "105.00")
	var gotOther models.Account
	testutil.AssertNoError(t, db.First(&gotOther, other.ID).Error)
	testutil.AssertDecimal(t, gotOther.ArchiveBalance, "-30.00")
}

func TestSweepIdempotent(t *testing.T) {
	svc, db := newArchive(t, true, 2)
	account := testutil.CreateTestAccount(t, db, "0")
	testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeExpense, models.StatusCleared,
		clock.Date(2020, time.March, 1), "25.00")

	today := clock.Date(2025, time.June, 15)
	n, err := svc.Sweep(today)
	testutil.AssertNoError(t, err)
	if n != 1 {
		t.Fatalf("first sweep archived %d rows, want 1", n)
	}
	n, err = svc.Sweep(today)
	testutil.AssertNoError(t, err)
	if n != 0 {
		t.Errorf("second sweep archived %d rows, want 0", n)
	}
	var got models.Account
	testutil.AssertNoError(t, db.First(&got, account.ID).Error)
	testutil.AssertDecimal(t, got.ArchiveBalance, "-25.00")
}

func TestSweepDisabled(t *testing.T) {
	svc, db := newArchive(t, false, 2)
	account := testutil.CreateTestAccount(t, db, "0")
	old := testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeExpense, models.StatusCleared,
		clock.Date(2020, time.March, 1), "25.00")

	n, err := svc.Sweep(clock.Date(2025, time.June, 15))
	testutil.AssertNoError(t, err)
	if n != 0 {
		t.Errorf("archived %d rows with auto-archive off", n)
	}
	if got := statusOf(t, db, old.ID); got != models.StatusCleared {
		t.Errorf("row status = %d, want cleared", got)
	}
}
