package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"moneta/internal/clock"
	"moneta/internal/models"
	"moneta/internal/testutil"
)

var testToday = clock.Date(2025, time.January, 25)

func newCashFlow(t *testing.T) (CashFlowService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	clk := clock.Fixed{Date: testToday}
	return NewCashFlowService(db, clk, NewOptionService(db)), db
}

// Opening 100, cleared expense 25 on day one, cleared income 50 on day two:
// balances walk 75 then 125.
func TestListByAccountBalances(t *testing.T) {
	svc, db := newCashFlow(t)
	account := testutil.CreateTestAccount(t, db, "100.00")
	testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeExpense, models.StatusCleared,
		clock.Date(2025, time.January, 1), "25.00")
	testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeIncome, models.StatusCleared,
		clock.Date(2025, time.January, 2), "50.00")

	entries, _, err := svc.ListByAccount(account.ID, clock.Date(2025, time.December, 31), ComposeOptions{})
	testutil.AssertNoError(t, err)

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	testutil.AssertDecimal(t, entries[0].PrettyTotal, "-25.00")
	testutil.AssertDecimal(t, entries[0].Balance, "75.00")
	testutil.AssertDecimal(t, entries[1].PrettyTotal, "50.00")
	testutil.AssertDecimal(t, entries[1].Balance, "125.00")
}

// A transfer contributes -30 from the source viewpoint and +30 from the
// destination viewpoint, with the same display string on both sides.
func TestListByAccountTransferViewpoints(t *testing.T) {
	svc, db := newCashFlow(t)
	source := testutil.CreateTestAccount(t, db, "0")
	destination := testutil.CreateTestAccount(t, db, "0")
	testutil.CreateTestTransfer(t, db, source.ID, destination.ID, models.StatusCleared,
		clock.Date(2025, time.January, 10), "30.00")

	end := clock.Date(2025, time.December, 31)
	fromSource, _, err := svc.ListByAccount(source.ID, end, ComposeOptions{})
	testutil.AssertNoError(t, err)
	fromDestination, _, err := svc.ListByAccount(destination.ID, end, ComposeOptions{})
	testutil.AssertNoError(t, err)

	if len(fromSource) != 1 || len(fromDestination) != 1 {
		t.Fatalf("got %d and %d entries", len(fromSource), len(fromDestination))
	}
	testutil.AssertDecimal(t, fromSource[0].PrettyTotal, "-30.00")
	testutil.AssertDecimal(t, fromDestination[0].PrettyTotal, "30.00")
	if !fromSource[0].PrettyTotal.Add(fromDestination[0].PrettyTotal).IsZero() {
		t.Error("transfer viewpoints do not cancel")
	}
	want := source.Name + " => " + destination.Name
	if fromSource[0].PrettyAccount != want || fromDestination[0].PrettyAccount != want {
		t.Errorf("pretty accounts = %q / %q, want %q",
			fromSource[0].PrettyAccount, fromDestination[0].PrettyAccount, want)
	}
}

func TestListByAccountMissingAccount(t *testing.T) {
	svc, _ := newCashFlow(t)
	entries, previous, err := svc.ListByAccount(9999, clock.Date(2025, time.December, 31), ComposeOptions{})
	testutil.AssertNoError(t, err)
	if len(entries) != 0 {
		t.Errorf("got %d entries for missing account", len(entries))
	}
	testutil.AssertDecimal(t, previous, "0")
}

func TestListByAccountExcludesArchived(t *testing.T) {
	svc, db := newCashFlow(t)
	account := testutil.CreateTestAccount(t, db, "100.00")
	testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeExpense, models.StatusArchived,
		clock.Date(2020, time.March, 1), "500.00")
	testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeExpense, models.StatusCleared,
		clock.Date(2025, time.January, 1), "25.00")

	entries, _, err := svc.ListByAccount(account.ID, clock.Date(2025, time.December, 31), ComposeOptions{})
	testutil.AssertNoError(t, err)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1 (archived excluded)", len(entries))
	}
}

// The archive balance anchors the running balance alongside the opening.
func TestListByAccountArchiveAnchor(t *testing.T) {
	svc, db := newCashFlow(t)
	account := testutil.CreateTestAccount(t, db, "100.00")
	account.ArchiveBalance = testutil.Amount(t, "-40.00")
	testutil.AssertNoError(t, db.Save(account).Error)
	testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeIncome, models.StatusCleared,
		clock.Date(2025, time.January, 2), "10.00")

	entries, _, err := svc.ListByAccount(account.ID, clock.Date(2025, time.December, 31), ComposeOptions{})
	testutil.AssertNoError(t, err)
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	testutil.AssertDecimal(t, entries[0].Balance, "70.00")
}

func TestListByAccountMergesReminderOrbit(t *testing.T) {
	svc, db := newCashFlow(t)
	account := testutil.CreateTestAccount(t, db, "0")
	repeat := testutil.CreateTestRepeat(t, db, 0, 0, 1, 0)
	testutil.CreateTestReminder(t, db, account.ID, repeat.ID,
		clock.Date(2025, time.February, 1), "40.00")

	entries, _, err := svc.ListByAccount(account.ID, clock.Date(2025, time.April, 30), ComposeOptions{})
	testutil.AssertNoError(t, err)

	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3 reminder orbits", len(entries))
	}
	for _, e := range entries {
		if !e.IsVirtual() {
			t.Errorf("entry %d should be virtual", e.ID)
		}
		testutil.AssertDecimal(t, e.PrettyTotal, "-40.00")
	}
	// Running balance continues across virtual rows.
	testutil.AssertDecimal(t, entries[2].Balance, "-120.00")
}

func TestListByAccountClearedOnlySkipsVirtuals(t *testing.T) {
	svc, db := newCashFlow(t)
	account := testutil.CreateTestAccount(t, db, "0")
	repeat := testutil.CreateTestRepeat(t, db, 0, 0, 1, 0)
	testutil.CreateTestReminder(t, db, account.ID, repeat.ID,
		clock.Date(2025, time.February, 1), "40.00")
	testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeExpense, models.StatusCleared,
		clock.Date(2025, time.January, 2), "10.00")

	entries, _, err := svc.ListByAccount(account.ID, clock.Date(2025, time.April, 30), ComposeOptions{ClearedOnly: true})
	testutil.AssertNoError(t, err)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want only the stored row", len(entries))
	}
}

// A credit card's spending produces a projected payment on the card and a
// mirrored outflow on the funding account's own listing.
func TestListByAccountProjectsStatements(t *testing.T) {
	svc, db := newCashFlow(t)
	funding := testutil.CreateTestAccount(t, db, "1000.00")
	cc := testutil.CreateTestCreditCard(t, db, funding.ID,
		clock.Date(2025, time.February, 25), clock.Date(2025, time.February, 1))
	testutil.CreateTestTransaction(t, db, cc.ID, models.TransactionTypeExpense, models.StatusCleared,
		clock.Date(2025, time.January, 10), "120.00")

	end := clock.Date(2025, time.March, 1)
	onCard, _, err := svc.ListByAccount(cc.ID, end, ComposeOptions{})
	testutil.AssertNoError(t, err)

	var payment, mirror int
	for _, e := range onCard {
		if e.Simulated {
			payment++
			testutil.AssertDecimal(t, e.PrettyTotal, "120.00")
			if !e.Date.Equal(clock.Date(2025, time.February, 25)) {
				t.Errorf("payment date = %v", e.Date)
			}
		}
	}
	if payment != 1 {
		t.Fatalf("got %d projected payments on the card, want 1", payment)
	}

	onFunding, _, err := svc.ListByAccount(funding.ID, end, ComposeOptions{})
	testutil.AssertNoError(t, err)
	for _, e := range onFunding {
		if e.Simulated {
			mirror++
			testutil.AssertDecimal(t, e.PrettyTotal, "-120.00")
		}
	}
	if mirror != 1 {
		t.Fatalf("got %d mirrors on the funding account, want 1", mirror)
	}
}

func TestListByAccountProjectionDisabledByOption(t *testing.T) {
	svc, db := newCashFlow(t)
	options := NewOptionService(db)
	disabled := false
	_, err := options.Update(UpdateOptionInput{EnableCCBillCalculation: &disabled})
	testutil.AssertNoError(t, err)

	funding := testutil.CreateTestAccount(t, db, "1000.00")
	cc := testutil.CreateTestCreditCard(t, db, funding.ID,
		clock.Date(2025, time.February, 25), clock.Date(2025, time.February, 1))
	testutil.CreateTestTransaction(t, db, cc.ID, models.TransactionTypeExpense, models.StatusCleared,
		clock.Date(2025, time.January, 10), "120.00")

	entries, _, err := svc.ListByAccount(cc.ID, clock.Date(2025, time.March, 1), ComposeOptions{})
	testutil.AssertNoError(t, err)
	for _, e := range entries {
		if e.Simulated {
			t.Fatal("projected payment present with calculation disabled")
		}
	}
}

func TestListByAccountForecastMode(t *testing.T) {
	svc, db := newCashFlow(t)
	account := testutil.CreateTestAccount(t, db, "100.00")
	testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeExpense, models.StatusCleared,
		clock.Date(2025, time.January, 1), "25.00")
	testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeExpense, models.StatusPending,
		clock.Date(2025, time.February, 10), "10.00")

	entries, previous, err := svc.ListByAccount(account.ID, clock.Date(2025, time.March, 1), ComposeOptions{Forecast: true})
	testutil.AssertNoError(t, err)

	// Only the future pending row survives; the balance carried in is the
	// cleared history's endpoint.
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	testutil.AssertDecimal(t, previous, "75.00")
	testutil.AssertDecimal(t, entries[0].Balance, "65.00")
}

func TestListByTag(t *testing.T) {
	svc, db := newCashFlow(t)
	account := testutil.CreateTestAccount(t, db, "0")
	txn := testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeExpense, models.StatusCleared,
		clock.Date(2025, time.January, 5), "80.00")
	// Unrelated row with a different tag.
	testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeExpense, models.StatusCleared,
		clock.Date(2025, time.January, 6), "15.00")

	entries, err := svc.ListByTag(txn.Details[0].TagID, clock.Date(2025, time.December, 31))
	testutil.AssertNoError(t, err)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	testutil.AssertDecimal(t, entries[0].PrettyTotal, "-80.00")
}

func TestForecastSeries(t *testing.T) {
	svc, db := newCashFlow(t)
	account := testutil.CreateTestAccount(t, db, "100.00")
	testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeExpense, models.StatusPending,
		clock.Date(2025, time.January, 27), "30.00")

	labels, balances, err := svc.ForecastSeries(account.ID, testToday, testToday.AddDate(0, 0, 3))
	testutil.AssertNoError(t, err)

	if len(labels) != 4 || len(balances) != 4 {
		t.Fatalf("got %d labels, %d balances", len(labels), len(balances))
	}
	if labels[0] != "Jan 25, 25" {
		t.Errorf("label = %q", labels[0])
	}
	testutil.AssertDecimal(t, balances[0], "100.00")
	testutil.AssertDecimal(t, balances[1], "100.00")
	testutil.AssertDecimal(t, balances[2], "70.00")
	testutil.AssertDecimal(t, balances[3], "70.00")
}
