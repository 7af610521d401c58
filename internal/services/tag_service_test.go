package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"moneta/internal/clock"
	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/testutil"
)

func newTag(t *testing.T) (TagService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	clk := clock.Fixed{Date: clock.Date(2025, time.June, 15)}
	return NewTagService(db, clk), db
}

func TestTagPairLifecycle(t *testing.T) {
	svc, _ := newTag(t)

	main, err := svc.CreateMainTag("Food", nil)
	testutil.AssertNoError(t, err)
	sub, err := svc.CreateSubTag("Restaurants", main.ID, nil)
	testutil.AssertNoError(t, err)

	pair, err := svc.CreateTag(main.ID, &sub.ID, nil)
	testutil.AssertNoError(t, err)
	if pair.Parent.Name != "Food" || pair.Child == nil || pair.Child.Name != "Restaurants" {
		t.Errorf("pair = %s / %v", pair.Parent.Name, pair.Child)
	}
	if got := pair.DisplayName(); got != "Food / Restaurants" {
		t.Errorf("display name = %q", got)
	}

	testutil.AssertNoError(t, svc.DeleteTag(pair.ID))
	_, err = svc.GetTag(pair.ID)
	testutil.AssertAppError(t, err, apperrors.ErrTagNotFound.Code)
}

func TestDeleteTagRefusesWhenReferenced(t *testing.T) {
	svc, db := newTag(t)
	account := testutil.CreateTestAccount(t, db, "0")
	txn := testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeExpense, models.StatusCleared,
		clock.Date(2025, time.January, 10), "25.00")

	err := svc.DeleteTag(txn.Details[0].TagID)
	testutil.AssertAppError(t, err, apperrors.ErrIntegrity.Code)
}

func TestTagGraph(t *testing.T) {
	svc, db := newTag(t)
	account := testutil.CreateTestAccount(t, db, "0")
	tag := testutil.CreateTestTag(t, db)

	spend := func(date time.Time, amount string) {
		txn := testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeExpense, models.StatusCleared,
			date, amount)
		err := db.Model(&models.TransactionDetail{}).
			Where("transaction_id = ?", txn.ID).
			Update("tag_id", tag.ID).Error
		testutil.AssertNoError(t, err)
	}
	spend(clock.Date(2025, time.January, 10), "30.00")
	spend(clock.Date(2025, time.January, 25), "20.00")
	spend(clock.Date(2025, time.March, 5), "10.00")
	spend(clock.Date(2024, time.December, 31), "99.00")

	graph, err := svc.Graph(tag.ID)
	testutil.AssertNoError(t, err)

	if len(graph.Labels) != 12 || graph.Labels[0] != "Jan" || graph.Labels[11] != "Dec" {
		t.Errorf("labels = %v", graph.Labels)
	}
	testutil.AssertDecimal(t, graph.Current[0], "-50.00")
	testutil.AssertDecimal(t, graph.Current[1], "0")
	testutil.AssertDecimal(t, graph.Current[2], "-10.00")
	testutil.AssertDecimal(t, graph.Previous[11], "-99.00")
}

func TestTagGraphMissingTag(t *testing.T) {
	svc, _ := newTag(t)
	_, err := svc.Graph(9999)
	testutil.AssertAppError(t, err, apperrors.ErrTagNotFound.Code)
}
