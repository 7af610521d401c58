package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"moneta/internal/models"
)

func amt(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSign(t *testing.T) {
	a, b := uint(1), uint(2)
	tests := []struct {
		name      string
		typeID    uint
		amount    string
		source    *uint
		viewpoint uint
		want      string
	}{
		{"expense is negative", models.TransactionTypeExpense, "25.00", &a, a, "-25.00"},
		{"expense magnitude from signed input", models.TransactionTypeExpense, "-25.00", &a, a, "-25.00"},
		{"income is positive", models.TransactionTypeIncome, "50.00", &a, a, "50.00"},
		{"transfer from source", models.TransactionTypeTransfer, "30.00", &a, a, "-30.00"},
		{"transfer from destination", models.TransactionTypeTransfer, "30.00", &a, b, "30.00"},
		{"unknown type", 9, "30.00", &a, a, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sign(tt.typeID, amt(tt.amount), tt.source, tt.viewpoint)
			if !got.Equal(amt(tt.want)) {
				t.Errorf("Sign = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSignTransferSumsToZero(t *testing.T) {
	a, b := uint(1), uint(2)
	fromA := Sign(models.TransactionTypeTransfer, amt("30.00"), &a, a)
	fromB := Sign(models.TransactionTypeTransfer, amt("30.00"), &a, b)
	if !fromA.Add(fromB).IsZero() {
		t.Errorf("transfer contributions sum to %s, want 0", fromA.Add(fromB))
	}
}

func TestDetailSign(t *testing.T) {
	if got := DetailSign(models.TransactionTypeIncome, amt("10")); !got.Equal(amt("10")) {
		t.Errorf("income detail = %s", got)
	}
	if got := DetailSign(models.TransactionTypeExpense, amt("10")); !got.Equal(amt("-10")) {
		t.Errorf("expense detail = %s", got)
	}
	if got := DetailSign(models.TransactionTypeTransfer, amt("10")); !got.Equal(amt("-10")) {
		t.Errorf("transfer detail = %s", got)
	}
}

func TestPrettyAccountName(t *testing.T) {
	if got := PrettyAccountName(models.TransactionTypeExpense, "Checking", ""); got != "Checking" {
		t.Errorf("expense pretty account = %q", got)
	}
	if got := PrettyAccountName(models.TransactionTypeTransfer, "Checking", "Savings"); got != "Checking => Savings" {
		t.Errorf("transfer pretty account = %q", got)
	}
	if got := PrettyAccountName(models.TransactionTypeTransfer, "", "Savings"); got != "Unknown Account => Savings" {
		t.Errorf("dangling source pretty account = %q", got)
	}
	if got := PrettyAccountName(models.TransactionTypeTransfer, "Checking", ""); got != "Checking => Unknown Account" {
		t.Errorf("dangling destination pretty account = %q", got)
	}
}
