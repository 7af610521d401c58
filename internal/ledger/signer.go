package ledger

import (
	"github.com/shopspring/decimal"

	"moneta/internal/models"
)

// Sign returns the signed contribution of a transaction to the viewpoint
// account: expenses are negative, income positive, and transfers negative
// when the viewpoint is the source. Pure integer-decimal arithmetic; never
// rounds.
func Sign(typeID uint, amount decimal.Decimal, sourceAccountID *uint, viewpoint uint) decimal.Decimal {
	abs := amount.Abs()
	switch typeID {
	case models.TransactionTypeIncome:
		return abs
	case models.TransactionTypeExpense:
		return abs.Neg()
	case models.TransactionTypeTransfer:
		if sourceAccountID != nil && *sourceAccountID == viewpoint {
			return abs.Neg()
		}
		return abs
	}
	return decimal.Zero
}

// DetailSign returns the signed magnitude stored on a transaction detail at
// write time: positive for income, negative for expense and transfer. The
// transfer viewpoint flip happens in Sign, not in storage.
func DetailSign(typeID uint, amount decimal.Decimal) decimal.Decimal {
	abs := amount.Abs()
	if typeID == models.TransactionTypeIncome {
		return abs
	}
	return abs.Neg()
}
