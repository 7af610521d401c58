package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"moneta/internal/models"
	"moneta/internal/recur"
)

// statementIDStart is the first synthetic id used for projected payments.
const statementIDStart int64 = -10001

// NewStatementIDs returns the synthetic id sequence for projected
// statement payments.
func NewStatementIDs() *SyntheticIDs {
	return NewSyntheticIDs(statementIDStart)
}

// ProjectStatements synthesizes future statement-payment entries for a
// credit-card account from its cycle geometry and the combined activity
// (cleared + pending + reminder virtuals) from the card's viewpoint.
//
// The walk starts one cycle before next_cycle_date and one month before
// due_date; the due cursor always advances by a calendar month regardless
// of the cycle period. A payment is emitted only for cycles whose signed
// total is strictly negative (net spend); net refunds are ignored.
//
// When funding is true the entries are the funding account's mirrors: the
// exact negation of the payments on the card. Accounts with missing cycle
// geometry project nothing.
func ProjectStatements(cc *models.Account, fundingName string, combined []*Entry, endDate, today time.Time, funding bool, ids *SyntheticIDs) []*Entry {
	if !cc.IsCreditCard() || !cc.CalculatePayments {
		return nil
	}
	if cc.DueDate == nil || cc.NextCycleDate == nil || cc.FundingAccountID == nil {
		return nil
	}
	unit := recur.PeriodUnit(cc.StatementCyclePeriod)
	if cc.StatementCycleLength == 0 || !unit.Valid() {
		return nil
	}

	cycleStart, err := recur.AddUnit(*cc.NextCycleDate, unit, -cc.StatementCycleLength)
	if err != nil {
		return nil
	}
	dueCursor := recur.AddMonths(*cc.DueDate, -1)

	prettyAccount := PrettyAccountName(models.TransactionTypeTransfer, fundingName, cc.Name)
	ccID := cc.ID

	var out []*Entry
	for !cycleStart.After(endDate) {
		cycleEnd, err := recur.AddUnit(cycleStart, unit, cc.StatementCycleLength)
		if err != nil {
			return out
		}
		dueCursor = recur.AddMonths(dueCursor, 1)

		cycleTotal := sumWindow(combined, cycleStart, cycleEnd)
		if cycleTotal.IsNegative() && !dueCursor.After(endDate) {
			amount := cycleTotal.Abs()
			prettyTotal := amount
			if funding {
				prettyTotal = amount.Neg()
			}
			out = append(out, &Entry{
				ID:                   ids.Next(),
				Date:                 dueCursor,
				TotalAmount:          amount,
				StatusID:             models.StatusPending,
				TypeID:               models.TransactionTypeTransfer,
				Description:          "Credit Card Payment",
				EditDate:             today,
				AddDate:              today,
				SourceAccountID:      cc.FundingAccountID,
				DestinationAccountID: &ccID,
				SourceName:           fundingName,
				DestinationName:      cc.Name,
				PrettyAccount:        prettyAccount,
				PrettyTotal:          prettyTotal,
				Tags:                 []string{},
				Simulated:            true,
			})
		}

		cycleStart = cycleEnd
	}
	return out
}

// sumWindow sums signed totals of entries dated in [start, end).
func sumWindow(entries []*Entry, start, end time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Date.Before(start) || !e.Date.Before(end) {
			continue
		}
		total = total.Add(e.PrettyTotal)
	}
	return total
}
