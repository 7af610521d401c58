package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnnotateBalances writes a running balance onto each entry, starting from
// start, and returns the balance of the last entry (or start when the list
// is empty).
func AnnotateBalances(entries []*Entry, start decimal.Decimal) decimal.Decimal {
	running := start
	for _, e := range entries {
		running = running.Add(e.PrettyTotal)
		e.Balance = running
	}
	return running
}

// ForecastSplit splits a composed list at start: it returns the entries
// dated start or later, and the balance of the last entry strictly before
// start (or opening when there is none).
func ForecastSplit(entries []*Entry, start time.Time, opening decimal.Decimal) ([]*Entry, decimal.Decimal) {
	previous := opening
	kept := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if e.Date.Before(start) {
			previous = e.Balance
			continue
		}
		kept = append(kept, e)
	}
	return kept, previous
}
