package ledger

import (
	"sort"

	"moneta/internal/models"
)

// Priority buckets statuses for ordering: cleared and reconciled rows come
// first, pending rows last, anything else in between.
func Priority(statusID uint) int {
	switch statusID {
	case models.StatusCleared, models.StatusReconciled:
		return 0
	case models.StatusPending:
		return 2
	}
	return 1
}

// SortCleared orders entries by the cleared ordering: priority, date,
// larger inflows first within a day, then id descending. The ordering is
// total and deterministic; sorting by descending pretty total keeps
// same-day balance paths monotonic when credits precede debits.
func SortCleared(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if pa, pb := Priority(a.StatusID), Priority(b.StatusID); pa != pb {
			return pa < pb
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if c := a.PrettyTotal.Cmp(b.PrettyTotal); c != 0 {
			return c > 0
		}
		return a.ID > b.ID
	})
}

// SortComposite orders merged pending and virtual entries: as SortCleared
// but with the status id as a tie-break among same-priority rows. Ordering
// by descending id keeps virtual entries (negative ids) after real ones of
// the same shape.
func SortComposite(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if pa, pb := Priority(a.StatusID), Priority(b.StatusID); pa != pb {
			return pa < pb
		}
		if a.StatusID != b.StatusID {
			return a.StatusID < b.StatusID
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if c := a.PrettyTotal.Cmp(b.PrettyTotal); c != 0 {
			return c > 0
		}
		return a.ID > b.ID
	})
}
