// Package ledger implements the pure computation core of the cash-flow
// path: signed totals, deterministic orderings, running balances, reminder
// expansion, and credit-card statement projection. Nothing in this package
// performs I/O; services load rows and feed them in.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"moneta/internal/models"
)

// Entry is the view record composed alongside stored transactions. It holds
// the transient annotations (signed total, display account, balance, tags)
// that are never persisted, and represents persisted rows and virtual rows
// uniformly: virtual entries carry negative synthetic ids.
type Entry struct {
	ID          int64           `json:"id"`
	Date        time.Time       `json:"date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	StatusID    uint            `json:"status_id"`
	TypeID      uint            `json:"type_id"`
	Memo        *string         `json:"memo,omitempty"`
	Description string          `json:"description"`
	EditDate    time.Time       `json:"edit_date"`
	AddDate     time.Time       `json:"add_date"`
	PaycheckID  *uint           `json:"paycheck_id,omitempty"`
	CheckNumber *int            `json:"check_number,omitempty"`

	SourceAccountID      *uint  `json:"source_account_id,omitempty"`
	DestinationAccountID *uint  `json:"destination_account_id,omitempty"`
	SourceName           string `json:"source_name"`
	DestinationName      string `json:"destination_name"`
	PrettyAccount        string `json:"pretty_account"`

	PrettyTotal decimal.Decimal `json:"pretty_total"`
	Balance     decimal.Decimal `json:"balance"`

	Tags       []string `json:"tags"`
	ReminderID *uint    `json:"reminder_id,omitempty"`

	// Simulated marks entries synthesized by the statement projector.
	Simulated bool `json:"simulated,omitempty"`
}

// IsVirtual reports whether the entry was synthesized rather than loaded.
func (e *Entry) IsVirtual() bool { return e.ID < 0 }

// unknownAccount is the display fallback for dangling account references.
const unknownAccount = "Unknown Account"

// PrettyAccountName renders the display string for an entry's account side:
// "source => destination" for transfers, the source name otherwise.
func PrettyAccountName(typeID uint, sourceName, destinationName string) string {
	if sourceName == "" {
		sourceName = unknownAccount
	}
	if typeID == models.TransactionTypeTransfer {
		if destinationName == "" {
			destinationName = unknownAccount
		}
		return sourceName + " => " + destinationName
	}
	return sourceName
}

// SyntheticIDs hands out monotonically decreasing negative ids for virtual
// entries. Each composer call owns its own sequence.
type SyntheticIDs struct {
	next int64
}

// NewSyntheticIDs starts a sequence at the given (negative) id.
func NewSyntheticIDs(start int64) *SyntheticIDs {
	return &SyntheticIDs{next: start}
}

// Next returns the current id and decrements the sequence.
func (s *SyntheticIDs) Next() int64 {
	id := s.next
	s.next--
	return id
}
