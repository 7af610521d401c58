package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction type ids. The signer derives the sign of a transaction's
// contribution from these.
const (
	TransactionTypeExpense  uint = 1
	TransactionTypeIncome   uint = 2
	TransactionTypeTransfer uint = 3
)

// Transaction status ids.
const (
	StatusPending    uint = 1
	StatusCleared    uint = 2
	StatusReconciled uint = 3
	StatusArchived   uint = 4
)

// TransactionType names the kind of a transaction (expense, income, transfer).
type TransactionType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:transaction_type;uniqueIndex;not null" json:"name"`
}

// TransactionStatus names the clearing state of a transaction.
type TransactionStatus struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:transaction_status;uniqueIndex;not null" json:"name"`
}

// Transaction is a persisted ledger row. TotalAmount is a magnitude; the
// sign of its contribution to a viewpoint account is derived by the signer.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Date        time.Time       `gorm:"column:transaction_date;type:date;not null;index" json:"date"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	StatusID    uint            `gorm:"not null;index" json:"status_id"`
	Memo        *string         `gorm:"size:508" json:"memo,omitempty"`
	Description string          `gorm:"size:254;not null" json:"description"`
	EditDate    time.Time       `gorm:"type:date;not null" json:"edit_date"`
	AddDate     time.Time       `gorm:"type:date;not null;index" json:"add_date"`
	TypeID      uint            `gorm:"column:transaction_type_id;not null" json:"type_id"`
	PaycheckID  *uint           `json:"paycheck_id,omitempty"`
	CheckNumber *int            `json:"check_number,omitempty"`

	// For expense/income only the source is set; a transfer has both,
	// and they must be distinct.
	SourceAccountID      *uint `gorm:"index" json:"source_account_id,omitempty"`
	DestinationAccountID *uint `gorm:"index" json:"destination_account_id,omitempty"`

	// Set when the row was auto-added from a reminder.
	ReminderID *uint `gorm:"index" json:"reminder_id,omitempty"`

	Status  TransactionStatus   `gorm:"foreignKey:StatusID" json:"-"`
	Type    TransactionType     `gorm:"foreignKey:TypeID" json:"-"`
	Details []TransactionDetail `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"details,omitempty"`
}

// TransactionDetail partitions a transaction's amount by tag. DetailAmt is
// stored signed, aligned with the signed total of its transaction. FullToggle
// means the detail covers the whole signed total rather than a split.
type TransactionDetail struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TransactionID uint            `gorm:"not null;index" json:"transaction_id"`
	DetailAmt     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"detail_amt"`
	TagID         uint            `gorm:"not null;index" json:"tag_id"`
	FullToggle    bool            `gorm:"not null;default:false" json:"full_toggle"`

	Tag Tag `gorm:"foreignKey:TagID" json:"-"`
}
