package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account type ids are semantic constants: the credit-card statement
// projector and the funding-account rules key off them.
const (
	AccountTypeCreditCard uint = 1
	AccountTypeChecking   uint = 2
)

// AccountType categorizes accounts (checking, credit card, savings, ...).
type AccountType struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"column:account_type;uniqueIndex;not null" json:"name"`
	Color string `gorm:"default:'#059669'" json:"color"`
	Icon  string `json:"icon"`
}

// Bank is a named institution accounts belong to.
type Bank struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:bank_name;uniqueIndex;not null" json:"name"`
}

// Account is a ledger node with opening, archive, and (for credit cards)
// statement-cycle parameters.
type Account struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"column:account_name;uniqueIndex;not null" json:"name"`
	AccountTypeID  uint            `gorm:"not null" json:"account_type_id"`
	BankID         uint            `gorm:"not null" json:"bank_id"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"opening_balance"`
	ArchiveBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"archive_balance"`
	APY            decimal.Decimal `gorm:"column:apy;type:decimal(5,2);not null;default:0" json:"apy"`
	CreditLimit    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"credit_limit"`
	OpenDate       time.Time       `gorm:"type:date;not null" json:"open_date"`
	Active         bool            `gorm:"not null;default:true" json:"active"`

	// Credit-card statement cycle geometry. The projector emits nothing
	// when the cycle length is zero or the period is empty.
	DueDate              *time.Time      `gorm:"type:date" json:"due_date,omitempty"`
	NextCycleDate        *time.Time      `gorm:"type:date" json:"next_cycle_date,omitempty"`
	StatementCycleLength int             `gorm:"not null;default:0" json:"statement_cycle_length"`
	StatementCyclePeriod string          `gorm:"size:1" json:"statement_cycle_period"`
	LastStatementAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"last_statement_amount"`
	FundingAccountID     *uint           `json:"funding_account_id,omitempty"`
	CalculatePayments    bool            `gorm:"not null;default:false" json:"calculate_payments"`

	AccountType    AccountType `gorm:"foreignKey:AccountTypeID" json:"account_type"`
	Bank           Bank        `gorm:"foreignKey:BankID" json:"bank"`
	FundingAccount *Account    `gorm:"foreignKey:FundingAccountID" json:"-"`
}

// IsCreditCard reports whether the account participates in statement
// projection.
func (a *Account) IsCreditCard() bool {
	return a.AccountTypeID == AccountTypeCreditCard
}
