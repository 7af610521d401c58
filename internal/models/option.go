package models

import "github.com/shopspring/decimal"

// OptionID is the primary key of the singleton options row.
const OptionID uint = 1

// Option is the singleton of global knobs. It is read-only on hot paths;
// the composer threads an immutable copy through each request.
type Option struct {
	ID                      uint            `gorm:"primaryKey" json:"id"`
	AutoArchive             bool            `gorm:"not null;default:false" json:"auto_archive"`
	ArchiveLength           int             `gorm:"not null;default:5" json:"archive_length"`
	EnableCCBillCalculation bool            `gorm:"column:enable_cc_bill_calculation;not null;default:true" json:"enable_cc_bill_calculation"`
	RetirementAccountIDs    string          `gorm:"column:retirement_accounts;size:254" json:"retirement_accounts"`
	AlertBalance            decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"alert_balance"`
	AlertPeriod             int             `gorm:"not null;default:3" json:"alert_period"`
	LogLevel                int             `gorm:"not null;default:1" json:"log_level"`

	// Dashboard widget graph parameters.
	Widget1GraphName string `gorm:"size:254" json:"widget1_graph_name"`
	Widget1TagID     *uint  `json:"widget1_tag_id,omitempty"`
	Widget1Expense   bool   `gorm:"not null;default:true" json:"widget1_expense"`
	Widget1Month     int    `gorm:"not null;default:0" json:"widget1_month"`
	Widget2GraphName string `gorm:"size:254" json:"widget2_graph_name"`
	Widget2TagID     *uint  `json:"widget2_tag_id,omitempty"`
	Widget2Expense   bool   `gorm:"not null;default:true" json:"widget2_expense"`
	Widget2Month     int    `gorm:"not null;default:0" json:"widget2_month"`
}

// Payee is a named counterparty used for transaction descriptions.
type Payee struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:payee_name;uniqueIndex;not null" json:"name"`
}
