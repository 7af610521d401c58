package models

import (
	"time"

	"github.com/shopspring/decimal"

	"moneta/internal/recur"
)

// Repeat defines a repeat period. One period is the sum of all four
// components added with calendar semantics.
type Repeat struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"column:repeat_name;uniqueIndex;not null" json:"name"`
	Days   int    `gorm:"not null;default:0" json:"days"`
	Weeks  int    `gorm:"not null;default:0" json:"weeks"`
	Months int    `gorm:"not null;default:0" json:"months"`
	Years  int    `gorm:"not null;default:0" json:"years"`
}

// Step converts the repeat into a calendar step.
func (r *Repeat) Step() recur.Step {
	return recur.Step{Days: r.Days, Weeks: r.Weeks, Months: r.Months, Years: r.Years}
}

// Reminder is a repeating transaction template. Amount is a magnitude;
// the signer applies the sign by type and viewpoint.
type Reminder struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	TagID                uint            `gorm:"not null" json:"tag_id"`
	Amount               decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"amount"`
	SourceAccountID      uint            `gorm:"not null;index" json:"source_account_id"`
	DestinationAccountID *uint           `gorm:"index" json:"destination_account_id,omitempty"`
	Description          string          `gorm:"size:254;not null" json:"description"`
	Memo                 *string         `gorm:"size:508" json:"memo,omitempty"`
	TypeID               uint            `gorm:"column:transaction_type_id;not null" json:"type_id"`
	StartDate            time.Time       `gorm:"type:date;not null" json:"start_date"`
	NextDate             *time.Time      `gorm:"type:date;index" json:"next_date,omitempty"`
	EndDate              *time.Time      `gorm:"type:date" json:"end_date,omitempty"`
	RepeatID             uint            `gorm:"not null" json:"repeat_id"`
	AutoAdd              bool            `gorm:"not null;default:false" json:"auto_add"`

	Tag                Tag        `gorm:"foreignKey:TagID" json:"-"`
	SourceAccount      Account    `gorm:"foreignKey:SourceAccountID" json:"-"`
	DestinationAccount *Account   `gorm:"foreignKey:DestinationAccountID" json:"-"`
	Repeat             Repeat     `gorm:"foreignKey:RepeatID" json:"-"`
	Exclusions         []ReminderExclusion `gorm:"foreignKey:ReminderID;constraint:OnDelete:CASCADE" json:"exclusions,omitempty"`
}

// ReminderExclusion marks a date the reminder does not materialize.
type ReminderExclusion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ReminderID  uint      `gorm:"not null;uniqueIndex:idx_reminder_exclude" json:"reminder_id"`
	ExcludeDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_reminder_exclude" json:"exclude_date"`
}
