package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Budget tracks spending against an amount over repeating windows anchored
// at StartDay. TagIDs is a comma-separated list of tag ids the budget
// matches.
type Budget struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"uniqueIndex;not null" json:"name"`
	TagIDs      string          `gorm:"column:tag_ids;size:254;not null" json:"tag_ids"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"amount"`
	RollOver    bool            `gorm:"not null;default:false" json:"roll_over"`
	RepeatID    uint            `gorm:"not null" json:"repeat_id"`
	StartDay    time.Time       `gorm:"type:date;not null" json:"start_day"`
	RollOverAmt decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"roll_over_amt"`
	Active      bool            `gorm:"not null;default:true" json:"active"`
	Widget      bool            `gorm:"not null;default:false" json:"widget"`
	NextStart   time.Time       `gorm:"type:date;not null" json:"next_start"`

	Repeat Repeat `gorm:"foreignKey:RepeatID" json:"-"`
}

// TagIDList parses the comma-separated tag ids, skipping blanks and junk.
func (b *Budget) TagIDList() []uint {
	parts := strings.Split(b.TagIDs, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}
