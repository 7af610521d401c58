package ledger

import (
	"time"

	"moneta/internal/errors"
	"moneta/internal/models"
)

// ExpandReminders materializes pending virtual entries for every reminder
// visible from the viewpoint account, over (next_date, endDate]. Each
// reminder walks its orbit from next_date by its repeat period, skipping
// exclusion dates and stopping past endDate or the reminder's own end date.
//
// Reminders must be loaded with Tag (and its parent/child), accounts,
// Repeat, and Exclusions. A reminder whose repeat does not advance would
// loop forever, so it is a hard error.
func ExpandReminders(reminders []models.Reminder, viewpoint uint, endDate, today time.Time, ids *SyntheticIDs) ([]*Entry, error) {
	var out []*Entry

	for i := range reminders {
		r := &reminders[i]
		if r.NextDate == nil || r.NextDate.After(endDate) {
			continue
		}
		step := r.Repeat.Step()
		if step.IsZero() {
			return nil, errors.WithMessage(errors.ErrZeroRepeat,
				"reminder "+r.Description+" has a repeat period that does not advance")
		}

		excluded := make(map[time.Time]bool, len(r.Exclusions))
		for _, x := range r.Exclusions {
			excluded[x.ExcludeDate] = true
		}

		sourceName := r.SourceAccount.Name
		if sourceName == "" {
			sourceName = unknownAccount
		}
		destinationName := ""
		if r.DestinationAccount != nil {
			destinationName = r.DestinationAccount.Name
		}
		prettyAccount := sourceName
		if r.TypeID == models.TransactionTypeTransfer {
			prettyAccount = PrettyAccountName(r.TypeID, sourceName, destinationName)
		}

		src := r.SourceAccountID
		signed := Sign(r.TypeID, r.Amount, &src, viewpoint)

		tags := []string{r.Tag.DisplayName()}

		d := *r.NextDate
		for {
			if !excluded[d] {
				reminderID := r.ID
				out = append(out, &Entry{
					ID:                   ids.Next(),
					Date:                 d,
					TotalAmount:          r.Amount.Abs(),
					StatusID:             models.StatusPending,
					TypeID:               r.TypeID,
					Memo:                 r.Memo,
					Description:          r.Description,
					EditDate:             today,
					AddDate:              today,
					SourceAccountID:      &src,
					DestinationAccountID: r.DestinationAccountID,
					SourceName:           sourceName,
					DestinationName:      destinationName,
					PrettyAccount:        prettyAccount,
					PrettyTotal:          signed,
					Tags:                 tags,
					ReminderID:           &reminderID,
				})
			}
			next, err := step.Advance(d)
			if err != nil {
				return nil, errors.Wrap(errors.ErrZeroRepeat, err)
			}
			d = next
			if d.After(endDate) {
				break
			}
			if r.EndDate != nil && d.After(*r.EndDate) {
				break
			}
		}
	}

	return out, nil
}
