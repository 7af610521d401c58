package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneta/internal/clock"
	apperrors "moneta/internal/errors"
	"moneta/internal/ledger"
	"moneta/internal/models"
)

// CashFlowService composes the unified view an account page renders: stored
// rows, expanded reminder orbits, and projected credit-card payments, in a
// deterministic order with running balances.
type CashFlowService interface {
	// ListByAccount composes the account's cash flow up to and including
	// endDate. The returned balance is the running balance the view starts
	// from, which is only meaningful in forecast mode. A missing account
	// yields an empty list, not an error.
	ListByAccount(accountID uint, endDate time.Time, opts ComposeOptions) ([]*ledger.Entry, decimal.Decimal, error)
	// ListByTag lists stored rows carrying the tag, each annotated with the
	// tag's share of the signed total. No balances.
	ListByTag(tagID uint, endDate time.Time) ([]*ledger.Entry, error)
	// ForecastSeries returns per-day labels and closing balances over
	// [start, end], both inclusive.
	ForecastSeries(accountID uint, start, end time.Time) ([]string, []decimal.Decimal, error)
}

// ComposeOptions narrows what the composer assembles.
type ComposeOptions struct {
	// ClearedOnly skips reminder expansion and statement projection.
	ClearedOnly bool
	// Forecast drops rows before ForecastStart and reports the balance
	// carried into the window.
	Forecast bool
	// ForecastStart defaults to today.
	ForecastStart *time.Time
}

type cashFlowService struct {
	db      *gorm.DB
	clock   clock.Clock
	options OptionService
}

func NewCashFlowService(db *gorm.DB, clk clock.Clock, options OptionService) CashFlowService {
	return &cashFlowService{db: db, clock: clk, options: options}
}

func (s *cashFlowService) ListByAccount(accountID uint, endDate time.Time, opts ComposeOptions) ([]*ledger.Entry, decimal.Decimal, error) {
	var account models.Account
	err := s.db.First(&account, accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []*ledger.Entry{}, decimal.Zero, nil
	}
	if err != nil {
		return nil, decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	settings, err := s.options.Snapshot()
	if err != nil {
		return nil, decimal.Zero, err
	}
	names, err := s.accountNames()
	if err != nil {
		return nil, decimal.Zero, err
	}
	today := s.clock.Today()

	cleared, pending, err := s.loadEntries(account.ID, endDate, names)
	if err != nil {
		return nil, decimal.Zero, err
	}

	opening := account.OpeningBalance.Add(account.ArchiveBalance)
	ledger.SortCleared(cleared)
	clearedBalance := ledger.AnnotateBalances(cleared, opening)

	merged := pending
	if !opts.ClearedOnly {
		ids := ledger.NewSyntheticIDs(-1)
		virtuals, err := s.expandReminders(account.ID, endDate, today, ids)
		if err != nil {
			return nil, decimal.Zero, err
		}
		merged = append(merged, virtuals...)

		if settings.EnableCCBillCalculation {
			stmtIDs := ledger.NewStatementIDs()
			if account.IsCreditCard() {
				combined := append(append([]*ledger.Entry{}, cleared...), merged...)
				fundingName := ""
				if account.FundingAccountID != nil {
					fundingName = names[*account.FundingAccountID]
				}
				merged = append(merged, ledger.ProjectStatements(&account, fundingName, combined, endDate, today, false, stmtIDs)...)
			}
			mirrors, err := s.fundingMirrors(&account, endDate, today, names, stmtIDs)
			if err != nil {
				return nil, decimal.Zero, err
			}
			merged = append(merged, mirrors...)
		}
	}

	ledger.SortComposite(merged)
	ledger.AnnotateBalances(merged, clearedBalance)
	composed := append(cleared, merged...)

	if opts.Forecast {
		start := today
		if opts.ForecastStart != nil {
			start = *opts.ForecastStart
		}
		kept, previous := ledger.ForecastSplit(composed, start, opening)
		return kept, previous, nil
	}
	return composed, decimal.Zero, nil
}

// fundingMirrors projects, for every credit card funded by the account, the
// negated payment entries as they land on the funding side. Each card's
// projection runs over the card's own combined activity.
func (s *cashFlowService) fundingMirrors(funding *models.Account, endDate, today time.Time, names map[uint]string, ids *ledger.SyntheticIDs) ([]*ledger.Entry, error) {
	var cards []models.Account
	err := s.db.Where("funding_account_id = ? AND calculate_payments = ?", funding.ID, true).
		Find(&cards).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var out []*ledger.Entry
	for i := range cards {
		cc := &cards[i]
		cleared, pending, err := s.loadEntries(cc.ID, endDate, names)
		if err != nil {
			return nil, err
		}
		remIDs := ledger.NewSyntheticIDs(-1)
		virtuals, err := s.expandReminders(cc.ID, endDate, today, remIDs)
		if err != nil {
			return nil, err
		}
		combined := append(append(cleared, pending...), virtuals...)
		out = append(out, ledger.ProjectStatements(cc, funding.Name, combined, endDate, today, true, ids)...)
	}
	return out, nil
}

// loadEntries converts the account's stored rows dated on or before endDate
// into view entries, split into cleared (cleared + reconciled) and pending.
// Archived rows never load.
func (s *cashFlowService) loadEntries(accountID uint, endDate time.Time, names map[uint]string) (cleared, pending []*ledger.Entry, err error) {
	var rows []models.Transaction
	err = s.db.
		Preload("Details.Tag.Parent").Preload("Details.Tag.Child").
		Where("(source_account_id = ? OR destination_account_id = ?)", accountID, accountID).
		Where("transaction_date <= ?", endDate).
		Where("status_id <> ?", models.StatusArchived).
		Find(&rows).Error
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range rows {
		e := toEntry(&rows[i], accountID, names)
		if rows[i].StatusID == models.StatusPending {
			pending = append(pending, e)
		} else {
			cleared = append(cleared, e)
		}
	}
	return cleared, pending, nil
}

// toEntry annotates a stored row from the viewpoint account.
func toEntry(t *models.Transaction, viewpoint uint, names map[uint]string) *ledger.Entry {
	sourceName := ""
	if t.SourceAccountID != nil {
		sourceName = names[*t.SourceAccountID]
	}
	destinationName := ""
	if t.DestinationAccountID != nil {
		destinationName = names[*t.DestinationAccountID]
	}
	tags := make([]string, 0, len(t.Details))
	for i := range t.Details {
		tags = append(tags, t.Details[i].Tag.DisplayName())
	}
	return &ledger.Entry{
		ID:                   int64(t.ID),
		Date:                 t.Date,
		TotalAmount:          t.TotalAmount,
		StatusID:             t.StatusID,
		TypeID:               t.TypeID,
		Memo:                 t.Memo,
		Description:          t.Description,
		EditDate:             t.EditDate,
		AddDate:              t.AddDate,
		PaycheckID:           t.PaycheckID,
		CheckNumber:          t.CheckNumber,
		SourceAccountID:      t.SourceAccountID,
		DestinationAccountID: t.DestinationAccountID,
		SourceName:           sourceName,
		DestinationName:      destinationName,
		PrettyAccount:        ledger.PrettyAccountName(t.TypeID, sourceName, destinationName),
		PrettyTotal:          ledger.Sign(t.TypeID, t.TotalAmount, t.SourceAccountID, viewpoint),
		Tags:                 tags,
		ReminderID:           t.ReminderID,
	}
}

func (s *cashFlowService) expandReminders(accountID uint, endDate, today time.Time, ids *ledger.SyntheticIDs) ([]*ledger.Entry, error) {
	var reminders []models.Reminder
	err := s.db.
		Preload("Tag.Parent").Preload("Tag.Child").
		Preload("SourceAccount").Preload("DestinationAccount").
		Preload("Repeat").Preload("Exclusions").
		Where("(source_account_id = ? OR destination_account_id = ?)", accountID, accountID).
		Where("next_date IS NOT NULL AND next_date <= ?", endDate).
		Find(&reminders).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return ledger.ExpandReminders(reminders, accountID, endDate, today, ids)
}

func (s *cashFlowService) ListByTag(tagID uint, endDate time.Time) ([]*ledger.Entry, error) {
	names, err := s.accountNames()
	if err != nil {
		return nil, err
	}
	var rows []models.Transaction
	err = s.db.
		Preload("Details.Tag.Parent").Preload("Details.Tag.Child").
		Joins("JOIN transaction_details td ON td.transaction_id = transactions.id").
		Where("td.tag_id = ?", tagID).
		Where("transactions.transaction_date <= ?", endDate).
		Where("transactions.status_id <> ?", models.StatusArchived).
		Distinct("transactions.*").
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	entries := make([]*ledger.Entry, 0, len(rows))
	for i := range rows {
		t := &rows[i]
		viewpoint := uint(0)
		if t.SourceAccountID != nil {
			viewpoint = *t.SourceAccountID
		}
		e := toEntry(t, viewpoint, names)
		share := decimal.Zero
		for j := range t.Details {
			if t.Details[j].TagID == tagID {
				share = share.Add(t.Details[j].DetailAmt)
			}
		}
		e.PrettyTotal = share
		entries = append(entries, e)
	}
	ledger.SortCleared(entries)
	return entries, nil
}

func (s *cashFlowService) ForecastSeries(accountID uint, start, end time.Time) ([]string, []decimal.Decimal, error) {
	entries, previous, err := s.ListByAccount(accountID, end, ComposeOptions{
		Forecast:      true,
		ForecastStart: &start,
	})
	if err != nil {
		return nil, nil, err
	}

	var labels []string
	var balances []decimal.Decimal
	running := previous
	i := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		for i < len(entries) && !entries[i].Date.After(d) {
			running = entries[i].Balance
			i++
		}
		labels = append(labels, d.Format("Jan 02, 06"))
		balances = append(balances, running)
	}
	return labels, balances, nil
}

func (s *cashFlowService) accountNames() (map[uint]string, error) {
	var accounts []models.Account
	if err := s.db.Select("id", "account_name").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	names := make(map[uint]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}
	return names, nil
}
