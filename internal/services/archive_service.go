package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneta/internal/clock"
	apperrors "moneta/internal/errors"
	"moneta/internal/ledger"
	"moneta/internal/logger"
	"moneta/internal/models"
)

// ArchiveService moves old rows out of the balance hot path. Archived rows
// stop loading into the composer; their contribution is folded into each
// account's archive balance instead.
type ArchiveService interface {
	// Sweep archives every row dated on or before the cutoff (Dec 31 of
	// the year archive_length + 1 years back) and recomputes archive
	// balances. A no-op when auto-archive is off. Returns the number of
	// rows archived; already-archived rows are untouched, so the sweep is
	// idempotent.
	Sweep(today time.Time) (int64, error)
}

type archiveService struct {
	db      *gorm.DB
	options OptionService
}

func NewArchiveService(db *gorm.DB, options OptionService) ArchiveService {
	return &archiveService{db: db, options: options}
}

func (s *archiveService) Sweep(today time.Time) (int64, error) {
	settings, err := s.options.Snapshot()
	if err != nil {
		return 0, err
	}
	if !settings.AutoArchive {
		return 0, nil
	}
	cutoff := clock.Date(today.Year()-settings.ArchiveLength-1, time.December, 31)

	res := s.db.Model(&models.Transaction{}).
		Where("transaction_date <= ? AND status_id <> ?", cutoff, models.StatusArchived).
		Update("status_id", models.StatusArchived)
	if res.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected > 0 {
		if err := s.recomputeArchiveBalances(); err != nil {
			return res.RowsAffected, err
		}
		logger.Get().Infow("transactions archived",
			"count", res.RowsAffected, "cutoff", cutoff.Format("2006-01-02"))
	}
	return res.RowsAffected, nil
}

// recomputeArchiveBalances rebuilds each account's archive balance from its
// archived rows, so the composer's anchor stays exact.
func (s *archiveService) recomputeArchiveBalances() error {
	var accounts []models.Account
	if err := s.db.Find(&accounts).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range accounts {
		account := &accounts[i]
		var rows []models.Transaction
		err := s.db.
			Where("(source_account_id = ? OR destination_account_id = ?)", account.ID, account.ID).
			Where("status_id = ?", models.StatusArchived).
			Find(&rows).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		total := decimal.Zero
		for j := range rows {
			total = total.Add(ledger.Sign(rows[j].TypeID, rows[j].TotalAmount, rows[j].SourceAccountID, account.ID))
		}
		if !total.Equal(account.ArchiveBalance) {
			err := s.db.Model(account).Update("archive_balance", total).Error
			if err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
	}
	return nil
}
