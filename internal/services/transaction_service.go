package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneta/internal/clock"
	apperrors "moneta/internal/errors"
	"moneta/internal/ledger"
	"moneta/internal/models"
)

// TransactionService manages persisted ledger rows and their tag details.
type TransactionService interface {
	Get(id uint) (*models.Transaction, error)
	Create(input TransactionInput) (*models.Transaction, error)
	Update(id uint, input TransactionInput) (*models.Transaction, error)
	Delete(id uint) error
	// Clear toggles a row between pending and cleared. Reconciled and
	// archived rows are left untouched, so repeated calls settle.
	Clear(id uint) (*models.Transaction, error)
}

type TransactionInput struct {
	Date                 time.Time
	TotalAmount          decimal.Decimal
	StatusID             uint
	TypeID               uint
	Description          string
	Memo                 *string
	CheckNumber          *int
	SourceAccountID      *uint
	DestinationAccountID *uint
	ReminderID           *uint
	Details              []TransactionDetailInput
}

// TransactionDetailInput carries an unsigned split amount. FullToggle splits
// take the transaction's whole total instead of Amount.
type TransactionDetailInput struct {
	TagID      uint
	Amount     decimal.Decimal
	FullToggle bool
}

type transactionService struct {
	db    *gorm.DB
	clock clock.Clock
}

func NewTransactionService(db *gorm.DB, clk clock.Clock) TransactionService {
	return &transactionService{db: db, clock: clk}
}

func (s *transactionService) Get(id uint) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.Preload("Details").First(&txn, id).Error
	if err != nil {
		return nil, notFound(err, apperrors.ErrTransactionNotFound)
	}
	return &txn, nil
}

// validate checks the account wiring per transaction type: expense and
// income take a source only, a transfer takes two distinct accounts.
func (s *transactionService) validate(input *TransactionInput) error {
	switch input.TypeID {
	case models.TransactionTypeExpense, models.TransactionTypeIncome:
		if input.SourceAccountID == nil || input.DestinationAccountID != nil {
			return apperrors.ErrTransferAccounts
		}
	case models.TransactionTypeTransfer:
		if input.SourceAccountID == nil || input.DestinationAccountID == nil {
			return apperrors.ErrTransferAccounts
		}
		if *input.SourceAccountID == *input.DestinationAccountID {
			return apperrors.ErrSameAccountTransfer
		}
	default:
		return apperrors.ErrInvalidTransactionType
	}
	ids := []uint{*input.SourceAccountID}
	if input.DestinationAccountID != nil {
		ids = append(ids, *input.DestinationAccountID)
	}
	var count int64
	if err := s.db.Model(&models.Account{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count != int64(len(ids)) {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// buildDetails signs the splits for storage. Full-toggle splits cover the
// whole total.
func buildDetails(input *TransactionInput, total decimal.Decimal) []models.TransactionDetail {
	details := make([]models.TransactionDetail, 0, len(input.Details))
	for _, d := range input.Details {
		amt := d.Amount
		if d.FullToggle {
			amt = total
		}
		details = append(details, models.TransactionDetail{
			TagID:      d.TagID,
			DetailAmt:  ledger.DetailSign(input.TypeID, amt),
			FullToggle: d.FullToggle,
		})
	}
	return details
}

func (s *transactionService) Create(input TransactionInput) (*models.Transaction, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}
	today := s.clock.Today()
	txn := models.Transaction{
		Date:                 input.Date,
		TotalAmount:          input.TotalAmount.Abs(),
		StatusID:             input.StatusID,
		TypeID:               input.TypeID,
		Description:          input.Description,
		Memo:                 input.Memo,
		CheckNumber:          input.CheckNumber,
		SourceAccountID:      input.SourceAccountID,
		DestinationAccountID: input.DestinationAccountID,
		ReminderID:           input.ReminderID,
		AddDate:              today,
		EditDate:             today,
		Details:              buildDetails(&input, input.TotalAmount.Abs()),
	}
	if err := s.db.Create(&txn).Error; err != nil {
		return nil, translateDBError(err)
	}
	return s.Get(txn.ID)
}

func (s *transactionService) Update(id uint, input TransactionInput) (*models.Transaction, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}
	txn, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	txn.Date = input.Date
	txn.TotalAmount = input.TotalAmount.Abs()
	txn.StatusID = input.StatusID
	txn.TypeID = input.TypeID
	txn.Description = input.Description
	txn.Memo = input.Memo
	txn.CheckNumber = input.CheckNumber
	txn.SourceAccountID = input.SourceAccountID
	txn.DestinationAccountID = input.DestinationAccountID
	txn.EditDate = s.clock.Today()
	details := buildDetails(&input, txn.TotalAmount)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transaction_id = ?", txn.ID).
			Delete(&models.TransactionDetail{}).Error; err != nil {
			return err
		}
		txn.Details = nil
		if err := tx.Save(txn).Error; err != nil {
			return err
		}
		for i := range details {
			details[i].TransactionID = txn.ID
		}
		if len(details) > 0 {
			if err := tx.Create(&details).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, translateDBError(err)
	}
	return s.Get(txn.ID)
}

func (s *transactionService) Delete(id uint) error {
	txn, err := s.Get(id)
	if err != nil {
		return err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transaction_id = ?", txn.ID).
			Delete(&models.TransactionDetail{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Transaction{}, txn.ID).Error
	})
	if err != nil {
		return translateDBError(err)
	}
	return nil
}

func (s *transactionService) Clear(id uint) (*models.Transaction, error) {
	txn, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	switch txn.StatusID {
	case models.StatusPending:
		txn.StatusID = models.StatusCleared
	case models.StatusCleared:
		txn.StatusID = models.StatusPending
	default:
		return txn, nil
	}
	txn.EditDate = s.clock.Today()
	if err := s.db.Save(txn).Error; err != nil {
		return nil, translateDBError(err)
	}
	return txn, nil
}
