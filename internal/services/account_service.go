package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// AccountService manages ledger accounts and the funding-account rules
// between credit cards and their checking accounts.
type AccountService interface {
	List(activeOnly bool) ([]models.Account, error)
	Get(id uint) (*models.Account, error)
	Create(input AccountInput) (*models.Account, error)
	Update(id uint, input AccountInput) (*models.Account, error)
	// Delete removes an account together with its non-transfer
	// transactions. Transfers referencing the account are preserved so that
	// the counterparty's history stays intact.
	Delete(id uint) error
}

type AccountInput struct {
	Name                 string
	AccountTypeID        uint
	BankID               uint
	OpeningBalance       decimal.Decimal
	APY                  decimal.Decimal
	CreditLimit          decimal.Decimal
	OpenDate             time.Time
	Active               bool
	DueDate              *time.Time
	NextCycleDate        *time.Time
	StatementCycleLength int
	StatementCyclePeriod string
	LastStatementAmount  decimal.Decimal
	FundingAccountID     *uint
	CalculatePayments    bool
}

type accountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) AccountService {
	return &accountService{db: db}
}

func (s *accountService) List(activeOnly bool) ([]models.Account, error) {
	var accounts []models.Account
	q := s.db.Preload("AccountType").Preload("Bank").Order("account_name asc")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

func (s *accountService) Get(id uint) (*models.Account, error) {
	var account models.Account
	err := s.db.Preload("AccountType").Preload("Bank").First(&account, id).Error
	if err != nil {
		return nil, notFound(err, apperrors.ErrAccountNotFound)
	}
	return &account, nil
}

func (s *accountService) Create(input AccountInput) (*models.Account, error) {
	account := models.Account{
		Name:                 input.Name,
		AccountTypeID:        input.AccountTypeID,
		BankID:               input.BankID,
		OpeningBalance:       input.OpeningBalance,
		APY:                  input.APY,
		CreditLimit:          input.CreditLimit,
		OpenDate:             input.OpenDate,
		Active:               input.Active,
		DueDate:              input.DueDate,
		NextCycleDate:        input.NextCycleDate,
		StatementCycleLength: input.StatementCycleLength,
		StatementCyclePeriod: input.StatementCyclePeriod,
		LastStatementAmount:  input.LastStatementAmount,
		FundingAccountID:     input.FundingAccountID,
		CalculatePayments:    input.CalculatePayments,
	}
	if err := s.validateFunding(&account); err != nil {
		return nil, err
	}
	if err := s.db.Create(&account).Error; err != nil {
		return nil, translateDBError(err)
	}
	return s.Get(account.ID)
}

func (s *accountService) Update(id uint, input AccountInput) (*models.Account, error) {
	account, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	account.Name = input.Name
	account.AccountTypeID = input.AccountTypeID
	account.BankID = input.BankID
	account.OpeningBalance = input.OpeningBalance
	account.APY = input.APY
	account.CreditLimit = input.CreditLimit
	account.OpenDate = input.OpenDate
	account.Active = input.Active
	account.DueDate = input.DueDate
	account.NextCycleDate = input.NextCycleDate
	account.StatementCycleLength = input.StatementCycleLength
	account.StatementCyclePeriod = input.StatementCyclePeriod
	account.LastStatementAmount = input.LastStatementAmount
	account.FundingAccountID = input.FundingAccountID
	account.CalculatePayments = input.CalculatePayments
	if err := s.validateFunding(account); err != nil {
		return nil, err
	}
	if err := s.db.Save(account).Error; err != nil {
		return nil, translateDBError(err)
	}
	return s.Get(account.ID)
}

// validateFunding enforces the funding-account rules: only credit cards may
// designate a funding account, the funding account must be a checking
// account, and an account cannot fund itself.
func (s *accountService) validateFunding(account *models.Account) error {
	if account.FundingAccountID == nil {
		return nil
	}
	if !account.IsCreditCard() {
		return apperrors.ErrFundingNotSupported
	}
	if account.ID != 0 && *account.FundingAccountID == account.ID {
		return apperrors.ErrSelfFundingAccount
	}
	var funding models.Account
	err := s.db.First(&funding, *account.FundingAccountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrAccountNotFound
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if funding.AccountTypeID != models.AccountTypeChecking {
		return apperrors.ErrFundingNotChecking
	}
	return nil
}

func (s *accountService) Delete(id uint) error {
	account, err := s.Get(id)
	if err != nil {
		return err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Detach credit cards that were funded by this account.
		if err := tx.Model(&models.Account{}).
			Where("funding_account_id = ?", account.ID).
			Update("funding_account_id", nil).Error; err != nil {
			return err
		}
		var ids []uint
		if err := tx.Model(&models.Transaction{}).
			Where("(source_account_id = ? OR destination_account_id = ?) AND transaction_type_id <> ?",
				account.ID, account.ID, models.TransactionTypeTransfer).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) > 0 {
			if err := tx.Where("transaction_id IN ?", ids).
				Delete(&models.TransactionDetail{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Transaction{}, ids).Error; err != nil {
				return err
			}
		}
		return tx.Delete(account).Error
	})
	if err != nil {
		return translateDBError(err)
	}
	return nil
}
