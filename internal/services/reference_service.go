package services

import (
	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// ReferenceService manages the small lookup tables: banks, payees, account
// types, tag types, repeats, and the read-only transaction type and status
// vocabularies.
type ReferenceService interface {
	ListBanks() ([]models.Bank, error)
	CreateBank(name string) (*models.Bank, error)
	UpdateBank(id uint, name string) (*models.Bank, error)
	DeleteBank(id uint) error

	ListPayees() ([]models.Payee, error)
	CreatePayee(name string) (*models.Payee, error)
	DeletePayee(id uint) error

	ListAccountTypes() ([]models.AccountType, error)
	CreateAccountType(name, color, icon string) (*models.AccountType, error)
	UpdateAccountType(id uint, name, color, icon string) (*models.AccountType, error)

	ListTagTypes() ([]models.TagType, error)
	CreateTagType(name string) (*models.TagType, error)

	ListMainTags() ([]models.MainTag, error)
	ListSubTags() ([]models.SubTag, error)

	ListRepeats() ([]models.Repeat, error)
	CreateRepeat(input RepeatInput) (*models.Repeat, error)

	ListTransactionTypes() ([]models.TransactionType, error)
	ListTransactionStatuses() ([]models.TransactionStatus, error)
}

type RepeatInput struct {
	Name   string
	Days   int
	Weeks  int
	Months int
	Years  int
}

type referenceService struct {
	db *gorm.DB
}

func NewReferenceService(db *gorm.DB) ReferenceService {
	return &referenceService{db: db}
}

func list[T any](db *gorm.DB, order string) ([]T, error) {
	var items []T
	if err := db.Order(order).Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return items, nil
}

func (s *referenceService) ListBanks() ([]models.Bank, error) {
	return list[models.Bank](s.db, "bank_name asc")
}

func (s *referenceService) CreateBank(name string) (*models.Bank, error) {
	bank := models.Bank{Name: name}
	if err := s.db.Create(&bank).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &bank, nil
}

func (s *referenceService) UpdateBank(id uint, name string) (*models.Bank, error) {
	var bank models.Bank
	if err := s.db.First(&bank, id).Error; err != nil {
		return nil, notFound(err, apperrors.ErrNotFound)
	}
	bank.Name = name
	if err := s.db.Save(&bank).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &bank, nil
}

func (s *referenceService) DeleteBank(id uint) error {
	var count int64
	if err := s.db.Model(&models.Account{}).Where("bank_id = ?", id).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrIntegrity
	}
	res := s.db.Delete(&models.Bank{}, id)
	if res.Error != nil {
		return translateDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *referenceService) ListPayees() ([]models.Payee, error) {
	return list[models.Payee](s.db, "payee_name asc")
}

func (s *referenceService) CreatePayee(name string) (*models.Payee, error) {
	payee := models.Payee{Name: name}
	if err := s.db.Create(&payee).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &payee, nil
}

func (s *referenceService) DeletePayee(id uint) error {
	res := s.db.Delete(&models.Payee{}, id)
	if res.Error != nil {
		return translateDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *referenceService) ListAccountTypes() ([]models.AccountType, error) {
	return list[models.AccountType](s.db, "id asc")
}

func (s *referenceService) CreateAccountType(name, color, icon string) (*models.AccountType, error) {
	at := models.AccountType{Name: name, Color: color, Icon: icon}
	if err := s.db.Create(&at).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &at, nil
}

func (s *referenceService) UpdateAccountType(id uint, name, color, icon string) (*models.AccountType, error) {
	var at models.AccountType
	if err := s.db.First(&at, id).Error; err != nil {
		return nil, notFound(err, apperrors.ErrNotFound)
	}
	at.Name = name
	at.Color = color
	at.Icon = icon
	if err := s.db.Save(&at).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &at, nil
}

func (s *referenceService) ListTagTypes() ([]models.TagType, error) {
	return list[models.TagType](s.db, "tag_type asc")
}

func (s *referenceService) CreateTagType(name string) (*models.TagType, error) {
	tt := models.TagType{Name: name}
	if err := s.db.Create(&tt).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &tt, nil
}

func (s *referenceService) ListMainTags() ([]models.MainTag, error) {
	return list[models.MainTag](s.db, "tag_name asc")
}

func (s *referenceService) ListSubTags() ([]models.SubTag, error) {
	return list[models.SubTag](s.db, "tag_name asc")
}

func (s *referenceService) ListRepeats() ([]models.Repeat, error) {
	return list[models.Repeat](s.db, "id asc")
}

func (s *referenceService) CreateRepeat(input RepeatInput) (*models.Repeat, error) {
	repeat := models.Repeat{
		Name:   input.Name,
		Days:   input.Days,
		Weeks:  input.Weeks,
		Months: input.Months,
		Years:  input.Years,
	}
	if repeat.Step().IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Repeat period must advance")
	}
	if err := s.db.Create(&repeat).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &repeat, nil
}

func (s *referenceService) ListTransactionTypes() ([]models.TransactionType, error) {
	return list[models.TransactionType](s.db, "id asc")
}

func (s *referenceService) ListTransactionStatuses() ([]models.TransactionStatus, error) {
	return list[models.TransactionStatus](s.db, "id asc")
}
