package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// OptionService exposes the singleton application settings row.
type OptionService interface {
	// Snapshot returns the settings row, creating the defaults on first use.
	Snapshot() (*models.Option, error)
	Update(input UpdateOptionInput) (*models.Option, error)
}

type UpdateOptionInput struct {
	AutoArchive             *bool
	ArchiveLength           *int
	EnableCCBillCalculation *bool
	RetirementAccountIDs    *string
	AlertBalance            *decimal.Decimal
	AlertPeriod             *int
	LogLevel                *int
	Widget1GraphName        *string
	Widget1TagID            *uint
	Widget1Expense          *bool
	Widget1Month            *int
	Widget2GraphName        *string
	Widget2TagID            *uint
	Widget2Expense          *bool
	Widget2Month            *int
}

type optionService struct {
	db *gorm.DB
}

func NewOptionService(db *gorm.DB) OptionService {
	return &optionService{db: db}
}

func (s *optionService) Snapshot() (*models.Option, error) {
	var opt models.Option
	err := s.db.First(&opt, models.OptionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		opt = models.Option{ID: models.OptionID, ArchiveLength: 5, EnableCCBillCalculation: true, AlertPeriod: 3, LogLevel: 1}
		if err := s.db.Create(&opt).Error; err != nil {
			return nil, translateDBError(err)
		}
		return &opt, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &opt, nil
}

func (s *optionService) Update(input UpdateOptionInput) (*models.Option, error) {
	opt, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	if input.AutoArchive != nil {
		opt.AutoArchive = *input.AutoArchive
	}
	if input.ArchiveLength != nil {
		opt.ArchiveLength = *input.ArchiveLength
	}
	if input.EnableCCBillCalculation != nil {
		opt.EnableCCBillCalculation = *input.EnableCCBillCalculation
	}
	if input.RetirementAccountIDs != nil {
		opt.RetirementAccountIDs = *input.RetirementAccountIDs
	}
	if input.AlertBalance != nil {
		opt.AlertBalance = *input.AlertBalance
	}
	if input.AlertPeriod != nil {
		opt.AlertPeriod = *input.AlertPeriod
	}
	if input.LogLevel != nil {
		opt.LogLevel = *input.LogLevel
	}
	if input.Widget1GraphName != nil {
		opt.Widget1GraphName = *input.Widget1GraphName
	}
	if input.Widget1TagID != nil {
		opt.Widget1TagID = input.Widget1TagID
	}
	if input.Widget1Expense != nil {
		opt.Widget1Expense = *input.Widget1Expense
	}
	if input.Widget1Month != nil {
		opt.Widget1Month = *input.Widget1Month
	}
	if input.Widget2GraphName != nil {
		opt.Widget2GraphName = *input.Widget2GraphName
	}
	if input.Widget2TagID != nil {
		opt.Widget2TagID = input.Widget2TagID
	}
	if input.Widget2Expense != nil {
		opt.Widget2Expense = *input.Widget2Expense
	}
	if input.Widget2Month != nil {
		opt.Widget2Month = *input.Widget2Month
	}
	if err := s.db.Save(opt).Error; err != nil {
		return nil, translateDBError(err)
	}
	return opt, nil
}
