package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneta/internal/clock"
	apperrors "moneta/internal/errors"
	"moneta/internal/logger"
	"moneta/internal/models"
)

// ReminderService manages repeating transaction templates, their exclusion
// dates, and the conversion of due reminders into stored rows.
type ReminderService interface {
	List() ([]models.Reminder, error)
	Get(id uint) (*models.Reminder, error)
	Create(input ReminderInput) (*models.Reminder, error)
	Update(id uint, input ReminderInput) (*models.Reminder, error)
	Delete(id uint) error

	AddExclusion(reminderID uint, date time.Time) (*models.Reminder, error)
	RemoveExclusion(reminderID uint, date time.Time) error

	// ConvertDue materializes every reminder whose next_date has arrived:
	// auto-add reminders become pending transactions unless the date is
	// excluded or already materialized, and next_date advances past today
	// either way. Reminders past their end date are removed. Returns the
	// number of reminders processed; per-reminder failures are logged and
	// skipped.
	ConvertDue(today time.Time) int
}

type ReminderInput struct {
	TagID                uint
	Amount               decimal.Decimal
	SourceAccountID      uint
	DestinationAccountID *uint
	Description          string
	Memo                 *string
	TypeID               uint
	StartDate            time.Time
	NextDate             *time.Time
	EndDate              *time.Time
	RepeatID             uint
	AutoAdd              bool
}

type reminderService struct {
	db           *gorm.DB
	clock        clock.Clock
	transactions TransactionService
}

func NewReminderService(db *gorm.DB, clk clock.Clock, transactions TransactionService) ReminderService {
	return &reminderService{db: db, clock: clk, transactions: transactions}
}

func (s *reminderService) preloaded() *gorm.DB {
	return s.db.
		Preload("Tag.Parent").Preload("Tag.Child").
		Preload("SourceAccount").Preload("DestinationAccount").
		Preload("Repeat").Preload("Exclusions")
}

func (s *reminderService) List() ([]models.Reminder, error) {
	var reminders []models.Reminder
	if err := s.preloaded().Order("next_date asc").Find(&reminders).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return reminders, nil
}

func (s *reminderService) Get(id uint) (*models.Reminder, error) {
	var reminder models.Reminder
	if err := s.preloaded().First(&reminder, id).Error; err != nil {
		return nil, notFound(err, apperrors.ErrReminderNotFound)
	}
	return &reminder, nil
}

func (s *reminderService) validate(input *ReminderInput) error {
	switch input.TypeID {
	case models.TransactionTypeExpense, models.TransactionTypeIncome:
		if input.DestinationAccountID != nil {
			return apperrors.ErrTransferAccounts
		}
	case models.TransactionTypeTransfer:
		if input.DestinationAccountID == nil {
			return apperrors.ErrTransferAccounts
		}
		if *input.DestinationAccountID == input.SourceAccountID {
			return apperrors.ErrSameAccountTransfer
		}
	default:
		return apperrors.ErrInvalidTransactionType
	}
	var repeat models.Repeat
	if err := s.db.First(&repeat, input.RepeatID).Error; err != nil {
		return notFound(err, apperrors.ErrRepeatNotFound)
	}
	if repeat.Step().IsZero() {
		return apperrors.ErrZeroRepeat
	}
	return nil
}

func (s *reminderService) Create(input ReminderInput) (*models.Reminder, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}
	next := input.NextDate
	if next == nil {
		start := input.StartDate
		next = &start
	}
	reminder := models.Reminder{
		TagID:                input.TagID,
		Amount:               input.Amount.Abs(),
		SourceAccountID:      input.SourceAccountID,
		DestinationAccountID: input.DestinationAccountID,
		Description:          input.Description,
		Memo:                 input.Memo,
		TypeID:               input.TypeID,
		StartDate:            input.StartDate,
		NextDate:             next,
		EndDate:              input.EndDate,
		RepeatID:             input.RepeatID,
		AutoAdd:              input.AutoAdd,
	}
	if err := s.db.Create(&reminder).Error; err != nil {
		return nil, translateDBError(err)
	}
	return s.Get(reminder.ID)
}

func (s *reminderService) Update(id uint, input ReminderInput) (*models.Reminder, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}
	reminder, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	reminder.TagID = input.TagID
	reminder.Amount = input.Amount.Abs()
	reminder.SourceAccountID = input.SourceAccountID
	reminder.DestinationAccountID = input.DestinationAccountID
	reminder.Description = input.Description
	reminder.Memo = input.Memo
	reminder.TypeID = input.TypeID
	reminder.StartDate = input.StartDate
	reminder.NextDate = input.NextDate
	reminder.EndDate = input.EndDate
	reminder.RepeatID = input.RepeatID
	reminder.AutoAdd = input.AutoAdd
	if err := s.db.Save(reminder).Error; err != nil {
		return nil, translateDBError(err)
	}
	return s.Get(reminder.ID)
}

func (s *reminderService) Delete(id uint) error {
	reminder, err := s.Get(id)
	if err != nil {
		return err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reminder_id = ?", reminder.ID).
			Delete(&models.ReminderExclusion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Reminder{}, reminder.ID).Error
	})
	if err != nil {
		return translateDBError(err)
	}
	return nil
}

func (s *reminderService) AddExclusion(reminderID uint, date time.Time) (*models.Reminder, error) {
	if _, err := s.Get(reminderID); err != nil {
		return nil, err
	}
	exclusion := models.ReminderExclusion{ReminderID: reminderID, ExcludeDate: date}
	if err := s.db.Create(&exclusion).Error; err != nil {
		return nil, translateDBError(err)
	}
	return s.Get(reminderID)
}

func (s *reminderService) RemoveExclusion(reminderID uint, date time.Time) error {
	res := s.db.Where("reminder_id = ? AND exclude_date = ?", reminderID, date).
		Delete(&models.ReminderExclusion{})
	if res.Error != nil {
		return translateDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrExclusionNotFound
	}
	return nil
}

func (s *reminderService) ConvertDue(today time.Time) int {
	log := logger.Get()
	var reminders []models.Reminder
	err := s.preloaded().
		Where("next_date IS NOT NULL AND next_date <= ?", today).
		Find(&reminders).Error
	if err != nil {
		log.Errorw("loading due reminders failed", "error", err)
		return 0
	}

	converted := 0
	for i := range reminders {
		if err := s.convertOne(&reminders[i], today); err != nil {
			log.Errorw("reminder conversion failed",
				"reminder_id", reminders[i].ID, "error", err)
			continue
		}
		converted++
	}
	if converted > 0 {
		log.Infow("reminders converted", "count", converted)
	}
	return converted
}

func (s *reminderService) convertOne(r *models.Reminder, today time.Time) error {
	step := r.Repeat.Step()
	if step.IsZero() {
		return apperrors.ErrZeroRepeat
	}
	excluded := make(map[time.Time]bool, len(r.Exclusions))
	for _, x := range r.Exclusions {
		excluded[x.ExcludeDate] = true
	}

	due := *r.NextDate
	if r.AutoAdd && !excluded[due] {
		exists, err := s.materialized(r.ID, due)
		if err != nil {
			return err
		}
		if !exists {
			reminderID := r.ID
			src := r.SourceAccountID
			_, err := s.transactions.Create(TransactionInput{
				Date:                 due,
				TotalAmount:          r.Amount,
				StatusID:             models.StatusPending,
				TypeID:               r.TypeID,
				Description:          r.Description,
				Memo:                 r.Memo,
				SourceAccountID:      &src,
				DestinationAccountID: r.DestinationAccountID,
				ReminderID:           &reminderID,
				Details: []TransactionDetailInput{
					{TagID: r.TagID, FullToggle: true},
				},
			})
			if err != nil {
				return err
			}
		}
	}

	// Advance to the first non-excluded orbit date after today. The date
	// moves forward even when nothing was created, so a skipped occurrence
	// is never retried.
	next := due
	for {
		advanced, err := step.Advance(next)
		if err != nil {
			return err
		}
		next = advanced
		if next.After(today) && !excluded[next] {
			break
		}
	}
	if r.EndDate != nil && next.After(*r.EndDate) {
		return s.Delete(r.ID)
	}
	return s.db.Model(&models.Reminder{}).Where("id = ?", r.ID).
		Update("next_date", next).Error
}

// materialized reports whether the reminder already produced a stored row
// for the date.
func (s *reminderService) materialized(reminderID uint, date time.Time) (bool, error) {
	var count int64
	err := s.db.Model(&models.Transaction{}).
		Where("reminder_id = ? AND transaction_date = ?", reminderID, date).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}
