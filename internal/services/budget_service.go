package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneta/internal/clock"
	apperrors "moneta/internal/errors"
	"moneta/internal/logger"
	"moneta/internal/models"
	"moneta/internal/recur"
)

// BudgetStatus is a budget annotated with its current window and usage.
type BudgetStatus struct {
	models.Budget
	WindowStart    time.Time       `json:"window_start"`
	WindowEnd      time.Time       `json:"window_end"`
	Used           decimal.Decimal `json:"used"`
	UsedPercentage int             `json:"used_percentage"`
}

// BudgetService manages budgets, their per-window usage, and the roll-over
// sweep that carries unspent amounts forward.
type BudgetService interface {
	List(widgetOnly bool) ([]BudgetStatus, error)
	Get(id uint) (*BudgetStatus, error)
	Create(input BudgetInput) (*BudgetStatus, error)
	Update(id uint, input BudgetInput) (*BudgetStatus, error)
	Delete(id uint) error

	// RollOver advances every due roll-over budget by however many whole
	// periods have elapsed, accumulating unspent amounts into roll_over_amt.
	// Idempotent within a period. Returns the number of budgets advanced.
	RollOver(today time.Time) int
}

type BudgetInput struct {
	Name     string
	TagIDs   string
	Amount   decimal.Decimal
	RollOver bool
	RepeatID uint
	StartDay time.Time
	Active   bool
	Widget   bool
}

type budgetService struct {
	db    *gorm.DB
	clock clock.Clock
}

func NewBudgetService(db *gorm.DB, clk clock.Clock) BudgetService {
	return &budgetService{db: db, clock: clk}
}

func (s *budgetService) List(widgetOnly bool) ([]BudgetStatus, error) {
	var budgets []models.Budget
	q := s.db.Preload("Repeat").Where("active = ?", true).Order("name asc")
	if widgetOnly {
		q = q.Where("widget = ?", true)
	}
	if err := q.Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	today := s.clock.Today()
	statuses := make([]BudgetStatus, 0, len(budgets))
	for i := range budgets {
		status, err := s.annotate(&budgets[i], today)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, *status)
	}
	return statuses, nil
}

func (s *budgetService) Get(id uint) (*BudgetStatus, error) {
	var budget models.Budget
	if err := s.db.Preload("Repeat").First(&budget, id).Error; err != nil {
		return nil, notFound(err, apperrors.ErrBudgetNotFound)
	}
	return s.annotate(&budget, s.clock.Today())
}

// annotate computes the budget's current window and usage.
func (s *budgetService) annotate(b *models.Budget, today time.Time) (*BudgetStatus, error) {
	step := b.Repeat.Step()
	window, _, _, err := step.CurrentWindow(b.StartDay, today)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrZeroRepeat, err)
	}
	used, err := s.usedBetween(b, window.Start, window.End.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	return &BudgetStatus{
		Budget:         *b,
		WindowStart:    window.Start,
		WindowEnd:      window.End,
		Used:           used.Abs(),
		UsedPercentage: usedPercentage(used, b.Amount.Add(b.RollOverAmt)),
	}, nil
}

// usedBetween sums the signed detail amounts of the budget's tags over rows
// added in [start, end). Archived rows do not count.
func (s *budgetService) usedBetween(b *models.Budget, start, end time.Time) (decimal.Decimal, error) {
	tagIDs := b.TagIDList()
	if len(tagIDs) == 0 {
		return decimal.Zero, nil
	}
	var amounts []decimal.Decimal
	err := s.db.Model(&models.TransactionDetail{}).
		Joins("JOIN transactions t ON t.id = transaction_details.transaction_id").
		Where("transaction_details.tag_id IN ?", tagIDs).
		Where("t.add_date >= ? AND t.add_date < ?", start, end).
		Where("t.status_id <> ?", models.StatusArchived).
		Pluck("transaction_details.detail_amt", &amounts).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total, nil
}

// usedPercentage is |used| over the available amount, rounded to a whole
// percent. Zero when nothing is available.
func usedPercentage(used, available decimal.Decimal) int {
	if available.IsZero() {
		return 0
	}
	pct := used.Abs().Div(available.Abs()).Mul(decimal.NewFromInt(100))
	return int(pct.Round(0).IntPart())
}

func (s *budgetService) Create(input BudgetInput) (*BudgetStatus, error) {
	step, err := s.repeatStep(input.RepeatID)
	if err != nil {
		return nil, err
	}
	next, err := step.Advance(input.StartDay)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrZeroRepeat, err)
	}
	budget := models.Budget{
		Name:      input.Name,
		TagIDs:    input.TagIDs,
		Amount:    input.Amount,
		RollOver:  input.RollOver,
		RepeatID:  input.RepeatID,
		StartDay:  input.StartDay,
		Active:    input.Active,
		Widget:    input.Widget,
		NextStart: next,
	}
	if err := s.db.Create(&budget).Error; err != nil {
		return nil, translateDBError(err)
	}
	return s.Get(budget.ID)
}

func (s *budgetService) Update(id uint, input BudgetInput) (*BudgetStatus, error) {
	var budget models.Budget
	if err := s.db.First(&budget, id).Error; err != nil {
		return nil, notFound(err, apperrors.ErrBudgetNotFound)
	}
	step, err := s.repeatStep(input.RepeatID)
	if err != nil {
		return nil, err
	}
	if !budget.StartDay.Equal(input.StartDay) || budget.RepeatID != input.RepeatID {
		next, err := step.Advance(input.StartDay)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrZeroRepeat, err)
		}
		budget.NextStart = next
		budget.RollOverAmt = decimal.Zero
	}
	budget.Name = input.Name
	budget.TagIDs = input.TagIDs
	budget.Amount = input.Amount
	budget.RollOver = input.RollOver
	budget.RepeatID = input.RepeatID
	budget.StartDay = input.StartDay
	budget.Active = input.Active
	budget.Widget = input.Widget
	if err := s.db.Save(&budget).Error; err != nil {
		return nil, translateDBError(err)
	}
	return s.Get(budget.ID)
}

func (s *budgetService) Delete(id uint) error {
	res := s.db.Delete(&models.Budget{}, id)
	if res.Error != nil {
		return translateDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrBudgetNotFound
	}
	return nil
}

func (s *budgetService) repeatStep(repeatID uint) (recur.Step, error) {
	var repeat models.Repeat
	if err := s.db.First(&repeat, repeatID).Error; err != nil {
		return recur.Step{}, notFound(err, apperrors.ErrRepeatNotFound)
	}
	step := repeat.Step()
	if step.IsZero() {
		return recur.Step{}, apperrors.ErrZeroRepeat
	}
	return step, nil
}

func (s *budgetService) RollOver(today time.Time) int {
	log := logger.Get()
	var budgets []models.Budget
	err := s.db.Preload("Repeat").
		Where("active = ? AND next_start <= ?", true, today).
		Find(&budgets).Error
	if err != nil {
		log.Errorw("loading due budgets failed", "error", err)
		return 0
	}

	advanced := 0
	for i := range budgets {
		moved, err := s.rollOverOne(&budgets[i], today)
		if err != nil {
			log.Errorw("budget roll-over failed", "budget_id", budgets[i].ID, "error", err)
			continue
		}
		if moved {
			advanced++
		}
	}
	if advanced > 0 {
		log.Infow("budgets rolled over", "count", advanced)
	}
	return advanced
}

// rollOverOne re-anchors the budget at the current window and accumulates
// the unspent amount of every elapsed period into roll_over_amt. Budgets
// without roll-over just advance.
func (s *budgetService) rollOverOne(b *models.Budget, today time.Time) (bool, error) {
	step := b.Repeat.Step()
	window, k, next, err := step.CurrentWindow(b.StartDay, today)
	if err != nil {
		return false, err
	}
	if k == 0 {
		return false, nil
	}

	if b.RollOver {
		// Walk the elapsed windows summing each period's absolute usage.
		usedTotal := decimal.Zero
		cursor := b.StartDay
		for p := 0; p < k; p++ {
			periodEnd, err := step.Advance(cursor)
			if err != nil {
				return false, err
			}
			used, err := s.usedBetween(b, cursor, periodEnd)
			if err != nil {
				return false, err
			}
			usedTotal = usedTotal.Add(used.Abs())
			cursor = periodEnd
		}
		b.RollOverAmt = b.Amount.Mul(decimal.NewFromInt(int64(k))).Sub(usedTotal)
	} else {
		b.RollOverAmt = decimal.Zero
	}

	b.StartDay = window.Start
	b.NextStart = next
	if err := s.db.Save(b).Error; err != nil {
		return false, err
	}
	return true, nil
}
