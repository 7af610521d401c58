package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneta/internal/clock"
	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/recur"
)

// TagGraph is two years of monthly totals for a tag, current year first.
type TagGraph struct {
	TagID    uint              `json:"tag_id"`
	Name     string            `json:"name"`
	Labels   []string          `json:"labels"`
	Current  []decimal.Decimal `json:"current"`
	Previous []decimal.Decimal `json:"previous"`
}

// TagService manages main tags, sub tags and the (parent, child) pairs
// transaction details reference.
type TagService interface {
	ListTags() ([]models.Tag, error)
	GetTag(id uint) (*models.Tag, error)
	CreateTag(parentID uint, childID, tagTypeID *uint) (*models.Tag, error)
	DeleteTag(id uint) error

	CreateMainTag(name string, tagTypeID *uint) (*models.MainTag, error)
	UpdateMainTag(id uint, name string, tagTypeID *uint) (*models.MainTag, error)
	CreateSubTag(name string, parentID uint, tagTypeID *uint) (*models.SubTag, error)
	UpdateSubTag(id uint, name string, parentID uint, tagTypeID *uint) (*models.SubTag, error)

	// Graph returns the tag's monthly totals for the current and previous
	// calendar year.
	Graph(tagID uint) (*TagGraph, error)
}

type tagService struct {
	db    *gorm.DB
	clock clock.Clock
}

func NewTagService(db *gorm.DB, clk clock.Clock) TagService {
	return &tagService{db: db, clock: clk}
}

func (s *tagService) ListTags() ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.Preload("Parent").Preload("Child").Find(&tags).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tags, nil
}

func (s *tagService) GetTag(id uint) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.Preload("Parent").Preload("Child").First(&tag, id).Error
	if err != nil {
		return nil, notFound(err, apperrors.ErrTagNotFound)
	}
	return &tag, nil
}

func (s *tagService) CreateTag(parentID uint, childID, tagTypeID *uint) (*models.Tag, error) {
	tag := models.Tag{ParentID: parentID, ChildID: childID, TagTypeID: tagTypeID}
	if err := s.db.Create(&tag).Error; err != nil {
		return nil, translateDBError(err)
	}
	return s.GetTag(tag.ID)
}

func (s *tagService) DeleteTag(id uint) error {
	var count int64
	err := s.db.Model(&models.TransactionDetail{}).Where("tag_id = ?", id).Count(&count).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrIntegrity
	}
	res := s.db.Delete(&models.Tag{}, id)
	if res.Error != nil {
		return translateDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTagNotFound
	}
	return nil
}

func (s *tagService) CreateMainTag(name string, tagTypeID *uint) (*models.MainTag, error) {
	tag := models.MainTag{Name: name, TagTypeID: tagTypeID}
	if err := s.db.Create(&tag).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &tag, nil
}

func (s *tagService) UpdateMainTag(id uint, name string, tagTypeID *uint) (*models.MainTag, error) {
	var tag models.MainTag
	if err := s.db.First(&tag, id).Error; err != nil {
		return nil, notFound(err, apperrors.ErrTagNotFound)
	}
	tag.Name = name
	tag.TagTypeID = tagTypeID
	if err := s.db.Save(&tag).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &tag, nil
}

func (s *tagService) CreateSubTag(name string, parentID uint, tagTypeID *uint) (*models.SubTag, error) {
	tag := models.SubTag{Name: name, ParentID: parentID, TagTypeID: tagTypeID}
	if err := s.db.Create(&tag).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &tag, nil
}

func (s *tagService) UpdateSubTag(id uint, name string, parentID uint, tagTypeID *uint) (*models.SubTag, error) {
	var tag models.SubTag
	if err := s.db.First(&tag, id).Error; err != nil {
		return nil, notFound(err, apperrors.ErrTagNotFound)
	}
	tag.Name = name
	tag.ParentID = parentID
	tag.TagTypeID = tagTypeID
	if err := s.db.Save(&tag).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &tag, nil
}

func (s *tagService) Graph(tagID uint) (*TagGraph, error) {
	tag, err := s.GetTag(tagID)
	if err != nil {
		return nil, err
	}
	year := s.clock.Today().Year()
	current, err := s.monthlyTotals(tagID, year)
	if err != nil {
		return nil, err
	}
	previous, err := s.monthlyTotals(tagID, year-1)
	if err != nil {
		return nil, err
	}
	labels := make([]string, 12)
	for m := time.January; m <= time.December; m++ {
		labels[m-1] = m.String()[:3]
	}
	return &TagGraph{
		TagID:    tagID,
		Name:     tag.DisplayName(),
		Labels:   labels,
		Current:  current,
		Previous: previous,
	}, nil
}

// monthlyTotals sums the tag's signed detail amounts per calendar month of
// the year. Archived rows count here: the graphs are historical.
func (s *tagService) monthlyTotals(tagID uint, year int) ([]decimal.Decimal, error) {
	totals := make([]decimal.Decimal, 12)
	for i := range totals {
		totals[i] = decimal.Zero
	}
	type row struct {
		Date      time.Time
		DetailAmt decimal.Decimal
	}
	var rows []row
	start := clock.Date(year, time.January, 1)
	end := recur.AddYears(start, 1)
	err := s.db.Model(&models.TransactionDetail{}).
		Select("t.transaction_date as date, transaction_details.detail_amt").
		Joins("JOIN transactions t ON t.id = transaction_details.transaction_id").
		Where("transaction_details.tag_id = ?", tagID).
		Where("t.transaction_date >= ? AND t.transaction_date < ?", start, end).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, r := range rows {
		totals[int(r.Date.Month())-1] = totals[int(r.Date.Month())-1].Add(r.DetailAmt)
	}
	return totals, nil
}
