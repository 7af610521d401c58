package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "moneta/internal/errors"
	"moneta/internal/services"
)

// OptionHandler exposes the singleton application settings.
type OptionHandler struct {
	optionService services.OptionService
}

// NewOptionHandler creates a new OptionHandler.
func NewOptionHandler(optionService services.OptionService) *OptionHandler {
	return &OptionHandler{optionService: optionService}
}

// UpdateOptionRequest carries partial updates to the settings row.
type UpdateOptionRequest struct {
	AutoArchive             *bool   `json:"auto_archive"`
	ArchiveLength           *int    `json:"archive_length" binding:"omitempty,gte=1"`
	EnableCCBillCalculation *bool   `json:"enable_cc_bill_calculation"`
	RetirementAccountIDs    *string `json:"retirement_accounts" binding:"omitempty,max=254"`
	AlertBalance            *string `json:"alert_balance"`
	AlertPeriod             *int    `json:"alert_period" binding:"omitempty,gte=0"`
	LogLevel                *int    `json:"log_level" binding:"omitempty,gte=0,lte=4"`
	Widget1GraphName        *string `json:"widget1_graph_name" binding:"omitempty,max=254"`
	Widget1TagID            *uint   `json:"widget1_tag_id"`
	Widget1Expense          *bool   `json:"widget1_expense"`
	Widget1Month            *int    `json:"widget1_month" binding:"omitempty,gte=0,lte=12"`
	Widget2GraphName        *string `json:"widget2_graph_name" binding:"omitempty,max=254"`
	Widget2TagID            *uint   `json:"widget2_tag_id"`
	Widget2Expense          *bool   `json:"widget2_expense"`
	Widget2Month            *int    `json:"widget2_month" binding:"omitempty,gte=0,lte=12"`
}

// GetOptions returns the settings row.
// @Summary     Get settings
// @Tags        options
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Option
// @Router      /options [get]
func (h *OptionHandler) GetOptions(c *gin.Context) {
	opt, err := h.optionService.Snapshot()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": opt})
}

// UpdateOptions updates the settings row.
// @Summary     Update settings
// @Tags        options
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateOptionRequest true "Settings"
// @Success     200 {object} models.Option
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /options [put]
func (h *OptionHandler) UpdateOptions(c *gin.Context) {
	var req UpdateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	input := services.UpdateOptionInput{
		AutoArchive:             req.AutoArchive,
		ArchiveLength:           req.ArchiveLength,
		EnableCCBillCalculation: req.EnableCCBillCalculation,
		RetirementAccountIDs:    req.RetirementAccountIDs,
		AlertPeriod:             req.AlertPeriod,
		LogLevel:                req.LogLevel,
		Widget1GraphName:        req.Widget1GraphName,
		Widget1TagID:            req.Widget1TagID,
		Widget1Expense:          req.Widget1Expense,
		Widget1Month:            req.Widget1Month,
		Widget2GraphName:        req.Widget2GraphName,
		Widget2TagID:            req.Widget2TagID,
		Widget2Expense:          req.Widget2Expense,
		Widget2Month:            req.Widget2Month,
	}
	if req.AlertBalance != nil {
		balance, err := decimal.NewFromString(*req.AlertBalance)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid alert_balance"))
			return
		}
		input.AlertBalance = &balance
	}
	opt, err := h.optionService.Update(input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": opt})
}
