package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// BudgetRequest represents the request payload for creating or updating a
// budget.
type BudgetRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	TagIDs   string `json:"tag_ids" binding:"required,max=254"`
	Amount   string `json:"amount" binding:"required"`
	RollOver bool   `json:"roll_over"`
	RepeatID uint   `json:"repeat_id" binding:"required"`
	StartDay string `json:"start_day" binding:"required"`
	Active   bool   `json:"active"`
	Widget   bool   `json:"widget"`
}

func (r *BudgetRequest) toInput() (services.BudgetInput, error) {
	startDay, err := parseDate(r.StartDay)
	if err != nil {
		return services.BudgetInput{}, err
	}
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return services.BudgetInput{}, err
	}
	return services.BudgetInput{
		Name:     r.Name,
		TagIDs:   r.TagIDs,
		Amount:   amount,
		RollOver: r.RollOver,
		RepeatID: r.RepeatID,
		StartDay: startDay,
		Active:   r.Active,
		Widget:   r.Widget,
	}, nil
}

// BudgetResponse is a budget annotated with its current window and usage.
type BudgetResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	TagIDs         string `json:"tag_ids"`
	Amount         string `json:"amount"`
	RollOver       bool   `json:"roll_over"`
	RollOverAmt    string `json:"roll_over_amt"`
	RepeatID       uint   `json:"repeat_id"`
	StartDay       string `json:"start_day"`
	NextStart      string `json:"next_start"`
	Active         bool   `json:"active"`
	Widget         bool   `json:"widget"`
	WindowStart    string `json:"window_start"`
	WindowEnd      string `json:"window_end"`
	Used           string `json:"used"`
	UsedPercentage int    `json:"used_percentage"`
}

func toBudgetResponse(b *services.BudgetStatus) BudgetResponse {
	return BudgetResponse{
		ID:             b.ID,
		Name:           b.Name,
		TagIDs:         b.TagIDs,
		Amount:         b.Amount.StringFixed(2),
		RollOver:       b.RollOver,
		RollOverAmt:    b.RollOverAmt.StringFixed(2),
		RepeatID:       b.RepeatID,
		StartDay:       formatDate(b.StartDay),
		NextStart:      formatDate(b.NextStart),
		Active:         b.Active,
		Widget:         b.Widget,
		WindowStart:    formatDate(b.WindowStart),
		WindowEnd:      formatDate(b.WindowEnd),
		Used:           b.Used.StringFixed(2),
		UsedPercentage: b.UsedPercentage,
	}
}

// ListBudgets returns active budgets with their current usage.
// @Summary     List budgets
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       widget query bool false "Only dashboard-widget budgets"
// @Success     200 {array} BudgetResponse
// @Router      /budgets [get]
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	widgetOnly, _ := strconv.ParseBool(c.DefaultQuery("widget", "false"))
	budgets, err := h.budgetService.List(widgetOnly)
	if err != nil {
		respondWithError(c, err)
		return
	}
	out := make([]BudgetResponse, 0, len(budgets))
	for i := range budgets {
		out = append(out, toBudgetResponse(&budgets[i]))
	}
	c.JSON(http.StatusOK, gin.H{"budgets": out})
}

// GetBudget returns one budget with its current usage.
// @Summary     Get a budget
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       budget_id path int true "Budget ID"
// @Success     200 {object} BudgetResponse
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /budgets/{budget_id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	id, err := parsePathID(c, "budget_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	budget, err := h.budgetService.Get(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": toBudgetResponse(budget)})
}

// CreateBudget creates a budget.
// @Summary     Create a budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BudgetRequest true "Budget details"
// @Success     201 {object} BudgetResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}
	budget, err := h.budgetService.Create(input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"budget": toBudgetResponse(budget)})
}

// UpdateBudget updates a budget.
// @Summary     Update a budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       budget_id path int true "Budget ID"
// @Param       request body BudgetRequest true "Budget details"
// @Success     200 {object} BudgetResponse
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /budgets/{budget_id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	id, err := parsePathID(c, "budget_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}
	budget, err := h.budgetService.Update(id, input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": toBudgetResponse(budget)})
}

// DeleteBudget deletes a budget.
// @Summary     Delete a budget
// @Tags        budgets
// @Security    BearerAuth
// @Param       budget_id path int true "Budget ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /budgets/{budget_id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	id, err := parsePathID(c, "budget_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.budgetService.Delete(id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
