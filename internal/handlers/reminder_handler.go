package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/services"
)

// ReminderHandler handles reminder-related requests.
type ReminderHandler struct {
	reminderService services.ReminderService
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(reminderService services.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

// ReminderRequest represents the request payload for creating or updating a
// reminder.
type ReminderRequest struct {
	TagID                uint    `json:"tag_id" binding:"required"`
	Amount               string  `json:"amount" binding:"required"`
	SourceAccountID      uint    `json:"source_account_id" binding:"required"`
	DestinationAccountID *uint   `json:"destination_account_id"`
	Description          string  `json:"description" binding:"required,max=254"`
	Memo                 *string `json:"memo" binding:"omitempty,max=508"`
	TypeID               uint    `json:"type_id" binding:"required,transaction_type"`
	StartDate            string  `json:"start_date" binding:"required"`
	NextDate             *string `json:"next_date"`
	EndDate              *string `json:"end_date"`
	RepeatID             uint    `json:"repeat_id" binding:"required"`
	AutoAdd              bool    `json:"auto_add"`
}

func (r *ReminderRequest) toInput() (services.ReminderInput, error) {
	startDate, err := parseDate(r.StartDate)
	if err != nil {
		return services.ReminderInput{}, err
	}
	nextDate, err := parseOptionalDate(r.NextDate)
	if err != nil {
		return services.ReminderInput{}, err
	}
	endDate, err := parseOptionalDate(r.EndDate)
	if err != nil {
		return services.ReminderInput{}, err
	}
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return services.ReminderInput{}, err
	}
	return services.ReminderInput{
		TagID:                r.TagID,
		Amount:               amount,
		SourceAccountID:      r.SourceAccountID,
		DestinationAccountID: r.DestinationAccountID,
		Description:          r.Description,
		Memo:                 r.Memo,
		TypeID:               r.TypeID,
		StartDate:            startDate,
		NextDate:             nextDate,
		EndDate:              endDate,
		RepeatID:             r.RepeatID,
		AutoAdd:              r.AutoAdd,
	}, nil
}

// ReminderResponse represents a reminder in the response.
type ReminderResponse struct {
	ID                   uint     `json:"id"`
	TagID                uint     `json:"tag_id"`
	Tag                  string   `json:"tag"`
	Amount               string   `json:"amount"`
	SourceAccountID      uint     `json:"source_account_id"`
	SourceAccount        string   `json:"source_account"`
	DestinationAccountID *uint    `json:"destination_account_id,omitempty"`
	DestinationAccount   string   `json:"destination_account,omitempty"`
	Description          string   `json:"description"`
	Memo                 *string  `json:"memo,omitempty"`
	TypeID               uint     `json:"type_id"`
	StartDate            string   `json:"start_date"`
	NextDate             *string  `json:"next_date,omitempty"`
	EndDate              *string  `json:"end_date,omitempty"`
	RepeatID             uint     `json:"repeat_id"`
	Repeat               string   `json:"repeat"`
	AutoAdd              bool     `json:"auto_add"`
	Exclusions           []string `json:"exclusions"`
}

func toReminderResponse(r *models.Reminder) ReminderResponse {
	exclusions := make([]string, 0, len(r.Exclusions))
	for _, x := range r.Exclusions {
		exclusions = append(exclusions, formatDate(x.ExcludeDate))
	}
	destination := ""
	if r.DestinationAccount != nil {
		destination = r.DestinationAccount.Name
	}
	return ReminderResponse{
		ID:                   r.ID,
		TagID:                r.TagID,
		Tag:                  r.Tag.DisplayName(),
		Amount:               r.Amount.StringFixed(2),
		SourceAccountID:      r.SourceAccountID,
		SourceAccount:        r.SourceAccount.Name,
		DestinationAccountID: r.DestinationAccountID,
		DestinationAccount:   destination,
		Description:          r.Description,
		Memo:                 r.Memo,
		TypeID:               r.TypeID,
		StartDate:            formatDate(r.StartDate),
		NextDate:             formatOptionalDate(r.NextDate),
		EndDate:              formatOptionalDate(r.EndDate),
		RepeatID:             r.RepeatID,
		Repeat:               r.Repeat.Name,
		AutoAdd:              r.AutoAdd,
		Exclusions:           exclusions,
	}
}

// ListReminders returns all reminders ordered by next due date.
// @Summary     List reminders
// @Tags        reminders
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} ReminderResponse
// @Router      /reminders [get]
func (h *ReminderHandler) ListReminders(c *gin.Context) {
	reminders, err := h.reminderService.List()
	if err != nil {
		respondWithError(c, err)
		return
	}
	out := make([]ReminderResponse, 0, len(reminders))
	for i := range reminders {
		out = append(out, toReminderResponse(&reminders[i]))
	}
	c.JSON(http.StatusOK, gin.H{"reminders": out})
}

// GetReminder returns one reminder.
// @Summary     Get a reminder
// @Tags        reminders
// @Produce     json
// @Security    BearerAuth
// @Param       reminder_id path int true "Reminder ID"
// @Success     200 {object} ReminderResponse
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /reminders/{reminder_id} [get]
func (h *ReminderHandler) GetReminder(c *gin.Context) {
	id, err := parsePathID(c, "reminder_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	reminder, err := h.reminderService.Get(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminder": toReminderResponse(reminder)})
}

// CreateReminder creates a reminder.
// @Summary     Create a reminder
// @Tags        reminders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ReminderRequest true "Reminder details"
// @Success     201 {object} ReminderResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /reminders [post]
func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	var req ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}
	reminder, err := h.reminderService.Create(input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reminder": toReminderResponse(reminder)})
}

// UpdateReminder updates a reminder.
// @Summary     Update a reminder
// @Tags        reminders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       reminder_id path int true "Reminder ID"
// @Param       request body ReminderRequest true "Reminder details"
// @Success     200 {object} ReminderResponse
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /reminders/{reminder_id} [put]
func (h *ReminderHandler) UpdateReminder(c *gin.Context) {
	id, err := parsePathID(c, "reminder_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}
	reminder, err := h.reminderService.Update(id, input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminder": toReminderResponse(reminder)})
}

// DeleteReminder deletes a reminder and its exclusions.
// @Summary     Delete a reminder
// @Tags        reminders
// @Security    BearerAuth
// @Param       reminder_id path int true "Reminder ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /reminders/{reminder_id} [delete]
func (h *ReminderHandler) DeleteReminder(c *gin.Context) {
	id, err := parsePathID(c, "reminder_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.reminderService.Delete(id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExclusionRequest carries a single exclusion date.
type ExclusionRequest struct {
	Date string `json:"date" binding:"required"`
}

// AddExclusion marks a date the reminder skips.
// @Summary     Add a reminder exclusion
// @Tags        reminders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       reminder_id path int true "Reminder ID"
// @Param       request body ExclusionRequest true "Exclusion date"
// @Success     201 {object} ReminderResponse
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /reminders/{reminder_id}/exclusions [post]
func (h *ReminderHandler) AddExclusion(c *gin.Context) {
	id, err := parsePathID(c, "reminder_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req ExclusionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}
	reminder, err := h.reminderService.AddExclusion(id, date)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reminder": toReminderResponse(reminder)})
}

// RemoveExclusion unmarks a skipped date.
// @Summary     Remove a reminder exclusion
// @Tags        reminders
// @Security    BearerAuth
// @Param       reminder_id path int true "Reminder ID"
// @Param       date query string true "Exclusion date (YYYY-MM-DD)"
// @Success     204 "Removed"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /reminders/{reminder_id}/exclusions [delete]
func (h *ReminderHandler) RemoveExclusion(c *gin.Context) {
	id, err := parsePathID(c, "reminder_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	date, err := parseDate(c.Query("date"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.reminderService.RemoveExclusion(id, date); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
