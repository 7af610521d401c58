// Package handlers implements the HTTP surface: request binding, DTO
// shaping, and error mapping. All domain behavior lives in services.
package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/ledger"
	"moneta/internal/logger"
)

// dateLayout is the wire format for all dates.
const dateLayout = "2006-01-02"

// ErrorResponse is the error envelope every endpoint returns on failure.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// parsePathID parses a uint path parameter.
func parsePathID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return uint(id), nil
}

// parseDate parses a wire-format date string.
func parseDate(value string) (time.Time, error) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"Invalid date '"+value+"', expected "+dateLayout)
	}
	return d, nil
}

// parseOptionalDate parses a nullable wire-format date string.
func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	d, err := parseDate(*value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func formatDate(d time.Time) string { return d.Format(dateLayout) }

func formatOptionalDate(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format(dateLayout)
	return &s
}

// respondWithError writes a consistent JSON error response. If the error is
// an *AppError it uses the error's status code, code, and message. Otherwise
// it logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}

// EntryResponse is the wire shape of one composed cash-flow row. Virtual
// rows carry negative ids.
type EntryResponse struct {
	ID                   int64    `json:"id"`
	Date                 string   `json:"date"`
	TotalAmount          string   `json:"total_amount"`
	StatusID             uint     `json:"status_id"`
	TypeID               uint     `json:"type_id"`
	Memo                 *string  `json:"memo,omitempty"`
	Description          string   `json:"description"`
	EditDate             string   `json:"edit_date"`
	AddDate              string   `json:"add_date"`
	CheckNumber          *int     `json:"check_number,omitempty"`
	SourceAccountID      *uint    `json:"source_account_id,omitempty"`
	DestinationAccountID *uint    `json:"destination_account_id,omitempty"`
	PrettyAccount        string   `json:"pretty_account"`
	PrettyTotal          string   `json:"pretty_total"`
	Balance              string   `json:"balance"`
	Tags                 []string `json:"tags"`
	ReminderID           *uint    `json:"reminder_id,omitempty"`
	Simulated            bool     `json:"simulated,omitempty"`
}

func toEntryResponse(e *ledger.Entry) EntryResponse {
	return EntryResponse{
		ID:                   e.ID,
		Date:                 formatDate(e.Date),
		TotalAmount:          e.TotalAmount.StringFixed(2),
		StatusID:             e.StatusID,
		TypeID:               e.TypeID,
		Memo:                 e.Memo,
		Description:          e.Description,
		EditDate:             formatDate(e.EditDate),
		AddDate:              formatDate(e.AddDate),
		CheckNumber:          e.CheckNumber,
		SourceAccountID:      e.SourceAccountID,
		DestinationAccountID: e.DestinationAccountID,
		PrettyAccount:        e.PrettyAccount,
		PrettyTotal:          e.PrettyTotal.StringFixed(2),
		Balance:              e.Balance.StringFixed(2),
		Tags:                 e.Tags,
		ReminderID:           e.ReminderID,
		Simulated:            e.Simulated,
	}
}

func toEntryResponses(entries []*ledger.Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	return out
}
