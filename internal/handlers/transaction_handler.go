package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"moneta/internal/clock"
	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
	"moneta/internal/services"
)

// TransactionHandler handles transaction-related requests, including the
// composed cash-flow listing per account.
type TransactionHandler struct {
	transactionService services.TransactionService
	cashFlowService    services.CashFlowService
	clock              clock.Clock
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionService, cashFlowService services.CashFlowService, clk clock.Clock) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, cashFlowService: cashFlowService, clock: clk}
}

// TransactionDetailRequest is one tag split of a transaction.
type TransactionDetailRequest struct {
	TagID      uint   `json:"tag_id" binding:"required"`
	Amount     string `json:"amount"`
	FullToggle bool   `json:"full_toggle"`
}

// TransactionRequest represents the request payload for creating or updating
// a transaction.
type TransactionRequest struct {
	Date                 string                     `json:"date" binding:"required"`
	TotalAmount          string                     `json:"total_amount" binding:"required"`
	StatusID             uint                       `json:"status_id" binding:"required,transaction_status"`
	TypeID               uint                       `json:"type_id" binding:"required,transaction_type"`
	Description          string                     `json:"description" binding:"required,max=254"`
	Memo                 *string                    `json:"memo" binding:"omitempty,max=508"`
	CheckNumber          *int                       `json:"check_number"`
	SourceAccountID      *uint                      `json:"source_account_id"`
	DestinationAccountID *uint                      `json:"destination_account_id"`
	Details              []TransactionDetailRequest `json:"details" binding:"required,min=1,dive"`
}

func (r *TransactionRequest) toInput() (services.TransactionInput, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return services.TransactionInput{}, err
	}
	total, err := parseAmount(r.TotalAmount)
	if err != nil {
		return services.TransactionInput{}, err
	}
	details := make([]services.TransactionDetailInput, 0, len(r.Details))
	for _, d := range r.Details {
		amount, err := parseAmount(d.Amount)
		if err != nil {
			return services.TransactionInput{}, err
		}
		details = append(details, services.TransactionDetailInput{
			TagID:      d.TagID,
			Amount:     amount,
			FullToggle: d.FullToggle,
		})
	}
	return services.TransactionInput{
		Date:                 date,
		TotalAmount:          total,
		StatusID:             r.StatusID,
		TypeID:               r.TypeID,
		Description:          r.Description,
		Memo:                 r.Memo,
		CheckNumber:          r.CheckNumber,
		SourceAccountID:      r.SourceAccountID,
		DestinationAccountID: r.DestinationAccountID,
		Details:              details,
	}, nil
}

// TransactionResponse represents a stored transaction in the response.
type TransactionResponse struct {
	ID                   uint                        `json:"id"`
	Date                 string                      `json:"date"`
	TotalAmount          string                      `json:"total_amount"`
	StatusID             uint                        `json:"status_id"`
	TypeID               uint                        `json:"type_id"`
	Description          string                      `json:"description"`
	Memo                 *string                     `json:"memo,omitempty"`
	CheckNumber          *int                        `json:"check_number,omitempty"`
	SourceAccountID      *uint                       `json:"source_account_id,omitempty"`
	DestinationAccountID *uint                       `json:"destination_account_id,omitempty"`
	ReminderID           *uint                       `json:"reminder_id,omitempty"`
	AddDate              string                      `json:"add_date"`
	EditDate             string                      `json:"edit_date"`
	Details              []TransactionDetailResponse `json:"details"`
}

// TransactionDetailResponse is one stored tag split.
type TransactionDetailResponse struct {
	ID         uint   `json:"id"`
	TagID      uint   `json:"tag_id"`
	DetailAmt  string `json:"detail_amt"`
	FullToggle bool   `json:"full_toggle"`
}

func toTransactionResponse(t *models.Transaction) TransactionResponse {
	details := make([]TransactionDetailResponse, 0, len(t.Details))
	for _, d := range t.Details {
		details = append(details, TransactionDetailResponse{
			ID:         d.ID,
			TagID:      d.TagID,
			DetailAmt:  d.DetailAmt.StringFixed(2),
			FullToggle: d.FullToggle,
		})
	}
	return TransactionResponse{
		ID:                   t.ID,
		Date:                 formatDate(t.Date),
		TotalAmount:          t.TotalAmount.StringFixed(2),
		StatusID:             t.StatusID,
		TypeID:               t.TypeID,
		Description:          t.Description,
		Memo:                 t.Memo,
		CheckNumber:          t.CheckNumber,
		SourceAccountID:      t.SourceAccountID,
		DestinationAccountID: t.DestinationAccountID,
		ReminderID:           t.ReminderID,
		AddDate:              formatDate(t.AddDate),
		EditDate:             formatDate(t.EditDate),
		Details:              details,
	}
}

// ListByAccount returns the composed cash flow of one account.
// @Summary     List an account's cash flow
// @Description Stored rows merged with reminder orbits and projected credit-card payments, balance-annotated. With forecast=false the newest rows come first.
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       account_id path int true "Account ID"
// @Param       forecast query bool false "Forecast mode: only rows from today forward"
// @Param       max_days query int false "Horizon in days (default 365)"
// @Param       page query int false "Page"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[EntryResponse]
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions/account/{account_id} [get]
func (h *TransactionHandler) ListByAccount(c *gin.Context) {
	accountID, err := parsePathID(c, "account_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	forecast, _ := strconv.ParseBool(c.DefaultQuery("forecast", "false"))
	maxDays, err := strconv.Atoi(c.DefaultQuery("max_days", "365"))
	if err != nil || maxDays < 1 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid max_days"))
		return
	}

	endDate := h.clock.Today().AddDate(0, 0, maxDays)
	entries, previous, err := h.cashFlowService.ListByAccount(accountID, endDate, services.ComposeOptions{
		Forecast: forecast,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !forecast {
		// Account pages read newest-first.
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}
	resp := pagination.Slice(toEntryResponses(entries), page)
	c.JSON(http.StatusOK, gin.H{
		"transactions":     resp,
		"previous_balance": previous.StringFixed(2),
	})
}

// ListByTag returns stored rows carrying a tag, with each row's tag share.
// @Summary     List transactions by tag
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       tag_id path int true "Tag ID"
// @Param       page query int false "Page"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[EntryResponse]
// @Router      /transactions/tag/{tag_id} [get]
func (h *TransactionHandler) ListByTag(c *gin.Context) {
	tagID, err := parsePathID(c, "tag_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	entries, err := h.cashFlowService.ListByTag(tagID, h.clock.Today())
	if err != nil {
		respondWithError(c, err)
		return
	}
	// Newest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	c.JSON(http.StatusOK, pagination.Slice(toEntryResponses(entries), page))
}

// GetTransaction returns one stored transaction.
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       transaction_id path int true "Transaction ID"
// @Success     200 {object} TransactionResponse
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{transaction_id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, err := parsePathID(c, "transaction_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	txn, err := h.transactionService.Get(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": toTransactionResponse(txn)})
}

// CreateTransaction creates a transaction with its tag splits.
// @Summary     Create a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} TransactionResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}
	txn, err := h.transactionService.Create(input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": toTransactionResponse(txn)})
}

// UpdateTransaction replaces a transaction and its tag splits.
// @Summary     Update a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       transaction_id path int true "Transaction ID"
// @Param       request body TransactionRequest true "Transaction details"
// @Success     200 {object} TransactionResponse
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{transaction_id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	id, err := parsePathID(c, "transaction_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}
	txn, err := h.transactionService.Update(id, input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": toTransactionResponse(txn)})
}

// DeleteTransaction deletes a transaction and its splits.
// @Summary     Delete a transaction
// @Tags        transactions
// @Security    BearerAuth
// @Param       transaction_id path int true "Transaction ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{transaction_id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id, err := parsePathID(c, "transaction_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.transactionService.Delete(id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearTransaction toggles a transaction between pending and cleared.
// @Summary     Toggle a transaction's cleared state
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       transaction_id path int true "Transaction ID"
// @Success     200 {object} TransactionResponse
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{transaction_id}/clear [post]
func (h *TransactionHandler) ClearTransaction(c *gin.Context) {
	id, err := parsePathID(c, "transaction_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	txn, err := h.transactionService.Clear(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": toTransactionResponse(txn)})
}
