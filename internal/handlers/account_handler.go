package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"moneta/internal/clock"
	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/services"
)

// AccountHandler handles account-related requests.
type AccountHandler struct {
	accountService  services.AccountService
	cashFlowService services.CashFlowService
	clock           clock.Clock
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountService, cashFlowService services.CashFlowService, clk clock.Clock) *AccountHandler {
	return &AccountHandler{accountService: accountService, cashFlowService: cashFlowService, clock: clk}
}

// AccountRequest represents the request payload for creating or updating an
// account.
type AccountRequest struct {
	Name                 string  `json:"name" binding:"required,min=1,max=100"`
	AccountTypeID        uint    `json:"account_type_id" binding:"required"`
	BankID               uint    `json:"bank_id" binding:"required"`
	OpeningBalance       string  `json:"opening_balance"`
	APY                  string  `json:"apy"`
	CreditLimit          string  `json:"credit_limit"`
	OpenDate             string  `json:"open_date" binding:"required"`
	Active               bool    `json:"active"`
	DueDate              *string `json:"due_date"`
	NextCycleDate        *string `json:"next_cycle_date"`
	StatementCycleLength int     `json:"statement_cycle_length" binding:"gte=0"`
	StatementCyclePeriod string  `json:"statement_cycle_period" binding:"cycle_period"`
	LastStatementAmount  string  `json:"last_statement_amount"`
	FundingAccountID     *uint   `json:"funding_account_id"`
	CalculatePayments    bool    `json:"calculate_payments"`
}

// AccountResponse represents an account in the response.
type AccountResponse struct {
	ID                   uint    `json:"id"`
	Name                 string  `json:"name"`
	AccountTypeID        uint    `json:"account_type_id"`
	AccountType          string  `json:"account_type"`
	BankID               uint    `json:"bank_id"`
	Bank                 string  `json:"bank"`
	OpeningBalance       string  `json:"opening_balance"`
	ArchiveBalance       string  `json:"archive_balance"`
	APY                  string  `json:"apy"`
	CreditLimit          string  `json:"credit_limit"`
	OpenDate             string  `json:"open_date"`
	Active               bool    `json:"active"`
	DueDate              *string `json:"due_date,omitempty"`
	NextCycleDate        *string `json:"next_cycle_date,omitempty"`
	StatementCycleLength int     `json:"statement_cycle_length"`
	StatementCyclePeriod string  `json:"statement_cycle_period"`
	LastStatementAmount  string  `json:"last_statement_amount"`
	FundingAccountID     *uint   `json:"funding_account_id,omitempty"`
	CalculatePayments    bool    `json:"calculate_payments"`
}

func toAccountResponse(a *models.Account) AccountResponse {
	return AccountResponse{
		ID:                   a.ID,
		Name:                 a.Name,
		AccountTypeID:        a.AccountTypeID,
		AccountType:          a.AccountType.Name,
		BankID:               a.BankID,
		Bank:                 a.Bank.Name,
		OpeningBalance:       a.OpeningBalance.StringFixed(2),
		ArchiveBalance:       a.ArchiveBalance.StringFixed(2),
		APY:                  a.APY.StringFixed(2),
		CreditLimit:          a.CreditLimit.StringFixed(2),
		OpenDate:             formatDate(a.OpenDate),
		Active:               a.Active,
		DueDate:              formatOptionalDate(a.DueDate),
		NextCycleDate:        formatOptionalDate(a.NextCycleDate),
		StatementCycleLength: a.StatementCycleLength,
		StatementCyclePeriod: a.StatementCyclePeriod,
		LastStatementAmount:  a.LastStatementAmount.StringFixed(2),
		FundingAccountID:     a.FundingAccountID,
		CalculatePayments:    a.CalculatePayments,
	}
}

func (r *AccountRequest) toInput() (services.AccountInput, error) {
	openDate, err := parseDate(r.OpenDate)
	if err != nil {
		return services.AccountInput{}, err
	}
	dueDate, err := parseOptionalDate(r.DueDate)
	if err != nil {
		return services.AccountInput{}, err
	}
	nextCycleDate, err := parseOptionalDate(r.NextCycleDate)
	if err != nil {
		return services.AccountInput{}, err
	}
	opening, err := parseAmount(r.OpeningBalance)
	if err != nil {
		return services.AccountInput{}, err
	}
	apy, err := parseAmount(r.APY)
	if err != nil {
		return services.AccountInput{}, err
	}
	creditLimit, err := parseAmount(r.CreditLimit)
	if err != nil {
		return services.AccountInput{}, err
	}
	lastStatement, err := parseAmount(r.LastStatementAmount)
	if err != nil {
		return services.AccountInput{}, err
	}
	return services.AccountInput{
		Name:                 r.Name,
		AccountTypeID:        r.AccountTypeID,
		BankID:               r.BankID,
		OpeningBalance:       opening,
		APY:                  apy,
		CreditLimit:          creditLimit,
		OpenDate:             openDate,
		Active:               r.Active,
		DueDate:              dueDate,
		NextCycleDate:        nextCycleDate,
		StatementCycleLength: r.StatementCycleLength,
		StatementCyclePeriod: r.StatementCyclePeriod,
		LastStatementAmount:  lastStatement,
		FundingAccountID:     r.FundingAccountID,
		CalculatePayments:    r.CalculatePayments,
	}, nil
}

// parseAmount parses a decimal wire string; empty means zero.
func parseAmount(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"Invalid amount '"+value+"'")
	}
	return d, nil
}

// ListAccounts returns all accounts.
// @Summary     List accounts
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       active query bool false "Only active accounts"
// @Success     200 {array} AccountResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active", "false"))
	accounts, err := h.accountService.List(activeOnly)
	if err != nil {
		respondWithError(c, err)
		return
	}
	out := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, toAccountResponse(&accounts[i]))
	}
	c.JSON(http.StatusOK, gin.H{"accounts": out})
}

// GetAccount returns one account.
// @Summary     Get an account
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       account_id path int true "Account ID"
// @Success     200 {object} AccountResponse
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /accounts/{account_id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	id, err := parsePathID(c, "account_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	account, err := h.accountService.Get(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": toAccountResponse(account)})
}

// CreateAccount creates an account.
// @Summary     Create an account
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AccountRequest true "Account details"
// @Success     201 {object} AccountResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}
	account, err := h.accountService.Create(input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"account": toAccountResponse(account)})
}

// UpdateAccount updates an account.
// @Summary     Update an account
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       account_id path int true "Account ID"
// @Param       request body AccountRequest true "Account details"
// @Success     200 {object} AccountResponse
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /accounts/{account_id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	id, err := parsePathID(c, "account_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}
	account, err := h.accountService.Update(id, input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": toAccountResponse(account)})
}

// DeleteAccount deletes an account and its non-transfer transactions.
// @Summary     Delete an account
// @Tags        accounts
// @Security    BearerAuth
// @Param       account_id path int true "Account ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /accounts/{account_id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	id, err := parsePathID(c, "account_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.accountService.Delete(id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Chart styling for the forecast graph.
const (
	forecastBorderColor     = "#059669"
	forecastBackgroundColor = "rgba(5, 150, 105, 0.1)"
)

// ForecastDataset is one line on the forecast graph.
type ForecastDataset struct {
	Label           string   `json:"label"`
	Data            []string `json:"data"`
	BorderColor     string   `json:"borderColor"`
	BackgroundColor string   `json:"backgroundColor"`
	Fill            bool     `json:"fill"`
}

// ForecastResponse is the forecast graph payload: one label and one closing
// balance per day.
type ForecastResponse struct {
	Labels   []string          `json:"labels"`
	Datasets []ForecastDataset `json:"datasets"`
}

// Forecast returns the account's projected daily balances.
// @Summary     Forecast an account's balance
// @Description Daily closing balances from today over the requested number of days, including reminder orbits and projected credit-card payments.
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       account_id path int true "Account ID"
// @Param       days query int false "Days to project (default 30)"
// @Success     200 {object} ForecastResponse
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /accounts/forecast/{account_id} [get]
func (h *AccountHandler) Forecast(c *gin.Context) {
	id, err := parsePathID(c, "account_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	account, err := h.accountService.Get(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 1 || days > 730 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid days"))
		return
	}

	start := h.clock.Today()
	end := start.AddDate(0, 0, days)
	labels, balances, err := h.cashFlowService.ForecastSeries(account.ID, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}
	data := make([]string, 0, len(balances))
	for _, b := range balances {
		data = append(data, b.StringFixed(2))
	}
	c.JSON(http.StatusOK, ForecastResponse{
		Labels: labels,
		Datasets: []ForecastDataset{{
			Label:           account.Name,
			Data:            data,
			BorderColor:     forecastBorderColor,
			BackgroundColor: forecastBackgroundColor,
			Fill:            true,
		}},
	})
}
