package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/services"
)

// ReferenceHandler exposes the lookup vocabularies: banks, payees, account
// types, tag types, repeats, transaction types and statuses.
type ReferenceHandler struct {
	referenceService services.ReferenceService
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(referenceService services.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

// NameRequest is the payload for the name-only vocabularies.
type NameRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// AccountTypeRequest is the payload for account types.
type AccountTypeRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Color string `json:"color" binding:"omitempty,hex_color"`
	Icon  string `json:"icon" binding:"max=100"`
}

// RepeatRequest defines a repeat period. At least one component must be
// nonzero.
type RepeatRequest struct {
	Name   string `json:"name" binding:"required,min=1,max=100"`
	Days   int    `json:"days" binding:"gte=0"`
	Weeks  int    `json:"weeks" binding:"gte=0"`
	Months int    `json:"months" binding:"gte=0"`
	Years  int    `json:"years" binding:"gte=0"`
}

// ListBanks lists banks.
// @Summary     List banks
// @Tags        reference
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Bank
// @Router      /banks [get]
func (h *ReferenceHandler) ListBanks(c *gin.Context) {
	banks, err := h.referenceService.ListBanks()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"banks": banks})
}

// CreateBank creates a bank.
// @Summary     Create a bank
// @Tags        reference
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body NameRequest true "Bank name"
// @Success     201 {object} models.Bank
// @Failure     400 {object} ErrorResponse "Duplicate name"
// @Router      /banks [post]
func (h *ReferenceHandler) CreateBank(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	bank, err := h.referenceService.CreateBank(req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"bank": bank})
}

// UpdateBank renames a bank.
// @Summary     Update a bank
// @Tags        reference
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       bank_id path int true "Bank ID"
// @Param       request body NameRequest true "Bank name"
// @Success     200 {object} models.Bank
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /banks/{bank_id} [put]
func (h *ReferenceHandler) UpdateBank(c *gin.Context) {
	id, err := parsePathID(c, "bank_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	bank, err := h.referenceService.UpdateBank(id, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bank": bank})
}

// DeleteBank removes a bank with no accounts.
// @Summary     Delete a bank
// @Tags        reference
// @Security    BearerAuth
// @Param       bank_id path int true "Bank ID"
// @Success     204 "Deleted"
// @Failure     400 {object} ErrorResponse "Bank still referenced"
// @Router      /banks/{bank_id} [delete]
func (h *ReferenceHandler) DeleteBank(c *gin.Context) {
	id, err := parsePathID(c, "bank_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.referenceService.DeleteBank(id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPayees lists payees.
// @Summary     List payees
// @Tags        reference
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Payee
// @Router      /payees [get]
func (h *ReferenceHandler) ListPayees(c *gin.Context) {
	payees, err := h.referenceService.ListPayees()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payees": payees})
}

// CreatePayee creates a payee.
// @Summary     Create a payee
// @Tags        reference
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body NameRequest true "Payee name"
// @Success     201 {object} models.Payee
// @Failure     400 {object} ErrorResponse "Duplicate name"
// @Router      /payees [post]
func (h *ReferenceHandler) CreatePayee(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	payee, err := h.referenceService.CreatePayee(req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payee": payee})
}

// DeletePayee removes a payee.
// @Summary     Delete a payee
// @Tags        reference
// @Security    BearerAuth
// @Param       payee_id path int true "Payee ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /payees/{payee_id} [delete]
func (h *ReferenceHandler) DeletePayee(c *gin.Context) {
	id, err := parsePathID(c, "payee_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.referenceService.DeletePayee(id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListAccountTypes lists account types.
// @Summary     List account types
// @Tags        reference
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.AccountType
// @Router      /account-types [get]
func (h *ReferenceHandler) ListAccountTypes(c *gin.Context) {
	types, err := h.referenceService.ListAccountTypes()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account_types": types})
}

// CreateAccountType creates an account type.
// @Summary     Create an account type
// @Tags        reference
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AccountTypeRequest true "Account type"
// @Success     201 {object} models.AccountType
// @Failure     400 {object} ErrorResponse "Duplicate name"
// @Router      /account-types [post]
func (h *ReferenceHandler) CreateAccountType(c *gin.Context) {
	var req AccountTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	at, err := h.referenceService.CreateAccountType(req.Name, req.Color, req.Icon)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"account_type": at})
}

// UpdateAccountType updates an account type.
// @Summary     Update an account type
// @Tags        reference
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       account_type_id path int true "Account type ID"
// @Param       request body AccountTypeRequest true "Account type"
// @Success     200 {object} models.AccountType
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /account-types/{account_type_id} [put]
func (h *ReferenceHandler) UpdateAccountType(c *gin.Context) {
	id, err := parsePathID(c, "account_type_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req AccountTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	at, err := h.referenceService.UpdateAccountType(id, req.Name, req.Color, req.Icon)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account_type": at})
}

// ListTagTypes lists tag types.
// @Summary     List tag types
// @Tags        reference
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.TagType
// @Router      /tag-types [get]
func (h *ReferenceHandler) ListTagTypes(c *gin.Context) {
	types, err := h.referenceService.ListTagTypes()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tag_types": types})
}

// CreateTagType creates a tag type.
// @Summary     Create a tag type
// @Tags        reference
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body NameRequest true "Tag type"
// @Success     201 {object} models.TagType
// @Failure     400 {object} ErrorResponse "Duplicate name"
// @Router      /tag-types [post]
func (h *ReferenceHandler) CreateTagType(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	tt, err := h.referenceService.CreateTagType(req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tag_type": tt})
}

// ListMainTags lists main tags.
// @Summary     List main tags
// @Tags        reference
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.MainTag
// @Router      /tags/main [get]
func (h *ReferenceHandler) ListMainTags(c *gin.Context) {
	tags, err := h.referenceService.ListMainTags()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"main_tags": tags})
}

// ListSubTags lists sub tags.
// @Summary     List sub tags
// @Tags        reference
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.SubTag
// @Router      /tags/sub [get]
func (h *ReferenceHandler) ListSubTags(c *gin.Context) {
	tags, err := h.referenceService.ListSubTags()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sub_tags": tags})
}

// ListRepeats lists repeat periods.
// @Summary     List repeats
// @Tags        reference
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Repeat
// @Router      /repeats [get]
func (h *ReferenceHandler) ListRepeats(c *gin.Context) {
	repeats, err := h.referenceService.ListRepeats()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"repeats": repeats})
}

// CreateRepeat creates a repeat period.
// @Summary     Create a repeat
// @Tags        reference
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RepeatRequest true "Repeat period"
// @Success     201 {object} models.Repeat
// @Failure     400 {object} ErrorResponse "Zero period"
// @Router      /repeats [post]
func (h *ReferenceHandler) CreateRepeat(c *gin.Context) {
	var req RepeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	repeat, err := h.referenceService.CreateRepeat(services.RepeatInput{
		Name:   req.Name,
		Days:   req.Days,
		Weeks:  req.Weeks,
		Months: req.Months,
		Years:  req.Years,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"repeat": repeat})
}

// ListTransactionTypes lists the transaction type vocabulary.
// @Summary     List transaction types
// @Tags        reference
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.TransactionType
// @Router      /transaction-types [get]
func (h *ReferenceHandler) ListTransactionTypes(c *gin.Context) {
	types, err := h.referenceService.ListTransactionTypes()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction_types": types})
}

// ListTransactionStatuses lists the transaction status vocabulary.
// @Summary     List transaction statuses
// @Tags        reference
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.TransactionStatus
// @Router      /transaction-statuses [get]
func (h *ReferenceHandler) ListTransactionStatuses(c *gin.Context) {
	statuses, err := h.referenceService.ListTransactionStatuses()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction_statuses": statuses})
}
