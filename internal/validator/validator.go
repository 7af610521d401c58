// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("transaction_status", validateTransactionStatus)
		_ = v.RegisterValidation("cycle_period", validateCyclePeriod)
	}
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

// Type ids 1-3: expense, income, transfer.
func validateTransactionType(fl validator.FieldLevel) bool {
	id := fl.Field().Uint()
	return id >= 1 && id <= 3
}

// Status ids 1-4: pending, cleared, reconciled, archived.
func validateTransactionStatus(fl validator.FieldLevel) bool {
	id := fl.Field().Uint()
	return id >= 1 && id <= 4
}

func validateCyclePeriod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "d", "w", "m", "y", "":
		return true
	}
	return false
}
