package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
)

// translateDBError maps store failures onto the error taxonomy: duplicate
// keys become "already exists", other constraint violations become integrity
// errors, anything else is internal.
func translateDBError(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "unique constraint"),
		strings.Contains(msg, "unique failed"),
		strings.Contains(msg, "constraint failed: unique"):
		return apperrors.Wrap(apperrors.ErrAlreadyExists, err)
	case strings.Contains(msg, "constraint"):
		return apperrors.Wrap(apperrors.ErrIntegrity, err)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// notFound maps gorm's record-not-found onto a sentinel, passing other
// errors through as internal.
func notFound(err error, sentinel *apperrors.AppError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
