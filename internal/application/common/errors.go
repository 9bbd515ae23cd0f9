// Package common holds helpers shared by application services.
package common

import (
	"errors"

	"github.com/studyforge/studyforge/internal/application/usage"
	"github.com/studyforge/studyforge/internal/domain/account"
	"github.com/studyforge/studyforge/internal/domain/plan"
	apperrors "github.com/studyforge/studyforge/internal/shared/errors"
)

// ToAppError converts account, plan and quota sentinels into AppErrors that
// keep the sentinel as their cause. AppErrors pass through unchanged and
// anything else becomes an opaque storage failure.
func ToAppError(err error) error {
	if err == nil {
		return nil
	}
	if apperrors.IsAppError(err) {
		return err
	}

	switch {
	case errors.Is(err, account.ErrAccountNotFound):
		return apperrors.NewNotFoundError("Account not found").WithCause(err)
	case errors.Is(err, plan.ErrUnknownTier):
		return apperrors.NewNotFoundError("Unknown plan tier").WithCause(err)
	case errors.Is(err, usage.ErrQuotaExceeded):
		return apperrors.NewQuotaExceededError("Request quota exceeded, upgrade to premium for unlimited requests").WithCause(err)
	case errors.Is(err, account.ErrEmailTaken):
		return apperrors.NewConflictError("Email already registered").WithCause(err)
	case errors.Is(err, account.ErrInvalidEmail):
		return apperrors.NewValidationError("Invalid email address").WithCause(err)
	default:
		return apperrors.NewInternalError("Storage operation failed").WithCause(err)
	}
}
