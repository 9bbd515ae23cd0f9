package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyforge/studyforge/internal/application/usage"
	"github.com/studyforge/studyforge/internal/domain/account"
	"github.com/studyforge/studyforge/internal/domain/plan"
	apperrors "github.com/studyforge/studyforge/internal/shared/errors"
)

func TestToAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType apperrors.ErrorType
		wantCode int
	}{
		{"account not found", fmt.Errorf("load: %w", account.ErrAccountNotFound), apperrors.ErrorTypeNotFound, http.StatusNotFound},
		{"unknown tier", plan.ErrUnknownTier, apperrors.ErrorTypeNotFound, http.StatusNotFound},
		{"quota", usage.ErrQuotaExceeded, apperrors.ErrorTypeQuotaExceeded, http.StatusTooManyRequests},
		{"email taken", account.ErrEmailTaken, apperrors.ErrorTypeConflict, http.StatusConflict},
		{"driver error", errors.New("database is locked"), apperrors.ErrorTypeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToAppError(tt.err)
			appErr := apperrors.GetAppError(got)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantType, appErr.Type)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.True(t, errors.Is(got, tt.err))
		})
	}

	assert.Nil(t, ToAppError(nil))
	passthrough := apperrors.NewForbiddenError("no")
	assert.Same(t, passthrough, ToAppError(passthrough))
}
