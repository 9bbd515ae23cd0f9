package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/studyforge/studyforge/internal/shared/errors"
)

type registerInput struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	Tags     []string `json:"tags" validate:"max=2"`
}

func TestValidateStruct(t *testing.T) {
	err := ValidateStruct(registerInput{Email: "nope", Password: "short", Tags: []string{"a", "b", "c"}})
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	assert.Contains(t, appErr.Details, "email must be a valid email address")
	assert.Contains(t, appErr.Details, "password must be at least 8 characters long")
	assert.Contains(t, appErr.Details, "tags must have at most 2 items")

	assert.NoError(t, ValidateStruct(registerInput{Email: "a@b.co", Password: "longenough"}))
}

func TestDescribeValidationError_Nil(t *testing.T) {
	assert.Equal(t, "", DescribeValidationError(nil))
}
