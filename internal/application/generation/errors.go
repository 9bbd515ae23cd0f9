package generation

import (
	"context"
	"errors"

	"github.com/studyforge/studyforge/internal/application/common"
	apperrors "github.com/studyforge/studyforge/internal/shared/errors"
)

var (
	ErrProviderError             = errors.New("generative provider failed")
	ErrProviderTimeout           = errors.New("generative provider timed out")
	ErrMalformedProviderResponse = errors.New("malformed provider response")
	ErrStorage                   = errors.New("storage failure")
)

func providerFailure(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrProviderTimeout) {
		return apperrors.NewProviderTimeoutError("The content provider did not answer in time").
			WithCause(errors.Join(ErrProviderTimeout, err))
	}
	return apperrors.NewProviderError("The content provider failed to generate a response").
		WithCause(errors.Join(ErrProviderError, err))
}

func malformed(err error) error {
	return apperrors.NewMalformedResponseError("The content provider returned an unusable response", err.Error()).
		WithCause(errors.Join(ErrMalformedProviderResponse, err))
}

func storageFailure(err error) error {
	return apperrors.NewInternalError("Failed to store generated content").
		WithCause(errors.Join(ErrStorage, err))
}

func accountFailure(err error) error {
	return common.ToAppError(err)
}
