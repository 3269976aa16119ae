package errors

import (
	pkgerrors "github.com/Conte777/TrackFlow/pkg/errors"
)

var (
	ErrInvalidShortCode   = pkgerrors.NewValidationError("shortCode: must be 8 alphanumeric characters")
	ErrInvalidPlatform    = pkgerrors.NewValidationError("platform: must be telegram or max")
	ErrCodeSpaceExhausted = pkgerrors.NewInternalError("could not allocate a unique short code")
)
