package errors

import (
	"errors"

	pkgerrors "github.com/Conte777/TrackFlow/pkg/errors"
)

var (
	// ErrVisitTaken is returned when the chosen visit was attributed to another subscription concurrently
	ErrVisitTaken = errors.New("visit already attributed")

	ErrMissingUserID = pkgerrors.NewValidationError("externalUserId is required")
	ErrInvalidQuery  = pkgerrors.NewValidationError("channel, externalUserId and platform are required")
)
