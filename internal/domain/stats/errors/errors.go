package errors

import (
	pkgerrors "github.com/Conte777/TrackFlow/pkg/errors"
)

var (
	ErrInvalidDimension = pkgerrors.NewValidationError("dimension must be one of: source, medium, campaign, content, term")
	ErrInvalidRange     = pkgerrors.NewValidationError("from must not be after to and the range must not exceed 366 days")
	ErrInvalidChannel   = pkgerrors.NewValidationError("channelId must be an integer")
	ErrInvalidTime      = pkgerrors.NewValidationError("from and to must be RFC3339 timestamps or YYYY-MM-DD dates")
)
