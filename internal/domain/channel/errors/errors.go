package errors

import (
	pkgerrors "github.com/Conte777/TrackFlow/pkg/errors"
)

var (
	ErrMaxChatTaken     = pkgerrors.NewConflictError("max chat is already bound to another channel")
	ErrInvalidChannelID = pkgerrors.NewValidationError("invalid channel id")
)
