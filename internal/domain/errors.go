package domain

import (
	pkgerrors "github.com/Conte777/TrackFlow/pkg/errors"
)

var (
	// ErrInvalidSignature is returned when an HMAC or secret token does not match
	ErrInvalidSignature = pkgerrors.NewUnauthorizedError("invalid signature")
	// ErrStalePayload is returned when init data is older than the allowed age
	ErrStalePayload = pkgerrors.NewUnauthorizedError("stale payload")
	// ErrUnknownLink is returned for unknown short codes and links of inactive channels
	ErrUnknownLink = pkgerrors.NewNotFoundError("unknown link")
	// ErrUnknownChannel is returned for missing or inactive channels
	ErrUnknownChannel = pkgerrors.NewNotFoundError("unknown channel")
	// ErrUnknownPlatform is returned for platforms other than telegram and max
	ErrUnknownPlatform = pkgerrors.NewNotFoundError("unknown platform")
	// ErrUpstreamUnavailable is returned when a platform API cannot be reached
	ErrUpstreamUnavailable = pkgerrors.NewServiceUnavailableError("upstream unavailable")
	// ErrMalformedPayload is returned for payloads that cannot be parsed
	ErrMalformedPayload = pkgerrors.NewValidationError("malformed payload")
)
