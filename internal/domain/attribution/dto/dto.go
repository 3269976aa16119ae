package dto

import (
	"github.com/google/uuid"

	"github.com/Conte777/TrackFlow/internal/domain"
)

// SubscribeRequest is sent by the mini-app after the user subscribed
type SubscribeRequest struct {
	ShortCode      string            `json:"shortCode" validate:"required,len=8,alphanum"`
	SessionToken   string            `json:"sessionToken" validate:"max=4096"`
	ExternalUserID domain.ExternalID `json:"externalUserId" validate:"max=64"`
	Username       string            `json:"username" validate:"max=255"`
	VisitID        *uuid.UUID        `json:"visitId"`
	Platform       string            `json:"platform" validate:"required,oneof=telegram max"`
}

// CheckSubscriptionResponse answers GET /check-subscription
type CheckSubscriptionResponse struct {
	Subscribed bool `json:"subscribed"`
}
