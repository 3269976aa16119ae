package dto

import (
	"github.com/google/uuid"

	"github.com/Conte777/TrackFlow/internal/domain"
	channelentities "github.com/Conte777/TrackFlow/internal/domain/channel/entities"
)

// RecordVisitRequest is sent by the mini-app when it is opened from a link
type RecordVisitRequest struct {
	ShortCode      string            `json:"shortCode" validate:"required,len=8,alphanum"`
	SessionToken   string            `json:"sessionToken" validate:"max=4096"`
	ExternalUserID domain.ExternalID `json:"externalUserId" validate:"max=64"`
	Username       string            `json:"username" validate:"max=255"`
	Platform       string            `json:"platform" validate:"required,oneof=telegram max"`
}

// RecordVisitResponse tells the mini-app which pixels to fire
type RecordVisitResponse struct {
	VisitID         uuid.UUID                       `json:"visitId"`
	Platform        domain.Platform                 `json:"platform"`
	AnalyticsConfig channelentities.AnalyticsConfig `json:"analyticsConfig"`
}
