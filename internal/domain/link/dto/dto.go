package dto

import (
	"time"

	"github.com/Conte777/TrackFlow/internal/domain"
	channelentities "github.com/Conte777/TrackFlow/internal/domain/channel/entities"
)

// UTMPayload is the UTM tuple as accepted from admin requests
type UTMPayload struct {
	Source   string `json:"source" validate:"max=255"`
	Medium   string `json:"medium" validate:"max=255"`
	Campaign string `json:"campaign" validate:"max=255"`
	Content  string `json:"content" validate:"max=255"`
	Term     string `json:"term" validate:"max=255"`
}

// ToDomain converts the payload to a domain tuple
func (p UTMPayload) ToDomain() domain.UTM {
	return domain.UTM(p)
}

// CreateLinkRequest creates a tracking link
type CreateLinkRequest struct {
	ChannelID int64      `json:"channelId" validate:"required"`
	UTM       UTMPayload `json:"utm"`
}

// CreateLinkResponse is returned after link creation
type CreateLinkResponse struct {
	ShortCode string     `json:"shortCode"`
	ChannelID int64      `json:"channelId"`
	UTM       domain.UTM `json:"utm"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ChannelInfo is the public part of a channel
type ChannelInfo struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Username string `json:"username"`
}

// ResolveLinkResponse is returned by GET /link/{shortCode}
type ResolveLinkResponse struct {
	Channel         ChannelInfo                     `json:"channel"`
	Platform        domain.Platform                 `json:"platform"`
	UTM             domain.UTM                      `json:"utm"`
	AnalyticsConfig channelentities.AnalyticsConfig `json:"analyticsConfig"`
}
