package entities

import (
	"time"

	"github.com/Conte777/TrackFlow/internal/domain"
	channelentities "github.com/Conte777/TrackFlow/internal/domain/channel/entities"
)

// TrackingLink maps a short code to a channel and a UTM tuple. Links are
// never updated; they are created and hard-deleted.
type TrackingLink struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	ChannelID int64      `gorm:"not null;index"`
	ShortCode string     `gorm:"type:varchar(8);not null;uniqueIndex"`
	UTM       domain.UTM `gorm:"embedded;embeddedPrefix:utm_"`
	CreatedAt time.Time  `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (TrackingLink) TableName() string {
	return "tracking_links"
}

// Resolution is a link joined with its channel
type Resolution struct {
	LinkID          int64                           `json:"linkId"`
	ShortCode       string                          `json:"shortCode"`
	ChannelID       int64                           `json:"channelId"`
	ChannelTitle    string                          `json:"channelTitle"`
	ChannelUsername string                          `json:"channelUsername"`
	ChannelActive   bool                            `json:"channelActive"`
	UTM             domain.UTM                      `json:"utm"`
	AnalyticsConfig channelentities.AnalyticsConfig `json:"analyticsConfig"`
}
