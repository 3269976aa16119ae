package entities

import "time"

// AnalyticsConfig holds the external pixel ids a mini-app fires on open
type AnalyticsConfig struct {
	YandexMetrikaID string `json:"yandexMetrikaId,omitempty"`
	VKPixelID       string `json:"vkPixelId,omitempty"`
}

// Channel is a Telegram channel the bot administers. ID is the Telegram chat id.
type Channel struct {
	ID              int64           `gorm:"primaryKey;autoIncrement:false"`
	OwnerID         *int64          `gorm:"index"`
	Title           string          `gorm:"type:varchar(255);not null;default:''"`
	Username        string          `gorm:"type:varchar(255);not null;default:''"`
	AnalyticsConfig AnalyticsConfig `gorm:"type:jsonb;serializer:json;not null"`
	IsActive        bool            `gorm:"not null"`
	MaxChatID       *int64          `gorm:"uniqueIndex"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (Channel) TableName() string {
	return "channels"
}
