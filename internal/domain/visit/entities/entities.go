package entities

import (
	"time"

	"github.com/google/uuid"

	"github.com/Conte777/TrackFlow/internal/domain"
)

// Visit is one mini-app open of a tracking link. Rows are never updated.
// LinkID becomes NULL when the link is deleted; the UTM copy survives.
type Visit struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	LinkID         *int64     `gorm:"index"`
	ChannelID      int64      `gorm:"not null;index:idx_visits_identity,priority:1"`
	Platform       string     `gorm:"type:varchar(16);not null;index:idx_visits_identity,priority:2"`
	ExternalUserID string     `gorm:"type:varchar(64);not null;default:'';index:idx_visits_identity,priority:3"`
	Username       string     `gorm:"type:varchar(255);not null;default:''"`
	UTM            domain.UTM `gorm:"embedded;embeddedPrefix:utm_"`
	IP             string     `gorm:"column:ip;type:varchar(64);not null;default:''"`
	UserAgent      string     `gorm:"type:text;not null;default:''"`
	CreatedAt      time.Time  `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (Visit) TableName() string {
	return "visits"
}
