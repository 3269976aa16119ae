package entities

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Conte777/TrackFlow/internal/domain"
)

// Outcome is what the matcher did with a join event
type Outcome string

const (
	OutcomeAttributed Outcome = "attributed"
	OutcomeOrganic    Outcome = "organic"
	OutcomeDuplicate  Outcome = "duplicate"
	OutcomeDropped    Outcome = "dropped"
)

// Created reports whether the outcome inserted a subscription
func (o Outcome) Created() bool {
	return o == OutcomeAttributed || o == OutcomeOrganic
}

// Subscription is the single record of a user joining a channel on a
// platform. VisitID is nil for organic subscriptions.
type Subscription struct {
	ID             int64      `gorm:"primaryKey;autoIncrement"`
	ChannelID      int64      `gorm:"not null;uniqueIndex:uq_subscriptions_identity,priority:1"`
	Platform       string     `gorm:"type:varchar(16);not null;uniqueIndex:uq_subscriptions_identity,priority:2"`
	ExternalUserID string     `gorm:"type:varchar(64);not null;uniqueIndex:uq_subscriptions_identity,priority:3"`
	Username       string     `gorm:"type:varchar(255);not null;default:''"`
	VisitID        *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_subscriptions_visit"`
	UTM            domain.UTM `gorm:"embedded;embeddedPrefix:utm_"`
	SubscribedAt   time.Time  `gorm:"not null"`
	CreatedAt      time.Time  `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (Subscription) TableName() string {
	return "subscriptions"
}

// SubscriptionCreated is published once per new subscription
type SubscriptionCreated struct {
	SubscriptionID int64      `json:"subscriptionId"`
	ChannelID      int64      `json:"channelId"`
	Platform       string     `json:"platform"`
	ExternalUserID string     `json:"externalUserId"`
	VisitID        *uuid.UUID `json:"visitId,omitempty"`
	UTM            domain.UTM `json:"utm"`
	SubscribedAt   time.Time  `json:"subscribedAt"`
}

// Key partitions events by channel
func (e *SubscriptionCreated) Key() string {
	return strconv.FormatInt(e.ChannelID, 10)
}

// NewSubscriptionCreated builds the event of a stored subscription
func NewSubscriptionCreated(s *Subscription) *SubscriptionCreated {
	return &SubscriptionCreated{
		SubscriptionID: s.ID,
		ChannelID:      s.ChannelID,
		Platform:       s.Platform,
		ExternalUserID: s.ExternalUserID,
		VisitID:        s.VisitID,
		UTM:            s.UTM,
		SubscribedAt:   s.SubscribedAt,
	}
}

// VisitQuery selects candidate visits for a join
type VisitQuery struct {
	ChannelID      int64
	Platform       string
	ExternalUserID string
	Username       string
	From           time.Time
	To             time.Time
}
