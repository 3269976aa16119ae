package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Conte777/TrackFlow/internal/domain"
	"github.com/Conte777/TrackFlow/internal/domain/attribution/deps"
	"github.com/Conte777/TrackFlow/internal/domain/attribution/entities"
	attrerrors "github.com/Conte777/TrackFlow/internal/domain/attribution/errors"
	visitentities "github.com/Conte777/TrackFlow/internal/domain/visit/entities"
	"github.com/Conte777/TrackFlow/internal/infrastructure/database"
)

const unattributed = "NOT EXISTS (SELECT 1 FROM subscriptions AS s WHERE s.visit_id = v.id)"

type subscriptionRepository struct {
	db *gorm.DB
}

// NewRepository creates a new subscription repository
func NewRepository(db *gorm.DB) deps.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// candidates scopes visits to the channel, platform and window of q that no
// subscription references yet. Both window bounds are inclusive.
func (r *subscriptionRepository) candidates(ctx context.Context, q entities.VisitQuery) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("visits AS v").
		Select("v.*").
		Where("v.channel_id = ? AND v.platform = ?", q.ChannelID, q.Platform).
		Where("v.created_at >= ? AND v.created_at <= ?", q.From, q.To).
		Where(unattributed)
}

func (r *subscriptionRepository) latest(tx *gorm.DB) (*visitentities.Visit, error) {
	var visits []visitentities.Visit
	if err := tx.Order("v.created_at DESC, v.id DESC").Limit(1).Find(&visits).Error; err != nil {
		return nil, fmt.Errorf("failed to find visit: %w", err)
	}
	if len(visits) == 0 {
		return nil, nil
	}
	return &visits[0], nil
}

// LatestVisitByUserID returns the most recent candidate visit of the user
func (r *subscriptionRepository) LatestVisitByUserID(ctx context.Context, q entities.VisitQuery) (*visitentities.Visit, error) {
	if q.ExternalUserID == "" {
		return nil, nil
	}
	return r.latest(r.candidates(ctx, q).Where("v.external_user_id = ?", q.ExternalUserID))
}

// LatestVisitByUsername matches case-sensitively on visits without a user id
func (r *subscriptionRepository) LatestVisitByUsername(ctx context.Context, q entities.VisitQuery) (*visitentities.Visit, error) {
	if q.Username == "" {
		return nil, nil
	}
	return r.latest(r.candidates(ctx, q).
		Where("v.external_user_id = ''").
		Where("v.username = ?", q.Username))
}

// HintedVisit checks a caller-supplied visit against the candidate predicate
func (r *subscriptionRepository) HintedVisit(ctx context.Context, id uuid.UUID, q entities.VisitQuery) (*visitentities.Visit, error) {
	tx := r.candidates(ctx, q).Where("v.id = ?", id)
	if q.Username != "" {
		tx = tx.Where("(v.external_user_id = ? OR (v.external_user_id = '' AND v.username = ?))", q.ExternalUserID, q.Username)
	} else {
		tx = tx.Where("v.external_user_id = ?", q.ExternalUserID)
	}
	return r.latest(tx)
}

// InsertIfAbsent is a single conditional insert on the identity key
func (r *subscriptionRepository) InsertIfAbsent(ctx context.Context, s *entities.Subscription) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "channel_id"},
				{Name: "platform"},
				{Name: "external_user_id"},
			},
			DoNothing: true,
		}).
		Create(s)
	if result.Error != nil {
		if database.IsUniqueViolation(result.Error) {
			return false, attrerrors.ErrVisitTaken
		}
		return false, fmt.Errorf("failed to insert subscription: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// IsSubscribed reports whether a subscription is on record
func (r *subscriptionRepository) IsSubscribed(ctx context.Context, channelID int64, p domain.Platform, externalUserID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("channel_id = ? AND platform = ? AND external_user_id = ?", channelID, p.String(), externalUserID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return count > 0, nil
}
