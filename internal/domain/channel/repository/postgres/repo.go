package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Conte777/TrackFlow/internal/domain"
	"github.com/Conte777/TrackFlow/internal/domain/channel/deps"
	"github.com/Conte777/TrackFlow/internal/domain/channel/entities"
	channelerrors "github.com/Conte777/TrackFlow/internal/domain/channel/errors"
	"github.com/Conte777/TrackFlow/internal/infrastructure/database"
)

type channelRepository struct {
	db *gorm.DB
}

// NewRepository creates a new channel repository
func NewRepository(db *gorm.DB) deps.ChannelRepository {
	return &channelRepository{db: db}
}

// GetByID loads a channel regardless of its activity
func (r *channelRepository) GetByID(ctx context.Context, id int64) (*entities.Channel, error) {
	var ch entities.Channel
	if err := r.db.WithContext(ctx).First(&ch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("channel %d: %w", id, domain.ErrUnknownChannel)
		}
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	return &ch, nil
}

// GetByMaxChatID loads the channel bound to a MAX chat
func (r *channelRepository) GetByMaxChatID(ctx context.Context, maxChatID int64) (*entities.Channel, error) {
	var ch entities.Channel
	if err := r.db.WithContext(ctx).First(&ch, "max_chat_id = ?", maxChatID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("max chat %d: %w", maxChatID, domain.ErrUnknownChannel)
		}
		return nil, fmt.Errorf("failed to get channel by max chat: %w", err)
	}
	return &ch, nil
}

// Upsert keeps owner_id untouched when the event carries no owner
func (r *channelRepository) Upsert(ctx context.Context, ch *entities.Channel) error {
	updates := []string{"title", "username", "is_active", "updated_at"}
	if ch.OwnerID != nil {
		updates = append(updates, "owner_id")
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(updates),
		}).
		Create(ch).Error
	if err != nil {
		return fmt.Errorf("failed to upsert channel: %w", err)
	}
	return nil
}

// Deactivate soft-deletes the channel
func (r *channelRepository) Deactivate(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Channel{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to deactivate channel: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// SetMaxChatID binds a MAX chat; a chat already bound elsewhere is a conflict
func (r *channelRepository) SetMaxChatID(ctx context.Context, id, maxChatID int64) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Channel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"max_chat_id": maxChatID,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		if database.IsUniqueViolation(result.Error) {
			return channelerrors.ErrMaxChatTaken
		}
		return fmt.Errorf("failed to set max chat: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("channel %d: %w", id, domain.ErrUnknownChannel)
	}
	return nil
}

// SetAnalyticsConfig replaces the analytics config
func (r *channelRepository) SetAnalyticsConfig(ctx context.Context, id int64, cfg entities.AnalyticsConfig) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Channel{ID: id}).
		Select("analytics_config", "updated_at").
		Updates(&entities.Channel{AnalyticsConfig: cfg, UpdatedAt: time.Now().UTC()})
	if result.Error != nil {
		return fmt.Errorf("failed to set analytics config: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("channel %d: %w", id, domain.ErrUnknownChannel)
	}
	return nil
}
