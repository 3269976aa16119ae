package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Conte777/TrackFlow/internal/domain"
	"github.com/Conte777/TrackFlow/internal/domain/link/deps"
	"github.com/Conte777/TrackFlow/internal/domain/link/entities"
)

type linkRepository struct {
	db *gorm.DB
}

// NewRepository creates a new link repository
func NewRepository(db *gorm.DB) deps.LinkRepository {
	return &linkRepository{db: db}
}

type resolutionRow struct {
	LinkID          int64
	ShortCode       string
	ChannelID       int64
	ChannelTitle    string
	ChannelUsername string
	ChannelActive   bool
	UtmSource       string
	UtmMedium       string
	UtmCampaign     string
	UtmContent      string
	UtmTerm         string
	AnalyticsConfig string
}

// Resolve loads the link and its channel in one query
func (r *linkRepository) Resolve(ctx context.Context, shortCode string) (*entities.Resolution, error) {
	var rows []resolutionRow
	err := r.db.WithContext(ctx).
		Table("tracking_links AS l").
		Select(`l.id AS link_id, l.short_code, l.channel_id,
			c.title AS channel_title, c.username AS channel_username, c.is_active AS channel_active,
			l.utm_source, l.utm_medium, l.utm_campaign, l.utm_content, l.utm_term,
			c.analytics_config`).
		Joins("JOIN channels AS c ON c.id = l.channel_id").
		Where("l.short_code = ?", shortCode).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve link: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("link %s: %w", shortCode, domain.ErrUnknownLink)
	}

	row := rows[0]
	res := &entities.Resolution{
		LinkID:          row.LinkID,
		ShortCode:       row.ShortCode,
		ChannelID:       row.ChannelID,
		ChannelTitle:    row.ChannelTitle,
		ChannelUsername: row.ChannelUsername,
		ChannelActive:   row.ChannelActive,
		UTM: domain.UTM{
			Source:   row.UtmSource,
			Medium:   row.UtmMedium,
			Campaign: row.UtmCampaign,
			Content:  row.UtmContent,
			Term:     row.UtmTerm,
		},
	}

	if row.AnalyticsConfig != "" {
		if err := json.Unmarshal([]byte(row.AnalyticsConfig), &res.AnalyticsConfig); err != nil {
			return nil, fmt.Errorf("failed to decode analytics config of channel %d: %w", row.ChannelID, err)
		}
	}

	return res, nil
}

// InsertIfAbsent inserts the link unless its short code is taken
func (r *linkRepository) InsertIfAbsent(ctx context.Context, link *entities.TrackingLink) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "short_code"}},
			DoNothing: true,
		}).
		Create(link)
	if result.Error != nil {
		return false, fmt.Errorf("failed to insert link: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Delete hard-deletes the link and returns the removed row
func (r *linkRepository) Delete(ctx context.Context, shortCode string) (*entities.TrackingLink, error) {
	var link entities.TrackingLink
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&link, "short_code = ?", shortCode).Error; err != nil {
			return err
		}
		return tx.Delete(&link).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("link %s: %w", shortCode, domain.ErrUnknownLink)
		}
		return nil, fmt.Errorf("failed to delete link: %w", err)
	}
	return &link, nil
}
