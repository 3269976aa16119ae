package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Conte777/TrackFlow/internal/domain/stats/deps"
	"github.com/Conte777/TrackFlow/internal/domain/stats/entities"
	statserrors "github.com/Conte777/TrackFlow/internal/domain/stats/errors"
)

type statsRepository struct {
	db *gorm.DB
}

// NewRepository creates a new stats repository
func NewRepository(db *gorm.DB) deps.StatsRepository {
	return &statsRepository{db: db}
}

// VisitCounts groups visits of the channel created in [q.From, q.To]
func (r *statsRepository) VisitCounts(ctx context.Context, q entities.Query) ([]entities.VisitCount, error) {
	column, ok := entities.Dimensions[q.Dimension]
	if !ok {
		return nil, statserrors.ErrInvalidDimension
	}

	var counts []entities.VisitCount
	err := r.db.WithContext(ctx).
		Table("visits").
		Select(r.utcDay("created_at") + " AS day, " + column + " AS value, COUNT(*) AS visits").
		Where("channel_id = ? AND created_at >= ? AND created_at <= ?", q.ChannelID, q.From, q.To).
		Group("1, 2").
		Order("1, 2").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count visits: %w", err)
	}
	return counts, nil
}

// SubscriptionCounts groups subscriptions of the channel made in [q.From, q.To]
func (r *statsRepository) SubscriptionCounts(ctx context.Context, q entities.Query) ([]entities.SubscriptionCount, error) {
	column, ok := entities.Dimensions[q.Dimension]
	if !ok {
		return nil, statserrors.ErrInvalidDimension
	}

	var counts []entities.SubscriptionCount
	err := r.db.WithContext(ctx).
		Table("subscriptions").
		Select(r.utcDay("subscribed_at") + " AS day, " + column + " AS value, " +
			"SUM(CASE WHEN visit_id IS NOT NULL THEN 1 ELSE 0 END) AS attributed, " +
			"SUM(CASE WHEN visit_id IS NULL THEN 1 ELSE 0 END) AS organic").
		Where("channel_id = ? AND subscribed_at >= ? AND subscribed_at <= ?", q.ChannelID, q.From, q.To).
		Group("1, 2").
		Order("1, 2").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return counts, nil
}

// utcDay renders a timestamp column as its YYYY-MM-DD UTC day. SQLite keeps
// timestamps as UTC text, so the date prefix is the day.
func (r *statsRepository) utcDay(column string) string {
	if r.db.Dialector.Name() == "sqlite" {
		return "substr(" + column + ", 1, 10)"
	}
	return "to_char(" + column + " AT TIME ZONE 'UTC', 'YYYY-MM-DD')"
}
