package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Conte777/TrackFlow/internal/domain/auth/deps"
	"github.com/Conte777/TrackFlow/internal/domain/auth/entities"
)

type userRepository struct {
	db *gorm.DB
}

// NewRepository creates a new user repository
func NewRepository(db *gorm.DB) deps.UserRepository {
	return &userRepository{db: db}
}

// Upsert inserts the user or refreshes its profile fields on (platform, external_id)
func (r *userRepository) Upsert(ctx context.Context, user *entities.User) (int64, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "platform"}, {Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "first_name", "last_name", "language_code", "updated_at"}),
		}).
		Create(user).Error
	if err != nil {
		return 0, fmt.Errorf("failed to upsert user: %w", err)
	}

	if user.ID != 0 {
		return user.ID, nil
	}

	var id int64
	err = r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("platform = ? AND external_id = ?", user.Platform, user.ExternalID).
		Pluck("id", &id).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load user id: %w", err)
	}
	return id, nil
}
